package analysis

import "context"

// Store port: bounded, in-memory window of recent analyses.
// Eviction is strictly oldest-inserted-first; reads never promote.
type Store interface {
	Put(rec *AnalysisRecord)
	Get(id ID) (*AnalysisRecord, error)
	ListRecent(limit int) []*AnalysisRecord
	Len() int
}

// Extractor port: converts artifact bytes into plain text by declared
// media type, or returns an *ExtractionError.
type Extractor interface {
	Extract(ctx context.Context, data []byte, mediaType, filename string) (string, error)
}

// Reasoner port: one stateless call to the external reasoning service for the
// given contract text. Returns the raw reply text; no retries, no session
// state.
type Reasoner interface {
	Analyze(ctx context.Context, text, language string) (string, error)
	// Configured reports whether credentials are present (for health probes).
	Configured() bool
}

// ArtifactArchive port: optional best-effort copy of the uploaded original
// to object storage before the local scratch file is removed.
type ArtifactArchive interface {
	Upload(ctx context.Context, localPath, key string) (string, error)
}

package analysis

import (
	"context"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"

	"github.com/contractshield/contractshield/internal/application"
	domain "github.com/contractshield/contractshield/internal/domain/analysis"
	"github.com/contractshield/contractshield/internal/infra/ai/normalize"
)

// MinExtractedChars is the minimum trimmed length of usable contract text.
// Anything shorter (a blank scan, a stray word) is rejected as unreadable.
const MinExtractedChars = 10

// Service implements the analysis use-cases: validate input, extract text,
// call the reasoning service, normalize the reply, and store the record.
// Reasoning and normalization failures are downgraded to a canned fallback
// result; input and extraction failures abort hard without storing anything.
//
// Service is designed to be used concurrently and is thread-safe.
type Service struct {
	Extractor domain.Extractor
	Reasoner  domain.Reasoner
	Store     domain.Store
	Archive   domain.ArtifactArchive // optional; nil disables archiving
	Clock     application.Clock
}

// Command for the upload path. LocalPath is a scratch file staged by the
// transport layer; the service removes it on every exit path.
type AnalyzeUploadCommand struct {
	LocalPath string
	Filename  string
	MediaType string
	Language  string
}

// Command for the direct text path.
type AnalyzeTextCommand struct {
	Text     string
	Language string
}

type AnalyzeResult struct {
	ID          string                  `json:"id"`
	SourceLabel string                  `json:"sourceLabel"`
	Analysis    domain.NormalizedResult `json:"analysis"`
}

// AnalyzeUpload runs the full artifact pipeline:
// extract → reason → normalize → store.
func (s *Service) AnalyzeUpload(ctx context.Context, cmd AnalyzeUploadCommand) (AnalyzeResult, error) {
	if cmd.LocalPath == "" {
		return AnalyzeResult{}, domain.ErrNoInput
	}
	// Scratch files never outlive the request, success or failure. Removal
	// failure must not mask the primary result.
	defer func() {
		if err := os.Remove(cmd.LocalPath); err != nil && !os.IsNotExist(err) {
			log.Printf("warning: failed to remove scratch file %s: %v", cmd.LocalPath, err)
		}
	}()

	data, err := os.ReadFile(cmd.LocalPath)
	if err != nil {
		return AnalyzeResult{}, domain.NewExtractionError("uploaded file could not be read", err)
	}

	text, err := s.Extractor.Extract(ctx, data, cmd.MediaType, cmd.Filename)
	if err != nil {
		return AnalyzeResult{}, err
	}

	s.archiveArtifact(ctx, cmd.LocalPath, cmd.Filename)

	return s.analyze(ctx, text, cmd.Language, cmd.Filename)
}

// AnalyzeText runs the pipeline for pasted text (no extraction stage).
func (s *Service) AnalyzeText(ctx context.Context, cmd AnalyzeTextCommand) (AnalyzeResult, error) {
	if strings.TrimSpace(cmd.Text) == "" {
		return AnalyzeResult{}, domain.ErrNoInput
	}
	return s.analyze(ctx, cmd.Text, cmd.Language, domain.SourceText)
}

func (s *Service) analyze(ctx context.Context, text, language, sourceLabel string) (AnalyzeResult, error) {
	if len(strings.TrimSpace(text)) < MinExtractedChars {
		return AnalyzeResult{}, domain.ErrNoExtractableText
	}

	result := s.reason(ctx, text, language)

	id := domain.ID(uuid.New().String())
	rec := &domain.AnalysisRecord{
		ID:          id,
		CreatedAt:   s.Clock.Now(),
		SourceLabel: sourceLabel,
		Result:      result,
	}
	s.Store.Put(rec)

	return AnalyzeResult{
		ID:          string(id),
		SourceLabel: sourceLabel,
		Analysis:    result,
	}, nil
}

// reason calls the reasoning service and normalizes its reply. Every failure
// on this path is absorbed into the fallback result: a user-facing analysis
// should never show a bare error screen when the reasoning service hiccups.
func (s *Service) reason(ctx context.Context, text, language string) domain.NormalizedResult {
	raw, err := s.Reasoner.Analyze(ctx, text, language)
	if err != nil {
		log.Printf("reasoning service failed, serving fallback result: %v", err)
		return domain.FallbackResult()
	}

	result, err := normalize.Normalize(raw)
	if err != nil {
		log.Printf("reasoning reply unusable, serving fallback result: %v", err)
		return domain.FallbackResult()
	}
	return result
}

// archiveArtifact copies the original upload to object storage when an
// archive is configured. Best effort: an archive failure is a warning, never
// a failed analysis.
func (s *Service) archiveArtifact(ctx context.Context, localPath, filename string) {
	if s.Archive == nil {
		return
	}
	key := fmt.Sprintf("uploads/%s-%s", uuid.New().String(), filepath.Base(filename))
	if _, err := s.Archive.Upload(ctx, localPath, key); err != nil {
		log.Printf("warning: artifact archive upload failed for %s: %v", filename, err)
	}
}

// Get returns a stored analysis by id.
func (s *Service) Get(id string) (*domain.AnalysisRecord, error) {
	return s.Store.Get(domain.ID(id))
}

// Recent returns the newest stored analyses, newest first.
func (s *Service) Recent(limit int) []*domain.AnalysisRecord {
	return s.Store.ListRecent(limit)
}

// ReasonerConfigured reports whether reasoning credentials are present.
func (s *Service) ReasonerConfigured() bool {
	return s.Reasoner != nil && s.Reasoner.Configured()
}

// StoredCount returns how many analyses are currently retained.
func (s *Service) StoredCount() int {
	return s.Store.Len()
}

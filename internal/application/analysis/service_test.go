package analysis

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	domain "github.com/contractshield/contractshield/internal/domain/analysis"
	"github.com/contractshield/contractshield/internal/infra/store"
)

const contractSample = `EMPLOYMENT AGREEMENT between Acme (Pty) Ltd and the Employee.
1. The Employee may be terminated with 24 hours notice.
2. Salary is paid monthly within 7 days of month end.
3. The Employee may not work for a competitor for 24 months.`

const validReply = `{
	"score": 64,
	"overview": "Mostly fair, but the termination clause is concerning.",
	"analysis": [
		{"icon": "alert-triangle", "title": "Harsh Termination", "description": "24 hour notice is below statutory minimums", "severity": "high", "details": "Negotiate a notice period of at least four weeks."}
	],
	"redFlags": ["24-month non-compete"]
}`

type fixedClock struct{ t time.Time }

func (c fixedClock) Now() time.Time { return c.t }

type fakeReasoner struct {
	reply      string
	err        error
	calls      int
	gotText    string
	configured bool
}

func (f *fakeReasoner) Analyze(_ context.Context, text, _ string) (string, error) {
	f.calls++
	f.gotText = text
	return f.reply, f.err
}

func (f *fakeReasoner) Configured() bool { return f.configured }

type fakeExtractor struct {
	text string
	err  error
}

func (f *fakeExtractor) Extract(_ context.Context, _ []byte, _, _ string) (string, error) {
	return f.text, f.err
}

type fakeArchive struct {
	keys []string
	err  error
}

func (f *fakeArchive) Upload(_ context.Context, _, key string) (string, error) {
	f.keys = append(f.keys, key)
	return "http://archive/" + key, f.err
}

func newService(r *fakeReasoner, e *fakeExtractor) (*Service, *store.Memory) {
	st := store.NewMemory(20)
	return &Service{
		Extractor: e,
		Reasoner:  r,
		Store:     st,
		Clock:     fixedClock{t: time.Date(2026, 8, 1, 12, 0, 0, 0, time.UTC)},
	}, st
}

func stageFile(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "upload.pdf")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func TestAnalyzeText_Success(t *testing.T) {
	reasoner := &fakeReasoner{reply: validReply}
	svc, st := newService(reasoner, &fakeExtractor{})

	res, err := svc.AnalyzeText(context.Background(), AnalyzeTextCommand{Text: contractSample, Language: "en"})
	require.NoError(t, err)

	assert.NotEmpty(t, res.ID)
	assert.Equal(t, domain.SourceText, res.SourceLabel)
	assert.Equal(t, 64, res.Analysis.Score)
	assert.Equal(t, domain.ConfidenceFull, res.Analysis.Confidence)
	require.NotEmpty(t, res.Analysis.Analysis)
	assert.Equal(t, contractSample, reasoner.gotText)

	// Round trip: the stored record carries the identical result.
	rec, err := st.Get(domain.ID(res.ID))
	require.NoError(t, err)
	assert.Equal(t, res.Analysis, rec.Result)
	assert.Equal(t, domain.SourceText, rec.SourceLabel)
}

func TestAnalyzeText_EmptyInput(t *testing.T) {
	svc, st := newService(&fakeReasoner{}, &fakeExtractor{})
	_, err := svc.AnalyzeText(context.Background(), AnalyzeTextCommand{Text: "   \n "})
	assert.ErrorIs(t, err, domain.ErrNoInput)
	assert.Zero(t, st.Len())
}

func TestAnalyzeText_TooShort(t *testing.T) {
	reasoner := &fakeReasoner{reply: validReply}
	svc, st := newService(reasoner, &fakeExtractor{})

	_, err := svc.AnalyzeText(context.Background(), AnalyzeTextCommand{Text: "short"})
	assert.ErrorIs(t, err, domain.ErrNoExtractableText)
	assert.Zero(t, st.Len(), "no record stored on rejection")
	assert.Zero(t, reasoner.calls, "reasoning service must not be called")
}

func TestAnalyzeText_FallbackOnUnparseableReply(t *testing.T) {
	svc, st := newService(&fakeReasoner{reply: "not json"}, &fakeExtractor{})

	res, err := svc.AnalyzeText(context.Background(), AnalyzeTextCommand{Text: contractSample})
	require.NoError(t, err, "reasoning problems are downgraded, never hard errors")

	assert.Equal(t, domain.FallbackResult(), res.Analysis)
	assert.Equal(t, domain.ConfidenceDegraded, res.Analysis.Confidence)
	assert.Contains(t, res.Analysis.Overview, "reduced confidence")
	assert.GreaterOrEqual(t, res.Analysis.Score, 50)
	assert.LessOrEqual(t, res.Analysis.Score, 55)
	assert.Equal(t, 1, st.Len(), "fallback results are stored like any other")
}

func TestAnalyzeText_FallbackOnReasonerError(t *testing.T) {
	svc, _ := newService(&fakeReasoner{err: errors.New("connection refused")}, &fakeExtractor{})

	res, err := svc.AnalyzeText(context.Background(), AnalyzeTextCommand{Text: contractSample})
	require.NoError(t, err)
	assert.Equal(t, domain.ConfidenceDegraded, res.Analysis.Confidence)
}

func TestAnalyzeUpload_Success(t *testing.T) {
	svc, st := newService(&fakeReasoner{reply: validReply}, &fakeExtractor{text: contractSample})
	path := stageFile(t, "%PDF-1.4 ...")

	res, err := svc.AnalyzeUpload(context.Background(), AnalyzeUploadCommand{
		LocalPath: path,
		Filename:  "offer.pdf",
		MediaType: "application/pdf",
	})
	require.NoError(t, err)
	assert.Equal(t, "offer.pdf", res.SourceLabel)
	assert.Equal(t, 1, st.Len())

	_, statErr := os.Stat(path)
	assert.True(t, os.IsNotExist(statErr), "scratch file must be removed after the run")
}

func TestAnalyzeUpload_ExtractionFailureIsHard(t *testing.T) {
	extractErr := domain.NewExtractionError("PDF may be corrupted or encrypted", errors.New("bad xref"))
	svc, st := newService(&fakeReasoner{reply: validReply}, &fakeExtractor{err: extractErr})
	path := stageFile(t, "garbage")

	_, err := svc.AnalyzeUpload(context.Background(), AnalyzeUploadCommand{
		LocalPath: path,
		Filename:  "broken.pdf",
		MediaType: "application/pdf",
	})
	require.Error(t, err)
	var xerr *domain.ExtractionError
	assert.ErrorAs(t, err, &xerr)
	assert.Zero(t, st.Len())

	_, statErr := os.Stat(path)
	assert.True(t, os.IsNotExist(statErr), "scratch file must be removed on failure too")
}

func TestAnalyzeUpload_EmptyExtractedText(t *testing.T) {
	svc, st := newService(&fakeReasoner{reply: validReply}, &fakeExtractor{text: "  \n\t "})
	path := stageFile(t, "scan bytes")

	_, err := svc.AnalyzeUpload(context.Background(), AnalyzeUploadCommand{
		LocalPath: path,
		Filename:  "blank-scan.png",
		MediaType: "image/png",
	})
	assert.ErrorIs(t, err, domain.ErrNoExtractableText)
	assert.Zero(t, st.Len())
}

func TestAnalyzeUpload_MissingPath(t *testing.T) {
	svc, _ := newService(&fakeReasoner{}, &fakeExtractor{})
	_, err := svc.AnalyzeUpload(context.Background(), AnalyzeUploadCommand{})
	assert.ErrorIs(t, err, domain.ErrNoInput)
}

func TestAnalyzeUpload_ArchiveIsBestEffort(t *testing.T) {
	archive := &fakeArchive{err: errors.New("bucket unavailable")}
	svc, _ := newService(&fakeReasoner{reply: validReply}, &fakeExtractor{text: contractSample})
	svc.Archive = archive
	path := stageFile(t, "%PDF-1.4 ...")

	res, err := svc.AnalyzeUpload(context.Background(), AnalyzeUploadCommand{
		LocalPath: path,
		Filename:  "offer.pdf",
		MediaType: "application/pdf",
	})
	require.NoError(t, err, "archive failure must not fail the analysis")
	assert.NotEmpty(t, res.ID)
	require.Len(t, archive.keys, 1)
	assert.Contains(t, archive.keys[0], "offer.pdf")
}

func TestRecentAndGet(t *testing.T) {
	svc, _ := newService(&fakeReasoner{reply: validReply}, &fakeExtractor{})

	res, err := svc.AnalyzeText(context.Background(), AnalyzeTextCommand{Text: contractSample})
	require.NoError(t, err)

	rec, err := svc.Get(res.ID)
	require.NoError(t, err)
	assert.Equal(t, res.Analysis, rec.Result)

	_, err = svc.Get("unknown-id")
	assert.ErrorIs(t, err, domain.ErrNotFound)

	assert.Len(t, svc.Recent(10), 1)
}

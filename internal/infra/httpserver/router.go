package httpserver

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log"
	"net/http"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/cors"

	appanalysis "github.com/contractshield/contractshield/internal/application/analysis"
	domain "github.com/contractshield/contractshield/internal/domain/analysis"
	"github.com/contractshield/contractshield/internal/middleware"
)

// Options configure the transport layer.
type Options struct {
	// UploadDir is the scratch location for staged uploads.
	UploadDir string
	// MaxUploadBytes caps the request body on the upload endpoint.
	MaxUploadBytes int64
	// RateLimit wraps the analyze endpoints; nil disables limiting.
	RateLimit func(http.Handler) http.Handler
}

type Router struct {
	svc            *appanalysis.Service
	uploadDir      string
	maxUploadBytes int64
}

func NewRouter(svc *appanalysis.Service, opts Options) http.Handler {
	if opts.UploadDir == "" {
		opts.UploadDir = "uploads"
	}
	if opts.MaxUploadBytes <= 0 {
		opts.MaxUploadBytes = 15 << 20 // 15MB
	}
	r := &Router{svc: svc, uploadDir: opts.UploadDir, maxUploadBytes: opts.MaxUploadBytes}

	mux := chi.NewRouter()
	mux.Use(cors.Handler(cors.Options{
		AllowedOrigins: []string{"*"},
		AllowedMethods: []string{"GET", "POST"},
		AllowedHeaders: []string{"Accept", "Content-Type"},
	}))
	mux.Use(middleware.LoggingMiddleware)
	mux.Use(middleware.MetricsMiddleware)

	mux.Get("/", func(w http.ResponseWriter, _ *http.Request) {
		w.Write([]byte("ContractShield backend is running."))
	})
	mux.Get("/api", func(w http.ResponseWriter, _ *http.Request) {
		w.Write([]byte("Welcome to the ContractShield backend API."))
	})
	mux.Get("/api/health", r.handleHealth)
	mux.Get("/api/metrics", middleware.MetricsHandler)
	mux.Get("/api/analyses/recent", r.wrap(r.handleRecent))
	mux.Get("/api/analyses/{id}", r.wrap(r.handleGet))

	mux.Group(func(g chi.Router) {
		if opts.RateLimit != nil {
			g.Use(opts.RateLimit)
		}
		g.Post("/api/analyze/upload", r.wrap(r.handleAnalyzeUpload))
		g.Post("/api/analyze/text", r.wrap(r.handleAnalyzeText))
	})

	return mux
}

type handlerFunc func(http.ResponseWriter, *http.Request) error

// wrap maps domain failures to client-facing responses. Input and extraction
// problems are client errors with short actionable messages; anything
// unexpected is logged in full and reported generically.
func (r *Router) wrap(h handlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, req *http.Request) {
		err := h(w, req)
		if err == nil {
			return
		}

		var xerr *domain.ExtractionError
		switch {
		case errors.Is(err, domain.ErrNoInput),
			errors.Is(err, domain.ErrUnsupportedMediaType),
			errors.Is(err, domain.ErrNoExtractableText):
			writeError(w, http.StatusBadRequest, err.Error())
		case errors.As(err, &xerr):
			writeError(w, http.StatusBadRequest, xerr.Error())
		case errors.Is(err, domain.ErrNotFound):
			writeError(w, http.StatusNotFound, domain.ErrNotFound.Error())
		default:
			log.Printf("internal error handling %s %s: %v", req.Method, req.URL.Path, err)
			writeError(w, http.StatusInternalServerError, "internal server error")
		}
	}
}

type analyzeResponse struct {
	Success     bool                    `json:"success"`
	ID          string                  `json:"id"`
	Analysis    domain.NormalizedResult `json:"analysis"`
	SourceLabel string                  `json:"sourceLabel"`
}

// POST /api/analyze/upload
// Multipart body: "file" attachment plus optional "language" field.
func (r *Router) handleAnalyzeUpload(w http.ResponseWriter, req *http.Request) error {
	req.Body = http.MaxBytesReader(w, req.Body, r.maxUploadBytes)

	file, header, err := req.FormFile("file")
	if err != nil {
		var maxErr *http.MaxBytesError
		if errors.As(err, &maxErr) {
			writeError(w, http.StatusRequestEntityTooLarge, "file exceeds the 15MB upload limit")
			return nil
		}
		return domain.ErrNoInput
	}
	defer file.Close()

	mediaType := header.Header.Get("Content-Type")
	if err := middleware.ValidateMediaType(mediaType); err != nil {
		return domain.ErrUnsupportedMediaType
	}

	localPath, err := r.stageUpload(file, header.Filename)
	if err != nil {
		return fmt.Errorf("staging upload: %w", err)
	}

	res, err := r.svc.AnalyzeUpload(req.Context(), appanalysis.AnalyzeUploadCommand{
		LocalPath: localPath,
		Filename:  header.Filename,
		MediaType: mediaType,
		Language:  middleware.ValidateLanguage(req.FormValue("language")),
	})
	if err != nil {
		return err
	}

	countAnalysis(res)
	return writeJSON(w, http.StatusOK, analyzeResponse{
		Success:     true,
		ID:          res.ID,
		Analysis:    res.Analysis,
		SourceLabel: res.SourceLabel,
	})
}

// POST /api/analyze/text
// Body: {"text": "...", "language": "en"}
func (r *Router) handleAnalyzeText(w http.ResponseWriter, req *http.Request) error {
	var body struct {
		Text     string `json:"text"`
		Language string `json:"language"`
	}
	if err := json.NewDecoder(req.Body).Decode(&body); err != nil {
		return domain.ErrNoInput
	}

	res, err := r.svc.AnalyzeText(req.Context(), appanalysis.AnalyzeTextCommand{
		Text:     body.Text,
		Language: middleware.ValidateLanguage(body.Language),
	})
	if err != nil {
		return err
	}

	countAnalysis(res)
	return writeJSON(w, http.StatusOK, analyzeResponse{
		Success:     true,
		ID:          res.ID,
		Analysis:    res.Analysis,
		SourceLabel: res.SourceLabel,
	})
}

// GET /api/analyses/recent?limit=10
func (r *Router) handleRecent(w http.ResponseWriter, req *http.Request) error {
	limit, _ := strconv.Atoi(req.URL.Query().Get("limit"))
	records := r.svc.Recent(middleware.ValidateLimit(limit))
	return writeJSON(w, http.StatusOK, records)
}

// GET /api/analyses/{id}
func (r *Router) handleGet(w http.ResponseWriter, req *http.Request) error {
	rec, err := r.svc.Get(chi.URLParam(req, "id"))
	if err != nil {
		return err
	}
	return writeJSON(w, http.StatusOK, map[string]any{"analysis": rec.Result})
}

// GET /api/health
// Reports liveness and credential presence only, never credential values.
func (r *Router) handleHealth(w http.ResponseWriter, _ *http.Request) {
	_ = writeJSON(w, http.StatusOK, map[string]any{
		"status":        "OK",
		"timestamp":     time.Now(),
		"analysesCount": r.svc.StoredCount(),
		"groq":          r.svc.ReasonerConfigured(),
	})
}

// stageUpload writes the attachment to a scratch file. The application
// service owns its removal on every exit path.
func (r *Router) stageUpload(file io.Reader, filename string) (string, error) {
	if err := os.MkdirAll(r.uploadDir, 0o755); err != nil {
		return "", err
	}
	name := fmt.Sprintf("%d-%s", time.Now().UnixNano(), middleware.SanitizeFilename(filename))
	dst := filepath.Join(r.uploadDir, name)

	out, err := os.Create(dst)
	if err != nil {
		return "", err
	}
	if _, err := io.Copy(out, file); err != nil {
		out.Close()
		os.Remove(dst)
		return "", err
	}
	if err := out.Close(); err != nil {
		os.Remove(dst)
		return "", err
	}
	return dst, nil
}

func countAnalysis(res appanalysis.AnalyzeResult) {
	middleware.IncrementAnalyses()
	if res.Analysis.Confidence == domain.ConfidenceDegraded {
		middleware.IncrementAnalysesFallback()
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) error {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	return json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(map[string]string{"error": msg})
}

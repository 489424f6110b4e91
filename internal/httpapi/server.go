// Package httpapi exposes the review engine over HTTP: upload procurement
// PDFs, poll status, fetch results and rendered reports.
package httpapi

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log"
	"net/http"
	"os"
	"path/filepath"
	"strings"

	"github.com/itgov-review/rfpcheck/internal/checklist"
	"github.com/itgov-review/rfpcheck/internal/export"
	"github.com/itgov-review/rfpcheck/internal/reconcile"
	"github.com/itgov-review/rfpcheck/internal/review"
	"github.com/itgov-review/rfpcheck/internal/store"
)

// ReviewRunner executes one review over extracted PDFs. The production
// implementation wraps the LLM pipeline; tests substitute their own.
type ReviewRunner interface {
	Run(ctx context.Context, project string, pdfPaths []string, mode checklist.GroupStrategy) (review.RunResult, error)
}

type Server struct {
	runner    ReviewRunner
	archive   *store.Store
	jobs      *JobStore
	uploadDir string
	renderer  export.PDFRenderer
}

func NewServer(runner ReviewRunner, archive *store.Store, uploadDir string) http.Handler {
	return newServer(runner, archive, uploadDir, export.NewChromiumPDFRenderer())
}

func newServer(runner ReviewRunner, archive *store.Store, uploadDir string, renderer export.PDFRenderer) http.Handler {
	s := &Server{
		runner:    runner,
		archive:   archive,
		jobs:      NewJobStore(),
		uploadDir: uploadDir,
		renderer:  renderer,
	}
	mux := http.NewServeMux()
	mux.HandleFunc("/submit", s.handleSubmit)
	mux.HandleFunc("/status/", s.handleStatus)
	mux.HandleFunc("/results/", s.handleResults)
	mux.HandleFunc("/report/", s.handleReport)
	mux.HandleFunc("/report-pdf/", s.handleReportPDF)
	mux.HandleFunc("/runs", s.handleRuns)
	mux.HandleFunc("/health", s.handleHealth)
	return mux
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]any{"error": msg})
}

func (s *Server) handleSubmit(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}
	if err := r.ParseMultipartForm(64 << 20); err != nil {
		writeError(w, 400, "invalid multipart form")
		return
	}

	project := strings.TrimSpace(r.FormValue("project"))
	mode := checklist.GroupStrategy(strings.TrimSpace(r.FormValue("mode")))
	if mode == "" {
		mode = checklist.StrategySplit
	}
	switch mode {
	case checklist.StrategySingle, checklist.StrategySplit, checklist.StrategyPerItem:
	default:
		writeError(w, 400, "unknown mode")
		return
	}

	files := r.MultipartForm.File["file"]
	if len(files) == 0 {
		writeError(w, 400, "at least one file is required")
		return
	}

	job := s.jobs.Create(project, string(mode))
	dir := filepath.Join(s.uploadDir, job.Token)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		writeError(w, 500, "failed to create upload directory")
		return
	}
	var paths []string
	for _, header := range files {
		src, err := header.Open()
		if err != nil {
			writeError(w, 400, "failed to read uploaded file")
			return
		}
		dst := filepath.Join(dir, filepath.Base(header.Filename))
		out, err := os.Create(dst)
		if err != nil {
			src.Close()
			writeError(w, 500, "failed to save uploaded file")
			return
		}
		if _, err := io.Copy(out, src); err != nil {
			out.Close()
			src.Close()
			writeError(w, 500, "failed to write uploaded file")
			return
		}
		out.Close()
		src.Close()
		paths = append(paths, dst)
	}

	// The review outlives the upload request.
	go s.runReview(job.Token, project, paths, mode)

	writeJSON(w, 202, map[string]any{"token": job.Token, "status": StatusQueued})
}

func (s *Server) runReview(token, project string, paths []string, mode checklist.GroupStrategy) {
	s.jobs.MarkExecuting(token)
	run, err := s.runner.Run(context.Background(), project, paths, mode)
	if err != nil {
		log.Printf("review %s failed: %v", token, err)
		s.jobs.MarkError(token, err.Error())
		return
	}
	if err := s.archive.SaveRun(run); err != nil {
		log.Printf("review %s save failed: %v", token, err)
		s.jobs.MarkError(token, "failed to persist run")
		return
	}
	s.jobs.MarkCompleted(token, run.RunID)
}

func (s *Server) handleStatus(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}
	job, ok := s.jobs.Get(strings.TrimPrefix(r.URL.Path, "/status/"))
	if !ok {
		writeError(w, 404, "unknown token")
		return
	}
	writeJSON(w, 200, job)
}

func (s *Server) handleResults(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}
	run, comps, ok := s.loadRun(w, strings.TrimPrefix(r.URL.Path, "/results/"))
	if !ok {
		return
	}
	writeJSON(w, 200, map[string]any{"run": run, "comparisons": comps})
}

func (s *Server) handleReport(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}
	run, comps, ok := s.loadRun(w, strings.TrimPrefix(r.URL.Path, "/report/"))
	if !ok {
		return
	}
	reply, err := s.archive.Reply(run.RunID)
	if err != nil && !errors.Is(err, store.ErrNotFound) {
		writeError(w, 500, "failed to load reply")
		return
	}
	w.Header().Set("Content-Type", "text/markdown; charset=utf-8")
	_, _ = io.WriteString(w, export.BuildReport(run, comps, reply))
}

func (s *Server) handleReportPDF(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}
	run, comps, ok := s.loadRun(w, strings.TrimPrefix(r.URL.Path, "/report-pdf/"))
	if !ok {
		return
	}
	reply, err := s.archive.Reply(run.RunID)
	if err != nil && !errors.Is(err, store.ErrNotFound) {
		writeError(w, 500, "failed to load reply")
		return
	}
	pdf, err := s.renderer.Render(r.Context(), export.BuildReport(run, comps, reply))
	if err != nil {
		log.Printf("render pdf: %v", err)
		writeError(w, 500, "failed to render pdf")
		return
	}
	w.Header().Set("Content-Type", "application/pdf")
	w.Header().Set("Content-Disposition", `attachment; filename="report.pdf"`)
	_, _ = w.Write(pdf)
}

func (s *Server) handleRuns(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}
	runs, err := s.archive.ListRuns()
	if err != nil {
		writeError(w, 500, "failed to list runs")
		return
	}
	if runs == nil {
		runs = []store.RunSummary{}
	}
	writeJSON(w, 200, map[string]any{"runs": runs})
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, 200, map[string]any{"status": "ok"})
}

// loadRun resolves a path id that may be a job token or a run id directly,
// and writes the error response itself on failure.
func (s *Server) loadRun(w http.ResponseWriter, id string) (review.RunResult, []reconcile.Comparison, bool) {
	runID := id
	if job, ok := s.jobs.Get(id); ok {
		if job.Status != StatusCompleted {
			writeError(w, 409, "review not completed")
			return review.RunResult{}, nil, false
		}
		runID = job.RunID
	}
	run, err := s.archive.GetRun(runID)
	if errors.Is(err, store.ErrNotFound) {
		writeError(w, 404, "unknown run")
		return review.RunResult{}, nil, false
	}
	if err != nil {
		writeError(w, 500, "failed to load run")
		return review.RunResult{}, nil, false
	}
	comps, err := s.archive.Comparisons(runID)
	if err != nil {
		writeError(w, 500, "failed to load comparisons")
		return review.RunResult{}, nil, false
	}
	return run, comps, true
}

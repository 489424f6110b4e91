// Command rfpcheck reviews government IT procurement documents against the
// checklist catalog, reconciles pre-review forms, and serves the results.
package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/itgov-review/rfpcheck/internal/checklist"
	"github.com/itgov-review/rfpcheck/internal/config"
	"github.com/itgov-review/rfpcheck/internal/export"
	"github.com/itgov-review/rfpcheck/internal/extract"
	"github.com/itgov-review/rfpcheck/internal/httpapi"
	"github.com/itgov-review/rfpcheck/internal/llm"
	"github.com/itgov-review/rfpcheck/internal/precheck"
	"github.com/itgov-review/rfpcheck/internal/reconcile"
	"github.com/itgov-review/rfpcheck/internal/review"
	"github.com/itgov-review/rfpcheck/internal/store"
	"github.com/itgov-review/rfpcheck/internal/telemetry"
)

// version is set at build time via -ldflags "-X main.version=x.y.z".
var version = "dev"

// exitErr carries a numeric exit code through the cobra error path.
type exitErr struct {
	code int
	msg  string
}

func (e *exitErr) Error() string { return e.msg }

func codeError(code int, format string, args ...any) error {
	return &exitErr{code: code, msg: fmt.Sprintf(format, args...)}
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	root := &cobra.Command{
		Use:     "rfpcheck",
		Short:   "Checklist review of IT procurement RFP and contract documents",
		Version: version,
	}
	root.PersistentFlags().String("config", "", "Path to YAML configuration")

	root.AddCommand(newReviewCmd(), newCompareCmd(), newExportCmd(), newRenderPDFCmd(), newServeCmd())

	if err := root.ExecuteContext(ctx); err != nil {
		var ee *exitErr
		if errors.As(err, &ee) {
			fmt.Fprintln(os.Stderr, "Error:", ee.msg)
			os.Exit(ee.code)
		}
		os.Exit(1)
	}
}

func loadConfig(cmd *cobra.Command) (config.Config, error) {
	path, _ := cmd.Flags().GetString("config")
	cfg, err := config.Load(path)
	if err != nil {
		return config.Config{}, codeError(3, "%v", err)
	}
	return cfg, nil
}

// pipelineRunner wires extraction and the LLM judgment pass together. It
// backs both the review command and the HTTP service.
type pipelineRunner struct {
	cfg      config.Config
	registry *checklist.Registry
}

func (r *pipelineRunner) Run(ctx context.Context, project string, pdfPaths []string, mode checklist.GroupStrategy) (review.RunResult, error) {
	docs, err := extract.ExtractAll(ctx, pdfPaths)
	if err != nil {
		return review.RunResult{}, err
	}
	caller, err := llm.NewAnthropicCallerFromEnv(r.cfg.Model, review.SystemPrompt)
	if err != nil {
		return review.RunResult{}, err
	}
	pipe := review.NewPipeline(r.registry, review.NewLLMJudge(llm.NewExecutor(caller)))
	return pipe.RunWithProgress(ctx, project, mode, extract.Corpus(docs), func(batch, message string) {
		log.Printf("batch %s: %s", batch, message)
	})
}

func newReviewCmd() *cobra.Command {
	var project string
	var mode string
	var draftReply bool
	cmd := &cobra.Command{
		Use:   "review <pdf>...",
		Short: "Run the checklist review over procurement PDFs",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(cmd)
			if err != nil {
				return err
			}
			if mode != "" {
				cfg.Mode = mode
			}
			runner := &pipelineRunner{cfg: cfg, registry: checklist.Default()}
			run, err := runner.Run(cmd.Context(), project, args, checklist.GroupStrategy(cfg.Mode))
			if err != nil {
				return codeError(1, "review failed: %v", err)
			}

			archive, err := store.Open(cfg.DatabasePath)
			if err != nil {
				return codeError(1, "open database: %v", err)
			}
			defer archive.Close()
			if err := archive.SaveRun(run); err != nil {
				return codeError(1, "save run: %v", err)
			}

			reply := ""
			if draftReply {
				caller, err := llm.NewAnthropicCallerFromEnv(cfg.Model, review.ReplySystemPrompt())
				if err != nil {
					return codeError(1, "%v", err)
				}
				reply, err = review.DraftReply(cmd.Context(), caller, run.Records)
				if err != nil {
					return codeError(1, "draft reply: %v", err)
				}
				if err := archive.SaveReply(run.RunID, reply); err != nil {
					return codeError(1, "save reply: %v", err)
				}
			}

			fmt.Fprintln(cmd.OutOrStdout(), export.BuildReport(run, nil, reply))
			fmt.Fprintf(cmd.ErrOrStderr(), "run %s saved to %s\n", run.RunID, cfg.DatabasePath)
			return nil
		},
	}
	cmd.Flags().StringVar(&project, "project", "", "Project name recorded with the run")
	cmd.Flags().StringVar(&mode, "mode", "", "Batch grouping: single, split, or per-item")
	cmd.Flags().BoolVar(&draftReply, "draft-reply", false, "Draft a correction reply for 未提及/部分符合 items")
	return cmd
}

func newCompareCmd() *cobra.Command {
	var runID string
	cmd := &cobra.Command{
		Use:   "compare <precheck-pdf>",
		Short: "Reconcile a pre-review checklist form against a stored run",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(cmd)
			if err != nil {
				return err
			}
			if runID == "" {
				return codeError(3, "--run is required")
			}

			archive, err := store.Open(cfg.DatabasePath)
			if err != nil {
				return codeError(1, "open database: %v", err)
			}
			defer archive.Close()
			run, err := archive.GetRun(runID)
			if err != nil {
				return codeError(1, "load run %s: %v", runID, err)
			}

			doc, err := extract.ExtractPDF(cmd.Context(), args[0])
			if err != nil {
				return codeError(1, "extract precheck form: %v", err)
			}
			caller, err := llm.NewAnthropicCallerFromEnv(cfg.Model, precheck.ExtractSystemPrompt())
			if err != nil {
				return codeError(1, "%v", err)
			}
			records, _, err := precheck.Extract(cmd.Context(), llm.NewExecutor(caller), doc.Text)
			if err != nil {
				return codeError(1, "parse precheck form: %v", err)
			}

			engine := reconcile.New(checklist.Default(), cfg.FuzzyThreshold)
			comps := engine.Reconcile(run.Records, records)
			if err := archive.SaveComparisons(runID, comps); err != nil {
				return codeError(1, "save comparisons: %v", err)
			}

			if err := export.WriteComparisonsCSV(cmd.OutOrStdout(), comps); err != nil {
				return codeError(1, "write csv: %v", err)
			}
			return nil
		},
	}
	cmd.Flags().StringVar(&runID, "run", "", "Run id to reconcile against")
	return cmd
}

func newExportCmd() *cobra.Command {
	var runID, format, out string
	cmd := &cobra.Command{
		Use:   "export",
		Short: "Export a stored run as CSV or markdown",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(cmd)
			if err != nil {
				return err
			}
			if runID == "" {
				return codeError(3, "--run is required")
			}

			archive, err := store.Open(cfg.DatabasePath)
			if err != nil {
				return codeError(1, "open database: %v", err)
			}
			defer archive.Close()
			run, comps, reply, err := loadFullRun(archive, runID)
			if err != nil {
				return codeError(1, "%v", err)
			}

			dst := cmd.OutOrStdout()
			if out != "" {
				f, err := os.Create(out)
				if err != nil {
					return codeError(1, "create output: %v", err)
				}
				defer f.Close()
				dst = f
			}

			switch format {
			case "csv":
				if err := export.WriteResultsCSV(dst, run.Records); err != nil {
					return codeError(1, "write csv: %v", err)
				}
			case "md":
				if _, err := fmt.Fprint(dst, export.BuildReport(run, comps, reply)); err != nil {
					return codeError(1, "write markdown: %v", err)
				}
			default:
				return codeError(3, "unknown format %q (csv or md)", format)
			}
			return nil
		},
	}
	cmd.Flags().StringVar(&runID, "run", "", "Run id to export")
	cmd.Flags().StringVar(&format, "format", "md", "Output format: csv or md")
	cmd.Flags().StringVar(&out, "out", "", "Write output to file instead of stdout")
	return cmd
}

func newRenderPDFCmd() *cobra.Command {
	var runID, out string
	cmd := &cobra.Command{
		Use:   "render-pdf",
		Short: "Render a stored run's report as PDF",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(cmd)
			if err != nil {
				return err
			}
			if runID == "" || out == "" {
				return codeError(3, "--run and --out are required")
			}

			archive, err := store.Open(cfg.DatabasePath)
			if err != nil {
				return codeError(1, "open database: %v", err)
			}
			defer archive.Close()
			run, comps, reply, err := loadFullRun(archive, runID)
			if err != nil {
				return codeError(1, "%v", err)
			}

			pdf, err := export.NewChromiumPDFRenderer().Render(cmd.Context(), export.BuildReport(run, comps, reply))
			if err != nil {
				return codeError(1, "render pdf: %v", err)
			}
			if err := os.WriteFile(out, pdf, 0o644); err != nil {
				return codeError(1, "write pdf: %v", err)
			}
			fmt.Fprintf(cmd.ErrOrStderr(), "wrote %s (%d bytes)\n", out, len(pdf))
			return nil
		},
	}
	cmd.Flags().StringVar(&runID, "run", "", "Run id to render")
	cmd.Flags().StringVar(&out, "out", "", "Destination PDF path")
	return cmd
}

func newServeCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the review engine over HTTP",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(cmd)
			if err != nil {
				return err
			}
			ctx := cmd.Context()

			shutdown, err := telemetry.Setup(ctx, cfg.OTLPEndpoint, "rfpcheck")
			if err != nil {
				return codeError(1, "telemetry: %v", err)
			}
			defer func() {
				if err := shutdown(context.Background()); err != nil {
					log.Printf("telemetry shutdown: %v", err)
				}
			}()

			archive, err := store.Open(cfg.DatabasePath)
			if err != nil {
				return codeError(1, "open database: %v", err)
			}
			defer archive.Close()

			runner := &pipelineRunner{cfg: cfg, registry: checklist.Default()}
			srv := &http.Server{
				Addr:              cfg.ListenAddr,
				Handler:           httpapi.NewServer(runner, archive, cfg.UploadDir),
				ReadHeaderTimeout: 10 * time.Second,
			}

			errCh := make(chan error, 1)
			go func() {
				log.Printf("rfpcheck listening on %s", cfg.ListenAddr)
				errCh <- srv.ListenAndServe()
			}()

			select {
			case <-ctx.Done():
				shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
				defer cancel()
				if err := srv.Shutdown(shutdownCtx); err != nil {
					return codeError(1, "shutdown: %v", err)
				}
				return nil
			case err := <-errCh:
				if errors.Is(err, http.ErrServerClosed) {
					return nil
				}
				return codeError(1, "serve: %v", err)
			}
		},
	}
	return cmd
}

func loadFullRun(archive *store.Store, runID string) (review.RunResult, []reconcile.Comparison, string, error) {
	run, err := archive.GetRun(runID)
	if err != nil {
		return review.RunResult{}, nil, "", fmt.Errorf("load run %s: %w", runID, err)
	}
	comps, err := archive.Comparisons(runID)
	if err != nil {
		return review.RunResult{}, nil, "", fmt.Errorf("load comparisons: %w", err)
	}
	reply, err := archive.Reply(runID)
	if err != nil && !errors.Is(err, store.ErrNotFound) {
		return review.RunResult{}, nil, "", fmt.Errorf("load reply: %w", err)
	}
	return run, comps, reply, nil
}

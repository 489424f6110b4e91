package review

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"github.com/itgov-review/rfpcheck/internal/checklist"
	"github.com/itgov-review/rfpcheck/internal/llm"
)

const tracerName = "rfpcheck/review"

// ProgressFn receives per-batch progress messages.
type ProgressFn func(batch, message string)

// Judge runs one judgment batch. Implemented by LLMJudge; faked in tests.
type Judge interface {
	JudgeBatch(ctx context.Context, group checklist.Group, corpus string) (BatchOutcome, llm.Metrics)
}

// LLMJudge judges one checklist group per call through the retrying
// executor. A batch that still fails after retries yields a failure outcome,
// not an error: the pipeline must always assemble a full table.
type LLMJudge struct {
	exec *llm.Executor
}

func NewLLMJudge(exec *llm.Executor) *LLMJudge {
	return &LLMJudge{exec: exec}
}

func (j *LLMJudge) JudgeBatch(ctx context.Context, group checklist.Group, corpus string) (BatchOutcome, llm.Metrics) {
	prompt := BuildBatchPrompt(group.Label, group.Items, corpus)
	var raws []RawResponse
	m, err := j.exec.Run(ctx, "batch "+group.Label, prompt, func(raw string) error {
		raws = nil
		return llm.DecodeArray(raw, &raws)
	})
	if err != nil {
		return BatchOutcome{Group: group.Label, Failure: err.Error()}, m
	}
	return BatchOutcome{Group: group.Label, Records: raws}, m
}

// Pipeline runs the full review: group the registry, judge each group,
// aggregate per group, and emit the canonically sorted record set.
type Pipeline struct {
	registry *checklist.Registry
	judge    Judge
	tracer   trace.Tracer
}

func NewPipeline(registry *checklist.Registry, judge Judge) *Pipeline {
	return &Pipeline{
		registry: registry,
		judge:    judge,
		tracer:   otel.Tracer(tracerName),
	}
}

func (p *Pipeline) Run(ctx context.Context, project string, mode checklist.GroupStrategy, corpus string) (RunResult, error) {
	return p.RunWithProgress(ctx, project, mode, corpus, nil)
}

// RunWithProgress executes batches sequentially in group order. A failed
// batch contributes 未提及 defaults for its items; only an invalid mode or
// empty corpus is an error.
func (p *Pipeline) RunWithProgress(ctx context.Context, project string, mode checklist.GroupStrategy, corpus string, progress ProgressFn) (RunResult, error) {
	res := RunResult{
		RunID:    uuid.NewString(),
		Project:  project,
		Mode:     mode,
		Metadata: RunMetadata{StartedAt: time.Now()},
	}

	if strings.TrimSpace(corpus) == "" {
		return res, fmt.Errorf("document corpus is empty")
	}
	groups, err := p.registry.Group(mode)
	if err != nil {
		return res, err
	}

	ctx, span := p.tracer.Start(ctx, "review.run", trace.WithAttributes(
		attribute.String("review.run_id", res.RunID),
		attribute.String("review.mode", string(mode)),
		attribute.Int("review.groups", len(groups)),
	))
	defer span.End()

	res.Metadata.Batches = len(groups)
	for i, group := range groups {
		emit(progress, group.Label, fmt.Sprintf("審查第 %d/%d 批（%s）… 共 %d 項", i+1, len(groups), group.Label, len(group.Items)))

		batchCtx, batchSpan := p.tracer.Start(ctx, "review.batch", trace.WithAttributes(
			attribute.String("review.batch", group.Label),
			attribute.Int("review.items", len(group.Items)),
		))
		outcome, m := p.judge.JudgeBatch(batchCtx, group, corpus)
		batchSpan.End()

		res.Metadata.LLMCalls += m.Attempts
		if m.Attempts > 1 {
			res.Metadata.Retries += m.Attempts - 1
		}
		if outcome.Failed() {
			res.Metadata.FailedBatches = append(res.Metadata.FailedBatches, BatchFailure{Group: group.Label, Reason: outcome.Failure})
			emit(progress, group.Label, fmt.Sprintf("第 %s 批審查失敗，以未提及代入：%s", group.Label, outcome.Failure))
		}
		res.Records = append(res.Records, Aggregate(group.Items, outcome.Records)...)
	}

	SortRecords(res.Records)
	res.Metadata.CompletedAt = time.Now()
	return res, nil
}

// SortRecords orders records by the canonical numeric-aware key.
func SortRecords(records []Record) {
	sort.SliceStable(records, func(i, j int) bool {
		return checklist.KeyFor(records[i].ID).Less(checklist.KeyFor(records[j].ID))
	})
}

func emit(progress ProgressFn, batch, message string) {
	if progress != nil {
		progress(batch, message)
	}
}

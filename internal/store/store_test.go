package store

import (
	"errors"
	"path/filepath"
	"testing"
	"time"

	"github.com/itgov-review/rfpcheck/internal/checklist"
	"github.com/itgov-review/rfpcheck/internal/reconcile"
	"github.com/itgov-review/rfpcheck/internal/review"
)

func openTestStore(t *testing.T) *Store {
	t.Helper()
	s, err := Open(filepath.Join(t.TempDir(), "rfpcheck.db"))
	if err != nil {
		t.Fatalf("open store: %v", err)
	}
	t.Cleanup(func() { s.Close() })
	return s
}

func sampleRun(runID string, started time.Time) review.RunResult {
	return review.RunResult{
		RunID:   runID,
		Project: "某機關資訊系統建置案",
		Mode:    checklist.StrategySplit,
		Records: []review.Record{
			{
				ID:         "A0",
				Category:   "A 基本與前案",
				Item:       "案件類別",
				Compliance: "開發建置",
				Evidence:   []review.Evidence{{File: "rfp.pdf", Page: 3, Quote: "本案為新建系統"}},
			},
			{
				ID:             "A1",
				Category:       "A 基本與前案",
				Item:           "計畫依據與目標",
				Compliance:     review.ComplianceNotMentioned,
				Evidence:       []review.Evidence{},
				Recommendation: "建議補充計畫依據",
			},
		},
		Metadata: review.RunMetadata{
			StartedAt:   started,
			CompletedAt: started.Add(2 * time.Minute),
			Batches:     2,
			LLMCalls:    3,
			Retries:     1,
			FailedBatches: []review.BatchFailure{
				{Group: "CDEF", Reason: "invalid json after retries"},
			},
		},
	}
}

func TestSaveAndGetRun(t *testing.T) {
	s := openTestStore(t)
	want := sampleRun("run-1", time.Date(2026, 3, 10, 9, 0, 0, 0, time.UTC))

	if err := s.SaveRun(want); err != nil {
		t.Fatalf("SaveRun: %v", err)
	}
	got, err := s.GetRun("run-1")
	if err != nil {
		t.Fatalf("GetRun: %v", err)
	}
	if got.RunID != want.RunID || got.Project != want.Project || got.Mode != want.Mode {
		t.Fatalf("header mismatch: %+v", got)
	}
	if len(got.Records) != 2 || got.Records[0].ID != "A0" || got.Records[1].ID != "A1" {
		t.Fatalf("records mismatch: %+v", got.Records)
	}
	if len(got.Records[0].Evidence) != 1 || got.Records[0].Evidence[0].Page != 3 {
		t.Fatalf("evidence mismatch: %+v", got.Records[0].Evidence)
	}
	if got.Metadata.LLMCalls != 3 || len(got.Metadata.FailedBatches) != 1 {
		t.Fatalf("metadata mismatch: %+v", got.Metadata)
	}
	if !got.Metadata.StartedAt.Equal(want.Metadata.StartedAt) {
		t.Fatalf("started_at mismatch: %v", got.Metadata.StartedAt)
	}
}

func TestGetRunNotFound(t *testing.T) {
	s := openTestStore(t)
	if _, err := s.GetRun("nope"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestSaveRunReplacesRecords(t *testing.T) {
	s := openTestStore(t)
	run := sampleRun("run-1", time.Now().UTC())
	if err := s.SaveRun(run); err != nil {
		t.Fatalf("SaveRun: %v", err)
	}
	run.Records = run.Records[:1]
	if err := s.SaveRun(run); err != nil {
		t.Fatalf("SaveRun again: %v", err)
	}
	got, err := s.GetRun("run-1")
	if err != nil {
		t.Fatalf("GetRun: %v", err)
	}
	if len(got.Records) != 1 {
		t.Fatalf("expected replaced records, got %d", len(got.Records))
	}
}

func TestListRunsNewestFirst(t *testing.T) {
	s := openTestStore(t)
	old := sampleRun("run-old", time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC))
	recent := sampleRun("run-new", time.Date(2026, 6, 1, 0, 0, 0, 0, time.UTC))
	if err := s.SaveRun(old); err != nil {
		t.Fatalf("SaveRun: %v", err)
	}
	if err := s.SaveRun(recent); err != nil {
		t.Fatalf("SaveRun: %v", err)
	}

	got, err := s.ListRuns()
	if err != nil {
		t.Fatalf("ListRuns: %v", err)
	}
	if len(got) != 2 || got[0].RunID != "run-new" || got[1].RunID != "run-old" {
		t.Fatalf("unexpected order: %+v", got)
	}
}

func TestComparisonsRoundTripOrdered(t *testing.T) {
	s := openTestStore(t)
	if err := s.SaveRun(sampleRun("run-1", time.Now().UTC())); err != nil {
		t.Fatalf("SaveRun: %v", err)
	}
	comps := []reconcile.Comparison{
		{CanonicalID: "A1", Verdict: reconcile.VerdictConsistent, PrecheckNormalized: "符合", SystemCompliance: "符合"},
		{CanonicalID: "B1", Verdict: reconcile.VerdictExtraSystem, SystemCompliance: "未提及", Explanation: "系統審查項目未見於事前檢核表"},
	}
	if err := s.SaveComparisons("run-1", comps); err != nil {
		t.Fatalf("SaveComparisons: %v", err)
	}

	got, err := s.Comparisons("run-1")
	if err != nil {
		t.Fatalf("Comparisons: %v", err)
	}
	if len(got) != 2 || got[0].CanonicalID != "A1" || got[1].CanonicalID != "B1" {
		t.Fatalf("order not preserved: %+v", got)
	}
	if got[1].Verdict != reconcile.VerdictExtraSystem {
		t.Fatalf("verdict mismatch: %+v", got[1])
	}
}

func TestComparisonsEmptyForUnknownRun(t *testing.T) {
	s := openTestStore(t)
	got, err := s.Comparisons("nope")
	if err != nil {
		t.Fatalf("Comparisons: %v", err)
	}
	if len(got) != 0 {
		t.Fatalf("expected empty, got %+v", got)
	}
}

func TestReplyRoundTrip(t *testing.T) {
	s := openTestStore(t)
	if err := s.SaveReply("nope", "x"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound for unknown run, got %v", err)
	}

	if err := s.SaveRun(sampleRun("run-1", time.Now().UTC())); err != nil {
		t.Fatalf("SaveRun: %v", err)
	}
	if err := s.SaveReply("run-1", "請補充 A1 計畫依據之說明。"); err != nil {
		t.Fatalf("SaveReply: %v", err)
	}
	got, err := s.Reply("run-1")
	if err != nil {
		t.Fatalf("Reply: %v", err)
	}
	if got != "請補充 A1 計畫依據之說明。" {
		t.Fatalf("unexpected reply: %q", got)
	}
}

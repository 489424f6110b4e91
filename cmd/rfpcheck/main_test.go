package main

import (
	"errors"
	"path/filepath"
	"testing"

	"github.com/itgov-review/rfpcheck/internal/checklist"
	"github.com/itgov-review/rfpcheck/internal/review"
	"github.com/itgov-review/rfpcheck/internal/store"
)

func TestCodeErrorCarriesExitCode(t *testing.T) {
	err := codeError(3, "bad flag %q", "mode")
	var ee *exitErr
	if !errors.As(err, &ee) {
		t.Fatalf("expected exitErr, got %T", err)
	}
	if ee.code != 3 || ee.msg != `bad flag "mode"` {
		t.Fatalf("unexpected exitErr: %+v", ee)
	}
}

func TestLoadFullRunWithoutReply(t *testing.T) {
	archive, err := store.Open(filepath.Join(t.TempDir(), "test.db"))
	if err != nil {
		t.Fatalf("open store: %v", err)
	}
	defer archive.Close()

	run := review.RunResult{
		RunID: "run-1",
		Mode:  checklist.StrategySingle,
		Records: []review.Record{
			{ID: "A1", Compliance: review.ComplianceCompliant, Evidence: []review.Evidence{}},
		},
	}
	if err := archive.SaveRun(run); err != nil {
		t.Fatalf("SaveRun: %v", err)
	}

	got, comps, reply, err := loadFullRun(archive, "run-1")
	if err != nil {
		t.Fatalf("loadFullRun: %v", err)
	}
	if got.RunID != "run-1" || len(comps) != 0 || reply != "" {
		t.Fatalf("unexpected result: %+v %v %q", got, comps, reply)
	}

	if _, _, _, err := loadFullRun(archive, "nope"); err == nil {
		t.Fatal("expected error for unknown run")
	}
}

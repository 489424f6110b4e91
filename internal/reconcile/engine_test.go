package reconcile

import (
	"strings"
	"testing"

	"github.com/itgov-review/rfpcheck/internal/checklist"
	"github.com/itgov-review/rfpcheck/internal/precheck"
	"github.com/itgov-review/rfpcheck/internal/review"
)

func smallRegistry(t *testing.T) *checklist.Registry {
	t.Helper()
	reg, err := checklist.New([]checklist.Item{
		{Category: "A 基本與前案", ID: "A1", Text: "計畫依據與目標"},
		{Category: "B 現況說明", ID: "B1", Text: "現行作業與資訊環境說明"},
		{Category: "C 資安需求", ID: "C1", Text: "個資盤點與安全控制"},
	})
	if err != nil {
		t.Fatalf("registry: %v", err)
	}
	return reg
}

func sysRecord(id, category, item, compliance string) review.Record {
	return review.Record{ID: id, Category: category, Item: item, Compliance: compliance}
}

func TestReconcileEndToEnd(t *testing.T) {
	reg := smallRegistry(t)
	system := []review.Record{
		sysRecord("A1", "A 基本與前案", "計畫依據與目標", review.ComplianceCompliant),
		sysRecord("B1", "B 現況說明", "現行作業與資訊環境說明", review.ComplianceNotMentioned),
		sysRecord("C1", "C 資安需求", "個資盤點與安全控制", review.ComplianceNotApplicable),
	}
	pre := []precheck.Record{
		{RawID: "A1", ItemText: "計畫依據", RawStatus: "符合"},
		{RawID: "", ItemText: "現況說明 1", RawStatus: ""},
	}

	got := New(reg, 0).Reconcile(system, pre)
	if len(got) != 3 {
		t.Fatalf("expected 3 comparisons, got %d: %+v", len(got), got)
	}

	if got[0].CanonicalID != "A1" || got[0].Verdict != VerdictConsistent {
		t.Fatalf("A1: expected consistent, got %+v", got[0])
	}
	if got[1].CanonicalID != "B1" || got[1].Verdict != VerdictConsistent {
		t.Fatalf("B1: expected consistent via section inference, got %+v", got[1])
	}
	if got[1].PrecheckNormalized != string(precheck.StatusNotMentioned) {
		t.Fatalf("B1: expected normalized 未提及, got %q", got[1].PrecheckNormalized)
	}
	if got[2].CanonicalID != "C1" || got[2].Verdict != VerdictExtraSystem {
		t.Fatalf("C1: expected extra-in-system, got %+v", got[2])
	}
	if got[2].PrecheckRaw != "" || got[2].PrecheckNormalized != "" {
		t.Fatalf("C1: extra-in-system must not carry precheck fields, got %+v", got[2])
	}
}

func TestReconcileInconsistent(t *testing.T) {
	reg := smallRegistry(t)
	system := []review.Record{
		sysRecord("A1", "A 基本與前案", "計畫依據與目標", review.ComplianceNotMentioned),
	}
	pre := []precheck.Record{{RawID: "A1", ItemText: "計畫依據", RawStatus: "符合"}}

	got := New(reg, 0).Reconcile(system, pre)
	if len(got) != 1 || got[0].Verdict != VerdictInconsistent {
		t.Fatalf("expected single inconsistent row, got %+v", got)
	}
	if !strings.Contains(got[0].Explanation, "符合") || !strings.Contains(got[0].Explanation, "未提及") {
		t.Fatalf("explanation should carry both sides, got %q", got[0].Explanation)
	}
}

func TestReconcileCaseTypeLiteralCompare(t *testing.T) {
	reg := checklist.Default()
	system := []review.Record{
		sysRecord("A0", "A 基本與前案", "案件類別", "開發建置"),
	}

	pre := []precheck.Record{{RawID: "A0", ItemText: "案件類別", RawStatus: "開發建置"}}
	got := New(reg, 0).Reconcile(system, pre)
	if got[0].Verdict != VerdictConsistent {
		t.Fatalf("matching case-type labels must be consistent, got %+v", got[0])
	}
	if got[0].PrecheckNormalized != "開發建置" {
		t.Fatalf("A0 must bypass the status normalizer, got %q", got[0].PrecheckNormalized)
	}

	pre = []precheck.Record{{RawID: "A0", ItemText: "案件類別", RawStatus: "系統維運"}}
	got = New(reg, 0).Reconcile(system, pre)
	if got[0].Verdict != VerdictInconsistent {
		t.Fatalf("differing case-type labels must be inconsistent, got %+v", got[0])
	}
}

func TestReconcileFuzzyThresholdBoundary(t *testing.T) {
	reg := smallRegistry(t)

	// 17 shared runes of 20+20 scores exactly 0.85: accepted.
	at := []review.Record{sysRecord("12345678901234567xyz", "", "某項目", review.ComplianceCompliant)}
	pre := []precheck.Record{{RawID: "12345678901234567abc", RawStatus: "符合"}}
	got := New(reg, 0).Reconcile(at, pre)
	if len(got) != 1 || got[0].Verdict != VerdictConsistent {
		t.Fatalf("similarity 0.85 must match at the default threshold, got %+v", got)
	}
	if !strings.Contains(got[0].Explanation, "模糊比對") {
		t.Fatalf("fuzzy match should be noted in the explanation, got %q", got[0].Explanation)
	}

	// 21 shared runes of 25+25 scores exactly 0.84: rejected.
	below := []review.Record{sysRecord("123456789012345678901wxyz", "", "某項目", review.ComplianceCompliant)}
	pre = []precheck.Record{{RawID: "123456789012345678901abcd", RawStatus: "符合"}}
	got = New(reg, 0).Reconcile(below, pre)
	if len(got) != 2 {
		t.Fatalf("similarity 0.84 must not match, got %+v", got)
	}
	for _, c := range got {
		if c.Verdict != VerdictExtraPrecheck && c.Verdict != VerdictExtraSystem {
			t.Fatalf("expected two orphan rows, got %+v", got)
		}
	}
}

func TestReconcileDuplicatePrecheckKeys(t *testing.T) {
	reg := smallRegistry(t)
	system := []review.Record{
		sysRecord("A1", "A 基本與前案", "計畫依據與目標", review.ComplianceCompliant),
	}
	pre := []precheck.Record{
		{RawID: "A1", ItemText: "計畫依據", RawStatus: "符合"},
		{RawID: "A1", ItemText: "計畫依據（重複）", RawStatus: "無"},
	}

	got := New(reg, 0).Reconcile(system, pre)
	if len(got) != 2 {
		t.Fatalf("expected 2 comparisons, got %+v", got)
	}
	matched, orphans := 0, 0
	for _, c := range got {
		switch c.Verdict {
		case VerdictConsistent:
			matched++
		case VerdictExtraPrecheck:
			orphans++
		}
	}
	if matched != 1 || orphans != 1 {
		t.Fatalf("a system key must be consumed at most once, got %+v", got)
	}
}

func TestReconcileOrphanPrecheckFillsRegistryText(t *testing.T) {
	reg := smallRegistry(t)
	pre := []precheck.Record{{RawID: "C1", ItemText: "", RawStatus: "符合"}}

	got := New(reg, 0).Reconcile(nil, pre)
	if len(got) != 1 || got[0].Verdict != VerdictExtraPrecheck {
		t.Fatalf("expected one extra-in-precheck row, got %+v", got)
	}
	if got[0].Category != "C 資安需求" || got[0].ItemText != "個資盤點與安全控制" {
		t.Fatalf("registry text should backfill the orphan, got %+v", got[0])
	}
}

func TestReconcileUncanonicalizableOrphan(t *testing.T) {
	reg := smallRegistry(t)
	pre := []precheck.Record{{RawID: "雜項", ItemText: "與清單無關的敘述", RawStatus: "符合"}}

	got := New(reg, 0).Reconcile(nil, pre)
	if len(got) != 1 || got[0].Verdict != VerdictExtraPrecheck || got[0].CanonicalID != "" {
		t.Fatalf("expected uncanonicalizable orphan with empty id, got %+v", got)
	}
}

func TestReconcileOutputOrder(t *testing.T) {
	reg := checklist.Default()
	system := []review.Record{
		sysRecord("A10", "A 基本與前案", "x", review.ComplianceCompliant),
		sysRecord("A2", "A 基本與前案", "x", review.ComplianceCompliant),
		sysRecord("B1", "B 現況說明", "x", review.ComplianceCompliant),
		sysRecord("A1.5", "A 基本與前案", "x", review.ComplianceCompliant),
	}

	got := New(reg, 0).Reconcile(system, nil)
	want := []string{"A1.5", "A2", "A10", "B1"}
	for i, id := range want {
		if got[i].CanonicalID != id {
			t.Fatalf("position %d: expected %s, got %s", i, id, got[i].CanonicalID)
		}
	}
}

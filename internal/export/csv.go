// Package export renders completed runs as CSV, markdown, and PDF for the
// review meeting paperwork.
package export

import (
	"encoding/csv"
	"fmt"
	"io"
	"strings"

	"github.com/itgov-review/rfpcheck/internal/reconcile"
	"github.com/itgov-review/rfpcheck/internal/review"
)

var resultHeader = []string{"類別", "編號", "檢核項目", "符合情形", "主要證據", "改善建議"}

var comparisonHeader = []string{"類別", "編號", "檢核項目", "事前檢核（原文）", "事前檢核（正規化）", "系統審查", "比對結果", "說明"}

// WriteResultsCSV writes one row per checklist record, in the given order.
// Output starts with a UTF-8 BOM so spreadsheet software opens the Chinese
// text correctly.
func WriteResultsCSV(w io.Writer, records []review.Record) error {
	if _, err := io.WriteString(w, "\uFEFF"); err != nil {
		return err
	}
	cw := csv.NewWriter(w)
	if err := cw.Write(resultHeader); err != nil {
		return err
	}
	for _, r := range records {
		row := []string{r.Category, r.ID, r.Item, r.Compliance, FormatEvidence(r.Evidence), r.Recommendation}
		if err := cw.Write(row); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

// WriteComparisonsCSV writes one row per reconciliation comparison.
func WriteComparisonsCSV(w io.Writer, comps []reconcile.Comparison) error {
	if _, err := io.WriteString(w, "\uFEFF"); err != nil {
		return err
	}
	cw := csv.NewWriter(w)
	if err := cw.Write(comparisonHeader); err != nil {
		return err
	}
	for _, c := range comps {
		row := []string{
			c.Category, c.CanonicalID, c.ItemText,
			c.PrecheckRaw, c.PrecheckNormalized, c.SystemCompliance,
			verdictLabel(c.Verdict), c.Explanation,
		}
		if err := cw.Write(row); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

// FormatEvidence joins quoted passages as 檔案 p.頁：引文, one per passage.
func FormatEvidence(evs []review.Evidence) string {
	parts := make([]string, 0, len(evs))
	for _, e := range evs {
		parts = append(parts, fmt.Sprintf("%s p.%d：%s", e.File, e.Page, e.Quote))
	}
	return strings.Join(parts, "；")
}

func verdictLabel(v reconcile.Verdict) string {
	switch v {
	case reconcile.VerdictConsistent:
		return "一致"
	case reconcile.VerdictInconsistent:
		return "不一致"
	case reconcile.VerdictExtraPrecheck:
		return "僅見於事前檢核"
	case reconcile.VerdictExtraSystem:
		return "僅見於系統審查"
	}
	return string(v)
}

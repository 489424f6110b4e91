package export

import (
	"fmt"
	"strings"
	"time"

	"github.com/itgov-review/rfpcheck/internal/reconcile"
	"github.com/itgov-review/rfpcheck/internal/review"
)

// BuildReport renders a run as the markdown audit report. Comparisons and
// reply are optional; pass nil / empty when the run had no reconciliation
// pass or no drafted reply.
func BuildReport(run review.RunResult, comps []reconcile.Comparison, reply string) string {
	var b strings.Builder
	fmt.Fprintf(&b, "# 資訊服務採購案件審查報告\n\n")
	if run.Project != "" {
		fmt.Fprintf(&b, "- 案件名稱：%s\n", run.Project)
	}
	fmt.Fprintf(&b, "- 審查編號：%s\n", run.RunID)
	fmt.Fprintf(&b, "- 審查模式：%s\n", run.Mode)
	if !run.Metadata.CompletedAt.IsZero() {
		fmt.Fprintf(&b, "- 完成時間：%s\n", run.Metadata.CompletedAt.Format(time.RFC3339))
	}
	fmt.Fprintf(&b, "\n")

	writeSummary(&b, run)
	writeRecords(&b, run.Records)

	if len(run.Metadata.FailedBatches) > 0 {
		fmt.Fprintf(&b, "## 批次失敗註記\n\n")
		fmt.Fprintf(&b, "下列批次經重試仍未取得有效回覆，其項目以「未提及」列入，請人工複核：\n\n")
		for _, f := range run.Metadata.FailedBatches {
			fmt.Fprintf(&b, "- 批次 %s：%s\n", f.Group, f.Reason)
		}
		fmt.Fprintf(&b, "\n")
	}

	if len(comps) > 0 {
		writeComparisons(&b, comps)
	}

	if strings.TrimSpace(reply) != "" {
		fmt.Fprintf(&b, "## 補正意見回覆（草稿）\n\n")
		fmt.Fprintf(&b, "%s\n\n", strings.TrimSpace(reply))
	}

	return b.String()
}

func writeSummary(b *strings.Builder, run review.RunResult) {
	counts := map[string]int{}
	for _, r := range run.Records {
		counts[r.Compliance]++
	}
	fmt.Fprintf(b, "## 審查摘要\n\n")
	fmt.Fprintf(b, "| 符合情形 | 項目數 |\n|---|---|\n")
	for _, level := range []string{
		review.ComplianceCompliant,
		review.CompliancePartial,
		review.ComplianceNotMentioned,
		review.ComplianceNotApplicable,
	} {
		fmt.Fprintf(b, "| %s | %d |\n", level, counts[level])
	}
	fmt.Fprintf(b, "\n共 %d 個檢核項目，批次 %d，模型呼叫 %d 次，重試 %d 次。\n\n",
		len(run.Records), run.Metadata.Batches, run.Metadata.LLMCalls, run.Metadata.Retries)
}

func writeRecords(b *strings.Builder, records []review.Record) {
	fmt.Fprintf(b, "## 檢核結果\n\n")
	fmt.Fprintf(b, "| 類別 | 編號 | 檢核項目 | 符合情形 | 主要證據 | 改善建議 |\n")
	fmt.Fprintf(b, "|---|---|---|---|---|---|\n")
	for _, r := range records {
		fmt.Fprintf(b, "| %s | %s | %s | %s | %s | %s |\n",
			cell(r.Category), cell(r.ID), cell(r.Item), cell(r.Compliance),
			cell(FormatEvidence(r.Evidence)), cell(r.Recommendation))
	}
	fmt.Fprintf(b, "\n")
}

func writeComparisons(b *strings.Builder, comps []reconcile.Comparison) {
	fmt.Fprintf(b, "## 事前檢核比對\n\n")
	fmt.Fprintf(b, "| 編號 | 檢核項目 | 事前檢核 | 系統審查 | 比對結果 | 說明 |\n")
	fmt.Fprintf(b, "|---|---|---|---|---|---|\n")
	for _, c := range comps {
		pre := c.PrecheckNormalized
		if pre == "" {
			pre = c.PrecheckRaw
		}
		fmt.Fprintf(b, "| %s | %s | %s | %s | %s | %s |\n",
			cell(c.CanonicalID), cell(c.ItemText), cell(pre),
			cell(c.SystemCompliance), verdictLabel(c.Verdict), cell(c.Explanation))
	}
	fmt.Fprintf(b, "\n")
}

// cell keeps free text from breaking the markdown table.
func cell(s string) string {
	s = strings.ReplaceAll(s, "|", "／")
	s = strings.ReplaceAll(s, "\n", " ")
	return strings.TrimSpace(s)
}

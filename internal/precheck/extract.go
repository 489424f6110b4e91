package precheck

import (
	"context"
	"fmt"

	"github.com/itgov-review/rfpcheck/internal/llm"
)

const extractSystemPrompt = "你是政府機關資訊處之採購審查助理，負責從「資訊服務採購事前檢核表」中擷取結構化資料。僅輸出 JSON 陣列。"

const extractPromptTemplate = `請從下列「事前檢核表」全文中，逐列擷取填報單位的自評結果，回傳**唯一 JSON 陣列**。
【擷取原則】
1) 每一列對應檢核表的一個項目；保留原始編號與文字，不要改寫或補全。
2) status 僅擷取該列勾選或填寫的狀態文字（如「符合」「不適用」，未勾選則留空字串）；唯獨案件類別列填寫其類別文字。
3) biz_ref_note 為該列的業務單位備註；std_id 為該列引用的標準條碼（若有）。
【輸出格式 — 僅能輸出 JSON 陣列，無任何多餘文字/標記】
[
  {"id": "原始編號（可能為空或非標準格式）", "item": "項目原文", "status": "", "biz_ref_note": "", "std_id": ""}
]
【檢核表全文（含檔名/頁碼標註）】
%s`

// Extract pulls the self-assessment rows out of a pre-review form's text.
// The rows come back untrusted: callers canonicalize RawID and normalize
// RawStatus before reconciliation.
func Extract(ctx context.Context, exec *llm.Executor, formText string) ([]Record, llm.Metrics, error) {
	prompt := fmt.Sprintf(extractPromptTemplate, formText)
	var records []Record
	m, err := exec.Run(ctx, "precheck-extract", prompt, func(raw string) error {
		records = nil
		return llm.DecodeArray(raw, &records)
	})
	if err != nil {
		return nil, m, fmt.Errorf("extract precheck form: %w", err)
	}
	return records, m, nil
}

// ExtractSystemPrompt is the system prompt the extraction caller should be
// constructed with.
func ExtractSystemPrompt() string { return extractSystemPrompt }

package review

import (
	"context"
	"fmt"
	"strings"

	"github.com/itgov-review/rfpcheck/internal/llm"
)

const replySystemPrompt = "你是政府機關資訊處承辦人，負責撰寫採購文件審查意見之回覆便簽草稿。語氣正式簡潔。"

const replyPromptTemplate = `依下列審查結果，撰寫一份回覆業務單位之便簽草稿：逐項列出「未提及」與「部分符合」之條目、對應之補強建議，結尾提醒補正後再送審。僅輸出便簽內文，不要輸出任何 JSON 或標記。
【審查結果（id｜符合情形｜改善建議）】
%s`

// DraftReply turns the non-compliant rows of a run into a reply memo draft.
// With nothing to flag it returns a fixed all-clear line without calling the
// model.
func DraftReply(ctx context.Context, caller llm.Caller, records []Record) (string, error) {
	var lines []string
	for _, r := range records {
		if r.Compliance == ComplianceNotMentioned || r.Compliance == CompliancePartial {
			lines = append(lines, fmt.Sprintf("%s｜%s｜%s", r.ID, r.Compliance, r.Recommendation))
		}
	}
	if len(lines) == 0 {
		return "本案檢核項目均已符合或不適用，無須補正。", nil
	}
	prompt := fmt.Sprintf(replyPromptTemplate, strings.Join(lines, "\n"))
	raw, err := caller.GenerateJSON(ctx, prompt)
	if err != nil {
		return "", fmt.Errorf("draft reply: %w", err)
	}
	return strings.TrimSpace(raw), nil
}

// ReplySystemPrompt is the system prompt for the draft-reply caller.
func ReplySystemPrompt() string { return replySystemPrompt }

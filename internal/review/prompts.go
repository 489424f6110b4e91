package review

import (
	"fmt"
	"strings"

	"github.com/itgov-review/rfpcheck/internal/checklist"
)

// SystemPrompt casts the model as the reviewing unit. Callers construct
// their LLM caller with it.
const SystemPrompt = "你是政府機關資訊處之採購/RFP/契約審查委員。依檢核條目逐條審查文件並僅輸出 JSON 陣列。"

const batchPromptTemplate = `請依下列「檢核條目（%s 批）」逐條審查文件內容並回傳**唯一 JSON 陣列**，陣列內每個元素對應一條條目。
【審查原則】
1) 僅依文件明載內容判斷；未提及即標示「未提及」。
2) 若屬不適用（例：未允許分包），請回「不適用」並說明依據。
3) 務必引用原文短句與檔名/頁碼作為 evidence。
4) 嚴禁輸出任何與規格聯絡人、電話、姓名、聯繫方式有關的文字，即使原始文件內有。
【輸出格式 — 僅能輸出 JSON 陣列，無任何多餘文字/標記】
[
  {
    "id": "A1",
    "category": "A 基本與前案",
    "item": "條目原文（請完整複製）",
    "compliance": "若 id = 'A0'：僅能輸出六選一【開發建置｜系統維運｜功能增修｜套裝軟體｜硬體｜其他】；若 id ≠ 'A0'：僅能輸出四選一【符合｜部分符合｜未提及｜不適用】；禁止同時輸出多個或其他文字",
    "evidence": [{"file": "檔名", "page": 頁碼, "quote": "逐字引述"}],
    "recommendation": "若未提及/部分符合，請給具體補強方向；否則留空"
  }
]
【本批檢核清單（id｜item）】
%s
【文件全文（含檔名/頁碼標註）】
%s`

// BuildBatchPrompt renders the judgment prompt for one checklist group over
// the annotated document corpus.
func BuildBatchPrompt(groupLabel string, items []checklist.Item, corpus string) string {
	lines := make([]string, 0, len(items))
	for _, it := range items {
		lines = append(lines, fmt.Sprintf("%s｜%s", it.ID, it.Text))
	}
	return fmt.Sprintf(batchPromptTemplate, groupLabel, strings.Join(lines, "\n"), corpus)
}

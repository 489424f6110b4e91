package checklist

// Category labels as they appear in the review table.
const (
	CategoryA = "A 基本與前案"
	CategoryB = "B 現況說明"
	CategoryC = "C 資安需求"
	CategoryD = "D 作業需求"
	CategoryE = "E 產品交付"
	CategoryF = "F 其他重點"
)

// Default returns the built-in RFP/契約 checklist catalog.
func Default() *Registry {
	var items []Item
	add := func(cat, id, text string) {
		items = append(items, Item{Category: cat, ID: id, Text: text})
	}

	// A
	add(CategoryA, "A0", "本案屬開發建置、系統維運、功能增修、套裝軟體、硬體、其他?")
	add(CategoryA, "A1", "本案為延續性合約，前案採購簽陳影本已附。")
	add(CategoryA, "A2.1", "本案事前曾與資訊處討論：本案相關技術文件由資訊處協助撰寫。")
	add(CategoryA, "A2.2", "本案事前曾與資訊處討論：規劃階段曾與資訊處開會討論採購內容並有會議紀錄。")
	add(CategoryA, "A2.3", "本案簽辦之前，已以請辦單遞交契約書、需求說明書等相關文件，送請資訊處檢視，並保留至少5個工作天之審閱期後取得回覆。")
	add(CategoryA, "A2.4", "本案事前未與資訊處討論（無）。")
	// B
	add(CategoryB, "B1.1", "提供最新版硬體設備及網路之架構圖(不含IP Address)：明確表達硬體放置區域（含機房/區域）。")
	add(CategoryB, "B1.2", "提供網路介接方式與開發工具之廠牌、型號、版本等資訊。")
	add(CategoryB, "B2", "置於本部機房之系統，如另設對外連線線路者，提供連線對象、種類及規格清單。")
	add(CategoryB, "B3", "提供使用者或使用機關之示意圖或說明。")
	add(CategoryB, "B4", "提供最新網站網址。")
	add(CategoryB, "B5", "提供應用系統功能清單或架構圖（含 OS、DB 名稱與版本）。")
	// C
	add(CategoryC, "C1.1", "符合本部採購契約規範之資訊安全與個資保護要求：已填列安全等級且與最新核定等級相符。")
	add(CategoryC, "C1.2", "要求系統符合《資通安全責任等級分級辦法》之『資通系統防護基準』、SSDLC 各階段安全工作；要求廠商提交『資通系統防護基準自評表』並增列罰則。")
	add(CategoryC, "C1.3", "要求廠商之服務水準滿足系統最大可容忍中斷時間（RTO）。")
	add(CategoryC, "C1.4", "非置於本部機房之核心資通系統，納入 SOC 範圍。")
	add(CategoryC, "C1.5", "委外需求涉及資通技術服務（如雲端）已評估合法性、技術維運、法遵與權利義務歸屬。")
	add(CategoryC, "C1.6", "要求廠商不得使用或設計不符安全規範之帳號密碼。")
	add(CategoryC, "C2.1", "巨額/資安採購或高級安全等級案件：投標廠商具備安全軟體開發能力並通過資安管理系統驗證。")
	add(CategoryC, "C2.2", "巨額/資安/高級：專案管理人員至少1人具資訊安全專業認證。")
	add(CategoryC, "C2.3", "巨額/資安/高級：專案技術人員至少1人具網路安全技能之訓練證書或證照。")
	add(CategoryC, "C3.1", "允許分包者：分包廠商須比照承包廠商共同遵守資安規定。")
	add(CategoryC, "C3.2", "允許分包者：投標廠商於建議書敘明分包廠商基本資料。")
	add(CategoryC, "C4", "不得採用大陸廠牌資通訊產品（契約草案第八條(六)及(二五)）。")
	add(CategoryC, "C5", "符合『資通系統籌獲各階段資安強化措施執行檢核表』（開發附表1/維運附表2）。")
	add(CategoryC, "C6", "資料庫中機敏資料已採用或規劃適當加密技術。")
	// D
	add(CategoryD, "D1", "列出所需軟硬體與網路設備清單，說明使用資訊處設備/既有設備或另行採購（優先 VM/共同供應契約）。")
	add(CategoryD, "D2", "系統開發或功能增修應列出所需系統功能（地方政府系統建議提供資料下載或介接）。")
	add(CategoryD, "D3", "敘明資訊系統與其他軟體系統之相互關係並說明所有利害關係人。")
	add(CategoryD, "D4", "提供民眾下載檔案者，增加 ODF 格式。")
	add(CategoryD, "D5", "開發 App 已閱讀並遵循國發會相關規定（附件2）。")
	add(CategoryD, "D6", "開發 App 符合通傳會『App 無障礙開發指引』並填報檢核表（附件3）。")
	add(CategoryD, "D7", "網站服務之系統符合國發會『政府網站服務管理規範』並填報檢核表（附件4）。")
	add(CategoryD, "D8", "針對業務或個人資料，提供後續 OpenData 或 MyData 服務建議。")
	add(CategoryD, "D9", "系統維護包含定期到場、緊急到場、諮詢服務；SLA 與績效指標連動並設計滿意度調查。")
	add(CategoryD, "D10", "履約服務銜接契約期間。")
	add(CategoryD, "D11", "開發及測試設備與環境需求說明。")
	add(CategoryD, "D12", "教育訓練及客服服務。")
	add(CategoryD, "D13", "保固服務。")
	add(CategoryD, "D14", "產品授權 (License) 符合需求。")
	add(CategoryD, "D15", "作業需求必須納入之制式文句（詳註5）。")
	add(CategoryD, "D16", "如有 GIS / OpenData / MyData 作業需求，納入之制式文句（詳註6）。")
	add(CategoryD, "D17", "上線前完成需求訪談、需求確認與測試（含效能測試）；提交測試計畫與測試報告。")
	add(CategoryD, "D18", "涉及醫療/健康資料交換者，納入 FHIR 交換標準。")
	add(CategoryD, "D19", "功能需求設計考量導入 AI 以節省人力/避免錯誤與決策分析及風險預警。")
	// E
	add(CategoryE, "E1", "交付時程合理，並與開發方式（瀑布/敏捷）一致。")
	add(CategoryE, "E2", "開發/增修交付品完整（專案計畫、需求/設計、測試計畫/報告、建置計畫、手冊、教育訓練、保固紀錄、原始碼/執行碼、最高權限帳密、自評表與電子檔）。")
	add(CategoryE, "E3", "維護交付品（專案執行計畫、維護工作報告、最新版設計/手冊、最新版原始碼/執行碼、自評表與電子檔）。")
	add(CategoryE, "E4", "必須納入之制式文句（詳註8）：交付之原始程式碼、執行碼，本部得要求承包廠商於本部指定之環境進行再生測試，並應提供所使用之開發工具，以驗證其正確性。")
	add(CategoryE, "E5", "網路設備購置時，驗收以彌封方式交付帳密、設定檔、規則列表與架構等。")
	// F
	add(CategoryF, "F1", "規格書及契約草案之其他重點事項（經費估算依據、期程風險、智慧財產權歸屬）已敘明。")
	add(CategoryF, "F2", "文件內未揭露承辦人、聯絡電話等個人聯絡資訊。")

	return MustNew(items)
}

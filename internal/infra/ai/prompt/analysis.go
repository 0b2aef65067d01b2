package prompt

import (
	"fmt"
	"strings"

	"github.com/guardtree/guardtree-api/internal/domain/forms"
)

// BuildAnalysisPrompt turns a filled form into the analysis instruction.
// Pure and deterministic: identical form content always produces the
// identical string. The required output schema lives inside the prompt
// because it is the only enforcement mechanism available over a text
// generator; analysis.Parse is the authoritative second layer.
func BuildAnalysisPrompt(f *forms.FormContent) string {
	var b strings.Builder

	b.WriteString("請根據以下個案表單資料，分析並產出以下格式的 JSON 結果：\n\n")
	b.WriteString("其中，activity 代表活動內容，item 代表項目，subitem 代表細項（若為空可忽略），core_area 代表這份表單所對應的核心能力領域，\n")
	b.WriteString("support_type 為教保員評估服務對象在這個項目的分數：")
	b.WriteString("4 代表需完全肢體協助；3 代表需部份身體協助；2 代表需示範/口頭/手勢提示；1 代表須監督陪同；0 代表不須協助；「不適用」代表此項不列入評分（可忽略）。\n\n")

	b.WriteString("請輸出以下 JSON 格式：\n")
	b.WriteString(`{
"summary": {
    "summary": "請針對上述資料進行智能摘要，條列說明服務對象整體日常生活能力狀況。",
    "strengths": "請找出服務對象在日常生活功能中表現最好的幾項。",
    "concerns": "請找出服務對象在日常生活功能中表現較差、需要關注的幾項。",
    "priority_item": "請依據資料內容，判斷目前最急迫、最需要改善的活動項目，並說明原因。"
},
"suggestions": {
    "strategy": "請根據上述資料，提供協助服務對象改善日常生活功能的具體策略建議。"
}
}`)
	b.WriteString("\n\n注意：\n- 請完整回傳 JSON 格式\n- 不要遺漏任何欄位\n- 字串內禁止換行\n\n")

	fmt.Fprintf(&b, "表單資料（表單類型 %s，%d 年度）：\n", f.FormType, f.Year)
	for _, e := range f.Entries {
		b.WriteString(formatEntry(e))
		b.WriteByte('\n')
	}

	return b.String()
}

func formatEntry(e forms.Entry) string {
	var b strings.Builder
	fmt.Fprintf(&b, "activity：%s｜item：%s", e.Activity, e.Item)
	if e.Subitem != "" {
		fmt.Fprintf(&b, "｜subitem：%s", e.Subitem)
	}
	fmt.Fprintf(&b, "｜core_area：%s｜support_type：%s", e.CoreArea, supportLabel(e.SupportType))
	return b.String()
}

func supportLabel(l *forms.SupportLevel) string {
	if l == nil {
		return "不適用"
	}
	return fmt.Sprintf("%d", int(*l))
}

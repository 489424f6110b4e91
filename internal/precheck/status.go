package precheck

import "strings"

var compliantTokens = map[string]struct{}{
	"符合":  {},
	"已符合": {},
	"是":   {},
	"v":   {},
	"✓":   {},
	"ok":  {},
	"yes": {},
	"y":   {},
	"pass": {},
}

var notApplicableTokens = map[string]struct{}{
	"不適用": {},
	"免填":  {},
	"無":   {},
	"n/a": {},
	"na":  {},
	"none": {},
}

// NormalizeStatus collapses an open-ended status label into the three-state
// classification. Total function: blank and unrecognized text both map to
// 未提及 — unknown wording must never pass as compliant.
func NormalizeStatus(label string) Status {
	token := strings.ToLower(strings.Join(strings.Fields(label), ""))
	if token == "" {
		return StatusNotMentioned
	}
	if _, ok := compliantTokens[token]; ok {
		return StatusCompliant
	}
	if _, ok := notApplicableTokens[token]; ok {
		return StatusNotApplicable
	}
	return StatusNotMentioned
}

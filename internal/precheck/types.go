// Package precheck handles the pre-review form side of a review: extracting
// free-form self-assessment rows, mapping their identifiers into the
// canonical checklist key space, and normalizing their status labels.
package precheck

// Status is the normalized three-state classification used to compare a
// pre-review status against a system compliance level.
type Status string

const (
	StatusCompliant     Status = "符合"
	StatusNotApplicable Status = "不適用"
	StatusNotMentioned  Status = "未提及"
)

// Record is one row extracted from a pre-review form. RawID is untrusted and
// possibly empty or non-canonical; it must go through Canonicalize before
// any lookup. For the reserved A0 row, RawStatus carries the free-text
// case-type label instead of a checkbox state.
type Record struct {
	RawID     string `json:"id"`
	ItemText  string `json:"item"`
	RawStatus string `json:"status"`
	Note      string `json:"biz_ref_note"`
	StdRef    string `json:"std_id"`
}

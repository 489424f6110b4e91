// Package reconcile matches pre-review form records against system checklist
// results in a single canonical key space and classifies each pairing.
package reconcile

// Verdict classifies one reconciled pair or orphan.
type Verdict string

const (
	VerdictConsistent    Verdict = "consistent"
	VerdictInconsistent  Verdict = "inconsistent"
	VerdictExtraPrecheck Verdict = "extra-in-precheck"
	VerdictExtraSystem   Verdict = "extra-in-system"
)

// Comparison is one derived, read-only reconciliation row.
type Comparison struct {
	Category           string  `json:"category"`
	CanonicalID        string  `json:"canonical_id"`
	ItemText           string  `json:"item"`
	PrecheckRaw        string  `json:"precheck_status_raw"`
	PrecheckNormalized string  `json:"precheck_status_normalized"`
	SystemCompliance   string  `json:"system_compliance"`
	Verdict            Verdict `json:"verdict"`
	Explanation        string  `json:"explanation"`
}

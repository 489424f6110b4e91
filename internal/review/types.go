// Package review runs the checklist compliance judgment pass and merges its
// output into exactly one validated record per checklist item.
package review

import (
	"strings"
	"time"

	"github.com/itgov-review/rfpcheck/internal/checklist"
)

// Compliance levels for every identifier except A0.
const (
	ComplianceCompliant     = "符合"
	CompliancePartial       = "部分符合"
	ComplianceNotMentioned  = "未提及"
	ComplianceNotApplicable = "不適用"
)

// Case-type labels, the six-way answer space reserved for A0.
var CaseTypeLabels = []string{"開發建置", "系統維運", "功能增修", "套裝軟體", "硬體", "其他"}

// ValidCompliance reports whether label is in the closed answer set for id.
// A0 uses the six case-type labels; every other id uses the four levels.
func ValidCompliance(id, label string) bool {
	label = strings.TrimSpace(label)
	if id == checklist.CaseTypeID {
		for _, c := range CaseTypeLabels {
			if label == c {
				return true
			}
		}
		return false
	}
	switch label {
	case ComplianceCompliant, CompliancePartial, ComplianceNotMentioned, ComplianceNotApplicable:
		return true
	}
	return false
}

// Evidence is one quoted passage backing a judgment. File and Page follow the
// extraction headers the corpus text is annotated with.
type Evidence struct {
	File  string `json:"file"`
	Page  int    `json:"page"`
	Quote string `json:"quote"`
}

// RawResponse is one element of the judgment pass's JSON array, before
// validation against the registry.
type RawResponse struct {
	ID             string     `json:"id"`
	Category       string     `json:"category"`
	Item           string     `json:"item"`
	Compliance     string     `json:"compliance"`
	Evidence       []Evidence `json:"evidence"`
	Recommendation string     `json:"recommendation"`
}

// Record is the validated per-item result. Exactly one exists per registry
// item after aggregation.
type Record struct {
	ID             string     `json:"id"`
	Category       string     `json:"category"`
	Item           string     `json:"item"`
	Compliance     string     `json:"compliance"`
	Evidence       []Evidence `json:"evidence"`
	Recommendation string     `json:"recommendation"`
}

// BatchOutcome is the explicit result of one judgment batch: either records
// or a failure reason. A failed batch degrades to 未提及 defaults during
// aggregation instead of aborting the run.
type BatchOutcome struct {
	Group   string
	Records []RawResponse
	Failure string
}

func (o BatchOutcome) Failed() bool { return o.Failure != "" }

type BatchFailure struct {
	Group  string `json:"group"`
	Reason string `json:"reason"`
}

type RunMetadata struct {
	StartedAt     time.Time      `json:"started_at"`
	CompletedAt   time.Time      `json:"completed_at"`
	Batches       int            `json:"batches"`
	LLMCalls      int            `json:"llm_calls"`
	Retries       int            `json:"retries"`
	FailedBatches []BatchFailure `json:"failed_batches,omitempty"`
}

// RunResult is one completed review run over a document corpus.
type RunResult struct {
	RunID    string                  `json:"run_id"`
	Project  string                  `json:"project"`
	Mode     checklist.GroupStrategy `json:"mode"`
	Records  []Record                `json:"records"`
	Metadata RunMetadata             `json:"metadata"`
}

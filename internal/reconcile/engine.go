package reconcile

import (
	"fmt"
	"sort"
	"strings"

	"github.com/itgov-review/rfpcheck/internal/checklist"
	"github.com/itgov-review/rfpcheck/internal/precheck"
	"github.com/itgov-review/rfpcheck/internal/review"
)

// Engine reconciles pre-review records against system checklist results.
type Engine struct {
	registry  *checklist.Registry
	threshold float64
}

// New builds an engine. A non-positive threshold falls back to
// DefaultThreshold.
func New(registry *checklist.Registry, threshold float64) *Engine {
	if threshold <= 0 {
		threshold = DefaultThreshold
	}
	return &Engine{registry: registry, threshold: threshold}
}

// Reconcile runs the two-phase sweep. Forward: each precheck record is
// canonicalized, matched exactly against an unconsumed system record, or
// fuzzy-matched above the threshold; classified consistent / inconsistent /
// extra-in-precheck. Reverse: unconsumed system records become
// extra-in-system. Every input record lands in exactly one output row; a
// system key is consumed by at most one precheck record, so duplicate
// precheck numbering surfaces as extra rows instead of double-matching.
// Missing or unmatchable data is a classification, never an error.
func (e *Engine) Reconcile(system []review.Record, pre []precheck.Record) []Comparison {
	index := make(map[string]review.Record, len(system))
	for _, s := range system {
		if _, dup := index[s.ID]; !dup {
			index[s.ID] = s
		}
	}
	consumed := make(map[string]bool, len(system))
	keyOrder := systemKeysInCanonicalOrder(system)

	var out []Comparison
	for _, p := range pre {
		cid := precheck.Canonicalize(p.RawID, p.ItemText)

		matchID := ""
		note := ""
		if cid != "" && !consumed[cid] {
			if _, ok := index[cid]; ok {
				matchID = cid
			}
		}
		if matchID == "" {
			query := cid
			if query == "" {
				query = strings.TrimSpace(p.RawID)
			}
			if query == "" {
				query = strings.TrimSpace(p.ItemText)
			}
			candidate, score := BestMatch(unconsumedKeys(keyOrder, consumed), query)
			if candidate != "" && score >= e.threshold {
				matchID = candidate
				note = fmt.Sprintf("（模糊比對 %.2f）", score)
			}
		}

		if matchID == "" {
			out = append(out, e.orphanPrecheck(cid, p))
			continue
		}
		consumed[matchID] = true
		out = append(out, e.compare(index[matchID], p, note))
	}

	for _, id := range keyOrder {
		if consumed[id] {
			continue
		}
		s := index[id]
		out = append(out, Comparison{
			Category:         s.Category,
			CanonicalID:      s.ID,
			ItemText:         s.Item,
			SystemCompliance: s.Compliance,
			Verdict:          VerdictExtraSystem,
			Explanation:      "系統審查項目未見於事前檢核表",
		})
	}

	sort.SliceStable(out, func(i, j int) bool {
		return checklist.KeyFor(out[i].CanonicalID).Less(checklist.KeyFor(out[j].CanonicalID))
	})
	return out
}

// compare classifies one matched pair. A0 carries the six-way case-type
// label and is compared literally; it must not pass through the three-state
// normalizer.
func (e *Engine) compare(s review.Record, p precheck.Record, note string) Comparison {
	c := Comparison{
		Category:         s.Category,
		CanonicalID:      s.ID,
		ItemText:         s.Item,
		PrecheckRaw:      p.RawStatus,
		SystemCompliance: s.Compliance,
	}
	if s.ID == checklist.CaseTypeID {
		c.PrecheckNormalized = strings.TrimSpace(p.RawStatus)
		if c.PrecheckNormalized == strings.TrimSpace(s.Compliance) {
			c.Verdict = VerdictConsistent
			c.Explanation = "案件類別一致" + note
		} else {
			c.Verdict = VerdictInconsistent
			c.Explanation = fmt.Sprintf("事前檢核案件類別「%s」與系統判定「%s」不一致%s", p.RawStatus, s.Compliance, note)
		}
		return c
	}
	norm := precheck.NormalizeStatus(p.RawStatus)
	c.PrecheckNormalized = string(norm)
	if string(norm) == s.Compliance {
		c.Verdict = VerdictConsistent
		c.Explanation = "事前檢核與系統審查結果一致" + note
	} else {
		c.Verdict = VerdictInconsistent
		c.Explanation = fmt.Sprintf("事前檢核為「%s」（正規化：%s），系統審查為「%s」%s", p.RawStatus, norm, s.Compliance, note)
	}
	return c
}

func (e *Engine) orphanPrecheck(cid string, p precheck.Record) Comparison {
	c := Comparison{
		CanonicalID: cid,
		ItemText:    p.ItemText,
		PrecheckRaw: p.RawStatus,
		Verdict:     VerdictExtraPrecheck,
		Explanation: "事前檢核表項目在系統審查結果中無對應",
	}
	if cid == checklist.CaseTypeID {
		c.PrecheckNormalized = strings.TrimSpace(p.RawStatus)
	} else {
		c.PrecheckNormalized = string(precheck.NormalizeStatus(p.RawStatus))
	}
	if it, ok := e.registry.Lookup(cid); ok {
		c.Category = it.Category
		if c.ItemText == "" {
			c.ItemText = it.Text
		}
	}
	return c
}

// systemKeysInCanonicalOrder orders the candidate key set the registry's
// way so fuzzy tie-breaks are reproducible. Keys outside the registry keep
// their input order after the canonical ones.
func systemKeysInCanonicalOrder(system []review.Record) []string {
	seen := make(map[string]bool, len(system))
	keys := make([]string, 0, len(system))
	for _, s := range system {
		if !seen[s.ID] {
			seen[s.ID] = true
			keys = append(keys, s.ID)
		}
	}
	sort.SliceStable(keys, func(i, j int) bool {
		return checklist.KeyFor(keys[i]).Less(checklist.KeyFor(keys[j]))
	})
	return keys
}

func unconsumedKeys(keys []string, consumed map[string]bool) []string {
	out := make([]string, 0, len(keys))
	for _, k := range keys {
		if !consumed[k] {
			out = append(out, k)
		}
	}
	return out
}

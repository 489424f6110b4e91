package review

import "github.com/itgov-review/rfpcheck/internal/checklist"

// Aggregate merges raw judgment responses against the registry slice it was
// asked about. Guarantees exactly one Record per item, in item order:
// unknown ids are discarded, the first occurrence wins for duplicate ids,
// absent ids get a 未提及 default, and missing sub-fields are filled from
// the registry. Unrecognized compliance labels are demoted to 未提及 at this
// boundary — unknown wording must never pass as a judgment.
func Aggregate(items []checklist.Item, raws []RawResponse) []Record {
	firstByID := make(map[string]RawResponse, len(raws))
	for _, raw := range raws {
		if _, seen := firstByID[raw.ID]; !seen {
			firstByID[raw.ID] = raw
		}
	}

	out := make([]Record, 0, len(items))
	for _, it := range items {
		raw, ok := firstByID[it.ID]
		if !ok {
			out = append(out, defaultRecord(it))
			continue
		}
		rec := Record{
			ID:             it.ID,
			Category:       raw.Category,
			Item:           raw.Item,
			Compliance:     raw.Compliance,
			Evidence:       raw.Evidence,
			Recommendation: raw.Recommendation,
		}
		if rec.Category == "" {
			rec.Category = it.Category
		}
		if rec.Item == "" {
			rec.Item = it.Text
		}
		if rec.Evidence == nil {
			rec.Evidence = []Evidence{}
		}
		if !ValidCompliance(it.ID, rec.Compliance) {
			rec.Compliance = ComplianceNotMentioned
		}
		out = append(out, rec)
	}
	return out
}

func defaultRecord(it checklist.Item) Record {
	return Record{
		ID:         it.ID,
		Category:   it.Category,
		Item:       it.Text,
		Compliance: ComplianceNotMentioned,
		Evidence:   []Evidence{},
	}
}

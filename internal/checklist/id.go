package checklist

import (
	"regexp"
	"strconv"
)

// CaseTypeID is the reserved identifier whose compliance value is a six-way
// case-type label rather than the four-way compliance level.
const CaseTypeID = "A0"

var canonicalPattern = regexp.MustCompile(`^([A-F])(\d+)(?:\.(\d+))?$`)

// IsCanonical reports whether id matches the canonical key pattern
// LETTER DIGIT+ ('.' DIGIT+)?, LETTER in A..F.
func IsCanonical(id string) bool {
	return canonicalPattern.MatchString(id)
}

// OrderKey is the numeric-aware sort key shared by the aggregator and the
// reconciliation engine. "A2.10" sorts after "A2.9"; string comparison would
// not give that.
type OrderKey struct {
	Letter int
	Major  int
	Minor  int
	Raw    string
}

const unknownLetterRank = 9

// KeyFor builds the sort key for an identifier. Non-canonical identifiers
// rank after every canonical one, ordered among themselves by raw string.
func KeyFor(id string) OrderKey {
	m := canonicalPattern.FindStringSubmatch(id)
	if m == nil {
		return OrderKey{Letter: unknownLetterRank, Raw: id}
	}
	major, _ := strconv.Atoi(m[2])
	minor := 0
	if m[3] != "" {
		minor, _ = strconv.Atoi(m[3])
	}
	return OrderKey{
		Letter: int(m[1][0] - 'A'),
		Major:  major,
		Minor:  minor,
		Raw:    id,
	}
}

func (k OrderKey) Less(o OrderKey) bool {
	if k.Letter != o.Letter {
		return k.Letter < o.Letter
	}
	if k.Major != o.Major {
		return k.Major < o.Major
	}
	if k.Minor != o.Minor {
		return k.Minor < o.Minor
	}
	return k.Raw < o.Raw
}

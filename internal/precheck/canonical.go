package precheck

import (
	"regexp"
	"strings"

	"github.com/itgov-review/rfpcheck/internal/checklist"
)

// Section-title substrings mapped to checklist letters. Order matters:
// earlier entries win when a text mentions several titles, so the more
// specific synonyms come first.
var sectionLetters = []struct {
	title  string
	letter string
}{
	{"基本與前案", "A"},
	{"案件類別", "A"},
	{"現況說明", "B"},
	{"資安需求", "C"},
	{"資訊安全", "C"},
	{"作業需求", "D"},
	{"產品交付", "E"},
	{"其他重點", "F"},
	{"其他注意", "F"},
}

var ordinalLetters = []struct {
	marker string
	letter string
}{
	{"第一", "A"},
	{"第二", "B"},
	{"第三", "C"},
	{"第四", "D"},
	{"第五", "E"},
	{"第六", "F"},
}

var (
	hyphenMajorPattern = regexp.MustCompile(`-\s*(\d+)`)
	parenMinorPattern  = regexp.MustCompile(`[(（](\d+)[)）]`)
	digitsPattern      = regexp.MustCompile(`\d+`)
)

// Canonicalize maps a free-form identifier to a canonical checklist key,
// returning empty on failure. Failure is a normal outcome — pre-review forms
// use inconsistent numbering like "現況說明 - 1.(2)" — and routes the record
// to orphan handling; it is never an error.
func Canonicalize(rawID, itemText string) string {
	normalized := strings.Join(strings.Fields(rawID), "")
	if checklist.IsCanonical(normalized) {
		return normalized
	}

	combined := rawID + " " + itemText

	letter := ""
	for _, s := range sectionLetters {
		if strings.Contains(combined, s.title) {
			letter = s.letter
			break
		}
	}
	if letter == "" {
		for _, o := range ordinalLetters {
			if strings.Contains(combined, o.marker) {
				letter = o.letter
				break
			}
		}
	}
	if letter == "" {
		return ""
	}

	major := ""
	if m := hyphenMajorPattern.FindStringSubmatch(rawID); m != nil {
		major = m[1]
	} else if m := digitsPattern.FindString(stripParenthesized(combined)); m != "" {
		major = m
	}
	if major == "" {
		return ""
	}

	id := letter + major
	if m := parenMinorPattern.FindStringSubmatch(combined); m != nil {
		id += "." + m[1]
	}
	return id
}

// stripParenthesized blanks out parenthesized numbers so the major-number
// scan only sees standalone integers. Leftmost-match semantics on what
// remains keep canonicalization deterministic.
func stripParenthesized(s string) string {
	return parenMinorPattern.ReplaceAllString(s, " ")
}

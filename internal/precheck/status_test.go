package precheck

import "testing"

func TestNormalizeStatus(t *testing.T) {
	for _, tc := range []struct {
		in   string
		want Status
	}{
		{"符合", StatusCompliant},
		{" 符合 ", StatusCompliant},
		{"OK", StatusCompliant},
		{"Pass", StatusCompliant},
		{"V", StatusCompliant},
		{"不適用", StatusNotApplicable},
		{"N/A", StatusNotApplicable},
		{"na", StatusNotApplicable},
		{"無", StatusNotApplicable},
		{"", StatusNotMentioned},
		{"   ", StatusNotMentioned},
		{"部分符合", StatusNotMentioned},
		{"待確認", StatusNotMentioned},
		{"compliant-ish", StatusNotMentioned},
	} {
		if got := NormalizeStatus(tc.in); got != tc.want {
			t.Fatalf("NormalizeStatus(%q) = %q, want %q", tc.in, got, tc.want)
		}
	}
}

func TestNormalizeStatusIsTotal(t *testing.T) {
	inputs := []string{"\x00", "💥", "符合\n不適用", "yes no", "０"}
	for _, in := range inputs {
		got := NormalizeStatus(in)
		if got != StatusCompliant && got != StatusNotApplicable && got != StatusNotMentioned {
			t.Fatalf("NormalizeStatus(%q) returned out-of-range %q", in, got)
		}
	}
}

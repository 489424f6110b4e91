package reconcile

import (
	"math"
	"testing"
)

func TestSimilarityIdentical(t *testing.T) {
	if got := Similarity("現況說明", "現況說明"); got != 1 {
		t.Fatalf("expected 1.0 for identical strings, got %f", got)
	}
}

func TestSimilarityBothEmpty(t *testing.T) {
	if got := Similarity("", ""); got != 1 {
		t.Fatalf("expected 1.0 for two empty strings, got %f", got)
	}
}

func TestSimilarityDisjoint(t *testing.T) {
	if got := Similarity("甲乙丙", "xyz"); got != 0 {
		t.Fatalf("expected 0.0 for disjoint strings, got %f", got)
	}
}

func TestSimilarityExactRatio(t *testing.T) {
	// 17 shared runes out of 20+20 gives exactly 2*17/40 = 0.85.
	a := "12345678901234567xyz"
	b := "12345678901234567abc"
	if got := Similarity(a, b); math.Abs(got-0.85) > 1e-9 {
		t.Fatalf("expected 0.85, got %f", got)
	}
	// 21 shared runes out of 25+25 gives exactly 42/50 = 0.84.
	a = "123456789012345678901wxyz"
	b = "123456789012345678901abcd"
	if got := Similarity(a, b); math.Abs(got-0.84) > 1e-9 {
		t.Fatalf("expected 0.84, got %f", got)
	}
}

func TestSimilaritySymmetricLengths(t *testing.T) {
	a := Similarity("A1", "A-1")
	b := Similarity("A-1", "A1")
	if math.Abs(a-b) > 1e-9 {
		t.Fatalf("similarity not symmetric: %f vs %f", a, b)
	}
	if math.Abs(a-0.8) > 1e-9 {
		t.Fatalf("expected 0.8 for A1/A-1, got %f", a)
	}
}

func TestBestMatchPicksHighest(t *testing.T) {
	got, score := BestMatch([]string{"A1", "B1", "B12"}, "B12")
	if got != "B12" || score != 1 {
		t.Fatalf("expected exact pick B12/1.0, got %s/%f", got, score)
	}
}

func TestBestMatchFirstWinsOnTie(t *testing.T) {
	// Both candidates share one rune of two with the query.
	got, _ := BestMatch([]string{"A1", "A2"}, "A9")
	if got != "A1" {
		t.Fatalf("expected first candidate to win the tie, got %s", got)
	}
}

func TestBestMatchEmptyCandidates(t *testing.T) {
	got, score := BestMatch(nil, "A1")
	if got != "" || score != 0 {
		t.Fatalf("expected empty result, got %s/%f", got, score)
	}
}

package search

import (
	"math"
	"testing"
)

func TestTokenize(t *testing.T) {
	got := tokenize("grand-ballroom, pune_city! 2024")
	want := []string{"grand", "ballroom", "pune_city", "2024"}
	if !equalIDs(got, want) {
		t.Errorf("tokenize() = %v, want %v", got, want)
	}
}

func TestRelevance_TFIDF(t *testing.T) {
	idx := newRelevanceIndex([]string{
		"garden wedding venue",
		"corporate hall",
		"garden party garden",
	})
	// df(garden)=2, N=3 -> idf = 1 + ln(3/3) = 1
	got := idx.Scores("garden")
	want := []float64{1, 0, 2}
	for i := range want {
		if math.Abs(got[i]-want[i]) > 1e-9 {
			t.Errorf("score[%d] = %v, want %v", i, got[i], want[i])
		}
	}
}

func TestRelevance_RareTermsWeighMore(t *testing.T) {
	idx := newRelevanceIndex([]string{"hall pune", "hall mumbai", "hall lawn"})
	scores := idx.Scores("lawn")
	common := idx.Scores("hall")
	if scores[2] <= common[2] {
		t.Errorf("rare term score %v should exceed common term score %v", scores[2], common[2])
	}
}

func TestRelevance_StopwordsNeverMatch(t *testing.T) {
	idx := newRelevanceIndex([]string{"the corporate hall", "the garden"})
	got := idx.Scores("the hall")
	// "the" is dropped from documents; hall: df=1, N=2 -> idf = 1
	if math.Abs(got[0]-1) > 1e-9 || got[1] != 0 {
		t.Errorf("Scores() = %v, want [1 0]", got)
	}
}

func TestRelevance_RepeatedQueryTermsCountTwice(t *testing.T) {
	idx := newRelevanceIndex([]string{"garden", "hall"})
	once := idx.Scores("garden")[0]
	twice := idx.Scores("garden garden")[0]
	if math.Abs(twice-2*once) > 1e-9 {
		t.Errorf("twice=%v once=%v", twice, once)
	}
}

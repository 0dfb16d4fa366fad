package search

import (
	"math"
	"strings"
	"unicode"
)

// relevanceIndex is a TF-IDF index over one call's candidates. Never cached.
type relevanceIndex struct {
	docs []map[string]int
	df   map[string]int
}

// newRelevanceIndex tokenizes each document and drops stopwords.
func newRelevanceIndex(texts []string) *relevanceIndex {
	idx := &relevanceIndex{
		docs: make([]map[string]int, len(texts)),
		df:   make(map[string]int),
	}
	for i, text := range texts {
		counts := make(map[string]int)
		for _, tok := range tokenize(text) {
			if _, stop := stopwords[tok]; stop {
				continue
			}
			counts[tok]++
		}
		for tok := range counts {
			idx.df[tok]++
		}
		idx.docs[i] = counts
	}
	return idx
}

// idf = 1 + ln(N / (1 + df)).
func (idx *relevanceIndex) idf(term string) float64 {
	return 1 + math.Log(float64(len(idx.docs))/float64(1+idx.df[term]))
}

// Scores returns sum(tf * idf) over the query tokens for every document.
// Query tokens are not stopword-filtered; stopwords just never match.
func (idx *relevanceIndex) Scores(query string) []float64 {
	terms := tokenize(strings.ToLower(query))
	scores := make([]float64, len(idx.docs))
	for _, term := range terms {
		idf := idx.idf(term)
		for i, doc := range idx.docs {
			if tf := doc[term]; tf > 0 {
				scores[i] += float64(tf) * idf
			}
		}
	}
	return scores
}

// tokenize splits on runs of anything other than letters, digits and '_'.
func tokenize(text string) []string {
	return strings.FieldsFunc(text, func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsDigit(r) && r != '_'
	})
}

var stopwords = func() map[string]struct{} {
	words := strings.Fields(`
		about above after again all also am an and another any are as at
		be because been before being below between both but by
		came can cannot come could did do does doing during each few for from further
		get got has had he have her here him himself his how
		if in into is it its itself like make many me might more most much must my myself
		never now of on only or other our ours ourselves out over own
		said same see should since so some still such
		take than that the their theirs them themselves then there these they this those through to too
		under until up very was way we well were what where when which while who whom with would why
		you your yours yourself
		a b c d e f g h i j k l m n o p q r s t u v w x y z
		$ 1 2 3 4 5 6 7 8 9 0 _`)
	m := make(map[string]struct{}, len(words))
	for _, w := range words {
		m[w] = struct{}{}
	}
	return m
}()

package query

import (
	"sort"
	"strings"

	"github.com/hscells/ecn/preprocess"
	"github.com/hscells/ecn/stats"
	"gonum.org/v1/gonum/floats"
)

// ExpansionTerms is the number of terms kept from a relevance model.
const ExpansionTerms = 20

// Expander estimates expansion terms from a set of feedback documents.
type Expander interface {
	Estimate(feedback []stats.ScoredDocument) ([]WeightedTerm, error)
}

// RelevanceModel is an RM3 estimator. Each feedback document is weighted by its share of the
// total feedback score and every analysed term occurrence in the document contributes that weight.
type RelevanceModel struct {
	Analyser  stats.Analyser
	StopWords preprocess.StopWords
	Terms     int
}

// NewRelevanceModel creates an estimator keeping the top ExpansionTerms terms.
func NewRelevanceModel(a stats.Analyser, stopwords preprocess.StopWords) RelevanceModel {
	return RelevanceModel{Analyser: a, StopWords: stopwords, Terms: ExpansionTerms}
}

// Estimate implements Expander. Terms are ordered by weight, then alphabetically.
func (r RelevanceModel) Estimate(feedback []stats.ScoredDocument) ([]WeightedTerm, error) {
	scores := make([]float64, len(feedback))
	for i, doc := range feedback {
		scores[i] = doc.Score
	}
	norm := floats.Sum(scores)

	dist := make(map[string]float64)
	for _, doc := range feedback {
		var weight float64
		if norm != 0 {
			weight = doc.Score / norm
		}
		text := strings.Join(preprocess.Tokens(doc.Passage.Text, r.StopWords), " ")
		terms, err := r.Analyser.Analyse(text)
		if err != nil {
			return nil, err
		}
		for _, term := range terms {
			dist[term] += weight
		}
	}

	terms := make([]WeightedTerm, 0, len(dist))
	for term, weight := range dist {
		terms = append(terms, WeightedTerm{Term: term, Weight: weight})
	}
	sort.Slice(terms, func(i, j int) bool {
		if terms[i].Weight != terms[j].Weight {
			return terms[i].Weight > terms[j].Weight
		}
		return terms[i].Term < terms[j].Term
	})

	n := r.Terms
	if n <= 0 {
		n = ExpansionTerms
	}
	if len(terms) > n {
		terms = terms[:n]
	}
	return terms, nil
}

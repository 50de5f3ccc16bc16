package rank

import (
	"sort"

	"github.com/hscells/ecn/query"
	"github.com/hscells/ecn/stats"
)

// ScoredDocuments is a ranking of passages.
type ScoredDocuments []stats.ScoredDocument

// Sort orders documents by score, highest first. Equal scores are ordered by identifier.
func (d ScoredDocuments) Sort() {
	sort.SliceStable(d, func(i, j int) bool {
		if d[i].Score != d[j].Score {
			return d[i].Score > d[j].Score
		}
		return d[i].ID < d[j].ID
	})
}

// Rank scores every document of the posting that contains at least one term of the model. A
// document's score is the sum of its clause scores, each clause score multiplied by the clause
// boost. At most n documents are returned.
func Rank(model query.Model, p *Posting, scorer Scorer, n int) ScoredDocuments {
	scores := make(map[int]float64)
	for _, clause := range model.Clauses {
		t := hash(clause.Term)
		for doc := range p.Index[t] {
			scores[doc] += clause.Boost * scorer.Score(p, t, doc)
		}
	}

	docs := make(ScoredDocuments, 0, len(scores))
	for doc, score := range scores {
		docs = append(docs, stats.ScoredDocument{
			ID:      p.Docs[doc].ID,
			Passage: p.Docs[doc],
			Score:   score,
		})
	}
	docs.Sort()
	if n >= 0 && len(docs) > n {
		docs = docs[:n]
	}
	return docs
}

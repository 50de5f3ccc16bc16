package rank

import (
	"fmt"
	"hash/fnv"
	"log"
	"strings"

	"github.com/hscells/ecn/query"
	"github.com/hscells/ecn/stats"
)

// Depths of the feedback set and of the final ranking.
const (
	FeedbackDepth = 100
	RankingDepth  = 1000
)

// CandidateRanker ranks a pool of candidate passages for a query and an entity. An initial
// ranking of the pool provides the feedback set for a relevance model; the pool is then re-ranked
// with the query expanded by the relevance model.
type CandidateRanker struct {
	Analyser      stats.Analyser
	Builder       query.Builder
	Expander      query.Expander
	Scorer        Scorer
	FeedbackDepth int
	Depth         int
	// ExpandWithEntity keeps the entity text in the expanded query.
	ExpandWithEntity bool
	Cache            RankingCacher
}

// NewCandidateRanker creates a ranker with the default depths and Jelinek-Mercer smoothing.
func NewCandidateRanker(a stats.Analyser, expander query.Expander) CandidateRanker {
	return CandidateRanker{
		Analyser:      a,
		Builder:       query.NewBuilder(a),
		Expander:      expander,
		Scorer:        DefaultJelinekMercer,
		FeedbackDepth: FeedbackDepth,
		Depth:         RankingDepth,
	}
}

// Rank ranks the candidates. An empty ranking is returned, without estimating a relevance model,
// when no candidate matches the initial query.
func (r CandidateRanker) Rank(queryText, entityText string, candidates []stats.Passage) (ScoredDocuments, error) {
	var key string
	if r.Cache != nil {
		key = cacheKey(queryText, entityText, candidates)
		if docs, err := r.Cache.Get(key); err == nil {
			return docs, nil
		}
	}

	p, err := Index(candidates, r.Analyser)
	if err != nil {
		return nil, err
	}

	initial, err := r.Builder.Build(queryText, entityText, nil)
	if err != nil {
		return nil, err
	}
	feedback := Rank(initial, p, r.Scorer, r.FeedbackDepth)
	if len(feedback) == 0 {
		return nil, nil
	}

	terms, err := r.Expander.Estimate(feedback)
	if err != nil {
		return nil, err
	}
	var et string
	if r.ExpandWithEntity {
		et = entityText
	}
	expanded, err := r.Builder.Build(queryText, et, terms)
	if err != nil {
		return nil, err
	}
	docs := Rank(expanded, p, r.Scorer, r.Depth)

	if r.Cache != nil {
		if err := r.Cache.Set(key, docs); err != nil {
			log.Printf("could not cache ranking: %v\n", err)
		}
	}
	return docs, nil
}

// Expand builds a query model from the query text expanded with a relevance model estimated from
// feedback.
func (r CandidateRanker) Expand(queryText string, feedback []stats.ScoredDocument) (query.Model, error) {
	terms, err := r.Expander.Estimate(feedback)
	if err != nil {
		return query.Model{}, err
	}
	return r.Builder.Build(queryText, "", terms)
}

// RankWith ranks passages against an already built model.
func (r CandidateRanker) RankWith(model query.Model, passages []stats.Passage, n int) (ScoredDocuments, error) {
	p, err := Index(passages, r.Analyser)
	if err != nil {
		return nil, err
	}
	return Rank(model, p, r.Scorer, n), nil
}

func cacheKey(queryText, entityText string, candidates []stats.Passage) string {
	h := fnv.New64a()
	ids := make([]string, len(candidates))
	for i, c := range candidates {
		ids[i] = c.ID
	}
	_, _ = fmt.Fprintf(h, "%s\x00%s\x00%s", queryText, entityText, strings.Join(ids, "\x00"))
	return fmt.Sprintf("%016x", h.Sum64())
}

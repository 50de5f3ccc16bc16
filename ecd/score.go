package ecd

import (
	"sort"

	"github.com/hscells/ecn/stats"
)

// ScoredPassage is a passage of an entity context document with its score.
type ScoredPassage struct {
	Passage stats.Passage
	Score   float64
	Rank    int
}

// PassageScore sums the weight of every entity mentioned in p. Each mention counts, so an entity
// mentioned twice contributes twice.
func PassageScore(p stats.Passage, dist FrequencyDistribution) float64 {
	var score float64
	for _, m := range p.Mentions {
		score += dist[m.EntityID]
	}
	return score
}

// Score scores every passage of d, keyed by passage identifier.
func Score(d *Document, dist FrequencyDistribution) map[string]float64 {
	scores := make(map[string]float64, len(d.Passages))
	for _, p := range d.Passages {
		scores[p.ID] = PassageScore(p, dist)
	}
	return scores
}

// Best selects the passage with the highest score. When several passages share the highest score
// the first of them in the document wins. The boolean is false when no passage scores above zero.
func Best(d *Document, dist FrequencyDistribution) (ScoredPassage, bool) {
	var (
		best  ScoredPassage
		found bool
	)
	for _, p := range d.Passages {
		score := PassageScore(p, dist)
		if score > best.Score {
			best = ScoredPassage{Passage: p, Score: score, Rank: 1}
			found = true
		}
	}
	return best, found
}

// Ranking orders the passages of d that score above zero by score, then by identifier, and assigns
// ranks from one.
func Ranking(d *Document, dist FrequencyDistribution) []ScoredPassage {
	var ranking []ScoredPassage
	for _, p := range d.Passages {
		score := PassageScore(p, dist)
		if score > 0 {
			ranking = append(ranking, ScoredPassage{Passage: p, Score: score})
		}
	}
	sort.SliceStable(ranking, func(i, j int) bool {
		if ranking[i].Score != ranking[j].Score {
			return ranking[i].Score > ranking[j].Score
		}
		return ranking[i].Passage.ID < ranking[j].Passage.ID
	})
	for i := range ranking {
		ranking[i].Rank = i + 1
	}
	return ranking
}

// Neighbours builds the entity context document of entity from ranked passages and the
// distribution of the entities it co-occurs with. Only members of reference are counted and the
// mentions of entity itself are left out before normalising. The boolean is false when no ranked
// passage mentions entity.
func Neighbours(entity string, ranked []stats.ScoredDocument, reference Membership) (*Document, FrequencyDistribution, bool) {
	d, ok := Build(entity, ranked)
	if !ok {
		return nil, nil, false
	}
	return d, Distribution(d.ContextEntities, excluding{Membership: reference, entity: entity}), true
}

type excluding struct {
	Membership
	entity string
}

func (e excluding) Contains(id string) bool {
	return id != e.entity && e.Membership.Contains(id)
}

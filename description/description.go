// Package description selects the text that describes an entity for a query.
package description

import (
	"strings"

	"github.com/hscells/ecn/ecd"
	"github.com/hscells/ecn/rank"
	"github.com/hscells/ecn/stats"
)

// Description is the selected text of an entity and where it came from.
type Description struct {
	ParaID   string
	AspectID string
	Text     string
}

// Request is everything a strategy may use to describe an entity.
type Request struct {
	QueryID    string
	EntityID   string
	QueryText  string
	EntityText string
	// Reference is the set of entities co-occurrences are counted over.
	Reference ecd.Membership
	// Rank ranks the candidate passages of the entity. It is only called by strategies that need
	// the ranking.
	Rank func() (rank.ScoredDocuments, error)
}

// Strategy selects a description. The boolean is false when there is nothing to describe the
// entity with, which is not an error.
type Strategy interface {
	Describe(r Request) (Description, bool, error)
}

// TopPassage describes an entity with the passage of its context document that scores highest
// with entity context neighbours.
type TopPassage struct{}

// TopAspectOfTopPassage describes an entity with the aspect it is linked to in the passage chosen
// by TopPassage. Aspect text is read from Catalog.
type TopAspectOfTopPassage struct {
	Catalog stats.DocumentStore
}

// TopCandidate describes an entity with the first passage of the candidate ranking.
type TopCandidate struct{}

// LeadText describes an entity with the lead text stored for it in Store.
type LeadText struct {
	Store stats.DocumentStore
}

// Describe implements Strategy.
func (TopPassage) Describe(r Request) (Description, bool, error) {
	best, ok, err := bestPassage(r)
	if err != nil || !ok {
		return Description{}, false, err
	}
	return Description{ParaID: best.Passage.ID, Text: best.Passage.Text}, true, nil
}

// Describe implements Strategy.
func (s TopAspectOfTopPassage) Describe(r Request) (Description, bool, error) {
	best, ok, err := bestPassage(r)
	if err != nil || !ok {
		return Description{}, false, err
	}
	aspect, ok := best.Passage.AspectOf(r.EntityID)
	if !ok || len(aspect) == 0 {
		return Description{}, false, nil
	}
	text, ok, err := stats.Field(s.Catalog, stats.TextField, aspect)
	if err != nil || !ok || len(strings.TrimSpace(text)) == 0 {
		return Description{}, false, err
	}
	return Description{ParaID: best.Passage.ID, AspectID: aspect, Text: text}, true, nil
}

// Describe implements Strategy.
func (TopCandidate) Describe(r Request) (Description, bool, error) {
	ranked, err := r.Rank()
	if err != nil || len(ranked) == 0 {
		return Description{}, false, err
	}
	top := ranked[0]
	return Description{ParaID: top.ID, Text: top.Passage.Text}, true, nil
}

// Describe implements Strategy.
func (s LeadText) Describe(r Request) (Description, bool, error) {
	text, ok, err := stats.Field(s.Store, stats.LeadTextField, r.EntityID)
	if err != nil || !ok || len(strings.TrimSpace(text)) == 0 {
		return Description{}, false, err
	}
	return Description{Text: text}, true, nil
}

func bestPassage(r Request) (ecd.ScoredPassage, bool, error) {
	ranked, err := r.Rank()
	if err != nil {
		return ecd.ScoredPassage{}, false, err
	}
	d, dist, ok := ecd.Neighbours(r.EntityID, ranked, r.Reference)
	if !ok {
		return ecd.ScoredPassage{}, false, nil
	}
	best, ok := ecd.Best(d, dist)
	return best, ok, nil
}

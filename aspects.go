package ecn

import (
	"strings"

	"github.com/hscells/ecn/output"
	"github.com/hscells/ecn/pipeline"
	"github.com/hscells/ecn/query"
	"github.com/hscells/ecn/reference"
	"github.com/hscells/ecn/stats"
	"github.com/pkg/errors"
)

// aspectDepth bounds the ranking of the aspects of an entity.
const aspectDepth = 100

// paraAspect is an aspect document linked from a passage.
type paraAspect struct {
	ParaID string
	Aspect stats.Passage
}

// candidateSet holds the entities found in the top passages of a query.
type candidateSet struct {
	top []stats.ScoredDocument
	// aspects of each entity that resolve to a catalog document, first occurrence first.
	aspects map[string][]paraAspect
	// scores sums the scores of the top passages that mention each entity.
	scores map[string]float64
}

// topPassages loads the first k passages of a passage run, keeping their run scores.
func (p Pipeline) topPassages(r *reference.Ranking) ([]stats.ScoredDocument, error) {
	ids := r.Top(p.TopPassages)
	passages, err := stats.Passages(p.Store, ids)
	if err != nil {
		return nil, err
	}
	top := make([]stats.ScoredDocument, len(passages))
	for i, passage := range passages {
		score, _ := r.Score(passage.ID)
		top[i] = stats.ScoredDocument{ID: passage.ID, Passage: passage, Score: score}
	}
	return top, nil
}

func (p Pipeline) newCandidateSet(top []stats.ScoredDocument) (*candidateSet, error) {
	cs := &candidateSet{
		top:     top,
		aspects: make(map[string][]paraAspect),
		scores:  make(map[string]float64),
	}
	seen := make(map[string]map[string]struct{})
	for _, doc := range top {
		mentioned := make(map[string]struct{})
		for _, m := range doc.Passage.Mentions {
			if _, ok := mentioned[m.EntityID]; !ok {
				mentioned[m.EntityID] = struct{}{}
				cs.scores[m.EntityID] += doc.Score
			}

			if len(m.AspectID) == 0 {
				continue
			}
			if _, ok := seen[m.EntityID][m.AspectID]; ok {
				continue
			}
			aspect, ok, err := stats.GetPassage(p.AspectCatalog, m.AspectID)
			if err != nil {
				return nil, err
			}
			if !ok {
				continue
			}
			if seen[m.EntityID] == nil {
				seen[m.EntityID] = make(map[string]struct{})
			}
			seen[m.EntityID][m.AspectID] = struct{}{}
			cs.aspects[m.EntityID] = append(cs.aspects[m.EntityID], paraAspect{ParaID: doc.ID, Aspect: aspect})
		}
	}
	return cs, nil
}

// entities lists the entities that have at least one aspect.
func (cs *candidateSet) entities() reference.Set {
	ids := make([]string, 0, len(cs.aspects))
	for id := range cs.aspects {
		ids = append(ids, id)
	}
	return reference.NewSet(ids...)
}

// aspectCandidates describes the entities of the top passages of the passage run with the aspect
// they are linked to. An entity linked to several aspects is described with the aspect that
// ranks highest for the query expanded with the top passages.
func (p Pipeline) aspectCandidates(q pipeline.Query, c chan<- pipeline.Result) pipeline.Result {
	res := pipeline.Result{Topic: q.Topic, Type: pipeline.Snippet}

	var relevant reference.Set
	if p.Mode == Train {
		var ok bool
		if relevant, ok = p.References.Qrels[q.Topic]; !ok {
			c <- pipeline.Result{
				Topic: q.Topic,
				Error: errors.Wrapf(reference.ErrMissing, "relevant entities of query %s", q.Topic),
				Type:  pipeline.Error,
			}
			return res
		}
	}

	top, err := p.topPassages(p.References.PassageRun[q.Topic])
	if err != nil {
		c <- pipeline.Result{Topic: q.Topic, Error: err, Type: pipeline.Error}
		return res
	}
	cs, err := p.newCandidateSet(top)
	if err != nil {
		c <- pipeline.Result{Topic: q.Topic, Error: err, Type: pipeline.Error}
		return res
	}

	var model *query.Model
	describe := func(entities reference.Set) []output.Record {
		var records []output.Record
		for _, entity := range entities {
			aspects := cs.aspects[entity]
			if len(aspects) == 0 {
				continue
			}
			best := aspects[0]
			if len(aspects) > 1 {
				if model == nil {
					m, err := p.Ranker.Expand(q.Name, cs.top)
					if err != nil {
						c <- pairError(q, entity, err)
						continue
					}
					model = &m
				}
				var ok bool
				best, ok, err = p.topAspect(*model, aspects)
				if err != nil {
					c <- pairError(q, entity, err)
					continue
				}
				if !ok {
					continue
				}
			}
			if len(strings.TrimSpace(best.Aspect.Text)) == 0 {
				continue
			}
			records = append(records, output.Record{
				QueryID:  q.Topic,
				EntityID: entity,
				Snippet:  output.NewSnippet(best.ParaID, best.Aspect.ID, best.Aspect.Text, cs.scores[entity]),
			})
		}
		return records
	}

	entities := cs.entities()
	if p.Mode == Train {
		res.Records = describe(entities.Inter(relevant))
		res.Negatives = describe(entities.Diff(relevant))
	} else {
		res.Records = describe(entities)
	}
	return res
}

// topAspect ranks aspect documents against the model and returns the first.
func (p Pipeline) topAspect(model query.Model, aspects []paraAspect) (paraAspect, bool, error) {
	docs := make([]stats.Passage, len(aspects))
	byID := make(map[string]paraAspect, len(aspects))
	for i, a := range aspects {
		docs[i] = a.Aspect
		byID[a.Aspect.ID] = a
	}
	ranked, err := p.Ranker.RankWith(model, docs, aspectDepth)
	if err != nil || len(ranked) == 0 {
		return paraAspect{}, false, err
	}
	return byID[ranked[0].ID], true, nil
}

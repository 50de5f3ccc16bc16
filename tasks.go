package ecn

import (
	"strings"

	"github.com/hscells/ecn/description"
	"github.com/hscells/ecn/ecd"
	"github.com/hscells/ecn/output"
	"github.com/hscells/ecn/pipeline"
	"github.com/hscells/ecn/rank"
	"github.com/hscells/ecn/reference"
	"github.com/hscells/ecn/stats"
	"github.com/hscells/trecresults"
	"github.com/pkg/errors"
)

// Mode decides where the candidate entities of a query come from.
type Mode string

// Task is the kind of data a pipeline prepares.
type Task string

const (
	// Train takes candidates from the positive and negative entities of a query.
	Train Mode = "train"
	// Dev takes candidates from the entity run.
	Dev Mode = "dev"
	// Test takes candidates from the entity run.
	Test Mode = "test"
)

const (
	// SupportPsg describes entities with their entity context neighbour passage.
	SupportPsg Task = "SupportPsg"
	// BM25Psg describes entities with their top ranked candidate passage.
	BM25Psg Task = "BM25Psg"
	// AspectSupportPsg describes entities with their aspect in the entity context neighbour passage.
	AspectSupportPsg Task = "AspectSupportPsg"
	// LeadText describes entities with their lead text.
	LeadText Task = "LeadText"
	// ECNRun writes a run of the passages of every entity context document.
	ECNRun Task = "ECNRun"
	// AspectCandidateSet describes the entities of the top passages of a passage run with their
	// aspects.
	AspectCandidateSet Task = "AspectCandidateSet"
)

var (
	modes = []Mode{Train, Dev, Test}
	tasks = []Task{SupportPsg, BM25Psg, AspectSupportPsg, LeadText, ECNRun, AspectCandidateSet}
)

// ParseMode parses a mode name.
func ParseMode(s string) (Mode, error) {
	for _, m := range modes {
		if string(m) == s {
			return m, nil
		}
	}
	return "", errors.Errorf("unknown mode %q, expected one of %v", s, modes)
}

// ParseTask parses a task name. Names are matched case-insensitively.
func ParseTask(s string) (Task, error) {
	for _, t := range tasks {
		if strings.EqualFold(string(t), s) {
			return t, nil
		}
	}
	return "", errors.Errorf("unknown task %q, expected one of %v", s, tasks)
}

// candidates are the entities to describe for a topic.
func (p Pipeline) candidates(topic string) reference.Set {
	if p.Mode == Train {
		return p.References.Candidates[topic]
	}
	return p.References.EntityRun[topic].Set()
}

// entityScore is the score of an entity in the entity run. Training data of tasks that do not
// use the entity run is not scored.
func (p Pipeline) entityScore(topic, entity string) float64 {
	if p.Mode == Train && (p.Task == BM25Psg || p.Task == LeadText) {
		return 0
	}
	s, _ := p.References.EntityRun[topic].Score(entity)
	return s
}

// ranking ranks the candidate passages of an entity for a query.
func (p Pipeline) ranking(q pipeline.Query, entity string) func() (rank.ScoredDocuments, error) {
	return func() (rank.ScoredDocuments, error) {
		name, ok := p.References.Entities[entity]
		if !ok {
			return nil, errors.Wrapf(reference.ErrMissing, "entity %s", entity)
		}
		ids, ok := p.References.Passages[entity]
		if !ok {
			return nil, errors.Wrapf(reference.ErrMissing, "passages of entity %s", entity)
		}
		passages, err := stats.Passages(p.Store, ids)
		if err != nil {
			return nil, err
		}
		return p.Ranker.Rank(q.Name, name, passages)
	}
}

func pairError(q pipeline.Query, entity string, err error) pipeline.Result {
	return pipeline.Result{
		Topic: q.Topic,
		Error: errors.Wrapf(err, "query %s entity %s", q.Topic, entity),
		Type:  pipeline.Error,
	}
}

// describe creates the processor of the tasks that describe each candidate entity with a strategy.
func (p Pipeline) describe(s description.Strategy) processor {
	return func(q pipeline.Query, c chan<- pipeline.Result) pipeline.Result {
		ref := p.References.EntityRun[q.Topic].Set()
		res := pipeline.Result{Topic: q.Topic, Type: pipeline.Snippet}
		for _, entity := range p.candidates(q.Topic) {
			if p.Task == AspectSupportPsg && !ref.Contains(entity) {
				continue
			}
			d, ok, err := s.Describe(description.Request{
				QueryID:    q.Topic,
				EntityID:   entity,
				QueryText:  q.Name,
				EntityText: p.References.Entities[entity],
				Reference:  ref,
				Rank:       p.ranking(q, entity),
			})
			if err != nil {
				c <- pairError(q, entity, err)
				continue
			}
			if !ok {
				continue
			}
			res.Records = append(res.Records, output.Record{
				QueryID:  q.Topic,
				EntityID: entity,
				Snippet:  output.NewSnippet(d.ParaID, d.AspectID, d.Text, p.entityScore(q.Topic, entity)),
			})
		}
		return res
	}
}

// run ranks the passages of the context document of every candidate entity.
func (p Pipeline) run(q pipeline.Query, c chan<- pipeline.Result) pipeline.Result {
	ref := p.References.EntityRun[q.Topic].Set()
	results := trecresults.ResultList{}
	for _, entity := range p.candidates(q.Topic) {
		ranked, err := p.ranking(q, entity)()
		if err != nil {
			c <- pairError(q, entity, err)
			continue
		}
		d, dist, ok := ecd.Neighbours(entity, ranked, ref)
		if !ok {
			continue
		}
		for _, sp := range ecd.Ranking(d, dist) {
			results = append(results, &trecresults.Result{
				Topic:     q.Topic,
				Iteration: "Q0",
				DocId:     entity + "/" + sp.Passage.ID,
				Rank:      int64(sp.Rank),
				Score:     sp.Score,
				RunName:   output.MethodECN,
			})
		}
	}
	return pipeline.Result{
		Topic:       q.Topic,
		TrecResults: &results,
		Type:        pipeline.TrecResult,
	}
}

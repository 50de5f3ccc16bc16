// Package ecn prepares training and evaluation data for entity ranking. Each candidate entity of a
// query is described by a passage (or an aspect) selected with entity context neighbours: the
// passages that mention the entity are ranked for the query, and a passage scores highly when it
// mentions the entities that co-occur most with the target entity.
package ecn

import (
	"context"
	"fmt"
	"log"
	"sort"
	"sync"
	"sync/atomic"

	"github.com/cheggaaa/pb/v3"
	"github.com/google/uuid"
	"github.com/hscells/ecn/description"
	"github.com/hscells/ecn/pipeline"
	"github.com/hscells/ecn/query"
	"github.com/hscells/ecn/rank"
	"github.com/hscells/ecn/reference"
	"github.com/hscells/ecn/stats"
	"github.com/hscells/headway"
	"github.com/pkg/errors"
)

// DefaultTopPassages is how many passages of a passage run are searched for aspects.
const DefaultTopPassages = 100

// Pipeline contains all the information for preparing the data of one task.
type Pipeline struct {
	Mode       Mode
	Task       Task
	Store      stats.DocumentStore
	References References
	Ranker     rank.CandidateRanker
	// Strategy overrides the description strategy of the task.
	Strategy      description.Strategy
	AspectCatalog stats.DocumentStore
	EntityStore   stats.DocumentStore
	Workers       int
	TopPassages   int
	HeadwayServer string
	ShowProgress  bool
}

// References are the lookup tables of a pipeline. Only the tables a task uses need to be set.
type References struct {
	// Queries maps query ids to query text.
	Queries reference.Table
	// Entities maps entity ids to entity names.
	Entities reference.Table
	// Passages maps entity ids to their candidate passages.
	Passages reference.PassageLists
	// EntityRun ranks the entities of each query. Its entities are the reference set of a query.
	EntityRun reference.Run
	// Candidates are the positive and negative entities of each training query.
	Candidates reference.Entities
	// Qrels are the relevant entities of each query.
	Qrels reference.Entities
	// PassageRun ranks passages for each query.
	PassageRun reference.Run
}

type (
	workers       int
	topPassages   int
	headwayServer string
	progress      bool
	aspectCatalog struct{ stats.DocumentStore }
	entityStore   struct{ stats.DocumentStore }
)

// Workers sets how many queries are processed at once.
func Workers(n int) func() interface{} {
	return func() interface{} {
		return workers(n)
	}
}

// Ranker configures the candidate passage ranker.
func Ranker(r rank.CandidateRanker) func() interface{} {
	return func() interface{} {
		return r
	}
}

// Strategy configures how entities are described.
func Strategy(s description.Strategy) func() interface{} {
	return func() interface{} {
		return s
	}
}

// AspectCatalog configures the store aspect text is read from.
func AspectCatalog(s stats.DocumentStore) func() interface{} {
	return func() interface{} {
		return aspectCatalog{s}
	}
}

// EntityStore configures the store the lead text of entities is read from.
func EntityStore(s stats.DocumentStore) func() interface{} {
	return func() interface{} {
		return entityStore{s}
	}
}

// TopPassages sets how many passages of a passage run are searched for aspects.
func TopPassages(k int) func() interface{} {
	return func() interface{} {
		return topPassages(k)
	}
}

// Headway reports progress to a headway server.
func Headway(server string) func() interface{} {
	return func() interface{} {
		return headwayServer(server)
	}
}

// Progress shows a progress bar when queries are processed one at a time.
func Progress(show bool) func() interface{} {
	return func() interface{} {
		return progress(show)
	}
}

// NewPipeline creates a new ecn pipeline. The mode, task, passage store and reference tables are
// required. Additional components are provided via the optional functional arguments.
func NewPipeline(mode Mode, task Task, store stats.DocumentStore, refs References, components ...func() interface{}) Pipeline {
	p := Pipeline{
		Mode:        mode,
		Task:        task,
		Store:       store,
		References:  refs,
		Ranker:      rank.NewCandidateRanker(store, query.NewRelevanceModel(store, nil)),
		Workers:     1,
		TopPassages: DefaultTopPassages,
	}

	for _, component := range components {
		val := component()
		switch v := val.(type) {
		case workers:
			p.Workers = int(v)
		case rank.CandidateRanker:
			p.Ranker = v
		case description.Strategy:
			p.Strategy = v
		case aspectCatalog:
			p.AspectCatalog = v.DocumentStore
		case entityStore:
			p.EntityStore = v.DocumentStore
		case topPassages:
			p.TopPassages = int(v)
		case headwayServer:
			p.HeadwayServer = string(v)
		case progress:
			p.ShowProgress = bool(v)
		}
	}

	return p
}

// processor prepares the data of a single query. Errors that only affect one entity are sent
// through c and do not stop the query.
type processor func(q pipeline.Query, c chan<- pipeline.Result) pipeline.Result

func (p Pipeline) processor() (processor, error) {
	switch p.Task {
	case ECNRun:
		return p.run, nil
	case AspectCandidateSet:
		if p.AspectCatalog == nil {
			return nil, errors.Errorf("%s needs an aspect catalog", p.Task)
		}
		return p.aspectCandidates, nil
	}
	s, err := p.strategy()
	if err != nil {
		return nil, err
	}
	return p.describe(s), nil
}

func (p Pipeline) strategy() (description.Strategy, error) {
	if p.Strategy != nil {
		return p.Strategy, nil
	}
	switch p.Task {
	case SupportPsg:
		return description.TopPassage{}, nil
	case BM25Psg:
		return description.TopCandidate{}, nil
	case AspectSupportPsg:
		if p.AspectCatalog == nil {
			return nil, errors.Errorf("%s needs an aspect catalog", p.Task)
		}
		return description.TopAspectOfTopPassage{Catalog: p.AspectCatalog}, nil
	case LeadText:
		if p.EntityStore == nil {
			return nil, errors.Errorf("%s needs an entity store", p.Task)
		}
		return description.LeadText{Store: p.EntityStore}, nil
	}
	return nil, errors.Errorf("unknown task %q", p.Task)
}

// queries lists the queries of the task in topic order. Topics without query text are reported
// and skipped.
func (p Pipeline) queries(c chan<- pipeline.Result) []pipeline.Query {
	var topics reference.Set
	switch {
	case p.Task == AspectCandidateSet:
		topics = p.References.PassageRun.Topics()
	case p.Mode == Train:
		topics = p.References.Candidates.Topics()
	default:
		topics = p.References.EntityRun.Topics()
	}

	queries := make([]pipeline.Query, 0, len(topics))
	for _, topic := range topics {
		name, ok := p.References.Queries[topic]
		if !ok {
			c <- pipeline.Result{
				Topic: topic,
				Error: errors.Wrapf(reference.ErrMissing, "query %s", topic),
				Type:  pipeline.Error,
			}
			continue
		}
		queries = append(queries, pipeline.NewQuery(name, topic))
	}
	return queries
}

// Execute runs the pipeline. Queries are split between the workers up front and each query is
// processed by a single worker. Results are sent through c in topic order once every query has
// been processed, followed by a Done result. The channel is closed when Execute returns.
func (p Pipeline) Execute(ctx context.Context, c chan pipeline.Result) {
	defer close(c)
	runID := uuid.New().String()
	log.Printf("starting ecn pipeline %s (%s %s)...\n", runID, p.Mode, p.Task)

	process, err := p.processor()
	if err != nil {
		c <- pipeline.Result{
			Error: err,
			Type:  pipeline.Error,
		}
		return
	}

	queries := p.queries(c)
	total := len(queries)
	n := p.Workers
	if n < 1 {
		n = 1
	}
	if n > total {
		n = total
	}
	log.Printf("processing %d queries with %d workers\n", total, n)

	var hw *headway.Client
	if len(p.HeadwayServer) > 0 {
		hw = headway.NewClient(p.HeadwayServer, fmt.Sprintf("ecn %s %s [%s]", p.Mode, p.Task, runID))
	}
	var bar *pb.ProgressBar
	if n == 1 && p.ShowProgress {
		bar = pb.StartNew(total)
	}

	var (
		mu      sync.Mutex
		wg      sync.WaitGroup
		done    int64
		results = make([]pipeline.Result, 0, total)
	)
	for w := 0; w < n; w++ {
		wg.Add(1)
		go func(w int) {
			defer wg.Done()
			var local []pipeline.Result
			for i := w; i < total; i += n {
				if ctx.Err() != nil {
					break
				}
				q := queries[i]
				local = append(local, process(q, c))

				count := atomic.AddInt64(&done, 1)
				if bar != nil {
					bar.Increment()
				} else {
					log.Printf("Done: %s (%d/%d).\n", q.Topic, count, total)
				}
				if hw != nil {
					if err := hw.Send(float64(count), float64(total), string(p.Task), fmt.Sprintf("topic %s", q.Topic)); err != nil {
						log.Println(err)
					}
				}
			}
			mu.Lock()
			results = append(results, local...)
			mu.Unlock()
		}(w)
	}
	wg.Wait()
	if bar != nil {
		bar.Finish()
	}

	if err := ctx.Err(); err != nil {
		c <- pipeline.Result{
			Error: err,
			Type:  pipeline.Error,
		}
		return
	}

	sort.Slice(results, func(i, j int) bool {
		return results[i].Topic < results[j].Topic
	})
	for _, r := range results {
		c <- r
	}

	c <- pipeline.Result{
		Type: pipeline.Done,
	}
}

package reference

import (
	"io"
	"strings"

	"github.com/hscells/trecresults"
)

// Ranking is the ranking of one topic of a run file, in file order.
type Ranking struct {
	IDs    []string
	Scores map[string]float64
}

// Run holds the ranking of every topic of a run file.
type Run map[string]*Ranking

// Set is the set of identifiers ranked for the topic.
func (r *Ranking) Set() Set {
	if r == nil {
		return nil
	}
	return NewSet(r.IDs...)
}

// Score is the score of an identifier, or zero if it is not ranked.
func (r *Ranking) Score(id string) (float64, bool) {
	if r == nil {
		return 0, false
	}
	s, ok := r.Scores[id]
	return s, ok
}

// Top is the first k identifiers of the ranking.
func (r *Ranking) Top(k int) []string {
	if r == nil {
		return nil
	}
	if k < 0 || k > len(r.IDs) {
		k = len(r.IDs)
	}
	return r.IDs[:k]
}

// Topics lists the topics of the run as a set.
func (r Run) Topics() Set {
	ids := make([]string, 0, len(r))
	for topic := range r {
		ids = append(ids, topic)
	}
	return NewSet(ids...)
}

// ReadRun reads a run file in trec format. A document ranked twice for a topic keeps its first
// position and its last score.
func ReadRun(r io.Reader) (Run, error) {
	f, err := trecresults.ResultsFromReader(r)
	if err != nil {
		return nil, err
	}
	run := make(Run, len(f.Results))
	for topic, results := range f.Results {
		ranking := &Ranking{Scores: make(map[string]float64, len(results))}
		for _, result := range results {
			if _, ok := ranking.Scores[result.DocId]; !ok {
				ranking.IDs = append(ranking.IDs, result.DocId)
			}
			ranking.Scores[result.DocId] = result.Score
		}
		run[topic] = ranking
	}
	return run, nil
}

// LoadRun reads a run file.
func LoadRun(path string) (Run, error) {
	var run Run
	err := withFile(path, func(r io.Reader) (err error) {
		run, err = ReadRun(r)
		return
	})
	return run, err
}

// Entities holds the candidate entities of each query.
type Entities map[string]Set

// Topics lists the queries that have candidate entities.
func (e Entities) Topics() Set {
	ids := make([]string, 0, len(e))
	for topic := range e {
		ids = append(ids, topic)
	}
	return NewSet(ids...)
}

// ReadEntities reads space separated lines where the first column is the query and the third
// column is a candidate entity. Both positive/negative entity files and qrels have this layout.
func ReadEntities(r io.Reader) (Entities, error) {
	lists := make(map[string][]string)
	err := eachLine(r, func(line string) {
		fields := strings.Fields(line)
		if len(fields) < 3 {
			return
		}
		lists[fields[0]] = append(lists[fields[0]], fields[2])
	})
	if err != nil {
		return nil, err
	}
	e := make(Entities, len(lists))
	for topic, ids := range lists {
		e[topic] = NewSet(ids...)
	}
	return e, nil
}

// LoadEntities reads candidate entities from a file.
func LoadEntities(path string) (Entities, error) {
	var e Entities
	err := withFile(path, func(r io.Reader) (err error) {
		e, err = ReadEntities(r)
		return
	})
	return e, err
}

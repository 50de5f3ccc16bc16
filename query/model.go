// Package query builds weighted disjunctive query models and expands them with pseudo-relevance feedback.
package query

import (
	"fmt"
	"strings"

	"github.com/hscells/ecn/stats"
)

// MaxClauses is the largest number of clauses a model may have.
const MaxClauses = 64

// Clause is a single weighted term of a query model.
type Clause struct {
	Term  string
	Boost float64
}

// Model is a disjunction of weighted term clauses. A document matches when it contains any term.
type Model struct {
	Clauses []Clause
}

// WeightedTerm is an expansion term and its weight.
type WeightedTerm struct {
	Term   string
	Weight float64
}

// Len is the number of clauses in the model.
func (m Model) Len() int {
	return len(m.Clauses)
}

func (m Model) String() string {
	s := make([]string, len(m.Clauses))
	for i, c := range m.Clauses {
		s[i] = fmt.Sprintf("%s^%g", c.Term, c.Boost)
	}
	return strings.Join(s, " OR ")
}

// Builder builds query models from text.
type Builder struct {
	Analyser   stats.Analyser
	MaxClauses int
}

// NewBuilder creates a builder that analyses text with a and caps models at MaxClauses.
func NewBuilder(a stats.Analyser) Builder {
	return Builder{Analyser: a, MaxClauses: MaxClauses}
}

// Build creates a model from the analysed query text followed by the analysed entity text, each
// term with a boost of one. Expansion terms are appended after them with their own weights. Once the
// clause limit is reached the remaining terms are dropped, so base terms always come first.
func (b Builder) Build(queryText, entityText string, expansion []WeightedTerm) (Model, error) {
	limit := b.MaxClauses
	if limit <= 0 {
		limit = MaxClauses
	}

	var m Model
	for _, text := range []string{queryText, entityText} {
		if len(text) == 0 {
			continue
		}
		terms, err := b.Analyser.Analyse(text)
		if err != nil {
			return Model{}, err
		}
		for _, term := range terms {
			if len(m.Clauses) >= limit {
				return m, nil
			}
			m.Clauses = append(m.Clauses, Clause{Term: term, Boost: 1})
		}
	}

	for _, t := range expansion {
		if len(m.Clauses) >= limit {
			break
		}
		m.Clauses = append(m.Clauses, Clause{Term: t.Term, Boost: t.Weight})
	}
	return m, nil
}

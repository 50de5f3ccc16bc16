package rank

import (
	"fmt"
	"math"
)

// Scorer scores the occurrence of a single term in a document of a posting. Only documents
// containing the term are scored.
type Scorer interface {
	Score(p *Posting, term uint32, doc int) float64
}

// JelinekMercerScorer is a language model smoothed by linear interpolation with the collection.
type JelinekMercerScorer struct {
	Lambda float64
}

// DirichletScorer is a language model smoothed with a Dirichlet prior.
type DirichletScorer struct {
	Mu float64
}

// BM25Scorer is the Okapi BM25 scoring function.
type BM25Scorer struct {
	K1 float64
	B  float64
}

// Score implements Scorer.
func (s JelinekMercerScorer) Score(p *Posting, term uint32, doc int) float64 {
	dl := p.DocLen(doc)
	if dl == 0 {
		return 0
	}
	tf := p.Tf(term, doc)
	return math.Log(1 + ((1-s.Lambda)*tf/dl)/(s.Lambda*p.CollectionTermProbability(term)))
}

// Score implements Scorer. Negative scores are clamped to zero.
func (s DirichletScorer) Score(p *Posting, term uint32, doc int) float64 {
	tf := p.Tf(term, doc)
	score := math.Log(1+tf/(s.Mu*p.CollectionTermProbability(term))) + math.Log(s.Mu/(p.DocLen(doc)+s.Mu))
	if score > 0 {
		return score
	}
	return 0
}

// Score implements Scorer.
func (s BM25Scorer) Score(p *Posting, term uint32, doc int) float64 {
	tf := p.Tf(term, doc)
	df := p.DocFreq(term)
	idf := math.Log(1 + (p.DocCount()-df+0.5)/(df+0.5))
	norm := 1 - s.B
	if avg := p.AvgDocLen(); avg > 0 {
		norm += s.B * p.DocLen(doc) / avg
	}
	return idf * tf / (tf + s.K1*norm)
}

// Default parameters of the scorers.
var (
	DefaultJelinekMercer = JelinekMercerScorer{Lambda: 0.4}
	DefaultDirichlet     = DirichletScorer{Mu: 1500}
	DefaultBM25          = BM25Scorer{K1: 1.2, B: 0.75}
)

// ScorerNamed creates a scorer from its short name (lmjm, lmds, or bm25) and parameters.
// Missing parameters take their default values.
func ScorerNamed(name string, params map[string]float64) (Scorer, error) {
	get := func(key string, def float64) float64 {
		if v, ok := params[key]; ok {
			return v
		}
		return def
	}
	switch name {
	case "lmjm", "":
		return JelinekMercerScorer{Lambda: get("lambda", DefaultJelinekMercer.Lambda)}, nil
	case "lmds":
		return DirichletScorer{Mu: get("mu", DefaultDirichlet.Mu)}, nil
	case "bm25":
		return BM25Scorer{K1: get("k1", DefaultBM25.K1), B: get("b", DefaultBM25.B)}, nil
	}
	return nil, fmt.Errorf("unknown similarity %s", name)
}

package rank

import (
	"hash/fnv"

	"github.com/hscells/ecn/stats"
)

// Posting is an in-memory inverted index over a pool of candidate passages. Collection statistics
// are computed over the pool only, so every pool is scored as if it were its own index.
type Posting struct {
	// Term -> document -> tf
	Index map[uint32]map[int]float64
	// TTf is the total frequency of each term in the pool.
	TTf       map[uint32]float64
	DocLens   []float64
	Docs      []stats.Passage
	NumTokens float64
}

func hash(s string) uint32 {
	h := fnv.New32a()
	_, err := h.Write([]byte(s))
	if err != nil {
		panic(err)
	}
	return h.Sum32()
}

// Index analyses the text of every passage and builds a posting over them. Passages are
// identified by their position in the slice.
func Index(passages []stats.Passage, a stats.Analyser) (*Posting, error) {
	p := &Posting{
		Index:   make(map[uint32]map[int]float64),
		TTf:     make(map[uint32]float64),
		DocLens: make([]float64, len(passages)),
		Docs:    passages,
	}
	for i, passage := range passages {
		terms, err := a.Analyse(passage.Text)
		if err != nil {
			return nil, err
		}
		p.DocLens[i] = float64(len(terms))
		p.NumTokens += float64(len(terms))
		for _, term := range terms {
			t := hash(term)
			if _, ok := p.Index[t]; !ok {
				p.Index[t] = make(map[int]float64)
			}
			p.Index[t][i]++
			p.TTf[t]++
		}
	}
	return p, nil
}

// Tf is the frequency of a term in a document.
func (p *Posting) Tf(term uint32, doc int) float64 {
	return p.Index[term][doc]
}

// DocFreq is the number of documents containing a term.
func (p *Posting) DocFreq(term uint32) float64 {
	return float64(len(p.Index[term]))
}

// DocCount is the number of documents in the pool.
func (p *Posting) DocCount() float64 {
	return float64(len(p.DocLens))
}

// DocLen is the number of terms in a document.
func (p *Posting) DocLen(doc int) float64 {
	return p.DocLens[doc]
}

// AvgDocLen is the mean document length of the pool.
func (p *Posting) AvgDocLen() float64 {
	if len(p.DocLens) == 0 {
		return 0
	}
	return p.NumTokens / p.DocCount()
}

// CollectionTermProbability is the smoothed probability of a term in the pool.
func (p *Posting) CollectionTermProbability(term uint32) float64 {
	return (p.TTf[term] + 1) / (p.NumTokens + 1)
}

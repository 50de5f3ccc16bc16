package ecn

import (
	"runtime"

	"github.com/hscells/ecn/preprocess"
	"github.com/hscells/ecn/query"
	"github.com/hscells/ecn/rank"
	"github.com/hscells/ecn/stats"
	"github.com/magiconair/properties"
	"github.com/pkg/errors"
)

// Config holds the tunable parameters of a pipeline, as read from a properties file.
type Config struct {
	// Similarity is one of lmjm, lmds or bm25.
	Similarity string
	Lambda     float64
	Mu         float64
	K1         float64
	B          float64

	FeedbackDepth  int
	Depth          int
	ExpansionTerms int
	MaxTerms       int
	// ExpandWithEntity keeps the entity name in the expanded query.
	ExpandWithEntity bool

	Workers int
	// CacheSize is the number of documents each store keeps in memory.
	CacheSize int
	// CacheDir persists candidate rankings between runs when set.
	CacheDir string
	// Analyser is en, prose, or the name of any bleve analyser.
	Analyser string
}

// DefaultConfig is the configuration used when no properties file is given.
func DefaultConfig() Config {
	return Config{
		Similarity:     "lmjm",
		Lambda:         rank.DefaultJelinekMercer.Lambda,
		Mu:             rank.DefaultDirichlet.Mu,
		K1:             rank.DefaultBM25.K1,
		B:              rank.DefaultBM25.B,
		FeedbackDepth:  rank.FeedbackDepth,
		Depth:          rank.RankingDepth,
		ExpansionTerms: query.ExpansionTerms,
		MaxTerms:       query.MaxClauses,
		Workers:        runtime.NumCPU(),
		CacheSize:      4096,
		Analyser:       "en",
	}
}

// ReadConfig reads a configuration from properties. Missing keys keep their default value.
func ReadConfig(p *properties.Properties) Config {
	c := DefaultConfig()
	c.Similarity = p.GetString("rank.similarity", c.Similarity)
	c.Lambda = p.GetFloat64("rank.lambda", c.Lambda)
	c.Mu = p.GetFloat64("rank.mu", c.Mu)
	c.K1 = p.GetFloat64("rank.k1", c.K1)
	c.B = p.GetFloat64("rank.b", c.B)
	c.FeedbackDepth = p.GetInt("rank.feedback", c.FeedbackDepth)
	c.Depth = p.GetInt("rank.depth", c.Depth)
	c.ExpansionTerms = p.GetInt("rm3.terms", c.ExpansionTerms)
	c.ExpandWithEntity = p.GetBool("rm3.entity", c.ExpandWithEntity)
	c.MaxTerms = p.GetInt("query.maxterms", c.MaxTerms)
	c.Workers = p.GetInt("pipeline.workers", c.Workers)
	c.CacheSize = p.GetInt("cache.size", c.CacheSize)
	c.CacheDir = p.GetString("cache.dir", c.CacheDir)
	c.Analyser = p.GetString("store.analyser", c.Analyser)
	return c
}

// LoadConfig reads a configuration from a properties file.
func LoadConfig(path string) (Config, error) {
	p, err := properties.LoadFile(path, properties.UTF8)
	if err != nil {
		return Config{}, errors.Wrapf(err, "could not load config %s", path)
	}
	return ReadConfig(p), nil
}

// NewAnalyser creates the configured analyser.
func (c Config) NewAnalyser(stopwords preprocess.StopWords) (stats.Analyser, error) {
	switch c.Analyser {
	case "", "en":
		return stats.NewEnglishAnalyser()
	case "prose":
		return stats.ProseAnalyser{StopWords: stopwords}, nil
	}
	return stats.NewRegistryAnalyser(c.Analyser)
}

// Ranker creates the candidate ranker the configuration describes.
func (c Config) Ranker(a stats.Analyser, stopwords preprocess.StopWords) (rank.CandidateRanker, error) {
	scorer, err := rank.ScorerNamed(c.Similarity, map[string]float64{
		"lambda": c.Lambda,
		"mu":     c.Mu,
		"k1":     c.K1,
		"b":      c.B,
	})
	if err != nil {
		return rank.CandidateRanker{}, err
	}

	rm := query.NewRelevanceModel(a, stopwords)
	rm.Terms = c.ExpansionTerms

	r := rank.NewCandidateRanker(a, rm)
	r.Builder.MaxClauses = c.MaxTerms
	r.Scorer = scorer
	r.FeedbackDepth = c.FeedbackDepth
	r.Depth = c.Depth
	r.ExpandWithEntity = c.ExpandWithEntity
	if len(c.CacheDir) > 0 {
		r.Cache = rank.NewFileRankingCache(c.CacheDir)
	}
	return r, nil
}

package ecn_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/hscells/ecn"
	"github.com/hscells/ecn/rank"
	"github.com/hscells/ecn/stats"
	"github.com/magiconair/properties"
)

func TestReadConfig(t *testing.T) {
	p := properties.MustLoadString(`
# candidate ranking
rank.similarity = bm25
rank.k1 = 0.9
rank.depth = 50
rm3.terms = 10
rm3.entity = true
pipeline.workers = 2
`)
	c := ecn.ReadConfig(p)
	if c.Similarity != "bm25" || c.K1 != 0.9 || c.B != rank.DefaultBM25.B {
		t.Fatalf("unexpected similarity config %+v", c)
	}
	if c.Depth != 50 || c.FeedbackDepth != rank.FeedbackDepth || c.ExpansionTerms != 10 || !c.ExpandWithEntity || c.Workers != 2 {
		t.Fatalf("unexpected config %+v", c)
	}

	a, err := c.NewAnalyser(nil)
	if err != nil {
		t.Fatal(err)
	}
	r, err := c.Ranker(a, nil)
	if err != nil {
		t.Fatal(err)
	}
	if s, ok := r.Scorer.(rank.BM25Scorer); !ok || s.K1 != 0.9 {
		t.Fatalf("unexpected scorer %#v", r.Scorer)
	}
	if r.Depth != 50 || !r.ExpandWithEntity || r.Cache != nil {
		t.Fatalf("unexpected ranker %+v", r)
	}
}

func TestLoadConfig(t *testing.T) {
	path := filepath.Join(t.TempDir(), "ecn.properties")
	if err := os.WriteFile(path, []byte("store.analyser = prose\nrank.similarity = lmds\n"), 0644); err != nil {
		t.Fatal(err)
	}
	c, err := ecn.LoadConfig(path)
	if err != nil {
		t.Fatal(err)
	}
	a, err := c.NewAnalyser(nil)
	if err != nil {
		t.Fatal(err)
	}
	if _, ok := a.(stats.ProseAnalyser); !ok {
		t.Fatalf("expected the prose analyser, got %T", a)
	}
	if _, err := ecn.LoadConfig(filepath.Join(t.TempDir(), "missing.properties")); err == nil {
		t.Fatal("expected an error for a missing file")
	}

	c.Similarity = "tfidf"
	if _, err := c.Ranker(a, nil); err == nil {
		t.Fatal("expected an unknown similarity")
	}
}

package description_test

import (
	"errors"
	"strings"
	"testing"

	"github.com/hscells/ecn/description"
	"github.com/hscells/ecn/rank"
	"github.com/hscells/ecn/reference"
	"github.com/hscells/ecn/stats"
)

type mapStore map[string]map[string]string

func (m mapStore) Analyse(text string) ([]string, error) {
	return strings.Fields(strings.ToLower(text)), nil
}

func (m mapStore) Document(id string) (map[string]string, bool, error) {
	d, ok := m[id]
	return d, ok, nil
}

func ranking() (rank.ScoredDocuments, error) {
	return rank.ScoredDocuments{
		{ID: "P1", Score: 3, Passage: stats.Passage{ID: "P1", Text: "first", Mentions: []stats.Mention{{EntityID: "E1", AspectID: "E1/History"}, {EntityID: "E3"}}}},
		{ID: "P2", Score: 2, Passage: stats.Passage{ID: "P2", Text: "second", Mentions: []stats.Mention{{EntityID: "E1"}, {EntityID: "E2"}}}},
		{ID: "P3", Score: 1, Passage: stats.Passage{ID: "P3", Text: "third", Mentions: []stats.Mention{{EntityID: "E1"}, {EntityID: "E2"}}}},
	}, nil
}

func request() description.Request {
	return description.Request{
		QueryID:   "Q1",
		EntityID:  "E1",
		Reference: reference.NewSet("E1", "E2", "E3"),
		Rank:      ranking,
	}
}

func TestTopPassage(t *testing.T) {
	d, ok, err := description.TopPassage{}.Describe(request())
	if err != nil {
		t.Fatal(err)
	}
	if !ok {
		t.Fatal("expected a description")
	}
	// E2 co-occurs twice with E1 and E3 once, so P2 beats P1 and ties with P3.
	if d.ParaID != "P2" || d.Text != "second" || d.AspectID != "" {
		t.Fatalf("unexpected description %+v", d)
	}
}

func TestTopPassageNoContext(t *testing.T) {
	r := request()
	r.EntityID = "E9"
	if _, ok, err := (description.TopPassage{}).Describe(r); err != nil || ok {
		t.Fatalf("expected no description, got %v %v", ok, err)
	}
}

func TestTopAspectOfTopPassage(t *testing.T) {
	r := request()
	// Only E3 is a neighbour, so P1 is chosen.
	r.Reference = reference.NewSet("E1", "E3")
	s := description.TopAspectOfTopPassage{Catalog: mapStore{
		"E1/History": {stats.TextField: "The history of E1."},
	}}
	d, ok, err := s.Describe(r)
	if err != nil {
		t.Fatal(err)
	}
	if !ok || d.ParaID != "P1" || d.AspectID != "E1/History" || d.Text != "The history of E1." {
		t.Fatalf("unexpected description %+v %v", d, ok)
	}

	s.Catalog = mapStore{"E1/History": {stats.TextField: "  "}}
	if _, ok, _ := s.Describe(r); ok {
		t.Fatal("aspects without text must be skipped")
	}
}

func TestTopAspectOfTopPassageWithoutAspect(t *testing.T) {
	s := description.TopAspectOfTopPassage{Catalog: mapStore{}}
	if _, ok, err := s.Describe(request()); err != nil || ok {
		t.Fatalf("expected no description, got %v %v", ok, err)
	}
}

func TestTopCandidate(t *testing.T) {
	d, ok, err := description.TopCandidate{}.Describe(request())
	if err != nil || !ok {
		t.Fatal(ok, err)
	}
	if d.ParaID != "P1" || d.Text != "first" {
		t.Fatalf("unexpected description %+v", d)
	}

	r := request()
	r.Rank = func() (rank.ScoredDocuments, error) { return nil, nil }
	if _, ok, _ := (description.TopCandidate{}).Describe(r); ok {
		t.Fatal("an empty ranking has no description")
	}
}

func TestLeadText(t *testing.T) {
	r := request()
	r.Rank = func() (rank.ScoredDocuments, error) {
		t.Fatal("lead text does not rank passages")
		return nil, nil
	}
	s := description.LeadText{Store: mapStore{"E1": {stats.LeadTextField: "E1 is an entity."}}}
	d, ok, err := s.Describe(r)
	if err != nil || !ok {
		t.Fatal(ok, err)
	}
	if d.ParaID != "" || d.AspectID != "" || d.Text != "E1 is an entity." {
		t.Fatalf("unexpected description %+v", d)
	}
}

func TestRankError(t *testing.T) {
	r := request()
	r.Rank = func() (rank.ScoredDocuments, error) { return nil, errors.New("index closed") }
	if _, _, err := (description.TopPassage{}).Describe(r); err == nil {
		t.Fatal("expected the ranking error")
	}
}

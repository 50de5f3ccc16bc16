package ecn_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"reflect"
	"strings"
	"testing"

	"github.com/blevesearch/bleve/v2"
	"github.com/hscells/ecn"
	"github.com/hscells/ecn/output"
	"github.com/hscells/ecn/pipeline"
	"github.com/hscells/ecn/reference"
	"github.com/hscells/ecn/stats"
	"github.com/pkg/errors"
)

func newStore(t *testing.T, passages ...stats.Passage) *stats.BleveDocumentStore {
	index, err := bleve.NewMemOnly(stats.NewPassageMapping())
	if err != nil {
		t.Fatal(err)
	}
	for _, p := range passages {
		if err := stats.IndexPassage(index, p); err != nil {
			t.Fatal(err)
		}
	}
	s, err := stats.NewBleveDocumentStore(stats.BleveIndex(index))
	if err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() {
		_ = s.Close()
	})
	return s
}

func passage(id, text string, mentions ...stats.Mention) stats.Passage {
	return stats.Passage{ID: id, Text: text, Mentions: mentions}
}

func mention(entity string) stats.Mention {
	return stats.Mention{EntityID: entity}
}

func passageStore(t *testing.T) *stats.BleveDocumentStore {
	return newStore(t,
		passage("P1", "Barack Obama met Michelle Obama in Chicago.", mention("E1"), mention("E2")),
		passage("P2", "Barack Obama gave a speech about health care.", mention("E1")),
		passage("P3", "Rain fell across the region.", mention("E2")),
		passage("P4", "Senator Obama visited Chicago.\nHe spoke with Michelle Obama.", mention("E1"), mention("E2"), mention("E3")),
	)
}

func run(t *testing.T, in string) reference.Run {
	r, err := reference.ReadRun(strings.NewReader(in))
	if err != nil {
		t.Fatal(err)
	}
	return r
}

func references(t *testing.T) ecn.References {
	return ecn.References{
		Queries:  reference.Table{"Q1": "Barack Obama", "Q2": "Obama Chicago", "Q3": "Michelle Obama"},
		Entities: reference.Table{"E1": "Barack Obama", "E2": "Michelle Obama", "E3": "Chicago"},
		Passages: reference.PassageLists{
			"E1": {"P1", "P2", "P3", "P4"},
			"E2": {"P1", "P3", "P4"},
			"E3": {"P4"},
		},
		EntityRun: run(t, `Q1 Q0 E1 1 5.0 run
Q1 Q0 E2 2 3.0 run
Q2 Q0 E1 1 2.5 run
Q2 Q0 E2 2 2.0 run
Q2 Q0 E3 3 1.5 run
Q3 Q0 E2 1 4.0 run
Q3 Q0 E1 2 1.0 run
`),
	}
}

type collected struct {
	results []pipeline.Result
	errs    []error
	done    bool
}

func execute(ctx context.Context, p ecn.Pipeline) collected {
	c := make(chan pipeline.Result)
	go p.Execute(ctx, c)
	var out collected
	for r := range c {
		switch r.Type {
		case pipeline.Error:
			out.errs = append(out.errs, r.Error)
		case pipeline.Done:
			out.done = true
		default:
			out.results = append(out.results, r)
		}
	}
	return out
}

func TestECNRun(t *testing.T) {
	refs := references(t)
	refs.Candidates = reference.Entities{"Q1": reference.NewSet("E1")}
	// P4 is not in this pool.
	refs.Passages["E1"] = []string{"P1", "P2", "P3"}

	p := ecn.NewPipeline(ecn.Train, ecn.ECNRun, passageStore(t), refs)
	out := execute(context.Background(), p)
	if !out.done || len(out.errs) > 0 {
		t.Fatalf("pipeline failed: %v", out.errs)
	}
	if len(out.results) != 1 || out.results[0].Type != pipeline.TrecResult {
		t.Fatalf("expected one run result, got %+v", out.results)
	}

	path := filepath.Join(t.TempDir(), "ecn.run")
	if err := (output.TrecResults{Path: path, Results: *out.results[0].TrecResults}).Write(output.TrecFormatter); err != nil {
		t.Fatal(err)
	}
	b, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	if string(b) != "Q1 E1/P1 Q0 1 1.0 ECN\n" {
		t.Fatalf("unexpected run %q", string(b))
	}
}

func TestSupportPsg(t *testing.T) {
	refs := references(t)
	delete(refs.EntityRun, "Q2")
	delete(refs.EntityRun, "Q3")

	p := ecn.NewPipeline(ecn.Dev, ecn.SupportPsg, passageStore(t), refs)
	out := execute(context.Background(), p)
	if !out.done || len(out.errs) > 0 {
		t.Fatalf("pipeline failed: %v", out.errs)
	}
	if len(out.results) != 1 {
		t.Fatalf("expected one result, got %d", len(out.results))
	}
	records := out.results[0].Records
	if len(records) != 2 {
		t.Fatalf("expected two records, got %+v", records)
	}
	if records[0].EntityID != "E1" || records[0].Snippet.Score != 5 {
		t.Fatalf("unexpected first record %+v", records[0])
	}
	if records[1].EntityID != "E2" || records[1].Snippet.Score != 3 {
		t.Fatalf("unexpected second record %+v", records[1])
	}
	for _, r := range records {
		if strings.ContainsAny(r.Snippet.Text, "\n\r") {
			t.Fatalf("snippet text must be a single line: %q", r.Snippet.Text)
		}
		if len(r.Snippet.ParaID) == 0 {
			t.Fatalf("snippet without a passage: %+v", r)
		}
	}
}

func TestTrainingScores(t *testing.T) {
	refs := references(t)
	refs.Candidates = reference.Entities{"Q1": reference.NewSet("E1", "E2")}

	p := ecn.NewPipeline(ecn.Train, ecn.BM25Psg, passageStore(t), refs)
	out := execute(context.Background(), p)
	if !out.done || len(out.errs) > 0 {
		t.Fatalf("pipeline failed: %v", out.errs)
	}
	for _, r := range out.results[0].Records {
		if r.Snippet.Score != 0 {
			t.Fatalf("training data of %s is not scored, got %+v", ecn.BM25Psg, r)
		}
	}
	if got := out.results[0].Records[0]; got.EntityID != "E1" || len(got.Snippet.ParaID) == 0 {
		t.Fatalf("unexpected top candidate %+v", got)
	}
}

func TestParallelMatchesSequential(t *testing.T) {
	store := passageStore(t)
	refs := references(t)
	for _, task := range []ecn.Task{ecn.SupportPsg, ecn.BM25Psg, ecn.ECNRun} {
		sequential := execute(context.Background(), ecn.NewPipeline(ecn.Test, task, store, refs))
		parallel := execute(context.Background(), ecn.NewPipeline(ecn.Test, task, store, refs, ecn.Workers(3)))
		if !sequential.done || !parallel.done {
			t.Fatalf("%s: pipeline failed: %v %v", task, sequential.errs, parallel.errs)
		}
		if len(sequential.results) != 3 {
			t.Fatalf("%s: expected three topics, got %d", task, len(sequential.results))
		}
		if !reflect.DeepEqual(sequential.results, parallel.results) {
			t.Fatalf("%s: parallel results differ from sequential results", task)
		}
	}
}

func TestHeadwayProgress(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	store := passageStore(t)
	refs := references(t)
	want := execute(context.Background(), ecn.NewPipeline(ecn.Test, ecn.ECNRun, store, refs))
	got := execute(context.Background(), ecn.NewPipeline(ecn.Test, ecn.ECNRun, store, refs, ecn.Workers(2), ecn.Headway(srv.URL)))
	if !got.done || len(got.errs) > 0 {
		t.Fatalf("pipeline failed: %v", got.errs)
	}
	if !reflect.DeepEqual(want.results, got.results) {
		t.Fatal("reporting progress changed the run")
	}
}

func TestMissingReferences(t *testing.T) {
	refs := references(t)
	delete(refs.Queries, "Q3")
	delete(refs.Passages, "E3")

	out := execute(context.Background(), ecn.NewPipeline(ecn.Dev, ecn.SupportPsg, passageStore(t), refs))
	if !out.done {
		t.Fatal("missing references must not stop the pipeline")
	}
	if len(out.results) != 2 {
		t.Fatalf("expected Q3 to be skipped, got %d results", len(out.results))
	}
	if len(out.errs) != 2 {
		t.Fatalf("expected two diagnostics, got %v", out.errs)
	}
	for _, err := range out.errs {
		if errors.Cause(err) != reference.ErrMissing {
			t.Fatalf("unexpected error %v", err)
		}
	}
}

func TestLeadText(t *testing.T) {
	index, err := bleve.NewMemOnly(stats.NewPassageMapping())
	if err != nil {
		t.Fatal(err)
	}
	if err := stats.IndexDocument(index, "E1", map[string]string{stats.LeadTextField: "Barack Obama is a politician.\n"}); err != nil {
		t.Fatal(err)
	}
	entities, err := stats.NewBleveDocumentStore(stats.BleveIndex(index))
	if err != nil {
		t.Fatal(err)
	}
	defer entities.Close()

	refs := references(t)
	refs.EntityRun = run(t, "Q1 Q0 E1 1 5.0 run\nQ1 Q0 E2 2 3.0 run\n")
	out := execute(context.Background(), ecn.NewPipeline(ecn.Dev, ecn.LeadText, nil, refs, ecn.EntityStore(entities)))
	if !out.done || len(out.errs) > 0 {
		t.Fatalf("pipeline failed: %v", out.errs)
	}
	records := out.results[0].Records
	if len(records) != 1 {
		t.Fatalf("expected only E1 to have lead text, got %+v", records)
	}
	want := output.NewSnippet("", "", "Barack Obama is a politician. ", 5)
	if records[0].Snippet != want {
		t.Fatalf("expected %+v, got %+v", want, records[0].Snippet)
	}
}

func TestAspectCandidateSet(t *testing.T) {
	store := newStore(t,
		passage("P1", "Barack Obama met Michelle Obama in Chicago.",
			stats.Mention{EntityID: "E1", AspectID: "A1"}, stats.Mention{EntityID: "E2", AspectID: "A2"}),
		passage("P2", "Barack Obama gave a speech about health care.",
			stats.Mention{EntityID: "E1", AspectID: "A3"}, stats.Mention{EntityID: "E3", AspectID: "A9"}),
	)
	catalog := newStore(t,
		passage("A1", "The early life of Barack Obama in Hawaii."),
		passage("A2", "Michelle Obama worked as a lawyer."),
		passage("A3", "Gardening tips for spring."),
	)

	refs := ecn.References{
		Queries:    reference.Table{"Q1": "Barack Obama"},
		PassageRun: run(t, "Q1 Q0 P1 1 2.0 run\nQ1 Q0 P2 2 1.0 run\nQ1 Q0 P9 3 0.5 run\n"),
		Qrels:      reference.Entities{"Q1": reference.NewSet("E1")},
	}
	p := ecn.NewPipeline(ecn.Train, ecn.AspectCandidateSet, store, refs, ecn.AspectCatalog(catalog), ecn.TopPassages(2))
	out := execute(context.Background(), p)
	if !out.done || len(out.errs) > 0 {
		t.Fatalf("pipeline failed: %v", out.errs)
	}
	res := out.results[0]

	want := []output.Record{{QueryID: "Q1", EntityID: "E1", Snippet: output.NewSnippet("P1", "A1", "The early life of Barack Obama in Hawaii.", 3)}}
	if !reflect.DeepEqual(res.Records, want) {
		t.Fatalf("expected positives %+v, got %+v", want, res.Records)
	}
	// E3 links to an aspect missing from the catalog.
	want = []output.Record{{QueryID: "Q1", EntityID: "E2", Snippet: output.NewSnippet("P1", "A2", "Michelle Obama worked as a lawyer.", 2)}}
	if !reflect.DeepEqual(res.Negatives, want) {
		t.Fatalf("expected negatives %+v, got %+v", want, res.Negatives)
	}
}

func TestAspectCandidateSetNeedsCatalog(t *testing.T) {
	out := execute(context.Background(), ecn.NewPipeline(ecn.Dev, ecn.AspectCandidateSet, passageStore(t), references(t)))
	if out.done || len(out.errs) != 1 {
		t.Fatalf("expected a configuration error, got %+v", out)
	}
}

func TestCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	out := execute(ctx, ecn.NewPipeline(ecn.Dev, ecn.SupportPsg, passageStore(t), references(t)))
	if out.done || len(out.results) > 0 {
		t.Fatal("a cancelled pipeline must not complete")
	}
	if len(out.errs) != 1 || out.errs[0] != context.Canceled {
		t.Fatalf("expected the cancellation error, got %v", out.errs)
	}
}

func TestParse(t *testing.T) {
	if m, err := ecn.ParseMode("dev"); err != nil || m != ecn.Dev {
		t.Fatalf("unexpected mode %v %v", m, err)
	}
	if _, err := ecn.ParseMode("eval"); err == nil {
		t.Fatal("expected an unknown mode")
	}
	if task, err := ecn.ParseTask("ecnrun"); err != nil || task != ecn.ECNRun {
		t.Fatalf("unexpected task %v %v", task, err)
	}
}

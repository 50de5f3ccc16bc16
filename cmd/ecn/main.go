package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"os/signal"

	"github.com/alexflint/go-arg"
	"github.com/go-errors/errors"
	"github.com/hscells/ecn"
	"github.com/hscells/ecn/output"
	"github.com/hscells/ecn/pipeline"
	"github.com/hscells/ecn/preprocess"
	"github.com/hscells/ecn/reference"
	"github.com/hscells/ecn/stats"
	"github.com/hscells/trecresults"
)

var (
	name    = "ecn"
	version = "18.Oct.2026"
)

type args struct {
	Mode string `arg:"positional,required" help:"train, dev or test"`
	Task string `arg:"positional,required" help:"SupportPsg, BM25Psg, AspectSupportPsg, LeadText, ECNRun or AspectCandidateSet"`

	Index              string   `help:"path to the bleve passage index"`
	Elasticsearch      []string `help:"elasticsearch hosts to read passages from instead of a bleve index"`
	ElasticsearchIndex string   `arg:"--es-index" help:"elasticsearch passage index"`
	Catalog            string   `help:"path to the bleve aspect catalog index"`
	EntityIndex        string   `arg:"--entity-index" help:"path to the bleve index of entity pages"`

	Queries        string `help:"query id to query text (tsv)"`
	Entities       string `help:"entity id to entity name (tsv)"`
	EntityPassages string `arg:"--entity-passages" help:"entity id to candidate passages (tsv)"`
	EntityRun      string `arg:"--entity-run" help:"entity run file"`
	EntityFile     string `arg:"--entity-file" help:"positive and negative entities of training queries"`
	Qrels          string `help:"entity qrels"`
	PassageRun     string `arg:"--passage-run" help:"passage run file"`
	StopWords      string `arg:"--stop-words" help:"stop word file"`
	TopK           int    `arg:"--top-k" help:"number of passages of the passage run to search for aspects"`

	Out string `help:"output file"`
	Pos string `help:"output file of positive entities (AspectCandidateSet in train mode)"`
	Neg string `help:"output file of negative entities (AspectCandidateSet in train mode)"`

	Parallel   bool   `help:"process queries in parallel"`
	Workers    int    `help:"number of parallel workers (default: number of CPUs)"`
	Config     string `help:"properties file of pipeline parameters"`
	Similarity string `help:"lmjm, lmds or bm25"`
	Cache      string `help:"directory to cache candidate rankings in"`
	Headway    string `help:"headway server to report progress to"`
}

func (args) Version() string {
	return version
}

func (args) Description() string {
	return fmt.Sprintf(`%s
prepares entity ranking data with entity context neighbours
# %s`, name, version)
}

func fatal(err error) {
	fmt.Fprintln(os.Stderr, errors.Wrap(err, 1).ErrorStack())
	os.Exit(1)
}

func loading(what string, fn func() error) {
	fmt.Printf("Loading %s...", what)
	if err := fn(); err != nil {
		fmt.Println()
		fatal(err)
	}
	fmt.Println("[Done].")
}

func openBleve(path string, a stats.Analyser, cacheSize int) *stats.BleveDocumentStore {
	var s *stats.BleveDocumentStore
	loading(path, func() (err error) {
		s, err = stats.NewBleveDocumentStore(stats.BleveIndexPath(path), stats.BleveAnalyser(a), stats.BleveCacheSize(cacheSize))
		return
	})
	return s
}

func main() {
	var args args
	arg.MustParse(&args)

	mode, err := ecn.ParseMode(args.Mode)
	if err != nil {
		fatal(err)
	}
	task, err := ecn.ParseTask(args.Task)
	if err != nil {
		fatal(err)
	}

	cfg := ecn.DefaultConfig()
	if len(args.Config) > 0 {
		loading("config", func() (err error) {
			cfg, err = ecn.LoadConfig(args.Config)
			return
		})
	}
	if len(args.Similarity) > 0 {
		cfg.Similarity = args.Similarity
	}
	if len(args.Cache) > 0 {
		cfg.CacheDir = args.Cache
	}
	workers := 1
	if args.Parallel {
		workers = cfg.Workers
		if args.Workers > 0 {
			workers = args.Workers
		}
	}

	var stopwords preprocess.StopWords
	if len(args.StopWords) > 0 {
		loading("stop words", func() (err error) {
			stopwords, err = preprocess.LoadStopWords(args.StopWords)
			return
		})
	}
	analyser, err := cfg.NewAnalyser(stopwords)
	if err != nil {
		fatal(err)
	}

	var store stats.DocumentStore
	switch {
	case len(args.Elasticsearch) > 0:
		loading("elasticsearch passage index", func() (err error) {
			store, err = stats.NewElasticsearchDocumentStore(
				stats.ElasticsearchHosts(args.Elasticsearch...),
				stats.ElasticsearchIndex(args.ElasticsearchIndex),
				stats.ElasticsearchCacheSize(cfg.CacheSize))
			return
		})
	case len(args.Index) > 0:
		s := openBleve(args.Index, analyser, cfg.CacheSize)
		defer s.Close()
		store = s
	case task != ecn.LeadText:
		fatal(errors.Errorf("%s needs a passage index", task))
	}

	var refs ecn.References
	load := func(path, what string, fn func(string) error) {
		if len(path) == 0 {
			return
		}
		loading(what, func() error { return fn(path) })
	}
	load(args.Queries, "queries", func(path string) (err error) {
		refs.Queries, err = reference.LoadTable(path)
		return
	})
	load(args.Entities, "entity names", func(path string) (err error) {
		refs.Entities, err = reference.LoadTable(path)
		return
	})
	load(args.EntityPassages, "entity passages", func(path string) (err error) {
		refs.Passages, err = reference.LoadPassageLists(path)
		return
	})
	load(args.EntityRun, "entity run", func(path string) (err error) {
		refs.EntityRun, err = reference.LoadRun(path)
		return
	})
	load(args.EntityFile, "entity file", func(path string) (err error) {
		refs.Candidates, err = reference.LoadEntities(path)
		return
	})
	load(args.Qrels, "qrels", func(path string) (err error) {
		refs.Qrels, err = reference.LoadEntities(path)
		return
	})
	load(args.PassageRun, "passage run", func(path string) (err error) {
		refs.PassageRun, err = reference.LoadRun(path)
		return
	})

	components := []func() interface{}{
		ecn.Workers(workers),
		ecn.Progress(true),
	}
	if store != nil {
		ranker, err := cfg.Ranker(store, stopwords)
		if err != nil {
			fatal(err)
		}
		components = append(components, ecn.Ranker(ranker))
	}
	if len(args.Catalog) > 0 {
		s := openBleve(args.Catalog, analyser, cfg.CacheSize)
		defer s.Close()
		components = append(components, ecn.AspectCatalog(s))
	}
	if len(args.EntityIndex) > 0 {
		s := openBleve(args.EntityIndex, analyser, cfg.CacheSize)
		defer s.Close()
		components = append(components, ecn.EntityStore(s))
	}
	if args.TopK > 0 {
		components = append(components, ecn.TopPassages(args.TopK))
	}
	if len(args.Headway) > 0 {
		components = append(components, ecn.Headway(args.Headway))
	}

	p := ecn.NewPipeline(mode, task, store, refs, components...)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	c := make(chan pipeline.Result)
	go p.Execute(ctx, c)

	var (
		records   []output.Record
		negatives []output.Record
		run       trecresults.ResultList
		done      bool
	)
	for result := range c {
		switch result.Type {
		case pipeline.Snippet:
			records = append(records, result.Records...)
			negatives = append(negatives, result.Negatives...)
		case pipeline.TrecResult:
			run = append(run, *result.TrecResults...)
		case pipeline.Error:
			log.Println(result.Error)
		case pipeline.Done:
			done = true
		}
	}
	if !done {
		log.Println("pipeline did not complete, no output written")
		os.Exit(1)
	}

	write := func(what, path string, fn func(path string) error) {
		if len(path) == 0 {
			fatal(errors.Errorf("no output file for %s", what))
		}
		fmt.Printf("Writing %s to %s...", what, path)
		if err := fn(path); err != nil {
			fmt.Println()
			fatal(err)
		}
		fmt.Println("[Done].")
	}
	snippets := func(records []output.Record) func(string) error {
		return func(path string) error {
			return output.Snippets{Path: path, Records: records}.Write(output.TSVFormatter)
		}
	}

	switch {
	case task == ecn.ECNRun:
		write("run", args.Out, func(path string) error {
			return output.TrecResults{Path: path, Results: run}.Write(output.TrecFormatter)
		})
	case task == ecn.AspectCandidateSet && mode == ecn.Train:
		write("positive entities data", args.Pos, snippets(records))
		write("negative entities data", args.Neg, snippets(negatives))
	default:
		write("entity data", args.Out, snippets(records))
	}
}

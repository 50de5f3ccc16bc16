package stats

import (
	"context"
	"encoding/json"
	"log"

	"github.com/olivere/elastic/v7"
	"github.com/pkg/errors"
)

// ElasticsearchDocumentStore reads documents from an Elasticsearch index and analyses text with
// one of the index's analysers.
type ElasticsearchDocumentStore struct {
	client    *elastic.Client
	index     string
	analyser  string
	cacheSize int
	cache     documentCache
}

// ElasticsearchHosts sets the hosts for the Elasticsearch client.
func ElasticsearchHosts(hosts ...string) func(*ElasticsearchDocumentStore) {
	return func(es *ElasticsearchDocumentStore) {
		var err error
		if len(hosts) == 0 {
			hosts = []string{"http://localhost:9200"}
		}
		es.client, err = elastic.NewClient(elastic.SetURL(hosts...), elastic.SetSniff(false))
		if err != nil {
			log.Fatal(err)
		}
	}
}

// ElasticsearchClient uses an already configured client.
func ElasticsearchClient(client *elastic.Client) func(*ElasticsearchDocumentStore) {
	return func(es *ElasticsearchDocumentStore) {
		es.client = client
	}
}

// ElasticsearchIndex sets the index documents are read from.
func ElasticsearchIndex(index string) func(*ElasticsearchDocumentStore) {
	return func(es *ElasticsearchDocumentStore) {
		es.index = index
	}
}

// ElasticsearchAnalyser sets the analyser text is analysed with.
func ElasticsearchAnalyser(analyser string) func(*ElasticsearchDocumentStore) {
	return func(es *ElasticsearchDocumentStore) {
		es.analyser = analyser
	}
}

// ElasticsearchCacheSize sets how many documents are kept in memory.
func ElasticsearchCacheSize(size int) func(*ElasticsearchDocumentStore) {
	return func(es *ElasticsearchDocumentStore) {
		es.cacheSize = size
	}
}

// NewElasticsearchDocumentStore creates a new ElasticsearchDocumentStore using functional options.
func NewElasticsearchDocumentStore(options ...func(*ElasticsearchDocumentStore)) (*ElasticsearchDocumentStore, error) {
	es := &ElasticsearchDocumentStore{
		analyser:  "english",
		cacheSize: 4096,
	}
	for _, option := range options {
		option(es)
	}
	if es.client == nil {
		ElasticsearchHosts()(es)
	}
	if len(es.index) == 0 {
		return nil, errors.New("no Elasticsearch index given")
	}

	var err error
	es.cache, err = newDocumentCache(es.cacheSize)
	if err != nil {
		return nil, err
	}
	return es, nil
}

// Analyse implements Analyser.
func (es *ElasticsearchDocumentStore) Analyse(text string) (tokens []string, err error) {
	res, err := es.client.IndexAnalyze().Index(es.index).Analyzer(es.analyser).Text(text).Do(context.Background())
	if err != nil {
		return nil, errors.Wrapf(err, "could not analyse text with %s", es.analyser)
	}
	for _, token := range res.Tokens {
		tokens = append(tokens, token.Token)
	}
	return
}

// Document implements DocumentStore.
func (es *ElasticsearchDocumentStore) Document(id string) (map[string]string, bool, error) {
	if fields, ok := es.cache.get(id); ok {
		return fields, true, nil
	}

	res, err := es.client.Get().Index(es.index).Id(id).Do(context.Background())
	if err != nil {
		if elastic.IsNotFound(err) {
			return nil, false, nil
		}
		return nil, false, errors.Wrapf(err, "could not get document %s", id)
	}
	if !res.Found {
		return nil, false, nil
	}

	var source map[string]interface{}
	if err := json.Unmarshal(res.Source, &source); err != nil {
		return nil, false, errors.Wrapf(err, "could not read source of document %s", id)
	}
	fields := make(map[string]string, len(source))
	for k, v := range source {
		fields[k] = fieldString(v)
	}
	es.cache.add(id, fields)
	return fields, true, nil
}

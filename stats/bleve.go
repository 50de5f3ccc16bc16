package stats

import (
	"fmt"
	"strings"

	"github.com/blevesearch/bleve/v2"
	"github.com/blevesearch/bleve/v2/analysis/lang/en"
	"github.com/blevesearch/bleve/v2/mapping"
	"github.com/pkg/errors"
)

// BleveDocumentStore reads documents from a bleve index.
type BleveDocumentStore struct {
	index     bleve.Index
	path      string
	analyser  Analyser
	cacheSize int
	cache     documentCache
}

// BleveIndex uses an already open index.
func BleveIndex(index bleve.Index) func(*BleveDocumentStore) {
	return func(b *BleveDocumentStore) {
		b.index = index
	}
}

// BleveIndexPath sets the path of an on-disk index to open.
func BleveIndexPath(path string) func(*BleveDocumentStore) {
	return func(b *BleveDocumentStore) {
		b.path = path
	}
}

// BleveAnalyser sets the analyser used for query and feedback text.
func BleveAnalyser(analyser Analyser) func(*BleveDocumentStore) {
	return func(b *BleveDocumentStore) {
		b.analyser = analyser
	}
}

// BleveCacheSize sets how many documents are kept in memory.
func BleveCacheSize(size int) func(*BleveDocumentStore) {
	return func(b *BleveDocumentStore) {
		b.cacheSize = size
	}
}

// NewBleveDocumentStore creates a document store using functional options. Either an index or an
// index path must be given. The English analyser is used unless another one is set.
func NewBleveDocumentStore(options ...func(*BleveDocumentStore)) (*BleveDocumentStore, error) {
	b := &BleveDocumentStore{cacheSize: 4096}
	for _, option := range options {
		option(b)
	}

	if b.index == nil {
		if len(b.path) == 0 {
			return nil, errors.New("no index or index path given")
		}
		index, err := bleve.Open(b.path)
		if err != nil {
			return nil, errors.Wrapf(err, "could not open index %s", b.path)
		}
		b.index = index
	}

	if b.analyser == nil {
		a, err := NewEnglishAnalyser()
		if err != nil {
			return nil, err
		}
		b.analyser = a
	}

	var err error
	b.cache, err = newDocumentCache(b.cacheSize)
	if err != nil {
		return nil, err
	}
	return b, nil
}

// Analyse implements Analyser.
func (b *BleveDocumentStore) Analyse(text string) ([]string, error) {
	return b.analyser.Analyse(text)
}

// Document implements DocumentStore.
func (b *BleveDocumentStore) Document(id string) (map[string]string, bool, error) {
	if fields, ok := b.cache.get(id); ok {
		return fields, true, nil
	}

	req := bleve.NewSearchRequest(bleve.NewDocIDQuery([]string{id}))
	req.Size = 1
	req.Fields = []string{"*"}
	res, err := b.index.Search(req)
	if err != nil {
		return nil, false, errors.Wrapf(err, "could not get document %s", id)
	}
	if len(res.Hits) == 0 {
		return nil, false, nil
	}

	fields := make(map[string]string, len(res.Hits[0].Fields))
	for k, v := range res.Hits[0].Fields {
		fields[k] = fieldString(v)
	}
	b.cache.add(id, fields)
	return fields, true, nil
}

// Close closes the underlying index.
func (b *BleveDocumentStore) Close() error {
	return b.index.Close()
}

// fieldString flattens a stored field. Fields stored with several values come back as a slice
// and are joined with newlines.
func fieldString(v interface{}) string {
	switch x := v.(type) {
	case string:
		return x
	case []interface{}:
		s := make([]string, len(x))
		for i, e := range x {
			s[i] = fieldString(e)
		}
		return strings.Join(s, "\n")
	default:
		return fmt.Sprint(x)
	}
}

// NewPassageMapping creates the index mapping passages, entities and aspects are indexed with.
// Text fields are analysed in English; the entities field is only stored.
func NewPassageMapping() mapping.IndexMapping {
	text := bleve.NewTextFieldMapping()
	text.Analyzer = en.AnalyzerName
	text.Store = true

	stored := bleve.NewTextFieldMapping()
	stored.Index = false
	stored.Store = true
	stored.IncludeInAll = false

	doc := bleve.NewDocumentMapping()
	doc.AddFieldMappingsAt(TextField, text)
	doc.AddFieldMappingsAt(LeadTextField, text)
	doc.AddFieldMappingsAt(EntitiesField, stored)

	m := bleve.NewIndexMapping()
	m.DefaultAnalyzer = en.AnalyzerName
	m.DefaultMapping = doc
	return m
}

// IndexPassage adds a passage to a bleve index under its identifier.
func IndexPassage(index bleve.Index, p Passage) error {
	mentions := make([]string, len(p.Mentions))
	for i, m := range p.Mentions {
		b, err := mentionJSON(m)
		if err != nil {
			return err
		}
		mentions[i] = b
	}
	return index.Index(p.ID, map[string]interface{}{
		IDField:       p.ID,
		TextField:     p.Text,
		EntitiesField: strings.Join(mentions, "\n"),
	})
}

// IndexDocument adds a document with arbitrary text fields to a bleve index.
func IndexDocument(index bleve.Index, id string, fields map[string]string) error {
	doc := make(map[string]interface{}, len(fields)+1)
	doc[IDField] = id
	for k, v := range fields {
		doc[k] = v
	}
	return index.Index(id, doc)
}

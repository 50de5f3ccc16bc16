package stats

import (
	"log"

	lru "github.com/hashicorp/golang-lru"
)

// DocumentStore is a read-only view of an index of documents. Implementations must be safe for
// concurrent use.
type DocumentStore interface {
	Analyser
	// Document returns the stored fields of a document. The boolean is false when no document
	// with the identifier exists.
	Document(id string) (map[string]string, bool, error)
}

// Field gets a single stored field of a document.
func Field(s DocumentStore, field, id string) (string, bool, error) {
	fields, ok, err := s.Document(id)
	if err != nil || !ok {
		return "", ok, err
	}
	v, ok := fields[field]
	return v, ok, nil
}

// GetPassage loads the passage with the identifier.
func GetPassage(s DocumentStore, id string) (Passage, bool, error) {
	fields, ok, err := s.Document(id)
	if err != nil || !ok {
		return Passage{}, ok, err
	}
	return NewPassage(id, fields), true, nil
}

// Passages loads the passages with the identifiers, in order. Identifiers that are not in the
// store, or appear more than once, are skipped.
func Passages(s DocumentStore, ids []string) ([]Passage, error) {
	seen := make(map[string]struct{}, len(ids))
	passages := make([]Passage, 0, len(ids))
	for _, id := range ids {
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		p, ok, err := GetPassage(s, id)
		if err != nil {
			return nil, err
		}
		if !ok {
			log.Printf("passage %s not found in index\n", id)
			continue
		}
		passages = append(passages, p)
	}
	return passages, nil
}

// documentCache caches the stored fields of documents.
type documentCache struct {
	c *lru.Cache
}

func newDocumentCache(size int) (documentCache, error) {
	if size <= 0 {
		return documentCache{}, nil
	}
	c, err := lru.New(size)
	if err != nil {
		return documentCache{}, err
	}
	return documentCache{c: c}, nil
}

func (d documentCache) get(id string) (map[string]string, bool) {
	if d.c == nil {
		return nil, false
	}
	v, ok := d.c.Get(id)
	if !ok {
		return nil, false
	}
	return v.(map[string]string), true
}

func (d documentCache) add(id string, fields map[string]string) {
	if d.c == nil {
		return
	}
	d.c.Add(id, fields)
}

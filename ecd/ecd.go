// Package ecd builds entity context documents and scores their passages with the entity context
// neighbour method: a passage is scored by how often the other entities it mentions co-occur with
// the target entity across all ranked passages that mention it.
package ecd

import (
	"log"

	"github.com/hscells/ecn/stats"
)

// Document is the entity context document of an entity: the ranked passages that mention it and
// every entity those passages mention.
type Document struct {
	Entity   string
	Passages []stats.Passage
	// ContextEntities holds every mention across Passages, in order and with duplicates.
	ContextEntities []string
}

// Build walks the ranking in order and collects the passages mentioning entity. The boolean is
// false when no passage mentions it.
func Build(entity string, ranked []stats.ScoredDocument) (*Document, bool) {
	d := &Document{Entity: entity}
	var skipped int
	for _, doc := range ranked {
		p := doc.Passage
		if len(p.Mentions) == 0 {
			continue
		}
		if !p.MentionsEntity(entity) {
			skipped++
			continue
		}
		d.Passages = append(d.Passages, p)
		d.ContextEntities = append(d.ContextEntities, p.EntityIDs()...)
	}
	if skipped > 0 {
		log.Printf("%d ranked passages do not mention target entity %s\n", skipped, entity)
	}
	if len(d.Passages) == 0 {
		return nil, false
	}
	return d, true
}

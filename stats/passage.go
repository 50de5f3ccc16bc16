// Package stats provides read-only access to the passages, entities and aspects of an index.
package stats

import (
	"log"
	"strings"

	"github.com/mailru/easyjson"
)

// Field names documents are stored under.
const (
	IDField       = "Id"
	TextField     = "Text"
	EntitiesField = "Entities"
	LeadTextField = "LeadText"
)

// Mention is an entity link inside a passage, optionally resolved to an aspect of that entity.
type Mention struct {
	EntityID string
	AspectID string
}

// Passage is a paragraph of text with its ordered entity mentions.
type Passage struct {
	ID       string
	Text     string
	Mentions []Mention
}

// ScoredDocument is a passage scored against a query.
type ScoredDocument struct {
	ID      string
	Passage Passage
	Score   float64
}

// EntityIDs lists the entity of every mention in order, duplicates included.
func (p Passage) EntityIDs() []string {
	ids := make([]string, len(p.Mentions))
	for i, m := range p.Mentions {
		ids[i] = m.EntityID
	}
	return ids
}

// MentionsEntity reports whether the passage links to entity.
func (p Passage) MentionsEntity(entity string) bool {
	for _, m := range p.Mentions {
		if m.EntityID == entity {
			return true
		}
	}
	return false
}

// AspectOf returns the aspect the first mention of entity links to. Entity ids are compared
// case-insensitively. The boolean is false when the passage does not mention entity at all.
func (p Passage) AspectOf(entity string) (string, bool) {
	for _, m := range p.Mentions {
		if strings.EqualFold(m.EntityID, entity) {
			return m.AspectID, true
		}
	}
	return "", false
}

// ParseMentions parses the newline separated JSON objects of an entities field.
// Lines that cannot be parsed are logged and skipped.
func ParseMentions(raw string) []Mention {
	var mentions []Mention
	for _, line := range strings.Split(raw, "\n") {
		line = strings.TrimSpace(line)
		if len(line) == 0 {
			continue
		}
		var m Mention
		if err := easyjson.Unmarshal([]byte(line), &m); err != nil {
			log.Printf("skipping malformed mention %q: %v\n", line, err)
			continue
		}
		if len(m.EntityID) == 0 {
			log.Printf("skipping mention without an entity %q\n", line)
			continue
		}
		mentions = append(mentions, m)
	}
	return mentions
}

// NewPassage creates a passage from its stored fields.
func NewPassage(id string, fields map[string]string) Passage {
	return Passage{
		ID:       id,
		Text:     fields[TextField],
		Mentions: ParseMentions(fields[EntitiesField]),
	}
}

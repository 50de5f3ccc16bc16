// Package pipeline contains the values passed in and out of an ecn pipeline.
package pipeline

// Query is a topic identifier and the text of the query.
type Query struct {
	Topic string
	Name  string
}

// NewQuery creates a new pipeline query.
func NewQuery(name string, topic string) Query {
	return Query{Name: name, Topic: topic}
}

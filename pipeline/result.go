package pipeline

import (
	"github.com/hscells/ecn/output"
	"github.com/hscells/trecresults"
)

// ResultType is the type of result being returned through a pipeline channel.
type ResultType uint8

const (
	// Snippet holds the entity descriptions of a topic.
	Snippet ResultType = iota
	// TrecResult is a complete trec-style result.
	TrecResult
	// Error indicates an error was raised.
	Error
	// Done indicates the pipeline has completed.
	Done
)

// Result is the output of an ecn pipeline.
type Result struct {
	Topic   string
	Records []output.Record
	// Negatives holds the records of non-relevant entities when a task separates them.
	Negatives   []output.Record
	TrecResults *trecresults.ResultList
	Type        ResultType
	Error       error
}

// Len is the number of records or run lines in the result.
func (r Result) Len() int {
	n := len(r.Records) + len(r.Negatives)
	if r.TrecResults != nil {
		n += len(*r.TrecResults)
	}
	return n
}

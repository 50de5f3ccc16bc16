// Package preprocess handles preprocessing of passage and query text before it is analysed.
package preprocess

import (
	"regexp"
	"strings"
)

// TextProcessor is applied to text before it is tokenised.
type TextProcessor func(text string) string

var (
	newlines, _    = regexp.Compile("[\n\r]")
	punctuation, _ = regexp.Compile(`[-+^*:,;=(){}\[\]"]`)
)

// FeedbackProcessors are applied, in order, to the text of every feedback passage.
var FeedbackProcessors = []TextProcessor{Lowercase, Newlines, StripPunctuation}

// Lowercase transforms all capital letters to lowercase.
func Lowercase(text string) string {
	return strings.ToLower(text)
}

// Newlines replaces newline and carriage return characters with a space.
func Newlines(text string) string {
	return newlines.ReplaceAllString(text, " ")
}

// StripPunctuation removes the characters that would otherwise be parsed as query syntax.
func StripPunctuation(text string) string {
	return punctuation.ReplaceAllString(text, "")
}

// Process applies each processor to text in order.
func Process(text string, processors ...TextProcessor) string {
	for _, processor := range processors {
		text = processor(text)
	}
	return text
}

// Tokens preprocesses text for expansion: it is lowercased, newlines are replaced, punctuation is stripped,
// then the text is split on whitespace and any stop words are removed.
func Tokens(text string, stopwords StopWords) []string {
	fields := strings.Fields(Process(text, FeedbackProcessors...))
	tokens := make([]string, 0, len(fields))
	for _, field := range fields {
		if stopwords.Contains(field) {
			continue
		}
		tokens = append(tokens, field)
	}
	return tokens
}

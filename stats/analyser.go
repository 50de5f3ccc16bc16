package stats

import (
	"strings"

	"github.com/blevesearch/bleve/v2"
	"github.com/blevesearch/bleve/v2/analysis"
	"github.com/blevesearch/bleve/v2/analysis/lang/en"
	"github.com/jdkato/prose/v2"
	"github.com/pkg/errors"
	"github.com/reiver/go-porterstemmer"
)

// Analyser turns text into the ordered index terms it would be searched with.
type Analyser interface {
	Analyse(text string) ([]string, error)
}

// EnglishAnalyser analyses text with the English analyser of the bleve registry: unicode
// tokenisation, possessive removal, lowercasing, stop word removal and stemming.
type EnglishAnalyser struct {
	analyzer analysis.Analyzer
}

// NewEnglishAnalyser looks up the English analyser.
func NewEnglishAnalyser() (EnglishAnalyser, error) {
	return NewRegistryAnalyser(en.AnalyzerName)
}

// NewRegistryAnalyser looks up any analyser registered with bleve by name.
func NewRegistryAnalyser(name string) (EnglishAnalyser, error) {
	a := bleve.NewIndexMapping().AnalyzerNamed(name)
	if a == nil {
		return EnglishAnalyser{}, errors.Errorf("no analyser named %s", name)
	}
	return EnglishAnalyser{analyzer: a}, nil
}

// Analyse implements Analyser.
func (e EnglishAnalyser) Analyse(text string) ([]string, error) {
	stream := e.analyzer.Analyze([]byte(text))
	terms := make([]string, 0, len(stream))
	for _, tok := range stream {
		terms = append(terms, string(tok.Term))
	}
	return terms, nil
}

// ProseAnalyser tokenises with prose, lowercases and applies the Porter stemmer.
// Tokens in StopWords are dropped after lowercasing and before stemming.
type ProseAnalyser struct {
	StopWords map[string]struct{}
}

// Analyse implements Analyser.
func (p ProseAnalyser) Analyse(text string) ([]string, error) {
	doc, err := prose.NewDocument(strings.ToLower(text), prose.WithTagging(false), prose.WithExtraction(false), prose.WithSegmentation(false))
	if err != nil {
		return nil, err
	}
	var terms []string
	for _, tok := range doc.Tokens() {
		t := tok.Text
		if !isWord(t) {
			continue
		}
		if _, ok := p.StopWords[t]; ok {
			continue
		}
		terms = append(terms, porterstemmer.StemString(t))
	}
	return terms, nil
}

func isWord(s string) bool {
	for _, r := range s {
		if r >= 'a' && r <= 'z' || r >= '0' && r <= '9' || r > 127 {
			return true
		}
	}
	return false
}

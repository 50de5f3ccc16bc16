package preprocess

import (
	"bufio"
	"io"
	"os"
	"strings"

	"github.com/pkg/errors"
)

// StopWords is a set of words removed by exact membership.
type StopWords map[string]struct{}

// NewStopWords creates a stop word set from a list of words.
func NewStopWords(words ...string) StopWords {
	s := make(StopWords, len(words))
	for _, w := range words {
		s[w] = struct{}{}
	}
	return s
}

// Contains reports whether word is a stop word. A nil set contains nothing.
func (s StopWords) Contains(word string) bool {
	_, ok := s[word]
	return ok
}

// ReadStopWords reads a newline delimited stop word list.
func ReadStopWords(r io.Reader) (StopWords, error) {
	s := make(StopWords)
	scanner := bufio.NewScanner(r)
	for scanner.Scan() {
		w := strings.TrimSpace(scanner.Text())
		if len(w) == 0 {
			continue
		}
		s[w] = struct{}{}
	}
	return s, scanner.Err()
}

// LoadStopWords reads a stop word list from a file.
func LoadStopWords(path string) (StopWords, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, errors.Wrapf(err, "could not open stop words %s", path)
	}
	defer f.Close()
	s, err := ReadStopWords(f)
	if err != nil {
		return nil, errors.Wrapf(err, "could not read stop words %s", path)
	}
	return s, nil
}

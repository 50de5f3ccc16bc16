// Package output provides the output formats of the data preparation tasks.
package output

import (
	"strings"

	"github.com/mailru/easyjson"
	"github.com/mailru/easyjson/jwriter"
)

// Snippet is the description of an entity for a query: the passage (and aspect) it came from, its
// text and the score of the entity.
type Snippet struct {
	ParaID   string
	AspectID string
	Text     string
	Score    float64
}

// Record is the snippet of one entity for one query.
type Record struct {
	QueryID  string
	EntityID string
	Snippet  Snippet
}

var newlines = strings.NewReplacer("\n", " ", "\r", " ")

// NewSnippet creates a snippet. Newlines and carriage returns in the text are replaced by spaces.
func NewSnippet(paraID, aspectID, text string, score float64) Snippet {
	return Snippet{
		ParaID:   paraID,
		AspectID: aspectID,
		Text:     newlines.Replace(text),
		Score:    score,
	}
}

// MarshalEasyJSON writes {"para_id","aspect_id","text","score"} in that order.
func (s Snippet) MarshalEasyJSON(out *jwriter.Writer) {
	out.RawString(`{"para_id":`)
	out.String(s.ParaID)
	out.RawString(`,"aspect_id":`)
	out.String(s.AspectID)
	out.RawString(`,"text":`)
	out.String(s.Text)
	out.RawString(`,"score":`)
	out.Float64(s.Score)
	out.RawByte('}')
}

// JSON encodes the snippet.
func (s Snippet) JSON() (string, error) {
	w := jwriter.Writer{NoEscapeHTML: true}
	s.MarshalEasyJSON(&w)
	b, err := w.BuildBytes()
	if err != nil {
		return "", err
	}
	return string(b), nil
}

var _ easyjson.Marshaler = Snippet{}

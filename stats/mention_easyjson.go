package stats

import (
	"github.com/mailru/easyjson"
	"github.com/mailru/easyjson/jlexer"
	"github.com/mailru/easyjson/jwriter"
)

// UnmarshalEasyJSON reads an entity link of the form {"linkPageId": "...", "aspect": "..."}.
func (m *Mention) UnmarshalEasyJSON(in *jlexer.Lexer) {
	isTopLevel := in.IsStart()
	if in.IsNull() {
		if isTopLevel {
			in.Consumed()
		}
		in.Skip()
		return
	}
	in.Delim('{')
	for !in.IsDelim('}') {
		key := in.UnsafeFieldName(false)
		in.WantColon()
		if in.IsNull() {
			in.Skip()
			in.WantComma()
			continue
		}
		switch key {
		case "linkPageId":
			m.EntityID = in.String()
		case "aspect":
			m.AspectID = in.String()
		default:
			in.SkipRecursive()
		}
		in.WantComma()
	}
	in.Delim('}')
	if isTopLevel {
		in.Consumed()
	}
}

// MarshalEasyJSON writes the mention in the same form it is read.
func (m Mention) MarshalEasyJSON(out *jwriter.Writer) {
	out.RawString(`{"linkPageId":`)
	out.String(m.EntityID)
	out.RawString(`,"aspect":`)
	out.String(m.AspectID)
	out.RawByte('}')
}

func mentionJSON(m Mention) (string, error) {
	b, err := easyjson.Marshal(m)
	if err != nil {
		return "", err
	}
	return string(b), nil
}

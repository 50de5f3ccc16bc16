package reference

import (
	"bufio"
	"io"
	"log"
	"os"
	"strings"

	"github.com/mailru/easyjson/jlexer"
	"github.com/pkg/errors"
)

// Table maps identifiers to text, such as query or entity names.
type Table map[string]string

// PassageLists maps entities to the passages that mention them.
type PassageLists map[string][]string

// ErrMissing is returned when an identifier is not in a reference table.
var ErrMissing = errors.New("missing reference")

// ReadTable reads lines of the form `key<TAB>value`. Lines with any other number of columns are
// skipped. A repeated key keeps its last value.
func ReadTable(r io.Reader) (Table, error) {
	t := make(Table)
	err := eachLine(r, func(line string) {
		fields := strings.Split(line, "\t")
		if len(fields) != 2 {
			return
		}
		t[fields[0]] = fields[1]
	})
	return t, err
}

// LoadTable reads a table from a file.
func LoadTable(path string) (Table, error) {
	var t Table
	err := withFile(path, func(r io.Reader) (err error) {
		t, err = ReadTable(r)
		return
	})
	return t, err
}

// ReadPassageLists reads lines of the form `entity<TAB>json`, where the value is a JSON array of
// passage identifiers or an object holding the array under "paragraphs". Values that cannot be
// parsed are logged and skipped.
func ReadPassageLists(r io.Reader) (PassageLists, error) {
	t, err := ReadTable(r)
	if err != nil {
		return nil, err
	}
	lists := make(PassageLists, len(t))
	for entity, value := range t {
		ids, err := parsePassageList(value)
		if err != nil {
			log.Printf("skipping passages of %s: %v\n", entity, err)
			continue
		}
		lists[entity] = ids
	}
	return lists, nil
}

// LoadPassageLists reads passage lists from a file.
func LoadPassageLists(path string) (PassageLists, error) {
	var p PassageLists
	err := withFile(path, func(r io.Reader) (err error) {
		p, err = ReadPassageLists(r)
		return
	})
	return p, err
}

func parsePassageList(value string) ([]string, error) {
	in := jlexer.Lexer{Data: []byte(value)}
	var ids []string
	if in.IsDelim('[') {
		ids = readStrings(&in)
	} else {
		in.Delim('{')
		for !in.IsDelim('}') {
			key := in.UnsafeFieldName(false)
			in.WantColon()
			if key == "paragraphs" && !in.IsNull() {
				ids = readStrings(&in)
			} else {
				in.SkipRecursive()
			}
			in.WantComma()
		}
		in.Delim('}')
	}
	in.Consumed()
	return ids, in.Error()
}

func readStrings(in *jlexer.Lexer) []string {
	ids := []string{}
	in.Delim('[')
	for !in.IsDelim(']') {
		ids = append(ids, in.String())
		in.WantComma()
	}
	in.Delim(']')
	return ids
}

func eachLine(r io.Reader, fn func(line string)) error {
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 64*1024), 64*1024*1024)
	for scanner.Scan() {
		line := strings.TrimRight(scanner.Text(), "\r")
		if len(line) == 0 {
			continue
		}
		fn(line)
	}
	return scanner.Err()
}

func withFile(path string, fn func(r io.Reader) error) error {
	f, err := os.Open(path)
	if err != nil {
		return errors.Wrapf(err, "could not open %s", path)
	}
	defer f.Close()
	if err := fn(f); err != nil {
		return errors.Wrapf(err, "could not read %s", path)
	}
	return nil
}

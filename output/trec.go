package output

import (
	"bufio"
	"os"

	"github.com/hscells/trecresults"
	"github.com/pkg/errors"
)

// TrecResults represents a run file and the results to append to it.
type TrecResults struct {
	Path    string
	Results trecresults.ResultList
}

// Snippets represents a data file and the records to append to it.
type Snippets struct {
	Path    string
	Records []Record
}

// Write appends the results to the run file.
func (t TrecResults) Write(format RunFormatter) error {
	return appendLines(t.Path, func(w *bufio.Writer) error {
		for _, r := range t.Results {
			if _, err := w.WriteString(format(r) + "\n"); err != nil {
				return err
			}
		}
		return nil
	})
}

// Write appends the records to the data file.
func (s Snippets) Write(format RecordFormatter) error {
	return appendLines(s.Path, func(w *bufio.Writer) error {
		for _, r := range s.Records {
			line, err := format(r)
			if err != nil {
				return errors.Wrapf(err, "could not format %s %s", r.QueryID, r.EntityID)
			}
			if _, err := w.WriteString(line + "\n"); err != nil {
				return err
			}
		}
		return nil
	})
}

func appendLines(path string, fn func(w *bufio.Writer) error) error {
	f, err := os.OpenFile(path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0644)
	if err != nil {
		return errors.Wrapf(err, "could not open %s", path)
	}
	w := bufio.NewWriter(f)
	if err := fn(w); err != nil {
		f.Close()
		return errors.Wrapf(err, "could not write %s", path)
	}
	if err := w.Flush(); err != nil {
		f.Close()
		return errors.Wrapf(err, "could not write %s", path)
	}
	return errors.Wrapf(f.Close(), "could not close %s", path)
}

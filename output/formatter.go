package output

import (
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/hscells/trecresults"
)

// MethodECN tags runs of passages ranked by entity context neighbours.
const MethodECN = "ECN"

// RecordFormatter formats a snippet record as a line of a data file.
type RecordFormatter func(r Record) (string, error)

// RunFormatter formats a result as a line of a run file.
type RunFormatter func(r *trecresults.Result) string

// TSVFormatter outputs `query<TAB>entity<TAB>json`.
func TSVFormatter(r Record) (string, error) {
	j, err := r.Snippet.JSON()
	if err != nil {
		return "", err
	}
	return r.QueryID + "\t" + r.EntityID + "\t" + j, nil
}

// TrecFormatter outputs `topic doc Q0 rank score run`, with the score written the way the JVM
// prints doubles.
func TrecFormatter(r *trecresults.Result) string {
	return fmt.Sprintf("%s %s %s %d %s %s", r.Topic, r.DocId, r.Iteration, r.Rank, FormatScore(r.Score), r.RunName)
}

// FormatScore writes a score with the shortest digits that represent it and at least one
// fractional digit. Magnitudes below 1e-3 or from 1e7 use scientific notation, such as 1.0E-4.
func FormatScore(f float64) string {
	switch {
	case math.IsNaN(f):
		return "NaN"
	case math.IsInf(f, 1):
		return "Infinity"
	case math.IsInf(f, -1):
		return "-Infinity"
	case f == 0:
		if math.Signbit(f) {
			return "-0.0"
		}
		return "0.0"
	}

	abs := math.Abs(f)
	if abs >= 1e-3 && abs < 1e7 {
		s := strconv.FormatFloat(f, 'f', -1, 64)
		if !strings.Contains(s, ".") {
			s += ".0"
		}
		return s
	}

	s := strconv.FormatFloat(f, 'E', -1, 64)
	i := strings.IndexByte(s, 'E')
	mantissa, exp := s[:i], s[i+1:]
	if !strings.Contains(mantissa, ".") {
		mantissa += ".0"
	}
	neg := strings.HasPrefix(exp, "-")
	exp = strings.TrimLeft(exp, "+-")
	exp = strings.TrimLeft(exp, "0")
	if neg {
		exp = "-" + exp
	}
	return mantissa + "E" + exp
}

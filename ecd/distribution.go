package ecd

import (
	"strconv"
	"strings"
)

// Membership is a set of entity identifiers.
type Membership interface {
	Contains(id string) bool
}

// FrequencyDistribution maps entities to their normalised co-occurrence frequency.
type FrequencyDistribution map[string]float64

// Distribution counts the context entities that are members of reference and normalises the
// counts. Weights are rounded up to four decimal places; entities outside reference are ignored.
func Distribution(contextEntities []string, reference Membership) FrequencyDistribution {
	counts := make(map[string]int)
	var norm int
	for _, e := range contextEntities {
		if !reference.Contains(e) {
			continue
		}
		counts[e]++
		norm++
	}

	dist := make(FrequencyDistribution, len(counts))
	for e, c := range counts {
		w := Round(float64(c) / float64(norm))
		if w > 0 {
			dist[e] = w
		}
	}
	return dist
}

// Round rounds x towards positive infinity at four decimal places. The decimal digits are taken
// from the shortest representation of x, so 0.33335 rounds to 0.3334 and 0.5 stays 0.5.
func Round(x float64) float64 {
	s := strconv.FormatFloat(x, 'f', -1, 64)
	dot := strings.IndexByte(s, '.')
	if dot < 0 || len(s)-dot-1 <= 4 {
		return x
	}
	truncated, err := strconv.ParseFloat(s[:dot+5], 64)
	if err != nil {
		return x
	}
	if x < 0 || strings.Trim(s[dot+5:], "0") == "" {
		return truncated
	}
	units, err := strconv.ParseInt(strings.Replace(s[:dot+5], ".", "", 1), 10, 64)
	if err != nil {
		return x
	}
	return float64(units+1) / 1e4
}

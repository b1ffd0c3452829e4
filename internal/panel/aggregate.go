package panel

import (
	"errors"
	"fmt"
	"math"
)

var ErrUnknownAggregationKind = errors.New("panel: unknown aggregation kind")

// AggregationKind names a summary statistic computed over slice rows.
type AggregationKind string

const (
	AggSum   AggregationKind = "sum"
	AggMean  AggregationKind = "mean"
	AggCount AggregationKind = "count"
	AggMin   AggregationKind = "min"
	AggMax   AggregationKind = "max"
)

// Aggregation is a registered summary statistic, addressed by an opaque id.
type Aggregation struct {
	ID      string          `json:"id"`
	Name    string          `json:"name"`
	Kind    AggregationKind `json:"kind"`
	Measure string          `json:"measure"`
}

// jsonNumber converts a statistic to its JSON form. NaN (a statistic over
// no samples) serializes as null.
func jsonNumber(v float64) *float64 {
	if math.IsNaN(v) {
		return nil
	}
	return &v
}

// aggregate computes one statistic over a set of rows. Count ignores the
// measure; the others skip rows missing it. An empty input yields NaN for
// min/max and mean, matching a statistic over no samples.
func aggregate(kind AggregationKind, measure string, rows []Record) (float64, error) {
	switch kind {
	case AggCount:
		return float64(len(rows)), nil
	case AggSum:
		var sum float64
		for _, row := range rows {
			if v, ok := row.Measure(measure); ok {
				sum += v
			}
		}
		return sum, nil
	case AggMean:
		var sum float64
		var n int
		for _, row := range rows {
			if v, ok := row.Measure(measure); ok {
				sum += v
				n++
			}
		}
		if n == 0 {
			return math.NaN(), nil
		}
		return sum / float64(n), nil
	case AggMin:
		best := math.NaN()
		for _, row := range rows {
			if v, ok := row.Measure(measure); ok && (math.IsNaN(best) || v < best) {
				best = v
			}
		}
		return best, nil
	case AggMax:
		best := math.NaN()
		for _, row := range rows {
			if v, ok := row.Measure(measure); ok && (math.IsNaN(best) || v > best) {
				best = v
			}
		}
		return best, nil
	default:
		return 0, fmt.Errorf("%w: %q", ErrUnknownAggregationKind, kind)
	}
}

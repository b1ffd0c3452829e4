package panel

import (
	"errors"
	"fmt"
	"strconv"
	"sync"

	"github.com/rs/zerolog/log"
)

var (
	ErrUnknownSliceBy     = errors.New("panel: unknown sliceby")
	ErrUnknownSliceKey    = errors.New("panel: unknown slice key")
	ErrUnknownAggregation = errors.New("panel: unknown aggregation")
	ErrSliceByExists      = errors.New("panel: sliceby already exists")
	ErrAggregationExists  = errors.New("panel: aggregation already exists")
	ErrEmptyDimension     = errors.New("panel: sliceby dimension required")
)

// SliceBy partitions the record set by one dimension. Keys keep
// first-appearance order; each key maps to the indices of its rows.
type SliceBy struct {
	ID        string
	Dimension string
	keys      []string
	rows      map[string][]int
	intKeys   bool
}

// Info is the metadata payload for one sliceby grouping.
type Info struct {
	ID        string `json:"id"`
	Type      string `json:"type"`
	NSlices   int    `json:"n_slices"`
	SliceKeys []any  `json:"slice_keys"`
}

// RowsPage is one page of rows from a single slice.
type RowsPage struct {
	SliceKey string   `json:"slice_key"`
	Start    int      `json:"start"`
	End      int      `json:"end"`
	Total    int      `json:"total"`
	Rows     []Record `json:"rows"`
}

// AggregateResult carries one aggregation's per-slice values. Slices with
// no samples report null.
type AggregateResult struct {
	AggregationID string              `json:"aggregation_id"`
	Name          string              `json:"name"`
	Kind          AggregationKind     `json:"kind"`
	Measure       string              `json:"measure"`
	Values        map[string]*float64 `json:"values"`
}

// Slicer holds the record set plus its registered slicebys and
// aggregations.
type Slicer struct {
	mu           sync.RWMutex
	records      []Record
	slicebys     map[string]*SliceBy
	aggregations map[string]Aggregation
}

// NewSlicer creates a slicer over a fixed record set.
func NewSlicer(records []Record) *Slicer {
	return &Slicer{
		records:      records,
		slicebys:     make(map[string]*SliceBy),
		aggregations: make(map[string]Aggregation),
	}
}

// Len returns the record count.
func (s *Slicer) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.records)
}

// AddSliceBy partitions the records by dimension and registers the result
// under id.
func (s *Slicer) AddSliceBy(id, dimension string) (*SliceBy, error) {
	if dimension == "" {
		return nil, ErrEmptyDimension
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.slicebys[id]; ok {
		return nil, fmt.Errorf("%w: %q", ErrSliceByExists, id)
	}

	sb := &SliceBy{
		ID:        id,
		Dimension: dimension,
		rows:      make(map[string][]int),
		intKeys:   true,
	}
	for i, record := range s.records {
		key := record.Dimension(dimension)
		if _, ok := sb.rows[key]; !ok {
			sb.keys = append(sb.keys, key)
			if _, err := strconv.ParseInt(key, 10, 64); err != nil {
				sb.intKeys = false
			}
		}
		sb.rows[key] = append(sb.rows[key], i)
	}
	if len(sb.keys) == 0 {
		sb.intKeys = false
	}

	s.slicebys[id] = sb
	log.Info().
		Str("sliceby", id).
		Str("dimension", dimension).
		Int("n_slices", len(sb.keys)).
		Msg("sliceby_registered")
	return sb, nil
}

// RegisterAggregation registers a named aggregation under its opaque id.
func (s *Slicer) RegisterAggregation(agg Aggregation) error {
	if _, err := aggregate(agg.Kind, agg.Measure, nil); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.aggregations[agg.ID]; ok {
		return fmt.Errorf("%w: %q", ErrAggregationExists, agg.ID)
	}
	s.aggregations[agg.ID] = agg
	return nil
}

// Info returns metadata for one sliceby. Numeric key sets are served as
// integers, everything else as strings.
func (s *Slicer) Info(id string) (Info, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	sb, ok := s.slicebys[id]
	if !ok {
		return Info{}, fmt.Errorf("%w: %q", ErrUnknownSliceBy, id)
	}
	keys := make([]any, 0, len(sb.keys))
	for _, key := range sb.keys {
		if sb.intKeys {
			n, _ := strconv.ParseInt(key, 10, 64)
			keys = append(keys, n)
			continue
		}
		keys = append(keys, key)
	}
	return Info{
		ID:        sb.ID,
		Type:      "categorical",
		NSlices:   len(sb.keys),
		SliceKeys: keys,
	}, nil
}

// Rows returns rows [start, end) of one slice. Out-of-range bounds are
// clamped rather than rejected; the client never validates them.
func (s *Slicer) Rows(id, sliceKey string, start, end int) (RowsPage, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	sb, ok := s.slicebys[id]
	if !ok {
		return RowsPage{}, fmt.Errorf("%w: %q", ErrUnknownSliceBy, id)
	}
	indices, ok := sb.rows[sliceKey]
	if !ok {
		return RowsPage{}, fmt.Errorf("%w: %q in sliceby %q", ErrUnknownSliceKey, sliceKey, id)
	}

	total := len(indices)
	if start < 0 {
		start = 0
	}
	if end > total {
		end = total
	}
	if start > end {
		start = end
	}

	rows := make([]Record, 0, end-start)
	for _, idx := range indices[start:end] {
		rows = append(rows, s.records[idx])
	}
	return RowsPage{
		SliceKey: sliceKey,
		Start:    start,
		End:      end,
		Total:    total,
		Rows:     rows,
	}, nil
}

// Aggregate computes one registered aggregation per slice of a sliceby.
func (s *Slicer) Aggregate(id, aggregationID string) (AggregateResult, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	sb, ok := s.slicebys[id]
	if !ok {
		return AggregateResult{}, fmt.Errorf("%w: %q", ErrUnknownSliceBy, id)
	}
	agg, ok := s.aggregations[aggregationID]
	if !ok {
		return AggregateResult{}, fmt.Errorf("%w: %q", ErrUnknownAggregation, aggregationID)
	}

	values := make(map[string]*float64, len(sb.keys))
	for _, key := range sb.keys {
		rows := make([]Record, 0, len(sb.rows[key]))
		for _, idx := range sb.rows[key] {
			rows = append(rows, s.records[idx])
		}
		v, err := aggregate(agg.Kind, agg.Measure, rows)
		if err != nil {
			return AggregateResult{}, err
		}
		values[key] = jsonNumber(v)
	}
	return AggregateResult{
		AggregationID: agg.ID,
		Name:          agg.Name,
		Kind:          agg.Kind,
		Measure:       agg.Measure,
		Values:        values,
	}, nil
}

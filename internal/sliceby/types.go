// Package sliceby is the REST client for the data-panel sliceby API:
// slice metadata, paginated slice rows, and named aggregation results.
package sliceby

import (
	"encoding/json"
	"fmt"
	"strconv"
)

// SliceKey identifies one slice. The backend serves keys as either JSON
// strings or integers; both are preserved as-is.
type SliceKey struct {
	str   string
	num   int64
	isNum bool
}

// StringKey makes a string-valued slice key.
func StringKey(s string) SliceKey {
	return SliceKey{str: s}
}

// IntKey makes an integer-valued slice key.
func IntKey(n int64) SliceKey {
	return SliceKey{num: n, isNum: true}
}

// IsInt reports whether the key is integer-valued.
func (k SliceKey) IsInt() bool {
	return k.isNum
}

// String renders the key for logs and lookups.
func (k SliceKey) String() string {
	if k.isNum {
		return strconv.FormatInt(k.num, 10)
	}
	return k.str
}

func (k SliceKey) MarshalJSON() ([]byte, error) {
	if k.isNum {
		return json.Marshal(k.num)
	}
	return json.Marshal(k.str)
}

func (k *SliceKey) UnmarshalJSON(data []byte) error {
	var n int64
	if err := json.Unmarshal(data, &n); err == nil {
		*k = IntKey(n)
		return nil
	}
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return fmt.Errorf("sliceby: slice key must be string or integer: %w", err)
	}
	*k = StringKey(s)
	return nil
}

// SliceInfo describes one sliceby grouping: its identity, slice count,
// and the ordered slice keys.
type SliceInfo struct {
	ID        string     `json:"id"`
	Type      string     `json:"type"`
	NSlices   int        `json:"n_slices"`
	SliceKeys []SliceKey `json:"slice_keys"`
}

// rowsRequest is the wire body for the rows endpoint.
type rowsRequest struct {
	SliceKey SliceKey `json:"slice_key"`
	Start    int      `json:"start"`
	End      int      `json:"end"`
}

// aggregateRequest is the wire body for the aggregate endpoint.
type aggregateRequest struct {
	AggregationID string `json:"aggregation_id"`
	AcceptsDP     bool   `json:"accepts_dp"`
}

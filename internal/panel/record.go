// Package panel implements the data-panel service: an in-memory slicer
// over generic records, exposed over HTTP for the sliceby client.
package panel

// Record is a single data row with string dimensions and numeric measures.
type Record struct {
	Dimensions map[string]string  `json:"dimensions"`
	Measures   map[string]float64 `json:"measures"`
}

// Dimension returns a dimension value, empty when unset.
func (r Record) Dimension(name string) string {
	if r.Dimensions == nil {
		return ""
	}
	return r.Dimensions[name]
}

// Measure returns a measure value and whether it is present.
func (r Record) Measure(name string) (float64, bool) {
	if r.Measures == nil {
		return 0, false
	}
	v, ok := r.Measures[name]
	return v, ok
}

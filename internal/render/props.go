// Package render binds row/column values to pluggable visual components.
// Prop values are an explicit sum of raw and reactive: wrapping happens
// through Reactive conversion, never by structural inference on the value.
package render

import (
	"strings"

	"github.com/panelkit/panelkit/internal/store"
)

const (
	// CellInfoKey carries the cell descriptor through the props bag.
	CellInfoKey = "cell_info"
	// EditableKey holds the always-wrapped editable flag.
	EditableKey = "editable"
	// EditCallbackKey is the injected edit notification callback.
	EditCallbackKey = "on_edit"

	// callbackPrefix marks prop keys that name callbacks; such entries
	// are never wrapped.
	callbackPrefix = "on_"
)

// PropValue is either a raw value or a reactive store.
type PropValue struct {
	raw      any
	reactive *store.Store[any]
}

// Raw returns a plain prop value.
func Raw(v any) PropValue {
	return PropValue{raw: v}
}

// Reactive returns a prop value backed by a store.
func Reactive(s *store.Store[any]) PropValue {
	return PropValue{reactive: s}
}

// IsReactive reports whether the value is store-backed.
func (p PropValue) IsReactive() bool {
	return p.reactive != nil
}

// Value returns the current value, reading through the store when reactive.
func (p PropValue) Value() any {
	if p.reactive != nil {
		return p.reactive.Get()
	}
	return p.raw
}

// Store returns the backing store for reactive values.
func (p PropValue) Store() (*store.Store[any], bool) {
	return p.reactive, p.reactive != nil
}

// Props is the bag of named inputs handed to a component.
type Props map[string]PropValue

// Clone returns a shallow copy. Rendering never mutates a caller's map.
func (p Props) Clone() Props {
	out := make(Props, len(p)+3)
	for k, v := range p {
		out[k] = v
	}
	return out
}

// isCallbackKey reports whether a prop key names a callback.
func isCallbackKey(key string) bool {
	return strings.HasPrefix(key, callbackPrefix)
}

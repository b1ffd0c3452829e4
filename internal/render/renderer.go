package render

import (
	"github.com/rs/zerolog/log"

	"github.com/panelkit/panelkit/internal/store"
)

// Edit is the upward notification emitted when a descendant component
// invokes the injected edit callback.
type Edit struct {
	Value any `json:"value"`
}

// EditFunc is the callback injected into descendant props under
// EditCallbackKey.
type EditFunc func(value any)

// CellRenderer binds one cell's value and descriptor to a named component.
// The props bag it builds replaces every plain value with a reactive store
// before delegating to the registry.
type CellRenderer struct {
	registry *Registry
	onEdit   func(Edit)
}

// NewCellRenderer creates a renderer over a component registry.
func NewCellRenderer(registry *Registry) *CellRenderer {
	return &CellRenderer{registry: registry}
}

// OnEdit installs the handler receiving edit events. A nil handler drops
// them.
func (r *CellRenderer) OnEdit(fn func(Edit)) {
	r.onEdit = fn
}

// Render builds the props bag and delegates to the component named by
// componentName.
//
// The caller's baseProps map is copied, never mutated. After the value and
// cell descriptor are set, every entry is wrapped in a fresh store unless
// its key names a callback, its value is nil, or it is already reactive.
// The editable flag is wrapped unconditionally; that asymmetry is
// deliberate and matches the product behavior.
func (r *CellRenderer) Render(value, cellInfo any, componentName string, baseProps Props, dataKey string, editable bool) (string, error) {
	props := baseProps.Clone()
	props[dataKey] = Raw(value)
	props[CellInfoKey] = Raw(cellInfo)

	for key, prop := range props {
		if isCallbackKey(key) {
			continue
		}
		if prop.IsReactive() {
			continue
		}
		if prop.Value() == nil {
			continue
		}
		props[key] = Reactive(store.New[any](prop.Value()))
	}

	props[EditableKey] = Reactive(store.New[any](editable))
	props[EditCallbackKey] = Raw(EditFunc(r.emitEdit))

	component, err := r.registry.Resolve(componentName)
	if err != nil {
		return "", err
	}
	log.Debug().
		Str("component", componentName).
		Str("data_key", dataKey).
		Bool("editable", editable).
		Msg("render_cell")
	return component.Render(props)
}

func (r *CellRenderer) emitEdit(value any) {
	log.Debug().Interface("value", value).Msg("cell_edit")
	if r.onEdit != nil {
		r.onEdit(Edit{Value: value})
	}
}

package render

import (
	"errors"
	"testing"

	"github.com/panelkit/panelkit/internal/store"
	"github.com/panelkit/panelkit/internal/testutil/testlog"
)

// captureComponent records the props bag it was rendered with.
type captureComponent struct {
	props *Props
}

func (c *captureComponent) Render(props Props) (string, error) {
	*c.props = props
	return "rendered", nil
}

func newCaptureRenderer(t *testing.T) (*CellRenderer, *Props) {
	t.Helper()
	var captured Props
	registry := NewRegistry()
	err := registry.Register("cell", func() Component {
		return &captureComponent{props: &captured}
	})
	if err != nil {
		t.Fatalf("register: %v", err)
	}
	return NewCellRenderer(registry), &captured
}

func TestRenderDoesNotMutateBaseProps(t *testing.T) {
	testlog.Start(t)
	renderer, captured := newCaptureRenderer(t)

	base := Props{"label": Raw("amount"), "on_click": Raw("handler")}
	if _, err := renderer.Render(12.5, "r1c2", "cell", base, "data", false); err != nil {
		t.Fatalf("render: %v", err)
	}

	if len(base) != 2 {
		t.Fatalf("base props grew to %d entries", len(base))
	}
	if base["label"].IsReactive() {
		t.Fatalf("base props entry was wrapped in place")
	}
	if (*captured)["label"].Value() != "amount" {
		t.Fatalf("rendered props lost label: %#v", (*captured)["label"])
	}
	// second render from the same base reference behaves identically
	if _, err := renderer.Render(13.0, "r1c3", "cell", base, "data", false); err != nil {
		t.Fatalf("second render: %v", err)
	}
	if base["label"].IsReactive() {
		t.Fatalf("base props mutated by repeated render")
	}
}

func TestRenderWrapsPlainValues(t *testing.T) {
	testlog.Start(t)
	renderer, captured := newCaptureRenderer(t)

	base := Props{"label": Raw("amount"), "width": Raw(80)}
	if _, err := renderer.Render("value", cellDescriptor(), "cell", base, "data", true); err != nil {
		t.Fatalf("render: %v", err)
	}
	props := *captured

	for _, key := range []string{"label", "width", "data", CellInfoKey} {
		prop, ok := props[key]
		if !ok {
			t.Fatalf("missing prop %q", key)
		}
		if !prop.IsReactive() {
			t.Fatalf("prop %q not wrapped", key)
		}
	}
	if props["data"].Value() != "value" {
		t.Fatalf("data prop holds %v", props["data"].Value())
	}
	if props["width"].Value() != 80 {
		t.Fatalf("width prop holds %v", props["width"].Value())
	}
	info, ok := props[CellInfoKey].Value().(map[string]any)
	if !ok || info["row"] != 3 {
		t.Fatalf("cell descriptor not passed through: %#v", props[CellInfoKey].Value())
	}
}

func TestRenderLeavesCallbacksAndNilsUnwrapped(t *testing.T) {
	testlog.Start(t)
	renderer, captured := newCaptureRenderer(t)

	base := Props{
		"on_click": Raw("click-handler"),
		"tooltip":  Raw(nil),
	}
	if _, err := renderer.Render(1, nil, "cell", base, "data", false); err != nil {
		t.Fatalf("render: %v", err)
	}
	props := *captured

	if props["on_click"].IsReactive() {
		t.Fatalf("callback prop was wrapped")
	}
	if props["on_click"].Value() != "click-handler" {
		t.Fatalf("callback prop changed: %v", props["on_click"].Value())
	}
	if props["tooltip"].IsReactive() {
		t.Fatalf("nil prop was wrapped")
	}
	// nil cell descriptor stays raw too
	if props[CellInfoKey].IsReactive() {
		t.Fatalf("nil cell descriptor was wrapped")
	}
}

func TestRenderPassesThroughReactiveValues(t *testing.T) {
	testlog.Start(t)
	renderer, captured := newCaptureRenderer(t)

	existing := store.New[any]("already-reactive")
	base := Props{"status": Reactive(existing)}
	if _, err := renderer.Render(1, nil, "cell", base, "data", false); err != nil {
		t.Fatalf("render: %v", err)
	}
	props := *captured

	got, ok := props["status"].Store()
	if !ok {
		t.Fatalf("reactive prop lost its store")
	}
	if got != existing {
		t.Fatalf("reactive prop was re-wrapped: %q != %q", got.ID(), existing.ID())
	}
}

func TestEditableAlwaysWrapped(t *testing.T) {
	testlog.Start(t)
	renderer, captured := newCaptureRenderer(t)

	for _, editable := range []bool{true, false} {
		if _, err := renderer.Render(1, nil, "cell", nil, "data", editable); err != nil {
			t.Fatalf("render editable=%v: %v", editable, err)
		}
		prop := (*captured)[EditableKey]
		if !prop.IsReactive() {
			t.Fatalf("editable=%v not wrapped", editable)
		}
		if prop.Value() != editable {
			t.Fatalf("editable prop holds %v, want %v", prop.Value(), editable)
		}
	}
}

func TestEditCallbackEmitsEvent(t *testing.T) {
	testlog.Start(t)
	renderer, captured := newCaptureRenderer(t)

	var events []Edit
	renderer.OnEdit(func(e Edit) { events = append(events, e) })

	if _, err := renderer.Render(1, nil, "cell", nil, "data", true); err != nil {
		t.Fatalf("render: %v", err)
	}
	props := *captured

	fn, ok := props[EditCallbackKey].Value().(EditFunc)
	if !ok {
		t.Fatalf("edit callback missing or wrapped: %#v", props[EditCallbackKey])
	}
	fn("corrected")
	if len(events) != 1 || events[0].Value != "corrected" {
		t.Fatalf("unexpected edit events: %#v", events)
	}
}

func TestRenderUnknownComponent(t *testing.T) {
	testlog.Start(t)
	renderer, _ := newCaptureRenderer(t)
	if _, err := renderer.Render(1, nil, "missing", nil, "data", false); !errors.Is(err, ErrUnknownComponent) {
		t.Fatalf("expected ErrUnknownComponent, got %v", err)
	}
}

func cellDescriptor() map[string]any {
	return map[string]any{"row": 3, "column": "amount"}
}

package vtree

import (
	"reflect"
	"testing"

	"github.com/arbor-dev/arbor/pkg/platform"
)

func TestOfAndCollect(t *testing.T) {
	items := []Item{ElementItem("div"), TextItem("x"), ExitItem(), ExitItem()}
	got := Collect(Of(items...))
	if !reflect.DeepEqual(got, items) {
		t.Errorf("Collect(Of(items)) = %v, want %v", got, items)
	}
}

func TestEmptyStream(t *testing.T) {
	if got := Collect(Empty()); got != nil {
		t.Errorf("Collect(Empty()) = %v, want nil", got)
	}
}

func TestStreamIsRestartable(t *testing.T) {
	s := Of(ElementItem("p"), ExitItem())
	first := Collect(s)
	second := Collect(s)
	if !reflect.DeepEqual(first, second) {
		t.Errorf("second replay = %v, want %v", second, first)
	}
}

func TestNodeStreamPreorder(t *testing.T) {
	n := &Node{
		Kind: NodeElement,
		Tag:  "div",
		Attrs: []Attr{
			{Name: "class", Value: "box"},
		},
		Events: []Binding{
			{Trigger: "click", Handler: Message("go")},
		},
		Children: []*Node{
			{Kind: NodeText, Text: "hi"},
			{Kind: NodeRaw, Text: "<hr>"},
		},
	}
	got := Collect(n.Stream())
	kinds := make([]ItemKind, len(got))
	for i, it := range got {
		kinds[i] = it.Kind
	}
	want := []ItemKind{
		ItemElement, ItemAttr, ItemEvent,
		ItemText, ItemExit,
		ItemRaw,
		ItemExit,
	}
	if !reflect.DeepEqual(kinds, want) {
		t.Errorf("kinds = %v, want %v", kinds, want)
	}
}

func TestNodeStreamSkipsNilChildren(t *testing.T) {
	n := &Node{
		Kind: NodeElement,
		Tag:  "div",
		Children: []*Node{
			nil,
			{Kind: NodeText, Text: "a"},
			nil,
		},
	}
	got := Collect(n.Stream())
	if len(got) != 4 { // div, text, exit, exit
		t.Fatalf("items = %d, want 4: %v", len(got), got)
	}
}

func TestFragmentStream(t *testing.T) {
	s := FragmentStream(
		&Node{Kind: NodeElement, Tag: "header"},
		&Node{Kind: NodeElement, Tag: "main"},
	)
	got := Collect(s)
	if len(got) != 4 {
		t.Fatalf("items = %d, want 4: %v", len(got), got)
	}
	if got[0].Name != "header" || got[2].Name != "main" {
		t.Errorf("roots = %q, %q; want header, main", got[0].Name, got[2].Name)
	}
}

func TestComponentNodeStream(t *testing.T) {
	n := &Node{Kind: NodeComponent, Comp: testComponent("widget")}
	got := Collect(n.Stream())
	if len(got) != 2 || got[0].Kind != ItemComponent || got[1].Kind != ItemExit {
		t.Fatalf("items = %v, want component + exit", got)
	}
	if got[0].Comp.Key != "widget" {
		t.Errorf("Key = %q, want widget", got[0].Comp.Key)
	}
}

func TestHandlerEqual(t *testing.T) {
	if !Message("a").Equal(Message("a")) {
		t.Error("equal fixed messages compare unequal")
	}
	if Message("a").Equal(Message("b")) {
		t.Error("different fixed messages compare equal")
	}
	conv := Conversion("t", func(platform.Event) (any, bool) { return nil, false })
	if conv.Equal(Message("a")) {
		t.Error("conversion compares equal to fixed message")
	}
	type withFields struct{ N int }
	if !Message(withFields{1}).Equal(Message(withFields{1})) {
		t.Error("deep-equal messages compare unequal")
	}
}

func TestStorageSlotBounds(t *testing.T) {
	st := NewStorage()
	if st.Len() != 0 {
		t.Errorf("Len() = %d, want 0", st.Len())
	}
	if _, ok := st.Slot(0); ok {
		t.Error("Slot(0) on empty storage reported ok")
	}
	if _, ok := st.Slot(-1); ok {
		t.Error("Slot(-1) reported ok")
	}
}

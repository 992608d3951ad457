package ui

import (
	"testing"

	"github.com/arbor-dev/arbor/pkg/platform"
	"github.com/arbor-dev/arbor/pkg/vtree"
)

func TestElComposesArguments(t *testing.T) {
	n := El("div",
		Class("a", "b"),
		ID("main"),
		OnClick("go"),
		Span("inner"),
		[]*vtree.Node{Text("x"), nil, Text("y")},
		"shorthand",
		nil,
	)

	if n.Tag != "div" {
		t.Errorf("Tag = %q, want div", n.Tag)
	}
	if len(n.Attrs) != 2 {
		t.Fatalf("Attrs = %d, want 2", len(n.Attrs))
	}
	if n.Attrs[0].Value != "a b" {
		t.Errorf("class = %q, want %q", n.Attrs[0].Value, "a b")
	}
	if len(n.Events) != 1 || n.Events[0].Trigger != "click" {
		t.Fatalf("Events = %v, want one click binding", n.Events)
	}
	if len(n.Children) != 4 {
		t.Fatalf("Children = %d, want 4", len(n.Children))
	}
	if n.Children[3].Kind != vtree.NodeText || n.Children[3].Text != "shorthand" {
		t.Errorf("string shorthand child = %+v", n.Children[3])
	}
}

func TestElPanicsOnUnsupportedArgument(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Fatal("expected panic")
		}
	}()
	El("div", 42)
}

func TestIf(t *testing.T) {
	if If(false, Div()) != nil {
		t.Error("If(false) != nil")
	}
	if If(true, Div()) == nil {
		t.Error("If(true) == nil")
	}
}

func TestMapSkipsNil(t *testing.T) {
	got := Map([]int{1, 2, 3}, func(v, i int) *vtree.Node {
		if v == 2 {
			return nil
		}
		return Li(Textf("%d:%d", i, v))
	})
	if len(got) != 2 {
		t.Fatalf("Map produced %d nodes, want 2", len(got))
	}
	if got[1].Children[0].Text != "2:3" {
		t.Errorf("second node text = %q, want 2:3", got[1].Children[0].Text)
	}
}

func TestBuiltTreeStreams(t *testing.T) {
	n := Div(Class("card"),
		H1("Title"),
		P(Text("body")),
		Raw("<hr>"),
	)
	items := vtree.Collect(n.Stream())
	kinds := []vtree.ItemKind{}
	for _, it := range items {
		kinds = append(kinds, it.Kind)
	}
	want := []vtree.ItemKind{
		vtree.ItemElement, vtree.ItemAttr,
		vtree.ItemElement, vtree.ItemText, vtree.ItemExit, vtree.ItemExit,
		vtree.ItemElement, vtree.ItemText, vtree.ItemExit, vtree.ItemExit,
		vtree.ItemRaw,
		vtree.ItemExit,
	}
	if len(kinds) != len(want) {
		t.Fatalf("kinds = %v, want %v", kinds, want)
	}
	for i := range want {
		if kinds[i] != want[i] {
			t.Fatalf("kinds = %v, want %v", kinds, want)
		}
	}
}

func TestBooleanAttrs(t *testing.T) {
	if got := Checked(true).Value; got != "true" {
		t.Errorf("Checked(true) = %q, want true", got)
	}
	if got := Disabled(false).Value; got != "false" {
		t.Errorf("Disabled(false) = %q, want false", got)
	}
	if got := DataAttr("row", "7"); got.Name != "data-row" || got.Value != "7" {
		t.Errorf("DataAttr = %+v", got)
	}
}

func TestOnInputConversion(t *testing.T) {
	b := OnInput("draft", func(value string) any {
		return "got:" + value
	})
	if b.Trigger != "input" {
		t.Errorf("Trigger = %q, want input", b.Trigger)
	}
	msg, ok := fireHandler(b.Handler, platform.Event{Value: "abc"})
	if !ok || msg != "got:abc" {
		t.Errorf("conversion = %v, %v; want got:abc, true", msg, ok)
	}
}

func TestOnCheckConversion(t *testing.T) {
	b := OnCheck("toggle", func(checked bool) any {
		return checked
	})
	msg, ok := fireHandler(b.Handler, platform.Event{Checked: true})
	if !ok || msg != true {
		t.Errorf("conversion = %v, %v; want true, true", msg, ok)
	}
}

func TestOnKeyCanDecline(t *testing.T) {
	b := OnKey("enter", func(key string) (any, bool) {
		if key == "Enter" {
			return "submit", true
		}
		return nil, false
	})
	if _, ok := fireHandler(b.Handler, platform.Event{Key: "a"}); ok {
		t.Error("non-Enter key not declined")
	}
	if msg, ok := fireHandler(b.Handler, platform.Event{Key: "Enter"}); !ok || msg != "submit" {
		t.Errorf("Enter = %v, %v; want submit, true", msg, ok)
	}
}

// fireHandler resolves a handler the way the patch interpreter would.
func fireHandler(h vtree.Handler, e platform.Event) (any, bool) {
	if h.Fn != nil {
		return h.Fn(e)
	}
	return h.Msg, true
}

package vtree

import (
	"testing"

	"github.com/arbor-dev/arbor/pkg/memdom"
	"github.com/arbor-dev/arbor/pkg/platform"
)

func TestApplyBuildsTree(t *testing.T) {
	next := Of(
		ElementItem("div"),
		AttrItem("class", "box"),
		TextItem("hello"),
		ExitItem(),
		ElementItem("span"),
		TextItem("world"),
		ExitItem(),
		ExitItem(),
		ExitItem(),
	)
	doc := memdom.New()
	st := mount(t, doc, next)

	want := `<div class="box">hello<span>world</span></div>`
	if got := doc.DumpRoot(); got != want {
		t.Errorf("DumpRoot() = %s, want %s", got, want)
	}
	// div, text, span, text
	if st.Len() != 4 {
		t.Errorf("storage Len() = %d, want 4", st.Len())
	}
}

func TestApplyNoopLeavesJournalUntouched(t *testing.T) {
	tree := Of(ElementItem("div"), TextItem("x"), ExitItem(), ExitItem())
	doc := memdom.New()
	st := mount(t, doc, tree)
	doc.ResetJournal()

	patches := Diff(tree, tree, st)
	if !patches.IsNoop() {
		t.Fatalf("self diff not a noop: %v", ops(patches))
	}
	st2, err := Apply(doc, memdom.NewScheduler(), doc.Root(), patches, func(any) {})
	if err != nil {
		t.Fatalf("Apply: %v", err)
	}
	if len(doc.Journal()) != 0 {
		t.Errorf("journal = %v, want empty", doc.Journal())
	}
	if st2.Len() != st.Len() {
		t.Errorf("relocated ledger Len() = %d, want %d", st2.Len(), st.Len())
	}
}

func TestApplyUpdateCycle(t *testing.T) {
	old := Of(ElementItem("p"), TextItem("before"), ExitItem(), ExitItem())
	next := Of(ElementItem("p"), TextItem("after"), ExitItem(), ExitItem())
	doc := memdom.New()
	st := mount(t, doc, old)

	patches := Diff(old, next, st)
	if _, err := Apply(doc, memdom.NewScheduler(), doc.Root(), patches, func(any) {}); err != nil {
		t.Fatalf("Apply: %v", err)
	}
	if got, want := doc.DumpRoot(), "<p>after</p>"; got != want {
		t.Errorf("DumpRoot() = %s, want %s", got, want)
	}
}

func TestApplyMidListReplaceKeepsSiblingOrder(t *testing.T) {
	old := Of(
		ElementItem("div"),
		ElementItem("b"), TextItem("x"), ExitItem(), ExitItem(),
		ElementItem("span"), TextItem("y"), ExitItem(), ExitItem(),
		ExitItem(),
	)
	next := Of(
		ElementItem("div"),
		ElementItem("i"), TextItem("x"), ExitItem(), ExitItem(),
		ElementItem("span"), TextItem("y"), ExitItem(), ExitItem(),
		ExitItem(),
	)
	doc := memdom.New()
	st := mount(t, doc, old)

	patches := Diff(old, next, st)
	if _, err := Apply(doc, memdom.NewScheduler(), doc.Root(), patches, func(any) {}); err != nil {
		t.Fatalf("Apply: %v", err)
	}
	if got, want := doc.DumpRoot(), `<div><i>x</i><span>y</span></div>`; got != want {
		t.Errorf("DumpRoot() = %s, want %s", got, want)
	}
}

func TestApplyRelocatesRetainedTailAfterCreate(t *testing.T) {
	old := Of(
		ElementItem("div"),
		ElementItem("p"), TextItem("a"), ExitItem(), ExitItem(),
		ElementItem("p"), TextItem("b"), ExitItem(), ExitItem(),
		TextItem("mid"), ExitItem(),
		ElementItem("p"), TextItem("c"), ExitItem(), ExitItem(),
		ExitItem(),
	)
	next := Of(
		ElementItem("div"),
		ElementItem("p"), TextItem("a"), ExitItem(), ExitItem(),
		ElementItem("q"), TextItem("b"), ExitItem(), ExitItem(),
		TextItem("mid"), ExitItem(),
		ElementItem("p"), TextItem("c"), ExitItem(), ExitItem(),
		ExitItem(),
	)
	doc := memdom.New()
	st := mount(t, doc, old)

	patches := Diff(old, next, st)
	if _, err := Apply(doc, memdom.NewScheduler(), doc.Root(), patches, func(any) {}); err != nil {
		t.Fatalf("Apply: %v", err)
	}
	if got, want := doc.DumpRoot(), `<div><p>a</p><q>b</q>mid<p>c</p></div>`; got != want {
		t.Errorf("DumpRoot() = %s, want %s", got, want)
	}
}

type anchoredMounted struct {
	node platform.Node
}

func (m *anchoredMounted) Dispatch(any)           {}
func (m *anchoredMounted) Detach()                {}
func (m *anchoredMounted) Nodes() []platform.Node { return []platform.Node{m.node} }

func anchoredComponent(key, tag string) ComponentSpec {
	return ComponentSpec{
		Key: key,
		Mount: func(h Host) (Mounted, error) {
			n, err := h.Doc.CreateElement(tag)
			if err != nil {
				return nil, err
			}
			if err := h.Doc.AppendChild(h.Parent, n); err != nil {
				return nil, err
			}
			return &anchoredMounted{node: n}, nil
		},
	}
}

func TestApplyRetainedComponentRelocatesItsNodes(t *testing.T) {
	old := Of(
		ElementItem("div"),
		ElementItem("b"), ExitItem(),
		ComponentItem(anchoredComponent("widget", "aside")), ExitItem(),
		ExitItem(),
	)
	next := Of(
		ElementItem("div"),
		ElementItem("i"), ExitItem(),
		ComponentItem(anchoredComponent("widget", "aside")), ExitItem(),
		ExitItem(),
	)
	doc := memdom.New()
	st := mount(t, doc, old)

	patches := Diff(old, next, st)
	if _, err := Apply(doc, memdom.NewScheduler(), doc.Root(), patches, func(any) {}); err != nil {
		t.Fatalf("Apply: %v", err)
	}
	if got, want := doc.DumpRoot(), `<div><i></i><aside></aside></div>`; got != want {
		t.Errorf("DumpRoot() = %s, want %s", got, want)
	}
}

func TestApplyListenerDispatchesMessage(t *testing.T) {
	tree := Of(
		ElementItem("button"),
		EventItem("click", Message("pressed")),
		ExitItem(),
	)
	doc := memdom.New()
	var got []any
	patches := Diff(Empty(), tree, NewStorage())
	_, err := Apply(doc, memdom.NewScheduler(), doc.Root(), patches, func(msg any) {
		got = append(got, msg)
	})
	if err != nil {
		t.Fatalf("Apply: %v", err)
	}

	button := doc.Root().Children()[0]
	doc.Fire(button, platform.Event{Trigger: "click"})
	if len(got) != 1 || got[0] != "pressed" {
		t.Fatalf("dispatched = %v, want [pressed]", got)
	}
}

func TestApplyConversionCanDecline(t *testing.T) {
	tree := Of(
		ElementItem("input"),
		EventItem("keydown", Conversion("enter-only", func(e platform.Event) (any, bool) {
			if e.Key == "Enter" {
				return "submit", true
			}
			return nil, false
		})),
		ExitItem(),
	)
	doc := memdom.New()
	var got []any
	patches := Diff(Empty(), tree, NewStorage())
	if _, err := Apply(doc, memdom.NewScheduler(), doc.Root(), patches, func(msg any) {
		got = append(got, msg)
	}); err != nil {
		t.Fatalf("Apply: %v", err)
	}

	input := doc.Root().Children()[0]
	doc.Fire(input, platform.Event{Trigger: "keydown", Key: "a"})
	if len(got) != 0 {
		t.Fatalf("declined event dispatched %v", got)
	}
	doc.Fire(input, platform.Event{Trigger: "keydown", Key: "Enter"})
	if len(got) != 1 || got[0] != "submit" {
		t.Fatalf("dispatched = %v, want [submit]", got)
	}
}

func TestApplyRemovedListenerStopsFiring(t *testing.T) {
	old := Of(ElementItem("button"), EventItem("click", Message("a")), ExitItem())
	next := Of(ElementItem("button"), ExitItem())
	doc := memdom.New()
	st := mount(t, doc, old)

	patches := Diff(old, next, st)
	var got []any
	if _, err := Apply(doc, memdom.NewScheduler(), doc.Root(), patches, func(msg any) {
		got = append(got, msg)
	}); err != nil {
		t.Fatalf("Apply: %v", err)
	}

	button := doc.Root().Children()[0]
	doc.Fire(button, platform.Event{Trigger: "click"})
	if len(got) != 0 {
		t.Fatalf("removed listener dispatched %v", got)
	}
}

type recordingMounted struct {
	detached *bool
}

func (m recordingMounted) Dispatch(any)           {}
func (m recordingMounted) Detach()                { *m.detached = true }
func (m recordingMounted) Nodes() []platform.Node { return nil }

func TestApplyComponentLifecycle(t *testing.T) {
	var mounts int
	var detached bool
	spec := func(key string) ComponentSpec {
		return ComponentSpec{
			Key: key,
			Mount: func(h Host) (Mounted, error) {
				if h.Parent == nil || h.Doc == nil {
					t.Error("mount host missing document or parent")
				}
				mounts++
				return recordingMounted{detached: &detached}, nil
			},
		}
	}

	old := Of(ElementItem("div"), ComponentItem(spec("a")), ExitItem(), ExitItem())
	doc := memdom.New()
	st := mount(t, doc, old)
	if mounts != 1 {
		t.Fatalf("mounts = %d, want 1", mounts)
	}

	next := Of(ElementItem("div"), ComponentItem(spec("b")), ExitItem(), ExitItem())
	patches := Diff(old, next, st)
	if _, err := Apply(doc, memdom.NewScheduler(), doc.Root(), patches, func(any) {}); err != nil {
		t.Fatalf("Apply: %v", err)
	}
	if mounts != 2 {
		t.Errorf("mounts = %d, want 2", mounts)
	}
	if !detached {
		t.Error("old component was not detached")
	}
}

func TestApplyCreateErrorAborts(t *testing.T) {
	// Empty tags are invalid at the platform layer.
	tree := Of(ElementItem(""), ExitItem())
	doc := memdom.New()
	patches := Diff(Empty(), tree, NewStorage())
	if _, err := Apply(doc, memdom.NewScheduler(), doc.Root(), patches, func(any) {}); err == nil {
		t.Fatal("Apply succeeded with an invalid create")
	}
}

func TestApplyPanicsOnPopPastRoot(t *testing.T) {
	doc := memdom.New()
	mustPanic(t, func() {
		Apply(doc, memdom.NewScheduler(), doc.Root(), Patches{{Op: OpPop}}, func(any) {})
	})
}

func TestApplyPanicsOnUnclosedScope(t *testing.T) {
	doc := memdom.New()
	mustPanic(t, func() {
		Apply(doc, memdom.NewScheduler(), doc.Root(),
			Patches{{Op: OpCreateElement, Name: "div"}}, func(any) {})
	})
}

func TestApplyPanicsOnAttrInTextScope(t *testing.T) {
	doc := memdom.New()
	mustPanic(t, func() {
		Apply(doc, memdom.NewScheduler(), doc.Root(), Patches{
			{Op: OpCreateText, Value: "x"},
			{Op: OpSetAttr, Name: "id", Value: "a"},
		}, func(any) {})
	})
}

package vtree

import (
	"fmt"
	"testing"

	"github.com/arbor-dev/arbor/pkg/memdom"
)

// benchList builds a list tree of n rows, with the row at changed (if
// any) carrying different text.
func benchList(n, changed int) Stream {
	rows := make([]*Node, n)
	for i := range rows {
		text := fmt.Sprintf("row %d", i)
		if i == changed {
			text = "changed row"
		}
		rows[i] = &Node{
			Kind:  NodeElement,
			Tag:   "li",
			Attrs: []Attr{{Name: "class", Value: "row"}},
			Children: []*Node{
				{Kind: NodeText, Text: text},
			},
		}
	}
	root := &Node{Kind: NodeElement, Tag: "ul", Children: rows}
	return root.Stream()
}

func benchMount(b *testing.B, s Stream) (*memdom.Doc, *Storage) {
	b.Helper()
	doc := memdom.New()
	patches := Diff(Empty(), s, NewStorage())
	st, err := Apply(doc, memdom.NewScheduler(), doc.Root(), patches, func(any) {})
	if err != nil {
		b.Fatal(err)
	}
	return doc, st
}

func BenchmarkDiff(b *testing.B) {
	for _, n := range []int{10, 100, 1000} {
		b.Run(fmt.Sprintf("noop %d rows", n), func(b *testing.B) {
			tree := benchList(n, -1)
			doc, st := benchMount(b, tree)
			sched := memdom.NewScheduler()
			b.ResetTimer()
			for i := 0; i < b.N; i++ {
				patches := Diff(tree, tree, st)
				var err error
				st, err = Apply(doc, sched, doc.Root(), patches, func(any) {})
				if err != nil {
					b.Fatal(err)
				}
			}
		})

		b.Run(fmt.Sprintf("one change %d rows", n), func(b *testing.B) {
			before := benchList(n, -1)
			after := benchList(n, n/2)
			doc, st := benchMount(b, before)
			sched := memdom.NewScheduler()
			b.ResetTimer()
			for i := 0; i < b.N; i++ {
				old, next := before, after
				if i%2 == 1 {
					old, next = after, before
				}
				patches := Diff(old, next, st)
				var err error
				st, err = Apply(doc, sched, doc.Root(), patches, func(any) {})
				if err != nil {
					b.Fatal(err)
				}
			}
		})
	}
}

func BenchmarkStreamCollect(b *testing.B) {
	tree := benchList(100, -1)
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		_ = Collect(tree)
	}
}

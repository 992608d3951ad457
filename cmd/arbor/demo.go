package main

import (
	"github.com/arbor-dev/arbor/pkg/app"
	"github.com/arbor-dev/arbor/pkg/ui"
	"github.com/arbor-dev/arbor/pkg/vtree"
)

// demo is a small todo list with an embedded click counter, enough to
// exercise text edits, list reordering, attribute toggles, and nested
// component lifecycle.

type demoMsg interface{ demoMsg() }

type msgDraft struct{ text string }
type msgAdd struct{}
type msgToggle struct{ index int }
type msgClear struct{}
type msgCounted struct{ total int }

func (msgDraft) demoMsg()   {}
func (msgAdd) demoMsg()     {}
func (msgToggle) demoMsg()  {}
func (msgClear) demoMsg()   {}
func (msgCounted) demoMsg() {}

type todo struct {
	text string
	done bool
}

type demo struct {
	draft  string
	todos  []todo
	clicks int
}

func newDemo() *demo {
	return &demo{
		todos: []todo{{text: "try the counter"}, {text: "add a todo"}},
	}
}

func (d *demo) Update(msg any) app.Effects {
	switch m := msg.(type) {
	case msgDraft:
		d.draft = m.text
	case msgAdd:
		if d.draft != "" {
			d.todos = append(d.todos, todo{text: d.draft})
			d.draft = ""
		}
	case msgToggle:
		if m.index >= 0 && m.index < len(d.todos) {
			d.todos[m.index].done = !d.todos[m.index].done
		}
	case msgClear:
		kept := d.todos[:0]
		for _, t := range d.todos {
			if !t.done {
				kept = append(kept, t)
			}
		}
		d.todos = kept
	case msgCounted:
		d.clicks = m.total
	}
	return app.None()
}

func (d *demo) Render() vtree.Stream {
	items := ui.Map(d.todos, func(t todo, i int) *vtree.Node {
		style := ""
		if t.done {
			style = "text-decoration: line-through"
		}
		return ui.Li(
			ui.Style(style),
			ui.OnClick(msgToggle{index: i}),
			ui.Text(t.text),
		)
	})
	return ui.Div(ui.Class("demo"),
		ui.H1(ui.Text("arbor demo")),
		ui.P(ui.Textf("counter clicks seen by parent: %d", d.clicks)),
		ui.Component(app.Embed("counter", newCounter, func(msg any) (any, bool) {
			if m, ok := msg.(counterChanged); ok {
				return msgCounted{total: m.total}, true
			}
			return nil, false
		})),
		ui.Div(ui.Class("todo"),
			ui.Input(
				ui.Type("text"),
				ui.Placeholder("what needs doing?"),
				ui.Value(d.draft),
				ui.OnInput("draft", func(value string) any {
					return msgDraft{text: value}
				}),
			),
			ui.Button(ui.OnClick(msgAdd{}), ui.Text("add")),
			ui.Button(ui.OnClick(msgClear{}), ui.Text("clear done")),
			ui.Ul(items),
		),
	).Stream()
}

// counter is the embedded child program. It reports each new total to
// its parent through the emit callback.

type counterClick struct{}
type counterChanged struct{ total int }

type counter struct {
	total int
	emit  func(msg any)
}

func newCounter(emit func(msg any)) app.Program {
	return &counter{emit: emit}
}

func (c *counter) Update(msg any) app.Effects {
	if _, ok := msg.(counterClick); ok {
		c.total++
		total := c.total
		return app.Immediately(func(func(msg any)) {
			c.emit(counterChanged{total: total})
		})
	}
	return app.None()
}

func (c *counter) Render() vtree.Stream {
	return ui.Div(ui.Class("counter"),
		ui.Button(ui.OnClick(counterClick{}), ui.Textf("clicked %d times", c.total)),
	).Stream()
}
// Package ui provides variadic builders for tree descriptions:
//
//	ui.Div(ui.Class("card"),
//	    ui.H1(ui.Text("Title")),
//	    ui.Button(ui.OnClick(Increment{}), ui.Text("+")),
//	)
//
// Builders produce *vtree.Node values; call Stream (or
// vtree.FragmentStream) on the result from a Program's Render. Nil
// arguments and nil children are ignored, so conditional content needs
// no placeholders.
package ui

package ui

import (
	"strconv"
	"strings"

	"github.com/arbor-dev/arbor/pkg/vtree"
)

// Attr creates an arbitrary attribute.
func Attr(name, value string) vtree.Attr {
	return vtree.Attr{Name: name, Value: value}
}

// Class sets the class attribute; multiple values are joined with
// spaces.
func Class(names ...string) vtree.Attr {
	return Attr("class", strings.Join(names, " "))
}

// ID sets the id attribute.
func ID(id string) vtree.Attr { return Attr("id", id) }

// Style sets the style attribute.
func Style(css string) vtree.Attr { return Attr("style", css) }

// Href sets the href attribute.
func Href(url string) vtree.Attr { return Attr("href", url) }

// Src sets the src attribute.
func Src(url string) vtree.Attr { return Attr("src", url) }

// Title sets the title attribute.
func Title(t string) vtree.Attr { return Attr("title", t) }

// Type sets the type attribute.
func Type(t string) vtree.Attr { return Attr("type", t) }

// Name sets the name attribute.
func Name(n string) vtree.Attr { return Attr("name", n) }

// Value sets the value attribute. It is in the default always-set
// group: the engine re-asserts it every cycle because user input
// mutates it out-of-band.
func Value(v string) vtree.Attr { return Attr("value", v) }

// Placeholder sets the placeholder attribute.
func Placeholder(p string) vtree.Attr { return Attr("placeholder", p) }

// Checked sets the checked flag; also re-asserted every cycle.
func Checked(on bool) vtree.Attr { return Attr("checked", strconv.FormatBool(on)) }

// Selected sets the selected flag; also re-asserted every cycle.
func Selected(on bool) vtree.Attr { return Attr("selected", strconv.FormatBool(on)) }

// Disabled sets the disabled flag.
func Disabled(on bool) vtree.Attr { return Attr("disabled", strconv.FormatBool(on)) }

// For sets the for attribute of a label.
func For(id string) vtree.Attr { return Attr("for", id) }

// DataAttr sets a data-* attribute.
func DataAttr(suffix, value string) vtree.Attr { return Attr("data-"+suffix, value) }

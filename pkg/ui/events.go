package ui

import (
	"github.com/arbor-dev/arbor/pkg/platform"
	"github.com/arbor-dev/arbor/pkg/vtree"
)

// On binds a fixed message to an event trigger.
func On(trigger string, msg any) vtree.Binding {
	return vtree.Binding{Trigger: trigger, Handler: vtree.Message(msg)}
}

// OnEvent binds a conversion function to an event trigger. The tag
// identifies the conversion across renders; two bindings with the same
// trigger and tag retain the existing subscription. Returning
// ok == false ignores the event.
func OnEvent(trigger, tag string, fn func(platform.Event) (any, bool)) vtree.Binding {
	return vtree.Binding{Trigger: trigger, Handler: vtree.Conversion(tag, fn)}
}

// OnClick dispatches msg on click.
func OnClick(msg any) vtree.Binding { return On("click", msg) }

// OnDblClick dispatches msg on double-click.
func OnDblClick(msg any) vtree.Binding { return On("dblclick", msg) }

// OnSubmit dispatches msg on form submit.
func OnSubmit(msg any) vtree.Binding { return On("submit", msg) }

// OnFocus dispatches msg on focus.
func OnFocus(msg any) vtree.Binding { return On("focus", msg) }

// OnBlur dispatches msg on blur.
func OnBlur(msg any) vtree.Binding { return On("blur", msg) }

// OnMouseEnter dispatches msg on mouseenter.
func OnMouseEnter(msg any) vtree.Binding { return On("mouseenter", msg) }

// OnMouseLeave dispatches msg on mouseleave.
func OnMouseLeave(msg any) vtree.Binding { return On("mouseleave", msg) }

// OnInput converts each input event's current value into a message.
// The tag identifies the conversion across renders.
func OnInput(tag string, fn func(value string) any) vtree.Binding {
	return OnEvent("input", tag, func(e platform.Event) (any, bool) {
		return fn(e.Value), true
	})
}

// OnChange converts each committed value into a message.
func OnChange(tag string, fn func(value string) any) vtree.Binding {
	return OnEvent("change", tag, func(e platform.Event) (any, bool) {
		return fn(e.Value), true
	})
}

// OnCheck converts each change of a checkbox into a message.
func OnCheck(tag string, fn func(checked bool) any) vtree.Binding {
	return OnEvent("change", tag, func(e platform.Event) (any, bool) {
		return fn(e.Checked), true
	})
}

// OnKey converts keydown events. fn returning ok == false ignores the
// key, which is the normal way to react to Enter only:
//
//	ui.OnKey("submit-on-enter", func(key string) (any, bool) {
//	    if key == "Enter" {
//	        return Submit{}, true
//	    }
//	    return nil, false
//	})
func OnKey(tag string, fn func(key string) (any, bool)) vtree.Binding {
	return OnEvent("keydown", tag, func(e platform.Event) (any, bool) {
		return fn(e.Key)
	})
}

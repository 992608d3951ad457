package app

import (
	"github.com/arbor-dev/arbor/pkg/platform"
	"github.com/arbor-dev/arbor/pkg/vtree"
)

// Embed wraps a child program into a nested-component spec. The child
// gets its own App, and with it its own isolated storage ledger and
// message namespace: the parent's diff/patch cycle never mutates the
// child's tree, it only holds the Mounted handle.
//
// construct builds the child's program; it receives emit, the only
// channel back to the parent. Messages passed to emit go through
// mapOut, and the translated message (if any) is dispatched to the
// parent. A nil mapOut discards everything emitted.
//
// key is the component's identity during diffing: as long as the key
// is unchanged at a structural position, the mounted child is retained
// untouched; a changed key detaches the old child and mounts a new
// one.
func Embed(key string, construct func(emit func(msg any)) Program, mapOut func(msg any) (any, bool)) vtree.ComponentSpec {
	return vtree.ComponentSpec{
		Key: key,
		Mount: func(h vtree.Host) (vtree.Mounted, error) {
			emit := func(msg any) {
				if mapOut == nil {
					return
				}
				if parentMsg, ok := mapOut(msg); ok {
					h.Dispatch(parentMsg)
				}
			}
			child, err := New(h.Doc, h.Sched, h.Parent, construct(emit), Config{})
			if err != nil {
				return nil, err
			}
			return &mountedApp{app: child}, nil
		},
	}
}

// mountedApp adapts an App to the vtree.Mounted capability surface.
type mountedApp struct {
	app *App
}

func (m *mountedApp) Dispatch(msg any) { m.app.Dispatch(msg) }

func (m *mountedApp) Detach() {
	if err := m.app.Detach(); err != nil {
		m.app.logger.Warn("nested component detach", "error", err)
	}
}

func (m *mountedApp) Nodes() []platform.Node { return m.app.Nodes() }

package app

import (
	"errors"
	"fmt"
	"log/slog"

	"github.com/arbor-dev/arbor/pkg/platform"
	"github.com/arbor-dev/arbor/pkg/vtree"
)

// ErrDetached is returned by Detach on an instance already torn down.
var ErrDetached = errors.New("app: instance detached")

// ErrPoisoned is returned when an instance aborted a patch cycle and
// can no longer guarantee its ledger matches the live tree.
var ErrPoisoned = errors.New("app: instance poisoned by failed patch cycle")

// state of an instance. Transitions: idle -> updating -> idle or
// renderScheduled -> (frame fires) -> idle; detached and poisoned are
// terminal.
type state uint8

const (
	stateIdle state = iota
	stateUpdating
	stateRenderScheduled
	stateDetached
	statePoisoned
)

// Config carries the optional knobs of an instance.
type Config struct {
	// Logger receives structured lifecycle and failure logs.
	// Defaults to slog.Default.
	Logger *slog.Logger

	// AlwaysSet overrides the attribute names re-asserted on every
	// diff even when unchanged. Nil keeps the vtree default
	// (value, checked, selected).
	AlwaysSet []string

	// Metrics, when non-nil, records cycle and patch counters.
	Metrics *Metrics
}

// App is one live application instance: the exclusive owner of its
// live tree, its storage ledger, and its pending message queue.
// All methods must be called from the single goroutine that drives
// the platform's event loop.
type App struct {
	doc    platform.Document
	sched  platform.Scheduler
	root   platform.Node
	prog   Program
	logger *slog.Logger
	opts   []vtree.DiffOption
	mx     *Metrics

	prev    vtree.Stream
	storage *vtree.Storage

	st          state
	queue       []any
	frame       platform.FrameToken
	pendingPost []Effect
}

// New attaches prog under root: the initial render is diffed against
// the empty stream and applied, producing the first ledger.
func New(doc platform.Document, sched platform.Scheduler, root platform.Node, prog Program, cfg Config) (*App, error) {
	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}
	var opts []vtree.DiffOption
	if cfg.AlwaysSet != nil {
		opts = append(opts, vtree.WithAlwaysSet(cfg.AlwaysSet...))
	}
	a := &App{
		doc:    doc,
		sched:  sched,
		root:   root,
		prog:   prog,
		logger: logger,
		opts:   opts,
		mx:     cfg.Metrics,
	}

	stream := prog.Render()
	patches := vtree.Diff(vtree.Empty(), stream, vtree.NewStorage(), a.opts...)
	storage, err := vtree.Apply(doc, sched, root, patches, a.Dispatch)
	if err != nil {
		return nil, fmt.Errorf("app: attach: %w", err)
	}
	a.prev = stream
	a.storage = storage
	a.logger.Debug("attached", "patches", len(patches), "handles", storage.Len())
	return a, nil
}

func (a *App) dead() bool {
	return a.st == stateDetached || a.st == statePoisoned
}

// Dispatch queues a message and, unless a dispatch is already in
// progress on this instance, drains the queue. Re-entrant calls (from
// inside an update, effect, or listener) return immediately; the
// in-progress call picks the message up. Dispatch may return before
// the message's render has happened: rendering waits for the next
// frame callback.
func (a *App) Dispatch(msg any) {
	if a.dead() {
		a.logger.Warn("dispatch on dead instance dropped", "state", a.st)
		return
	}
	a.queue = append(a.queue, msg)
	if a.st == stateUpdating {
		// Re-entrant dispatch: the in-progress drain picks it up.
		return
	}
	a.drain()
}

func (a *App) drain() {
	resume := a.st // idle or renderScheduled
	a.st = stateUpdating
	for len(a.queue) > 0 {
		msg := a.queue[0]
		a.queue = a.queue[1:]

		effs := a.prog.Update(msg)
		if a.mx != nil {
			a.mx.updates.Inc()
		}
		if resume != stateRenderScheduled {
			a.frame = a.sched.RequestFrame(a.renderFrame)
			resume = stateRenderScheduled
		}
		a.pendingPost = append(a.pendingPost, effs.PostRender...)

		for _, eff := range effs.Immediate {
			eff(a.Dispatch)
		}
		if a.dead() {
			a.queue = nil
			return
		}
	}
	a.st = resume
}

// renderFrame is the next-frame callback: render, diff, apply, then
// run the post-render effects accumulated since the frame was
// scheduled, in message order.
func (a *App) renderFrame() {
	if a.dead() {
		return
	}
	a.st = stateIdle
	a.frame = nil
	post := a.pendingPost
	a.pendingPost = nil

	stream := a.prog.Render()
	patches := vtree.Diff(a.prev, stream, a.storage, a.opts...)
	if a.mx != nil {
		a.mx.renders.Inc()
		a.mx.patches.Add(float64(len(patches)))
		if patches.IsNoop() {
			a.mx.noopRenders.Inc()
		}
	}

	storage, err := vtree.Apply(a.doc, a.sched, a.root, patches, a.Dispatch)
	if err != nil {
		a.poison(err)
		return
	}
	a.storage = storage
	a.prev = stream

	for _, eff := range post {
		eff(a.Dispatch)
	}
}

// poison marks the instance unusable after a failed patch cycle. The
// ledger and live tree may disagree, so continuing to the next queued
// message would silently corrupt the tree; everything pending is
// dropped loudly instead.
func (a *App) poison(err error) {
	a.logger.Error("patch cycle failed, poisoning instance",
		"error", err, "dropped_messages", len(a.queue))
	a.st = statePoisoned
	a.queue = nil
	a.pendingPost = nil
	if a.mx != nil {
		a.mx.failures.Inc()
	}
}

// Detach tears the instance down: any outstanding frame registration
// is cancelled, the current tree is diffed against the empty stream so
// every node, listener, and nested component it owns is destroyed, and
// further dispatches are ignored.
func (a *App) Detach() error {
	switch a.st {
	case stateDetached:
		return ErrDetached
	case statePoisoned:
		return ErrPoisoned
	}
	if a.frame != nil {
		a.sched.Cancel(a.frame)
		a.frame = nil
	}
	patches := vtree.Diff(a.prev, vtree.Empty(), a.storage, a.opts...)
	_, err := vtree.Apply(a.doc, a.sched, a.root, patches, a.Dispatch)
	a.st = stateDetached
	a.queue = nil
	a.pendingPost = nil
	a.prev = nil
	a.storage = nil
	if err != nil {
		return fmt.Errorf("app: detach: %w", err)
	}
	a.logger.Debug("detached")
	return nil
}

// Nodes returns the instance's top-level live nodes, in order.
func (a *App) Nodes() []platform.Node {
	if a.dead() {
		return nil
	}
	var nodes []platform.Node
	depth := 0
	pos := 0
	for _, it := range vtree.Collect(a.prev) {
		switch it.Kind {
		case vtree.ItemElement, vtree.ItemText:
			if depth == 0 {
				if h, ok := a.storage.Slot(pos); ok && h.Node != nil {
					nodes = append(nodes, h.Node)
				}
			}
			depth++
			pos++
		case vtree.ItemRaw:
			if depth == 0 {
				if h, ok := a.storage.Slot(pos); ok && h.Node != nil {
					nodes = append(nodes, h.Node)
				}
			}
			pos++
		case vtree.ItemComponent:
			if depth == 0 {
				if h, ok := a.storage.Slot(pos); ok && h.Comp != nil {
					nodes = append(nodes, h.Comp.Nodes()...)
				}
			}
			depth++
			pos++
		case vtree.ItemEvent:
			pos++
		case vtree.ItemExit:
			depth--
		}
	}
	return nodes
}

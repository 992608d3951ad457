package server

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/gorilla/websocket"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/arbor-dev/arbor/pkg/app"
	"github.com/arbor-dev/arbor/pkg/platform"
	"github.com/arbor-dev/arbor/pkg/protocol"
	"github.com/arbor-dev/arbor/pkg/replay"
)

// rootNodeID is the client-side mount point's node ID.
const rootNodeID = 0

// remoteNode is a platform.Node living in the client's tree, known
// server-side only by its ID.
type remoteNode struct {
	id       uint64
	element  bool
	tag      string // element tag, or "" for text/raw
	text     string // pending content until attached
	raw      bool
	attached bool
}

func (n *remoteNode) IsElement() bool { return n.element }

// remoteListener is a platform.ListenerToken for a client-side
// subscription.
type remoteListener struct {
	id      uint64
	trigger string
}

func (l *remoteListener) Trigger() string { return l.trigger }

// Session is one websocket connection hosting one application
// instance. It implements platform.Document and platform.Scheduler
// for that instance: document mutations buffer wire patches that are
// flushed once per loop turn, and frame registrations run after the
// turn's events are drained. Everything except the read pump runs on
// the session goroutine.
type Session struct {
	ID     string
	srv    *Server
	conn   *websocket.Conn
	logger *slog.Logger
	tracer trace.Tracer

	nextNode     uint64
	nextListener uint64
	sendSeq      uint64
	listeners    map[uint64]func(platform.Event)
	batch        []protocol.Patch
	frames       []*sessionFrame
	closed       bool

	events    chan *protocol.Event
	done      chan struct{}
	closeOnce sync.Once

	application *app.App
	recorder    *replay.Recorder
}

type sessionFrame struct {
	fn        func()
	cancelled bool
}

func newSession(srv *Server, conn *websocket.Conn) *Session {
	id := newSessionID()
	s := &Session{
		ID:        id,
		srv:       srv,
		conn:      conn,
		logger:    srv.logger.With("session_id", id),
		tracer:    otel.Tracer("arbor/server"),
		listeners: make(map[uint64]func(platform.Event)),
		events:    make(chan *protocol.Event, srv.cfg.MaxEventQueue),
		done:      make(chan struct{}),
	}
	if srv.cfg.Replay != nil {
		s.recorder = srv.cfg.Replay.Recorder(id)
	}
	return s
}

// Close terminates the session. Safe to call from any goroutine.
func (s *Session) Close() {
	s.closeOnce.Do(func() {
		close(s.done)
		s.conn.Close()
	})
}

// run is the session loop. It mounts the application, then serves
// events and pings until the connection drops.
func (s *Session) run() {
	defer func() {
		if s.application != nil {
			// The client is gone; detaching releases nested
			// components and listener state, and the patches it
			// produces are discarded below.
			s.closed = true
			if err := s.application.Detach(); err != nil {
				s.logger.Warn("detach on close", "error", err)
			}
		}
		s.Close()
		s.srv.dropSession(s)
		if s.srv.cfg.Replay != nil {
			s.srv.cfg.Replay.Archive(s.recorder)
		}
	}()

	root := &remoteNode{id: rootNodeID, element: true, tag: "root"}
	application, err := app.New(s, s, root, s.srv.newProgram(), app.Config{Logger: s.logger})
	if err != nil {
		s.logger.Error("mount failed", "error", err)
		return
	}
	s.application = application
	s.runFrames()
	if err := s.flush(); err != nil {
		s.logger.Error("initial flush failed", "error", err)
		return
	}

	go s.readLoop()

	ticker := time.NewTicker(s.srv.cfg.PingInterval)
	defer ticker.Stop()
	for {
		select {
		case <-s.done:
			return
		case ev := <-s.events:
			if err := s.turn(ev); err != nil {
				s.logger.Error("session turn failed", "error", err)
				return
			}
		case <-ticker.C:
			if err := s.write(protocol.Ping); err != nil {
				return
			}
		}
	}
}

// turn processes one batch of client events: every event already
// queued shares the frame callbacks and the flush that follow, so a
// burst of input produces a single render and a single patch frame.
func (s *Session) turn(first *protocol.Event) error {
	start := time.Now()
	s.handleEvent(first)
drain:
	for {
		select {
		case ev := <-s.events:
			s.handleEvent(ev)
		default:
			break drain
		}
	}
	s.runFrames()
	err := s.flush()
	s.srv.metrics.eventDuration.Observe(time.Since(start).Seconds())
	return err
}

func (s *Session) handleEvent(ev *protocol.Event) {
	s.srv.metrics.eventsTotal.Inc()
	_, span := s.tracer.Start(context.Background(), "arbor.event", trace.WithAttributes(
		attribute.String("session.id", s.ID),
		attribute.String("event.trigger", ev.Trigger),
		attribute.Int64("event.listener", int64(ev.Listener)),
	))
	defer span.End()

	fn, ok := s.listeners[ev.Listener]
	if !ok {
		// Normal after a re-render removed the listener while the
		// event was in flight.
		span.SetStatus(codes.Ok, "stale listener")
		s.logger.Debug("event for unknown listener", "listener", ev.Listener, "trigger", ev.Trigger)
		return
	}
	fn(platform.Event{
		Trigger: ev.Trigger,
		Value:   ev.Value,
		Checked: ev.Checked,
		Key:     ev.Key,
		X:       ev.X,
		Y:       ev.Y,
	})
}

// runFrames runs pending frame registrations until none remain. A
// callback may register a successor (post-render effects dispatching
// new messages); those run in the same turn rather than waiting for
// the next client event.
func (s *Session) runFrames() {
	for len(s.frames) > 0 {
		pending := s.frames
		s.frames = nil
		for _, f := range pending {
			if !f.cancelled {
				f.fn()
			}
		}
	}
}

// flush sends the buffered wire patches as one sequenced frame.
func (s *Session) flush() error {
	if len(s.batch) == 0 || s.closed {
		s.batch = nil
		return nil
	}
	s.sendSeq++
	frame := protocol.EncodePatches(&protocol.PatchesFrame{
		Seq:     s.sendSeq,
		Patches: s.batch,
	})
	s.batch = nil
	if err := s.write(frame); err != nil {
		return fmt.Errorf("flush seq %d: %w", s.sendSeq, err)
	}
	if s.recorder != nil {
		s.recorder.Append(frame)
	}
	s.srv.metrics.framesSent.Inc()
	s.srv.metrics.bytesSent.Add(float64(len(frame)))
	return nil
}

func (s *Session) write(msg []byte) error {
	s.conn.SetWriteDeadline(time.Now().Add(s.srv.cfg.WriteTimeout))
	return s.conn.WriteMessage(websocket.BinaryMessage, msg)
}

// readLoop is the read pump goroutine: it decodes client frames and
// queues events for the session loop.
func (s *Session) readLoop() {
	defer s.Close()
	for {
		s.conn.SetReadDeadline(time.Now().Add(s.srv.cfg.ReadTimeout))
		_, msg, err := s.conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err,
				websocket.CloseNormalClosure,
				websocket.CloseGoingAway,
				websocket.CloseAbnormalClosure) {
				s.logger.Error("read error", "error", err)
			}
			return
		}
		frame, err := protocol.DecodeFrame(msg)
		if err != nil {
			s.logger.Warn("bad frame", "error", err)
			continue
		}
		switch frame.Type {
		case protocol.FrameEvent:
			select {
			case s.events <- frame.Event:
			default:
				s.srv.metrics.eventsDropped.Inc()
				s.logger.Warn("event queue full, dropping", "trigger", frame.Event.Trigger)
			}
		case protocol.FramePong:
			// read deadline already reset
		default:
			s.logger.Warn("unexpected frame type", "type", frame.Type)
		}
	}
}

// --- platform.Document --------------------------------------------------

func (s *Session) takeNodeID() uint64 {
	s.nextNode++
	return s.nextNode
}

// CreateElement implements platform.Document. The wire create is
// deferred until AppendChild, which is when the client learns the
// parent.
func (s *Session) CreateElement(tag string) (platform.Node, error) {
	if tag == "" {
		return nil, errors.New("server: empty element tag")
	}
	return &remoteNode{id: s.takeNodeID(), element: true, tag: tag}, nil
}

// CreateText implements platform.Document.
func (s *Session) CreateText(content string) (platform.Node, error) {
	return &remoteNode{id: s.takeNodeID(), text: content}, nil
}

// CreateRaw implements platform.Document.
func (s *Session) CreateRaw(markup string) (platform.Node, error) {
	return &remoteNode{id: s.takeNodeID(), text: markup, raw: true}, nil
}

// AppendChild implements platform.Document. The first append emits the
// deferred create; appending an attached node emits a move, which the
// client performs as a DOM appendChild under the new parent.
func (s *Session) AppendChild(parent, child platform.Node) error {
	p, c := parent.(*remoteNode), child.(*remoteNode)
	if c.attached {
		s.batch = append(s.batch, protocol.Patch{
			Op: protocol.OpMove, Node: c.id, Ref: p.id,
		})
		return nil
	}
	c.attached = true
	switch {
	case c.element:
		s.batch = append(s.batch, protocol.Patch{
			Op: protocol.OpCreateElement, Node: c.id, Ref: p.id, Name: c.tag,
		})
	case c.raw:
		s.batch = append(s.batch, protocol.Patch{
			Op: protocol.OpCreateRaw, Node: c.id, Ref: p.id, Value: c.text,
		})
	default:
		s.batch = append(s.batch, protocol.Patch{
			Op: protocol.OpCreateText, Node: c.id, Ref: p.id, Value: c.text,
		})
	}
	return nil
}

// Detach implements platform.Document.
func (s *Session) Detach(node platform.Node) error {
	n := node.(*remoteNode)
	s.batch = append(s.batch, protocol.Patch{Op: protocol.OpRemove, Node: n.id})
	return nil
}

// SetText implements platform.Document.
func (s *Session) SetText(node platform.Node, content string) error {
	n := node.(*remoteNode)
	n.text = content
	s.batch = append(s.batch, protocol.Patch{Op: protocol.OpSetText, Node: n.id, Value: content})
	return nil
}

// SetAttr implements platform.Document.
func (s *Session) SetAttr(node platform.Node, name, value string) error {
	n := node.(*remoteNode)
	s.batch = append(s.batch, protocol.Patch{Op: protocol.OpSetAttr, Node: n.id, Name: name, Value: value})
	return nil
}

// RemoveAttr implements platform.Document.
func (s *Session) RemoveAttr(node platform.Node, name string) error {
	n := node.(*remoteNode)
	s.batch = append(s.batch, protocol.Patch{Op: protocol.OpRemoveAttr, Node: n.id, Name: name})
	return nil
}

// AddListener implements platform.Document.
func (s *Session) AddListener(node platform.Node, trigger string, fn func(platform.Event)) (platform.ListenerToken, error) {
	n := node.(*remoteNode)
	s.nextListener++
	lid := s.nextListener
	s.listeners[lid] = fn
	s.batch = append(s.batch, protocol.Patch{
		Op: protocol.OpListen, Node: n.id, Name: trigger, Ref: lid,
	})
	return &remoteListener{id: lid, trigger: trigger}, nil
}

// RemoveListener implements platform.Document.
func (s *Session) RemoveListener(tok platform.ListenerToken) error {
	l := tok.(*remoteListener)
	if _, ok := s.listeners[l.id]; !ok {
		return fmt.Errorf("server: listener %d already removed", l.id)
	}
	delete(s.listeners, l.id)
	s.batch = append(s.batch, protocol.Patch{Op: protocol.OpUnlisten, Ref: l.id})
	return nil
}

// --- platform.Scheduler -------------------------------------------------

// RequestFrame implements platform.Scheduler: the callback runs after
// the session loop finishes handling the current turn's events.
func (s *Session) RequestFrame(fn func()) platform.FrameToken {
	f := &sessionFrame{fn: fn}
	s.frames = append(s.frames, f)
	return f
}

// Cancel implements platform.Scheduler.
func (s *Session) Cancel(tok platform.FrameToken) {
	if f, ok := tok.(*sessionFrame); ok {
		f.cancelled = true
	}
}

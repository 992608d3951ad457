package memdom

import (
	"slices"

	"github.com/arbor-dev/arbor/pkg/platform"
)

// frameReg is one pending frame registration.
type frameReg struct {
	fn        func()
	cancelled bool
}

// Scheduler is a manually pumped platform.Scheduler: registrations
// accumulate until Flush runs them. Callbacks registered during a
// Flush run in the next Flush, matching how a real frame callback
// cannot re-enter the frame that scheduled it.
type Scheduler struct {
	pending []*frameReg
}

// NewScheduler creates an empty scheduler.
func NewScheduler() *Scheduler {
	return &Scheduler{}
}

// RequestFrame implements platform.Scheduler.
func (s *Scheduler) RequestFrame(fn func()) platform.FrameToken {
	reg := &frameReg{fn: fn}
	s.pending = append(s.pending, reg)
	return reg
}

// Cancel implements platform.Scheduler.
func (s *Scheduler) Cancel(tok platform.FrameToken) {
	if reg, ok := tok.(*frameReg); ok {
		reg.cancelled = true
	}
}

// Pending returns the number of live registrations.
func (s *Scheduler) Pending() int {
	n := 0
	for _, reg := range s.pending {
		if !reg.cancelled {
			n++
		}
	}
	return n
}

// Flush runs every registration made before this call, in order.
func (s *Scheduler) Flush() {
	batch := slices.Clone(s.pending)
	s.pending = s.pending[:0]
	for _, reg := range batch {
		if !reg.cancelled {
			reg.fn()
		}
	}
}

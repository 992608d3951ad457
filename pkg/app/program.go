package app

import "github.com/arbor-dev/arbor/pkg/vtree"

// Effect is a side effect emitted by an update. Effects receive the
// dispatch entry point of the instance that ran the update; anything
// they dispatch is queued through the normal pipeline.
type Effect func(dispatch func(msg any))

// Effects are the two effect lists an update returns. Immediate
// effects run synchronously right after the update that produced them,
// before the next queued message is processed. PostRender effects run
// after the next render has been applied; when several updates share
// one frame their post-render effects accumulate in message order.
type Effects struct {
	Immediate  []Effect
	PostRender []Effect
}

// None is the empty effect set.
func None() Effects { return Effects{} }

// Immediately wraps effects to run right after the update.
func Immediately(effs ...Effect) Effects {
	return Effects{Immediate: effs}
}

// AfterRender wraps effects to run once the next render is applied.
func AfterRender(effs ...Effect) Effects {
	return Effects{PostRender: effs}
}

// Program is the external model collaborator: a state machine whose
// Update must be pure except for the effects it returns, and whose
// Render must be deterministic for the current model state. Render
// must not retain references into previously returned streams, and
// Update must not reach into the live tree or its ledger.
type Program interface {
	Update(msg any) Effects
	Render() vtree.Stream
}

package fsm

import (
	"context"
	"errors"
	"sort"

	loopfsm "github.com/looplab/fsm"

	"github.com/neomorfeo/pango/internal/domain"
)

var _ domain.TransitionValidator = (*Validator)(nil)

// lifecycle is domain.Transitions in looplab/fsm form, with sources that share
// an event and destination folded into one EventDesc.
var lifecycle = describe(domain.Transitions)

func describe(transitions []domain.Transition) []loopfsm.EventDesc {
	type edge struct {
		event domain.Event
		dst   domain.Status
	}
	sources := make(map[edge][]string)
	var edges []edge

	for _, t := range transitions {
		e := edge{event: t.Event, dst: t.Dst}
		if _, seen := sources[e]; !seen {
			edges = append(edges, e)
		}
		sources[e] = append(sources[e], string(t.Src))
	}

	descs := make([]loopfsm.EventDesc, 0, len(edges))
	for _, e := range edges {
		descs = append(descs, loopfsm.EventDesc{
			Name: string(e.event),
			Src:  sources[e],
			Dst:  string(e.dst),
		})
	}
	return descs
}

// Validator checks listing status changes against the lifecycle.
// looplab/fsm machines hold their current state, so every call builds a fresh
// machine positioned at the listing's status.
type Validator struct{}

// New creates a new FSM-backed transition validator.
func New() *Validator {
	return &Validator{}
}

// Apply fires event from current and returns the resulting status, or a
// *domain.TransitionError when the lifecycle does not allow it.
func (v *Validator) Apply(ctx context.Context, current domain.Status, event domain.Event) (domain.Status, error) {
	machine := loopfsm.NewFSM(string(current), lifecycle, nil)

	err := machine.Event(ctx, string(event))
	if err == nil {
		return domain.Status(machine.Current()), nil
	}

	var invalid loopfsm.InvalidEventError
	var unknown loopfsm.UnknownEventError
	if errors.As(err, &invalid) || errors.As(err, &unknown) {
		return "", &domain.TransitionError{Event: event, Current: current}
	}
	return "", err
}

// Available lists the events that can fire from current, sorted by name.
// The "My Listings" screen uses it to decide which toggle to offer.
func (v *Validator) Available(current domain.Status) []domain.Event {
	machine := loopfsm.NewFSM(string(current), lifecycle, nil)

	names := machine.AvailableTransitions()
	sort.Strings(names)

	out := make([]domain.Event, 0, len(names))
	for _, n := range names {
		out = append(out, domain.Event(n))
	}
	return out
}

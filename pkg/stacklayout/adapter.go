// Package stacklayout is the concrete realization of package shuffle over
// stackslot's Stack/Slot representation. It owns the mutable current-layout
// sequence, answers the shuffle.Operations queries against current and
// target, forwards primitives to caller-supplied emit hooks, and runs the
// post-shuffle tail once the generic loop reports a compatible layout.
package stacklayout

import (
	"fmt"

	"github.com/stackmachine/stackshuffle/pkg/shuffle"
	"github.com/stackmachine/stackshuffle/pkg/stackslot"
)

// SwapFunc emits the machine's swap-with-depth instruction. depth is always
// in [1, sourceSize-1].
type SwapFunc func(depth int)

// PushOrDupFunc emits an instruction that places a value compatible with
// slot on top of the stack.
type PushOrDupFunc func(slot stackslot.Slot)

// PopFunc emits the drop-top instruction.
type PopFunc func()

// Adapter is the LayoutOperations adapter described by the shuffling
// specification: it owns current, reads target, and maintains a
// multiplicity table that is kept in lock-step with every mutation it
// performs, so no stale table is ever observed mid-call.
type Adapter struct {
	current *stackslot.Stack
	target  stackslot.Stack

	multiplicity map[stackslot.Slot]int

	swap      SwapFunc
	pushOrDup PushOrDupFunc
	pop       PopFunc
}

var _ shuffle.Operations = (*Adapter)(nil)

// NewAdapter builds an Adapter over current (mutated in place through the
// pointer) and target (read-only), computing the initial multiplicity
// table, and wires the three primitive emit hooks.
func NewAdapter(current *stackslot.Stack, target stackslot.Stack, swap SwapFunc, pushOrDup PushOrDupFunc, pop PopFunc) *Adapter {
	a := &Adapter{
		current:   current,
		target:    target,
		swap:      swap,
		pushOrDup: pushOrDup,
		pop:       pop,
	}
	a.recomputeMultiplicity()
	return a
}

// recomputeMultiplicity rebuilds the multiplicity table from the live
// current/target state. It is called once at construction and again after
// every primitive, which is functionally equivalent to the spec's "fresh
// adapter per step" (a fresh table is always read), without reallocating
// the adapter itself.
func (a *Adapter) recomputeMultiplicity() {
	cur := *a.current
	table := make(map[stackslot.Slot]int, len(cur)+len(a.target))

	for _, slot := range cur {
		table[slot]--
	}
	for t, slot := range a.target {
		if slot.IsJunk() && t < len(cur) {
			table[cur[t]]++
		} else {
			table[slot]++
		}
	}
	a.multiplicity = table
}

func (a *Adapter) SourceSize() int { return len(*a.current) }
func (a *Adapter) TargetSize() int { return len(a.target) }

func (a *Adapter) IsCompatible(s, t int) bool {
	cur := *a.current
	if s < 0 || s >= len(cur) || t < 0 || t >= len(a.target) {
		return false
	}
	if a.target[t].IsJunk() {
		return true
	}
	return cur[s].Equal(a.target[t])
}

func (a *Adapter) SourceIsSame(i, j int) bool {
	cur := *a.current
	return cur[i].Equal(cur[j])
}

func (a *Adapter) SourceMultiplicity(s int) int {
	cur := *a.current
	return a.multiplicity[cur[s]]
}

func (a *Adapter) TargetMultiplicity(t int) int {
	return a.multiplicity[a.target[t]]
}

func (a *Adapter) TargetIsArbitrary(t int) bool {
	return t >= 0 && t < len(a.target) && a.target[t].IsJunk()
}

func (a *Adapter) Swap(depth int) {
	a.swap(depth)
	cur := *a.current
	i := len(cur) - depth - 1
	top := len(cur) - 1
	cur[i], cur[top] = cur[top], cur[i]
	a.recomputeMultiplicity()
}

func (a *Adapter) Pop() {
	a.pop()
	cur := *a.current
	*a.current = cur[:len(cur)-1]
	a.recomputeMultiplicity()
}

func (a *Adapter) PushOrDupTarget(t int) {
	slot := a.target[t]
	a.pushOrDup(slot)
	*a.current = append(*a.current, slot)
	a.recomputeMultiplicity()
}

// CreateStackLayout morphs current into a layout compatible with target by
// running the generic shuffling loop and then the post-shuffle tail. current
// is mutated in place; target is read-only. swap, pushOrDup, and pop are
// invoked synchronously for every emitted primitive, in order.
//
// The only failures are ShuffleNonTermination and ShuffleInvariantViolation
// from package shuffle, both programmer errors: a well-formed current and
// target never trigger them.
func CreateStackLayout(current *stackslot.Stack, target stackslot.Stack, swap SwapFunc, pushOrDup PushOrDupFunc, pop PopFunc) error {
	adapter := NewAdapter(current, target, swap, pushOrDup, pop)
	if err := shuffle.Shuffle(adapter); err != nil {
		return err
	}
	return Tail(current, target, pushOrDup)
}

// Tail implements the post-shuffle tail: grow current with any remaining
// target suffix, then normalize free junk positions. It is exported
// separately from CreateStackLayout so that embedders driving the Shuffler
// themselves (for example to wrap the Operations in package trace) can run
// the same tail logic afterward.
func Tail(current *stackslot.Stack, target stackslot.Stack, pushOrDup PushOrDupFunc) error {
	for len(*current) < len(target) {
		slot := target[len(*current)]
		pushOrDup(slot)
		*current = append(*current, slot)
	}
	if len(*current) != len(target) {
		return &shuffle.ShuffleInvariantViolation{
			Reason: fmt.Sprintf("post-shuffle tail left current length %d, want %d", len(*current), len(target)),
		}
	}

	cur := *current
	for i, slot := range target {
		switch {
		case slot.IsJunk():
			cur[i] = stackslot.NewJunk()
		case !cur[i].Equal(slot):
			return &shuffle.ShuffleInvariantViolation{
				Reason: fmt.Sprintf("position %d is %v after shuffle, want %v", i, cur[i], slot),
			}
		}
	}
	return nil
}

package emit

import (
	"fmt"

	"github.com/stackmachine/stackshuffle/pkg/stackslot"
)

// MachineProfile describes the addressing limits of a concrete target
// stack machine.
type MachineProfile struct {
	// MaxSwapDepth is the deepest swap the machine's instruction encoding
	// can address (e.g. 255 for an 8-bit depth operand).
	MaxSwapDepth int
	// MaxStackDepth is the bound callers use to pre-validate layouts
	// before invoking the transformer; the emitter does not itself
	// enforce it, per the transformer's Non-goals.
	MaxStackDepth int
}

// DefaultProfile is a representative 8-bit-depth stack machine profile.
var DefaultProfile = MachineProfile{MaxSwapDepth: 255, MaxStackDepth: 1024}

// ErrSwapUnreachable is raised by Emitter.Swap when a requested depth
// exceeds the machine profile's MaxSwapDepth. It is a domain-stack error,
// distinct from shuffle.ShuffleNonTermination and
// shuffle.ShuffleInvariantViolation: it reflects a target-machine
// limitation, not a bug in the shuffling algorithm.
type ErrSwapUnreachable struct {
	Depth int
	Max   int
}

func (e *ErrSwapUnreachable) Error() string {
	return fmt.Sprintf("emit: swap depth %d exceeds machine maximum %d", e.Depth, e.Max)
}

// Emitter is the concrete swap/pop/pushOrDup hook triple for a
// MachineProfile. It records every primitive as an Instruction and keeps a
// shadow copy of current purely to decide, for each pushOrDup call, whether
// an identical slot already exists on the stack and can be duplicated
// instead of re-materialized. The shadow copy is never consulted by the
// shuffler itself; it exists only to make the emitted instruction stream
// cheaper.
//
// A swap that exceeds the machine profile's reach does not panic: it is
// recorded internally and surfaced through Err after the surrounding
// stacklayout.CreateStackLayout call returns, per the hook-failure
// contract (hooks are infallible to the transformer).
type Emitter struct {
	profile MachineProfile
	shadow  stackslot.Stack
	trace   []Instruction
	err     error
}

// NewEmitter builds an Emitter seeded with a copy of initial as its shadow
// stack (mirroring the real current layout the caller passes to
// stacklayout.CreateStackLayout).
func NewEmitter(initial stackslot.Stack, profile MachineProfile) *Emitter {
	return &Emitter{profile: profile, shadow: initial.Clone()}
}

// Swap implements stacklayout.SwapFunc.
func (e *Emitter) Swap(depth int) {
	if e.err != nil {
		return
	}
	if depth > e.profile.MaxSwapDepth {
		e.err = &ErrSwapUnreachable{Depth: depth, Max: e.profile.MaxSwapDepth}
		return
	}
	e.trace = append(e.trace, SwapInstr{Depth: depth})
	n := len(e.shadow)
	i := n - depth - 1
	e.shadow[i], e.shadow[n-1] = e.shadow[n-1], e.shadow[i]
}

// Pop implements stacklayout.PopFunc.
func (e *Emitter) Pop() {
	if e.err != nil {
		return
	}
	e.trace = append(e.trace, PopInstr{})
	e.shadow = e.shadow[:len(e.shadow)-1]
}

// PushOrDup implements stacklayout.PushOrDupFunc. It scans the shadow stack
// top-down for an existing slot identical to the requested one; if found,
// emits DupInstr, otherwise PushInstr.
func (e *Emitter) PushOrDup(slot stackslot.Slot) {
	if e.err != nil {
		return
	}
	for i := len(e.shadow) - 1; i >= 0; i-- {
		if e.shadow[i].Equal(slot) {
			depth := len(e.shadow) - 1 - i
			e.trace = append(e.trace, DupInstr{Slot: slot, FromDepth: depth})
			e.shadow = append(e.shadow, slot)
			return
		}
	}
	e.trace = append(e.trace, PushInstr{Slot: slot})
	e.shadow = append(e.shadow, slot)
}

// Trace returns the instructions emitted so far.
func (e *Emitter) Trace() []Instruction { return e.trace }

// Err returns the first ErrSwapUnreachable encountered, if any. Callers
// must check Err immediately after CreateStackLayout returns, before
// trusting Trace.
func (e *Emitter) Err() error { return e.err }

// Package emit is the domain-stack realization of the swap/pushOrDup/pop
// hooks for a concrete bounded-reach stack machine: it turns the three
// abstract primitives into a stream of Instruction values and enforces the
// machine's addressing limits while doing so.
package emit

import "github.com/stackmachine/stackshuffle/pkg/stackslot"

// Instruction is the interface for emitted stack-machine instructions.
type Instruction interface {
	implInstruction()
}

// SwapInstr swaps the top of the stack with the slot Depth positions below
// it.
type SwapInstr struct {
	Depth int
}

// PopInstr drops the top of the stack.
type PopInstr struct{}

// PushInstr materializes a fresh value of Slot on top of the stack, e.g. a
// literal push or a return-label push.
type PushInstr struct {
	Slot stackslot.Slot
}

// DupInstr duplicates the slot FromDepth positions below the top, placing
// the copy on top. Emitted instead of PushInstr whenever an identical slot
// already exists on the stack, since duplicating is cheaper than
// re-materializing.
type DupInstr struct {
	Slot      stackslot.Slot
	FromDepth int
}

func (SwapInstr) implInstruction() {}
func (PopInstr) implInstruction()  {}
func (PushInstr) implInstruction() {}
func (DupInstr) implInstruction()  {}

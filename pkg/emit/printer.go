package emit

import (
	"fmt"
	"io"
)

// Printer renders a trace of Instruction values as readable text, one
// instruction per line.
type Printer struct {
	w io.Writer
}

// NewPrinter builds a Printer writing to w.
func NewPrinter(w io.Writer) *Printer { return &Printer{w: w} }

// PrintTrace prints every instruction in trace, in order.
func (p *Printer) PrintTrace(trace []Instruction) {
	for _, inst := range trace {
		p.printInstruction(inst)
	}
}

func (p *Printer) printInstruction(inst Instruction) {
	switch i := inst.(type) {
	case SwapInstr:
		fmt.Fprintf(p.w, "\tswap\t%d\n", i.Depth)
	case PopInstr:
		fmt.Fprintf(p.w, "\tpop\n")
	case PushInstr:
		fmt.Fprintf(p.w, "\tpush\t%s\n", i.Slot)
	case DupInstr:
		fmt.Fprintf(p.w, "\tdup\t%s\t; from depth %d\n", i.Slot, i.FromDepth)
	default:
		fmt.Fprintf(p.w, "\t; unknown instruction %T\n", i)
	}
}

// Package stackslot defines the slot and layout representation shared by the
// stack-layout shuffler and its adapters.
//
// A StackSlot identifies what logically occupies one position of an operand
// stack belonging to a stack-machine code generator. Equality between slots
// is structural: the tag and payload must match, except that a Junk slot in
// a target layout is treated as a wildcard by the layout adapter (see
// package stacklayout), not by Slot.Equal itself.
package stackslot

import "fmt"

// Kind tags the variant of a StackSlot.
type Kind int

const (
	// ReturnLabel is the return address pushed for a specific pending call site.
	ReturnLabel Kind = iota
	// ReturnLabelAnon is an unspecific return-label placeholder.
	ReturnLabelAnon
	// Variable is the current value of a named variable.
	Variable
	// Literal is a constant.
	Literal
	// Temporary is the k-th return value of a pending call, not yet consumed.
	Temporary
	// Junk is a "don't care" placeholder.
	Junk
)

func (k Kind) String() string {
	switch k {
	case ReturnLabel:
		return "ReturnLabel"
	case ReturnLabelAnon:
		return "ReturnLabelAnon"
	case Variable:
		return "Variable"
	case Literal:
		return "Literal"
	case Temporary:
		return "Temporary"
	case Junk:
		return "Junk"
	default:
		return fmt.Sprintf("Kind(%d)", int(k))
	}
}

// Slot is a tagged value identifying what logically sits in one stack
// position. Only the fields relevant to Kind are meaningful; the rest are
// zero. Use the constructor functions below rather than building a Slot
// literal directly.
type Slot struct {
	Kind Kind

	// Call identifies the pending call site for ReturnLabel and Temporary.
	Call string
	// Variable holds the variable identifier for Variable.
	Variable string
	// Value holds the constant payload for Literal. It must be comparable.
	Value any
	// Index is the k-th return value for Temporary.
	Index int
}

// NewReturnLabel builds a ReturnLabel slot for the given pending call site.
func NewReturnLabel(call string) Slot { return Slot{Kind: ReturnLabel, Call: call} }

// NewReturnLabelAnon builds an unspecific return-label placeholder.
func NewReturnLabelAnon() Slot { return Slot{Kind: ReturnLabelAnon} }

// NewVariable builds a slot holding the current value of a named variable.
func NewVariable(id string) Slot { return Slot{Kind: Variable, Variable: id} }

// NewLiteral builds a slot holding a constant value.
func NewLiteral(value any) Slot { return Slot{Kind: Literal, Value: value} }

// NewTemporary builds a slot holding the index-th return value of call.
func NewTemporary(call string, index int) Slot {
	return Slot{Kind: Temporary, Call: call, Index: index}
}

// NewJunk builds a "don't care" placeholder slot.
func NewJunk() Slot { return Slot{Kind: Junk} }

// IsJunk reports whether s is the Junk placeholder.
func (s Slot) IsJunk() bool { return s.Kind == Junk }

// Equal reports whether s and other are structurally identical: same Kind
// and same payload. Junk equals only Junk under this relation; Junk's
// wildcard behavior as a target slot lives in package stacklayout, not here.
func (s Slot) Equal(other Slot) bool {
	if s.Kind != other.Kind {
		return false
	}
	switch s.Kind {
	case ReturnLabel:
		return s.Call == other.Call
	case ReturnLabelAnon, Junk:
		return true
	case Variable:
		return s.Variable == other.Variable
	case Literal:
		return s.Value == other.Value
	case Temporary:
		return s.Call == other.Call && s.Index == other.Index
	default:
		return false
	}
}

func (s Slot) String() string {
	switch s.Kind {
	case ReturnLabel:
		return fmt.Sprintf("ReturnLabel(%s)", s.Call)
	case ReturnLabelAnon:
		return "ReturnLabelAnon"
	case Variable:
		return fmt.Sprintf("Variable(%s)", s.Variable)
	case Literal:
		return fmt.Sprintf("Literal(%v)", s.Value)
	case Temporary:
		return fmt.Sprintf("Temporary(%s, %d)", s.Call, s.Index)
	case Junk:
		return "Junk"
	default:
		return "<invalid slot>"
	}
}

// Stack is an ordered sequence of slots; index 0 is the bottom, the last
// index is the top.
type Stack []Slot

// Clone returns an independent copy of the stack, so callers mutating the
// result never retain references into s.
func (s Stack) Clone() Stack {
	out := make(Stack, len(s))
	copy(out, s)
	return out
}

// Top returns the index of the topmost slot, or -1 if the stack is empty.
func (s Stack) Top() int { return len(s) - 1 }

func (s Stack) String() string {
	out := "["
	for i, slot := range s {
		if i > 0 {
			out += ", "
		}
		out += slot.String()
	}
	return out + "]"
}

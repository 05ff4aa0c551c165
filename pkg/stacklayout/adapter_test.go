package stacklayout

import (
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/stackmachine/stackshuffle/pkg/stackslot"
)

// event records one primitive invocation, in the order the hooks were
// called, so tests can both count primitives and replay them against a
// fresh copy of the original layout (property P5).
type event struct {
	kind  string // "swap", "pop", or "push"
	depth int
	slot  stackslot.Slot
}

type recorder struct {
	events []event
}

func (r *recorder) swap(depth int)                 { r.events = append(r.events, event{kind: "swap", depth: depth}) }
func (r *recorder) pop()                           { r.events = append(r.events, event{kind: "pop"}) }
func (r *recorder) pushOrDup(slot stackslot.Slot)   { r.events = append(r.events, event{kind: "push", slot: slot}) }

// replay applies r's recorded events to a fresh copy of original using the
// same mutation rules the Adapter itself uses for each primitive, then
// overwrites every position whose target slot is Junk with Junk, as Tail
// does after the last primitive.
func (r *recorder) replay(original, target stackslot.Stack) stackslot.Stack {
	cur := original.Clone()
	for _, ev := range r.events {
		switch ev.kind {
		case "swap":
			n := len(cur)
			i := n - ev.depth - 1
			cur[i], cur[n-1] = cur[n-1], cur[i]
		case "pop":
			cur = cur[:len(cur)-1]
		case "push":
			cur = append(cur, ev.slot)
		}
	}
	for i, slot := range target {
		if slot.IsJunk() && i < len(cur) {
			cur[i] = stackslot.NewJunk()
		}
	}
	return cur
}

var slotsEqual = cmp.Comparer(stackslot.Slot.Equal)

func TestCreateStackLayoutScenarios(t *testing.T) {
	a := stackslot.NewVariable("a")
	b := stackslot.NewVariable("b")
	c := stackslot.NewVariable("c")
	lit1 := stackslot.NewLiteral(1)
	j := stackslot.NewJunk()

	tests := []struct {
		name    string
		current stackslot.Stack
		target  stackslot.Stack
		want    stackslot.Stack
	}{
		{"S1 swap two variables", stackslot.Stack{a, b}, stackslot.Stack{b, a}, stackslot.Stack{b, a}},
		{"S2 duplicate", stackslot.Stack{a}, stackslot.Stack{a, a}, stackslot.Stack{a, a}},
		{"S3 drop to bottom", stackslot.Stack{a, b, c}, stackslot.Stack{c}, stackslot.Stack{c}},
		{"S4 introduce junk", stackslot.Stack{a}, stackslot.Stack{j, a}, stackslot.Stack{j, a}},
		{"S5 swap then push literal", stackslot.Stack{a, b}, stackslot.Stack{b, a, lit1}, stackslot.Stack{b, a, lit1}},
		{"S6 identity", stackslot.Stack{a, b, c}, stackslot.Stack{a, b, c}, stackslot.Stack{a, b, c}},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			current := tc.current.Clone()
			rec := &recorder{}
			if err := CreateStackLayout(&current, tc.target, rec.swap, rec.pushOrDup, rec.pop); err != nil {
				t.Fatalf("CreateStackLayout: %v", err)
			}
			if diff := cmp.Diff(tc.want, current, slotsEqual); diff != "" {
				t.Errorf("resulting layout mismatch (-want +got):\n%s", diff)
			}

			// P5: replaying the recorded primitives against a fresh copy
			// of current0, followed by the tail's junk normalization, must
			// reproduce the same final layout.
			if diff := cmp.Diff(current, rec.replay(tc.current, tc.target), slotsEqual); diff != "" {
				t.Errorf("replay mismatch (-transformer +replay):\n%s", diff)
			}
		})
	}
}

func TestCreateStackLayoutIdentityEmitsNothing(t *testing.T) {
	a := stackslot.NewVariable("a")
	b := stackslot.NewVariable("b")
	current := stackslot.Stack{a, b}
	target := stackslot.Stack{a, b}

	rec := &recorder{}
	if err := CreateStackLayout(&current, target, rec.swap, rec.pushOrDup, rec.pop); err != nil {
		t.Fatalf("CreateStackLayout: %v", err)
	}
	if len(rec.events) != 0 {
		t.Errorf("identity transform emitted %d primitives, want 0", len(rec.events))
	}
}

func TestCreateStackLayoutIsIdempotent(t *testing.T) {
	a := stackslot.NewVariable("a")
	b := stackslot.NewVariable("b")
	c := stackslot.NewVariable("c")
	current := stackslot.Stack{a, b, c}
	target := stackslot.Stack{c, a, b}

	rec1 := &recorder{}
	if err := CreateStackLayout(&current, target, rec1.swap, rec1.pushOrDup, rec1.pop); err != nil {
		t.Fatalf("first CreateStackLayout: %v", err)
	}

	rec2 := &recorder{}
	if err := CreateStackLayout(&current, target, rec2.swap, rec2.pushOrDup, rec2.pop); err != nil {
		t.Fatalf("second CreateStackLayout: %v", err)
	}
	if len(rec2.events) != 0 {
		t.Errorf("re-running the transform on an already-transformed layout emitted %d primitives, want 0", len(rec2.events))
	}
}

func TestCreateStackLayoutEmitsExactlyOnePrimitivePerStep(t *testing.T) {
	// Indirectly checked: every event kind is one of swap/pop/push, and
	// the total event count is bounded well under the step cap for a
	// small scenario.
	a := stackslot.NewVariable("a")
	b := stackslot.NewVariable("b")
	c := stackslot.NewVariable("c")
	d := stackslot.NewVariable("d")
	current := stackslot.Stack{a, b, c, d}
	target := stackslot.Stack{d, c, b, a}

	rec := &recorder{}
	if err := CreateStackLayout(&current, target, rec.swap, rec.pushOrDup, rec.pop); err != nil {
		t.Fatalf("CreateStackLayout: %v", err)
	}
	for _, ev := range rec.events {
		switch ev.kind {
		case "swap", "pop", "push":
		default:
			t.Errorf("unexpected primitive kind %q", ev.kind)
		}
	}
	if got, max := len(rec.events), 64; got > max {
		t.Errorf("emitted %d primitives for a 4-slot reversal, want <= %d", got, max)
	}
}

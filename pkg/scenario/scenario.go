// Package scenario loads named current/target stack-layout fixtures from a
// YAML document. Scenarios are the single-sourced vocabulary shared by the
// stackshuffle CLI driver and by scenario-driven tests: both read the same
// tagged-mapping encoding rather than duplicating a parallel literal syntax
// per consumer.
package scenario

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/stackmachine/stackshuffle/pkg/stackslot"
)

// Scenario is a named fixture pairing a current and target layout.
type Scenario struct {
	Name    string
	Current stackslot.Stack
	Target  stackslot.Stack
	Notes   string
}

// Set is the decoded contents of a scenario file.
type Set struct {
	Scenarios []Scenario
}

// document mirrors the YAML wire format: a top-level "scenarios" list of
// entries, each a name, a current/target stack given as tagged slot
// mappings, and optional notes.
type document struct {
	Scenarios []scenarioWire `yaml:"scenarios"`
}

type scenarioWire struct {
	Name    string     `yaml:"name"`
	Current []slotWire `yaml:"current"`
	Target  []slotWire `yaml:"target"`
	Notes   string     `yaml:"notes,omitempty"`
}

// slotWire is the tagged-mapping encoding of a single StackSlot. Exactly one
// field should be set per entry; which one determines the slot's Kind.
type slotWire struct {
	Return     string    `yaml:"return,omitempty"`
	ReturnAnon bool      `yaml:"return_anon,omitempty"`
	Var        string    `yaml:"var,omitempty"`
	Lit        any       `yaml:"lit,omitempty"`
	Temp       *tempWire `yaml:"temp,omitempty"`
	Junk       bool      `yaml:"junk,omitempty"`
}

type tempWire struct {
	Call  string `yaml:"call"`
	Index int    `yaml:"index"`
}

// Load reads and decodes a scenario file from path.
func Load(path string) (*Set, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("scenario: reading %s: %w", path, err)
	}
	return Decode(data)
}

// Decode parses a scenario document already read into memory.
func Decode(data []byte) (*Set, error) {
	var doc document
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("scenario: parsing document: %w", err)
	}

	set := &Set{Scenarios: make([]Scenario, 0, len(doc.Scenarios))}
	for i, sw := range doc.Scenarios {
		current, err := decodeStack(sw.Current)
		if err != nil {
			return nil, fmt.Errorf("scenario: entry %d (%s): current: %w", i, sw.Name, err)
		}
		target, err := decodeStack(sw.Target)
		if err != nil {
			return nil, fmt.Errorf("scenario: entry %d (%s): target: %w", i, sw.Name, err)
		}
		set.Scenarios = append(set.Scenarios, Scenario{
			Name:    sw.Name,
			Current: current,
			Target:  target,
			Notes:   sw.Notes,
		})
	}
	return set, nil
}

// ByName returns the scenario with the given name, or false if not found.
func (s *Set) ByName(name string) (Scenario, bool) {
	for _, sc := range s.Scenarios {
		if sc.Name == name {
			return sc, true
		}
	}
	return Scenario{}, false
}

func decodeStack(entries []slotWire) (stackslot.Stack, error) {
	stack := make(stackslot.Stack, 0, len(entries))
	for i, w := range entries {
		slot, err := decodeSlot(w)
		if err != nil {
			return nil, fmt.Errorf("position %d: %w", i, err)
		}
		stack = append(stack, slot)
	}
	return stack, nil
}

func decodeSlot(w slotWire) (stackslot.Slot, error) {
	set := 0
	var slot stackslot.Slot

	if w.Return != "" {
		slot, set = stackslot.NewReturnLabel(w.Return), set+1
	}
	if w.ReturnAnon {
		slot, set = stackslot.NewReturnLabelAnon(), set+1
	}
	if w.Var != "" {
		slot, set = stackslot.NewVariable(w.Var), set+1
	}
	if w.Lit != nil {
		slot, set = stackslot.NewLiteral(w.Lit), set+1
	}
	if w.Temp != nil {
		slot, set = stackslot.NewTemporary(w.Temp.Call, w.Temp.Index), set+1
	}
	if w.Junk {
		slot, set = stackslot.NewJunk(), set+1
	}

	switch set {
	case 0:
		return stackslot.Slot{}, fmt.Errorf("slot has no recognized tag (want one of return, return_anon, var, lit, temp, junk)")
	case 1:
		return slot, nil
	default:
		return stackslot.Slot{}, fmt.Errorf("slot has more than one tag set; exactly one is required")
	}
}

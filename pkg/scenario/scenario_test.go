package scenario

import (
	"testing"

	"github.com/stackmachine/stackshuffle/pkg/stackslot"
)

func TestDecodeEverySlotKind(t *testing.T) {
	data := []byte(`
scenarios:
  - name: everything
    current:
      - return: caller
      - return_anon: true
      - var: x
      - lit: 7
      - temp:
          call: caller
          index: 2
      - junk: true
    target:
      - var: x
`)
	set, err := Decode(data)
	if err != nil {
		t.Fatalf("Decode: %v", err)
	}
	if len(set.Scenarios) != 1 {
		t.Fatalf("got %d scenarios, want 1", len(set.Scenarios))
	}
	sc := set.Scenarios[0]
	if sc.Name != "everything" {
		t.Errorf("Name = %q, want %q", sc.Name, "everything")
	}

	want := stackslot.Stack{
		stackslot.NewReturnLabel("caller"),
		stackslot.NewReturnLabelAnon(),
		stackslot.NewVariable("x"),
		stackslot.NewLiteral(7),
		stackslot.NewTemporary("caller", 2),
		stackslot.NewJunk(),
	}
	if len(sc.Current) != len(want) {
		t.Fatalf("current has %d slots, want %d", len(sc.Current), len(want))
	}
	for i := range want {
		if !sc.Current[i].Equal(want[i]) {
			t.Errorf("current[%d] = %v, want %v", i, sc.Current[i], want[i])
		}
	}
}

func TestDecodeRejectsUntaggedSlot(t *testing.T) {
	data := []byte(`
scenarios:
  - name: bad
    current:
      - {}
    target: []
`)
	if _, err := Decode(data); err == nil {
		t.Fatal("Decode: want error for an untagged slot, got nil")
	}
}

func TestDecodeRejectsAmbiguousSlot(t *testing.T) {
	data := []byte(`
scenarios:
  - name: bad
    current:
      - var: a
        lit: 1
    target: []
`)
	if _, err := Decode(data); err == nil {
		t.Fatal("Decode: want error for a slot with two tags set, got nil")
	}
}

func TestByName(t *testing.T) {
	data := []byte(`
scenarios:
  - name: one
    current: []
    target: []
  - name: two
    current: []
    target: []
`)
	set, err := Decode(data)
	if err != nil {
		t.Fatalf("Decode: %v", err)
	}
	if _, ok := set.ByName("two"); !ok {
		t.Error("ByName(\"two\") not found")
	}
	if _, ok := set.ByName("missing"); ok {
		t.Error("ByName(\"missing\") unexpectedly found")
	}
}

func TestLoadFixtureFile(t *testing.T) {
	set, err := Load("../../testdata/scenarios.yaml")
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if len(set.Scenarios) == 0 {
		t.Fatal("Load: fixture file decoded to zero scenarios")
	}
	for _, want := range []string{"swap-two-variables", "duplicate", "drop-to-bottom", "introduce-junk", "swap-then-grow", "identity"} {
		if _, ok := set.ByName(want); !ok {
			t.Errorf("fixture file is missing scenario %q", want)
		}
	}
}

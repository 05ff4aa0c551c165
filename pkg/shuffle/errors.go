package shuffle

import "fmt"

// ShuffleNonTermination indicates the step cap was exceeded before the
// operations adapter reported that source and target were compatible.
// This is a programmer error: a faithful adapter over a well-formed
// current/target pair always terminates well under MaxSteps.
type ShuffleNonTermination struct {
	Steps int
}

func (e *ShuffleNonTermination) Error() string {
	return fmt.Sprintf("shuffle: exceeded step cap of %d without reaching a compatible layout", e.Steps)
}

// ShuffleInvariantViolation indicates an internal assertion failed during
// the step decision procedure: a negative multiplicity survived into the
// post-condition region, a size invariant was broken, or no step rule
// could make progress. This indicates a broken Operations contract or an
// inconsistency between current and target that bringUpTargetSlot's
// preconditions should have ruled out.
type ShuffleInvariantViolation struct {
	Reason string
}

func (e *ShuffleInvariantViolation) Error() string {
	return "shuffle: invariant violation: " + e.Reason
}

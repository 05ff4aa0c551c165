// Package shuffle implements the generic stack-layout shuffling loop: a
// fixed-point algorithm that morphs a source layout into one compatible
// with a target layout by emitting one of three primitives — swap, pop,
// pushOrDup — per step, never backtracking.
//
// The loop itself knows nothing about what a "slot" is; it is driven
// entirely through the Operations interface, which the caller implements
// over its own layout representation. Package stacklayout provides the
// concrete realization over package stackslot's Stack/Slot types.
package shuffle

// MaxSteps bounds the number of primitives Shuffle will emit before giving
// up with ShuffleNonTermination. It is a fail-fast safety net, not part of
// the algorithm: any adapter that correctly implements Operations over a
// well-formed current/target pair terminates in a number of steps
// polynomial in max(sourceSize, targetSize), far below this cap.
const MaxSteps = 1000

// Operations is the contract the shuffling loop drives. Implementations own
// a mutable "current" sequence and a read-only "target" sequence; every
// method is answered in terms of those two without side effects except for
// Swap, Pop, and PushOrDupTarget, which additionally mutate current (and
// typically also invoke a caller-supplied emit hook).
type Operations interface {
	// SourceSize returns the number of slots currently on the source
	// (current) layout.
	SourceSize() int
	// TargetSize returns the number of slots in the target layout.
	TargetSize() int

	// IsCompatible reports whether the slot at source index s is
	// acceptable at target index t: true when both indices are in range
	// and the slots are identical, true when both indices are in range and
	// target[t] is arbitrary, false otherwise.
	IsCompatible(s, t int) bool
	// SourceIsSame reports whether the slots at source indices a and b
	// are identical.
	SourceIsSame(a, b int) bool
	// SourceMultiplicity returns the multiplicity-table value for the
	// slot currently at source index s.
	SourceMultiplicity(s int) int
	// TargetMultiplicity returns the multiplicity-table value for the
	// slot at target index t.
	TargetMultiplicity(t int) int
	// TargetIsArbitrary reports whether t is in range and target[t] is
	// the wildcard "don't care" slot.
	TargetIsArbitrary(t int) bool

	// Swap swaps the top of the source layout with the slot depth
	// positions below it (depth >= 1).
	Swap(depth int)
	// Pop drops the top of the source layout.
	Pop()
	// PushOrDupTarget materializes, as a new top, a slot compatible with
	// target[t].
	PushOrDupTarget(t int)
}

// Shuffle drives ops until its source layout is compatible with its target
// layout at every position up to the source's length, emitting exactly one
// primitive per step. It returns ShuffleNonTermination if MaxSteps is
// exceeded, or ShuffleInvariantViolation if an internal assertion in the
// step decision procedure fails.
func Shuffle(ops Operations) error {
	for i := 0; i < MaxSteps; i++ {
		progressed, err := step(ops)
		if err != nil {
			return err
		}
		if !progressed {
			return nil
		}
	}
	return &ShuffleNonTermination{Steps: MaxSteps}
}

// step performs at most one primitive against ops, returning whether it
// made progress. It implements the ten-clause decision procedure: the
// first matching clause fires and the step returns.
func step(ops Operations) (bool, error) {
	n := ops.SourceSize()
	m := ops.TargetSize()

	// 1. Stop predicate.
	if allCompatible(ops, n) {
		return false, nil
	}

	top := n - 1

	// 3. Drop surplus top.
	if ops.SourceMultiplicity(top) < 0 && !(m >= n && ops.TargetIsArbitrary(top)) {
		ops.Pop()
		return true, nil
	}

	// 4. targetSize must be positive here: with a zero-length target no
	// source slot is wanted, so every source multiplicity is negative and
	// clause 3 has already popped. Reaching here with m == 0 means the
	// adapter's multiplicity contract is broken.
	if m == 0 {
		return false, &ShuffleInvariantViolation{Reason: "targetSize is zero but the stop predicate did not fire"}
	}

	// 5. Swap top down to a home.
	if !ops.IsCompatible(top, top) || ops.TargetIsArbitrary(top) {
		limit := n
		if m < limit {
			limit = m
		}
		for offset := 0; offset < limit; offset++ {
			if !ops.IsCompatible(offset, offset) &&
				!ops.SourceIsSame(offset, top) &&
				ops.IsCompatible(top, offset) {
				ops.Swap(n - offset - 1)
				return true, nil
			}
		}
	}

	// 6. Fill a lower hole.
	for offset := 0; offset < n; offset++ {
		if !ops.IsCompatible(offset, offset) &&
			ops.SourceMultiplicity(offset) < 0 &&
			offset <= m &&
			!ops.TargetIsArbitrary(offset) {
			if err := bringUpTargetSlot(ops, offset); err != nil {
				return false, err
			}
			return true, nil
		}
	}

	// 7. Post-conditions: reached only if none of 3/5/6 fired.
	for i := 0; i < n; i++ {
		if ops.SourceMultiplicity(i) < 0 {
			return false, &ShuffleInvariantViolation{Reason: "negative source multiplicity survived into the post-condition region"}
		}
	}
	if n > m {
		return false, &ShuffleInvariantViolation{Reason: "sourceSize exceeds targetSize in the post-condition region"}
	}

	// 8. Swap top into place.
	if !ops.IsCompatible(top, top) {
		for s := 0; s < n; s++ {
			if !ops.IsCompatible(s, s) && ops.IsCompatible(s, top) {
				ops.Swap(n - s - 1)
				return true, nil
			}
		}
		return false, &ShuffleInvariantViolation{Reason: "no source position accepts the out-of-place top slot"}
	}

	// 9. Grow.
	if n < m {
		if err := bringUpTargetSlot(ops, n); err != nil {
			return false, err
		}
		return true, nil
	}

	// 10. Top is home, sizes match, multiplicities exact, but a lower
	// slot may still be out of position.
	//
	// 10a. Prefer a lower slot that is out of place and compatible with
	// the top: swapping it up both fixes that position's eventual home
	// and keeps the top compatible.
	for s := 0; s < n; s++ {
		if !ops.IsCompatible(s, s) && ops.IsCompatible(s, top) {
			ops.Swap(n - s - 1)
			return true, nil
		}
	}
	// 10b. Otherwise, any out-of-place lower slot not identical to the
	// top makes progress: it displaces the top to a position it may or
	// may not fit, but since multiplicities are exact, some later step
	// resolves it.
	for s := 0; s < n; s++ {
		if !ops.IsCompatible(s, s) && !ops.SourceIsSame(s, top) {
			ops.Swap(n - s - 1)
			return true, nil
		}
	}

	return false, &ShuffleInvariantViolation{Reason: "step decision procedure exhausted without making progress"}
}

func allCompatible(ops Operations, n int) bool {
	for i := 0; i < n; i++ {
		if !ops.IsCompatible(i, i) {
			return false
		}
	}
	return true
}

// bringUpTargetSlot performs a breadth-first walk that materializes a slot
// compatible with target[targetOffset] as the new top of the source
// layout, either by pushing/duplicating it directly (if the target wants
// more copies than currently exist) or by locating a compatible source
// position to swap up from, transitively.
func bringUpTargetSlot(ops Operations, targetOffset int) error {
	n := ops.SourceSize()
	m := ops.TargetSize()
	limit := n
	if m < limit {
		limit = m
	}

	visited := map[int]bool{targetOffset: true}
	queue := []int{targetOffset}

	for len(queue) > 0 {
		o := queue[0]
		queue = queue[1:]

		if ops.TargetMultiplicity(o) > 0 {
			ops.PushOrDupTarget(o)
			return nil
		}

		for s := 0; s < limit; s++ {
			if !visited[s] && !ops.IsCompatible(s, s) && ops.IsCompatible(s, o) {
				visited[s] = true
				queue = append(queue, s)
			}
		}
	}

	return &ShuffleInvariantViolation{Reason: "bringUpTargetSlot exhausted its worklist without finding a push/dup source"}
}

package engine

import (
	"errors"
	"math"
)

// Ordering is the 3-way result of comparing two save timestamps.
type Ordering int

const (
	OrderEqual Ordering = iota
	OrderFirstNewer
	OrderSecondNewer
)

// ErrTimestampMissing means one side's timestamp could not be extracted
// (reported as 0). The engine must not guess a copy direction from it, so
// the pair is reported and skipped rather than resolved.
var ErrTimestampMissing = errors.New("save timestamp missing")

const (
	relTol = 1e-9
	absTol = 0.0
)

// Compare orders two unix-second timestamps with float tolerance.
// Modification-time resolution and clock skew make exact equality
// unreliable, so timestamps within max(relTol*max(|t1|,|t2|), absTol) of
// each other count as equal.
func Compare(t1, t2 float64) (Ordering, error) {
	if t1 == 0 || t2 == 0 {
		return OrderEqual, ErrTimestampMissing
	}

	if isClose(t1, t2) {
		return OrderEqual, nil
	}

	if t1 > t2 {
		return OrderFirstNewer, nil
	}

	return OrderSecondNewer, nil
}

func isClose(a, b float64) bool {
	return math.Abs(a-b) <= math.Max(relTol*math.Max(math.Abs(a), math.Abs(b)), absTol)
}

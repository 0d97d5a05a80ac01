package generator

import "time"

// Versioned is implemented by document types whose history is tracked as a
// chain of valid-time versions sharing one logical id.
type Versioned[T any] interface {
	Clone() T
	CloseValidity(at time.Time)
	OpenValidity(at time.Time)
}

// Correct applies the two-document correction protocol to a live version:
//
//  1. Clone the entity and close its validity at changeTime.
//  2. Clone again, apply mutate, and open validity at changeTime.
//
// The closed version's ValidTo equals the opened version's ValidFrom exactly,
// which keeps the version chain's intervals consecutive and non-overlapping.
// The caller is responsible for retiring its reference to the old open
// version and tracking the returned one as live; as long as callers always
// pass the currently live version, no two open versions of the same id can
// coexist.
func Correct[T Versioned[T]](live T, changeTime time.Time, mutate func(T)) (closed, opened T) {
	closed = live.Clone()
	closed.CloseValidity(changeTime)

	opened = live.Clone()
	mutate(opened)
	opened.OpenValidity(changeTime)

	return closed, opened
}

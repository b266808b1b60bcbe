package stun

import "time"

// Clock abstracts wall-clock time and timer scheduling so the
// retransmission schedule in TransactionPool can be driven by a mock
// clock in tests (spec §8: "each driven by a mock socket and mock
// clock").
type Clock interface {
	Now() time.Time
	AfterFunc(d time.Duration, f func()) Timer
}

// Timer is the subset of time.Timer that Clock implementations return.
type Timer interface {
	Stop() bool
}

// realClock is the production Clock backed by the runtime timer wheel.
type realClock struct{}

// RealClock returns the default, real-time Clock.
func RealClock() Clock { return realClock{} }

func (realClock) Now() time.Time { return time.Now() }

func (realClock) AfterFunc(d time.Duration, f func()) Timer {
	return time.AfterFunc(d, f)
}

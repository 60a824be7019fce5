// Package clock abstracts the current time so that ledger logic can be
// exercised in tests with a fixed instant.  All timestamps produced by
// this package are in UTC.
package clock

import "time"

// Clock supplies the current time to ledger operations.
type Clock interface {
	Now() time.Time
}

type systemClock struct{}

// NewSystem returns a clock backed by time.Now in UTC.
func NewSystem() Clock {
	return systemClock{}
}

func (systemClock) Now() time.Time {
	return time.Now().UTC()
}

type fixedClock struct {
	now time.Time
}

// NewFixed returns a clock frozen at the given instant.  Tests use this to
// make hold expiry and batch dating deterministic.
func NewFixed(t time.Time) Clock {
	return fixedClock{now: t.UTC()}
}

func (f fixedClock) Now() time.Time {
	return f.now
}

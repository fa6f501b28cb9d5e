package store

import (
	"time"
)

// Clock abstracts the current time so elapsed-wait and timestamp logic
// can be tested deterministically.
type Clock interface {
	Now() time.Time
}

// SystemClock reads the wall clock.
type SystemClock struct{}

// Now returns the current wall-clock time.
func (SystemClock) Now() time.Time {
	return time.Now()
}

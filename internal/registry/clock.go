package registry

import "time"

// Clock supplies the current time. Services take a Clock so retention
// and SLA behavior can be driven by a fake clock in tests; the zero
// value is replaced with time.Now.
type Clock func() time.Time

// Now returns the clock's current time, falling back to time.Now for
// the zero Clock.
func (c Clock) Now() time.Time {
	if c == nil {
		return time.Now()
	}
	return c()
}

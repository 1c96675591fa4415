// This file is part of vsivideo.
//
// vsivideo is free software: you can redistribute it and/or modify
// it under the terms of the GNU General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
//
// vsivideo is distributed in the hope that it will be useful,
// but WITHOUT ANY WARRANTY; without even the implied warranty of
// MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
// GNU General Public License for more details.
//
// You should have received a copy of the GNU General Public License
// along with vsivideo.  If not, see <https://www.gnu.org/licenses/>.

// Package limiter paces a loop to a fixed rate.
//
// A new Limiter is created with the number of events per second:
//
//	lim := limiter.NewLimiter(30)
//
// Each iteration of the loop is then stalled with the Wait() function:
//
//	for {
//		lim.Wait()
//		tick()
//	}
package limiter

import (
	"time"
)

// Limiter stalls a loop so that it runs no faster than a fixed rate. Time lost
// by a slow iteration is made up by the following iterations, unless the loop
// has fallen more than a whole period behind.
type Limiter struct {
	period time.Duration
	next   time.Time

	// replaced during testing
	now   func() time.Time
	sleep func(time.Duration)
}

// NewLimiter is the preferred method of initialisation for the Limiter type.
// A rate of zero or less means that the Limiter never waits.
func NewLimiter(rate float64) *Limiter {
	lim := &Limiter{
		now:   time.Now,
		sleep: time.Sleep,
	}
	lim.SetRate(rate)
	return lim
}

// SetRate changes the rate of the Limiter.
func (lim *Limiter) SetRate(rate float64) {
	if rate <= 0 {
		lim.period = 0
	} else {
		lim.period = time.Duration(float64(time.Second) / rate)
	}
	lim.next = time.Time{}
}

// Period returns the time between events.
func (lim *Limiter) Period() time.Duration {
	return lim.period
}

// Wait blocks until the next event is due. The first call to Wait() after
// creation or a call to SetRate() returns immediately.
func (lim *Limiter) Wait() {
	if lim.period == 0 {
		return
	}

	now := lim.now()
	if lim.next.IsZero() {
		lim.next = now.Add(lim.period)
		return
	}

	if d := lim.next.Sub(now); d > 0 {
		lim.sleep(d)
		lim.next = lim.next.Add(lim.period)
		return
	}

	// too far behind to catch up
	if now.Sub(lim.next) > lim.period {
		lim.next = now.Add(lim.period)
		return
	}

	lim.next = lim.next.Add(lim.period)
}

// HasWaited returns true if the next event is due, in which case the event is
// consumed. It never blocks.
func (lim *Limiter) HasWaited() bool {
	if lim.period == 0 {
		return true
	}

	now := lim.now()
	if lim.next.IsZero() || !now.Before(lim.next) {
		lim.next = now.Add(lim.period)
		return true
	}

	return false
}

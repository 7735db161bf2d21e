package domain

import "github.com/jonboulle/clockwork"

// clock stamps ProcessedAt on converted records. Tests freeze it via SetClock.
var clock = clockwork.NewRealClock()

// SetClock swaps the time source used by ConvertReading. Pass nil to restore
// the real clock.
func SetClock(c clockwork.Clock) {
	if c == nil {
		clock = clockwork.NewRealClock()
		return
	}
	clock = c
}

package savingsplan

import "time"

// day builds a UTC timestamp at midnight, the usual granularity of the
// tests.
func day(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// mustInstrument creates an instrument or panics. Tests only.
func mustInstrument(price Money, name string) *Instrument {
	inst, err := NewInstrument(price, name)
	if err != nil {
		panic(err)
	}
	return inst
}

// Package period models the quarterly reporting calendar used throughout the
// bookkeeping records. Every transaction and stock movement carries the quarter
// and year derived from its date, and reports aggregate per quarter.
package period

import (
	"fmt"
	"time"
)

// Quarter is a three-calendar-month reporting period, numbered 1 through 4.
type Quarter int

const (
	Q1 Quarter = 1
	Q2 Quarter = 2
	Q3 Quarter = 3
	Q4 Quarter = 4
)

// Valid reports whether q is one of the four quarters.
func (q Quarter) Valid() bool {
	return q >= Q1 && q <= Q4
}

// Label returns the month-range label used in report headers.
func (q Quarter) Label() string {
	switch q {
	case Q1:
		return "January – March"
	case Q2:
		return "April – June"
	case Q3:
		return "July – September"
	case Q4:
		return "October – December"
	}

	return "Unknown"
}

func (q Quarter) String() string {
	return fmt.Sprintf("Q%d", int(q))
}

// Months returns the three calendar months covered by the quarter.
func (q Quarter) Months() [3]time.Month {
	first := time.Month((q-1)*3 + 1)
	return [3]time.Month{first, first + 1, first + 2}
}

// Of derives the quarter a date falls in.
func Of(t time.Time) Quarter {
	return Quarter((int(t.Month())-1)/3 + 1)
}

// Previous returns the quarter immediately before (q, year).
// Quarter 1 wraps to quarter 4 of the previous year.
func Previous(q Quarter, year int) (Quarter, int) {
	if q == Q1 {
		return Q4, year - 1
	}

	return q - 1, year
}

// Current returns the quarter and year of the wall clock.
func Current() (Quarter, int) {
	now := time.Now()
	return Of(now), now.Year()
}

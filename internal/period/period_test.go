package period_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/europemission/martha/internal/period"
)

func TestOf(t *testing.T) {
	tests := []struct {
		name string
		date time.Time
		want period.Quarter
	}{
		{name: "JanuaryIsQ1", date: time.Date(2024, 1, 15, 0, 0, 0, 0, time.UTC), want: period.Q1},
		{name: "MarchIsQ1", date: time.Date(2024, 3, 31, 0, 0, 0, 0, time.UTC), want: period.Q1},
		{name: "AprilIsQ2", date: time.Date(2024, 4, 1, 0, 0, 0, 0, time.UTC), want: period.Q2},
		{name: "SeptemberIsQ3", date: time.Date(2024, 9, 30, 0, 0, 0, 0, time.UTC), want: period.Q3},
		{name: "DecemberIsQ4", date: time.Date(2024, 12, 25, 0, 0, 0, 0, time.UTC), want: period.Q4},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, period.Of(tt.date))
		})
	}
}

func TestPrevious(t *testing.T) {
	tests := []struct {
		name     string
		quarter  period.Quarter
		year     int
		wantQ    period.Quarter
		wantYear int
	}{
		{name: "Q2GoesToQ1", quarter: period.Q2, year: 2024, wantQ: period.Q1, wantYear: 2024},
		{name: "Q1WrapsToPreviousYear", quarter: period.Q1, year: 2024, wantQ: period.Q4, wantYear: 2023},
		{name: "Q4GoesToQ3", quarter: period.Q4, year: 2024, wantQ: period.Q3, wantYear: 2024},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			q, year := period.Previous(tt.quarter, tt.year)
			assert.Equal(t, tt.wantQ, q)
			assert.Equal(t, tt.wantYear, year)
		})
	}
}

func TestMonths(t *testing.T) {
	assert.Equal(t, [3]time.Month{time.January, time.February, time.March}, period.Q1.Months())
	assert.Equal(t, [3]time.Month{time.October, time.November, time.December}, period.Q4.Months())
}

func TestValid(t *testing.T) {
	assert.True(t, period.Q1.Valid())
	assert.True(t, period.Q4.Valid())
	assert.False(t, period.Quarter(0).Valid())
	assert.False(t, period.Quarter(5).Valid())
}

func TestLabel(t *testing.T) {
	assert.Equal(t, "January – March", period.Q1.Label())
	assert.Equal(t, "October – December", period.Q4.Label())
	assert.Equal(t, "Q3", period.Q3.String())
}

package daily

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestDateKey(t *testing.T) {
	at := time.Date(2024, time.March, 7, 23, 59, 0, 0, time.Local)
	assert.Equal(t, "2024-03-07", DateKey(at))

	// One minute later is the next calendar day.
	assert.Equal(t, "2024-03-08", DateKey(at.Add(time.Minute)))
}

func TestDaysBetween(t *testing.T) {
	tests := []struct {
		name string
		a, b string
		want int
	}{
		{name: "same day", a: "2024-03-07", b: "2024-03-07", want: 0},
		{name: "consecutive", a: "2024-03-07", b: "2024-03-08", want: 1},
		{name: "gap", a: "2024-03-01", b: "2024-03-07", want: 6},
		{name: "month boundary", a: "2024-02-29", b: "2024-03-01", want: 1},
		{name: "year boundary", a: "2023-12-31", b: "2024-01-01", want: 1},
		{name: "reversed", a: "2024-03-08", b: "2024-03-07", want: -1},
		{name: "garbage", a: "not-a-date", b: "2024-03-07", want: 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, DaysBetween(tt.a, tt.b))
		})
	}
}

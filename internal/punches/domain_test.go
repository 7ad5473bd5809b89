package punches

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestDurationMinutesTruncates(t *testing.T) {
	in := time.Date(2025, 3, 10, 9, 0, 0, 0, time.UTC)

	cases := []struct {
		name string
		out  time.Time
		want int
	}{
		{"partial minute drops", in.Add(47*time.Minute + 30*time.Second), 47},
		{"exact minutes", in.Add(90 * time.Minute), 90},
		{"under a minute", in.Add(59 * time.Second), 0},
		{"zero", in, 0},
		{"full day", in.Add(8*time.Hour + 59*time.Second), 480},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, DurationMinutes(in, tc.out))
		})
	}
}

func TestEntryOpen(t *testing.T) {
	e := Entry{TimeIn: time.Now()}
	assert.True(t, e.Open())

	out := e.TimeIn.Add(time.Hour)
	e.TimeOut = &out
	assert.False(t, e.Open())
}

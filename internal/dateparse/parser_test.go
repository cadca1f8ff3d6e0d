package dateparse

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var ist = time.FixedZone("IST", 330*60)

// Monday, 7 July 2025, 11:00 IST.
var ref = time.Date(2025, 7, 7, 11, 0, 0, 0, ist)

func TestParser_Resolve(t *testing.T) {
	p := NewParser(ist)

	tests := []struct {
		name     string
		phrase   string
		expected time.Time
	}{
		{name: "tomorrow at 10am", phrase: "tomorrow at 10am", expected: time.Date(2025, 7, 8, 10, 0, 0, 0, ist)},
		{name: "day month with suffix", phrase: "5th July 9 AM", expected: time.Date(2025, 7, 5, 9, 0, 0, 0, ist)},
		{name: "month day with suffix", phrase: "July 10th 5pm", expected: time.Date(2025, 7, 10, 17, 0, 0, 0, ist)},
		{name: "day month year 24h", phrase: "10 July 2026 14:30", expected: time.Date(2026, 7, 10, 14, 30, 0, 0, ist)},
		{name: "next weekday", phrase: "next Friday 2pm", expected: time.Date(2025, 7, 11, 14, 0, 0, 0, ist)},
		{name: "next same weekday skips a week", phrase: "next Monday 9am", expected: time.Date(2025, 7, 14, 9, 0, 0, 0, ist)},
		{name: "bare weekday", phrase: "wednesday at 4:15 pm", expected: time.Date(2025, 7, 9, 16, 15, 0, 0, ist)},
		{name: "bare weekday naming today is a week out", phrase: "monday 3pm", expected: time.Date(2025, 7, 14, 15, 0, 0, 0, ist)},
		{name: "coming weekday naming today is a week out", phrase: "coming Monday", expected: time.Date(2025, 7, 14, 9, 0, 0, 0, ist)},
		{name: "this weekday naming today is today", phrase: "this monday 3pm", expected: time.Date(2025, 7, 7, 15, 0, 0, 0, ist)},
		{name: "this weekday later in the week", phrase: "this thursday 10am", expected: time.Date(2025, 7, 10, 10, 0, 0, 0, ist)},
		{name: "day after tomorrow", phrase: "day after tomorrow 3pm", expected: time.Date(2025, 7, 9, 15, 0, 0, 0, ist)},
		{name: "yesterday", phrase: "yesterday 5pm", expected: time.Date(2025, 7, 6, 17, 0, 0, 0, ist)},
		{name: "slash day month year", phrase: "10/07/2025 3pm", expected: time.Date(2025, 7, 10, 15, 0, 0, 0, ist)},
		{name: "today noon", phrase: "today noon", expected: time.Date(2025, 7, 7, 12, 0, 0, 0, ist)},
		{name: "tonight defaults to evening", phrase: "tonight", expected: time.Date(2025, 7, 7, 20, 0, 0, 0, ist)},
		{name: "date only defaults to nine", phrase: "12th July", expected: time.Date(2025, 7, 12, 9, 0, 0, 0, ist)},
		{name: "time only uses reference day", phrase: "3pm", expected: time.Date(2025, 7, 7, 15, 0, 0, 0, ist)},
		{name: "at bare hour", phrase: "tomorrow at 10", expected: time.Date(2025, 7, 8, 10, 0, 0, 0, ist)},
		{name: "a.m. spelling", phrase: "tomorrow 8:45 a.m.", expected: time.Date(2025, 7, 8, 8, 45, 0, 0, ist)},
		{name: "twelve am is midnight", phrase: "July 8 12am", expected: time.Date(2025, 7, 8, 0, 0, 0, 0, ist)},
		{name: "relative hours", phrase: "in 2 hours", expected: time.Date(2025, 7, 7, 13, 0, 0, 0, ist)},
		{name: "relative within", phrase: "within 2 hours", expected: time.Date(2025, 7, 7, 13, 0, 0, 0, ist)},
		{name: "relative half hour", phrase: "in half an hour", expected: time.Date(2025, 7, 7, 11, 30, 0, 0, ist)},
		{name: "iso date only", phrase: "2025-07-10", expected: time.Date(2025, 7, 10, 9, 0, 0, 0, ist)},
		{name: "iso local layout", phrase: "2025-07-10 15:00", expected: time.Date(2025, 7, 10, 15, 0, 0, 0, ist)},
		{name: "connectors are cleaned", phrase: "from 10th July from 2pm", expected: time.Date(2025, 7, 10, 14, 0, 0, 0, ist)},
		{name: "trailing connector", phrase: "10th July 3pm to", expected: time.Date(2025, 7, 10, 15, 0, 0, 0, ist)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := p.Resolve(tt.phrase, ref)
			require.NoError(t, err)
			assert.True(t, tt.expected.Equal(got), "expected %s, got %s", tt.expected, got)
			_, offset := got.Zone()
			assert.Equal(t, 19800, offset)
		})
	}
}

func TestParser_Resolve_RelativeDropsSeconds(t *testing.T) {
	p := NewParser(ist)

	got, err := p.Resolve("in 5 minutes", ref.Add(37*time.Second))
	require.NoError(t, err)
	assert.True(t, time.Date(2025, 7, 7, 11, 5, 0, 0, ist).Equal(got), "got %s", got)
}

func TestParser_Resolve_RFC3339KeepsInstant(t *testing.T) {
	p := NewParser(ist)

	got, err := p.Resolve("2025-07-10T09:00:00Z", ref)
	require.NoError(t, err)

	assert.True(t, time.Date(2025, 7, 10, 9, 0, 0, 0, time.UTC).Equal(got))
	assert.Equal(t, "2025-07-10T14:30:00+05:30", got.Format(time.RFC3339))
}

func TestParser_Resolve_Unparseable(t *testing.T) {
	p := NewParser(ist)

	tests := []struct {
		name   string
		phrase string
	}{
		{name: "empty", phrase: ""},
		{name: "only connectors", phrase: "from"},
		{name: "no date or time", phrase: "sometime soonish"},
		{name: "invalid day of month", phrase: "31st February 10am"},
		{name: "invalid iso day", phrase: "2025-02-30"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := p.Resolve(tt.phrase, ref)
			require.Error(t, err)
			assert.True(t, errors.Is(err, ErrUnparseable))
		})
	}
}

func TestNewParser_NilLocation(t *testing.T) {
	p := NewParser(nil)
	assert.Equal(t, time.UTC, p.Location())
}

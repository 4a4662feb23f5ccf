package utils

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParseDate(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		want    Date
		wantErr bool
	}{
		{"valid date", "2026-03-15", Date{2026, 3, 15}, false},
		{"leap day", "2024-02-29", Date{2024, 2, 29}, false},
		{"non-leap february 29", "2026-02-29", Date{}, true},
		{"century non-leap", "1900-02-29", Date{}, true},
		{"400-year leap", "2000-02-29", Date{2000, 2, 29}, false},
		{"month out of range", "2026-13-01", Date{}, true},
		{"day out of range", "2026-04-31", Date{}, true},
		{"missing parts", "2026-04", Date{}, true},
		{"garbage", "not-a-date", Date{}, true},
		{"empty", "", Date{}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseDate(tt.input)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			assert.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestDateOrdering(t *testing.T) {
	a := Date{2026, 6, 10}
	b := Date{2026, 6, 20}

	assert.True(t, a.Before(b))
	assert.True(t, b.After(a))
	assert.False(t, a.Before(a))
	assert.False(t, a.After(a))

	assert.True(t, Date{2025, 12, 31}.Before(Date{2026, 1, 1}))
	assert.True(t, Date{2026, 5, 31}.Before(Date{2026, 6, 1}))
}

func TestAddDays(t *testing.T) {
	assert.Equal(t, Date{2026, 3, 1}, Date{2026, 2, 28}.AddDays(1))
	assert.Equal(t, Date{2024, 2, 29}, Date{2024, 2, 28}.AddDays(1))
	assert.Equal(t, Date{2026, 1, 1}, Date{2025, 12, 31}.AddDays(1))
	assert.Equal(t, Date{2025, 12, 31}, Date{2026, 1, 1}.AddDays(-1))
}

func TestOverlaps(t *testing.T) {
	tests := []struct {
		name                       string
		aStart, aEnd, bStart, bEnd Date
		want                       bool
	}{
		{"disjoint before", Date{2026, 6, 1}, Date{2026, 6, 5}, Date{2026, 6, 6}, Date{2026, 6, 10}, false},
		{"disjoint after", Date{2026, 6, 11}, Date{2026, 6, 15}, Date{2026, 6, 6}, Date{2026, 6, 10}, false},
		{"shared boundary day", Date{2026, 6, 1}, Date{2026, 6, 5}, Date{2026, 6, 5}, Date{2026, 6, 10}, true},
		{"contained", Date{2026, 6, 7}, Date{2026, 6, 8}, Date{2026, 6, 6}, Date{2026, 6, 10}, true},
		{"containing", Date{2026, 6, 1}, Date{2026, 6, 30}, Date{2026, 6, 6}, Date{2026, 6, 10}, true},
		{"identical", Date{2026, 6, 6}, Date{2026, 6, 10}, Date{2026, 6, 6}, Date{2026, 6, 10}, true},
		{"single day both", Date{2026, 6, 6}, Date{2026, 6, 6}, Date{2026, 6, 6}, Date{2026, 6, 6}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Overlaps(tt.aStart, tt.aEnd, tt.bStart, tt.bEnd))
			// Overlap is symmetric
			assert.Equal(t, tt.want, Overlaps(tt.bStart, tt.bEnd, tt.aStart, tt.aEnd))
		})
	}
}

func TestOverlapsOpenEnded(t *testing.T) {
	open := Date{2026, 6, 10}

	assert.True(t, OverlapsOpenEnded(Date{2026, 6, 10}, Date{2026, 6, 15}, open))
	assert.True(t, OverlapsOpenEnded(Date{2026, 6, 12}, Date{2026, 6, 15}, open))
	assert.True(t, OverlapsOpenEnded(Date{2026, 6, 1}, Date{2026, 6, 10}, open))
	assert.False(t, OverlapsOpenEnded(Date{2026, 6, 1}, Date{2026, 6, 9}, open))
}

func TestDaysBetween(t *testing.T) {
	t.Run("same day counts as one", func(t *testing.T) {
		days, err := DaysBetween(Date{2026, 6, 10}, Date{2026, 6, 10})
		assert.NoError(t, err)
		assert.Equal(t, 1, days)
	})

	t.Run("inclusive range", func(t *testing.T) {
		days, err := DaysBetween(Date{2026, 6, 10}, Date{2026, 6, 14})
		assert.NoError(t, err)
		assert.Equal(t, 5, days)
	})

	t.Run("crosses leap day", func(t *testing.T) {
		days, err := DaysBetween(Date{2024, 2, 28}, Date{2024, 3, 1})
		assert.NoError(t, err)
		assert.Equal(t, 3, days)
	})

	t.Run("inverted range fails", func(t *testing.T) {
		_, err := DaysBetween(Date{2026, 6, 14}, Date{2026, 6, 10})
		assert.Error(t, err)
	})

	t.Run("extending end grows count", func(t *testing.T) {
		start := Date{2026, 6, 1}
		prev := 0
		for i := 0; i < 40; i++ {
			days, err := DaysBetween(start, start.AddDays(i))
			assert.NoError(t, err)
			assert.Greater(t, days, prev)
			prev = days
		}
	})
}

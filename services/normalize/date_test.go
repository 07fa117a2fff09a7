package normalize

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseDate(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want time.Time
	}{
		{"plain", "20.01.2025", time.Date(2025, 1, 20, 0, 0, 0, 0, time.UTC)},
		{"weekday suffix", "20.01.2025 Пн", time.Date(2025, 1, 20, 0, 0, 0, 0, time.UTC)},
		{"glued suffix", "03.02.2025Вт", time.Date(2025, 2, 3, 0, 0, 0, 0, time.UTC)},
		{"leap day", "29.02.2024", time.Date(2024, 2, 29, 0, 0, 0, 0, time.UTC)},
		{"padded", "  01.12.2025 ", time.Date(2025, 12, 1, 0, 0, 0, 0, time.UTC)},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseDate(tt.in)
			require.NoError(t, err)
			assert.True(t, tt.want.Equal(got), "got %s", got)
			assert.Equal(t, time.UTC, got.Location())
		})
	}
}

func TestParseDate_Invalid(t *testing.T) {
	for _, in := range []string{"31.02.2025", "29.02.2025", "00.01.2025", "12.13.2025", "ВСЬОГО", "", "12.2025", "aa.bb.cccc"} {
		_, err := ParseDate(in)
		assert.ErrorIs(t, err, ErrInvalidDate, in)
	}
}

func TestLooksLikeDate(t *testing.T) {
	assert.True(t, LooksLikeDate("01.01.2025 Ср"))
	assert.False(t, LooksLikeDate("ВСЬОГО ЛК"))
	assert.False(t, LooksLikeDate(""))
}

func TestMonthRange(t *testing.T) {
	start, end, err := MonthRange(2, 2025)
	require.NoError(t, err)
	assert.Equal(t, time.Date(2025, 2, 1, 0, 0, 0, 0, time.UTC), start)
	assert.Equal(t, 28, end.Day())
	assert.Equal(t, time.February, end.Month())
	assert.Equal(t, 23, end.Hour())
	assert.Equal(t, 59, end.Second())

	inRange := func(d time.Time) bool { return !d.Before(start) && !d.After(end) }
	assert.True(t, inRange(time.Date(2025, 2, 28, 0, 0, 0, 0, time.UTC)))
	assert.True(t, inRange(time.Date(2025, 2, 28, 23, 59, 59, 0, time.UTC)))
	assert.False(t, inRange(time.Date(2025, 3, 1, 0, 0, 0, 0, time.UTC)))
	assert.False(t, inRange(time.Date(2025, 1, 31, 0, 0, 0, 0, time.UTC)))

	_, end, err = MonthRange(12, 2024)
	require.NoError(t, err)
	assert.Equal(t, 31, end.Day())
	assert.Equal(t, 2024, end.Year())

	_, _, err = MonthRange(13, 2024)
	assert.ErrorIs(t, err, ErrInvalidDate)
}

func TestParseMonth(t *testing.T) {
	m, y, err := ParseMonth("02.2025")
	require.NoError(t, err)
	assert.Equal(t, 2, m)
	assert.Equal(t, 2025, y)

	_, _, err = ParseMonth("2025-02")
	assert.ErrorIs(t, err, ErrInvalidDate)
	_, _, err = ParseMonth("13.2025")
	assert.ErrorIs(t, err, ErrInvalidDate)
}

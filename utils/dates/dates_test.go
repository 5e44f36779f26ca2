package dates

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseAndFormat(t *testing.T) {
	d, err := Parse("2024-02-29")
	require.NoError(t, err)
	assert.Equal(t, "2024-02-29", Format(d))

	_, err = Parse("29-02-2024")
	assert.Error(t, err)

	_, err = Parse("2023-02-29")
	assert.Error(t, err)
}

func TestWithinRange(t *testing.T) {
	from := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	to := time.Date(2024, 1, 3, 0, 0, 0, 0, time.UTC)

	assert.True(t, WithinRange(time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC), from, to))
	assert.True(t, WithinRange(time.Date(2024, 1, 3, 23, 59, 0, 0, time.UTC), from, to))
	assert.True(t, WithinRange(time.Date(2024, 1, 2, 12, 0, 0, 0, time.UTC), from, to))
	assert.False(t, WithinRange(time.Date(2024, 1, 4, 0, 0, 0, 0, time.UTC), from, to))
	assert.False(t, WithinRange(time.Date(2023, 12, 31, 0, 0, 0, 0, time.UTC), from, to))
}

func TestSameDay(t *testing.T) {
	morning := time.Date(2024, 5, 10, 8, 0, 0, 0, time.UTC)
	evening := time.Date(2024, 5, 10, 22, 30, 0, 0, time.UTC)
	nextDay := time.Date(2024, 5, 11, 0, 0, 0, 0, time.UTC)

	assert.True(t, SameDay(morning, evening))
	assert.False(t, SameDay(evening, nextDay))
}

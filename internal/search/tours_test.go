package search

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"tourly/internal/models"
)

func day(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func TestResolveOccurrence(t *testing.T) {
	idx := &TourIndex{}
	tour := &models.Tour{
		ID:           "tour-1",
		DurationDays: 5,
		Occurrences: []time.Time{
			day(2026, time.September, 10),
			day(2026, time.October, 1),
		},
	}

	start, err := idx.ResolveOccurrence(context.Background(), tour, day(2026, time.September, 10), day(2026, time.September, 14))
	require.NoError(t, err)
	assert.Equal(t, day(2026, time.September, 10), start)

	_, err = idx.ResolveOccurrence(context.Background(), tour, day(2026, time.September, 11), day(2026, time.September, 15))
	assert.Error(t, err)

	// Start matches but the range contradicts the tour duration
	_, err = idx.ResolveOccurrence(context.Background(), tour, day(2026, time.September, 10), day(2026, time.September, 15))
	assert.Error(t, err)
}

func TestResolveOccurrenceIgnoresTimeOfDay(t *testing.T) {
	idx := &TourIndex{}
	tour := &models.Tour{
		ID:          "tour-1",
		Occurrences: []time.Time{time.Date(2026, time.September, 10, 9, 30, 0, 0, time.UTC)},
	}

	start, err := idx.ResolveOccurrence(context.Background(), tour,
		day(2026, time.September, 10), day(2026, time.September, 10))
	require.NoError(t, err)
	assert.True(t, sameDay(start, day(2026, time.September, 10)))
}

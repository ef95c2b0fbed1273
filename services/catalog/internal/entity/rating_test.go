package entity

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSummarizeRatings_Empty(t *testing.T) {
	summary := SummarizeRatings(nil)

	assert.Equal(t, 0, summary.Total)
	assert.Equal(t, 0.0, summary.Average)
	assert.Len(t, summary.Breakdown, 5)
	assert.Equal(t, 5, summary.Breakdown[0].Star)
	assert.Equal(t, 1, summary.Breakdown[4].Star)
}

func TestSummarizeRatings(t *testing.T) {
	summary := SummarizeRatings(map[int]int{5: 2, 4: 1})

	assert.Equal(t, 3, summary.Total)
	assert.Equal(t, 4.7, summary.Average)
	assert.Equal(t, StarCount{Star: 5, Count: 2, Percent: 67}, summary.Breakdown[0])
	assert.Equal(t, StarCount{Star: 4, Count: 1, Percent: 33}, summary.Breakdown[1])
	assert.Equal(t, StarCount{Star: 1, Count: 0, Percent: 0}, summary.Breakdown[4])
}

func TestSummarizeRatings_IgnoresOutOfRange(t *testing.T) {
	summary := SummarizeRatings(map[int]int{3: 1, 9: 4})

	assert.Equal(t, 1, summary.Total)
	assert.Equal(t, 3.0, summary.Average)
}

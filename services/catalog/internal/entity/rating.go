package entity

import (
	"math"
	"time"
)

const (
	MinRating = 1
	MaxRating = 5
)

type Rating struct {
	ID        string    `json:"id"`
	VideoID   string    `json:"video_id"`
	BuyerID   string    `json:"buyer_id"`
	Rating    int       `json:"rating"`
	Review    string    `json:"review"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

type StarCount struct {
	Star    int `json:"star"`
	Count   int `json:"count"`
	Percent int `json:"percent"`
}

type RatingSummary struct {
	Average   float64     `json:"average"`
	Total     int         `json:"total"`
	Breakdown []StarCount `json:"breakdown"`
}

// SummarizeRatings builds the 5-to-1 star breakdown from per-star counts.
// Average is rounded to one decimal and percents to whole numbers.
func SummarizeRatings(counts map[int]int) RatingSummary {
	summary := RatingSummary{Breakdown: make([]StarCount, 0, MaxRating)}

	sum := 0
	for star := MinRating; star <= MaxRating; star++ {
		summary.Total += counts[star]
		sum += star * counts[star]
	}

	for star := MaxRating; star >= MinRating; star-- {
		entry := StarCount{Star: star, Count: counts[star]}
		if summary.Total > 0 {
			entry.Percent = int(math.Round(float64(entry.Count) * 100 / float64(summary.Total)))
		}
		summary.Breakdown = append(summary.Breakdown, entry)
	}

	if summary.Total > 0 {
		summary.Average = math.Round(float64(sum)/float64(summary.Total)*10) / 10
	}

	return summary
}

package models

import "fmt"

// Rating bounds
const (
	MinRating = 1
	MaxRating = 5
)

// Rating represents a single user's rating of a media item
type Rating struct {
	UserID int      `json:"userId"`
	Ref    MediaRef `json:"media"`
	Value  int      `json:"rating"`
}

// RatingStatus describes whether an average rating could be computed
type RatingStatus string

const (
	RatingAvailable   RatingStatus = "available"
	RatingNone        RatingStatus = "none"
	RatingUnavailable RatingStatus = "unavailable"
)

// AverageRating represents the mean rating of a media item
//
// Value is meaningful only when Status is RatingAvailable, so an item without ratings is never reported as 0.
type AverageRating struct {
	Status RatingStatus `json:"status"`
	Value  float64      `json:"average,omitempty"`
	Count  int          `json:"count"`
}

// String formats the average for display
func (a AverageRating) String() string {
	switch a.Status {
	case RatingAvailable:
		return fmt.Sprintf("%.1f/5.0", a.Value)
	case RatingNone:
		return "N/A"
	default:
		return "ERROR"
	}
}

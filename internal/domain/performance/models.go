package performance

import "errors"

const (
	MinRating = 1.0
	MaxRating = 5.0
)

var (
	ErrRatingOutOfRange = errors.New("rating must be between 1 and 5")
	ErrPeriodRequired   = errors.New("review period is required")
	ErrInvalidEmployee  = errors.New("invalid employee id")
)

type Review struct {
	ID         int64   `json:"id"`
	EmployeeID int64   `json:"employeeId"`
	ReviewerID int64   `json:"reviewerId"`
	Period     string  `json:"period"`
	Rating     float64 `json:"rating"`
	Comments   string  `json:"comments"`
}

type ReviewInput struct {
	Period   string  `json:"period" validate:"required,max=32"`
	Rating   float64 `json:"rating" validate:"gte=1,lte=5"`
	Comments string  `json:"comments" validate:"max=4000"`
}

type Summary struct {
	Count              int            `json:"count"`
	AverageRating      float64        `json:"averageRating"`
	Latest             *Review        `json:"latest,omitempty"`
	RatingDistribution map[string]int `json:"ratingDistribution"`
}

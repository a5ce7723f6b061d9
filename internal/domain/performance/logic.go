package performance

import (
	"math"
	"strconv"
	"strings"

	"hrportal/internal/domain/auth"
)

func (in ReviewInput) Validate() error {
	if strings.TrimSpace(in.Period) == "" {
		return ErrPeriodRequired
	}
	if math.IsNaN(in.Rating) || in.Rating < MinRating || in.Rating > MaxRating {
		return ErrRatingOutOfRange
	}
	return nil
}

// NewReview attributes the review to the reviewing principal.
func NewReview(employeeID int64, reviewer *auth.Principal, in ReviewInput) (Review, error) {
	if employeeID <= 0 {
		return Review{}, ErrInvalidEmployee
	}
	if err := in.Validate(); err != nil {
		return Review{}, err
	}
	r := Review{
		EmployeeID: employeeID,
		Period:     strings.TrimSpace(in.Period),
		Rating:     in.Rating,
		Comments:   strings.TrimSpace(in.Comments),
	}
	if reviewer != nil {
		r.ReviewerID = reviewer.UserID
	}
	return r, nil
}

// Summarize reports the review count, mean rating to two decimals, the most
// recent review by period and a histogram of ratings rounded to whole stars.
func Summarize(reviews []Review) Summary {
	summary := Summary{RatingDistribution: map[string]int{}}
	if len(reviews) == 0 {
		return summary
	}
	var total float64
	var latest Review
	for i, r := range reviews {
		total += r.Rating
		bucket := int(math.Round(r.Rating))
		if bucket < int(MinRating) {
			bucket = int(MinRating)
		}
		if bucket > int(MaxRating) {
			bucket = int(MaxRating)
		}
		summary.RatingDistribution[strconv.Itoa(bucket)]++
		if i == 0 || r.Period > latest.Period || (r.Period == latest.Period && r.ID > latest.ID) {
			latest = r
		}
	}
	summary.Count = len(reviews)
	summary.AverageRating = math.Round(total/float64(len(reviews))*100) / 100
	summary.Latest = &latest
	return summary
}

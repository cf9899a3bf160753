package models

import (
	"time"
	"unicode/utf8"
)

// ReviewEditWindow is how long an author may edit their own review.
const ReviewEditWindow = 24 * time.Hour

// MinReviewLength is the minimum review text length in characters.
const MinReviewLength = 10

// Review is a participant's rating of an ended item
type Review struct {
	ID        int64     `json:"id"`
	ItemID    int64     `json:"item_id"`
	UserID    string    `json:"user_id"`
	User      string    `json:"user"` // Author display name at the time of writing
	Avatar    string    `json:"avatar"`
	Text      string    `json:"text"`
	Rating    int       `json:"rating"`
	Date      string    `json:"date"` // ko-KR display date, e.g. "2025. 3. 14."
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// ReviewCreate is the request body for writing a review
type ReviewCreate struct {
	ItemID int64  `json:"item_id"`
	Text   string `json:"text"`
	Rating int    `json:"rating"`
}

// ReviewUpdate is the request body for editing a review
type ReviewUpdate struct {
	Text   *string `json:"text,omitempty"`
	Rating *int    `json:"rating,omitempty"`
}

// ValidateReview checks text length and rating range.
func ValidateReview(text string, rating int) string {
	if utf8.RuneCountInString(text) < MinReviewLength {
		return "review must be at least 10 characters"
	}
	if rating < 1 || rating > 5 {
		return "rating must be between 1 and 5"
	}
	return ""
}

// kst is Korea Standard Time. Korea observes no daylight saving.
var kst = time.FixedZone("KST", 9*60*60)

// ReviewDate formats t the way the ko-KR locale prints a short date, on the
// Korean calendar day.
func ReviewDate(t time.Time) string {
	return t.In(kst).Format("2006. 1. 2.")
}

package models

import "time"

// MasteryLevel represents how far a word has progressed through review
type MasteryLevel string

const (
	// MasteryNew means the word has never been reviewed
	MasteryNew MasteryLevel = "new"
	// MasteryLearning means the word is in the early review cycle
	MasteryLearning MasteryLevel = "learning"
	// MasteryReview means the word has survived several reviews at growing intervals
	MasteryReview MasteryLevel = "review"
	// MasteryMastered means the word reached the long-interval threshold
	MasteryMastered MasteryLevel = "mastered"
)

// DefaultEaseFactor is the SM-2 starting ease for a word that has never
// been reviewed.
const DefaultEaseFactor = 2.5

// MasteryRecord tracks the learner's scheduling state for a single word.
// A record holds the invariant: ReviewCount == 0 exactly when Level is new
// and NextReviewDate is nil.
type MasteryRecord struct {
	ID             int          `json:"id" db:"id"`
	WordID         int          `json:"word_id" db:"word_id"`
	Level          MasteryLevel `json:"level" db:"level"`
	ReviewCount    int          `json:"review_count" db:"review_count"`
	IntervalDays   int          `json:"interval_days" db:"interval_days"` // Days until next due date, 0 = due today
	EaseFactor     float64      `json:"ease_factor" db:"ease_factor"`     // SM-2 EF parameter, never below 1.3
	LastReviewDate *time.Time   `json:"last_review_date" db:"last_review_date"`
	NextReviewDate *time.Time   `json:"next_review_date" db:"next_review_date"` // nil = never reviewed, due now
	CreatedAt      time.Time    `json:"created_at" db:"created_at"`
	UpdatedAt      time.Time    `json:"updated_at" db:"updated_at"`
}

// NewMasteryRecord returns the baseline record for a word that has never
// been reviewed
func NewMasteryRecord(wordID int) MasteryRecord {
	return MasteryRecord{
		WordID:     wordID,
		Level:      MasteryNew,
		EaseFactor: DefaultEaseFactor,
	}
}

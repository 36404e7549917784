package srs

import (
	"math"
	"time"

	"github.com/example/storyvocab/pkg/models"
)

// Quality represents how well the learner recalled a word during review
type Quality int

const (
	// QualityAgain means the learner failed to recall the word
	QualityAgain Quality = iota
	// QualityHard means the word was recalled with significant effort
	QualityHard
	// QualityGood means the word was recalled correctly
	QualityGood
	// QualityEasy means the word was recalled quickly and without effort
	QualityEasy
)

// Scheduler implements an SM-2 style spaced repetition algorithm. All
// thresholds are exported fields so callers can tune the policy without
// touching the transition logic.
type Scheduler struct {
	// Lower bound for the ease factor
	MinEaseFactor float64
	// Ease penalty applied on a failed review
	AgainEasePenalty float64
	// Ease penalty applied on a hard review
	HardEasePenalty float64
	// Ease bonus applied on an easy review
	EasyEaseBonus float64
	// Interval growth multiplier for hard reviews
	HardIntervalFactor float64
	// Extra interval multiplier for easy reviews, on top of the ease factor
	EasyIntervalBonus float64
	// Minimum successful reviews before a word can reach the review level
	ReviewMinReviews int
	// Minimum interval in days before a word can reach the review level
	ReviewMinIntervalDays int
	// Interval in days at which a word counts as mastered
	MasteredIntervalDays int
}

// New creates a scheduler with the default policy
func New() *Scheduler {
	return &Scheduler{
		MinEaseFactor:         1.3,
		AgainEasePenalty:      0.2,
		HardEasePenalty:       0.05,
		EasyEaseBonus:         0.15,
		HardIntervalFactor:    1.2,
		EasyIntervalBonus:     1.3,
		ReviewMinReviews:      3,
		ReviewMinIntervalDays: 7,
		MasteredIntervalDays:  21,
	}
}

// Milestone marks a word crossing into a higher mastery level during a
// review. Callers decide how to surface it (toast, achievement, log).
type Milestone struct {
	WordID int
	From   models.MasteryLevel
	To     models.MasteryLevel
}

// IsDue reports whether a word should be offered for review. Words that
// have never been reviewed are always due.
func (s *Scheduler) IsDue(record models.MasteryRecord, now time.Time) bool {
	if record.NextReviewDate == nil {
		return true
	}
	return !record.NextReviewDate.After(now)
}

// IsMastered reports whether the word reached the mastered level
func (s *Scheduler) IsMastered(record models.MasteryRecord) bool {
	return record.Level == models.MasteryMastered
}

// Process applies a review response to a record and returns the updated
// record. The input record is not modified. A non-nil Milestone is
// returned when the word was promoted to the review or mastered level.
func (s *Scheduler) Process(record models.MasteryRecord, quality Quality, now time.Time) (models.MasteryRecord, *Milestone) {
	updated := record
	previousLevel := record.Level

	switch quality {
	case QualityAgain:
		// Failed recall: drop back to learning and schedule immediately
		updated.Level = models.MasteryLearning
		updated.IntervalDays = 0
		updated.EaseFactor = s.clampEase(updated.EaseFactor - s.AgainEasePenalty)

	case QualityHard:
		updated.IntervalDays = maxInt(1, roundToDays(float64(updated.IntervalDays)*s.HardIntervalFactor))
		updated.EaseFactor = s.clampEase(updated.EaseFactor - s.HardEasePenalty)
		if updated.Level == models.MasteryNew || updated.Level == models.MasteryLearning {
			updated.Level = models.MasteryLearning
		}

	case QualityGood, QualityEasy:
		if record.ReviewCount == 0 {
			// First success graduates the word to a one-day interval
			updated.IntervalDays = 1
		} else {
			growth := updated.EaseFactor
			if quality == QualityEasy {
				growth *= s.EasyIntervalBonus
			}
			updated.IntervalDays = maxInt(1, roundToDays(float64(updated.IntervalDays)*growth))
		}
		if quality == QualityEasy {
			updated.EaseFactor = updated.EaseFactor + s.EasyEaseBonus
		}
		updated.Level = s.promote(updated.Level, updated.ReviewCount+1, updated.IntervalDays)
	}

	updated.ReviewCount = record.ReviewCount + 1
	updated.LastReviewDate = timePtr(now)
	updated.NextReviewDate = timePtr(now.AddDate(0, 0, updated.IntervalDays))

	var milestone *Milestone
	if updated.Level != previousLevel &&
		(updated.Level == models.MasteryReview || updated.Level == models.MasteryMastered) {
		milestone = &Milestone{WordID: updated.WordID, From: previousLevel, To: updated.Level}
	}
	return updated, milestone
}

// Reset returns the record to the never-reviewed baseline, discarding all
// scheduling history. Used for explicit "start over" actions only.
func (s *Scheduler) Reset(record models.MasteryRecord) models.MasteryRecord {
	updated := record
	updated.Level = models.MasteryNew
	updated.ReviewCount = 0
	updated.IntervalDays = 0
	updated.EaseFactor = models.DefaultEaseFactor
	updated.LastReviewDate = nil
	updated.NextReviewDate = nil
	return updated
}

// Mastery percentage bands per level
const (
	learningBandMax = 60
	reviewBandMin   = 61
	reviewBandMax   = 89
)

// MasteryPercentage maps a record onto a 0-100 progress value for display.
// It is 100 exactly when the word is mastered, grows with the interval
// inside each band, and never decreases across a successful review.
func (s *Scheduler) MasteryPercentage(record models.MasteryRecord) int {
	switch record.Level {
	case models.MasteryNew:
		return 0
	case models.MasteryLearning:
		pct := record.IntervalDays * learningBandMax / s.ReviewMinIntervalDays
		if pct > learningBandMax {
			pct = learningBandMax
		}
		return pct
	case models.MasteryReview:
		span := s.MasteredIntervalDays - s.ReviewMinIntervalDays
		pct := reviewBandMin
		if span > 0 {
			pct += (record.IntervalDays - s.ReviewMinIntervalDays) * (reviewBandMax - reviewBandMin) / span
		}
		if pct < reviewBandMin {
			pct = reviewBandMin
		}
		if pct > reviewBandMax {
			pct = reviewBandMax
		}
		return pct
	case models.MasteryMastered:
		return 100
	}
	return 0
}

// promote returns the level a word should hold after a successful review
func (s *Scheduler) promote(level models.MasteryLevel, reviewCount, intervalDays int) models.MasteryLevel {
	if reviewCount >= s.ReviewMinReviews && intervalDays >= s.MasteredIntervalDays {
		return models.MasteryMastered
	}
	if reviewCount >= s.ReviewMinReviews && intervalDays >= s.ReviewMinIntervalDays {
		if level == models.MasteryMastered {
			return level
		}
		return models.MasteryReview
	}
	if level == models.MasteryNew {
		return models.MasteryLearning
	}
	return level
}

func (s *Scheduler) clampEase(ease float64) float64 {
	if ease < s.MinEaseFactor {
		return s.MinEaseFactor
	}
	return ease
}

func roundToDays(days float64) int {
	return int(math.Round(days))
}

func maxInt(a, b int) int {
	if a > b {
		return a
	}
	return b
}

func timePtr(t time.Time) *time.Time {
	return &t
}

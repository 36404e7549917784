package stats

import (
	"fmt"
	"time"

	"github.com/example/storyvocab/internal/quiz"
	"github.com/example/storyvocab/internal/srs"
	"github.com/example/storyvocab/internal/unlock"
	"github.com/example/storyvocab/pkg/models"
)

// DefaultDailyGoal is the number of reviews per day the dashboard tracks
// the learner against
const DefaultDailyGoal = 20

// Summary is a point-in-time rollup of the learner's vocabulary state
type Summary struct {
	TotalWords    int
	UnlockedWords int
	MasteredWords int
	DueWords      int // Unlocked and due for review
	LevelCounts   map[models.MasteryLevel]int
	ReviewsToday  int
	DailyGoal     int
}

// GoalProgress returns today's review progress as a fraction of the daily
// goal, capped at 1.0
func (s Summary) GoalProgress() float64 {
	if s.DailyGoal <= 0 {
		return 0
	}
	progress := float64(s.ReviewsToday) / float64(s.DailyGoal)
	if progress > 1 {
		return 1
	}
	return progress
}

// Aggregator computes read-only dashboard rollups. It never mutates any
// record; results are recomputed on every call.
type Aggregator struct {
	words     quiz.WordSource
	store     quiz.MasteryStore
	scheduler *srs.Scheduler
	gate      *unlock.Gate
	// DailyGoal is the review target used for goal progress
	DailyGoal int
}

// New creates an aggregator with the default daily goal
func New(words quiz.WordSource, store quiz.MasteryStore, scheduler *srs.Scheduler, gate *unlock.Gate) *Aggregator {
	return &Aggregator{
		words:     words,
		store:     store,
		scheduler: scheduler,
		gate:      gate,
		DailyGoal: DefaultDailyGoal,
	}
}

// Compute builds the summary as of now
func (a *Aggregator) Compute(now time.Time) (Summary, error) {
	words, err := a.words.ListAll()
	if err != nil {
		return Summary{}, fmt.Errorf("failed to list words: %v", err)
	}

	summary := Summary{
		TotalWords:  len(words),
		LevelCounts: make(map[models.MasteryLevel]int),
		DailyGoal:   a.DailyGoal,
	}

	today := now.Truncate(24 * time.Hour)
	for _, word := range words {
		memberships, err := a.words.Membership(word.ID)
		if err != nil {
			return Summary{}, fmt.Errorf("failed to get membership for word %d: %v", word.ID, err)
		}
		record, err := a.store.Load(word.ID)
		if err != nil {
			return Summary{}, fmt.Errorf("failed to load mastery record for word %d: %v", word.ID, err)
		}

		summary.LevelCounts[record.Level]++
		if a.scheduler.IsMastered(record) {
			summary.MasteredWords++
		}
		if record.LastReviewDate != nil && !record.LastReviewDate.Before(today) {
			summary.ReviewsToday++
		}
		if a.gate.IsUnlocked(word, memberships) {
			summary.UnlockedWords++
			if a.scheduler.IsDue(record, now) {
				summary.DueWords++
			}
		}
	}
	return summary, nil
}

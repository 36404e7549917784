package database

import (
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/example/storyvocab/pkg/models"
)

// MasteryRepository handles database operations for mastery records. A
// mutex serializes writes: the app has a single learner, so per-record
// locking would buy nothing over a global guard.
type MasteryRepository struct {
	mu sync.Mutex
}

// NewMasteryRepository creates a new repository instance
func NewMasteryRepository() *MasteryRepository {
	return &MasteryRepository{}
}

// Load returns the record for a word. Records are created lazily on first
// review, so a missing row yields the never-reviewed baseline rather than
// an error.
func (r *MasteryRepository) Load(wordID int) (models.MasteryRecord, error) {
	query := "SELECT * FROM mastery_records WHERE word_id = ?"
	if DB.DriverName() == "postgres" {
		query = strings.Replace(query, "?", "$1", -1)
	}

	var record models.MasteryRecord
	err := DB.Get(&record, query, wordID)
	if errors.Is(err, sql.ErrNoRows) {
		return models.NewMasteryRecord(wordID), nil
	}
	if err != nil {
		return models.MasteryRecord{}, fmt.Errorf("failed to load mastery record: %v", err)
	}
	return record, nil
}

// Save upserts the record for a word
func (r *MasteryRepository) Save(record models.MasteryRecord) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if DB.DriverName() == "postgres" {
		query := `
			INSERT INTO mastery_records (
				word_id, level, review_count, interval_days, ease_factor,
				last_review_date, next_review_date
			) VALUES ($1, $2, $3, $4, $5, $6, $7)
			ON CONFLICT (word_id) DO UPDATE SET
				level = EXCLUDED.level,
				review_count = EXCLUDED.review_count,
				interval_days = EXCLUDED.interval_days,
				ease_factor = EXCLUDED.ease_factor,
				last_review_date = EXCLUDED.last_review_date,
				next_review_date = EXCLUDED.next_review_date,
				updated_at = NOW()
		`
		_, err := DB.Exec(
			query,
			record.WordID,
			record.Level,
			record.ReviewCount,
			record.IntervalDays,
			record.EaseFactor,
			record.LastReviewDate,
			record.NextReviewDate,
		)
		if err != nil {
			return fmt.Errorf("failed to save mastery record: %v", err)
		}
		return nil
	}

	query := `
		INSERT INTO mastery_records (
			word_id, level, review_count, interval_days, ease_factor,
			last_review_date, next_review_date, created_at, updated_at
		) VALUES (?, ?, ?, ?, ?, ?, ?, CURRENT_TIMESTAMP, CURRENT_TIMESTAMP)
		ON CONFLICT (word_id) DO UPDATE SET
			level = excluded.level,
			review_count = excluded.review_count,
			interval_days = excluded.interval_days,
			ease_factor = excluded.ease_factor,
			last_review_date = excluded.last_review_date,
			next_review_date = excluded.next_review_date,
			updated_at = CURRENT_TIMESTAMP
	`
	_, err := DB.Exec(
		query,
		record.WordID,
		record.Level,
		record.ReviewCount,
		record.IntervalDays,
		record.EaseFactor,
		record.LastReviewDate,
		record.NextReviewDate,
	)
	if err != nil {
		return fmt.Errorf("failed to save mastery record: %v", err)
	}
	return nil
}

// CountDueBefore returns how many reviewed words are due at the given
// instant. Used by the reminder job; never-reviewed words are not counted
// because they have no row yet.
func (r *MasteryRepository) CountDueBefore(now time.Time) (int, error) {
	query := "SELECT COUNT(*) FROM mastery_records WHERE next_review_date IS NOT NULL AND next_review_date <= ?"
	if DB.DriverName() == "postgres" {
		query = strings.Replace(query, "?", "$1", -1)
	}

	var count int
	if err := DB.Get(&count, query, now); err != nil {
		return 0, fmt.Errorf("failed to count due words: %v", err)
	}
	return count, nil
}

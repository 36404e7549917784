package database

import (
	"fmt"
	"strings"

	"github.com/example/storyvocab/pkg/models"
)

// SessionRepository handles database operations for finished quiz sessions
type SessionRepository struct{}

// NewSessionRepository creates a new repository instance
func NewSessionRepository() *SessionRepository {
	return &SessionRepository{}
}

// Create records the outcome of a finished session
func (r *SessionRepository) Create(result *models.SessionResult) error {
	if DB.DriverName() == "postgres" {
		query := `
			INSERT INTO session_results (
				session_id, total_questions, correct_answers, score, best_streak, duration, finished_at
			) VALUES ($1, $2, $3, $4, $5, $6, $7)
			RETURNING id, created_at
		`
		return DB.QueryRow(
			query,
			result.SessionID,
			result.TotalQuestions,
			result.CorrectAnswers,
			result.Score,
			result.BestStreak,
			result.Duration,
			result.FinishedAt,
		).Scan(&result.ID, &result.CreatedAt)
	}

	query := `
		INSERT INTO session_results (
			session_id, total_questions, correct_answers, score, best_streak, duration, finished_at
		) VALUES (?, ?, ?, ?, ?, ?, ?)
	`
	res, err := DB.Exec(
		query,
		result.SessionID,
		result.TotalQuestions,
		result.CorrectAnswers,
		result.Score,
		result.BestStreak,
		result.Duration,
		result.FinishedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to save session result: %v", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return fmt.Errorf("failed to get last insert ID: %v", err)
	}
	result.ID = int(id)
	return nil
}

// GetRecent returns the most recently finished sessions, newest first
func (r *SessionRepository) GetRecent(limit int) ([]models.SessionResult, error) {
	query := "SELECT * FROM session_results ORDER BY finished_at DESC LIMIT ?"
	if DB.DriverName() == "postgres" {
		query = strings.Replace(query, "?", "$1", -1)
	}

	var results []models.SessionResult
	if err := DB.Select(&results, query, limit); err != nil {
		return nil, fmt.Errorf("failed to get recent sessions: %v", err)
	}
	return results, nil
}

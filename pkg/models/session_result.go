package models

import "time"

// SessionResult records the outcome of a finished quiz session
type SessionResult struct {
	ID             int       `json:"id" db:"id"`
	SessionID      string    `json:"session_id" db:"session_id"`
	TotalQuestions int       `json:"total_questions" db:"total_questions"`
	CorrectAnswers int       `json:"correct_answers" db:"correct_answers"`
	Score          int       `json:"score" db:"score"`
	BestStreak     int       `json:"best_streak" db:"best_streak"`
	Duration       int       `json:"duration" db:"duration"` // Duration in seconds
	FinishedAt     time.Time `json:"finished_at" db:"finished_at"`
	CreatedAt      time.Time `json:"created_at" db:"created_at"`
}

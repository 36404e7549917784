package quiz

import (
	"time"

	"github.com/example/storyvocab/pkg/models"
)

// SessionState represents the lifecycle state of a quiz session
type SessionState string

const (
	// StateIdle means no session is in progress
	StateIdle SessionState = "idle"
	// StateActive means the session has unanswered questions remaining
	StateActive SessionState = "active"
	// StateComplete means every question has been answered and advanced past
	StateComplete SessionState = "complete"
)

// Question is a single multiple-choice question within a session
type Question struct {
	Word          models.Word
	Options       []string // Shuffled candidate meanings, including the correct one
	CorrectAnswer string
}

// Session holds the state of one quiz run. It is owned by the caller that
// started it and is only mutated through the engine's methods.
type Session struct {
	ID             string
	Questions      []Question
	CurrentIndex   int
	SelectedOption string
	Answered       bool
	Score          int
	CurrentStreak  int
	BestStreak     int
	CorrectAnswers int
	State          SessionState
	StartedAt      time.Time

	// questionShownAt feeds the fast-answer grading refinement
	questionShownAt time.Time
	lastResult      *AnswerResult
}

// CurrentQuestion returns the question at the cursor. The second return
// value is false when the session has no remaining question.
func (s *Session) CurrentQuestion() (Question, bool) {
	if s.State != StateActive || s.CurrentIndex >= len(s.Questions) {
		return Question{}, false
	}
	return s.Questions[s.CurrentIndex], true
}

// Result summarizes a session for persistence or display
func (s *Session) Result(finishedAt time.Time) models.SessionResult {
	duration := int(finishedAt.Sub(s.StartedAt).Seconds())
	if duration < 0 {
		duration = 0
	}
	return models.SessionResult{
		SessionID:      s.ID,
		TotalQuestions: len(s.Questions),
		CorrectAnswers: s.CorrectAnswers,
		Score:          s.Score,
		BestStreak:     s.BestStreak,
		Duration:       duration,
		FinishedAt:     finishedAt,
	}
}

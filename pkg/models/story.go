package models

import "time"

// Story represents a short bilingual story that carries vocabulary
type Story struct {
	ID              int64     `json:"id" db:"id"`
	Title           string    `json:"title" db:"title"`
	Level           int       `json:"level" db:"level"`                       // 1-5 difficulty level of the story
	ReadingProgress float64   `json:"reading_progress" db:"reading_progress"` // Fraction read, 0.0-1.0
	CreatedAt       time.Time `json:"created_at" db:"created_at"`
	UpdatedAt       time.Time `json:"updated_at" db:"updated_at"`
}

// StoryMembership describes one story that owns a word, from the word's
// point of view: how far the learner has read it and whether the word was
// explicitly marked learned within it.
type StoryMembership struct {
	StoryID         int64   `json:"story_id" db:"story_id"`
	StoryTitle      string  `json:"story_title" db:"story_title"`
	ReadingProgress float64 `json:"reading_progress" db:"reading_progress"`
	Learned         bool    `json:"learned" db:"learned"`
}

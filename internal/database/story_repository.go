package database

import (
	"fmt"
	"strings"

	"github.com/example/storyvocab/pkg/models"
)

// StoryRepository handles database operations for stories and their word
// membership
type StoryRepository struct{}

// NewStoryRepository creates a new repository instance
func NewStoryRepository() *StoryRepository {
	return &StoryRepository{}
}

// GetAll returns all stories
func (r *StoryRepository) GetAll() ([]models.Story, error) {
	var stories []models.Story
	err := DB.Select(&stories, "SELECT * FROM stories ORDER BY level, id")
	if err != nil {
		return nil, fmt.Errorf("failed to get stories: %v", err)
	}
	return stories, nil
}

// GetByID returns a story by ID
func (r *StoryRepository) GetByID(id int64) (*models.Story, error) {
	query := "SELECT * FROM stories WHERE id = ?"
	if DB.DriverName() == "postgres" {
		query = strings.Replace(query, "?", "$1", -1)
	}

	var story models.Story
	if err := DB.Get(&story, query, id); err != nil {
		return nil, fmt.Errorf("failed to get story by ID: %v", err)
	}
	return &story, nil
}

// Create inserts a new story
func (r *StoryRepository) Create(story *models.Story) error {
	if DB.DriverName() == "postgres" {
		query := `
			INSERT INTO stories (title, level, reading_progress)
			VALUES ($1, $2, $3)
			RETURNING id, created_at, updated_at
		`
		return DB.QueryRow(query, story.Title, story.Level, story.ReadingProgress).
			Scan(&story.ID, &story.CreatedAt, &story.UpdatedAt)
	}

	result, err := DB.Exec(
		"INSERT INTO stories (title, level, reading_progress) VALUES (?, ?, ?)",
		story.Title, story.Level, story.ReadingProgress,
	)
	if err != nil {
		return fmt.Errorf("failed to create story: %v", err)
	}
	id, err := result.LastInsertId()
	if err != nil {
		return fmt.Errorf("failed to get last insert ID: %v", err)
	}
	story.ID = id
	return nil
}

// GetOrCreateByTitle finds a story by title, creating it at the given
// level when missing. Used by the importer.
func (r *StoryRepository) GetOrCreateByTitle(title string, level int) (*models.Story, error) {
	query := "SELECT * FROM stories WHERE title = ?"
	if DB.DriverName() == "postgres" {
		query = strings.Replace(query, "?", "$1", -1)
	}

	var story models.Story
	err := DB.Get(&story, query, title)
	if err == nil {
		return &story, nil
	}

	story = models.Story{Title: title, Level: level}
	if err := r.Create(&story); err != nil {
		return nil, err
	}
	return &story, nil
}

// AddWord attaches a word to a story, ignoring duplicates
func (r *StoryRepository) AddWord(storyID int64, wordID int) error {
	query := "INSERT INTO story_words (story_id, word_id) VALUES (?, ?) ON CONFLICT (story_id, word_id) DO NOTHING"
	if DB.DriverName() == "postgres" {
		query = "INSERT INTO story_words (story_id, word_id) VALUES ($1, $2) ON CONFLICT (story_id, word_id) DO NOTHING"
	}

	if _, err := DB.Exec(query, storyID, wordID); err != nil {
		return fmt.Errorf("failed to attach word to story: %v", err)
	}
	return nil
}

// UpdateReadingProgress stores the learner's reading position for a story
// as a fraction in [0, 1]
func (r *StoryRepository) UpdateReadingProgress(storyID int64, progress float64) error {
	if progress < 0 {
		progress = 0
	}
	if progress > 1 {
		progress = 1
	}

	query := "UPDATE stories SET reading_progress = ?, updated_at = CURRENT_TIMESTAMP WHERE id = ?"
	if DB.DriverName() == "postgres" {
		query = "UPDATE stories SET reading_progress = $1, updated_at = NOW() WHERE id = $2"
	}

	if _, err := DB.Exec(query, progress, storyID); err != nil {
		return fmt.Errorf("failed to update reading progress: %v", err)
	}
	return nil
}

// MarkLearned flags a word as explicitly learned within a story, which
// unlocks it regardless of reading progress
func (r *StoryRepository) MarkLearned(storyID int64, wordID int) error {
	query := "INSERT INTO learned_words (story_id, word_id) VALUES (?, ?) ON CONFLICT (story_id, word_id) DO NOTHING"
	if DB.DriverName() == "postgres" {
		query = "INSERT INTO learned_words (story_id, word_id) VALUES ($1, $2) ON CONFLICT (story_id, word_id) DO NOTHING"
	}

	if _, err := DB.Exec(query, storyID, wordID); err != nil {
		return fmt.Errorf("failed to mark word learned: %v", err)
	}
	return nil
}

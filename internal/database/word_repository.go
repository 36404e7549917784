package database

import (
	"fmt"
	"strings"

	"github.com/example/storyvocab/pkg/models"
)

// WordRepository handles database operations for words
type WordRepository struct{}

// NewWordRepository creates a new repository instance
func NewWordRepository() *WordRepository {
	return &WordRepository{}
}

// ListAll returns all words
func (r *WordRepository) ListAll() ([]models.Word, error) {
	var words []models.Word
	err := DB.Select(&words, "SELECT * FROM words ORDER BY id")
	if err != nil {
		return nil, fmt.Errorf("failed to get words: %v", err)
	}
	return words, nil
}

// GetByID returns a word by ID
func (r *WordRepository) GetByID(id int) (*models.Word, error) {
	var word models.Word
	query := "SELECT * FROM words WHERE id = ?"
	if DB.DriverName() == "postgres" {
		query = strings.Replace(query, "?", "$1", -1)
	}
	err := DB.Get(&word, query, id)
	if err != nil {
		return nil, fmt.Errorf("failed to get word by ID: %v", err)
	}
	return &word, nil
}

// Membership returns, for one word, every owning story together with its
// reading progress and whether the word was explicitly marked learned in
// that story. An empty result means the word belongs to no story.
func (r *WordRepository) Membership(wordID int) ([]models.StoryMembership, error) {
	query := `
		SELECT s.id AS story_id,
		       s.title AS story_title,
		       s.reading_progress AS reading_progress,
		       CASE WHEN lw.id IS NULL THEN 0 ELSE 1 END AS learned
		FROM story_words sw
		JOIN stories s ON s.id = sw.story_id
		LEFT JOIN learned_words lw ON lw.story_id = sw.story_id AND lw.word_id = sw.word_id
		WHERE sw.word_id = ?
		ORDER BY s.id
	`
	if DB.DriverName() == "postgres" {
		query = strings.Replace(query, "?", "$1", -1)
	}

	var memberships []models.StoryMembership
	err := DB.Select(&memberships, query, wordID)
	if err != nil {
		return nil, fmt.Errorf("failed to get story membership: %v", err)
	}
	return memberships, nil
}

// Create inserts a new word
func (r *WordRepository) Create(word *models.Word) error {
	if DB.DriverName() == "postgres" {
		query := `
			INSERT INTO words (arabic_text, english_meaning, part_of_speech, root_letters, difficulty)
			VALUES ($1, $2, $3, $4, $5)
			RETURNING id, created_at, updated_at
		`
		return DB.QueryRow(
			query,
			word.ArabicText,
			word.EnglishMeaning,
			word.PartOfSpeech,
			word.RootLetters,
			word.Difficulty,
		).Scan(&word.ID, &word.CreatedAt, &word.UpdatedAt)
	}

	// SQLite path without RETURNING
	query := `
		INSERT INTO words (arabic_text, english_meaning, part_of_speech, root_letters, difficulty, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, CURRENT_TIMESTAMP, CURRENT_TIMESTAMP)
	`
	result, err := DB.Exec(
		query,
		word.ArabicText,
		word.EnglishMeaning,
		word.PartOfSpeech,
		word.RootLetters,
		word.Difficulty,
	)
	if err != nil {
		return fmt.Errorf("failed to create word: %v", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return fmt.Errorf("failed to get last insert ID: %v", err)
	}
	word.ID = int(id)
	return nil
}

// Update modifies an existing word
func (r *WordRepository) Update(word *models.Word) error {
	query := `
		UPDATE words SET
			arabic_text = ?,
			english_meaning = ?,
			part_of_speech = ?,
			root_letters = ?,
			difficulty = ?,
			updated_at = CURRENT_TIMESTAMP
		WHERE id = ?
	`
	if DB.DriverName() == "postgres" {
		query = `
			UPDATE words SET
				arabic_text = $1,
				english_meaning = $2,
				part_of_speech = $3,
				root_letters = $4,
				difficulty = $5,
				updated_at = NOW()
			WHERE id = $6
		`
	}

	_, err := DB.Exec(
		query,
		word.ArabicText,
		word.EnglishMeaning,
		word.PartOfSpeech,
		word.RootLetters,
		word.Difficulty,
		word.ID,
	)
	if err != nil {
		return fmt.Errorf("failed to update word: %v", err)
	}
	return nil
}

// Delete removes a word
func (r *WordRepository) Delete(id int) error {
	query := "DELETE FROM words WHERE id = ?"
	if DB.DriverName() == "postgres" {
		query = "DELETE FROM words WHERE id = $1"
	}

	_, err := DB.Exec(query, id)
	if err != nil {
		return fmt.Errorf("failed to delete word: %v", err)
	}
	return nil
}

// Search finds words by pattern matching on the Arabic text or the
// English meaning
func (r *WordRepository) Search(query string) ([]models.Word, error) {
	pattern := "%" + query + "%"
	var words []models.Word

	if DB.DriverName() == "postgres" {
		sqlQuery := `
			SELECT * FROM words
			WHERE arabic_text ILIKE $1 OR english_meaning ILIKE $1
			ORDER BY id
		`
		if err := DB.Select(&words, sqlQuery, pattern); err != nil {
			return nil, fmt.Errorf("failed to search words: %v", err)
		}
		return words, nil
	}

	sqlQuery := `
		SELECT * FROM words
		WHERE arabic_text LIKE ? OR LOWER(english_meaning) LIKE LOWER(?)
		ORDER BY id
	`
	if err := DB.Select(&words, sqlQuery, pattern, pattern); err != nil {
		return nil, fmt.Errorf("failed to search words: %v", err)
	}
	return words, nil
}

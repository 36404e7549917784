package database

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq"
	_ "github.com/mattn/go-sqlite3"
)

// DB is the global database connection
var DB *sqlx.DB

// Connect establishes a connection to the database. DB_TYPE=postgres uses
// DATABASE_URL; anything else opens a local SQLite file at DATABASE_PATH
// (default data/storyvocab.db).
func Connect() error {
	if os.Getenv("DB_TYPE") == "postgres" {
		db, err := sqlx.Connect("postgres", os.Getenv("DATABASE_URL"))
		if err != nil {
			return fmt.Errorf("failed to connect to postgres: %v", err)
		}
		DB = db
		return initializeSchema()
	}

	dbPath := os.Getenv("DATABASE_PATH")
	if dbPath == "" {
		dataDir := "data"
		if err := os.MkdirAll(dataDir, 0755); err != nil {
			return fmt.Errorf("failed to create data directory: %v", err)
		}
		dbPath = filepath.Join(dataDir, "storyvocab.db")
	}

	db, err := sqlx.Connect("sqlite3", dbPath)
	if err != nil {
		return fmt.Errorf("failed to connect to database: %v", err)
	}

	// Enable foreign keys
	if _, err := db.Exec("PRAGMA foreign_keys = ON"); err != nil {
		return fmt.Errorf("failed to enable foreign keys: %v", err)
	}

	// SQLite doesn't support multiple writers
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)

	DB = db
	return initializeSchema()
}

// Close closes the database connection
func Close() error {
	if DB != nil {
		return DB.Close()
	}
	return nil
}

// initializeSchema creates necessary tables if they don't exist
func initializeSchema() error {
	serial := "INTEGER PRIMARY KEY AUTOINCREMENT"
	if DB.DriverName() == "postgres" {
		serial = "SERIAL PRIMARY KEY"
	}

	statements := []string{
		fmt.Sprintf(`
			CREATE TABLE IF NOT EXISTS words (
				id %s,
				arabic_text TEXT NOT NULL,
				english_meaning TEXT NOT NULL,
				part_of_speech TEXT NOT NULL DEFAULT 'noun',
				root_letters TEXT DEFAULT '',
				difficulty INTEGER DEFAULT 1,
				created_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP,
				updated_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP,
				UNIQUE(arabic_text, english_meaning)
			)
		`, serial),
		fmt.Sprintf(`
			CREATE TABLE IF NOT EXISTS stories (
				id %s,
				title TEXT NOT NULL UNIQUE,
				level INTEGER DEFAULT 1,
				reading_progress REAL DEFAULT 0,
				created_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP,
				updated_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP
			)
		`, serial),
		fmt.Sprintf(`
			CREATE TABLE IF NOT EXISTS story_words (
				id %s,
				story_id INTEGER NOT NULL,
				word_id INTEGER NOT NULL,
				created_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP,
				FOREIGN KEY (story_id) REFERENCES stories(id),
				FOREIGN KEY (word_id) REFERENCES words(id),
				UNIQUE(story_id, word_id)
			)
		`, serial),
		fmt.Sprintf(`
			CREATE TABLE IF NOT EXISTS learned_words (
				id %s,
				story_id INTEGER NOT NULL,
				word_id INTEGER NOT NULL,
				learned_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP,
				FOREIGN KEY (story_id) REFERENCES stories(id),
				FOREIGN KEY (word_id) REFERENCES words(id),
				UNIQUE(story_id, word_id)
			)
		`, serial),
		fmt.Sprintf(`
			CREATE TABLE IF NOT EXISTS mastery_records (
				id %s,
				word_id INTEGER NOT NULL UNIQUE,
				level TEXT NOT NULL DEFAULT 'new',
				review_count INTEGER DEFAULT 0,
				interval_days INTEGER DEFAULT 0,
				ease_factor REAL DEFAULT 2.5,
				last_review_date TIMESTAMP,
				next_review_date TIMESTAMP,
				created_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP,
				updated_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP,
				FOREIGN KEY (word_id) REFERENCES words(id)
			)
		`, serial),
		fmt.Sprintf(`
			CREATE TABLE IF NOT EXISTS session_results (
				id %s,
				session_id TEXT NOT NULL,
				total_questions INTEGER NOT NULL,
				correct_answers INTEGER NOT NULL,
				score INTEGER NOT NULL,
				best_streak INTEGER NOT NULL,
				duration INTEGER DEFAULT 0,
				finished_at TIMESTAMP NOT NULL,
				created_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP
			)
		`, serial),
	}

	for _, stmt := range statements {
		if _, err := DB.Exec(stmt); err != nil {
			return fmt.Errorf("failed to initialize schema: %v", err)
		}
	}
	return nil
}

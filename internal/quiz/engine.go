package quiz

import (
	"fmt"
	"math/rand"
	"sort"
	"time"

	"github.com/google/uuid"

	"github.com/example/storyvocab/internal/srs"
	"github.com/example/storyvocab/internal/unlock"
	"github.com/example/storyvocab/pkg/models"
)

// WordSource provides the vocabulary and its story membership snapshot
type WordSource interface {
	ListAll() ([]models.Word, error)
	Membership(wordID int) ([]models.StoryMembership, error)
}

// MasteryStore loads and saves per-word scheduling state. Load returns
// the baseline record for words that have never been reviewed.
type MasteryStore interface {
	Load(wordID int) (models.MasteryRecord, error)
	Save(record models.MasteryRecord) error
}

// Config holds session policy knobs
type Config struct {
	// Number of questions per session
	SessionSize int
	// Number of options per question, correct answer included
	OptionsPerQuestion int
	// Base points awarded for a correct answer
	PointsPerCorrect int
	// Extra points per consecutive correct answer already on the streak
	StreakBonusStep int
	// Correct answers within this window grade as easy instead of good
	FastResponseThreshold time.Duration
}

// DefaultConfig returns the default session policy
func DefaultConfig() Config {
	return Config{
		SessionSize:           10,
		OptionsPerQuestion:    4,
		PointsPerCorrect:      10,
		StreakBonusStep:       2,
		FastResponseThreshold: 5 * time.Second,
	}
}

// AnswerResult reports the outcome of a single answered question
type AnswerResult struct {
	Correct       bool
	CorrectAnswer string
	PointsAwarded int
	// Milestone is non-nil when the answer promoted the word's mastery level
	Milestone *srs.Milestone
}

// Engine runs quiz sessions on top of the scheduler and the unlock gate
type Engine struct {
	words     WordSource
	store     MasteryStore
	scheduler *srs.Scheduler
	gate      *unlock.Gate
	config    Config
	rnd       *rand.Rand
	now       func() time.Time
}

// NewEngine creates a quiz engine
func NewEngine(words WordSource, store MasteryStore, scheduler *srs.Scheduler, gate *unlock.Gate, config Config) *Engine {
	return &Engine{
		words:     words,
		store:     store,
		scheduler: scheduler,
		gate:      gate,
		config:    config,
		rnd:       rand.New(rand.NewSource(time.Now().UnixNano())),
		now:       time.Now,
	}
}

// StartSession selects words and builds the question list. Due words come
// first, oldest review date leading and never-reviewed words treated as
// oldest of all; random unlocked non-due words backfill the remainder.
// Returns ErrInsufficientWords when the unlocked pool cannot fill the
// configured session size.
func (e *Engine) StartSession() (*Session, error) {
	allWords, err := e.words.ListAll()
	if err != nil {
		return nil, fmt.Errorf("failed to list words: %v", err)
	}

	var unlocked []models.Word
	for _, word := range allWords {
		memberships, err := e.words.Membership(word.ID)
		if err != nil {
			return nil, fmt.Errorf("failed to get membership for word %d: %v", word.ID, err)
		}
		if e.gate.IsUnlocked(word, memberships) {
			unlocked = append(unlocked, word)
		}
	}

	if len(unlocked) == 0 || len(unlocked) < e.config.SessionSize {
		return nil, ErrInsufficientWords
	}

	records := make(map[int]models.MasteryRecord, len(unlocked))
	for _, word := range unlocked {
		record, err := e.store.Load(word.ID)
		if err != nil {
			return nil, fmt.Errorf("failed to load mastery record for word %d: %v", word.ID, err)
		}
		records[word.ID] = record
	}

	now := e.now()
	var due, notDue []models.Word
	for _, word := range unlocked {
		if e.scheduler.IsDue(records[word.ID], now) {
			due = append(due, word)
		} else {
			notDue = append(notDue, word)
		}
	}

	// Oldest review date first; never-reviewed words lead
	sort.SliceStable(due, func(i, j int) bool {
		di, dj := records[due[i].ID].NextReviewDate, records[due[j].ID].NextReviewDate
		if di == nil && dj == nil {
			return due[i].ID < due[j].ID
		}
		if di == nil {
			return true
		}
		if dj == nil {
			return false
		}
		if di.Equal(*dj) {
			return due[i].ID < due[j].ID
		}
		return di.Before(*dj)
	})

	selected := due
	if len(selected) > e.config.SessionSize {
		selected = selected[:e.config.SessionSize]
	} else if len(selected) < e.config.SessionSize {
		e.rnd.Shuffle(len(notDue), func(i, j int) {
			notDue[i], notDue[j] = notDue[j], notDue[i]
		})
		selected = append(selected, notDue[:e.config.SessionSize-len(selected)]...)
	}

	questions := make([]Question, 0, len(selected))
	for _, word := range selected {
		questions = append(questions, e.buildQuestion(word, allWords))
	}

	return &Session{
		ID:              uuid.NewString(),
		Questions:       questions,
		State:           StateActive,
		StartedAt:       now,
		questionShownAt: now,
	}, nil
}

// SelectAnswer records the learner's choice for the current question,
// grades it and immediately persists the scheduling update for the word.
// Calling it again for an already-answered question is a no-op that
// returns the original result.
func (e *Engine) SelectAnswer(session *Session, option string) (*AnswerResult, error) {
	if session.State != StateActive {
		return nil, ErrSessionNotActive
	}
	if session.Answered {
		return session.lastResult, nil
	}

	question := session.Questions[session.CurrentIndex]
	correct := option == question.CorrectAnswer

	now := e.now()
	quality := srs.QualityAgain
	if correct {
		quality = srs.QualityGood
		if now.Sub(session.questionShownAt) <= e.config.FastResponseThreshold {
			quality = srs.QualityEasy
		}
	}

	record, err := e.store.Load(question.Word.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to load mastery record for word %d: %v", question.Word.ID, err)
	}
	updated, milestone := e.scheduler.Process(record, quality, now)
	if err := e.store.Save(updated); err != nil {
		// The answer is not recorded: the caller may surface the failure
		// and retry the selection
		return nil, fmt.Errorf("failed to save mastery record for word %d: %v", question.Word.ID, err)
	}

	session.SelectedOption = option
	session.Answered = true

	result := &AnswerResult{
		Correct:       correct,
		CorrectAnswer: question.CorrectAnswer,
		Milestone:     milestone,
	}
	if correct {
		result.PointsAwarded = e.config.PointsPerCorrect + e.config.StreakBonusStep*session.CurrentStreak
		session.Score += result.PointsAwarded
		session.CorrectAnswers++
		session.CurrentStreak++
		if session.CurrentStreak > session.BestStreak {
			session.BestStreak = session.CurrentStreak
		}
	} else {
		session.CurrentStreak = 0
	}
	session.lastResult = result
	return result, nil
}

// Advance moves the cursor to the next question, or completes the session
// when the last question has been answered
func (e *Engine) Advance(session *Session) error {
	if session.State != StateActive {
		return ErrSessionNotActive
	}
	if !session.Answered {
		return ErrNoSelection
	}

	session.SelectedOption = ""
	session.Answered = false
	session.lastResult = nil
	session.CurrentIndex++
	if session.CurrentIndex == len(session.Questions) {
		session.State = StateComplete
	} else {
		session.questionShownAt = e.now()
	}
	return nil
}

// EndSession returns the session to idle from any state. Mastery updates
// for already-answered questions are kept: early exit never rolls back
// recorded progress.
func (e *Engine) EndSession(session *Session) {
	session.State = StateIdle
}

// buildQuestion assembles the option list for a word. Distractors prefer
// meanings of words sharing the target's part of speech; when fewer than
// the needed count exist the pool widens to any word. Options are unique
// and shuffled.
func (e *Engine) buildQuestion(word models.Word, pool []models.Word) Question {
	needed := e.config.OptionsPerQuestion - 1

	samePOS := e.distractorMeanings(word, pool, true)
	candidates := samePOS
	if len(samePOS) < needed {
		candidates = e.distractorMeanings(word, pool, false)
	}

	e.rnd.Shuffle(len(candidates), func(i, j int) {
		candidates[i], candidates[j] = candidates[j], candidates[i]
	})
	if len(candidates) > needed {
		candidates = candidates[:needed]
	}

	options := append(candidates, word.EnglishMeaning)
	e.rnd.Shuffle(len(options), func(i, j int) {
		options[i], options[j] = options[j], options[i]
	})

	return Question{
		Word:          word,
		Options:       options,
		CorrectAnswer: word.EnglishMeaning,
	}
}

// distractorMeanings collects unique candidate meanings distinct from the
// target word's meaning
func (e *Engine) distractorMeanings(word models.Word, pool []models.Word, samePOSOnly bool) []string {
	seen := map[string]bool{word.EnglishMeaning: true}
	var meanings []string
	for _, candidate := range pool {
		if candidate.ID == word.ID {
			continue
		}
		if samePOSOnly && candidate.PartOfSpeech != word.PartOfSpeech {
			continue
		}
		if seen[candidate.EnglishMeaning] {
			continue
		}
		seen[candidate.EnglishMeaning] = true
		meanings = append(meanings, candidate.EnglishMeaning)
	}
	return meanings
}

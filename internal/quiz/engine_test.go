package quiz

import (
	"errors"
	"fmt"
	"math/rand"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/example/storyvocab/internal/srs"
	"github.com/example/storyvocab/internal/unlock"
	"github.com/example/storyvocab/pkg/models"
)

type fakeWordSource struct {
	words       []models.Word
	memberships map[int][]models.StoryMembership
}

func (f *fakeWordSource) ListAll() ([]models.Word, error) {
	return f.words, nil
}

func (f *fakeWordSource) Membership(wordID int) ([]models.StoryMembership, error) {
	return f.memberships[wordID], nil
}

type fakeMasteryStore struct {
	records map[int]models.MasteryRecord
	saveErr error
}

func newFakeMasteryStore() *fakeMasteryStore {
	return &fakeMasteryStore{records: make(map[int]models.MasteryRecord)}
}

func (f *fakeMasteryStore) Load(wordID int) (models.MasteryRecord, error) {
	if record, ok := f.records[wordID]; ok {
		return record, nil
	}
	return models.NewMasteryRecord(wordID), nil
}

func (f *fakeMasteryStore) Save(record models.MasteryRecord) error {
	if f.saveErr != nil {
		return f.saveErr
	}
	f.records[record.WordID] = record
	return nil
}

var sessionNow = time.Date(2024, 3, 10, 12, 0, 0, 0, time.UTC)

// lockedMembership keeps a word gated behind an unread story
func lockedMembership() []models.StoryMembership {
	return []models.StoryMembership{{StoryID: 9, StoryTitle: "Locked Story", ReadingProgress: 0.0}}
}

func testWords(n int) []models.Word {
	words := make([]models.Word, 0, n)
	for i := 1; i <= n; i++ {
		pos := models.PartOfSpeechNoun
		if i%2 == 0 {
			pos = models.PartOfSpeechVerb
		}
		words = append(words, models.Word{
			ID:             i,
			ArabicText:     fmt.Sprintf("word-%d", i),
			EnglishMeaning: fmt.Sprintf("meaning-%d", i),
			PartOfSpeech:   pos,
			Difficulty:     2,
		})
	}
	return words
}

func newTestEngine(source *fakeWordSource, store *fakeMasteryStore, config Config) *Engine {
	engine := NewEngine(source, store, srs.New(), unlock.New(), config)
	engine.rnd = rand.New(rand.NewSource(42))
	engine.now = func() time.Time { return sessionNow }
	return engine
}

func TestStartSessionInsufficientWords(t *testing.T) {
	t.Run("no unlocked words", func(t *testing.T) {
		words := testWords(5)
		memberships := make(map[int][]models.StoryMembership)
		for _, w := range words {
			memberships[w.ID] = lockedMembership()
		}
		source := &fakeWordSource{words: words, memberships: memberships}

		config := DefaultConfig()
		config.SessionSize = 3
		engine := newTestEngine(source, newFakeMasteryStore(), config)

		_, err := engine.StartSession()
		assert.ErrorIs(t, err, ErrInsufficientWords)
	})

	t.Run("one unlocked word with a larger session size", func(t *testing.T) {
		words := testWords(5)
		memberships := make(map[int][]models.StoryMembership)
		for _, w := range words[1:] {
			memberships[w.ID] = lockedMembership()
		}
		source := &fakeWordSource{words: words, memberships: memberships}

		config := DefaultConfig()
		config.SessionSize = 2
		engine := newTestEngine(source, newFakeMasteryStore(), config)

		_, err := engine.StartSession()
		assert.ErrorIs(t, err, ErrInsufficientWords)
	})
}

func TestStartSessionSingleWord(t *testing.T) {
	// One unlocked word, four locked words supplying distractor meanings
	words := testWords(5)
	memberships := make(map[int][]models.StoryMembership)
	for _, w := range words[1:] {
		memberships[w.ID] = lockedMembership()
	}
	source := &fakeWordSource{words: words, memberships: memberships}

	config := DefaultConfig()
	config.SessionSize = 1
	engine := newTestEngine(source, newFakeMasteryStore(), config)

	session, err := engine.StartSession()
	require.NoError(t, err)
	require.Len(t, session.Questions, 1)

	question := session.Questions[0]
	assert.Equal(t, 1, question.Word.ID)
	assert.Len(t, question.Options, 4)
	assert.Contains(t, question.Options, question.CorrectAnswer)
	assert.Equal(t, "meaning-1", question.CorrectAnswer)

	seen := make(map[string]bool)
	for _, option := range question.Options {
		assert.False(t, seen[option], "options must be unique")
		seen[option] = true
	}

	assert.Equal(t, StateActive, session.State)
	assert.Equal(t, 0, session.Score)
	assert.Equal(t, 0, session.CurrentIndex)
	assert.NotEmpty(t, session.ID)
}

func TestStartSessionDueFirstThenBackfill(t *testing.T) {
	// W1 due, W2 unlocked but not due, W3 locked
	words := testWords(3)
	memberships := map[int][]models.StoryMembership{
		3: lockedMembership(),
	}
	source := &fakeWordSource{words: words, memberships: memberships}

	store := newFakeMasteryStore()
	overdue := sessionNow.AddDate(0, 0, -2)
	future := sessionNow.AddDate(0, 0, 5)
	store.records[1] = models.MasteryRecord{WordID: 1, Level: models.MasteryLearning, ReviewCount: 2, IntervalDays: 1, EaseFactor: 2.5, NextReviewDate: &overdue}
	store.records[2] = models.MasteryRecord{WordID: 2, Level: models.MasteryLearning, ReviewCount: 2, IntervalDays: 5, EaseFactor: 2.5, NextReviewDate: &future}

	config := DefaultConfig()
	config.SessionSize = 2
	engine := newTestEngine(source, store, config)

	session, err := engine.StartSession()
	require.NoError(t, err)
	require.Len(t, session.Questions, 2)

	assert.Equal(t, 1, session.Questions[0].Word.ID, "due word leads")
	assert.Equal(t, 2, session.Questions[1].Word.ID, "non-due unlocked word backfills")
	for _, q := range session.Questions {
		assert.NotEqual(t, 3, q.Word.ID, "locked words are never selected")
	}
}

func TestStartSessionNeverReviewedTreatedAsOldest(t *testing.T) {
	words := testWords(3)
	source := &fakeWordSource{words: words, memberships: map[int][]models.StoryMembership{}}

	store := newFakeMasteryStore()
	older := sessionNow.AddDate(0, 0, -10)
	newer := sessionNow.AddDate(0, 0, -1)
	// Word 1 reviewed long ago, word 2 recently; word 3 never reviewed
	store.records[1] = models.MasteryRecord{WordID: 1, Level: models.MasteryLearning, ReviewCount: 1, IntervalDays: 1, EaseFactor: 2.5, NextReviewDate: &older}
	store.records[2] = models.MasteryRecord{WordID: 2, Level: models.MasteryLearning, ReviewCount: 1, IntervalDays: 1, EaseFactor: 2.5, NextReviewDate: &newer}

	config := DefaultConfig()
	config.SessionSize = 3
	engine := newTestEngine(source, store, config)

	session, err := engine.StartSession()
	require.NoError(t, err)
	require.Len(t, session.Questions, 3)

	assert.Equal(t, 3, session.Questions[0].Word.ID, "never-reviewed word sorts first")
	assert.Equal(t, 1, session.Questions[1].Word.ID)
	assert.Equal(t, 2, session.Questions[2].Word.ID)
}

func TestDistractorsPreferSamePartOfSpeech(t *testing.T) {
	// Target is a noun with exactly three other nouns in the pool
	words := []models.Word{
		{ID: 1, ArabicText: "a", EnglishMeaning: "m1", PartOfSpeech: models.PartOfSpeechNoun},
		{ID: 2, ArabicText: "b", EnglishMeaning: "m2", PartOfSpeech: models.PartOfSpeechNoun},
		{ID: 3, ArabicText: "c", EnglishMeaning: "m3", PartOfSpeech: models.PartOfSpeechNoun},
		{ID: 4, ArabicText: "d", EnglishMeaning: "m4", PartOfSpeech: models.PartOfSpeechNoun},
		{ID: 5, ArabicText: "e", EnglishMeaning: "m5", PartOfSpeech: models.PartOfSpeechVerb},
		{ID: 6, ArabicText: "f", EnglishMeaning: "m6", PartOfSpeech: models.PartOfSpeechVerb},
	}
	source := &fakeWordSource{words: words, memberships: map[int][]models.StoryMembership{}}

	config := DefaultConfig()
	config.SessionSize = 6
	engine := newTestEngine(source, newFakeMasteryStore(), config)

	session, err := engine.StartSession()
	require.NoError(t, err)

	for _, question := range session.Questions {
		if question.Word.ID != 1 {
			continue
		}
		require.Len(t, question.Options, 4)
		assert.ElementsMatch(t, []string{"m1", "m2", "m3", "m4"}, question.Options,
			"with three same-POS candidates available, distractors stay within the part of speech")
	}
}

func TestDistractorsFallBackAcrossPartOfSpeech(t *testing.T) {
	// Only one other noun exists, so the pool must widen to verbs
	words := []models.Word{
		{ID: 1, ArabicText: "a", EnglishMeaning: "m1", PartOfSpeech: models.PartOfSpeechNoun},
		{ID: 2, ArabicText: "b", EnglishMeaning: "m2", PartOfSpeech: models.PartOfSpeechNoun},
		{ID: 3, ArabicText: "c", EnglishMeaning: "m3", PartOfSpeech: models.PartOfSpeechVerb},
		{ID: 4, ArabicText: "d", EnglishMeaning: "m4", PartOfSpeech: models.PartOfSpeechVerb},
	}
	source := &fakeWordSource{words: words, memberships: map[int][]models.StoryMembership{}}

	config := DefaultConfig()
	config.SessionSize = 1
	engine := newTestEngine(source, newFakeMasteryStore(), config)

	session, err := engine.StartSession()
	require.NoError(t, err)
	require.Len(t, session.Questions, 1)
	assert.Len(t, session.Questions[0].Options, 4)
}

func TestSelectAnswerScoringAndStreaks(t *testing.T) {
	words := testWords(4)
	source := &fakeWordSource{words: words, memberships: map[int][]models.StoryMembership{}}
	store := newFakeMasteryStore()

	config := DefaultConfig()
	config.SessionSize = 4
	engine := newTestEngine(source, store, config)

	session, err := engine.StartSession()
	require.NoError(t, err)

	// Three correct answers in a row
	expectedScore := 0
	for i := 0; i < 3; i++ {
		question, ok := session.CurrentQuestion()
		require.True(t, ok)

		result, err := engine.SelectAnswer(session, question.CorrectAnswer)
		require.NoError(t, err)
		assert.True(t, result.Correct)

		expectedScore += config.PointsPerCorrect + config.StreakBonusStep*i
		assert.Equal(t, expectedScore, session.Score)
		assert.Equal(t, i+1, session.CurrentStreak)
		assert.Equal(t, i+1, session.BestStreak)

		require.NoError(t, engine.Advance(session))
	}

	// A wrong answer resets the streak but keeps the best streak and score
	question, ok := session.CurrentQuestion()
	require.True(t, ok)
	wrong := ""
	for _, option := range question.Options {
		if option != question.CorrectAnswer {
			wrong = option
			break
		}
	}
	require.NotEmpty(t, wrong)

	result, err := engine.SelectAnswer(session, wrong)
	require.NoError(t, err)
	assert.False(t, result.Correct)
	assert.Equal(t, question.CorrectAnswer, result.CorrectAnswer)
	assert.Equal(t, 0, session.CurrentStreak)
	assert.Equal(t, 3, session.BestStreak)
	assert.Equal(t, expectedScore, session.Score)
	assert.Equal(t, 3, session.CorrectAnswers)

	// The failed word was rescheduled for immediate review
	failedRecord := store.records[question.Word.ID]
	assert.Equal(t, models.MasteryLearning, failedRecord.Level)
	assert.Equal(t, 0, failedRecord.IntervalDays)

	require.NoError(t, engine.Advance(session))
	assert.Equal(t, StateComplete, session.State)
}

func TestSelectAnswerIsIdempotent(t *testing.T) {
	words := testWords(4)
	source := &fakeWordSource{words: words, memberships: map[int][]models.StoryMembership{}}
	store := newFakeMasteryStore()

	config := DefaultConfig()
	config.SessionSize = 4
	engine := newTestEngine(source, store, config)

	session, err := engine.StartSession()
	require.NoError(t, err)

	question, _ := session.CurrentQuestion()
	first, err := engine.SelectAnswer(session, question.CorrectAnswer)
	require.NoError(t, err)

	scoreAfterFirst := session.Score
	recordAfterFirst := store.records[question.Word.ID]

	second, err := engine.SelectAnswer(session, question.CorrectAnswer)
	require.NoError(t, err)
	assert.Same(t, first, second)
	assert.Equal(t, scoreAfterFirst, session.Score, "re-selection never re-scores")
	assert.Equal(t, recordAfterFirst, store.records[question.Word.ID], "re-selection never re-schedules")
}

func TestSelectAnswerPersistsImmediately(t *testing.T) {
	words := testWords(4)
	source := &fakeWordSource{words: words, memberships: map[int][]models.StoryMembership{}}
	store := newFakeMasteryStore()

	config := DefaultConfig()
	config.SessionSize = 4
	engine := newTestEngine(source, store, config)

	session, err := engine.StartSession()
	require.NoError(t, err)

	question, _ := session.CurrentQuestion()
	_, err = engine.SelectAnswer(session, question.CorrectAnswer)
	require.NoError(t, err)

	// Early exit keeps the recorded progress
	engine.EndSession(session)
	assert.Equal(t, StateIdle, session.State)

	record := store.records[question.Word.ID]
	assert.Equal(t, 1, record.ReviewCount)
	assert.NotNil(t, record.NextReviewDate)
}

func TestSelectAnswerSaveFailureLeavesSessionUntouched(t *testing.T) {
	words := testWords(4)
	source := &fakeWordSource{words: words, memberships: map[int][]models.StoryMembership{}}
	store := newFakeMasteryStore()
	store.saveErr = errors.New("disk full")

	config := DefaultConfig()
	config.SessionSize = 4
	engine := newTestEngine(source, store, config)

	session, err := engine.StartSession()
	require.NoError(t, err)

	question, _ := session.CurrentQuestion()
	_, err = engine.SelectAnswer(session, question.CorrectAnswer)
	require.Error(t, err)

	assert.False(t, session.Answered)
	assert.Equal(t, 0, session.Score)
	assert.Equal(t, 0, session.CurrentStreak)
}

func TestAdvanceRequiresSelection(t *testing.T) {
	words := testWords(4)
	source := &fakeWordSource{words: words, memberships: map[int][]models.StoryMembership{}}

	config := DefaultConfig()
	config.SessionSize = 4
	engine := newTestEngine(source, newFakeMasteryStore(), config)

	session, err := engine.StartSession()
	require.NoError(t, err)

	assert.ErrorIs(t, engine.Advance(session), ErrNoSelection)
	assert.Equal(t, 0, session.CurrentIndex)
}

func TestSessionLifecycle(t *testing.T) {
	words := testWords(4)
	source := &fakeWordSource{words: words, memberships: map[int][]models.StoryMembership{}}

	config := DefaultConfig()
	config.SessionSize = 2
	engine := newTestEngine(source, newFakeMasteryStore(), config)

	session, err := engine.StartSession()
	require.NoError(t, err)
	assert.Equal(t, StateActive, session.State)

	for session.State == StateActive {
		question, ok := session.CurrentQuestion()
		require.True(t, ok)
		_, err := engine.SelectAnswer(session, question.CorrectAnswer)
		require.NoError(t, err)
		require.NoError(t, engine.Advance(session))
	}

	assert.Equal(t, StateComplete, session.State)
	assert.Equal(t, len(session.Questions), session.CurrentIndex)

	// Operations on a completed session are rejected
	_, err = engine.SelectAnswer(session, "anything")
	assert.ErrorIs(t, err, ErrSessionNotActive)
	assert.ErrorIs(t, engine.Advance(session), ErrSessionNotActive)

	result := session.Result(sessionNow.Add(90 * time.Second))
	assert.Equal(t, session.ID, result.SessionID)
	assert.Equal(t, 2, result.TotalQuestions)
	assert.Equal(t, 2, result.CorrectAnswers)
	assert.Equal(t, 90, result.Duration)

	// A completed session returns to idle and a new one can start
	engine.EndSession(session)
	assert.Equal(t, StateIdle, session.State)

	_, err = engine.StartSession()
	require.NoError(t, err)
}

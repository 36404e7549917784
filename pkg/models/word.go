package models

import "time"

// PartOfSpeech classifies a vocabulary word grammatically
type PartOfSpeech string

const (
	PartOfSpeechNoun      PartOfSpeech = "noun"
	PartOfSpeechVerb      PartOfSpeech = "verb"
	PartOfSpeechAdjective PartOfSpeech = "adjective"
	PartOfSpeechAdverb    PartOfSpeech = "adverb"
	PartOfSpeechParticle  PartOfSpeech = "particle"
	PartOfSpeechPhrase    PartOfSpeech = "phrase"
)

// Word represents an Arabic vocabulary word taught through the stories
type Word struct {
	ID             int          `json:"id" db:"id"`
	ArabicText     string       `json:"arabic_text" db:"arabic_text"`
	EnglishMeaning string       `json:"english_meaning" db:"english_meaning"`
	PartOfSpeech   PartOfSpeech `json:"part_of_speech" db:"part_of_speech"`
	RootLetters    string       `json:"root_letters" db:"root_letters"` // Optional: trilateral root, e.g. "كتب"
	Difficulty     int          `json:"difficulty" db:"difficulty"`     // 1-5 scale of difficulty
	CreatedAt      time.Time    `json:"created_at" db:"created_at"`
	UpdatedAt      time.Time    `json:"updated_at" db:"updated_at"`
}

package excel

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/xuri/excelize/v2"

	"github.com/example/storyvocab/internal/database"
	"github.com/example/storyvocab/pkg/models"
)

// ImportConfig defines the import configuration
type ImportConfig struct {
	FilePath           string // Path to the Excel or CSV file
	ArabicColumn       string // Column with the Arabic word
	MeaningColumn      string // Column with the English meaning
	PartOfSpeechColumn string // Column with the part of speech
	RootColumn         string // Column with the root letters
	DifficultyColumn   string // Column with the difficulty
	StoryColumn        string // Column with the owning story title
	SheetName          string // Name of the sheet to import
	StartRow           int    // The row to start importing from (1-based index)
}

// DefaultImportConfig returns the default import configuration
func DefaultImportConfig() ImportConfig {
	return ImportConfig{
		ArabicColumn:       "A",
		MeaningColumn:      "B",
		PartOfSpeechColumn: "C",
		RootColumn:         "D",
		DifficultyColumn:   "E",
		StoryColumn:        "F",
		SheetName:          "Sheet1",
		StartRow:           2, // By default, start from the second row (skip header)
	}
}

// ImportResult holds the result of an import operation
type ImportResult struct {
	TotalProcessed int
	StoriesCreated int
	Created        int
	Updated        int
	Errors         []string
}

// ImportWords imports words and their story membership from an Excel or
// CSV file
func ImportWords(config ImportConfig) (*ImportResult, error) {
	ext := strings.ToLower(filepath.Ext(config.FilePath))
	if ext == ".csv" {
		return importFromCSV(config)
	}
	return importFromExcel(config)
}

// importFromExcel imports words from an Excel file
func importFromExcel(config ImportConfig) (*ImportResult, error) {
	f, err := excelize.OpenFile(config.FilePath)
	if err != nil {
		return nil, fmt.Errorf("failed to open Excel file: %v", err)
	}
	defer f.Close()

	rows, err := f.GetRows(config.SheetName)
	if err != nil {
		return nil, fmt.Errorf("failed to get rows: %v", err)
	}

	importer, err := newImporter()
	if err != nil {
		return nil, err
	}

	for i, row := range rows {
		if i < config.StartRow-1 {
			continue
		}
		importer.result.TotalProcessed++

		if err := importer.processRow(rowData{
			arabic:       cellAt(row, config.ArabicColumn),
			meaning:      cellAt(row, config.MeaningColumn),
			partOfSpeech: cellAt(row, config.PartOfSpeechColumn),
			root:         cellAt(row, config.RootColumn),
			difficulty:   cellAt(row, config.DifficultyColumn),
			story:        cellAt(row, config.StoryColumn),
		}); err != nil {
			importer.result.Errors = append(importer.result.Errors, fmt.Sprintf("Row %d: %v", i+1, err))
		}
	}

	return importer.result, nil
}

// importFromCSV imports words from a CSV file with the same column order
// as the default Excel layout
func importFromCSV(config ImportConfig) (*ImportResult, error) {
	file, err := os.Open(config.FilePath)
	if err != nil {
		return nil, fmt.Errorf("failed to open CSV file: %v", err)
	}
	defer file.Close()

	reader := csv.NewReader(file)
	reader.FieldsPerRecord = -1 // Allow variable number of fields
	reader.LazyQuotes = true

	importer, err := newImporter()
	if err != nil {
		return nil, err
	}

	rowNum := 0
	for {
		row, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("error reading CSV: %v", err)
		}

		rowNum++
		if rowNum < config.StartRow {
			continue
		}
		importer.result.TotalProcessed++

		data := rowData{}
		if len(row) > 0 {
			data.arabic = row[0]
		}
		if len(row) > 1 {
			data.meaning = row[1]
		}
		if len(row) > 2 {
			data.partOfSpeech = row[2]
		}
		if len(row) > 3 {
			data.root = row[3]
		}
		if len(row) > 4 {
			data.difficulty = row[4]
		}
		if len(row) > 5 {
			data.story = row[5]
		}

		if err := importer.processRow(data); err != nil {
			importer.result.Errors = append(importer.result.Errors, fmt.Sprintf("Row %d: %v", rowNum, err))
		}
	}

	return importer.result, nil
}

type rowData struct {
	arabic       string
	meaning      string
	partOfSpeech string
	root         string
	difficulty   string
	story        string
}

type importer struct {
	wordRepo  *database.WordRepository
	storyRepo *database.StoryRepository
	stories   map[string]int64 // lowercased title -> story ID
	result    *ImportResult
}

func newImporter() (*importer, error) {
	imp := &importer{
		wordRepo:  database.NewWordRepository(),
		storyRepo: database.NewStoryRepository(),
		stories:   make(map[string]int64),
		result:    &ImportResult{Errors: make([]string, 0)},
	}

	existing, err := imp.storyRepo.GetAll()
	if err != nil {
		return nil, fmt.Errorf("failed to get existing stories: %v", err)
	}
	for _, story := range existing {
		imp.stories[strings.ToLower(story.Title)] = story.ID
	}
	return imp, nil
}

// processRow creates or updates one word and attaches it to its story
func (imp *importer) processRow(data rowData) error {
	arabic := strings.TrimSpace(data.arabic)
	meaning := strings.TrimSpace(data.meaning)

	if arabic == "" {
		return fmt.Errorf("arabic text cannot be empty")
	}
	if meaning == "" {
		return fmt.Errorf("english meaning cannot be empty")
	}

	word := &models.Word{
		ArabicText:     arabic,
		EnglishMeaning: meaning,
		PartOfSpeech:   parsePartOfSpeech(data.partOfSpeech),
		RootLetters:    strings.TrimSpace(data.root),
		Difficulty:     parseIntOrDefault(data.difficulty, 1, 5, 3),
	}

	existing, err := imp.wordRepo.Search(arabic)
	if err != nil {
		return fmt.Errorf("failed to search for existing words: %v", err)
	}

	found := false
	for _, e := range existing {
		if e.ArabicText == arabic && strings.EqualFold(e.EnglishMeaning, meaning) {
			word.ID = e.ID
			if err := imp.wordRepo.Update(word); err != nil {
				return fmt.Errorf("failed to update word: %v", err)
			}
			imp.result.Updated++
			found = true
			break
		}
	}

	if !found {
		if err := imp.wordRepo.Create(word); err != nil {
			return fmt.Errorf("failed to create word: %v", err)
		}
		imp.result.Created++
	}

	title := strings.TrimSpace(data.story)
	if title == "" {
		// Reference vocabulary without a story; unlocked everywhere
		return nil
	}

	storyID, ok := imp.stories[strings.ToLower(title)]
	if !ok {
		story, err := imp.storyRepo.GetOrCreateByTitle(title, word.Difficulty)
		if err != nil {
			return fmt.Errorf("failed to create story: %v", err)
		}
		storyID = story.ID
		imp.stories[strings.ToLower(title)] = storyID
		imp.result.StoriesCreated++
	}

	if err := imp.storyRepo.AddWord(storyID, word.ID); err != nil {
		return fmt.Errorf("failed to attach word to story: %v", err)
	}
	return nil
}

// parsePartOfSpeech maps a spreadsheet cell onto the known categories,
// defaulting to noun
func parsePartOfSpeech(s string) models.PartOfSpeech {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "verb":
		return models.PartOfSpeechVerb
	case "adjective", "adj":
		return models.PartOfSpeechAdjective
	case "adverb", "adv":
		return models.PartOfSpeechAdverb
	case "particle":
		return models.PartOfSpeechParticle
	case "phrase":
		return models.PartOfSpeechPhrase
	default:
		return models.PartOfSpeechNoun
	}
}

// cellAt returns the value of a lettered column within a row, or "" when
// the row is short
func cellAt(row []string, column string) string {
	idx := columnToIndex(column)
	if idx < 0 || idx >= len(row) {
		return ""
	}
	return row[idx]
}

// columnToIndex converts an Excel column letter to a 0-based index
func columnToIndex(column string) int {
	column = strings.ToUpper(strings.TrimSpace(column))
	index := 0
	for i := 0; i < len(column); i++ {
		index = index*26 + int(column[i]-'A'+1)
	}
	return index - 1
}

// parseIntOrDefault parses an integer clamped to [min, max], falling back
// to a default on parse failure
func parseIntOrDefault(s string, min, max, defaultVal int) int {
	var val int
	if _, err := fmt.Sscanf(strings.TrimSpace(s), "%d", &val); err != nil {
		return defaultVal
	}
	if val < min {
		return min
	}
	if val > max {
		return max
	}
	return val
}

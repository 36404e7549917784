package main

import (
	"bufio"
	"flag"
	"fmt"
	"log"
	"os"
	"os/signal"
	"strconv"
	"strings"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"github.com/example/storyvocab/internal/database"
	"github.com/example/storyvocab/internal/excel"
	"github.com/example/storyvocab/internal/quiz"
	"github.com/example/storyvocab/internal/reminder"
	"github.com/example/storyvocab/internal/srs"
	"github.com/example/storyvocab/internal/stats"
	"github.com/example/storyvocab/internal/unlock"
	"github.com/example/storyvocab/pkg/models"
)

func main() {
	// .env is optional; environment variables win
	_ = godotenv.Load()

	importFile := flag.String("import", "", "import words from an Excel or CSV file")
	showStats := flag.Bool("stats", false, "print the vocabulary statistics summary")
	remind := flag.Bool("remind", false, "run the review reminder daemon")
	sessionSize := flag.Int("size", 0, "override the quiz session size")
	flag.Parse()

	if err := database.Connect(); err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	defer database.Close()

	switch {
	case *importFile != "":
		runImport(*importFile)
	case *showStats:
		runStats()
	case *remind:
		runReminderDaemon()
	default:
		runQuiz(*sessionSize)
	}
}

// runImport loads vocabulary and story membership from a spreadsheet
func runImport(path string) {
	config := excel.DefaultImportConfig()
	config.FilePath = path

	result, err := excel.ImportWords(config)
	if err != nil {
		log.Fatalf("Import failed: %v", err)
	}

	fmt.Printf("Processed %d rows: %d created, %d updated, %d stories created\n",
		result.TotalProcessed, result.Created, result.Updated, result.StoriesCreated)
	for _, e := range result.Errors {
		fmt.Printf("  %s\n", e)
	}
}

// runStats prints the dashboard summary
func runStats() {
	scheduler := srs.New()
	gate := unlock.New()
	aggregator := stats.New(database.NewWordRepository(), database.NewMasteryRepository(), scheduler, gate)
	if goal := os.Getenv("DAILY_GOAL"); goal != "" {
		if g, err := strconv.Atoi(goal); err == nil && g > 0 {
			aggregator.DailyGoal = g
		}
	}

	summary, err := aggregator.Compute(time.Now())
	if err != nil {
		log.Fatalf("Failed to compute statistics: %v", err)
	}

	fmt.Printf("Words:    %d total, %d unlocked, %d due\n", summary.TotalWords, summary.UnlockedWords, summary.DueWords)
	fmt.Printf("Mastered: %d\n", summary.MasteredWords)
	fmt.Printf("Levels:   new %d, learning %d, review %d, mastered %d\n",
		summary.LevelCounts[models.MasteryNew], summary.LevelCounts[models.MasteryLearning],
		summary.LevelCounts[models.MasteryReview], summary.LevelCounts[models.MasteryMastered])
	fmt.Printf("Today:    %d/%d reviews (%.0f%%)\n", summary.ReviewsToday, summary.DailyGoal, summary.GoalProgress()*100)
}

// logNotifier prints review reminders to the process log
type logNotifier struct{}

func (logNotifier) RemindDueReviews(count int) error {
	log.Printf("You have %d word(s) due for review", count)
	return nil
}

// runReminderDaemon runs the hourly due-review check until interrupted
func runReminderDaemon() {
	r := reminder.New(logNotifier{})
	r.Start()
	defer r.Stop()

	log.Println("Reminder daemon started. Press Ctrl+C to stop.")

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)
	sig := <-sigChan
	log.Printf("Received signal: %v, shutting down", sig)
}

// runQuiz drives an interactive quiz session on stdin/stdout
func runQuiz(sessionSize int) {
	scheduler := srs.New()
	gate := unlock.New()
	config := quiz.DefaultConfig()
	if sessionSize > 0 {
		config.SessionSize = sessionSize
	}

	engine := quiz.NewEngine(
		database.NewWordRepository(),
		database.NewMasteryRepository(),
		scheduler,
		gate,
		config,
	)

	session, err := engine.StartSession()
	if err == quiz.ErrInsufficientWords {
		fmt.Println("Not enough unlocked words for a quiz yet. Keep reading your stories!")
		return
	}
	if err != nil {
		log.Fatalf("Failed to start session: %v", err)
	}

	reader := bufio.NewReader(os.Stdin)
	for session.State == quiz.StateActive {
		question, ok := session.CurrentQuestion()
		if !ok {
			break
		}

		fmt.Printf("\nQuestion %d/%d: what does %q mean?\n",
			session.CurrentIndex+1, len(session.Questions), question.Word.ArabicText)
		for i, option := range question.Options {
			fmt.Printf("  %d) %s\n", i+1, option)
		}

		option, quit := readOption(reader, len(question.Options))
		if quit {
			engine.EndSession(session)
			fmt.Printf("\nSession ended early. Score so far: %d\n", session.Score)
			return
		}

		result, err := engine.SelectAnswer(session, question.Options[option])
		if err != nil {
			log.Fatalf("Failed to record answer: %v", err)
		}

		if result.Correct {
			fmt.Printf("Correct! +%d points (streak %d)\n", result.PointsAwarded, session.CurrentStreak)
		} else {
			fmt.Printf("Not quite. The answer is %q\n", result.CorrectAnswer)
		}
		if result.Milestone != nil {
			fmt.Printf("Milestone: %q moved from %s to %s!\n",
				question.Word.ArabicText, result.Milestone.From, result.Milestone.To)
		}

		if err := engine.Advance(session); err != nil {
			log.Fatalf("Failed to advance session: %v", err)
		}
	}

	finished := time.Now()
	fmt.Printf("\nSession complete! Score %d, best streak %d, %d/%d correct\n",
		session.Score, session.BestStreak, session.CorrectAnswers, len(session.Questions))

	sessionRepo := database.NewSessionRepository()
	sessionResult := session.Result(finished)
	if err := sessionRepo.Create(&sessionResult); err != nil {
		log.Printf("Failed to save session result: %v", err)
	}
	engine.EndSession(session)
}

// readOption reads a 1-based option number from the learner. Returns
// quit=true on EOF or "q".
func readOption(reader *bufio.Reader, optionCount int) (int, bool) {
	for {
		fmt.Print("> ")
		line, err := reader.ReadString('\n')
		if err != nil {
			return 0, true
		}
		line = strings.TrimSpace(line)
		if line == "q" || line == "quit" {
			return 0, true
		}
		choice, err := strconv.Atoi(line)
		if err == nil && choice >= 1 && choice <= optionCount {
			return choice - 1, false
		}
		fmt.Printf("Enter a number between 1 and %d, or q to quit\n", optionCount)
	}
}

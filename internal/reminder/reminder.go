package reminder

import (
	"log"
	"os"
	"strconv"
	"time"

	"github.com/go-co-op/gocron"

	"github.com/example/storyvocab/internal/database"
)

// Default quiet-hour bounds for review reminders
const (
	DefaultReminderStartHour = 8
	DefaultReminderEndHour   = 22
)

// Notifier delivers a review reminder to the learner
type Notifier interface {
	RemindDueReviews(count int) error
}

// Reminder periodically checks for due reviews and nudges the learner
// through the notifier
type Reminder struct {
	scheduler *gocron.Scheduler
	notifier  Notifier
	mastery   *database.MasteryRepository
}

// New creates a reminder instance
func New(notifier Notifier) *Reminder {
	return &Reminder{
		scheduler: gocron.NewScheduler(time.UTC),
		notifier:  notifier,
		mastery:   database.NewMasteryRepository(),
	}
}

// Start begins the hourly due-review check in the background
func (r *Reminder) Start() {
	r.scheduler.Every(1).Hour().Do(r.checkAndRemind)
	r.scheduler.StartAsync()
}

// Stop terminates all scheduled checks
func (r *Reminder) Stop() {
	r.scheduler.Stop()
}

// checkAndRemind sends a reminder when due reviews exist and the current
// hour is inside the configured window
func (r *Reminder) checkAndRemind() {
	currentHour := time.Now().Hour()

	startHour := DefaultReminderStartHour
	endHour := DefaultReminderEndHour

	if s := os.Getenv("REMINDER_START_HOUR"); s != "" {
		if h, err := strconv.Atoi(s); err == nil && h >= 0 && h <= 23 {
			startHour = h
		}
	}
	if s := os.Getenv("REMINDER_END_HOUR"); s != "" {
		if h, err := strconv.Atoi(s); err == nil && h >= 0 && h <= 23 {
			endHour = h
		}
	}

	if currentHour < startHour || currentHour > endHour {
		log.Printf("Current hour %d is outside reminder hours (%d-%d), skipping", currentHour, startHour, endHour)
		return
	}

	count, err := r.mastery.CountDueBefore(time.Now())
	if err != nil {
		log.Printf("Error counting due reviews: %v", err)
		return
	}
	if count == 0 {
		return
	}

	if err := r.notifier.RemindDueReviews(count); err != nil {
		log.Printf("Error sending review reminder: %v", err)
	}
}

// RunManualCheck forces a reminder check regardless of the hour window
func (r *Reminder) RunManualCheck() error {
	count, err := r.mastery.CountDueBefore(time.Now())
	if err != nil {
		return err
	}
	if count > 0 {
		return r.notifier.RemindDueReviews(count)
	}
	return nil
}

package jobs

import (
	"fmt"
	"time"

	"github.com/sirupsen/logrus"
	"gorm.io/gorm"

	"jejakin-server/database"
	"jejakin-server/models"
)

// completionGrace is how long after the visit date a confirmed booking waits
// before being swept to completed.
const completionGrace = 24 * time.Hour

// CompletionJob sweeps confirmed bookings whose visit date has passed and
// marks them completed, notifying the booker.
type CompletionJob struct {
	interval time.Duration
	stopChan chan bool
}

// NewCompletionJob creates a completion job with the given sweep interval.
func NewCompletionJob(interval time.Duration) *CompletionJob {
	if interval <= 0 {
		interval = time.Hour
	}
	return &CompletionJob{
		interval: interval,
		stopChan: make(chan bool),
	}
}

// Start begins the sweep loop.
func (j *CompletionJob) Start() {
	go j.run()
	logrus.Info("booking completion job started")
}

// Stop stops the sweep loop.
func (j *CompletionJob) Stop() {
	j.stopChan <- true
	logrus.Info("booking completion job stopped")
}

func (j *CompletionJob) run() {
	ticker := time.NewTicker(j.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			j.Sweep()
		case <-j.stopChan:
			return
		}
	}
}

// Sweep completes every confirmed booking whose visit date is more than the
// grace period in the past. Exported so tests can drive it without the
// ticker.
func (j *CompletionJob) Sweep() {
	cutoff := time.Now().Add(-completionGrace)

	var due []models.Booking
	err := database.DB.
		Where("status = ? AND visit_date <= ?", models.BookingStatusConfirmed, cutoff).
		Find(&due).Error
	if err != nil {
		logrus.Errorf("completion sweep query failed: %v", err)
		return
	}
	if len(due) == 0 {
		return
	}

	logrus.Infof("completing %d past bookings", len(due))
	for i := range due {
		j.complete(&due[i])
	}
}

func (j *CompletionJob) complete(booking *models.Booking) {
	err := database.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Model(booking).Update("status", models.BookingStatusCompleted).Error; err != nil {
			return err
		}

		link := fmt.Sprintf("/dashboard/bookings/%d", booking.ID)
		n := models.Notification{
			UserID:  booking.UserID,
			Type:    "booking_completed",
			Title:   "Booking Completed",
			Message: fmt.Sprintf("Your booking %s has been completed. We hope you enjoyed your trip!", booking.BookingCode),
			Link:    &link,
		}
		return tx.Create(&n).Error
	})
	if err != nil {
		logrus.Errorf("failed to complete booking %d: %v", booking.ID, err)
	}
}

package services

import (
	"fmt"

	"github.com/sirupsen/logrus"

	"jejakin-server/config"
)

// EmailService drains a buffered queue on its own goroutine. Delivery is
// best-effort: handlers enqueue after their transaction commits and never
// wait for the send. The transport is a console logger; swapping in a real
// provider only means replacing deliver().
type EmailService struct {
	queue    chan emailJob
	stopChan chan struct{}
}

type emailJob struct {
	To      string
	Subject string
	Lines   []string
}

// Mailer is the process-wide email service. Nil until InitMailer runs, and
// enqueue helpers treat a nil mailer as a no-op so tests and one-off tools
// work without it.
var Mailer *EmailService

// InitMailer creates and starts the global mailer.
func InitMailer() {
	Mailer = &EmailService{
		queue:    make(chan emailJob, config.AppConfig.Email.QueueSize),
		stopChan: make(chan struct{}),
	}
	go Mailer.run()
	logrus.Info("email worker started")
}

// Stop drains nothing; queued jobs not yet delivered are dropped.
func (es *EmailService) Stop() {
	close(es.stopChan)
	logrus.Info("email worker stopped")
}

func (es *EmailService) run() {
	for {
		select {
		case job := <-es.queue:
			es.deliver(job)
		case <-es.stopChan:
			return
		}
	}
}

// deliver writes the rendered email to the log. Failures here must never
// surface to request handlers.
func (es *EmailService) deliver(job emailJob) {
	entry := logrus.WithFields(logrus.Fields{
		"from":    config.AppConfig.Email.FromAddress,
		"to":      job.To,
		"subject": job.Subject,
	})
	entry.Info("sending email")
	for _, line := range job.Lines {
		entry.Debug(line)
	}
}

// enqueue is non-blocking: when the queue is full the job is dropped with a
// warning rather than stalling a request handler.
func (es *EmailService) enqueue(job emailJob) {
	if es == nil {
		return
	}
	select {
	case es.queue <- job:
	default:
		logrus.Warnf("email queue full, dropping mail to %s (%s)", job.To, job.Subject)
	}
}

// BookingEmailData is the payload for booking confirmation/alert emails.
type BookingEmailData struct {
	UserName        string
	UserEmail       string
	BookingCode     string
	DestinationName string
	Location        string
	VisitDate       string
	NumberOfPeople  int
	TotalPrice      float64
	Notes           string
}

// QueueBookingConfirmation emails the requester their booking details.
func QueueBookingConfirmation(data BookingEmailData) {
	lines := []string{
		fmt.Sprintf("Name: %s", data.UserName),
		fmt.Sprintf("Booking Code: %s", data.BookingCode),
		fmt.Sprintf("Destination: %s", data.DestinationName),
		fmt.Sprintf("Location: %s", data.Location),
		fmt.Sprintf("Visit Date: %s", data.VisitDate),
		fmt.Sprintf("Number of People: %d", data.NumberOfPeople),
		fmt.Sprintf("Total Price: Rp %.0f", data.TotalPrice),
	}
	if data.Notes != "" {
		lines = append(lines, fmt.Sprintf("Notes: %s", data.Notes))
	}

	Mailer.enqueue(emailJob{
		To:      data.UserEmail,
		Subject: "Booking Confirmation - " + data.BookingCode,
		Lines:   lines,
	})
}

// QueueNewBookingAlert emails a partner or admin about a fresh booking.
func QueueNewBookingAlert(recipient string, data BookingEmailData) {
	Mailer.enqueue(emailJob{
		To:      recipient,
		Subject: "New Booking - " + data.BookingCode,
		Lines: []string{
			fmt.Sprintf("Customer: %s <%s>", data.UserName, data.UserEmail),
			fmt.Sprintf("Destination: %s", data.DestinationName),
			fmt.Sprintf("Visit Date: %s", data.VisitDate),
			fmt.Sprintf("Number of People: %d", data.NumberOfPeople),
			fmt.Sprintf("Total Price: Rp %.0f", data.TotalPrice),
		},
	})
}

package notification

import (
	"fmt"
	"net/smtp"
	"strings"

	"github.com/Rashdan16/Event-sorter/internal/domain/event"
	"github.com/Rashdan16/Event-sorter/pkg/config"
	"github.com/sirupsen/logrus"
)

// Mailer sends plain-text event reminders over SMTP. Delivery is best
// effort: failures are logged, never surfaced to the request.
type Mailer struct {
	cfg  config.SMTPConfig
	log  *logrus.Logger
	send func(addr string, auth smtp.Auth, from string, to []string, msg []byte) error
}

func NewMailer(cfg config.SMTPConfig) *Mailer {
	log := logrus.New()
	log.SetFormatter(&logrus.JSONFormatter{})
	return &Mailer{
		cfg:  cfg,
		log:  log,
		send: smtp.SendMail,
	}
}

// SendReminderAsync queues a reminder email without blocking the caller.
func (m *Mailer) SendReminderAsync(to string, e *event.Event) {
	go func() {
		if err := m.SendReminder(to, e); err != nil {
			m.log.WithFields(logrus.Fields{
				"event_id":  e.ID,
				"recipient": to,
			}).WithError(err).Warn("reminder delivery failed")
		}
	}()
}

// SendReminder delivers a plain-text summary of the event.
func (m *Mailer) SendReminder(to string, e *event.Event) error {
	if m.cfg.Host == "" {
		return fmt.Errorf("smtp is not configured")
	}

	subject := "Reminder: " + e.Name
	body := buildReminderBody(e)

	msg := strings.Join([]string{
		"From: " + m.cfg.From,
		"To: " + to,
		"Subject: " + subject,
		"MIME-Version: 1.0",
		"Content-Type: text/plain; charset=\"utf-8\"",
		"",
		body,
	}, "\r\n")

	addr := fmt.Sprintf("%s:%d", m.cfg.Host, m.cfg.Port)
	var auth smtp.Auth
	if m.cfg.Username != "" {
		auth = smtp.PlainAuth("", m.cfg.Username, m.cfg.Password, m.cfg.Host)
	}

	if err := m.send(addr, auth, m.cfg.From, []string{to}, []byte(msg)); err != nil {
		return fmt.Errorf("failed to send reminder: %w", err)
	}

	m.log.WithFields(logrus.Fields{
		"event_id":  e.ID,
		"recipient": to,
	}).Info("reminder sent")
	return nil
}

func buildReminderBody(e *event.Event) string {
	var b strings.Builder
	fmt.Fprintf(&b, "%s\n", e.Name)
	fmt.Fprintf(&b, "Date: %s\n", e.StartDate.Format("Monday, 2 January 2006"))
	if e.EventTime != nil {
		fmt.Fprintf(&b, "Time: %s\n", *e.EventTime)
	}
	if e.Location != "" {
		fmt.Fprintf(&b, "Location: %s\n", e.Location)
	}
	if e.TicketURL != "" {
		fmt.Fprintf(&b, "Tickets: %s\n", e.TicketURL)
	}
	if e.Description != "" {
		fmt.Fprintf(&b, "\n%s\n", e.Description)
	}
	return b.String()
}

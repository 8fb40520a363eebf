// internal/services/notification_service.go
package services

import (
	"bytes"
	"context"
	"fmt"
	"html/template"
	"net/smtp"

	"github.com/sirupsen/logrus"

	"github.com/isows-india/worklicense-backend/internal/config"
	"github.com/isows-india/worklicense-backend/internal/events"
	"github.com/isows-india/worklicense-backend/internal/originality"
)

const (
	alertMatchLimit  = 3
	alertPhraseLimit = 3
)

// NotificationService delivers domain events by email.
type NotificationService struct {
	config    *config.Config
	templates map[string]*template.Template
	send      func(addr string, a smtp.Auth, from string, to []string, msg []byte) error
	logger    *logrus.Entry
}

func NewNotificationService(cfg *config.Config) *NotificationService {
	templates := make(map[string]*template.Template, len(emailTemplates))
	for name, body := range emailTemplates {
		templates[name] = template.Must(template.New(name).Parse(body))
	}

	return &NotificationService{
		config:    cfg,
		templates: templates,
		send:      smtp.SendMail,
		logger:    logrus.WithField("service", "notifications"),
	}
}

type alertMatch struct {
	WorkTitle  string
	Similarity string
	Phrases    []string
}

func (s *NotificationService) NotifyPlagiarismFlagged(ctx context.Context, event events.WorkFlagged) error {
	if event.Email == "" {
		return fmt.Errorf("no recipient for plagiarism alert on work %s", event.WorkID)
	}

	top := event.Result.Matches
	if len(top) > alertMatchLimit {
		top = top[:alertMatchLimit]
	}

	matches := make([]alertMatch, 0, len(top))
	for _, m := range top {
		matches = append(matches, alertMatch{
			WorkTitle:  m.WorkTitle,
			Similarity: fmt.Sprintf("%.1f%%", m.Similarity*100),
			Phrases:    firstPhrases(m, alertPhraseLimit),
		})
	}

	data := map[string]interface{}{
		"WorkTitle":    event.WorkTitle,
		"WorkID":       event.WorkID,
		"Score":        event.Result.Score,
		"Matches":      matches,
		"MatchedCount": len(event.MatchedWorks),
		"DashboardURL": fmt.Sprintf("%s/dashboard", s.config.Frontend.BaseURL),
	}

	body, err := s.renderTemplate("plagiarism_alert", data)
	if err != nil {
		return fmt.Errorf("failed to render email template: %w", err)
	}

	subject := fmt.Sprintf("Plagiarism Alert: %q", event.WorkTitle)
	return s.sendEmail(event.Email, subject, body)
}

func (s *NotificationService) NotifyLicenseIssued(ctx context.Context, event events.LicenseIssued) error {
	if event.Email == "" {
		return fmt.Errorf("no recipient for license %s", event.License.ID)
	}

	data := map[string]interface{}{
		"WorkTitle":  event.WorkTitle,
		"LicenseID":  event.License.ID,
		"AuthorName": event.License.AuthorName,
		"WorkType":   event.License.WorkType,
		"IssuedAt":   event.License.IssuedAt.Format("2 January 2006"),
		"VerifyURL":  fmt.Sprintf("%s/verify/%s", s.config.Frontend.BaseURL, event.License.ID),
	}

	body, err := s.renderTemplate("license_issued", data)
	if err != nil {
		return fmt.Errorf("failed to render email template: %w", err)
	}

	subject := fmt.Sprintf("License Generated: %q", event.WorkTitle)
	return s.sendEmail(event.Email, subject, body)
}

func firstPhrases(m originality.Match, n int) []string {
	if len(m.OverlappingPhrases) <= n {
		return m.OverlappingPhrases
	}
	return m.OverlappingPhrases[:n]
}

// Helper methods
func (s *NotificationService) sendEmail(to, subject, body string) error {
	if s.config.Email.SMTPHost == "" {
		// Email not configured, just log
		s.logger.WithFields(logrus.Fields{
			"to":      to,
			"subject": subject,
		}).Info("SMTP not configured; email logged instead of sent")
		return nil
	}

	auth := smtp.PlainAuth("", s.config.Email.SMTPUsername, s.config.Email.SMTPPassword, s.config.Email.SMTPHost)

	from := s.config.Email.FromEmail
	if s.config.Email.FromName != "" {
		from = fmt.Sprintf("%s <%s>", s.config.Email.FromName, s.config.Email.FromEmail)
	}
	msg := []byte(fmt.Sprintf("From: %s\r\nTo: %s\r\nSubject: %s\r\nMIME-Version: 1.0\r\nContent-Type: text/html; charset=\"UTF-8\"\r\n\r\n%s", from, to, subject, body))

	addr := fmt.Sprintf("%s:%s", s.config.Email.SMTPHost, s.config.Email.SMTPPort)
	if err := s.send(addr, auth, s.config.Email.FromEmail, []string{to}, msg); err != nil {
		return fmt.Errorf("failed to send email: %w", err)
	}
	return nil
}

func (s *NotificationService) renderTemplate(name string, data interface{}) (string, error) {
	tmpl, ok := s.templates[name]
	if !ok {
		return "", fmt.Errorf("unknown email template %q", name)
	}

	var buf bytes.Buffer
	if err := tmpl.Execute(&buf, data); err != nil {
		return "", err
	}

	return buf.String(), nil
}

var emailTemplates = map[string]string{
	"plagiarism_alert": `
<!DOCTYPE html>
<html>
<body style="font-family: Arial, sans-serif;">
	<h2 style="color: #dc3545;">Plagiarism Alert</h2>
	<h3>Your work has been flagged for potential plagiarism</h3>
	<p><strong>Work:</strong> {{.WorkTitle}}</p>
	<p><strong>Similarity score:</strong> {{.Score}}%</p>
	{{if .Matches}}
	<h4>Similar Works Found:</h4>
	<ul>
		{{range .Matches}}
		<li>
			<strong>{{.WorkTitle}}</strong> ({{.Similarity}} similar)
			{{if .Phrases}}
			<ul>{{range .Phrases}}<li>"{{.}}"</li>{{end}}</ul>
			{{end}}
		</li>
		{{end}}
	</ul>
	{{end}}
	<p>Please review your work and make sure it is original. <a href="{{.DashboardURL}}">Open your dashboard</a></p>
	<p>This is an automated message from ISOWS-INDIA Work Licensing System.</p>
</body>
</html>`,
	"license_issued": `
<!DOCTYPE html>
<html>
<body style="font-family: Arial, sans-serif;">
	<h2 style="color: #155724;">License Generated Successfully!</h2>
	<h3>Your work has been licensed</h3>
	<p><strong>Work:</strong> {{.WorkTitle}}</p>
	<p><strong>License ID:</strong> {{.LicenseID}}</p>
	<p><strong>Author:</strong> {{.AuthorName}}</p>
	<p><strong>Work type:</strong> {{.WorkType}}</p>
	<p><strong>Issued:</strong> {{.IssuedAt}}</p>
	<p>Anyone can verify this license at <a href="{{.VerifyURL}}">{{.VerifyURL}}</a>.</p>
	<p>This is an automated message from ISOWS-INDIA Work Licensing System.</p>
</body>
</html>`,
}

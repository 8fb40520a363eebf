package services

import (
	"context"
	"net/smtp"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/isows-india/worklicense-backend/internal/events"
	"github.com/isows-india/worklicense-backend/internal/models"
	"github.com/isows-india/worklicense-backend/internal/originality"
)

type capturedMail struct {
	addr string
	to   []string
	msg  string
}

func newCapturingNotifier(t *testing.T) (*NotificationService, *[]capturedMail) {
	cfg := testConfig(t.TempDir())
	cfg.Email.SMTPHost = "smtp.example.com"
	cfg.Email.SMTPPort = "587"
	cfg.Email.FromEmail = "noreply@example.com"
	cfg.Email.FromName = "Work Licensing"

	sent := &[]capturedMail{}
	n := NewNotificationService(cfg)
	n.send = func(addr string, _ smtp.Auth, _ string, to []string, msg []byte) error {
		*sent = append(*sent, capturedMail{addr: addr, to: to, msg: string(msg)})
		return nil
	}
	return n, sent
}

func TestNotifyPlagiarismFlagged(t *testing.T) {
	n, sent := newCapturingNotifier(t)

	matches := make([]originality.Match, 5)
	for i := range matches {
		matches[i] = originality.Match{
			WorkID:             uuid.NewString(),
			WorkTitle:          "Source " + string(rune('A'+i)),
			Similarity:         0.5,
			OverlappingPhrases: []string{"one two three", "two three four", "three four five", "four five six"},
		}
	}

	err := n.NotifyPlagiarismFlagged(context.Background(), events.WorkFlagged{
		Email:     "bob@example.com",
		WorkTitle: "Copy",
		WorkID:    uuid.NewString(),
		Result:    originality.Result{IsPlagiarized: true, Score: 50, Matches: matches},
	})
	require.NoError(t, err)

	require.Len(t, *sent, 1)
	mail := (*sent)[0]
	assert.Equal(t, "smtp.example.com:587", mail.addr)
	assert.Equal(t, []string{"bob@example.com"}, mail.to)
	assert.Contains(t, mail.msg, "Source A")
	assert.Contains(t, mail.msg, "Source C")
	assert.NotContains(t, mail.msg, "Source D")
	assert.Contains(t, mail.msg, "three four five")
	assert.NotContains(t, mail.msg, "four five six")
	assert.Contains(t, mail.msg, "50.0%")
}

func TestNotifyLicenseIssued(t *testing.T) {
	n, sent := newCapturingNotifier(t)
	license := models.License{
		ID:              uuid.New(),
		IssuedAt:        models.Now(),
		LicenseMetadata: models.LicenseMetadata{AuthorName: "Asha", WorkType: "poem"},
	}

	err := n.NotifyLicenseIssued(context.Background(), events.LicenseIssued{
		Email:     "asha@example.com",
		WorkTitle: "Poem A",
		License:   license,
	})
	require.NoError(t, err)

	require.Len(t, *sent, 1)
	assert.Contains(t, (*sent)[0].msg, license.ID.String())
	assert.Contains(t, (*sent)[0].msg, "http://localhost:3000/verify/"+license.ID.String())
}

func TestNotifyWithoutSMTPOnlyLogs(t *testing.T) {
	n := NewNotificationService(testConfig(t.TempDir()))
	n.send = func(string, smtp.Auth, string, []string, []byte) error {
		t.Fatal("mail must not be sent without SMTP host")
		return nil
	}

	err := n.NotifyLicenseIssued(context.Background(), events.LicenseIssued{Email: "a@example.com", WorkTitle: "x"})
	assert.NoError(t, err)
}

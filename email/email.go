// Package email delivers transactional mail through Resend.
package email

import (
	"context"
	"fmt"

	"github.com/resend/resend-go/v2"
)

type Mailer struct {
	client      *resend.Client
	from        string
	recoveryURL string
}

func New(apiKey, from, recoveryURL string) *Mailer {
	return &Mailer{
		client:      resend.NewClient(apiKey),
		from:        from,
		recoveryURL: recoveryURL,
	}
}

func (m *Mailer) SendRecovery(ctx context.Context, to, token string) error {
	link := fmt.Sprintf("%s?token=%s", m.recoveryURL, token)

	params := &resend.SendEmailRequest{
		From:    m.from,
		To:      []string{to},
		Subject: "Reset your SkillSwap password",
		Html: fmt.Sprintf(
			`<p>A password reset was requested for this address.</p>
<p><a href="%s">Choose a new password</a></p>
<p>The link expires shortly. If you did not ask for this, ignore this email.</p>`,
			link,
		),
	}

	if _, err := m.client.Emails.SendWithContext(ctx, params); err != nil {
		return fmt.Errorf("sending recovery email to %s: %w", to, err)
	}
	return nil
}

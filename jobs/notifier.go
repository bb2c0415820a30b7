package jobs

import (
	"context"

	"github.com/rolodex-app/rolodex/internal/mail"
)

// VerificationNotifier enqueues verification mail for background delivery.
// It satisfies the auth service's Notifier dependency.
type VerificationNotifier struct {
	client  *Client
	baseURL string
}

// NewVerificationNotifier constructs a VerificationNotifier.
func NewVerificationNotifier(client *Client, baseURL string) *VerificationNotifier {
	return &VerificationNotifier{client: client, baseURL: baseURL}
}

// EnqueueVerification queues the verification email. The caller treats a
// failure as log-and-continue; delivery never gates registration.
func (n *VerificationNotifier) EnqueueVerification(ctx context.Context, email, token string) error {
	subject, body := mail.VerificationEmail(n.baseURL, token)
	_, err := n.client.EnqueueSendEmail(ctx, SendEmailPayload{
		To:      email,
		Subject: subject,
		Body:    body,
	})
	return err
}

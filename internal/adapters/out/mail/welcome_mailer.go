// internal/adapters/out/mail/welcome_mailer.go
package mail

import (
	"context"
	"fmt"
	"strings"
)

// WelcomeMailerPort is the outbound port the registration flow calls after a
// new account has been created. Delivery is best-effort: a mail failure must
// never roll the account back.
type WelcomeMailerPort interface {
	SendWelcomeEmail(ctx context.Context, toEmail, fullName string) error
}

// WelcomeMailer renders and sends the storefront welcome email through an
// EmailClient.
type WelcomeMailer struct {
	client      EmailClient
	fromAddress string
	storeName   string
	baseURL     string
}

// NewWelcomeMailer builds a WelcomeMailer.
//
//   - client      : concrete EmailClient (SendGrid in production)
//   - fromAddress : sender address, e.g. "no-reply@example.com"
//   - baseURL     : storefront base URL embedded in the mail body
func NewWelcomeMailer(client EmailClient, fromAddress, baseURL string) *WelcomeMailer {
	return &WelcomeMailer{
		client:      client,
		fromAddress: fromAddress,
		storeName:   "Storefront",
		baseURL:     strings.TrimRight(strings.TrimSpace(baseURL), "/"),
	}
}

func (m *WelcomeMailer) SendWelcomeEmail(ctx context.Context, toEmail, fullName string) error {
	if m == nil || m.client == nil {
		return fmt.Errorf("welcome mailer is not configured")
	}

	name := strings.TrimSpace(fullName)
	if name == "" {
		name = "there"
	}

	subject := fmt.Sprintf("Welcome to %s", m.storeName)

	body := fmt.Sprintf(
		`Hi %s,

Your %s account is ready.

Browse the catalog and start shopping here:

  %s/products

If you did not create this account, you can ignore this message.

--
%s`,
		name,
		m.storeName,
		m.baseURL,
		m.storeName,
	)

	return m.client.Send(ctx, m.fromAddress, strings.TrimSpace(toEmail), subject, body)
}

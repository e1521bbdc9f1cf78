// Package email sends transactional mail. The Sender interface keeps the
// provider swappable; the current implementation uses the Resend API.
// Delivery is fire-and-forget from the caller's point of view: signup does
// not fail when the mail provider is down, the user simply retries.
package email

import (
	"context"
	"fmt"
	"log"

	"github.com/resend/resend-go/v3"
)

// Sender delivers the activation email carrying the 4-digit code. The code
// travels only by email; the signed copy inside the activation token is
// what it is checked against.
type Sender interface {
	SendActivation(ctx context.Context, to, name, code string) error
}

type resendSender struct {
	client *resend.Client
	from   string
}

// NewResendSender builds a Sender backed by the Resend API.
func NewResendSender(apiKey, from string) Sender {
	return &resendSender{client: resend.NewClient(apiKey), from: from}
}

func (s *resendSender) SendActivation(ctx context.Context, to, name, code string) error {
	html := fmt.Sprintf(`<!DOCTYPE html>
<html>
<body style="margin:0;padding:0;font-family:Arial,Helvetica,sans-serif;background-color:#f4f4f7;">
  <table width="100%%" cellpadding="0" cellspacing="0" style="padding:40px 0;">
    <tr>
      <td align="center">
        <table width="480" cellpadding="0" cellspacing="0" style="background-color:#ffffff;border-radius:8px;padding:40px;">
          <tr>
            <td>
              <h1 style="font-size:22px;margin:0 0 16px 0;">Activate your account</h1>
              <p style="font-size:15px;line-height:1.6;margin:0 0 24px 0;">
                Hi %s, enter this code to finish creating your account:
              </p>
              <p style="font-size:32px;letter-spacing:8px;font-weight:700;margin:0 0 24px 0;">%s</p>
              <p style="font-size:13px;color:#6b7280;margin:0;">
                The code expires in one hour. If you didn't sign up, you can ignore this email.
              </p>
            </td>
          </tr>
        </table>
      </td>
    </tr>
  </table>
</body>
</html>`, name, code)

	params := &resend.SendEmailRequest{
		From:    fmt.Sprintf("E-Learning <%s>", s.from),
		To:      []string{to},
		Subject: "E-Learning | Activate your account",
		Html:    html,
	}
	_, err := s.client.Emails.SendWithContext(ctx, params)
	return err
}

// logSender is used when no RESEND_API_KEY is configured (dev). It logs the
// code instead of sending mail.
type logSender struct{}

// NewLogSender returns a Sender that only logs. Never use it in prod: the
// activation code would end up in log files.
func NewLogSender() Sender { return logSender{} }

func (logSender) SendActivation(_ context.Context, to, _, code string) error {
	log.Printf("email: activation code for %s: %s", to, code)
	return nil
}

package service

import (
	"context"
	"fmt"
	"strings"

	"github.com/resend/resend-go/v2"
)

// ResendEmailSender delivers challenge codes through the Resend API. A nil
// sender is valid everywhere; the service then only stores the code.
type ResendEmailSender struct {
	Client *resend.Client
	From   string
}

func NewResendEmailSender(apiKey string, from string) *ResendEmailSender {
	if strings.TrimSpace(apiKey) == "" || strings.TrimSpace(from) == "" {
		return nil
	}
	return &ResendEmailSender{
		Client: resend.NewClient(apiKey),
		From:   from,
	}
}

func (s *ResendEmailSender) SendVerificationCode(ctx context.Context, email string, code string) error {
	subject := "Your verification code"
	return s.send(email, subject, code, "verification")
}

func (s *ResendEmailSender) SendResetCode(ctx context.Context, email string, code string) error {
	subject := "Your password reset code"
	return s.send(email, subject, code, "password reset")
}

func (s *ResendEmailSender) send(to string, subject string, code string, kind string) error {
	html := fmt.Sprintf("<p>Your %s code is:</p><p><strong>%s</strong></p><p>It expires in 10 minutes.</p>", kind, code)
	text := fmt.Sprintf("Your %s code is %s. It expires in 10 minutes.", kind, code)
	_, err := s.Client.Emails.Send(&resend.SendEmailRequest{
		From:    s.From,
		To:      []string{to},
		Subject: subject,
		Html:    html,
		Text:    text,
	})
	if err != nil {
		return fmt.Errorf("send %s email: %w", kind, err)
	}
	return nil
}

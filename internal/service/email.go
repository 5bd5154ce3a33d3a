package service

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/resend/resend-go/v2"
	"github.com/templui/goalnudge/internal/markdown"
)

// Deliverer hands a rendered message to the user's channel.
type Deliverer interface {
	Deliver(ctx context.Context, userID, text string) error
}

// EmailService delivers nudges and replies by email through Resend.
// In development messages are logged instead of sent.
type EmailService struct {
	client      *resend.Client
	userService *UserService
	renderer    *markdown.Renderer
	fromEmail   string
	isDev       bool
	appName     string
}

func NewEmailService(apiKey, fromEmail, appName string, isDev bool, userService *UserService) *EmailService {
	var client *resend.Client
	if apiKey != "" && !isDev {
		client = resend.NewClient(apiKey)
	}

	return &EmailService{
		client:      client,
		userService: userService,
		renderer:    markdown.NewRenderer(),
		fromEmail:   fromEmail,
		isDev:       isDev,
		appName:     appName,
	}
}

func (s *EmailService) Deliver(ctx context.Context, userID, text string) error {
	user, err := s.userService.ByID(ctx, userID)
	if err != nil {
		return fmt.Errorf("failed to load recipient: %w", err)
	}

	subject := emailSubject(text, s.appName)

	if s.isDev {
		slog.Info("message sent (dev mode)", "user_id", userID, "to", user.Email, "subject", subject, "text", text)
		return nil
	}

	if s.client == nil {
		return fmt.Errorf("email service not configured (missing RESEND_API_KEY)")
	}

	html, err := s.renderer.Render([]byte(text))
	if err != nil {
		return fmt.Errorf("failed to render message: %w", err)
	}

	params := &resend.SendEmailRequest{
		From:    s.fromEmail,
		To:      []string{user.Email},
		Subject: subject,
		Text:    text,
		Html:    string(html),
	}

	_, err = s.client.Emails.SendWithContext(ctx, params)
	if err == nil {
		slog.Info("message sent", "user_id", userID, "to", user.Email)
	}
	return err
}

// emailSubject uses the first line of the message, without markdown emphasis.
func emailSubject(text, appName string) string {
	first, _, _ := strings.Cut(text, "\n")
	first = strings.TrimSpace(strings.ReplaceAll(first, "**", ""))
	if first == "" {
		return appName
	}
	return fmt.Sprintf("%s: %s", appName, first)
}

package service

import (
	"fmt"
	"log/slog"
	"net/http"
	"strings"

	standardwebhooks "github.com/standard-webhooks/standard-webhooks/libraries/go"
)

// WebhookVerifier checks Standard Webhooks signatures on inbound replies.
// Without a secret every payload is accepted.
type WebhookVerifier struct {
	wh *standardwebhooks.Webhook
}

// NewWebhookVerifier accepts either a "whsec_" base64 secret or a raw one.
func NewWebhookVerifier(secret string) (*WebhookVerifier, error) {
	if secret == "" {
		return &WebhookVerifier{}, nil
	}

	var wh *standardwebhooks.Webhook
	var err error
	if strings.HasPrefix(secret, "whsec_") {
		wh, err = standardwebhooks.NewWebhook(secret)
	} else {
		wh, err = standardwebhooks.NewWebhookRaw([]byte(secret))
	}
	if err != nil {
		return nil, fmt.Errorf("failed to create webhook verifier: %w", err)
	}

	return &WebhookVerifier{wh: wh}, nil
}

func (v *WebhookVerifier) Verify(payload []byte, headers http.Header) error {
	if v.wh == nil {
		slog.Debug("no reply webhook secret configured, skipping signature verification")
		return nil
	}

	err := v.wh.Verify(payload, headers)
	if err != nil {
		return fmt.Errorf("invalid webhook signature: %w", err)
	}
	return nil
}

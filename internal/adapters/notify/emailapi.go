package notify

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/jrobz00/Joseph1/internal/ports"
)

const defaultEmailAPIBaseURL = "https://api.emailjs.com"

// EmailAPIDispatcher delivers the ticket notification through a hosted
// template-email API. The service/template/public-key triple identifies the
// operator's configured template; the payload becomes its template params.
type EmailAPIDispatcher struct {
	baseURL   string
	serviceID string
	publicKey string
	client    *http.Client
}

type EmailAPIConfig struct {
	BaseURL   string
	ServiceID string
	PublicKey string
	Timeout   time.Duration
}

func NewEmailAPIDispatcher(cfg EmailAPIConfig) *EmailAPIDispatcher {
	if cfg.BaseURL == "" {
		cfg.BaseURL = defaultEmailAPIBaseURL
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = 10 * time.Second
	}
	return &EmailAPIDispatcher{
		baseURL:   cfg.BaseURL,
		serviceID: cfg.ServiceID,
		publicKey: cfg.PublicKey,
		client:    &http.Client{Timeout: cfg.Timeout},
	}
}

type emailAPIRequest struct {
	ServiceID      string                    `json:"service_id"`
	TemplateID     string                    `json:"template_id"`
	UserID         string                    `json:"user_id"`
	TemplateParams ports.NotificationPayload `json:"template_params"`
}

func (d *EmailAPIDispatcher) Send(ctx context.Context, templateID string, payload ports.NotificationPayload) error {
	body, err := json.Marshal(emailAPIRequest{
		ServiceID:      d.serviceID,
		TemplateID:     templateID,
		UserID:         d.publicKey,
		TemplateParams: payload,
	})
	if err != nil {
		return fmt.Errorf("encode request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, d.baseURL+"/api/v1.0/email/send", bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := d.client.Do(req)
	if err != nil {
		return fmt.Errorf("send email: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		text, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return fmt.Errorf("email api responded %d: %s", resp.StatusCode, string(text))
	}
	return nil
}

// Package email delivers notifications through the Resend HTTP API.
package email

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/tidwall/gjson"

	applog "github.com/nambiararyan24/portfolio/internal"
	"github.com/nambiararyan24/portfolio/internal/errors"
	"github.com/nambiararyan24/portfolio/ports"
)

// ResendSender posts emails to the Resend API
type ResendSender struct {
	apiKey     string
	baseURL    string
	httpClient *http.Client
	logger     *applog.Logger
}

// NewResendSender creates a sender for the given API key and base URL
func NewResendSender(apiKey, baseURL string, timeout time.Duration, logger *applog.Logger) *ResendSender {
	if logger == nil {
		logger = applog.NewNopLogger()
	}
	return &ResendSender{
		apiKey:  apiKey,
		baseURL: strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{
			Timeout: timeout,
		},
		logger: logger,
	}
}

type sendRequest struct {
	From    string   `json:"from"`
	To      []string `json:"to"`
	Subject string   `json:"subject"`
	HTML    string   `json:"html"`
}

// Send delivers one email and logs the provider id
func (s *ResendSender) Send(ctx context.Context, e ports.Email) error {
	payload, err := json.Marshal(sendRequest{From: e.From, To: e.To, Subject: e.Subject, HTML: e.HTML})
	if err != nil {
		return fmt.Errorf("failed to encode email: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, s.baseURL+"/emails", bytes.NewReader(payload))
	if err != nil {
		return fmt.Errorf("failed to build request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+s.apiKey)
	req.Header.Set("Content-Type", "application/json")

	resp, err := s.httpClient.Do(req)
	if err != nil {
		return errors.ExternalServiceError("resend", err)
	}
	body, err := io.ReadAll(io.LimitReader(resp.Body, 64<<10))
	resp.Body.Close()
	if err != nil {
		return fmt.Errorf("failed to read response: %w", err)
	}

	if resp.StatusCode >= 300 {
		msg := gjson.GetBytes(body, "message").String()
		if msg == "" {
			msg = strings.TrimSpace(string(body))
		}
		return errors.ExternalServiceError("resend", fmt.Errorf("status %d: %s", resp.StatusCode, msg))
	}

	s.logger.Debug("[Email] sent %q to %s (id %s)", e.Subject, strings.Join(e.To, ","), gjson.GetBytes(body, "id").String())
	return nil
}

// NopSender is used when no API key is configured. It only logs.
type NopSender struct {
	logger *applog.Logger
}

func NewNopSender(logger *applog.Logger) *NopSender {
	if logger == nil {
		logger = applog.NewNopLogger()
	}
	return &NopSender{logger: logger}
}

func (s *NopSender) Send(_ context.Context, e ports.Email) error {
	s.logger.Info("[Email] email not sent (API key not configured): %q", e.Subject)
	return nil
}

// New picks the Resend sender when an API key is set.
func New(apiKey, baseURL string, timeout time.Duration, logger *applog.Logger) ports.Notifier {
	if apiKey == "" {
		return NewNopSender(logger)
	}
	return NewResendSender(apiKey, baseURL, timeout, logger)
}

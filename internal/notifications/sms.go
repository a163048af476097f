package notifications

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/bobcodebuilderai/eldoradokonferansehub/config"
)

const (
	gatewayAPIURL  = "https://gatewayapi.com/rest/mtsms"
	maxSenderChars = 11
	requestTimeout = 10 * time.Second
)

// Sender sends a text message to one recipient.
type Sender interface {
	Send(ctx context.Context, phone, message string) error
}

// SMSClient sends messages through GatewayAPI.
type SMSClient struct {
	cfg    config.SMSConfig
	client *http.Client
}

// NewSMSClient creates a GatewayAPI client.
func NewSMSClient(cfg config.SMSConfig) *SMSClient {
	return &SMSClient{cfg: cfg, client: &http.Client{Timeout: requestTimeout}}
}

type smsRequest struct {
	Sender     string         `json:"sender"`
	Message    string         `json:"message"`
	Recipients []smsRecipient `json:"recipients"`
}

type smsRecipient struct {
	MSISDN string `json:"msisdn"`
}

// Send delivers one message. The sender name is truncated to the operator
// limit and the phone number normalized to international form.
func (c *SMSClient) Send(ctx context.Context, phone, message string) error {
	msisdn, err := NormalizePhone(phone)
	if err != nil {
		return err
	}

	sender := c.cfg.Sender
	if len(sender) > maxSenderChars {
		sender = sender[:maxSenderChars]
	}

	body, err := json.Marshal(smsRequest{
		Sender:     sender,
		Message:    message,
		Recipients: []smsRecipient{{MSISDN: msisdn}},
	})
	if err != nil {
		return fmt.Errorf("marshal sms request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, gatewayAPIURL, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("build sms request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.SetBasicAuth(c.cfg.APIKey, c.cfg.APISecret)

	resp, err := c.client.Do(req)
	if err != nil {
		return fmt.Errorf("send sms: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return fmt.Errorf("gatewayapi returned status %d", resp.StatusCode)
	}
	return nil
}

// NormalizePhone strips formatting and returns a digits-only MSISDN. Numbers
// without a country prefix are assumed Norwegian.
func NormalizePhone(phone string) (string, error) {
	cleaned := strings.Map(func(r rune) rune {
		if r >= '0' && r <= '9' {
			return r
		}
		return -1
	}, phone)

	hadPrefix := strings.HasPrefix(strings.TrimSpace(phone), "+") || strings.HasPrefix(cleaned, "00")
	cleaned = strings.TrimPrefix(cleaned, "00")

	if len(cleaned) == 8 && !hadPrefix {
		cleaned = "47" + cleaned
	}
	if len(cleaned) < 10 {
		return "", fmt.Errorf("invalid phone number %q", phone)
	}
	return cleaned, nil
}

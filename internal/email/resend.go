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

	"dbs-store/internal/auth"
	"dbs-store/internal/logger"

	"go.uber.org/zap"
)

const (
	DefaultBaseURL = "https://api.resend.com"
	DefaultFrom    = "DBS Store <noreply@dbs-store.ci>"
)

// ResendClient sends transactional mail through the Resend HTTP API.
type ResendClient struct {
	apiKey     string
	baseURL    string
	from       string
	httpClient *http.Client
}

func NewResendClient(apiKey, baseURL, from string) *ResendClient {
	if apiKey == "" {
		logger.L().Warn("Resend API key is empty, emails will be rejected")
	}
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	if from == "" {
		from = DefaultFrom
	}

	return &ResendClient{
		apiKey:  apiKey,
		baseURL: strings.TrimRight(baseURL, "/"),
		from:    from,
		httpClient: &http.Client{
			Timeout: 10 * time.Second,
		},
	}
}

type sendRequest struct {
	From    string   `json:"from"`
	To      []string `json:"to"`
	Subject string   `json:"subject"`
	HTML    string   `json:"html"`
}

type sendResponse struct {
	ID string `json:"id"`
}

// SendOTP mails a one-time code. It satisfies auth.OTPSender.
func (c *ResendClient) SendOTP(ctx context.Context, to, otp string, otpType auth.OTPType) error {
	html, err := renderOTP(otp, otpType)
	if err != nil {
		return fmt.Errorf("render otp email: %w", err)
	}
	return c.send(ctx, sendRequest{
		From:    c.from,
		To:      []string{to},
		Subject: Subject(otpType),
		HTML:    html,
	})
}

func (c *ResendClient) send(ctx context.Context, payload sendRequest) error {
	log := logger.FromCtx(ctx).With(
		zap.String("provider", "resend"),
		zap.String("to", auth.MaskEmail(payload.To[0])),
	)

	jsonBody, err := json.Marshal(payload)
	if err != nil {
		return err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/emails", bytes.NewReader(jsonBody))
	if err != nil {
		log.Error("failed creating request", zap.Error(err))
		return err
	}
	req.Header.Set("Authorization", "Bearer "+c.apiKey)
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		log.Error("resend request failed", zap.Error(err))
		return err
	}
	defer resp.Body.Close()

	bodyBytes, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("failed to read resend response: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		log.Error("resend returned non-success status",
			zap.Int("status", resp.StatusCode),
			zap.ByteString("response", bodyBytes),
		)
		return fmt.Errorf("resend error (%d): %s", resp.StatusCode, resendMessage(bodyBytes))
	}

	var res sendResponse
	if err := json.Unmarshal(bodyBytes, &res); err != nil {
		log.Warn("unexpected resend response body", zap.Error(err))
	}

	log.Info("email sent", zap.String("email_id", res.ID))
	return nil
}

// resendMessage extracts the "message" field of an error body, falling back to the raw body.
func resendMessage(body []byte) string {
	var e struct {
		Message string `json:"message"`
	}
	if err := json.Unmarshal(body, &e); err == nil && e.Message != "" {
		return e.Message
	}
	return string(body)
}

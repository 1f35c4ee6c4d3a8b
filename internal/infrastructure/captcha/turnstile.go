package captcha

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"go.uber.org/zap"

	domainerrors "carbon-market.backend/internal/domain/errors"
	"carbon-market.backend/pkg/logger"
)

const defaultVerifyURL = "https://challenges.cloudflare.com/turnstile/v0/siteverify"

// Verifier checks a client-supplied challenge token
type Verifier interface {
	Verify(ctx context.Context, token, remoteIP string) error
}

// TurnstileVerifier validates Cloudflare Turnstile tokens against the
// siteverify endpoint. An empty secret disables verification, which keeps
// local development working without a Cloudflare account.
type TurnstileVerifier struct {
	secret    string
	verifyURL string
	client    *http.Client
}

// NewTurnstileVerifier creates a verifier for the given site secret
func NewTurnstileVerifier(secret string) *TurnstileVerifier {
	return &TurnstileVerifier{
		secret:    secret,
		verifyURL: defaultVerifyURL,
		client:    &http.Client{Timeout: 10 * time.Second},
	}
}

// WithVerifyURL overrides the siteverify endpoint, used in tests
func (v *TurnstileVerifier) WithVerifyURL(u string) *TurnstileVerifier {
	v.verifyURL = u
	return v
}

type siteverifyResponse struct {
	Success    bool     `json:"success"`
	ErrorCodes []string `json:"error-codes"`
}

// Verify posts the token to the siteverify endpoint. It returns
// ErrCaptchaFailed when the challenge did not pass.
func (v *TurnstileVerifier) Verify(ctx context.Context, token, remoteIP string) error {
	if v.secret == "" {
		return nil
	}
	if token == "" {
		return domainerrors.ErrCaptchaFailed
	}

	form := url.Values{}
	form.Set("secret", v.secret)
	form.Set("response", token)
	if remoteIP != "" {
		form.Set("remoteip", remoteIP)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, v.verifyURL, strings.NewReader(form.Encode()))
	if err != nil {
		return fmt.Errorf("failed to build siteverify request: %w", err)
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	resp, err := v.client.Do(req)
	if err != nil {
		return fmt.Errorf("siteverify request failed: %w", err)
	}
	defer resp.Body.Close()

	var result siteverifyResponse
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return fmt.Errorf("failed to decode siteverify response: %w", err)
	}

	if !result.Success {
		logger.Warn(ctx, "captcha verification rejected", zap.Strings("error_codes", result.ErrorCodes))
		return domainerrors.ErrCaptchaFailed
	}
	return nil
}

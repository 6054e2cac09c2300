// Package recaptcha checks reCAPTCHA v3 tokens. The check is advisory.
package recaptcha

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/tidwall/gjson"

	"github.com/nambiararyan24/portfolio/internal/errors"
	"github.com/nambiararyan24/portfolio/ports"
)

// Verifier calls the siteverify endpoint
type Verifier struct {
	secret     string
	verifyURL  string
	minScore   float64
	httpClient *http.Client
}

// NewVerifier returns nil when no secret is configured; callers treat a
// nil verifier as "verification unavailable".
func NewVerifier(secret, verifyURL string, minScore float64, timeout time.Duration) ports.Verifier {
	if secret == "" {
		return nil
	}
	return &Verifier{
		secret:     secret,
		verifyURL:  verifyURL,
		minScore:   minScore,
		httpClient: &http.Client{Timeout: timeout},
	}
}

// Verify checks token. An empty token yields an unchecked result, not an error.
func (v *Verifier) Verify(ctx context.Context, token, remoteIP string) (ports.Verification, error) {
	if strings.TrimSpace(token) == "" {
		return ports.Verification{Reason: "no token"}, nil
	}

	form := url.Values{"secret": {v.secret}, "response": {token}}
	if remoteIP != "" {
		form.Set("remoteip", remoteIP)
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, v.verifyURL, strings.NewReader(form.Encode()))
	if err != nil {
		return ports.Verification{}, err
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	resp, err := v.httpClient.Do(req)
	if err != nil {
		return ports.Verification{}, errors.ExternalServiceError("siteverify", err)
	}
	body, err := io.ReadAll(io.LimitReader(resp.Body, 16<<10))
	resp.Body.Close()
	if err != nil {
		return ports.Verification{}, err
	}
	if resp.StatusCode != http.StatusOK {
		return ports.Verification{}, errors.ExternalServiceError("siteverify", fmt.Errorf("status %d", resp.StatusCode))
	}

	result := gjson.ParseBytes(body)
	out := ports.Verification{Checked: true, Score: result.Get("score").Float()}
	if !result.Get("success").Bool() {
		codes := make([]string, 0)
		for _, c := range result.Get("error-codes").Array() {
			codes = append(codes, c.String())
		}
		out.Reason = "rejected: " + strings.Join(codes, ",")
		return out, nil
	}
	// v2 responses carry no score
	if !result.Get("score").Exists() || out.Score >= v.minScore {
		out.Human = true
		return out, nil
	}
	out.Reason = fmt.Sprintf("score below %.2f", v.minScore)
	return out, nil
}

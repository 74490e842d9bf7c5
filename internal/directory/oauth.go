package directory

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"sync"
	"time"
)

// TokenSource supplies a bearer token for GBP API calls.
type TokenSource interface {
	Token(ctx context.Context) (string, error)
}

// StaticToken is a fixed token, used in tests and for short-lived scripts.
type StaticToken string

// Token returns the static token.
func (t StaticToken) Token(_ context.Context) (string, error) {
	return string(t), nil
}

// RefreshingTokenSource exchanges a long-lived refresh token for access
// tokens, refreshing shortly before expiry. A refresh rejection is surfaced
// as a reauthentication error rather than retried.
type RefreshingTokenSource struct {
	TokenURL     string
	ClientID     string
	ClientSecret string
	RefreshToken string
	HTTPClient   *http.Client

	mu          sync.Mutex
	accessToken string
	expiresAt   time.Time
}

// refreshSkew refreshes tokens this long before their reported expiry.
const refreshSkew = 2 * time.Minute

// GoogleTokenURL is the OAuth token endpoint for Google APIs.
const GoogleTokenURL = "https://oauth2.googleapis.com/token"

// NewRefreshingTokenSource builds a token source against the Google OAuth
// endpoint from client credentials and a long-lived refresh token.
func NewRefreshingTokenSource(clientID, clientSecret, refreshToken string) *RefreshingTokenSource {
	return &RefreshingTokenSource{
		TokenURL:     GoogleTokenURL,
		ClientID:     clientID,
		ClientSecret: clientSecret,
		RefreshToken: refreshToken,
	}
}

// Token returns a valid access token, refreshing it if needed.
func (ts *RefreshingTokenSource) Token(ctx context.Context) (string, error) {
	ts.mu.Lock()
	defer ts.mu.Unlock()

	if ts.accessToken != "" && time.Now().Before(ts.expiresAt.Add(-refreshSkew)) {
		return ts.accessToken, nil
	}

	token, expiresIn, err := ts.refresh(ctx)
	if err != nil {
		return "", err
	}

	ts.accessToken = token
	ts.expiresAt = time.Now().Add(time.Duration(expiresIn) * time.Second)
	return ts.accessToken, nil
}

func (ts *RefreshingTokenSource) refresh(ctx context.Context) (string, int, error) {
	form := url.Values{
		"grant_type":    {"refresh_token"},
		"refresh_token": {ts.RefreshToken},
		"client_id":     {ts.ClientID},
		"client_secret": {ts.ClientSecret},
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, ts.TokenURL, strings.NewReader(form.Encode()))
	if err != nil {
		return "", 0, fmt.Errorf("failed to build token request: %w", err)
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	client := ts.HTTPClient
	if client == nil {
		client = &http.Client{Timeout: 15 * time.Second}
	}

	resp, err := client.Do(req)
	if err != nil {
		return "", 0, &Error{Kind: KindUpstream, Source: "gbp", Message: "token refresh request failed", Cause: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusBadRequest || resp.StatusCode == http.StatusUnauthorized {
		// An invalid_grant response means the refresh token itself is dead.
		return "", 0, &Error{Kind: KindReauth, Source: "gbp", Message: "refresh token rejected, reauthentication required"}
	}
	if resp.StatusCode != http.StatusOK {
		return "", 0, &Error{Kind: KindUpstream, Source: "gbp", Message: fmt.Sprintf("token endpoint returned %d", resp.StatusCode)}
	}

	var body struct {
		AccessToken string `json:"access_token"`
		ExpiresIn   int    `json:"expires_in"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return "", 0, &Error{Kind: KindUpstream, Source: "gbp", Message: "malformed token response", Cause: err}
	}
	if body.AccessToken == "" {
		return "", 0, &Error{Kind: KindReauth, Source: "gbp", Message: "token response missing access token"}
	}

	return body.AccessToken, body.ExpiresIn, nil
}

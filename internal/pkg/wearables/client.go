package wearables

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log"
	"net/http"
	"net/url"
	"strings"
	"time"
)

// Machine-readable reasons surfaced to the status page when an attempt
// fails. The provider's own error code is passed through verbatim when the
// callback carried an error query value.
const (
	ReasonMissingCode        = "missing_code"
	ReasonTokenFetchFailed   = "token_fetch_failed"
	ReasonTokenResponseNotOK = "token_response_not_ok"
	ReasonDBError            = "db_error"
)

// LinkError carries the reason code for a failed linking step. The wrapped
// error is logged server-side; only the reason reaches the browser.
type LinkError struct {
	Reason string
	Err    error
}

func (e *LinkError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("wearable link failed (%s): %v", e.Reason, e.Err)
	}
	return fmt.Sprintf("wearable link failed (%s)", e.Reason)
}

func (e *LinkError) Unwrap() error {
	return e.Err
}

// ReasonOf extracts the redirect reason from an error, defaulting to
// token_fetch_failed for plain transport errors.
func ReasonOf(err error) string {
	var le *LinkError
	if errors.As(err, &le) {
		return le.Reason
	}
	return ReasonTokenFetchFailed
}

// TokenResponse is the JSON body the provider token endpoint returns on a
// successful authorization-code exchange.
type TokenResponse struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
	ExpiresIn    int    `json:"expires_in"`
	TokenType    string `json:"token_type"`
	Scope        string `json:"scope"`
}

// ExpiresAt computes the absolute expiry from expires_in, or nil when the
// provider did not send one.
func (t *TokenResponse) ExpiresAt(now time.Time) *time.Time {
	if t.ExpiresIn <= 0 {
		return nil
	}
	exp := now.Add(time.Duration(t.ExpiresIn) * time.Second)
	return &exp
}

// ScopeSet splits the space-delimited scope string, or nil when absent.
func (t *TokenResponse) ScopeSet() []string {
	if strings.TrimSpace(t.Scope) == "" {
		return nil
	}
	return strings.Fields(t.Scope)
}

const exchangeTimeout = 15 * time.Second

// Client performs the outbound token exchange. The bounded timeout keeps a
// hung provider from blocking the callback handler indefinitely; a timeout
// surfaces as token_fetch_failed like any other transport failure.
type Client struct {
	HTTPClient *http.Client
}

// NewClient returns a client with the default exchange timeout.
func NewClient() *Client {
	return &Client{
		HTTPClient: &http.Client{Timeout: exchangeTimeout},
	}
}

// ExchangeCode redeems an authorization code at the provider token
// endpoint. Failures are typed *LinkError values: transport problems map to
// token_fetch_failed, provider rejections to token_response_not_ok. The
// response body is logged, never returned to the caller's user.
func (c *Client) ExchangeCode(ctx context.Context, cfg ProviderConfig, code string) (*TokenResponse, error) {
	form := url.Values{}
	form.Set("grant_type", "authorization_code")
	form.Set("code", code)
	form.Set("redirect_uri", cfg.RedirectURI)

	switch cfg.AuthStyle {
	case AuthStyleBasic:
		// Fitbit wants the client id in the form even with Basic auth.
		form.Set("client_id", cfg.ClientID)
	default:
		form.Set("client_id", cfg.ClientID)
		form.Set("client_secret", cfg.ClientSecret)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, cfg.TokenURL, strings.NewReader(form.Encode()))
	if err != nil {
		return nil, &LinkError{Reason: ReasonTokenFetchFailed, Err: err}
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	req.Header.Set("Accept", "application/json")
	if cfg.AuthStyle == AuthStyleBasic {
		req.SetBasicAuth(cfg.ClientID, cfg.ClientSecret)
	}

	httpClient := c.HTTPClient
	if httpClient == nil {
		httpClient = &http.Client{Timeout: exchangeTimeout}
	}

	resp, err := httpClient.Do(req)
	if err != nil {
		return nil, &LinkError{Reason: ReasonTokenFetchFailed, Err: err}
	}
	defer resp.Body.Close()

	body, _ := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		log.Printf("%s token exchange rejected: status=%d body=%s", cfg.Provider, resp.StatusCode, string(body))
		return nil, &LinkError{
			Reason: ReasonTokenResponseNotOK,
			Err:    fmt.Errorf("token endpoint returned status %d", resp.StatusCode),
		}
	}

	var out TokenResponse
	if err := json.Unmarshal(body, &out); err != nil {
		log.Printf("%s token response unparseable: %v", cfg.Provider, err)
		return nil, &LinkError{Reason: ReasonTokenResponseNotOK, Err: err}
	}
	if strings.TrimSpace(out.AccessToken) == "" {
		return nil, &LinkError{
			Reason: ReasonTokenResponseNotOK,
			Err:    fmt.Errorf("token endpoint returned empty access_token"),
		}
	}
	return &out, nil
}

// Package wearables implements the OAuth linking flow for biometric data
// providers. One state machine is parameterized by a ProviderConfig instead
// of duplicating the flow per provider; the only per-provider variation is
// endpoint URLs, credential transmission style and scopes.
package wearables

import (
	"errors"
	"fmt"
	"net/url"
	"strings"

	"github.com/fromwithin/fromwithin/internal/pkg/env"
)

// Provider identifies a supported wearable data source.
type Provider string

const (
	ProviderFitbit    Provider = "fitbit"
	ProviderOura      Provider = "oura"
	ProviderGoogleFit Provider = "google_fit"
)

// Providers lists every supported provider.
func Providers() []Provider {
	return []Provider{ProviderFitbit, ProviderOura, ProviderGoogleFit}
}

// ParseProvider validates a provider path segment.
func ParseProvider(s string) (Provider, error) {
	switch Provider(strings.ToLower(strings.TrimSpace(s))) {
	case ProviderFitbit:
		return ProviderFitbit, nil
	case ProviderOura:
		return ProviderOura, nil
	case ProviderGoogleFit:
		return ProviderGoogleFit, nil
	default:
		return "", fmt.Errorf("unknown wearable provider %q", s)
	}
}

// AuthStyle controls how client credentials travel on the token request.
type AuthStyle int

const (
	// AuthStyleForm sends client_id/client_secret as form fields.
	AuthStyleForm AuthStyle = iota
	// AuthStyleBasic sends the credentials as an HTTP Basic auth header.
	AuthStyleBasic
)

// ProviderConfig carries everything the link protocol needs for one
// provider. Secrets are injected (env-sourced in production, fakes in
// tests) rather than read at package scope.
type ProviderConfig struct {
	Provider     Provider
	AuthorizeURL string
	TokenURL     string
	ClientID     string
	ClientSecret string
	RedirectURI  string
	Scopes       []string
	AuthStyle    AuthStyle
	// AuthorizeParams holds extra authorize query params such as
	// prompt=consent or access_type=offline.
	AuthorizeParams map[string]string

	// SourceDevice is the display name stored alongside the credential.
	SourceDevice string
}

// Validate reports deployment-level misconfiguration. A missing client id
// or secret is a startup error and must fail loudly, never redirect.
func (c ProviderConfig) Validate() error {
	if strings.TrimSpace(c.ClientID) == "" || strings.TrimSpace(c.ClientSecret) == "" {
		return fmt.Errorf("wearable provider %s: client id/secret not configured", c.Provider)
	}
	if strings.TrimSpace(c.TokenURL) == "" {
		return fmt.Errorf("wearable provider %s: token URL not configured", c.Provider)
	}
	return nil
}

// AuthCodeURL builds the provider authorization redirect.
func (c ProviderConfig) AuthCodeURL() (string, error) {
	u, err := url.Parse(c.AuthorizeURL)
	if err != nil {
		return "", fmt.Errorf("invalid authorize URL for %s: %w", c.Provider, err)
	}
	q := u.Query()
	q.Set("response_type", "code")
	q.Set("client_id", c.ClientID)
	q.Set("redirect_uri", c.RedirectURI)
	q.Set("scope", strings.Join(c.Scopes, " "))
	for k, v := range c.AuthorizeParams {
		q.Set(k, v)
	}
	u.RawQuery = q.Encode()
	return u.String(), nil
}

var errUnknownProvider = errors.New("unknown wearable provider")

// ConfigFromEnv assembles the config for a provider from environment
// variables, with endpoint and scope defaults matching each provider's
// conventions. Fitbit requires Basic auth on the token endpoint; Oura and
// Google Fit take the credentials as form fields.
func ConfigFromEnv(p Provider) (ProviderConfig, error) {
	base := strings.TrimRight(env.GetEnv("PUBLIC_DOMAIN", ""), "/")
	if base == "" {
		base = "http://localhost:" + env.GetEnv("APP_PORT", "4000")
	}
	redirect := base + "/api/wearables/" + string(p) + "/callback"

	switch p {
	case ProviderFitbit:
		return ProviderConfig{
			Provider:     ProviderFitbit,
			AuthorizeURL: env.GetEnv("FITBIT_AUTHORIZE_URL", "https://www.fitbit.com/oauth2/authorize"),
			TokenURL:     env.GetEnv("FITBIT_TOKEN_URL", "https://api.fitbit.com/oauth2/token"),
			ClientID:     env.GetEnv("FITBIT_CLIENT_ID", ""),
			ClientSecret: env.GetEnv("FITBIT_CLIENT_SECRET", ""),
			RedirectURI:  env.GetEnv("FITBIT_REDIRECT_URI", redirect),
			Scopes:       strings.Fields(env.GetEnv("FITBIT_SCOPES", "heartrate activity sleep profile")),
			AuthStyle:    AuthStyleBasic,
			AuthorizeParams: map[string]string{
				"prompt": "consent",
			},
			SourceDevice: "Fitbit",
		}, nil
	case ProviderOura:
		return ProviderConfig{
			Provider:     ProviderOura,
			AuthorizeURL: env.GetEnv("OURA_AUTHORIZE_URL", "https://cloud.ouraring.com/oauth/authorize"),
			TokenURL:     env.GetEnv("OURA_TOKEN_URL", "https://api.ouraring.com/oauth/token"),
			ClientID:     env.GetEnv("OURA_CLIENT_ID", ""),
			ClientSecret: env.GetEnv("OURA_CLIENT_SECRET", ""),
			RedirectURI:  env.GetEnv("OURA_REDIRECT_URI", redirect),
			Scopes:       strings.Fields(env.GetEnv("OURA_SCOPES", "email personal daily heartrate sleep")),
			AuthStyle:    AuthStyleForm,
			SourceDevice: "Oura Ring",
		}, nil
	case ProviderGoogleFit:
		defaultScopes := strings.Join([]string{
			"https://www.googleapis.com/auth/fitness.activity.read",
			"https://www.googleapis.com/auth/fitness.heart_rate.read",
			"https://www.googleapis.com/auth/fitness.sleep.read",
		}, " ")
		return ProviderConfig{
			Provider:     ProviderGoogleFit,
			AuthorizeURL: env.GetEnv("GOOGLE_FIT_AUTHORIZE_URL", "https://accounts.google.com/o/oauth2/v2/auth"),
			TokenURL:     env.GetEnv("GOOGLE_FIT_TOKEN_URL", "https://oauth2.googleapis.com/token"),
			ClientID:     env.GetEnv("GOOGLE_FIT_CLIENT_ID", ""),
			ClientSecret: env.GetEnv("GOOGLE_FIT_CLIENT_SECRET", ""),
			RedirectURI:  env.GetEnv("GOOGLE_FIT_REDIRECT_URI", redirect),
			Scopes:       strings.Fields(env.GetEnv("GOOGLE_FIT_SCOPES", defaultScopes)),
			AuthStyle:    AuthStyleForm,
			AuthorizeParams: map[string]string{
				"access_type":            "offline",
				"include_granted_scopes": "true",
				"prompt":                 "consent",
			},
			SourceDevice: "Google Fit",
		}, nil
	default:
		return ProviderConfig{}, fmt.Errorf("%w: %q", errUnknownProvider, p)
	}
}

package wearables

import (
	"context"
	"log"
	"net/url"
	"time"

	"github.com/google/uuid"
)

// State of a single linking attempt.
type State string

const (
	StateStarted          State = "started"
	StateCallbackReceived State = "callback_received"
	StateExchanging       State = "exchanging"
	StateExchanged        State = "exchanged"
	StatePersisted        State = "persisted"
	StateFailed           State = "failed"
)

// Attempt tracks one run of the linking flow. Attempts are never reused; a
// retry from the UI starts a fresh one.
type Attempt struct {
	// ID correlates the log lines of one attempt.
	ID          string
	Provider    Provider
	State       State
	ErrorReason string
}

// NewAttempt starts a fresh attempt for a provider.
func NewAttempt(p Provider) *Attempt {
	return &Attempt{ID: uuid.NewString(), Provider: p, State: StateStarted}
}

// Succeeded reports whether the attempt reached the persisted terminal state.
func (a *Attempt) Succeeded() bool {
	return a.State == StatePersisted
}

// Terminal reports whether the attempt has finished either way.
func (a *Attempt) Terminal() bool {
	return a.State == StatePersisted || a.State == StateFailed
}

func (a *Attempt) fail(reason string) {
	a.State = StateFailed
	a.ErrorReason = reason
}

// RedirectURL renders the terminal redirect contract: the status page with
// provider and status in the query string, plus the reason on failure.
func (a *Attempt) RedirectURL(statusPage string) string {
	q := url.Values{}
	q.Set("provider", string(a.Provider))
	if a.Succeeded() {
		q.Set("status", "connected")
	} else {
		q.Set("status", "error")
		q.Set("reason", a.ErrorReason)
	}
	return statusPage + "?" + q.Encode()
}

// Credential is the persisted result of a successful attempt.
type Credential struct {
	UserID       uint
	Provider     Provider
	AccessToken  string
	RefreshToken string
	ExpiresAt    *time.Time
	Scopes       []string
	SourceDevice string
}

// CredentialStore persists at most one live credential per (user,
// provider). Upserting an existing pair replaces the row atomically.
type CredentialStore interface {
	Upsert(ctx context.Context, cred *Credential) error
}

// CallbackInput is what the provider redirect delivered in the query string.
type CallbackInput struct {
	Code          string
	ProviderError string
}

// Protocol drives the linking state machine for any configured provider.
type Protocol struct {
	client *Client
	store  CredentialStore
	now    func() time.Time
}

// NewProtocol wires the protocol to a credential store.
func NewProtocol(store CredentialStore) *Protocol {
	return &Protocol{
		client: NewClient(),
		now:    time.Now,
		store:  store,
	}
}

// Run executes one attempt from callback to terminal state. It never
// returns an error: every failure lands in StateFailed with a reason, and
// the caller turns the attempt into a redirect. A provider error or a
// missing code short-circuits before any network call.
func (p *Protocol) Run(ctx context.Context, cfg ProviderConfig, userID uint, in CallbackInput) *Attempt {
	a := NewAttempt(cfg.Provider)

	if in.ProviderError != "" {
		a.fail(in.ProviderError)
		return a
	}
	if in.Code == "" {
		a.fail(ReasonMissingCode)
		return a
	}
	a.State = StateCallbackReceived

	a.State = StateExchanging
	token, err := p.client.ExchangeCode(ctx, cfg, in.Code)
	if err != nil {
		log.Printf("[link %s] %s token exchange failed for user %d: %v", a.ID, cfg.Provider, userID, err)
		a.fail(ReasonOf(err))
		return a
	}
	a.State = StateExchanged

	cred := &Credential{
		UserID:       userID,
		Provider:     cfg.Provider,
		AccessToken:  token.AccessToken,
		RefreshToken: token.RefreshToken,
		ExpiresAt:    token.ExpiresAt(p.now()),
		Scopes:       token.ScopeSet(),
		SourceDevice: cfg.SourceDevice,
	}
	if err := p.store.Upsert(ctx, cred); err != nil {
		log.Printf("[link %s] saving %s connection for user %d failed: %v", a.ID, cfg.Provider, userID, err)
		a.fail(ReasonDBError)
		return a
	}
	a.State = StatePersisted
	return a
}

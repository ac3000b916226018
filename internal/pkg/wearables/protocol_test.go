package wearables

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func timeNowFixed() time.Time {
	return time.Date(2025, 6, 1, 8, 0, 0, 0, time.UTC)
}

type storeKey struct {
	userID   uint
	provider Provider
}

// fakeStore keeps one row per (user, provider), mirroring the unique key
// the real table enforces.
type fakeStore struct {
	rows    map[storeKey]*Credential
	failing bool
	upserts int
}

func newFakeStore() *fakeStore {
	return &fakeStore{rows: make(map[storeKey]*Credential)}
}

func (s *fakeStore) Upsert(ctx context.Context, cred *Credential) error {
	s.upserts++
	if s.failing {
		return errors.New("connection refused")
	}
	s.rows[storeKey{cred.UserID, cred.Provider}] = cred
	return nil
}

func newTestProtocol(store CredentialStore) *Protocol {
	p := NewProtocol(store)
	p.now = timeNowFixed
	return p
}

func TestRun_SuccessPersistsCredential(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"access_token":"t1","refresh_token":"r1","expires_in":3600,"scope":"heartrate sleep"}`))
	}))
	defer srv.Close()

	store := newFakeStore()
	p := newTestProtocol(store)
	cfg := testConfig(srv.URL, AuthStyleBasic)
	cfg.SourceDevice = "Fitbit"

	a := p.Run(context.Background(), cfg, 7, CallbackInput{Code: "abc123"})

	require.Equal(t, StatePersisted, a.State)
	require.Len(t, store.rows, 1)
	for _, cred := range store.rows {
		assert.Equal(t, uint(7), cred.UserID)
		assert.Equal(t, ProviderFitbit, cred.Provider)
		assert.Equal(t, "t1", cred.AccessToken)
		assert.Equal(t, "r1", cred.RefreshToken)
		assert.Equal(t, []string{"heartrate", "sleep"}, cred.Scopes)
		assert.Equal(t, "Fitbit", cred.SourceDevice)
		require.NotNil(t, cred.ExpiresAt)
		assert.Equal(t, timeNowFixed().Add(time.Hour), *cred.ExpiresAt)
	}

	assert.Equal(t, "/insights?provider=fitbit&status=connected", a.RedirectURL("/insights"))
}

func TestRun_ProviderErrorShortCircuits(t *testing.T) {
	var hits atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hits.Add(1)
	}))
	defer srv.Close()

	store := newFakeStore()
	p := newTestProtocol(store)
	cfg := testConfig(srv.URL, AuthStyleForm)
	cfg.Provider = ProviderOura

	a := p.Run(context.Background(), cfg, 7, CallbackInput{ProviderError: "access_denied"})

	assert.Equal(t, StateFailed, a.State)
	assert.Equal(t, "access_denied", a.ErrorReason)
	assert.Zero(t, hits.Load(), "no token exchange may happen after a provider error")
	assert.Zero(t, store.upserts)
	assert.Equal(t, "/insights?provider=oura&reason=access_denied&status=error", a.RedirectURL("/insights"))
}

func TestRun_MissingCodeShortCircuits(t *testing.T) {
	var hits atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hits.Add(1)
	}))
	defer srv.Close()

	store := newFakeStore()
	p := newTestProtocol(store)

	a := p.Run(context.Background(), testConfig(srv.URL, AuthStyleBasic), 7, CallbackInput{})

	assert.Equal(t, StateFailed, a.State)
	assert.Equal(t, ReasonMissingCode, a.ErrorReason)
	assert.Zero(t, hits.Load())
	assert.Zero(t, store.upserts)
}

func TestRun_RejectedExchangeNeverPersists(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		w.Write([]byte(`{"error":"invalid_client"}`))
	}))
	defer srv.Close()

	store := newFakeStore()
	p := newTestProtocol(store)

	a := p.Run(context.Background(), testConfig(srv.URL, AuthStyleBasic), 7, CallbackInput{Code: "abc123"})

	assert.Equal(t, StateFailed, a.State)
	assert.Equal(t, ReasonTokenResponseNotOK, a.ErrorReason)
	assert.Zero(t, store.upserts, "a failed exchange must not write a credential")
}

func TestRun_TransportFailure(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	srv.Close()

	store := newFakeStore()
	p := newTestProtocol(store)

	a := p.Run(context.Background(), testConfig(srv.URL, AuthStyleForm), 7, CallbackInput{Code: "abc123"})

	assert.Equal(t, StateFailed, a.State)
	assert.Equal(t, ReasonTokenFetchFailed, a.ErrorReason)
	assert.Zero(t, len(store.rows))
}

func TestRun_PersistFailureMapsToDBError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"access_token":"t1"}`))
	}))
	defer srv.Close()

	store := newFakeStore()
	store.failing = true
	p := newTestProtocol(store)

	a := p.Run(context.Background(), testConfig(srv.URL, AuthStyleBasic), 7, CallbackInput{Code: "abc123"})

	assert.Equal(t, StateFailed, a.State)
	assert.Equal(t, ReasonDBError, a.ErrorReason)
}

func TestRun_RelinkReplacesCredential(t *testing.T) {
	token := "t1"
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"access_token":"` + token + `"}`))
	}))
	defer srv.Close()

	store := newFakeStore()
	p := newTestProtocol(store)
	cfg := testConfig(srv.URL, AuthStyleBasic)

	require.Equal(t, StatePersisted, p.Run(context.Background(), cfg, 7, CallbackInput{Code: "first"}).State)
	token = "t2"
	require.Equal(t, StatePersisted, p.Run(context.Background(), cfg, 7, CallbackInput{Code: "second"}).State)

	require.Len(t, store.rows, 1, "relinking must replace, not duplicate")
	assert.Equal(t, "t2", store.rows[storeKey{7, ProviderFitbit}].AccessToken)
}

func TestAttempt_FreshPerRun(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"access_token":"t1"}`))
	}))
	defer srv.Close()

	store := newFakeStore()
	p := newTestProtocol(store)
	cfg := testConfig(srv.URL, AuthStyleBasic)

	first := p.Run(context.Background(), cfg, 7, CallbackInput{})
	second := p.Run(context.Background(), cfg, 7, CallbackInput{Code: "abc123"})

	assert.Equal(t, StateFailed, first.State)
	assert.Equal(t, StatePersisted, second.State)
	assert.NotSame(t, first, second)
}

func TestParseProvider(t *testing.T) {
	for _, name := range []string{"fitbit", "oura", "google_fit", "FITBIT"} {
		if _, err := ParseProvider(name); err != nil {
			t.Fatalf("ParseProvider(%q) returned error: %v", name, err)
		}
	}
	if _, err := ParseProvider("samsung"); err == nil {
		t.Fatalf("expected unknown provider to be rejected")
	}
}

func TestProviderConfigValidate(t *testing.T) {
	cfg := testConfig("https://api.fitbit.com/oauth2/token", AuthStyleBasic)
	require.NoError(t, cfg.Validate())

	cfg.ClientSecret = ""
	require.Error(t, cfg.Validate())
}

func TestAuthCodeURL(t *testing.T) {
	cfg := ProviderConfig{
		Provider:     ProviderGoogleFit,
		AuthorizeURL: "https://accounts.google.com/o/oauth2/v2/auth",
		ClientID:     "cid",
		RedirectURI:  "https://app.example.com/api/wearables/google_fit/callback",
		Scopes:       []string{"a", "b"},
		AuthorizeParams: map[string]string{
			"access_type": "offline",
		},
	}

	got, err := cfg.AuthCodeURL()
	require.NoError(t, err)
	assert.Contains(t, got, "response_type=code")
	assert.Contains(t, got, "client_id=cid")
	assert.Contains(t, got, "scope=a+b")
	assert.Contains(t, got, "access_type=offline")
}

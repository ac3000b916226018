package wearables

import (
	"context"
	"encoding/base64"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testConfig(tokenURL string, style AuthStyle) ProviderConfig {
	return ProviderConfig{
		Provider:     ProviderFitbit,
		TokenURL:     tokenURL,
		ClientID:     "client-id",
		ClientSecret: "client-secret",
		RedirectURI:  "https://app.example.com/api/wearables/fitbit/callback",
		AuthStyle:    style,
	}
}

func TestExchangeCode_BasicAuthStyle(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, http.MethodPost, r.Method)
		require.Equal(t, "application/x-www-form-urlencoded", r.Header.Get("Content-Type"))

		wantAuth := "Basic " + base64.StdEncoding.EncodeToString([]byte("client-id:client-secret"))
		assert.Equal(t, wantAuth, r.Header.Get("Authorization"))

		require.NoError(t, r.ParseForm())
		assert.Equal(t, "authorization_code", r.PostForm.Get("grant_type"))
		assert.Equal(t, "abc123", r.PostForm.Get("code"))
		assert.Equal(t, "client-id", r.PostForm.Get("client_id"))
		assert.Empty(t, r.PostForm.Get("client_secret"))

		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"access_token":"t1","refresh_token":"r1","expires_in":3600,"scope":"heartrate sleep"}`))
	}))
	defer srv.Close()

	c := NewClient()
	token, err := c.ExchangeCode(context.Background(), testConfig(srv.URL, AuthStyleBasic), "abc123")
	require.NoError(t, err)
	assert.Equal(t, "t1", token.AccessToken)
	assert.Equal(t, "r1", token.RefreshToken)
	assert.Equal(t, 3600, token.ExpiresIn)
	assert.Equal(t, []string{"heartrate", "sleep"}, token.ScopeSet())
}

func TestExchangeCode_FormAuthStyle(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Empty(t, r.Header.Get("Authorization"))

		require.NoError(t, r.ParseForm())
		assert.Equal(t, "client-id", r.PostForm.Get("client_id"))
		assert.Equal(t, "client-secret", r.PostForm.Get("client_secret"))

		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"access_token":"t2"}`))
	}))
	defer srv.Close()

	c := NewClient()
	token, err := c.ExchangeCode(context.Background(), testConfig(srv.URL, AuthStyleForm), "abc123")
	require.NoError(t, err)
	assert.Equal(t, "t2", token.AccessToken)
	assert.Nil(t, token.ExpiresAt(timeNowFixed()))
	assert.Nil(t, token.ScopeSet())
}

func TestExchangeCode_NonOKStatus(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		w.Write([]byte(`{"errors":[{"errorType":"invalid_grant"}]}`))
	}))
	defer srv.Close()

	c := NewClient()
	_, err := c.ExchangeCode(context.Background(), testConfig(srv.URL, AuthStyleBasic), "stale")
	require.Error(t, err)
	assert.Equal(t, ReasonTokenResponseNotOK, ReasonOf(err))
}

func TestExchangeCode_TransportError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	srv.Close() // closed server: connection refused

	c := NewClient()
	_, err := c.ExchangeCode(context.Background(), testConfig(srv.URL, AuthStyleForm), "abc123")
	require.Error(t, err)
	assert.Equal(t, ReasonTokenFetchFailed, ReasonOf(err))
}

func TestExchangeCode_EmptyAccessToken(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"access_token":""}`))
	}))
	defer srv.Close()

	c := NewClient()
	_, err := c.ExchangeCode(context.Background(), testConfig(srv.URL, AuthStyleForm), "abc123")
	require.Error(t, err)
	assert.Equal(t, ReasonTokenResponseNotOK, ReasonOf(err))
}

func TestReasonOf_PlainError(t *testing.T) {
	assert.Equal(t, ReasonTokenFetchFailed, ReasonOf(errors.New("dial tcp: timeout")))
}

package oidc

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// newTestIssuer serves a discovery document and a token endpoint.
func newTestIssuer(t *testing.T) *httptest.Server {
	t.Helper()

	var srv *httptest.Server
	mux := http.NewServeMux()
	mux.HandleFunc("GET /.well-known/openid-configuration", func(w http.ResponseWriter, _ *http.Request) {
		_ = json.NewEncoder(w).Encode(DiscoveryDocument{
			Issuer:                srv.URL,
			AuthorizationEndpoint: srv.URL + "/auth",
			TokenEndpoint:         srv.URL + "/token",
			JwksURI:               srv.URL + "/jwks",
		})
	})
	mux.HandleFunc("POST /token", func(w http.ResponseWriter, r *http.Request) {
		if err := r.ParseForm(); err != nil || r.PostForm.Get("grant_type") != "client_credentials" {
			http.Error(w, "bad grant", http.StatusBadRequest)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(map[string]any{
			"access_token": "token-123",
			"token_type":   "Bearer",
			"expires_in":   3600,
		})
	})
	mux.HandleFunc("GET /api/processes", func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get("Authorization") != "Bearer token-123" {
			w.WriteHeader(http.StatusUnauthorized)
			return
		}
		_, _ = w.Write([]byte("[]"))
	})
	srv = httptest.NewServer(mux)
	t.Cleanup(srv.Close)
	return srv
}

func TestNewClientCredentials_Success(t *testing.T) {
	srv := newTestIssuer(t)

	cc, err := NewClientCredentials(context.Background(), ClientCredentialsConfig{
		ClientID:     "jobadmin",
		ClientSecret: "secret",
		Scope:        "jobs.read jobs.write",
		IssuerURL:    srv.URL + "/.well-known/openid-configuration",
	})
	require.NoError(t, err)
	assert.Equal(t, srv.URL+"/token", cc.TokenURL())
	assert.Equal(t, []string{"jobs.read", "jobs.write"}, cc.config.Scopes)
}

func TestClientCredentials_HTTPClientAttachesToken(t *testing.T) {
	srv := newTestIssuer(t)
	ctx := context.Background()

	cc, err := NewClientCredentials(ctx, ClientCredentialsConfig{
		ClientID:     "jobadmin",
		ClientSecret: "secret",
		IssuerURL:    srv.URL,
	})
	require.NoError(t, err)

	resp, err := cc.HTTPClient(ctx, 5*time.Second).Get(srv.URL + "/api/processes")
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)
}

func TestNewClientCredentials_ValidationErrors(t *testing.T) {
	tests := []struct {
		name   string
		config ClientCredentialsConfig
		errMsg string
	}{
		{name: "missing client ID", config: ClientCredentialsConfig{ClientSecret: "s", IssuerURL: "http://x"}, errMsg: "client ID is required"},
		{name: "missing secret", config: ClientCredentialsConfig{ClientID: "c", IssuerURL: "http://x"}, errMsg: "client secret is required"},
		{name: "missing issuer", config: ClientCredentialsConfig{ClientID: "c", ClientSecret: "s"}, errMsg: "issuer URL is required"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewClientCredentials(context.Background(), tt.config)
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.errMsg)
		})
	}
}

func TestNormalizeIssuer(t *testing.T) {
	assert.Equal(t, "https://idp.example.com/realms/jobs",
		normalizeIssuer("https://idp.example.com/realms/jobs/.well-known/openid-configuration"))
	assert.Equal(t, "https://idp.example.com", normalizeIssuer(" https://idp.example.com/ "))
}

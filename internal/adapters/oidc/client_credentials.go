// Package oidc provides the OAuth2 client-credentials adapter used for calls to the job backend.
package oidc

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	gooidc "github.com/coreos/go-oidc/v3/oidc"
	"golang.org/x/oauth2"
	"golang.org/x/oauth2/clientcredentials"
)

// ClientCredentialsConfig holds configuration for the client-credentials flow.
type ClientCredentialsConfig struct {
	ClientID     string
	ClientSecret string
	Scope        string
	// IssuerURL is the OIDC issuer; a trailing /.well-known/openid-configuration is accepted.
	IssuerURL  string
	HTTPClient *http.Client // Optional, used for discovery and token requests
}

// DiscoveryDocument is the subset of the OIDC discovery document the adapter relies on.
type DiscoveryDocument struct {
	Issuer                string `json:"issuer"`
	AuthorizationEndpoint string `json:"authorization_endpoint"`
	TokenEndpoint         string `json:"token_endpoint"`
	JwksURI               string `json:"jwks_uri"`
}

// ClientCredentials issues access tokens for outbound REST calls. The token
// endpoint is discovered once from the issuer.
type ClientCredentials struct {
	config     *clientcredentials.Config
	httpClient *http.Client
}

// NewClientCredentials discovers the token endpoint of the issuer and prepares the flow.
func NewClientCredentials(ctx context.Context, cfg ClientCredentialsConfig) (*ClientCredentials, error) {
	if cfg.ClientID == "" {
		return nil, errors.New("client ID is required")
	}
	if cfg.ClientSecret == "" {
		return nil, errors.New("client secret is required")
	}
	if cfg.IssuerURL == "" {
		return nil, errors.New("issuer URL is required")
	}

	httpClient := cfg.HTTPClient
	if httpClient == nil {
		httpClient = &http.Client{Timeout: 30 * time.Second}
	}

	discoveryCtx := context.WithValue(ctx, oauth2.HTTPClient, httpClient)
	provider, err := gooidc.NewProvider(discoveryCtx, normalizeIssuer(cfg.IssuerURL))
	if err != nil {
		return nil, fmt.Errorf("oidc new provider: %w", err)
	}

	endpoint := provider.Endpoint()
	if endpoint.TokenURL == "" {
		return nil, errors.New("issuer does not advertise a token endpoint")
	}

	return &ClientCredentials{
		config: &clientcredentials.Config{
			ClientID:     cfg.ClientID,
			ClientSecret: cfg.ClientSecret,
			TokenURL:     endpoint.TokenURL,
			Scopes:       strings.Fields(cfg.Scope),
			AuthStyle:    endpoint.AuthStyle,
		},
		httpClient: httpClient,
	}, nil
}

// TokenURL returns the discovered token endpoint.
func (c *ClientCredentials) TokenURL() string {
	return c.config.TokenURL
}

// TokenSource returns a caching token source.
func (c *ClientCredentials) TokenSource(ctx context.Context) oauth2.TokenSource {
	return c.config.TokenSource(context.WithValue(ctx, oauth2.HTTPClient, c.httpClient))
}

// HTTPClient returns an *http.Client that attaches a bearer token to every request.
// The token is fetched lazily and refreshed on expiry. ctx scopes token requests,
// so it should live as long as the client.
func (c *ClientCredentials) HTTPClient(ctx context.Context, timeout time.Duration) *http.Client {
	hc := oauth2.NewClient(ctx, c.TokenSource(ctx))
	hc.Timeout = timeout
	return hc
}

func normalizeIssuer(raw string) string {
	issuer := strings.TrimSuffix(strings.TrimSpace(raw), "/")
	issuer = strings.TrimSuffix(issuer, "/.well-known/openid-configuration")
	return issuer
}

package config

import (
	"strings"
	"time"
)

// BackendConfig describes the REST backend used by the console and the CLI.
type BackendConfig struct {
	// BaseURL is the backend root. A trailing slash is added when missing.
	BaseURL string        `env:"BASE_URL" envDefault:"http://localhost:8080/"`
	Timeout time.Duration `env:"TIMEOUT"  envDefault:"10s"`

	// OAuth enables bearer tokens from the client-credentials flow when an
	// issuer is set.
	OAuth BackendOAuthConfig `envPrefix:"OAUTH_"`
}

// BackendOAuthConfig contains the client-credentials settings for outbound calls.
type BackendOAuthConfig struct {
	IssuerURL    string `env:"ISSUER_URL"`
	ClientID     string `env:"CLIENT_ID"`
	ClientSecret string `env:"CLIENT_SECRET"`
	Scopes       string `env:"SCOPES"`
}

// Enabled reports whether outbound calls should carry access tokens.
func (o BackendOAuthConfig) Enabled() bool {
	return o.IssuerURL != "" && o.ClientID != ""
}

// Sanitize applies guardrails to backend configuration values.
func (b *BackendConfig) Sanitize() {
	b.BaseURL = strings.TrimSpace(b.BaseURL)
	if b.BaseURL == "" {
		b.BaseURL = "http://localhost:8080/"
	}
	if !strings.HasSuffix(b.BaseURL, "/") {
		b.BaseURL += "/"
	}
	if b.Timeout <= 0 {
		b.Timeout = 10 * time.Second
	}
	b.OAuth.IssuerURL = strings.TrimSpace(b.OAuth.IssuerURL)
	b.OAuth.Scopes = strings.Join(strings.Fields(strings.ReplaceAll(b.OAuth.Scopes, ",", " ")), " ")
}

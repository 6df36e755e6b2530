// Package google implements the federated side of the login flow: redirect
// the browser to Google, exchange the callback code for a token, and fetch
// the userinfo profile the federated strategy authenticates.
package google

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"

	"golang.org/x/oauth2"
	"golang.org/x/oauth2/google"

	"whisperwall/internal/identity/service"
	dErrors "whisperwall/pkg/domain-errors"
)

const userinfoURL = "https://www.googleapis.com/oauth2/v2/userinfo"

// Config carries the provider registration values from the environment.
type Config struct {
	ClientID     string
	ClientSecret string
	RedirectURL  string
}

// Configured reports whether the provider can be enabled.
func (c Config) Configured() bool {
	return c.ClientID != "" && c.ClientSecret != "" && c.RedirectURL != ""
}

// Provider drives the authorization-code flow. Endpoint and userinfo URL are
// fields so handler tests can point the flow at httptest servers.
type Provider struct {
	oauth    *oauth2.Config
	userinfo string
}

type Option func(*Provider)

// WithEndpoint overrides Google's OAuth endpoint. Test hook.
func WithEndpoint(endpoint oauth2.Endpoint) Option {
	return func(p *Provider) { p.oauth.Endpoint = endpoint }
}

// WithUserinfoURL overrides the userinfo endpoint. Test hook.
func WithUserinfoURL(url string) Option {
	return func(p *Provider) { p.userinfo = url }
}

func New(cfg Config, opts ...Option) *Provider {
	p := &Provider{
		oauth: &oauth2.Config{
			ClientID:     cfg.ClientID,
			ClientSecret: cfg.ClientSecret,
			RedirectURL:  cfg.RedirectURL,
			Scopes:       []string{"profile", "email"},
			Endpoint:     google.Endpoint,
		},
		userinfo: userinfoURL,
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// AuthCodeURL builds the redirect that starts the flow.
func (p *Provider) AuthCodeURL(state string) string {
	return p.oauth.AuthCodeURL(state)
}

// userinfoResponse is the subset of Google's userinfo payload the federated
// strategy needs.
type userinfoResponse struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email"`
}

// FetchProfile exchanges the callback code and resolves the provider
// profile. Every failure is a provider_error: the user can only retry the
// whole flow.
func (p *Provider) FetchProfile(ctx context.Context, code string) (*service.FederatedProfile, error) {
	token, err := p.oauth.Exchange(ctx, code)
	if err != nil {
		return nil, dErrors.Wrap(dErrors.CodeProviderError, "exchange authorization code failed", err)
	}

	client := p.oauth.Client(ctx, token)
	resp, err := client.Get(p.userinfo)
	if err != nil {
		return nil, dErrors.Wrap(dErrors.CodeProviderError, "fetch userinfo failed", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, dErrors.Wrap(dErrors.CodeProviderError, "fetch userinfo failed",
			fmt.Errorf("userinfo returned status %d", resp.StatusCode))
	}

	var info userinfoResponse
	if err := json.NewDecoder(resp.Body).Decode(&info); err != nil {
		return nil, dErrors.Wrap(dErrors.CodeProviderError, "decode userinfo failed", err)
	}
	if info.ID == "" {
		return nil, dErrors.New(dErrors.CodeProviderError, "userinfo is missing a subject id")
	}

	return &service.FederatedProfile{
		SubjectID:   info.ID,
		DisplayName: info.Name,
		Email:       info.Email,
	}, nil
}

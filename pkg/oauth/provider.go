// Package oauth implements the authorization code flow against the Korean social login providers
// supported by the storefront.
package oauth

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"sort"

	"golang.org/x/oauth2"
)

// Profile is the subset of a provider's user profile the storefront keeps.
type Profile struct {
	ID    string
	Email string
	Name  string
}

// Provider is one OAuth identity provider.
type Provider interface {
	Name() string
	// AuthCodeURL returns the URL the browser is sent to in order to sign in.
	AuthCodeURL(state string) string
	// Exchange trades an authorization code for an access token.
	Exchange(ctx context.Context, code, state string) (*oauth2.Token, error)
	// FetchIdentity loads the signed-in user's profile.
	FetchIdentity(ctx context.Context, token *oauth2.Token) (*Profile, error)
}

// Registry maps provider names to providers.
type Registry map[string]Provider

// NewRegistry indexes providers by name.
func NewRegistry(providers ...Provider) Registry {
	r := make(Registry, len(providers))
	for _, p := range providers {
		r[p.Name()] = p
	}
	return r
}

// Get returns the named provider.
func (r Registry) Get(name string) (Provider, bool) {
	p, ok := r[name]
	return p, ok
}

// Names returns the registered provider names in sorted order.
func (r Registry) Names() []string {
	names := make([]string, 0, len(r))
	for name := range r {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Endpoints are the provider URLs. Zero fields take the provider's production values.
type Endpoints struct {
	AuthURL    string
	TokenURL   string
	ProfileURL string
}

// Config holds the application credentials registered with a provider.
type Config struct {
	ClientID     string
	ClientSecret string
	RedirectURL  string
	Endpoints    Endpoints
	// HTTPClient is used for the token and profile calls. Defaults to http.DefaultClient.
	HTTPClient *http.Client
}

func (e Endpoints) withDefaults(d Endpoints) Endpoints {
	if e.AuthURL == "" {
		e.AuthURL = d.AuthURL
	}
	if e.TokenURL == "" {
		e.TokenURL = d.TokenURL
	}
	if e.ProfileURL == "" {
		e.ProfileURL = d.ProfileURL
	}
	return e
}

// base carries the parts shared by every provider.
type base struct {
	name       string
	config     *oauth2.Config
	profileURL string
	httpClient *http.Client
}

func newBase(name string, cfg Config, defaults Endpoints) base {
	endpoints := cfg.Endpoints.withDefaults(defaults)
	return base{
		name: name,
		config: &oauth2.Config{
			ClientID:     cfg.ClientID,
			ClientSecret: cfg.ClientSecret,
			RedirectURL:  cfg.RedirectURL,
			Endpoint: oauth2.Endpoint{
				AuthURL:   endpoints.AuthURL,
				TokenURL:  endpoints.TokenURL,
				AuthStyle: oauth2.AuthStyleInParams,
			},
		},
		profileURL: endpoints.ProfileURL,
		httpClient: cfg.HTTPClient,
	}
}

func (b base) Name() string { return b.name }

func (b base) withClient(ctx context.Context) context.Context {
	if b.httpClient == nil {
		return ctx
	}
	return context.WithValue(ctx, oauth2.HTTPClient, b.httpClient)
}

func (b base) exchange(ctx context.Context, code string, opts ...oauth2.AuthCodeOption) (*oauth2.Token, error) {
	token, err := b.config.Exchange(b.withClient(ctx), code, opts...)
	if err != nil {
		return nil, fmt.Errorf("%s token exchange failed: %w", b.name, err)
	}
	return token, nil
}

// getProfile performs an authenticated GET against the profile endpoint and decodes the body.
func (b base) getProfile(ctx context.Context, token *oauth2.Token, dest interface{}) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, b.profileURL, nil)
	if err != nil {
		return fmt.Errorf("failed to build %s profile request: %w", b.name, err)
	}

	client := b.config.Client(b.withClient(ctx), token)
	resp, err := client.Do(req)
	if err != nil {
		return fmt.Errorf("%s profile request failed: %w", b.name, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return fmt.Errorf("%s profile request returned %d: %s", b.name, resp.StatusCode, body)
	}
	if err := json.NewDecoder(resp.Body).Decode(dest); err != nil {
		return fmt.Errorf("failed to decode %s profile: %w", b.name, err)
	}
	return nil
}

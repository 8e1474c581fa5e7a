package oauth

import (
	"context"
	"fmt"

	"golang.org/x/oauth2"
)

// NaverEndpoints are the production Naver Login URLs.
var NaverEndpoints = Endpoints{
	AuthURL:    "https://nid.naver.com/oauth2.0/authorize",
	TokenURL:   "https://nid.naver.com/oauth2.0/token",
	ProfileURL: "https://openapi.naver.com/v1/nid/me",
}

// Naver implements Provider for Naver Login.
type Naver struct {
	base
}

// NewNaver creates the Naver provider.
func NewNaver(cfg Config) *Naver {
	return &Naver{base: newBase("naver", cfg, NaverEndpoints)}
}

// AuthCodeURL returns the Naver authorize URL carrying state.
func (n *Naver) AuthCodeURL(state string) string {
	return n.config.AuthCodeURL(state)
}

// Exchange trades the code for a token. Naver requires the state again on the token request.
func (n *Naver) Exchange(ctx context.Context, code, state string) (*oauth2.Token, error) {
	return n.exchange(ctx, code, oauth2.SetAuthURLParam("state", state))
}

type naverProfileResponse struct {
	ResultCode string `json:"resultcode"`
	Message    string `json:"message"`
	Response   struct {
		ID       string `json:"id"`
		Email    string `json:"email"`
		Name     string `json:"name"`
		Nickname string `json:"nickname"`
	} `json:"response"`
}

// FetchIdentity reads /v1/nid/me.
func (n *Naver) FetchIdentity(ctx context.Context, token *oauth2.Token) (*Profile, error) {
	var body naverProfileResponse
	if err := n.getProfile(ctx, token, &body); err != nil {
		return nil, err
	}
	if body.ResultCode != "" && body.ResultCode != "00" {
		return nil, fmt.Errorf("naver profile request failed: %s %s", body.ResultCode, body.Message)
	}
	if body.Response.ID == "" {
		return nil, fmt.Errorf("naver profile has no id")
	}

	name := body.Response.Name
	if name == "" {
		name = body.Response.Nickname
	}
	return &Profile{
		ID:    body.Response.ID,
		Email: body.Response.Email,
		Name:  name,
	}, nil
}

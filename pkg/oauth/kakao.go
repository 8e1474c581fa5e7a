package oauth

import (
	"context"
	"fmt"
	"strconv"

	"golang.org/x/oauth2"
)

// KakaoEndpoints are the production Kakao Login URLs.
var KakaoEndpoints = Endpoints{
	AuthURL:    "https://kauth.kakao.com/oauth/authorize",
	TokenURL:   "https://kauth.kakao.com/oauth/token",
	ProfileURL: "https://kapi.kakao.com/v2/user/me",
}

// Kakao implements Provider for Kakao Login. The client secret is optional.
type Kakao struct {
	base
}

// NewKakao creates the Kakao provider.
func NewKakao(cfg Config) *Kakao {
	return &Kakao{base: newBase("kakao", cfg, KakaoEndpoints)}
}

// AuthCodeURL returns the Kakao authorize URL carrying state.
func (k *Kakao) AuthCodeURL(state string) string {
	return k.config.AuthCodeURL(state)
}

// Exchange trades the code for a token. Kakao does not echo the state on the token request.
func (k *Kakao) Exchange(ctx context.Context, code, _ string) (*oauth2.Token, error) {
	return k.exchange(ctx, code)
}

type kakaoProfileResponse struct {
	ID           int64 `json:"id"`
	KakaoAccount struct {
		Email   string `json:"email"`
		Profile struct {
			Nickname string `json:"nickname"`
		} `json:"profile"`
	} `json:"kakao_account"`
}

// FetchIdentity reads /v2/user/me. Email is only present when the user agreed to share it.
func (k *Kakao) FetchIdentity(ctx context.Context, token *oauth2.Token) (*Profile, error) {
	var body kakaoProfileResponse
	if err := k.getProfile(ctx, token, &body); err != nil {
		return nil, err
	}
	if body.ID == 0 {
		return nil, fmt.Errorf("kakao profile has no id")
	}
	return &Profile{
		ID:    strconv.FormatInt(body.ID, 10),
		Email: body.KakaoAccount.Email,
		Name:  body.KakaoAccount.Profile.Nickname,
	}, nil
}

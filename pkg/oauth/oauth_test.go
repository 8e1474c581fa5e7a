package oauth

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/oauth2"
)

// fakeProvider serves a token endpoint and a profile endpoint and records the token request form.
type fakeProvider struct {
	server      *httptest.Server
	tokenForm   url.Values
	profileAuth string
	profile     interface{}
	profileCode int
}

func newFakeProvider(t *testing.T, profile interface{}) *fakeProvider {
	t.Helper()
	f := &fakeProvider{profile: profile, profileCode: http.StatusOK}

	mux := http.NewServeMux()
	mux.HandleFunc("/token", func(w http.ResponseWriter, r *http.Request) {
		require.NoError(t, r.ParseForm())
		f.tokenForm = r.PostForm
		if r.PostForm.Get("code") != "good-code" {
			w.Header().Set("Content-Type", "application/json")
			w.WriteHeader(http.StatusBadRequest)
			_, _ = w.Write([]byte(`{"error":"invalid_grant"}`))
			return
		}
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"access_token":"provider-access","token_type":"bearer","expires_in":3600}`))
	})
	mux.HandleFunc("/me", func(w http.ResponseWriter, r *http.Request) {
		f.profileAuth = r.Header.Get("Authorization")
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(f.profileCode)
		_ = json.NewEncoder(w).Encode(f.profile)
	})
	f.server = httptest.NewServer(mux)
	t.Cleanup(f.server.Close)
	return f
}

func (f *fakeProvider) config(secret string) Config {
	return Config{
		ClientID:     "client-id",
		ClientSecret: secret,
		RedirectURL:  "http://localhost:5000/api/auth/callback",
		Endpoints: Endpoints{
			AuthURL:    f.server.URL + "/authorize",
			TokenURL:   f.server.URL + "/token",
			ProfileURL: f.server.URL + "/me",
		},
	}
}

func TestNaver_AuthCodeURL(t *testing.T) {
	n := NewNaver(Config{ClientID: "naver-id", RedirectURL: "http://localhost:5000/api/auth/naver/callback"})

	u, err := url.Parse(n.AuthCodeURL("nonce-1"))
	require.NoError(t, err)

	assert.Equal(t, "nid.naver.com", u.Host)
	assert.Equal(t, "/oauth2.0/authorize", u.Path)
	q := u.Query()
	assert.Equal(t, "code", q.Get("response_type"))
	assert.Equal(t, "naver-id", q.Get("client_id"))
	assert.Equal(t, "http://localhost:5000/api/auth/naver/callback", q.Get("redirect_uri"))
	assert.Equal(t, "nonce-1", q.Get("state"))
}

func TestNaver_ExchangeAndFetchIdentity(t *testing.T) {
	f := newFakeProvider(t, map[string]interface{}{
		"resultcode": "00",
		"message":    "success",
		"response":   map[string]string{"id": "naver-123", "email": "kim@example.com", "name": "Kim"},
	})
	n := NewNaver(f.config("naver-secret"))
	ctx := context.Background()

	token, err := n.Exchange(ctx, "good-code", "nonce-1")
	require.NoError(t, err)
	assert.Equal(t, "provider-access", token.AccessToken)

	assert.Equal(t, "authorization_code", f.tokenForm.Get("grant_type"))
	assert.Equal(t, "client-id", f.tokenForm.Get("client_id"))
	assert.Equal(t, "naver-secret", f.tokenForm.Get("client_secret"))
	assert.Equal(t, "nonce-1", f.tokenForm.Get("state"))

	profile, err := n.FetchIdentity(ctx, token)
	require.NoError(t, err)
	assert.Equal(t, "Bearer provider-access", f.profileAuth)
	assert.Equal(t, &Profile{ID: "naver-123", Email: "kim@example.com", Name: "Kim"}, profile)
}

func TestNaver_FetchIdentityResultCodeError(t *testing.T) {
	f := newFakeProvider(t, map[string]interface{}{"resultcode": "024", "message": "Authentication failed"})
	n := NewNaver(f.config("secret"))

	_, err := n.FetchIdentity(context.Background(), &oauth2.Token{AccessToken: "x", TokenType: "bearer"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "024")
}

func TestKakao_ExchangeWithoutSecret(t *testing.T) {
	f := newFakeProvider(t, map[string]interface{}{
		"id": 4242424242,
		"kakao_account": map[string]interface{}{
			"email":   "lee@example.com",
			"profile": map[string]string{"nickname": "Lee"},
		},
	})
	k := NewKakao(f.config(""))
	ctx := context.Background()

	token, err := k.Exchange(ctx, "good-code", "ignored")
	require.NoError(t, err)
	_, hasSecret := f.tokenForm["client_secret"]
	assert.False(t, hasSecret)
	assert.Empty(t, f.tokenForm.Get("state"))

	profile, err := k.FetchIdentity(ctx, token)
	require.NoError(t, err)
	assert.Equal(t, &Profile{ID: "4242424242", Email: "lee@example.com", Name: "Lee"}, profile)
}

func TestKakao_ProfileWithoutEmail(t *testing.T) {
	f := newFakeProvider(t, map[string]interface{}{"id": 7})
	k := NewKakao(f.config(""))

	profile, err := k.FetchIdentity(context.Background(), &oauth2.Token{AccessToken: "x", TokenType: "bearer"})
	require.NoError(t, err)
	assert.Equal(t, "7", profile.ID)
	assert.Empty(t, profile.Email)
}

func TestExchange_BadCode(t *testing.T) {
	f := newFakeProvider(t, nil)
	k := NewKakao(f.config(""))

	_, err := k.Exchange(context.Background(), "bad-code", "")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "kakao token exchange failed")
}

func TestFetchIdentity_HTTPError(t *testing.T) {
	f := newFakeProvider(t, map[string]string{"msg": "this access token does not exist"})
	f.profileCode = http.StatusUnauthorized
	k := NewKakao(f.config(""))

	_, err := k.FetchIdentity(context.Background(), &oauth2.Token{AccessToken: "x", TokenType: "bearer"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "returned 401")
}

func TestRegistry(t *testing.T) {
	r := NewRegistry(NewKakao(Config{}), NewNaver(Config{}))

	assert.Equal(t, []string{"kakao", "naver"}, r.Names())
	p, ok := r.Get("naver")
	require.True(t, ok)
	assert.Equal(t, "naver", p.Name())
	_, ok = r.Get("google")
	assert.False(t, ok)
}

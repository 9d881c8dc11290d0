package google

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"google.golang.org/api/idtoken"

	"github.com/smartwearable/guardian-verify/internal/core/domain"
)

func TestAuthURLCarriesRedirectContract(t *testing.T) {
	p := NewProvider("client-id", "secret", "https://app.example/oauth-callback")

	raw := p.AuthURL("abc123")
	u, err := url.Parse(raw)
	require.NoError(t, err)

	q := u.Query()
	assert.Equal(t, "client-id", q.Get("client_id"))
	assert.Equal(t, "https://app.example/oauth-callback", q.Get("redirect_uri"))
	assert.Equal(t, "code", q.Get("response_type"))
	assert.Equal(t, "email profile", q.Get("scope"))
	assert.Equal(t, "abc123", q.Get("state"))
	assert.Equal(t, "offline", q.Get("access_type"))
	assert.Equal(t, "consent", q.Get("prompt"))
	assert.NotContains(t, raw, "secret")
}

func TestExchangeSendsGrantAndDecodesTokens(t *testing.T) {
	var form url.Values
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.NoError(t, r.ParseForm())
		form = r.PostForm
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"access_token":"at","token_type":"Bearer","expires_in":3599,"refresh_token":"rt","id_token":"idt"}`))
	}))
	defer srv.Close()

	p := NewProvider("client-id", "secret", "https://app.example/oauth-callback",
		WithEndpoints(srv.URL+"/auth", srv.URL, srv.URL+"/userinfo"))

	tokens, err := p.Exchange(context.Background(), "code123")
	require.NoError(t, err)

	assert.Equal(t, "at", tokens.AccessToken)
	assert.Equal(t, "rt", tokens.RefreshToken)
	assert.Equal(t, "idt", tokens.IDToken)
	assert.Equal(t, 3599, tokens.ExpiresIn)

	assert.Equal(t, "code123", form.Get("code"))
	assert.Equal(t, "authorization_code", form.Get("grant_type"))
	assert.Equal(t, "client-id", form.Get("client_id"))
	assert.Equal(t, "secret", form.Get("client_secret"))
	assert.Equal(t, "https://app.example/oauth-callback", form.Get("redirect_uri"))
}

func TestExchangeSurfacesProviderBody(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		_, _ = w.Write([]byte(`{"error":"invalid_grant","error_description":"Bad Request"}`))
	}))
	defer srv.Close()

	p := NewProvider("client-id", "secret", "https://app.example/oauth-callback",
		WithEndpoints(srv.URL+"/auth", srv.URL, srv.URL+"/userinfo"))

	_, err := p.Exchange(context.Background(), "stale")
	require.Error(t, err)

	var pe *domain.ProviderError
	require.ErrorAs(t, err, &pe)
	assert.Equal(t, "exchange", pe.Op)
	assert.Equal(t, http.StatusBadRequest, pe.StatusCode)
	assert.Contains(t, pe.Body, "invalid_grant")
	assert.Contains(t, pe.Details(), "invalid_grant")
}

func TestIdentityFetchesUserInfo(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "Bearer at", r.Header.Get("Authorization"))
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"email":"g@x.com","name":"G","picture":"https://img.example/g.png"}`))
	}))
	defer srv.Close()

	p := NewProvider("client-id", "secret", "https://app.example/oauth-callback",
		WithEndpoints(srv.URL+"/auth", srv.URL+"/token", srv.URL))

	identity, err := p.Identity(context.Background(), "at")
	require.NoError(t, err)
	assert.Equal(t, "g@x.com", identity.Email)
	assert.Equal(t, "G", identity.Name)
}

func TestIdentityRejectsMissingEmail(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"name":"G"}`))
	}))
	defer srv.Close()

	p := NewProvider("client-id", "secret", "https://app.example/oauth-callback",
		WithEndpoints(srv.URL+"/auth", srv.URL+"/token", srv.URL))

	_, err := p.Identity(context.Background(), "at")
	require.Error(t, err)

	var pe *domain.ProviderError
	assert.ErrorAs(t, err, &pe)
}

func TestIdentityUnreachableProvider(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	srv.Close() // connection refused from here on

	p := NewProvider("client-id", "secret", "https://app.example/oauth-callback",
		WithEndpoints(srv.URL+"/auth", srv.URL+"/token", srv.URL))

	_, err := p.Identity(context.Background(), "at")
	require.Error(t, err)

	var pe *domain.ProviderError
	assert.ErrorAs(t, err, &pe)
}

func TestIdentityFromIDToken(t *testing.T) {
	p := NewProvider("client-id", "secret", "https://app.example/oauth-callback").(*Provider)
	p.validate = func(_ context.Context, token, audience string) (*idtoken.Payload, error) {
		assert.Equal(t, "idt", token)
		assert.Equal(t, "client-id", audience)
		return &idtoken.Payload{Claims: map[string]any{"email": "g@x.com", "name": "G"}}, nil
	}

	identity, err := p.IdentityFromIDToken(context.Background(), "idt")
	require.NoError(t, err)
	assert.Equal(t, "g@x.com", identity.Email)
}

func TestIdentityFromIDTokenMissingEmailClaim(t *testing.T) {
	p := NewProvider("client-id", "secret", "https://app.example/oauth-callback").(*Provider)
	p.validate = func(_ context.Context, token, audience string) (*idtoken.Payload, error) {
		return &idtoken.Payload{Claims: map[string]any{}}, nil
	}

	_, err := p.IdentityFromIDToken(context.Background(), "idt")
	require.Error(t, err)
}

func TestIdentityFromIDTokenInvalid(t *testing.T) {
	p := NewProvider("client-id", "secret", "https://app.example/oauth-callback").(*Provider)
	p.validate = func(_ context.Context, token, audience string) (*idtoken.Payload, error) {
		return nil, errors.New("token expired")
	}

	_, err := p.IdentityFromIDToken(context.Background(), "idt")
	require.Error(t, err)
	assert.True(t, strings.Contains(err.Error(), "id_token"))
}

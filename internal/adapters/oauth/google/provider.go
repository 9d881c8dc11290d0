package google

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"

	"github.com/smartwearable/guardian-verify/internal/core/domain"
	"github.com/smartwearable/guardian-verify/internal/core/ports"
	"google.golang.org/api/idtoken"
)

const (
	defaultAuthURL     = "https://accounts.google.com/o/oauth2/v2/auth"
	defaultTokenURL    = "https://oauth2.googleapis.com/token"
	defaultUserInfoURL = "https://www.googleapis.com/oauth2/v2/userinfo"
)

// Provider implements ports.OAuthProvider against Google OAuth2. The client
// secret lives here and only here.
type Provider struct {
	clientID     string
	clientSecret string
	redirectURI  string

	authURL     string
	tokenURL    string
	userInfoURL string

	httpClient *http.Client
	validate   func(ctx context.Context, token, audience string) (*idtoken.Payload, error)
}

// Option overrides a Provider default, mainly for tests.
type Option func(*Provider)

func WithEndpoints(authURL, tokenURL, userInfoURL string) Option {
	return func(p *Provider) {
		p.authURL = authURL
		p.tokenURL = tokenURL
		p.userInfoURL = userInfoURL
	}
}

func WithHTTPClient(c *http.Client) Option {
	return func(p *Provider) { p.httpClient = c }
}

func NewProvider(clientID, clientSecret, redirectURI string, opts ...Option) ports.OAuthProvider {
	p := &Provider{
		clientID:     clientID,
		clientSecret: clientSecret,
		redirectURI:  redirectURI,
		authURL:      defaultAuthURL,
		tokenURL:     defaultTokenURL,
		userInfoURL:  defaultUserInfoURL,
		httpClient:   &http.Client{},
		validate:     idtoken.Validate,
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

func (p *Provider) AuthURL(state string) string {
	params := url.Values{
		"client_id":     {p.clientID},
		"redirect_uri":  {p.redirectURI},
		"response_type": {"code"},
		"scope":         {"email profile"},
		"state":         {state},
		"access_type":   {"offline"},
		"prompt":        {"consent"},
	}
	return fmt.Sprintf("%s?%s", p.authURL, params.Encode())
}

func (p *Provider) Exchange(ctx context.Context, code string) (*domain.TokenResponse, error) {
	data := url.Values{
		"code":          {code},
		"client_id":     {p.clientID},
		"client_secret": {p.clientSecret},
		"redirect_uri":  {p.redirectURI},
		"grant_type":    {"authorization_code"},
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, p.tokenURL, strings.NewReader(data.Encode()))
	if err != nil {
		return nil, &domain.ProviderError{Op: "exchange", Err: err}
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	resp, err := p.httpClient.Do(req)
	if err != nil {
		return nil, &domain.ProviderError{Op: "exchange", Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		return nil, &domain.ProviderError{Op: "exchange", StatusCode: resp.StatusCode, Body: string(body)}
	}

	var tokens domain.TokenResponse
	if err := json.NewDecoder(resp.Body).Decode(&tokens); err != nil {
		return nil, &domain.ProviderError{Op: "exchange", Err: fmt.Errorf("decode token response: %w", err)}
	}
	return &tokens, nil
}

func (p *Provider) Identity(ctx context.Context, accessToken string) (*domain.Identity, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, p.userInfoURL, nil)
	if err != nil {
		return nil, &domain.ProviderError{Op: "userinfo", Err: err}
	}
	req.Header.Set("Authorization", "Bearer "+accessToken)

	resp, err := p.httpClient.Do(req)
	if err != nil {
		return nil, &domain.ProviderError{Op: "userinfo", Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		return nil, &domain.ProviderError{Op: "userinfo", StatusCode: resp.StatusCode, Body: string(body)}
	}

	var profile struct {
		Email   string `json:"email"`
		Name    string `json:"name"`
		Picture string `json:"picture"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&profile); err != nil {
		return nil, &domain.ProviderError{Op: "userinfo", Err: fmt.Errorf("decode userinfo: %w", err)}
	}
	if profile.Email == "" {
		return nil, &domain.ProviderError{Op: "userinfo", Err: errors.New("userinfo response has no email")}
	}

	return &domain.Identity{Email: profile.Email, Name: profile.Name, Picture: profile.Picture}, nil
}

func (p *Provider) IdentityFromIDToken(ctx context.Context, rawIDToken string) (*domain.Identity, error) {
	payload, err := p.validate(ctx, rawIDToken, p.clientID)
	if err != nil {
		return nil, &domain.ProviderError{Op: "id_token", Err: err}
	}

	email, ok := payload.Claims["email"].(string)
	if !ok || email == "" {
		return nil, &domain.ProviderError{Op: "id_token", Err: errors.New("email not found in claims")}
	}
	name, _ := payload.Claims["name"].(string)
	picture, _ := payload.Claims["picture"].(string)

	return &domain.Identity{Email: email, Name: name, Picture: picture}, nil
}

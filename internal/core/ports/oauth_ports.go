package ports

import (
	"context"

	"github.com/smartwearable/guardian-verify/internal/core/domain"
)

// OAuthProvider abstracts the identity provider. Implementations hold the
// client credentials; nothing above this port ever sees the client secret.
type OAuthProvider interface {
	// AuthURL returns the full authorization URL. state rides the redirect
	// round-trip opaquely and carries the invite token.
	AuthURL(state string) string

	// Exchange trades an authorization code for tokens.
	Exchange(ctx context.Context, code string) (*domain.TokenResponse, error)

	// Identity fetches the authenticated user via the userinfo endpoint.
	Identity(ctx context.Context, accessToken string) (*domain.Identity, error)

	// IdentityFromIDToken validates a raw id_token locally and extracts the
	// identity without a userinfo round trip.
	IdentityFromIDToken(ctx context.Context, rawIDToken string) (*domain.Identity, error)
}

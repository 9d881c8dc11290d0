package ports

import (
	"context"

	"github.com/smartwearable/guardian-verify/internal/core/domain"
)

type InviteRepository interface {
	// GetByToken returns nil, nil when no invitation carries the token.
	GetByToken(ctx context.Context, token string) (*domain.Invitation, error)
}

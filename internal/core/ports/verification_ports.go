package ports

import (
	"context"

	"github.com/smartwearable/guardian-verify/internal/core/domain"
)

type VerificationStore interface {
	// Record overwrites any existing record for token, stamping the current
	// time. It does not check that token belongs to a known invitation.
	Record(ctx context.Context, token, email string) (*domain.VerificationRecord, error)

	// Lookup returns nil, nil for unrecorded tokens.
	Lookup(ctx context.Context, token string) (*domain.VerificationRecord, error)
}

type VerificationService interface {
	ExchangeCode(ctx context.Context, code string) (*domain.TokenResponse, error)
	ResolveIdentity(ctx context.Context, tokens *domain.TokenResponse) (*domain.Identity, error)
	Record(ctx context.Context, token, email string) (*domain.VerificationRecord, error)
	Status(ctx context.Context, token string) (*domain.VerificationRecord, error)
}

// LinkResult is the outcome of a completed verification: the patient the
// guardian was linked to.
type LinkResult struct {
	PatientID string
}

type LinkingService interface {
	// CompleteVerification runs the invite checks and links the guardian.
	// Failures carry a domain.FlowError kind.
	CompleteVerification(ctx context.Context, token, email string) (*LinkResult, error)
}

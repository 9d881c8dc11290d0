package ports

import (
	"context"

	"github.com/google/uuid"
	"github.com/smartwearable/guardian-verify/internal/core/domain"
)

type GuardianRepository interface {
	// GetByEmail returns the earliest-created guardian with the exact email,
	// or nil, nil when none is registered.
	GetByEmail(ctx context.Context, email string) (*domain.Guardian, error)

	// SetPatientID overwrites the guardian's patient reference.
	SetPatientID(ctx context.Context, id uuid.UUID, patientID string) error
}

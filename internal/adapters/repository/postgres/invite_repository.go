package postgres

import (
	"context"
	"database/sql"
	"errors"

	"github.com/smartwearable/guardian-verify/internal/core/domain"
	"github.com/smartwearable/guardian-verify/internal/core/ports"
)

type InviteRepository struct {
	db *sql.DB
}

func NewInviteRepository(db *sql.DB) ports.InviteRepository {
	return &InviteRepository{db: db}
}

func (r *InviteRepository) GetByToken(ctx context.Context, token string) (*domain.Invitation, error) {
	query := `SELECT token, guardian_email, COALESCE(patient_id, ''), created_at FROM guardian_invites WHERE token = $1`
	invite := &domain.Invitation{}
	err := r.db.QueryRowContext(ctx, query, token).
		Scan(&invite.Token, &invite.GuardianEmail, &invite.PatientID, &invite.CreatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return invite, nil
}

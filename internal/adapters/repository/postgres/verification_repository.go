package postgres

import (
	"context"
	"database/sql"
	"errors"

	"github.com/smartwearable/guardian-verify/internal/core/domain"
	"github.com/smartwearable/guardian-verify/internal/core/ports"
)

// VerificationRepository is the durable verification store. Unlike the
// in-memory variant it survives restarts, which is what every deployed
// environment uses.
type VerificationRepository struct {
	db *sql.DB
}

func NewVerificationRepository(db *sql.DB) ports.VerificationStore {
	return &VerificationRepository{db: db}
}

func (r *VerificationRepository) Record(ctx context.Context, token, email string) (*domain.VerificationRecord, error) {
	query := `
		INSERT INTO verifications (token, email, verified_at)
		VALUES ($1, $2, now())
		ON CONFLICT (token) DO UPDATE SET email = EXCLUDED.email, verified_at = EXCLUDED.verified_at
		RETURNING token, email, verified_at`
	record := &domain.VerificationRecord{}
	err := r.db.QueryRowContext(ctx, query, token, email).
		Scan(&record.Token, &record.Email, &record.VerifiedAt)
	if err != nil {
		return nil, err
	}
	return record, nil
}

func (r *VerificationRepository) Lookup(ctx context.Context, token string) (*domain.VerificationRecord, error) {
	query := `SELECT token, email, verified_at FROM verifications WHERE token = $1`
	record := &domain.VerificationRecord{}
	err := r.db.QueryRowContext(ctx, query, token).
		Scan(&record.Token, &record.Email, &record.VerifiedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return record, nil
}

package postgres

import (
	"context"
	"database/sql"
	"errors"

	"github.com/google/uuid"
	"github.com/smartwearable/guardian-verify/internal/core/domain"
	"github.com/smartwearable/guardian-verify/internal/core/ports"
)

type GuardianRepository struct {
	db *sql.DB
}

func NewGuardianRepository(db *sql.DB) ports.GuardianRepository {
	return &GuardianRepository{db: db}
}

// GetByEmail resolves duplicate registrations deterministically: the
// earliest-created record wins.
func (r *GuardianRepository) GetByEmail(ctx context.Context, email string) (*domain.Guardian, error) {
	query := `SELECT id, email, patient_id, created_at FROM guardians WHERE email = $1 ORDER BY created_at, id LIMIT 1`
	guardian := &domain.Guardian{}
	err := r.db.QueryRowContext(ctx, query, email).
		Scan(&guardian.ID, &guardian.Email, &guardian.PatientID, &guardian.CreatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return guardian, nil
}

func (r *GuardianRepository) SetPatientID(ctx context.Context, id uuid.UUID, patientID string) error {
	query := `UPDATE guardians SET patient_id = $1 WHERE id = $2`
	result, err := r.db.ExecContext(ctx, query, patientID, id)
	if err != nil {
		return err
	}
	rows, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if rows == 0 {
		return domain.ErrGuardianNotFound
	}
	return nil
}

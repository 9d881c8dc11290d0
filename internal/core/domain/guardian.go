package domain

import (
	"time"

	"github.com/google/uuid"
)

// Guardian is an account registered in the mobile app. PatientID is empty
// until an invitation for this email is accepted.
type Guardian struct {
	ID        uuid.UUID `json:"id"`
	Email     string    `json:"email"`
	PatientID *string   `json:"patient_id,omitempty"`
	CreatedAt time.Time `json:"created_at"`
}

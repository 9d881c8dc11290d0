package domain

import "time"

// Invitation is a guardian invite created out-of-band by the patient or an
// administrator. This service only ever reads it.
type Invitation struct {
	Token         string    `json:"token"`
	GuardianEmail string    `json:"guardian_email"`
	PatientID     string    `json:"patient_id"`
	CreatedAt     time.Time `json:"created_at"`
}

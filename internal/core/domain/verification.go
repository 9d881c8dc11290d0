package domain

import "time"

// VerificationRecord marks that an invite token was verified for an email.
// Records are write-once from the caller's perspective: repeated verifications
// overwrite, nothing deletes.
type VerificationRecord struct {
	Token      string    `json:"-"`
	Email      string    `json:"email"`
	VerifiedAt time.Time `json:"verifiedAt"`
}

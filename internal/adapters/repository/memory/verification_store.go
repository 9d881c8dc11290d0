// Package memory holds the volatile verification store: entries live until
// the process exits. The server wiring uses the postgres store; this one
// backs unit tests and single-process demos.
package memory

import (
	"context"
	"sync"
	"time"

	"github.com/smartwearable/guardian-verify/internal/core/domain"
	"github.com/smartwearable/guardian-verify/internal/core/ports"
)

type VerificationStore struct {
	mu      sync.RWMutex
	records map[string]domain.VerificationRecord
	now     func() time.Time
}

func NewVerificationStore() *VerificationStore {
	return &VerificationStore{
		records: make(map[string]domain.VerificationRecord),
		now:     time.Now,
	}
}

var _ ports.VerificationStore = (*VerificationStore)(nil)

// Record overwrites unconditionally; last write wins.
func (s *VerificationStore) Record(_ context.Context, token, email string) (*domain.VerificationRecord, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	record := domain.VerificationRecord{
		Token:      token,
		Email:      email,
		VerifiedAt: s.now(),
	}
	s.records[token] = record
	return &record, nil
}

func (s *VerificationStore) Lookup(_ context.Context, token string) (*domain.VerificationRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	record, ok := s.records[token]
	if !ok {
		return nil, nil
	}
	return &record, nil
}

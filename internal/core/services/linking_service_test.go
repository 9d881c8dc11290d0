package services

import (
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/smartwearable/guardian-verify/internal/core/domain"
)

type fakeInviteRepo struct {
	invites map[string]*domain.Invitation
	err     error
}

func (r *fakeInviteRepo) GetByToken(_ context.Context, token string) (*domain.Invitation, error) {
	if r.err != nil {
		return nil, r.err
	}
	return r.invites[token], nil
}

type fakeGuardianRepo struct {
	guardians map[string]*domain.Guardian
	linked    map[uuid.UUID]string
	err       error
}

func newFakeGuardianRepo() *fakeGuardianRepo {
	return &fakeGuardianRepo{
		guardians: make(map[string]*domain.Guardian),
		linked:    make(map[uuid.UUID]string),
	}
}

func (r *fakeGuardianRepo) GetByEmail(_ context.Context, email string) (*domain.Guardian, error) {
	if r.err != nil {
		return nil, r.err
	}
	return r.guardians[email], nil
}

func (r *fakeGuardianRepo) SetPatientID(_ context.Context, id uuid.UUID, patientID string) error {
	r.linked[id] = patientID
	return nil
}

func linkingFixture() (*fakeInviteRepo, *fakeGuardianRepo, *linkingService, uuid.UUID) {
	invites := &fakeInviteRepo{invites: map[string]*domain.Invitation{
		"abc123": {Token: "abc123", GuardianEmail: "g@x.com", PatientID: "p1"},
	}}
	guardians := newFakeGuardianRepo()
	guardianID := uuid.New()
	guardians.guardians["g@x.com"] = &domain.Guardian{ID: guardianID, Email: "g@x.com"}

	svc := NewLinkingService(invites, guardians, zerolog.Nop()).(*linkingService)
	return invites, guardians, svc, guardianID
}

func TestCompleteVerificationLinksGuardian(t *testing.T) {
	_, guardians, svc, guardianID := linkingFixture()

	result, err := svc.CompleteVerification(context.Background(), "abc123", "g@x.com")
	require.NoError(t, err)
	assert.Equal(t, "p1", result.PatientID)

	require.Len(t, guardians.linked, 1)
	assert.Equal(t, "p1", guardians.linked[guardianID])
}

func TestCompleteVerificationEmailCompareIsCaseInsensitive(t *testing.T) {
	invites := &fakeInviteRepo{invites: map[string]*domain.Invitation{
		"abc123": {Token: "abc123", GuardianEmail: "Foo@Example.com", PatientID: "p1"},
	}}
	guardians := newFakeGuardianRepo()
	id := uuid.New()
	guardians.guardians["Foo@Example.com"] = &domain.Guardian{ID: id, Email: "Foo@Example.com"}

	svc := NewLinkingService(invites, guardians, zerolog.Nop())

	result, err := svc.CompleteVerification(context.Background(), "abc123", "foo@example.com")
	require.NoError(t, err)
	assert.Equal(t, "p1", result.PatientID)
	assert.Equal(t, "p1", guardians.linked[id])
}

func TestCompleteVerificationUnknownToken(t *testing.T) {
	_, _, svc, _ := linkingFixture()

	for _, token := range []string{"nope", ""} {
		_, err := svc.CompleteVerification(context.Background(), token, "g@x.com")
		require.Error(t, err)
		assert.Equal(t, domain.KindInvalidToken, domain.KindOf(err))
	}
}

func TestCompleteVerificationEmailMismatchCarriesBothEmails(t *testing.T) {
	_, guardians, svc, _ := linkingFixture()

	_, err := svc.CompleteVerification(context.Background(), "abc123", "other@x.com")
	require.Error(t, err)

	var fe *domain.FlowError
	require.ErrorAs(t, err, &fe)
	assert.Equal(t, domain.KindEmailMismatch, fe.Kind)
	assert.Equal(t, "g@x.com", fe.InvitedEmail)
	assert.Equal(t, "other@x.com", fe.AuthenticatedEmail)
	assert.Empty(t, guardians.linked)
}

func TestCompleteVerificationMissingPatientReference(t *testing.T) {
	invites := &fakeInviteRepo{invites: map[string]*domain.Invitation{
		"abc123": {Token: "abc123", GuardianEmail: "g@x.com"},
	}}
	svc := NewLinkingService(invites, newFakeGuardianRepo(), zerolog.Nop())

	_, err := svc.CompleteVerification(context.Background(), "abc123", "g@x.com")
	require.Error(t, err)
	assert.Equal(t, domain.KindMissingPatientReference, domain.KindOf(err))
}

func TestCompleteVerificationGuardianNotRegistered(t *testing.T) {
	invites := &fakeInviteRepo{invites: map[string]*domain.Invitation{
		"abc123": {Token: "abc123", GuardianEmail: "g@x.com", PatientID: "p1"},
	}}
	guardians := newFakeGuardianRepo()
	svc := NewLinkingService(invites, guardians, zerolog.Nop())

	_, err := svc.CompleteVerification(context.Background(), "abc123", "g@x.com")
	require.Error(t, err)
	assert.Equal(t, domain.KindGuardianNotRegistered, domain.KindOf(err))
	assert.Empty(t, guardians.linked)
}

func TestCompleteVerificationRepositoryFailureIsUnexpected(t *testing.T) {
	invites := &fakeInviteRepo{err: errors.New("connection refused")}
	svc := NewLinkingService(invites, newFakeGuardianRepo(), zerolog.Nop())

	_, err := svc.CompleteVerification(context.Background(), "abc123", "g@x.com")
	require.Error(t, err)
	assert.Equal(t, domain.KindUnexpected, domain.KindOf(err))
}

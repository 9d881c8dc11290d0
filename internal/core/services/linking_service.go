package services

import (
	"context"
	"fmt"
	"strings"

	"github.com/rs/zerolog"
	"github.com/smartwearable/guardian-verify/internal/core/domain"
	"github.com/smartwearable/guardian-verify/internal/core/ports"
)

type linkingService struct {
	invites   ports.InviteRepository
	guardians ports.GuardianRepository
	log       zerolog.Logger
}

func NewLinkingService(invites ports.InviteRepository, guardians ports.GuardianRepository, log zerolog.Logger) ports.LinkingService {
	return &linkingService{
		invites:   invites,
		guardians: guardians,
		log:       log,
	}
}

// CompleteVerification walks the invite checks in order, stopping at the
// first failure: invitation exists, invited email matches the authenticated
// one (case-insensitively), a patient is referenced, a guardian account is
// registered. On success the guardian is linked to the invite's patient.
func (s *linkingService) CompleteVerification(ctx context.Context, token, email string) (*ports.LinkResult, error) {
	invite, err := s.invites.GetByToken(ctx, token)
	if err != nil {
		return nil, fmt.Errorf("fetch invitation: %w", err)
	}
	if invite == nil {
		return nil, domain.NewFlowError(domain.KindInvalidToken, domain.ErrInvitationNotFound)
	}

	if !strings.EqualFold(invite.GuardianEmail, email) {
		s.log.Info().
			Str("invited", invite.GuardianEmail).
			Str("authenticated", email).
			Msg("email mismatch")
		return nil, &domain.FlowError{
			Kind:               domain.KindEmailMismatch,
			InvitedEmail:       invite.GuardianEmail,
			AuthenticatedEmail: email,
			Err:                domain.ErrEmailNotInvited,
		}
	}

	if invite.PatientID == "" {
		return nil, domain.NewFlowError(domain.KindMissingPatientReference, domain.ErrMissingPatientID)
	}

	guardian, err := s.guardians.GetByEmail(ctx, invite.GuardianEmail)
	if err != nil {
		return nil, fmt.Errorf("fetch guardian: %w", err)
	}
	if guardian == nil {
		return nil, domain.NewFlowError(domain.KindGuardianNotRegistered, domain.ErrGuardianNotFound)
	}

	if err := s.guardians.SetPatientID(ctx, guardian.ID, invite.PatientID); err != nil {
		return nil, fmt.Errorf("link guardian: %w", err)
	}

	s.log.Info().
		Str("guardian", guardian.ID.String()).
		Str("patient", invite.PatientID).
		Msg("guardian linked to patient")

	return &ports.LinkResult{PatientID: invite.PatientID}, nil
}

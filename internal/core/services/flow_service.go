package services

import (
	"context"

	"github.com/rs/zerolog"
	"github.com/smartwearable/guardian-verify/internal/core/domain"
	"github.com/smartwearable/guardian-verify/internal/core/flow"
	"github.com/smartwearable/guardian-verify/internal/core/ports"
)

type flowService struct {
	provider     ports.OAuthProvider
	verification ports.VerificationService
	linking      ports.LinkingService
	log          zerolog.Logger
}

func NewFlowService(provider ports.OAuthProvider, verification ports.VerificationService, linking ports.LinkingService, log zerolog.Logger) ports.FlowService {
	return &flowService{
		provider:     provider,
		verification: verification,
		linking:      linking,
		log:          log,
	}
}

func (s *flowService) Begin(token string) flow.Outcome {
	return flow.Outcome{
		State:            flow.StateIdle,
		Token:            token,
		AuthorizationURL: s.provider.AuthURL(token),
	}
}

func (s *flowService) HandleCallback(ctx context.Context, code, state string) flow.Outcome {
	// The provider must not be contacted on a malformed callback.
	if code == "" || state == "" {
		return flow.Failed(state, domain.NewFlowError(domain.KindInvalidCallbackParameters, domain.ErrMissingCallbackParams))
	}

	token := state

	tokens, err := s.verification.ExchangeCode(ctx, code)
	if err != nil {
		return flow.Failed(token, err)
	}

	identity, err := s.verification.ResolveIdentity(ctx, tokens)
	if err != nil {
		return flow.Failed(token, err)
	}

	if _, err := s.verification.Record(ctx, token, identity.Email); err != nil {
		s.log.Error().Err(err).Str("token", token).Msg("recording verification failed")
		return flow.Failed(token, err)
	}

	result, err := s.linking.CompleteVerification(ctx, token, identity.Email)
	if err != nil {
		return flow.Failed(token, err)
	}

	return flow.Verified(token, identity.Email, result.PatientID)
}

package services

import (
	"context"
	"fmt"

	"github.com/rs/zerolog"
	"github.com/smartwearable/guardian-verify/internal/core/domain"
	"github.com/smartwearable/guardian-verify/internal/core/ports"
)

type verificationService struct {
	provider ports.OAuthProvider
	store    ports.VerificationStore
	log      zerolog.Logger
}

func NewVerificationService(provider ports.OAuthProvider, store ports.VerificationStore, log zerolog.Logger) ports.VerificationService {
	return &verificationService{
		provider: provider,
		store:    store,
		log:      log,
	}
}

func (s *verificationService) ExchangeCode(ctx context.Context, code string) (*domain.TokenResponse, error) {
	tokens, err := s.provider.Exchange(ctx, code)
	if err != nil {
		s.log.Error().Err(err).Msg("token exchange failed")
		return nil, err
	}
	return tokens, nil
}

// ResolveIdentity prefers local id_token validation when the provider issued
// one; otherwise it falls back to the userinfo fetch.
func (s *verificationService) ResolveIdentity(ctx context.Context, tokens *domain.TokenResponse) (*domain.Identity, error) {
	if tokens.IDToken != "" {
		identity, err := s.provider.IdentityFromIDToken(ctx, tokens.IDToken)
		if err == nil {
			return identity, nil
		}
		s.log.Warn().Err(err).Msg("id_token validation failed, falling back to userinfo")
	}

	identity, err := s.provider.Identity(ctx, tokens.AccessToken)
	if err != nil {
		s.log.Error().Err(err).Msg("identity fetch failed")
		return nil, err
	}
	return identity, nil
}

func (s *verificationService) Record(ctx context.Context, token, email string) (*domain.VerificationRecord, error) {
	record, err := s.store.Record(ctx, token, email)
	if err != nil {
		return nil, fmt.Errorf("record verification: %w", err)
	}
	s.log.Info().Str("token", token).Str("email", email).Msg("verification recorded")
	return record, nil
}

func (s *verificationService) Status(ctx context.Context, token string) (*domain.VerificationRecord, error) {
	record, err := s.store.Lookup(ctx, token)
	if err != nil {
		return nil, fmt.Errorf("lookup verification: %w", err)
	}
	return record, nil
}

package main

import (
	"context"
	"database/sql"
	"errors"
	stdhttp "net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	_ "github.com/lib/pq"

	"github.com/smartwearable/guardian-verify/internal/adapters/handler/http"
	"github.com/smartwearable/guardian-verify/internal/adapters/oauth/google"
	"github.com/smartwearable/guardian-verify/internal/adapters/repository/postgres"
	"github.com/smartwearable/guardian-verify/internal/config"
	"github.com/smartwearable/guardian-verify/internal/core/services"
	"github.com/smartwearable/guardian-verify/internal/log"
)

func main() {
	logger := log.New("server")

	// .env is optional outside local development.
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		logger.Fatal().Err(err).Msg("invalid configuration")
	}

	db, err := sql.Open("postgres", cfg.DB.URL())
	if err != nil {
		logger.Fatal().Err(err).Msg("open database")
	}
	defer db.Close()

	inviteRepo := postgres.NewInviteRepository(db)
	guardianRepo := postgres.NewGuardianRepository(db)
	verificationStore := postgres.NewVerificationRepository(db)

	provider := google.NewProvider(cfg.GoogleClientID, cfg.GoogleClientSecret, cfg.RedirectURI)

	verificationSvc := services.NewVerificationService(provider, verificationStore, log.New("verification"))
	linkingSvc := services.NewLinkingService(inviteRepo, guardianRepo, log.New("linking"))
	flowSvc := services.NewFlowService(provider, verificationSvc, linkingSvc, log.New("flow"))

	oauthHandler := http.NewOAuthHandler(verificationSvc, log.New("oauth"))
	verificationHandler := http.NewVerificationHandler(verificationSvc, linkingSvc)
	flowHandler := http.NewFlowHandler(flowSvc)

	handler := http.NewHandler(oauthHandler, verificationHandler, flowHandler, log.New("http"))
	server := &stdhttp.Server{Addr: cfg.Addr, Handler: handler}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	go func() {
		logger.Info().Str("addr", cfg.Addr).Msg("listening")
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, stdhttp.ErrServerClosed) {
			logger.Fatal().Err(err).Msg("server stopped")
		}
	}()

	<-ctx.Done()
	logger.Info().Msg("gracefully shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Fatal().Err(err).Msg("shutdown failed")
	}
}

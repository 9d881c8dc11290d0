package http

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/rs/zerolog"
)

func NewHandler(oauthHandler *OAuthHandler, verificationHandler *VerificationHandler, flowHandler *FlowHandler, log zerolog.Logger) http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Recoverer)
	r.Use(requestLogger(log))

	r.Route("/api", func(r chi.Router) {
		r.Post("/oauth/token", oauthHandler.ExchangeToken)
		r.Post("/verify-email", verificationHandler.VerifyEmail)
		r.Get("/verification-status/{token}", verificationHandler.Status)
		r.Post("/complete-verification", verificationHandler.CompleteVerification)
	})

	r.Get("/verify", flowHandler.Landing)
	r.Get("/verify/start", flowHandler.Start)
	r.Get("/oauth/callback", flowHandler.Callback)

	return r
}

func requestLogger(log zerolog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
			next.ServeHTTP(ww, r)
			log.Info().
				Str("method", r.Method).
				Str("path", r.URL.Path).
				Int("status", ww.Status()).
				Dur("duration", time.Since(start)).
				Msg("request")
		})
	}
}

package integration

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	stdhttp "net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"

	handler "github.com/smartwearable/guardian-verify/internal/adapters/handler/http"
	"github.com/smartwearable/guardian-verify/internal/adapters/oauth/google"
	repo "github.com/smartwearable/guardian-verify/internal/adapters/repository/postgres"
	"github.com/smartwearable/guardian-verify/internal/core/services"
)

func setupPostgresContainer(ctx context.Context) (testcontainers.Container, string, error) {
	pgContainer, err := postgres.Run(ctx, "postgres:15-alpine",
		postgres.WithDatabase("testdb"),
		postgres.WithUsername("user"),
		postgres.WithPassword("password"),
		testcontainers.WithWaitStrategy(
			wait.ForLog("database system is ready to accept connections").
				WithOccurrence(2).
				WithStartupTimeout(5*time.Second),
		),
	)
	if err != nil {
		return nil, "", fmt.Errorf("failed to start postgres container: %w", err)
	}

	connStr, err := pgContainer.ConnectionString(ctx, "sslmode=disable")
	if err != nil {
		return nil, "", err
	}

	return pgContainer, connStr, nil
}

func applyMigrations(db *sql.DB) error {
	dirPath := "../../internal/adapters/repository/postgres/migrations"

	entries, err := os.ReadDir(dirPath)
	if err != nil {
		return fmt.Errorf("failed to read migrations directory: %w", err)
	}

	for _, entry := range entries {
		if entry.IsDir() || !strings.HasSuffix(entry.Name(), "up.sql") {
			continue
		}

		content, err := os.ReadFile(filepath.Join(dirPath, entry.Name()))
		if err != nil {
			return fmt.Errorf("failed to read migration file %s: %w", entry.Name(), err)
		}

		if _, err := db.Exec(string(content)); err != nil {
			return fmt.Errorf("failed to execute migration %s: %w", entry.Name(), err)
		}
	}

	return nil
}

// fakeGoogle plays the provider: a token endpoint and a userinfo endpoint.
// Email is what the "authenticated user" turns out to be.
type fakeGoogle struct {
	Server     *httptest.Server
	Email      string
	TokenCalls atomic.Int64
}

func newFakeGoogle(email string) *fakeGoogle {
	g := &fakeGoogle{Email: email}

	mux := stdhttp.NewServeMux()
	mux.HandleFunc("/token", func(w stdhttp.ResponseWriter, r *stdhttp.Request) {
		g.TokenCalls.Add(1)
		if err := r.ParseForm(); err != nil || r.PostForm.Get("code") == "" {
			w.WriteHeader(stdhttp.StatusBadRequest)
			_, _ = w.Write([]byte(`{"error":"invalid_request"}`))
			return
		}
		if r.PostForm.Get("code") == "expired" {
			w.WriteHeader(stdhttp.StatusBadRequest)
			_, _ = w.Write([]byte(`{"error":"invalid_grant"}`))
			return
		}
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(map[string]any{
			"access_token": "access-" + r.PostForm.Get("code"),
			"token_type":   "Bearer",
			"expires_in":   3599,
		})
	})
	mux.HandleFunc("/userinfo", func(w stdhttp.ResponseWriter, r *stdhttp.Request) {
		if !strings.HasPrefix(r.Header.Get("Authorization"), "Bearer access-") {
			w.WriteHeader(stdhttp.StatusUnauthorized)
			_, _ = w.Write([]byte(`{"error":"invalid_token"}`))
			return
		}
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(map[string]any{"email": g.Email, "name": "Test Guardian"})
	})

	g.Server = httptest.NewServer(mux)
	return g
}

type TestApp struct {
	DB          *sql.DB
	Server      *httptest.Server
	Client      *stdhttp.Client
	Google      *fakeGoogle
	DBContainer testcontainers.Container
}

func newTestApp(t *testing.T, authenticatedEmail string) *TestApp {
	t.Helper()

	ctx := context.Background()
	dbContainer, dbURL, err := setupPostgresContainer(ctx)
	require.NoError(t, err)

	db, err := sql.Open("postgres", dbURL)
	require.NoError(t, err)

	require.NoError(t, applyMigrations(db))

	fake := newFakeGoogle(authenticatedEmail)
	provider := google.NewProvider("client-id", "client-secret", "http://localhost/oauth/callback",
		google.WithEndpoints(fake.Server.URL+"/auth", fake.Server.URL+"/token", fake.Server.URL+"/userinfo"))

	inviteRepo := repo.NewInviteRepository(db)
	guardianRepo := repo.NewGuardianRepository(db)
	verificationStore := repo.NewVerificationRepository(db)

	verificationSvc := services.NewVerificationService(provider, verificationStore, zerolog.Nop())
	linkingSvc := services.NewLinkingService(inviteRepo, guardianRepo, zerolog.Nop())
	flowSvc := services.NewFlowService(provider, verificationSvc, linkingSvc, zerolog.Nop())

	router := handler.NewHandler(
		handler.NewOAuthHandler(verificationSvc, zerolog.Nop()),
		handler.NewVerificationHandler(verificationSvc, linkingSvc),
		handler.NewFlowHandler(flowSvc),
		zerolog.Nop(),
	)

	server := httptest.NewServer(router)

	return &TestApp{
		DB:          db,
		Server:      server,
		Client:      server.Client(),
		Google:      fake,
		DBContainer: dbContainer,
	}
}

func (app *TestApp) Teardown(t *testing.T) {
	t.Helper()
	app.Server.Close()
	app.Google.Server.Close()
	require.NoError(t, app.DB.Close())
	require.NoError(t, app.DBContainer.Terminate(context.Background()))
}

func seedInvite(t *testing.T, db *sql.DB, token, guardianEmail, patientID string) {
	t.Helper()
	_, err := db.Exec(
		"INSERT INTO guardian_invites (token, guardian_email, patient_id) VALUES ($1, $2, NULLIF($3, ''))",
		token, guardianEmail, patientID,
	)
	require.NoError(t, err)
}

func seedGuardian(t *testing.T, db *sql.DB, email string, createdAt time.Time) uuid.UUID {
	t.Helper()
	id := uuid.New()
	_, err := db.Exec(
		"INSERT INTO guardians (id, email, created_at) VALUES ($1, $2, $3)",
		id, email, createdAt,
	)
	require.NoError(t, err)
	return id
}

func guardianPatientID(t *testing.T, db *sql.DB, id uuid.UUID) *string {
	t.Helper()
	var patientID *string
	err := db.QueryRow("SELECT patient_id FROM guardians WHERE id = $1", id).Scan(&patientID)
	require.NoError(t, err)
	return patientID
}

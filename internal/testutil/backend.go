// Package testutil starts the dev backend for tests.
package testutil

import (
	"context"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/Skotchmaster/food_client/internal/backend"
	"github.com/Skotchmaster/food_client/internal/events"
	"github.com/Skotchmaster/food_client/pkg/logging"
)

var JWTSecret = []byte("test-jwt-secret")

type Env struct {
	Server  *httptest.Server
	Backend *backend.Server
	Events  *events.Recorder
	BaseURL string
}

// StartBackend runs a seeded backend on in-memory SQLite. The server and the
// database are closed when the test ends.
func StartBackend(t *testing.T) *Env {
	t.Helper()

	rec := &events.Recorder{}
	ctx := logging.IntoContext(context.Background(), logging.Discard())
	srv, err := backend.New(ctx, backend.Options{
		SQLitePath: ":memory:",
		JWTSecret:  JWTSecret,
		TokenTTL:   time.Hour,
		HashCost:   bcrypt.MinCost,
		Events:     rec,
		Logger:     logging.Discard(),
		Seed:       true,
	})
	require.NoError(t, err)

	ts := httptest.NewServer(srv.Echo)
	t.Cleanup(func() {
		ts.Close()
		_ = srv.Close()
	})

	return &Env{
		Server:  ts,
		Backend: srv,
		Events:  rec,
		BaseURL: ts.URL + "/api",
	}
}

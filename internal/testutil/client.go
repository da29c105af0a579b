package testutil

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/Skotchmaster/food_client/internal/credstore"
	"github.com/Skotchmaster/food_client/internal/events"
	"github.com/Skotchmaster/food_client/internal/session"
	"github.com/Skotchmaster/food_client/pkg/apiclient"
	"github.com/Skotchmaster/food_client/pkg/logging"
)

type Client struct {
	API     *apiclient.Client
	Session *session.Manager
	Store   *credstore.GormStore
	Events  *events.Recorder
	Ctx     context.Context
}

// NewClient wires an API client, an in-memory credential store and a
// bootstrapped session manager against env.
func NewClient(t *testing.T, env *Env) *Client {
	t.Helper()

	ctx := logging.IntoContext(context.Background(), logging.Discard())
	store, err := credstore.Open(ctx, ":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { _ = store.Close() })

	rec := &events.Recorder{}
	api := apiclient.New(env.BaseURL)
	sess := session.NewManager(api, store, rec)
	api.SetTokenSource(sess)
	sess.Bootstrap(ctx)

	return &Client{API: api, Session: sess, Store: store, Events: rec, Ctx: ctx}
}

// LoggedIn is NewClient followed by a successful login.
func LoggedIn(t *testing.T, env *Env, identifier, password string) *Client {
	t.Helper()
	c := NewClient(t, env)
	_, err := c.Session.Login(c.Ctx, identifier, password)
	require.NoError(t, err)
	return c
}

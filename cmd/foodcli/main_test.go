package main

import (
	"bytes"
	"errors"
	"flag"
	"fmt"
	"io"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Skotchmaster/food_client/internal/order"
	"github.com/Skotchmaster/food_client/internal/session"
	"github.com/Skotchmaster/food_client/pkg/apierr"
)

func TestAlert(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want string
	}{
		{"api error", fmt.Errorf("wrap: %w", &apierr.Error{Kind: apierr.KindNotFound, Message: "no such order", HTTPStatus: 404}), "error [not_found]: no such order\n"},
		{"not authenticated", session.ErrNotAuthenticated, "error [unauthorized]: please log in first\n"},
		{"plain", order.ErrEmptyCart, "error: cart is empty\n"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var buf bytes.Buffer
			alert(&buf, tt.err)
			assert.Equal(t, tt.want, buf.String())
		})
	}
}

func TestIDArg(t *testing.T) {
	id, err := idArg([]string{"42"})
	require.NoError(t, err)
	assert.Equal(t, int64(42), id)

	for _, args := range [][]string{nil, {"x"}, {"1", "2"}} {
		_, err := idArg(args)
		assert.True(t, errors.Is(err, errUsage), "%v", args)
	}
}

func TestFlagged(t *testing.T) {
	fs := flag.NewFlagSet("profile", flag.ContinueOnError)
	fs.SetOutput(io.Discard)
	name := fs.String("name", "", "")
	phone := fs.String("phone", "", "")
	require.NoError(t, fs.Parse([]string{"-name", ""}))

	got := flagged(fs, "name", *name)
	require.NotNil(t, got)
	assert.Equal(t, "", *got)
	assert.Nil(t, flagged(fs, "phone", *phone))
}

func TestCommandsHaveHandlers(t *testing.T) {
	for _, name := range []string{
		"register", "login", "logout", "whoami", "refresh", "profile", "restaurants",
		"restaurant", "cart", "add", "set-qty", "remove", "clear", "checkout", "orders",
		"order", "cancel", "reviews", "review",
	} {
		cmd, ok := commands[name]
		require.True(t, ok, name)
		assert.NotNil(t, cmd.run, name)
	}
}

package catalog

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Skotchmaster/food_client/internal/testutil"
	"github.com/Skotchmaster/food_client/pkg/apiclient"
	"github.com/Skotchmaster/food_client/pkg/apierr"
	"github.com/Skotchmaster/food_client/pkg/logging"
)

func ctx() context.Context {
	return logging.IntoContext(context.Background(), logging.Discard())
}

func TestRestaurants_Search(t *testing.T) {
	env := testutil.StartBackend(t)
	svc := NewService(apiclient.New(env.BaseURL))

	all, err := svc.Restaurants(ctx(), "")
	require.NoError(t, err)
	assert.Len(t, all, 3)

	found, err := svc.Restaurants(ctx(), "  ramen ")
	require.NoError(t, err)
	require.Len(t, found, 1)
	assert.Equal(t, "Sushi Corner", found[0].Name)

	found, err = svc.Restaurants(ctx(), "zzz")
	require.NoError(t, err)
	assert.Empty(t, found)

	found, err = svc.Restaurants(ctx(), "burger")
	require.NoError(t, err)
	require.Len(t, found, 1)
	assert.Equal(t, "Burger Barn", found[0].Name)
	assert.Empty(t, found[0].Menus)
}

func TestRestaurant_Detail(t *testing.T) {
	env := testutil.StartBackend(t)
	svc := NewService(apiclient.New(env.BaseURL))

	list, err := svc.Restaurants(ctx(), "sushi")
	require.NoError(t, err)
	require.Len(t, list, 1)

	rest, err := svc.Restaurant(ctx(), list[0].ID)
	require.NoError(t, err)
	require.Len(t, rest.Menus, 2)
	assert.Equal(t, "Rolls", rest.Menus[0].Name)
	assert.NotEmpty(t, rest.Menus[0].Dishes)

	_, err = svc.Restaurant(ctx(), 4242)
	assert.True(t, apierr.Is(err, apierr.KindNotFound))

	_, err = svc.Restaurant(ctx(), 0)
	assert.True(t, apierr.Is(err, apierr.KindValidation))
}

func TestRestaurants_AlwaysSendsSearchTerm(t *testing.T) {
	var raw string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		raw = r.URL.RawQuery
		_, _ = w.Write([]byte(`[]`))
	}))
	defer srv.Close()

	_, err := NewService(apiclient.New(srv.URL)).Restaurants(ctx(), "")
	require.NoError(t, err)
	assert.Equal(t, "searchTerm=", raw)
}

package review

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Skotchmaster/food_client/internal/catalog"
	"github.com/Skotchmaster/food_client/internal/models"
	"github.com/Skotchmaster/food_client/internal/session"
	"github.com/Skotchmaster/food_client/internal/testutil"
	"github.com/Skotchmaster/food_client/pkg/apierr"
)

func TestCreateAndList(t *testing.T) {
	env := testutil.StartBackend(t)
	c := testutil.LoggedIn(t, env, "alice", "secret")
	svc := NewService(c.API, c.Session)

	list, err := catalog.NewService(c.API).Restaurants(c.Ctx, "pasta")
	require.NoError(t, err)
	restID := list[0].ID

	rv, err := svc.Create(c.Ctx, models.NewReview{RestaurantID: restID, Rating: 4, Comment: "  tasty  "})
	require.NoError(t, err)
	assert.Equal(t, "tasty", rv.Comment)
	assert.Equal(t, "alice", rv.Username)

	reviews, err := svc.ByRestaurant(c.Ctx, restID)
	require.NoError(t, err)
	require.Len(t, reviews, 1)
	assert.Equal(t, 4, reviews[0].Rating)

	rest, err := catalog.NewService(c.API).Restaurant(c.Ctx, restID)
	require.NoError(t, err)
	assert.InDelta(t, 4.0, rest.Rating, 0.001)
}

func TestCreate_Validation(t *testing.T) {
	env := testutil.StartBackend(t)
	anon := testutil.NewClient(t, env)
	svc := NewService(anon.API, anon.Session)

	_, err := svc.Create(anon.Ctx, models.NewReview{RestaurantID: 1, Rating: 5})
	assert.ErrorIs(t, err, session.ErrNotAuthenticated)

	c := testutil.LoggedIn(t, env, "alice", "secret")
	svc = NewService(c.API, c.Session)
	for _, rating := range []int{0, 6, -1} {
		_, err := svc.Create(c.Ctx, models.NewReview{RestaurantID: 1, Rating: rating})
		assert.True(t, apierr.Is(err, apierr.KindValidation), rating)
	}
	_, err = svc.Create(c.Ctx, models.NewReview{RestaurantID: 0, Rating: 3})
	assert.True(t, apierr.Is(err, apierr.KindValidation))

	_, err = svc.ByRestaurant(c.Ctx, 0)
	assert.True(t, apierr.Is(err, apierr.KindValidation))
}

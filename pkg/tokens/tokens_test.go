package tokens

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var secret = []byte("test-secret")

func TestCreateAndParse(t *testing.T) {
	tok, err := CreateAccessToken(secret, 7, "alice", []string{"CUSTOMER"}, time.Now().Add(time.Hour))
	require.NoError(t, err)

	claims, err := AccessClaimsFromToken(tok, secret)
	require.NoError(t, err)

	id, err := claims.UserID()
	require.NoError(t, err)
	assert.EqualValues(t, 7, id)
	assert.Equal(t, "alice", claims.Username)
	assert.True(t, claims.HasRole("CUSTOMER"))
	assert.False(t, claims.HasRole("ADMIN"))
	assert.NotEmpty(t, claims.ID)
}

func TestAccessClaimsFromToken_Rejects(t *testing.T) {
	expired, err := CreateAccessToken(secret, 1, "alice", nil, time.Now().Add(-time.Minute))
	require.NoError(t, err)
	_, err = AccessClaimsFromToken(expired, secret)
	assert.ErrorIs(t, err, jwt.ErrTokenExpired)

	good, err := CreateAccessToken(secret, 1, "alice", nil, time.Now().Add(time.Hour))
	require.NoError(t, err)
	_, err = AccessClaimsFromToken(good, []byte("other"))
	assert.Error(t, err)

	_, err = AccessClaimsFromToken("not-a-jwt", secret)
	assert.Error(t, err)
}

func TestUserID_InvalidSubject(t *testing.T) {
	c := AccessClaims{RegisteredClaims: jwt.RegisteredClaims{Subject: "abc"}}
	_, err := c.UserID()
	assert.Error(t, err)
}

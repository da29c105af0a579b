package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestProfileUpdate_Apply(t *testing.T) {
	name := "Alice A."
	addr := ""
	u := User{Username: "alice", FullName: "Alice", Address: "1 Main St", PhoneNumber: "555"}

	ProfileUpdate{FullName: &name, Address: &addr}.Apply(&u)

	assert.Equal(t, "Alice A.", u.FullName)
	assert.Equal(t, "", u.Address)
	assert.Equal(t, "555", u.PhoneNumber)
	assert.Equal(t, "alice", u.Username)
}

func TestParseOrderStatus(t *testing.T) {
	for _, st := range AllStatuses() {
		got, err := ParseOrderStatus(string(st))
		require.NoError(t, err)
		assert.Equal(t, st, got)
	}

	_, err := ParseOrderStatus("pending")
	assert.Error(t, err)
}

func TestCanCustomerTransition(t *testing.T) {
	for _, from := range AllStatuses() {
		for _, to := range AllStatuses() {
			want := from == StatusPending && to == StatusCancelled
			assert.Equal(t, want, CanCustomerTransition(from, to), "%s -> %s", from, to)
		}
	}
}

func TestOrderStatus_Terminal(t *testing.T) {
	assert.False(t, StatusPending.Terminal())
	assert.False(t, StatusOutForDelivery.Terminal())
	assert.True(t, StatusDelivered.Terminal())
	assert.True(t, StatusCancelled.Terminal())
	assert.True(t, StatusFailed.Terminal())
}

func TestCart_Empty(t *testing.T) {
	var c *Cart
	assert.True(t, c.Empty())
	assert.True(t, (&Cart{}).Empty())
	assert.False(t, (&Cart{Items: []CartItem{{ID: 1}}}).Empty())
}

package repository

import (
	"context"
	"testing"
	"time"

	bookingserrors "restobook/internal/bookings/errors"
	"restobook/pkg/model"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson"
)

func TestActiveFilter(t *testing.T) {
	filter := activeFilter(bson.M{fieldRestaurantID: "r-1"})
	assert.Equal(t, model.StatusActive, filter[fieldStatus])
	assert.Equal(t, "r-1", filter[fieldRestaurantID])
	assert.Len(t, filter, 2)
}

func TestObjectID(t *testing.T) {
	oid, err := objectID("65f0c0ffee0000000000abcd")
	require.NoError(t, err)
	assert.Equal(t, "65f0c0ffee0000000000abcd", oid.Hex())

	for _, id := range []string{"", "abc", "zzzzzzzzzzzzzzzzzzzzzzzz"} {
		_, err := objectID(id)
		assert.ErrorIs(t, err, bookingserrors.ErrInvalidID, "id %q", id)
	}
}

func TestWithTimeout(t *testing.T) {
	t.Run("applies timeout when caller has none", func(t *testing.T) {
		ctx, cancel := withTimeout(context.Background(), time.Second)
		defer cancel()
		deadline, ok := ctx.Deadline()
		require.True(t, ok)
		assert.WithinDuration(t, time.Now().Add(time.Second), deadline, 100*time.Millisecond)
	})

	t.Run("keeps a shorter caller deadline", func(t *testing.T) {
		parent, parentCancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
		defer parentCancel()
		want, _ := parent.Deadline()

		ctx, cancel := withTimeout(parent, time.Minute)
		defer cancel()
		got, ok := ctx.Deadline()
		require.True(t, ok)
		assert.Equal(t, want, got)
	})
}

package booking

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestHolds(t *testing.T) (*HoldService, *miniredis.Miniredis) {
	t.Helper()

	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { client.Close() })

	return NewHoldService(client, time.Minute), mr
}

func TestHoldSeats(t *testing.T) {
	holds, _ := newTestHolds(t)
	eventID := uuid.New()
	userID := uuid.New()

	expiresAt, err := holds.HoldSeats(context.Background(), eventID, userID, []int{3, 4})
	require.NoError(t, err)
	assert.True(t, expiresAt.After(time.Now()))
}

func TestHoldSeatsConflict(t *testing.T) {
	holds, _ := newTestHolds(t)
	eventID := uuid.New()
	alice := uuid.New()
	bob := uuid.New()

	_, err := holds.HoldSeats(context.Background(), eventID, alice, []int{2})
	require.NoError(t, err)

	// Bob's request overlaps Alice's hold on seat 2, so the whole
	// acquisition fails and seat 1 must not stay held by him.
	_, err = holds.HoldSeats(context.Background(), eventID, bob, []int{1, 2})
	assert.ErrorIs(t, err, ErrSeatHeld)

	carol := uuid.New()
	_, err = holds.HoldSeats(context.Background(), eventID, carol, []int{1})
	assert.NoError(t, err)
}

func TestHoldSeatsSameOwnerRefresh(t *testing.T) {
	holds, mr := newTestHolds(t)
	eventID := uuid.New()
	userID := uuid.New()

	_, err := holds.HoldSeats(context.Background(), eventID, userID, []int{5})
	require.NoError(t, err)

	mr.FastForward(30 * time.Second)

	_, err = holds.HoldSeats(context.Background(), eventID, userID, []int{5})
	require.NoError(t, err)

	// The refresh reset the TTL, so the original deadline passing does
	// not release the seat.
	mr.FastForward(45 * time.Second)
	other := uuid.New()
	_, err = holds.HoldSeats(context.Background(), eventID, other, []int{5})
	assert.ErrorIs(t, err, ErrSeatHeld)
}

func TestHoldExpiry(t *testing.T) {
	holds, mr := newTestHolds(t)
	eventID := uuid.New()

	_, err := holds.HoldSeats(context.Background(), eventID, uuid.New(), []int{9})
	require.NoError(t, err)

	mr.FastForward(2 * time.Minute)

	_, err = holds.HoldSeats(context.Background(), eventID, uuid.New(), []int{9})
	assert.NoError(t, err)
}

func TestReleaseSeatsOwnership(t *testing.T) {
	holds, _ := newTestHolds(t)
	eventID := uuid.New()
	alice := uuid.New()
	bob := uuid.New()

	_, err := holds.HoldSeats(context.Background(), eventID, alice, []int{7})
	require.NoError(t, err)

	// Bob cannot release a hold he does not own.
	holds.ReleaseSeats(context.Background(), eventID, bob, []int{7})
	_, err = holds.HoldSeats(context.Background(), eventID, bob, []int{7})
	assert.ErrorIs(t, err, ErrSeatHeld)

	holds.ReleaseSeats(context.Background(), eventID, alice, []int{7})
	_, err = holds.HoldSeats(context.Background(), eventID, bob, []int{7})
	assert.NoError(t, err)
}

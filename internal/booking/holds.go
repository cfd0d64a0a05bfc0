package booking

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

// DefaultHoldTTL bounds how long a buyer can sit in seat selection
// before the hold lapses and the seats return to the pool.
const DefaultHoldTTL = 5 * time.Minute

var ErrSeatHeld = errors.New("seat is held by another buyer")

// HoldService keeps short-lived seat reservations in Redis so that a
// buyer's selection survives page reloads and is visible to concurrent
// sessions. Holds are advisory only: the ticket commit re-validates
// against persisted seat assignments regardless.
type HoldService struct {
	redis *redis.Client
	ttl   time.Duration
}

func NewHoldService(client *redis.Client, ttl time.Duration) *HoldService {
	if ttl <= 0 {
		ttl = DefaultHoldTTL
	}
	return &HoldService{redis: client, ttl: ttl}
}

func (h *HoldService) TTL() time.Duration {
	return h.ttl
}

func seatKey(eventID uuid.UUID, seat int) string {
	return fmt.Sprintf("hold:%s:%d", eventID, seat)
}

// HoldSeats acquires every requested seat or none of them. A seat
// already held by the same user just has its TTL refreshed.
func (h *HoldService) HoldSeats(ctx context.Context, eventID, userID uuid.UUID, seats []int) (time.Time, error) {
	owner := userID.String()
	var acquired []int

	for _, seat := range seats {
		key := seatKey(eventID, seat)
		ok, err := h.redis.SetNX(ctx, key, owner, h.ttl).Result()
		if err != nil {
			h.release(ctx, eventID, owner, acquired)
			return time.Time{}, err
		}
		if !ok {
			current, getErr := h.redis.Get(ctx, key).Result()
			if getErr == nil && current == owner {
				h.redis.Expire(ctx, key, h.ttl)
				continue
			}
			h.release(ctx, eventID, owner, acquired)
			return time.Time{}, fmt.Errorf("%w: seat %d", ErrSeatHeld, seat)
		}
		acquired = append(acquired, seat)
	}

	return time.Now().Add(h.ttl), nil
}

// ReleaseSeats drops holds owned by the user; holds owned by someone
// else are left alone.
func (h *HoldService) ReleaseSeats(ctx context.Context, eventID, userID uuid.UUID, seats []int) {
	h.release(ctx, eventID, userID.String(), seats)
}

func (h *HoldService) release(ctx context.Context, eventID uuid.UUID, owner string, seats []int) {
	for _, seat := range seats {
		key := seatKey(eventID, seat)
		current, err := h.redis.Get(ctx, key).Result()
		if err == redis.Nil {
			continue
		}
		if err == nil && current == owner {
			h.redis.Del(ctx, key)
		}
	}
}

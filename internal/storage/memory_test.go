package storage

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/eventro/eventro/internal/models"
)

func seedEvent(store *MemoryStore) models.Event {
	event := models.Event{ID: uuid.New(), Title: "Jazz Night"}
	store.AddEvent(event)
	return event
}

func ticketFor(event models.Event, userID uuid.UUID, seats ...int) *models.Ticket {
	ticket := &models.Ticket{
		ID:      uuid.New(),
		UserID:  userID,
		EventID: event.ID,
		Details: models.TicketDetails{Name: "Ada", EventName: event.Title, Quantity: len(seats)},
	}
	for _, seat := range seats {
		ticket.Seats = append(ticket.Seats, models.SeatAssignment{SeatNumber: seat})
	}
	return ticket
}

func TestCreateTicketSeatConflict(t *testing.T) {
	store := NewMemoryStore()
	event := seedEvent(store)
	ctx := context.Background()

	require.NoError(t, store.CreateTicket(ctx, ticketFor(event, uuid.New(), 1, 2)))

	err := store.CreateTicket(ctx, ticketFor(event, uuid.New(), 2, 3))
	assert.ErrorIs(t, err, ErrSeatConflict)

	// The failed insert must not leave a partial assignment behind.
	require.NoError(t, store.CreateTicket(ctx, ticketFor(event, uuid.New(), 3)))
}

func TestSeatConflictScopedToEvent(t *testing.T) {
	store := NewMemoryStore()
	first := seedEvent(store)
	second := seedEvent(store)
	ctx := context.Background()

	require.NoError(t, store.CreateTicket(ctx, ticketFor(first, uuid.New(), 1)))
	assert.NoError(t, store.CreateTicket(ctx, ticketFor(second, uuid.New(), 1)))
}

func TestDeleteTicketFreesSeats(t *testing.T) {
	store := NewMemoryStore()
	event := seedEvent(store)
	ctx := context.Background()

	ticket := ticketFor(event, uuid.New(), 8)
	require.NoError(t, store.CreateTicket(ctx, ticket))
	require.NoError(t, store.DeleteTicket(ctx, ticket.ID))

	_, err := store.GetTicket(ctx, ticket.ID)
	assert.ErrorIs(t, err, ErrNotFound)

	assert.NoError(t, store.CreateTicket(ctx, ticketFor(event, uuid.New(), 8)))
}

func TestFindTicket(t *testing.T) {
	store := NewMemoryStore()
	event := seedEvent(store)
	ctx := context.Background()
	userID := uuid.New()

	_, err := store.FindTicket(ctx, event.ID, userID)
	assert.ErrorIs(t, err, ErrNotFound)

	require.NoError(t, store.CreateTicket(ctx, ticketFor(event, userID, 11)))

	found, err := store.FindTicket(ctx, event.ID, userID)
	require.NoError(t, err)
	assert.Equal(t, userID, found.UserID)
}

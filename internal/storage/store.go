package storage

import (
	"context"
	"errors"

	"github.com/google/uuid"

	"github.com/eventro/eventro/internal/models"
)

var (
	ErrNotFound     = errors.New("record not found")
	ErrSeatConflict = errors.New("seat already booked")
)

// TicketStore is the persistence surface of the booking flow. The gorm
// implementation backs the server; the in-memory one backs tests.
type TicketStore interface {
	GetEvent(ctx context.Context, id uuid.UUID) (*models.Event, error)

	ListTicketsForEvent(ctx context.Context, eventID uuid.UUID) ([]models.Ticket, error)
	ListTicketsForUser(ctx context.Context, userID uuid.UUID) ([]models.Ticket, error)

	// CreateTicket persists the ticket together with its seat
	// assignments. The seat set is re-validated against the live booked
	// set inside the same atomic step; any overlap fails the whole
	// insert with ErrSeatConflict and leaves no partial state.
	CreateTicket(ctx context.Context, ticket *models.Ticket) error

	GetTicket(ctx context.Context, id uuid.UUID) (*models.Ticket, error)
	DeleteTicket(ctx context.Context, id uuid.UUID) error

	// FindTicket returns one ticket proving the (event, user) purchase,
	// or ErrNotFound. Review eligibility hangs off this.
	FindTicket(ctx context.Context, eventID, userID uuid.UUID) (*models.Ticket, error)

	CreateReview(ctx context.Context, review *models.Review) error
	ListReviews(ctx context.Context) ([]models.Review, error)
	ListReviewsForEvent(ctx context.Context, eventID uuid.UUID) ([]models.Review, error)
}

package booking

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"time"

	"github.com/google/uuid"

	"github.com/eventro/eventro/internal/helpers"
	"github.com/eventro/eventro/internal/models"
	"github.com/eventro/eventro/internal/payment"
	"github.com/eventro/eventro/internal/storage"
)

// MaxSeatsPerOrder caps one checkout at two seats.
const MaxSeatsPerOrder = 2

const defaultPaymentTimeout = 15 * time.Second

var (
	ErrSoldOut          = errors.New("event sold out")
	ErrInvalidSelection = errors.New("invalid seat selection")
	ErrNotEligible      = errors.New("no ticket found for this user and event")
)

// Service owns the booking flow: seat availability derivation, payment
// authorization, and atomic ticket issuance.
type Service struct {
	store          storage.TicketStore
	payments       payment.Authorizer
	paymentTimeout time.Duration
}

func NewService(store storage.TicketStore, payments payment.Authorizer) *Service {
	return &Service{
		store:          store,
		payments:       payments,
		paymentTimeout: defaultPaymentTimeout,
	}
}

type Availability struct {
	Total       int   `json:"total"`
	BookedSeats []int `json:"booked_seats"`
	Remaining   int   `json:"remaining"`
	SoldOut     bool  `json:"sold_out"`
}

// Availability derives the booked seat set for an event by flattening
// the seat assignments of its tickets. An event with no tickets yields
// an empty set; a missing event yields storage.ErrNotFound.
func (s *Service) Availability(ctx context.Context, eventID uuid.UUID) (*Availability, error) {
	if _, err := s.store.GetEvent(ctx, eventID); err != nil {
		return nil, err
	}

	tickets, err := s.store.ListTicketsForEvent(ctx, eventID)
	if err != nil {
		return nil, err
	}

	booked := make(map[int]struct{})
	for _, ticket := range tickets {
		for _, seat := range ticket.SeatNumbers() {
			booked[seat] = struct{}{}
		}
	}

	seats := make([]int, 0, len(booked))
	for seat := range booked {
		seats = append(seats, seat)
	}
	sort.Ints(seats)

	return &Availability{
		Total:       models.SeatCapacity,
		BookedSeats: seats,
		Remaining:   models.SeatCapacity - len(seats),
		SoldOut:     len(seats) >= models.SeatCapacity,
	}, nil
}

type CheckoutInput struct {
	EventID    uuid.UUID
	UserID     uuid.UUID
	BuyerName  string
	BuyerEmail string
	Quantity   int
	Seats      []int
	Currency   string
}

type CheckoutResult struct {
	Ticket       *models.Ticket
	ClientSecret string
}

// Checkout authorizes payment for the selection and, on success,
// persists the ticket. The seat set is validated twice: once up front
// against a snapshot, and again inside the store's atomic insert, so
// two concurrent buyers can never both commit the same seat.
func (s *Service) Checkout(ctx context.Context, input CheckoutInput) (*CheckoutResult, error) {
	if err := validateSelection(input.Quantity, input.Seats); err != nil {
		return nil, err
	}

	event, err := s.store.GetEvent(ctx, input.EventID)
	if err != nil {
		return nil, err
	}

	availability, err := s.Availability(ctx, input.EventID)
	if err != nil {
		return nil, err
	}
	if availability.SoldOut {
		return nil, ErrSoldOut
	}

	booked := make(map[int]struct{}, len(availability.BookedSeats))
	for _, seat := range availability.BookedSeats {
		booked[seat] = struct{}{}
	}
	for _, seat := range input.Seats {
		if _, taken := booked[seat]; taken {
			return nil, fmt.Errorf("%w: seat %d", storage.ErrSeatConflict, seat)
		}
	}

	currency := input.Currency
	if currency == "" {
		currency = "usd"
	}
	totalCents := int64(event.TicketPrice) * int64(input.Quantity) * 100

	authCtx, cancel := context.WithTimeout(ctx, s.paymentTimeout)
	defer cancel()
	clientSecret, err := s.payments.Authorize(authCtx, totalCents, currency)
	if err != nil {
		return nil, err
	}

	qr, err := helpers.GenerateTicketQR(input.BuyerName, event.Title)
	if err != nil {
		return nil, err
	}

	ticket := &models.Ticket{
		ID:      uuid.New(),
		UserID:  input.UserID,
		EventID: event.ID,
		Details: models.TicketDetails{
			Name:        input.BuyerName,
			Email:       input.BuyerEmail,
			EventName:   event.Title,
			EventDate:   event.EventDate,
			EventTime:   event.EventTime,
			TicketPrice: event.TicketPrice,
			QR:          qr,
			Quantity:    input.Quantity,
		},
	}
	for _, seat := range input.Seats {
		ticket.Seats = append(ticket.Seats, models.SeatAssignment{
			TicketID:   ticket.ID,
			EventID:    event.ID,
			SeatNumber: seat,
		})
	}

	if err := s.store.CreateTicket(ctx, ticket); err != nil {
		return nil, err
	}

	return &CheckoutResult{Ticket: ticket, ClientSecret: clientSecret}, nil
}

func (s *Service) TicketsForUser(ctx context.Context, userID uuid.UUID) ([]models.Ticket, error) {
	return s.store.ListTicketsForUser(ctx, userID)
}

func (s *Service) Ticket(ctx context.Context, id uuid.UUID) (*models.Ticket, error) {
	return s.store.GetTicket(ctx, id)
}

// CancelTicket removes the ticket and returns its seats to the pool.
func (s *Service) CancelTicket(ctx context.Context, id uuid.UUID) error {
	return s.store.DeleteTicket(ctx, id)
}

// SubmitReview enforces the proof-of-purchase gate: the review is
// accepted only if a ticket exists for the same (event, user) pair, and
// the buyer and event names are copied from that ticket.
func (s *Service) SubmitReview(ctx context.Context, eventID, userID uuid.UUID, rating int, comment string) (*models.Review, error) {
	if rating < 1 || rating > 5 {
		return nil, fmt.Errorf("%w: rating must be between 1 and 5", ErrInvalidSelection)
	}
	if comment == "" {
		return nil, fmt.Errorf("%w: comment is required", ErrInvalidSelection)
	}

	ticket, err := s.store.FindTicket(ctx, eventID, userID)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return nil, ErrNotEligible
		}
		return nil, err
	}

	review := &models.Review{
		ID:        uuid.New(),
		UserID:    userID,
		EventID:   eventID,
		Name:      ticket.Details.Name,
		EventName: ticket.Details.EventName,
		Rating:    rating,
		Comment:   comment,
	}
	if err := s.store.CreateReview(ctx, review); err != nil {
		return nil, err
	}
	return review, nil
}

func (s *Service) Reviews(ctx context.Context) ([]models.Review, error) {
	return s.store.ListReviews(ctx)
}

func (s *Service) ReviewsForEvent(ctx context.Context, eventID uuid.UUID) ([]models.Review, error) {
	return s.store.ListReviewsForEvent(ctx, eventID)
}

func validateSelection(quantity int, seats []int) error {
	if quantity < 1 || quantity > MaxSeatsPerOrder {
		return fmt.Errorf("%w: quantity must be between 1 and %d", ErrInvalidSelection, MaxSeatsPerOrder)
	}
	if len(seats) != quantity {
		return fmt.Errorf("%w: expected %d seat(s), got %d", ErrInvalidSelection, quantity, len(seats))
	}

	seen := make(map[int]struct{}, len(seats))
	for _, seat := range seats {
		if seat < 1 || seat > models.SeatCapacity {
			return fmt.Errorf("%w: seat %d is out of range", ErrInvalidSelection, seat)
		}
		if _, dup := seen[seat]; dup {
			return fmt.Errorf("%w: seat %d selected twice", ErrInvalidSelection, seat)
		}
		seen[seat] = struct{}{}
	}
	return nil
}

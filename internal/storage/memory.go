package storage

import (
	"context"
	"sync"

	"github.com/google/uuid"

	"github.com/eventro/eventro/internal/models"
)

// MemoryStore mirrors the gorm store's behavior, including the
// per-event seat disjointness check, behind a single mutex.
type MemoryStore struct {
	mu      sync.RWMutex
	events  map[uuid.UUID]models.Event
	tickets map[uuid.UUID]models.Ticket
	booked  map[uuid.UUID]map[int]uuid.UUID
	reviews []models.Review
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		events:  make(map[uuid.UUID]models.Event),
		tickets: make(map[uuid.UUID]models.Ticket),
		booked:  make(map[uuid.UUID]map[int]uuid.UUID),
	}
}

// AddEvent seeds an event; it is the test-side counterpart of the event
// CRUD handlers, which go straight through gorm.
func (s *MemoryStore) AddEvent(event models.Event) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if event.ID == uuid.Nil {
		event.ID = uuid.New()
	}
	s.events[event.ID] = event
}

func (s *MemoryStore) GetEvent(ctx context.Context, id uuid.UUID) (*models.Event, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	event, ok := s.events[id]
	if !ok {
		return nil, ErrNotFound
	}
	return &event, nil
}

func (s *MemoryStore) ListTicketsForEvent(ctx context.Context, eventID uuid.UUID) ([]models.Ticket, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var tickets []models.Ticket
	for _, t := range s.tickets {
		if t.EventID == eventID {
			tickets = append(tickets, t)
		}
	}
	return tickets, nil
}

func (s *MemoryStore) ListTicketsForUser(ctx context.Context, userID uuid.UUID) ([]models.Ticket, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var tickets []models.Ticket
	for _, t := range s.tickets {
		if t.UserID == userID {
			tickets = append(tickets, t)
		}
	}
	return tickets, nil
}

func (s *MemoryStore) CreateTicket(ctx context.Context, ticket *models.Ticket) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if ticket.ID == uuid.Nil {
		ticket.ID = uuid.New()
	}

	seats := s.booked[ticket.EventID]
	if seats == nil {
		seats = make(map[int]uuid.UUID)
		s.booked[ticket.EventID] = seats
	}

	for _, assignment := range ticket.Seats {
		if _, taken := seats[assignment.SeatNumber]; taken {
			return ErrSeatConflict
		}
	}

	for i := range ticket.Seats {
		ticket.Seats[i].TicketID = ticket.ID
		ticket.Seats[i].EventID = ticket.EventID
		seats[ticket.Seats[i].SeatNumber] = ticket.ID
	}
	s.tickets[ticket.ID] = *ticket
	return nil
}

func (s *MemoryStore) GetTicket(ctx context.Context, id uuid.UUID) (*models.Ticket, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	ticket, ok := s.tickets[id]
	if !ok {
		return nil, ErrNotFound
	}
	return &ticket, nil
}

func (s *MemoryStore) DeleteTicket(ctx context.Context, id uuid.UUID) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	ticket, ok := s.tickets[id]
	if !ok {
		return ErrNotFound
	}
	for _, assignment := range ticket.Seats {
		delete(s.booked[ticket.EventID], assignment.SeatNumber)
	}
	delete(s.tickets, id)
	return nil
}

func (s *MemoryStore) FindTicket(ctx context.Context, eventID, userID uuid.UUID) (*models.Ticket, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	for _, t := range s.tickets {
		if t.EventID == eventID && t.UserID == userID {
			ticket := t
			return &ticket, nil
		}
	}
	return nil, ErrNotFound
}

func (s *MemoryStore) CreateReview(ctx context.Context, review *models.Review) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if review.ID == uuid.Nil {
		review.ID = uuid.New()
	}
	s.reviews = append(s.reviews, *review)
	return nil
}

func (s *MemoryStore) ListReviews(ctx context.Context) ([]models.Review, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	reviews := make([]models.Review, len(s.reviews))
	copy(reviews, s.reviews)
	return reviews, nil
}

func (s *MemoryStore) ListReviewsForEvent(ctx context.Context, eventID uuid.UUID) ([]models.Review, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var reviews []models.Review
	for _, r := range s.reviews {
		if r.EventID == eventID {
			reviews = append(reviews, r)
		}
	}
	return reviews, nil
}

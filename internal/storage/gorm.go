package storage

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgconn"
	"gorm.io/gorm"

	"github.com/eventro/eventro/internal/models"
)

type GormStore struct {
	db *gorm.DB
}

func NewGormStore(db *gorm.DB) *GormStore {
	return &GormStore{db: db}
}

func (s *GormStore) GetEvent(ctx context.Context, id uuid.UUID) (*models.Event, error) {
	var event models.Event
	if err := s.db.WithContext(ctx).Where("id = ?", id).First(&event).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &event, nil
}

func (s *GormStore) ListTicketsForEvent(ctx context.Context, eventID uuid.UUID) ([]models.Ticket, error) {
	var tickets []models.Ticket
	err := s.db.WithContext(ctx).Preload("Seats").Where("event_id = ?", eventID).Find(&tickets).Error
	return tickets, err
}

func (s *GormStore) ListTicketsForUser(ctx context.Context, userID uuid.UUID) ([]models.Ticket, error) {
	var tickets []models.Ticket
	err := s.db.WithContext(ctx).Preload("Seats").Where("user_id = ?", userID).Order("created_at DESC").Find(&tickets).Error
	return tickets, err
}

func (s *GormStore) CreateTicket(ctx context.Context, ticket *models.Ticket) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		seats := make([]int, 0, len(ticket.Seats))
		for i := range ticket.Seats {
			ticket.Seats[i].EventID = ticket.EventID
			seats = append(seats, ticket.Seats[i].SeatNumber)
		}

		var taken int64
		if err := tx.Model(&models.SeatAssignment{}).
			Where("event_id = ? AND seat_number IN ?", ticket.EventID, seats).
			Count(&taken).Error; err != nil {
			return err
		}
		if taken > 0 {
			return ErrSeatConflict
		}

		if err := tx.Create(ticket).Error; err != nil {
			// Two transactions can pass the count check at the same
			// time; the unique index on (event_id, seat_number) then
			// rejects the second writer.
			if isUniqueViolation(err) {
				return ErrSeatConflict
			}
			return err
		}
		return nil
	})
}

func (s *GormStore) GetTicket(ctx context.Context, id uuid.UUID) (*models.Ticket, error) {
	var ticket models.Ticket
	if err := s.db.WithContext(ctx).Preload("Seats").Where("id = ?", id).First(&ticket).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &ticket, nil
}

func (s *GormStore) DeleteTicket(ctx context.Context, id uuid.UUID) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("ticket_id = ?", id).Delete(&models.SeatAssignment{}).Error; err != nil {
			return err
		}
		result := tx.Where("id = ?", id).Delete(&models.Ticket{})
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return ErrNotFound
		}
		return nil
	})
}

func (s *GormStore) FindTicket(ctx context.Context, eventID, userID uuid.UUID) (*models.Ticket, error) {
	var ticket models.Ticket
	err := s.db.WithContext(ctx).Preload("Seats").
		Where("event_id = ? AND user_id = ?", eventID, userID).
		First(&ticket).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &ticket, nil
}

func (s *GormStore) CreateReview(ctx context.Context, review *models.Review) error {
	return s.db.WithContext(ctx).Create(review).Error
}

func (s *GormStore) ListReviews(ctx context.Context) ([]models.Review, error) {
	var reviews []models.Review
	err := s.db.WithContext(ctx).Order("created_at DESC").Find(&reviews).Error
	return reviews, err
}

func (s *GormStore) ListReviewsForEvent(ctx context.Context, eventID uuid.UUID) ([]models.Review, error) {
	var reviews []models.Review
	err := s.db.WithContext(ctx).Where("event_id = ?", eventID).Order("created_at DESC").Find(&reviews).Error
	return reviews, err
}

func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == "23505"
}

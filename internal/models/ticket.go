package models

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// TicketDetails is denormalized at purchase time so the ticket keeps
// rendering even if the event is later edited or removed.
type TicketDetails struct {
	Name        string    `gorm:"not null" json:"name"`
	Email       string    `gorm:"not null" json:"email"`
	EventName   string    `gorm:"not null" json:"event_name"`
	EventDate   time.Time `gorm:"not null" json:"event_date"`
	EventTime   string    `gorm:"not null" json:"event_time"`
	TicketPrice int       `gorm:"not null" json:"ticket_price"`
	QR          string    `gorm:"type:text;not null" json:"qr"`
	Quantity    int       `gorm:"not null" json:"tickets"`
}

type Ticket struct {
	gorm.Model
	ID      uuid.UUID        `gorm:"type:uuid;primary_key" json:"id"`
	UserID  uuid.UUID        `gorm:"type:uuid;not null;index" json:"user_id"`
	EventID uuid.UUID        `gorm:"type:uuid;not null;index" json:"event_id"`
	Details TicketDetails    `gorm:"embedded;embeddedPrefix:detail_" json:"ticket_details"`
	Seats   []SeatAssignment `gorm:"constraint:OnDelete:CASCADE" json:"selected_seats"`
}

func (ticket *Ticket) BeforeCreate(tx *gorm.DB) (err error) {
	if ticket.ID == uuid.Nil {
		ticket.ID = uuid.New()
	}
	return
}

// MarshalJSON flattens the seat assignments so selected_seats carries
// plain seat numbers, matching the request shape.
func (ticket Ticket) MarshalJSON() ([]byte, error) {
	type ticketAlias Ticket
	return json.Marshal(struct {
		ticketAlias
		Seats []int `json:"selected_seats"`
	}{ticketAlias(ticket), ticket.SeatNumbers()})
}

// SeatNumbers flattens the seat assignments into plain seat numbers.
func (ticket *Ticket) SeatNumbers() []int {
	seats := make([]int, 0, len(ticket.Seats))
	for _, s := range ticket.Seats {
		seats = append(seats, s.SeatNumber)
	}
	return seats
}

// SeatAssignment binds one seat of one event to the ticket that claimed
// it. The unique index over (event_id, seat_number) is what makes two
// concurrent buyers of the same seat impossible: the second insert fails.
type SeatAssignment struct {
	ID         uint      `gorm:"primary_key" json:"-"`
	TicketID   uuid.UUID `gorm:"type:uuid;not null;index" json:"-"`
	EventID    uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:idx_event_seat" json:"-"`
	SeatNumber int       `gorm:"not null;uniqueIndex:idx_event_seat" json:"seat_number"`
}

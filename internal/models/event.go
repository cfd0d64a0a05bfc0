package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// SeatCapacity is the fixed seat pool every event exposes. Remaining
// capacity is never stored; it is derived from seat assignments.
const SeatCapacity = 100

type Event struct {
	gorm.Model
	ID             uuid.UUID `gorm:"type:uuid;primary_key" json:"id"`
	Title          string    `gorm:"not null" json:"title"`
	Description    string    `gorm:"not null" json:"description"`
	OrganizedBy    string    `gorm:"not null" json:"organized_by"`
	OrganizerEmail string    `gorm:"not null" json:"organizer_email"`
	EventDate      time.Time `gorm:"not null" json:"event_date"`
	EventTime      string    `gorm:"not null" json:"event_time"`
	Address        string    `gorm:"not null" json:"address"`
	Location       string    `gorm:"not null" json:"location"`
	TicketPrice    int       `gorm:"not null" json:"ticket_price"`
	Category       string    `gorm:"not null" json:"category"`
	ImagePath      string    `json:"image_path"`
}

func (event *Event) BeforeCreate(tx *gorm.DB) (err error) {
	if event.ID == uuid.Nil {
		event.ID = uuid.New()
	}
	return
}

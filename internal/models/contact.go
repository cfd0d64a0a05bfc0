package models

import (
	"github.com/google/uuid"
	"gorm.io/gorm"
)

type ContactMessage struct {
	gorm.Model
	ID      uuid.UUID `gorm:"type:uuid;primary_key" json:"id"`
	Name    string    `gorm:"not null" json:"name"`
	Email   string    `gorm:"not null" json:"email"`
	Message string    `gorm:"not null" json:"message"`
}

func (contact *ContactMessage) BeforeCreate(tx *gorm.DB) (err error) {
	if contact.ID == uuid.Nil {
		contact.ID = uuid.New()
	}
	return
}

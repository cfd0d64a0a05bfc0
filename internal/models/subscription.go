package models

import (
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Subscription gates event creation: organizers need an active plan.
// Only tokenized card data is kept; the raw number and CVV never reach
// storage, the payment processor holds them behind PaymentRef.
type Subscription struct {
	gorm.Model
	ID         uuid.UUID `gorm:"type:uuid;primary_key" json:"id"`
	Email      string    `gorm:"unique;not null" json:"email"`
	Plan       string    `gorm:"not null" json:"plan"`
	Price      string    `gorm:"not null" json:"price"`
	CardBrand  string    `json:"card_brand"`
	CardLast4  string    `json:"card_last4"`
	PaymentRef string    `gorm:"not null" json:"-"`
}

func (subscription *Subscription) BeforeCreate(tx *gorm.DB) (err error) {
	if subscription.ID == uuid.Nil {
		subscription.ID = uuid.New()
	}
	return
}

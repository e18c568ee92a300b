package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Payment is the demo mutating resource guarded by the idempotency layer:
// duplicate submissions of the same Idempotency-Key must create exactly one.
type Payment struct {
	Id        string    `json:"id" gorm:"primaryKey"`
	UserID    string    `json:"-" gorm:"size:128;index"`
	Amount    float64   `json:"amount" gorm:"type:numeric(12,2)"`
	Currency  string    `json:"currency" gorm:"size:3"`
	Method    string    `json:"method"`
	Reference string    `json:"reference"`
	Note      string    `json:"note"`
	PaidAt    time.Time `json:"paid_at"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (payment *Payment) BeforeCreate(tx *gorm.DB) (err error) {
	// UUID version 4
	payment.Id = uuid.NewString()
	return
}

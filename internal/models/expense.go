package models

import (
	"time"

	"github.com/google/uuid"
)

type Expense struct {
	ID         uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	UserID     uuid.UUID `gorm:"type:uuid;index" json:"userId"`
	Amount     float64   `gorm:"index" json:"amount"`
	Category   string    `gorm:"index" json:"category"`
	Date       time.Time `json:"date"`
	ReceiptURL string    `json:"receiptUrl"`
	OCRText    string    `json:"ocrText"`
	AICategory string    `json:"aiCategory"`
	CreatedAt  time.Time `json:"createdAt"`
}

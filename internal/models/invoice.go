package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
)

const (
	InvoiceStatusUnpaid  = "unpaid"
	InvoiceStatusPaid    = "paid"
	InvoiceStatusOverdue = "overdue"
)

type Client struct {
	Name    string `json:"name"`
	Email   string `json:"email"`
	Address string `json:"address"`
}

type InvoiceItem struct {
	Description string  `json:"description"`
	Quantity    float64 `json:"quantity"`
	Price       float64 `json:"price"`
	Tax         float64 `json:"tax"`
}

type Invoice struct {
	ID          uuid.UUID                        `gorm:"type:uuid;primaryKey" json:"id"`
	UserID      uuid.UUID                        `gorm:"type:uuid;index" json:"userId"`
	Client      Client                           `gorm:"embedded;embeddedPrefix:client_" json:"client"`
	Items       datatypes.JSONSlice[InvoiceItem] `json:"items"`
	Total       float64                          `gorm:"index" json:"total"`
	Status      string                           `gorm:"index" json:"status"`
	DueDate     time.Time                        `json:"dueDate"`
	PaidAt      *time.Time                       `json:"paidAt"`
	Recurring   bool                             `json:"recurring"`
	PdfURL      string                           `json:"pdfUrl"`
	PaymentLink string                           `json:"paymentLink"`
	CreatedAt   time.Time                        `json:"createdAt"`
}

package entity

import (
	"time"

	"github.com/google/uuid"
	"github.com/sangkips/invoiceau-api/internal/domain/enum"
	"github.com/shopspring/decimal"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// Invoice is a simple, single-line invoice
type Invoice struct {
	ID            uuid.UUID          `gorm:"type:uuid;primary_key" json:"id"`
	UserID        uuid.UUID          `gorm:"type:uuid;not null;index" json:"user_id"`
	InvoiceNumber string             `gorm:"size:50" json:"invoice_number,omitempty"`
	SenderName    string             `gorm:"size:120;not null" json:"your_name"`
	SenderABN     string             `gorm:"size:20" json:"abn,omitempty"`
	ClientName    string             `gorm:"size:120;not null" json:"client_name"`
	ClientEmail   string             `gorm:"size:120" json:"client_email,omitempty"`
	Description   string             `gorm:"type:text;not null" json:"description"`
	Quantity      int64              `gorm:"not null" json:"quantity"`
	Rate          decimal.Decimal    `gorm:"type:decimal(15,4);not null" json:"rate"`
	IncludeGST    bool               `gorm:"default:false" json:"include_gst"`
	Total         decimal.Decimal    `gorm:"type:decimal(15,2);not null" json:"total"`
	IssueDate     string             `gorm:"size:32" json:"date,omitempty"`
	Status        enum.InvoiceStatus `gorm:"default:0;not null" json:"status"`
	Data          datatypes.JSON     `json:"data,omitempty"` // normalized form snapshot
	CreatedAt     time.Time          `gorm:"index" json:"created_at"`
	UpdatedAt     time.Time          `json:"updated_at"`

	// Relationships
	User User `gorm:"foreignKey:UserID" json:"-"`
}

// BeforeCreate generates a UUID before creating a new invoice
func (i *Invoice) BeforeCreate(tx *gorm.DB) error {
	if i.ID == uuid.Nil {
		i.ID = uuid.New()
	}
	return nil
}

// TableName returns the table name for the Invoice model
func (Invoice) TableName() string {
	return "invoices"
}

// IsPaid reports whether the invoice has been marked paid
func (i *Invoice) IsPaid() bool {
	return i.Status == enum.InvoiceStatusPaid
}

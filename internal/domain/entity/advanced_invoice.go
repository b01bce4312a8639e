package entity

import (
	"time"

	"github.com/google/uuid"
	"github.com/sangkips/invoiceau-api/internal/domain/enum"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// AdvancedInvoice is a multi-item invoice whose sender is either a saved
// company or ad-hoc personal details
type AdvancedInvoice struct {
	ID            uuid.UUID          `gorm:"type:uuid;primary_key" json:"id"`
	UserID        uuid.UUID          `gorm:"type:uuid;not null;index" json:"user_id"`
	InvoiceNumber string             `gorm:"size:50;not null" json:"invoice_number"`
	IssueDate     string             `gorm:"size:32" json:"date"`
	IncludeGST    bool               `gorm:"default:false" json:"include_gst"`
	Subtotal      decimal.Decimal    `gorm:"type:decimal(15,2);not null" json:"subtotal"`
	GSTAmount     decimal.Decimal    `gorm:"type:decimal(15,2);not null" json:"gst_amount"`
	Total         decimal.Decimal    `gorm:"type:decimal(15,2);not null" json:"total"`
	Status        enum.InvoiceStatus `gorm:"default:0;not null" json:"status"`
	SenderMode    enum.SenderMode    `gorm:"default:0;not null" json:"sender_mode"`
	CompanyID     *uuid.UUID         `gorm:"type:uuid;index" json:"company_id,omitempty"`
	SenderName    string             `gorm:"size:120" json:"your_name,omitempty"`
	SenderABN     string             `gorm:"size:20" json:"abn,omitempty"`
	ClientName    string             `gorm:"size:120;not null" json:"client_name"`
	ClientEmail   string             `gorm:"size:120" json:"client_email"`
	CreatedAt     time.Time          `gorm:"index" json:"created_at"`
	UpdatedAt     time.Time          `json:"updated_at"`

	// Relationships
	User    User                  `gorm:"foreignKey:UserID" json:"-"`
	Company *Company              `gorm:"foreignKey:CompanyID" json:"company,omitempty"`
	Items   []AdvancedInvoiceItem `gorm:"foreignKey:AdvancedInvoiceID" json:"items"`
}

// BeforeCreate generates a UUID before creating a new advanced invoice
func (a *AdvancedInvoice) BeforeCreate(tx *gorm.DB) error {
	if a.ID == uuid.Nil {
		a.ID = uuid.New()
	}
	return nil
}

// TableName returns the table name for the AdvancedInvoice model
func (AdvancedInvoice) TableName() string {
	return "advanced_invoices"
}

// IsPaid reports whether the invoice has been marked paid
func (a *AdvancedInvoice) IsPaid() bool {
	return a.Status == enum.InvoiceStatusPaid
}

// SenderDetails is the billing party printed on an invoice
type SenderDetails struct {
	Name           string `json:"name"`
	ABN            string `json:"abn,omitempty"`
	Address        string `json:"address,omitempty"`
	Phone          string `json:"phone,omitempty"`
	Email          string `json:"email,omitempty"`
	PaymentDetails string `json:"payment_details,omitempty"`
	LogoPath       string `json:"logo_path,omitempty"`
}

// Sender returns the company profile in company mode and the personal
// fields otherwise. Company must be preloaded.
func (a *AdvancedInvoice) Sender() SenderDetails {
	if a.SenderMode == enum.SenderModeCompany && a.Company != nil {
		return SenderDetails{
			Name:           a.Company.CompanyName,
			ABN:            a.Company.ABN,
			Address:        a.Company.Address,
			Phone:          a.Company.Phone,
			Email:          a.Company.Email,
			PaymentDetails: a.Company.PaymentDetails,
			LogoPath:       a.Company.LogoPath,
		}
	}
	return SenderDetails{Name: a.SenderName, ABN: a.SenderABN}
}

// AdvancedInvoiceItem is one line of an advanced invoice
type AdvancedInvoiceItem struct {
	ID                uuid.UUID       `gorm:"type:uuid;primary_key" json:"id"`
	AdvancedInvoiceID uuid.UUID       `gorm:"type:uuid;not null;index" json:"advanced_invoice_id"`
	Position          int             `gorm:"not null" json:"position"`
	Description       string          `gorm:"size:500;not null" json:"description"`
	Quantity          decimal.Decimal `gorm:"type:decimal(15,4);not null" json:"quantity"`
	Rate              decimal.Decimal `gorm:"type:decimal(15,4);not null" json:"rate"`
	Total             decimal.Decimal `gorm:"type:decimal(15,2);not null" json:"total"`
	CreatedAt         time.Time       `json:"created_at"`
}

// BeforeCreate generates a UUID before creating a new item
func (i *AdvancedInvoiceItem) BeforeCreate(tx *gorm.DB) error {
	if i.ID == uuid.Nil {
		i.ID = uuid.New()
	}
	return nil
}

// TableName returns the table name for the AdvancedInvoiceItem model
func (AdvancedInvoiceItem) TableName() string {
	return "advanced_invoice_items"
}

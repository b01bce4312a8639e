package entity

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Company is a reusable sender profile shared by one or more users
type Company struct {
	ID             uuid.UUID `gorm:"type:uuid;primary_key" json:"id"`
	CompanyName    string    `gorm:"size:120;not null" json:"company_name"`
	ABN            string    `gorm:"size:20" json:"abn,omitempty"`
	Address        string    `gorm:"size:255" json:"address,omitempty"`
	Phone          string    `gorm:"size:20" json:"phone,omitempty"`
	Email          string    `gorm:"size:120" json:"email,omitempty"`
	PaymentDetails string    `gorm:"type:text" json:"payment_details,omitempty"`
	LogoPath       string    `gorm:"size:255" json:"logo_path,omitempty"`
	CreatedAt      time.Time `json:"created_at"`
	UpdatedAt      time.Time `json:"updated_at"`

	// Relationships
	Users []User `gorm:"many2many:user_companies" json:"-"`
}

// BeforeCreate generates a UUID before creating a new company
func (c *Company) BeforeCreate(tx *gorm.DB) error {
	if c.ID == uuid.Nil {
		c.ID = uuid.New()
	}
	return nil
}

// TableName returns the table name for the Company model
func (Company) TableName() string {
	return "companies"
}

package entity

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// User represents an invoice owner signed in through Google
type User struct {
	ID         uuid.UUID  `gorm:"type:uuid;primary_key" json:"id"`
	Email      string     `gorm:"size:120;unique;not null" json:"email"`
	Name       string     `gorm:"size:120;not null" json:"name"`
	Phone      *string    `gorm:"size:20" json:"phone,omitempty"`
	Address    *string    `gorm:"size:255" json:"address,omitempty"`
	Gender     *string    `gorm:"size:10" json:"gender,omitempty"`
	DOB        *time.Time `gorm:"type:date" json:"dob,omitempty"`
	IsPremium  bool       `gorm:"default:false" json:"is_premium"`
	Provider   string     `gorm:"size:50;default:'google'" json:"provider"`
	ProviderID *string    `gorm:"size:255" json:"-"`
	Photo      *string    `gorm:"size:255" json:"photo,omitempty"`
	CreatedAt  time.Time  `json:"created_at"`
	UpdatedAt  time.Time  `json:"updated_at"`

	// Relationships
	Companies        []Company         `gorm:"many2many:user_companies" json:"companies,omitempty"`
	Invoices         []Invoice         `gorm:"foreignKey:UserID" json:"-"`
	AdvancedInvoices []AdvancedInvoice `gorm:"foreignKey:UserID" json:"-"`
}

// BeforeCreate generates a UUID before creating a new user
func (u *User) BeforeCreate(tx *gorm.DB) error {
	if u.ID == uuid.Nil {
		u.ID = uuid.New()
	}
	return nil
}

// TableName returns the table name for the User model
func (User) TableName() string {
	return "users"
}

// HasCompany reports whether the company is linked to the user
func (u *User) HasCompany(companyID uuid.UUID) bool {
	for _, c := range u.Companies {
		if c.ID == companyID {
			return true
		}
	}
	return false
}

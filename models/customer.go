package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Customer is identified by its lowercased email. Rows are only ever created or
// refreshed, never deleted.
type Customer struct {
	ID               string    `gorm:"type:varchar(36);primaryKey" json:"id"`
	Name             string    `gorm:"type:varchar(255);not null" json:"name"`
	Email            string    `gorm:"type:varchar(255);not null;uniqueIndex:idx_customers_email" json:"email"`
	Phone            *string   `gorm:"type:varchar(50)" json:"phone,omitempty"`
	NewsletterSignup bool      `gorm:"not null;default:false" json:"newsletter_signup"`
	CreatedAt        time.Time `gorm:"not null" json:"created_at"`
	UpdatedAt        time.Time `gorm:"not null" json:"updated_at"`
}

// BeforeCreate -> assign a generated id when the caller did not
func (c *Customer) BeforeCreate(tx *gorm.DB) error {
	if c.ID == "" {
		c.ID = uuid.NewString()
	}
	return nil
}

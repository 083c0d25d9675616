package models

import "time"

// NewsletterSubscription keeps the history of first-time signups, one row per email.
type NewsletterSubscription struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	Email     string    `gorm:"type:varchar(255);not null;uniqueIndex:idx_newsletter_email" json:"email"`
	CreatedAt time.Time `gorm:"not null" json:"created_at"`
}

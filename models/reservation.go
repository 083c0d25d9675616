package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Reservation is one party's claim on one table for one time slot. A booking
// for a party larger than a table creates several rows sharing TimeSlot and
// CustomerID.
type Reservation struct {
	ID          string    `gorm:"type:varchar(36);primaryKey" json:"id"`
	CustomerID  string    `gorm:"type:varchar(36);not null;index" json:"customer_id"`
	Customer    *Customer `gorm:"foreignKey:CustomerID;references:ID;constraint:OnUpdate:CASCADE,OnDelete:RESTRICT" json:"customer,omitempty"`
	TimeSlot    time.Time `gorm:"not null;uniqueIndex:idx_reservations_table_slot,priority:2;index" json:"time_slot"`
	TableNumber int       `gorm:"not null;uniqueIndex:idx_reservations_table_slot,priority:1" json:"table_number"`
	Guests      int       `gorm:"not null" json:"guests"`
	CreatedAt   time.Time `gorm:"not null" json:"created_at"`
}

func (r *Reservation) BeforeCreate(tx *gorm.DB) error {
	if r.ID == "" {
		r.ID = uuid.NewString()
	}
	return nil
}

// TableClaim marks a table as occupied for one slot-grid cell. A reservation
// writes one claim per cell its window covers, so overlapping starts on the
// same table collide on the unique index even when their TimeSlot differs.
type TableClaim struct {
	ID            uint      `gorm:"primaryKey" json:"id"`
	ReservationID string    `gorm:"type:varchar(36);not null;index" json:"reservation_id"`
	TableNumber   int       `gorm:"not null;uniqueIndex:idx_table_claims_table_cell,priority:1" json:"table_number"`
	SlotStart     time.Time `gorm:"not null;uniqueIndex:idx_table_claims_table_cell,priority:2" json:"slot_start"`
}

package services

import (
	"fmt"
	"time"
)

const (
	DefaultTableCount      = 30
	DefaultSeatsPerTable   = 4
	DefaultDuration        = 60 * time.Minute
	DefaultSlotGranularity = 30 * time.Minute
	DefaultMaxAttempts     = 5
)

// BookingConfig is the static shape of the dining room. It is handed to the
// calculators explicitly instead of living in package state.
type BookingConfig struct {
	TableCount      int
	SeatsPerTable   int
	Duration        time.Duration
	SlotGranularity time.Duration
	MaxAttempts     int
}

func DefaultBookingConfig() BookingConfig {
	return BookingConfig{
		TableCount:      DefaultTableCount,
		SeatsPerTable:   DefaultSeatsPerTable,
		Duration:        DefaultDuration,
		SlotGranularity: DefaultSlotGranularity,
		MaxAttempts:     DefaultMaxAttempts,
	}
}

func (c BookingConfig) Validate() error {
	if c.TableCount < 1 {
		return fmt.Errorf("table count must be positive, got %d", c.TableCount)
	}
	if c.SeatsPerTable < 1 {
		return fmt.Errorf("seats per table must be positive, got %d", c.SeatsPerTable)
	}
	if c.SlotGranularity <= 0 || c.SlotGranularity%time.Minute != 0 {
		return fmt.Errorf("slot granularity must be a positive whole number of minutes, got %s", c.SlotGranularity)
	}
	if c.Duration <= 0 || c.Duration%c.SlotGranularity != 0 {
		return fmt.Errorf("duration %s must be a positive multiple of the slot granularity %s", c.Duration, c.SlotGranularity)
	}
	if c.MaxAttempts < 1 {
		return fmt.Errorf("max attempts must be positive, got %d", c.MaxAttempts)
	}
	return nil
}

// Capacity is the number of guests the whole room can seat in one slot.
func (c BookingConfig) Capacity() int {
	return c.TableCount * c.SeatsPerTable
}

func (c BookingConfig) DurationMinutes() int {
	return int(c.Duration / time.Minute)
}

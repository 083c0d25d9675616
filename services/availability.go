package services

import (
	"context"
	"fmt"
	"sort"
	"time"
)

// ReservationReader is the read side the availability calculation needs.
type ReservationReader interface {
	// BookedTables returns the distinct table numbers holding a reservation
	// that starts at any of the given slots.
	BookedTables(ctx context.Context, slots []time.Time) ([]int, error)
}

// Availability is the CheckAvailability payload.
type Availability struct {
	TimeSlot        time.Time `json:"-"`
	EndTime         time.Time `json:"-"`
	DurationMinutes int       `json:"durationMinutes"`
	SeatsPerTable   int       `json:"seatsPerTable"`
	TablesNeeded    int       `json:"tablesNeeded"`
	TableCount      int       `json:"tableCount"`
	AvailableTables int       `json:"availableTables"`
	FullyBooked     bool      `json:"fullyBooked"`
}

// OverlapWindow returns the grid starts whose reservation window intersects
// [start, start+Duration). With a 60 minute duration on a 30 minute grid that
// is start-30, start and start+30.
func OverlapWindow(start time.Time, cfg BookingConfig) []time.Time {
	reach := cfg.Duration - cfg.SlotGranularity
	var slots []time.Time
	for t := start.Add(-reach); !t.After(start.Add(reach)); t = t.Add(cfg.SlotGranularity) {
		slots = append(slots, t)
	}
	return slots
}

// FreeTables computes [1, TableCount] minus every table booked in the overlap
// window, in ascending order. It only reads.
func FreeTables(ctx context.Context, repo ReservationReader, start time.Time, cfg BookingConfig) ([]int, error) {
	booked, err := repo.BookedTables(ctx, OverlapWindow(start, cfg))
	if err != nil {
		return nil, fmt.Errorf("load booked tables: %w", err)
	}

	taken := make(map[int]struct{}, len(booked))
	for _, n := range booked {
		taken[n] = struct{}{}
	}

	free := make([]int, 0, cfg.TableCount)
	for n := 1; n <= cfg.TableCount; n++ {
		if _, ok := taken[n]; !ok {
			free = append(free, n)
		}
	}
	sort.Ints(free)
	return free, nil
}

package services

import "sort"

// TableAssignment is one table of a booking and the guests seated there.
type TableAssignment struct {
	TableNumber int `json:"tableNumber"`
	Guests      int `json:"guests"`
}

// TablesNeeded -> ceil(guests / seatsPerTable), never less than one
func TablesNeeded(guests, seatsPerTable int) int {
	if guests <= 0 || seatsPerTable <= 0 {
		return 1
	}
	n := (guests + seatsPerTable - 1) / seatsPerTable
	if n < 1 {
		return 1
	}
	return n
}

// SplitGuests fills each table to capacity before moving on, so only the
// last table may be partially occupied.
func SplitGuests(guests, tables, seatsPerTable int) []int {
	split := make([]int, 0, tables)
	remaining := guests
	for i := 0; i < tables && remaining > 0; i++ {
		seated := seatsPerTable
		if remaining < seated {
			seated = remaining
		}
		split = append(split, seated)
		remaining -= seated
	}
	return split
}

// Allocate picks TablesNeeded tables at random from free and spreads the
// party over them. It returns ErrFullyBooked when free is too small. The
// result is ordered by table number.
func Allocate(guests int, free []int, cfg BookingConfig, rng Random) ([]TableAssignment, error) {
	if guests <= 0 {
		return nil, newValidationError(CodeInvalidGuests, "guests must be a positive integer")
	}
	needed := TablesNeeded(guests, cfg.SeatsPerTable)
	if len(free) < needed {
		return nil, ErrFullyBooked
	}

	// partial Fisher-Yates over a copy; the caller's slice stays untouched
	pool := append([]int(nil), free...)
	for i := 0; i < needed; i++ {
		j := i + rng.Intn(len(pool)-i)
		pool[i], pool[j] = pool[j], pool[i]
	}
	chosen := pool[:needed]
	sort.Ints(chosen)

	split := SplitGuests(guests, needed, cfg.SeatsPerTable)
	assignments := make([]TableAssignment, needed)
	for i, table := range chosen {
		assignments[i] = TableAssignment{TableNumber: table, Guests: split[i]}
	}
	return assignments, nil
}

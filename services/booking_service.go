package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"github.com/yeremiapane/cafe-fausse/models"
	"github.com/yeremiapane/cafe-fausse/utils"
)

// ReservationRepository is the persistence boundary of the booking flow.
type ReservationRepository interface {
	ReservationReader
	CustomerStore
	// InsertReservations writes every row and claim of one booking in a
	// single transaction. A uniqueness violation rolls everything back and
	// is reported as InsertConflict, not as an error.
	InsertReservations(ctx context.Context, reservations []models.Reservation, claims []models.TableClaim) (InsertOutcome, error)
}

// ReservationRequest is a booking as received from a client.
type ReservationRequest struct {
	TimeSlot string
	Guests   int
	Name     string
	Email    string
	Phone    string
}

// BookingResult describes a confirmed booking.
type BookingResult struct {
	CustomerID      string
	ReservationIDs  []string
	Tables          []TableAssignment
	TimeSlot        time.Time
	EndTime         time.Time
	DurationMinutes int
	Guests          int
	Attempts        int
}

// TableNumbers lists the booked tables in ascending order.
func (r *BookingResult) TableNumbers() []int {
	return tableNumbers(r.Tables)
}

// BookingService validates, allocates and persists reservations. It keeps no
// state between calls; concurrent callers are arbitrated by the store.
type BookingService struct {
	repo ReservationRepository
	cfg  BookingConfig
	rng  Random
}

func NewBookingService(repo ReservationRepository, cfg BookingConfig, rng Random) *BookingService {
	if repo == nil {
		panic("nil repository passed to NewBookingService")
	}
	if rng == nil {
		rng = NewTimeSeededRandom()
	}
	return &BookingService{repo: repo, cfg: cfg, rng: rng}
}

func (s *BookingService) Config() BookingConfig { return s.cfg }

// CheckAvailability reports how many tables are free at rawSlot and whether
// a party of guests fits. It has no side effects.
func (s *BookingService) CheckAvailability(ctx context.Context, rawSlot string, guests int) (*Availability, error) {
	start, err := s.validateSlotAndGuests(rawSlot, guests)
	if err != nil {
		return nil, err
	}

	free, err := FreeTables(ctx, s.repo, start, s.cfg)
	if err != nil {
		return nil, err
	}

	needed := TablesNeeded(guests, s.cfg.SeatsPerTable)
	return &Availability{
		TimeSlot:        start,
		EndTime:         start.Add(s.cfg.Duration),
		DurationMinutes: s.cfg.DurationMinutes(),
		SeatsPerTable:   s.cfg.SeatsPerTable,
		TablesNeeded:    needed,
		TableCount:      s.cfg.TableCount,
		AvailableTables: len(free),
		FullyBooked:     len(free) < needed,
	}, nil
}

// CreateReservation books tables for req. Business failures come back as
// *ValidationError, ErrFullyBooked or ErrTransientConflict; anything else is
// a storage fault.
func (s *BookingService) CreateReservation(ctx context.Context, req ReservationRequest) (*BookingResult, error) {
	start, err := s.validateSlotAndGuests(req.TimeSlot, req.Guests)
	if err != nil {
		return nil, err
	}
	name, err := normalizeName(req.Name, true)
	if err != nil {
		return nil, err
	}
	email, err := NormalizeEmail(req.Email)
	if err != nil {
		return nil, err
	}
	phone, err := normalizePhone(req.Phone)
	if err != nil {
		return nil, err
	}

	customer, _, err := upsertCustomer(ctx, s.repo, models.Customer{Name: name, Email: email, Phone: phone}, true)
	if err != nil {
		return nil, err
	}

	log := utils.Info().WithFields(logrus.Fields{
		"customer_id": customer.ID,
		"time_slot":   FormatSlot(start),
		"guests":      req.Guests,
	})

	for attempt := 1; attempt <= s.cfg.MaxAttempts; attempt++ {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		// always a fresh read: another booking may have committed since the last attempt
		free, err := FreeTables(ctx, s.repo, start, s.cfg)
		if err != nil {
			return nil, err
		}

		assignments, err := Allocate(req.Guests, free, s.cfg, s.rng)
		if err != nil {
			if errors.Is(err, ErrFullyBooked) {
				log.WithField("available_tables", len(free)).Info("Reservation rejected, slot fully booked")
			}
			return nil, err
		}

		reservations, claims := s.buildBooking(customer.ID, start, assignments)
		outcome, err := s.repo.InsertReservations(ctx, reservations, claims)
		if err != nil {
			utils.Error().WithError(err).WithField("time_slot", FormatSlot(start)).Error("Failed to persist reservation")
			return nil, fmt.Errorf("persist reservation: %w", err)
		}

		if outcome == InsertCommitted {
			result := &BookingResult{
				CustomerID:      customer.ID,
				Tables:          assignments,
				TimeSlot:        start,
				EndTime:         start.Add(s.cfg.Duration),
				DurationMinutes: s.cfg.DurationMinutes(),
				Guests:          req.Guests,
				Attempts:        attempt,
			}
			for _, r := range reservations {
				result.ReservationIDs = append(result.ReservationIDs, r.ID)
			}
			log.WithFields(logrus.Fields{"tables": result.TableNumbers(), "attempt": attempt}).Info("Reservation confirmed")
			return result, nil
		}

		log.WithFields(logrus.Fields{"tables": tableNumbers(assignments), "attempt": attempt}).Debug("Lost table race, retrying allocation")
	}

	log.WithField("attempts", s.cfg.MaxAttempts).Warn("Reservation gave up after repeated conflicts")
	return nil, ErrTransientConflict
}

func (s *BookingService) validateSlotAndGuests(rawSlot string, guests int) (time.Time, error) {
	start, err := ParseTimeSlot(rawSlot)
	if err != nil {
		return time.Time{}, err
	}
	if err := ValidateSlot(start, s.cfg); err != nil {
		return time.Time{}, err
	}
	if guests <= 0 {
		return time.Time{}, newValidationError(CodeInvalidGuests, "guests must be a positive integer")
	}
	if guests > s.cfg.Capacity() {
		return time.Time{}, newValidationError(CodePartyTooLarge, "Parties larger than %d guests cannot be booked online.", s.cfg.Capacity())
	}
	return start, nil
}

// buildBooking turns assignments into reservation rows plus one claim per
// grid cell each row covers.
func (s *BookingService) buildBooking(customerID string, start time.Time, assignments []TableAssignment) ([]models.Reservation, []models.TableClaim) {
	cells := int(s.cfg.Duration / s.cfg.SlotGranularity)

	reservations := make([]models.Reservation, 0, len(assignments))
	claims := make([]models.TableClaim, 0, len(assignments)*cells)
	for _, a := range assignments {
		r := models.Reservation{
			ID:          uuid.NewString(),
			CustomerID:  customerID,
			TimeSlot:    start,
			TableNumber: a.TableNumber,
			Guests:      a.Guests,
		}
		reservations = append(reservations, r)
		for i := 0; i < cells; i++ {
			claims = append(claims, models.TableClaim{
				ReservationID: r.ID,
				TableNumber:   a.TableNumber,
				SlotStart:     start.Add(time.Duration(i) * s.cfg.SlotGranularity),
			})
		}
	}
	return reservations, claims
}

func tableNumbers(assignments []TableAssignment) []int {
	numbers := make([]int, len(assignments))
	for i, a := range assignments {
		numbers[i] = a.TableNumber
	}
	return numbers
}

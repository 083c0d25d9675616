package services

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestBooking(repo *memRepo, tables int) *BookingService {
	cfg := DefaultBookingConfig()
	cfg.TableCount = tables
	return NewBookingService(repo, cfg, NewRandom(1))
}

func validRequest() ReservationRequest {
	return ReservationRequest{
		TimeSlot: "2026-01-20T19:00",
		Guests:   2,
		Name:     "Ada Lovelace",
		Email:    "Ada@Example.com",
		Phone:    "555-0100",
	}
}

func TestCreateReservation_Success(t *testing.T) {
	repo := newMemRepo()
	svc := newTestBooking(repo, 30)

	res, err := svc.CreateReservation(context.Background(), validRequest())
	require.NoError(t, err)

	assert.Equal(t, "2026-01-20T19:00", FormatSlot(res.TimeSlot))
	assert.Equal(t, "2026-01-20T20:00", FormatSlot(res.EndTime))
	assert.Equal(t, 60, res.DurationMinutes)
	assert.Equal(t, 1, res.Attempts)
	require.Len(t, res.Tables, 1)
	assert.Equal(t, 2, res.Tables[0].Guests)
	assert.Len(t, res.ReservationIDs, 1)

	customer, err := repo.FindCustomerByEmail(context.Background(), "ada@example.com")
	require.NoError(t, err)
	require.NotNil(t, customer)
	assert.Equal(t, customer.ID, res.CustomerID)
	assert.Len(t, repo.claims, 2)
}

func TestCreateReservation_LargePartySpansTables(t *testing.T) {
	repo := newMemRepo()
	svc := newTestBooking(repo, 30)

	req := validRequest()
	req.Guests = 10
	res, err := svc.CreateReservation(context.Background(), req)
	require.NoError(t, err)

	require.Len(t, res.Tables, 3)
	var seated []int
	for _, a := range res.Tables {
		seated = append(seated, a.Guests)
	}
	assert.Equal(t, []int{4, 4, 2}, seated)
	assert.Len(t, repo.reservations, 3)
	for _, r := range repo.reservations {
		assert.Equal(t, res.CustomerID, r.CustomerID)
	}
}

func TestCreateReservation_SingleTableScenario(t *testing.T) {
	repo := newMemRepo()
	svc := newTestBooking(repo, 1)
	ctx := context.Background()

	first, err := svc.CreateReservation(ctx, validRequest())
	require.NoError(t, err)
	assert.Equal(t, []int{1}, first.TableNumbers())

	second := validRequest()
	second.Guests = 1
	second.Email = "grace@example.com"
	_, err = svc.CreateReservation(ctx, second)
	assert.ErrorIs(t, err, ErrFullyBooked)

	overlapping := second
	overlapping.TimeSlot = "2026-01-20T19:30"
	_, err = svc.CreateReservation(ctx, overlapping)
	assert.ErrorIs(t, err, ErrFullyBooked)

	earlier := second
	earlier.TimeSlot = "2026-01-20T18:30"
	_, err = svc.CreateReservation(ctx, earlier)
	assert.ErrorIs(t, err, ErrFullyBooked)

	after := second
	after.TimeSlot = "2026-01-20T20:00"
	_, err = svc.CreateReservation(ctx, after)
	assert.NoError(t, err)
}

func TestCreateReservation_RetriesAfterConflict(t *testing.T) {
	repo := newMemRepo()
	repo.forcedConflicts = 2
	svc := newTestBooking(repo, 30)

	res, err := svc.CreateReservation(context.Background(), validRequest())
	require.NoError(t, err)
	assert.Equal(t, 3, res.Attempts)
	assert.Equal(t, 3, repo.insertCalls)
	assert.Equal(t, 3, repo.readCalls, "availability must be re-read before every attempt")
}

func TestCreateReservation_GivesUpAfterMaxAttempts(t *testing.T) {
	repo := newMemRepo()
	repo.forcedConflicts = 100
	svc := newTestBooking(repo, 30)

	_, err := svc.CreateReservation(context.Background(), validRequest())
	assert.ErrorIs(t, err, ErrTransientConflict)
	assert.Equal(t, DefaultMaxAttempts, repo.insertCalls)
	assert.Empty(t, repo.reservations)
}

func TestCreateReservation_FullyBookedIsNotRetried(t *testing.T) {
	repo := newMemRepo()
	svc := newTestBooking(repo, 2)
	start, err := ParseTimeSlot("2026-01-20T19:00")
	require.NoError(t, err)
	repo.book(1, start, svc.Config())
	repo.book(2, start, svc.Config())
	repo.insertCalls = 0

	_, err = svc.CreateReservation(context.Background(), validRequest())
	assert.ErrorIs(t, err, ErrFullyBooked)
	assert.Equal(t, 0, repo.insertCalls)
}

func TestCreateReservation_ValidationTouchesNoStorage(t *testing.T) {
	tests := []struct {
		name     string
		mutate   func(*ReservationRequest)
		wantCode string
	}{
		{"sunday morning", func(r *ReservationRequest) { r.TimeSlot = "2026-01-18T10:30" }, CodeBeforeOpening},
		{"past closing", func(r *ReservationRequest) { r.TimeSlot = "2026-01-20T21:30" }, CodeAfterClosing},
		{"off grid", func(r *ReservationRequest) { r.TimeSlot = "2026-01-20T19:10" }, CodeOffGrid},
		{"bad slot", func(r *ReservationRequest) { r.TimeSlot = "soon" }, CodeInvalidTimeSlot},
		{"zero guests", func(r *ReservationRequest) { r.Guests = 0 }, CodeInvalidGuests},
		{"party too large", func(r *ReservationRequest) { r.Guests = 121 }, CodePartyTooLarge},
		{"missing name", func(r *ReservationRequest) { r.Name = "   " }, CodeMissingField},
		{"missing email", func(r *ReservationRequest) { r.Email = "" }, CodeMissingField},
		{"bad email", func(r *ReservationRequest) { r.Email = "ada@example" }, CodeInvalidEmail},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo := newMemRepo()
			svc := newTestBooking(repo, 30)
			req := validRequest()
			tt.mutate(&req)

			_, err := svc.CreateReservation(context.Background(), req)
			require.Error(t, err)
			assert.ErrorIs(t, err, ErrValidation)
			assert.Equal(t, tt.wantCode, ValidationCode(err))
			assert.Zero(t, repo.customerWrites)
			assert.Zero(t, repo.readCalls)
			assert.Zero(t, repo.insertCalls)
		})
	}
}

func TestCreateReservation_ReusesCustomer(t *testing.T) {
	repo := newMemRepo()
	svc := newTestBooking(repo, 30)
	ctx := context.Background()

	first, err := svc.CreateReservation(ctx, validRequest())
	require.NoError(t, err)

	again := validRequest()
	again.TimeSlot = "2026-01-20T20:00"
	again.Name = "Ada King"
	again.Email = "  ada@EXAMPLE.com "
	again.Phone = ""
	second, err := svc.CreateReservation(ctx, again)
	require.NoError(t, err)

	assert.Equal(t, first.CustomerID, second.CustomerID)
	assert.Len(t, repo.customers, 1)

	customer, _ := repo.FindCustomerByEmail(ctx, "ada@example.com")
	assert.Equal(t, "Ada King", customer.Name)
	require.NotNil(t, customer.Phone)
	assert.Equal(t, "555-0100", *customer.Phone)
}

func TestCreateReservation_CancelledContext(t *testing.T) {
	repo := newMemRepo()
	svc := newTestBooking(repo, 30)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := svc.CreateReservation(ctx, validRequest())
	assert.ErrorIs(t, err, context.Canceled)
	assert.Zero(t, repo.insertCalls)
}

func TestCheckAvailability(t *testing.T) {
	repo := newMemRepo()
	svc := newTestBooking(repo, 3)
	ctx := context.Background()
	start, _ := ParseTimeSlot("2026-01-20T19:00")
	repo.book(2, start.Add(-30*time.Minute), svc.Config())
	writes := repo.insertCalls

	got, err := svc.CheckAvailability(ctx, "2026-01-20T19:00", 8)
	require.NoError(t, err)
	assert.Equal(t, 2, got.AvailableTables)
	assert.Equal(t, 2, got.TablesNeeded)
	assert.Equal(t, 3, got.TableCount)
	assert.False(t, got.FullyBooked)
	assert.Equal(t, "2026-01-20T20:00", FormatSlot(got.EndTime))

	again, err := svc.CheckAvailability(ctx, "2026-01-20T19:00", 8)
	require.NoError(t, err)
	assert.Equal(t, got, again)
	assert.Equal(t, writes, repo.insertCalls, "availability must not write")

	tooMany, err := svc.CheckAvailability(ctx, "2026-01-20T19:00", 9)
	require.NoError(t, err)
	assert.True(t, tooMany.FullyBooked)

	_, err = svc.CheckAvailability(ctx, "2026-01-18T10:30", 2)
	assert.Equal(t, CodeBeforeOpening, ValidationCode(err))
}

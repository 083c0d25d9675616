package controllers

import (
	"bytes"
	"encoding/json"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/yeremiapane/cafe-fausse/services"
	"github.com/yeremiapane/cafe-fausse/utils"
)

type ReservationController struct {
	Booking *services.BookingService
}

func NewReservationController(booking *services.BookingService) *ReservationController {
	return &ReservationController{Booking: booking}
}

// guestCount accepts 4 as well as "4"; anything else is rejected.
type guestCount struct {
	Value int
	Set   bool
	Valid bool
}

func (g *guestCount) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if bytes.Equal(data, []byte("null")) {
		return nil
	}
	g.Set = true

	var raw string
	if err := json.Unmarshal(data, &raw); err != nil {
		raw = string(data)
	}
	raw = strings.TrimSpace(raw)
	if raw == "" {
		g.Set = false
		return nil
	}
	n, err := strconv.Atoi(raw)
	g.Value, g.Valid = n, err == nil
	return nil
}

type reservationRequest struct {
	TimeSlot string     `json:"timeSlot" binding:"required"`
	Guests   guestCount `json:"guests"`
	Name     string     `json:"name"`
	Email    string     `json:"email" binding:"required"`
	Phone    *string    `json:"phone"`
}

// CreateReservation -> POST /api/reservations
func (rc *ReservationController) CreateReservation(c *gin.Context) {
	var req reservationRequest
	if !bindJSON(c, &req) {
		return
	}
	if !req.Guests.Set {
		utils.RespondJSON(c, http.StatusBadRequest, "Missing required field: guests", gin.H{
			"outcome": OutcomeValidation,
			"code":    services.CodeMissingField,
		})
		return
	}
	if !req.Guests.Valid {
		utils.RespondJSON(c, http.StatusBadRequest, ErrInvalidGuests.Error(), gin.H{
			"outcome": OutcomeValidation,
			"code":    services.CodeInvalidGuests,
		})
		return
	}

	phone := ""
	if req.Phone != nil {
		phone = *req.Phone
	}

	result, err := rc.Booking.CreateReservation(c.Request.Context(), services.ReservationRequest{
		TimeSlot: req.TimeSlot,
		Guests:   req.Guests.Value,
		Name:     req.Name,
		Email:    req.Email,
		Phone:    phone,
	})
	if err != nil {
		respondServiceError(c, err)
		return
	}

	tables := result.TableNumbers()
	utils.RespondJSON(c, http.StatusCreated, "Reservation confirmed.", gin.H{
		"tableNumber":     tables[0],
		"tableNumbers":    tables,
		"tablesBooked":    len(tables),
		"tables":          result.Tables,
		"timeSlot":        services.FormatSlot(result.TimeSlot),
		"endTime":         services.FormatSlot(result.EndTime),
		"durationMinutes": result.DurationMinutes,
		"guests":          result.Guests,
	})
}

// CheckAvailability -> GET /api/reservations/availability?timeSlot=...&guests=...
func (rc *ReservationController) CheckAvailability(c *gin.Context) {
	guests := 1
	if raw := strings.TrimSpace(c.Query("guests")); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil {
			utils.RespondJSON(c, http.StatusBadRequest, ErrInvalidGuests.Error(), gin.H{
				"outcome": OutcomeValidation,
				"code":    services.CodeInvalidGuests,
			})
			return
		}
		guests = n
	}

	availability, err := rc.Booking.CheckAvailability(c.Request.Context(), c.Query("timeSlot"), guests)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	message := "Tables available."
	if availability.FullyBooked {
		message = "This time slot is fully booked."
	}
	utils.RespondJSON(c, http.StatusOK, message, gin.H{
		"timeSlot":        services.FormatSlot(availability.TimeSlot),
		"endTime":         services.FormatSlot(availability.EndTime),
		"durationMinutes": availability.DurationMinutes,
		"seatsPerTable":   availability.SeatsPerTable,
		"tablesNeeded":    availability.TablesNeeded,
		"tableCount":      availability.TableCount,
		"availableTables": availability.AvailableTables,
		"fullyBooked":     availability.FullyBooked,
		"guests":          guests,
	})
}

// GetSlots -> GET /api/reservations/slots?date=YYYY-MM-DD
func (rc *ReservationController) GetSlots(c *gin.Context) {
	day, err := time.ParseInLocation("2006-01-02", strings.TrimSpace(c.Query("date")), time.UTC)
	if err != nil {
		utils.RespondError(c, http.StatusBadRequest, ErrInvalidDate)
		return
	}

	cfg := rc.Booking.Config()
	hours := services.OpeningHours(day)
	slots := services.SlotsForDate(day, cfg)
	formatted := make([]string, len(slots))
	for i, s := range slots {
		formatted[i] = s.Format("15:04")
	}

	utils.RespondJSON(c, http.StatusOK, "Opening hours", gin.H{
		"date":            day.Format("2006-01-02"),
		"weekday":         day.Weekday().String(),
		"opensAt":         hours.Open.Format("15:04"),
		"closesAt":        hours.Close.Format("15:04"),
		"durationMinutes": cfg.DurationMinutes(),
		"slots":           formatted,
	})
}

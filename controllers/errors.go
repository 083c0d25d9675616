package controllers

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	"github.com/yeremiapane/cafe-fausse/services"
	"github.com/yeremiapane/cafe-fausse/utils"
)

type CustomError struct {
	Message string
}

func (e *CustomError) Error() string {
	return e.Message
}

var (
	ErrInvalidBody    = &CustomError{"Invalid request body."}
	ErrInvalidGuests  = &CustomError{"guests must be a positive integer"}
	ErrInvalidDate    = &CustomError{"Invalid date. Use YYYY-MM-DD."}
	ErrUnexpectedFail = &CustomError{"Unknown error."}
)

// Booking outcomes reported next to ok=false
const (
	OutcomeValidation        = "validation_error"
	OutcomeFullyBooked       = "fully_booked"
	OutcomeTransientConflict = "transient_conflict"
	OutcomeSystemError       = "system_error"
)

// respondServiceError maps a service failure onto status, message and outcome.
func respondServiceError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, services.ErrValidation):
		utils.RespondJSON(c, http.StatusBadRequest, err.Error(), gin.H{
			"outcome": OutcomeValidation,
			"code":    services.ValidationCode(err),
		})
	case errors.Is(err, services.ErrFullyBooked):
		utils.RespondJSON(c, http.StatusConflict, services.ErrFullyBooked.Error(), gin.H{
			"outcome": OutcomeFullyBooked,
		})
	case errors.Is(err, services.ErrTransientConflict):
		utils.RespondJSON(c, http.StatusConflict, services.ErrTransientConflict.Error(), gin.H{
			"outcome": OutcomeTransientConflict,
		})
	default:
		utils.Error().WithError(err).WithField("path", c.Request.URL.Path).Error("Unhandled service error")
		utils.RespondJSON(c, http.StatusInternalServerError, ErrUnexpectedFail.Error(), gin.H{
			"outcome": OutcomeSystemError,
		})
	}
}

// bindJSON decodes the body into req. A field missing its binding:"required"
// value is reported as missing_field under its JSON name; any other decode
// failure is an invalid body.
func bindJSON(c *gin.Context, req any) bool {
	err := c.ShouldBindJSON(req)
	if err == nil {
		return true
	}

	var verrs validator.ValidationErrors
	if errors.As(err, &verrs) && len(verrs) > 0 && verrs[0].Tag() == "required" {
		field := verrs[0].Field()
		field = strings.ToLower(field[:1]) + field[1:]
		utils.RespondJSON(c, http.StatusBadRequest, "Missing required field: "+field, gin.H{
			"outcome": OutcomeValidation,
			"code":    services.CodeMissingField,
		})
		return false
	}

	utils.RespondJSON(c, http.StatusBadRequest, ErrInvalidBody.Error(), gin.H{"outcome": OutcomeValidation})
	return false
}

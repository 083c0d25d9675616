package services

import (
	"context"
	"fmt"
	"regexp"
	"strings"

	"github.com/yeremiapane/cafe-fausse/models"
)

var emailPattern = regexp.MustCompile(`^[^@\s]+@[^@\s]+\.[^@\s]+$`)

const (
	maxNameLength  = 255
	maxEmailLength = 255
	maxPhoneLength = 50
)

// InsertOutcome is how a unique-constrained insert ended.
type InsertOutcome int

const (
	InsertCommitted InsertOutcome = iota
	// InsertConflict means a uniqueness constraint rejected the write and
	// nothing was persisted.
	InsertConflict
)

func (o InsertOutcome) String() string {
	if o == InsertConflict {
		return "conflict"
	}
	return "committed"
}

// CustomerStore is the customer half of the persistence boundary.
type CustomerStore interface {
	// FindCustomerByEmail returns nil, nil when no customer has that email.
	FindCustomerByEmail(ctx context.Context, email string) (*models.Customer, error)
	CreateCustomer(ctx context.Context, customer *models.Customer) (InsertOutcome, error)
	// UpdateCustomerContact refreshes name and, when non-nil, phone.
	UpdateCustomerContact(ctx context.Context, id, name string, phone *string) error
}

// NormalizeEmail trims and lowercases an email and checks its shape.
func NormalizeEmail(raw string) (string, error) {
	email := strings.ToLower(strings.TrimSpace(raw))
	if email == "" {
		return "", newValidationError(CodeMissingField, "Missing required field: email")
	}
	if len(email) > maxEmailLength || !emailPattern.MatchString(email) {
		return "", newValidationError(CodeInvalidEmail, "email is invalid")
	}
	return email, nil
}

func normalizeName(raw string, required bool) (string, error) {
	name := strings.TrimSpace(raw)
	if name == "" && required {
		return "", newValidationError(CodeMissingField, "Missing required field: name")
	}
	if len(name) > maxNameLength {
		return "", newValidationError(CodeInvalidName, "name must be at most %d characters", maxNameLength)
	}
	return name, nil
}

func normalizePhone(raw string) (*string, error) {
	phone := strings.TrimSpace(raw)
	if phone == "" {
		return nil, nil
	}
	if len(phone) > maxPhoneLength {
		return nil, newValidationError(CodeInvalidPhone, "phone must be at most %d characters", maxPhoneLength)
	}
	return &phone, nil
}

// upsertCustomer resolves email to exactly one customer row. A lost create
// race falls back to the row the winner wrote. An existing row gets
// candidate's name when refreshName is set and candidate's phone when it is
// non-nil. created reports whether this call inserted the row.
func upsertCustomer(ctx context.Context, store CustomerStore, candidate models.Customer, refreshName bool) (customer *models.Customer, created bool, err error) {
	existing, err := store.FindCustomerByEmail(ctx, candidate.Email)
	if err != nil {
		return nil, false, fmt.Errorf("find customer: %w", err)
	}

	if existing == nil {
		fresh := candidate
		outcome, err := store.CreateCustomer(ctx, &fresh)
		if err != nil {
			return nil, false, fmt.Errorf("create customer: %w", err)
		}
		if outcome == InsertCommitted {
			return &fresh, true, nil
		}

		existing, err = store.FindCustomerByEmail(ctx, candidate.Email)
		if err != nil {
			return nil, false, fmt.Errorf("find customer after conflict: %w", err)
		}
		if existing == nil {
			return nil, false, fmt.Errorf("customer %s vanished after create conflict", candidate.Email)
		}
	}

	name := existing.Name
	if refreshName && candidate.Name != "" {
		name = candidate.Name
	}
	phoneChanged := candidate.Phone != nil && (existing.Phone == nil || *existing.Phone != *candidate.Phone)
	if name != existing.Name || phoneChanged {
		var phone *string
		if phoneChanged {
			phone = candidate.Phone
		}
		if err := store.UpdateCustomerContact(ctx, existing.ID, name, phone); err != nil {
			return nil, false, fmt.Errorf("update customer: %w", err)
		}
		existing.Name = name
		if phoneChanged {
			existing.Phone = candidate.Phone
		}
	}
	return existing, false, nil
}

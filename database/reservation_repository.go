package database

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/yeremiapane/cafe-fausse/models"
	"github.com/yeremiapane/cafe-fausse/services"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// ReservationRepo stores customers, reservations, table claims and newsletter
// history. Uniqueness of (table, slot) and of customer email is enforced by
// the schema; violations come back as services.InsertConflict.
type ReservationRepo struct {
	db *gorm.DB
}

func NewReservationRepo(db *gorm.DB) *ReservationRepo {
	return &ReservationRepo{db: db}
}

func (r *ReservationRepo) DB() *gorm.DB { return r.db }

// FindCustomerByEmail -> nil, nil when nobody uses the email
func (r *ReservationRepo) FindCustomerByEmail(ctx context.Context, email string) (*models.Customer, error) {
	var customer models.Customer
	err := r.db.WithContext(ctx).Where("email = ?", email).First(&customer).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &customer, nil
}

func (r *ReservationRepo) CreateCustomer(ctx context.Context, customer *models.Customer) (services.InsertOutcome, error) {
	if err := r.db.WithContext(ctx).Create(customer).Error; err != nil {
		if IsUniqueViolation(err) {
			return services.InsertConflict, nil
		}
		return services.InsertCommitted, err
	}
	return services.InsertCommitted, nil
}

// UpdateCustomerContact only touches the contact columns so a concurrent
// newsletter opt-in is never overwritten.
func (r *ReservationRepo) UpdateCustomerContact(ctx context.Context, id, name string, phone *string) error {
	updates := map[string]any{"name": name}
	if phone != nil {
		updates["phone"] = *phone
	}
	return r.db.WithContext(ctx).Model(&models.Customer{}).Where("id = ?", id).Updates(updates).Error
}

// MarkNewsletterSignup flips the opt-in flag false -> true. The conditional
// update makes the report exact even when two signups race.
func (r *ReservationRepo) MarkNewsletterSignup(ctx context.Context, customerID string) (bool, error) {
	res := r.db.WithContext(ctx).Model(&models.Customer{}).
		Where("id = ? AND newsletter_signup = ?", customerID, false).
		Update("newsletter_signup", true)
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected == 1, nil
}

func (r *ReservationRepo) RecordNewsletterSubscription(ctx context.Context, email string) (bool, error) {
	err := r.db.WithContext(ctx).Create(&models.NewsletterSubscription{Email: email}).Error
	if err != nil {
		if IsUniqueViolation(err) {
			return false, nil
		}
		return false, err
	}
	return true, nil
}

// BookedTables -> distinct tables with a reservation starting at any of slots
func (r *ReservationRepo) BookedTables(ctx context.Context, slots []time.Time) ([]int, error) {
	if len(slots) == 0 {
		return nil, nil
	}
	var tables []int
	err := r.db.WithContext(ctx).Model(&models.Reservation{}).
		Where("time_slot IN ?", slots).
		Distinct().
		Order("table_number").
		Pluck("table_number", &tables).Error
	return tables, err
}

// InsertReservations writes one booking atomically. Either every row and
// claim commits or nothing does.
func (r *ReservationRepo) InsertReservations(ctx context.Context, reservations []models.Reservation, claims []models.TableClaim) (services.InsertOutcome, error) {
	if len(reservations) == 0 {
		return services.InsertCommitted, errors.New("no reservations to insert")
	}

	tx := r.db.WithContext(ctx).Begin()
	if tx.Error != nil {
		return services.InsertCommitted, fmt.Errorf("begin transaction: %w", tx.Error)
	}

	if err := tx.Omit(clause.Associations).Create(&reservations).Error; err != nil {
		tx.Rollback()
		return conflictOr(err)
	}
	if len(claims) > 0 {
		if err := tx.Create(&claims).Error; err != nil {
			tx.Rollback()
			return conflictOr(err)
		}
	}

	if err := tx.Commit().Error; err != nil {
		tx.Rollback()
		return conflictOr(err)
	}
	return services.InsertCommitted, nil
}

// ReservationsAt lists the rows starting exactly at slot, ordered by table.
func (r *ReservationRepo) ReservationsAt(ctx context.Context, slot time.Time) ([]models.Reservation, error) {
	var reservations []models.Reservation
	err := r.db.WithContext(ctx).
		Where("time_slot = ?", slot).
		Order("table_number").
		Find(&reservations).Error
	return reservations, err
}

func conflictOr(err error) (services.InsertOutcome, error) {
	if IsRaceLoss(err) {
		return services.InsertConflict, nil
	}
	return services.InsertCommitted, err
}

var (
	_ services.ReservationRepository = (*ReservationRepo)(nil)
	_ services.NewsletterRepository  = (*ReservationRepo)(nil)
)

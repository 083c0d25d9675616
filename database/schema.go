package database

import (
	"fmt"

	"github.com/yeremiapane/cafe-fausse/models"
	"github.com/yeremiapane/cafe-fausse/utils"
	"gorm.io/gorm"
)

// uniqueIndexes are the constraints double-booking protection relies on.
var uniqueIndexes = []struct {
	model any
	name  string
}{
	{&models.Customer{}, "idx_customers_email"},
	{&models.Reservation{}, "idx_reservations_table_slot"},
	{&models.TableClaim{}, "idx_table_claims_table_cell"},
	{&models.NewsletterSubscription{}, "idx_newsletter_email"},
}

// Migrate creates or updates the schema and checks that every unique index
// is in place.
func Migrate(db *gorm.DB) error {
	err := db.AutoMigrate(
		&models.Customer{},
		&models.Reservation{},
		&models.TableClaim{},
		&models.NewsletterSubscription{},
	)
	if err != nil {
		return fmt.Errorf("auto migrate: %w", err)
	}

	for _, idx := range uniqueIndexes {
		if !db.Migrator().HasIndex(idx.model, idx.name) {
			return fmt.Errorf("unique index %s is missing", idx.name)
		}
		utils.Info().Debugf("Index verified: %s", idx.name)
	}

	utils.Info().Println("AutoMigrate completed.")
	return nil
}

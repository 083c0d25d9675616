package services

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/yeremiapane/cafe-fausse/models"
)

// memRepo is an in-memory ReservationRepository and NewsletterRepository.
// forcedConflicts makes the next N InsertReservations calls lose a race.
type memRepo struct {
	mu sync.Mutex

	customers     map[string]*models.Customer
	reservations  []models.Reservation
	claims        map[claimKey]string
	newsletter    map[string]bool
	subscriptions int

	forcedConflicts int
	readCalls       int
	insertCalls     int
	customerWrites  int
}

type claimKey struct {
	table int
	cell  time.Time
}

func newMemRepo() *memRepo {
	return &memRepo{
		customers:  map[string]*models.Customer{},
		claims:     map[claimKey]string{},
		newsletter: map[string]bool{},
	}
}

func (m *memRepo) FindCustomerByEmail(_ context.Context, email string) (*models.Customer, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	c, ok := m.customers[email]
	if !ok {
		return nil, nil
	}
	cp := *c
	return &cp, nil
}

func (m *memRepo) CreateCustomer(_ context.Context, customer *models.Customer) (InsertOutcome, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.customerWrites++
	if _, ok := m.customers[customer.Email]; ok {
		return InsertConflict, nil
	}
	if customer.ID == "" {
		customer.ID = uuid.NewString()
	}
	cp := *customer
	m.customers[customer.Email] = &cp
	return InsertCommitted, nil
}

func (m *memRepo) UpdateCustomerContact(_ context.Context, id, name string, phone *string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.customerWrites++
	for _, c := range m.customers {
		if c.ID == id {
			c.Name = name
			if phone != nil {
				p := *phone
				c.Phone = &p
			}
		}
	}
	return nil
}

func (m *memRepo) MarkNewsletterSignup(_ context.Context, id string) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, c := range m.customers {
		if c.ID == id && !c.NewsletterSignup {
			c.NewsletterSignup = true
			return true, nil
		}
	}
	return false, nil
}

func (m *memRepo) RecordNewsletterSubscription(_ context.Context, email string) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.newsletter[email] {
		return false, nil
	}
	m.newsletter[email] = true
	m.subscriptions++
	return true, nil
}

func (m *memRepo) BookedTables(_ context.Context, slots []time.Time) ([]int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.readCalls++
	seen := map[int]bool{}
	var tables []int
	for _, r := range m.reservations {
		for _, s := range slots {
			if r.TimeSlot.Equal(s) && !seen[r.TableNumber] {
				seen[r.TableNumber] = true
				tables = append(tables, r.TableNumber)
			}
		}
	}
	return tables, nil
}

func (m *memRepo) InsertReservations(_ context.Context, reservations []models.Reservation, claims []models.TableClaim) (InsertOutcome, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.insertCalls++
	if m.forcedConflicts > 0 {
		m.forcedConflicts--
		return InsertConflict, nil
	}
	for _, c := range claims {
		if _, taken := m.claims[claimKey{c.TableNumber, c.SlotStart}]; taken {
			return InsertConflict, nil
		}
	}
	for _, c := range claims {
		m.claims[claimKey{c.TableNumber, c.SlotStart}] = c.ReservationID
	}
	m.reservations = append(m.reservations, reservations...)
	return InsertCommitted, nil
}

// book stores a reservation directly, bypassing the service.
func (m *memRepo) book(table int, start time.Time, cfg BookingConfig) {
	id := uuid.NewString()
	var claims []models.TableClaim
	for t := start; t.Before(start.Add(cfg.Duration)); t = t.Add(cfg.SlotGranularity) {
		claims = append(claims, models.TableClaim{ReservationID: id, TableNumber: table, SlotStart: t})
	}
	m.InsertReservations(context.Background(), []models.Reservation{{ID: id, TimeSlot: start, TableNumber: table, Guests: 2}}, claims)
}

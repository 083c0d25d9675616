package services

import (
	"context"
	"fmt"
	"strings"

	"github.com/yeremiapane/cafe-fausse/models"
	"github.com/yeremiapane/cafe-fausse/utils"
)

// NewsletterRepository is what SubscribeNewsletter needs from storage.
type NewsletterRepository interface {
	CustomerStore
	// MarkNewsletterSignup sets the opt-in flag and reports whether this call
	// flipped it. The flag is never cleared.
	MarkNewsletterSignup(ctx context.Context, customerID string) (bool, error)
	// RecordNewsletterSubscription appends the email to the signup history
	// and reports whether a new row was written.
	RecordNewsletterSubscription(ctx context.Context, email string) (bool, error)
}

type SubscriptionResult struct {
	CustomerID        string
	AlreadySubscribed bool
}

type NewsletterService struct {
	repo NewsletterRepository
}

func NewNewsletterService(repo NewsletterRepository) *NewsletterService {
	if repo == nil {
		panic("nil repository passed to NewNewsletterService")
	}
	return &NewsletterService{repo: repo}
}

// Subscribe upserts the customer for email and opts them in. Signing up twice
// is not an error; the second call reports AlreadySubscribed.
func (s *NewsletterService) Subscribe(ctx context.Context, rawEmail, rawName string) (*SubscriptionResult, error) {
	email, err := NormalizeEmail(rawEmail)
	if err != nil {
		return nil, err
	}
	name, err := normalizeName(rawName, false)
	if err != nil {
		return nil, err
	}

	candidate := models.Customer{Name: name, Email: email, NewsletterSignup: true}
	if candidate.Name == "" {
		candidate.Name = strings.SplitN(email, "@", 2)[0]
	}

	customer, created, err := upsertCustomer(ctx, s.repo, candidate, name != "")
	if err != nil {
		return nil, err
	}

	already := false
	if !created {
		flipped, err := s.repo.MarkNewsletterSignup(ctx, customer.ID)
		if err != nil {
			return nil, fmt.Errorf("mark newsletter signup: %w", err)
		}
		already = !flipped
	}
	customer.NewsletterSignup = true

	if _, err := s.repo.RecordNewsletterSubscription(ctx, email); err != nil {
		return nil, fmt.Errorf("record newsletter subscription: %w", err)
	}

	utils.Info().WithField("customer_id", customer.ID).WithField("already_subscribed", already).Info("Newsletter signup")
	return &SubscriptionResult{CustomerID: customer.ID, AlreadySubscribed: already}, nil
}


package billing

import (
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"strconv"
	"strings"
	"time"

	"github.com/stripe/stripe-go/v78"
	"gorm.io/gorm"

	"github.com/fromwithin/fromwithin/app/models"
	"github.com/fromwithin/fromwithin/app/repository"
)

// Service mirrors Stripe subscription state into the local database. The
// mirrored status is what the access gate reads, so the service is the only
// writer of billing_subscriptions.
type Service struct {
	repo repository.SubscriptionRepository
}

// NewService creates a billing service from an injected repository.
func NewService(repo repository.SubscriptionRepository) *Service {
	return &Service{repo: repo}
}

// NewServiceFromDB creates a billing service from a GORM DB handle.
func NewServiceFromDB(db *gorm.DB) *Service {
	return NewService(repository.NewSubscriptionRepository(db))
}

// ProcessWebhookEvent records a verified event idempotently and applies it
// once. Replayed deliveries are acknowledged without reprocessing.
func (s *Service) ProcessWebhookEvent(event stripe.Event) error {
	rec := &models.BillingWebhookEvent{
		Provider:        models.BillingProviderStripe,
		ProviderEventID: event.ID,
		EventType:       string(event.Type),
		PayloadJSON:     string(event.Data.Raw),
	}
	created, err := s.repo.CreateWebhookEventIfNotExists(rec)
	if err != nil {
		return err
	}
	if !created {
		return nil
	}

	handleErr := s.HandleWebhookEvent(event)
	errMsg := ""
	if handleErr != nil {
		errMsg = handleErr.Error()
	}
	if err := s.repo.MarkWebhookProcessed(rec.ID, errMsg); err != nil {
		log.Printf("marking webhook event %s processed failed: %v", event.ID, err)
	}
	return handleErr
}

// HandleWebhookEvent applies a verified Stripe event to the subscription
// mirror. Event types we do not track are acknowledged without effect.
func (s *Service) HandleWebhookEvent(event stripe.Event) error {
	switch event.Type {
	case "checkout.session.completed":
		var cs stripe.CheckoutSession
		if err := json.Unmarshal(event.Data.Raw, &cs); err != nil {
			return fmt.Errorf("decode checkout session: %w", err)
		}
		return s.applyCheckoutCompleted(&cs, event.Data.Raw)
	case "customer.subscription.created", "customer.subscription.updated":
		var sub stripe.Subscription
		if err := json.Unmarshal(event.Data.Raw, &sub); err != nil {
			return fmt.Errorf("decode subscription: %w", err)
		}
		return s.applySubscriptionEvent(&sub, false)
	case "customer.subscription.deleted":
		var sub stripe.Subscription
		if err := json.Unmarshal(event.Data.Raw, &sub); err != nil {
			return fmt.Errorf("decode subscription: %w", err)
		}
		return s.applySubscriptionEvent(&sub, true)
	default:
		return nil
	}
}

// applyCheckoutCompleted records the subscription a finished checkout
// created. The webhook payload carries the subscription unexpanded, so the
// status is usually unknown here; new checkouts start in trial and the
// subscription lifecycle events correct the status if not.
func (s *Service) applyCheckoutCompleted(cs *stripe.CheckoutSession, raw []byte) error {
	userID := parseClientReference(cs.ClientReferenceID)
	if userID == 0 {
		return errors.New("checkout session without usable client reference")
	}
	if cs.Subscription == nil || cs.Subscription.ID == "" {
		return errors.New("checkout session without subscription")
	}

	status := models.BillingStatusTrialing
	if cs.Subscription.Status != "" {
		status = mapStripeStatus(string(cs.Subscription.Status))
	}

	sub := &models.BillingSubscription{
		UserID:                 userID,
		Provider:               models.BillingProviderStripe,
		ProviderSubscriptionID: cs.Subscription.ID,
		Status:                 status,
		RawPayloadJSON:         string(raw),
	}
	return s.repo.Upsert(sub)
}

// applySubscriptionEvent updates the mirrored state of a known subscription.
func (s *Service) applySubscriptionEvent(sub *stripe.Subscription, deleted bool) error {
	if sub.ID == "" {
		return errors.New("subscription event without id")
	}

	status := mapStripeStatus(string(sub.Status))
	if deleted {
		status = models.BillingStatusCanceled
	}

	var periodEnd *time.Time
	if sub.CurrentPeriodEnd > 0 {
		t := time.Unix(sub.CurrentPeriodEnd, 0).UTC()
		periodEnd = &t
	}

	return s.repo.UpdateStatusBySubscriptionID(models.BillingProviderStripe, sub.ID, status, periodEnd, sub.CancelAtPeriodEnd)
}

// StatusForUser returns the user's current mirrored subscription status.
func (s *Service) StatusForUser(userID uint) (string, error) {
	return s.repo.LatestStatusForUser(userID)
}

// UserHasAccess reports whether the mirrored status entitles full access.
func (s *Service) UserHasAccess(userID uint) (bool, error) {
	status, err := s.repo.LatestStatusForUser(userID)
	if err != nil {
		return false, err
	}
	return isEntitlingStatus(status), nil
}

func parseClientReference(ref string) uint {
	ref = strings.TrimSpace(ref)
	if ref == "" {
		return 0
	}
	id, err := strconv.ParseUint(ref, 10, 32)
	if err != nil {
		return 0
	}
	return uint(id)
}

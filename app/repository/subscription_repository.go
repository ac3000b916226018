package repository

import (
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/fromwithin/fromwithin/app/models"
)

// subscriptionRepository implements SubscriptionRepository backed by GORM.
type subscriptionRepository struct {
	db *gorm.DB
}

// NewSubscriptionRepository creates a new subscription repository instance
func NewSubscriptionRepository(db *gorm.DB) SubscriptionRepository {
	return &subscriptionRepository{db: db}
}

// Upsert writes a subscription keyed by (provider, provider_subscription_id).
func (r *subscriptionRepository) Upsert(sub *models.BillingSubscription) error {
	return r.db.Clauses(clause.OnConflict{
		Columns: []clause.Column{
			{Name: "provider"},
			{Name: "provider_subscription_id"},
		},
		DoUpdates: clause.AssignmentColumns([]string{
			"user_id",
			"status",
			"current_period_end",
			"cancel_at_period_end",
			"raw_payload_json",
			"updated_at",
		}),
	}).Create(sub).Error
}

// UpdateStatusBySubscriptionID updates the mirrored state of a known
// subscription. Unknown subscriptions are ignored rather than created;
// creation always goes through checkout completion.
func (r *subscriptionRepository) UpdateStatusBySubscriptionID(provider, providerSubscriptionID, status string, periodEnd *time.Time, cancelAtPeriodEnd bool) error {
	return r.db.Model(&models.BillingSubscription{}).
		Where("provider = ? AND provider_subscription_id = ?", provider, providerSubscriptionID).
		Updates(map[string]interface{}{
			"status":               status,
			"current_period_end":   periodEnd,
			"cancel_at_period_end": cancelAtPeriodEnd,
		}).Error
}

// LatestStatusForUser returns the user's most recent subscription status.
func (r *subscriptionRepository) LatestStatusForUser(userID uint) (string, error) {
	return models.LatestSubscriptionStatus(r.db, userID)
}

// CreateWebhookEventIfNotExists inserts the event unless the provider event
// id was seen before.
func (r *subscriptionRepository) CreateWebhookEventIfNotExists(event *models.BillingWebhookEvent) (bool, error) {
	res := r.db.Clauses(clause.OnConflict{
		Columns: []clause.Column{
			{Name: "provider"},
			{Name: "provider_event_id"},
		},
		DoNothing: true,
	}).Create(event)
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected > 0, nil
}

// MarkWebhookProcessed stamps the event with the processing outcome.
func (r *subscriptionRepository) MarkWebhookProcessed(eventID uint, processingErr string) error {
	now := time.Now()
	return r.db.Model(&models.BillingWebhookEvent{}).
		Where("id = ?", eventID).
		Updates(map[string]interface{}{
			"processed_at":     &now,
			"processing_error": processingErr,
		}).Error
}

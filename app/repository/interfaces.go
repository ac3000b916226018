package repository

import (
	"context"
	"time"

	"github.com/fromwithin/fromwithin/app/models"
	"github.com/fromwithin/fromwithin/internal/pkg/wearables"
)

// UserRepository defines the interface for user-related database operations
type UserRepository interface {
	Create(user *models.User) error
	GetByID(id uint) (*models.User, error)
	GetByEmail(email string) (*models.User, error)
	GetByActivationToken(token string) (*models.User, error)
	Update(user *models.User) error
	Delete(id uint) error
}

// WearableRepository persists linked wearable credentials. It satisfies
// wearables.CredentialStore so the link protocol can write through it.
type WearableRepository interface {
	Upsert(ctx context.Context, cred *wearables.Credential) error
	HasAnyForUser(userID uint) (bool, error)
	ListByUser(userID uint) ([]models.WearableConnection, error)
	Delete(userID uint, provider string) error
}

// SubscriptionRepository mirrors billing-provider subscription state.
type SubscriptionRepository interface {
	Upsert(sub *models.BillingSubscription) error
	UpdateStatusBySubscriptionID(provider, providerSubscriptionID, status string, periodEnd *time.Time, cancelAtPeriodEnd bool) error
	LatestStatusForUser(userID uint) (string, error)

	// CreateWebhookEventIfNotExists stores the event and reports whether it
	// was new; replays return false without touching the row.
	CreateWebhookEventIfNotExists(event *models.BillingWebhookEvent) (bool, error)
	MarkWebhookProcessed(eventID uint, processingErr string) error
}

// ChakraLogRepository stores self-reported chakra energy entries.
type ChakraLogRepository interface {
	Create(entry *models.ChakraLog) error
	ListByUser(userID uint, limit int) ([]models.ChakraLog, error)
}

package models

import (
	"time"

	"gorm.io/gorm"
)

const BillingProviderStripe = "stripe"

const (
	BillingStatusNone       = "none"
	BillingStatusTrialing   = "trialing"
	BillingStatusActive     = "active"
	BillingStatusCanceled   = "canceled"
	BillingStatusIncomplete = "incomplete"
)

// BillingSubscription mirrors a provider subscription state. Its status is
// the subscription fact the access gate reads; nothing else about billing
// feeds the gating decision.
type BillingSubscription struct {
	ID                     uint       `gorm:"primaryKey" json:"id"`
	UserID                 uint       `gorm:"not null;index" json:"user_id"`
	Provider               string     `gorm:"type:varchar(20);not null;index:ux_billing_subscriptions_provider_subid,unique,priority:1" json:"provider"`
	ProviderSubscriptionID string     `gorm:"type:varchar(191);not null;index:ux_billing_subscriptions_provider_subid,unique,priority:2" json:"provider_subscription_id"`
	Status                 string     `gorm:"type:varchar(32);not null;default:'incomplete';index" json:"status"`
	CurrentPeriodEnd       *time.Time `gorm:"type:timestamp;default:null" json:"current_period_end,omitempty"`
	CancelAtPeriodEnd      bool       `gorm:"default:false" json:"cancel_at_period_end"`
	RawPayloadJSON         string     `gorm:"type:longtext" json:"-"`
	CreatedAt              time.Time  `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt              time.Time  `gorm:"autoUpdateTime" json:"updated_at"`
}

// LatestSubscriptionStatus returns the status of the most recently updated
// subscription for the user, or BillingStatusNone when there is none.
func LatestSubscriptionStatus(db *gorm.DB, userID uint) (string, error) {
	var sub BillingSubscription
	err := db.Where("user_id = ?", userID).Order("updated_at DESC").First(&sub).Error
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return BillingStatusNone, nil
		}
		return BillingStatusNone, err
	}
	return sub.Status, nil
}

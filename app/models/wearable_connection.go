package models

import (
	"strings"
	"time"

	"gorm.io/gorm"
)

// WearableConnection is the stored OAuth credential for one linked wearable
// provider. The unique (user_id, provider) index guarantees at most one live
// credential per pair; relinking replaces the row.
type WearableConnection struct {
	ID           uint       `gorm:"primaryKey" json:"id"`
	UserID       uint       `gorm:"not null;index:ux_wearable_connections_user_provider,unique,priority:1" json:"user_id"`
	Provider     string     `gorm:"type:varchar(20);not null;index:ux_wearable_connections_user_provider,unique,priority:2" json:"provider"`
	AccessToken  string     `gorm:"type:text" json:"-"`
	RefreshToken string     `gorm:"type:text" json:"-"`
	ExpiresAt    *time.Time `gorm:"type:timestamp;default:null" json:"expires_at,omitempty"`
	Scopes       string     `gorm:"type:varchar(500)" json:"scopes"`
	SourceDevice string     `gorm:"type:varchar(50)" json:"source_device"`
	CreatedAt    time.Time  `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt    time.Time  `gorm:"autoUpdateTime" json:"updated_at"`
}

// ScopeList splits the stored space-delimited scope string.
func (w *WearableConnection) ScopeList() []string {
	if strings.TrimSpace(w.Scopes) == "" {
		return nil
	}
	return strings.Fields(w.Scopes)
}

// HasWearableConnection reports whether any provider credential exists for
// the user. This is the wearable_connected fact the access gate reads.
func HasWearableConnection(db *gorm.DB, userID uint) (bool, error) {
	var count int64
	if err := db.Model(&WearableConnection{}).Where("user_id = ?", userID).Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

package repository

import (
	"context"
	"strings"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/fromwithin/fromwithin/app/models"
	"github.com/fromwithin/fromwithin/internal/pkg/wearables"
)

// wearableRepository implements WearableRepository backed by GORM.
type wearableRepository struct {
	db *gorm.DB
}

// NewWearableRepository creates a new wearable repository instance
func NewWearableRepository(db *gorm.DB) WearableRepository {
	return &wearableRepository{db: db}
}

// Upsert writes a credential keyed by (user_id, provider); a conflict on
// that key replaces the token fields together so the row is never left
// half-updated.
func (r *wearableRepository) Upsert(ctx context.Context, cred *wearables.Credential) error {
	row := &models.WearableConnection{
		UserID:       cred.UserID,
		Provider:     string(cred.Provider),
		AccessToken:  cred.AccessToken,
		RefreshToken: cred.RefreshToken,
		ExpiresAt:    cred.ExpiresAt,
		Scopes:       strings.Join(cred.Scopes, " "),
		SourceDevice: cred.SourceDevice,
	}

	return r.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns: []clause.Column{
			{Name: "user_id"},
			{Name: "provider"},
		},
		DoUpdates: clause.AssignmentColumns([]string{
			"access_token",
			"refresh_token",
			"expires_at",
			"scopes",
			"source_device",
			"updated_at",
		}),
	}).Create(row).Error
}

// HasAnyForUser reports whether at least one credential row exists.
func (r *wearableRepository) HasAnyForUser(userID uint) (bool, error) {
	return models.HasWearableConnection(r.db, userID)
}

// ListByUser returns all linked providers for a user, newest first.
func (r *wearableRepository) ListByUser(userID uint) ([]models.WearableConnection, error) {
	var conns []models.WearableConnection
	err := r.db.Where("user_id = ?", userID).Order("updated_at DESC").Find(&conns).Error
	return conns, err
}

// Delete removes the credential for one (user, provider) pair.
func (r *wearableRepository) Delete(userID uint, provider string) error {
	return r.db.Where("user_id = ? AND provider = ?", userID, provider).
		Delete(&models.WearableConnection{}).Error
}

package repository

import (
	"gorm.io/gorm"

	"github.com/fromwithin/fromwithin/app/models"
)

// chakraLogRepository implements ChakraLogRepository backed by GORM.
type chakraLogRepository struct {
	db *gorm.DB
}

// NewChakraLogRepository creates a new chakra log repository instance
func NewChakraLogRepository(db *gorm.DB) ChakraLogRepository {
	return &chakraLogRepository{db: db}
}

// Create stores one chakra energy entry
func (r *chakraLogRepository) Create(entry *models.ChakraLog) error {
	return r.db.Create(entry).Error
}

// ListByUser returns the user's entries, newest first
func (r *chakraLogRepository) ListByUser(userID uint, limit int) ([]models.ChakraLog, error) {
	if limit <= 0 || limit > 100 {
		limit = 50
	}
	var entries []models.ChakraLog
	err := r.db.Where("user_id = ?", userID).
		Order("logged_at DESC").Limit(limit).Find(&entries).Error
	return entries, err
}

package models

import (
	"time"

	"github.com/go-playground/validator/v10"
)

// ChakraLog is one self-reported energy entry from the chakra logging screen.
type ChakraLog struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	UserID    uint      `gorm:"not null;index" json:"user_id"`
	Chakra    string    `gorm:"type:varchar(20);not null" json:"chakra" validate:"required,oneof=root sacral solar_plexus heart throat third_eye crown"`
	Intensity int       `gorm:"not null" json:"intensity" validate:"min=1,max=10"`
	Note      string    `gorm:"type:text" json:"note" validate:"max=1000"`
	LoggedAt  time.Time `gorm:"not null;index" json:"logged_at"`
	CreatedAt time.Time `gorm:"autoCreateTime" json:"created_at"`
}

func (c *ChakraLog) Validate() error {
	v := validator.New()

	return v.Struct(c)
}

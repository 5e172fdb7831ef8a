package domain

import (
	"errors"
	"time"

	"github.com/bwmarrin/snowflake"
)

// Driver is the payee identity. Onboarding and profile management live in the
// operations backend; the engine only needs identity and the active flag.
type Driver struct {
	ID        snowflake.ID `json:"id" gorm:"primaryKey"`
	Name      string       `json:"name" gorm:"type:text;not null;index"`
	Phone     string       `json:"phone" gorm:"type:text"`
	Active    bool         `json:"active" gorm:"not null;default:true"`
	CreatedAt time.Time    `json:"created_at" gorm:"not null;default:CURRENT_TIMESTAMP"`
	UpdatedAt time.Time    `json:"updated_at" gorm:"not null;default:CURRENT_TIMESTAMP"`
}

func (Driver) TableName() string { return "drivers" }

var ErrNotFound = errors.New("driver_not_found")

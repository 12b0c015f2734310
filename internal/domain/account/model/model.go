package model

import (
	"time"

	"github.com/google/uuid"
)

// Account is the persisted identity record. TokenVersion starts at 1 and is
// bumped on every credential change; tokens carrying an older value are dead.
type Account struct {
	ID           uuid.UUID `gorm:"type:uuid;primaryKey"`
	Email        string    `gorm:"uniqueIndex;size:255;not null"`
	FirstName    string    `gorm:"size:100;not null"`
	LastName     string    `gorm:"size:100;not null"`
	PasswordHash string    `gorm:"size:255;not null"`
	Affiliation  *string   `gorm:"size:255"`
	TokenVersion int       `gorm:"not null;default:1"`
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

type TokenPair struct {
	AccessToken  string
	RefreshToken string
	TokenType    string
	AccessTTL    time.Duration
	RefreshTTL   time.Duration
	AccountID    uuid.UUID
}

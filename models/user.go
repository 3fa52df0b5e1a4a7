package models

import (
	"time"

	"github.com/google/uuid"
)

// User is the internal record for an externally authenticated shopper.
// Rows are created lazily on first cart interaction and never deleted here.
type User struct {
	ID         uuid.UUID `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	ExternalID string    `gorm:"type:varchar(255);uniqueIndex;not null" json:"external_id"`
	Email      string    `gorm:"not null" json:"email"`
	Name       string    `json:"name"`
	CreatedAt  time.Time `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt  time.Time `gorm:"autoUpdateTime" json:"updated_at"`
}

// Identity carries the authenticated caller's claims through a request.
// A zero ExternalID means the caller is anonymous.
type Identity struct {
	ExternalID string
	Email      string
	Name       string
}

// IsAnonymous reports whether no authenticated subject is attached.
func (i Identity) IsAnonymous() bool {
	return i.ExternalID == ""
}

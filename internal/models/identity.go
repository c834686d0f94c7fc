package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// MetadataFullName is the identity claim copied into the profile display name.
const MetadataFullName = "full_name"

// Identity is the authentication subsystem's record of a user. Every other
// table is owned by exactly one identity.
type Identity struct {
	ID           uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	Phone        *string   `gorm:"uniqueIndex" json:"phone,omitempty"`
	Email        *string   `gorm:"uniqueIndex" json:"email,omitempty"`
	PasswordHash string    `gorm:"not null" json:"-"`
	Metadata     JSON      `gorm:"type:jsonb" json:"metadata,omitempty"`
	TokenVersion int       `gorm:"not null;default:1" json:"-"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`

	// Profile is filled by the provisioning trigger; it is never saved through
	// the association.
	Profile *Profile `gorm:"-" json:"profile,omitempty"`
}

func (Identity) TableName() string { return "identities" }

// FullName returns the optional full-name claim, "" when absent.
func (i *Identity) FullName() string {
	return i.Metadata.String(MetadataFullName)
}

func (i *Identity) BeforeCreate(tx *gorm.DB) error {
	if i.ID == uuid.Nil {
		i.ID = uuid.New()
	}
	if i.TokenVersion == 0 {
		i.TokenVersion = 1
	}
	return nil
}

// AfterCreate provisions the identity's profile in the same transaction.
func (i *Identity) AfterCreate(tx *gorm.DB) error {
	profile, err := ProvisionProfile(tx, i)
	if err != nil {
		return err
	}
	i.Profile = profile
	return nil
}

// BeforeDelete removes every row owned by the identity before the identity
// itself goes away.
func (i *Identity) BeforeDelete(tx *gorm.DB) error {
	if i.ID == uuid.Nil {
		return nil
	}
	return cascadeIdentityDelete(tx, i.ID)
}

package model

import "time"

type Role string

const (
	RoleDonor       Role = "donor"
	RoleBeneficiary Role = "beneficiary"
	RoleBoth        Role = "both"
)

func (r Role) Valid() bool {
	switch r {
	case RoleDonor, RoleBeneficiary, RoleBoth:
		return true
	}
	return false
}

// CanPost reports whether the client should offer the "create resource"
// action. The API itself does not enforce it.
func (r Role) CanPost() bool {
	return r == RoleDonor || r == RoleBoth
}

type User struct {
	ID           string    `gorm:"primaryKey;size:36" bson:"_id" json:"id"`
	Name         string    `gorm:"size:128;not null" bson:"name" json:"name"`
	Email        string    `gorm:"size:191;not null;uniqueIndex" bson:"email" json:"email"`
	PasswordHash string    `gorm:"size:255;not null" bson:"password_hash" json:"-"`
	Role         Role      `gorm:"size:16;not null;default:beneficiary" bson:"role" json:"role"`
	Organization string    `gorm:"size:191" bson:"organization,omitempty" json:"organization,omitempty"`
	Phone        string    `gorm:"size:64" bson:"phone,omitempty" json:"phone,omitempty"`
	CreatedAt    time.Time `bson:"created_at" json:"createdAt"`
	UpdatedAt    time.Time `bson:"updated_at" json:"updatedAt"`
}

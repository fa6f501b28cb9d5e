package models

import (
	"encoding/json"
	"time"
)

// Role represents the possible staff roles
type Role string

const (
	RoleAdmin   Role = "admin"
	RoleManager Role = "manager"
	RoleCaptain Role = "captain"
	RoleKitchen Role = "kitchen"
)

// ValidRole reports whether r names a known role.
func ValidRole(r Role) bool {
	switch r {
	case RoleAdmin, RoleManager, RoleCaptain, RoleKitchen:
		return true
	}
	return false
}

// User represents a staff account. Accounts are provisioned out-of-band
// and read-only to this service apart from the last-login stamp.
type User struct {
	ID                string     `gorm:"primary_key" json:"id"`
	Username          string     `gorm:"unique_index" json:"username"`
	Email             string     `json:"email"`
	Password          string     `json:"-"`
	Role              Role       `json:"role"`
	KitchenAccessJSON string     `json:"-"` // serialized kitchen id list
	CreatedAt         time.Time  `json:"createdAt"`
	LastLogin         *time.Time `json:"lastLogin,omitempty"`
	IsActive          bool       `json:"isActive"`
}

// KitchenAccess returns the list of kitchen IDs the user may act on.
// Admins and managers are granted access elsewhere regardless of this list.
func (u *User) KitchenAccess() []string {
	if u.KitchenAccessJSON == "" {
		return nil
	}
	var kitchens []string
	if err := json.Unmarshal([]byte(u.KitchenAccessJSON), &kitchens); err != nil {
		return nil
	}
	return kitchens
}

// SetKitchenAccess serializes the kitchen id list for storage.
func (u *User) SetKitchenAccess(kitchens []string) error {
	data, err := json.Marshal(kitchens)
	if err != nil {
		return err
	}
	u.KitchenAccessJSON = string(data)
	return nil
}

package models

import (
	"gorm.io/gorm"
)

// User roles
const (
	RoleBuyer  = "buyer"
	RoleSeller = "seller"
	RoleAdmin  = "admin"
)

// User statuses
const (
	UserStatusActive    = "active"
	UserStatusSuspended = "suspended"
)

type User struct {
	gorm.Model
	Email            string `gorm:"uniqueIndex;not null"`
	Password         string `gorm:"not null" json:"-"`
	Name             string `gorm:"not null"`
	Role             string `gorm:"default:'buyer'"`
	Status           string `gorm:"default:'active'"`
	HasAdvertising   bool   `gorm:"default:false"`
	StripeAccountID  string // connected account receiving payouts
	StoreCreditCents int64  `gorm:"default:0"`
	SuspendedReason  string
	TokenVersion     int `gorm:"default:1"`
}

func (u *User) IsSuspended() bool {
	return u.Status == UserStatusSuspended
}

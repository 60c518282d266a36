package models

import (
	"time"

	"gorm.io/gorm"
)

type Address struct {
	gorm.Model
	UserProfileID uint   `json:"-"`
	Street        string `json:"street"`
	City          string `json:"city" gorm:"size:64"`
	State         string `json:"state" gorm:"size:64"`
	ZipCode       string `json:"zipCode" gorm:"size:8"`
	Country       string `json:"country" gorm:"size:64;default:India"`
	IsDefault     bool   `json:"isDefault" gorm:"default:false"`
}

type Preferences struct {
	EmailNotifications bool `json:"emailNotifications" gorm:"default:true"`
	MarketingEmails    bool `json:"marketingEmails" gorm:"default:false"`
	OrderUpdates       bool `json:"orderUpdates" gorm:"default:true"`
}

type UserProfile struct {
	gorm.Model
	AuthUserID  string      `json:"authUserId" gorm:"uniqueIndex;size:64"`
	FirstName   string      `json:"firstName" gorm:"size:64"`
	LastName    string      `json:"lastName" gorm:"size:64"`
	Email       string      `json:"email" gorm:"index;size:128"`
	Addresses   []Address   `json:"addresses" gorm:"foreignKey:UserProfileID;constraint:OnDelete:CASCADE"`
	Preferences Preferences `json:"preferences" gorm:"embedded;embeddedPrefix:pref_"`
	IsActive    bool        `json:"isActive" gorm:"default:true"`
	LastLogin   time.Time   `json:"lastLogin"`
}

// DefaultAddress returns the address flagged as default, or nil. At most one
// address per profile carries the flag.
func (u *UserProfile) DefaultAddress() *Address {
	for i := range u.Addresses {
		if u.Addresses[i].IsDefault {
			return &u.Addresses[i]
		}
	}
	return nil
}

// LoginCode is a single-use magic link code. Only the bcrypt hash is stored.
type LoginCode struct {
	gorm.Model
	Email     string    `json:"email" gorm:"index;size:128"`
	CodeHash  string    `json:"-" gorm:"size:128"`
	ExpiresAt time.Time `json:"expiresAt"`
	Used      bool      `json:"used" gorm:"default:false"`
}

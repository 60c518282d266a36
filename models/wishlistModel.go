package models

import (
	"time"

	"gorm.io/datatypes"
	"gorm.io/gorm"
)

type WishlistItem struct {
	gorm.Model
	WishlistID uint                        `json:"-"`
	ProductID  string                      `json:"productId" gorm:"size:64"`
	Title      string                      `json:"title"`
	Price      float64                     `json:"price"`
	Images     datatypes.JSONSlice[string] `json:"images"`
	Category   string                      `json:"category" gorm:"size:64"`
	Material   string                      `json:"material" gorm:"size:64"`
	AddedAt    time.Time                   `json:"addedAt"`
}

type Wishlist struct {
	gorm.Model
	AuthUserID string         `json:"authUserId" gorm:"uniqueIndex;size:64"`
	Items      []WishlistItem `json:"items" gorm:"foreignKey:WishlistID;constraint:OnDelete:CASCADE"`
}

package models

import (
	"time"

	"gorm.io/datatypes"
	"gorm.io/gorm"
)

type CartItem struct {
	gorm.Model
	CartID    uint                        `json:"-"`
	ProductID string                      `json:"productId" gorm:"size:64"`
	Title     string                      `json:"title"`
	Price     float64                     `json:"price"`
	Images    datatypes.JSONSlice[string] `json:"images"`
	Category  string                      `json:"category" gorm:"size:64"`
	Material  string                      `json:"material" gorm:"size:64"`
	Quantity  int                         `json:"quantity" gorm:"default:1"`
	AddedAt   time.Time                   `json:"addedAt"`
}

type Cart struct {
	gorm.Model
	AuthUserID string     `json:"authUserId" gorm:"uniqueIndex;size:64"`
	Items      []CartItem `json:"items" gorm:"foreignKey:CartID;constraint:OnDelete:CASCADE"`
}

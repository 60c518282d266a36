package models

import (
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

type Product struct {
	gorm.Model
	Title       string                      `json:"title" binding:"required"`
	Description string                      `json:"description"`
	Price       float64                     `json:"price" binding:"required"`
	Currency    string                      `json:"currency" gorm:"size:8;default:inr"`
	Images      datatypes.JSONSlice[string] `json:"images"`
	Category    string                      `json:"category" gorm:"size:64;index"`
	Material    string                      `json:"material" gorm:"size:64;index"`
	Dimensions  string                      `json:"dimensions"`
	Status      string                      `json:"status" gorm:"size:32;default:In Stock"`
	Rating      float64                     `json:"rating" gorm:"default:0"`
}

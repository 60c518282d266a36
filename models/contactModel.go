package models

import "gorm.io/gorm"

type Contact struct {
	gorm.Model
	FirstName string `json:"firstName"`
	LastName  string `json:"lastName"`
	Email     string `json:"email" gorm:"size:128"`
	Message   string `json:"message" gorm:"type:text"`
	UserID    string `json:"userId" gorm:"size:64"`
	Status    string `json:"status" gorm:"size:32;default:new"`
}

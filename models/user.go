package models

import "gorm.io/gorm"

type User struct {
	gorm.Model
	FullName    string `gorm:"not null"`
	Email       string `gorm:"uniqueIndex;size:191;not null"`
	Phone       string `gorm:"index;size:32"`
	Password    string `gorm:"not null"`
	Role        string `gorm:"size:16"`
	Addresses   []Address
	LoginTokens []LoginToken
}

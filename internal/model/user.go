package model

import (
	"gorm.io/gorm"
)

type User struct {
	gorm.Model
	FirstName    string     `gorm:"column:first_name;size:255;not null"`
	LastName     string     `gorm:"column:last_name;size:255;not null"`
	Name         string     `gorm:"column:name;size:511;not null"`
	Email        string     `gorm:"column:email;size:255;uniqueIndex;not null"`
	MobileNumber string     `gorm:"column:mobile_number;size:30;uniqueIndex;not null"`
	Password     string     `gorm:"column:password;not null" json:"-"`
	APITokens    []APIToken `gorm:"foreignKey:UserID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE;" json:"-"`
}

package models

import "time"

// User represents the user model in the database
type User struct {
	Base
	Email               string      `gorm:"uniqueIndex;not null" json:"email"`
	Username            string      `gorm:"uniqueIndex;not null" json:"username"`
	Password            string      `gorm:"not null" json:"-"`
	IsActive            bool        `gorm:"default:true" json:"is_active"`
	RefreshTokenHash    string      `gorm:"size:64" json:"-"`
	FailedLoginAttempts int         `gorm:"default:0" json:"-"`
	LockedUntil         *time.Time  `json:"-"`
	LastLoginAt         *time.Time  `json:"last_login_at,omitempty"`
	Sectors             []Sector    `gorm:"foreignKey:UserID" json:"sectors,omitempty"`
	Alerts              []UserAlert `gorm:"foreignKey:UserID" json:"alerts,omitempty"`
}

package models

// Sector is a user-defined bucket for grouping alerts (e.g. "Banking", "IT").
type Sector struct {
	Base
	UserID string `gorm:"type:uuid;not null;uniqueIndex:uq_sectors_user_name" json:"user_id"`
	Name   string `gorm:"not null;uniqueIndex:uq_sectors_user_name" json:"name"`
}

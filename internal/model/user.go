package model

import "time"

// User stores account and profile data of a task owner.
type User struct {
	ID           string `gorm:"primaryKey;size:36"`
	Username     string `gorm:"size:64;uniqueIndex;not null"`
	Email        string `gorm:"size:255;uniqueIndex;not null"`
	FirstName    string `gorm:"size:100;not null"`
	LastName     string `gorm:"size:100;not null"`
	PasswordHash string `gorm:"size:255;not null"`
	Tasks        []Task `gorm:"foreignKey:OwnerID"`
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

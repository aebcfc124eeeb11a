package model

import "time"

// Task represents a single unit of work on a board.
type Task struct {
	ID          uint      `gorm:"primaryKey"`
	Title       string    `gorm:"not null"`
	Description string    `gorm:"type:text;not null"`
	CreatedOn   time.Time `gorm:"not null"`
	BoardID     uint      `gorm:"index;not null"`
	Board       Board     `gorm:"foreignKey:BoardID"`
	OwnerID     string    `gorm:"size:36;index;not null"`
	Owner       User      `gorm:"foreignKey:OwnerID"`
}

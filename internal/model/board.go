package model

// Board is a named grouping container for tasks.
type Board struct {
	ID    uint   `gorm:"primaryKey"`
	Name  string `gorm:"size:100;not null;uniqueIndex"`
	Tasks []Task `gorm:"foreignKey:BoardID"`
}

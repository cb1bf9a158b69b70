package models

import "time"

// IDCounter holds the last sequential number handed out per entity.
type IDCounter struct {
	Entity    string    `gorm:"column:entity;primaryKey"`
	Value     int64     `gorm:"column:value;not null"`
	UpdatedAt time.Time `gorm:"column:updated_at;not null"`
}

func (IDCounter) TableName() string { return "id_counters" }

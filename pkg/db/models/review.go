package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/crumbhouse/bakery-backend/pkg/enums"
)

type Review struct {
	ID        uuid.UUID          `gorm:"column:id;type:uuid;primaryKey" json:"id"`
	Name      string             `gorm:"column:name;not null" json:"name"`
	Email     string             `gorm:"column:email;not null" json:"email"`
	Product   string             `gorm:"column:product;not null" json:"product"`
	Rating    int                `gorm:"column:rating;not null" json:"rating"`
	Review    string             `gorm:"column:review;not null" json:"review"`
	Status    enums.ReviewStatus `gorm:"column:status;not null;default:'Pending'" json:"status"`
	CreatedAt time.Time          `gorm:"column:created_at;autoCreateTime;index" json:"createdAt"`
	UpdatedAt time.Time          `gorm:"column:updated_at;autoUpdateTime" json:"updatedAt"`
}

func (r *Review) BeforeCreate(*gorm.DB) error {
	ensureID(&r.ID)
	return nil
}

package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/crumbhouse/bakery-backend/pkg/enums"
)

// Complaint is a customer service ticket. OrderRef is free text.
type Complaint struct {
	ID        uuid.UUID             `gorm:"column:id;type:uuid;primaryKey" json:"id"`
	Name      string                `gorm:"column:name;not null" json:"name"`
	Email     string                `gorm:"column:email;not null" json:"email"`
	OrderRef  string                `gorm:"column:order_ref" json:"orderRef,omitempty"`
	Subject   string                `gorm:"column:subject;not null" json:"subject"`
	Message   string                `gorm:"column:message;not null" json:"message"`
	Status    enums.ComplaintStatus `gorm:"column:status;not null;default:'Open';index" json:"status"`
	CreatedAt time.Time             `gorm:"column:created_at;autoCreateTime;index" json:"createdAt"`
	UpdatedAt time.Time             `gorm:"column:updated_at;autoUpdateTime" json:"updatedAt"`
}

func (c *Complaint) BeforeCreate(*gorm.DB) error {
	ensureID(&c.ID)
	return nil
}

package domain

import (
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/smallbiznis/voltara/internal/tariff"
)

// ConsumerStatus represents consumer lifecycle states.
type ConsumerStatus string

const (
	StatusActive   ConsumerStatus = "active"
	StatusInactive ConsumerStatus = "inactive"
)

// Consumer is a registered account on a tariff plan. The plan is fixed at
// registration; consumers are deactivated, never deleted.
type Consumer struct {
	ID         snowflake.ID   `gorm:"primaryKey" json:"id"`
	ConsumerNo int64          `gorm:"not null;uniqueIndex" json:"consumer_no"`
	Name       string         `gorm:"not null" json:"name"`
	Address    string         `gorm:"type:text" json:"address"`
	PlanCode   tariff.Code    `gorm:"type:text;not null" json:"plan_code"`
	Status     ConsumerStatus `gorm:"type:text;not null;default:'active'" json:"status"`
	CreatedAt  time.Time      `gorm:"not null;default:CURRENT_TIMESTAMP" json:"created_at"`
	UpdatedAt  time.Time      `gorm:"not null;default:CURRENT_TIMESTAMP" json:"updated_at"`
}

// TableName sets the database table name.
func (Consumer) TableName() string { return "consumers" }

package domain

import (
	"errors"
	"time"

	"github.com/bwmarrin/snowflake"
)

// Health represents meter health states.
type Health string

const (
	HealthGood             Health = "good"
	HealthNeedsMaintenance Health = "needs_maintenance"
)

// ErrStaleReading rejects a reading below the last recorded one. The meter
// is left untouched; readings never decrease.
var ErrStaleReading = errors.New("stale_reading")

// Meter is bound to one consumer at installation and tracks the cumulative
// register value of the physical device.
type Meter struct {
	ID            snowflake.ID `gorm:"primaryKey" json:"id"`
	MeterNo       int64        `gorm:"not null;uniqueIndex" json:"meter_no"`
	ConsumerID    snowflake.ID `gorm:"not null;index" json:"consumer_id"`
	LastReading   int64        `gorm:"not null;default:0" json:"last_reading"`
	LastReadingAt time.Time    `gorm:"not null" json:"last_reading_at"`
	Health        Health       `gorm:"type:text;not null;default:'good'" json:"health"`
	CreatedAt     time.Time    `gorm:"not null;default:CURRENT_TIMESTAMP" json:"created_at"`
	UpdatedAt     time.Time    `gorm:"not null;default:CURRENT_TIMESTAMP" json:"updated_at"`
}

// TableName sets the database table name.
func (Meter) TableName() string { return "meters" }

// Record applies a new register reading. A reading below the current value
// is stale and leaves both the reading and its date unchanged.
func (m *Meter) Record(reading int64, now time.Time) error {
	if reading < m.LastReading {
		return ErrStaleReading
	}
	m.LastReading = reading
	m.LastReadingAt = now
	return nil
}

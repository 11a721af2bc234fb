// Package sequence allocates the human-facing account, meter and bill
// numbers. Each entity draws from its own row so numbers stay sequential
// from a fixed base regardless of how many snowflake IDs are minted.
package sequence

import (
	"context"
	"errors"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

const (
	Consumers = "consumers"
	Meters    = "meters"
	Bills     = "bills"
)

var ErrUnknownSequence = errors.New("unknown_sequence")

// Sequence is a named counter row. NextNo is the number the next allocation
// returns.
type Sequence struct {
	Name      string    `gorm:"primaryKey;type:text"`
	NextNo    int64     `gorm:"not null"`
	UpdatedAt time.Time `gorm:"not null;default:CURRENT_TIMESTAMP"`
}

// TableName sets the database table name.
func (Sequence) TableName() string { return "sequences" }

// Defaults returns the seed rows with the fixed bases.
func Defaults() []Sequence {
	return []Sequence{
		{Name: Consumers, NextNo: 1000},
		{Name: Meters, NextNo: 5000},
		{Name: Bills, NextNo: 2000},
	}
}

type Allocator struct{}

func NewAllocator() *Allocator {
	return &Allocator{}
}

// Next returns the current number for the named sequence and advances it.
// Callers are expected to run it inside the transaction that persists the
// entity so an aborted insert does not burn a number.
func (a *Allocator) Next(ctx context.Context, db *gorm.DB, name string) (int64, error) {
	result := db.WithContext(ctx).Exec(
		`UPDATE sequences SET next_no = next_no + 1, updated_at = CURRENT_TIMESTAMP WHERE name = ?`,
		name,
	)
	if result.Error != nil {
		return 0, result.Error
	}
	if result.RowsAffected == 0 {
		return 0, ErrUnknownSequence
	}

	var next int64
	err := db.WithContext(ctx).Raw(
		`SELECT next_no FROM sequences WHERE name = ?`,
		name,
	).Scan(&next).Error
	if err != nil {
		return 0, err
	}
	return next - 1, nil
}

// EnsureDefaults seeds the sequence rows, leaving existing counters alone.
func EnsureDefaults(ctx context.Context, db *gorm.DB) error {
	rows := Defaults()
	return db.WithContext(ctx).
		Clauses(clause.OnConflict{DoNothing: true}).
		Create(&rows).Error
}

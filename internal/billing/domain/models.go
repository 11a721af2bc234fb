// Package domain contains the bill model and its state machine.
package domain

import (
	"errors"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/smallbiznis/voltara/internal/tariff"
)

// BillStatus represents bill lifecycle states.
type BillStatus string

const (
	StatusUnpaid BillStatus = "unpaid"
	StatusPaid   BillStatus = "paid"
	StatusLate   BillStatus = "late"
)

// ErrInsufficientPayment rejects a payment below the outstanding amount.
// The bill keeps its current state, late or not.
var ErrInsufficientPayment = errors.New("insufficient_payment")

// Bill is one billing event for a consumer. Amount only ever grows, by the
// late fee; bills are never deleted.
type Bill struct {
	ID         snowflake.ID `gorm:"primaryKey" json:"id"`
	BillNo     int64        `gorm:"not null;uniqueIndex" json:"bill_no"`
	ConsumerID snowflake.ID `gorm:"not null;index" json:"consumer_id"`
	PlanCode   tariff.Code  `gorm:"type:text;not null" json:"plan_code"`
	Units      int64        `gorm:"not null" json:"units"`
	Amount     int64        `gorm:"not null" json:"amount"`
	Currency   string       `gorm:"type:text;not null" json:"currency"`
	Status     BillStatus   `gorm:"type:text;not null;default:'unpaid'" json:"status"`
	IssuedAt   time.Time    `gorm:"not null" json:"issued_at"`
	DueAt      time.Time    `gorm:"not null;index" json:"due_at"`
	PaidAt     *time.Time   `json:"paid_at,omitempty"`
	CreatedAt  time.Time    `gorm:"not null;default:CURRENT_TIMESTAMP" json:"created_at"`
	UpdatedAt  time.Time    `gorm:"not null;default:CURRENT_TIMESTAMP" json:"updated_at"`
}

// TableName sets the database table name.
func (Bill) TableName() string { return "bills" }

// RecordPayment settles the bill when the payment covers the full amount.
// The comparison is state-independent: a late bill is paid off the same way
// an unpaid one is. A short payment changes nothing.
func (b *Bill) RecordPayment(payment int64, now time.Time) error {
	if payment < b.Amount {
		return ErrInsufficientPayment
	}
	b.Status = StatusPaid
	b.PaidAt = &now
	return nil
}

// ApplySurcharge escalates an unpaid bill past its due date: the late fee is
// added once and the bill moves to late. The unpaid guard makes repeated
// sweeps a no-op, so the fee cannot stack.
func (b *Bill) ApplySurcharge(now time.Time, fee int64) bool {
	if b.Status != StatusUnpaid || !now.After(b.DueAt) {
		return false
	}
	b.Amount += fee
	b.Status = StatusLate
	return true
}

// Overdue reports whether the bill is past due at the given time.
func (b *Bill) Overdue(now time.Time) bool {
	return now.After(b.DueAt)
}

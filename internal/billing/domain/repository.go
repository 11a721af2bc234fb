package domain

import (
	"context"
	"time"

	"github.com/smallbiznis/voltara/internal/tariff"
	"github.com/smallbiznis/voltara/pkg/db/pagination"
	"gorm.io/gorm"
)

// AgingRow is a bill joined with its consumer for the aging report.
type AgingRow struct {
	BillNo     int64       `json:"bill_no"`
	ConsumerNo int64       `json:"consumer_no"`
	Consumer   string      `json:"consumer"`
	PlanCode   tariff.Code `json:"plan_code"`
	Units      int64       `json:"units"`
	Amount     int64       `json:"amount"`
	Status     BillStatus  `json:"status"`
	DueAt      time.Time   `json:"due_at"`
}

// RevenueRow is a per-plan revenue aggregate.
type RevenueRow struct {
	PlanCode string `json:"plan_code"`
	Revenue  int64  `json:"revenue"`
}

type Repository interface {
	Insert(ctx context.Context, db *gorm.DB, bill *Bill) error
	Update(ctx context.Context, db *gorm.DB, bill *Bill) error
	FindByNo(ctx context.Context, db *gorm.DB, billNo int64) (*Bill, error)
	List(ctx context.Context, db *gorm.DB, filter ListFilter, page pagination.Pagination) ([]*Bill, error)
	ListOverdueUnpaid(ctx context.Context, db *gorm.DB, asOf time.Time) ([]*Bill, error)
	ListOutstanding(ctx context.Context, db *gorm.DB) ([]AgingRow, error)
	SumRevenueByPlan(ctx context.Context, db *gorm.DB) ([]RevenueRow, error)
}

type ListFilter struct {
	ConsumerID string
	Status     string
}

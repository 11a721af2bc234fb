package domain

import (
	"context"
	"errors"

	"github.com/smallbiznis/voltara/pkg/db/pagination"
)

type GenerateBillRequest struct {
	MeterID string
	Reading int64
	Peak    bool
}

type PostPaymentRequest struct {
	BillNo int64
	Amount int64
}

type ListBillRequest struct {
	PageToken  string
	PageSize   int
	ConsumerID string
	Status     string
}

type ListBillResponse struct {
	pagination.PageInfo
	Bills []Bill `json:"bills"`
}

// DunningResult summarizes one dunning sweep.
type DunningResult struct {
	Swept     int `json:"swept"`
	Escalated int `json:"escalated"`
}

// AgingBucket groups outstanding bills by days overdue.
type AgingBucket struct {
	Label string     `json:"label"`
	Bills []AgingRow `json:"bills"`
	Total int64      `json:"total"`
}

// AgingReport lists every bill not yet fully paid, in bill-number order,
// plus the same rows grouped into configured day buckets.
type AgingReport struct {
	Bills       int64         `json:"outstanding_bills"`
	Total       int64         `json:"outstanding_amount"`
	Currency    string        `json:"currency"`
	Outstanding []AgingRow    `json:"outstanding"`
	Buckets     []AgingBucket `json:"buckets"`
}

// RevenueReport maps plan code to collected revenue. Bills still unpaid
// contribute nothing until collected or escalated.
type RevenueReport struct {
	Currency string       `json:"currency"`
	Plans    []RevenueRow `json:"plans"`
	Total    int64        `json:"total"`
}

type Service interface {
	GenerateBill(context.Context, GenerateBillRequest) (Bill, error)
	PostPayment(context.Context, PostPaymentRequest) (Bill, error)
	ApplyDunning(ctx context.Context) (DunningResult, error)
	AgingReport(ctx context.Context) (AgingReport, error)
	RevenueByPlan(ctx context.Context) (RevenueReport, error)
	GetByNo(ctx context.Context, billNo int64) (Bill, error)
	List(context.Context, ListBillRequest) (ListBillResponse, error)
}

var (
	ErrInvalidID     = errors.New("invalid_id")
	ErrInvalidAmount = errors.New("invalid_amount")
	ErrBillNotFound  = errors.New("bill_not_found")
)

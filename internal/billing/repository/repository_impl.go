package repository

import (
	"context"
	"strconv"
	"time"

	billingdomain "github.com/smallbiznis/voltara/internal/billing/domain"
	"github.com/smallbiznis/voltara/pkg/db/pagination"
	"gorm.io/gorm"
)

type repo struct{}

func Provide() billingdomain.Repository {
	return &repo{}
}

func (r *repo) Insert(ctx context.Context, db *gorm.DB, b *billingdomain.Bill) error {
	return db.WithContext(ctx).Exec(
		`INSERT INTO bills (id, bill_no, consumer_id, plan_code, units, amount, currency, status, issued_at, due_at, paid_at, created_at, updated_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		b.ID,
		b.BillNo,
		b.ConsumerID,
		b.PlanCode,
		b.Units,
		b.Amount,
		b.Currency,
		b.Status,
		b.IssuedAt,
		b.DueAt,
		b.PaidAt,
		b.CreatedAt,
		b.UpdatedAt,
	).Error
}

func (r *repo) Update(ctx context.Context, db *gorm.DB, b *billingdomain.Bill) error {
	return db.WithContext(ctx).Exec(
		`UPDATE bills
		 SET amount = ?, status = ?, paid_at = ?, updated_at = CURRENT_TIMESTAMP
		 WHERE id = ?`,
		b.Amount,
		b.Status,
		b.PaidAt,
		b.ID,
	).Error
}

func (r *repo) FindByNo(ctx context.Context, db *gorm.DB, billNo int64) (*billingdomain.Bill, error) {
	var bill billingdomain.Bill
	err := db.WithContext(ctx).Raw(
		`SELECT id, bill_no, consumer_id, plan_code, units, amount, currency, status, issued_at, due_at, paid_at, created_at, updated_at
		 FROM bills WHERE bill_no = ?`,
		billNo,
	).Scan(&bill).Error
	if err != nil {
		return nil, err
	}
	if bill.ID == 0 {
		return nil, nil
	}
	return &bill, nil
}

func (r *repo) List(ctx context.Context, db *gorm.DB, filter billingdomain.ListFilter, page pagination.Pagination) ([]*billingdomain.Bill, error) {
	var bills []*billingdomain.Bill
	stmt := db.WithContext(ctx).Model(&billingdomain.Bill{})

	if filter.ConsumerID != "" {
		stmt = stmt.Where("consumer_id = ?", filter.ConsumerID)
	}
	if filter.Status != "" {
		stmt = stmt.Where("status = ?", filter.Status)
	}

	if page.PageToken != "" {
		cursor, err := pagination.DecodeCursor(page.PageToken)
		if err != nil {
			return nil, err
		}
		lastNo, err := strconv.ParseInt(cursor.ID, 10, 64)
		if err != nil {
			return nil, err
		}
		stmt = stmt.Where("bill_no > ?", lastNo)
	}
	if page.PageSize > 0 {
		stmt = stmt.Limit(page.PageSize + 1)
	}
	stmt = stmt.Order("bill_no asc")

	if err := stmt.Find(&bills).Error; err != nil {
		return nil, err
	}
	return bills, nil
}

func (r *repo) ListOverdueUnpaid(ctx context.Context, db *gorm.DB, asOf time.Time) ([]*billingdomain.Bill, error) {
	var bills []*billingdomain.Bill
	err := db.WithContext(ctx).
		Model(&billingdomain.Bill{}).
		Where("status = ? AND due_at < ?", billingdomain.StatusUnpaid, asOf).
		Order("bill_no asc").
		Find(&bills).Error
	if err != nil {
		return nil, err
	}
	return bills, nil
}

func (r *repo) ListOutstanding(ctx context.Context, db *gorm.DB) ([]billingdomain.AgingRow, error) {
	var rows []billingdomain.AgingRow
	err := db.WithContext(ctx).Raw(
		`SELECT b.bill_no, c.consumer_no, c.name AS consumer, b.plan_code, b.units, b.amount, b.status, b.due_at
		 FROM bills b
		 JOIN consumers c ON c.id = b.consumer_id
		 WHERE b.status <> ?
		 ORDER BY b.bill_no ASC`,
		billingdomain.StatusPaid,
	).Scan(&rows).Error
	if err != nil {
		return nil, err
	}
	return rows, nil
}

func (r *repo) SumRevenueByPlan(ctx context.Context, db *gorm.DB) ([]billingdomain.RevenueRow, error) {
	var rows []billingdomain.RevenueRow
	err := db.WithContext(ctx).Raw(
		`SELECT plan_code, SUM(amount) AS revenue
		 FROM bills
		 WHERE status IN (?, ?)
		 GROUP BY plan_code
		 ORDER BY plan_code ASC`,
		billingdomain.StatusPaid,
		billingdomain.StatusLate,
	).Scan(&rows).Error
	if err != nil {
		return nil, err
	}
	return rows, nil
}

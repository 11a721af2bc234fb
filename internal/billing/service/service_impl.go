package service

import (
	"context"
	"strconv"
	"strings"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/smallbiznis/voltara/internal/billing/domain"
	"github.com/smallbiznis/voltara/internal/clock"
	"github.com/smallbiznis/voltara/internal/config"
	consumerdomain "github.com/smallbiznis/voltara/internal/consumer/domain"
	meterdomain "github.com/smallbiznis/voltara/internal/meter/domain"
	"github.com/smallbiznis/voltara/internal/observability/metrics"
	"github.com/smallbiznis/voltara/internal/sequence"
	"github.com/smallbiznis/voltara/internal/tariff"
	"github.com/smallbiznis/voltara/pkg/db/pagination"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type Params struct {
	fx.In

	DB           *gorm.DB
	Log          *zap.Logger
	GenID        *snowflake.Node
	Clock        clock.Clock
	Repo         domain.Repository
	MeterRepo    meterdomain.Repository
	ConsumerRepo consumerdomain.Repository
	Plans        *tariff.Registry
	Seq          *sequence.Allocator
	BillingCfg   *config.BillingConfigHolder
}

type Service struct {
	db           *gorm.DB
	log          *zap.Logger
	genID        *snowflake.Node
	clock        clock.Clock
	repo         domain.Repository
	meterRepo    meterdomain.Repository
	consumerRepo consumerdomain.Repository
	plans        *tariff.Registry
	seq          *sequence.Allocator
	billingCfg   *config.BillingConfigHolder
}

func New(p Params) domain.Service {
	return &Service{
		db:           p.DB,
		log:          p.Log.Named("billing.service"),
		genID:        p.GenID,
		clock:        p.Clock,
		repo:         p.Repo,
		meterRepo:    p.MeterRepo,
		consumerRepo: p.ConsumerRepo,
		plans:        p.Plans,
		seq:          p.Seq,
		billingCfg:   p.BillingCfg,
	}
}

// GenerateBill turns a meter reading into a priced bill. The reading update
// and the bill insert share one transaction: a stale reading aborts the whole
// thing, so no bill exists without its reading and vice versa.
func (s *Service) GenerateBill(ctx context.Context, req domain.GenerateBillRequest) (domain.Bill, error) {
	if req.Reading < 0 {
		return domain.Bill{}, meterdomain.ErrInvalidReading
	}

	meterID, err := parseID(req.MeterID)
	if err != nil {
		return domain.Bill{}, domain.ErrInvalidID
	}

	cfg := s.billingCfg.Get()

	var bill domain.Bill
	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		meter, err := s.meterRepo.FindByID(ctx, tx, meterID)
		if err != nil {
			return err
		}
		if meter == nil {
			return meterdomain.ErrNotFound
		}

		consumer, err := s.consumerRepo.FindByID(ctx, tx, meter.ConsumerID)
		if err != nil {
			return err
		}
		if consumer == nil {
			return consumerdomain.ErrNotFound
		}

		plan, err := s.plans.Resolve(consumer.PlanCode)
		if err != nil {
			return err
		}

		now := s.clock.Now()
		consumed := req.Reading - meter.LastReading
		if err := meter.Record(req.Reading, now); err != nil {
			s.log.Warn("bill generation rejected",
				zap.Int64("meter_no", meter.MeterNo),
				zap.Int64("reading", req.Reading),
				zap.Int64("last_reading", meter.LastReading),
				zap.Error(err),
			)
			return err
		}
		if err := s.meterRepo.UpdateReading(ctx, tx, meter); err != nil {
			return err
		}

		billNo, err := s.seq.Next(ctx, tx, sequence.Bills)
		if err != nil {
			return err
		}

		bill = domain.Bill{
			ID:         s.genID.Generate(),
			BillNo:     billNo,
			ConsumerID: consumer.ID,
			PlanCode:   plan.Code(),
			Units:      consumed,
			Amount:     plan.ChargeAt(consumed, req.Peak),
			Currency:   cfg.Currency,
			Status:     domain.StatusUnpaid,
			IssuedAt:   now,
			DueAt:      now.AddDate(0, 0, cfg.DueDays),
			CreatedAt:  now,
			UpdatedAt:  now,
		}
		return s.repo.Insert(ctx, tx, &bill)
	})
	if err != nil {
		return domain.Bill{}, err
	}

	s.log.Info("bill generated",
		zap.Int64("bill_no", bill.BillNo),
		zap.String("plan_code", string(bill.PlanCode)),
		zap.Int64("units", bill.Units),
		zap.Int64("amount", bill.Amount),
	)
	return bill, nil
}

func (s *Service) PostPayment(ctx context.Context, req domain.PostPaymentRequest) (domain.Bill, error) {
	if req.Amount < 0 {
		return domain.Bill{}, domain.ErrInvalidAmount
	}

	bill, err := s.repo.FindByNo(ctx, s.db, req.BillNo)
	if err != nil {
		return domain.Bill{}, err
	}
	if bill == nil {
		return domain.Bill{}, domain.ErrBillNotFound
	}

	if err := bill.RecordPayment(req.Amount, s.clock.Now()); err != nil {
		s.log.Warn("payment rejected",
			zap.Int64("bill_no", bill.BillNo),
			zap.Int64("amount", req.Amount),
			zap.Int64("outstanding", bill.Amount),
		)
		return domain.Bill{}, err
	}

	if err := s.repo.Update(ctx, s.db, bill); err != nil {
		return domain.Bill{}, err
	}

	s.log.Info("payment posted",
		zap.Int64("bill_no", bill.BillNo),
		zap.Int64("amount", req.Amount),
	)
	return *bill, nil
}

// ApplyDunning sweeps unpaid bills past their due date, adding the late fee
// and escalating each to late. Safe to run repeatedly.
func (s *Service) ApplyDunning(ctx context.Context) (domain.DunningResult, error) {
	now := s.clock.Now()
	cfg := s.billingCfg.Get()

	overdue, err := s.repo.ListOverdueUnpaid(ctx, s.db, now)
	if err != nil {
		return domain.DunningResult{}, err
	}

	result := domain.DunningResult{Swept: len(overdue)}
	for _, bill := range overdue {
		if !bill.ApplySurcharge(now, cfg.LateFeeCents) {
			continue
		}
		if err := s.repo.Update(ctx, s.db, bill); err != nil {
			return result, err
		}
		result.Escalated++
		s.log.Info("bill escalated",
			zap.Int64("bill_no", bill.BillNo),
			zap.Int64("amount", bill.Amount),
			zap.Time("due_at", bill.DueAt),
		)
	}

	metrics.Scheduler().AddBillsEscalated(result.Escalated)
	return result, nil
}

// AgingReport lists every bill not fully paid, in bill-number order, then
// groups the same rows into the configured days-overdue buckets.
func (s *Service) AgingReport(ctx context.Context) (domain.AgingReport, error) {
	rows, err := s.repo.ListOutstanding(ctx, s.db)
	if err != nil {
		return domain.AgingReport{}, err
	}

	now := s.clock.Now()
	cfg := s.billingCfg.Get()

	report := domain.AgingReport{
		Bills:       int64(len(rows)),
		Currency:    cfg.Currency,
		Outstanding: rows,
		Buckets:     make([]domain.AgingBucket, 0, len(cfg.AgingBuckets)),
	}
	for _, row := range rows {
		report.Total += row.Amount
	}

	for _, bucket := range cfg.AgingBuckets {
		out := domain.AgingBucket{Label: bucket.Label, Bills: []domain.AgingRow{}}
		for _, row := range rows {
			days := daysOverdue(now, row.DueAt)
			if days < bucket.MinDays {
				continue
			}
			if bucket.MaxDays != nil && days > *bucket.MaxDays {
				continue
			}
			out.Bills = append(out.Bills, row)
			out.Total += row.Amount
		}
		report.Buckets = append(report.Buckets, out)
	}
	return report, nil
}

// RevenueByPlan totals collected revenue per plan. Only paid and late bills
// count; unpaid bills contribute nothing until settled.
func (s *Service) RevenueByPlan(ctx context.Context) (domain.RevenueReport, error) {
	rows, err := s.repo.SumRevenueByPlan(ctx, s.db)
	if err != nil {
		return domain.RevenueReport{}, err
	}

	report := domain.RevenueReport{
		Currency: s.billingCfg.Get().Currency,
		Plans:    rows,
	}
	for _, row := range rows {
		report.Total += row.Revenue
	}
	return report, nil
}

func (s *Service) GetByNo(ctx context.Context, billNo int64) (domain.Bill, error) {
	bill, err := s.repo.FindByNo(ctx, s.db, billNo)
	if err != nil {
		return domain.Bill{}, err
	}
	if bill == nil {
		return domain.Bill{}, domain.ErrBillNotFound
	}
	return *bill, nil
}

func (s *Service) List(ctx context.Context, req domain.ListBillRequest) (domain.ListBillResponse, error) {
	page := pagination.Pagination{
		PageToken: req.PageToken,
		PageSize:  req.PageSize,
	}
	filter := domain.ListFilter{
		ConsumerID: strings.TrimSpace(req.ConsumerID),
		Status:     strings.ToLower(strings.TrimSpace(req.Status)),
	}

	items, err := s.repo.List(ctx, s.db, filter, page)
	if err != nil {
		return domain.ListBillResponse{}, err
	}

	pageInfo := pagination.BuildCursorPageInfo(items, page.PageSize, func(b *domain.Bill) string {
		token, _ := pagination.EncodeCursor(pagination.Cursor{
			ID: strconv.FormatInt(b.BillNo, 10),
		})
		return token
	})

	if page.PageSize > 0 && len(items) > page.PageSize {
		items = items[:page.PageSize]
	}

	bills := make([]domain.Bill, 0, len(items))
	for _, item := range items {
		if item == nil {
			continue
		}
		bills = append(bills, *item)
	}

	return domain.ListBillResponse{
		PageInfo: *pageInfo,
		Bills:    bills,
	}, nil
}

// daysOverdue counts whole days elapsed since the due date. Bills not yet
// due land in the first bucket at zero.
func daysOverdue(now, dueAt time.Time) int {
	if !now.After(dueAt) {
		return 0
	}
	return int(now.Sub(dueAt).Hours() / 24)
}

func parseID(value string) (snowflake.ID, error) {
	return snowflake.ParseString(strings.TrimSpace(value))
}

package service

import (
	"context"
	"strings"

	"github.com/bwmarrin/snowflake"
	"github.com/smallbiznis/voltara/internal/clock"
	consumerdomain "github.com/smallbiznis/voltara/internal/consumer/domain"
	"github.com/smallbiznis/voltara/internal/meter/domain"
	"github.com/smallbiznis/voltara/internal/sequence"
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
	ConsumerRepo consumerdomain.Repository
	Seq          *sequence.Allocator
}

type Service struct {
	db           *gorm.DB
	log          *zap.Logger
	genID        *snowflake.Node
	clock        clock.Clock
	repo         domain.Repository
	consumerRepo consumerdomain.Repository
	seq          *sequence.Allocator
}

func New(p Params) domain.Service {
	return &Service{
		db:           p.DB,
		log:          p.Log.Named("meter.service"),
		genID:        p.GenID,
		clock:        p.Clock,
		repo:         p.Repo,
		consumerRepo: p.ConsumerRepo,
		seq:          p.Seq,
	}
}

func (s *Service) Install(ctx context.Context, req domain.InstallMeterRequest) (domain.Meter, error) {
	consumerID, err := parseID(req.ConsumerID)
	if err != nil {
		return domain.Meter{}, domain.ErrInvalidID
	}

	consumer, err := s.consumerRepo.FindByID(ctx, s.db, consumerID)
	if err != nil {
		return domain.Meter{}, err
	}
	if consumer == nil {
		return domain.Meter{}, consumerdomain.ErrNotFound
	}

	now := s.clock.Now()
	meter := domain.Meter{
		ID:         s.genID.Generate(),
		ConsumerID: consumer.ID,
		// Fresh installs carry a zero register dated a month back so the
		// first billing period has a start point.
		LastReading:   0,
		LastReadingAt: now.AddDate(0, -1, 0),
		Health:        domain.HealthGood,
		CreatedAt:     now,
		UpdatedAt:     now,
	}

	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		meterNo, err := s.seq.Next(ctx, tx, sequence.Meters)
		if err != nil {
			return err
		}
		meter.MeterNo = meterNo
		return s.repo.Insert(ctx, tx, &meter)
	})
	if err != nil {
		return domain.Meter{}, err
	}

	s.log.Info("meter installed",
		zap.Int64("meter_no", meter.MeterNo),
		zap.Int64("consumer_no", consumer.ConsumerNo),
	)
	return meter, nil
}

func (s *Service) RecordReading(ctx context.Context, req domain.RecordReadingRequest) (domain.Meter, error) {
	if req.Reading < 0 {
		return domain.Meter{}, domain.ErrInvalidReading
	}

	meterID, err := parseID(req.MeterID)
	if err != nil {
		return domain.Meter{}, domain.ErrInvalidID
	}

	meter, err := s.repo.FindByID(ctx, s.db, meterID)
	if err != nil {
		return domain.Meter{}, err
	}
	if meter == nil {
		return domain.Meter{}, domain.ErrNotFound
	}

	if err := meter.Record(req.Reading, s.clock.Now()); err != nil {
		s.log.Warn("stale reading rejected",
			zap.Int64("meter_no", meter.MeterNo),
			zap.Int64("reading", req.Reading),
			zap.Int64("last_reading", meter.LastReading),
		)
		return domain.Meter{}, err
	}

	if err := s.repo.UpdateReading(ctx, s.db, meter); err != nil {
		return domain.Meter{}, err
	}
	return *meter, nil
}

func (s *Service) SetHealth(ctx context.Context, req domain.SetHealthRequest) (domain.Meter, error) {
	health, err := parseHealth(req.Health)
	if err != nil {
		return domain.Meter{}, err
	}

	meterID, err := parseID(req.MeterID)
	if err != nil {
		return domain.Meter{}, domain.ErrInvalidID
	}

	meter, err := s.repo.FindByID(ctx, s.db, meterID)
	if err != nil {
		return domain.Meter{}, err
	}
	if meter == nil {
		return domain.Meter{}, domain.ErrNotFound
	}

	if err := s.repo.UpdateHealth(ctx, s.db, meter.ID, health); err != nil {
		return domain.Meter{}, err
	}
	meter.Health = health
	return *meter, nil
}

func (s *Service) GetByID(ctx context.Context, id string) (domain.Meter, error) {
	meterID, err := parseID(id)
	if err != nil {
		return domain.Meter{}, domain.ErrInvalidID
	}

	meter, err := s.repo.FindByID(ctx, s.db, meterID)
	if err != nil {
		return domain.Meter{}, err
	}
	if meter == nil {
		return domain.Meter{}, domain.ErrNotFound
	}
	return *meter, nil
}

func (s *Service) ListByConsumer(ctx context.Context, consumerID string) ([]domain.Meter, error) {
	id, err := parseID(consumerID)
	if err != nil {
		return nil, domain.ErrInvalidID
	}

	items, err := s.repo.ListByConsumer(ctx, s.db, id)
	if err != nil {
		return nil, err
	}

	meters := make([]domain.Meter, 0, len(items))
	for _, item := range items {
		if item == nil {
			continue
		}
		meters = append(meters, *item)
	}
	return meters, nil
}

func parseID(value string) (snowflake.ID, error) {
	return snowflake.ParseString(strings.TrimSpace(value))
}

func parseHealth(value string) (domain.Health, error) {
	switch domain.Health(strings.ToLower(strings.TrimSpace(value))) {
	case domain.HealthGood:
		return domain.HealthGood, nil
	case domain.HealthNeedsMaintenance:
		return domain.HealthNeedsMaintenance, nil
	default:
		return "", domain.ErrInvalidHealth
	}
}

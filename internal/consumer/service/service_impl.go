package service

import (
	"context"
	"strconv"
	"strings"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/smallbiznis/voltara/internal/consumer/domain"
	"github.com/smallbiznis/voltara/internal/sequence"
	"github.com/smallbiznis/voltara/internal/tariff"
	"github.com/smallbiznis/voltara/pkg/db/pagination"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type Params struct {
	fx.In

	DB    *gorm.DB
	Log   *zap.Logger
	GenID *snowflake.Node
	Repo  domain.Repository
	Plans *tariff.Registry
	Seq   *sequence.Allocator
}

type Service struct {
	db    *gorm.DB
	log   *zap.Logger
	genID *snowflake.Node
	repo  domain.Repository
	plans *tariff.Registry
	seq   *sequence.Allocator
}

func New(p Params) domain.Service {
	return &Service{
		db:    p.DB,
		log:   p.Log.Named("consumer.service"),
		genID: p.GenID,
		repo:  p.Repo,
		plans: p.Plans,
		seq:   p.Seq,
	}
}

func (s *Service) Register(ctx context.Context, req domain.RegisterConsumerRequest) (domain.Consumer, error) {
	name := strings.TrimSpace(req.Name)
	if name == "" {
		return domain.Consumer{}, domain.ErrInvalidName
	}
	address := strings.TrimSpace(req.Address)
	if address == "" {
		return domain.Consumer{}, domain.ErrInvalidAddress
	}

	plan, err := s.plans.Resolve(tariff.Code(req.PlanCode))
	if err != nil {
		return domain.Consumer{}, err
	}

	consumer := domain.Consumer{
		ID:       s.genID.Generate(),
		Name:     name,
		Address:  address,
		PlanCode: plan.Code(),
		Status:   domain.StatusActive,
	}

	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		consumerNo, err := s.seq.Next(ctx, tx, sequence.Consumers)
		if err != nil {
			return err
		}
		consumer.ConsumerNo = consumerNo
		now := time.Now().UTC()
		consumer.CreatedAt = now
		consumer.UpdatedAt = now
		return s.repo.Insert(ctx, tx, &consumer)
	})
	if err != nil {
		return domain.Consumer{}, err
	}

	s.log.Info("consumer registered",
		zap.Int64("consumer_no", consumer.ConsumerNo),
		zap.String("plan", string(consumer.PlanCode)),
	)
	return consumer, nil
}

func (s *Service) Deactivate(ctx context.Context, id string) (domain.Consumer, error) {
	consumerID, err := parseID(id)
	if err != nil {
		return domain.Consumer{}, domain.ErrInvalidID
	}

	consumer, err := s.repo.FindByID(ctx, s.db, consumerID)
	if err != nil {
		return domain.Consumer{}, err
	}
	if consumer == nil {
		return domain.Consumer{}, domain.ErrNotFound
	}
	if consumer.Status == domain.StatusInactive {
		return domain.Consumer{}, domain.ErrAlreadyDeactivated
	}

	if err := s.repo.UpdateStatus(ctx, s.db, consumer.ID, domain.StatusInactive); err != nil {
		return domain.Consumer{}, err
	}
	consumer.Status = domain.StatusInactive

	s.log.Info("consumer deactivated", zap.Int64("consumer_no", consumer.ConsumerNo))
	return *consumer, nil
}

func (s *Service) GetByID(ctx context.Context, id string) (domain.Consumer, error) {
	consumerID, err := parseID(id)
	if err != nil {
		return domain.Consumer{}, domain.ErrInvalidID
	}

	consumer, err := s.repo.FindByID(ctx, s.db, consumerID)
	if err != nil {
		return domain.Consumer{}, err
	}
	if consumer == nil {
		return domain.Consumer{}, domain.ErrNotFound
	}
	return *consumer, nil
}

func (s *Service) List(ctx context.Context, req domain.ListConsumerRequest) (domain.ListConsumerResponse, error) {
	pageSize := req.PageSize
	if pageSize <= 0 {
		pageSize = 50
	}

	items, err := s.repo.List(ctx, s.db, domain.ListFilter{
		PlanCode: strings.TrimSpace(req.PlanCode),
		Status:   strings.TrimSpace(req.Status),
	}, pagination.Pagination{
		PageToken: req.PageToken,
		PageSize:  pageSize,
	})
	if err != nil {
		return domain.ListConsumerResponse{}, err
	}

	pageInfo := pagination.BuildCursorPageInfo(items, pageSize, func(c *domain.Consumer) string {
		token, err := pagination.EncodeCursor(pagination.Cursor{
			ID: strconv.FormatInt(c.ConsumerNo, 10),
		})
		if err != nil {
			return ""
		}
		return token
	})
	if pageInfo != nil && pageInfo.HasMore && len(items) > pageSize {
		items = items[:pageSize]
	}

	consumers := make([]domain.Consumer, 0, len(items))
	for _, item := range items {
		if item == nil {
			continue
		}
		consumers = append(consumers, *item)
	}

	resp := domain.ListConsumerResponse{Consumers: consumers}
	if pageInfo != nil {
		resp.PageInfo = *pageInfo
	}
	return resp, nil
}

func parseID(value string) (snowflake.ID, error) {
	return snowflake.ParseString(strings.TrimSpace(value))
}

package domain

import (
	"context"

	"github.com/bwmarrin/snowflake"
	"github.com/smallbiznis/voltara/pkg/db/pagination"
	"gorm.io/gorm"
)

type Repository interface {
	Insert(ctx context.Context, db *gorm.DB, consumer *Consumer) error
	UpdateStatus(ctx context.Context, db *gorm.DB, id snowflake.ID, status ConsumerStatus) error
	FindByID(ctx context.Context, db *gorm.DB, id snowflake.ID) (*Consumer, error)
	FindByNo(ctx context.Context, db *gorm.DB, consumerNo int64) (*Consumer, error)
	List(ctx context.Context, db *gorm.DB, filter ListFilter, page pagination.Pagination) ([]*Consumer, error)
}

type ListFilter struct {
	PlanCode string
	Status   string
}

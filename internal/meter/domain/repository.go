package domain

import (
	"context"

	"github.com/bwmarrin/snowflake"
	"gorm.io/gorm"
)

type Repository interface {
	Insert(ctx context.Context, db *gorm.DB, meter *Meter) error
	UpdateReading(ctx context.Context, db *gorm.DB, meter *Meter) error
	UpdateHealth(ctx context.Context, db *gorm.DB, id snowflake.ID, health Health) error
	FindByID(ctx context.Context, db *gorm.DB, id snowflake.ID) (*Meter, error)
	FindByNo(ctx context.Context, db *gorm.DB, meterNo int64) (*Meter, error)
	ListByConsumer(ctx context.Context, db *gorm.DB, consumerID snowflake.ID) ([]*Meter, error)
}

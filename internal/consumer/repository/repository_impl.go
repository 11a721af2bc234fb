package repository

import (
	"context"
	"strconv"

	"github.com/bwmarrin/snowflake"
	consumerdomain "github.com/smallbiznis/voltara/internal/consumer/domain"
	"github.com/smallbiznis/voltara/pkg/db/pagination"
	"gorm.io/gorm"
)

type repo struct{}

func Provide() consumerdomain.Repository {
	return &repo{}
}

func (r *repo) Insert(ctx context.Context, db *gorm.DB, c *consumerdomain.Consumer) error {
	return db.WithContext(ctx).Exec(
		`INSERT INTO consumers (id, consumer_no, name, address, plan_code, status, created_at, updated_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		c.ID,
		c.ConsumerNo,
		c.Name,
		c.Address,
		c.PlanCode,
		c.Status,
		c.CreatedAt,
		c.UpdatedAt,
	).Error
}

func (r *repo) UpdateStatus(ctx context.Context, db *gorm.DB, id snowflake.ID, status consumerdomain.ConsumerStatus) error {
	return db.WithContext(ctx).Exec(
		`UPDATE consumers SET status = ?, updated_at = CURRENT_TIMESTAMP WHERE id = ?`,
		status,
		id,
	).Error
}

func (r *repo) FindByID(ctx context.Context, db *gorm.DB, id snowflake.ID) (*consumerdomain.Consumer, error) {
	var consumer consumerdomain.Consumer
	err := db.WithContext(ctx).Raw(
		`SELECT id, consumer_no, name, address, plan_code, status, created_at, updated_at
		 FROM consumers WHERE id = ?`,
		id,
	).Scan(&consumer).Error
	if err != nil {
		return nil, err
	}
	if consumer.ID == 0 {
		return nil, nil
	}
	return &consumer, nil
}

func (r *repo) FindByNo(ctx context.Context, db *gorm.DB, consumerNo int64) (*consumerdomain.Consumer, error) {
	var consumer consumerdomain.Consumer
	err := db.WithContext(ctx).Raw(
		`SELECT id, consumer_no, name, address, plan_code, status, created_at, updated_at
		 FROM consumers WHERE consumer_no = ?`,
		consumerNo,
	).Scan(&consumer).Error
	if err != nil {
		return nil, err
	}
	if consumer.ID == 0 {
		return nil, nil
	}
	return &consumer, nil
}

func (r *repo) List(ctx context.Context, db *gorm.DB, filter consumerdomain.ListFilter, page pagination.Pagination) ([]*consumerdomain.Consumer, error) {
	var consumers []*consumerdomain.Consumer
	stmt := db.WithContext(ctx).Model(&consumerdomain.Consumer{})

	if filter.PlanCode != "" {
		stmt = stmt.Where("plan_code = ?", filter.PlanCode)
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
		stmt = stmt.Where("consumer_no > ?", lastNo)
	}
	if page.PageSize > 0 {
		stmt = stmt.Limit(page.PageSize + 1)
	}
	stmt = stmt.Order("consumer_no asc")

	if err := stmt.Find(&consumers).Error; err != nil {
		return nil, err
	}
	return consumers, nil
}

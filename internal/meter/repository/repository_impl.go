package repository

import (
	"context"

	"github.com/bwmarrin/snowflake"
	meterdomain "github.com/smallbiznis/voltara/internal/meter/domain"
	"gorm.io/gorm"
)

type repo struct{}

func Provide() meterdomain.Repository {
	return &repo{}
}

func (r *repo) Insert(ctx context.Context, db *gorm.DB, m *meterdomain.Meter) error {
	return db.WithContext(ctx).Exec(
		`INSERT INTO meters (id, meter_no, consumer_id, last_reading, last_reading_at, health, created_at, updated_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		m.ID,
		m.MeterNo,
		m.ConsumerID,
		m.LastReading,
		m.LastReadingAt,
		m.Health,
		m.CreatedAt,
		m.UpdatedAt,
	).Error
}

func (r *repo) UpdateReading(ctx context.Context, db *gorm.DB, m *meterdomain.Meter) error {
	return db.WithContext(ctx).Exec(
		`UPDATE meters
		 SET last_reading = ?, last_reading_at = ?, updated_at = CURRENT_TIMESTAMP
		 WHERE id = ?`,
		m.LastReading,
		m.LastReadingAt,
		m.ID,
	).Error
}

func (r *repo) UpdateHealth(ctx context.Context, db *gorm.DB, id snowflake.ID, health meterdomain.Health) error {
	return db.WithContext(ctx).Exec(
		`UPDATE meters SET health = ?, updated_at = CURRENT_TIMESTAMP WHERE id = ?`,
		health,
		id,
	).Error
}

func (r *repo) FindByID(ctx context.Context, db *gorm.DB, id snowflake.ID) (*meterdomain.Meter, error) {
	var meter meterdomain.Meter
	err := db.WithContext(ctx).Raw(
		`SELECT id, meter_no, consumer_id, last_reading, last_reading_at, health, created_at, updated_at
		 FROM meters WHERE id = ?`,
		id,
	).Scan(&meter).Error
	if err != nil {
		return nil, err
	}
	if meter.ID == 0 {
		return nil, nil
	}
	return &meter, nil
}

func (r *repo) FindByNo(ctx context.Context, db *gorm.DB, meterNo int64) (*meterdomain.Meter, error) {
	var meter meterdomain.Meter
	err := db.WithContext(ctx).Raw(
		`SELECT id, meter_no, consumer_id, last_reading, last_reading_at, health, created_at, updated_at
		 FROM meters WHERE meter_no = ?`,
		meterNo,
	).Scan(&meter).Error
	if err != nil {
		return nil, err
	}
	if meter.ID == 0 {
		return nil, nil
	}
	return &meter, nil
}

func (r *repo) ListByConsumer(ctx context.Context, db *gorm.DB, consumerID snowflake.ID) ([]*meterdomain.Meter, error) {
	var meters []*meterdomain.Meter
	err := db.WithContext(ctx).
		Model(&meterdomain.Meter{}).
		Where("consumer_id = ?", consumerID).
		Order("meter_no asc").
		Find(&meters).Error
	if err != nil {
		return nil, err
	}
	return meters, nil
}

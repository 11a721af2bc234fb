// Package seed loads demo data for local development.
package seed

import (
	"context"
	"time"

	"github.com/bwmarrin/snowflake"
	consumerdomain "github.com/smallbiznis/voltara/internal/consumer/domain"
	meterdomain "github.com/smallbiznis/voltara/internal/meter/domain"
	"github.com/smallbiznis/voltara/internal/sequence"
	"github.com/smallbiznis/voltara/internal/tariff"
	"gorm.io/gorm"
)

// EnsureDemoData seeds a pair of consumers with installed meters, one per
// plan. It is a no-op when any consumer already exists.
func EnsureDemoData(db *gorm.DB) error {
	var count int64
	if err := db.Model(&consumerdomain.Consumer{}).Count(&count).Error; err != nil {
		return err
	}
	if count > 0 {
		return nil
	}

	node, err := snowflake.NewNode(1)
	if err != nil {
		return err
	}

	demo := []struct {
		name     string
		address  string
		planCode tariff.Code
	}{
		{"Ravi Kumar", "12 MG Road, Bengaluru", tariff.CodeDomestic},
		{"Sharma Traders", "4 Market Street, Pune", tariff.CodeCommercial},
	}

	ctx := context.Background()
	alloc := sequence.NewAllocator()
	now := time.Now().UTC()

	return db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		for _, d := range demo {
			consumerNo, err := alloc.Next(ctx, tx, sequence.Consumers)
			if err != nil {
				return err
			}
			consumer := consumerdomain.Consumer{
				ID:         node.Generate(),
				ConsumerNo: consumerNo,
				Name:       d.name,
				Address:    d.address,
				PlanCode:   d.planCode,
				Status:     consumerdomain.StatusActive,
				CreatedAt:  now,
				UpdatedAt:  now,
			}
			if err := tx.Create(&consumer).Error; err != nil {
				return err
			}

			meterNo, err := alloc.Next(ctx, tx, sequence.Meters)
			if err != nil {
				return err
			}
			meter := meterdomain.Meter{
				ID:            node.Generate(),
				MeterNo:       meterNo,
				ConsumerID:    consumer.ID,
				LastReading:   0,
				LastReadingAt: now.AddDate(0, -1, 0),
				Health:        meterdomain.HealthGood,
				CreatedAt:     now,
				UpdatedAt:     now,
			}
			if err := tx.Create(&meter).Error; err != nil {
				return err
			}
		}
		return nil
	})
}

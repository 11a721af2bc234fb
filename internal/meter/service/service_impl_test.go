package service

import (
	"context"
	"testing"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/glebarez/sqlite"
	"github.com/smallbiznis/voltara/internal/clock"
	consumerdomain "github.com/smallbiznis/voltara/internal/consumer/domain"
	consumerrepo "github.com/smallbiznis/voltara/internal/consumer/repository"
	"github.com/smallbiznis/voltara/internal/meter/domain"
	"github.com/smallbiznis/voltara/internal/meter/repository"
	"github.com/smallbiznis/voltara/internal/sequence"
	"github.com/smallbiznis/voltara/internal/tariff"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"
	"gorm.io/gorm"
)

func newService(t *testing.T, dsn string) (*Service, *clock.FakeClock, *consumerdomain.Consumer) {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	require.NoError(t, err)

	db.Exec(`CREATE TABLE IF NOT EXISTS consumers (
		id BIGINT PRIMARY KEY,
		consumer_no BIGINT NOT NULL UNIQUE,
		name TEXT NOT NULL,
		address TEXT NOT NULL,
		plan_code TEXT NOT NULL,
		status TEXT NOT NULL DEFAULT 'active',
		created_at TIMESTAMP NOT NULL,
		updated_at TIMESTAMP NOT NULL
	)`)
	db.Exec(`CREATE TABLE IF NOT EXISTS meters (
		id BIGINT PRIMARY KEY,
		meter_no BIGINT NOT NULL UNIQUE,
		consumer_id BIGINT NOT NULL,
		last_reading BIGINT NOT NULL DEFAULT 0,
		last_reading_at TIMESTAMP NOT NULL,
		health TEXT NOT NULL DEFAULT 'good',
		created_at TIMESTAMP NOT NULL,
		updated_at TIMESTAMP NOT NULL
	)`)
	db.Exec(`CREATE TABLE IF NOT EXISTS sequences (
		name TEXT PRIMARY KEY,
		next_no BIGINT NOT NULL,
		updated_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP
	)`)
	require.NoError(t, sequence.EnsureDefaults(context.Background(), db))

	node, err := snowflake.NewNode(1)
	require.NoError(t, err)

	fake := clock.NewFakeClock(time.Date(2026, 1, 1, 9, 0, 0, 0, time.UTC))

	consumer := &consumerdomain.Consumer{
		ID:         node.Generate(),
		ConsumerNo: 1000,
		Name:       "Asha Verma",
		Address:    "12 MG Road",
		PlanCode:   tariff.CodeDomestic,
		Status:     consumerdomain.StatusActive,
		CreatedAt:  fake.Now(),
		UpdatedAt:  fake.Now(),
	}
	require.NoError(t, db.Create(consumer).Error)

	svc := &Service{
		db:           db,
		log:          zaptest.NewLogger(t),
		genID:        node,
		clock:        fake,
		repo:         repository.Provide(),
		consumerRepo: consumerrepo.Provide(),
		seq:          sequence.NewAllocator(),
	}
	return svc, fake, consumer
}

func TestInstall(t *testing.T) {
	ctx := context.Background()
	svc, fake, consumer := newService(t, "file:meter_install?mode=memory&cache=shared")

	meter, err := svc.Install(ctx, domain.InstallMeterRequest{ConsumerID: consumer.ID.String()})
	require.NoError(t, err)

	assert.Equal(t, int64(5000), meter.MeterNo)
	assert.Equal(t, consumer.ID, meter.ConsumerID)
	assert.Zero(t, meter.LastReading)
	assert.Equal(t, domain.HealthGood, meter.Health)
	// The register starts dated a month back for the first billing period.
	assert.Equal(t, fake.Now().AddDate(0, -1, 0), meter.LastReadingAt)

	second, err := svc.Install(ctx, domain.InstallMeterRequest{ConsumerID: consumer.ID.String()})
	require.NoError(t, err)
	assert.Equal(t, int64(5001), second.MeterNo)

	_, err = svc.Install(ctx, domain.InstallMeterRequest{ConsumerID: svc.genID.Generate().String()})
	assert.ErrorIs(t, err, consumerdomain.ErrNotFound)
}

func TestRecordReading(t *testing.T) {
	ctx := context.Background()
	svc, fake, consumer := newService(t, "file:meter_reading?mode=memory&cache=shared")

	meter, err := svc.Install(ctx, domain.InstallMeterRequest{ConsumerID: consumer.ID.String()})
	require.NoError(t, err)

	fake.Advance(24 * time.Hour)

	updated, err := svc.RecordReading(ctx, domain.RecordReadingRequest{
		MeterID: meter.ID.String(),
		Reading: 120,
	})
	require.NoError(t, err)
	assert.Equal(t, int64(120), updated.LastReading)
	assert.Equal(t, fake.Now(), updated.LastReadingAt)

	t.Run("stale reading leaves the register untouched", func(t *testing.T) {
		_, err := svc.RecordReading(ctx, domain.RecordReadingRequest{
			MeterID: meter.ID.String(),
			Reading: 100,
		})
		assert.ErrorIs(t, err, domain.ErrStaleReading)

		current, err := svc.GetByID(ctx, meter.ID.String())
		require.NoError(t, err)
		assert.Equal(t, int64(120), current.LastReading)
	})

	t.Run("equal reading is accepted", func(t *testing.T) {
		fake.Advance(time.Hour)
		current, err := svc.RecordReading(ctx, domain.RecordReadingRequest{
			MeterID: meter.ID.String(),
			Reading: 120,
		})
		require.NoError(t, err)
		assert.Equal(t, fake.Now(), current.LastReadingAt)
	})

	t.Run("negative reading is invalid", func(t *testing.T) {
		_, err := svc.RecordReading(ctx, domain.RecordReadingRequest{
			MeterID: meter.ID.String(),
			Reading: -1,
		})
		assert.ErrorIs(t, err, domain.ErrInvalidReading)
	})
}

func TestSetHealth(t *testing.T) {
	ctx := context.Background()
	svc, _, consumer := newService(t, "file:meter_health?mode=memory&cache=shared")

	meter, err := svc.Install(ctx, domain.InstallMeterRequest{ConsumerID: consumer.ID.String()})
	require.NoError(t, err)

	updated, err := svc.SetHealth(ctx, domain.SetHealthRequest{
		MeterID: meter.ID.String(),
		Health:  "needs_maintenance",
	})
	require.NoError(t, err)
	assert.Equal(t, domain.HealthNeedsMaintenance, updated.Health)

	_, err = svc.SetHealth(ctx, domain.SetHealthRequest{
		MeterID: meter.ID.String(),
		Health:  "broken",
	})
	assert.ErrorIs(t, err, domain.ErrInvalidHealth)
}

func TestListByConsumer(t *testing.T) {
	ctx := context.Background()
	svc, _, consumer := newService(t, "file:meter_list?mode=memory&cache=shared")

	_, err := svc.Install(ctx, domain.InstallMeterRequest{ConsumerID: consumer.ID.String()})
	require.NoError(t, err)
	_, err = svc.Install(ctx, domain.InstallMeterRequest{ConsumerID: consumer.ID.String()})
	require.NoError(t, err)

	meters, err := svc.ListByConsumer(ctx, consumer.ID.String())
	require.NoError(t, err)
	assert.Len(t, meters, 2)
}

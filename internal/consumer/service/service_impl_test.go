package service

import (
	"context"
	"testing"

	"github.com/bwmarrin/snowflake"
	"github.com/glebarez/sqlite"
	"github.com/smallbiznis/voltara/internal/consumer/domain"
	"github.com/smallbiznis/voltara/internal/consumer/repository"
	"github.com/smallbiznis/voltara/internal/sequence"
	"github.com/smallbiznis/voltara/internal/tariff"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"
	"gorm.io/gorm"
)

func newService(t *testing.T, dsn string) *Service {
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
	db.Exec(`CREATE TABLE IF NOT EXISTS sequences (
		name TEXT PRIMARY KEY,
		next_no BIGINT NOT NULL,
		updated_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP
	)`)
	require.NoError(t, sequence.EnsureDefaults(context.Background(), db))

	node, err := snowflake.NewNode(1)
	require.NoError(t, err)

	return &Service{
		db:    db,
		log:   zaptest.NewLogger(t),
		genID: node,
		repo:  repository.Provide(),
		plans: tariff.NewRegistry(),
		seq:   sequence.NewAllocator(),
	}
}

func TestRegister(t *testing.T) {
	ctx := context.Background()

	t.Run("assigns sequential account numbers from the base", func(t *testing.T) {
		svc := newService(t, "file:consumer_register?mode=memory&cache=shared")

		first, err := svc.Register(ctx, domain.RegisterConsumerRequest{
			Name:     "Asha Verma",
			Address:  "12 MG Road",
			PlanCode: "domestic",
		})
		require.NoError(t, err)
		assert.Equal(t, int64(1000), first.ConsumerNo)
		assert.Equal(t, tariff.CodeDomestic, first.PlanCode)
		assert.Equal(t, domain.StatusActive, first.Status)

		second, err := svc.Register(ctx, domain.RegisterConsumerRequest{
			Name:     "Sharma Traders",
			Address:  "4 Market Street",
			PlanCode: "commercial",
		})
		require.NoError(t, err)
		assert.Equal(t, int64(1001), second.ConsumerNo)
	})

	t.Run("plan code is normalized", func(t *testing.T) {
		svc := newService(t, "file:consumer_register_norm?mode=memory&cache=shared")

		consumer, err := svc.Register(ctx, domain.RegisterConsumerRequest{
			Name:     "Asha Verma",
			Address:  "12 MG Road",
			PlanCode: " Commercial ",
		})
		require.NoError(t, err)
		assert.Equal(t, tariff.CodeCommercial, consumer.PlanCode)
	})

	t.Run("rejects blank fields and unknown plans", func(t *testing.T) {
		svc := newService(t, "file:consumer_register_invalid?mode=memory&cache=shared")

		_, err := svc.Register(ctx, domain.RegisterConsumerRequest{Address: "x", PlanCode: "domestic"})
		assert.ErrorIs(t, err, domain.ErrInvalidName)

		_, err = svc.Register(ctx, domain.RegisterConsumerRequest{Name: "x", PlanCode: "domestic"})
		assert.ErrorIs(t, err, domain.ErrInvalidAddress)

		_, err = svc.Register(ctx, domain.RegisterConsumerRequest{Name: "x", Address: "y", PlanCode: "industrial"})
		assert.ErrorIs(t, err, tariff.ErrUnknownPlan)
	})
}

func TestDeactivate(t *testing.T) {
	ctx := context.Background()
	svc := newService(t, "file:consumer_deactivate?mode=memory&cache=shared")

	consumer, err := svc.Register(ctx, domain.RegisterConsumerRequest{
		Name:     "Asha Verma",
		Address:  "12 MG Road",
		PlanCode: "domestic",
	})
	require.NoError(t, err)

	deactivated, err := svc.Deactivate(ctx, consumer.ID.String())
	require.NoError(t, err)
	assert.Equal(t, domain.StatusInactive, deactivated.Status)

	_, err = svc.Deactivate(ctx, consumer.ID.String())
	assert.ErrorIs(t, err, domain.ErrAlreadyDeactivated)

	_, err = svc.Deactivate(ctx, "not-an-id")
	assert.ErrorIs(t, err, domain.ErrInvalidID)
}

func TestList(t *testing.T) {
	ctx := context.Background()
	svc := newService(t, "file:consumer_list?mode=memory&cache=shared")

	for _, plan := range []string{"domestic", "commercial", "domestic"} {
		_, err := svc.Register(ctx, domain.RegisterConsumerRequest{
			Name:     "Consumer",
			Address:  "Somewhere",
			PlanCode: plan,
		})
		require.NoError(t, err)
	}

	all, err := svc.List(ctx, domain.ListConsumerRequest{PageSize: 10})
	require.NoError(t, err)
	assert.Len(t, all.Consumers, 3)
	assert.False(t, all.HasMore)

	domesticOnly, err := svc.List(ctx, domain.ListConsumerRequest{PageSize: 10, PlanCode: "domestic"})
	require.NoError(t, err)
	assert.Len(t, domesticOnly.Consumers, 2)

	paged, err := svc.List(ctx, domain.ListConsumerRequest{PageSize: 2})
	require.NoError(t, err)
	assert.Len(t, paged.Consumers, 2)
	assert.True(t, paged.HasMore)

	rest, err := svc.List(ctx, domain.ListConsumerRequest{PageSize: 2, PageToken: paged.NextPageToken})
	require.NoError(t, err)
	assert.Len(t, rest.Consumers, 1)
	assert.False(t, rest.HasMore)
}

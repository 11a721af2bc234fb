package migration

import (
	"context"

	"github.com/smallbiznis/voltara/internal/config"
	"github.com/smallbiznis/voltara/internal/seed"
	"github.com/smallbiznis/voltara/internal/sequence"
	"go.uber.org/fx"
	"gorm.io/gorm"
)

var Module = fx.Module("migrations",
	fx.Invoke(func(conn *gorm.DB, cfg config.Config) error {
		sqlDB, err := conn.DB()
		if err != nil {
			return err
		}

		if err := RunMigrations(sqlDB); err != nil {
			return err
		}

		if err := sequence.EnsureDefaults(context.Background(), conn); err != nil {
			return err
		}

		if cfg.SeedDemoData {
			return seed.EnsureDemoData(conn)
		}
		return nil
	}),
)

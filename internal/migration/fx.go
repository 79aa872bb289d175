package migration

import (
	"github.com/ecopoints/ecopoints/internal/config"
	"github.com/ecopoints/ecopoints/internal/events"
	ledgerdomain "github.com/ecopoints/ecopoints/internal/ledger/domain"
	notificationdomain "github.com/ecopoints/ecopoints/internal/notification/domain"
	reportdomain "github.com/ecopoints/ecopoints/internal/report/domain"
	rewarddomain "github.com/ecopoints/ecopoints/internal/reward/domain"
	userdomain "github.com/ecopoints/ecopoints/internal/user/domain"
	"go.uber.org/fx"
	"gorm.io/gorm"
)

var Module = fx.Module("migrations",
	fx.Invoke(func(conn *gorm.DB, cfg config.Config) error {
		if cfg.DBType != "postgres" {
			// mysql/sqlite deployments (and tests) fall back to AutoMigrate;
			// the versioned SQL is written for postgres.
			return conn.AutoMigrate(
				&userdomain.User{},
				&ledgerdomain.Transaction{},
				&rewarddomain.Reward{},
				&notificationdomain.Notification{},
				&reportdomain.Report{},
				&events.OutboxEvent{},
			)
		}

		sqlDB, err := conn.DB()
		if err != nil {
			return err
		}
		return RunMigrations(sqlDB)
	}),
)

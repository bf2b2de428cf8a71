package migration

import (
	"github.com/orgdesk/orgdesk/internal/config"
	memberdomain "github.com/orgdesk/orgdesk/internal/member/domain"
	orgdomain "github.com/orgdesk/orgdesk/internal/organization/domain"
	userdomain "github.com/orgdesk/orgdesk/internal/user/domain"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

var Module = fx.Module("migrations",
	fx.Invoke(func(conn *gorm.DB, cfg config.Config, log *zap.Logger) error {
		if cfg.DBType != "postgres" {
			// The versioned SQL only targets postgres. Other dialects
			// sync straight from the models.
			log.Info("auto-migrating schema", zap.String("dialect", cfg.DBType))
			return conn.AutoMigrate(
				&userdomain.User{},
				&orgdomain.Organization{},
				&memberdomain.Member{},
			)
		}

		sqlDB, err := conn.DB()
		if err != nil {
			return err
		}

		return RunMigrations(sqlDB)
	}),
)

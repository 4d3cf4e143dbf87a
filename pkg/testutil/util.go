package testutil

import (
	"context"
	"time"

	"github.com/gorilla/sessions"
	"github.com/klede-lab/waitlist/config"
	"github.com/klede-lab/waitlist/migration"
	"github.com/klede-lab/waitlist/pkg/logger"
	"github.com/klede-lab/waitlist/pkg/xcontext"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

func MockConfigs() config.Configs {
	return config.Configs{
		Env: "test",
		Database: config.DatabaseConfigs{
			Driver: "sqlite",
			DSN:    ":memory:",
		},
		Auth: config.AuthConfigs{
			TokenSecret: "secret",
			AccessToken: config.TokenConfigs{
				Name:       "access_token",
				Expiration: time.Minute,
			},
		},
		Session: config.SessionConfigs{
			Secret: "session-secret",
			Name:   "waitlist-session",
		},
		Admin: config.AdminConfigs{
			Username: "admin",
			Password: "admin",
		},
		Email: config.EmailConfigs{
			Transport:   "log",
			From:        `"Klede Waitlist" <no-reply@klede.com>`,
			Concurrency: 4,
		},
	}
}

// MockContext returns a context carrying test configs, a silent logger and a
// migrated in-memory sqlite database.
func MockContext() context.Context {
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		TranslateError: true,
		Logger:         gormlogger.Default.LogMode(gormlogger.Silent),
	})
	if err != nil {
		panic(err)
	}

	// Every connection to ":memory:" opens a distinct database.
	sqlDB, err := db.DB()
	if err != nil {
		panic(err)
	}
	sqlDB.SetMaxOpenConns(1)

	ctx := MockMemoryContext()
	ctx = xcontext.WithDB(ctx, db)

	if err := migration.AutoMigrate(ctx); err != nil {
		panic(err)
	}

	return ctx
}

// MockMemoryContext returns a context without database, used together with
// the in-memory repositories.
func MockMemoryContext() context.Context {
	cfg := MockConfigs()

	ctx := context.Background()
	ctx = xcontext.WithConfigs(ctx, cfg)
	ctx = xcontext.WithLogger(ctx, logger.NewLogger(logger.SILENCE))
	ctx = xcontext.WithSessionStore(ctx, sessions.NewCookieStore([]byte(cfg.Session.Secret)))
	return ctx
}

func MockCatalog() *config.Catalog {
	catalog, err := config.LoadCatalog("")
	if err != nil {
		panic(err)
	}

	return catalog
}

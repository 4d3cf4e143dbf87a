package main

import (
	"context"
	"net/http"

	"github.com/klede-lab/waitlist/config"
	"github.com/klede-lab/waitlist/internal/domain"
	"github.com/klede-lab/waitlist/internal/domain/ledger"
	"github.com/klede-lab/waitlist/internal/domain/level"
	"github.com/klede-lab/waitlist/internal/domain/mail"
	"github.com/klede-lab/waitlist/internal/domain/statistic"
	"github.com/klede-lab/waitlist/internal/model"
	"github.com/klede-lab/waitlist/internal/repository"
	"github.com/klede-lab/waitlist/migration"
	"github.com/klede-lab/waitlist/pkg/authenticator"
	"github.com/klede-lab/waitlist/pkg/email"
	"github.com/klede-lab/waitlist/pkg/enum"
	"github.com/klede-lab/waitlist/pkg/kafka"
	"github.com/klede-lab/waitlist/pkg/pubsub"
	"github.com/klede-lab/waitlist/pkg/router"
	"github.com/klede-lab/waitlist/pkg/xcontext"
	"github.com/klede-lab/waitlist/pkg/xredis"
	"github.com/urfave/cli/v2"

	"gorm.io/driver/mysql"
	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

type srv struct {
	app *cli.App
	ctx context.Context

	catalog    *config.Catalog
	levelTable *level.Table

	entryRepo  repository.WaitlistEntryRepository
	taskRepo   repository.TaskRepository
	rewardRepo repository.RewardRepository

	redisClient xredis.Client
	leaderboard statistic.Leaderboard
	publisher   pubsub.Publisher
	notifier    mail.Notifier
	ledger      *ledger.Ledger

	waitlistDomain domain.WaitlistDomain
	adminDomain    domain.AdminDomain

	router *router.Router
	server *http.Server

	closers []func() error
}

func (s *srv) newDatabase() *gorm.DB {
	cfg := xcontext.Configs(s.ctx).Database
	driver, err := enum.ToEnum[dbDriver](cfg.Driver)
	if err != nil {
		panic(err)
	}

	var dialector gorm.Dialector
	switch driver {
	case driverMemory:
		return nil
	case driverSqlite:
		dialector = sqlite.Open(cfg.DSN)
	case driverMysql:
		dialector = mysql.Open(cfg.DSN)
	case driverPostgres:
		dialector = postgres.Open(cfg.DSN)
	}

	db, err := gorm.Open(dialector, &gorm.Config{
		TranslateError: true,
		Logger:         gormlogger.Default.LogMode(gormlogger.Silent),
	})
	if err != nil {
		panic(err)
	}

	if driver == driverSqlite {
		// sqlite allows a single writer.
		sqlDB, err := db.DB()
		if err != nil {
			panic(err)
		}
		sqlDB.SetMaxOpenConns(1)
	}

	xcontext.Logger(s.ctx).Infof("Connected to %s database", driver)
	return db
}

func (s *srv) loadDatabase() {
	if db := s.newDatabase(); db != nil {
		s.ctx = xcontext.WithDB(s.ctx, db)
	}
}

func (s *srv) loadCatalog() {
	var err error
	s.catalog, err = config.LoadCatalog(xcontext.Configs(s.ctx).Catalog.File)
	if err != nil {
		panic(err)
	}

	s.levelTable, err = level.NewTableFromCatalog(s.catalog)
	if err != nil {
		panic(err)
	}
}

func (s *srv) loadRepos() {
	if xcontext.DB(s.ctx) == nil {
		s.entryRepo = repository.NewWaitlistEntryMemoryRepository()
		s.taskRepo = repository.NewTaskMemoryRepository()
		s.rewardRepo = repository.NewRewardMemoryRepository()
		return
	}

	s.entryRepo = repository.NewWaitlistEntryRepository()
	s.taskRepo = repository.NewTaskRepository()
	s.rewardRepo = repository.NewRewardRepository()
}

func (s *srv) migrateDB() {
	if err := migration.AutoMigrate(s.ctx); err != nil {
		panic(err)
	}

	if err := migration.Seed(s.ctx, s.catalog, s.taskRepo, s.rewardRepo); err != nil {
		panic(err)
	}
}

func (s *srv) loadRedisClient() {
	if xcontext.Configs(s.ctx).Redis.Addr == "" {
		return
	}

	client, err := xredis.NewClient(s.ctx)
	if err != nil {
		panic(err)
	}

	s.redisClient = client
	s.closers = append(s.closers, client.Close)
}

func (s *srv) loadLeaderboard() {
	if s.redisClient == nil {
		s.leaderboard = statistic.NewDBLeaderboard(s.entryRepo)
		return
	}

	// The cached set may belong to an older state of the store.
	leaderboard := statistic.NewRedisLeaderboard(s.entryRepo, s.redisClient)
	if err := leaderboard.Invalidate(s.ctx); err != nil {
		panic(err)
	}

	s.leaderboard = leaderboard
}

func (s *srv) loadPublisher() {
	addrs := xcontext.Configs(s.ctx).Kafka.Addrs
	if len(addrs) == 0 {
		s.publisher = pubsub.NopPublisher{}
		return
	}

	publisher, err := kafka.NewPublisher("waitlist", addrs)
	if err != nil {
		panic(err)
	}

	s.publisher = publisher
	s.closers = append(s.closers, func() error { return publisher.Stop(s.ctx) })
}

func (s *srv) loadNotifier() {
	cfg := xcontext.Configs(s.ctx).Email
	transport, err := enum.ToEnum[emailTransport](cfg.Transport)
	if err != nil {
		panic(err)
	}

	var sender email.Sender
	switch transport {
	case transportLog:
		sender = email.NewLogSender()
	case transportSMTP:
		sender = email.NewSMTPSender(cfg.SMTP.Host, cfg.SMTP.Port, cfg.SMTP.User, cfg.SMTP.Password)
	case transportResend:
		sender = email.NewResendSender(cfg.Resend.Endpoint, cfg.Resend.APIKey)
	}

	s.notifier, err = mail.NewNotifier(sender, cfg.From)
	if err != nil {
		panic(err)
	}
}

func (s *srv) loadDomains() {
	cfg := xcontext.Configs(s.ctx)
	tokenEngine := authenticator.NewTokenEngine[model.AccessToken](cfg.Auth.TokenSecret, cfg.Auth.AccessToken)

	s.ledger = ledger.New(
		s.entryRepo,
		s.taskRepo,
		level.NewEngine(s.levelTable, s.entryRepo),
		s.leaderboard,
	)

	s.waitlistDomain = domain.NewWaitlistDomain(
		s.entryRepo,
		s.taskRepo,
		s.rewardRepo,
		s.ledger,
		s.levelTable,
		s.leaderboard,
		s.notifier,
		s.publisher,
	)

	s.adminDomain = domain.NewAdminDomain(s.entryRepo, s.leaderboard, s.notifier, tokenEngine)
}

// load prepares everything the commands need, in dependency order.
func (s *srv) load() {
	s.loadDatabase()
	s.loadCatalog()
	s.loadRepos()
	s.migrateDB()
	s.loadRedisClient()
	s.loadLeaderboard()
	s.loadPublisher()
	s.loadNotifier()
	s.loadDomains()
}

func (s *srv) close() {
	for i := len(s.closers) - 1; i >= 0; i-- {
		if err := s.closers[i](); err != nil {
			xcontext.Logger(s.ctx).Warnf("Cannot close resource: %v", err)
		}
	}
}

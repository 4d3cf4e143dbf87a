package main

import (
	"github.com/klede-lab/waitlist/internal/domain/level"
	"github.com/klede-lab/waitlist/pkg/xcontext"
	"github.com/urfave/cli/v2"
)

func (s *srv) startMigrate(*cli.Context) error {
	if xcontext.Configs(s.ctx).Database.Driver == string(driverMemory) {
		xcontext.Logger(s.ctx).Warnf("The memory driver has nothing to migrate")
		return nil
	}

	s.loadDatabase()
	s.loadCatalog()
	s.loadRepos()
	s.migrateDB()

	// Thresholds of the catalog may have been lowered since the last run.
	leveledUp, err := level.NewEngine(s.levelTable, s.entryRepo).Recheck(s.ctx)
	if err != nil {
		return err
	}

	xcontext.Logger(s.ctx).Infof("Migrate database successfully, %d entries leveled up", leveledUp)
	return nil
}

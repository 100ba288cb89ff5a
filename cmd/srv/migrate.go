package main

import (
	"github.com/urfave/cli/v2"
	"github.com/zetabot-lab/backend/internal/entity"
	"github.com/zetabot-lab/backend/pkg/xcontext"
)

func (s *srv) migrate(ct *cli.Context) error {
	server.loadConfig(ct)
	server.loadLogger()
	server.loadDatabase()
	server.loadContext()

	if err := entity.MigrateTable(s.ctx); err != nil {
		return err
	}

	xcontext.Logger(s.ctx).Infof("Migration completed")
	return nil
}

package main

import (
	"os"
	"os/signal"
	"syscall"

	"github.com/urfave/cli/v2"
	"github.com/zetabot-lab/backend/internal/domain/cron"
)

// startScheduler runs the draw loop. It assumes it is the only scheduler
// owner against this database; run exactly one instance of it.
func (s *srv) startScheduler(ct *cli.Context) error {
	server.loadConfig(ct)
	server.loadLogger()
	server.loadDatabase()
	server.loadContext()
	server.loadPublisher()
	server.loadRepos()
	server.loadDomains()

	manager := cron.NewCronJobManager()
	manager.Register(cron.NewPeriodicDrawCronJob(s.lotteryDomain, s.lotteryRepo))

	go func() {
		sig := make(chan os.Signal, 1)
		signal.Notify(sig, os.Interrupt, syscall.SIGTERM)
		<-sig
		manager.Cancel(s.ctx)
	}()

	manager.Start(s.ctx)
	return nil
}

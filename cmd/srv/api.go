package main

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/rs/cors"
	"github.com/urfave/cli/v2"
	"github.com/zetabot-lab/backend/internal/middleware"
	"github.com/zetabot-lab/backend/pkg/router"
	"github.com/zetabot-lab/backend/pkg/xcontext"
)

func (s *srv) startApi(ct *cli.Context) error {
	server.loadConfig(ct)
	server.loadLogger()
	server.loadDatabase()
	server.loadContext()
	server.loadPublisher()
	server.loadRepos()
	server.loadDomains()
	server.loadRouter()

	c := cors.New(cors.Options{
		AllowedOrigins:   []string{"*"},
		AllowedMethods:   []string{http.MethodGet, http.MethodPost, http.MethodOptions},
		AllowedHeaders:   []string{"*"},
		AllowCredentials: true,
	})

	s.server = &http.Server{
		Addr:    fmt.Sprintf("%s:%s", s.configs.ApiServer.Host, s.configs.ApiServer.Port),
		Handler: c.Handler(s.router.Handler()),
	}

	xcontext.Logger(s.ctx).Infof("Starting api server on port %s", s.configs.ApiServer.Port)
	if err := s.server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}

	xcontext.Logger(s.ctx).Infof("Api server stopped")
	return nil
}

func (s *srv) loadRouter() {
	s.router = router.New(s.db, *s.configs, s.logger)
	s.router.Before(middleware.ImportUserID())
	s.router.AddCloser(middleware.Logger())

	// Community API
	router.POST(s.router, "/createCommunity", s.communityDomain.CreateCommunity)
	router.POST(s.router, "/setNotifyTarget", s.communityDomain.SetNotifyTarget)

	// Lottery API
	router.POST(s.router, "/buyLotteryTickets", s.lotteryDomain.BuyTickets)
	router.GET(s.router, "/getMyLotteryTickets", s.lotteryDomain.GetMyTickets)
	router.GET(s.router, "/getLotteryRound", s.lotteryDomain.GetLotteryRound)
	router.GET(s.router, "/getLotteryResults", s.lotteryDomain.GetLotteryResults)
	router.POST(s.router, "/drawLotteryNow", s.lotteryDomain.DrawNow)

	// Heist API
	router.POST(s.router, "/startHeist", s.heistDomain.StartHeist)
	router.POST(s.router, "/joinHeist", s.heistDomain.JoinHeist)
	router.POST(s.router, "/reportHeist", s.heistDomain.ReportHeist)
	router.GET(s.router, "/getHeist", s.heistDomain.GetHeist)

	// Cooldown API
	router.GET(s.router, "/getMyCooldowns", s.cooldownDomain.GetMyCooldowns)
	router.GET(s.router, "/getCooldownSettings", s.cooldownDomain.GetCooldownSettings)
	router.POST(s.router, "/setCooldown", s.cooldownDomain.SetCooldown)
	router.POST(s.router, "/clearCooldown", s.cooldownDomain.ClearCooldown)
}

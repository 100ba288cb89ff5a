package main

import (
	"context"
	"net/http"

	"github.com/bwmarrin/snowflake"
	"github.com/urfave/cli/v2"
	"github.com/zetabot-lab/backend/config"
	"github.com/zetabot-lab/backend/internal/common"
	"github.com/zetabot-lab/backend/internal/domain"
	"github.com/zetabot-lab/backend/internal/repository"
	"github.com/zetabot-lab/backend/pkg/kafka"
	"github.com/zetabot-lab/backend/pkg/logger"
	"github.com/zetabot-lab/backend/pkg/pubsub"
	"github.com/zetabot-lab/backend/pkg/router"
	"github.com/zetabot-lab/backend/pkg/xcontext"
	"github.com/zetabot-lab/backend/pkg/xredis"
	"gorm.io/driver/mysql"
	"gorm.io/gorm"
)

type srv struct {
	app *cli.App

	// ctx is the process-lifetime context every background activity is
	// driven from. It carries the configs, logger, and database handle.
	ctx context.Context

	configs *config.Configs
	logger  logger.Logger
	db      *gorm.DB

	publisher pubsub.Publisher

	communityRepo   repository.CommunityRepository
	userRepo        repository.UserRepository
	balanceRepo     repository.BalanceRepository
	cooldownRepo    repository.CooldownRepository
	lotteryRepo     repository.LotteryRepository
	transactionRepo repository.TransactionRepository

	cooldownGate *common.CooldownGate

	communityDomain domain.CommunityDomain
	cooldownDomain  domain.CooldownDomain
	lotteryDomain   domain.LotteryDomain
	heistDomain     domain.HeistDomain

	router *router.Router
	server *http.Server
}

func (s *srv) loadConfig(ct *cli.Context) {
	configs, err := config.Load(ct.String("config"))
	if err != nil {
		panic(err)
	}

	s.configs = &configs
}

func (s *srv) loadLogger() {
	s.logger = logger.NewLogger()
}

func (s *srv) loadDatabase() {
	var err error
	s.db, err = gorm.Open(mysql.Open(s.configs.Database.ConnectionString()), &gorm.Config{})
	if err != nil {
		panic(err)
	}
}

func (s *srv) loadContext() {
	s.ctx = context.Background()
	s.ctx = xcontext.WithConfigs(s.ctx, *s.configs)
	s.ctx = xcontext.WithLogger(s.ctx, s.logger)
	s.ctx = xcontext.WithDB(s.ctx, s.db)
}

func (s *srv) loadPublisher() {
	switch s.configs.Notify.Driver {
	case "kafka":
		publisher, err := kafka.NewPublisher("zetabot", []string{s.configs.Kafka.Addr})
		if err != nil {
			panic(err)
		}

		s.publisher = publisher
	default:
		redisClient, err := xredis.NewClient(s.ctx, s.configs.Redis.Addr)
		if err != nil {
			panic(err)
		}

		s.publisher = xredis.NewPublisher(redisClient)
	}
}

func (s *srv) loadRepos() {
	idNode, err := snowflake.NewNode(1)
	if err != nil {
		panic(err)
	}

	s.communityRepo = repository.NewCommunityRepository()
	s.userRepo = repository.NewUserRepository()
	s.balanceRepo = repository.NewBalanceRepository()
	s.cooldownRepo = repository.NewCooldownRepository()
	s.lotteryRepo = repository.NewLotteryRepository()
	s.transactionRepo = repository.NewTransactionRepository(idNode)
}

func (s *srv) loadDomains() {
	s.cooldownGate = common.NewCooldownGate(s.cooldownRepo)

	s.communityDomain = domain.NewCommunityDomain(s.communityRepo)
	s.cooldownDomain = domain.NewCooldownDomain(s.cooldownRepo, s.communityRepo, s.cooldownGate)
	s.lotteryDomain = domain.NewLotteryDomain(
		s.lotteryRepo, s.balanceRepo, s.communityRepo, s.transactionRepo, s.publisher)
	s.heistDomain = domain.NewHeistDomain(
		s.ctx, s.communityRepo, s.userRepo, s.balanceRepo,
		s.transactionRepo, s.cooldownGate, s.publisher)
}

package main

import (
	"net/http"

	"github.com/redis/go-redis/v9"
	"github.com/thefund-gallery/backend/config"
	"github.com/thefund-gallery/backend/internal/common"
	"github.com/thefund-gallery/backend/internal/domain"
	"github.com/thefund-gallery/backend/internal/repository"
	"github.com/thefund-gallery/backend/pkg/captcha"
	"github.com/thefund-gallery/backend/pkg/logger"
	"github.com/thefund-gallery/backend/pkg/mail"
	"github.com/thefund-gallery/backend/pkg/paypal"
	"github.com/thefund-gallery/backend/pkg/router"
	"github.com/thefund-gallery/backend/pkg/xredis"
	"github.com/urfave/cli/v2"
	"gorm.io/driver/mysql"
	"gorm.io/gorm"
)

type srv struct {
	app *cli.App

	configs *config.Configs
	logger  logger.Logger
	db      *gorm.DB

	userRepo          repository.UserRepository
	artistRepo        repository.ArtistRepository
	artworkRepo       repository.ArtworkRepository
	raffleRepo        repository.RaffleRepository
	ticketRepo        repository.TicketRepository
	freeEntryRepo     repository.FreeEntryRepository
	transactionRepo   repository.TransactionRepository
	settingRepo       repository.SettingRepository
	rememberTokenRepo repository.RememberTokenRepository
	adminSessionRepo  repository.AdminSessionRepository

	redisClient     *redis.Client
	loginLimiter    xredis.RateLimiter
	captchaVerifier captcha.Verifier
	paypalClient    paypal.Client
	mailer          mail.Mailer
	adminVerifier   *common.AdminVerifier

	authDomain    domain.AuthDomain
	raffleDomain  domain.RaffleDomain
	drawingDomain domain.DrawingDomain
	adminDomain   domain.AdminDomain

	router *router.Router

	server *http.Server
}

func (s *srv) loadLogger() {
	level := logger.INFO
	if !s.configs.IsProduction() {
		level = logger.DEBUG
	}

	s.logger = logger.NewLogger(level)
}

func (s *srv) loadDatabase() {
	var err error
	s.db, err = gorm.Open(mysql.New(mysql.Config{
		DSN:                      s.configs.Database.ConnectionString(),
		DefaultStringSize:        256,
		DisableDatetimePrecision: true,
		DontSupportRenameIndex:   true,
		DontSupportRenameColumn:  true,
	}), &gorm.Config{})
	if err != nil {
		panic(err)
	}
}

func (s *srv) loadRepos() {
	s.userRepo = repository.NewUserRepository()
	s.artistRepo = repository.NewArtistRepository()
	s.artworkRepo = repository.NewArtworkRepository()
	s.raffleRepo = repository.NewRaffleRepository()
	s.ticketRepo = repository.NewTicketRepository()
	s.freeEntryRepo = repository.NewFreeEntryRepository()
	s.transactionRepo = repository.NewTransactionRepository()
	s.settingRepo = repository.NewSettingRepository()
	s.rememberTokenRepo = repository.NewRememberTokenRepository()
	s.adminSessionRepo = repository.NewAdminSessionRepository()
}

func (s *srv) loadClients() {
	s.redisClient = xredis.NewClient(s.configs.Redis)
	s.loginLimiter = xredis.NewRateLimiter(
		s.redisClient,
		s.configs.Redis.LoginAttemptLimit,
		s.configs.Redis.LoginAttemptWindow,
	)
	s.captchaVerifier = captcha.NewVerifier(s.configs.Captcha)
	s.paypalClient = paypal.NewClient(s.configs.PayPal)
	s.mailer = mail.NewMailer(s.configs.Mail)
	s.adminVerifier = common.NewAdminVerifier(s.configs.Auth, s.adminSessionRepo, s.userRepo)
}

func (s *srv) loadDomains() {
	s.authDomain = domain.NewAuthDomain(
		s.userRepo, s.rememberTokenRepo, s.adminSessionRepo, s.captchaVerifier, s.loginLimiter)
	s.raffleDomain = domain.NewRaffleDomain(
		s.raffleRepo, s.artworkRepo, s.artistRepo, s.ticketRepo, s.freeEntryRepo,
		s.transactionRepo, s.userRepo, s.settingRepo, s.paypalClient, s.mailer)
	s.drawingDomain = domain.NewDrawingDomain(
		s.raffleRepo, s.artworkRepo, s.ticketRepo, s.freeEntryRepo,
		s.transactionRepo, s.userRepo, s.mailer)
	s.adminDomain = domain.NewAdminDomain(s.raffleRepo, s.artworkRepo, s.settingRepo)
}

package main

import (
	"fmt"
	"log"
	"net/http"

	"github.com/rs/cors"
	"github.com/thefund-gallery/backend/internal/middleware"
	"github.com/thefund-gallery/backend/pkg/prometheus"
	"github.com/thefund-gallery/backend/pkg/router"
	"github.com/urfave/cli/v2"
	"golang.org/x/sync/errgroup"
)

func (s *srv) startApi(ct *cli.Context) error {
	s.loadConfig()
	s.loadLogger()
	s.loadDatabase()
	s.loadRepos()
	s.loadClients()
	s.loadDomains()
	s.loadRouter()

	corsHandler := cors.New(cors.Options{
		AllowedOrigins:   s.configs.ApiServer.AllowedOrigins,
		AllowedMethods:   []string{"GET", "POST", "PUT", "PATCH", "DELETE"},
		AllowedHeaders:   []string{"Authorization", "Content-Type", "X-Admin-Token"},
		AllowCredentials: true,
	}).Handler(s.router.Handler())

	s.server = &http.Server{
		Addr:    s.configs.ApiServer.Address(),
		Handler: corsHandler,
	}

	var group errgroup.Group
	group.Go(func() error {
		log.Printf("Starting server on port: %s\n", s.configs.ApiServer.Port)
		return s.server.ListenAndServe()
	})

	if port := s.configs.ApiServer.MetricsPort; port != "" {
		group.Go(func() error {
			mux := http.NewServeMux()
			mux.Handle("/metrics", prometheus.NewHandler())
			log.Printf("Starting metrics server on port: %s\n", port)
			return http.ListenAndServe(fmt.Sprintf(":%s", port), mux)
		})
	}

	if err := group.Wait(); err != nil {
		panic(err)
	}

	return nil
}

func (s *srv) loadRouter() {
	s.router = router.New(s.db, *s.configs, s.logger)
	s.router.Before(middleware.WithStartTime())
	s.router.AddCloser(middleware.Logger())
	s.router.AddCloser(middleware.Prometheus())

	if s.configs.ApiServer.MetricsPort == "" {
		s.router.Handle("GET /metrics", prometheus.NewHandler())
	}

	// Auth API
	authRouter := s.router.Branch()
	authRouter.After(middleware.HandleSaveRememberToken())
	{
		router.POST(authRouter, "/api/auth/signup", s.authDomain.Signup)
		router.POST(authRouter, "/api/auth/login", s.authDomain.Login)
		router.POST(authRouter, "/api/auth/remember-me", s.authDomain.RememberMe)
		router.POST(authRouter, "/api/auth/logout", s.authDomain.Logout)
	}

	// These following APIs need authentication with an Access Token.
	onlyTokenAuthRouter := s.router.Branch()
	authVerifier := middleware.NewAuthVerifier().WithAccessToken()
	onlyTokenAuthRouter.Before(authVerifier.Middleware())
	{
		router.GET(onlyTokenAuthRouter, "/api/auth/me", s.authDomain.GetMe)
	}

	// The purchase callback accepts both guest and authenticated checkouts.
	purchaseRouter := s.router.Branch()
	optionalAuthVerifier := middleware.NewAuthVerifier().WithAccessToken().WithOptional()
	purchaseRouter.Before(optionalAuthVerifier.Middleware())
	{
		router.POST(purchaseRouter, "/api/raffle/purchase", s.raffleDomain.RecordPurchase)
	}

	// Admin API
	adminRouter := s.router.Branch()
	onlyAdmin := middleware.NewOnlyAdmin(s.adminVerifier)
	adminRouter.Before(onlyAdmin.Middleware())
	{
		router.POST(adminRouter, "/api/raffle/draw", s.drawingDomain.Draw)
		router.POST(adminRouter, "/api/raffle/validate-config", s.adminDomain.ValidateRaffleConfig)

		router.GET(adminRouter, "/api/admin/raffles", s.adminDomain.GetRaffleList)
		router.POST(adminRouter, "/api/admin/raffles", s.adminDomain.CreateRaffle)
		router.GET(adminRouter, "/api/admin/raffles/{id}", s.adminDomain.GetRaffle)
		router.PATCH(adminRouter, "/api/admin/raffles/{id}", s.adminDomain.UpdateRaffle)
		router.DELETE(adminRouter, "/api/admin/raffles/{id}", s.adminDomain.DeleteRaffle)
		router.POST(adminRouter, "/api/admin/raffles/{id}/activate", s.adminDomain.ActivateRaffle)

		router.GET(adminRouter, "/api/admin/settings", s.adminDomain.GetSettings)
		router.PUT(adminRouter, "/api/admin/settings", s.adminDomain.UpsertSetting)
	}

	// Public API.
	router.GET(s.router, "/api/raffle/status", s.raffleDomain.GetStatus)
	router.GET(s.router, "/api/raffle/outcome-summary", s.raffleDomain.GetOutcomeSummary)
	router.POST(s.router, "/api/raffle/free-entry", s.raffleDomain.FreeEnter)
}

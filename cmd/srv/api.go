package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/klede-lab/waitlist/internal/common"
	"github.com/klede-lab/waitlist/internal/middleware"
	"github.com/klede-lab/waitlist/internal/model"
	"github.com/klede-lab/waitlist/pkg/authenticator"
	"github.com/klede-lab/waitlist/pkg/prometheus"
	"github.com/klede-lab/waitlist/pkg/router"
	"github.com/klede-lab/waitlist/pkg/xcontext"

	"github.com/urfave/cli/v2"
)

const shutdownTimeout = 10 * time.Second

func (s *srv) startApi(*cli.Context) error {
	s.load()
	defer s.close()
	s.loadRouter()

	cfg := xcontext.Configs(s.ctx)
	s.server = &http.Server{
		Addr:    fmt.Sprintf("%s:%s", cfg.ApiServer.Host, cfg.ApiServer.Port),
		Handler: middleware.AllowCors(cfg.ApiServer.AllowedOrigins, s.router.Handler()),
	}

	ctx, stop := signal.NotifyContext(s.ctx, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	go func() {
		<-ctx.Done()

		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()

		if err := s.server.Shutdown(shutdownCtx); err != nil {
			xcontext.Logger(s.ctx).Errorf("Cannot shutdown server: %v", err)
		}
	}()

	xcontext.Logger(s.ctx).Infof("Starting server on %s", s.server.Addr)
	if err := s.server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}

	// Welcome emails still in flight are given the same grace period.
	waitCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := s.waitlistDomain.Wait(waitCtx); err != nil {
		xcontext.Logger(s.ctx).Warnf("Background jobs are not finished: %v", err)
	}

	xcontext.Logger(s.ctx).Infof("Server stopped")
	return nil
}

func (s *srv) loadRouter() {
	cfg := xcontext.Configs(s.ctx)
	s.router = router.New(xcontext.DB(s.ctx), cfg, xcontext.Logger(s.ctx))
	s.router.Before(middleware.WithStartTime())
	s.router.Before(middleware.WithRequestID())
	s.router.AddCloser(middleware.Logger())
	s.router.AddCloser(middleware.Prometheus())

	s.router.Handle("GET /metrics", prometheus.NewHandler(
		prometheus.NewGauge("waitlist_entries", "Number of waitlist entries", func() (float64, error) {
			count, err := s.entryRepo.Count(s.ctx)
			return float64(count), err
		}),
	))
	s.router.Handle("GET /healthz", http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_ = router.WriteJson(w, http.StatusOK, map[string]string{"status": "ok"})
	}))

	// Public waitlist API
	publicRouter := s.router.Branch()
	{
		router.POST(publicRouter, "/api/waitlist", s.waitlistDomain.Signup)
		router.POST(publicRouter, "/api/waitlist/complete-task", s.waitlistDomain.CompleteTask)
		router.GET(publicRouter, "/api/waitlist/profile", s.waitlistDomain.GetProfile)
		router.GET(publicRouter, "/api/waitlist/referral/{referralCode}", s.waitlistDomain.GetReferral)
		router.GET(publicRouter, "/api/waitlist/leaderboard", s.waitlistDomain.GetLeaderboard)
		router.GET(publicRouter, "/api/waitlist/levels", s.waitlistDomain.GetLevels)
		router.GET(publicRouter, "/api/waitlist/tasks", s.waitlistDomain.GetTasks)
	}

	// Admin session API
	sessionRouter := s.router.Branch()
	sessionRouter.After(middleware.HandleSaveSession())
	{
		router.POST(sessionRouter, "/api/admin/login", s.adminDomain.Login)
		router.POST(sessionRouter, "/api/admin/logout", s.adminDomain.Logout)
		router.GET(sessionRouter, "/api/admin/check", s.adminDomain.Check)
	}

	// These following APIs need an admin session or an admin access token.
	adminRouter := s.router.Branch()
	tokenEngine := authenticator.NewTokenEngine[model.AccessToken](cfg.Auth.TokenSecret, cfg.Auth.AccessToken)
	onlyAdmin := middleware.NewOnlyAdmin(common.NewAdminVerifier(tokenEngine))
	adminRouter.Before(onlyAdmin.Middleware())
	{
		router.GET(adminRouter, "/api/admin/waitlist", s.adminDomain.ListEntries)
		router.GET(adminRouter, "/api/admin/waitlist/export", s.adminDomain.ExportEntries)
		router.DELETE(adminRouter, "/api/admin/waitlist/{id}", s.adminDomain.DeleteEntry)
		router.POST(adminRouter, "/api/admin/send-promotional", s.adminDomain.SendPromotional)
		router.POST(adminRouter, "/api/admin/send-launch-announcement", s.adminDomain.SendLaunchAnnouncement)
	}
}

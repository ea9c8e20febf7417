package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rouf-185/coding-practice-dashboard/cache"
	"github.com/rouf-185/coding-practice-dashboard/config"
	"github.com/rouf-185/coding-practice-dashboard/repositories"
	"github.com/rouf-185/coding-practice-dashboard/routes"
	"github.com/rouf-185/coding-practice-dashboard/services"
	"github.com/rouf-185/coding-practice-dashboard/utils"

	"go.uber.org/zap"
)

func main() {
	utils.InitLogger()
	defer utils.Logger.Sync()
	utils.InitMetrics()

	utils.Logger.Info("starting_application")

	config.InitDB()

	// Optional cache; the app works without it.
	if err := cache.InitRedis(utils.Logger); err != nil {
		utils.Logger.Warn("running_without_cache", zap.Error(err))
	}
	defer cache.Close()

	startEmailWorker()

	r := routes.SetupRouter(config.DB, utils.Logger)
	startServer(r)
}

// startEmailWorker schedules the daily-reminder scan once per minute.
func startEmailWorker() {
	sender, err := services.NewSESEmailService()
	if err != nil {
		utils.Logger.Warn("daily_email_disabled", zap.Error(err))
		return
	}

	userRepo := repositories.NewUserRepository(config.DB)
	problemRepo := repositories.NewProblemRepository(config.DB)
	practiceSvc := services.NewPracticeService(problemRepo)
	worker := services.NewEmailWorker(userRepo, practiceSvc, sender, utils.Logger)

	scheduler := services.NewSchedulerService(time.UTC)
	if _, err := scheduler.ScheduleInterval(time.Minute, func() {
		worker.RunOnce(time.Now().UTC())
	}); err != nil {
		utils.Logger.Error("email_worker_schedule_failed", zap.Error(err))
		return
	}
	scheduler.Start()

	utils.Logger.Info("email_worker_started")
}

func startServer(handler http.Handler) {
	port := os.Getenv("PORT")
	if port == "" {
		port = "8080"
	}

	srv := &http.Server{
		Addr:         ":" + port,
		Handler:      handler,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	utils.Logger.Info("starting_http_server", zap.String("port", port))

	go func() {
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			utils.Logger.Fatal("http_server_failed", zap.Error(err))
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	utils.Logger.Info("shutting_down_server")

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		utils.Logger.Fatal("server_forced_shutdown", zap.Error(err))
	}

	utils.Logger.Info("server_stopped")
}

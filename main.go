package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
	"github.com/yeremiapane/restaurant-reservation/config"
	"github.com/yeremiapane/restaurant-reservation/database"
	"github.com/yeremiapane/restaurant-reservation/hub"
	"github.com/yeremiapane/restaurant-reservation/router"
	"github.com/yeremiapane/restaurant-reservation/services"
	"github.com/yeremiapane/restaurant-reservation/utils"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	utils.InitLogger(cfg.LogLevel)
	utils.SetJWTSecret(cfg.JWTSecret)
	if cfg.GinMode == gin.ReleaseMode {
		gin.SetMode(gin.ReleaseMode)
	}

	db, err := config.InitDB(cfg)
	if err != nil {
		utils.ErrorLogger.Fatalf("Failed to connect to database: %v", err)
	}
	if err := database.Migrate(db); err != nil {
		utils.ErrorLogger.Fatalf("Failed to AutoMigrate: %v", err)
	}
	if cfg.SeedTables {
		if _, err := database.SeedTables(db, database.DefaultFloorPlan()); err != nil {
			utils.ErrorLogger.Fatalf("Failed to seed tables: %v", err)
		}
	}
	if _, err := database.SeedAdmin(db, cfg.AdminEmail, cfg.AdminPassword); err != nil {
		utils.ErrorLogger.Fatalf("Failed to seed admin: %v", err)
	}

	wsHub := hub.New()
	hubNotifier := &services.HubNotifier{Hub: wsHub}
	notifier := services.MultiNotifier{
		&services.DBNotifier{DB: db},
		hubNotifier,
	}

	var closers []func() error
	if cfg.NATSURL != "" {
		nc, err := services.NewNATSNotifier(cfg.NATSURL, "reservations")
		if err != nil {
			utils.ErrorLogger.Fatalf("Failed to connect to NATS: %v", err)
		}
		notifier = append(notifier, nc)
		closers = append(closers, nc.Close)
	}
	if cfg.AMQPURL != "" {
		mq, err := services.NewAMQPNotifier(cfg.AMQPURL, cfg.AMQPExchange)
		if err != nil {
			utils.ErrorLogger.Fatalf("Failed to connect to RabbitMQ: %v", err)
		}
		notifier = append(notifier, mq)
		closers = append(closers, mq.Close)
	}

	policy := services.BookingPolicy{
		Location:        cfg.Location,
		ServiceDuration: cfg.ServiceDuration,
		MinLeadTime:     cfg.MinLeadTime,
		OpeningHour:     cfg.OpeningHour,
		LastSeatingHour: cfg.LastSeatingHour,
		MaxGuests:       cfg.MaxGuests,
	}
	clock := services.SystemClock{}
	svc := services.NewReservationService(services.ReservationServiceDeps{
		DB:                db,
		Policy:            policy,
		Clock:             clock,
		Locker:            services.NewKeyedLocker(cfg.LockTimeout),
		Notifier:          notifier,
		Orders:            services.GormOrderCreator{},
		NotifyTimeout:     cfg.NotifyTimeout,
		NoShowGrace:       cfg.NoShowGrace,
		CapacityThreshold: cfg.CapacityWarnThreshold,
	})

	hubNotifier.Capacity = svc

	var monitor *services.NoShowMonitor
	if cfg.AutoNoShow {
		monitor = services.NewNoShowMonitor(svc, cfg.NoShowInterval)
		monitor.Start()
	}

	r := router.SetupRouter(router.Deps{
		DB:              db,
		Reservations:    svc,
		Hub:             wsHub,
		Location:        cfg.Location,
		Clock:           clock,
		CORSOrigin:      cfg.CORSOrigin,
		TokenTTL:        cfg.TokenTTL,
		PublicRateEvery: time.Second,
		PublicRateBurst: 10,
	})

	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		utils.InfoLogger.WithFields(logrus.Fields{
			"port":   cfg.Port,
			"driver": cfg.DBDriver,
			"tz":     cfg.Location.String(),
		}).Info("Listening")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			utils.ErrorLogger.Fatalf("Server error: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	utils.InfoLogger.Info("Shutting down")

	ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		utils.ErrorLogger.Errorf("HTTP shutdown: %v", err)
	}
	if monitor != nil {
		monitor.Stop()
	}
	svc.Wait()
	wsHub.Close()
	for _, closeFn := range closers {
		if err := closeFn(); err != nil {
			utils.ErrorLogger.Errorf("Closing notifier: %v", err)
		}
	}
	if sqlDB, err := db.DB(); err == nil {
		_ = sqlDB.Close()
	}
	utils.InfoLogger.Info("Server exited")
}

package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"time"

	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/Izaque674/SmartLOG-sub000/internal/auth"
	"github.com/Izaque674/SmartLOG-sub000/internal/broker"
	"github.com/Izaque674/SmartLOG-sub000/internal/cache"
	"github.com/Izaque674/SmartLOG-sub000/internal/config"
	"github.com/Izaque674/SmartLOG-sub000/internal/db"
	"github.com/Izaque674/SmartLOG-sub000/internal/dispatch"
	"github.com/Izaque674/SmartLOG-sub000/internal/handlers"
	"github.com/Izaque674/SmartLOG-sub000/internal/live"
	"github.com/Izaque674/SmartLOG-sub000/internal/maintenance"
	"github.com/Izaque674/SmartLOG-sub000/internal/middleware"
)

const shutdownTimeout = 10 * time.Second

var servePlanPath string

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the HTTP API",
	Long: `Starts the REST API backed by MongoDB. Redis (REDIS_ADDR) caches KPIs and
MQTT (MQTT_BROKER_URL) receives change events; both are optional and the server
keeps running without them.`,
	RunE: runServe,
}

func init() {
	serveCmd.Flags().StringVar(&servePlanPath, "plan", "", "YAML maintenance plan for new vehicles (default: built-in)")
}

func loadPlan(path string) (*maintenance.Plan, error) {
	if path == "" {
		return maintenance.DefaultPlan()
	}
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return maintenance.LoadPlan(f)
}

func runServe(cmd *cobra.Command, _ []string) error {
	cfg, err := config.Load(envFile)
	if err != nil {
		return err
	}
	cfg.ConfigureLogging()
	loc, err := cfg.Location()
	if err != nil {
		return err
	}

	ctx, stop := signalContext(cmd.Context())
	defer stop()

	mongoClient, err := db.ConnectMongo(ctx, cfg.MongoURI)
	if err != nil {
		return fmt.Errorf("connect to MongoDB: %w", err)
	}
	defer func() {
		dctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		if err := mongoClient.Disconnect(dctx); err != nil {
			log.WithError(err).Warn("MongoDB disconnect failed")
		}
	}()
	log.WithField("database", cfg.MongoDB).Info("Connected to MongoDB")

	store := db.NewStore(mongoClient, cfg.MongoDB)
	if err := store.EnsureIndexes(ctx); err != nil {
		return fmt.Errorf("ensure indexes: %w", err)
	}

	hub := live.NewHub()
	sinks := broker.Fanout{hub}

	var kpiCache *cache.Cache
	if cfg.RedisAddr != "" {
		rc, err := cache.Connect(ctx, cfg.RedisAddr)
		if err != nil {
			log.WithError(err).Warn("Redis unavailable, KPI cache disabled")
		} else {
			defer rc.Close()
			kpiCache = cache.NewCache(rc, cfg.KPICacheTTL)
			sinks = append(sinks, kpiCache)
			log.WithField("addr", cfg.RedisAddr).Info("KPI cache enabled")
		}
	}
	if cfg.MQTTBrokerURL != "" {
		pub, err := broker.Connect(cfg.MQTTBrokerURL, cfg.MQTTClientID)
		if err != nil {
			log.WithError(err).Warn("MQTT broker unavailable, event fan-out disabled")
		} else {
			defer pub.Close()
			sinks = append(sinks, pub)
			log.WithField("broker", cfg.MQTTBrokerURL).Info("Publishing events to MQTT")
		}
	}

	plan, err := loadPlan(servePlanPath)
	if err != nil {
		return err
	}
	fleet, err := maintenance.NewService(store.Vehicles, plan)
	if err != nil {
		return err
	}
	ops := dispatch.NewService(store.Journeys, store.Deliveries, store.Couriers,
		dispatch.WithPublisher(sinks),
		dispatch.WithLocation(loc),
	)

	authService, err := auth.NewService(cfg.JWTSecret, cfg.JWTExpiry)
	if err != nil {
		return err
	}

	router := handlers.NewRouter(handlers.Options{
		Auth:           middleware.NewAuthMiddleware(authService),
		Handler:        handlers.NewHandler(fleet, ops, kpiCache, hub),
		RequestTimeout: cfg.RequestTimeout,
		RateLimit:      cfg.RateLimit,
		Production:     cfg.IsProduction(),
		Health: func(ctx context.Context) error {
			return mongoClient.Ping(ctx, nil)
		},
	})

	srv := &http.Server{
		Addr:              cfg.AppAddr,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		log.WithFields(log.Fields{"addr": cfg.AppAddr, "env": cfg.AppEnv}).Info("HTTP server listening")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		log.Info("Shutting down")
		hub.Close()
		sctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		return srv.Shutdown(sctx)
	})
	return g.Wait()
}

package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"golang.org/x/sync/errgroup"

	"github.com/mr1hm/go-ambulance-dashboard/internal/api"
	"github.com/mr1hm/go-ambulance-dashboard/internal/config"
	"github.com/mr1hm/go-ambulance-dashboard/internal/dashboard"
	"github.com/mr1hm/go-ambulance-dashboard/internal/feed"
	"github.com/mr1hm/go-ambulance-dashboard/internal/fleet"
	"github.com/mr1hm/go-ambulance-dashboard/internal/geolocation"
	internalgrpc "github.com/mr1hm/go-ambulance-dashboard/internal/grpc"
	"github.com/mr1hm/go-ambulance-dashboard/internal/hospital"
	"github.com/mr1hm/go-ambulance-dashboard/internal/logging"
	"github.com/mr1hm/go-ambulance-dashboard/internal/models"
	"github.com/mr1hm/go-ambulance-dashboard/internal/repository"
)

const (
	sessionTTL        = 24 * time.Hour
	sessionPruneEvery = 10 * time.Minute
)

func main() {
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		logging.Fatalf("Fatal while loading config: %v", err)
	}
	logging.Setup(cfg.Logging.Level)

	slog.Info("Server starting", "host", cfg.Server.Host, "port", cfg.Server.Port, "feed", cfg.Feed.Kind)
	if cfg.Session.IsDefaultSecret() {
		slog.Warn("SESSION_SECRET not set, signing viewer cookies with the development key")
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	loader, closeLoader, err := newHospitalLoader(ctx, cfg)
	if err != nil {
		logging.Fatalf("Failed to initialize hospital directory: %v", err)
	}
	defer closeLoader()

	// A failed directory is reported to clients, the service keeps running.
	directory := hospital.NewDirectory(loader)
	if err := directory.Load(ctx); err != nil {
		slog.Error("hospital directory failed to load", "error", err)
	}

	location := geolocation.Resolve(ctx, newLocator(cfg), cfg.Geolocation.Timeout)
	slog.Info("viewer location resolved", "location", location.String())

	source, err := newFeedSource(cfg)
	if err != nil {
		logging.Fatalf("Failed to initialize fleet feed: %v", err)
	}

	broadcaster := fleet.NewBroadcaster()
	subscriber := fleet.NewSubscriber(source, cfg.Feed.ReconnectInterval, broadcaster)
	subscriber.Start(ctx)

	sessions := dashboard.NewRegistry(sessionTTL)
	svc := dashboard.NewService(subscriber, directory, location, sessions)

	grpcServer := internalgrpc.NewServer(svc, broadcaster)

	gin.SetMode(gin.ReleaseMode)
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(api.CORSMiddleware(cfg.Server.CORSOrigins))
	router.Use(api.RateLimitMiddleware(cfg.Server.RateLimit))
	router.Use(api.SessionMiddleware(cfg.Session.Secret))

	handler := api.NewHandler(svc, broadcaster)
	handler.RegisterRoutes(router)

	srv := &http.Server{
		Addr:    fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port),
		Handler: router,
	}

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		sessions.Run(gctx, sessionPruneEvery)
		return nil
	})

	g.Go(func() error {
		grpcAddr := fmt.Sprintf(":%d", cfg.GRPC.Port)
		if err := grpcServer.Start(grpcAddr); err != nil {
			return fmt.Errorf("gRPC server error: %w", err)
		}
		return nil
	})

	g.Go(func() error {
		slog.Info("server listening", "addr", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("server error: %w", err)
		}
		return nil
	})

	g.Go(func() error {
		<-gctx.Done()
		slog.Info("shutting down...")

		subscriber.Stop()
		broadcaster.Close() // ends SSE, websocket and gRPC streams
		grpcServer.Stop()

		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			slog.Error("server shutdown error", "error", err)
		}
		return nil
	})

	if err := g.Wait(); err != nil {
		slog.Error("server stopped with error", "error", err)
		closeLoader()
		os.Exit(1)
	}

	slog.Info("shutdown complete")
}

func newHospitalLoader(ctx context.Context, cfg *config.Config) (hospital.Loader, func(), error) {
	noop := func() {}

	switch cfg.Hospitals.Source {
	case config.HospitalSourceYAML:
		return hospital.YAMLLoader{Path: cfg.Hospitals.File}, noop, nil
	case config.HospitalSourceSQLite:
		if err := os.MkdirAll(filepath.Dir(cfg.DB.Path), 0o755); err != nil {
			return nil, noop, fmt.Errorf("error creating database directory: %w", err)
		}
		db, err := repository.NewSQLiteDB(cfg.DB.Path)
		if err != nil {
			return nil, noop, err
		}
		n, err := db.SeedHospitals(ctx, hospital.DefaultHospitals())
		if err != nil {
			db.Close()
			return nil, noop, err
		}
		if n > 0 {
			slog.Info("seeded hospital directory", "count", n)
		}
		return hospital.RepositoryLoader{Repo: db}, func() { db.Close() }, nil
	default:
		return hospital.StaticLoader{}, noop, nil
	}
}

func newLocator(cfg *config.Config) geolocation.Locator {
	switch cfg.Geolocation.Provider {
	case config.LocatorStatic:
		return geolocation.StaticLocator{Coordinate: models.Coordinate{Lat: cfg.Geolocation.Lat, Lng: cfg.Geolocation.Lng}}
	case config.LocatorIP:
		return geolocation.NewIPLocator(cfg.Geolocation.IPLookupURL, cfg.Geolocation.Timeout)
	default:
		return nil
	}
}

func newFeedSource(cfg *config.Config) (feed.Source, error) {
	switch cfg.Feed.Kind {
	case config.FeedKindFirebase:
		return feed.NewFirebaseSource(cfg.Feed.FirebaseURL, cfg.Feed.Path, cfg.Feed.FirebaseAuth, cfg.Feed.Timeout, cfg.Feed.IdleTimeout)
	case config.FeedKindGTFSRT:
		return feed.NewGTFSRTSource(cfg.Feed.GTFSRTURL, cfg.Feed.PollInterval, cfg.Feed.Timeout), nil
	default:
		// no payload: the fallback fleet is shown
		return feed.StaticSource{}, nil
	}
}

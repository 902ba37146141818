package main

import (
	"context"
	"fmt"

	"github.com/jonboulle/clockwork"
	"go.uber.org/fx"
	"go.uber.org/fx/fxevent"
	"go.uber.org/zap"

	"github.com/naveenspark/stays/internal/bookings"
	"github.com/naveenspark/stays/internal/config"
	"github.com/naveenspark/stays/internal/location"
	"github.com/naveenspark/stays/internal/logging"
	"github.com/naveenspark/stays/internal/places"
	"github.com/naveenspark/stays/internal/session"
	"github.com/naveenspark/stays/internal/storage"
	"github.com/naveenspark/stays/pkg/client"
)

// env is everything a command needs once the graph is built.
type env struct {
	fx.In

	Config   *config.Config
	Log      *zap.Logger
	Clock    clockwork.Clock
	Store    *session.Store
	Manager  *session.Manager
	Gate     *session.Gate
	Places   *places.Service
	Bookings *bookings.Service
	Resolver *location.Resolver
}

func appOptions(opts options) fx.Option {
	return fx.Options(
		fx.Supply(opts),
		fx.Provide(
			loadConfig,
			newLogger,
			newKV,
			clockwork.NewRealClock,
			newAuthClient,
			newDatabase,
			newUploader,
			newGeocoder,
			newLocator,
			session.NewStore,
			newManager,
			session.NewGate,
			newPlaces,
			newBookings,
			location.NewResolver,
		),
		fx.WithLogger(func(log *zap.Logger) fxevent.Logger {
			return &fxevent.ZapLogger{Logger: log.Named("fx")}
		}),
	)
}

// loadConfig reads and validates the configuration for commands that talk
// to the backend.
func loadConfig(opts options) (*config.Config, error) {
	cfg, err := readConfig(opts)
	if err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func readConfig(opts options) (*config.Config, error) {
	path := opts.configPath
	if path == "" {
		var err error
		if path, err = config.DefaultPath(); err != nil {
			return nil, err
		}
	}
	return config.Load(path)
}

func newLogger(lc fx.Lifecycle, cfg *config.Config, opts options) (*zap.Logger, error) {
	log, err := logging.New(logging.Options{Path: cfg.LogFile, Level: cfg.LogLevel, Debug: opts.debug})
	if err != nil {
		return nil, fmt.Errorf("logger: %w", err)
	}
	lc.Append(fx.Hook{OnStop: func(context.Context) error {
		log.Sync() //nolint:errcheck // fails on some file types
		return nil
	}})
	return log, nil
}

func newKV(cfg *config.Config, log *zap.Logger) storage.KV {
	return storage.NewFileKV(cfg.DataDir, log)
}

func newAuthClient(cfg *config.Config) session.AuthAPI {
	return client.NewAuth(cfg.IdentityURL, cfg.APIKey)
}

func newDatabase(cfg *config.Config) *client.Client {
	return client.New(cfg.DatabaseURL)
}

func newUploader(cfg *config.Config) *client.Uploader {
	return client.NewUploader(cfg.UploadURL)
}

func newGeocoder(cfg *config.Config) *client.Geocoder {
	return client.NewGeocoder(cfg.MapsURL, cfg.MapsAPIKey)
}

func newLocator(cfg *config.Config) location.Locator {
	return location.NewIPLocator(cfg.GeolocateURL)
}

// newManager ties the expiry timer to the app lifecycle.
func newManager(lc fx.Lifecycle, auth session.AuthAPI, store *session.Store, kv storage.KV, clock clockwork.Clock, log *zap.Logger) *session.Manager {
	m := session.NewManager(auth, store, kv, clock, log)
	lc.Append(fx.Hook{OnStop: func(context.Context) error {
		m.Close()
		return nil
	}})
	return m
}

func newPlaces(db *client.Client, uploader *client.Uploader, store *session.Store, log *zap.Logger) *places.Service {
	return places.NewService(db, uploader, store, log)
}

func newBookings(db *client.Client, store *session.Store, log *zap.Logger) *bookings.Service {
	return bookings.NewService(db, store, log)
}

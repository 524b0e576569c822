package app

import (
	"context"
	"fmt"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/five82/stargazer/internal/apod"
	"github.com/five82/stargazer/internal/config"
	"github.com/five82/stargazer/internal/fetch"
	"github.com/five82/stargazer/internal/gateway"
	"github.com/five82/stargazer/internal/imagecache"
	"github.com/five82/stargazer/internal/logging"
	"github.com/five82/stargazer/internal/prefs"
	"github.com/five82/stargazer/internal/ui"
)

// Services are the long-lived components shared by every command.
type Services struct {
	Config  config.Config
	Log     *logrus.Logger
	Client  *apod.Client
	Cache   *imagecache.Cache
	Gateway *gateway.Gateway

	closeLog func() error
}

// NewServices builds the logger, API client, image cache and gateway from cfg.
func NewServices(cfg config.Config, verbose bool) (*Services, error) {
	logger, closeLog, err := logging.New(logging.Options{File: cfg.LogFile, Verbose: verbose})
	if err != nil {
		return nil, fmt.Errorf("init logging: %w", err)
	}

	client, err := apod.NewClient(apod.Options{
		BaseURL:           cfg.BaseURL,
		APIKey:            cfg.APIKey,
		Timeout:           cfg.Timeout,
		RequestsPerSecond: cfg.RequestsPerSecond,
	})
	if err != nil {
		_ = closeLog()
		return nil, fmt.Errorf("init apod client: %w", err)
	}

	cache, err := imagecache.New(cfg.CacheDir, logger)
	if err != nil {
		_ = closeLog()
		return nil, fmt.Errorf("init image cache: %w", err)
	}

	gw := gateway.New(client, cache, gateway.Options{PreferHD: cfg.PreferHD, Logger: logger})

	return &Services{
		Config:   cfg,
		Log:      logger,
		Client:   client,
		Cache:    cache,
		Gateway:  gw,
		closeLog: closeLog,
	}, nil
}

// Close releases the log file.
func (s *Services) Close() error {
	if s == nil || s.closeLog == nil {
		return nil
	}
	return s.closeLog()
}

// Options configure the interactive viewer.
type Options struct {
	Config    config.Config
	Verbose   bool
	PrefsPath string    // empty uses ~/.config/stargazer/prefs.toml
	Date      time.Time // zero starts on today
}

// Run boots the TUI until the user quits or the context is cancelled.
func Run(ctx context.Context, opts Options) error {
	svc, err := NewServices(opts.Config, opts.Verbose)
	if err != nil {
		return err
	}
	defer func() { _ = svc.Close() }()

	userPrefs := prefs.Load(opts.PrefsPath)
	svc.Log.WithFields(logrus.Fields{
		"cache_dir": svc.Config.CacheDir,
		"theme":     userPrefs.Theme,
	}).Info("stargazer starting")

	return ui.Run(ui.Options{
		Context:   ctx,
		Gateway:   svc.Gateway,
		Logger:    svc.Log,
		StartDate: opts.Date,
		ThemeName: userPrefs.Theme,
		PrefsPath: opts.PrefsPath,
	})
}

// FetchOnce runs a single fetch through a Coordinator and waits for its
// outcome. It returns ctx.Err() if the context ends first.
func FetchOnce(ctx context.Context, gw fetch.Gateway, log logrus.FieldLogger, date time.Time) (fetch.Outcome, error) {
	done := make(chan fetch.Outcome, 1)
	coordinator := fetch.NewCoordinator(gw, func(o fetch.Outcome) {
		done <- o
	}, fetch.WithLogger(log), fetch.WithContext(ctx))

	if coordinator.RequestFetch(date) != fetch.Accepted {
		return fetch.Outcome{}, fmt.Errorf("fetch already in flight")
	}

	select {
	case o := <-done:
		return o, nil
	case <-ctx.Done():
		return fetch.Outcome{}, ctx.Err()
	}
}

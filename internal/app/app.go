package app

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/five82/marquee/internal/cache"
	"github.com/five82/marquee/internal/config"
	"github.com/five82/marquee/internal/content"
	"github.com/five82/marquee/internal/link"
	"github.com/five82/marquee/internal/logging"
	"github.com/five82/marquee/internal/marquee"
	"github.com/five82/marquee/internal/nvstore"
	"github.com/five82/marquee/internal/prefs"
	"github.com/five82/marquee/internal/remote"
	"github.com/five82/marquee/internal/remotesync"
	"github.com/five82/marquee/internal/scheduler"
	"github.com/five82/marquee/internal/state"
	"github.com/five82/marquee/internal/ui"
)

// Options configure the sign.
type Options struct {
	ConfigPath string
	PrefsPath  string // empty uses default ~/.config/marquee/prefs.toml
	// Headless runs without the terminal panel and logs to stderr.
	Headless bool
}

// Sign is the wired device: storage, link, sync and rendering.
type Sign struct {
	Config    config.Config
	Logger    *slog.Logger
	Model     *content.Model
	Storage   nvstore.Store
	Syncer    *remotesync.Syncer
	Monitor   *link.Monitor
	Scheduler *scheduler.Scheduler
	Panel     *ui.Panel
	Store     *state.Store
}

// Deps override the host collaborators. Nil fields get the defaults: the
// REST client, HostRadio and FilePortal.
type Deps struct {
	Source remote.Source
	Radio  link.Radio
	Portal link.Portal
}

// Build wires a Sign from cfg. Nothing is started.
func Build(cfg config.Config, logger *slog.Logger, deps Deps) (*Sign, error) {
	storage, err := nvstore.OpenFile(cfg.StoragePath, cache.RecordSize)
	if err != nil {
		return nil, fmt.Errorf("open storage: %w", err)
	}

	model := content.NewModel()
	restored := cache.Load(storage)
	model.Restore(restored)
	logger.Info("cache loaded",
		"path", cfg.StoragePath,
		"count", restored.Count(),
		"selected", restored.Selected(),
	)

	probeAddr := ""
	if deps.Source == nil {
		client, err := remote.NewClient(cfg.RemoteURL, cfg.RemoteAuth)
		if err != nil {
			return nil, fmt.Errorf("init remote client: %w", err)
		}
		client.SetTimeout(cfg.RemoteTimeout)
		deps.Source = client
		probeAddr = client.Addr()
	}

	syncer := remotesync.New(deps.Source, remotesync.Options{
		Paths:      remotesync.Paths{Root: cfg.RemoteRoot},
		ScanWindow: cfg.ScanWindow,
		Logger:     logger.With("component", "sync"),
	})

	creds := link.CredentialStore{Path: cfg.CredentialsPath}
	if deps.Radio == nil {
		deps.Radio = &link.HostRadio{Credentials: creds, ProbeAddr: probeAddr}
	}
	if deps.Portal == nil {
		deps.Portal = &link.FilePortal{
			Credentials: creds,
			Radio:       deps.Radio,
			Logger:      logger.With("component", "portal"),
		}
	}

	s := &Sign{
		Config:  cfg,
		Logger:  logger,
		Model:   model,
		Storage: storage,
		Syncer:  syncer,
		Store:   &state.Store{},
	}

	s.Monitor = link.NewMonitor(link.Config{
		ReconnectTimeout:  cfg.ReconnectTimeout,
		ReconnectAttempts: cfg.ReconnectAttempts,
		ReconnectSpacing:  cfg.ReconnectSpacing,
		PortalTimeout:     cfg.PortalTimeout,
		APName:            cfg.APName,
	}, deps.Radio, deps.Portal, link.Hooks{
		OnUp:   s.linkUp,
		OnDown: syncer.MarkUnavailable,
	}, logger.With("component", "link"))

	s.Panel = ui.NewPanel(cfg.PanelWidth, cfg.PanelHeight, s.Store)
	s.Scheduler = scheduler.New(scheduler.Options{
		Model:        model,
		Link:         s.Monitor,
		Sync:         syncer,
		Flusher:      cache.NewFlusher(storage, cfg.FlushDebounce, cfg.FlushMinInterval),
		Driver:       s.Panel,
		Scroller:     marquee.NewScroller(cfg.ScrollStep),
		FramePeriod:  cfg.FramePeriod,
		LinkInterval: cfg.LinkCheck,
		SyncInterval: cfg.SyncInterval,
		PollTimeout:  cfg.PollTimeout,
		Observer:     s.Store.UpdateStatus,
		Logger:       logger.With("component", "scheduler"),
	})
	return s, nil
}

func (s *Sign) linkUp() {
	s.Syncer.Reset()
	if s.Scheduler != nil {
		s.Scheduler.LinkUp()
	}
}

// Shutdown saves unsaved content. Call it only after the scheduler stopped.
func (s *Sign) Shutdown() {
	if !s.Model.Dirty {
		return
	}
	if err := cache.Save(s.Storage, s.Model.Table()); err != nil {
		s.Logger.Warn("final cache save failed", "error", err)
		return
	}
	s.Model.MarkSaved(time.Now())
	s.Logger.Info("cache saved on shutdown")
}

// Run boots the sign until the context is cancelled, the user quits, or
// the link monitor requests a restart (link.ErrRestart).
func Run(ctx context.Context, opts Options) error {
	cfg, err := config.Load(opts.ConfigPath)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	userPrefs, prefsErr := prefs.Load(opts.PrefsPath)

	logFile := cfg.LogFile
	if opts.Headless {
		logFile = "-"
	}
	logger, closer, err := logging.Setup(logging.Options{
		Level:   cfg.LogLevel,
		Format:  cfg.LogFormat,
		File:    logFile,
		NoColor: logFile != "-",
	})
	if err != nil {
		return fmt.Errorf("setup logging: %w", err)
	}
	defer func() { _ = closer.Close() }()
	if prefsErr != nil {
		logger.Warn("ignoring UI preferences", "error", prefsErr)
	}

	sign, err := Build(cfg, logger, Deps{})
	if err != nil {
		return err
	}

	schedCtx, stopSched := context.WithCancel(ctx)
	defer stopSched()
	done := StartScheduler(schedCtx, sign)

	if opts.Headless {
		err := <-done
		sign.Shutdown()
		return err
	}

	uiCtx, stopUI := context.WithCancel(ctx)
	defer stopUI()
	result := make(chan error, 1)
	go func() {
		err := <-done
		result <- err
		stopUI()
	}()

	uiErr := ui.Run(uiCtx, ui.Options{
		Store:        sign.Store,
		ThemeName:    userPrefs.Theme,
		PrefsPath:    opts.PrefsPath,
		ShowStatus:   userPrefs.StatusVisible(),
		ShowLogs:     userPrefs.ShowLogs,
		RefreshEvery: cfg.ScrollStep,
		OnRefresh:    sign.Scheduler.RequestSync,
		LogPath:      logFile,
	})
	stopSched()
	schedErr := <-result
	sign.Shutdown()
	if schedErr != nil {
		return schedErr
	}
	return uiErr
}

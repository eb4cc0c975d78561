package main

import (
	"io"
	"log/slog"
	"os"
	"time"

	"subtitlecat/internal/config"
	"subtitlecat/internal/history"
	"subtitlecat/internal/keystore"
	"subtitlecat/internal/library"
	"subtitlecat/internal/logging"
	"subtitlecat/internal/prompt"
	"subtitlecat/internal/selection"
	"subtitlecat/internal/session"
	"subtitlecat/internal/toolexec"
	"subtitlecat/internal/translation/gemini"
	"subtitlecat/internal/workflow"
)

// app is the wired object graph shared by the batch commands and the shell.
type app struct {
	cfg      *config.Config
	hub      *logging.StreamHub
	logger   *slog.Logger
	keys     *keystore.Store
	history  *history.Store
	settings *workflow.Settings
	broker   *prompt.Broker
	manager  *workflow.Manager
}

func newApp(cfg *config.Config, root string) (*app, error) {
	hub := logging.NewStreamHub(cfg.Logging.DisplayLines)
	logger, err := logging.NewFromConfig(cfg, hub)
	if err != nil {
		return nil, err
	}

	keys, err := keystore.Open(cfg.Paths.APIKeysFile)
	if err != nil {
		return nil, err
	}

	var store *history.Store
	if cfg.History.Enabled {
		store, err = history.Open(cfg.Paths.HistoryDB)
		if err != nil {
			logging.WarnWithContext(logger, "run history unavailable", "history_open_failed",
				logging.Error(err),
				logging.String(logging.FieldImpact, "batches run without being recorded"),
				logging.String(logging.FieldErrorHint, "check paths.history_db or set history.enabled = false"),
			)
			store = nil
		}
	}

	catalog := library.NewCatalog(libraryOptions(cfg))
	settings := workflow.NewSettings(catalog, selection.NewLanguageSet(cfg.Languages.Default...), keys, cfg.Languages.Target)
	if root != "" {
		if _, err := settings.SetRoot(root); err != nil {
			closeStore(store)
			return nil, err
		}
	}

	translator := gemini.New(gemini.Config{
		Model:          cfg.Translation.Model,
		BatchSize:      cfg.Translation.BatchSize,
		RequestTimeout: time.Duration(cfg.Translation.RequestTimeoutSeconds) * time.Second,
		SkipExisting:   cfg.Translation.SkipExisting,
		DropAds:        cfg.Translation.DropAds,
	}, keys, logger)

	broker := prompt.NewBroker()
	manager := workflow.NewManager(settings,
		workflow.Tools{
			Runner:  toolexec.ExecRunner{Timeout: cfg.ToolTimeout()},
			FFprobe: cfg.FFprobeBinary(),
			FFmpeg:  cfg.FFmpegBinary(),
		},
		broker,
		workflow.Translator{Translate: translator.Translate, OutputPath: gemini.OutputPath},
		logger,
		workflow.WithRecorder(history.NewRecorder(store, logger)),
	)

	return &app{
		cfg:      cfg,
		hub:      hub,
		logger:   logger,
		keys:     keys,
		history:  store,
		settings: settings,
		broker:   broker,
		manager:  manager,
	}, nil
}

func (a *app) Close() {
	a.manager.Wait()
	closeStore(a.history)
}

// session builds a front end reading from in and printing to out.
func (a *app) session(in io.Reader, out io.Writer, watch bool) *session.Session {
	interactive := false
	if f, ok := in.(*os.File); ok {
		interactive = session.IsTerminal(f)
	}
	return session.New(a.manager, a.broker, a.hub, a.logger, session.Options{
		In:              in,
		Out:             out,
		DrainInterval:   a.cfg.DrainInterval(),
		DrainBatch:      a.cfg.Session.DrainBatch,
		Colorize:        session.ShouldColorize(out),
		Interactive:     interactive,
		Watch:           watch,
		WatchExtensions: watchExtensions(a.cfg),
	})
}

func libraryOptions(cfg *config.Config) library.Options {
	return library.Options{
		VideoExtensions:    cfg.Library.VideoExtensions,
		SubtitleExtensions: cfg.Library.SubtitleExtensions,
	}
}

func watchExtensions(cfg *config.Config) []string {
	exts := append([]string(nil), cfg.Library.VideoExtensions...)
	return append(exts, cfg.Library.SubtitleExtensions...)
}

func closeStore(store *history.Store) {
	if store != nil {
		_ = store.Close()
	}
}

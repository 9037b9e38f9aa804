package main

import (
	"fmt"
	"io"
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/mmcdole/shelf/internal/adapter"
	"github.com/mmcdole/shelf/internal/library"
	"github.com/mmcdole/shelf/internal/output"
	"github.com/mmcdole/shelf/internal/store"
)

// app carries flag values and lazily opened dependencies across commands
type app struct {
	configFile string
	file       string
	backend    string
	format     string
	logLevel   string

	cfg    *adapter.Config
	logger *slog.Logger
	svc    *library.Service
}

func newRootCmd(a *app) *cobra.Command {
	root := &cobra.Command{
		Use:   "shelf",
		Short: "Personal book catalog",
		Long: `Shelf keeps a catalog of your books in a local file.

Add and remove books, search by title or author, and see how much of
your collection you have read. Run "shelf browse" for an interactive view.`,
		SilenceUsage:      true,
		SilenceErrors:     true,
		PersistentPreRunE: a.setup,
	}

	root.AddGroup(
		&cobra.Group{ID: "catalog", Title: "Catalog Commands:"},
		&cobra.Group{ID: "management", Title: "Management Commands:"},
	)

	flags := root.PersistentFlags()
	flags.StringVar(&a.configFile, "config", "", "config file (default is $HOME/.config/shelf/config.yaml)")
	flags.StringVarP(&a.file, "file", "f", "", "catalog location (overrides storage.path)")
	flags.StringVar(&a.backend, "backend", "", "storage backend: json, bolt or sqlite (overrides storage.backend)")
	flags.StringVarP(&a.format, "output", "o", "", "output format: table, json or yaml (default: table on a terminal, json otherwise)")
	flags.StringVar(&a.logLevel, "log-level", "", "log level: debug, info, warn or error")

	root.AddCommand(
		newAddCmd(a),
		newRemoveCmd(a),
		newSearchCmd(a),
		newListCmd(a),
		newStatsCmd(a),
		newBrowseCmd(a),
		newConfigCmd(a),
		newVersionCmd(),
	)
	return root
}

// setup loads configuration and logging. The catalog itself is opened on
// first use so commands like version never touch storage.
func (a *app) setup(cmd *cobra.Command, _ []string) error {
	cfg, err := adapter.LoadConfig(a.configFile)
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	if a.file != "" {
		cfg.Storage.Path = adapter.ExpandHome(a.file)
	}
	if a.backend != "" {
		cfg.Storage.Backend = a.backend
	}
	if a.format != "" {
		cfg.Output.Format = a.format
	}
	if a.logLevel != "" {
		cfg.Logging.Level = a.logLevel
	}
	if _, err := output.ParseFormat(cfg.Output.Format); err != nil {
		return err
	}
	a.cfg = cfg

	logger, err := adapter.SetupLogger(&cfg.Logging)
	if err != nil {
		// Fall back to null logger if file logging fails
		logger = adapter.NullLogger()
	}
	a.logger = logger
	a.logger.Debug("running command", "command", cmd.CommandPath())
	return nil
}

// catalog opens the configured storage and loads the library service
func (a *app) catalog() (*library.Service, error) {
	if a.svc != nil {
		return a.svc, nil
	}

	storage, err := store.Open(a.cfg.Storage.Backend, a.cfg.Storage.Path)
	if err != nil {
		return nil, fmt.Errorf("failed to open catalog: %w", err)
	}

	svc, err := library.New(storage, a.logger)
	if err != nil {
		storage.Close()
		return nil, err
	}
	a.svc = svc
	return svc, nil
}

func (a *app) close() {
	if a.svc == nil {
		return
	}
	if err := a.svc.Close(); err != nil {
		a.logger.Error("failed to close catalog", "error", err)
	}
	a.svc = nil
}

func (a *app) outputFormat() output.Format {
	return output.DetectFormat(a.cfg.Output.Format)
}

// render writes data with the selected formatter
func (a *app) render(w io.Writer, data any) error {
	return output.NewFormatter(a.outputFormat()).Format(w, data)
}

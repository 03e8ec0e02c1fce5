// Package internal provides the application entry points behind the
// extract, sync and migrate commands.
package internal

import (
	"context"
	"fmt"
	"log/slog"
	"os"

	"github.com/starford/flowscript/internal/apperr"
	"github.com/starford/flowscript/internal/flows"
	"github.com/starford/flowscript/internal/report"
	"github.com/starford/flowscript/internal/scriptservice"
)

func newApplication(opts []Option) (*application, *slog.Logger, error) {
	app := &application{stdout: os.Stdout, stderr: os.Stderr}
	for _, opt := range opts {
		opt(app)
	}
	if app.config == nil {
		return nil, nil, fmt.Errorf("config is required")
	}
	if err := app.config.Validate(); err != nil {
		return nil, nil, fmt.Errorf("config validation failed: %w", err)
	}

	cfg := app.config
	handlerOpts := &slog.HandlerOptions{Level: cfg.App.LogLevel}
	var handler slog.Handler
	if cfg.App.LogFormat == LogFormatJSON {
		handler = slog.NewJSONHandler(app.stderr, handlerOpts)
	} else {
		handler = slog.NewTextHandler(app.stderr, handlerOpts)
	}
	logger := slog.New(handler)
	slog.SetDefault(logger)

	logger.Debug("Configuration loaded",
		slog.String("flows_path", cfg.Flows.Path),
		slog.String("source_root", cfg.Source.Root),
		slog.Bool("dry_run", app.dryRun),
		slog.String("log_level", cfg.App.LogLevel.String()))
	return app, logger, nil
}

func (a *application) service(logger *slog.Logger) *scriptservice.Service {
	opts := []scriptservice.Option{
		scriptservice.WithLogger(logger),
		scriptservice.WithFilter(a.config.Source.Filter()),
		scriptservice.WithDryRun(a.dryRun),
	}
	if a.scanLimit > 0 {
		opts = append(opts, scriptservice.WithScanLimit(a.scanLimit))
	}
	return scriptservice.New(a.config.Source.Root, opts...)
}

func (a *application) loadDocument() (*flows.Document, error) {
	return flows.Load(a.config.Flows.Path, a.config.Flows.Indent)
}

// RunExtract extracts the function node id into the script root.
func RunExtract(ctx context.Context, id string, opts ...Option) error {
	app, logger, err := newApplication(opts)
	if err != nil {
		return err
	}
	if id == "" {
		return fmt.Errorf("extract: %w (pass a node id or --scan)", apperr.ErrMissingID)
	}
	doc, err := app.loadDocument()
	if err != nil {
		return err
	}
	res, err := app.service(logger).Extract(ctx, doc, id)
	if err != nil {
		return fmt.Errorf("extract: %w", err)
	}
	return report.Extract(app.stdout, res)
}

// RunScan prints the complexity ranking of the document's function nodes.
func RunScan(ctx context.Context, opts ...Option) error {
	app, logger, err := newApplication(opts)
	if err != nil {
		return err
	}
	doc, err := app.loadDocument()
	if err != nil {
		return err
	}
	entries, err := app.service(logger).Scan(ctx, doc)
	if err != nil {
		return fmt.Errorf("scan: %w", err)
	}
	return report.Scan(app.stdout, entries)
}

// RunSync writes script file edits back into the flows document.
func RunSync(ctx context.Context, opts ...Option) error {
	app, logger, err := newApplication(opts)
	if err != nil {
		return err
	}
	doc, err := app.loadDocument()
	if err != nil {
		return err
	}
	r, err := app.service(logger).Sync(ctx, doc)
	if err != nil {
		return fmt.Errorf("sync: %w", err)
	}
	return report.Sync(app.stdout, r, app.dryRun)
}

// RunMigrate upgrades legacy script files. When withDocument is false the
// flows document is not read and files are converted in place only.
func RunMigrate(ctx context.Context, withDocument bool, opts ...Option) error {
	app, logger, err := newApplication(opts)
	if err != nil {
		return err
	}
	var doc *flows.Document
	if withDocument {
		if doc, err = app.loadDocument(); err != nil {
			return err
		}
	}
	r, err := app.service(logger).Migrate(ctx, doc)
	if err != nil {
		return fmt.Errorf("migrate: %w", err)
	}
	return report.Migrate(app.stdout, r, app.dryRun)
}

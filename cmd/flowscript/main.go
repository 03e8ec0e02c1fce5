package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"

	_ "github.com/joho/godotenv/autoload"
	"github.com/urfave/cli/v3"

	"github.com/starford/flowscript/internal"
	pkgconfig "github.com/starford/flowscript/pkg/config"
)

const defaultConfigPath = "flowscript.yaml"

func commonFlags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:        "config",
			Aliases:     []string{"c"},
			Usage:       "Path to config file (optional)",
			DefaultText: defaultConfigPath,
			Value:       defaultConfigPath,
			Sources:     cli.EnvVars("FLOWSCRIPT_CONFIG"),
		},
		&cli.StringFlag{
			Name:    "flows",
			Aliases: []string{"f"},
			Usage:   "Path to the flows document",
			Value:   "flows.json",
			Sources: cli.EnvVars("FLOWS_FILE"),
		},
		&cli.StringFlag{
			Name:    "src",
			Aliases: []string{"s"},
			Usage:   "Script root directory",
			Value:   "src",
			Sources: cli.EnvVars("FLOWSCRIPT_SRC"),
		},
		&cli.StringFlag{
			Name:    "log-level",
			Usage:   "Log level: debug, info, warn or error",
			Sources: cli.EnvVars("FLOWSCRIPT_LOG_LEVEL"),
		},
	}
}

func dryRunFlag() cli.Flag {
	return &cli.BoolFlag{
		Name:  "dry-run",
		Usage: "Report changes without writing them",
	}
}

// loadConfig layers defaults, the optional config file and explicit flags.
func loadConfig(cmd *cli.Command) (*internal.Config, error) {
	cfg := internal.NewDefaultConfig()

	configPath := cmd.String("config")
	if cmd.IsSet("config") {
		if err := pkgconfig.Load(configPath, cfg); err != nil {
			return nil, fmt.Errorf("failed to parse config: %w", err)
		}
	} else if _, err := pkgconfig.LoadOptional(configPath, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}

	if cmd.IsSet("flows") {
		cfg.Flows.Path = cmd.String("flows")
	}
	if cmd.IsSet("src") {
		cfg.Source.Root = cmd.String("src")
	}
	if lvl := cmd.String("log-level"); lvl != "" {
		var level slog.Level
		if err := level.UnmarshalText([]byte(lvl)); err != nil {
			return nil, fmt.Errorf("invalid log level %q: %w", lvl, err)
		}
		cfg.App.LogLevel = level
	}
	return cfg, nil
}

func runExtract(ctx context.Context, cmd *cli.Command) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	opts := []internal.Option{
		internal.WithConfig(cfg),
		internal.WithScanLimit(int(cmd.Int("limit"))),
	}
	if cmd.Bool("scan") {
		return internal.RunScan(ctx, opts...)
	}
	return internal.RunExtract(ctx, cmd.Args().First(), opts...)
}

func runSync(ctx context.Context, cmd *cli.Command) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	return internal.RunSync(ctx,
		internal.WithConfig(cfg),
		internal.WithDryRun(cmd.Bool("dry-run")))
}

func runMigrate(ctx context.Context, cmd *cli.Command) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	return internal.RunMigrate(ctx, cmd.IsSet("flows"),
		internal.WithConfig(cfg),
		internal.WithDryRun(cmd.Bool("dry-run")))
}

func main() {
	cmd := &cli.Command{
		Name:  "flowscript",
		Usage: "Extract function-node scripts from a flows document into files and sync edits back",
		Commands: []*cli.Command{
			{
				Name:      "extract",
				Usage:     "Extract one function node into the script root, or rank nodes with --scan",
				ArgsUsage: "[node-id]",
				Action:    runExtract,
				Flags: append(commonFlags(),
					&cli.BoolFlag{
						Name:  "scan",
						Usage: "List the most complex function nodes instead of extracting",
					},
					&cli.IntFlag{
						Name:  "limit",
						Usage: "Number of rows in the scan report",
						Value: 20,
					},
				),
			},
			{
				Name:   "sync",
				Usage:  "Write edited script files back into the flows document",
				Action: runSync,
				Flags:  append(commonFlags(), dryRunFlag()),
			},
			{
				Name:   "migrate",
				Usage:  "Convert legacy metadata and move files into container folders (pass --flows to backfill and relocate)",
				Action: runMigrate,
				Flags:  append(commonFlags(), dryRunFlag()),
			},
		},
	}

	if err := cmd.Run(context.Background(), os.Args); err != nil {
		slog.Error("application error", slog.String("error", err.Error()))
		os.Exit(1)
	}
}

package cli

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/forPelevin/timetag/internal/config"
	"github.com/forPelevin/timetag/internal/logging"
	"github.com/forPelevin/timetag/internal/pipeline"
	"github.com/forPelevin/timetag/internal/types"
)

func run(cmd *cobra.Command, inputs []string) error {
	start, _ := cmd.Flags().GetString("start")
	end, _ := cmd.Flags().GetString("end")
	dryRun, _ := cmd.Flags().GetBool("dry-run")
	verbose, _ := cmd.Flags().GetBool("verbose")

	settings, err := loadSettings(cmd)
	if err != nil {
		return fmt.Errorf("config: %w", err)
	}
	timeout, _ := settings.TimeoutDuration()

	log, err := logging.New(logging.Options{
		Level:  settings.Logging.Level,
		Format: settings.Logging.Format,
		Writer: cmd.ErrOrStderr(),
	})
	if err != nil {
		return fmt.Errorf("config: %w", err)
	}

	cfg := pipeline.Config{
		Inputs:  inputs,
		Trim:    types.TrimRange{Start: start, End: end},
		Timeout: timeout,
		DryRun:  dryRun,

		FFmpegPath:  settings.FFmpegPath,
		FFprobePath: settings.FFprobePath,
		FontFile:    settings.FontFile,

		Log: log,
		Out: cmd.OutOrStdout(),
	}
	if verbose {
		cfg.EngineLog = cmd.ErrOrStderr()
	}
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("config: %w", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	_, err = pipeline.Run(ctx, cfg)
	return err
}

// loadSettings layers defaults, the TOML file, TIMETAG_* variables and
// finally explicitly set flags.
func loadSettings(cmd *cobra.Command) (config.Config, error) {
	path, _ := cmd.Flags().GetString("config")
	explicit := path != ""
	if !explicit {
		path = os.Getenv(config.EnvConfig)
		explicit = path != ""
	}

	settings, err := config.Load(path, explicit)
	if err != nil {
		return settings, err
	}
	settings.ApplyEnv(os.Getenv)

	if cmd.Flags().Changed("timeout") {
		d, _ := cmd.Flags().GetDuration("timeout")
		settings.Timeout = d.String()
	}
	if cmd.Flags().Changed("log-format") {
		settings.Logging.Format, _ = cmd.Flags().GetString("log-format")
	}
	if v, _ := cmd.Flags().GetBool("verbose"); v {
		settings.Logging.Level = "debug"
	}

	return settings, settings.Validate()
}

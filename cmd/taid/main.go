package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"runtime"
	"runtime/debug"
	"syscall"

	"github.com/spf13/cobra"
	pflag "github.com/spf13/pflag"

	"github.com/hongliMurphy/oopt-tai/internal/cliconfig"
	"github.com/hongliMurphy/oopt-tai/pkg/log"
	"github.com/hongliMurphy/oopt-tai/pkg/tai"
	"github.com/hongliMurphy/oopt-tai/plugins/presence"
)

const longHelp = `taid hosts the transponder platform: it creates a module per configured
location, drives each module's state machine to READY, and keeps the
topology in sync with presence files when a presence directory is set.`

const exampleUsage = `  taid --location 0 --location 1
  taid --config $HOME/.taid/config.toml --presence-dir /var/run/tai/presence`

func getVersion() string {
	if info, ok := debug.ReadBuildInfo(); ok && info.Main.Version != "" {
		return info.Main.Version
	}
	return "dev"
}

func main() {
	cfg := cliconfig.DefaultConfig()
	var cfgPath string

	clilog := cliconfig.Logger()

	root := &cobra.Command{
		Use:     "taid",
		Short:   "Host the transponder platform",
		Long:    longHelp,
		Example: exampleUsage,
		Version: fmt.Sprintf("%s %s/%s", getVersion(), runtime.GOOS, runtime.GOARCH),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfgFile := cfgPath
			if cfgFile == "" {
				cfgFile = cliconfig.DefaultConfigPath()
			}

			// Precedence: flags > environment > file > defaults.
			changed := map[string]bool{}
			cmd.Flags().Visit(func(f *pflag.Flag) { changed[f.Name] = true })

			if cfgFile != "" && cliconfig.FileExists(cfgFile) {
				fc, err := cliconfig.LoadFileConfig(cfgFile)
				if err != nil {
					return fmt.Errorf("load config: %w", err)
				}
				if err := cliconfig.ApplyFileConfig(&cfg, fc, changed); err != nil {
					return err
				}
			}

			if err := cliconfig.ApplyEnvConfig(&cfg, changed); err != nil {
				return err
			}

			if err := cfg.Validate(); err != nil {
				return err
			}

			clilog.Info().Interface("config", cfg).Msg("configuration")

			libCfg := tai.Config{
				Locations:        cfg.Locations,
				CreateInterfaces: cfg.CreateInterfaces,
				PresenceDir:      cfg.PresenceDir,
				StartupTimeout:   cfg.StartupTimeout,
				ShutdownTimeout:  cfg.ShutdownTimeout,
			}

			zl := clilog.Level(cliconfig.ParseLevel(cfg.LogLevel))
			logger := log.NewZerologAdapterWithLogger(zl)

			host, err := tai.New(libCfg,
				tai.WithLogger(logger),
				presence.WithDefaultPresenceWatch(),
			)
			if err != nil {
				return fmt.Errorf("create host: %w", err)
			}

			ctx, cancel := context.WithCancel(context.Background())
			defer cancel()

			sigCh := make(chan os.Signal, 1)
			signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

			if err := host.Start(ctx); err != nil {
				return fmt.Errorf("start host: %w", err)
			}

			sig := <-sigCh
			clilog.Info().Str("signal", sig.String()).Msg("received signal, stopping...")

			if err := host.Stop(context.Background()); err != nil {
				return fmt.Errorf("stop host: %w", err)
			}
			return nil
		},
	}

	root.Flags().StringVar(&cfgPath, "config", "", "path to config file (default: $HOME/.taid/config.toml)")
	root.Flags().StringSliceVar(&cfg.Locations, "location", cfg.Locations, "module location to manage (repeatable)")
	root.Flags().StringVar(&cfg.PresenceDir, "presence-dir", cfg.PresenceDir, "directory watched for module presence files")
	root.Flags().BoolVar(&cfg.CreateInterfaces, "create-interfaces", cfg.CreateInterfaces, "create network and host interfaces with each module")
	root.Flags().StringVar(&cfg.LogLevel, "log-level", cfg.LogLevel, "log level (debug, info, warn, error)")
	root.Flags().DurationVar(&cfg.StartupTimeout, "startup-timeout", cfg.StartupTimeout, "time allowed for a module to reach READY")
	root.Flags().DurationVar(&cfg.ShutdownTimeout, "shutdown-timeout", cfg.ShutdownTimeout, "time allowed for shutdown")

	if err := root.Execute(); err != nil {
		clilog.Error().Err(err).Msg("taid")
		os.Exit(1)
	}
}

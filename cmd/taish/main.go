package main

import (
	"context"
	"fmt"
	"os"
	"runtime"
	"runtime/debug"

	"github.com/spf13/cobra"

	"github.com/hongliMurphy/oopt-tai/internal/cliconfig"
	"github.com/hongliMurphy/oopt-tai/pkg/log"
	"github.com/hongliMurphy/oopt-tai/pkg/tai"
	"github.com/hongliMurphy/oopt-tai/plugins/presence"
)

const longHelp = `taish starts an in-process platform host with simulated hardware and
drops into an interactive shell for poking at it: listing modules,
requesting transitions, and reading or writing the tx-disable control.`

func getVersion() string {
	if info, ok := debug.ReadBuildInfo(); ok && info.Main.Version != "" {
		return info.Main.Version
	}
	return "dev"
}

func main() {
	cfg := tai.DefaultConfig()
	logLevel := "warn"

	clilog := cliconfig.Logger()

	root := &cobra.Command{
		Use:     "taish",
		Short:   "Interactive shell for the transponder platform",
		Long:    longHelp,
		Version: fmt.Sprintf("%s %s/%s", getVersion(), runtime.GOOS, runtime.GOARCH),
		RunE: func(cmd *cobra.Command, args []string) error {
			zl := clilog.Level(cliconfig.ParseLevel(logLevel))
			logger := log.NewZerologAdapterWithLogger(zl)

			opts := []tai.Option{tai.WithLogger(logger)}
			if cfg.PresenceDir != "" {
				opts = append(opts, presence.WithDefaultPresenceWatch())
			}

			host, err := tai.New(cfg, opts...)
			if err != nil {
				return fmt.Errorf("create host: %w", err)
			}

			ctx, cancel := context.WithCancel(context.Background())
			defer cancel()

			if err := host.Start(ctx); err != nil {
				return fmt.Errorf("start host: %w", err)
			}
			defer host.Stop(context.Background())

			sh, err := newShell(host)
			if err != nil {
				return err
			}
			sh.run(ctx, cancel)
			return nil
		},
	}

	root.Flags().StringSliceVar(&cfg.Locations, "location", cfg.Locations, "module location to manage (repeatable)")
	root.Flags().StringVar(&cfg.PresenceDir, "presence-dir", cfg.PresenceDir, "directory watched for module presence files")
	root.Flags().BoolVar(&cfg.CreateInterfaces, "create-interfaces", cfg.CreateInterfaces, "create network and host interfaces with each module")
	root.Flags().StringVar(&logLevel, "log-level", logLevel, "log level (debug, info, warn, error)")

	if err := root.Execute(); err != nil {
		clilog.Error().Err(err).Msg("taish")
		os.Exit(1)
	}
}

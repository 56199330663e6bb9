package main

import (
	"os"
	"time"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
)

var (
	flagFolder   string
	flagOverride bool
	flagLogLevel string

	logger zerolog.Logger
)

func newRootCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:           "traphctl",
		Short:         "Operate a Traph block store from the command line",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			logger = newLogger(flagLogLevel)
			return nil
		},
	}

	cmd.PersistentFlags().StringVar(&flagFolder, "folder", "", "directory holding lru_trie.dat and link_store.dat (empty for memory-backed)")
	cmd.PersistentFlags().BoolVar(&flagOverride, "overwrite", false, "truncate existing store files at open")
	cmd.PersistentFlags().StringVar(&flagLogLevel, "log-level", "info", "log level: debug, info, warn, error")

	cmd.AddCommand(newIngestCommand())
	cmd.AddCommand(newRuleCommand())
	cmd.AddCommand(newServeMetricsCommand())

	return cmd
}

func newLogger(level string) zerolog.Logger {
	lvl, err := zerolog.ParseLevel(level)
	if err != nil {
		lvl = zerolog.InfoLevel
	}

	writer := zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.RFC3339}
	return zerolog.New(writer).Level(lvl).With().Timestamp().Logger()
}

package main

import (
	"os"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
)

var (
	flagConfigPath string
	flagLogLevel   string

	log zerolog.Logger
)

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:   "washcore",
		Short: "A Dreamcast guest execution engine core",
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			level, err := zerolog.ParseLevel(flagLogLevel)
			if err != nil {
				return err
			}
			log = zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: "15:04:05"}).
				Level(level).With().Timestamp().Logger()
			return nil
		},
	}
	root.PersistentFlags().StringVar(&flagConfigPath, "config", "", "path to wash.cfg (defaults to $XDG_CONFIG_HOME/washdc/wash.cfg)")
	root.PersistentFlags().StringVar(&flagLogLevel, "log-level", "info", "log level: debug, info, warn, error")

	root.AddCommand(newRunCmd())
	root.AddCommand(newHeadlessCmd())
	root.AddCommand(newConfigTestCmd())
	return root
}

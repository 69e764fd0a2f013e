package main

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"
)

var (
	configFile string
	debugMode  bool
)

func setupLogger(debug bool) {
	level := slog.LevelInfo
	if debug {
		level = slog.LevelDebug
	}
	handler := slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level:     level,
		AddSource: true,
	})
	slog.SetDefault(slog.New(handler))
}

func newRootCommand() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:           "teacherlee",
		Short:         "Track language and programming study and sync it with your account",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			setupLogger(debugMode)
			return nil
		},
	}

	flags := rootCmd.PersistentFlags()
	flags.StringVar(&configFile, "config", "", "config file (default is ./config.yml or $HOME/.config/teacherlee/config.yml)")
	flags.BoolVar(&debugMode, "debug", false, "Enable debug logging")

	rootCmd.AddCommand(
		newPlanCommand(),
		newEventCommand(),
		newVocabCommand(),
		newPatternCommand(),
		newReportCommand(),
		newSyncCommand(),
	)
	return rootCmd
}

func main() {
	if err := newRootCommand().Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

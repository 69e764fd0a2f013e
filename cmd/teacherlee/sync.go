package main

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/at-ishikawa/teacherlee/internal/bootstrap"
)

func newSyncCommand() *cobra.Command {
	var retryAttempts uint

	cmd := &cobra.Command{
		Use:   "sync",
		Short: "Synchronize the learning state with your account",
	}
	cmd.PersistentFlags().UintVar(&retryAttempts, "retry-attempts", 0, "Retries after a failed sync (default from sync.retry_attempts)")

	attempts := func(cmd *cobra.Command, session *learningSession) uint {
		if cmd.Flags().Changed("retry-attempts") {
			return retryAttempts
		}
		return session.cfg.Sync.RetryAttempts
	}

	cmd.AddCommand(
		newSyncPushCommand(attempts),
		newSyncPullCommand(attempts),
		newSyncWatchCommand(),
	)
	return cmd
}

type retryAttemptsFunc func(cmd *cobra.Command, session *learningSession) uint

func newSyncPushCommand(attempts retryAttemptsFunc) *cobra.Command {
	return &cobra.Command{
		Use:   "push",
		Short: "Overwrite the cloud copy with the state on this machine",
		RunE: func(cmd *cobra.Command, args []string) error {
			return withLearningSession(cmd.Context(), func(session *learningSession) error {
				if !session.cfg.Supabase.Enabled() {
					printSyncDisabled(cmd)
					return nil
				}
				if err := retrySync(cmd.Context(), attempts(cmd, session), session.store.SyncToCloud); err != nil {
					return fmt.Errorf("store.SyncToCloud() > %w", err)
				}
				_, _ = color.New(color.FgGreen).Fprintln(cmd.OutOrStdout(), "Pushed the learning state")
				return nil
			})
		},
	}
}

func newSyncPullCommand(attempts retryAttemptsFunc) *cobra.Command {
	return &cobra.Command{
		Use:   "pull",
		Short: "Merge the cloud copy into this machine and push the result back",
		RunE: func(cmd *cobra.Command, args []string) error {
			return withLearningSession(cmd.Context(), func(session *learningSession) error {
				if !session.cfg.Supabase.Enabled() {
					printSyncDisabled(cmd)
					return nil
				}
				if err := retrySync(cmd.Context(), attempts(cmd, session), session.store.HydrateFromCloud); err != nil {
					return fmt.Errorf("store.HydrateFromCloud() > %w", err)
				}
				state := session.store.LearningState(cmd.Context())
				_, _ = color.New(color.FgGreen).Fprintf(cmd.OutOrStdout(), "Merged the learning state: %d events, %d vocabulary cards, %d pattern scores\n",
					len(state.Events), len(state.VocabCards), len(state.PatternScores))
				return nil
			})
		},
	}
}

func newSyncWatchCommand() *cobra.Command {
	var interval time.Duration

	cmd := &cobra.Command{
		Use:   "watch",
		Short: "Keep merging the cloud copy until interrupted",
		RunE: func(cmd *cobra.Command, args []string) error {
			return withLearningSession(cmd.Context(), func(session *learningSession) error {
				if !session.cfg.Supabase.Enabled() {
					printSyncDisabled(cmd)
					return nil
				}
				if interval <= 0 {
					interval = session.cfg.Sync.WatchInterval()
				}

				app := bootstrap.New()
				app.AddShutdownHook(func(ctx context.Context) error {
					// pushed when the session closes
					session.syncer.Request()
					return nil
				})

				slog.Info("watching learning state", slog.Duration("interval", interval))
				return app.Run(cmd.Context(), func(ctx context.Context) error {
					return bootstrap.Repeat(ctx, interval, session.store.HydrateFromCloud, func(err error) {
						slog.Warn("failed to merge learning state", slog.Any("error", err))
					})
				})
			})
		},
	}

	cmd.Flags().DurationVar(&interval, "interval", 0, "Time between merges (default from sync.watch_interval_seconds)")
	return cmd
}

func printSyncDisabled(cmd *cobra.Command) {
	_, _ = color.New(color.FgYellow).Fprintln(cmd.OutOrStdout(), "Supabase is not configured, nothing to sync")
}

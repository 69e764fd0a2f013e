package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"math"
	"strconv"
	"strings"
	"time"

	"github.com/avast/retry-go"

	"github.com/at-ishikawa/teacherlee/internal/config"
	"github.com/at-ishikawa/teacherlee/internal/database"
	"github.com/at-ishikawa/teacherlee/internal/identity/supabase"
	"github.com/at-ishikawa/teacherlee/internal/learning"
)

func loadConfig() (*config.Config, error) {
	loader, err := config.NewConfigLoader(configFile)
	if err != nil {
		return nil, fmt.Errorf("failed to create config loader: %w", err)
	}
	cfg, err := loader.Load()
	if err != nil {
		return nil, fmt.Errorf("failed to load configuration: %w", err)
	}
	return cfg, nil
}

// learningSession is the learning store of one command run together with the background
// syncer that pushes its changes.
type learningSession struct {
	cfg    *config.Config
	store  *learning.Store
	syncer *learning.BackgroundSyncer

	closers []func() error
}

func openLearningSession(ctx context.Context) (*learningSession, error) {
	cfg, err := loadConfig()
	if err != nil {
		return nil, err
	}

	kv, closeStorage, err := database.OpenStorage(ctx, cfg.Storage)
	if err != nil {
		return nil, fmt.Errorf("database.OpenStorage() > %w", err)
	}
	session := &learningSession{
		cfg:     cfg,
		closers: []func() error{closeStorage},
	}

	logger := slog.Default()
	opts := []learning.Option{learning.WithLogger(logger)}
	if cfg.Supabase.Enabled() {
		client := supabase.NewClient(cfg.Supabase.URL, cfg.Supabase.AnonKey, cfg.Supabase.AccessToken, cfg.Supabase.Timeout())
		session.closers = append(session.closers, client.Close)
		opts = append(opts, learning.WithIdentity(client))
	} else {
		logger.Debug("supabase is not configured, learning state stays on this machine")
	}

	session.store = learning.NewStore(kv, opts...)
	session.syncer = learning.NewBackgroundSyncer(session.store, logger)
	session.syncer.Start(ctx)
	return session, nil
}

// Close waits for a requested sync before releasing the storage and the identity client.
func (s *learningSession) Close() error {
	s.syncer.Close()

	var errs []error
	for i := len(s.closers) - 1; i >= 0; i-- {
		if err := s.closers[i](); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

func withLearningSession(ctx context.Context, fn func(session *learningSession) error) (err error) {
	session, err := openLearningSession(ctx)
	if err != nil {
		return err
	}
	defer func() {
		if closeErr := session.Close(); closeErr != nil {
			err = errors.Join(err, fmt.Errorf("session.Close() > %w", closeErr))
		}
	}()
	return fn(session)
}

// isRetryableSyncError treats client errors from the identity provider as permanent.
func isRetryableSyncError(err error) bool {
	if errors.Is(err, supabase.ErrNoSession) || errors.Is(err, context.Canceled) {
		return false
	}
	errStr := err.Error()
	if strings.Contains(errStr, "response error 429") {
		return true
	}
	return !strings.Contains(errStr, "response error 4")
}

func retrySync(ctx context.Context, attempts uint, fn func(ctx context.Context) error) error {
	return retry.Do(
		func() error {
			if err := fn(ctx); err != nil {
				if !isRetryableSyncError(err) {
					return retry.Unrecoverable(err)
				}
				slog.Debug("retrying learning sync", slog.Any("error", err))
				return err
			}
			return nil
		},
		retry.Context(ctx),
		retry.Attempts(attempts+1),
		retry.LastErrorOnly(true),
		retry.DelayType(func(n uint, err error, config *retry.Config) time.Duration {
			return retry.BackOffDelay(n, err, config)
		}),
	)
}

// parseMeta turns key=value pairs into event metadata. Numbers and booleans keep
// their type.
func parseMeta(pairs []string) (map[string]any, error) {
	if len(pairs) == 0 {
		return nil, nil
	}
	meta := make(map[string]any, len(pairs))
	for _, pair := range pairs {
		key, value, ok := strings.Cut(pair, "=")
		key = strings.TrimSpace(key)
		if !ok || key == "" {
			return nil, fmt.Errorf("invalid meta %q, expected key=value", pair)
		}
		meta[key] = parseMetaValue(value)
	}
	return meta, nil
}

func parseMetaValue(value string) any {
	switch value {
	case "true":
		return true
	case "false":
		return false
	}
	if f, err := strconv.ParseFloat(value, 64); err == nil && !math.IsNaN(f) && !math.IsInf(f, 0) {
		return f
	}
	return value
}

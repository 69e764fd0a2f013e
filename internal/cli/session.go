// Package cli runs interactive study sessions in the terminal.
package cli

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
)

var (
	errEnd = errors.New("end")
)

//go:generate mockgen -source=session.go -destination=../mocks/cli/mock_session.go -package=mock_cli

type Session interface {
	Session(ctx context.Context) error
}

// SyncRequester is notified after every answer so the change reaches the cloud.
type SyncRequester interface {
	Request()
}

// Run repeats session.Session until the session ends, fails, or the user interrupts it.
func Run(ctx context.Context, session Session) error {
	ctx, cancel := signal.NotifyContext(
		ctx,
		os.Interrupt,
	)
	defer cancel()

	errCh := make(chan error, 1)
	go func() {
		defer close(errCh)

		for {
			select {
			case <-ctx.Done():
				return
			default:
			}

			if err := session.Session(ctx); err != nil {
				if !errors.Is(err, errEnd) {
					errCh <- err
				}
				return
			}
		}
	}()
	select {
	case <-ctx.Done():
		fmt.Fprintln(os.Stderr, "Received interrupt signal, exiting...")
	case err := <-errCh:
		if err != nil {
			return fmt.Errorf("error: %w", err)
		}
	}
	return nil
}

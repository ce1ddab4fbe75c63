package helpers

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/Sternrassler/prc-client/pkg/client"
	"github.com/Sternrassler/prc-client/pkg/logging"
)

// Polling defaults.
const (
	DefaultPollInterval = 5 * time.Second
	DefaultWaitTimeout  = 60 * time.Second
)

// ErrWaitTimeout is returned when a wait helper's own timeout elapses.
var ErrWaitTimeout = errors.New("timed out waiting for condition")

// WaitOptions configures the polling helpers. Zero values select the defaults.
type WaitOptions struct {
	Interval time.Duration
	Timeout  time.Duration
}

func (o WaitOptions) withDefaults() WaitOptions {
	if o.Interval <= 0 {
		o.Interval = DefaultPollInterval
	}
	if o.Timeout <= 0 {
		o.Timeout = DefaultWaitTimeout
	}
	return o
}

// WaitForPlayer polls the player list until a player matching query is in
// the server.
func WaitForPlayer(ctx context.Context, api API, query string, opts WaitOptions) (client.Player, error) {
	var found client.Player
	err := poll(ctx, opts, "player "+query, func() (bool, error) {
		resp, err := api.GetPlayers(ctx, client.WithCache(false))
		if err != nil {
			return false, err
		}
		p, ok := FindPlayer(resp.Data, query)
		found = p
		return ok, nil
	})
	return found, err
}

// WaitForPlayerCount polls the player list until at least count players are
// in the server and returns the count observed.
func WaitForPlayerCount(ctx context.Context, api API, count int, opts WaitOptions) (int, error) {
	var current int
	err := poll(ctx, opts, fmt.Sprintf("%d players", count), func() (bool, error) {
		resp, err := api.GetPlayers(ctx, client.WithCache(false))
		if err != nil {
			return false, err
		}
		current = len(resp.Data)
		return current >= count, nil
	})
	return current, err
}

// poll calls check immediately and then every interval until it reports done.
// Retryable API errors are logged and polling continues.
func poll(ctx context.Context, opts WaitOptions, what string, check func() (bool, error)) error {
	opts = opts.withDefaults()
	logger := logging.NewLogger("prc-helpers").With().Str("waiting_for", what).Logger()

	timeout := time.NewTimer(opts.Timeout)
	defer timeout.Stop()
	ticker := time.NewTicker(opts.Interval)
	defer ticker.Stop()

	for {
		done, err := check()
		switch {
		case err != nil && !client.IsRetryable(err):
			return err
		case err != nil:
			logger.Warn().Err(err).Msg("Poll failed, retrying")
		case done:
			return nil
		}

		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-timeout.C:
			return fmt.Errorf("%w: %s after %s", ErrWaitTimeout, what, opts.Timeout)
		case <-ticker.C:
		}
	}
}

package helpers

import (
	"context"
	"fmt"
	"time"

	"github.com/Sternrassler/prc-client/pkg/client"
	"golang.org/x/sync/errgroup"
)

// ServerStats is a server status with activity counts for a recent window.
type ServerStats struct {
	Server client.ServerStatus
	Window time.Duration
	Recent RecentActivity
}

// RecentActivity counts log entries inside the stats window.
type RecentActivity struct {
	Joins              int
	Leaves             int
	Kills              int
	Commands           int
	ModCalls           int
	UnansweredModCalls int
	UniquePlayers      int
}

// GetServerStats reads the server status and all four logs concurrently and
// counts the entries from the last hours hours. Any failed read fails the
// whole call.
func GetServerStats(ctx context.Context, api API, hours int) (*ServerStats, error) {
	if hours <= 0 {
		return nil, fmt.Errorf("hours must be > 0 (got %d)", hours)
	}

	var (
		server   *client.Response[client.ServerStatus]
		joins    *client.Response[[]client.JoinLog]
		kills    *client.Response[[]client.KillLog]
		commands *client.Response[[]client.CommandLog]
		modCalls *client.Response[[]client.ModCall]
	)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() (err error) {
		server, err = api.GetServer(gctx)
		return wrap("server", err)
	})
	g.Go(func() (err error) {
		joins, err = api.GetJoinLogs(gctx)
		return wrap("join logs", err)
	})
	g.Go(func() (err error) {
		kills, err = api.GetKillLogs(gctx)
		return wrap("kill logs", err)
	})
	g.Go(func() (err error) {
		commands, err = api.GetCommandLogs(gctx)
		return wrap("command logs", err)
	})
	g.Go(func() (err error) {
		modCalls, err = api.GetModCalls(gctx)
		return wrap("mod calls", err)
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}

	window := time.Duration(hours) * time.Hour
	since := time.Now().Add(-window)
	stats := &ServerStats{Server: server.Data, Window: window}
	r := &stats.Recent

	players := make(map[string]struct{})
	for _, l := range joins.Data {
		if l.Time().Before(since) {
			continue
		}
		if l.Join {
			r.Joins++
			players[l.Player] = struct{}{}
		} else {
			r.Leaves++
		}
	}
	r.UniquePlayers = len(players)

	for _, l := range kills.Data {
		if !l.Time().Before(since) {
			r.Kills++
		}
	}
	for _, l := range commands.Data {
		if !l.Time().Before(since) {
			r.Commands++
		}
	}
	for _, m := range modCalls.Data {
		if m.Time().Before(since) {
			continue
		}
		r.ModCalls++
		if !m.Answered() {
			r.UnansweredModCalls++
		}
	}

	return stats, nil
}

func wrap(what string, err error) error {
	if err != nil {
		return fmt.Errorf("get %s: %w", what, err)
	}
	return nil
}

// Package helpers provides convenience operations built on the PRC client:
// player lookup, recent-activity statistics, polling waits and in-game
// command formatting.
//
// Every helper accepts an API, which *client.Client satisfies:
//
//	c, _ := client.New(client.DefaultConfig(serverKey))
//	player, err := helpers.LookupPlayer(ctx, c, "bob")
//	stats, err := helpers.GetServerStats(ctx, c, 1)
//	_, err = c.ExecuteCommand(ctx, helpers.Announce("Restart in 5 minutes"))
package helpers

import (
	"context"
	"encoding/json"

	"github.com/Sternrassler/prc-client/pkg/client"
)

// API is the subset of the client used by the helpers.
type API interface {
	GetServer(ctx context.Context, opts ...client.Option) (*client.Response[client.ServerStatus], error)
	GetPlayers(ctx context.Context, opts ...client.Option) (*client.Response[[]client.Player], error)
	GetJoinLogs(ctx context.Context, opts ...client.Option) (*client.Response[[]client.JoinLog], error)
	GetKillLogs(ctx context.Context, opts ...client.Option) (*client.Response[[]client.KillLog], error)
	GetCommandLogs(ctx context.Context, opts ...client.Option) (*client.Response[[]client.CommandLog], error)
	GetModCalls(ctx context.Context, opts ...client.Option) (*client.Response[[]client.ModCall], error)
	ExecuteCommand(ctx context.Context, command string) (*client.Response[json.RawMessage], error)
}

var _ API = (*client.Client)(nil)

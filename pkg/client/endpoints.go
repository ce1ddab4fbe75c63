package client

import (
	"context"
	"encoding/json"
	"net/http"
	"strings"
)

// Endpoint paths relative to the base URL.
const (
	PathServer      = "/server"
	PathPlayers     = "/server/players"
	PathQueue       = "/server/queue"
	PathVehicles    = "/server/vehicles"
	PathBans        = "/server/bans"
	PathStaff       = "/server/staff"
	PathJoinLogs    = "/server/joinlogs"
	PathKillLogs    = "/server/killlogs"
	PathCommandLogs = "/server/commandlogs"
	PathModCalls    = "/server/modcalls"
	PathCommand     = "/server/command"
)

func get[T any](ctx context.Context, c *Client, path string, policy CachePolicy, opts []Option) (*Response[T], error) {
	return Fetch[T](ctx, c, Request{
		Method:  http.MethodGet,
		Path:    path,
		Policy:  policy,
		Options: opts,
	})
}

// GetServer returns the server status.
func (c *Client) GetServer(ctx context.Context, opts ...Option) (*Response[ServerStatus], error) {
	return get[ServerStatus](ctx, c, PathServer, CacheDefault, opts)
}

// GetPlayers returns the players currently in the server.
func (c *Client) GetPlayers(ctx context.Context, opts ...Option) (*Response[[]Player], error) {
	return get[[]Player](ctx, c, PathPlayers, CacheDefault, opts)
}

// GetQueue returns the user ids waiting to join.
func (c *Client) GetQueue(ctx context.Context, opts ...Option) (*Response[[]int64], error) {
	return get[[]int64](ctx, c, PathQueue, CacheDefault, opts)
}

// GetVehicles returns the vehicles spawned in the server.
func (c *Client) GetVehicles(ctx context.Context, opts ...Option) (*Response[[]Vehicle], error) {
	return get[[]Vehicle](ctx, c, PathVehicles, CacheDefault, opts)
}

// GetBans returns the server's bans.
func (c *Client) GetBans(ctx context.Context, opts ...Option) (*Response[Bans], error) {
	return get[Bans](ctx, c, PathBans, CacheDefault, opts)
}

// GetStaff returns the server's staff.
func (c *Client) GetStaff(ctx context.Context, opts ...Option) (*Response[Staff], error) {
	return get[Staff](ctx, c, PathStaff, CacheDefault, opts)
}

// GetJoinLogs returns recent joins and leaves. Cached only with both
// WithCache(true) and WithCacheMaxAge.
func (c *Client) GetJoinLogs(ctx context.Context, opts ...Option) (*Response[[]JoinLog], error) {
	return get[[]JoinLog](ctx, c, PathJoinLogs, CacheOptIn, opts)
}

// GetKillLogs returns recent kills. Cached only with both WithCache(true)
// and WithCacheMaxAge.
func (c *Client) GetKillLogs(ctx context.Context, opts ...Option) (*Response[[]KillLog], error) {
	return get[[]KillLog](ctx, c, PathKillLogs, CacheOptIn, opts)
}

// GetCommandLogs returns recently executed commands. Cached only with both
// WithCache(true) and WithCacheMaxAge.
func (c *Client) GetCommandLogs(ctx context.Context, opts ...Option) (*Response[[]CommandLog], error) {
	return get[[]CommandLog](ctx, c, PathCommandLogs, CacheOptIn, opts)
}

// GetModCalls returns recent moderator calls. Cached only with both
// WithCache(true) and WithCacheMaxAge.
func (c *Client) GetModCalls(ctx context.Context, opts ...Option) (*Response[[]ModCall], error) {
	return get[[]ModCall](ctx, c, PathModCalls, CacheOptIn, opts)
}

// ExecuteCommand runs an in-game command such as ":h hello". It is never
// cached. The server rate limits commands per server key.
func (c *Client) ExecuteCommand(ctx context.Context, command string) (*Response[json.RawMessage], error) {
	if strings.TrimSpace(command) == "" {
		return nil, ErrEmptyCommand
	}
	return c.Do(ctx, Request{
		Method: http.MethodPost,
		Path:   PathCommand,
		Body:   commandRequest{Command: command},
		Policy: CacheNever,
	})
}

package helpers

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/Sternrassler/prc-client/pkg/client"
)

// ErrPlayerNotFound is returned by LookupPlayer when no player matches.
var ErrPlayerNotFound = errors.New("player not found")

// FindPlayer returns the first player whose name contains query
// (case-insensitive) or whose user id equals query. A query containing a colon
// is also matched against the full "Name:UserId" string.
func FindPlayer(players []client.Player, query string) (client.Player, bool) {
	q := strings.ToLower(strings.TrimSpace(query))
	if q == "" {
		return client.Player{}, false
	}
	for _, p := range players {
		name, id := client.ParsePlayer(p.Player)
		if id == q || strings.Contains(strings.ToLower(name), q) {
			return p, true
		}
		if strings.Contains(q, ":") && strings.Contains(strings.ToLower(p.Player), q) {
			return p, true
		}
	}
	return client.Player{}, false
}

// LookupPlayer fetches the current players and returns the one matching query.
func LookupPlayer(ctx context.Context, api API, query string, opts ...client.Option) (client.Player, error) {
	resp, err := api.GetPlayers(ctx, opts...)
	if err != nil {
		return client.Player{}, fmt.Errorf("get players: %w", err)
	}
	p, ok := FindPlayer(resp.Data, query)
	if !ok {
		return client.Player{}, fmt.Errorf("%w: %q", ErrPlayerNotFound, query)
	}
	return p, nil
}

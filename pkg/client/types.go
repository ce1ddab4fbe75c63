package client

import (
	"strings"
	"time"
)

// ServerStatus is the body of GET /server.
type ServerStatus struct {
	Name           string  `json:"Name"`
	OwnerID        int64   `json:"OwnerId"`
	CoOwnerIDs     []int64 `json:"CoOwnerIds"`
	CurrentPlayers int     `json:"CurrentPlayers"`
	MaxPlayers     int     `json:"MaxPlayers"`
	JoinKey        string  `json:"JoinKey"`
	AccVerifiedReq string  `json:"AccVerifiedReq"`
	TeamBalance    bool    `json:"TeamBalance"`
}

// Player is an entry of GET /server/players.
type Player struct {
	// Player is "Name:UserId".
	Player     string `json:"Player"`
	Permission string `json:"Permission"`
	Callsign   string `json:"Callsign,omitempty"`
	Team       string `json:"Team"`
}

// Name returns the Roblox username part of Player.
func (p Player) Name() string {
	name, _ := ParsePlayer(p.Player)
	return name
}

// UserID returns the Roblox user id part of Player.
func (p Player) UserID() string {
	_, id := ParsePlayer(p.Player)
	return id
}

// ParsePlayer splits a "Name:UserId" player string. A string without a colon
// is returned as the name with an empty id.
func ParsePlayer(s string) (name, id string) {
	i := strings.LastIndexByte(s, ':')
	if i < 0 {
		return s, ""
	}
	return s[:i], s[i+1:]
}

// JoinLog is an entry of GET /server/joinlogs. Join is false for a leave.
type JoinLog struct {
	Join      bool   `json:"Join"`
	Timestamp int64  `json:"Timestamp"`
	Player    string `json:"Player"`
}

// Time returns the log timestamp.
func (l JoinLog) Time() time.Time { return time.Unix(l.Timestamp, 0) }

// KillLog is an entry of GET /server/killlogs.
type KillLog struct {
	Killed    string `json:"Killed"`
	Timestamp int64  `json:"Timestamp"`
	Killer    string `json:"Killer"`
}

// Time returns the log timestamp.
func (l KillLog) Time() time.Time { return time.Unix(l.Timestamp, 0) }

// CommandLog is an entry of GET /server/commandlogs.
type CommandLog struct {
	Player    string `json:"Player"`
	Timestamp int64  `json:"Timestamp"`
	Command   string `json:"Command"`
}

// Time returns the log timestamp.
func (l CommandLog) Time() time.Time { return time.Unix(l.Timestamp, 0) }

// ModCall is an entry of GET /server/modcalls.
type ModCall struct {
	Caller    string `json:"Caller"`
	Moderator string `json:"Moderator,omitempty"`
	Timestamp int64  `json:"Timestamp"`
}

// Time returns the log timestamp.
func (m ModCall) Time() time.Time { return time.Unix(m.Timestamp, 0) }

// Answered reports whether a moderator responded to the call.
func (m ModCall) Answered() bool { return m.Moderator != "" }

// Vehicle is an entry of GET /server/vehicles.
type Vehicle struct {
	Texture string `json:"Texture"`
	Name    string `json:"Name"`
	Owner   string `json:"Owner"`
}

// Staff is the body of GET /server/staff. Admins and Mods map user id to name.
type Staff struct {
	CoOwners []int64           `json:"CoOwners"`
	Admins   map[string]string `json:"Admins"`
	Mods     map[string]string `json:"Mods"`
}

// Bans maps banned user id to name.
type Bans map[string]string

// commandRequest is the body of POST /server/command.
type commandRequest struct {
	Command string `json:"command"`
}

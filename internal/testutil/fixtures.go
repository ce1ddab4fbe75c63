package testutil

import (
	"fmt"
	"time"
)

// Canned PRC API bodies.
const (
	ServerJSON = `{
		"Name": "Liberty County RP",
		"OwnerId": 1,
		"CoOwnerIds": [2],
		"CurrentPlayers": 2,
		"MaxPlayers": 40,
		"JoinKey": "LCRP",
		"AccVerifiedReq": "Disabled",
		"TeamBalance": true
	}`

	PlayersJSON = `[
		{"Player": "Bob:1", "Permission": "Normal", "Team": "Civilian"},
		{"Player": "Alice:2", "Permission": "Server Administrator", "Callsign": "A-1", "Team": "Police"}
	]`

	QueueJSON = `[3, 4]`

	VehiclesJSON = `[{"Texture": "Standard", "Name": "Falcon Stallion 350", "Owner": "Bob"}]`

	BansJSON = `{"5": "Mallory"}`

	StaffJSON = `{"CoOwners": [2], "Admins": {"2": "Alice"}, "Mods": {"6": "Carol"}}`
)

// RecentLogs returns join, kill, command and mod call bodies with a single
// entry each, all timestamped ago before now.
func RecentLogs(ago time.Duration) (joins, kills, commands, modCalls string) {
	ts := time.Now().Add(-ago).Unix()
	joins = fmt.Sprintf(`[{"Join": true, "Timestamp": %d, "Player": "Bob:1"}]`, ts)
	kills = fmt.Sprintf(`[{"Killed": "Bob:1", "Timestamp": %d, "Killer": "Alice:2"}]`, ts)
	commands = fmt.Sprintf(`[{"Player": "Alice:2", "Timestamp": %d, "Command": ":h hello"}]`, ts)
	modCalls = fmt.Sprintf(`[{"Caller": "Bob:1", "Timestamp": %d}]`, ts)
	return joins, kills, commands, modCalls
}

package constants

const (
	RoleAdmin  = "admin"
	RoleMember = "member"
)

// Presence states shown on the team page.
const (
	PresenceActive  = "active"
	PresenceAway    = "away"
	PresenceOffline = "offline"
)

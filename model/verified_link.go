package model

// VerifiedLink associates a Discord account with a Roblox account that was
// proven via the challenge-phrase flow. At most one row exists per Discord
// user; lookups additionally key on the Roblox id to short-circuit
// re-verification.
type VerifiedLink struct {
	DiscordID      string `db:"discord_id"`
	RobloxID       int64  `db:"roblox_id"`
	RobloxUsername string `db:"roblox_username"`
	JoinDate       string `db:"join_date"`
}

package model

// Config holds the process-wide configuration. It is loaded once at startup
// and passed by reference to the bot and every handler; nothing mutates it
// after load.
type Config struct {
	BotToken     string
	AppID        string
	GuildID      string
	DBPath       string
	StaffRoleID  string
	MemberRoleID string
	LogChannelID string
	AdminUserID  string
}

package config

import (
	"log"
	"moderation-bot/model"
	"os"

	"github.com/joho/godotenv"
)

// Load loads the configuration from environment variables. Values are read
// once; the returned config is treated as immutable for the process lifetime.
func Load() (*model.Config, error) {
	// Load .env file
	if err := godotenv.Load(); err != nil {
		log.Println("Info: .env file not found, relying on environment variables")
	}

	token := os.Getenv("BOT_TOKEN")
	if token == "" {
		log.Fatal("Error: BOT_TOKEN environment variable not set")
	}

	appID := os.Getenv("APP_ID")
	if appID == "" {
		log.Fatal("Error: APP_ID environment variable not set")
	}

	guildID := os.Getenv("GUILD_ID")
	if guildID == "" {
		log.Fatal("Error: GUILD_ID environment variable not set")
	}

	staffRoleID := os.Getenv("STAFF_ROLE_ID")
	if staffRoleID == "" {
		log.Fatal("Error: STAFF_ROLE_ID environment variable not set")
	}

	memberRoleID := os.Getenv("MEMBER_ROLE_ID")
	if memberRoleID == "" {
		log.Println("Warning: MEMBER_ROLE_ID not set, verification will not grant a role")
	}

	logChannelID := os.Getenv("LOG_CHANNEL_ID")
	if logChannelID == "" {
		log.Println("Warning: LOG_CHANNEL_ID not set, audit logging will be disabled")
	}

	adminUserID := os.Getenv("ADMIN_USER_ID")
	if adminUserID == "" {
		log.Println("Warning: ADMIN_USER_ID not set, log-channel deletion alerts will be disabled")
	}

	dbPath := os.Getenv("DB_PATH")
	if dbPath == "" {
		dbPath = "data/moderation.db"
	}

	return &model.Config{
		BotToken:     token,
		AppID:        appID,
		GuildID:      guildID,
		DBPath:       dbPath,
		StaffRoleID:  staffRoleID,
		MemberRoleID: memberRoleID,
		LogChannelID: logChannelID,
		AdminUserID:  adminUserID,
	}, nil
}

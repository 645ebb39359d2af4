package bot

import (
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"

	"moderation-bot/commands"
	"moderation-bot/utils"
)

// Run opens the gateway connection, registers the guild commands and blocks
// until the process receives a termination signal.
func (b *Bot) Run() {
	if err := b.Session.Open(); err != nil {
		log.Fatalf("Error opening connection: %v", err)
	}

	log.Printf("Registering commands for guild %s...", b.Config.GuildID)
	cmds := commands.Generate()
	registered, err := b.Session.ApplicationCommandBulkOverwrite(b.Config.AppID, b.Config.GuildID, cmds)
	if err != nil {
		log.Fatalf("Cannot register commands for guild %s: %v", b.Config.GuildID, err)
	}
	b.RegisteredCommands = registered
	log.Printf("Registered %d commands.", len(registered))

	b.scheduler.Start()

	fmt.Println("Bot is now running. Press CTRL-C to exit.")
	if err := utils.LogInfo(b.Session, b.Config.LogChannelID, "System", "Startup", "Bot has started successfully."); err != nil {
		log.Printf("Failed to send startup log: %v", err)
	}

	sc := make(chan os.Signal, 1)
	signal.Notify(sc, syscall.SIGINT, syscall.SIGTERM, os.Interrupt)
	<-sc
}

package bot

import (
	"log"

	"moderation-bot/model"
	"moderation-bot/roblox"
	"moderation-bot/session"

	"github.com/bwmarrin/discordgo"
	"github.com/jmoiron/sqlx"
)

// Bot owns the process-wide collaborators: the Discord session, the
// moderation database, the interaction session manager and the Roblox
// client. It is constructed once at startup and passed by reference.
type Bot struct {
	Session            *discordgo.Session
	Config             *model.Config
	DB                 *sqlx.DB
	Sessions           *session.Manager
	Roblox             *roblox.Client
	CommandHandlers    map[string]func(s *discordgo.Session, i *discordgo.InteractionCreate)
	RegisteredCommands []*discordgo.ApplicationCommand

	scheduler *Scheduler
}

func New(cfg *model.Config, db *sqlx.DB) (*Bot, error) {
	dg, err := discordgo.New("Bot " + cfg.BotToken)
	if err != nil {
		return nil, err
	}
	dg.Identify.Intents = discordgo.IntentsGuilds |
		discordgo.IntentsGuildMessages |
		discordgo.IntentsGuildMembers |
		discordgo.IntentMessageContent
	// The message cache backs the delete/edit mirror in the audit log.
	dg.State.MaxMessageCount = 5000

	b := &Bot{
		Session:  dg,
		Config:   cfg,
		DB:       db,
		Sessions: session.NewManager(),
		Roblox:   roblox.New(),
	}
	b.scheduler = NewScheduler(b)
	return b, nil
}

func (b *Bot) Close() {
	log.Println("Gracefully shutting down.")
	b.scheduler.Stop()
	b.Session.Close()
}

package handlers

import (
	"log"

	"moderation-bot/bot"
	"moderation-bot/handlers/auditlog"
	"moderation-bot/handlers/cases"
	"moderation-bot/handlers/newcase"
	"moderation-bot/handlers/verify"
	"moderation-bot/utils"

	"github.com/bwmarrin/discordgo"
)

// Register wires all event handlers onto the bot's session.
func Register(b *bot.Bot) {
	b.CommandHandlers = commandHandlers(b)

	b.Session.AddHandler(func(s *discordgo.Session, r *discordgo.Ready) {
		log.Printf("Logged in as: %v#%v", s.State.User.Username, s.State.User.Discriminator)
	})
	b.Session.AddHandler(func(s *discordgo.Session, i *discordgo.InteractionCreate) {
		handleInteractionCreate(s, i, b)
	})
	b.Session.AddHandler(func(s *discordgo.Session, m *discordgo.MessageDelete) {
		auditlog.HandleMessageDelete(s, m, b.Config)
	})
	b.Session.AddHandler(func(s *discordgo.Session, m *discordgo.MessageUpdate) {
		auditlog.HandleMessageUpdate(s, m, b.Config)
	})
	b.Session.AddHandler(func(s *discordgo.Session, m *discordgo.GuildMemberAdd) {
		auditlog.HandleMemberAdd(s, m, b.Config)
	})
	b.Session.AddHandler(func(s *discordgo.Session, m *discordgo.GuildMemberRemove) {
		auditlog.HandleMemberRemove(s, m, b.Config)
	})
}

func commandHandlers(b *bot.Bot) map[string]func(s *discordgo.Session, i *discordgo.InteractionCreate) {
	return map[string]func(s *discordgo.Session, i *discordgo.InteractionCreate){
		"cases": func(s *discordgo.Session, i *discordgo.InteractionCreate) {
			cases.HandleCasesCommand(s, i, b)
		},
		"newcase": func(s *discordgo.Session, i *discordgo.InteractionCreate) {
			newcase.HandleNewCaseCommand(s, i, b)
		},
		"verify": func(s *discordgo.Session, i *discordgo.InteractionCreate) {
			verify.HandleVerifyCommand(s, i, b)
		},
		"status": func(s *discordgo.Session, i *discordgo.InteractionCreate) {
			HandleStatusCommand(s, i, b)
		},
	}
}

func handleInteractionCreate(s *discordgo.Session, i *discordgo.InteractionCreate, b *bot.Bot) {
	switch i.Type {
	case discordgo.InteractionApplicationCommand:
		if h, ok := b.CommandHandlers[i.ApplicationCommandData().Name]; ok {
			runCommand(s, i, h)
		}
	case discordgo.InteractionMessageComponent:
		if !b.Sessions.Dispatch(s, i) {
			utils.SendSimpleResponse(s, i, "This interaction has expired.")
		}
	}
}

// runCommand is the last-resort catch around command execution: a panicking
// handler gets a generic apology instead of taking the process down.
func runCommand(s *discordgo.Session, i *discordgo.InteractionCreate, h func(s *discordgo.Session, i *discordgo.InteractionCreate)) {
	defer func() {
		if r := recover(); r != nil {
			log.Printf("Panic in command %s: %v", i.ApplicationCommandData().Name, r)
			utils.SendErrorResponse(s, i, "There was an error while executing this command!")
		}
	}()
	h(s, i)
}

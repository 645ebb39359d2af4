package commands

import (
	"github.com/bwmarrin/discordgo"
)

// Generate returns the slash command definitions registered on startup.
func Generate() []*discordgo.ApplicationCommand {
	return []*discordgo.ApplicationCommand{
		{
			Name:        "cases",
			Description: "Manage moderation cases",
			Options: []*discordgo.ApplicationCommandOption{
				{
					Type:        discordgo.ApplicationCommandOptionSubCommand,
					Name:        "list",
					Description: "List all cases for a user",
					Options: []*discordgo.ApplicationCommandOption{
						{
							Type:        discordgo.ApplicationCommandOptionUser,
							Name:        "user",
							Description: "The Discord user to check",
							Required:    true,
						},
						{
							Type:        discordgo.ApplicationCommandOptionString,
							Name:        "filter",
							Description: "Filter by action type (timeout, ban, kick, warn)",
							Required:    false,
						},
					},
				},
			},
		},
		{
			Name:        "newcase",
			Description: "Create a new moderation case",
			Options: []*discordgo.ApplicationCommandOption{
				{
					Type:        discordgo.ApplicationCommandOptionUser,
					Name:        "user",
					Description: "The Discord user to take action against",
					Required:    true,
				},
				{
					Type:        discordgo.ApplicationCommandOptionString,
					Name:        "reason",
					Description: "Reason for the moderation action",
					Required:    true,
				},
				{
					Type:        discordgo.ApplicationCommandOptionString,
					Name:        "proof",
					Description: "Evidence or proof of the action",
					Required:    false,
				},
				{
					Type:        discordgo.ApplicationCommandOptionString,
					Name:        "time",
					Description: "Duration (e.g., 10m for 10 minutes, 10d for 10 days)",
					Required:    false,
				},
			},
		},
		{
			Name:        "verify",
			Description: "Verify your Roblox account",
			Options: []*discordgo.ApplicationCommandOption{
				{
					Type:        discordgo.ApplicationCommandOptionString,
					Name:        "username",
					Description: "Your Roblox username",
					Required:    true,
				},
			},
		},
		{
			Name:        "status",
			Description: "Show bot and host status",
		},
	}
}

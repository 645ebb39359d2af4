package cases

import (
	"fmt"
	"log"
	"strings"
	"time"

	"moderation-bot/bot"
	"moderation-bot/model"
	"moderation-bot/session"
	"moderation-bot/utils"
	"moderation-bot/utils/database"

	"github.com/bwmarrin/discordgo"
)

const (
	casesPerPage   = 5
	browseTimeout  = 50 * time.Second
	caseEmbedColor = 0xff0000
)

// HandleCasesCommand lists the recorded cases for a user as a paginated
// ephemeral embed. Navigation runs inside a quiescence-bounded session; when
// it expires the rendered view is deleted with a bounded retry.
func HandleCasesCommand(s *discordgo.Session, i *discordgo.InteractionCreate, b *bot.Bot) {
	sub, ok := listSubcommand(i)
	if !ok {
		utils.SendErrorResponse(s, i, "Unknown subcommand.")
		return
	}
	targetUser, filter := parseListOptions(s, sub)
	if targetUser == nil {
		utils.SendErrorResponse(s, i, "User not found in the server.")
		return
	}

	dbUser, err := database.GetVerifiedLinkByDiscordID(b.DB, targetUser.ID)
	if err != nil {
		log.Printf("Error looking up user %s: %v", targetUser.ID, err)
		utils.SendErrorResponse(s, i, "An error occurred while processing the command. Please try again later.")
		return
	}
	if dbUser == nil {
		utils.SendErrorResponse(s, i, "User not found in the database.")
		return
	}

	records, err := database.GetCasesByTarget(b.DB, targetUser.String())
	if err != nil {
		log.Printf("Error fetching cases for %s: %v", targetUser.String(), err)
		utils.SendErrorResponse(s, i, "An error occurred while processing the command. Please try again later.")
		return
	}
	records = FilterByAction(records, filter)

	if len(records) == 0 {
		utils.SendSimpleResponse(s, i, fmt.Sprintf("No cases found for %s.", targetUser.Mention()))
		return
	}

	counts := CountActions(records)
	pg := session.NewPaginator(len(records), casesPerPage)

	sess := b.Sessions.Start(session.Options{
		ID:           i.ID,
		Timeout:      browseTimeout,
		ResetOnEvent: true,
		OnExpire: func(int) {
			utils.DisposeInteractionResponse(s, i.Interaction, utils.DefaultDisposalPolicy)
		},
	})

	err = s.InteractionRespond(i.Interaction, &discordgo.InteractionResponse{
		Type: discordgo.InteractionResponseChannelMessageWithSource,
		Data: &discordgo.InteractionResponseData{
			Embeds:     []*discordgo.MessageEmbed{buildPageEmbed(targetUser.String(), records, counts, pg)},
			Components: navigationRow(sess, pg),
			Flags:      discordgo.MessageFlagsEphemeral,
		},
	})
	if err != nil {
		log.Printf("Error sending cases embed: %v", err)
		sess.Resolve()
		return
	}

	navigate := func(move func() bool) session.HandlerFunc {
		return func(s *discordgo.Session, i *discordgo.InteractionCreate, sess *session.Session) {
			move()
			err := utils.UpdateComponentMessage(s, i, &discordgo.InteractionResponseData{
				Embeds:     []*discordgo.MessageEmbed{buildPageEmbed(targetUser.String(), records, counts, pg)},
				Components: navigationRow(sess, pg),
			})
			if err != nil {
				log.Printf("Error updating cases embed: %v", err)
			}
		}
	}
	sess.Handle("prev", navigate(pg.Prev))
	sess.Handle("next", navigate(pg.Next))
}

func listSubcommand(i *discordgo.InteractionCreate) (*discordgo.ApplicationCommandInteractionDataOption, bool) {
	data := i.ApplicationCommandData()
	if len(data.Options) == 0 || data.Options[0].Name != "list" {
		return nil, false
	}
	return data.Options[0], true
}

func parseListOptions(s *discordgo.Session, sub *discordgo.ApplicationCommandInteractionDataOption) (*discordgo.User, string) {
	var targetUser *discordgo.User
	var filter string
	for _, opt := range sub.Options {
		switch opt.Name {
		case "user":
			targetUser = opt.UserValue(s)
		case "filter":
			filter = opt.StringValue()
		}
	}
	return targetUser, filter
}

// FilterByAction keeps the records whose action matches filter, compared
// case-insensitively. An empty filter keeps everything.
func FilterByAction(records []model.CaseRecord, filter string) []model.CaseRecord {
	if filter == "" {
		return records
	}
	filtered := make([]model.CaseRecord, 0, len(records))
	for _, rec := range records {
		if strings.EqualFold(rec.Action, filter) {
			filtered = append(filtered, rec)
		}
	}
	return filtered
}

// CountActions tallies records per action kind.
func CountActions(records []model.CaseRecord) map[string]int {
	counts := map[string]int{
		model.ActionBan:     0,
		model.ActionKick:    0,
		model.ActionWarn:    0,
		model.ActionTimeout: 0,
	}
	for _, rec := range records {
		action := strings.ToLower(rec.Action)
		if _, known := counts[action]; known {
			counts[action]++
		}
	}
	return counts
}

func buildPageEmbed(targetTag string, records []model.CaseRecord, counts map[string]int, pg *session.Paginator) *discordgo.MessageEmbed {
	embed := &discordgo.MessageEmbed{
		Title: fmt.Sprintf("Cases for %s", targetTag),
		Color: caseEmbedColor,
		Footer: &discordgo.MessageEmbedFooter{
			Text: fmt.Sprintf("Page %d of %d", pg.Index+1, pg.TotalPages()),
		},
		Fields: []*discordgo.MessageEmbedField{
			{
				Name: "Summary",
				Value: fmt.Sprintf("Total: %d | Bans: %d | Kicks: %d | Warns: %d | Timeouts: %d",
					len(records), counts[model.ActionBan], counts[model.ActionKick], counts[model.ActionWarn], counts[model.ActionTimeout]),
			},
		},
	}

	start, end := pg.Bounds()
	for _, rec := range records[start:end] {
		embed.Fields = append(embed.Fields, &discordgo.MessageEmbedField{
			Name: fmt.Sprintf("Case %d", rec.CaseID),
			Value: fmt.Sprintf("**Action:** %s\n**Reason:** %s\n**Proof:** %s\n**Moderator:** %s (%s)\n**Timestamp:** %s",
				rec.Action, rec.Reason, rec.Proof, rec.Moderator, rec.ModeratorID, rec.Timestamp),
		})
	}
	return embed
}

func navigationRow(sess *session.Session, pg *session.Paginator) []discordgo.MessageComponent {
	return []discordgo.MessageComponent{
		discordgo.ActionsRow{
			Components: []discordgo.MessageComponent{
				discordgo.Button{
					Label:    "Previous",
					Style:    discordgo.SecondaryButton,
					Disabled: pg.AtFirst(),
					CustomID: sess.ComponentID("prev"),
				},
				discordgo.Button{
					Label:    "Next",
					Style:    discordgo.SecondaryButton,
					Disabled: pg.AtLast(),
					CustomID: sess.ComponentID("next"),
				},
			},
		},
	}
}

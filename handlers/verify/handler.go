package verify

import (
	"fmt"
	"log"
	"time"

	"moderation-bot/bot"
	"moderation-bot/model"
	"moderation-bot/session"
	"moderation-bot/utils"
	"moderation-bot/utils/database"

	"github.com/bwmarrin/discordgo"
)

const (
	verifyTimeout    = 60 * time.Second
	verifyEmbedColor = 0x00aaff
)

// challenge is the mutable state of one verification session. The phrase is
// replaced wholesale on regeneration, which invalidates the previous one.
type challenge struct {
	phrase         string
	robloxID       int64
	robloxUsername string
}

// HandleVerifyCommand runs the challenge-response verification flow: the
// invoker places a generated phrase in their Roblox bio and asks the bot to
// check it. Already-linked accounts short-circuit to a role re-grant.
func HandleVerifyCommand(s *discordgo.Session, i *discordgo.InteractionCreate, b *bot.Bot) {
	var username string
	for _, opt := range i.ApplicationCommandData().Options {
		if opt.Name == "username" {
			username = opt.StringValue()
		}
	}

	robloxID, err := b.Roblox.ResolveID(username)
	if err != nil {
		log.Printf("Error resolving Roblox username %q: %v", username, err)
		utils.SendErrorResponse(s, i, "Could not verify the Roblox account due to an error. Please try again later.")
		return
	}
	profile, err := b.Roblox.GetProfile(robloxID)
	if err != nil {
		log.Printf("Error fetching Roblox profile %d: %v", robloxID, err)
		utils.SendErrorResponse(s, i, "Could not verify the Roblox account due to an error. Please try again later.")
		return
	}

	invoker := i.Member.User

	existing, err := database.GetVerifiedLinkByRobloxID(b.DB, robloxID)
	if err != nil {
		log.Printf("Error looking up verified link for roblox id %d: %v", robloxID, err)
		utils.SendErrorResponse(s, i, "Could not verify the Roblox account due to an error. Please try again later.")
		return
	}
	if existing != nil {
		grantMemberRole(s, b, invoker.ID)
		utils.SendSimpleResponse(s, i, fmt.Sprintf(
			"%s, you have already been verified as **%s** and have been assigned the member role.",
			invoker.Mention(), existing.RobloxUsername))
		return
	}

	state := &challenge{
		phrase:         GeneratePhrase(),
		robloxID:       robloxID,
		robloxUsername: profile.Name,
	}

	sess := b.Sessions.Start(session.Options{
		ID:      i.ID,
		UserID:  invoker.ID,
		Timeout: verifyTimeout,
		OnExpire: func(collected int) {
			if collected > 0 {
				return
			}
			content := "Verification process timed out."
			_, err := s.InteractionResponseEdit(i.Interaction, &discordgo.WebhookEdit{
				Content:    &content,
				Embeds:     &[]*discordgo.MessageEmbed{},
				Components: &[]discordgo.MessageComponent{},
			})
			if err != nil {
				log.Printf("Error editing timed-out verification reply: %v", err)
			}
		},
	})

	err = s.InteractionRespond(i.Interaction, &discordgo.InteractionResponse{
		Type: discordgo.InteractionResponseChannelMessageWithSource,
		Data: &discordgo.InteractionResponseData{
			Embeds:     []*discordgo.MessageEmbed{buildChallengeEmbed(state.phrase)},
			Components: challengeComponents(sess),
			Flags:      discordgo.MessageFlagsEphemeral,
		},
	})
	if err != nil {
		log.Printf("Error sending verification challenge: %v", err)
		sess.Resolve()
		return
	}

	sess.Handle("new_phrase", func(s *discordgo.Session, i *discordgo.InteractionCreate, sess *session.Session) {
		state.phrase = GeneratePhrase()
		err := utils.UpdateComponentMessage(s, i, &discordgo.InteractionResponseData{
			Embeds:     []*discordgo.MessageEmbed{buildChallengeEmbed(state.phrase)},
			Components: challengeComponents(sess),
		})
		if err != nil {
			log.Printf("Error updating verification challenge: %v", err)
		}
	})

	sess.Handle("check", func(s *discordgo.Session, i *discordgo.InteractionCreate, sess *session.Session) {
		handleCheck(s, i, b, state, sess)
	})
}

func handleCheck(s *discordgo.Session, i *discordgo.InteractionCreate, b *bot.Bot, state *challenge, sess *session.Session) {
	profile, err := b.Roblox.GetProfile(state.robloxID)
	if err != nil {
		log.Printf("Error checking verification for roblox id %d: %v", state.robloxID, err)
		updateChallenge(s, i, "Error checking verification. Please try again later.", state, sess)
		return
	}

	if !PhraseInBio(profile.Description, state.phrase) {
		updateChallenge(s, i, "Bio verification failed. Please make sure your Roblox bio contains the correct phrase.", state, sess)
		return
	}

	invoker := i.Member.User
	link := model.VerifiedLink{
		DiscordID:      invoker.ID,
		RobloxID:       state.robloxID,
		RobloxUsername: state.robloxUsername,
		JoinDate:       utils.FormatTimestamp(time.Now()),
	}
	if err := database.AddVerifiedLink(b.DB, link); err != nil {
		log.Printf("Error saving verified link for %s: %v", invoker.ID, err)
		updateChallenge(s, i, "Error checking verification. Please try again later.", state, sess)
		return
	}

	if !sess.Resolve() {
		return
	}

	grantMemberRole(s, b, invoker.ID)

	utils.SendLogEmbed(s, b.Config.LogChannelID, &discordgo.MessageEmbed{
		Title: "User Verification Log",
		Color: verifyEmbedColor,
		Description: fmt.Sprintf("**Discord User:** %s\n**Roblox Username:** %s\n**Roblox ID:** %d\n**Time:** %s",
			invoker.String(), state.robloxUsername, state.robloxID, link.JoinDate),
	})

	err = utils.UpdateComponentMessage(s, i, &discordgo.InteractionResponseData{
		Content: fmt.Sprintf("Successfully verified as %s (ID: %d) and assigned the member role.",
			state.robloxUsername, state.robloxID),
		Embeds:     []*discordgo.MessageEmbed{},
		Components: []discordgo.MessageComponent{},
	})
	if err != nil {
		log.Printf("Error sending verification success: %v", err)
	}
}

// updateChallenge re-renders the challenge with a status line, keeping the
// buttons so the user can retry.
func updateChallenge(s *discordgo.Session, i *discordgo.InteractionCreate, content string, state *challenge, sess *session.Session) {
	err := utils.UpdateComponentMessage(s, i, &discordgo.InteractionResponseData{
		Content:    content,
		Embeds:     []*discordgo.MessageEmbed{buildChallengeEmbed(state.phrase)},
		Components: challengeComponents(sess),
	})
	if err != nil {
		log.Printf("Error updating verification challenge: %v", err)
	}
}

// grantMemberRole is best-effort; verification outcomes never depend on it.
func grantMemberRole(s *discordgo.Session, b *bot.Bot, userID string) {
	if b.Config.MemberRoleID == "" {
		return
	}
	if err := s.GuildMemberRoleAdd(b.Config.GuildID, userID, b.Config.MemberRoleID); err != nil {
		log.Printf("Failed to grant member role to %s: %v", userID, err)
	}
}

func buildChallengeEmbed(phrase string) *discordgo.MessageEmbed {
	return &discordgo.MessageEmbed{
		Title: "Roblox Account Verification",
		Description: fmt.Sprintf(
			"To verify your Roblox account, please update your Roblox bio with the following phrase:\n\n**%s**\n\nOnce you have updated your bio, click the \"Check Verification\" button below.",
			phrase),
		Color:  verifyEmbedColor,
		Footer: &discordgo.MessageEmbedFooter{Text: "Roblox Verification"},
	}
}

func challengeComponents(sess *session.Session) []discordgo.MessageComponent {
	return []discordgo.MessageComponent{
		discordgo.ActionsRow{
			Components: []discordgo.MessageComponent{
				discordgo.Button{
					Label:    "Check Verification",
					Style:    discordgo.PrimaryButton,
					CustomID: sess.ComponentID("check"),
				},
				discordgo.Button{
					Label:    "New Phrase",
					Style:    discordgo.SecondaryButton,
					CustomID: sess.ComponentID("new_phrase"),
				},
			},
		},
	}
}

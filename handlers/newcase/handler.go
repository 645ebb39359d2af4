package newcase

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
	formTimeout    = 60 * time.Second
	caseEmbedColor = 0xff0000
)

// HandleNewCaseCommand runs the guided case creation flow: allocate a case
// id, show an action selector plus submit button, and on a valid submit
// apply the platform action, persist the record and notify the log channel.
func HandleNewCaseCommand(s *discordgo.Session, i *discordgo.InteractionCreate, b *bot.Bot) {
	if i.Member == nil || !utils.HasRole(i.Member.Roles, b.Config.StaffRoleID) {
		utils.SendErrorResponse(s, i, "You do not have permission to use this command.")
		return
	}

	form, err := buildForm(s, i, b)
	if err != nil {
		log.Printf("Error preparing new case: %v", err)
		utils.SendErrorResponse(s, i, "An error occurred while processing the command. Please try again later.")
		return
	}
	if form == nil {
		return // rejection already reported
	}

	sess := b.Sessions.Start(session.Options{
		ID:      i.ID,
		Timeout: formTimeout,
	})

	err = s.InteractionRespond(i.Interaction, &discordgo.InteractionResponse{
		Type: discordgo.InteractionResponseChannelMessageWithSource,
		Data: &discordgo.InteractionResponseData{
			Content:    "New case created. Select an action:",
			Embeds:     []*discordgo.MessageEmbed{buildFormEmbed(form)},
			Components: formComponents(sess),
		},
	})
	if err != nil {
		log.Printf("Error sending new case form: %v", err)
		sess.Resolve()
		return
	}

	sess.Handle("select", func(s *discordgo.Session, i *discordgo.InteractionCreate, sess *session.Session) {
		values := i.MessageComponentData().Values
		if len(values) == 0 {
			return
		}
		form.Action = values[0]
		rerender(s, i, "New case created. Select an action:", form, sess)
	})

	sess.Handle("submit", func(s *discordgo.Session, i *discordgo.InteractionCreate, sess *session.Session) {
		handleSubmit(s, i, b, form, sess)
	})
}

// buildForm parses the command options, checks the target is known and
// allocates a collision-free case id. A nil form with nil error means the
// invocation was rejected with a reply already sent.
func buildForm(s *discordgo.Session, i *discordgo.InteractionCreate, b *bot.Bot) (*Form, error) {
	var targetUser *discordgo.User
	var reason, proof, timeInput string
	for _, opt := range i.ApplicationCommandData().Options {
		switch opt.Name {
		case "user":
			targetUser = opt.UserValue(s)
		case "reason":
			reason = opt.StringValue()
		case "proof":
			proof = opt.StringValue()
		case "time":
			timeInput = opt.StringValue()
		}
	}
	if targetUser == nil {
		utils.SendErrorResponse(s, i, "User not found in the server.")
		return nil, nil
	}
	if proof == "" {
		proof = "No proof provided"
	}

	dbUser, err := database.GetVerifiedLinkByDiscordID(b.DB, targetUser.ID)
	if err != nil {
		return nil, err
	}
	if dbUser == nil {
		utils.SendErrorResponse(s, i, "User not found in the database.")
		return nil, nil
	}

	caseID, err := database.AllocateCaseID(b.DB, nil)
	if err != nil {
		return nil, err
	}

	minutes, hasDuration := utils.ParseActionDuration(timeInput)
	return &Form{
		CaseID:      caseID,
		TargetID:    targetUser.ID,
		TargetTag:   targetUser.String(),
		Reason:      reason,
		Proof:       proof,
		TimeInput:   timeInput,
		Minutes:     minutes,
		HasDuration: hasDuration,
	}, nil
}

func handleSubmit(s *discordgo.Session, i *discordgo.InteractionCreate, b *bot.Bot, form *Form, sess *session.Session) {
	switch form.Validate() {
	case ErrNoAction:
		rerender(s, i, "Please select an action before submitting.", form, sess)
		return
	case ErrNoDuration:
		rerender(s, i, "Please specify the duration for the timeout (e.g., 10m for 10 minutes).", form, sess)
		return
	}

	if err := applyAction(s, b.Config.GuildID, form); err != nil {
		log.Printf("Failed to %s user %s: %v", form.Action, form.TargetID, err)
		rerender(s, i, fmt.Sprintf("Failed to %s user. Please check my permissions and try again.", form.Action), form, sess)
		return
	}

	if !sess.Resolve() {
		return // another submit already finished this case
	}

	moderator := i.Member.User
	record := model.CaseRecord{
		CaseID:      form.CaseID,
		Moderator:   moderator.String(),
		ModeratorID: moderator.ID,
		Action:      form.Action,
		Target:      form.TargetTag,
		Reason:      form.Reason,
		Proof:       form.Proof,
		Timestamp:   utils.FormatTimestamp(time.Now()),
		CreatedAt:   time.Now().Unix(),
	}
	if err := database.AddCaseRecord(b.DB, record); err != nil {
		log.Printf("Failed to save case %d: %v", form.CaseID, err)
		if err := utils.UpdateComponentMessage(s, i, &discordgo.InteractionResponseData{
			Content:    fmt.Sprintf("Action '%s' performed, but the case record could not be saved.", form.Action),
			Embeds:     []*discordgo.MessageEmbed{},
			Components: []discordgo.MessageComponent{},
		}); err != nil {
			log.Printf("Error updating case form: %v", err)
		}
		return
	}

	err := utils.UpdateComponentMessage(s, i, &discordgo.InteractionResponseData{
		Content:    fmt.Sprintf("Action '%s' performed.", form.Action),
		Embeds:     []*discordgo.MessageEmbed{},
		Components: []discordgo.MessageComponent{},
	})
	if err != nil {
		log.Printf("Error updating case form: %v", err)
	}

	utils.SendLogEmbed(s, b.Config.LogChannelID, buildLogEmbed(record, form))
}

// applyAction performs the selected platform action. Warnings are record
// only and make no platform call.
func applyAction(s *discordgo.Session, guildID string, form *Form) error {
	switch form.Action {
	case model.ActionKick:
		return s.GuildMemberDeleteWithReason(guildID, form.TargetID, form.Reason)
	case model.ActionBan:
		days := 0
		if form.HasDuration {
			days = form.Minutes / 1440
		}
		return s.GuildBanCreateWithReason(guildID, form.TargetID, form.Reason, days)
	case model.ActionWarn:
		return nil
	case model.ActionTimeout:
		until := time.Now().Add(time.Duration(form.Minutes) * time.Minute)
		return s.GuildMemberTimeout(guildID, form.TargetID, &until)
	}
	return fmt.Errorf("unknown action %q", form.Action)
}

func rerender(s *discordgo.Session, i *discordgo.InteractionCreate, content string, form *Form, sess *session.Session) {
	err := utils.UpdateComponentMessage(s, i, &discordgo.InteractionResponseData{
		Content:    content,
		Embeds:     []*discordgo.MessageEmbed{buildFormEmbed(form)},
		Components: formComponents(sess),
	})
	if err != nil {
		log.Printf("Error updating case form: %v", err)
	}
}

func buildFormEmbed(form *Form) *discordgo.MessageEmbed {
	action := form.Action
	if action == "" {
		action = "Choose an action:"
	}
	timeValue := form.TimeInput
	if timeValue == "" {
		timeValue = "No time specified"
	}
	return &discordgo.MessageEmbed{
		Title:       fmt.Sprintf("Case %d", form.CaseID),
		Description: fmt.Sprintf("**User:** <@%s>\n**Proof:** %s\n**Reason:** %s", form.TargetID, form.Proof, form.Reason),
		Color:       caseEmbedColor,
		Fields: []*discordgo.MessageEmbedField{
			{Name: "Action", Value: action, Inline: true},
			{Name: "Time", Value: timeValue, Inline: true},
		},
	}
}

func formComponents(sess *session.Session) []discordgo.MessageComponent {
	return []discordgo.MessageComponent{
		discordgo.ActionsRow{
			Components: []discordgo.MessageComponent{
				discordgo.SelectMenu{
					CustomID:    sess.ComponentID("select"),
					Placeholder: "Select an action",
					Options: []discordgo.SelectMenuOption{
						{Label: "Kick", Value: model.ActionKick, Description: "Kick the user"},
						{Label: "Ban", Value: model.ActionBan, Description: "Ban the user"},
						{Label: "Warn", Value: model.ActionWarn, Description: "Warn the user"},
						{Label: "Timeout", Value: model.ActionTimeout, Description: "Timeout the user"},
					},
				},
			},
		},
		discordgo.ActionsRow{
			Components: []discordgo.MessageComponent{
				discordgo.Button{
					Label:    "Submit",
					Style:    discordgo.PrimaryButton,
					CustomID: sess.ComponentID("submit"),
				},
			},
		},
	}
}

func buildLogEmbed(record model.CaseRecord, form *Form) *discordgo.MessageEmbed {
	timeValue := form.TimeInput
	if timeValue == "" {
		timeValue = "No time specified"
	}
	return &discordgo.MessageEmbed{
		Title: fmt.Sprintf("Case %d", record.CaseID),
		Color: caseEmbedColor,
		Fields: []*discordgo.MessageEmbedField{
			{Name: "Action", Value: record.Action, Inline: true},
			{Name: "User", Value: record.Target, Inline: true},
			{Name: "User ID", Value: form.TargetID, Inline: true},
			{Name: "Moderator", Value: record.Moderator, Inline: true},
			{Name: "Moderator ID", Value: record.ModeratorID, Inline: true},
			{Name: "Reason", Value: record.Reason},
			{Name: "Proof", Value: record.Proof},
			{Name: "Time", Value: timeValue},
			{Name: "Timestamp", Value: record.Timestamp},
		},
		Timestamp: time.Now().Format(time.RFC3339),
	}
}

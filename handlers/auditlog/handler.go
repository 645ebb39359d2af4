// Package auditlog mirrors message and membership events into the
// configured log channel, and alerts the admin when someone deletes a
// message inside the log channel itself.
package auditlog

import (
	"fmt"
	"log"
	"time"

	"moderation-bot/model"
	"moderation-bot/utils"

	"github.com/bwmarrin/discordgo"
)

const (
	colorRed    = 0xff0000
	colorYellow = 0xffff00
	colorGreen  = 0x00ff00
)

// executorMatchWindow bounds how old an audit log entry may be to still be
// attributed as the executor of a just-observed deletion.
const executorMatchWindow = 5 * time.Second

// HandleMessageDelete mirrors a deletion into the log channel. Deletions in
// the log channel itself additionally get the executor looked up in the
// guild audit log and both embeds DM'd to the admin.
func HandleMessageDelete(s *discordgo.Session, m *discordgo.MessageDelete, cfg *model.Config) {
	if cfg.LogChannelID == "" {
		return
	}

	author := "Unknown"
	content := "No content"
	var authorID string
	if m.BeforeDelete != nil {
		if m.BeforeDelete.Author != nil {
			authorID = m.BeforeDelete.Author.ID
			author = m.BeforeDelete.Author.Mention()
		}
		if m.BeforeDelete.Content != "" {
			content = m.BeforeDelete.Content
		}
	}

	embed := &discordgo.MessageEmbed{
		Title: "Message Deleted",
		Color: colorRed,
		Fields: []*discordgo.MessageEmbedField{
			{Name: "Author", Value: author, Inline: true},
			{Name: "Channel", Value: fmt.Sprintf("<#%s>", m.ChannelID), Inline: true},
			{Name: "Message", Value: content},
		},
		Timestamp: time.Now().Format(time.RFC3339),
	}
	utils.SendLogEmbed(s, cfg.LogChannelID, embed)

	if m.ChannelID != cfg.LogChannelID || cfg.AdminUserID == "" {
		return
	}

	executor := lookupDeletionExecutor(s, m.GuildID, authorID, m.ChannelID)

	dmEmbed := &discordgo.MessageEmbed{
		Title:       "Log Message Deleted",
		Color:       colorRed,
		Description: "A message was deleted from the logs channel",
		Fields: []*discordgo.MessageEmbedField{
			{Name: "Deleted By", Value: executor, Inline: true},
			{Name: "Author", Value: author, Inline: true},
			{Name: "Channel", Value: fmt.Sprintf("<#%s>", m.ChannelID), Inline: true},
			{Name: "Message", Value: content},
		},
		Timestamp: time.Now().Format(time.RFC3339),
	}

	dm, err := s.UserChannelCreate(cfg.AdminUserID)
	if err != nil {
		log.Printf("Failed to open DM channel with admin: %v", err)
		return
	}
	for _, e := range []*discordgo.MessageEmbed{dmEmbed, embed} {
		if _, err := s.ChannelMessageSendEmbed(dm.ID, e); err != nil {
			log.Printf("Failed to DM admin about log channel deletion: %v", err)
		}
	}
}

// lookupDeletionExecutor reads the most recent message-delete audit entry
// and attributes it when target, channel and recency all match.
func lookupDeletionExecutor(s *discordgo.Session, guildID, authorID, channelID string) string {
	audit, err := s.GuildAuditLog(guildID, "", "", int(discordgo.AuditLogActionMessageDelete), 1)
	if err != nil {
		log.Printf("Error fetching audit logs: %v", err)
		return "Unknown"
	}
	if len(audit.AuditLogEntries) == 0 {
		return "Unknown"
	}

	entry := audit.AuditLogEntries[0]
	created, err := discordgo.SnowflakeTimestamp(entry.ID)
	if err != nil || time.Since(created) > executorMatchWindow {
		return "Unknown"
	}
	if entry.TargetID != authorID || entry.Options == nil || entry.Options.ChannelID != channelID {
		return "Unknown"
	}

	executor, err := s.User(entry.UserID)
	if err != nil {
		return "Unknown"
	}
	return executor.String()
}

// HandleMessageUpdate mirrors an edit into the log channel. Edits with
// unchanged content (embed unfurls, pin flags) are skipped.
func HandleMessageUpdate(s *discordgo.Session, m *discordgo.MessageUpdate, cfg *model.Config) {
	if cfg.LogChannelID == "" || m.BeforeUpdate == nil {
		return
	}
	oldContent := m.BeforeUpdate.Content
	if oldContent == m.Content {
		return
	}
	if oldContent == "" {
		oldContent = "No content"
	}
	newContent := m.Content
	if newContent == "" {
		newContent = "No content"
	}

	author := "Unknown"
	if m.Author != nil {
		author = m.Author.Mention()
	}

	utils.SendLogEmbed(s, cfg.LogChannelID, &discordgo.MessageEmbed{
		Title: "Message Edited",
		Color: colorYellow,
		Fields: []*discordgo.MessageEmbedField{
			{Name: "Author", Value: author, Inline: true},
			{Name: "Channel", Value: fmt.Sprintf("<#%s>", m.ChannelID), Inline: true},
			{Name: "Old Message", Value: oldContent},
			{Name: "New Message", Value: newContent},
		},
		Timestamp: time.Now().Format(time.RFC3339),
	})
}

// HandleMemberAdd mirrors a member join into the log channel.
func HandleMemberAdd(s *discordgo.Session, m *discordgo.GuildMemberAdd, cfg *model.Config) {
	utils.SendLogEmbed(s, cfg.LogChannelID, memberEmbed("User Joined", colorGreen, m.User))
}

// HandleMemberRemove mirrors a member leave into the log channel.
func HandleMemberRemove(s *discordgo.Session, m *discordgo.GuildMemberRemove, cfg *model.Config) {
	utils.SendLogEmbed(s, cfg.LogChannelID, memberEmbed("User Left", colorRed, m.User))
}

func memberEmbed(title string, color int, user *discordgo.User) *discordgo.MessageEmbed {
	return &discordgo.MessageEmbed{
		Title: title,
		Color: color,
		Fields: []*discordgo.MessageEmbedField{
			{Name: "User", Value: user.Mention(), Inline: true},
			{Name: "ID", Value: user.ID, Inline: true},
		},
		Timestamp: time.Now().Format(time.RFC3339),
	}
}

package bot

import (
	"fmt"
	"log"
	"sync"
	"time"

	"moderation-bot/model"
	"moderation-bot/utils"
	"moderation-bot/utils/database"

	"github.com/bwmarrin/discordgo"
)

const summaryInterval = 24 * time.Hour

// Scheduler runs the bot's background tasks. Currently that is a daily
// moderation summary posted to the log channel.
type Scheduler struct {
	bot  *Bot
	done chan struct{}
	wg   sync.WaitGroup
}

func NewScheduler(b *Bot) *Scheduler {
	return &Scheduler{
		bot:  b,
		done: make(chan struct{}),
	}
}

// Start begins all scheduled tasks.
func (s *Scheduler) Start() {
	s.wg.Add(1)
	go s.runDailySummary()
}

// Stop terminates all scheduled tasks gracefully.
func (s *Scheduler) Stop() {
	log.Println("Stopping scheduler...")
	close(s.done)
	s.wg.Wait()
	log.Println("Scheduler stopped.")
}

func (s *Scheduler) runDailySummary() {
	defer s.wg.Done()

	ticker := time.NewTicker(summaryInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			s.postSummary()
		case <-s.done:
			return
		}
	}
}

// postSummary sends the per-action case counts of the last 24 hours to the
// log channel. Best-effort: failures are logged and the next tick tries
// again.
func (s *Scheduler) postSummary() {
	counts, err := database.GetCaseCountsSince(s.bot.DB, time.Now().Add(-summaryInterval))
	if err != nil {
		log.Printf("Error collecting daily case stats: %v", err)
		return
	}

	total := 0
	for _, c := range counts {
		total += c
	}

	utils.SendLogEmbed(s.bot.Session, s.bot.Config.LogChannelID, &discordgo.MessageEmbed{
		Title: "Daily Moderation Summary",
		Color: 0x5865F2,
		Fields: []*discordgo.MessageEmbedField{
			{Name: "Total", Value: fmt.Sprintf("%d", total), Inline: true},
			{Name: "Bans", Value: fmt.Sprintf("%d", counts[model.ActionBan]), Inline: true},
			{Name: "Kicks", Value: fmt.Sprintf("%d", counts[model.ActionKick]), Inline: true},
			{Name: "Warns", Value: fmt.Sprintf("%d", counts[model.ActionWarn]), Inline: true},
			{Name: "Timeouts", Value: fmt.Sprintf("%d", counts[model.ActionTimeout]), Inline: true},
		},
		Timestamp: time.Now().Format(time.RFC3339),
	})
}

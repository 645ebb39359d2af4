package utils

import (
	"log"
	"time"

	"github.com/bwmarrin/discordgo"
)

// RetryPolicy bounds a best-effort operation: at most MaxAttempts tries with
// a fixed Delay between them.
type RetryPolicy struct {
	MaxAttempts int
	Delay       time.Duration
}

// DefaultDisposalPolicy governs session message cleanup.
var DefaultDisposalPolicy = RetryPolicy{MaxAttempts: 3, Delay: 2 * time.Second}

// Do runs fn until it succeeds or the attempt budget is spent, returning the
// last error.
func (p RetryPolicy) Do(fn func() error) error {
	var err error
	for attempt := 0; attempt < p.MaxAttempts; attempt++ {
		if attempt > 0 {
			time.Sleep(p.Delay)
		}
		if err = fn(); err == nil {
			return nil
		}
	}
	return err
}

// DisposeInteractionResponse deletes the original response of an expired
// session. Failures (message already gone, permission changes) are retried
// per the policy and then only logged; the user is never bothered.
func DisposeInteractionResponse(s *discordgo.Session, i *discordgo.Interaction, policy RetryPolicy) {
	err := policy.Do(func() error {
		return s.InteractionResponseDelete(i)
	})
	if err != nil {
		log.Printf("Failed to delete session message after %d attempts: %v", policy.MaxAttempts, err)
	}
}

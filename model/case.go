package model

// Moderation action kinds stored in a case record.
const (
	ActionBan     = "ban"
	ActionKick    = "kick"
	ActionWarn    = "warn"
	ActionTimeout = "timeout"
)

// CaseRecord represents a single moderation case in the database.
// The database table is named 'cases'. Records are immutable once written.
type CaseRecord struct {
	CaseID      int64  `db:"case_id"` // Randomly allocated, collision-checked
	Moderator   string `db:"moderator"`
	ModeratorID string `db:"moderator_id"`
	Action      string `db:"action"`
	Target      string `db:"target"`
	Reason      string `db:"reason"`
	Proof       string `db:"proof"`
	Timestamp   string `db:"timestamp"`  // Display string, America/New_York
	CreatedAt   int64  `db:"created_at"` // Unix seconds, ordering key
}

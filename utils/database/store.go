package database

import (
	"database/sql"
	"errors"
	"fmt"
	"math/rand"
	"moderation-bot/model"
	"time"

	"github.com/jmoiron/sqlx"
	_ "github.com/mattn/go-sqlite3"
)

// InitModerationDB opens the moderation database and ensures both tables
// exist. The caller owns the returned handle for the process lifetime.
func InitModerationDB(dbPath string) (*sqlx.DB, error) {
	db, err := sqlx.Connect("sqlite3", dbPath)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to moderation database: %w", err)
	}

	schema := `CREATE TABLE IF NOT EXISTS cases (
	          case_id INTEGER PRIMARY KEY,
	          moderator TEXT NOT NULL,
	          moderator_id TEXT NOT NULL,
	          action TEXT NOT NULL,
	          target TEXT NOT NULL,
	          reason TEXT NOT NULL,
	          proof TEXT NOT NULL,
	          timestamp TEXT NOT NULL,
	          created_at INTEGER NOT NULL
	      );
	      CREATE INDEX IF NOT EXISTS idx_cases_target ON cases(target);
	      CREATE TABLE IF NOT EXISTS verified_links (
	          discord_id TEXT PRIMARY KEY,
	          roblox_id INTEGER NOT NULL,
	          roblox_username TEXT NOT NULL,
	          join_date TEXT NOT NULL
	      );
	      CREATE INDEX IF NOT EXISTS idx_verified_links_roblox ON verified_links(roblox_id);`
	if _, err = db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to create moderation tables: %w", err)
	}

	return db, nil
}

// AddCaseRecord inserts a new case record.
func AddCaseRecord(db *sqlx.DB, record model.CaseRecord) error {
	query := `INSERT INTO cases (case_id, moderator, moderator_id, action, target, reason, proof, timestamp, created_at)
	          VALUES (:case_id, :moderator, :moderator_id, :action, :target, :reason, :proof, :timestamp, :created_at)`
	if _, err := db.NamedExec(query, record); err != nil {
		return fmt.Errorf("failed to insert case record %d: %w", record.CaseID, err)
	}
	return nil
}

// GetCasesByTarget retrieves all cases recorded against a target user tag,
// newest first.
func GetCasesByTarget(db *sqlx.DB, target string) ([]model.CaseRecord, error) {
	var records []model.CaseRecord
	query := "SELECT * FROM cases WHERE target = ? ORDER BY created_at DESC"
	if err := db.Select(&records, query, target); err != nil {
		return nil, fmt.Errorf("failed to get cases for target %s: %w", target, err)
	}
	return records, nil
}

// CaseIDExists reports whether a case with the given id has been recorded.
func CaseIDExists(db *sqlx.DB, caseID int64) (bool, error) {
	var count int
	if err := db.Get(&count, "SELECT COUNT(*) FROM cases WHERE case_id = ?", caseID); err != nil {
		return false, fmt.Errorf("failed to check case id %d: %w", caseID, err)
	}
	return count > 0, nil
}

// AllocateCaseID generates random case id candidates until one is not yet
// taken. Allocation is check-then-insert, not atomic; a collision between
// concurrent allocations surfaces as a primary key insert error.
func AllocateCaseID(db *sqlx.DB, rng *rand.Rand) (int64, error) {
	for {
		var candidate int64
		if rng != nil {
			candidate = int64(rng.Intn(1000000))
		} else {
			candidate = int64(rand.Intn(1000000))
		}
		taken, err := CaseIDExists(db, candidate)
		if err != nil {
			return 0, err
		}
		if !taken {
			return candidate, nil
		}
	}
}

// AddVerifiedLink inserts a new verified link. The discord_id primary key
// rejects a second link for the same Discord user.
func AddVerifiedLink(db *sqlx.DB, link model.VerifiedLink) error {
	query := `INSERT INTO verified_links (discord_id, roblox_id, roblox_username, join_date)
	          VALUES (:discord_id, :roblox_id, :roblox_username, :join_date)`
	if _, err := db.NamedExec(query, link); err != nil {
		return fmt.Errorf("failed to insert verified link for %s: %w", link.DiscordID, err)
	}
	return nil
}

// GetVerifiedLinkByRobloxID returns the link for a Roblox account, or nil
// when the account has never been verified.
func GetVerifiedLinkByRobloxID(db *sqlx.DB, robloxID int64) (*model.VerifiedLink, error) {
	var link model.VerifiedLink
	err := db.Get(&link, "SELECT * FROM verified_links WHERE roblox_id = ?", robloxID)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get verified link for roblox id %d: %w", robloxID, err)
	}
	return &link, nil
}

// GetVerifiedLinkByDiscordID returns the link for a Discord user, or nil
// when the user has never been verified.
func GetVerifiedLinkByDiscordID(db *sqlx.DB, discordID string) (*model.VerifiedLink, error) {
	var link model.VerifiedLink
	err := db.Get(&link, "SELECT * FROM verified_links WHERE discord_id = ?", discordID)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get verified link for discord id %s: %w", discordID, err)
	}
	return &link, nil
}

// GetCaseCountsSince retrieves the number of cases per action kind recorded
// at or after the given time.
func GetCaseCountsSince(db *sqlx.DB, since time.Time) (map[string]int, error) {
	rows, err := db.Query("SELECT action, COUNT(*) FROM cases WHERE created_at >= ? GROUP BY action", since.Unix())
	if err != nil {
		return nil, fmt.Errorf("failed to get case counts: %w", err)
	}
	defer rows.Close()

	counts := make(map[string]int)
	for rows.Next() {
		var action string
		var count int
		if err := rows.Scan(&action, &count); err != nil {
			return nil, fmt.Errorf("failed to scan case count row: %w", err)
		}
		counts[action] = count
	}
	return counts, rows.Err()
}

// GetTotalCaseCount retrieves the total number of recorded cases.
func GetTotalCaseCount(db *sqlx.DB) (int, error) {
	var count int
	if err := db.Get(&count, "SELECT COUNT(*) FROM cases"); err != nil {
		return 0, fmt.Errorf("failed to get total case count: %w", err)
	}
	return count, nil
}

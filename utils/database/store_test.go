package database

import (
	"math/rand"
	"testing"
	"time"

	"moderation-bot/model"

	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testDB(t *testing.T) *sqlx.DB {
	t.Helper()
	db, err := InitModerationDB(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return db
}

func caseRecord(caseID, createdAt int64, action, target string) model.CaseRecord {
	return model.CaseRecord{
		CaseID:      caseID,
		Moderator:   "mod",
		ModeratorID: "100",
		Action:      action,
		Target:      target,
		Reason:      "reason",
		Proof:       "No proof provided",
		Timestamp:   "01/06/2024 12:30 PM",
		CreatedAt:   createdAt,
	}
}

func TestCasesOrderedNewestFirst(t *testing.T) {
	db := testDB(t)

	require.NoError(t, AddCaseRecord(db, caseRecord(1, 100, "warn", "user#1")))
	require.NoError(t, AddCaseRecord(db, caseRecord(2, 300, "ban", "user#1")))
	require.NoError(t, AddCaseRecord(db, caseRecord(3, 200, "kick", "user#1")))
	require.NoError(t, AddCaseRecord(db, caseRecord(4, 400, "kick", "someone-else")))

	records, err := GetCasesByTarget(db, "user#1")
	require.NoError(t, err)
	require.Len(t, records, 3)
	assert.Equal(t, int64(2), records[0].CaseID)
	assert.Equal(t, int64(3), records[1].CaseID)
	assert.Equal(t, int64(1), records[2].CaseID)
}

func TestCaseIDExists(t *testing.T) {
	db := testDB(t)

	taken, err := CaseIDExists(db, 42)
	require.NoError(t, err)
	assert.False(t, taken)

	require.NoError(t, AddCaseRecord(db, caseRecord(42, 100, "warn", "user#1")))

	taken, err = CaseIDExists(db, 42)
	require.NoError(t, err)
	assert.True(t, taken)
}

func TestAllocateCaseIDSkipsTakenIDs(t *testing.T) {
	db := testDB(t)

	// Occupy the id a fresh rng with this seed would produce first.
	first := int64(rand.New(rand.NewSource(7)).Intn(1000000))
	require.NoError(t, AddCaseRecord(db, caseRecord(first, 100, "warn", "user#1")))

	allocated, err := AllocateCaseID(db, rand.New(rand.NewSource(7)))
	require.NoError(t, err)
	assert.NotEqual(t, first, allocated, "allocation must retry past a taken id")

	taken, err := CaseIDExists(db, allocated)
	require.NoError(t, err)
	assert.False(t, taken)
}

func TestDuplicateCaseIDRejected(t *testing.T) {
	db := testDB(t)

	require.NoError(t, AddCaseRecord(db, caseRecord(5, 100, "warn", "user#1")))
	assert.Error(t, AddCaseRecord(db, caseRecord(5, 200, "ban", "user#2")))
}

func TestVerifiedLinkLookups(t *testing.T) {
	db := testDB(t)

	link, err := GetVerifiedLinkByRobloxID(db, 12345)
	require.NoError(t, err)
	assert.Nil(t, link)

	link, err = GetVerifiedLinkByDiscordID(db, "200")
	require.NoError(t, err)
	assert.Nil(t, link)

	want := model.VerifiedLink{
		DiscordID:      "200",
		RobloxID:       12345,
		RobloxUsername: "builderman",
		JoinDate:       "01/06/2024 12:30 PM",
	}
	require.NoError(t, AddVerifiedLink(db, want))

	link, err = GetVerifiedLinkByRobloxID(db, 12345)
	require.NoError(t, err)
	require.NotNil(t, link)
	assert.Equal(t, want, *link)

	link, err = GetVerifiedLinkByDiscordID(db, "200")
	require.NoError(t, err)
	require.NotNil(t, link)
	assert.Equal(t, want, *link)
}

func TestVerifiedLinkUniquePerDiscordUser(t *testing.T) {
	db := testDB(t)

	link := model.VerifiedLink{DiscordID: "200", RobloxID: 1, RobloxUsername: "a", JoinDate: "x"}
	require.NoError(t, AddVerifiedLink(db, link))

	link.RobloxID = 2
	assert.Error(t, AddVerifiedLink(db, link), "a second link for the same Discord user must be rejected")
}

func TestCaseCounts(t *testing.T) {
	db := testDB(t)

	require.NoError(t, AddCaseRecord(db, caseRecord(1, 100, "ban", "a")))
	require.NoError(t, AddCaseRecord(db, caseRecord(2, 100, "ban", "b")))
	require.NoError(t, AddCaseRecord(db, caseRecord(3, 100, "warn", "c")))

	counts, err := GetCaseCountsSince(db, time.Unix(0, 0))
	require.NoError(t, err)
	assert.Equal(t, 2, counts["ban"])
	assert.Equal(t, 1, counts["warn"])

	total, err := GetTotalCaseCount(db)
	require.NoError(t, err)
	assert.Equal(t, 3, total)
}

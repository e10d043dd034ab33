package database

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/otog-org/otog-server/internal/database/models"
	"github.com/otog-org/otog-server/internal/scoreboard"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

type scoreboardFixture struct {
	db       *gorm.DB
	contest  *models.Contest
	problems []*models.Problem
	base     time.Time
	n        int
}

func newScoreboardFixture(t *testing.T) *scoreboardFixture {
	db := newTestDB(t)
	f := &scoreboardFixture{db: db, base: time.Now().Add(-time.Hour)}
	for _, name := range []string{"A", "B"} {
		p := &models.Problem{Name: name, Score: 100}
		require.NoError(t, CreateProblem(db, p))
		f.problems = append(f.problems, p)
	}
	f.contest = &models.Contest{Name: "Round", TimeStart: f.base, TimeEnd: f.base.Add(3 * time.Hour)}
	require.NoError(t, CreateContest(db, f.contest))
	for _, p := range f.problems {
		require.NoError(t, AddProblemToContest(db, f.contest.ID, p.ID))
	}
	return f
}

func (f *scoreboardFixture) submit(t *testing.T, user *models.User, problemID uint, status models.Status, score string, timeUsed int64) *models.Submission {
	t.Helper()
	f.n++
	contestID := f.contest.ID
	sub := &models.Submission{
		ID:        uuid.NewString(),
		CreatedAt: f.base.Add(time.Duration(f.n) * time.Minute),
		UserID:    user.ID,
		ProblemID: problemID,
		ContestID: &contestID,
		Status:    status,
		Score:     decimal.RequireFromString(score),
		TimeUsed:  timeUsed,
	}
	require.NoError(t, CreateSubmission(f.db, sub))
	return sub
}

func TestGetContestScoreboard(t *testing.T) {
	f := newScoreboardFixture(t)
	alice := createUser(t, f.db, "alice")
	bob := createUser(t, f.db, "bob")
	carol := createUser(t, f.db, "carol")
	a, b := f.problems[0].ID, f.problems[1].ID

	f.submit(t, bob, a, models.StatusReject, "30", 100)
	f.submit(t, alice, a, models.StatusAccept, "100", 200)
	f.submit(t, bob, a, models.StatusAccept, "100", 150)
	f.submit(t, bob, a, models.StatusReject, "20", 50) // lower, ignored
	f.submit(t, bob, a, models.StatusAccept, "100", 10) // tie, earlier one kept
	f.submit(t, alice, b, models.StatusReject, "12.5", 300)
	f.submit(t, carol, b, models.StatusWaiting, "0", 0) // not graded yet

	snapshot, err := GetContestScoreboard(f.db, f.contest.ID)
	require.NoError(t, err)

	assert.Equal(t, f.contest.ID, snapshot.ContestID)
	assert.Equal(t, "Round", snapshot.Name)
	require.Len(t, snapshot.Problems, 2)
	assert.Equal(t, "A", snapshot.Problems[0].Name)

	require.Len(t, snapshot.Participants, 2)
	bobRow, aliceRow := snapshot.Participants[0], snapshot.Participants[1]
	assert.Equal(t, bob.ID, bobRow.ID)
	assert.Equal(t, "show bob", bobRow.ShowName)
	require.Len(t, bobRow.Submissions, 1)
	assert.Equal(t, "100", bobRow.Submissions[0].Score.String())
	assert.Equal(t, int64(150), bobRow.Submissions[0].TimeUsed)

	assert.Equal(t, alice.ID, aliceRow.ID)
	require.Len(t, aliceRow.Submissions, 2)
	assert.Equal(t, "12.5", aliceRow.ScoreFor(b).String())

	board := scoreboard.Build(snapshot, true)
	require.Len(t, board.Rows, 2)
	assert.Equal(t, alice.ID, board.Rows[0].ID)
	assert.Equal(t, "112.5", board.Rows[0].TotalScore.String())
	assert.Equal(t, 1, board.Rows[0].Rank)
	assert.Equal(t, 2, board.Rows[1].Rank)
}

func TestGetContestScoreboardEmpty(t *testing.T) {
	f := newScoreboardFixture(t)

	snapshot, err := GetContestScoreboard(f.db, f.contest.ID)
	require.NoError(t, err)
	assert.NotNil(t, snapshot.Participants)
	assert.Empty(t, snapshot.Participants)
}

func TestGetContestScoreboardUnknownContest(t *testing.T) {
	db := newTestDB(t)
	_, err := GetContestScoreboard(db, 42)
	assert.ErrorIs(t, err, gorm.ErrRecordNotFound)
}

func TestGetContestScoreboardSkipsDeletedUsers(t *testing.T) {
	f := newScoreboardFixture(t)
	alice := createUser(t, f.db, "alice")
	bob := createUser(t, f.db, "bob")
	f.submit(t, alice, f.problems[0].ID, models.StatusAccept, "100", 10)
	f.submit(t, bob, f.problems[0].ID, models.StatusReject, "40", 10)

	// Orphaned rows left by a raw user delete must not show up nameless.
	require.NoError(t, f.db.Delete(&models.User{}, "id = ?", bob.ID).Error)

	snapshot, err := GetContestScoreboard(f.db, f.contest.ID)
	require.NoError(t, err)
	require.Len(t, snapshot.Participants, 1)
	assert.Equal(t, alice.ID, snapshot.Participants[0].ID)
	assert.Equal(t, "show alice", snapshot.Participants[0].ShowName)
}

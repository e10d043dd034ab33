package database

import (
	"errors"
	"path/filepath"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/otog-org/otog-server/internal/database/models"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := Init(filepath.Join(t.TempDir(), "data", "otog.db"))
	require.NoError(t, err)
	return db
}

func createUser(t *testing.T, db *gorm.DB, username string) *models.User {
	t.Helper()
	user := &models.User{ID: uuid.NewString(), Username: username, ShowName: "show " + username}
	require.NoError(t, CreateUser(db, user))
	return user
}

func TestCreateUserRejectsDuplicateUsername(t *testing.T) {
	db := newTestDB(t)
	user := createUser(t, db, "alice")
	assert.Equal(t, models.RoleUser, user.Role)

	err := CreateUser(db, &models.User{ID: uuid.NewString(), Username: "alice"})
	assert.ErrorIs(t, err, ErrAlreadyExists)

	got, err := GetUserByUsername(db, "alice")
	require.NoError(t, err)
	assert.Equal(t, user.ID, got.ID)
}

func TestUpdateAndDeleteUser(t *testing.T) {
	db := newTestDB(t)
	user := createUser(t, db, "bob")

	user.Role = models.RoleAdmin
	user.ShowName = "Bobby"
	require.NoError(t, UpdateUser(db, user))

	got, err := GetUserByID(db, user.ID)
	require.NoError(t, err)
	assert.True(t, got.IsAdmin())
	assert.Equal(t, "Bobby", got.ShowName)

	contestIDs, err := DeleteUser(db, user.ID)
	require.NoError(t, err)
	assert.Empty(t, contestIDs)
	_, err = GetUserByID(db, user.ID)
	assert.True(t, errors.Is(err, gorm.ErrRecordNotFound))
}

func TestDeleteUserRemovesSubmissions(t *testing.T) {
	f := newScoreboardFixture(t)
	alice := createUser(t, f.db, "alice")
	bob := createUser(t, f.db, "bob")
	f.submit(t, alice, f.problems[0].ID, models.StatusAccept, "100", 10)
	f.submit(t, bob, f.problems[0].ID, models.StatusAccept, "100", 20)
	f.submit(t, bob, f.problems[1].ID, models.StatusReject, "50", 20)
	require.NoError(t, CreateSubmission(f.db, &models.Submission{
		ID: uuid.NewString(), UserID: bob.ID, ProblemID: f.problems[0].ID, Status: models.StatusAccept,
	}))

	contestIDs, err := DeleteUser(f.db, bob.ID)
	require.NoError(t, err)
	assert.Equal(t, []uint{f.contest.ID}, contestIDs)

	subs, err := GetSubmissionsByUserID(f.db, bob.ID)
	require.NoError(t, err)
	assert.Empty(t, subs)

	snapshot, err := GetContestScoreboard(f.db, f.contest.ID)
	require.NoError(t, err)
	require.Len(t, snapshot.Participants, 1)
	assert.Equal(t, alice.ID, snapshot.Participants[0].ID)
}

func TestContestIDLookups(t *testing.T) {
	f := newScoreboardFixture(t)
	alice := createUser(t, f.db, "alice")

	other := &models.Contest{Name: "Other", TimeStart: f.base, TimeEnd: f.base.Add(time.Hour)}
	require.NoError(t, CreateContest(f.db, other))
	require.NoError(t, AddProblemToContest(f.db, other.ID, f.problems[1].ID))

	ids, err := GetProblemContestIDs(f.db, f.problems[0].ID)
	require.NoError(t, err)
	assert.Equal(t, []uint{f.contest.ID}, ids)
	ids, err = GetProblemContestIDs(f.db, f.problems[1].ID)
	require.NoError(t, err)
	assert.ElementsMatch(t, []uint{f.contest.ID, other.ID}, ids)

	ids, err = GetUserContestIDs(f.db, alice.ID)
	require.NoError(t, err)
	assert.Empty(t, ids)

	f.submit(t, alice, f.problems[0].ID, models.StatusAccept, "100", 10)
	f.submit(t, alice, f.problems[1].ID, models.StatusAccept, "100", 10)
	ids, err = GetUserContestIDs(f.db, alice.ID)
	require.NoError(t, err)
	assert.Equal(t, []uint{f.contest.ID}, ids)
}

func TestContestProblems(t *testing.T) {
	db := newTestDB(t)
	p1 := &models.Problem{Name: "A+B", Score: 100}
	p2 := &models.Problem{Name: "Maze", Score: 100}
	require.NoError(t, CreateProblem(db, p1))
	require.NoError(t, CreateProblem(db, p2))

	contest := &models.Contest{Name: "Round 1", Mode: models.ModeRated, GradingMode: models.GradingClassic}
	require.NoError(t, CreateContest(db, contest))
	require.NoError(t, AddProblemToContest(db, contest.ID, p2.ID))
	require.NoError(t, AddProblemToContest(db, contest.ID, p1.ID))

	got, err := GetContest(db, contest.ID)
	require.NoError(t, err)
	require.Len(t, got.Problems, 2)
	assert.Equal(t, p1.ID, got.Problems[0].ID)
	assert.True(t, got.HasProblem(p2.ID))

	require.NoError(t, RemoveProblemFromContest(db, contest.ID, p1.ID))
	got, err = GetContest(db, contest.ID)
	require.NoError(t, err)
	require.Len(t, got.Problems, 1)
	assert.False(t, got.HasProblem(p1.ID))

	got.Name = "Round 1 (renamed)"
	require.NoError(t, UpdateContest(db, got))
	got, err = GetContest(db, contest.ID)
	require.NoError(t, err)
	assert.Equal(t, "Round 1 (renamed)", got.Name)
	assert.Len(t, got.Problems, 1)

	err = AddProblemToContest(db, contest.ID, 999)
	assert.True(t, errors.Is(err, gorm.ErrRecordNotFound))
}

func TestGetCurrentContest(t *testing.T) {
	db := newTestDB(t)
	now := time.Now()

	past := &models.Contest{Name: "past", TimeStart: now.Add(-3 * time.Hour), TimeEnd: now.Add(-2 * time.Hour)}
	running := &models.Contest{Name: "running", TimeStart: now.Add(-time.Hour), TimeEnd: now.Add(time.Hour)}
	future := &models.Contest{Name: "future", TimeStart: now.Add(time.Hour), TimeEnd: now.Add(2 * time.Hour)}
	for _, c := range []*models.Contest{past, running, future} {
		require.NoError(t, CreateContest(db, c))
	}

	got, err := GetCurrentContest(db, now)
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, running.ID, got.ID)

	got, err = GetCurrentContest(db, now.Add(10*time.Hour))
	require.NoError(t, err)
	assert.Nil(t, got)
}

func TestRecoverInterrupted(t *testing.T) {
	db := newTestDB(t)
	user := createUser(t, db, "carol")
	sub := &models.Submission{ID: uuid.NewString(), UserID: user.ID, ProblemID: 1, Status: models.StatusGrading}
	require.NoError(t, CreateSubmission(db, sub))

	n, err := RecoverInterrupted(db)
	require.NoError(t, err)
	assert.Equal(t, int64(1), n)

	got, err := GetSubmission(db, sub.ID)
	require.NoError(t, err)
	assert.Equal(t, models.StatusWaiting, got.Status)
}

func TestUpdateSubmissionResult(t *testing.T) {
	db := newTestDB(t)
	user := createUser(t, db, "dave")
	sub := &models.Submission{ID: uuid.NewString(), UserID: user.ID, ProblemID: 1, Status: models.StatusWaiting}
	require.NoError(t, CreateSubmission(db, sub))

	updated, err := UpdateSubmissionResult(db, sub.ID, models.StatusAccept, decimal.RequireFromString("87.5"), 1200)
	require.NoError(t, err)
	assert.Equal(t, models.StatusAccept, updated.Status)

	got, err := GetSubmission(db, sub.ID)
	require.NoError(t, err)
	assert.Equal(t, "87.5", got.Score.String())
	assert.Equal(t, int64(1200), got.TimeUsed)
	assert.Equal(t, "dave", got.User.Username)

	_, err = UpdateSubmissionResult(db, "missing", models.StatusAccept, decimal.Zero, 0)
	assert.True(t, errors.Is(err, gorm.ErrRecordNotFound))
}

func TestGetAllSubmissionsFiltersByStatus(t *testing.T) {
	db := newTestDB(t)
	user := createUser(t, db, "erin")
	for _, status := range []models.Status{models.StatusWaiting, models.StatusAccept, models.StatusWaiting} {
		sub := &models.Submission{ID: uuid.NewString(), UserID: user.ID, ProblemID: 1, Status: status}
		require.NoError(t, CreateSubmission(db, sub))
	}

	all, err := GetAllSubmissions(db, "")
	require.NoError(t, err)
	assert.Len(t, all, 3)

	waiting, err := GetAllSubmissions(db, models.StatusWaiting)
	require.NoError(t, err)
	assert.Len(t, waiting, 2)
	assert.Equal(t, "erin", waiting[0].User.Username)
}

func TestGetAllUsersSearch(t *testing.T) {
	db := newTestDB(t)
	alice := createUser(t, db, "alice")
	createUser(t, db, "bob")

	all, err := GetAllUsers(db, "")
	require.NoError(t, err)
	assert.Len(t, all, 2)

	found, err := GetAllUsers(db, "lic")
	require.NoError(t, err)
	require.Len(t, found, 1)
	assert.Equal(t, alice.ID, found[0].ID)

	found, err = GetAllUsers(db, alice.ID)
	require.NoError(t, err)
	assert.Len(t, found, 1)
}

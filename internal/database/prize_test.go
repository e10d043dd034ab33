package database

import (
	"testing"

	"github.com/otog-org/otog-server/internal/database/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func winnerIDs(winners []PrizeWinner) []string {
	ids := make([]string, 0, len(winners))
	for _, w := range winners {
		ids = append(ids, w.SubmissionID)
	}
	return ids
}

func TestGetContestPrizes(t *testing.T) {
	f := newScoreboardFixture(t)
	c := &models.Problem{Name: "C", Score: 100}
	require.NoError(t, CreateProblem(f.db, c))
	require.NoError(t, AddProblemToContest(f.db, f.contest.ID, c.ID))
	alice := createUser(t, f.db, "alice")
	bob := createUser(t, f.db, "bob")
	carol := createUser(t, f.db, "carol")
	a, b := f.problems[0].ID, f.problems[1].ID

	f.submit(t, bob, a, models.StatusReject, "30", 100)
	aliceA := f.submit(t, alice, a, models.StatusAccept, "100", 300)
	bobA := f.submit(t, bob, a, models.StatusAccept, "100", 200)
	carolA := f.submit(t, carol, a, models.StatusAccept, "100", 200) // same time, later
	carolB := f.submit(t, carol, b, models.StatusAccept, "100", 50)
	carolB2 := f.submit(t, carol, b, models.StatusAccept, "100", 10)
	f.submit(t, alice, b, models.StatusWaiting, "0", 0)
	f.submit(t, alice, c.ID, models.StatusReject, "60", 10)

	contest, err := GetContest(f.db, f.contest.ID)
	require.NoError(t, err)
	prizes, err := GetContestPrizes(f.db, contest)
	require.NoError(t, err)

	assert.Equal(t, []string{aliceA.ID, carolB.ID}, winnerIDs(prizes[PrizeFirstBlood]))
	assert.Equal(t, []string{bobA.ID, carolB2.ID}, winnerIDs(prizes[PrizeFasterThanLight]))
	assert.Equal(t, []string{aliceA.ID, carolA.ID, carolB.ID}, winnerIDs(prizes[PrizePassedInOne]))
	assert.Equal(t, []string{carolB.ID}, winnerIDs(prizes[PrizeOneManSolve]))

	first := prizes[PrizeFirstBlood][0]
	assert.Equal(t, a, first.ProblemID)
	assert.Equal(t, alice.ID, first.UserID)
	assert.Equal(t, "show alice", first.ShowName)
	assert.Equal(t, int64(300), first.TimeUsed)
}

func TestGetContestPrizesNoSubmissions(t *testing.T) {
	f := newScoreboardFixture(t)
	contest, err := GetContest(f.db, f.contest.ID)
	require.NoError(t, err)

	prizes, err := GetContestPrizes(f.db, contest)
	require.NoError(t, err)
	require.Len(t, prizes, len(PrizeKinds))
	for _, kind := range PrizeKinds {
		assert.NotNil(t, prizes[kind])
		assert.Empty(t, prizes[kind])
	}
}

package database

import (
	"github.com/otog-org/otog-server/internal/database/models"
	"github.com/otog-org/otog-server/internal/scoreboard"
	"gorm.io/gorm"
)

var gradedStatuses = []models.Status{models.StatusAccept, models.StatusReject, models.StatusError}

// gradedContestSubmissions selects a contest's graded submissions in
// submission order. The inner join drops rows of users that no longer exist.
func gradedContestSubmissions(db *gorm.DB, contestID uint) *gorm.DB {
	return db.InnerJoins("User").
		Where("submissions.contest_id = ? AND submissions.status IN ?", contestID, gradedStatuses).
		Order("submissions.created_at asc, submissions.id asc")
}

// GetContestScoreboard builds a scoreboard snapshot for a contest. Each
// participant gets one submission per problem: the best graded score, with
// the earliest submission winning ties. Participants appear in order of their
// first graded submission.
func GetContestScoreboard(db *gorm.DB, contestID uint) (scoreboard.Snapshot, error) {
	contest, err := GetContest(db, contestID)
	if err != nil {
		return scoreboard.Snapshot{}, err
	}

	var subs []models.Submission
	if err := gradedContestSubmissions(db, contestID).Find(&subs).Error; err != nil {
		return scoreboard.Snapshot{}, err
	}

	snapshot := scoreboard.Snapshot{
		ContestID:    contest.ID,
		Name:         contest.Name,
		Problems:     make([]scoreboard.Problem, 0, len(contest.Problems)),
		Participants: make([]scoreboard.Participant, 0),
	}
	for _, p := range contest.Problems {
		snapshot.Problems = append(snapshot.Problems, scoreboard.Problem{ID: p.ID, Name: p.Name})
	}

	// user id -> index into snapshot.Participants
	index := make(map[string]int)
	// user id -> problem id -> index into that participant's submissions
	cells := make(map[string]map[uint]int)

	for _, sub := range subs {
		i, ok := index[sub.UserID]
		if !ok {
			i = len(snapshot.Participants)
			index[sub.UserID] = i
			cells[sub.UserID] = make(map[uint]int)
			snapshot.Participants = append(snapshot.Participants, scoreboard.Participant{
				ID:          sub.UserID,
				ShowName:    sub.User.ShowName,
				Submissions: []scoreboard.Submission{},
			})
		}
		participant := &snapshot.Participants[i]

		cell := scoreboard.Submission{
			ProblemID: sub.ProblemID,
			Score:     sub.Score,
			TimeUsed:  sub.TimeUsed,
		}
		j, seen := cells[sub.UserID][sub.ProblemID]
		if !seen {
			cells[sub.UserID][sub.ProblemID] = len(participant.Submissions)
			participant.Submissions = append(participant.Submissions, cell)
			continue
		}
		if sub.Score.GreaterThan(participant.Submissions[j].Score) {
			participant.Submissions[j] = cell
		}
	}

	return snapshot, nil
}

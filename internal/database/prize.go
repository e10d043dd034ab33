package database

import (
	"github.com/otog-org/otog-server/internal/database/models"
	"gorm.io/gorm"
)

type PrizeKind string

const (
	// PrizeFirstBlood goes to the first accepted submission of a problem.
	PrizeFirstBlood PrizeKind = "first_blood"
	// PrizeFasterThanLight goes to the accepted submission with the lowest
	// running time.
	PrizeFasterThanLight PrizeKind = "faster_than_light"
	// PrizePassedInOne goes to every user whose first attempt was accepted.
	PrizePassedInOne PrizeKind = "passed_in_one"
	// PrizeOneManSolve goes to the only user who solved a problem.
	PrizeOneManSolve PrizeKind = "one_man_solve"
)

var PrizeKinds = []PrizeKind{PrizeFirstBlood, PrizeFasterThanLight, PrizePassedInOne, PrizeOneManSolve}

type PrizeWinner struct {
	SubmissionID string `json:"submission_id"`
	ProblemID    uint   `json:"problem_id"`
	UserID       string `json:"user_id"`
	ShowName     string `json:"show_name"`
	TimeUsed     int64  `json:"time_used"`
}

// ContestPrizes lists the winners of each prize kind in contest problem order.
type ContestPrizes map[PrizeKind][]PrizeWinner

// GetContestPrizes awards prizes from the contest's graded submissions.
// Ties on running time go to the earlier submission.
func GetContestPrizes(db *gorm.DB, contest *models.Contest) (ContestPrizes, error) {
	var subs []models.Submission
	if err := gradedContestSubmissions(db, contest.ID).Find(&subs).Error; err != nil {
		return nil, err
	}
	return awardPrizes(contest.Problems, subs), nil
}

func awardPrizes(problems []models.Problem, subs []models.Submission) ContestPrizes {
	type attempt struct {
		userID    string
		problemID uint
	}
	inContest := make(map[uint]bool, len(problems))
	for _, p := range problems {
		inContest[p.ID] = true
	}

	attempted := make(map[attempt]bool)
	solved := make(map[attempt]bool)
	firstBlood := make(map[uint]PrizeWinner)
	fastest := make(map[uint]PrizeWinner)
	passedInOne := make(map[uint][]PrizeWinner)
	// problem id -> each solver's first accepted submission
	solvers := make(map[uint][]PrizeWinner)

	for _, sub := range subs {
		if !inContest[sub.ProblemID] {
			continue
		}
		key := attempt{sub.UserID, sub.ProblemID}
		first := !attempted[key]
		attempted[key] = true
		if sub.Status != models.StatusAccept {
			continue
		}

		w := PrizeWinner{
			SubmissionID: sub.ID,
			ProblemID:    sub.ProblemID,
			UserID:       sub.UserID,
			ShowName:     sub.User.ShowName,
			TimeUsed:     sub.TimeUsed,
		}
		if first {
			passedInOne[sub.ProblemID] = append(passedInOne[sub.ProblemID], w)
		}
		if !solved[key] {
			solved[key] = true
			solvers[sub.ProblemID] = append(solvers[sub.ProblemID], w)
		}
		if _, ok := firstBlood[sub.ProblemID]; !ok {
			firstBlood[sub.ProblemID] = w
		}
		if f, ok := fastest[sub.ProblemID]; !ok || w.TimeUsed < f.TimeUsed {
			fastest[sub.ProblemID] = w
		}
	}

	prizes := make(ContestPrizes, len(PrizeKinds))
	for _, kind := range PrizeKinds {
		prizes[kind] = []PrizeWinner{}
	}
	for _, p := range problems {
		if w, ok := firstBlood[p.ID]; ok {
			prizes[PrizeFirstBlood] = append(prizes[PrizeFirstBlood], w)
		}
		if w, ok := fastest[p.ID]; ok {
			prizes[PrizeFasterThanLight] = append(prizes[PrizeFasterThanLight], w)
		}
		prizes[PrizePassedInOne] = append(prizes[PrizePassedInOne], passedInOne[p.ID]...)
		if len(solvers[p.ID]) == 1 {
			prizes[PrizeOneManSolve] = append(prizes[PrizeOneManSolve], solvers[p.ID][0])
		}
	}
	return prizes
}

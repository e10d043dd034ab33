// Package scoreboard computes contest rankings from an immutable snapshot of
// participants and their graded submissions.
package scoreboard

import (
	"slices"
	"sort"

	"github.com/shopspring/decimal"
)

// Problem labels a scoreboard column.
type Problem struct {
	ID   uint   `json:"id" yaml:"id"`
	Name string `json:"name" yaml:"name"`
}

// Submission is a participant's graded result for one problem.
// TimeUsed is in milliseconds.
type Submission struct {
	ProblemID uint            `json:"problem_id" yaml:"problem_id"`
	Score     decimal.Decimal `json:"score" yaml:"score"`
	TimeUsed  int64           `json:"time_used" yaml:"time_used"`
}

type Participant struct {
	ID          string       `json:"id" yaml:"id"`
	ShowName    string       `json:"show_name" yaml:"show_name"`
	Submissions []Submission `json:"submissions" yaml:"submissions"`
}

// ScoreFor returns the score of the submission for problemID, or zero if the
// participant has none.
func (p Participant) ScoreFor(problemID uint) decimal.Decimal {
	for _, s := range p.Submissions {
		if s.ProblemID == problemID {
			return s.Score
		}
	}
	return decimal.Zero
}

type RankedParticipant struct {
	Participant
	TotalScore decimal.Decimal `json:"total_score"`
	TimeTotal  int64           `json:"time_total"`
	Rank       int             `json:"rank"`
}

// TotalScore sums the scores of all submissions without rounding.
func TotalScore(p Participant) decimal.Decimal {
	total := decimal.Zero
	for _, s := range p.Submissions {
		total = total.Add(s.Score)
	}
	return total
}

// TimeTotal sums TimeUsed over all submissions, in the same unit.
func TimeTotal(p Participant) int64 {
	var total int64
	for _, s := range p.Submissions {
		total += s.TimeUsed
	}
	return total
}

// Rank orders participants by total score, highest first, and assigns
// competition ranks: tied totals share a rank and the next distinct total is
// ranked by its 1-based position, so [50, 50, 30] ranks as [1, 1, 3].
// Participants with equal totals keep their input order. The input is not
// modified.
func Rank(participants []Participant) []RankedParticipant {
	ranked := make([]RankedParticipant, len(participants))
	for i, p := range participants {
		p.Submissions = slices.Clone(p.Submissions)
		ranked[i] = RankedParticipant{
			Participant: p,
			TotalScore:  TotalScore(p),
			TimeTotal:   TimeTotal(p),
		}
	}

	sort.SliceStable(ranked, func(i, j int) bool {
		return ranked[i].TotalScore.GreaterThan(ranked[j].TotalScore)
	})

	for i := range ranked {
		if i > 0 && ranked[i].TotalScore.Equal(ranked[i-1].TotalScore) {
			ranked[i].Rank = ranked[i-1].Rank
			continue
		}
		ranked[i].Rank = i + 1
	}
	return ranked
}

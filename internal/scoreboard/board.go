package scoreboard

import (
	"fmt"
	"os"

	"github.com/shopspring/decimal"
	"gopkg.in/yaml.v3"
)

// Snapshot is a point-in-time copy of a contest's scoreboard data.
type Snapshot struct {
	ContestID    uint          `json:"contest_id" yaml:"contest_id"`
	Name         string        `json:"name" yaml:"name"`
	Problems     []Problem     `json:"problems" yaml:"problems"`
	Participants []Participant `json:"participants" yaml:"participants"`
}

type Row struct {
	RankedParticipant
	// Scores holds one cell per board problem, in problem order. Only set on
	// detailed boards.
	Scores []decimal.Decimal `json:"scores,omitempty"`
}

// Board is the ranked view of a snapshot.
type Board struct {
	ContestID uint      `json:"contest_id"`
	Name      string    `json:"name"`
	Detailed  bool      `json:"detailed"`
	Problems  []Problem `json:"problems"`
	Rows      []Row     `json:"rows"`
}

// Build ranks the snapshot's participants. When detailed is set, every row
// also carries a score cell for each problem of the snapshot.
func Build(s Snapshot, detailed bool) Board {
	ranked := Rank(s.Participants)

	board := Board{
		ContestID: s.ContestID,
		Name:      s.Name,
		Detailed:  detailed,
		Problems:  copyProblems(s.Problems),
		Rows:      make([]Row, len(ranked)),
	}
	for i, rp := range ranked {
		row := Row{RankedParticipant: rp}
		if detailed {
			row.Scores = make([]decimal.Decimal, len(s.Problems))
			for j, problem := range s.Problems {
				row.Scores[j] = rp.ScoreFor(problem.ID)
			}
		}
		board.Rows[i] = row
	}
	return board
}

func copyProblems(problems []Problem) []Problem {
	return append([]Problem{}, problems...)
}

// LoadSnapshot reads a snapshot from a YAML file. JSON files are accepted too,
// since the YAML decoder reads JSON documents.
func LoadSnapshot(path string) (Snapshot, error) {
	var s Snapshot
	data, err := os.ReadFile(path)
	if err != nil {
		return s, err
	}
	if err := yaml.Unmarshal(data, &s); err != nil {
		return s, fmt.Errorf("failed to parse snapshot %s: %w", path, err)
	}
	return s, nil
}

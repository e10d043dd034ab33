// Package cache keeps recently built scoreboard snapshots so that scoreboard
// reads do not hit the database on every request.
package cache

import (
	"context"
	"strconv"

	"github.com/otog-org/otog-server/internal/scoreboard"
)

// Loader builds a fresh snapshot for a contest, typically from the database.
type Loader func(ctx context.Context, contestID uint) (scoreboard.Snapshot, error)

type Store interface {
	Get(ctx context.Context, contestID uint) (scoreboard.Snapshot, error)
	Invalidate(ctx context.Context, contestID uint) error
}

func flightKey(contestID uint) string {
	return strconv.FormatUint(uint64(contestID), 10)
}

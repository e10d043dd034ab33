package api

import (
	"context"

	"github.com/otog-org/otog-server/internal/cache"
	"github.com/otog-org/otog-server/internal/pubsub"
	"github.com/otog-org/otog-server/internal/scoreboard"
	"go.uber.org/zap"
)

// Boards serves ranked scoreboards from the snapshot cache and pushes fresh
// boards to websocket subscribers. It is shared by the user and admin routers.
type Boards struct {
	store  cache.Store
	broker *pubsub.Broker
}

func NewBoards(store cache.Store, broker *pubsub.Broker) *Boards {
	return &Boards{store: store, broker: broker}
}

func (b *Boards) Broker() *pubsub.Broker {
	return b.broker
}

func (b *Boards) Snapshot(ctx context.Context, contestID uint) (scoreboard.Snapshot, error) {
	return b.store.Get(ctx, contestID)
}

func (b *Boards) Board(ctx context.Context, contestID uint, detailed bool) (scoreboard.Board, error) {
	snapshot, err := b.store.Get(ctx, contestID)
	if err != nil {
		return scoreboard.Board{}, err
	}
	return scoreboard.Build(snapshot, detailed), nil
}

// Refresh drops the cached snapshot of a contest, rebuilds its detailed board
// and publishes it on the contest's scoreboard topic.
func (b *Boards) Refresh(ctx context.Context, contestID uint) error {
	if err := b.store.Invalidate(ctx, contestID); err != nil {
		zap.S().Warnf("failed to invalidate scoreboard cache for contest %d: %v", contestID, err)
	}
	board, err := b.Board(ctx, contestID, true)
	if err != nil {
		return err
	}
	b.broker.Publish(pubsub.ScoreboardTopic(contestID), pubsub.FormatMessage("scoreboard", board))
	zap.S().Debugf("published scoreboard for contest %d (%d rows)", contestID, len(board.Rows))
	return nil
}

// RefreshContests refreshes every listed contest, logging failures.
func (b *Boards) RefreshContests(ctx context.Context, contestIDs []uint) {
	for _, id := range contestIDs {
		if err := b.Refresh(ctx, id); err != nil {
			zap.S().Warnf("failed to refresh scoreboard for contest %d: %v", id, err)
		}
	}
}

package user

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"github.com/otog-org/otog-server/internal/database"
	"github.com/otog-org/otog-server/internal/pubsub"
	"github.com/otog-org/otog-server/internal/util"
	"go.uber.org/zap"
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin: func(r *http.Request) bool {
		return true
	},
}

// handleScoreboardWs streams the contest's detailed ranked board. The client
// gets the current board right away and a fresh one after every graded
// submission.
func (h *Handler) handleScoreboardWs(c *gin.Context) {
	contestID, err := util.ParamID(c, "id")
	if err != nil {
		c.String(http.StatusBadRequest, err.Error())
		return
	}
	if _, err := database.GetContest(h.db, contestID); err != nil {
		c.String(http.StatusNotFound, "contest not found")
		return
	}

	conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		zap.S().Errorf("failed to upgrade websocket: %v", err)
		return
	}
	defer conn.Close()

	msgChan, unsubscribe := h.boards.Broker().Subscribe(pubsub.ScoreboardTopic(contestID))
	defer unsubscribe()

	// A replayed message is already the latest board; otherwise build one.
	select {
	case msg, ok := <-msgChan:
		if !ok {
			return
		}
		if err := conn.WriteMessage(websocket.TextMessage, msg); err != nil {
			return
		}
	default:
		board, err := h.boards.Board(c.Request.Context(), contestID, true)
		if err != nil {
			conn.WriteMessage(websocket.TextMessage, pubsub.FormatMessage("error", "failed to load scoreboard"))
			zap.S().Errorf("failed to build scoreboard for contest %d: %v", contestID, err)
			return
		}
		if err := conn.WriteMessage(websocket.TextMessage, pubsub.FormatMessage("scoreboard", board)); err != nil {
			return
		}
	}

	clientClosed := make(chan struct{})
	go func() {
		defer close(clientClosed)
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
					zap.S().Infof("websocket unexpected close error: %v", err)
				}
				return
			}
		}
	}()

	for {
		select {
		case msg, ok := <-msgChan:
			if !ok {
				return
			}
			if err := conn.WriteMessage(websocket.TextMessage, msg); err != nil {
				zap.S().Warnf("error writing to websocket: %v", err)
				return
			}
		case <-clientClosed:
			zap.S().Debugf("scoreboard websocket closed for contest %d", contestID)
			return
		}
	}
}

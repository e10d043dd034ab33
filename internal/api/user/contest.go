package user

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/otog-org/otog-server/internal/database"
	"github.com/otog-org/otog-server/internal/database/models"
	"github.com/otog-org/otog-server/internal/util"
)

// hideUnstarted returns a copy of the contest without its problem list when it
// has not started yet.
func hideUnstarted(contest models.Contest, now time.Time) models.Contest {
	if now.Before(contest.TimeStart) {
		contest.Problems = []models.Problem{}
	}
	return contest
}

func (h *Handler) getAllContests(c *gin.Context) {
	contests, err := database.GetAllContests(h.db)
	if err != nil {
		util.Error(c, http.StatusInternalServerError, err)
		return
	}
	now := time.Now()
	for i := range contests {
		contests[i] = hideUnstarted(contests[i], now)
	}
	util.Success(c, contests, "Contests loaded")
}

func (h *Handler) getCurrentContest(c *gin.Context) {
	contest, err := database.GetCurrentContest(h.db, time.Now())
	if err != nil {
		util.Error(c, http.StatusInternalServerError, err)
		return
	}
	if contest == nil {
		util.Success(c, nil, "No contest is running")
		return
	}
	util.Success(c, contest, "Contest found")
}

func (h *Handler) getContest(c *gin.Context) {
	contestID, err := util.ParamID(c, "id")
	if err != nil {
		util.Error(c, http.StatusBadRequest, err)
		return
	}
	contest, err := database.GetContest(h.db, contestID)
	if err != nil {
		util.DBError(c, err, "contest")
		return
	}

	if time.Now().Before(contest.TimeStart) {
		util.Success(c, hideUnstarted(*contest, time.Now()), "Contest found, but is not currently active")
		return
	}
	util.Success(c, contest, "Contest found")
}

// getContestScoreboard returns the raw snapshot: problems plus each
// participant's best submissions, without ranking.
func (h *Handler) getContestScoreboard(c *gin.Context) {
	contestID, err := util.ParamID(c, "id")
	if err != nil {
		util.Error(c, http.StatusBadRequest, err)
		return
	}
	snapshot, err := h.boards.Snapshot(c.Request.Context(), contestID)
	if err != nil {
		util.DBError(c, err, "contest")
		return
	}
	util.Success(c, snapshot, "Scoreboard retrieved")
}

func (h *Handler) getContestRanking(c *gin.Context) {
	contestID, err := util.ParamID(c, "id")
	if err != nil {
		util.Error(c, http.StatusBadRequest, err)
		return
	}
	detailed, _ := strconv.ParseBool(c.DefaultQuery("detail", "false"))

	board, err := h.boards.Board(c.Request.Context(), contestID, detailed)
	if err != nil {
		util.DBError(c, err, "contest")
		return
	}
	util.Success(c, board, "Ranking retrieved")
}

// getContestPrizes announces the prize winners once the contest has ended.
func (h *Handler) getContestPrizes(c *gin.Context) {
	contestID, err := util.ParamID(c, "id")
	if err != nil {
		util.Error(c, http.StatusBadRequest, err)
		return
	}
	contest, err := database.GetContest(h.db, contestID)
	if err != nil {
		util.DBError(c, err, "contest")
		return
	}
	if time.Now().Before(contest.TimeEnd) {
		util.Error(c, http.StatusForbidden, "prizes are announced after the contest ends")
		return
	}
	prizes, err := database.GetContestPrizes(h.db, contest)
	if err != nil {
		util.Error(c, http.StatusInternalServerError, err)
		return
	}
	util.Success(c, prizes, "Prizes awarded")
}

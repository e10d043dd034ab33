package admin

import (
	"context"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/otog-org/otog-server/internal/database"
	"github.com/otog-org/otog-server/internal/database/models"
	"github.com/otog-org/otog-server/internal/util"
	"go.uber.org/zap"
)

type contestRequest struct {
	Name        string             `json:"name" binding:"required"`
	Mode        models.ContestMode `json:"mode"`
	GradingMode models.GradingMode `json:"grading_mode"`
	TimeStart   time.Time          `json:"time_start" binding:"required"`
	TimeEnd     time.Time          `json:"time_end" binding:"required"`
}

func (r *contestRequest) validate() error {
	if r.Mode == "" {
		r.Mode = models.ModeRated
	}
	if r.GradingMode == "" {
		r.GradingMode = models.GradingClassic
	}
	if r.Mode != models.ModeRated && r.Mode != models.ModeUnrated {
		return fmt.Errorf("invalid contest mode %q", r.Mode)
	}
	if r.GradingMode != models.GradingACM && r.GradingMode != models.GradingClassic {
		return fmt.Errorf("invalid grading mode %q", r.GradingMode)
	}
	if !r.TimeEnd.After(r.TimeStart) {
		return fmt.Errorf("time_end must be after time_start")
	}
	return nil
}

func (r *contestRequest) apply(contest *models.Contest) {
	contest.Name = r.Name
	contest.Mode = r.Mode
	contest.GradingMode = r.GradingMode
	contest.TimeStart = r.TimeStart
	contest.TimeEnd = r.TimeEnd
}

// refreshBoard republishes a contest's board after an admin change. Failures
// only cost subscribers one push, so they are logged.
func (h *Handler) refreshBoard(ctx context.Context, contestID uint) {
	h.boards.RefreshContests(ctx, []uint{contestID})
}

// getAllContests returns every contest with its problems, regardless of start time.
func (h *Handler) getAllContests(c *gin.Context) {
	contests, err := database.GetAllContests(h.db)
	if err != nil {
		util.Error(c, http.StatusInternalServerError, err)
		return
	}
	util.Success(c, contests, "All contests retrieved")
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
	util.Success(c, contest, "Contest details retrieved")
}

func (h *Handler) createContest(c *gin.Context) {
	var req contestRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		util.Error(c, http.StatusBadRequest, err)
		return
	}
	if err := req.validate(); err != nil {
		util.Error(c, http.StatusBadRequest, err)
		return
	}

	var contest models.Contest
	req.apply(&contest)
	if err := database.CreateContest(h.db, &contest); err != nil {
		util.Error(c, http.StatusInternalServerError, err)
		return
	}

	zap.S().Infof("admin created contest %d (%s)", contest.ID, contest.Name)
	util.Success(c, contest, "Contest created successfully")
}

func (h *Handler) updateContest(c *gin.Context) {
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

	var req contestRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		util.Error(c, http.StatusBadRequest, err)
		return
	}
	if err := req.validate(); err != nil {
		util.Error(c, http.StatusBadRequest, err)
		return
	}

	req.apply(contest)
	if err := database.UpdateContest(h.db, contest); err != nil {
		util.Error(c, http.StatusInternalServerError, err)
		return
	}
	h.refreshBoard(c.Request.Context(), contest.ID)

	zap.S().Infof("admin updated contest %d", contest.ID)
	util.Success(c, contest, "Contest updated successfully")
}

func (h *Handler) contestProblemParams(c *gin.Context) (uint, uint, bool) {
	contestID, err := util.ParamID(c, "id")
	if err != nil {
		util.Error(c, http.StatusBadRequest, err)
		return 0, 0, false
	}
	problemID, err := util.ParamID(c, "problemId")
	if err != nil {
		util.Error(c, http.StatusBadRequest, err)
		return 0, 0, false
	}
	if _, err := database.GetContest(h.db, contestID); err != nil {
		util.DBError(c, err, "contest")
		return 0, 0, false
	}
	return contestID, problemID, true
}

func (h *Handler) addProblemToContest(c *gin.Context) {
	contestID, problemID, ok := h.contestProblemParams(c)
	if !ok {
		return
	}
	if err := database.AddProblemToContest(h.db, contestID, problemID); err != nil {
		util.DBError(c, err, "problem")
		return
	}
	h.refreshBoard(c.Request.Context(), contestID)

	contest, err := database.GetContest(h.db, contestID)
	if err != nil {
		util.DBError(c, err, "contest")
		return
	}
	util.Success(c, contest, "Problem added to contest")
}

func (h *Handler) removeProblemFromContest(c *gin.Context) {
	contestID, problemID, ok := h.contestProblemParams(c)
	if !ok {
		return
	}
	if err := database.RemoveProblemFromContest(h.db, contestID, problemID); err != nil {
		util.Error(c, http.StatusInternalServerError, err)
		return
	}
	h.refreshBoard(c.Request.Context(), contestID)

	contest, err := database.GetContest(h.db, contestID)
	if err != nil {
		util.DBError(c, err, "contest")
		return
	}
	util.Success(c, contest, "Problem removed from contest")
}

// getContestRanking returns the ranked board. Admins get per-problem scores
// unless detail=false is passed.
func (h *Handler) getContestRanking(c *gin.Context) {
	contestID, err := util.ParamID(c, "id")
	if err != nil {
		util.Error(c, http.StatusBadRequest, err)
		return
	}
	detailed, err := strconv.ParseBool(c.DefaultQuery("detail", "true"))
	if err != nil {
		util.Error(c, http.StatusBadRequest, "detail must be a boolean")
		return
	}

	board, err := h.boards.Board(c.Request.Context(), contestID, detailed)
	if err != nil {
		util.DBError(c, err, "contest")
		return
	}
	util.Success(c, board, "Ranking retrieved")
}

package admin

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/otog-org/otog-server/internal/database"
	"github.com/otog-org/otog-server/internal/database/models"
	"github.com/otog-org/otog-server/internal/util"
	"go.uber.org/zap"
)

type problemRequest struct {
	Name        string `json:"name" binding:"required"`
	Score       int    `json:"score" binding:"min=0"`
	TimeLimit   int    `json:"time_limit" binding:"min=0"`
	MemoryLimit int    `json:"memory_limit" binding:"min=0"`
	Show        bool   `json:"show"`
}

func (r *problemRequest) apply(problem *models.Problem) {
	problem.Name = r.Name
	problem.Score = r.Score
	problem.TimeLimit = r.TimeLimit
	problem.MemoryLimit = r.MemoryLimit
	problem.Show = r.Show
}

// getAllProblems returns every problem, published or not.
func (h *Handler) getAllProblems(c *gin.Context) {
	problems, err := database.GetAllProblems(h.db)
	if err != nil {
		util.Error(c, http.StatusInternalServerError, err)
		return
	}
	util.Success(c, problems, "All problems retrieved")
}

func (h *Handler) getProblem(c *gin.Context) {
	problemID, err := util.ParamID(c, "id")
	if err != nil {
		util.Error(c, http.StatusBadRequest, err)
		return
	}
	problem, err := database.GetProblem(h.db, problemID)
	if err != nil {
		util.DBError(c, err, "problem")
		return
	}
	util.Success(c, problem, "Problem definition retrieved")
}

func (h *Handler) createProblem(c *gin.Context) {
	var req problemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		util.Error(c, http.StatusBadRequest, err)
		return
	}

	var problem models.Problem
	req.apply(&problem)
	if err := database.CreateProblem(h.db, &problem); err != nil {
		util.Error(c, http.StatusInternalServerError, err)
		return
	}
	zap.S().Infof("admin created problem %d (%s)", problem.ID, problem.Name)
	util.Success(c, problem, "Problem created successfully")
}

func (h *Handler) updateProblem(c *gin.Context) {
	problemID, err := util.ParamID(c, "id")
	if err != nil {
		util.Error(c, http.StatusBadRequest, err)
		return
	}
	problem, err := database.GetProblem(h.db, problemID)
	if err != nil {
		util.DBError(c, err, "problem")
		return
	}

	var req problemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		util.Error(c, http.StatusBadRequest, err)
		return
	}
	req.apply(problem)
	if err := database.UpdateProblem(h.db, problem); err != nil {
		util.Error(c, http.StatusInternalServerError, err)
		return
	}
	contestIDs, err := database.GetProblemContestIDs(h.db, problem.ID)
	if err != nil {
		zap.S().Warnf("failed to list contests of problem %d: %v", problem.ID, err)
	}
	h.boards.RefreshContests(c.Request.Context(), contestIDs)
	util.Success(c, problem, "Problem updated successfully")
}

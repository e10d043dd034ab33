package admin

import (
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/otog-org/otog-server/internal/database"
	"github.com/otog-org/otog-server/internal/database/models"
	"github.com/otog-org/otog-server/internal/util"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

func (h *Handler) getAllSubmissions(c *gin.Context) {
	status := models.Status(c.Query("status"))
	if status != "" && !status.Valid() {
		util.Error(c, http.StatusBadRequest, fmt.Sprintf("unknown status %q", status))
		return
	}
	subs, err := database.GetAllSubmissions(h.db, status)
	if err != nil {
		util.Error(c, http.StatusInternalServerError, err)
		return
	}
	util.Success(c, subs, "ok")
}

// getSubmission returns the submission together with its source code.
func (h *Handler) getSubmission(c *gin.Context) {
	sub, err := database.GetSubmission(h.db, c.Param("id"))
	if err != nil {
		util.DBError(c, err, "submission")
		return
	}
	util.Success(c, gin.H{"submission": sub, "source_code": sub.SourceCode}, "ok")
}

// updateSubmissionResult is called by the grader. Once a contest submission
// is graded the contest's board is rebuilt and pushed to subscribers.
func (h *Handler) updateSubmissionResult(c *gin.Context) {
	var req struct {
		Status   models.Status    `json:"status" binding:"required"`
		Score    *decimal.Decimal `json:"score"`
		TimeUsed int64            `json:"time_used" binding:"min=0"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		util.Error(c, http.StatusBadRequest, err)
		return
	}
	if !req.Status.Valid() {
		util.Error(c, http.StatusBadRequest, fmt.Sprintf("unknown status %q", req.Status))
		return
	}
	score := decimal.Zero
	if req.Score != nil {
		score = *req.Score
	}
	if score.IsNegative() {
		util.Error(c, http.StatusBadRequest, "score must not be negative")
		return
	}

	sub, err := database.UpdateSubmissionResult(h.db, c.Param("id"), req.Status, score, req.TimeUsed)
	if err != nil {
		util.DBError(c, err, "submission")
		return
	}
	zap.S().Infof("submission %s graded: %s, score %s, %d ms", sub.ID, sub.Status, sub.Score, sub.TimeUsed)

	if sub.ContestID != nil {
		h.refreshBoard(c.Request.Context(), *sub.ContestID)
	}
	util.Success(c, sub, "Submission result recorded")
}

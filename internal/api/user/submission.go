package user

import (
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/otog-org/otog-server/internal/database"
	"github.com/otog-org/otog-server/internal/database/models"
	"github.com/otog-org/otog-server/internal/util"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

var languages = map[string]bool{
	"c":      true,
	"cpp":    true,
	"python": true,
}

func (h *Handler) submitToProblem(c *gin.Context) {
	userID := c.GetString("userID")
	problemID, err := util.ParamID(c, "id")
	if err != nil {
		util.Error(c, http.StatusBadRequest, err)
		return
	}

	user, err := database.GetUserByID(h.db, userID)
	if err != nil {
		util.DBError(c, err, "user")
		return
	}
	problem, err := database.GetProblem(h.db, problemID)
	if err != nil {
		util.DBError(c, err, "problem")
		return
	}

	now := time.Now()
	visible, err := h.problemVisible(problem, now)
	if err != nil {
		util.Error(c, http.StatusInternalServerError, err)
		return
	}
	if !visible {
		util.Error(c, http.StatusForbidden, fmt.Errorf("problem is not available yet"))
		return
	}

	language := c.PostForm("language")
	if !languages[language] {
		util.Error(c, http.StatusBadRequest, fmt.Sprintf("unsupported language: %q", language))
		return
	}

	fileHeader, err := c.FormFile("sourceCode")
	if err != nil {
		util.Error(c, http.StatusBadRequest, fmt.Errorf("sourceCode file is required: %w", err))
		return
	}
	if limit := h.cfg.Storage.SourceMaxSize; limit > 0 && fileHeader.Size > limit {
		util.Error(c, http.StatusRequestEntityTooLarge, fmt.Sprintf("source code exceeds %d bytes", limit))
		return
	}
	file, err := fileHeader.Open()
	if err != nil {
		util.Error(c, http.StatusBadRequest, err)
		return
	}
	defer file.Close()
	source, err := io.ReadAll(file)
	if err != nil {
		util.Error(c, http.StatusBadRequest, err)
		return
	}

	sub := models.Submission{
		ID:         uuid.New().String(),
		UserID:     user.ID,
		ProblemID:  problem.ID,
		Language:   language,
		SourceCode: string(source),
		Status:     models.StatusWaiting,
		Score:      decimal.Zero,
	}

	// Only submissions made while the contest runs count towards its scoreboard.
	current, err := database.GetCurrentContest(h.db, now)
	if err != nil {
		util.Error(c, http.StatusInternalServerError, err)
		return
	}
	if current != nil && current.HasProblem(problem.ID) {
		contestID := current.ID
		sub.ContestID = &contestID
	}

	if err := database.CreateSubmission(h.db, &sub); err != nil {
		util.Error(c, http.StatusInternalServerError, fmt.Errorf("failed to create submission record: %w", err))
		return
	}

	zap.S().Infof("user %s submitted %s for problem %d", user.Username, sub.ID, problem.ID)
	util.Success(c, gin.H{"submission_id": sub.ID, "contest_id": sub.ContestID}, "Submission received")
}

func (h *Handler) getUserSubmissions(c *gin.Context) {
	userID := c.GetString("userID")
	user, err := database.GetUserByID(h.db, userID)
	if err != nil {
		util.DBError(c, err, "user")
		return
	}
	subs, err := database.GetSubmissionsByUserID(h.db, user.ID)
	if err != nil {
		util.Error(c, http.StatusInternalServerError, err)
		return
	}
	util.Success(c, subs, "ok")
}

func (h *Handler) getUserSubmission(c *gin.Context) {
	subID := c.Param("id")
	userID := c.GetString("userID")
	sub, err := database.GetSubmission(h.db, subID)
	if err != nil {
		util.DBError(c, err, "submission")
		return
	}
	if sub.UserID != userID {
		util.Error(c, http.StatusForbidden, fmt.Errorf("you can only view your own submissions"))
		return
	}
	util.Success(c, gin.H{"submission": sub, "source_code": sub.SourceCode}, "ok")
}

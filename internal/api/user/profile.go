package user

import (
	"context"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/otog-org/otog-server/internal/database"
	"github.com/otog-org/otog-server/internal/util"
	"go.uber.org/zap"
)

func (h *Handler) getUserProfile(c *gin.Context) {
	userID := c.GetString("userID")
	user, err := database.GetUserByID(h.db, userID)
	if err != nil {
		util.DBError(c, err, "user")
		return
	}
	util.Success(c, user, "ok")
}

func (h *Handler) updateUserProfile(c *gin.Context) {
	userID := c.GetString("userID")
	user, err := database.GetUserByID(h.db, userID)
	if err != nil {
		util.DBError(c, err, "user")
		return
	}
	var reqBody struct {
		ShowName string `json:"show_name" binding:"required"`
	}
	if err := c.ShouldBindJSON(&reqBody); err != nil {
		util.Error(c, http.StatusBadRequest, err)
		return
	}
	showName := strings.TrimSpace(reqBody.ShowName)
	if showName == "" {
		util.Error(c, http.StatusBadRequest, "show_name must not be blank")
		return
	}
	user.ShowName = showName
	if err := database.UpdateUser(h.db, user); err != nil {
		util.Error(c, http.StatusInternalServerError, err)
		return
	}
	h.refreshUserBoards(c.Request.Context(), user.ID)
	util.Success(c, user, "Profile updated")
}

// refreshUserBoards republishes the boards that show the user's name.
func (h *Handler) refreshUserBoards(ctx context.Context, userID string) {
	contestIDs, err := database.GetUserContestIDs(h.db, userID)
	if err != nil {
		zap.S().Warnf("failed to list contests of user %s: %v", userID, err)
		return
	}
	h.boards.RefreshContests(ctx, contestIDs)
}

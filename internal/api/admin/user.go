package admin

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/otog-org/otog-server/internal/auth"
	"github.com/otog-org/otog-server/internal/database"
	"github.com/otog-org/otog-server/internal/database/models"
	"github.com/otog-org/otog-server/internal/util"
	"go.uber.org/zap"
)

func validRole(role models.Role) bool {
	return role == models.RoleAdmin || role == models.RoleUser
}

func (h *Handler) getAllUsers(c *gin.Context) {
	users, err := database.GetAllUsers(h.db, c.Query("query"))
	if err != nil {
		util.Error(c, http.StatusInternalServerError, err)
		return
	}

	util.Success(c, users, "Users retrieved successfully")
}

func (h *Handler) getUser(c *gin.Context) {
	user, err := database.GetUserByID(h.db, c.Param("id"))
	if err != nil {
		util.DBError(c, err, "user")
		return
	}
	util.Success(c, user, "User retrieved successfully")
}

func (h *Handler) createUser(c *gin.Context) {
	var req struct {
		Username string      `json:"username" binding:"required"`
		Password string      `json:"password" binding:"required"`
		ShowName string      `json:"show_name"`
		Role     models.Role `json:"role"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		util.Error(c, http.StatusBadRequest, err)
		return
	}
	if req.Role == "" {
		req.Role = models.RoleUser
	}
	if !validRole(req.Role) {
		util.Error(c, http.StatusBadRequest, "role must be admin or user")
		return
	}

	hashedPassword, err := auth.HashPassword(req.Password)
	if err != nil {
		util.Error(c, http.StatusInternalServerError, "failed to hash password")
		return
	}
	user := models.User{
		ID:           uuid.NewString(),
		Username:     req.Username,
		PasswordHash: hashedPassword,
		ShowName:     req.ShowName,
		Role:         req.Role,
	}
	if user.ShowName == "" {
		user.ShowName = user.Username
	}

	if err := database.CreateUser(h.db, &user); err != nil {
		if errors.Is(err, database.ErrAlreadyExists) {
			util.Error(c, http.StatusConflict, err)
			return
		}
		util.Error(c, http.StatusInternalServerError, err)
		return
	}
	zap.S().Infof("admin created user %s (%s)", user.Username, user.Role)
	util.Success(c, user, "User created successfully")
}

func (h *Handler) updateUser(c *gin.Context) {
	user, err := database.GetUserByID(h.db, c.Param("id"))
	if err != nil {
		util.DBError(c, err, "user")
		return
	}

	var reqBody struct {
		ShowName *string      `json:"show_name"`
		Role     *models.Role `json:"role"`
		Password *string      `json:"password"`
	}
	if err := c.ShouldBindJSON(&reqBody); err != nil {
		util.Error(c, http.StatusBadRequest, err)
		return
	}

	if reqBody.ShowName != nil {
		user.ShowName = *reqBody.ShowName
	}
	if reqBody.Role != nil {
		if !validRole(*reqBody.Role) {
			util.Error(c, http.StatusBadRequest, "role must be admin or user")
			return
		}
		user.Role = *reqBody.Role
	}
	if reqBody.Password != nil {
		hashedPassword, err := auth.HashPassword(*reqBody.Password)
		if err != nil {
			util.Error(c, http.StatusInternalServerError, "failed to hash new password")
			return
		}
		user.PasswordHash = hashedPassword
		zap.S().Warnf("admin reset password for user %s (%s)", user.Username, user.ID)
	}

	if err := database.UpdateUser(h.db, user); err != nil {
		util.Error(c, http.StatusInternalServerError, err)
		return
	}
	if reqBody.ShowName != nil {
		contestIDs, err := database.GetUserContestIDs(h.db, user.ID)
		if err != nil {
			zap.S().Warnf("failed to list contests of user %s: %v", user.ID, err)
		}
		h.boards.RefreshContests(c.Request.Context(), contestIDs)
	}
	util.Success(c, user, "User updated successfully")
}

func (h *Handler) deleteUser(c *gin.Context) {
	userID := c.Param("id")
	if userID == c.GetString("userID") {
		util.Error(c, http.StatusBadRequest, "you cannot delete your own account")
		return
	}
	if _, err := database.GetUserByID(h.db, userID); err != nil {
		util.DBError(c, err, "user")
		return
	}
	contestIDs, err := database.DeleteUser(h.db, userID)
	if err != nil {
		util.Error(c, http.StatusInternalServerError, err)
		return
	}
	h.boards.RefreshContests(c.Request.Context(), contestIDs)
	zap.S().Infof("admin deleted user %s and their submissions", userID)
	util.Success(c, nil, "User deleted successfully")
}

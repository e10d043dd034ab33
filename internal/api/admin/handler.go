package admin

import (
	"github.com/otog-org/otog-server/internal/api"
	"github.com/otog-org/otog-server/internal/config"
	"gorm.io/gorm"
)

// Handler holds all dependencies for the admin API handlers.
type Handler struct {
	cfg    *config.Config
	db     *gorm.DB
	boards *api.Boards
}

// NewHandler creates a new admin handler with its dependencies.
func NewHandler(
	cfg *config.Config,
	db *gorm.DB,
	boards *api.Boards,
) *Handler {
	return &Handler{
		cfg:    cfg,
		db:     db,
		boards: boards,
	}
}

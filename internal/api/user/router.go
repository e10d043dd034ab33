package user

import (
	"github.com/gin-gonic/gin"
	"github.com/otog-org/otog-server/internal/api"
	"github.com/otog-org/otog-server/internal/config"
	"gorm.io/gorm"
)

// NewUserRouter creates and configures the user Gin engine.
func NewUserRouter(
	cfg *config.Config,
	db *gorm.DB,
	boards *api.Boards) *gin.Engine {

	r := gin.Default()

	r.Use(api.CORSMiddleware(cfg.CORS))

	h := NewHandler(cfg, db, boards)

	v1 := r.Group("/api/v1")
	{
		// Auth
		authGroup := v1.Group("/auth")
		{
			authGroup.GET("/status", h.getAuthStatus)

			// Local Username/Password Auth (if enabled)
			if cfg.Auth.Local.Enabled {
				authGroup.POST("/register", h.localRegister)
				authGroup.POST("/login", h.localLogin)
			}
		}

		// Scoreboard push
		v1.GET("/ws/contests/:id/scoreboard", h.handleScoreboardWs)

		// Publicly accessible info
		v1.GET("/contests", h.getAllContests)
		v1.GET("/contests/now", h.getCurrentContest)
		v1.GET("/contests/:id", h.getContest)
		v1.GET("/contests/:id/scoreboard", h.getContestScoreboard)
		v1.GET("/contests/:id/ranking", h.getContestRanking)
		v1.GET("/contests/:id/prize", h.getContestPrizes)
		v1.GET("/problems/:id", h.getProblem)

		// Authenticated routes
		authed := v1.Group("/")
		authed.Use(api.AuthMiddleware(cfg.Auth.JWT.Secret))
		{
			profile := authed.Group("/user")
			{
				profile.GET("/profile", h.getUserProfile)
				profile.PATCH("/profile", h.updateUserProfile)
			}

			submissions := authed.Group("/submissions")
			{
				submissions.GET("", h.getUserSubmissions)
				submissions.GET("/:id", h.getUserSubmission)
				submissions.POST("/problem/:id", h.submitToProblem)
			}
		}
	}

	return r
}

package admin

import (
	"github.com/gin-gonic/gin"
	"github.com/otog-org/otog-server/internal/api"
	"github.com/otog-org/otog-server/internal/config"
	"gorm.io/gorm"
)

// NewAdminRouter creates and configures the admin Gin engine. Every route
// requires a token belonging to an admin.
func NewAdminRouter(
	cfg *config.Config,
	db *gorm.DB,
	boards *api.Boards) *gin.Engine {

	r := gin.Default()

	r.Use(api.CORSMiddleware(cfg.CORS))

	h := NewHandler(cfg, db, boards)

	v1 := r.Group("/api/v1")
	v1.Use(api.AuthMiddleware(cfg.Auth.JWT.Secret), api.AdminMiddleware(db))
	{
		// User Management
		users := v1.Group("/users")
		{
			users.GET("", h.getAllUsers)
			users.POST("", h.createUser)
			users.GET("/:id", h.getUser)
			users.PATCH("/:id", h.updateUser)
			users.DELETE("/:id", h.deleteUser)
		}

		// Submission Management
		submissions := v1.Group("/submissions")
		{
			submissions.GET("", h.getAllSubmissions)
			submissions.GET("/:id", h.getSubmission)
			submissions.PATCH("/:id/result", h.updateSubmissionResult)
		}

		// Contest & Problem Management
		contests := v1.Group("/contests")
		{
			contests.GET("", h.getAllContests)
			contests.POST("", h.createContest)
			contests.GET("/:id", h.getContest)
			contests.PUT("/:id", h.updateContest)
			contests.GET("/:id/ranking", h.getContestRanking)
			contests.POST("/:id/problems/:problemId", h.addProblemToContest)
			contests.DELETE("/:id/problems/:problemId", h.removeProblemFromContest)
		}

		problems := v1.Group("/problems")
		{
			problems.GET("", h.getAllProblems)
			problems.POST("", h.createProblem)
			problems.GET("/:id", h.getProblem)
			problems.PUT("/:id", h.updateProblem)
		}
	}

	return r
}

package user

import (
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/otog-org/otog-server/internal/database"
	"github.com/otog-org/otog-server/internal/database/models"
	"github.com/otog-org/otog-server/internal/util"
)

// problemVisible reports whether regular users may see a problem: either it is
// published, or some contest containing it has already started.
func (h *Handler) problemVisible(problem *models.Problem, now time.Time) (bool, error) {
	if problem.Show {
		return true, nil
	}
	contests, err := database.GetAllContests(h.db)
	if err != nil {
		return false, err
	}
	for i := range contests {
		if contests[i].HasProblem(problem.ID) && !now.Before(contests[i].TimeStart) {
			return true, nil
		}
	}
	return false, nil
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

	visible, err := h.problemVisible(problem, time.Now())
	if err != nil {
		util.Error(c, http.StatusInternalServerError, err)
		return
	}
	if !visible {
		util.Error(c, http.StatusForbidden, fmt.Errorf("problem is not available yet"))
		return
	}
	util.Success(c, problem, "Problem found")
}

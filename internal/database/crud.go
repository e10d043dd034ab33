package database

import (
	"errors"
	"time"

	"github.com/otog-org/otog-server/internal/database/models"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

var ErrAlreadyExists = errors.New("username already exists")

// User CRUD

// CreateUser inserts a user. A taken username is reported by the unique
// index, so concurrent registrations cannot both succeed.
func CreateUser(db *gorm.DB, user *models.User) error {
	if user.Role == "" {
		user.Role = models.RoleUser
	}
	if err := db.Create(user).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return ErrAlreadyExists
		}
		return err
	}
	return nil
}

func GetUserByID(db *gorm.DB, id string) (*models.User, error) {
	var user models.User
	if err := db.Where("id = ?", id).First(&user).Error; err != nil {
		return nil, err
	}
	return &user, nil
}

func GetUserByUsername(db *gorm.DB, username string) (*models.User, error) {
	var user models.User
	if err := db.Where("username = ?", username).First(&user).Error; err != nil {
		return nil, err
	}
	return &user, nil
}

// GetAllUsers lists users, optionally narrowed by a search term matched
// exactly against the id or as a substring of the username or show name.
func GetAllUsers(db *gorm.DB, search string) ([]models.User, error) {
	query := db.Order("created_at asc")
	if search != "" {
		like := "%" + search + "%"
		query = query.Where("id = ? OR username LIKE ? OR show_name LIKE ?", search, like, like)
	}
	var users []models.User
	if err := query.Find(&users).Error; err != nil {
		return nil, err
	}
	return users, nil
}

func UpdateUser(db *gorm.DB, user *models.User) error {
	return db.Save(user).Error
}

// DeleteUser removes a user together with their submissions and returns the
// contests whose scoreboards lost a participant.
func DeleteUser(db *gorm.DB, userID string) ([]uint, error) {
	var contestIDs []uint
	err := db.Transaction(func(tx *gorm.DB) error {
		ids, err := GetUserContestIDs(tx, userID)
		if err != nil {
			return err
		}
		contestIDs = ids
		if err := tx.Where("user_id = ?", userID).Delete(&models.Submission{}).Error; err != nil {
			return err
		}
		return tx.Delete(&models.User{}, "id = ?", userID).Error
	})
	if err != nil {
		return nil, err
	}
	return contestIDs, nil
}

// GetUserContestIDs lists the contests the user has submitted to.
func GetUserContestIDs(db *gorm.DB, userID string) ([]uint, error) {
	var ids []uint
	err := db.Model(&models.Submission{}).
		Where("user_id = ? AND contest_id IS NOT NULL", userID).
		Distinct("contest_id").
		Pluck("contest_id", &ids).Error
	return ids, err
}

// Problem CRUD
func CreateProblem(db *gorm.DB, problem *models.Problem) error {
	return db.Create(problem).Error
}

func GetProblem(db *gorm.DB, id uint) (*models.Problem, error) {
	var problem models.Problem
	if err := db.First(&problem, id).Error; err != nil {
		return nil, err
	}
	return &problem, nil
}

func GetAllProblems(db *gorm.DB) ([]models.Problem, error) {
	var problems []models.Problem
	if err := db.Order("id asc").Find(&problems).Error; err != nil {
		return nil, err
	}
	return problems, nil
}

func UpdateProblem(db *gorm.DB, problem *models.Problem) error {
	return db.Save(problem).Error
}

// GetProblemContestIDs lists the contests a problem belongs to.
func GetProblemContestIDs(db *gorm.DB, problemID uint) ([]uint, error) {
	var ids []uint
	err := db.Table("contest_problems").
		Where("problem_id = ?", problemID).
		Pluck("contest_id", &ids).Error
	return ids, err
}

// Contest CRUD
func CreateContest(db *gorm.DB, contest *models.Contest) error {
	return db.Create(contest).Error
}

func preloadProblems(db *gorm.DB) *gorm.DB {
	return db.Preload("Problems", func(db *gorm.DB) *gorm.DB {
		return db.Order("problems.id asc")
	})
}

func GetContest(db *gorm.DB, id uint) (*models.Contest, error) {
	var contest models.Contest
	if err := preloadProblems(db).First(&contest, id).Error; err != nil {
		return nil, err
	}
	return &contest, nil
}

func GetAllContests(db *gorm.DB) ([]models.Contest, error) {
	var contests []models.Contest
	if err := preloadProblems(db).Order("time_start desc").Find(&contests).Error; err != nil {
		return nil, err
	}
	return contests, nil
}

// GetCurrentContest returns the latest-starting contest whose window contains
// now, or nil if no contest is running.
func GetCurrentContest(db *gorm.DB, now time.Time) (*models.Contest, error) {
	contests, err := GetAllContests(db)
	if err != nil {
		return nil, err
	}
	for i := range contests {
		if contests[i].Running(now) {
			return &contests[i], nil
		}
	}
	return nil, nil
}

// UpdateContest saves the contest's own columns. Problems are managed with
// AddProblemToContest and RemoveProblemFromContest.
func UpdateContest(db *gorm.DB, contest *models.Contest) error {
	return db.Omit("Problems").Save(contest).Error
}

func AddProblemToContest(db *gorm.DB, contestID, problemID uint) error {
	contest := models.Contest{ID: contestID}
	problem, err := GetProblem(db, problemID)
	if err != nil {
		return err
	}
	return db.Model(&contest).Association("Problems").Append(problem)
}

func RemoveProblemFromContest(db *gorm.DB, contestID, problemID uint) error {
	contest := models.Contest{ID: contestID}
	return db.Model(&contest).Association("Problems").Delete(&models.Problem{ID: problemID})
}

// Submission CRUD
func CreateSubmission(db *gorm.DB, sub *models.Submission) error {
	return db.Create(sub).Error
}

func GetSubmission(db *gorm.DB, id string) (*models.Submission, error) {
	var sub models.Submission
	if err := db.Preload("User").Preload("Problem").Where("id = ?", id).First(&sub).Error; err != nil {
		return nil, err
	}
	return &sub, nil
}

func GetSubmissionsByUserID(db *gorm.DB, userID string) ([]models.Submission, error) {
	var subs []models.Submission
	if err := db.Preload("Problem").Where("user_id = ?", userID).Order("created_at desc").Find(&subs).Error; err != nil {
		return nil, err
	}
	return subs, nil
}

// GetAllSubmissions lists submissions newest first, optionally filtered by
// status. An empty status matches everything.
func GetAllSubmissions(db *gorm.DB, status models.Status) ([]models.Submission, error) {
	var subs []models.Submission
	query := db.Preload("User").Preload("Problem").Order("created_at desc")
	if status != "" {
		query = query.Where("status = ?", status)
	}
	if err := query.Find(&subs).Error; err != nil {
		return nil, err
	}
	return subs, nil
}

// UpdateSubmissionResult records a grader's verdict for a submission.
func UpdateSubmissionResult(db *gorm.DB, id string, status models.Status, score decimal.Decimal, timeUsed int64) (*models.Submission, error) {
	var sub models.Submission
	err := db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("id = ?", id).First(&sub).Error; err != nil {
			return err
		}
		sub.Status = status
		sub.Score = score
		sub.TimeUsed = timeUsed
		return tx.Omit("User", "Problem").Save(&sub).Error
	})
	if err != nil {
		return nil, err
	}
	return &sub, nil
}

package models

import (
	"time"

	"github.com/shopspring/decimal"
)

type Role string

const (
	RoleAdmin Role = "admin"
	RoleUser  Role = "user"
)

type Status string

const (
	StatusWaiting Status = "waiting"
	StatusGrading Status = "grading"
	StatusAccept  Status = "accept"
	StatusReject  Status = "reject"
	StatusError   Status = "error"
)

// Graded reports whether the submission carries a final score.
func (s Status) Graded() bool {
	return s == StatusAccept || s == StatusReject || s == StatusError
}

func (s Status) Valid() bool {
	return s == StatusWaiting || s == StatusGrading || s.Graded()
}

type ContestMode string

const (
	ModeRated   ContestMode = "rated"
	ModeUnrated ContestMode = "unrated"
)

type GradingMode string

const (
	GradingACM     GradingMode = "acm"
	GradingClassic GradingMode = "classic"
)

type User struct {
	ID        string `gorm:"primaryKey" json:"id"`
	CreatedAt time.Time
	UpdatedAt time.Time

	Username     string `gorm:"uniqueIndex" json:"username"`
	PasswordHash string `json:"-"`
	ShowName     string `json:"show_name"`
	Role         Role   `gorm:"default:user" json:"role"`
}

func (u *User) IsAdmin() bool {
	return u.Role == RoleAdmin
}

type Problem struct {
	ID        uint `gorm:"primaryKey" json:"id"`
	CreatedAt time.Time
	UpdatedAt time.Time

	Name        string `json:"name"`
	Score       int    `json:"score"`        // full marks
	TimeLimit   int    `json:"time_limit"`   // ms
	MemoryLimit int    `json:"memory_limit"` // MB
	Show        bool   `json:"show"`
}

type Contest struct {
	ID        uint `gorm:"primaryKey" json:"id"`
	CreatedAt time.Time
	UpdatedAt time.Time

	Name        string      `json:"name"`
	Mode        ContestMode `json:"mode"`
	GradingMode GradingMode `json:"grading_mode"`
	TimeStart   time.Time   `json:"time_start"`
	TimeEnd     time.Time   `json:"time_end"`
	Problems    []Problem   `gorm:"many2many:contest_problems" json:"problems"`
}

// Running reports whether now falls inside the contest window.
func (c *Contest) Running(now time.Time) bool {
	return !now.Before(c.TimeStart) && !now.After(c.TimeEnd)
}

func (c *Contest) HasProblem(problemID uint) bool {
	for _, p := range c.Problems {
		if p.ID == problemID {
			return true
		}
	}
	return false
}

type Submission struct {
	ID        string `gorm:"primaryKey" json:"id"`
	CreatedAt time.Time
	UpdatedAt time.Time

	UserID    string  `gorm:"index" json:"user_id"`
	User      User    `json:"user"`
	ProblemID uint    `gorm:"index" json:"problem_id"`
	Problem   Problem `json:"problem"`
	ContestID *uint   `gorm:"index" json:"contest_id"`

	Language   string          `json:"language"`
	SourceCode string          `gorm:"type:text" json:"-"`
	Status     Status          `gorm:"index" json:"status"`
	Score      decimal.Decimal `gorm:"type:text" json:"score"`
	TimeUsed   int64           `json:"time_used"` // ms
}

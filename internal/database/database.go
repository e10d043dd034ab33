package database

import (
	"os"
	"path/filepath"

	"github.com/otog-org/otog-server/internal/database/models"
	"go.uber.org/zap"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

func Init(dsn string) (*gorm.DB, error) {
	if _, err := os.Stat(dsn); os.IsNotExist(err) {
		zap.S().Infof("database file not found at '%s', creating directory for it.", dsn)
		// Ensure the directory for the database file exists.
		dbDir := filepath.Dir(dsn)
		if err := os.MkdirAll(dbDir, 0755); err != nil {
			return nil, err
		}
	}

	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		// Unique violations surface as gorm.ErrDuplicatedKey.
		TranslateError: true,
	})
	if err != nil {
		return nil, err
	}

	err = db.AutoMigrate(
		&models.User{},
		&models.Problem{},
		&models.Contest{},
		&models.Submission{},
	)
	if err != nil {
		return nil, err
	}

	return db, nil
}

// RecoverInterrupted puts submissions that were being graded when the server
// stopped back into the waiting state so the grader picks them up again.
func RecoverInterrupted(db *gorm.DB) (int64, error) {
	result := db.Model(&models.Submission{}).
		Where("status = ?", models.StatusGrading).
		Update("status", models.StatusWaiting)
	return result.RowsAffected, result.Error
}

package leads

import (
	"errors"
	"strings"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/mikeskafld/dojo-web/app/models"
)

// ErrDuplicateEmail marks a submission whose email already has a row.
// Duplicates are rejected, never merged or overwritten.
var ErrDuplicateEmail = errors.New("leads: email already exists")

// Repository provides DB operations used by the lead-capture service.
type Repository interface {
	InsertCreatorApplication(app *models.CreatorApplication) error
	InsertLearnerWaitlistEntry(entry *models.LearnerWaitlistEntry) error
	ListCreatorApplications() ([]models.CreatorApplication, error)
	ListLearnerWaitlistEntries() ([]models.LearnerWaitlistEntry, error)
	CountCreatorApplications() (int64, error)
	CountLearnerWaitlistEntries() (int64, error)
}

type gormRepository struct {
	db *gorm.DB
}

// NewRepository creates a lead repository backed by GORM.
func NewRepository(db *gorm.DB) Repository {
	return &gormRepository{db: db}
}

func (r *gormRepository) InsertCreatorApplication(app *models.CreatorApplication) error {
	if app.Reference == "" {
		app.Reference = uuid.NewString()
	}
	return translateDuplicate(r.db.Create(app).Error)
}

func (r *gormRepository) InsertLearnerWaitlistEntry(entry *models.LearnerWaitlistEntry) error {
	if entry.Reference == "" {
		entry.Reference = uuid.NewString()
	}
	return translateDuplicate(r.db.Create(entry).Error)
}

func (r *gormRepository) ListCreatorApplications() ([]models.CreatorApplication, error) {
	var apps []models.CreatorApplication
	err := r.db.Order("created_at DESC").Find(&apps).Error
	return apps, err
}

func (r *gormRepository) ListLearnerWaitlistEntries() ([]models.LearnerWaitlistEntry, error) {
	var entries []models.LearnerWaitlistEntry
	err := r.db.Order("created_at DESC").Find(&entries).Error
	return entries, err
}

func (r *gormRepository) CountCreatorApplications() (int64, error) {
	var n int64
	err := r.db.Model(&models.CreatorApplication{}).Count(&n).Error
	return n, err
}

func (r *gormRepository) CountLearnerWaitlistEntries() (int64, error) {
	var n int64
	err := r.db.Model(&models.LearnerWaitlistEntry{}).Count(&n).Error
	return n, err
}

// translateDuplicate maps unique-key violations onto ErrDuplicateEmail.
// GORM translates MySQL error 1062 when TranslateError is on; the string
// check covers drivers that surface the raw error.
func translateDuplicate(err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return ErrDuplicateEmail
	}
	if strings.Contains(err.Error(), "Duplicate entry") || strings.Contains(err.Error(), "1062") {
		return ErrDuplicateEmail
	}
	return err
}

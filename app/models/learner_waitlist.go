package models

import (
	"encoding/json"
	"time"

	"github.com/go-playground/validator/v10"
)

// Interest tags offered on the learner waitlist form.
var LearnerInterestTags = []string{
	"programming",
	"design",
	"business",
	"music",
	"fitness",
	"language",
	"photography",
	"other",
}

// LearnerWaitlistEntry is one learner lead. Email is stored lower-cased
// and unique; name is optional; interests are a non-empty tag set stored
// as JSON text.
type LearnerWaitlistEntry struct {
	ID            uint      `gorm:"primaryKey" json:"id"`
	Reference     string    `gorm:"type:varchar(36);uniqueIndex" json:"reference"`
	Email         string    `gorm:"uniqueIndex;type:varchar(200) CHARACTER SET utf8 COLLATE utf8_bin;not null" json:"email" validate:"required,email,max=200"`
	Name          string    `gorm:"type:varchar(150);default:null" json:"name,omitempty" validate:"max=150"`
	InterestsJSON string    `gorm:"type:text;not null" json:"-" validate:"required"`
	CreatedAt     time.Time `gorm:"autoCreateTime" json:"created_at"`
}

func (e *LearnerWaitlistEntry) Validate() error {
	v := validator.New()
	return v.Struct(e)
}

// Interests decodes the stored tag set.
func (e *LearnerWaitlistEntry) Interests() []string {
	var tags []string
	if err := json.Unmarshal([]byte(e.InterestsJSON), &tags); err != nil {
		return nil
	}
	return tags
}

// SetInterests encodes the tag set for storage.
func (e *LearnerWaitlistEntry) SetInterests(tags []string) error {
	b, err := json.Marshal(tags)
	if err != nil {
		return err
	}
	e.InterestsJSON = string(b)
	return nil
}

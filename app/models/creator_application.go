package models

import (
	"time"

	"github.com/go-playground/validator/v10"
)

// Content niches offered in the creator application form. The writer does
// not re-validate membership; the form and the API docs render from this
// list.
var CreatorNiches = []string{
	"programming",
	"design",
	"business",
	"music",
	"fitness",
	"language",
	"photography",
	"other",
}

// Audience-size buckets offered in the creator application form.
var AudienceSizeBuckets = []string{
	"0-1k",
	"1k-10k",
	"10k-100k",
	"100k+",
}

// CreatorApplication is one creator lead. Email is stored lower-cased and
// unique; duplicate submissions are rejected, never overwritten.
type CreatorApplication struct {
	ID           uint      `gorm:"primaryKey" json:"id"`
	Reference    string    `gorm:"type:varchar(36);uniqueIndex" json:"reference"`
	Name         string    `gorm:"type:varchar(150);not null" json:"name" validate:"required,min=1,max=150"`
	Email        string    `gorm:"uniqueIndex;type:varchar(200) CHARACTER SET utf8 COLLATE utf8_bin;not null" json:"email" validate:"required,email,max=200"`
	Niche        string    `gorm:"type:varchar(50);not null" json:"niche" validate:"required,max=50"`
	SocialLink   string    `gorm:"type:varchar(500);not null" json:"social_link" validate:"required,url,max=500"`
	AudienceSize string    `gorm:"type:varchar(20);not null" json:"audience_size" validate:"required,max=20"`
	CreatedAt    time.Time `gorm:"autoCreateTime" json:"created_at"`
}

func (a *CreatorApplication) Validate() error {
	v := validator.New()
	return v.Struct(a)
}

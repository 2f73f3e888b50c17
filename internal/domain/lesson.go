package domain

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type LessonKind string

const (
	LessonVideo      LessonKind = "video"
	LessonPDF        LessonKind = "pdf"
	LessonAssessment LessonKind = "assessment"
)

func (k LessonKind) Valid() bool {
	switch k {
	case LessonVideo, LessonPDF, LessonAssessment:
		return true
	default:
		return false
	}
}

// IsMedia reports whether the lesson kind carries asset content rather than
// an assessment config.
func (k LessonKind) IsMedia() bool {
	return k == LessonVideo || k == LessonPDF
}

// Lesson content is a tagged variant over Kind: media lessons own Asset rows,
// assessment lessons own exactly one Assessment created in the same
// transaction as the lesson itself. The two branches never mix.
type Lesson struct {
	ID              uuid.UUID      `gorm:"type:uuid;default:uuid_generate_v4();primaryKey" json:"id"`
	WeekID          uuid.UUID      `gorm:"type:uuid;not null;index" json:"week_id"`
	Week            *Week          `gorm:"constraint:OnDelete:CASCADE;foreignKey:WeekID;references:ID" json:"week,omitempty"`
	Index           int            `gorm:"column:index;not null" json:"index"`
	Title           string         `gorm:"column:title;not null" json:"title"`
	Kind            LessonKind     `gorm:"column:kind;not null" json:"kind"`
	IsPreview       bool           `gorm:"column:is_preview;not null;default:false" json:"is_preview"`
	DurationMinutes int            `gorm:"column:duration_minutes;not null;default:0" json:"duration_minutes"`
	Assets          []*Asset       `gorm:"constraint:OnDelete:CASCADE;foreignKey:LessonID;references:ID" json:"assets,omitempty"`
	Assessment      *Assessment    `gorm:"constraint:OnDelete:CASCADE;foreignKey:LessonID;references:ID" json:"assessment,omitempty"`
	CreatedAt       time.Time      `gorm:"not null;default:now()" json:"created_at"`
	UpdatedAt       time.Time      `gorm:"not null;default:now()" json:"updated_at"`
	DeletedAt       gorm.DeletedAt `gorm:"index" json:"deleted_at,omitempty"`
}

func (Lesson) TableName() string { return "lesson" }

// HasContent reports whether the lesson would be publishable: media lessons
// need at least one asset, assessment lessons at least one question.
func (l *Lesson) HasContent() bool {
	if l.Kind.IsMedia() {
		return len(l.Assets) > 0
	}
	return l.Assessment != nil && len(l.Assessment.Questions) > 0
}

type AssetKind string

const (
	AssetVideo AssetKind = "video"
	AssetPDF   AssetKind = "pdf"
	AssetImage AssetKind = "image"
)

type Asset struct {
	ID         uuid.UUID      `gorm:"type:uuid;default:uuid_generate_v4();primaryKey" json:"id"`
	LessonID   uuid.UUID      `gorm:"type:uuid;not null;index" json:"lesson_id"`
	Lesson     *Lesson        `gorm:"constraint:OnDelete:CASCADE;foreignKey:LessonID;references:ID" json:"lesson,omitempty"`
	Index      int            `gorm:"column:index;not null" json:"index"`
	Kind       AssetKind      `gorm:"column:kind;not null" json:"kind"`
	Name       string         `gorm:"column:name;not null" json:"name"`
	StorageKey string         `gorm:"column:storage_key;not null" json:"storage_key"`
	URL        string         `gorm:"column:url" json:"url"`
	SizeBytes  int64          `gorm:"column:size_bytes;not null;default:0" json:"size_bytes"`
	CreatedAt  time.Time      `gorm:"not null;default:now()" json:"created_at"`
	UpdatedAt  time.Time      `gorm:"not null;default:now()" json:"updated_at"`
	DeletedAt  gorm.DeletedAt `gorm:"index" json:"deleted_at,omitempty"`
}

func (Asset) TableName() string { return "asset" }

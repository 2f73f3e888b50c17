package domain

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type CourseStatus string

const (
	CourseDraft     CourseStatus = "draft"
	CoursePublished CourseStatus = "published"
	CourseArchived  CourseStatus = "archived"
)

// CanTransitionTo enforces the one-way draft -> published -> archived
// lifecycle. Edits to a published course never revert its status.
func (s CourseStatus) CanTransitionTo(next CourseStatus) bool {
	switch s {
	case CourseDraft:
		return next == CoursePublished
	case CoursePublished:
		return next == CourseArchived
	default:
		return false
	}
}

type CourseSettings struct {
	EnrollmentLimit     int  `gorm:"column:enrollment_limit;not null;default:0" json:"enrollment_limit"`
	AllowSelfEnrollment bool `gorm:"column:allow_self_enrollment;not null;default:true" json:"allow_self_enrollment"`
	RequireApproval     bool `gorm:"column:require_approval;not null;default:false" json:"require_approval"`
	CertificateEnabled  bool `gorm:"column:certificate_enabled;not null;default:false" json:"certificate_enabled"`
}

type Course struct {
	ID           uuid.UUID      `gorm:"type:uuid;default:uuid_generate_v4();primaryKey" json:"id"`
	AuthorID     uuid.UUID      `gorm:"type:uuid;not null;index" json:"author_id"`
	Title        string         `gorm:"column:title;not null" json:"title"`
	Description  string         `gorm:"column:description;type:text" json:"description"`
	Category     string         `gorm:"column:category;index" json:"category"`
	ThumbnailKey string         `gorm:"column:thumbnail_key" json:"thumbnail_key,omitempty"`
	ThumbnailURL string         `gorm:"column:thumbnail_url" json:"thumbnail_url,omitempty"`
	Status       CourseStatus   `gorm:"column:status;not null;default:'draft';index" json:"status"`
	Settings     CourseSettings `gorm:"embedded;embeddedPrefix:settings_" json:"settings"`
	Weeks        []*Week        `gorm:"constraint:OnDelete:CASCADE;foreignKey:CourseID;references:ID" json:"weeks,omitempty"`
	CreatedAt    time.Time      `gorm:"not null;default:now()" json:"created_at"`
	UpdatedAt    time.Time      `gorm:"not null;default:now()" json:"updated_at"`
	DeletedAt    gorm.DeletedAt `gorm:"index" json:"deleted_at,omitempty"`
}

func (Course) TableName() string { return "course" }

// EstimatedDuration sums lesson durations across the loaded aggregate.
func (c *Course) EstimatedDuration() time.Duration {
	var minutes int
	for _, w := range c.Weeks {
		for _, l := range w.Lessons {
			minutes += l.DurationMinutes
		}
	}
	return time.Duration(minutes) * time.Minute
}

// LessonCount counts lessons across the loaded aggregate.
func (c *Course) LessonCount() int {
	var n int
	for _, w := range c.Weeks {
		n += len(w.Lessons)
	}
	return n
}

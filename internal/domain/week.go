package domain

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type Week struct {
	ID          uuid.UUID      `gorm:"type:uuid;default:uuid_generate_v4();primaryKey" json:"id"`
	CourseID    uuid.UUID      `gorm:"type:uuid;not null;index" json:"course_id"`
	Course      *Course        `gorm:"constraint:OnDelete:CASCADE;foreignKey:CourseID;references:ID" json:"course,omitempty"`
	Index       int            `gorm:"column:index;not null" json:"index"`
	Title       string         `gorm:"column:title;not null" json:"title"`
	Description string         `gorm:"column:description;type:text" json:"description"`
	UnlockAt    *time.Time     `gorm:"column:unlock_at" json:"unlock_at,omitempty"`
	Lessons     []*Lesson      `gorm:"constraint:OnDelete:CASCADE;foreignKey:WeekID;references:ID" json:"lessons,omitempty"`
	CreatedAt   time.Time      `gorm:"not null;default:now()" json:"created_at"`
	UpdatedAt   time.Time      `gorm:"not null;default:now()" json:"updated_at"`
	DeletedAt   gorm.DeletedAt `gorm:"index" json:"deleted_at,omitempty"`
}

func (Week) TableName() string { return "week" }

// Locked reports whether the week is still gated for learners. A future
// unlock date locks the week regardless of progress.
func (w *Week) Locked(now time.Time) bool {
	return w.UnlockAt != nil && now.Before(*w.UnlockAt)
}

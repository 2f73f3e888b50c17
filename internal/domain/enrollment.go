package domain

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

type EnrollmentStatus string

const (
	EnrollmentNotStarted EnrollmentStatus = "not_started"
	EnrollmentInProgress EnrollmentStatus = "in_progress"
	EnrollmentCompleted  EnrollmentStatus = "completed"
)

type ApprovalState string

const (
	ApprovalNone     ApprovalState = "none"
	ApprovalPending  ApprovalState = "pending"
	ApprovalApproved ApprovalState = "approved"
	ApprovalRejected ApprovalState = "rejected"
)

type Enrollment struct {
	ID                uuid.UUID        `gorm:"type:uuid;default:uuid_generate_v4();primaryKey" json:"id"`
	LearnerID         uuid.UUID        `gorm:"type:uuid;not null;uniqueIndex:idx_enrollment_learner_course" json:"learner_id"`
	CourseID          uuid.UUID        `gorm:"type:uuid;not null;uniqueIndex:idx_enrollment_learner_course" json:"course_id"`
	Status            EnrollmentStatus `gorm:"type:varchar(24);not null;default:'not_started'" json:"status"`
	Approval          ApprovalState    `gorm:"type:varchar(16);not null;default:'none'" json:"approval"`
	CertificateIssued bool             `gorm:"not null;default:false" json:"certificate_issued"`
	EnrolledAt        time.Time        `gorm:"not null" json:"enrolled_at"`
	CompletedAt       *time.Time       `json:"completed_at,omitempty"`
	CreatedAt         time.Time        `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt         time.Time        `gorm:"autoUpdateTime" json:"updated_at"`
	DeletedAt         gorm.DeletedAt   `gorm:"index" json:"-"`
}

func (Enrollment) TableName() string { return "enrollment" }

// Active reports whether the enrollment grants access to course content.
func (e *Enrollment) Active() bool {
	return e.Approval == ApprovalNone || e.Approval == ApprovalApproved
}

type LessonProgress struct {
	ID          uuid.UUID `gorm:"type:uuid;default:uuid_generate_v4();primaryKey" json:"id"`
	LearnerID   uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:idx_lesson_progress_learner_lesson" json:"learner_id"`
	LessonID    uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:idx_lesson_progress_learner_lesson" json:"lesson_id"`
	CourseID    uuid.UUID `gorm:"type:uuid;not null;index" json:"course_id"`
	CompletedAt time.Time `gorm:"not null" json:"completed_at"`
	CreatedAt   time.Time `gorm:"autoCreateTime" json:"created_at"`
}

func (LessonProgress) TableName() string { return "lesson_progress" }

type CourseProgress struct {
	ID         uuid.UUID      `gorm:"type:uuid;default:uuid_generate_v4();primaryKey" json:"id"`
	LearnerID  uuid.UUID      `gorm:"type:uuid;not null;uniqueIndex:idx_course_progress_learner_course" json:"learner_id"`
	CourseID   uuid.UUID      `gorm:"type:uuid;not null;uniqueIndex:idx_course_progress_learner_course" json:"course_id"`
	Percentage float64        `gorm:"not null;default:0" json:"percentage"`
	Weeks      datatypes.JSON `gorm:"type:jsonb" json:"weeks"`
	UpdatedAt  time.Time      `gorm:"autoUpdateTime" json:"updated_at"`
	CreatedAt  time.Time      `gorm:"autoCreateTime" json:"created_at"`
}

func (CourseProgress) TableName() string { return "course_progress" }

func (p *CourseProgress) SetWeeks(weeks []WeekRollup) error {
	raw, err := json.Marshal(weeks)
	if err != nil {
		return err
	}
	p.Weeks = datatypes.JSON(raw)
	return nil
}

func (p *CourseProgress) DecodeWeeks() ([]WeekRollup, error) {
	var weeks []WeekRollup
	if len(p.Weeks) == 0 {
		return weeks, nil
	}
	err := json.Unmarshal(p.Weeks, &weeks)
	return weeks, err
}

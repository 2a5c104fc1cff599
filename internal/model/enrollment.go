package model

import "time"

// swagger:model Enrollment
type Enrollment struct {
	BaseModel
	UserID         uint      `gorm:"uniqueIndex:idx_user_course;index;type:bigint unsigned" json:"userId"`
	CourseID       uint      `gorm:"uniqueIndex:idx_user_course;type:bigint unsigned" json:"courseId"`
	EnrolledAt     time.Time `json:"enrolledAt"`
	LastAccessedAt time.Time `json:"lastAccessedAt"`
	// IsCompleted means all gating work has been submitted; pending review
	// counts. IsPassed stays nil until the enrollment is completed and the
	// final exam has been graded.
	IsCompleted   bool       `gorm:"default:false" json:"isCompleted"`
	IsPassed      *bool      `json:"isPassed"`
	CompletedAt   *time.Time `json:"completedAt,omitempty"`
	FinalScore100 float64    `gorm:"default:0" json:"finalScore100"`
}

func (Enrollment) TableName() string {
	return "enrollments"
}

// LessonCompletion records a direct learner "mark complete" action for
// content types that do not require a submission.
type LessonCompletion struct {
	BaseModel
	UserID   uint `gorm:"uniqueIndex:idx_user_lesson;index;type:bigint unsigned" json:"userId"`
	LessonID uint `gorm:"uniqueIndex:idx_user_lesson;type:bigint unsigned" json:"lessonId"`
	CourseID uint `gorm:"index;type:bigint unsigned" json:"courseId"`
}

func (LessonCompletion) TableName() string {
	return "lesson_completions"
}

package service

import (
	"coursehub_backend/internal/model"
)

// The engine talks to its collaborators through narrow interfaces; the gorm
// repositories satisfy them in production and tests substitute in-memory
// fakes. Getters return (nil, nil) when no current record exists.

// LessonCatalog serves the ordered lesson list per course, step numbers
// ascending and contiguous from 1, quiz definitions preloaded.
type LessonCatalog interface {
	ListByCourse(courseID uint) ([]model.Lesson, error)
	FindByID(id uint) (*model.Lesson, error)
	CATQuizCount(courseID uint) (int, error)
}

// SubmissionStore is the durable record of quiz and project submissions.
// Updates carry the caller's expected version and fail with ErrConflict when
// the row transitioned since that read.
type SubmissionStore interface {
	CreateQuizSubmission(s *model.QuizSubmission) error
	QuizSubmissionByLesson(userID, lessonID uint) (*model.QuizSubmission, error)
	QuizSubmissionByID(id uint) (*model.QuizSubmission, error)
	UpdateQuizSubmission(s *model.QuizSubmission, expectedVersion int) error
	QuizSubmissionsByCourse(userID, courseID uint) ([]model.QuizSubmission, error)

	CreateProjectSubmission(s *model.ProjectSubmission) error
	ProjectSubmissionByLesson(userID, lessonID uint) (*model.ProjectSubmission, error)
	ProjectSubmissionByID(id uint) (*model.ProjectSubmission, error)
	UpdateProjectSubmission(s *model.ProjectSubmission, expectedVersion int) error
	ProjectSubmissionsByCourse(userID, courseID uint) ([]model.ProjectSubmission, error)
}

// EnrollmentStore tracks enrollments and direct lesson completions.
type EnrollmentStore interface {
	Find(userID, courseID uint) (*model.Enrollment, error)
	Update(e *model.Enrollment) error
	MarkLessonComplete(userID, courseID, lessonID uint) error
	CompletedLessonIDs(userID, courseID uint) ([]uint, error)
}

// CertificateStore persists issued certificates.
type CertificateStore interface {
	Create(c *model.Certificate) error
	Find(userID, courseID uint) (*model.Certificate, error)
}

// GradeSnapshotCache is a best-effort cache; misses fall back to
// recomputation.
type GradeSnapshotCache interface {
	Get(userID, courseID uint) (*model.GradeSnapshot, bool)
	Set(userID, courseID uint, snap *model.GradeSnapshot)
	Invalidate(userID, courseID uint)
}

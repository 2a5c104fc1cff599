package repository

import (
	"coursehub_backend/internal/model"

	"gorm.io/gorm"
)

type EnrollmentRepository struct {
	DB *gorm.DB
}

func NewEnrollmentRepository(db *gorm.DB) *EnrollmentRepository {
	return &EnrollmentRepository{DB: db}
}

func (r *EnrollmentRepository) Create(e *model.Enrollment) error {
	return r.DB.Create(e).Error
}

func (r *EnrollmentRepository) Find(userID, courseID uint) (*model.Enrollment, error) {
	var e model.Enrollment
	err := r.DB.Where("user_id = ? AND course_id = ?", userID, courseID).First(&e).Error
	if err == gorm.ErrRecordNotFound {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &e, nil
}

func (r *EnrollmentRepository) Update(e *model.Enrollment) error {
	return r.DB.Save(e).Error
}

func (r *EnrollmentRepository) ListByUser(userID uint) ([]model.Enrollment, error) {
	var es []model.Enrollment
	err := r.DB.Where("user_id = ?", userID).Order("enrolled_at desc").Find(&es).Error
	return es, err
}

// --- lesson completions (direct learner marks) ---

func (r *EnrollmentRepository) MarkLessonComplete(userID, courseID, lessonID uint) error {
	completion := model.LessonCompletion{
		UserID:   userID,
		CourseID: courseID,
		LessonID: lessonID,
	}
	// idempotent: marking twice is not an error
	return r.DB.Where("user_id = ? AND lesson_id = ?", userID, lessonID).
		FirstOrCreate(&completion).Error
}

func (r *EnrollmentRepository) CompletedLessonIDs(userID, courseID uint) ([]uint, error) {
	var ids []uint
	err := r.DB.Model(&model.LessonCompletion{}).
		Where("user_id = ? AND course_id = ?", userID, courseID).
		Pluck("lesson_id", &ids).Error
	return ids, err
}

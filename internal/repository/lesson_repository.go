package repository

import (
	"coursehub_backend/internal/model"

	"gorm.io/gorm"
)

// LessonRepository is the lesson catalog: ordered lessons per course with
// their quiz definitions.
type LessonRepository struct {
	DB *gorm.DB
}

func NewLessonRepository(db *gorm.DB) *LessonRepository {
	return &LessonRepository{DB: db}
}

func (r *LessonRepository) Create(lesson *model.Lesson) error {
	return r.DB.Create(lesson).Error
}

// CreateWithQuiz writes a quiz lesson and its question set in one
// transaction so a quiz lesson can never exist without its definition.
func (r *LessonRepository) CreateWithQuiz(lesson *model.Lesson, quiz *model.Quiz) error {
	return r.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(lesson).Error; err != nil {
			return err
		}
		quiz.LessonID = lesson.ID
		quiz.CourseID = lesson.CourseID
		return tx.Create(quiz).Error
	})
}

func (r *LessonRepository) FindByID(id uint) (*model.Lesson, error) {
	var l model.Lesson
	err := r.DB.Preload("Quiz.Questions", func(db *gorm.DB) *gorm.DB {
		return db.Order("`order` asc")
	}).Preload("Quiz").First(&l, id).Error
	return &l, err
}

// ListByCourse returns the catalog ordered by ascending step number,
// contiguous starting at 1.
func (r *LessonRepository) ListByCourse(courseID uint) ([]model.Lesson, error) {
	var ls []model.Lesson
	err := r.DB.Where("course_id = ?", courseID).
		Preload("Quiz.Questions", func(db *gorm.DB) *gorm.DB {
			return db.Order("`order` asc")
		}).
		Preload("Quiz").
		Order("step_number asc").
		Find(&ls).Error
	return ls, err
}

func (r *LessonRepository) CountByCourse(courseID uint) (int64, error) {
	var count int64
	err := r.DB.Model(&model.Lesson{}).Where("course_id = ?", courseID).Count(&count).Error
	return count, err
}

// NextStepNumber keeps step numbers dense: the next lesson always goes at
// the end of the sequence.
func (r *LessonRepository) NextStepNumber(courseID uint) (int, error) {
	var max int
	err := r.DB.Model(&model.Lesson{}).Where("course_id = ?", courseID).
		Select("COALESCE(MAX(step_number), 0)").Scan(&max).Error
	return max + 1, err
}

func (r *LessonRepository) CATQuizCount(courseID uint) (int, error) {
	var count int64
	err := r.DB.Model(&model.Quiz{}).
		Where("course_id = ? AND assessment_type = ?", courseID, model.AssessmentCAT).
		Count(&count).Error
	return int(count), err
}

func (r *LessonRepository) FinalExamCount(courseID uint) (int, error) {
	var count int64
	err := r.DB.Model(&model.Quiz{}).
		Where("course_id = ? AND assessment_type = ?", courseID, model.AssessmentFinalExam).
		Count(&count).Error
	return int(count), err
}

func (r *LessonRepository) Update(lesson *model.Lesson) error {
	return r.DB.Save(lesson).Error
}

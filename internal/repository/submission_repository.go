package repository

import (
	"coursehub_backend/internal/model"
	"coursehub_backend/internal/util"

	"gorm.io/gorm"
)

// SubmissionRepository is the submission store. Every mutation of an
// existing row is guarded by the row's version column: a write whose
// expected version no longer matches fails with ErrConflict instead of
// overwriting a grading decision that raced it.
type SubmissionRepository struct {
	DB *gorm.DB
}

func NewSubmissionRepository(db *gorm.DB) *SubmissionRepository {
	return &SubmissionRepository{DB: db}
}

// --- quiz submissions ---

func (r *SubmissionRepository) CreateQuizSubmission(s *model.QuizSubmission) error {
	return r.DB.Create(s).Error
}

// QuizSubmissionByLesson returns the current submission, or nil when the
// learner has not submitted to this lesson yet.
func (r *SubmissionRepository) QuizSubmissionByLesson(userID, lessonID uint) (*model.QuizSubmission, error) {
	var s model.QuizSubmission
	err := r.DB.Where("user_id = ? AND lesson_id = ?", userID, lessonID).First(&s).Error
	if err == gorm.ErrRecordNotFound {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &s, nil
}

func (r *SubmissionRepository) QuizSubmissionByID(id uint) (*model.QuizSubmission, error) {
	var s model.QuizSubmission
	err := r.DB.First(&s, id).Error
	if err == gorm.ErrRecordNotFound {
		return nil, util.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &s, nil
}

// UpdateQuizSubmission writes the full submission state iff the stored
// version still equals expectedVersion, bumping the version on success.
func (r *SubmissionRepository) UpdateQuizSubmission(s *model.QuizSubmission, expectedVersion int) error {
	res := r.DB.Model(&model.QuizSubmission{}).
		Where("id = ? AND version = ?", s.ID, expectedVersion).
		Updates(map[string]interface{}{
			"status":          s.Status,
			"answers":         s.Answers,
			"score":           s.Score,
			"total":           s.Total,
			"is_passed":       s.IsPassed,
			"attachment_urls": s.AttachmentURLs,
			"attempt_count":   s.AttemptCount,
			"version":         expectedVersion + 1,
		})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return util.ErrConflict
	}
	s.Version = expectedVersion + 1
	return nil
}

func (r *SubmissionRepository) QuizSubmissionsByCourse(userID, courseID uint) ([]model.QuizSubmission, error) {
	var ss []model.QuizSubmission
	err := r.DB.Where("user_id = ? AND course_id = ?", userID, courseID).Find(&ss).Error
	return ss, err
}

func (r *SubmissionRepository) QuizSubmissionsByUser(userID uint, limit int) ([]model.QuizSubmission, error) {
	var ss []model.QuizSubmission
	err := r.DB.Where("user_id = ?", userID).
		Order("updated_at desc").Limit(limit).Find(&ss).Error
	return ss, err
}

func (r *SubmissionRepository) PendingQuizSubmissions(page, limit int) ([]model.QuizSubmission, int64, error) {
	var ss []model.QuizSubmission
	var total int64
	query := r.DB.Model(&model.QuizSubmission{}).Where("status = ?", model.StatusPendingReview)
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}
	offset := (page - 1) * limit
	err := query.Order("created_at asc").Offset(offset).Limit(limit).Find(&ss).Error
	return ss, total, err
}

// --- project submissions ---

func (r *SubmissionRepository) CreateProjectSubmission(s *model.ProjectSubmission) error {
	return r.DB.Create(s).Error
}

func (r *SubmissionRepository) ProjectSubmissionByLesson(userID, lessonID uint) (*model.ProjectSubmission, error) {
	var s model.ProjectSubmission
	err := r.DB.Where("user_id = ? AND lesson_id = ?", userID, lessonID).First(&s).Error
	if err == gorm.ErrRecordNotFound {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &s, nil
}

func (r *SubmissionRepository) ProjectSubmissionByID(id uint) (*model.ProjectSubmission, error) {
	var s model.ProjectSubmission
	err := r.DB.First(&s, id).Error
	if err == gorm.ErrRecordNotFound {
		return nil, util.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &s, nil
}

func (r *SubmissionRepository) UpdateProjectSubmission(s *model.ProjectSubmission, expectedVersion int) error {
	res := r.DB.Model(&model.ProjectSubmission{}).
		Where("id = ? AND version = ?", s.ID, expectedVersion).
		Updates(map[string]interface{}{
			"status":          s.Status,
			"submission_text": s.SubmissionText,
			"submission_url":  s.SubmissionURL,
			"attachment_urls": s.AttachmentURLs,
			"feedback":        s.Feedback,
			"attempt_count":   s.AttemptCount,
			"version":         expectedVersion + 1,
		})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return util.ErrConflict
	}
	s.Version = expectedVersion + 1
	return nil
}

func (r *SubmissionRepository) ProjectSubmissionsByCourse(userID, courseID uint) ([]model.ProjectSubmission, error) {
	var ss []model.ProjectSubmission
	err := r.DB.Where("user_id = ? AND course_id = ?", userID, courseID).Find(&ss).Error
	return ss, err
}

func (r *SubmissionRepository) ProjectSubmissionsByUser(userID uint, limit int) ([]model.ProjectSubmission, error) {
	var ss []model.ProjectSubmission
	err := r.DB.Where("user_id = ?", userID).
		Order("updated_at desc").Limit(limit).Find(&ss).Error
	return ss, err
}

func (r *SubmissionRepository) PendingProjectSubmissions(page, limit int) ([]model.ProjectSubmission, int64, error) {
	var ss []model.ProjectSubmission
	var total int64
	query := r.DB.Model(&model.ProjectSubmission{}).Where("status = ?", model.StatusPendingReview)
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}
	offset := (page - 1) * limit
	err := query.Order("created_at asc").Offset(offset).Limit(limit).Find(&ss).Error
	return ss, total, err
}

package service

import (
	"encoding/json"
	"fmt"
	"time"

	"coursehub_backend/internal/model"
	"coursehub_backend/internal/repository"
	"coursehub_backend/internal/util"
)

// CourseService covers course/lesson authoring and enrollment. Authoring is
// admin tooling; the engine treats the resulting catalog as read-only.
type CourseService struct {
	Courses     *repository.CourseRepository
	Lessons     *repository.LessonRepository
	Enrollments *repository.EnrollmentRepository
	Progress    *ProgressService
}

func NewCourseService(courses *repository.CourseRepository, lessons *repository.LessonRepository, enrollments *repository.EnrollmentRepository, progress *ProgressService) *CourseService {
	return &CourseService{
		Courses:     courses,
		Lessons:     lessons,
		Enrollments: enrollments,
		Progress:    progress,
	}
}

type CourseCreateRequest struct {
	Title       string `json:"title" binding:"required"`
	Description string `json:"description"`
	CoverURL    string `json:"coverUrl"`
}

func (s *CourseService) CreateCourse(creatorID uint, req CourseCreateRequest) (*model.Course, error) {
	course := &model.Course{
		Title:       req.Title,
		Description: req.Description,
		CoverURL:    req.CoverURL,
		CreatorID:   creatorID,
	}
	if err := s.Courses.Create(course); err != nil {
		return nil, err
	}
	return course, nil
}

type QuizQuestionRequest struct {
	QuestionType       model.QuestionType `json:"questionType" binding:"required"`
	Prompt             string             `json:"prompt" binding:"required"`
	Options            []string           `json:"options"`
	CorrectAnswerIndex *int               `json:"correctAnswerIndex"`
	MaxMarks           int                `json:"maxMarks"`
}

type QuizDefinitionRequest struct {
	AssessmentType model.AssessmentType  `json:"assessmentType" binding:"required"`
	Questions      []QuizQuestionRequest `json:"questions" binding:"required"`
}

type LessonCreateRequest struct {
	Title        string                 `json:"title" binding:"required"`
	ContentType  model.ContentType      `json:"contentType" binding:"required"`
	IsPreview    bool                   `json:"isPreview"`
	Body         string                 `json:"body"`
	VideoURL     string                 `json:"videoUrl"`
	ResourceURL  string                 `json:"resourceUrl"`
	ProjectBrief string                 `json:"projectBrief"`
	Quiz         *QuizDefinitionRequest `json:"quiz"`
}

// AddLesson appends a lesson at the end of the course sequence, keeping
// step numbers dense. Quiz lessons must embed a valid question set.
func (s *CourseService) AddLesson(courseID uint, req LessonCreateRequest) (*model.Lesson, error) {
	if _, err := s.Courses.FindByID(courseID); err != nil {
		return nil, util.ErrNotFound
	}
	if !req.ContentType.Valid() {
		return nil, fmt.Errorf("%w: unknown content type %q", util.ErrValidation, req.ContentType)
	}

	step, err := s.Lessons.NextStepNumber(courseID)
	if err != nil {
		return nil, err
	}

	lesson := &model.Lesson{
		CourseID:     courseID,
		StepNumber:   step,
		Title:        req.Title,
		ContentType:  req.ContentType,
		IsPreview:    req.IsPreview,
		Body:         req.Body,
		VideoURL:     req.VideoURL,
		ResourceURL:  req.ResourceURL,
		ProjectBrief: req.ProjectBrief,
	}

	if req.ContentType != model.ContentQuiz {
		if req.Quiz != nil {
			return nil, fmt.Errorf("%w: only quiz lessons carry a quiz definition", util.ErrValidation)
		}
		if err := s.Lessons.Create(lesson); err != nil {
			return nil, err
		}
		return lesson, nil
	}

	quiz, err := s.buildQuiz(courseID, req.Quiz)
	if err != nil {
		return nil, err
	}
	if err := s.Lessons.CreateWithQuiz(lesson, quiz); err != nil {
		return nil, err
	}
	lesson.Quiz = quiz
	return lesson, nil
}

func (s *CourseService) buildQuiz(courseID uint, req *QuizDefinitionRequest) (*model.Quiz, error) {
	if req == nil || len(req.Questions) == 0 {
		return nil, fmt.Errorf("%w: quiz lesson requires at least one question", util.ErrValidation)
	}
	if req.AssessmentType != model.AssessmentCAT && req.AssessmentType != model.AssessmentFinalExam {
		return nil, fmt.Errorf("%w: unknown assessment type %q", util.ErrValidation, req.AssessmentType)
	}
	if req.AssessmentType == model.AssessmentFinalExam {
		n, err := s.Lessons.FinalExamCount(courseID)
		if err != nil {
			return nil, err
		}
		if n > 0 {
			return nil, fmt.Errorf("%w: course already has a final exam", util.ErrValidation)
		}
	}

	quiz := &model.Quiz{AssessmentType: req.AssessmentType}
	for i, q := range req.Questions {
		question := model.QuizQuestion{
			QuestionType: q.QuestionType,
			Prompt:       q.Prompt,
			MaxMarks:     q.MaxMarks,
			Order:        i + 1,
		}
		if question.MaxMarks <= 0 {
			question.MaxMarks = 1
		}

		switch q.QuestionType {
		case model.QuestionMultipleChoice:
			if len(q.Options) < 2 {
				return nil, fmt.Errorf("%w: question %d needs at least two options", util.ErrValidation, i+1)
			}
			if q.CorrectAnswerIndex == nil || *q.CorrectAnswerIndex < 0 || *q.CorrectAnswerIndex >= len(q.Options) {
				return nil, fmt.Errorf("%w: question %d correct answer index out of range", util.ErrValidation, i+1)
			}
			optionsJSON, err := json.Marshal(q.Options)
			if err != nil {
				return nil, err
			}
			question.Options = optionsJSON
			question.CorrectAnswerIndex = q.CorrectAnswerIndex
		case model.QuestionFreeText:
			if q.CorrectAnswerIndex != nil {
				return nil, fmt.Errorf("%w: question %d free-text questions have no answer key", util.ErrValidation, i+1)
			}
		default:
			return nil, fmt.Errorf("%w: question %d has unknown type %q", util.ErrValidation, i+1, q.QuestionType)
		}

		quiz.Questions = append(quiz.Questions, question)
	}

	return quiz, nil
}

func (s *CourseService) PublishCourse(courseID uint) error {
	if _, err := s.Courses.FindByID(courseID); err != nil {
		return util.ErrNotFound
	}
	return s.Courses.Publish(courseID)
}

func (s *CourseService) ListCourses(page, limit int, publishedOnly bool) ([]model.Course, int64, error) {
	return s.Courses.List(page, limit, publishedOnly)
}

func (s *CourseService) GetCourse(courseID uint) (*model.Course, error) {
	course, err := s.Courses.FindByID(courseID)
	if err != nil {
		return nil, util.ErrNotFound
	}
	return course, nil
}

// Enroll creates the (learner, course) enrollment row.
func (s *CourseService) Enroll(userID, courseID uint) (*model.Enrollment, error) {
	course, err := s.Courses.FindByID(courseID)
	if err != nil {
		return nil, util.ErrNotFound
	}
	if !course.IsPublished {
		return nil, fmt.Errorf("%w: course is not published", util.ErrAccessDenied)
	}

	existing, err := s.Enrollments.Find(userID, courseID)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, util.ErrAlreadyEnrolled
	}

	now := time.Now()
	enrollment := &model.Enrollment{
		UserID:         userID,
		CourseID:       courseID,
		EnrolledAt:     now,
		LastAccessedAt: now,
	}
	if err := s.Enrollments.Create(enrollment); err != nil {
		return nil, err
	}
	return enrollment, nil
}

// LearnerView returns the course player state: catalog order with unlock,
// completion and pending flags derived from one consistent snapshot.
func (s *CourseService) LearnerView(userID, courseID uint) (*CourseProgress, error) {
	enrollment, err := s.Enrollments.Find(userID, courseID)
	if err != nil {
		return nil, err
	}
	if enrollment == nil {
		return nil, util.ErrNotEnrolled
	}
	return s.Progress.Snapshot(userID, courseID)
}

// SetLessonVideo stores the uploaded media URL and probed duration on a
// video lesson.
func (s *CourseService) SetLessonVideo(lessonID uint, url string, duration float64) (*model.Lesson, error) {
	lesson, err := s.Lessons.FindByID(lessonID)
	if err != nil {
		return nil, util.ErrNotFound
	}
	if lesson.ContentType != model.ContentVideo {
		return nil, fmt.Errorf("%w: lesson %d is not a video lesson", util.ErrValidation, lessonID)
	}
	lesson.VideoURL = url
	lesson.VideoDuration = duration
	if err := s.Lessons.Update(lesson); err != nil {
		return nil, err
	}
	return lesson, nil
}

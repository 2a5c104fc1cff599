package service

import (
	"encoding/json"
	"fmt"
	"os"
	"testing"

	"coursehub_backend/internal/config"
	"coursehub_backend/internal/model"
	"coursehub_backend/internal/util"

	"go.uber.org/zap"

	"coursehub_backend/pkg/logger"
)

func TestMain(m *testing.M) {
	logger.Log = zap.NewNop()
	os.Exit(m.Run())
}

func testPolicy() config.GradingConfig {
	return config.GradingConfig{
		QuizPassPercent: 70,
		CATWeight:       30,
		ExamWeight:      70,
		CoursePassScore: 70,
		MaxQuizAttempts: 2,
	}
}

func intPtr(v int) *int    { return &v }
func boolPtr(v bool) *bool { return &v }

func mcq(correct int, options ...string) model.QuizQuestion {
	raw, _ := json.Marshal(options)
	return model.QuizQuestion{
		QuestionType:       model.QuestionMultipleChoice,
		Options:            raw,
		CorrectAnswerIndex: intPtr(correct),
	}
}

func freeText() model.QuizQuestion {
	return model.QuizQuestion{QuestionType: model.QuestionFreeText}
}

func choose(index, option int) model.Answer {
	return model.Answer{
		QuestionIndex:  index,
		QuestionType:   model.QuestionMultipleChoice,
		SelectedOption: intPtr(option),
	}
}

func write(index int, text string) model.Answer {
	return model.Answer{
		QuestionIndex: index,
		QuestionType:  model.QuestionFreeText,
		AnswerText:    text,
	}
}

// fakeCatalog serves lessons keyed by course, ordered as inserted.
type fakeCatalog struct {
	lessons map[uint][]model.Lesson
}

func newFakeCatalog() *fakeCatalog {
	return &fakeCatalog{lessons: make(map[uint][]model.Lesson)}
}

func (f *fakeCatalog) add(lesson model.Lesson) {
	f.lessons[lesson.CourseID] = append(f.lessons[lesson.CourseID], lesson)
}

func (f *fakeCatalog) ListByCourse(courseID uint) ([]model.Lesson, error) {
	return f.lessons[courseID], nil
}

func (f *fakeCatalog) FindByID(id uint) (*model.Lesson, error) {
	for _, ls := range f.lessons {
		for i := range ls {
			if ls[i].ID == id {
				lesson := ls[i]
				return &lesson, nil
			}
		}
	}
	return nil, util.ErrNotFound
}

func (f *fakeCatalog) CATQuizCount(courseID uint) (int, error) {
	count := 0
	for _, l := range f.lessons[courseID] {
		if l.ContentType == model.ContentQuiz && l.Quiz != nil && l.Quiz.AssessmentType == model.AssessmentCAT {
			count++
		}
	}
	return count, nil
}

// fakeSubmissions keeps one quiz and one project submission per
// (user, lesson) and enforces the version check on updates, mirroring the
// conditional UPDATE in the gorm repository.
type fakeSubmissions struct {
	nextID   uint
	quizzes  map[string]*model.QuizSubmission
	projects map[string]*model.ProjectSubmission
}

func newFakeSubmissions() *fakeSubmissions {
	return &fakeSubmissions{
		nextID:   1,
		quizzes:  make(map[string]*model.QuizSubmission),
		projects: make(map[string]*model.ProjectSubmission),
	}
}

func subKey(userID, lessonID uint) string {
	return fmt.Sprintf("%d/%d", userID, lessonID)
}

func (f *fakeSubmissions) CreateQuizSubmission(s *model.QuizSubmission) error {
	s.ID = f.nextID
	f.nextID++
	if s.Version == 0 {
		s.Version = 1
	}
	cp := *s
	f.quizzes[subKey(s.UserID, s.LessonID)] = &cp
	return nil
}

func (f *fakeSubmissions) QuizSubmissionByLesson(userID, lessonID uint) (*model.QuizSubmission, error) {
	if s, ok := f.quizzes[subKey(userID, lessonID)]; ok {
		cp := *s
		return &cp, nil
	}
	return nil, nil
}

func (f *fakeSubmissions) QuizSubmissionByID(id uint) (*model.QuizSubmission, error) {
	for _, s := range f.quizzes {
		if s.ID == id {
			cp := *s
			return &cp, nil
		}
	}
	return nil, util.ErrNotFound
}

func (f *fakeSubmissions) UpdateQuizSubmission(s *model.QuizSubmission, expectedVersion int) error {
	current, ok := f.quizzes[subKey(s.UserID, s.LessonID)]
	if !ok || current.Version != expectedVersion {
		return util.ErrConflict
	}
	cp := *s
	cp.Version = expectedVersion + 1
	f.quizzes[subKey(s.UserID, s.LessonID)] = &cp
	s.Version = cp.Version
	return nil
}

func (f *fakeSubmissions) QuizSubmissionsByCourse(userID, courseID uint) ([]model.QuizSubmission, error) {
	var out []model.QuizSubmission
	for _, s := range f.quizzes {
		if s.UserID == userID && s.CourseID == courseID {
			out = append(out, *s)
		}
	}
	return out, nil
}

func (f *fakeSubmissions) CreateProjectSubmission(s *model.ProjectSubmission) error {
	s.ID = f.nextID
	f.nextID++
	if s.Version == 0 {
		s.Version = 1
	}
	cp := *s
	f.projects[subKey(s.UserID, s.LessonID)] = &cp
	return nil
}

func (f *fakeSubmissions) ProjectSubmissionByLesson(userID, lessonID uint) (*model.ProjectSubmission, error) {
	if s, ok := f.projects[subKey(userID, lessonID)]; ok {
		cp := *s
		return &cp, nil
	}
	return nil, nil
}

func (f *fakeSubmissions) ProjectSubmissionByID(id uint) (*model.ProjectSubmission, error) {
	for _, s := range f.projects {
		if s.ID == id {
			cp := *s
			return &cp, nil
		}
	}
	return nil, util.ErrNotFound
}

func (f *fakeSubmissions) UpdateProjectSubmission(s *model.ProjectSubmission, expectedVersion int) error {
	current, ok := f.projects[subKey(s.UserID, s.LessonID)]
	if !ok || current.Version != expectedVersion {
		return util.ErrConflict
	}
	cp := *s
	cp.Version = expectedVersion + 1
	f.projects[subKey(s.UserID, s.LessonID)] = &cp
	s.Version = cp.Version
	return nil
}

func (f *fakeSubmissions) ProjectSubmissionsByCourse(userID, courseID uint) ([]model.ProjectSubmission, error) {
	var out []model.ProjectSubmission
	for _, s := range f.projects {
		if s.UserID == userID && s.CourseID == courseID {
			out = append(out, *s)
		}
	}
	return out, nil
}

type fakeEnrollments struct {
	enrollments map[string]*model.Enrollment
	completions map[string][]uint
}

func newFakeEnrollments() *fakeEnrollments {
	return &fakeEnrollments{
		enrollments: make(map[string]*model.Enrollment),
		completions: make(map[string][]uint),
	}
}

func (f *fakeEnrollments) enroll(userID, courseID uint) {
	f.enrollments[subKey(userID, courseID)] = &model.Enrollment{
		UserID:   userID,
		CourseID: courseID,
	}
}

func (f *fakeEnrollments) Find(userID, courseID uint) (*model.Enrollment, error) {
	if e, ok := f.enrollments[subKey(userID, courseID)]; ok {
		cp := *e
		return &cp, nil
	}
	return nil, nil
}

func (f *fakeEnrollments) Update(e *model.Enrollment) error {
	cp := *e
	f.enrollments[subKey(e.UserID, e.CourseID)] = &cp
	return nil
}

func (f *fakeEnrollments) MarkLessonComplete(userID, courseID, lessonID uint) error {
	key := subKey(userID, courseID)
	for _, id := range f.completions[key] {
		if id == lessonID {
			return nil
		}
	}
	f.completions[key] = append(f.completions[key], lessonID)
	return nil
}

func (f *fakeEnrollments) CompletedLessonIDs(userID, courseID uint) ([]uint, error) {
	return f.completions[subKey(userID, courseID)], nil
}

type fakeCertificates struct {
	certs map[string]*model.Certificate
}

func newFakeCertificates() *fakeCertificates {
	return &fakeCertificates{certs: make(map[string]*model.Certificate)}
}

func (f *fakeCertificates) Create(c *model.Certificate) error {
	f.certs[subKey(c.UserID, c.CourseID)] = c
	return nil
}

func (f *fakeCertificates) Find(userID, courseID uint) (*model.Certificate, error) {
	if c, ok := f.certs[subKey(userID, courseID)]; ok {
		return c, nil
	}
	return nil, nil
}

// fakeCache counts invalidations; Get always misses so every test sees a
// freshly computed snapshot.
type fakeCache struct {
	invalidations int
}

func (f *fakeCache) Get(userID, courseID uint) (*model.GradeSnapshot, bool) { return nil, false }
func (f *fakeCache) Set(userID, courseID uint, snap *model.GradeSnapshot)   {}
func (f *fakeCache) Invalidate(userID, courseID uint)                       { f.invalidations++ }

package service

import (
	"coursehub_backend/internal/model"
	"coursehub_backend/internal/repository"
)

// DashboardService feeds the learner dashboard. All three activity feeds
// come straight from the submission store; nothing is synthesized from
// enrollment rows.
type DashboardService struct {
	Submissions *repository.SubmissionRepository
	Enrollments *repository.EnrollmentRepository
	Grades      *GradeService
}

func NewDashboardService(submissions *repository.SubmissionRepository, enrollments *repository.EnrollmentRepository, grades *GradeService) *DashboardService {
	return &DashboardService{
		Submissions: submissions,
		Enrollments: enrollments,
		Grades:      grades,
	}
}

type ActivityFeeds struct {
	Quizzes  []model.QuizSubmission    `json:"quizzes"`
	Exams    []model.QuizSubmission    `json:"exams"`
	Projects []model.ProjectSubmission `json:"projects"`
}

// Activity returns the learner's recent quiz, exam and project submissions.
func (s *DashboardService) Activity(userID uint, limit int) (*ActivityFeeds, error) {
	if limit <= 0 || limit > 50 {
		limit = 20
	}

	quizSubs, err := s.Submissions.QuizSubmissionsByUser(userID, limit)
	if err != nil {
		return nil, err
	}

	feeds := &ActivityFeeds{
		Quizzes: []model.QuizSubmission{},
		Exams:   []model.QuizSubmission{},
	}
	for _, sub := range quizSubs {
		if sub.AssessmentType == model.AssessmentFinalExam {
			feeds.Exams = append(feeds.Exams, sub)
		} else {
			feeds.Quizzes = append(feeds.Quizzes, sub)
		}
	}

	projects, err := s.Submissions.ProjectSubmissionsByUser(userID, limit)
	if err != nil {
		return nil, err
	}
	feeds.Projects = projects

	return feeds, nil
}

type EnrollmentSummary struct {
	Enrollment model.Enrollment     `json:"enrollment"`
	Grade      *model.GradeSnapshot `json:"grade"`
}

// Overview lists the learner's enrollments with their current grade
// snapshots.
func (s *DashboardService) Overview(userID uint) ([]EnrollmentSummary, error) {
	enrollments, err := s.Enrollments.ListByUser(userID)
	if err != nil {
		return nil, err
	}

	summaries := make([]EnrollmentSummary, 0, len(enrollments))
	for _, e := range enrollments {
		snap, err := s.Grades.Snapshot(userID, e.CourseID)
		if err != nil {
			return nil, err
		}
		summaries = append(summaries, EnrollmentSummary{Enrollment: e, Grade: snap})
	}
	return summaries, nil
}

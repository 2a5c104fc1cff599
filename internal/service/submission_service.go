package service

import (
	"encoding/json"
	"fmt"

	"coursehub_backend/internal/model"
	"coursehub_backend/internal/util"
	"coursehub_backend/pkg/logger"
	"coursehub_backend/pkg/monitoring"

	"go.uber.org/zap"
)

// SubmissionService orchestrates the submission workflow:
//
//	quiz:    submit -> (auto-grade -> graded) | pending_review -> graded
//	project: submit -> pending_review -> approved | rejected -> resubmit
//
// Reviewer writes and learner retakes are mutually exclusive; the store's
// version column serializes them, and a stale write surfaces as ErrConflict
// for the caller to retry with a fresh read. The service itself never
// retries.
type SubmissionService struct {
	Submissions SubmissionStore
	Lessons     LessonCatalog
	Enrollments EnrollmentStore
	Progress    *ProgressService
	Grades      *GradeService
	Grading     *GradingService
	Cache       GradeSnapshotCache
}

func NewSubmissionService(
	submissions SubmissionStore,
	lessons LessonCatalog,
	enrollments EnrollmentStore,
	progress *ProgressService,
	grades *GradeService,
	grading *GradingService,
	cache GradeSnapshotCache,
) *SubmissionService {
	return &SubmissionService{
		Submissions: submissions,
		Lessons:     lessons,
		Enrollments: enrollments,
		Progress:    progress,
		Grades:      grades,
		Grading:     grading,
		Cache:       cache,
	}
}

// CanApplyReview is the sole admission check before a reviewer write is
// accepted: only a submission still awaiting review may be graded.
func CanApplyReview(status model.SubmissionStatus) bool {
	return status == model.StatusPendingReview
}

type QuizSubmissionRequest struct {
	Answers        []model.Answer `json:"answers" binding:"required"`
	AttachmentURLs []string       `json:"attachmentUrls"`
}

// SubmitQuiz validates the answer set, grades it, and writes the submission.
// Fully auto-gradable quizzes resolve to graded immediately; a single
// free-text question parks the whole submission in pending_review. A failed
// auto-graded quiz may be retaken exactly once; the retake replaces the
// prior answer set in place.
func (s *SubmissionService) SubmitQuiz(userID, lessonID uint, req QuizSubmissionRequest) (*model.QuizSubmission, error) {
	lesson, err := s.Lessons.FindByID(lessonID)
	if err != nil {
		return nil, util.ErrNotFound
	}
	if lesson.ContentType != model.ContentQuiz || lesson.Quiz == nil {
		return nil, fmt.Errorf("%w: lesson %d is not a quiz", util.ErrValidation, lessonID)
	}

	if err := s.requireUnlocked(userID, lesson); err != nil {
		return nil, err
	}

	// Reject incomplete answer sets before touching the store.
	if err := s.Grading.ValidateAnswers(lesson.Quiz.Questions, req.Answers); err != nil {
		return nil, err
	}

	result, err := s.Grading.GradeQuiz(lesson.Quiz.Questions, req.Answers)
	if err != nil {
		return nil, err
	}

	answersJSON, err := json.Marshal(req.Answers)
	if err != nil {
		return nil, err
	}
	attachmentsJSON, err := json.Marshal(req.AttachmentURLs)
	if err != nil {
		return nil, err
	}

	existing, err := s.Submissions.QuizSubmissionByLesson(userID, lessonID)
	if err != nil {
		return nil, err
	}

	submission := existing
	if existing == nil {
		submission = &model.QuizSubmission{
			PublicID:       model.GenerateUUID(),
			UserID:         userID,
			LessonID:       lessonID,
			CourseID:       lesson.CourseID,
			QuizID:         lesson.Quiz.ID,
			AssessmentType: lesson.Quiz.AssessmentType,
			AttemptCount:   1,
		}
	} else {
		if err := s.admitRetake(existing); err != nil {
			return nil, err
		}
		submission.AttemptCount = existing.AttemptCount + 1
	}

	submission.Answers = answersJSON
	submission.AttachmentURLs = attachmentsJSON

	if result.RequiresManualReview {
		submission.Status = model.StatusPendingReview
		submission.Score = nil
		submission.Total = nil
		submission.IsPassed = nil
	} else {
		score, total := result.AutoScore, result.AutoTotal
		passed := s.Grading.IsQuizPass(score, total)
		submission.Status = model.StatusGraded
		submission.Score = &score
		submission.Total = &total
		submission.IsPassed = &passed
	}

	if existing == nil {
		if err := s.Submissions.CreateQuizSubmission(submission); err != nil {
			return nil, err
		}
	} else {
		// The version read above is the concurrency token: a racing retake
		// or reviewer write bumps it and this write fails instead of
		// dropping that decision.
		if err := s.Submissions.UpdateQuizSubmission(submission, existing.Version); err != nil {
			return nil, err
		}
	}

	monitoring.SubmissionsTotal.WithLabelValues("quiz", string(submission.Status)).Inc()
	logger.Log.Info("quiz submitted",
		zap.Uint("userId", userID),
		zap.Uint("lessonId", lessonID),
		zap.String("status", string(submission.Status)),
		zap.Int("attempt", submission.AttemptCount),
	)

	s.afterSubmissionChange(userID, lesson.CourseID)
	return submission, nil
}

// admitRetake enforces the retake policy against the current submission.
func (s *SubmissionService) admitRetake(existing *model.QuizSubmission) error {
	if existing.Status == model.StatusPendingReview {
		// A retake must not race a reviewer: the pending decision wins.
		return util.ErrReviewPending
	}
	if existing.IsPassed != nil && *existing.IsPassed {
		return util.ErrQuizAlreadyPassed
	}
	if existing.AttemptCount >= s.Grading.Policy().MaxQuizAttempts {
		return util.ErrRetakeExhausted
	}
	return nil
}

type ProjectSubmissionRequest struct {
	SubmissionText string   `json:"submissionText"`
	SubmissionURL  string   `json:"submissionUrl"`
	AttachmentURLs []string `json:"attachmentUrls"`
}

// SubmitProject always produces pending_review; there is no auto-approve
// path. After a rejection the learner may resubmit, replacing the record.
func (s *SubmissionService) SubmitProject(userID, lessonID uint, req ProjectSubmissionRequest) (*model.ProjectSubmission, error) {
	lesson, err := s.Lessons.FindByID(lessonID)
	if err != nil {
		return nil, util.ErrNotFound
	}
	if lesson.ContentType != model.ContentProject {
		return nil, fmt.Errorf("%w: lesson %d is not a project", util.ErrValidation, lessonID)
	}

	if err := s.requireUnlocked(userID, lesson); err != nil {
		return nil, err
	}

	if req.SubmissionText == "" && req.SubmissionURL == "" && len(req.AttachmentURLs) == 0 {
		return nil, fmt.Errorf("%w: project submission is empty", util.ErrValidation)
	}

	attachmentsJSON, err := json.Marshal(req.AttachmentURLs)
	if err != nil {
		return nil, err
	}

	existing, err := s.Submissions.ProjectSubmissionByLesson(userID, lessonID)
	if err != nil {
		return nil, err
	}

	submission := existing
	if existing == nil {
		submission = &model.ProjectSubmission{
			PublicID:     model.GenerateUUID(),
			UserID:       userID,
			LessonID:     lessonID,
			CourseID:     lesson.CourseID,
			AttemptCount: 1,
		}
	} else {
		switch existing.Status {
		case model.StatusPendingReview:
			return nil, util.ErrReviewPending
		case model.StatusApproved:
			return nil, fmt.Errorf("%w: project already approved", util.ErrValidation)
		}
		submission.AttemptCount = existing.AttemptCount + 1
		submission.Feedback = ""
	}

	submission.Status = model.StatusPendingReview
	submission.SubmissionText = req.SubmissionText
	submission.SubmissionURL = req.SubmissionURL
	submission.AttachmentURLs = attachmentsJSON

	if existing == nil {
		if err := s.Submissions.CreateProjectSubmission(submission); err != nil {
			return nil, err
		}
	} else {
		if err := s.Submissions.UpdateProjectSubmission(submission, existing.Version); err != nil {
			return nil, err
		}
	}

	monitoring.SubmissionsTotal.WithLabelValues("project", string(submission.Status)).Inc()
	logger.Log.Info("project submitted",
		zap.Uint("userId", userID),
		zap.Uint("lessonId", lessonID),
		zap.Int("attempt", submission.AttemptCount),
	)

	s.afterSubmissionChange(userID, lesson.CourseID)
	return submission, nil
}

type QuizReviewRequest struct {
	Score           int   `json:"score" binding:"min=0"`
	Total           int   `json:"total" binding:"required,min=1"`
	IsPassed        *bool `json:"isPassed"`
	ExpectedVersion int   `json:"expectedVersion"`
}

// ApplyQuizReview writes a reviewer's grading decision onto a pending quiz
// submission. The engine validates the reviewable state and the score
// bounds; when the reviewer leaves the pass flag unset it falls back to the
// quiz pass line.
func (s *SubmissionService) ApplyQuizReview(submissionID uint, req QuizReviewRequest) (*model.QuizSubmission, error) {
	submission, err := s.Submissions.QuizSubmissionByID(submissionID)
	if err != nil {
		return nil, err
	}
	if !CanApplyReview(submission.Status) {
		return nil, util.ErrNotReviewable
	}
	if req.Total <= 0 || req.Score < 0 || req.Score > req.Total {
		return nil, fmt.Errorf("%w: score %d out of range for total %d", util.ErrValidation, req.Score, req.Total)
	}

	expected := req.ExpectedVersion
	if expected == 0 {
		expected = submission.Version
	}

	passed := s.Grading.IsQuizPass(req.Score, req.Total)
	if req.IsPassed != nil {
		passed = *req.IsPassed
	}

	submission.Status = model.StatusGraded
	submission.Score = &req.Score
	submission.Total = &req.Total
	submission.IsPassed = &passed

	if err := s.Submissions.UpdateQuizSubmission(submission, expected); err != nil {
		return nil, err
	}

	monitoring.ReviewsAppliedTotal.WithLabelValues("quiz").Inc()
	logger.Log.Info("quiz review applied",
		zap.Uint("submissionId", submissionID),
		zap.Int("score", req.Score),
		zap.Int("total", req.Total),
		zap.Bool("passed", passed),
	)

	s.afterSubmissionChange(submission.UserID, submission.CourseID)
	return submission, nil
}

type ProjectReviewRequest struct {
	Approve         bool   `json:"approve"`
	Feedback        string `json:"feedback"`
	ExpectedVersion int    `json:"expectedVersion"`
}

// ReviewProject approves or rejects a pending project submission.
func (s *SubmissionService) ReviewProject(submissionID uint, req ProjectReviewRequest) (*model.ProjectSubmission, error) {
	submission, err := s.Submissions.ProjectSubmissionByID(submissionID)
	if err != nil {
		return nil, err
	}
	if !CanApplyReview(submission.Status) {
		return nil, util.ErrNotReviewable
	}

	expected := req.ExpectedVersion
	if expected == 0 {
		expected = submission.Version
	}

	if req.Approve {
		submission.Status = model.StatusApproved
	} else {
		submission.Status = model.StatusRejected
	}
	submission.Feedback = req.Feedback

	if err := s.Submissions.UpdateProjectSubmission(submission, expected); err != nil {
		return nil, err
	}

	monitoring.ReviewsAppliedTotal.WithLabelValues("project").Inc()
	logger.Log.Info("project review applied",
		zap.Uint("submissionId", submissionID),
		zap.String("status", string(submission.Status)),
	)

	s.afterSubmissionChange(submission.UserID, submission.CourseID)
	return submission, nil
}

func (s *SubmissionService) requireUnlocked(userID uint, lesson *model.Lesson) error {
	enrollment, err := s.Enrollments.Find(userID, lesson.CourseID)
	if err != nil {
		return err
	}
	if enrollment == nil {
		return util.ErrNotEnrolled
	}

	unlocked, err := s.Progress.Unlocked(userID, lesson)
	if err != nil {
		return err
	}
	if !unlocked {
		return util.ErrLessonLocked
	}
	return nil
}

// afterSubmissionChange invalidates the cached grade and re-derives the
// enrollment's completion and pass state. Failures here are logged, not
// surfaced: the submission write already succeeded and the derived state is
// recomputed on the next read.
func (s *SubmissionService) afterSubmissionChange(userID, courseID uint) {
	s.Cache.Invalidate(userID, courseID)

	if err := s.Progress.SyncCompletion(userID, courseID); err != nil {
		logger.Log.Error("sync completion failed",
			zap.Uint("userId", userID),
			zap.Uint("courseId", courseID),
			zap.Error(err),
		)
		return
	}

	if err := s.Grades.RefreshOutcome(userID, courseID); err != nil {
		logger.Log.Error("refresh grade outcome failed",
			zap.Uint("userId", userID),
			zap.Uint("courseId", courseID),
			zap.Error(err),
		)
	}
}

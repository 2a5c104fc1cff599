package service

import (
	"testing"

	"coursehub_backend/internal/model"
	"coursehub_backend/internal/util"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type submissionFixture struct {
	svc         *SubmissionService
	catalog     *fakeCatalog
	enrollments *fakeEnrollments
	submissions *fakeSubmissions
	cache       *fakeCache
}

func newSubmissionFixture() *submissionFixture {
	catalog := newFakeCatalog()
	enrollments := newFakeEnrollments()
	submissions := newFakeSubmissions()
	cache := &fakeCache{}
	grading := NewGradingService(testPolicy())
	progress := NewProgressService(catalog, enrollments, submissions)
	grades := NewGradeService(submissions, catalog, enrollments, cache, grading)

	return &submissionFixture{
		svc:         NewSubmissionService(submissions, catalog, enrollments, progress, grades, grading, cache),
		catalog:     catalog,
		enrollments: enrollments,
		submissions: submissions,
		cache:       cache,
	}
}

func TestSubmitQuizAutoGradesPass(t *testing.T) {
	f := newSubmissionFixture()
	f.enrollments.enroll(testUser, testCourse)
	f.catalog.add(quizLesson(1, 1, model.AssessmentCAT, mcq(0, "a", "b"), mcq(1, "x", "y")))

	sub, err := f.svc.SubmitQuiz(testUser, 1, QuizSubmissionRequest{
		Answers: []model.Answer{choose(0, 0), choose(1, 1)},
	})
	require.NoError(t, err)

	assert.Equal(t, model.StatusGraded, sub.Status)
	require.NotNil(t, sub.Score)
	assert.Equal(t, 2, *sub.Score)
	assert.Equal(t, 2, *sub.Total)
	require.NotNil(t, sub.IsPassed)
	assert.True(t, *sub.IsPassed)
	assert.Equal(t, 1, sub.AttemptCount)
	assert.NotEmpty(t, sub.PublicID)

	// The single quiz is the whole course, so completion is derived
	// immediately.
	e, _ := f.enrollments.Find(testUser, testCourse)
	assert.True(t, e.IsCompleted)
	assert.Equal(t, 1, f.cache.invalidations)
}

func TestSubmitQuizFreeTextParksPendingReview(t *testing.T) {
	f := newSubmissionFixture()
	f.enrollments.enroll(testUser, testCourse)
	f.catalog.add(quizLesson(1, 1, model.AssessmentCAT, mcq(0, "a", "b"), freeText()))

	sub, err := f.svc.SubmitQuiz(testUser, 1, QuizSubmissionRequest{
		Answers: []model.Answer{choose(0, 0), write(1, "an answer")},
	})
	require.NoError(t, err)

	assert.Equal(t, model.StatusPendingReview, sub.Status)
	assert.Nil(t, sub.Score)
	assert.Nil(t, sub.Total)
	assert.Nil(t, sub.IsPassed)
}

func TestSubmitQuizRequiresEnrollment(t *testing.T) {
	f := newSubmissionFixture()
	f.catalog.add(quizLesson(1, 1, model.AssessmentCAT, mcq(0, "a", "b")))

	_, err := f.svc.SubmitQuiz(testUser, 1, QuizSubmissionRequest{
		Answers: []model.Answer{choose(0, 0)},
	})
	assert.ErrorIs(t, err, util.ErrNotEnrolled)
}

func TestSubmitQuizLockedLesson(t *testing.T) {
	f := newSubmissionFixture()
	f.enrollments.enroll(testUser, testCourse)
	f.catalog.add(lesson(1, 1, model.ContentVideo))
	f.catalog.add(quizLesson(2, 2, model.AssessmentCAT, mcq(0, "a", "b")))

	_, err := f.svc.SubmitQuiz(testUser, 2, QuizSubmissionRequest{
		Answers: []model.Answer{choose(0, 0)},
	})
	assert.ErrorIs(t, err, util.ErrAccessDenied)
}

func TestSubmitQuizOnNonQuizLesson(t *testing.T) {
	f := newSubmissionFixture()
	f.enrollments.enroll(testUser, testCourse)
	f.catalog.add(lesson(1, 1, model.ContentVideo))

	_, err := f.svc.SubmitQuiz(testUser, 1, QuizSubmissionRequest{
		Answers: []model.Answer{choose(0, 0)},
	})
	assert.ErrorIs(t, err, util.ErrValidation)
}

func TestSubmitQuizIncompleteAnswersRejectedBeforeStore(t *testing.T) {
	f := newSubmissionFixture()
	f.enrollments.enroll(testUser, testCourse)
	f.catalog.add(quizLesson(1, 1, model.AssessmentCAT, mcq(0, "a", "b"), mcq(1, "x", "y")))

	_, err := f.svc.SubmitQuiz(testUser, 1, QuizSubmissionRequest{
		Answers: []model.Answer{choose(0, 0)},
	})
	assert.ErrorIs(t, err, util.ErrValidation)

	stored, err := f.submissions.QuizSubmissionByLesson(testUser, 1)
	require.NoError(t, err)
	assert.Nil(t, stored)
}

func TestSubmitQuizRetakePolicy(t *testing.T) {
	f := newSubmissionFixture()
	f.enrollments.enroll(testUser, testCourse)
	f.catalog.add(quizLesson(1, 1, model.AssessmentCAT, mcq(0, "a", "b"), mcq(0, "x", "y")))

	fail := QuizSubmissionRequest{Answers: []model.Answer{choose(0, 1), choose(1, 1)}}

	first, err := f.svc.SubmitQuiz(testUser, 1, fail)
	require.NoError(t, err)
	assert.False(t, *first.IsPassed)
	assert.Equal(t, 1, first.AttemptCount)

	second, err := f.svc.SubmitQuiz(testUser, 1, fail)
	require.NoError(t, err)
	assert.Equal(t, 2, second.AttemptCount)

	_, err = f.svc.SubmitQuiz(testUser, 1, fail)
	assert.ErrorIs(t, err, util.ErrRetakeExhausted)
}

func TestSubmitQuizRetakeAfterPassRejected(t *testing.T) {
	f := newSubmissionFixture()
	f.enrollments.enroll(testUser, testCourse)
	f.catalog.add(quizLesson(1, 1, model.AssessmentCAT, mcq(0, "a", "b")))

	pass := QuizSubmissionRequest{Answers: []model.Answer{choose(0, 0)}}
	_, err := f.svc.SubmitQuiz(testUser, 1, pass)
	require.NoError(t, err)

	_, err = f.svc.SubmitQuiz(testUser, 1, pass)
	assert.ErrorIs(t, err, util.ErrQuizAlreadyPassed)
}

func TestSubmitQuizRetakeWhilePendingRejected(t *testing.T) {
	f := newSubmissionFixture()
	f.enrollments.enroll(testUser, testCourse)
	f.catalog.add(quizLesson(1, 1, model.AssessmentCAT, freeText()))

	req := QuizSubmissionRequest{Answers: []model.Answer{write(0, "first try")}}
	_, err := f.svc.SubmitQuiz(testUser, 1, req)
	require.NoError(t, err)

	_, err = f.svc.SubmitQuiz(testUser, 1, req)
	assert.ErrorIs(t, err, util.ErrReviewPending)
}

func TestSubmitProjectLifecycle(t *testing.T) {
	f := newSubmissionFixture()
	f.enrollments.enroll(testUser, testCourse)
	f.catalog.add(lesson(1, 1, model.ContentProject))

	sub, err := f.svc.SubmitProject(testUser, 1, ProjectSubmissionRequest{
		SubmissionURL: "https://example.com/repo",
	})
	require.NoError(t, err)
	assert.Equal(t, model.StatusPendingReview, sub.Status)
	assert.Equal(t, 1, sub.AttemptCount)

	// Resubmitting while the first attempt awaits review races the
	// reviewer and is refused.
	_, err = f.svc.SubmitProject(testUser, 1, ProjectSubmissionRequest{SubmissionText: "again"})
	assert.ErrorIs(t, err, util.ErrConflict)

	// Rejection reopens the lesson; the resubmission starts a clean slate.
	_, err = f.svc.ReviewProject(sub.ID, ProjectReviewRequest{Approve: false, Feedback: "needs tests"})
	require.NoError(t, err)

	resub, err := f.svc.SubmitProject(testUser, 1, ProjectSubmissionRequest{SubmissionText: "with tests now"})
	require.NoError(t, err)
	assert.Equal(t, model.StatusPendingReview, resub.Status)
	assert.Equal(t, 2, resub.AttemptCount)
	assert.Empty(t, resub.Feedback)

	// Approval ends the lifecycle.
	_, err = f.svc.ReviewProject(resub.ID, ProjectReviewRequest{Approve: true})
	require.NoError(t, err)

	_, err = f.svc.SubmitProject(testUser, 1, ProjectSubmissionRequest{SubmissionText: "once more"})
	assert.ErrorIs(t, err, util.ErrValidation)
}

func TestSubmitProjectEmptyPayload(t *testing.T) {
	f := newSubmissionFixture()
	f.enrollments.enroll(testUser, testCourse)
	f.catalog.add(lesson(1, 1, model.ContentProject))

	_, err := f.svc.SubmitProject(testUser, 1, ProjectSubmissionRequest{})
	assert.ErrorIs(t, err, util.ErrValidation)
}

func TestApplyQuizReviewGradesPendingSubmission(t *testing.T) {
	f := newSubmissionFixture()
	f.enrollments.enroll(testUser, testCourse)
	f.catalog.add(quizLesson(1, 1, model.AssessmentCAT, mcq(0, "a", "b")))
	f.catalog.add(quizLesson(2, 2, model.AssessmentFinalExam, mcq(0, "a", "b"), freeText()))

	_, err := f.svc.SubmitQuiz(testUser, 1, QuizSubmissionRequest{
		Answers: []model.Answer{choose(0, 0)},
	})
	require.NoError(t, err)

	sub, err := f.svc.SubmitQuiz(testUser, 2, QuizSubmissionRequest{
		Answers: []model.Answer{choose(0, 0), write(1, "essay")},
	})
	require.NoError(t, err)
	require.Equal(t, model.StatusPendingReview, sub.Status)

	graded, err := f.svc.ApplyQuizReview(sub.ID, QuizReviewRequest{Score: 8, Total: 10})
	require.NoError(t, err)

	assert.Equal(t, model.StatusGraded, graded.Status)
	assert.Equal(t, 8, *graded.Score)
	assert.Equal(t, 10, *graded.Total)
	// 80% clears the default pass line without an explicit flag.
	require.NotNil(t, graded.IsPassed)
	assert.True(t, *graded.IsPassed)

	// The exam review decided the course: CAT 30 + exam 56 clears the
	// course pass line; completed and passed in one sweep.
	e, _ := f.enrollments.Find(testUser, testCourse)
	assert.True(t, e.IsCompleted)
	assert.InDelta(t, 86, e.FinalScore100, 1e-9)
	require.NotNil(t, e.IsPassed)
	assert.True(t, *e.IsPassed)
}

func TestApplyQuizReviewExplicitPassFlagWins(t *testing.T) {
	f := newSubmissionFixture()
	f.enrollments.enroll(testUser, testCourse)
	f.catalog.add(quizLesson(1, 1, model.AssessmentCAT, freeText()))

	sub, err := f.svc.SubmitQuiz(testUser, 1, QuizSubmissionRequest{
		Answers: []model.Answer{write(0, "borderline work")},
	})
	require.NoError(t, err)

	graded, err := f.svc.ApplyQuizReview(sub.ID, QuizReviewRequest{Score: 5, Total: 10, IsPassed: boolPtr(true)})
	require.NoError(t, err)
	assert.True(t, *graded.IsPassed)
}

func TestApplyQuizReviewScoreBounds(t *testing.T) {
	f := newSubmissionFixture()
	f.enrollments.enroll(testUser, testCourse)
	f.catalog.add(quizLesson(1, 1, model.AssessmentCAT, freeText()))

	sub, err := f.svc.SubmitQuiz(testUser, 1, QuizSubmissionRequest{
		Answers: []model.Answer{write(0, "text")},
	})
	require.NoError(t, err)

	for _, req := range []QuizReviewRequest{
		{Score: 11, Total: 10},
		{Score: -1, Total: 10},
		{Score: 1, Total: 0},
	} {
		_, err := f.svc.ApplyQuizReview(sub.ID, req)
		assert.ErrorIs(t, err, util.ErrValidation)
	}
}

func TestApplyQuizReviewOnlyPendingIsReviewable(t *testing.T) {
	f := newSubmissionFixture()
	f.enrollments.enroll(testUser, testCourse)
	f.catalog.add(quizLesson(1, 1, model.AssessmentCAT, mcq(0, "a", "b")))

	sub, err := f.svc.SubmitQuiz(testUser, 1, QuizSubmissionRequest{
		Answers: []model.Answer{choose(0, 0)},
	})
	require.NoError(t, err)
	require.Equal(t, model.StatusGraded, sub.Status)

	_, err = f.svc.ApplyQuizReview(sub.ID, QuizReviewRequest{Score: 1, Total: 1})
	assert.ErrorIs(t, err, util.ErrConflict)
}

func TestApplyQuizReviewStaleVersionConflicts(t *testing.T) {
	f := newSubmissionFixture()
	f.enrollments.enroll(testUser, testCourse)
	f.catalog.add(quizLesson(1, 1, model.AssessmentCAT, freeText()))

	sub, err := f.svc.SubmitQuiz(testUser, 1, QuizSubmissionRequest{
		Answers: []model.Answer{write(0, "text")},
	})
	require.NoError(t, err)

	_, err = f.svc.ApplyQuizReview(sub.ID, QuizReviewRequest{Score: 1, Total: 1, ExpectedVersion: sub.Version + 5})
	assert.ErrorIs(t, err, util.ErrConflict)

	// The current version still goes through.
	_, err = f.svc.ApplyQuizReview(sub.ID, QuizReviewRequest{Score: 1, Total: 1, ExpectedVersion: sub.Version})
	assert.NoError(t, err)
}

func TestReviewProjectNotReviewableTwice(t *testing.T) {
	f := newSubmissionFixture()
	f.enrollments.enroll(testUser, testCourse)
	f.catalog.add(lesson(1, 1, model.ContentProject))

	sub, err := f.svc.SubmitProject(testUser, 1, ProjectSubmissionRequest{SubmissionText: "work"})
	require.NoError(t, err)

	approved, err := f.svc.ReviewProject(sub.ID, ProjectReviewRequest{Approve: true})
	require.NoError(t, err)
	assert.Equal(t, model.StatusApproved, approved.Status)

	_, err = f.svc.ReviewProject(sub.ID, ProjectReviewRequest{Approve: false})
	assert.ErrorIs(t, err, util.ErrConflict)
}

// TestFullCourseJourney walks one learner through a whole course: a text
// lesson, a CAT quiz failed once and retaken, a project parked on review,
// and a final exam that decides the outcome.
func TestFullCourseJourney(t *testing.T) {
	f := newSubmissionFixture()
	f.enrollments.enroll(testUser, testCourse)
	f.catalog.add(lesson(1, 1, model.ContentText))
	f.catalog.add(quizLesson(2, 2, model.AssessmentCAT, mcq(0, "a", "b"), mcq(1, "x", "y")))
	f.catalog.add(lesson(3, 3, model.ContentProject))
	f.catalog.add(quizLesson(4, 4, model.AssessmentFinalExam, mcq(0, "a", "b")))

	// The quiz stays locked until the text lesson is done.
	_, err := f.svc.SubmitQuiz(testUser, 2, QuizSubmissionRequest{
		Answers: []model.Answer{choose(0, 0), choose(1, 1)},
	})
	assert.ErrorIs(t, err, util.ErrAccessDenied)

	require.NoError(t, f.svc.Progress.MarkComplete(testUser, 1))

	first, err := f.svc.SubmitQuiz(testUser, 2, QuizSubmissionRequest{
		Answers: []model.Answer{choose(0, 0), choose(1, 0)},
	})
	require.NoError(t, err)
	assert.False(t, *first.IsPassed)

	retake, err := f.svc.SubmitQuiz(testUser, 2, QuizSubmissionRequest{
		Answers: []model.Answer{choose(0, 0), choose(1, 1)},
	})
	require.NoError(t, err)
	assert.True(t, *retake.IsPassed)
	assert.Equal(t, 2, retake.AttemptCount)

	// A pending project unlocks the exam without waiting on the reviewer.
	proj, err := f.svc.SubmitProject(testUser, 3, ProjectSubmissionRequest{
		SubmissionURL: "https://example.com/capstone",
	})
	require.NoError(t, err)
	assert.Equal(t, model.StatusPendingReview, proj.Status)

	exam, err := f.svc.SubmitQuiz(testUser, 4, QuizSubmissionRequest{
		Answers: []model.Answer{choose(0, 0)},
	})
	require.NoError(t, err)
	assert.Equal(t, model.StatusGraded, exam.Status)

	// Perfect CAT (30) plus perfect exam (70).
	e, _ := f.enrollments.Find(testUser, testCourse)
	assert.True(t, e.IsCompleted)
	assert.InDelta(t, 100, e.FinalScore100, 1e-9)
	require.NotNil(t, e.IsPassed)
	assert.True(t, *e.IsPassed)

	// The reviewer's verdict lands later and does not disturb the outcome.
	_, err = f.svc.ReviewProject(proj.ID, ProjectReviewRequest{Approve: true})
	require.NoError(t, err)

	e, _ = f.enrollments.Find(testUser, testCourse)
	assert.True(t, *e.IsPassed)
}

func TestCanApplyReview(t *testing.T) {
	assert.True(t, CanApplyReview(model.StatusPendingReview))
	assert.False(t, CanApplyReview(model.StatusGraded))
	assert.False(t, CanApplyReview(model.StatusApproved))
	assert.False(t, CanApplyReview(model.StatusRejected))
}

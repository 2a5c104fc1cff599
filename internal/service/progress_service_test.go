package service

import (
	"testing"

	"coursehub_backend/internal/model"
	"coursehub_backend/internal/util"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const (
	testUser   uint = 1
	testCourse uint = 10
)

func lesson(id uint, step int, contentType model.ContentType) model.Lesson {
	l := model.Lesson{
		CourseID:    testCourse,
		StepNumber:  step,
		ContentType: contentType,
	}
	l.ID = id
	return l
}

func quizLesson(id uint, step int, assessment model.AssessmentType, questions ...model.QuizQuestion) model.Lesson {
	l := lesson(id, step, model.ContentQuiz)
	quiz := &model.Quiz{
		LessonID:       id,
		CourseID:       testCourse,
		AssessmentType: assessment,
		Questions:      questions,
	}
	quiz.ID = id
	l.Quiz = quiz
	return l
}

func newProgressFixture() (*ProgressService, *fakeCatalog, *fakeEnrollments, *fakeSubmissions) {
	catalog := newFakeCatalog()
	enrollments := newFakeEnrollments()
	submissions := newFakeSubmissions()
	svc := NewProgressService(catalog, enrollments, submissions)
	return svc, catalog, enrollments, submissions
}

func TestIsUnlockedFirstLessonAlways(t *testing.T) {
	lessons := []model.Lesson{lesson(1, 1, model.ContentVideo), lesson(2, 2, model.ContentText)}
	assert.True(t, IsUnlocked(0, lessons, map[uint]bool{}, map[uint]bool{}))
	assert.False(t, IsUnlocked(1, lessons, map[uint]bool{}, map[uint]bool{}))
}

func TestIsUnlockedPreviewBypassesGating(t *testing.T) {
	preview := lesson(3, 3, model.ContentVideo)
	preview.IsPreview = true
	lessons := []model.Lesson{lesson(1, 1, model.ContentVideo), lesson(2, 2, model.ContentText), preview}

	assert.True(t, IsUnlocked(2, lessons, map[uint]bool{}, map[uint]bool{}))
}

func TestIsUnlockedPreviousCompletedOrPending(t *testing.T) {
	lessons := []model.Lesson{lesson(1, 1, model.ContentVideo), lesson(2, 2, model.ContentQuiz), lesson(3, 3, model.ContentText)}

	assert.True(t, IsUnlocked(1, lessons, map[uint]bool{1: true}, map[uint]bool{}))
	// A submission awaiting review unlocks the next lesson too.
	assert.True(t, IsUnlocked(2, lessons, map[uint]bool{1: true}, map[uint]bool{2: true}))
	assert.False(t, IsUnlocked(2, lessons, map[uint]bool{1: true}, map[uint]bool{}))
}

func TestIsUnlockedIndexOutOfRange(t *testing.T) {
	lessons := []model.Lesson{lesson(1, 1, model.ContentVideo)}
	assert.False(t, IsUnlocked(-1, lessons, map[uint]bool{}, map[uint]bool{}))
	assert.False(t, IsUnlocked(1, lessons, map[uint]bool{}, map[uint]bool{}))
}

func TestSnapshotDerivesStateFromAllSources(t *testing.T) {
	svc, catalog, enrollments, submissions := newProgressFixture()
	enrollments.enroll(testUser, testCourse)

	catalog.add(lesson(1, 1, model.ContentVideo))
	catalog.add(quizLesson(2, 2, model.AssessmentCAT, mcq(0, "a", "b")))
	catalog.add(lesson(3, 3, model.ContentProject))
	catalog.add(lesson(4, 4, model.ContentText))

	require.NoError(t, enrollments.MarkLessonComplete(testUser, testCourse, 1))
	require.NoError(t, submissions.CreateQuizSubmission(&model.QuizSubmission{
		UserID: testUser, LessonID: 2, CourseID: testCourse,
		Status: model.StatusGraded, Score: intPtr(1), Total: intPtr(1), IsPassed: boolPtr(true),
	}))
	require.NoError(t, submissions.CreateProjectSubmission(&model.ProjectSubmission{
		UserID: testUser, LessonID: 3, CourseID: testCourse,
		Status: model.StatusPendingReview,
	}))

	progress, err := svc.Snapshot(testUser, testCourse)
	require.NoError(t, err)

	assert.Equal(t, 4, progress.TotalLessons)
	assert.Equal(t, 3, progress.CompletedOrPending)
	assert.False(t, progress.IsCompleted)

	assert.True(t, progress.Lessons[0].Completed)
	assert.True(t, progress.Lessons[1].Completed)
	assert.True(t, progress.Lessons[2].PendingReview)
	assert.False(t, progress.Lessons[3].Completed)
	// Lesson 4 is reachable because lesson 3 is pending review.
	assert.True(t, progress.Lessons[3].Unlocked)
}

func TestSnapshotGradedFailedQuizStillCompletes(t *testing.T) {
	svc, catalog, enrollments, submissions := newProgressFixture()
	enrollments.enroll(testUser, testCourse)

	catalog.add(quizLesson(1, 1, model.AssessmentCAT, mcq(0, "a", "b")))
	require.NoError(t, submissions.CreateQuizSubmission(&model.QuizSubmission{
		UserID: testUser, LessonID: 1, CourseID: testCourse,
		Status: model.StatusGraded, Score: intPtr(0), Total: intPtr(1), IsPassed: boolPtr(false),
	}))

	progress, err := svc.Snapshot(testUser, testCourse)
	require.NoError(t, err)
	assert.True(t, progress.Lessons[0].Completed)
	assert.True(t, progress.IsCompleted)
}

func TestSnapshotRejectedProjectDoesNotComplete(t *testing.T) {
	svc, catalog, enrollments, submissions := newProgressFixture()
	enrollments.enroll(testUser, testCourse)

	catalog.add(lesson(1, 1, model.ContentProject))
	require.NoError(t, submissions.CreateProjectSubmission(&model.ProjectSubmission{
		UserID: testUser, LessonID: 1, CourseID: testCourse,
		Status: model.StatusRejected,
	}))

	progress, err := svc.Snapshot(testUser, testCourse)
	require.NoError(t, err)
	assert.False(t, progress.Lessons[0].Completed)
	assert.False(t, progress.Lessons[0].PendingReview)
	assert.False(t, progress.IsCompleted)
}

func TestSnapshotEmptyCourseIsNotCompleted(t *testing.T) {
	svc, _, enrollments, _ := newProgressFixture()
	enrollments.enroll(testUser, testCourse)

	progress, err := svc.Snapshot(testUser, testCourse)
	require.NoError(t, err)
	assert.False(t, progress.IsCompleted)
	assert.Equal(t, 0, progress.TotalLessons)
}

func TestMarkCompleteRejectsSubmissionLessons(t *testing.T) {
	svc, catalog, enrollments, _ := newProgressFixture()
	enrollments.enroll(testUser, testCourse)
	catalog.add(quizLesson(1, 1, model.AssessmentCAT, mcq(0, "a", "b")))

	err := svc.MarkComplete(testUser, 1)
	assert.ErrorIs(t, err, util.ErrValidation)
}

func TestMarkCompleteRequiresEnrollment(t *testing.T) {
	svc, catalog, _, _ := newProgressFixture()
	catalog.add(lesson(1, 1, model.ContentVideo))

	err := svc.MarkComplete(testUser, 1)
	assert.ErrorIs(t, err, util.ErrNotEnrolled)
}

func TestMarkCompleteRejectsLockedLesson(t *testing.T) {
	svc, catalog, enrollments, _ := newProgressFixture()
	enrollments.enroll(testUser, testCourse)
	catalog.add(lesson(1, 1, model.ContentVideo))
	catalog.add(lesson(2, 2, model.ContentText))

	err := svc.MarkComplete(testUser, 2)
	assert.ErrorIs(t, err, util.ErrAccessDenied)
}

func TestMarkCompleteUnknownLesson(t *testing.T) {
	svc, _, _, _ := newProgressFixture()
	err := svc.MarkComplete(testUser, 99)
	assert.ErrorIs(t, err, util.ErrNotFound)
}

func TestSyncCompletionSetsFlagAndNeverReverts(t *testing.T) {
	svc, catalog, enrollments, _ := newProgressFixture()
	enrollments.enroll(testUser, testCourse)
	catalog.add(lesson(1, 1, model.ContentVideo))

	require.NoError(t, enrollments.MarkLessonComplete(testUser, testCourse, 1))
	require.NoError(t, svc.SyncCompletion(testUser, testCourse))

	e, err := enrollments.Find(testUser, testCourse)
	require.NoError(t, err)
	assert.True(t, e.IsCompleted)
	require.NotNil(t, e.CompletedAt)
	completedAt := *e.CompletedAt

	// Adding a new lesson afterwards must not clear the flag.
	catalog.add(lesson(2, 2, model.ContentText))
	require.NoError(t, svc.SyncCompletion(testUser, testCourse))

	e, err = enrollments.Find(testUser, testCourse)
	require.NoError(t, err)
	assert.True(t, e.IsCompleted)
	assert.Equal(t, completedAt, *e.CompletedAt)
}

package service

import (
	"fmt"
	"time"

	"coursehub_backend/internal/model"
	"coursehub_backend/internal/util"
)

// ProgressService is the lesson sequencer: it decides which lessons a
// learner may access, applies the per-content-type completion policy, and
// flips the enrollment's completion flag once every lesson has been
// completed or submitted for review.
type ProgressService struct {
	Lessons     LessonCatalog
	Enrollments EnrollmentStore
	Submissions SubmissionStore
}

func NewProgressService(lessons LessonCatalog, enrollments EnrollmentStore, submissions SubmissionStore) *ProgressService {
	return &ProgressService{
		Lessons:     lessons,
		Enrollments: enrollments,
		Submissions: submissions,
	}
}

// LessonState is the per-lesson view the course player renders.
type LessonState struct {
	Lesson        *model.Lesson `json:"lesson"`
	Unlocked      bool          `json:"unlocked"`
	Completed     bool          `json:"completed"`
	PendingReview bool          `json:"pendingReview"`
}

// CourseProgress is a consistent snapshot of one learner's standing in a
// course, fetched once per request.
type CourseProgress struct {
	CourseID           uint          `json:"courseId"`
	Lessons            []LessonState `json:"lessons"`
	TotalLessons       int           `json:"totalLessons"`
	CompletedOrPending int           `json:"completedOrPending"`
	IsCompleted        bool          `json:"isCompleted"`
}

// IsUnlocked applies the gating rule: the first lesson is always unlocked,
// preview lessons are always unlocked, and otherwise a lesson opens once the
// immediately preceding lesson is completed or pending review. Pending
// counts so a learner is never blocked on reviewer latency.
func IsUnlocked(index int, lessons []model.Lesson, completed, pending map[uint]bool) bool {
	if index < 0 || index >= len(lessons) {
		return false
	}
	if index == 0 {
		return true
	}
	if lessons[index].IsPreview {
		return true
	}
	prev := lessons[index-1].ID
	return completed[prev] || pending[prev]
}

// Snapshot loads the catalog, the learner's submissions and direct
// completions exactly once and derives unlock/completion state from that
// single read, so no lesson is observed in two different states within one
// request.
func (s *ProgressService) Snapshot(userID, courseID uint) (*CourseProgress, error) {
	lessons, err := s.Lessons.ListByCourse(courseID)
	if err != nil {
		return nil, err
	}

	completed, pending, err := s.completionSets(userID, courseID)
	if err != nil {
		return nil, err
	}

	progress := &CourseProgress{
		CourseID:     courseID,
		TotalLessons: len(lessons),
		Lessons:      make([]LessonState, len(lessons)),
	}

	seen := make(map[uint]bool, len(lessons))
	for i := range lessons {
		lesson := lessons[i]
		state := LessonState{
			Lesson:        &lesson,
			Unlocked:      IsUnlocked(i, lessons, completed, pending),
			Completed:     completed[lesson.ID],
			PendingReview: pending[lesson.ID],
		}
		if (state.Completed || state.PendingReview) && !seen[lesson.ID] {
			seen[lesson.ID] = true
			progress.CompletedOrPending++
		}
		progress.Lessons[i] = state
	}

	progress.IsCompleted = progress.TotalLessons > 0 &&
		progress.CompletedOrPending >= progress.TotalLessons

	return progress, nil
}

// MarkComplete records a direct learner completion. Only content types that
// do not require a submission may be marked this way; quiz and project
// completion is owned by the submission workflow.
func (s *ProgressService) MarkComplete(userID, lessonID uint) error {
	lesson, err := s.Lessons.FindByID(lessonID)
	if err != nil {
		return util.ErrNotFound
	}

	if lesson.ContentType.RequiresSubmission() {
		return fmt.Errorf("%w: %s lessons are completed through submission", util.ErrValidation, lesson.ContentType)
	}

	enrollment, err := s.Enrollments.Find(userID, lesson.CourseID)
	if err != nil {
		return err
	}
	if enrollment == nil {
		return util.ErrNotEnrolled
	}

	progress, err := s.Snapshot(userID, lesson.CourseID)
	if err != nil {
		return err
	}
	if !s.lessonUnlocked(progress, lessonID) {
		return util.ErrLessonLocked
	}

	if err := s.Enrollments.MarkLessonComplete(userID, lesson.CourseID, lessonID); err != nil {
		return err
	}

	return s.SyncCompletion(userID, lesson.CourseID)
}

// SyncCompletion re-derives the enrollment completion flag after any
// progress event. Completion is permissive: pending-review work counts, and
// the flag never reverts once set.
func (s *ProgressService) SyncCompletion(userID, courseID uint) error {
	enrollment, err := s.Enrollments.Find(userID, courseID)
	if err != nil {
		return err
	}
	if enrollment == nil {
		return util.ErrNotEnrolled
	}

	enrollment.LastAccessedAt = time.Now()

	if !enrollment.IsCompleted {
		progress, err := s.Snapshot(userID, courseID)
		if err != nil {
			return err
		}
		if progress.IsCompleted {
			now := time.Now()
			enrollment.IsCompleted = true
			enrollment.CompletedAt = &now
		}
	}

	return s.Enrollments.Update(enrollment)
}

// Unlocked reports whether one lesson is accessible to the learner, used as
// the submission workflow's admission check.
func (s *ProgressService) Unlocked(userID uint, lesson *model.Lesson) (bool, error) {
	progress, err := s.Snapshot(userID, lesson.CourseID)
	if err != nil {
		return false, err
	}
	return s.lessonUnlocked(progress, lesson.ID), nil
}

func (s *ProgressService) lessonUnlocked(progress *CourseProgress, lessonID uint) bool {
	for _, state := range progress.Lessons {
		if state.Lesson.ID == lessonID {
			return state.Unlocked
		}
	}
	return false
}

// completionSets derives the completed and pending lesson-id sets from the
// three progress sources: direct completion marks, quiz submissions
// (graded completes, pending review is provisional) and project submissions
// (approved completes, pending review is provisional, rejected is neither).
func (s *ProgressService) completionSets(userID, courseID uint) (completed, pending map[uint]bool, err error) {
	completed = make(map[uint]bool)
	pending = make(map[uint]bool)

	ids, err := s.Enrollments.CompletedLessonIDs(userID, courseID)
	if err != nil {
		return nil, nil, err
	}
	for _, id := range ids {
		completed[id] = true
	}

	quizSubs, err := s.Submissions.QuizSubmissionsByCourse(userID, courseID)
	if err != nil {
		return nil, nil, err
	}
	for _, sub := range quizSubs {
		switch sub.Status {
		case model.StatusGraded:
			completed[sub.LessonID] = true
		case model.StatusPendingReview:
			pending[sub.LessonID] = true
		}
	}

	projectSubs, err := s.Submissions.ProjectSubmissionsByCourse(userID, courseID)
	if err != nil {
		return nil, nil, err
	}
	for _, sub := range projectSubs {
		switch sub.Status {
		case model.StatusApproved:
			completed[sub.LessonID] = true
		case model.StatusPendingReview:
			pending[sub.LessonID] = true
		}
	}

	return completed, pending, nil
}

package service

import (
	"coursehub_backend/internal/model"
	"coursehub_backend/internal/util"
)

// GradeService is the grade aggregator: it folds the continuous-assessment
// quiz scores and the final-exam score into the 0-100 composite, decides the
// course pass flag, and owns the single certificate-eligibility gate.
type GradeService struct {
	Submissions SubmissionStore
	Lessons     LessonCatalog
	Enrollments EnrollmentStore
	Cache       GradeSnapshotCache
	Grading     *GradingService
}

func NewGradeService(submissions SubmissionStore, lessons LessonCatalog, enrollments EnrollmentStore, cache GradeSnapshotCache, grading *GradingService) *GradeService {
	return &GradeService{
		Submissions: submissions,
		Lessons:     lessons,
		Enrollments: enrollments,
		Cache:       cache,
		Grading:     grading,
	}
}

// ComputeGrade derives a snapshot from the CAT submissions and the final
// exam submission. Weights are distributed evenly across the course's
// configured CAT count so the CAT pool tops out at exactly its weight; an
// ungraded CAT contributes 0 without shrinking the denominator, so pending
// work can only suppress the composite, never inflate it.
func (s *GradeService) ComputeGrade(catSubs []model.QuizSubmission, finalSub *model.QuizSubmission, catCount int) model.GradeSnapshot {
	policy := s.Grading.Policy()
	var snap model.GradeSnapshot

	if catCount > 0 {
		weight := policy.CATWeight / float64(catCount)
		for _, sub := range catSubs {
			if sub.Status != model.StatusGraded || sub.Score == nil || sub.Total == nil || *sub.Total <= 0 {
				continue
			}
			snap.CATScaled30 += float64(*sub.Score) / float64(*sub.Total) * weight
		}
	}

	if finalSub != nil {
		snap.HasFinalExam = true
		snap.FinalExamPendingReview = finalSub.Status == model.StatusPendingReview
		snap.FinalExamGraded = finalSub.Status == model.StatusGraded
		if snap.FinalExamGraded && finalSub.Score != nil && finalSub.Total != nil && *finalSub.Total > 0 {
			snap.ExamScaled70 = float64(*finalSub.Score) / float64(*finalSub.Total) * policy.ExamWeight
		}
	}

	snap.FinalScore100 = clamp(snap.CATScaled30+snap.ExamScaled70, 0, 100)
	return snap
}

// Snapshot fetches the learner's submissions once and computes the grade,
// consulting the cache first.
func (s *GradeService) Snapshot(userID, courseID uint) (*model.GradeSnapshot, error) {
	if cached, ok := s.Cache.Get(userID, courseID); ok {
		return cached, nil
	}

	subs, err := s.Submissions.QuizSubmissionsByCourse(userID, courseID)
	if err != nil {
		return nil, err
	}

	var catSubs []model.QuizSubmission
	var finalSub *model.QuizSubmission
	for i := range subs {
		switch subs[i].AssessmentType {
		case model.AssessmentFinalExam:
			finalSub = &subs[i]
		default:
			catSubs = append(catSubs, subs[i])
		}
	}

	catCount, err := s.Lessons.CATQuizCount(courseID)
	if err != nil {
		return nil, err
	}

	snap := s.ComputeGrade(catSubs, finalSub, catCount)
	s.Cache.Set(userID, courseID, &snap)
	return &snap, nil
}

// RefreshOutcome re-derives the enrollment's final score and pass flag.
// IsPassed stays nil until the enrollment is completed and the final exam
// has been graded; completion and passing are independent flags.
func (s *GradeService) RefreshOutcome(userID, courseID uint) error {
	enrollment, err := s.Enrollments.Find(userID, courseID)
	if err != nil {
		return err
	}
	if enrollment == nil {
		return util.ErrNotEnrolled
	}

	snap, err := s.Snapshot(userID, courseID)
	if err != nil {
		return err
	}

	enrollment.FinalScore100 = snap.FinalScore100
	if enrollment.IsCompleted && snap.FinalExamGraded {
		passed := snap.FinalScore100 >= s.Grading.Policy().CoursePassScore
		enrollment.IsPassed = &passed
	} else {
		enrollment.IsPassed = nil
	}

	return s.Enrollments.Update(enrollment)
}

// IsCertificateEligible is the single authoritative certificate gate: the
// enrollment must be completed and strictly passed. A nil pass flag (exam
// still pending) is not eligible.
func (s *GradeService) IsCertificateEligible(enrollment *model.Enrollment, snap *model.GradeSnapshot) bool {
	if enrollment == nil || snap == nil {
		return false
	}
	if !enrollment.IsCompleted {
		return false
	}
	return enrollment.IsPassed != nil && *enrollment.IsPassed
}

func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

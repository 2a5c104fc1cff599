package model

// GradeSnapshot is derived on demand from the CAT submissions and the
// final-exam submission of one (learner, course); it is never persisted.
//
// swagger:model GradeSnapshot
type GradeSnapshot struct {
	CATScaled30            float64 `json:"catScaled30"`
	ExamScaled70           float64 `json:"examScaled70"`
	FinalScore100          float64 `json:"finalScore100"`
	HasFinalExam           bool    `json:"hasFinalExam"`
	FinalExamPendingReview bool    `json:"finalExamPendingReview"`
	FinalExamGraded        bool    `json:"finalExamGraded"`
}

package model

import (
	"encoding/json"
)

type SubmissionStatus string

const (
	StatusPendingReview SubmissionStatus = "pending_review"
	StatusGraded        SubmissionStatus = "graded"
	StatusApproved      SubmissionStatus = "approved"
	StatusRejected      SubmissionStatus = "rejected"
)

// Answer is one captured response inside a quiz submission. Exactly one of
// SelectedOption (multiple_choice) or AnswerText (free_text) is set.
type Answer struct {
	QuestionIndex  int          `json:"questionIndex"`
	QuestionType   QuestionType `json:"questionType"`
	SelectedOption *int         `json:"selectedOption,omitempty"`
	AnswerText     string       `json:"answerText,omitempty"`
}

// QuizSubmission is the single current submission per (user, lesson). A
// retake replaces the row content in place; Version is the optimistic
// concurrency token checked on every write.
//
// swagger:model QuizSubmission
type QuizSubmission struct {
	BaseModel
	PublicID       string           `gorm:"size:36;uniqueIndex" json:"publicId"`
	UserID         uint             `gorm:"uniqueIndex:idx_user_lesson_quiz;index;type:bigint unsigned" json:"userId"`
	LessonID       uint             `gorm:"uniqueIndex:idx_user_lesson_quiz;type:bigint unsigned" json:"lessonId"`
	CourseID       uint             `gorm:"index;type:bigint unsigned" json:"courseId"`
	QuizID         uint             `gorm:"index;type:bigint unsigned" json:"quizId"`
	AssessmentType AssessmentType   `gorm:"size:20;not null" json:"assessmentType"`
	Status         SubmissionStatus `gorm:"size:20;not null" json:"status"`
	Answers        json.RawMessage  `gorm:"type:json" json:"answers"`
	// Score and Total are both non-nil iff Status is graded.
	Score          *int            `json:"score"`
	Total          *int            `json:"total"`
	IsPassed       *bool           `json:"isPassed"`
	AttachmentURLs json.RawMessage `gorm:"type:json" json:"attachmentUrls,omitempty"`
	// AttemptCount is the server-authoritative retake counter.
	AttemptCount int `gorm:"default:1" json:"attemptCount"`
	Version      int `gorm:"default:1" json:"version"`
}

func (QuizSubmission) TableName() string {
	return "quiz_submissions"
}

func (s *QuizSubmission) DecodedAnswers() ([]Answer, error) {
	var answers []Answer
	if len(s.Answers) == 0 {
		return answers, nil
	}
	err := json.Unmarshal(s.Answers, &answers)
	return answers, err
}

// ProjectSubmission always requires manual review; there is no auto-grade
// path. A rejected project may be resubmitted, replacing the row content.
//
// swagger:model ProjectSubmission
type ProjectSubmission struct {
	BaseModel
	PublicID       string           `gorm:"size:36;uniqueIndex" json:"publicId"`
	UserID         uint             `gorm:"uniqueIndex:idx_user_lesson_project;index;type:bigint unsigned" json:"userId"`
	LessonID       uint             `gorm:"uniqueIndex:idx_user_lesson_project;type:bigint unsigned" json:"lessonId"`
	CourseID       uint             `gorm:"index;type:bigint unsigned" json:"courseId"`
	Status         SubmissionStatus `gorm:"size:20;not null" json:"status"`
	SubmissionText string           `gorm:"type:text" json:"submissionText"`
	SubmissionURL  string           `gorm:"size:255" json:"submissionUrl"`
	AttachmentURLs json.RawMessage  `gorm:"type:json" json:"attachmentUrls,omitempty"`
	Feedback       string           `gorm:"type:text" json:"feedback"`
	AttemptCount   int              `gorm:"default:1" json:"attemptCount"`
	Version        int              `gorm:"default:1" json:"version"`
}

func (ProjectSubmission) TableName() string {
	return "project_submissions"
}

package model

import "encoding/json"

// AssessmentType distinguishes continuous-assessment quizzes, which share a
// 30-point pool, from the final exam worth 70 points of the course grade.
type AssessmentType string

const (
	AssessmentCAT       AssessmentType = "cat"
	AssessmentFinalExam AssessmentType = "final_exam"
)

type QuestionType string

const (
	QuestionMultipleChoice QuestionType = "multiple_choice"
	QuestionFreeText       QuestionType = "free_text"
)

// swagger:model Quiz
type Quiz struct {
	BaseModel
	LessonID       uint           `gorm:"uniqueIndex;type:bigint unsigned" json:"lessonId"`
	CourseID       uint           `gorm:"index;type:bigint unsigned" json:"courseId"`
	AssessmentType AssessmentType `gorm:"size:20;not null;default:'cat'" json:"assessmentType"`
	Questions      []QuizQuestion `gorm:"foreignKey:QuizID" json:"questions,omitempty"`
}

func (Quiz) TableName() string {
	return "quizzes"
}

// swagger:model QuizQuestion
type QuizQuestion struct {
	BaseModel
	QuizID       uint         `gorm:"index;type:bigint unsigned" json:"quizId"`
	QuestionType QuestionType `gorm:"size:30;not null" json:"questionType"`
	Prompt       string       `gorm:"type:text;not null" json:"prompt"`
	// Options is a JSON array of option labels for multiple-choice questions.
	Options json.RawMessage `gorm:"type:json" json:"options,omitempty"`
	// CorrectAnswerIndex is zero-based and only set for multiple-choice
	// questions; free-text questions are graded by a reviewer.
	CorrectAnswerIndex *int `gorm:"type:int" json:"-"`
	MaxMarks           int  `gorm:"default:1" json:"maxMarks"`
	Order              int  `gorm:"default:0" json:"order"`
}

func (QuizQuestion) TableName() string {
	return "quiz_questions"
}

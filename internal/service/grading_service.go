package service

import (
	"encoding/json"
	"fmt"
	"math"
	"strings"
	"sync"

	"coursehub_backend/internal/config"
	"coursehub_backend/internal/model"
	"coursehub_backend/internal/util"
)

// GradingService holds the assessment policy and implements the grading
// rules: objective scoring of multiple-choice answers and the decision
// whether a submission needs a human reviewer. It owns no storage; all
// methods are pure over their inputs.
type GradingService struct {
	mu     sync.RWMutex
	policy config.GradingConfig
}

func NewGradingService(policy config.GradingConfig) *GradingService {
	return &GradingService{policy: policy}
}

// UpdatePolicy is invoked by the config watcher when grading knobs change.
func (s *GradingService) UpdatePolicy(policy config.GradingConfig) {
	s.mu.Lock()
	s.policy = policy
	s.mu.Unlock()
}

func (s *GradingService) Policy() config.GradingConfig {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.policy
}

// AutoGradeResult is the outcome of running the grading rules over one
// answer set.
type AutoGradeResult struct {
	AutoScore            int  `json:"autoScore"`
	AutoTotal            int  `json:"autoTotal"`
	RequiresManualReview bool `json:"requiresManualReview"`
}

// GradeQuiz scores the multiple-choice questions of a quiz against the
// learner's answers. AutoTotal counts the multiple-choice questions;
// AutoScore increments once per question whose selected option equals the
// question's correct answer index. A missing or out-of-range correct answer
// index never matches and never panics. The presence of any free-text
// question forces manual review of the whole submission, regardless of the
// multiple-choice outcome.
func (s *GradingService) GradeQuiz(questions []model.QuizQuestion, answers []model.Answer) (AutoGradeResult, error) {
	var res AutoGradeResult
	if len(questions) == 0 {
		return res, fmt.Errorf("%w: quiz has no questions", util.ErrValidation)
	}

	byIndex := make(map[int]model.Answer, len(answers))
	for _, a := range answers {
		byIndex[a.QuestionIndex] = a
	}

	for i, q := range questions {
		switch q.QuestionType {
		case model.QuestionFreeText:
			res.RequiresManualReview = true
		case model.QuestionMultipleChoice:
			res.AutoTotal++
			key := q.CorrectAnswerIndex
			if key == nil || *key < 0 {
				continue
			}
			if n := optionCount(q); n > 0 && *key >= n {
				continue
			}
			a, ok := byIndex[i]
			if !ok || a.SelectedOption == nil {
				continue
			}
			if *a.SelectedOption == *key {
				res.AutoScore++
			}
		}
	}

	return res, nil
}

// ValidateAnswers rejects an incomplete answer set before it reaches the
// workflow: every question must be answered, multiple-choice with a selected
// index and free-text with non-empty trimmed text.
func (s *GradingService) ValidateAnswers(questions []model.QuizQuestion, answers []model.Answer) error {
	if len(questions) == 0 {
		return fmt.Errorf("%w: quiz has no questions", util.ErrValidation)
	}

	byIndex := make(map[int]model.Answer, len(answers))
	for _, a := range answers {
		byIndex[a.QuestionIndex] = a
	}

	for i, q := range questions {
		a, ok := byIndex[i]
		if !ok {
			return fmt.Errorf("%w: question %d is unanswered", util.ErrValidation, i+1)
		}
		switch q.QuestionType {
		case model.QuestionMultipleChoice:
			if a.SelectedOption == nil {
				return fmt.Errorf("%w: question %d has no selected option", util.ErrValidation, i+1)
			}
			if n := optionCount(q); n > 0 && (*a.SelectedOption < 0 || *a.SelectedOption >= n) {
				return fmt.Errorf("%w: question %d selected option out of range", util.ErrValidation, i+1)
			}
		case model.QuestionFreeText:
			if strings.TrimSpace(a.AnswerText) == "" {
				return fmt.Errorf("%w: question %d answer text is empty", util.ErrValidation, i+1)
			}
		default:
			return fmt.Errorf("%w: question %d has unknown type %q", util.ErrValidation, i+1, q.QuestionType)
		}
	}

	return nil
}

// Percentage rounds score/total to the nearest whole percent. Total 0
// yields 0 rather than dividing by zero.
func (s *GradingService) Percentage(score, total int) int {
	if total <= 0 {
		return 0
	}
	return int(math.Round(float64(score) / float64(total) * 100))
}

// IsQuizPass applies the quiz pass line (default 70%).
func (s *GradingService) IsQuizPass(score, total int) bool {
	return s.Percentage(score, total) >= s.Policy().QuizPassPercent
}

func optionCount(q model.QuizQuestion) int {
	if len(q.Options) == 0 {
		return 0
	}
	var opts []json.RawMessage
	if err := json.Unmarshal(q.Options, &opts); err != nil {
		return 0
	}
	return len(opts)
}

package service

import (
	"testing"

	"coursehub_backend/internal/model"
	"coursehub_backend/internal/util"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGradeQuizAllCorrect(t *testing.T) {
	svc := NewGradingService(testPolicy())

	questions := []model.QuizQuestion{
		mcq(1, "a", "b", "c"),
		mcq(0, "x", "y"),
	}
	answers := []model.Answer{choose(0, 1), choose(1, 0)}

	res, err := svc.GradeQuiz(questions, answers)
	require.NoError(t, err)
	assert.Equal(t, 2, res.AutoScore)
	assert.Equal(t, 2, res.AutoTotal)
	assert.False(t, res.RequiresManualReview)
}

func TestGradeQuizWrongAnswersScoreZero(t *testing.T) {
	svc := NewGradingService(testPolicy())

	questions := []model.QuizQuestion{mcq(2, "a", "b", "c")}
	res, err := svc.GradeQuiz(questions, []model.Answer{choose(0, 0)})
	require.NoError(t, err)
	assert.Equal(t, 0, res.AutoScore)
	assert.Equal(t, 1, res.AutoTotal)
}

func TestGradeQuizFreeTextForcesManualReview(t *testing.T) {
	svc := NewGradingService(testPolicy())

	questions := []model.QuizQuestion{
		mcq(0, "a", "b"),
		freeText(),
	}
	answers := []model.Answer{choose(0, 0), write(1, "because channels block")}

	res, err := svc.GradeQuiz(questions, answers)
	require.NoError(t, err)
	assert.True(t, res.RequiresManualReview)
	// The objective part is still scored so a reviewer starts from it.
	assert.Equal(t, 1, res.AutoScore)
	assert.Equal(t, 1, res.AutoTotal)
}

func TestGradeQuizNoQuestionsIsValidationError(t *testing.T) {
	svc := NewGradingService(testPolicy())

	_, err := svc.GradeQuiz(nil, nil)
	assert.ErrorIs(t, err, util.ErrValidation)
}

func TestGradeQuizBadCorrectIndexNeverMatches(t *testing.T) {
	svc := NewGradingService(testPolicy())

	nilKey := mcq(0, "a", "b")
	nilKey.CorrectAnswerIndex = nil

	questions := []model.QuizQuestion{
		nilKey,
		mcq(-1, "a", "b"),
		mcq(5, "a", "b"),
	}
	answers := []model.Answer{choose(0, 0), choose(1, 0), choose(2, 1)}

	res, err := svc.GradeQuiz(questions, answers)
	require.NoError(t, err)
	assert.Equal(t, 0, res.AutoScore)
	assert.Equal(t, 3, res.AutoTotal)
}

func TestGradeQuizUnansweredQuestionScoresZero(t *testing.T) {
	svc := NewGradingService(testPolicy())

	questions := []model.QuizQuestion{mcq(0, "a", "b"), mcq(1, "a", "b")}
	res, err := svc.GradeQuiz(questions, []model.Answer{choose(0, 0)})
	require.NoError(t, err)
	assert.Equal(t, 1, res.AutoScore)
	assert.Equal(t, 2, res.AutoTotal)
}

func TestValidateAnswers(t *testing.T) {
	svc := NewGradingService(testPolicy())
	questions := []model.QuizQuestion{mcq(0, "a", "b"), freeText()}

	tests := []struct {
		name    string
		answers []model.Answer
		wantErr bool
	}{
		{"complete", []model.Answer{choose(0, 1), write(1, "text")}, false},
		{"missing answer", []model.Answer{choose(0, 1)}, true},
		{"no selected option", []model.Answer{{QuestionIndex: 0}, write(1, "text")}, true},
		{"option out of range", []model.Answer{choose(0, 7), write(1, "text")}, true},
		{"blank free text", []model.Answer{choose(0, 1), write(1, "   ")}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := svc.ValidateAnswers(questions, tt.answers)
			if tt.wantErr {
				assert.ErrorIs(t, err, util.ErrValidation)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestPercentageAndPassLine(t *testing.T) {
	svc := NewGradingService(testPolicy())

	assert.Equal(t, 0, svc.Percentage(3, 0))
	assert.Equal(t, 67, svc.Percentage(2, 3))
	assert.Equal(t, 70, svc.Percentage(7, 10))

	assert.True(t, svc.IsQuizPass(7, 10))
	assert.False(t, svc.IsQuizPass(2, 3))
	assert.True(t, svc.IsQuizPass(3, 4))
}

func TestUpdatePolicyIsPickedUp(t *testing.T) {
	svc := NewGradingService(testPolicy())
	assert.False(t, svc.IsQuizPass(1, 2))

	policy := testPolicy()
	policy.QuizPassPercent = 50
	svc.UpdatePolicy(policy)

	assert.True(t, svc.IsQuizPass(1, 2))
}

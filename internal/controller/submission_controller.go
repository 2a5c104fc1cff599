package controller

import (
	"coursehub_backend/internal/service"
	"coursehub_backend/internal/util"

	"github.com/gin-gonic/gin"
)

type SubmissionController struct {
	Service *service.SubmissionService
}

func NewSubmissionController(svc *service.SubmissionService) *SubmissionController {
	return &SubmissionController{Service: svc}
}

// @Summary Submit quiz answers
// @Tags submissions
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "lesson id"
// @Param body body service.QuizSubmissionRequest true "answer set"
// @Success 201 {object} util.Response
// @Router /api/lessons/{id}/quiz/submit [post]
func (c *SubmissionController) SubmitQuiz(ctx *gin.Context) {
	user := util.GetUserFromContext(ctx)
	if user == nil {
		util.Unauthorized(ctx)
		return
	}

	var req service.QuizSubmissionRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	lessonID := util.MustParseUint(ctx.Param("id"))
	submission, err := c.Service.SubmitQuiz(user.UserID, lessonID, req)
	if err != nil {
		util.FromError(ctx, err)
		return
	}

	util.Created(ctx, submission)
}

// @Summary Submit a project
// @Tags submissions
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "lesson id"
// @Param body body service.ProjectSubmissionRequest true "project content"
// @Success 201 {object} util.Response
// @Router /api/lessons/{id}/project/submit [post]
func (c *SubmissionController) SubmitProject(ctx *gin.Context) {
	user := util.GetUserFromContext(ctx)
	if user == nil {
		util.Unauthorized(ctx)
		return
	}

	var req service.ProjectSubmissionRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	lessonID := util.MustParseUint(ctx.Param("id"))
	submission, err := c.Service.SubmitProject(user.UserID, lessonID, req)
	if err != nil {
		util.FromError(ctx, err)
		return
	}

	util.Created(ctx, submission)
}

// @Summary Current submission for a lesson
// @Tags submissions
// @Produce json
// @Security BearerAuth
// @Param id path int true "lesson id"
// @Success 200 {object} util.Response
// @Router /api/lessons/{id}/submission [get]
func (c *SubmissionController) GetSubmission(ctx *gin.Context) {
	user := util.GetUserFromContext(ctx)
	if user == nil {
		util.Unauthorized(ctx)
		return
	}

	lessonID := util.MustParseUint(ctx.Param("id"))

	quizSub, err := c.Service.Submissions.QuizSubmissionByLesson(user.UserID, lessonID)
	if err != nil {
		util.LogInternalError(ctx, err)
		return
	}
	if quizSub != nil {
		util.Success(ctx, quizSub)
		return
	}

	projectSub, err := c.Service.Submissions.ProjectSubmissionByLesson(user.UserID, lessonID)
	if err != nil {
		util.LogInternalError(ctx, err)
		return
	}
	if projectSub != nil {
		util.Success(ctx, projectSub)
		return
	}

	util.NotFound(ctx)
}

package controller

import (
	"strconv"

	"coursehub_backend/internal/repository"
	"coursehub_backend/internal/service"
	"coursehub_backend/internal/util"

	"github.com/gin-gonic/gin"
)

// ReviewController is the reviewer action surface: it lists pending work
// and writes grading decisions onto reviewable submissions.
type ReviewController struct {
	Service     *service.SubmissionService
	Submissions *repository.SubmissionRepository
}

func NewReviewController(svc *service.SubmissionService, submissions *repository.SubmissionRepository) *ReviewController {
	return &ReviewController{Service: svc, Submissions: submissions}
}

// @Summary Pending quiz submissions awaiting review
// @Tags review
// @Produce json
// @Security BearerAuth
// @Param page query int false "page"
// @Param limit query int false "limit"
// @Success 200 {object} util.Response
// @Router /api/review/quizzes [get]
func (c *ReviewController) PendingQuizzes(ctx *gin.Context) {
	page, _ := strconv.Atoi(ctx.DefaultQuery("page", "1"))
	limit, _ := strconv.Atoi(ctx.DefaultQuery("limit", "20"))
	if page < 1 {
		page = 1
	}
	if limit < 1 || limit > 100 {
		limit = 20
	}

	subs, total, err := c.Submissions.PendingQuizSubmissions(page, limit)
	if err != nil {
		util.LogInternalError(ctx, err)
		return
	}

	util.Success(ctx, util.PageResponse{List: subs, Total: total, Page: page, Limit: limit})
}

// @Summary Pending project submissions awaiting review
// @Tags review
// @Produce json
// @Security BearerAuth
// @Param page query int false "page"
// @Param limit query int false "limit"
// @Success 200 {object} util.Response
// @Router /api/review/projects [get]
func (c *ReviewController) PendingProjects(ctx *gin.Context) {
	page, _ := strconv.Atoi(ctx.DefaultQuery("page", "1"))
	limit, _ := strconv.Atoi(ctx.DefaultQuery("limit", "20"))
	if page < 1 {
		page = 1
	}
	if limit < 1 || limit > 100 {
		limit = 20
	}

	subs, total, err := c.Submissions.PendingProjectSubmissions(page, limit)
	if err != nil {
		util.LogInternalError(ctx, err)
		return
	}

	util.Success(ctx, util.PageResponse{List: subs, Total: total, Page: page, Limit: limit})
}

// @Summary Apply a grading decision to a pending quiz submission
// @Tags review
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "submission id"
// @Param body body service.QuizReviewRequest true "grading decision"
// @Success 200 {object} util.Response
// @Router /api/review/quizzes/{id} [post]
func (c *ReviewController) ReviewQuiz(ctx *gin.Context) {
	var req service.QuizReviewRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	id := util.MustParseUint(ctx.Param("id"))
	submission, err := c.Service.ApplyQuizReview(id, req)
	if err != nil {
		util.FromError(ctx, err)
		return
	}

	util.Success(ctx, submission)
}

// @Summary Approve or reject a pending project submission
// @Tags review
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "submission id"
// @Param body body service.ProjectReviewRequest true "review decision"
// @Success 200 {object} util.Response
// @Router /api/review/projects/{id} [post]
func (c *ReviewController) ReviewProject(ctx *gin.Context) {
	var req service.ProjectReviewRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	id := util.MustParseUint(ctx.Param("id"))
	submission, err := c.Service.ReviewProject(id, req)
	if err != nil {
		util.FromError(ctx, err)
		return
	}

	util.Success(ctx, submission)
}

package controller

import (
	"strconv"

	"coursehub_backend/internal/service"
	"coursehub_backend/internal/util"

	"github.com/gin-gonic/gin"
)

type CourseController struct {
	Courses  *service.CourseService
	Progress *service.ProgressService
}

func NewCourseController(courses *service.CourseService, progress *service.ProgressService) *CourseController {
	return &CourseController{Courses: courses, Progress: progress}
}

// @Summary List published courses
// @Tags courses
// @Produce json
// @Security BearerAuth
// @Param page query int false "page"
// @Param limit query int false "limit"
// @Success 200 {object} util.Response
// @Router /api/courses [get]
func (c *CourseController) ListCourses(ctx *gin.Context) {
	page, _ := strconv.Atoi(ctx.DefaultQuery("page", "1"))
	limit, _ := strconv.Atoi(ctx.DefaultQuery("limit", "20"))
	if page < 1 {
		page = 1
	}
	if limit < 1 || limit > 100 {
		limit = 20
	}

	courses, total, err := c.Courses.ListCourses(page, limit, true)
	if err != nil {
		util.LogInternalError(ctx, err)
		return
	}

	util.Success(ctx, util.PageResponse{List: courses, Total: total, Page: page, Limit: limit})
}

// @Summary Course details
// @Tags courses
// @Produce json
// @Security BearerAuth
// @Param id path int true "course id"
// @Success 200 {object} util.Response
// @Router /api/courses/{id} [get]
func (c *CourseController) GetCourse(ctx *gin.Context) {
	id := util.MustParseUint(ctx.Param("id"))
	course, err := c.Courses.GetCourse(id)
	if err != nil {
		util.FromError(ctx, err)
		return
	}
	util.Success(ctx, course)
}

// @Summary Enroll in a course
// @Tags courses
// @Produce json
// @Security BearerAuth
// @Param id path int true "course id"
// @Success 201 {object} util.Response
// @Router /api/courses/{id}/enroll [post]
func (c *CourseController) Enroll(ctx *gin.Context) {
	user := util.GetUserFromContext(ctx)
	if user == nil {
		util.Unauthorized(ctx)
		return
	}

	courseID := util.MustParseUint(ctx.Param("id"))
	enrollment, err := c.Courses.Enroll(user.UserID, courseID)
	if err != nil {
		util.FromError(ctx, err)
		return
	}

	util.Created(ctx, enrollment)
}

// @Summary Course player view: lessons with unlock and completion state
// @Tags courses
// @Produce json
// @Security BearerAuth
// @Param id path int true "course id"
// @Success 200 {object} util.Response
// @Router /api/courses/{id}/lessons [get]
func (c *CourseController) LearnerView(ctx *gin.Context) {
	user := util.GetUserFromContext(ctx)
	if user == nil {
		util.Unauthorized(ctx)
		return
	}

	courseID := util.MustParseUint(ctx.Param("id"))
	progress, err := c.Courses.LearnerView(user.UserID, courseID)
	if err != nil {
		util.FromError(ctx, err)
		return
	}

	util.Success(ctx, progress)
}

// @Summary Mark a non-submission lesson complete
// @Tags courses
// @Produce json
// @Security BearerAuth
// @Param id path int true "lesson id"
// @Success 200 {object} util.Response
// @Router /api/lessons/{id}/complete [post]
func (c *CourseController) MarkComplete(ctx *gin.Context) {
	user := util.GetUserFromContext(ctx)
	if user == nil {
		util.Unauthorized(ctx)
		return
	}

	lessonID := util.MustParseUint(ctx.Param("id"))
	if err := c.Progress.MarkComplete(user.UserID, lessonID); err != nil {
		util.FromError(ctx, err)
		return
	}

	util.Success(ctx, gin.H{"lessonId": lessonID, "completed": true})
}

package controller

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"

	"coursehub_backend/internal/service"
	"coursehub_backend/internal/util"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// AdminController exposes the authoring surface: creating courses, appending
// lessons, publishing, and attaching lesson videos.
type AdminController struct {
	Courses *service.CourseService
	Storage *service.StorageService
}

func NewAdminController(courses *service.CourseService, storage *service.StorageService) *AdminController {
	return &AdminController{Courses: courses, Storage: storage}
}

// @Summary Create a course
// @Tags admin
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body service.CourseCreateRequest true "course payload"
// @Success 201 {object} util.Response
// @Router /api/admin/courses [post]
func (c *AdminController) CreateCourse(ctx *gin.Context) {
	user := util.GetUserFromContext(ctx)
	if user == nil {
		util.Unauthorized(ctx)
		return
	}

	var req service.CourseCreateRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	course, err := c.Courses.CreateCourse(user.UserID, req)
	if err != nil {
		util.FromError(ctx, err)
		return
	}

	util.Created(ctx, course)
}

// @Summary Append a lesson to a course
// @Tags admin
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "course id"
// @Param request body service.LessonCreateRequest true "lesson payload"
// @Success 201 {object} util.Response
// @Router /api/admin/courses/{id}/lessons [post]
func (c *AdminController) AddLesson(ctx *gin.Context) {
	courseID := util.MustParseUint(ctx.Param("id"))

	var req service.LessonCreateRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	lesson, err := c.Courses.AddLesson(courseID, req)
	if err != nil {
		util.FromError(ctx, err)
		return
	}

	util.Created(ctx, lesson)
}

// @Summary Publish a course
// @Tags admin
// @Produce json
// @Security BearerAuth
// @Param id path int true "course id"
// @Success 200 {object} util.Response
// @Router /api/admin/courses/{id}/publish [post]
func (c *AdminController) PublishCourse(ctx *gin.Context) {
	courseID := util.MustParseUint(ctx.Param("id"))

	if err := c.Courses.PublishCourse(courseID); err != nil {
		util.FromError(ctx, err)
		return
	}

	util.Success(ctx, gin.H{"published": true})
}

// @Summary Upload a lesson video
// @Tags admin
// @Accept multipart/form-data
// @Produce json
// @Security BearerAuth
// @Param id path int true "lesson id"
// @Param file formData file true "video file"
// @Success 200 {object} util.Response
// @Router /api/admin/lessons/{id}/video [post]
func (c *AdminController) UploadLessonVideo(ctx *gin.Context) {
	lessonID := util.MustParseUint(ctx.Param("id"))

	fileHeader, err := ctx.FormFile("file")
	if err != nil {
		util.BadRequest(ctx, "video file is required")
		return
	}

	src, err := fileHeader.Open()
	if err != nil {
		util.LogInternalError(ctx, err)
		return
	}
	defer src.Close()

	mimeType, err := util.ValidateMimeType(src, []string{util.MimeVideo})
	if err != nil {
		util.BadRequest(ctx, "unsupported video format")
		return
	}

	// ffprobe needs a file on disk, so stage the upload in a temp path first.
	tmpPath := filepath.Join(os.TempDir(), uuid.NewString()+filepath.Ext(fileHeader.Filename))
	if err := ctx.SaveUploadedFile(fileHeader, tmpPath); err != nil {
		util.LogInternalError(ctx, err)
		return
	}
	defer os.Remove(tmpPath)

	info, err := util.GetVideoInfo(tmpPath)
	if err != nil {
		util.BadRequest(ctx, "could not read video metadata")
		return
	}

	objectName := fmt.Sprintf("lessons/%s/%s%s", strconv.FormatUint(uint64(lessonID), 10), uuid.NewString(), filepath.Ext(fileHeader.Filename))
	url, err := c.Storage.UploadFile(ctx.Request.Context(), objectName, tmpPath, mimeType)
	if err != nil {
		util.LogInternalError(ctx, err)
		return
	}

	lesson, err := c.Courses.SetLessonVideo(lessonID, url, info.Duration)
	if err != nil {
		util.FromError(ctx, err)
		return
	}

	util.Success(ctx, gin.H{"lesson": lesson, "video": info})
}

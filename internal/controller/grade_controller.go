package controller

import (
	"coursehub_backend/internal/service"
	"coursehub_backend/internal/util"

	"github.com/gin-gonic/gin"
)

type GradeController struct {
	Grades       *service.GradeService
	Certificates *service.CertificateService
}

func NewGradeController(grades *service.GradeService, certificates *service.CertificateService) *GradeController {
	return &GradeController{Grades: grades, Certificates: certificates}
}

// @Summary Grade snapshot for a course
// @Tags grades
// @Produce json
// @Security BearerAuth
// @Param id path int true "course id"
// @Success 200 {object} util.Response
// @Router /api/courses/{id}/grade [get]
func (c *GradeController) GetGrade(ctx *gin.Context) {
	user := util.GetUserFromContext(ctx)
	if user == nil {
		util.Unauthorized(ctx)
		return
	}

	courseID := util.MustParseUint(ctx.Param("id"))
	snapshot, err := c.Grades.Snapshot(user.UserID, courseID)
	if err != nil {
		util.FromError(ctx, err)
		return
	}

	util.Success(ctx, snapshot)
}

// @Summary Certificate state for a course
// @Tags certificates
// @Produce json
// @Security BearerAuth
// @Param id path int true "course id"
// @Success 200 {object} util.Response
// @Router /api/courses/{id}/certificate [get]
func (c *GradeController) GetCertificate(ctx *gin.Context) {
	user := util.GetUserFromContext(ctx)
	if user == nil {
		util.Unauthorized(ctx)
		return
	}

	courseID := util.MustParseUint(ctx.Param("id"))
	view, err := c.Certificates.Get(user.UserID, courseID)
	if err != nil {
		util.FromError(ctx, err)
		return
	}

	util.Success(ctx, view)
}

// @Summary Issue the certificate once eligible
// @Tags certificates
// @Produce json
// @Security BearerAuth
// @Param id path int true "course id"
// @Success 201 {object} util.Response
// @Router /api/courses/{id}/certificate [post]
func (c *GradeController) IssueCertificate(ctx *gin.Context) {
	user := util.GetUserFromContext(ctx)
	if user == nil {
		util.Unauthorized(ctx)
		return
	}

	courseID := util.MustParseUint(ctx.Param("id"))
	cert, err := c.Certificates.Issue(user.UserID, courseID)
	if err != nil {
		util.FromError(ctx, err)
		return
	}

	util.Created(ctx, cert)
}

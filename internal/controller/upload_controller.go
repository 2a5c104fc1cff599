package controller

import (
	"fmt"
	"path/filepath"

	"coursehub_backend/internal/service"
	"coursehub_backend/internal/util"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// UploadController handles generic file uploads used as project submission
// attachments (archives, PDFs, images).
type UploadController struct {
	Storage *service.StorageService
}

func NewUploadController(storage *service.StorageService) *UploadController {
	return &UploadController{Storage: storage}
}

var allowedAttachmentTypes = []string{
	util.MimeImage,
	util.MimePDF,
	"application/zip",
	"application/x-gzip",
	"text/plain",
}

// @Summary Upload a project attachment
// @Tags uploads
// @Accept multipart/form-data
// @Produce json
// @Security BearerAuth
// @Param file formData file true "attachment"
// @Success 201 {object} util.Response
// @Router /api/uploads [post]
func (c *UploadController) Upload(ctx *gin.Context) {
	user := util.GetUserFromContext(ctx)
	if user == nil {
		util.Unauthorized(ctx)
		return
	}

	fileHeader, err := ctx.FormFile("file")
	if err != nil {
		util.BadRequest(ctx, "file is required")
		return
	}

	src, err := fileHeader.Open()
	if err != nil {
		util.LogInternalError(ctx, err)
		return
	}
	defer src.Close()

	mimeType, err := util.ValidateMimeType(src, allowedAttachmentTypes)
	if err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}
	if _, err := src.Seek(0, 0); err != nil {
		util.LogInternalError(ctx, err)
		return
	}

	objectName := fmt.Sprintf("attachments/%d/%s%s", user.UserID, uuid.NewString(), filepath.Ext(fileHeader.Filename))
	url, err := c.Storage.Upload(ctx.Request.Context(), objectName, src, fileHeader.Size, mimeType)
	if err != nil {
		util.LogInternalError(ctx, err)
		return
	}

	util.Created(ctx, gin.H{"url": url, "contentType": mimeType, "size": fileHeader.Size})
}

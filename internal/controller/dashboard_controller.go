package controller

import (
	"strconv"

	"coursehub_backend/internal/service"
	"coursehub_backend/internal/util"

	"github.com/gin-gonic/gin"
)

type DashboardController struct {
	Dashboard *service.DashboardService
}

func NewDashboardController(dashboard *service.DashboardService) *DashboardController {
	return &DashboardController{Dashboard: dashboard}
}

// @Summary Recent submission activity for the current user
// @Tags dashboard
// @Produce json
// @Security BearerAuth
// @Param limit query int false "max items per feed" default(20)
// @Success 200 {object} util.Response
// @Router /api/dashboard/activity [get]
func (c *DashboardController) Activity(ctx *gin.Context) {
	user := util.GetUserFromContext(ctx)
	if user == nil {
		util.Unauthorized(ctx)
		return
	}

	limit, _ := strconv.Atoi(ctx.DefaultQuery("limit", "20"))
	if limit <= 0 || limit > 100 {
		limit = 20
	}

	feeds, err := c.Dashboard.Activity(user.UserID, limit)
	if err != nil {
		util.FromError(ctx, err)
		return
	}

	util.Success(ctx, feeds)
}

// @Summary Enrollment overview with grade snapshots
// @Tags dashboard
// @Produce json
// @Security BearerAuth
// @Success 200 {object} util.Response
// @Router /api/dashboard/overview [get]
func (c *DashboardController) Overview(ctx *gin.Context) {
	user := util.GetUserFromContext(ctx)
	if user == nil {
		util.Unauthorized(ctx)
		return
	}

	summaries, err := c.Dashboard.Overview(user.UserID)
	if err != nil {
		util.FromError(ctx, err)
		return
	}

	util.Success(ctx, summaries)
}

package controller

import (
	"errors"
	"secaware_backend/internal/service"
	"secaware_backend/internal/util"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

type ReportController struct {
	ReportService   *service.ReportService
	ActivityService *service.ActivityService
}

func NewReportController(reportService *service.ReportService, activityService *service.ActivityService) *ReportController {
	return &ReportController{ReportService: reportService, ActivityService: activityService}
}

// Activity godoc
// @Summary Full activity log, newest first
// @Tags reports
// @Produce json
// @Security ApiKeyAuth
// @Success 200 {object} util.Response{data=[]model.Activity}
// @Router /api/admin/reports/activity [get]
func (c *ReportController) Activity(ctx *gin.Context) {
	activities, err := c.ReportService.ActivityReport()
	if err != nil {
		util.LogInternalError(ctx, err)
		return
	}
	util.Success(ctx, activities)
}

// EmailActivity godoc
// @Summary Interaction log for one phishing email
// @Tags reports
// @Produce json
// @Security ApiKeyAuth
// @Param id path int true "Email id"
// @Success 200 {object} util.Response{data=[]model.Activity}
// @Router /api/admin/reports/emails/{id}/activity [get]
func (c *ReportController) EmailActivity(ctx *gin.Context) {
	id, ok := pathID(ctx, "id")
	if !ok {
		util.BadRequest(ctx, "invalid email id")
		return
	}

	activities, err := c.ActivityService.ListByTarget("phishing_email", id)
	if err != nil {
		util.LogInternalError(ctx, err)
		return
	}
	util.Success(ctx, activities)
}

// TestResults godoc
// @Summary Average scores per test and per user
// @Description Cached for a few minutes when Redis is available.
// @Tags reports
// @Produce json
// @Security ApiKeyAuth
// @Success 200 {object} util.Response{data=service.TestResultsReport}
// @Router /api/admin/reports/test-results [get]
func (c *ReportController) TestResults(ctx *gin.Context) {
	report, err := c.ReportService.TestResults(ctx.Request.Context())
	if err != nil {
		util.LogInternalError(ctx, err)
		return
	}
	util.Success(ctx, report)
}

// MyProgress godoc
// @Summary The current user's per-course progress
// @Tags reports
// @Produce json
// @Security ApiKeyAuth
// @Success 200 {object} util.Response{data=[]service.CourseProgress}
// @Router /api/reports/progress [get]
func (c *ReportController) MyProgress(ctx *gin.Context) {
	claims := util.GetUserFromContext(ctx)
	if claims == nil {
		util.Unauthorized(ctx)
		return
	}

	progress, err := c.ReportService.UserProgress(claims.UserID)
	if err != nil {
		util.LogInternalError(ctx, err)
		return
	}
	util.Success(ctx, progress)
}

// UserReport godoc
// @Summary Admin drill-down for one user
// @Tags reports
// @Produce json
// @Security ApiKeyAuth
// @Param id path int true "User id"
// @Success 200 {object} util.Response{data=service.UserProgressReport}
// @Failure 404 {object} util.Response
// @Router /api/admin/reports/users/{id} [get]
func (c *ReportController) UserReport(ctx *gin.Context) {
	id, ok := pathID(ctx, "id")
	if !ok {
		util.BadRequest(ctx, "invalid user id")
		return
	}

	report, err := c.ReportService.UserReport(id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			util.NotFound(ctx)
			return
		}
		util.LogInternalError(ctx, err)
		return
	}
	util.Success(ctx, report)
}

// Dashboard godoc
// @Summary Headline counts and recent activity
// @Tags reports
// @Produce json
// @Security ApiKeyAuth
// @Success 200 {object} util.Response{data=service.DashboardReport}
// @Router /api/admin/reports/dashboard [get]
func (c *ReportController) Dashboard(ctx *gin.Context) {
	report, err := c.ReportService.Dashboard()
	if err != nil {
		util.LogInternalError(ctx, err)
		return
	}
	util.Success(ctx, report)
}

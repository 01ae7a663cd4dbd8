package controller

import (
	"errors"
	"secaware_backend/internal/service"
	"secaware_backend/internal/util"

	"github.com/gin-gonic/gin"
)

type CourseController struct {
	CourseService *service.CourseService
}

func NewCourseController(courseService *service.CourseService) *CourseController {
	return &CourseController{CourseService: courseService}
}

// ListCourses godoc
// @Summary List all courses
// @Tags courses
// @Produce json
// @Security ApiKeyAuth
// @Success 200 {object} util.Response{data=[]model.Course}
// @Router /api/courses [get]
func (c *CourseController) ListCourses(ctx *gin.Context) {
	courses, err := c.CourseService.List()
	if err != nil {
		util.LogInternalError(ctx, err)
		return
	}
	util.Success(ctx, courses)
}

// GetCourse godoc
// @Summary Get a course with its pages and tests
// @Tags courses
// @Produce json
// @Security ApiKeyAuth
// @Param id path int true "Course id"
// @Success 200 {object} util.Response{data=model.Course}
// @Failure 404 {object} util.Response
// @Router /api/courses/{id} [get]
func (c *CourseController) GetCourse(ctx *gin.Context) {
	id, ok := pathID(ctx, "id")
	if !ok {
		util.BadRequest(ctx, "invalid course id")
		return
	}

	course, err := c.CourseService.Get(id)
	if err != nil {
		if errors.Is(err, service.ErrCourseNotFound) {
			util.NotFound(ctx)
			return
		}
		util.LogInternalError(ctx, err)
		return
	}
	util.Success(ctx, course)
}

// CreateCourse godoc
// @Summary Create a course
// @Tags courses
// @Accept json
// @Produce json
// @Security ApiKeyAuth
// @Param body body service.CourseReq true "Course payload"
// @Success 201 {object} util.Response{data=model.Course}
// @Router /api/admin/courses [post]
func (c *CourseController) CreateCourse(ctx *gin.Context) {
	var req service.CourseReq
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	course, err := c.CourseService.Create(req)
	if err != nil {
		util.LogInternalError(ctx, err)
		return
	}
	util.Created(ctx, course)
}

// UpdateCourse godoc
// @Summary Update a course
// @Tags courses
// @Accept json
// @Produce json
// @Security ApiKeyAuth
// @Param id path int true "Course id"
// @Param body body service.CourseReq true "Course payload"
// @Success 200 {object} util.Response{data=model.Course}
// @Failure 404 {object} util.Response
// @Router /api/admin/courses/{id} [put]
func (c *CourseController) UpdateCourse(ctx *gin.Context) {
	id, ok := pathID(ctx, "id")
	if !ok {
		util.BadRequest(ctx, "invalid course id")
		return
	}

	var req service.CourseReq
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	course, err := c.CourseService.Update(id, req)
	if err != nil {
		if errors.Is(err, service.ErrCourseNotFound) {
			util.NotFound(ctx)
			return
		}
		util.LogInternalError(ctx, err)
		return
	}
	util.Success(ctx, course)
}

// DeleteCourse godoc
// @Summary Delete a course and its pages
// @Tags courses
// @Produce json
// @Security ApiKeyAuth
// @Param id path int true "Course id"
// @Success 200 {object} util.Response
// @Router /api/admin/courses/{id} [delete]
func (c *CourseController) DeleteCourse(ctx *gin.Context) {
	id, ok := pathID(ctx, "id")
	if !ok {
		util.BadRequest(ctx, "invalid course id")
		return
	}
	if err := c.CourseService.Delete(id); err != nil {
		util.LogInternalError(ctx, err)
		return
	}
	util.Success(ctx, nil)
}

// GetPage godoc
// @Summary Get a course page with prev/next navigation
// @Tags courses
// @Produce json
// @Security ApiKeyAuth
// @Param id path int true "Course id"
// @Param pageId path int true "Page id"
// @Success 200 {object} util.Response{data=service.PageView}
// @Failure 404 {object} util.Response
// @Router /api/courses/{id}/pages/{pageId} [get]
func (c *CourseController) GetPage(ctx *gin.Context) {
	courseID, ok := pathID(ctx, "id")
	if !ok {
		util.BadRequest(ctx, "invalid course id")
		return
	}
	pageID, ok := pathID(ctx, "pageId")
	if !ok {
		util.BadRequest(ctx, "invalid page id")
		return
	}

	view, err := c.CourseService.GetPage(courseID, pageID)
	if err != nil {
		if errors.Is(err, service.ErrPageNotFound) {
			util.NotFound(ctx)
			return
		}
		util.LogInternalError(ctx, err)
		return
	}
	util.Success(ctx, view)
}

// CreatePage godoc
// @Summary Add a page to a course
// @Tags courses
// @Accept json
// @Produce json
// @Security ApiKeyAuth
// @Param id path int true "Course id"
// @Param body body service.PageReq true "Page payload"
// @Success 201 {object} util.Response{data=model.CoursePage}
// @Failure 404 {object} util.Response
// @Router /api/admin/courses/{id}/pages [post]
func (c *CourseController) CreatePage(ctx *gin.Context) {
	courseID, ok := pathID(ctx, "id")
	if !ok {
		util.BadRequest(ctx, "invalid course id")
		return
	}

	var req service.PageReq
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	page, err := c.CourseService.CreatePage(courseID, req)
	if err != nil {
		if errors.Is(err, service.ErrCourseNotFound) {
			util.NotFound(ctx)
			return
		}
		util.LogInternalError(ctx, err)
		return
	}
	util.Created(ctx, page)
}

// UpdatePage godoc
// @Summary Update a course page
// @Tags courses
// @Accept json
// @Produce json
// @Security ApiKeyAuth
// @Param id path int true "Course id"
// @Param pageId path int true "Page id"
// @Param body body service.PageReq true "Page payload"
// @Success 200 {object} util.Response{data=model.CoursePage}
// @Failure 404 {object} util.Response
// @Router /api/admin/courses/{id}/pages/{pageId} [put]
func (c *CourseController) UpdatePage(ctx *gin.Context) {
	courseID, ok := pathID(ctx, "id")
	if !ok {
		util.BadRequest(ctx, "invalid course id")
		return
	}
	pageID, ok := pathID(ctx, "pageId")
	if !ok {
		util.BadRequest(ctx, "invalid page id")
		return
	}

	var req service.PageReq
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	page, err := c.CourseService.UpdatePage(courseID, pageID, req)
	if err != nil {
		if errors.Is(err, service.ErrPageNotFound) {
			util.NotFound(ctx)
			return
		}
		util.LogInternalError(ctx, err)
		return
	}
	util.Success(ctx, page)
}

// DeletePage godoc
// @Summary Delete a course page
// @Tags courses
// @Produce json
// @Security ApiKeyAuth
// @Param id path int true "Course id"
// @Param pageId path int true "Page id"
// @Success 200 {object} util.Response
// @Failure 404 {object} util.Response
// @Router /api/admin/courses/{id}/pages/{pageId} [delete]
func (c *CourseController) DeletePage(ctx *gin.Context) {
	courseID, ok := pathID(ctx, "id")
	if !ok {
		util.BadRequest(ctx, "invalid course id")
		return
	}
	pageID, ok := pathID(ctx, "pageId")
	if !ok {
		util.BadRequest(ctx, "invalid page id")
		return
	}

	if err := c.CourseService.DeletePage(courseID, pageID); err != nil {
		if errors.Is(err, service.ErrPageNotFound) {
			util.NotFound(ctx)
			return
		}
		util.LogInternalError(ctx, err)
		return
	}
	util.Success(ctx, nil)
}

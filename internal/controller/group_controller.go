package controller

import (
	"errors"
	"secaware_backend/internal/service"
	"secaware_backend/internal/util"

	"github.com/gin-gonic/gin"
)

type GroupController struct {
	GroupService *service.GroupService
}

func NewGroupController(groupService *service.GroupService) *GroupController {
	return &GroupController{GroupService: groupService}
}

// ListGroups godoc
// @Summary List all groups
// @Tags groups
// @Produce json
// @Security ApiKeyAuth
// @Success 200 {object} util.Response{data=[]model.Group}
// @Router /api/admin/groups [get]
func (c *GroupController) ListGroups(ctx *gin.Context) {
	groups, err := c.GroupService.List()
	if err != nil {
		util.LogInternalError(ctx, err)
		return
	}
	util.Success(ctx, groups)
}

// GetGroup godoc
// @Summary Get one group with its members
// @Tags groups
// @Produce json
// @Security ApiKeyAuth
// @Param id path int true "Group id"
// @Success 200 {object} util.Response{data=model.Group}
// @Failure 404 {object} util.Response
// @Router /api/admin/groups/{id} [get]
func (c *GroupController) GetGroup(ctx *gin.Context) {
	id, ok := pathID(ctx, "id")
	if !ok {
		util.BadRequest(ctx, "invalid group id")
		return
	}

	group, err := c.GroupService.Get(id)
	if err != nil {
		if errors.Is(err, service.ErrGroupNotFound) {
			util.NotFound(ctx)
			return
		}
		util.LogInternalError(ctx, err)
		return
	}
	util.Success(ctx, group)
}

// CreateGroup godoc
// @Summary Create a group
// @Tags groups
// @Accept json
// @Produce json
// @Security ApiKeyAuth
// @Param body body service.GroupReq true "Group payload"
// @Success 201 {object} util.Response{data=model.Group}
// @Router /api/admin/groups [post]
func (c *GroupController) CreateGroup(ctx *gin.Context) {
	var req service.GroupReq
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	group, err := c.GroupService.Create(req)
	if err != nil {
		util.LogInternalError(ctx, err)
		return
	}
	util.Created(ctx, group)
}

// UpdateGroup godoc
// @Summary Rename a group
// @Tags groups
// @Accept json
// @Produce json
// @Security ApiKeyAuth
// @Param id path int true "Group id"
// @Param body body service.GroupReq true "Group payload"
// @Success 200 {object} util.Response{data=model.Group}
// @Failure 404 {object} util.Response
// @Router /api/admin/groups/{id} [put]
func (c *GroupController) UpdateGroup(ctx *gin.Context) {
	id, ok := pathID(ctx, "id")
	if !ok {
		util.BadRequest(ctx, "invalid group id")
		return
	}

	var req service.GroupReq
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	group, err := c.GroupService.Update(id, req)
	if err != nil {
		if errors.Is(err, service.ErrGroupNotFound) {
			util.NotFound(ctx)
			return
		}
		util.LogInternalError(ctx, err)
		return
	}
	util.Success(ctx, group)
}

// DeleteGroup godoc
// @Summary Delete a group
// @Tags groups
// @Produce json
// @Security ApiKeyAuth
// @Param id path int true "Group id"
// @Success 200 {object} util.Response
// @Router /api/admin/groups/{id} [delete]
func (c *GroupController) DeleteGroup(ctx *gin.Context) {
	id, ok := pathID(ctx, "id")
	if !ok {
		util.BadRequest(ctx, "invalid group id")
		return
	}
	if err := c.GroupService.Delete(id); err != nil {
		util.LogInternalError(ctx, err)
		return
	}
	util.Success(ctx, nil)
}

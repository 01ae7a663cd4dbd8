package controller

import (
	"errors"
	"io"
	"net/http"
	"secaware_backend/internal/service"
	"secaware_backend/internal/util"
	"strconv"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

// maxAttachmentBytes caps uploaded phishing attachments at 10 MiB.
const maxAttachmentBytes = 10 << 20

type PhishingController struct {
	PhishingService *service.PhishingService
}

func NewPhishingController(phishingService *service.PhishingService) *PhishingController {
	return &PhishingController{PhishingService: phishingService}
}

// SendPhishingEmail godoc
// @Summary Dispatch a simulated phishing campaign
// @Description Sends a tracked message to one user or every member of one
// @Description group. Exactly one of userId and groupId must be given. The
// @Description optional attachment is offered to recipients through a tracked
// @Description download link.
// @Tags phishing
// @Accept mpfd
// @Produce json
// @Security ApiKeyAuth
// @Param userId formData int false "Target user id"
// @Param groupId formData int false "Target group id"
// @Param subject formData string true "Mail subject"
// @Param message formData string true "HTML body"
// @Param attachment formData file false "Attachment"
// @Success 200 {object} util.Response{data=service.PhishingSendResult}
// @Failure 400 {object} util.Response
// @Failure 404 {object} util.Response
// @Router /api/admin/phishing/send [post]
func (c *PhishingController) SendPhishingEmail(ctx *gin.Context) {
	claims := util.GetUserFromContext(ctx)
	if claims == nil {
		util.Unauthorized(ctx)
		return
	}

	req := service.PhishingSendReq{
		Subject: ctx.PostForm("subject"),
		Message: ctx.PostForm("message"),
	}
	if req.Subject == "" || req.Message == "" {
		util.BadRequest(ctx, "subject and message are required")
		return
	}

	if raw := ctx.PostForm("userId"); raw != "" {
		id, err := strconv.ParseUint(raw, 10, 32)
		if err != nil {
			util.BadRequest(ctx, "invalid userId")
			return
		}
		uid := uint(id)
		req.UserID = &uid
	}
	if raw := ctx.PostForm("groupId"); raw != "" {
		id, err := strconv.ParseUint(raw, 10, 32)
		if err != nil {
			util.BadRequest(ctx, "invalid groupId")
			return
		}
		gid := uint(id)
		req.GroupID = &gid
	}

	if file, err := ctx.FormFile("attachment"); err == nil {
		if file.Size > maxAttachmentBytes {
			util.BadRequest(ctx, "attachment too large")
			return
		}
		src, err := file.Open()
		if err != nil {
			util.LogInternalError(ctx, err)
			return
		}
		content, err := io.ReadAll(src)
		src.Close()
		if err != nil {
			util.LogInternalError(ctx, err)
			return
		}
		req.Attachment = &service.MailAttachment{
			Filename:    file.Filename,
			ContentType: file.Header.Get("Content-Type"),
			Content:     content,
		}
	}

	result, err := c.PhishingService.Send(ctx.Request.Context(), claims.UserID, req)
	if err != nil {
		switch {
		case errors.Is(err, util.ErrNoRecipient),
			errors.Is(err, util.ErrAmbiguousRecipient),
			errors.Is(err, util.ErrGroupEmpty):
			util.BadRequest(ctx, err.Error())
		case errors.Is(err, gorm.ErrRecordNotFound):
			util.NotFound(ctx)
		default:
			if result != nil && result.Failed > 0 {
				// Partial delivery: report what happened rather than a bare 500.
				util.Error(ctx, http.StatusBadGateway, err.Error())
				return
			}
			util.LogInternalError(ctx, err)
		}
		return
	}
	util.Success(ctx, result)
}

// History godoc
// @Summary Dispatched phishing emails, newest first
// @Tags phishing
// @Produce json
// @Security ApiKeyAuth
// @Success 200 {object} util.Response{data=[]model.PhishingEmail}
// @Router /api/admin/phishing/history [get]
func (c *PhishingController) History(ctx *gin.Context) {
	emails, err := c.PhishingService.List()
	if err != nil {
		util.LogInternalError(ctx, err)
		return
	}
	util.Success(ctx, emails)
}

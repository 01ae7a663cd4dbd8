package controller

import (
	"errors"
	"fmt"
	"io"
	"net/http"
	"secaware_backend/internal/config"
	"secaware_backend/internal/service"
	"secaware_backend/internal/util"
	"secaware_backend/pkg/logger"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// TrackingController serves the unauthenticated callbacks embedded in
// dispatched phishing mail. Responses stay neutral so recipients are never
// tipped off that they interacted with a simulation.
type TrackingController struct {
	TrackingService *service.TrackingService
	Cfg             *config.Config
}

func NewTrackingController(trackingService *service.TrackingService, cfg *config.Config) *TrackingController {
	return &TrackingController{TrackingService: trackingService, Cfg: cfg}
}

// Click godoc
// @Summary Tracking-link click callback
// @Description Records the click and redirects to the configured landing
// @Description page. Unknown ids still redirect, silently.
// @Tags tracking
// @Param emailId path int true "Email id"
// @Param userId path int true "User id"
// @Success 302
// @Router /track/click/{emailId}/{userId} [get]
func (c *TrackingController) Click(ctx *gin.Context) {
	emailID, okE := pathID(ctx, "emailId")
	userID, okU := pathID(ctx, "userId")
	if okE && okU {
		if err := c.TrackingService.RecordClick(emailID, userID); err != nil && !errors.Is(err, service.ErrUnknownTracking) {
			logger.Log.Error("click tracking failed", zap.Uint("emailId", emailID), zap.Error(err))
		}
	}
	ctx.Redirect(http.StatusFound, c.Cfg.Phishing.LandingURL)
}

// transparent 1x1 GIF
var pixelGIF = []byte{
	0x47, 0x49, 0x46, 0x38, 0x39, 0x61, 0x01, 0x00, 0x01, 0x00, 0x80, 0x00,
	0x00, 0x00, 0x00, 0x00, 0xff, 0xff, 0xff, 0x21, 0xf9, 0x04, 0x01, 0x00,
	0x00, 0x00, 0x00, 0x2c, 0x00, 0x00, 0x00, 0x00, 0x01, 0x00, 0x01, 0x00,
	0x00, 0x02, 0x02, 0x44, 0x01, 0x00, 0x3b,
}

// Open godoc
// @Summary Tracking-pixel load callback
// @Description Records the open and serves a transparent pixel. Unknown ids
// @Description still get the pixel, silently.
// @Tags tracking
// @Param emailId path int true "Email id"
// @Param userId path int true "User id"
// @Success 200
// @Router /track/open/{emailId}/{userId} [get]
func (c *TrackingController) Open(ctx *gin.Context) {
	emailID, okE := pathID(ctx, "emailId")
	userID, okU := pathID(ctx, "userId")
	if okE && okU {
		if err := c.TrackingService.RecordOpen(emailID, userID); err != nil && !errors.Is(err, service.ErrUnknownTracking) {
			logger.Log.Error("open tracking failed", zap.Uint("emailId", emailID), zap.Error(err))
		}
	}
	ctx.Data(http.StatusOK, "image/gif", pixelGIF)
}

// Download godoc
// @Summary Tracked attachment download
// @Description Records the download and streams the attachment. 404 when the
// @Description ids are unknown or the email carries no attachment.
// @Tags tracking
// @Param emailId path int true "Email id"
// @Param userId path int true "User id"
// @Success 200
// @Failure 404 {object} util.Response
// @Router /track/download/{emailId}/{userId} [get]
func (c *TrackingController) Download(ctx *gin.Context) {
	emailID, okE := pathID(ctx, "emailId")
	userID, okU := pathID(ctx, "userId")
	if !okE || !okU {
		util.NotFound(ctx)
		return
	}

	stream, err := c.TrackingService.RecordDownload(ctx.Request.Context(), emailID, userID)
	if err != nil {
		if errors.Is(err, service.ErrUnknownTracking) || errors.Is(err, util.ErrNoAttachment) {
			util.NotFound(ctx)
			return
		}
		util.LogInternalError(ctx, err)
		return
	}
	defer stream.Reader.Close()

	contentType := stream.ContentType
	if contentType == "" {
		contentType = "application/octet-stream"
	}
	ctx.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", stream.Filename))
	ctx.Header("Content-Type", contentType)
	ctx.Status(http.StatusOK)
	if _, err := io.Copy(ctx.Writer, stream.Reader); err != nil {
		logger.Log.Warn("attachment stream interrupted", zap.Uint("emailId", emailID), zap.Error(err))
	}
}

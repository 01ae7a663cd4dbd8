package service

import (
	"bytes"
	"context"
	"fmt"
	"secaware_backend/internal/config"
	"secaware_backend/internal/model"
	"secaware_backend/internal/repository"
	"secaware_backend/internal/util"
	"secaware_backend/pkg/logger"
	"secaware_backend/pkg/monitoring"
	"time"

	"go.uber.org/zap"
)

// PhishingService composes and dispatches simulated phishing mail. Each
// recipient gets an independent PhishingEmail record, a "sent" activity event
// and a message with its own tracking link and pixel.
type PhishingService struct {
	EmailRepo *repository.PhishingEmailRepository
	UserRepo  *repository.UserRepository
	GroupRepo *repository.GroupRepository
	Activity  *ActivityService
	Mailer    Mailer
	Storage   *StorageService
	Cfg       *config.Config
}

func NewPhishingService(
	emailRepo *repository.PhishingEmailRepository,
	userRepo *repository.UserRepository,
	groupRepo *repository.GroupRepository,
	activity *ActivityService,
	mailer Mailer,
	storage *StorageService,
	cfg *config.Config,
) *PhishingService {
	return &PhishingService{
		EmailRepo: emailRepo,
		UserRepo:  userRepo,
		GroupRepo: groupRepo,
		Activity:  activity,
		Mailer:    mailer,
		Storage:   storage,
		Cfg:       cfg,
	}
}

type PhishingSendReq struct {
	UserID     *uint
	GroupID    *uint
	Subject    string
	Message    string // HTML body authored by the admin
	Attachment *MailAttachment
}

type PhishingSendResult struct {
	Emails []model.PhishingEmail `json:"emails"`
	Failed int                   `json:"failed"`
}

// Send validates the target, fans out over the recipients and dispatches one
// tracked message per recipient. Recipients are independent units of work: a
// failed transmission is counted and reported but neither rolls back the
// recipient's record nor stops the rest of the fan-out. Calling Send twice
// with identical input produces two independent campaigns on purpose.
func (s *PhishingService) Send(ctx context.Context, senderID uint, req PhishingSendReq) (*PhishingSendResult, error) {
	if req.UserID == nil && req.GroupID == nil {
		return nil, util.ErrNoRecipient
	}
	if req.UserID != nil && req.GroupID != nil {
		return nil, util.ErrAmbiguousRecipient
	}

	var recipients []*model.User
	if req.UserID != nil {
		user, err := s.UserRepo.FindByID(*req.UserID)
		if err != nil {
			return nil, err
		}
		recipients = append(recipients, user)
	} else {
		group, err := s.GroupRepo.FindByIDWithMembers(*req.GroupID)
		if err != nil {
			return nil, err
		}
		if len(group.Users) == 0 {
			return nil, util.ErrGroupEmpty
		}
		recipients = group.Users
	}

	// One stored blob shared by every record of the campaign.
	var objectName string
	if req.Attachment != nil {
		var err error
		objectName, err = s.Storage.Store(ctx, "attachments", req.Attachment.Filename,
			bytes.NewReader(req.Attachment.Content), int64(len(req.Attachment.Content)), req.Attachment.ContentType)
		if err != nil {
			return nil, err
		}
	}

	result := &PhishingSendResult{}
	var lastErr error

	for _, rcpt := range recipients {
		email := &model.PhishingEmail{
			UserID:  rcpt.ID,
			Subject: req.Subject,
			Message: req.Message,
			SentAt:  time.Now(),
		}
		if req.Attachment != nil {
			email.Attachment = objectName
			email.AttachmentName = req.Attachment.Filename
			email.AttachmentType = req.Attachment.ContentType
		}
		if err := s.EmailRepo.Create(email); err != nil {
			return result, err
		}

		if err := s.Activity.Record(senderID, model.VerbSent, model.TargetUser, rcpt.ID); err != nil {
			return result, err
		}

		msg := &MailMessage{
			To:         []string{rcpt.Email},
			Subject:    req.Subject,
			HTMLBody:   s.composeBody(req.Message, email.ID, rcpt.ID),
			Attachment: req.Attachment,
		}
		if err := s.Mailer.Send(ctx, msg); err != nil {
			// The record stays: it documents the attempted send.
			logger.Log.Error("phishing mail transmission failed",
				zap.Uint("emailId", email.ID),
				zap.Uint("userId", rcpt.ID),
				zap.Error(err))
			result.Failed++
			lastErr = err
		} else {
			monitoring.PhishingEmailsSent.Inc()
		}

		result.Emails = append(result.Emails, *email)
	}

	if result.Failed > 0 {
		return result, fmt.Errorf("%d of %d messages failed to send: %w", result.Failed, len(recipients), lastErr)
	}
	return result, nil
}

// composeBody appends the click-tracking link and the invisible open-tracking
// pixel. Both URLs are absolute and embed (emailID, userID) so the callbacks
// can attribute the interaction.
func (s *PhishingService) composeBody(message string, emailID, userID uint) string {
	clickURL := fmt.Sprintf("%s/track/click/%d/%d", s.Cfg.Server.BaseURL, emailID, userID)
	openURL := fmt.Sprintf("%s/track/open/%d/%d", s.Cfg.Server.BaseURL, emailID, userID)

	return message +
		fmt.Sprintf("\n\n<a href='%s'>Click here to activate your account</a>", clickURL) +
		fmt.Sprintf("\n\n<img src='%s' alt='' width='1' height='1' style='display:none;'>", openURL)
}

func (s *PhishingService) List() ([]model.PhishingEmail, error) {
	return s.EmailRepo.List()
}

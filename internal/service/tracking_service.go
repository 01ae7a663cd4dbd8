package service

import (
	"context"
	"errors"
	"io"
	"secaware_backend/internal/model"
	"secaware_backend/internal/repository"
	"secaware_backend/internal/util"
	"secaware_backend/pkg/monitoring"

	"gorm.io/gorm"
)

// TrackingService records recipient interactions reported by the callbacks
// baked into dispatched mail. The ids arrive from the outside world, so every
// entry point re-validates them against stored records before logging anything.
type TrackingService struct {
	EmailRepo *repository.PhishingEmailRepository
	UserRepo  *repository.UserRepository
	Activity  *ActivityService
	Storage   *StorageService
}

func NewTrackingService(
	emailRepo *repository.PhishingEmailRepository,
	userRepo *repository.UserRepository,
	activity *ActivityService,
	storage *StorageService,
) *TrackingService {
	return &TrackingService{
		EmailRepo: emailRepo,
		UserRepo:  userRepo,
		Activity:  activity,
		Storage:   storage,
	}
}

// ErrUnknownTracking marks callbacks whose (email, user) pair does not match
// any dispatched message. Callers respond benignly without recording.
var ErrUnknownTracking = errors.New("tracking ids do not match a dispatched email")

func (s *TrackingService) resolve(emailID, userID uint) (*model.PhishingEmail, error) {
	email, err := s.EmailRepo.FindByID(emailID)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrUnknownTracking
	}
	if err != nil {
		return nil, err
	}
	if _, err := s.UserRepo.FindByID(userID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) || errors.Is(err, util.ErrUserNotFound) {
			return nil, ErrUnknownTracking
		}
		return nil, err
	}
	return email, nil
}

// RecordClick logs that the given user followed the tracking link of the given
// email. Every click is logged, including repeats.
func (s *TrackingService) RecordClick(emailID, userID uint) error {
	if _, err := s.resolve(emailID, userID); err != nil {
		return err
	}
	if err := s.Activity.Record(userID, model.VerbClicked, model.TargetPhishingEmail, emailID); err != nil {
		return err
	}
	monitoring.TrackingEvents.WithLabelValues("click").Inc()
	return nil
}

// RecordOpen logs a pixel load for the given (email, user) pair.
func (s *TrackingService) RecordOpen(emailID, userID uint) error {
	if _, err := s.resolve(emailID, userID); err != nil {
		return err
	}
	if err := s.Activity.Record(userID, model.VerbOpened, model.TargetPhishingEmail, emailID); err != nil {
		return err
	}
	monitoring.TrackingEvents.WithLabelValues("open").Inc()
	return nil
}

// AttachmentStream is an open attachment ready to serve. The caller owns the
// Reader and must close it.
type AttachmentStream struct {
	Reader      io.ReadCloser
	Filename    string
	ContentType string
}

// RecordDownload logs the download and returns the attachment content. When
// the email carries no attachment the event is not recorded; an email that was
// sent without one can never accumulate download events.
func (s *TrackingService) RecordDownload(ctx context.Context, emailID, userID uint) (*AttachmentStream, error) {
	email, err := s.resolve(emailID, userID)
	if err != nil {
		return nil, err
	}
	if email.Attachment == "" {
		return nil, util.ErrNoAttachment
	}

	reader, err := s.Storage.Open(ctx, email.Attachment)
	if err != nil {
		return nil, err
	}

	if err := s.Activity.Record(userID, model.VerbDownloaded, model.TargetPhishingEmail, emailID); err != nil {
		reader.Close()
		return nil, err
	}
	monitoring.TrackingEvents.WithLabelValues("download").Inc()

	return &AttachmentStream{
		Reader:      reader,
		Filename:    email.AttachmentName,
		ContentType: email.AttachmentType,
	}, nil
}

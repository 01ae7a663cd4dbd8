package service

import (
	"bytes"
	"context"
	"errors"
	"io"
	"secaware_backend/internal/config"
	"secaware_backend/internal/model"
	"secaware_backend/internal/repository"
	"secaware_backend/internal/util"
	"testing"
	"time"

	"gorm.io/gorm"
)

func newTrackingFixture(t *testing.T) (*gorm.DB, *TrackingService, *StorageService) {
	t.Helper()
	db := newTestDB(t)

	cfg := &config.Config{}
	cfg.Storage.Type = "local"
	cfg.Storage.LocalPath = t.TempDir()
	storage, err := NewStorageService(cfg)
	if err != nil {
		t.Fatalf("storage: %v", err)
	}

	svc := NewTrackingService(
		repository.NewPhishingEmailRepository(db),
		repository.NewUserRepository(db),
		NewActivityService(repository.NewActivityRepository(db)),
		storage,
	)
	return db, svc, storage
}

func seedEmail(t *testing.T, db *gorm.DB, userID uint, objectName string) *model.PhishingEmail {
	t.Helper()
	email := &model.PhishingEmail{
		UserID:  userID,
		Subject: "s",
		Message: "m",
		SentAt:  time.Now(),
	}
	if objectName != "" {
		email.Attachment = objectName
		email.AttachmentName = "payload.pdf"
		email.AttachmentType = "application/pdf"
	}
	if err := db.Create(email).Error; err != nil {
		t.Fatalf("seed email: %v", err)
	}
	return email
}

func TestRecordClick(t *testing.T) {
	db, svc, _ := newTrackingFixture(t)
	victim := createUser(t, db, "victim")
	email := seedEmail(t, db, victim.ID, "")

	if err := svc.RecordClick(email.ID, victim.ID); err != nil {
		t.Fatalf("RecordClick: %v", err)
	}

	if got := countActivities(t, db, model.VerbClicked, model.TargetPhishingEmail, email.ID); got != 1 {
		t.Errorf("click events = %d, want 1", got)
	}

	var event model.Activity
	if err := db.Where("verb = ?", model.VerbClicked).First(&event).Error; err != nil {
		t.Fatal(err)
	}
	if event.ActorID != victim.ID {
		t.Errorf("actor = %d, want the recipient %d", event.ActorID, victim.ID)
	}
}

func TestRepeatedOpensAllRecorded(t *testing.T) {
	db, svc, _ := newTrackingFixture(t)
	victim := createUser(t, db, "victim")
	email := seedEmail(t, db, victim.ID, "")

	for i := 0; i < 2; i++ {
		if err := svc.RecordOpen(email.ID, victim.ID); err != nil {
			t.Fatalf("RecordOpen %d: %v", i+1, err)
		}
	}

	if got := countActivities(t, db, model.VerbOpened, model.TargetPhishingEmail, email.ID); got != 2 {
		t.Errorf("open events = %d, want 2: repeats carry signal", got)
	}
}

func TestUnknownIdsNotRecorded(t *testing.T) {
	db, svc, _ := newTrackingFixture(t)
	victim := createUser(t, db, "victim")
	email := seedEmail(t, db, victim.ID, "")

	if err := svc.RecordClick(9999, victim.ID); !errors.Is(err, ErrUnknownTracking) {
		t.Errorf("unknown email: err = %v, want ErrUnknownTracking", err)
	}
	if err := svc.RecordOpen(email.ID, 9999); !errors.Is(err, ErrUnknownTracking) {
		t.Errorf("unknown user: err = %v, want ErrUnknownTracking", err)
	}

	var n int64
	db.Model(&model.Activity{}).Count(&n)
	if n != 0 {
		t.Errorf("unknown ids produced %d events", n)
	}
}

func TestRecordDownloadStreamsAttachment(t *testing.T) {
	db, svc, storage := newTrackingFixture(t)
	victim := createUser(t, db, "victim")

	content := []byte("%PDF-1.4 payload")
	objectName, err := storage.Store(context.Background(), "attachments", "payload.pdf",
		bytes.NewReader(content), int64(len(content)), "application/pdf")
	if err != nil {
		t.Fatalf("store: %v", err)
	}
	email := seedEmail(t, db, victim.ID, objectName)

	stream, err := svc.RecordDownload(context.Background(), email.ID, victim.ID)
	if err != nil {
		t.Fatalf("RecordDownload: %v", err)
	}
	defer stream.Reader.Close()

	got, err := io.ReadAll(stream.Reader)
	if err != nil {
		t.Fatalf("read stream: %v", err)
	}
	if string(got) != string(content) {
		t.Errorf("streamed %q, want %q", got, content)
	}
	if stream.Filename != "payload.pdf" || stream.ContentType != "application/pdf" {
		t.Errorf("metadata = %q %q", stream.Filename, stream.ContentType)
	}

	if got := countActivities(t, db, model.VerbDownloaded, model.TargetPhishingEmail, email.ID); got != 1 {
		t.Errorf("download events = %d, want 1", got)
	}
}

func TestRecordDownloadWithoutAttachment(t *testing.T) {
	db, svc, _ := newTrackingFixture(t)
	victim := createUser(t, db, "victim")
	email := seedEmail(t, db, victim.ID, "")

	_, err := svc.RecordDownload(context.Background(), email.ID, victim.ID)
	if !errors.Is(err, util.ErrNoAttachment) {
		t.Fatalf("err = %v, want ErrNoAttachment", err)
	}

	// No attachment, no download event, ever.
	if got := countActivities(t, db, model.VerbDownloaded, "", 0); got != 0 {
		t.Errorf("download events = %d, want 0", got)
	}
}

package service

import (
	"context"
	"errors"
	"fmt"
	"secaware_backend/internal/config"
	"secaware_backend/internal/model"
	"secaware_backend/internal/repository"
	"secaware_backend/internal/util"
	"strings"
	"testing"

	"gorm.io/gorm"
)

func newPhishingFixture(t *testing.T, mailer Mailer) (*gorm.DB, *PhishingService) {
	t.Helper()
	db := newTestDB(t)

	cfg := &config.Config{}
	cfg.Server.BaseURL = "http://train.example.com"
	cfg.Storage.Type = "local"
	cfg.Storage.LocalPath = t.TempDir()

	storage, err := NewStorageService(cfg)
	if err != nil {
		t.Fatalf("storage: %v", err)
	}

	svc := NewPhishingService(
		repository.NewPhishingEmailRepository(db),
		repository.NewUserRepository(db),
		repository.NewGroupRepository(db),
		NewActivityService(repository.NewActivityRepository(db)),
		mailer,
		storage,
		cfg,
	)
	return db, svc
}

func TestSendToGroupFansOut(t *testing.T) {
	mailer := &recordingMailer{}
	db, svc := newPhishingFixture(t, mailer)

	sender := createUser(t, db, "sender")
	members := []*model.User{
		createUser(t, db, "m1"),
		createUser(t, db, "m2"),
		createUser(t, db, "m3"),
	}
	group := createGroup(t, db, "staff", members...)

	result, err := svc.Send(context.Background(), sender.ID, PhishingSendReq{
		GroupID: &group.ID,
		Subject: "Password reset required",
		Message: "<p>Your password expires today.</p>",
	})
	if err != nil {
		t.Fatalf("Send: %v", err)
	}
	if len(result.Emails) != 3 {
		t.Fatalf("got %d email records, want 3", len(result.Emails))
	}
	if len(mailer.sent) != 3 {
		t.Fatalf("got %d transmissions, want 3", len(mailer.sent))
	}

	// One record and one "sent" event per member.
	for _, m := range members {
		var n int64
		db.Model(&model.PhishingEmail{}).Where("user_id = ?", m.ID).Count(&n)
		if n != 1 {
			t.Errorf("member %d has %d records, want 1", m.ID, n)
		}
		if got := countActivities(t, db, model.VerbSent, model.TargetUser, m.ID); got != 1 {
			t.Errorf("member %d has %d sent events, want 1", m.ID, got)
		}
	}

	// Every message carries its own record's tracking URLs.
	seen := make(map[string]bool)
	for i, msg := range mailer.sent {
		email := result.Emails[i]
		click := fmt.Sprintf("http://train.example.com/track/click/%d/%d", email.ID, email.UserID)
		open := fmt.Sprintf("http://train.example.com/track/open/%d/%d", email.ID, email.UserID)
		if !strings.Contains(msg.HTMLBody, click) {
			t.Errorf("message %d missing click url %s", i, click)
		}
		if !strings.Contains(msg.HTMLBody, open) {
			t.Errorf("message %d missing open url %s", i, open)
		}
		if seen[click] {
			t.Errorf("click url %s reused across recipients", click)
		}
		seen[click] = true
	}
}

func TestSendTargetValidation(t *testing.T) {
	db, svc := newPhishingFixture(t, &recordingMailer{})
	sender := createUser(t, db, "sender")
	user := createUser(t, db, "victim")
	group := createGroup(t, db, "empty")

	cases := []struct {
		name string
		req  PhishingSendReq
		want error
	}{
		{"neither", PhishingSendReq{Subject: "s", Message: "m"}, util.ErrNoRecipient},
		{"both", PhishingSendReq{UserID: &user.ID, GroupID: &group.ID, Subject: "s", Message: "m"}, util.ErrAmbiguousRecipient},
		{"empty group", PhishingSendReq{GroupID: &group.ID, Subject: "s", Message: "m"}, util.ErrGroupEmpty},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := svc.Send(context.Background(), sender.ID, tc.req)
			if !errors.Is(err, tc.want) {
				t.Errorf("err = %v, want %v", err, tc.want)
			}
		})
	}

	var n int64
	db.Model(&model.PhishingEmail{}).Count(&n)
	if n != 0 {
		t.Errorf("invalid sends created %d records", n)
	}
}

func TestSendContinuesPastMailFailure(t *testing.T) {
	mailer := &recordingMailer{failFor: map[string]bool{"m2@example.com": true}}
	db, svc := newPhishingFixture(t, mailer)

	sender := createUser(t, db, "sender")
	group := createGroup(t, db, "staff",
		createUser(t, db, "m1"),
		createUser(t, db, "m2"),
		createUser(t, db, "m3"),
	)

	result, err := svc.Send(context.Background(), sender.ID, PhishingSendReq{
		GroupID: &group.ID,
		Subject: "s",
		Message: "m",
	})
	if err == nil {
		t.Fatal("want error reporting the failed transmission")
	}
	if result.Failed != 1 {
		t.Errorf("failed = %d, want 1", result.Failed)
	}
	if len(result.Emails) != 3 {
		t.Errorf("got %d records, want 3: failures must not stop the fan-out", len(result.Emails))
	}
	if len(mailer.sent) != 2 {
		t.Errorf("got %d delivered, want 2", len(mailer.sent))
	}

	// The failed recipient's record still documents the attempt.
	var n int64
	db.Model(&model.PhishingEmail{}).Count(&n)
	if n != 3 {
		t.Errorf("got %d records, want 3", n)
	}
}

func TestSendStoresAttachmentOnce(t *testing.T) {
	mailer := &recordingMailer{}
	db, svc := newPhishingFixture(t, mailer)

	sender := createUser(t, db, "sender")
	group := createGroup(t, db, "staff",
		createUser(t, db, "m1"),
		createUser(t, db, "m2"),
	)

	result, err := svc.Send(context.Background(), sender.ID, PhishingSendReq{
		GroupID: &group.ID,
		Subject: "Invoice",
		Message: "See attached.",
		Attachment: &MailAttachment{
			Filename:    "invoice.pdf",
			ContentType: "application/pdf",
			Content:     []byte("%PDF-1.4 fake"),
		},
	})
	if err != nil {
		t.Fatalf("Send: %v", err)
	}

	if result.Emails[0].Attachment == "" {
		t.Fatal("attachment object name not recorded")
	}
	if result.Emails[0].Attachment != result.Emails[1].Attachment {
		t.Error("records should share one stored attachment")
	}
	if result.Emails[0].AttachmentName != "invoice.pdf" {
		t.Errorf("attachment name = %q", result.Emails[0].AttachmentName)
	}
	for _, msg := range mailer.sent {
		if msg.Attachment == nil || msg.Attachment.Filename != "invoice.pdf" {
			t.Error("outbound message missing attachment")
		}
	}
}

func TestSendToSingleUser(t *testing.T) {
	mailer := &recordingMailer{}
	db, svc := newPhishingFixture(t, mailer)

	sender := createUser(t, db, "sender")
	victim := createUser(t, db, "victim")

	result, err := svc.Send(context.Background(), sender.ID, PhishingSendReq{
		UserID:  &victim.ID,
		Subject: "s",
		Message: "m",
	})
	if err != nil {
		t.Fatalf("Send: %v", err)
	}
	if len(result.Emails) != 1 || result.Emails[0].UserID != victim.ID {
		t.Fatalf("unexpected result: %+v", result.Emails)
	}
	if got := countActivities(t, db, model.VerbSent, model.TargetUser, victim.ID); got != 1 {
		t.Errorf("sent events = %d, want 1", got)
	}
	if len(mailer.sent) != 1 || mailer.sent[0].To[0] != victim.Email {
		t.Errorf("message not addressed to victim: %+v", mailer.sent)
	}
}

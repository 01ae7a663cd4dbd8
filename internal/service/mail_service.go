package service

import (
	"context"
	"encoding/base64"
	"fmt"
	"net/http"
	"secaware_backend/internal/config"
	"secaware_backend/pkg/logger"

	"github.com/sendgrid/sendgrid-go"
	sgmail "github.com/sendgrid/sendgrid-go/helpers/mail"
	"go.uber.org/zap"
)

type MailAttachment struct {
	Filename    string
	ContentType string
	Content     []byte
}

type MailMessage struct {
	To         []string
	Subject    string
	TextBody   string
	HTMLBody   string
	Attachment *MailAttachment
}

// Mailer delivers one composed message. A call fails or succeeds atomically;
// there is no partial delivery within one message.
type Mailer interface {
	Send(ctx context.Context, msg *MailMessage) error
}

func NewMailer(cfg *config.MailConfig) Mailer {
	if cfg.Backend == "sendgrid" && cfg.SendGridKey != "" {
		return &SendGridMailer{
			key:       cfg.SendGridKey,
			fromName:  cfg.FromName,
			fromEmail: cfg.FromEmail,
		}
	}
	return &ConsoleMailer{}
}

type SendGridMailer struct {
	key       string
	fromName  string
	fromEmail string
}

var (
	sendgridHost     = "https://api.sendgrid.com"
	sendgridEndpoint = "/v3/mail/send"
)

func (m *SendGridMailer) Send(ctx context.Context, msg *MailMessage) error {
	p := sgmail.NewPersonalization()
	p.Subject = msg.Subject
	for _, to := range msg.To {
		p.AddTos(sgmail.NewEmail("", to))
	}

	v3 := sgmail.NewV3Mail()
	v3.SetFrom(sgmail.NewEmail(m.fromName, m.fromEmail))
	v3.AddPersonalizations(p)

	// SendGrid requires text/plain before text/html.
	text := msg.TextBody
	if text == "" {
		text = " "
	}
	v3.AddContent(sgmail.NewContent("text/plain", text))
	if msg.HTMLBody != "" {
		v3.AddContent(sgmail.NewContent("text/html", msg.HTMLBody))
	}

	if a := msg.Attachment; a != nil {
		att := sgmail.NewAttachment()
		att.SetContent(base64.StdEncoding.EncodeToString(a.Content))
		att.SetType(a.ContentType)
		att.SetFilename(a.Filename)
		att.SetDisposition("attachment")
		v3.AddAttachment(att)
	}

	req := sendgrid.GetRequest(m.key, sendgridEndpoint, sendgridHost)
	req.Method = http.MethodPost
	req.Body = sgmail.GetRequestBody(v3)

	resp, err := sendgrid.API(req)
	if err != nil {
		return fmt.Errorf("sendgrid: %w", err)
	}
	if resp.StatusCode >= http.StatusBadRequest {
		return fmt.Errorf("sendgrid: status %d: %s", resp.StatusCode, resp.Body)
	}
	return nil
}

// ConsoleMailer logs messages instead of delivering them. Default backend for
// development so no real mail ever leaves the machine.
type ConsoleMailer struct{}

func (m *ConsoleMailer) Send(ctx context.Context, msg *MailMessage) error {
	fields := []zap.Field{
		zap.Strings("to", msg.To),
		zap.String("subject", msg.Subject),
		zap.Int("bodyBytes", len(msg.HTMLBody)+len(msg.TextBody)),
	}
	if msg.Attachment != nil {
		fields = append(fields, zap.String("attachment", msg.Attachment.Filename))
	}
	logger.Log.Info("mail (console backend)", fields...)
	return nil
}

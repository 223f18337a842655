package sender

import (
	"bytes"
	"context"
	"fmt"
	"mime"
	"mime/multipart"
	"net/mail"
	"net/smtp"
	"net/textproto"
	"strings"
	"time"

	"github.com/metalstreets/contact-backend/services/intake-service/models"
)

type SMTPConfig struct {
	Host     string
	Port     string
	Username string
	Password string
}

type sendMailFunc func(addr string, a smtp.Auth, from string, to []string, msg []byte) error

// SMTPSender sends notifications as multipart/alternative mail, plain text
// first and HTML second.
type SMTPSender struct {
	cfg      SMTPConfig
	sendMail sendMailFunc
	now      func() time.Time
}

func NewSMTPSender(cfg SMTPConfig) (*SMTPSender, error) {
	if cfg.Host == "" {
		return nil, fmt.Errorf("SMTP_HOST not set")
	}
	if cfg.Port == "" {
		return nil, fmt.Errorf("SMTP_PORT not set")
	}
	if cfg.Username == "" {
		return nil, fmt.Errorf("SMTP_USER not set")
	}
	if cfg.Password == "" {
		return nil, fmt.Errorf("SMTP_PASS not set")
	}
	return &SMTPSender{cfg: cfg, sendMail: smtp.SendMail, now: time.Now}, nil
}

func (s *SMTPSender) Name() string { return models.ChannelEmail }

func (s *SMTPSender) Send(ctx context.Context, msg models.NotificationMessage) (SendResult, error) {
	if err := ctx.Err(); err != nil {
		return SendResult{}, err
	}
	if msg.To == "" {
		return SendResult{}, fmt.Errorf("smtp send failed: empty recipient")
	}

	now := s.now()
	messageID := fmt.Sprintf("smtp-%d", now.UnixNano())
	raw, err := buildMIME(s.cfg.Username, messageID, msg, now)
	if err != nil {
		return SendResult{}, err
	}

	addr := fmt.Sprintf("%s:%s", s.cfg.Host, s.cfg.Port)
	auth := smtp.PlainAuth("", s.cfg.Username, s.cfg.Password, s.cfg.Host)
	if err := s.sendMail(addr, auth, s.cfg.Username, []string{msg.To}, raw); err != nil {
		return SendResult{}, fmt.Errorf("smtp send failed: %w", err)
	}

	return SendResult{MessageID: messageID, SentAt: now}, nil
}

// ReplyAddress returns addr as a single RFC 5322 address fit for a Reply-To
// header, or "" when addr is not one. Values carrying CR or LF never pass.
func ReplyAddress(addr string) string {
	if strings.ContainsAny(addr, "\r\n") {
		return ""
	}
	parsed, err := mail.ParseAddress(strings.TrimSpace(addr))
	if err != nil {
		return ""
	}
	if parsed.Name == "" {
		return parsed.Address
	}
	return parsed.String()
}

func buildMIME(from, messageID string, msg models.NotificationMessage, now time.Time) ([]byte, error) {
	if strings.ContainsAny(msg.To, "\r\n") {
		return nil, fmt.Errorf("build mime headers: invalid recipient")
	}

	var body bytes.Buffer
	mw := multipart.NewWriter(&body)

	parts := []struct {
		contentType string
		content     string
	}{
		{"text/plain; charset=UTF-8", msg.PlainBody},
		{"text/html; charset=UTF-8", msg.HTMLBody},
	}
	for _, p := range parts {
		w, err := mw.CreatePart(textproto.MIMEHeader{
			"Content-Type":              {p.contentType},
			"Content-Transfer-Encoding": {"8bit"},
		})
		if err != nil {
			return nil, fmt.Errorf("build mime part: %w", err)
		}
		if _, err := w.Write([]byte(p.content)); err != nil {
			return nil, fmt.Errorf("build mime part: %w", err)
		}
	}
	if err := mw.Close(); err != nil {
		return nil, fmt.Errorf("build mime body: %w", err)
	}

	fromHeader := from
	if msg.FromName != "" {
		fromHeader = fmt.Sprintf("%s <%s>", mime.QEncoding.Encode("utf-8", msg.FromName), from)
	}

	var out bytes.Buffer
	out.WriteString("From: " + fromHeader + "\r\n")
	out.WriteString("To: " + msg.To + "\r\n")
	if replyTo := ReplyAddress(msg.ReplyTo); replyTo != "" {
		out.WriteString("Reply-To: " + replyTo + "\r\n")
	}
	out.WriteString("Subject: " + mime.QEncoding.Encode("utf-8", msg.Subject) + "\r\n")
	out.WriteString("Date: " + now.Format(time.RFC1123Z) + "\r\n")
	out.WriteString("Message-ID: <" + messageID + "@contact-intake>\r\n")
	out.WriteString("MIME-Version: 1.0\r\n")
	out.WriteString("Content-Type: multipart/alternative; boundary=" + mw.Boundary() + "\r\n")
	out.WriteString("\r\n")
	out.Write(body.Bytes())
	return out.Bytes(), nil
}

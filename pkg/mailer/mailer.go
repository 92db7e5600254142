package mailer

import (
	"context"
	"fmt"
	"io"

	"go.uber.org/zap"
	"gopkg.in/gomail.v2"

	"github.com/KGLikith/Seminar-Hub-sub000/config"
)

// Attachment 邮件附件
type Attachment struct {
	Name        string
	ContentType string
	Data        []byte
}

// Message 单封邮件
type Message struct {
	To          []string
	Subject     string
	HTML        string
	Attachments []Attachment
}

// Sender 邮件发送接口
type Sender interface {
	Send(ctx context.Context, msg Message) error
}

// New 根据配置创建发送器；未启用 SMTP 时只记录日志
func New(cfg *config.MailConfig, logger *zap.Logger) Sender {
	if !cfg.Enabled || cfg.SMTPHost == "" {
		logger.Info("邮件发送未启用，仅记录日志")
		return &logSender{logger: logger}
	}
	return &smtpSender{
		dialer: gomail.NewDialer(cfg.SMTPHost, cfg.SMTPPort, cfg.Username, cfg.Password),
		from:   cfg.From,
		logger: logger,
	}
}

// ── SMTP ──

type smtpSender struct {
	dialer *gomail.Dialer
	from   string
	logger *zap.Logger
}

func (s *smtpSender) Send(ctx context.Context, msg Message) error {
	if len(msg.To) == 0 {
		return nil
	}
	if err := ctx.Err(); err != nil {
		return err
	}

	m := buildMessage(s.from, msg)
	if err := s.dialer.DialAndSend(m); err != nil {
		return fmt.Errorf("发送邮件失败: %w", err)
	}

	s.logger.Debug("邮件已发送",
		zap.Strings("to", msg.To),
		zap.String("subject", msg.Subject),
	)
	return nil
}

func buildMessage(from string, msg Message) *gomail.Message {
	m := gomail.NewMessage()
	m.SetHeader("From", from)
	m.SetHeader("To", msg.To...)
	m.SetHeader("Subject", msg.Subject)
	m.SetBody("text/html", msg.HTML)

	for _, a := range msg.Attachments {
		data := a.Data
		m.Attach(a.Name,
			gomail.SetCopyFunc(func(w io.Writer) error {
				_, err := w.Write(data)
				return err
			}),
			gomail.SetHeader(map[string][]string{"Content-Type": {a.ContentType}}),
		)
	}
	return m
}

// ── 仅日志 ──

type logSender struct {
	logger *zap.Logger
}

func (s *logSender) Send(_ context.Context, msg Message) error {
	s.logger.Info("邮件未发送（SMTP 未启用）",
		zap.Strings("to", msg.To),
		zap.String("subject", msg.Subject),
		zap.Int("attachments", len(msg.Attachments)),
	)
	return nil
}

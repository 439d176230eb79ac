package service

import (
	"crypto/tls"
	"fmt"
	"time"

	"social-blog-backend/config"
	"social-blog-backend/internal/util"

	"go.uber.org/zap"
	"gopkg.in/mail.v2"
)

// EmailService 负责发送系统邮件
type EmailService struct {
	smtpHost   string
	smtpPort   int
	username   string
	password   string
	backendURL string
}

// NewEmailService 创建一个新的 EmailService 实例
func NewEmailService() *EmailService {
	return &EmailService{
		smtpHost:   config.AppConfig.SMTPHost,
		smtpPort:   config.AppConfig.SMTPPort,
		username:   config.AppConfig.SMTPUsername,
		password:   config.AppConfig.SMTPPassword,
		backendURL: config.AppConfig.BackendURL,
	}
}

// SendPasswordResetEmail 发送密码重置邮件，链接24小时后过期
func (s *EmailService) SendPasswordResetEmail(email, username, token string) error {
	resetLink := fmt.Sprintf("%s/auth/reset/%s/", s.backendURL, token)

	subject := "重置您的密码"
	body := fmt.Sprintf("亲爱的 %s，\n\n请点击以下链接重置您的密码：\n%s\n\n此链接将在24小时后过期。如果这不是您的操作，请忽略本邮件。",
		username, resetLink)

	s.sendEmailAsync(email, subject, body)
	return nil
}

func (s *EmailService) sendEmailAsync(to, subject, body string) {
	go func() {
		if err := s.sendEmail(to, subject, body); err != nil {
			util.Logger.Error("异步发送邮件失败", zap.Error(err), zap.String("to", to))
		}
	}()
}

func (s *EmailService) sendEmail(to, subject, body string) error {
	util.Logger.Info("开始发送邮件",
		zap.String("to", to),
		zap.String("subject", subject))

	m := mail.NewMessage()
	m.SetHeader("From", s.username)
	m.SetHeader("To", to)
	m.SetHeader("Subject", subject)
	m.SetBody("text/plain", body)

	d := mail.NewDialer(s.smtpHost, s.smtpPort, s.username, s.password)
	d.Timeout = 20 * time.Second
	d.SSL = true
	d.TLSConfig = &tls.Config{ServerName: s.smtpHost}

	if err := d.DialAndSend(m); err != nil {
		util.Logger.Error("发送邮件失败", zap.Error(err))
		return fmt.Errorf("发送邮件失败: %w", err)
	}

	util.Logger.Info("邮件发送成功", zap.String("to", to))
	return nil
}

package email

import (
	"context"
	"fmt"
	"strings"

	"NotiFlow/internal/config"

	"gopkg.in/gomail.v2"
)

// Sender 邮件投递原语，对上层只暴露"给某用户发一封"的能力
type Sender interface {
	SendToUser(ctx context.Context, userId, subject, body string) error
}

type smtpSender struct {
	host       string
	port       int
	username   string
	password   string
	from       string
	fromName   string
	userDomain string
}

// NewSmtpSender 基于 gomail 的 SMTP 投递实现
func NewSmtpSender(conf config.SmtpConfig) Sender {
	return &smtpSender{
		host:       conf.Host,
		port:       conf.Port,
		username:   conf.Username,
		password:   conf.Password,
		from:       conf.From,
		fromName:   conf.FromName,
		userDomain: conf.UserDomain,
	}
}

// recipientAddress 用户标识本身是邮箱就直接用，否则按配置域名拼接
func (s *smtpSender) recipientAddress(userId string) string {
	if strings.Contains(userId, "@") {
		return userId
	}
	return fmt.Sprintf("%s@%s", userId, s.userDomain)
}

func (s *smtpSender) SendToUser(_ context.Context, userId, subject, body string) error {
	m := gomail.NewMessage()
	m.SetHeader("From", m.FormatAddress(s.from, s.fromName))
	m.SetHeader("To", s.recipientAddress(userId))
	m.SetHeader("Subject", subject)
	m.SetBody("text/plain", body)

	d := gomail.NewDialer(s.host, s.port, s.username, s.password)
	return d.DialAndSend(m)
}

package notification

import (
	"context"
	"fmt"
	"log"
	"net/smtp"
	"strings"

	"app/internal/config"
)

// 1通のメール。Bccは宛先には入るがヘッダには出さない
type Message struct {
	To      []string
	Bcc     []string
	Subject string
	Body    string
}

type Mailer interface {
	Send(ctx context.Context, msg Message) error
}

// SMTPMailerは認証付きリレー経由で送る。
// 認証情報が無ければ全てno-op（起動時に1回だけログを出す）
type SMTPMailer struct {
	host    string
	port    int
	user    string
	pass    string
	from    string
	enabled bool
}

func NewSMTPMailer(cfg config.Config) *SMTPMailer {
	enabled := cfg.SMTPEnabled()
	if !enabled {
		log.Printf("notification: SMTP未設定のためメール送信は全てno-op")
	}
	return &SMTPMailer{
		host:    cfg.SMTPHost,
		port:    cfg.SMTPPort,
		user:    cfg.SMTPUser,
		pass:    cfg.SMTPPass,
		from:    cfg.SMTPUser,
		enabled: enabled,
	}
}

func (m *SMTPMailer) Send(ctx context.Context, msg Message) error {
	if !m.enabled {
		return nil
	}
	if len(msg.To) == 0 && len(msg.Bcc) == 0 {
		return nil
	}

	recipients := append(append([]string{}, msg.To...), msg.Bcc...)

	var b strings.Builder
	fmt.Fprintf(&b, "From: %s\r\n", m.from)
	fmt.Fprintf(&b, "To: %s\r\n", strings.Join(msg.To, ", "))
	fmt.Fprintf(&b, "Subject: %s\r\n", msg.Subject)
	b.WriteString("MIME-Version: 1.0\r\n")
	b.WriteString("Content-Type: text/plain; charset=\"UTF-8\"\r\n")
	b.WriteString("\r\n")
	b.WriteString(msg.Body)

	addr := fmt.Sprintf("%s:%d", m.host, m.port)
	auth := smtp.PlainAuth("", m.user, m.pass, m.host)

	return smtp.SendMail(addr, auth, m.from, recipients, []byte(b.String()))
}

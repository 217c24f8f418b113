package mail

import (
	"context"
	"fmt"
	"log"

	gomail "github.com/wneessen/go-mail"
)

const codeSubject = "確認コードのお知らせ"

// SMTPでワンタイムコードを送る。
type SMTPSender struct {
	host     string
	port     int
	username string
	password string
	from     string
}

// DI
func NewSMTPSender(host string, port int, username string, password string, from string) *SMTPSender {
	return &SMTPSender{
		host:     host,
		port:     port,
		username: username,
		password: password,
		from:     from,
	}
}

func (s *SMTPSender) SendCode(ctx context.Context, to string, code string) error {
	msg := gomail.NewMsg()

	if err := msg.From(s.from); err != nil {
		return err
	}
	if err := msg.To(to); err != nil {
		return err
	}
	msg.Subject(codeSubject)
	msg.SetBodyString(gomail.TypeTextPlain, fmt.Sprintf(
		"確認コード: %s\n\nこのコードの有効期限は10分です。心当たりがない場合は無視してください。\n", code))

	client, err := gomail.NewClient(s.host,
		gomail.WithPort(s.port),
		gomail.WithSMTPAuth(gomail.SMTPAuthLogin),
		gomail.WithUsername(s.username),
		gomail.WithPassword(s.password),
		gomail.WithTLSPolicy(gomail.TLSMandatory),
	)
	if err != nil {
		return err
	}

	return client.DialAndSendWithContext(ctx, msg)
}

// 開発用。メールを送らずコードをログに出すだけ
type ConsoleSender struct{}

func NewConsoleSender() *ConsoleSender {
	return &ConsoleSender{}
}

func (s *ConsoleSender) SendCode(ctx context.Context, to string, code string) error {
	log.Printf("[mail] to=%s code=%s", to, code)
	return nil
}

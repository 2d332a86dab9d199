package email

import (
	"fmt"

	"github.com/HanTheDev/recruit-api/internal/config"
	"gopkg.in/gomail.v2"
)

type Sender interface {
	SendWaitlistConfirmation(to, name string) error
}

type smtpSender struct {
	config config.SMTPConfig
}

func NewSMTPSender(config config.SMTPConfig) Sender {
	return &smtpSender{config: config}
}

func (s *smtpSender) SendWaitlistConfirmation(to, name string) error {
	m := waitlistMessage(s.config.From, to, name)

	d := gomail.NewDialer(s.config.Host, s.config.Port, s.config.Username, s.config.Password)
	return d.DialAndSend(m)
}

func waitlistMessage(from, to, name string) *gomail.Message {
	m := gomail.NewMessage()
	m.SetHeader("From", from)
	m.SetHeader("To", to)
	m.SetHeader("Subject", "Você está na lista de espera!")

	body := fmt.Sprintf("Olá %s,\n\n"+
		"Obrigado por se inscrever! Seu email foi adicionado à nossa lista de espera "+
		"e avisaremos assim que o acesso estiver disponível.\n\n"+
		"Se você não fez esta inscrição, ignore esta mensagem.", name)

	m.SetBody("text/plain", body)
	return m
}

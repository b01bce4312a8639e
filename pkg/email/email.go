package email

import (
	"crypto/tls"
	"errors"
	"fmt"
	"net"
	"net/url"
	"strconv"

	"github.com/dajohi/goemail"
)

// implicitTLSPort is the submission port that expects TLS from the first byte
const implicitTLSPort = 465

// EmailConfig holds SMTP configuration
type EmailConfig struct {
	SMTPHost     string
	SMTPPort     int
	SMTPUsername string
	SMTPPassword string
	FromName     string
	FromEmail    string
}

// Attachment is a file carried by a message
type Attachment struct {
	Filename string
	Data     []byte
}

// Message is a plain text email with optional attachments
type Message struct {
	To          string
	Subject     string
	Body        string
	Attachments []Attachment
}

type sendFunc func(msg *goemail.Message) error

// EmailService handles email sending
type EmailService struct {
	config EmailConfig
	send   sendFunc
}

// NewEmailService creates a new email service
func NewEmailService(config EmailConfig) (*EmailService, error) {
	client, err := goemail.NewSMTP(smtpURL(config), &tls.Config{ServerName: config.SMTPHost})
	if err != nil {
		return nil, fmt.Errorf("failed to configure smtp client: %w", err)
	}
	return &EmailService{config: config, send: client.Send}, nil
}

// smtpURL renders the smtp[s]://user:password@host:port form goemail expects
func smtpURL(config EmailConfig) string {
	u := url.URL{
		Scheme: "smtp",
		Host:   net.JoinHostPort(config.SMTPHost, strconv.Itoa(config.SMTPPort)),
	}
	if config.SMTPPort == implicitTLSPort {
		u.Scheme = "smtps"
	}
	if config.SMTPUsername != "" {
		u.User = url.UserPassword(config.SMTPUsername, config.SMTPPassword)
	}
	return u.String()
}

// Send delivers the message over SMTP
func (s *EmailService) Send(msg Message) error {
	m, err := s.buildMessage(msg)
	if err != nil {
		return fmt.Errorf("failed to build email: %w", err)
	}
	if err := s.send(m); err != nil {
		return fmt.Errorf("failed to send email: %w", err)
	}
	return nil
}

func (s *EmailService) buildMessage(msg Message) (*goemail.Message, error) {
	m := goemail.NewMessage(s.config.FromEmail, msg.Subject, msg.Body)
	if m == nil {
		return nil, errors.New("invalid sender address " + strconv.Quote(s.config.FromEmail))
	}
	if s.config.FromName != "" {
		m.SetName(s.config.FromName)
	}
	m.AddTo(msg.To)
	for _, a := range msg.Attachments {
		m.AddAttachment(a.Filename, a.Data)
	}
	return m, nil
}

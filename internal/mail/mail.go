// Package mail renders the application's HTML messages and delivers them
// over SMTP.
package mail

import (
	"bytes"
	"crypto/tls"
	"embed"
	"fmt"
	"html/template"
	"net"
	"net/smtp"
	"strconv"
	"strings"
	"time"
)

const (
	SubjectResetPassword = "Reset Password - SpeseCasa"
	SubjectTest          = "Test SMTP - SpeseCasa"

	dialTimeout = 15 * time.Second
)

//go:embed templates/*.html
var templateFS embed.FS

var templates = template.Must(template.ParseFS(templateFS, "templates/*.html"))

// Server is the address and credentials of an SMTP relay.
type Server struct {
	Host     string
	Port     int
	Username string
	Password string
	UseTLS   bool
}

// Message is a single HTML mail.
type Message struct {
	From    string
	To      string
	Subject string
	HTML    string
}

// Sender delivers a message through a relay.
type Sender interface {
	Send(srv Server, msg Message) error
}

// ResetPasswordData fills the reset password template.
type ResetPasswordData struct {
	Username string
	Link     string
}

// RenderResetPassword renders the password reset mail body.
func RenderResetPassword(data ResetPasswordData) (string, error) {
	return render("reset_password.html", data)
}

// RenderTest renders the body of the SMTP test mail.
func RenderTest() (string, error) {
	return render("test.html", nil)
}

func render(name string, data interface{}) (string, error) {
	var body bytes.Buffer
	if err := templates.ExecuteTemplate(&body, name, data); err != nil {
		return "", fmt.Errorf("render %s: %w", name, err)
	}
	return body.String(), nil
}

// Build serializes the message with its headers.
func Build(msg Message) []byte {
	var b bytes.Buffer
	b.WriteString("From: " + msg.From + "\r\n")
	b.WriteString("To: " + msg.To + "\r\n")
	b.WriteString("Subject: " + msg.Subject + "\r\n")
	b.WriteString("MIME-Version: 1.0\r\n")
	b.WriteString("Content-Type: text/html; charset=\"UTF-8\"\r\n")
	b.WriteString("\r\n")
	b.WriteString(msg.HTML)
	return b.Bytes()
}

// SMTPSender is the Sender backed by net/smtp.
type SMTPSender struct{}

// NewSMTPSender creates a new SMTPSender.
func NewSMTPSender() *SMTPSender {
	return &SMTPSender{}
}

// Send connects to the relay, upgrades with STARTTLS when asked, logs in
// when a username is set and delivers the message.
func (s *SMTPSender) Send(srv Server, msg Message) error {
	if strings.ContainsAny(msg.To+msg.From+msg.Subject, "\r\n") {
		return fmt.Errorf("header contains a line break")
	}

	addr := net.JoinHostPort(srv.Host, strconv.Itoa(srv.Port))
	conn, err := net.DialTimeout("tcp", addr, dialTimeout)
	if err != nil {
		return fmt.Errorf("dial %s: %w", addr, err)
	}

	client, err := smtp.NewClient(conn, srv.Host)
	if err != nil {
		conn.Close()
		return fmt.Errorf("smtp handshake: %w", err)
	}
	defer client.Close()

	if srv.UseTLS {
		if err := client.StartTLS(&tls.Config{ServerName: srv.Host, MinVersion: tls.VersionTLS12}); err != nil {
			return fmt.Errorf("starttls: %w", err)
		}
	}
	if srv.Username != "" {
		auth := smtp.PlainAuth("", srv.Username, srv.Password, srv.Host)
		if err := client.Auth(auth); err != nil {
			return fmt.Errorf("smtp auth: %w", err)
		}
	}

	if err := client.Mail(msg.From); err != nil {
		return fmt.Errorf("mail from: %w", err)
	}
	if err := client.Rcpt(msg.To); err != nil {
		return fmt.Errorf("rcpt to: %w", err)
	}
	w, err := client.Data()
	if err != nil {
		return fmt.Errorf("data: %w", err)
	}
	if _, err := w.Write(Build(msg)); err != nil {
		return fmt.Errorf("write body: %w", err)
	}
	if err := w.Close(); err != nil {
		return fmt.Errorf("close body: %w", err)
	}
	return client.Quit()
}

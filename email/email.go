package email

import (
	"bytes"
	"context"
	"fmt"
	"html/template"
	"net/smtp"
	"strings"
	"time"

	"portfolio/models"
)

// Notifier tells the site owner about a new contact message.
type Notifier interface {
	SendContactMessage(ctx context.Context, msg models.Message) error
}

// EmailService sends notifications through an SMTP relay with PLAIN auth.
type EmailService struct {
	host     string
	port     string
	user     string
	password string
	to       string

	send func(addr string, a smtp.Auth, from string, to []string, msg []byte) error
}

func NewEmailService(host, port, user, password, to string) *EmailService {
	if to == "" {
		to = user
	}
	return &EmailService{
		host:     host,
		port:     port,
		user:     user,
		password: password,
		to:       to,
		send:     smtp.SendMail,
	}
}

// Configured reports whether an SMTP credential is present.
func (e *EmailService) Configured() bool {
	return e.user != "" && e.password != "" && e.host != ""
}

var contactHTML = template.Must(template.New("contact").Parse(`<h2>New Contact Form Submission</h2>
<p><strong>Name:</strong> {{.Name}}</p>
<p><strong>Email:</strong> {{.Email}}</p>
<p><strong>Message:</strong></p>
<p>{{.Message}}</p>
`))

// SendContactMessage mails msg to the owner with a reply-to of the sender.
func (e *EmailService) SendContactMessage(ctx context.Context, msg models.Message) error {
	if !e.Configured() {
		return fmt.Errorf("email not configured")
	}
	if err := ctx.Err(); err != nil {
		return err
	}

	var html bytes.Buffer
	if err := contactHTML.Execute(&html, msg); err != nil {
		return fmt.Errorf("render contact email: %w", err)
	}
	text := fmt.Sprintf("Name: %s\nEmail: %s\n\nMessage:\n%s\n", msg.Name, msg.Email, msg.Message)

	boundary := fmt.Sprintf("portfolio-%d", time.Now().UnixNano())
	var body strings.Builder
	fmt.Fprintf(&body, "From: %s\r\n", e.user)
	fmt.Fprintf(&body, "To: %s\r\n", e.to)
	fmt.Fprintf(&body, "Reply-To: %s\r\n", headerSafe(msg.Email))
	fmt.Fprintf(&body, "Subject: New Portfolio Contact: %s\r\n", headerSafe(msg.Name))
	body.WriteString("MIME-Version: 1.0\r\n")
	fmt.Fprintf(&body, "Content-Type: multipart/alternative; boundary=%q\r\n\r\n", boundary)
	fmt.Fprintf(&body, "--%s\r\nContent-Type: text/plain; charset=utf-8\r\n\r\n%s\r\n", boundary, text)
	fmt.Fprintf(&body, "--%s\r\nContent-Type: text/html; charset=utf-8\r\n\r\n%s\r\n", boundary, html.String())
	fmt.Fprintf(&body, "--%s--\r\n", boundary)

	auth := smtp.PlainAuth("", e.user, e.password, e.host)
	addr := fmt.Sprintf("%s:%s", e.host, e.port)

	if err := e.send(addr, auth, e.user, []string{e.to}, []byte(body.String())); err != nil {
		return fmt.Errorf("send contact email: %w", err)
	}
	return nil
}

func headerSafe(s string) string {
	return strings.NewReplacer("\r", " ", "\n", " ").Replace(s)
}

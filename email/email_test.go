package email

import (
	"context"
	"errors"
	"net/smtp"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"portfolio/models"
)

func TestSendContactMessage(t *testing.T) {
	svc := NewEmailService("smtp.example.com", "587", "owner@example.com", "app-pass", "")

	var gotAddr, gotFrom string
	var gotTo []string
	var gotMsg []byte
	svc.send = func(addr string, a smtp.Auth, from string, to []string, msg []byte) error {
		gotAddr, gotFrom, gotTo, gotMsg = addr, from, to, msg
		return nil
	}

	err := svc.SendContactMessage(context.Background(), models.Message{
		Name:    "Ada\r\nBcc: evil@example.com",
		Email:   "ada@example.com",
		Message: "<b>hello</b>",
	})
	require.NoError(t, err)

	assert.Equal(t, "smtp.example.com:587", gotAddr)
	assert.Equal(t, "owner@example.com", gotFrom)
	assert.Equal(t, []string{"owner@example.com"}, gotTo)

	body := string(gotMsg)
	assert.Contains(t, body, "Reply-To: ada@example.com\r\n")
	assert.Contains(t, body, "Subject: New Portfolio Contact: Ada  Bcc: evil@example.com\r\n")
	assert.NotContains(t, body, "\r\nBcc:")
	assert.Contains(t, body, "&lt;b&gt;hello&lt;/b&gt;")
	assert.Contains(t, body, "Content-Type: text/plain")
}

func TestSendContactMessageErrors(t *testing.T) {
	unconfigured := NewEmailService("smtp.example.com", "587", "", "", "")
	assert.False(t, unconfigured.Configured())
	assert.Error(t, unconfigured.SendContactMessage(context.Background(), models.Message{}))

	svc := NewEmailService("smtp.example.com", "587", "owner@example.com", "app-pass", "inbox@example.com")
	svc.send = func(string, smtp.Auth, string, []string, []byte) error {
		return errors.New("relay down")
	}
	err := svc.SendContactMessage(context.Background(), models.Message{Name: "A", Email: "a@b.co", Message: "hi"})
	assert.ErrorContains(t, err, "relay down")
}

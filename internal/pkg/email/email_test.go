package email

import (
	"net/smtp"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/inboop/inboop_server/config"
)

func TestSendInvitation(t *testing.T) {
	svc := NewService(&config.EmailConfig{
		SMTPHost: "smtp.inboop.test",
		SMTPPort: 587,
		Username: "mailer",
		Password: "secret",
		From:     "noreply@inboop.test",
	})

	var (
		gotAddr string
		gotTo   []string
		gotMsg  string
	)
	svc.send = func(addr string, a smtp.Auth, from string, to []string, msg []byte) error {
		gotAddr, gotTo, gotMsg = addr, to, string(msg)
		return nil
	}

	err := svc.SendInvitation("new@shop.test", "Sneaker <Shop>", "Alice", "https://app.inboop.test/invite?token=abc")
	require.NoError(t, err)

	assert.Equal(t, "smtp.inboop.test:587", gotAddr)
	assert.Equal(t, []string{"new@shop.test"}, gotTo)
	assert.Contains(t, gotMsg, "Subject: Alice invited you to Sneaker <Shop> on Inboop\r\n")
	assert.Contains(t, gotMsg, "Content-Type: text/html; charset=UTF-8\r\n")
	assert.Contains(t, gotMsg, "Sneaker &lt;Shop&gt;")
	assert.Contains(t, gotMsg, "https://app.inboop.test/invite?token=abc")
}

func TestBuildMessage_HeaderOrder(t *testing.T) {
	msg := string(buildMessage("a@x", "b@y", "hi", "text/plain", "body"))

	head, body, found := strings.Cut(msg, "\r\n\r\n")
	require.True(t, found)
	assert.Equal(t, "body", body)
	assert.True(t, strings.HasPrefix(head, "Content-Type: text/plain\r\nFrom: a@x\r\n"))
}

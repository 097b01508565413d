package mailer

import (
	"context"
	"log/slog"
	"net/smtp"
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSend(t *testing.T) {
	var (
		gotAddr string
		gotFrom string
		gotTo   []string
		gotMsg  string
	)

	m := NewMailer(slog.New(slog.NewTextHandler(os.Stdout, nil)), Config{
		Host:        "smtp.example.com",
		Port:        587,
		DefaultFrom: "noreply@taskflow.local",
	})
	m.send = func(addr string, _ smtp.Auth, from string, to []string, msg []byte) error {
		gotAddr = addr
		gotFrom = from
		gotTo = to
		gotMsg = string(msg)

		return nil
	}

	err := m.Send(context.Background(), "alice@example.com", "Hello", "<p>Hi</p>", "")
	require.NoError(t, err)

	assert.Equal(t, "smtp.example.com:587", gotAddr)
	assert.Equal(t, "noreply@taskflow.local", gotFrom)
	assert.Equal(t, []string{"alice@example.com"}, gotTo)
	assert.Contains(t, gotMsg, "Subject: Hello\r\n")
	assert.Contains(t, gotMsg, "Content-Type: text/html")
	assert.Contains(t, gotMsg, "\r\n\r\n<p>Hi</p>")
}

func TestSend_ExplicitFromOverridesDefault(t *testing.T) {
	var gotFrom string

	m := NewMailer(slog.New(slog.NewTextHandler(os.Stdout, nil)), Config{
		Host:        "smtp.example.com",
		Port:        25,
		DefaultFrom: "noreply@taskflow.local",
	})
	m.send = func(_ string, _ smtp.Auth, from string, _ []string, _ []byte) error {
		gotFrom = from

		return nil
	}

	err := m.Send(context.Background(), "bob@example.com", "s", "b", "alerts@taskflow.local")
	require.NoError(t, err)

	assert.Equal(t, "alerts@taskflow.local", gotFrom)
}

func TestNewMailer_AuthOnlyWithUsername(t *testing.T) {
	anonymous := NewMailer(slog.New(slog.NewTextHandler(os.Stdout, nil)), Config{Host: "h", Port: 25})
	assert.Nil(t, anonymous.auth)

	authed := NewMailer(slog.New(slog.NewTextHandler(os.Stdout, nil)), Config{
		Host: "h", Port: 25, Username: "user", Password: "pass",
	})
	assert.NotNil(t, authed.auth)
}

package email

import (
	"errors"
	"net/smtp"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type sentMail struct {
	addr string
	from string
	to   []string
	msg  string
}

func capture(e *EmailService, err error) *[]sentMail {
	var sent []sentMail
	e.send = func(addr string, _ smtp.Auth, from string, to []string, msg []byte) error {
		sent = append(sent, sentMail{addr, from, to, string(msg)})
		return err
	}
	return &sent
}

func TestNotifySubmission_Disabled(t *testing.T) {
	e := NewEmailService(Options{Notify: "owner@example.com"})
	sent := capture(e, nil)

	assert.False(t, e.Enabled())
	require.NoError(t, e.NotifySubmission("contact", map[string]string{"name": "Ana"}))
	assert.Empty(t, *sent)

	var nilService *EmailService
	assert.False(t, nilService.Enabled())
}

func TestNotifySubmission_Sends(t *testing.T) {
	e := NewEmailService(Options{Host: "smtp.example.com", User: "bot@example.com", Notify: "owner@example.com"})
	sent := capture(e, nil)

	err := e.NotifySubmission("dealer", map[string]string{
		"name":    "Ana",
		"email":   "ana@example.com",
		"company": "",
	})
	require.NoError(t, err)
	require.Len(t, *sent, 1)

	m := (*sent)[0]
	assert.Equal(t, "smtp.example.com:587", m.addr)
	assert.Equal(t, "bot@example.com", m.from)
	assert.Equal(t, []string{"owner@example.com"}, m.to)
	assert.Contains(t, m.msg, "Subject: New dealer submission\r\n")
	assert.Contains(t, m.msg, "email: ana@example.com\r\nname: Ana\r\n")
	assert.NotContains(t, m.msg, "company:")
}

func TestNotifySubmission_WrapsFailure(t *testing.T) {
	e := NewEmailService(Options{Host: "smtp.example.com", Notify: "owner@example.com"})
	capture(e, errors.New("connection refused"))

	err := e.NotifySubmission("career", map[string]string{"name": "Ana"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "career")
}

func TestBuildMessage_StripsHeaderBreaks(t *testing.T) {
	msg := string(buildMessage("a@example.com", "b@example.com", "Hi\r\nBcc: evil@example.com", "body"))

	headers := strings.SplitN(msg, "\r\n\r\n", 2)[0]
	assert.NotContains(t, headers, "\r\nBcc:")
	assert.Contains(t, headers, "Subject: Hi  Bcc: evil@example.com")
}

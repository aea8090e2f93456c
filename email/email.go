// Package email notifies the site owner about new lead-form submissions.
package email

import (
	"fmt"
	"net/smtp"
	"sort"
	"strings"
)

type Options struct {
	Host     string
	Port     string
	User     string
	Password string
	From     string
	// Notify is the inbox that receives submission notices.
	Notify string
}

type EmailService struct {
	opts Options
	send func(addr string, a smtp.Auth, from string, to []string, msg []byte) error
}

func NewEmailService(opts Options) *EmailService {
	if opts.Port == "" {
		opts.Port = "587"
	}
	if opts.From == "" {
		opts.From = opts.User
	}
	return &EmailService{opts: opts, send: smtp.SendMail}
}

// Enabled reports whether notices can be sent at all.
func (e *EmailService) Enabled() bool {
	return e != nil && e.opts.Host != "" && e.opts.Notify != ""
}

// NotifySubmission mails the fields of a new submission to the owner. It is a
// no-op when SMTP is not configured.
func (e *EmailService) NotifySubmission(kind string, fields map[string]string) error {
	if !e.Enabled() {
		return nil
	}

	msg := buildMessage(e.opts.From, e.opts.Notify, "New "+kind+" submission", submissionBody(kind, fields))

	var auth smtp.Auth
	if e.opts.User != "" {
		auth = smtp.PlainAuth("", e.opts.User, e.opts.Password, e.opts.Host)
	}
	addr := fmt.Sprintf("%s:%s", e.opts.Host, e.opts.Port)

	if err := e.send(addr, auth, e.opts.From, []string{e.opts.Notify}, msg); err != nil {
		return fmt.Errorf("send %s notice: %w", kind, err)
	}
	return nil
}

func submissionBody(kind string, fields map[string]string) string {
	keys := make([]string, 0, len(fields))
	for k, v := range fields {
		if strings.TrimSpace(v) != "" {
			keys = append(keys, k)
		}
	}
	sort.Strings(keys)

	var b strings.Builder
	fmt.Fprintf(&b, "A new %s form was submitted on the website.\r\n\r\n", kind)
	for _, k := range keys {
		fmt.Fprintf(&b, "%s: %s\r\n", k, fields[k])
	}
	return b.String()
}

// buildMessage strips line breaks from header values so user input cannot
// inject headers.
func buildMessage(from, to, subject, body string) []byte {
	header := strings.NewReplacer("\r", " ", "\n", " ")
	return []byte(fmt.Sprintf("From: %s\r\n"+
		"To: %s\r\n"+
		"Subject: %s\r\n"+
		"MIME-Version: 1.0\r\n"+
		"Content-Type: text/plain; charset=UTF-8\r\n"+
		"\r\n"+
		"%s\r\n", header.Replace(from), header.Replace(to), header.Replace(subject), body))
}

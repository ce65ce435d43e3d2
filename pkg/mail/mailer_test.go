package mail

import (
	"bytes"
	"context"
	"crypto/tls"
	"io"
	"net"
	"net/smtp"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"golang.org/x/time/rate"
)

type recordingClient struct {
	from  string
	rcpts []string
	body  bytes.Buffer
	quit  bool
}

type nopWriteCloser struct{ io.Writer }

func (nopWriteCloser) Close() error { return nil }

func (c *recordingClient) Mail(from string) error          { c.from = from; return nil }
func (c *recordingClient) Rcpt(to string) error            { c.rcpts = append(c.rcpts, to); return nil }
func (c *recordingClient) Data() (io.WriteCloser, error)   { return nopWriteCloser{&c.body}, nil }
func (c *recordingClient) Quit() error                     { c.quit = true; return nil }
func (c *recordingClient) Close() error                    { return nil }
func (c *recordingClient) StartTLS(*tls.Config) error      { return nil }
func (c *recordingClient) Auth(smtp.Auth) error            { return nil }
func (c *recordingClient) Extension(string) (bool, string) { return false, "" }

func newRecordingMailer(t *testing.T) (*smtpMailer, *recordingClient) {
	t.Helper()
	mailer, err := NewSMTPMailer(SMTPSettings{
		Enabled: true,
		Host:    "smtp.example.com",
		Port:    587,
		From:    "jobs@portal.example",
	})
	require.NoError(t, err)

	client := &recordingClient{}
	sm := mailer.(*smtpMailer)
	sm.dialFn = func(context.Context, SMTPSettings) (net.Conn, smtpClient, error) {
		local, remote := net.Pipe()
		t.Cleanup(func() { _ = remote.Close() })
		return local, client, nil
	}
	sm.now = func() time.Time { return time.Date(2024, 3, 1, 9, 0, 0, 0, time.UTC) }
	return sm, client
}

func TestNewSMTPMailerValidatesConfig(t *testing.T) {
	_, err := NewSMTPMailer(SMTPSettings{Enabled: true})
	require.ErrorContains(t, err, "host is required")

	_, err = NewSMTPMailer(SMTPSettings{Enabled: true, Host: "smtp.example.com"})
	require.ErrorContains(t, err, "port is required")

	mailer, err := NewSMTPMailer(SMTPSettings{Enabled: false})
	require.NoError(t, err)
	require.NotNil(t, mailer)
}

func TestSMTPMailerSendDisabled(t *testing.T) {
	mailer, err := NewSMTPMailer(SMTPSettings{Enabled: false})
	require.NoError(t, err)

	err = mailer.Send(context.Background(), Message{To: []string{"a@example.com"}, Subject: "x", Body: "y"})
	require.ErrorIs(t, err, ErrSMTPDisabled)
}

func TestSMTPMailerDefaultTimeout(t *testing.T) {
	mailer, err := NewSMTPMailer(SMTPSettings{Enabled: true, Host: "smtp.example.com", Port: 465, UseTLS: true})
	require.NoError(t, err)
	require.Equal(t, 10*time.Second, mailer.(*smtpMailer).cfg.Timeout)
}

func TestSMTPMailerRejectsBadInput(t *testing.T) {
	sm, _ := newRecordingMailer(t)

	err := sm.Send(context.Background(), Message{To: []string{"   ", "\t"}})
	require.ErrorContains(t, err, "at least one recipient")

	err = sm.Send(context.Background(), Message{From: "invalid-from", To: []string{"user@example.com"}})
	require.ErrorContains(t, err, "invalid from address")

	err = sm.Send(context.Background(), Message{To: []string{"user@example.com", "bad-address"}})
	require.ErrorContains(t, err, "invalid recipient address")

	sm.cfg.From = ""
	err = sm.Send(context.Background(), Message{To: []string{"user@example.com"}})
	require.ErrorIs(t, err, ErrNoCredentials)
}

func TestSMTPMailerSendWritesEnvelope(t *testing.T) {
	sm, client := newRecordingMailer(t)

	err := sm.Send(context.Background(), Message{
		ReplyTo: "employer@acme.example",
		To:      []string{"admin@portal.example", "ADMIN@portal.example"},
		Subject: "New inquiry\r\nfrom Acme",
		Body:    "Please call back.",
	})
	require.NoError(t, err)

	require.Equal(t, "jobs@portal.example", client.from)
	require.Equal(t, []string{"admin@portal.example"}, client.rcpts)
	require.True(t, client.quit)

	body := client.body.String()
	require.Contains(t, body, "Subject: New inquiry  from Acme\r\n")
	require.Contains(t, body, "Reply-To: employer@acme.example\r\n")
	require.Contains(t, body, "Date: Fri, 01 Mar 2024 09:00:00 +0000\r\n")
	require.Contains(t, body, "@portal.example>\r\n")
	require.True(t, strings.HasSuffix(body, "\r\n\r\nPlease call back."))
}

type countingMailer struct{ sent int }

func (c *countingMailer) Send(context.Context, Message) error { c.sent++; return nil }

func TestThrottledMailerHonoursContext(t *testing.T) {
	inner := &countingMailer{}
	limiter := rate.NewLimiter(rate.Every(time.Hour), 1)
	mailer := Throttled(inner, limiter)

	require.NoError(t, mailer.Send(context.Background(), Message{}))

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()
	err := mailer.Send(ctx, Message{})
	require.Error(t, err)
	require.Equal(t, 1, inner.sent)
}

func TestPerMinute(t *testing.T) {
	require.Nil(t, PerMinute(0))
	limiter := PerMinute(30)
	require.NotNil(t, limiter)
	require.InDelta(t, 0.5, float64(limiter.Limit()), 1e-9)

	inner := &countingMailer{}
	require.Same(t, Mailer(inner), Throttled(inner, nil))
}

func TestUniqueAddresses(t *testing.T) {
	result := uniqueAddresses([]string{"alice@example.com", "bob@example.com", " alice@example.com ", "", "BOB@example.com"})
	require.Equal(t, []string{"alice@example.com", "bob@example.com"}, result)
}

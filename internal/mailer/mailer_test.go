package mailer

import (
	"bytes"
	"context"
	"errors"
	"io"
	"strings"
	"testing"
	"time"

	"github.com/emersion/go-message/mail"
	"github.com/emersion/go-sasl"
	"github.com/go-playground/assert/v2"
)

type capturedMail struct {
	addr string
	from string
	to   []string
	auth bool
	raw  []byte
}

func newTestMailer(t *testing.T, sendErr error) (*Mailer, *[]capturedMail) {
	t.Helper()
	m, err := New(Config{
		Addr:         "smtp.example.com:587",
		Username:     "user",
		Password:     "pass",
		From:         "StoxWatch <no-reply@stoxwatch.ai>",
		DashboardURL: "https://stoxwatch.example.com",
	})
	assert.Equal(t, nil, err)
	m.now = func() time.Time { return time.Date(2026, 10, 16, 12, 0, 0, 0, time.UTC) }

	var sent []capturedMail
	m.WithSendFunc(func(addr string, a sasl.Client, from string, to []string, r io.Reader) error {
		raw, _ := io.ReadAll(r)
		sent = append(sent, capturedMail{addr: addr, from: from, to: to, auth: a != nil, raw: raw})
		return sendErr
	})
	return m, &sent
}

// readParts returns subject plus body per content type.
func readParts(t *testing.T, raw []byte) (string, map[string]string) {
	t.Helper()
	mr, err := mail.CreateReader(bytes.NewReader(raw))
	assert.Equal(t, nil, err)

	subject, _ := mr.Header.Subject()
	bodies := map[string]string{}
	for {
		p, err := mr.NextPart()
		if err == io.EOF {
			break
		}
		assert.Equal(t, nil, err)

		if h, ok := p.Header.(*mail.InlineHeader); ok {
			ct, _, _ := h.ContentType()
			b, _ := io.ReadAll(p.Body)
			bodies[ct] = string(b)
		}
	}
	return subject, bodies
}

func TestSendWelcome(t *testing.T) {
	m, sent := newTestMailer(t, nil)

	err := m.SendWelcome(context.Background(), "ada@example.com", "Ada", "Glad you're here <3")
	assert.Equal(t, nil, err)
	assert.Equal(t, 1, len(*sent))

	got := (*sent)[0]
	assert.Equal(t, "smtp.example.com:587", got.addr)
	assert.Equal(t, "no-reply@stoxwatch.ai", got.from)
	assert.Equal(t, []string{"ada@example.com"}, got.to)
	assert.Equal(t, true, got.auth)

	subject, bodies := readParts(t, got.raw)
	assert.Equal(t, WelcomeSubject, subject)
	assert.Equal(t, true, strings.Contains(bodies["text/plain"], "Hey Ada,"))
	assert.Equal(t, true, strings.Contains(bodies["text/html"], "Welcome aboard Ada"))
	// intro is plain text and must be escaped
	assert.Equal(t, true, strings.Contains(bodies["text/html"], "Glad you&#39;re here &lt;3"))
	assert.Equal(t, true, strings.Contains(bodies["text/html"], `href="https://stoxwatch.example.com"`))
}

func TestSendNewsSummary(t *testing.T) {
	m, sent := newTestMailer(t, nil)

	err := m.SendNewsSummary(context.Background(), NewsSummary{
		Email:   "bob@example.com",
		Name:    "Bob",
		Date:    "Friday, October 16, 2026",
		Content: "<h3>Market Overview</h3><p>Stocks rose.</p>",
	})
	assert.Equal(t, nil, err)

	subject, bodies := readParts(t, (*sent)[0].raw)
	assert.Equal(t, NewsSummarySubject+" - Friday, October 16, 2026", subject)
	// summarizer output is embedded as markup
	assert.Equal(t, true, strings.Contains(bodies["text/html"], "<h3>Market Overview</h3><p>Stocks rose.</p>"))
	assert.Equal(t, true, strings.Contains(bodies["text/plain"], "Friday, October 16, 2026"))
}

func TestSendPropagatesTransportError(t *testing.T) {
	m, _ := newTestMailer(t, errors.New("connection refused"))

	err := m.SendWelcome(context.Background(), "ada@example.com", "Ada", "hi")
	assert.NotEqual(t, nil, err)
	assert.Equal(t, true, strings.Contains(err.Error(), "ada@example.com"))
}

func TestSendHonorsCancelledContext(t *testing.T) {
	m, sent := newTestMailer(t, nil)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	err := m.SendWelcome(ctx, "ada@example.com", "Ada", "hi")
	assert.Equal(t, true, errors.Is(err, context.Canceled))
	assert.Equal(t, 0, len(*sent))
}

func TestNewRejectsBadFrom(t *testing.T) {
	_, err := New(Config{From: "not an address"})
	assert.NotEqual(t, nil, err)
}

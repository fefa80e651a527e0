package mailer

import (
	"bytes"
	"context"
	"fmt"
	"html/template"
	"io"
	"log/slog"
	"time"

	"github.com/emersion/go-message/mail"
	"github.com/emersion/go-sasl"
	"github.com/emersion/go-smtp"
)

const (
	WelcomeSubject     = "Welcome to StoxWatch - your stock market journey starts here!"
	NewsSummarySubject = "📈 Market News Summary Today"
)

// SendFunc delivers a composed message. smtp.SendMail satisfies it.
type SendFunc func(addr string, a sasl.Client, from string, to []string, r io.Reader) error

type Config struct {
	Addr         string
	Username     string
	Password     string
	From         string
	DashboardURL string
}

type Mailer struct {
	cfg  Config
	from *mail.Address
	send SendFunc
	now  func() time.Time
}

func New(cfg Config) (*Mailer, error) {
	from, err := mail.ParseAddress(cfg.From)
	if err != nil {
		return nil, fmt.Errorf("mailer: invalid from address %q: %w", cfg.From, err)
	}
	return &Mailer{cfg: cfg, from: from, send: smtp.SendMail, now: time.Now}, nil
}

// WithSendFunc replaces the SMTP transport.
func (m *Mailer) WithSendFunc(send SendFunc) *Mailer {
	m.send = send
	return m
}

func (m *Mailer) SendWelcome(ctx context.Context, email, name, intro string) error {
	var html bytes.Buffer
	err := welcomeTemplate.Execute(&html, welcomeData{
		Name:         name,
		Intro:        intro,
		DashboardURL: m.cfg.DashboardURL,
	})
	if err != nil {
		return fmt.Errorf("render welcome email: %w", err)
	}

	text := fmt.Sprintf("Hey %s,\n\nThank you for joining StoxWatch! We're excited to have you on board.\n\n%s\n", name, intro)
	return m.deliver(ctx, email, name, WelcomeSubject, text, html.String())
}

type NewsSummary struct {
	Email   string
	Name    string
	Subject string
	Date    string
	// Content is HTML produced by the summarizer.
	Content string
}

func (m *Mailer) SendNewsSummary(ctx context.Context, s NewsSummary) error {
	var html bytes.Buffer
	err := newsSummaryTemplate.Execute(&html, newsSummaryData{
		Date:         s.Date,
		NewsContent:  template.HTML(s.Content),
		DashboardURL: m.cfg.DashboardURL,
	})
	if err != nil {
		return fmt.Errorf("render news summary email: %w", err)
	}

	subject := s.Subject
	if subject == "" {
		subject = NewsSummarySubject
	}
	subject = subject + " - " + s.Date

	text := fmt.Sprintf("Your StoxWatch market news summary for %s is ready.\nOpen it in an HTML capable mail client or visit %s\n", s.Date, m.cfg.DashboardURL)
	return m.deliver(ctx, s.Email, s.Name, subject, text, html.String())
}

func (m *Mailer) deliver(ctx context.Context, to, name, subject, text, html string) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	msg, err := m.compose(to, name, subject, text, html)
	if err != nil {
		return err
	}

	var auth sasl.Client
	if m.cfg.Username != "" {
		auth = sasl.NewPlainClient("", m.cfg.Username, m.cfg.Password)
	}

	if err := m.send(m.cfg.Addr, auth, m.from.Address, []string{to}, bytes.NewReader(msg)); err != nil {
		return fmt.Errorf("smtp send to %s: %w", to, err)
	}

	slog.Info("email sent", "email", to, "subject", subject)
	return nil
}

// compose builds a multipart/alternative message with plaintext and HTML parts.
func (m *Mailer) compose(to, name, subject, text, html string) ([]byte, error) {
	var h mail.Header
	h.SetDate(m.now())
	h.SetSubject(subject)
	h.SetAddressList("From", []*mail.Address{m.from})
	h.SetAddressList("To", []*mail.Address{{Name: name, Address: to}})

	var buf bytes.Buffer
	mw, err := mail.CreateWriter(&buf, h)
	if err != nil {
		return nil, fmt.Errorf("compose message: %w", err)
	}

	tw, err := mw.CreateInline()
	if err != nil {
		return nil, fmt.Errorf("compose message: %w", err)
	}

	parts := []struct {
		contentType string
		body        string
	}{
		{"text/plain", text},
		{"text/html", html},
	}
	for _, p := range parts {
		var ph mail.InlineHeader
		ph.SetContentType(p.contentType, map[string]string{"charset": "utf-8"})
		ph.Set("Content-Transfer-Encoding", "quoted-printable")

		w, err := tw.CreatePart(ph)
		if err != nil {
			return nil, fmt.Errorf("compose %s part: %w", p.contentType, err)
		}
		if _, err := io.WriteString(w, p.body); err != nil {
			return nil, err
		}
		if err := w.Close(); err != nil {
			return nil, err
		}
	}

	if err := tw.Close(); err != nil {
		return nil, err
	}
	if err := mw.Close(); err != nil {
		return nil, err
	}

	return buf.Bytes(), nil
}

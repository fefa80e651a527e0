package digest

import (
	"context"
	"log/slog"
)

const FallbackIntro = "Thanks for joining StoxWatch! You now have the tools to track your favorite stocks and make smarter investment decisions."

// UserCreated is the payload of the user.created event.
type UserCreated struct {
	Email             string `json:"email"`
	Name              string `json:"name"`
	Country           string `json:"country"`
	InvestmentGoals   string `json:"investmentGoals"`
	RiskTolerance     string `json:"riskTolerance"`
	PreferredIndustry string `json:"preferredIndustry"`
}

type WelcomeMailer interface {
	SendWelcome(ctx context.Context, email, name, intro string) error
}

type Welcome struct {
	summarizer TextSummarizer
	mailer     WelcomeMailer
}

func NewWelcome(summarizer TextSummarizer, m WelcomeMailer) *Welcome {
	return &Welcome{summarizer: summarizer, mailer: m}
}

// Send always attempts the email, using FallbackIntro when no personalized
// intro could be generated.
func (w *Welcome) Send(ctx context.Context, u UserCreated) Status {
	intro, err := w.summarizer.Summarize(ctx, BuildWelcomePrompt(u))
	if err != nil {
		slog.Warn("welcome intro generation failed, using fallback", "email", u.Email, "error", err)
		intro = FallbackIntro
	}

	if err := w.mailer.SendWelcome(ctx, u.Email, u.Name, intro); err != nil {
		slog.Error("failed to send welcome email", "email", u.Email, "error", err)
		return Status{Success: false, Message: "Failed to send welcome email"}
	}

	return Status{Success: true, Message: "Welcome email sent successfully"}
}

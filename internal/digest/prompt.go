package digest

import (
	"encoding/json"
	"fmt"
	"strings"

	"stoxwatch/internal/model"
)

const newsSummaryPrompt = `Generate HTML content for a market news summary email that will be inserted into the NEWS_CONTENT placeholder of an email template.

News data to summarize:
{{newsData}}

Formatting requirements:
- Group the articles into sections with an <h3> heading each (for example "Market Overview", "Top Gainers", "Earnings Reports").
- Under every heading write short paragraphs in plain English, with one or two takeaways per article rendered as an <ul> of <li> items.
- After each article add a <a> link to its url labelled "Read Full Story".
- Explain numbers and jargon in words a beginner understands and say why the news matters to an investor.
- Use only inline styles; no <html>, <head> or <body> tags and no markdown.

Return the HTML only.`

const welcomePrompt = `Generate a highly personalized HTML paragraph for a welcome email intro that addresses the new user by their profile below.

User profile data:
{{userProfile}}

Requirements:
- Write one or two sentences (about 35 to 50 words) in a friendly tone.
- Mention the user's investment goals, risk tolerance or preferred industry directly.
- Wrap the text in a single <p style="font-size:16px;line-height:1.6;color:#CCDADC;"> element and highlight key phrases with <strong>.
- Do not start with "Welcome" because the email heading already says it.

Return the <p> element only.`

// BuildNewsSummaryPrompt embeds articles as indented JSON.
func BuildNewsSummaryPrompt(articles []model.FormattedArticle) (string, error) {
	data, err := json.MarshalIndent(articles, "", "  ")
	if err != nil {
		return "", fmt.Errorf("encode articles for prompt: %w", err)
	}
	return strings.Replace(newsSummaryPrompt, "{{newsData}}", string(data), 1), nil
}

func BuildWelcomePrompt(u UserCreated) string {
	profile := fmt.Sprintf(`
- Country: %s
- Investment Goals: %s
- Risk Tolerance: %s
- Preferred Industry: %s
`, u.Country, u.InvestmentGoals, u.RiskTolerance, u.PreferredIndustry)

	return strings.Replace(welcomePrompt, "{{userProfile}}", profile, 1)
}

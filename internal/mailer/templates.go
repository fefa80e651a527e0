package mailer

import "html/template"

var welcomeTemplate = template.Must(template.New("welcome").Parse(`<!DOCTYPE html>
<html lang="en">
<head><meta charset="UTF-8"><title>Welcome to StoxWatch</title></head>
<body style="margin:0;padding:0;background-color:#050505;font-family:-apple-system,BlinkMacSystemFont,'Segoe UI',Roboto,sans-serif;">
  <table role="presentation" width="100%" cellspacing="0" cellpadding="0" style="background-color:#050505;">
    <tr><td align="center" style="padding:40px 20px;">
      <table role="presentation" width="600" cellspacing="0" cellpadding="0" style="max-width:600px;background-color:#141414;border-radius:8px;border:1px solid #30333A;">
        <tr><td style="padding:40px;">
          <h1 style="margin:0 0 30px 0;font-size:24px;color:#FDD458;">Welcome aboard {{.Name}}</h1>
          <div style="margin:0 0 30px 0;font-size:16px;line-height:1.6;color:#CCDADC;">{{.Intro}}</div>
          <p style="margin:0 0 15px 0;font-size:16px;line-height:1.6;color:#CCDADC;font-weight:600;">Here's what you can do right now:</p>
          <ul style="margin:0 0 30px 0;padding-left:20px;color:#CCDADC;font-size:16px;line-height:1.6;">
            <li>Set up your watchlist to follow your favorite stocks</li>
            <li>Get a daily email summarizing the news for the stocks you follow</li>
            <li>Search any US listed company for its profile</li>
          </ul>
          <a href="{{.DashboardURL}}" style="display:inline-block;background:#FDD458;color:#000000;text-decoration:none;padding:12px 24px;border-radius:8px;font-weight:500;">Go to Dashboard</a>
          <p style="margin:40px 0 0 0;font-size:14px;color:#9095A1;">Cheers,<br>The StoxWatch Team</p>
        </td></tr>
      </table>
    </td></tr>
  </table>
</body>
</html>`))

var newsSummaryTemplate = template.Must(template.New("news-summary").Parse(`<!DOCTYPE html>
<html lang="en">
<head><meta charset="UTF-8"><title>Market News Summary</title></head>
<body style="margin:0;padding:0;background-color:#050505;font-family:-apple-system,BlinkMacSystemFont,'Segoe UI',Roboto,sans-serif;">
  <table role="presentation" width="100%" cellspacing="0" cellpadding="0" style="background-color:#050505;">
    <tr><td align="center" style="padding:40px 20px;">
      <table role="presentation" width="600" cellspacing="0" cellpadding="0" style="max-width:600px;background-color:#141414;border-radius:8px;border:1px solid #30333A;">
        <tr><td style="padding:40px;">
          <h1 style="margin:0 0 20px 0;font-size:24px;color:#FDD458;">Market News Summary Today</h1>
          <p style="margin:0 0 30px 0;font-size:14px;color:#6b7280;">{{.Date}}</p>
          <div style="color:#CCDADC;">{{.NewsContent}}</div>
          <p style="margin:30px 0 0 0;"><a href="{{.DashboardURL}}" style="color:#FDD458;">Open your StoxWatch dashboard</a></p>
          <p style="margin:40px 0 0 0;font-size:12px;color:#6b7280;">You're receiving this because you subscribed to StoxWatch news updates.</p>
        </td></tr>
      </table>
    </td></tr>
  </table>
</body>
</html>`))

type welcomeData struct {
	Name         string
	Intro        string
	DashboardURL string
}

type newsSummaryData struct {
	Date         string
	NewsContent  template.HTML
	DashboardURL string
}

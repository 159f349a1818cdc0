package mail

import (
	"fmt"
	"strings"
	"time"

	"github.com/hubcrm/accounts-api/internal/core/domain"
)

// Render substitutes #name# tokens in the template body from the ordered
// variable list. Tokens without a matching variable are left untouched;
// substituted values are not re-expanded.
func Render(body string, vars []domain.TemplateVar) string {
	pairs := make([]string, 0, len(vars)*2)
	for _, v := range vars {
		pairs = append(pairs, "#"+v.Item+"#", v.Value)
	}
	return strings.NewReplacer(pairs...).Replace(body)
}

// layout wraps the rendered template body into the base mail markup
// carrying the company branding variables.
const layout = `<!DOCTYPE html>
<html>
<body style="margin:0;padding:0;background:#f4f4f4;font-family:Arial,sans-serif;">
  <table width="600" align="center" cellpadding="0" cellspacing="0" style="background:#ffffff;">
    <tr><td style="padding:16px;text-align:center;">
      <a href="%[1]s"><img src="%[2]s" alt="%[3]s" height="48"/></a>
    </td></tr>
    <tr><td style="padding:24px;">%[4]s</td></tr>
    <tr><td style="padding:16px;text-align:center;color:#999999;font-size:12px;">
      Copyrights %[5]d %[3]s
    </td></tr>
  </table>
</body>
</html>`

// wrapLayout renders the base layout around the substituted body. The
// branding values come from the leading company variables of the job.
func wrapLayout(body string, vars []domain.TemplateVar) string {
	var logo, companyName, siteURL string
	for _, v := range vars {
		switch v.Item {
		case "logo":
			logo = v.Value
		case "company_name":
			companyName = v.Value
		case "site_url":
			siteURL = v.Value
		}
	}
	return fmt.Sprintf(layout, siteURL, logo, companyName, body, time.Now().Year())
}

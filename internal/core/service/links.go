package service

import "github.com/hubcrm/accounts-api/internal/core/domain"

// Template codes of the transactional emails dispatched by the lifecycle
// workflows. Each must exist in the system_emails collection.
const (
	TemplateForgotPasswordAdmin = "FORGOT_PASSWORD_ADMIN"
	TemplateForgotPasswordWeb   = "FORGOT_PASSWORD_WEB"
	TemplateUserRegistration    = "USER_REGISTRATION"
	TemplateUserApprove         = "User_Approve"
	TemplateResendUserApproval  = "Resend_User_Approval"
	TemplateCustomerVerify      = "CUSTOMER_VERIFY_EMAIL"
)

// Links holds the configured URL parts used to build verification links
// and the company variables substituted into every mail template.
type Links struct {
	ControlPanelURL string
	SiteURL         string
	CompanyName     string
	SetPasswordPath string
	VerifyEmailPath string
	LogoPath        string
}

// SetPasswordLink builds the invite/reset link:
// <control panel URL> + <set-password path> + <code> + "/" + <id>.
func (l Links) SetPasswordLink(code, id string) string {
	return l.ControlPanelURL + l.SetPasswordPath + code + "/" + id
}

// VerifyEmailLink builds the customer email-verification link on the
// public site.
func (l Links) VerifyEmailLink(code, id string) string {
	return l.SiteURL + l.VerifyEmailPath + code + "/" + id
}

// CompanyVars are the base substitutions present in every outgoing mail.
func (l Links) CompanyVars() []domain.TemplateVar {
	return []domain.TemplateVar{
		{Item: "logo", Value: l.SiteURL + l.LogoPath},
		{Item: "company_name", Value: l.CompanyName},
		{Item: "site_url", Value: l.SiteURL},
	}
}

// inviteVars builds the variable set for invite/reset mails.
func (l Links) inviteVars(acct *domain.Account, verificationLink string) []domain.TemplateVar {
	return append(l.CompanyVars(),
		domain.TemplateVar{Item: "firstName", Value: acct.FirstName},
		domain.TemplateVar{Item: "lastName", Value: acct.LastName},
		domain.TemplateVar{Item: "verificationLink", Value: verificationLink},
	)
}

package submission

import (
	"bytes"
	"html/template"
	"strings"

	"github.com/nambiararyan24/portfolio/domain/form"
	"github.com/nambiararyan24/portfolio/ports"
)

// NotifyConfig addresses the contact form emails
type NotifyConfig struct {
	AdminEmail    string
	From          string
	AutoReplyFrom string
	SiteURL       string
}

var funcs = template.FuncMap{
	// nl2br escapes s and then turns newlines into <br>.
	"nl2br": func(s string) template.HTML {
		return template.HTML(strings.ReplaceAll(template.HTMLEscapeString(s), "\n", "<br>"))
	},
	"lower": strings.ToLower,
}

var adminTemplate = template.Must(template.New("admin").Funcs(funcs).Parse(`
<h2>New Contact Form Submission</h2>
<p><strong>Name:</strong> {{.Name}}</p>
<p><strong>Email:</strong> {{.Email}}</p>
{{if .Company}}<p><strong>Company:</strong> {{.Company}}</p>
{{end}}<p><strong>Project Type:</strong> {{.ProjectType}}</p>
<p><strong>Lead Score:</strong> {{.Score}}</p>
<p><strong>Message:</strong></p>
<p>{{nl2br .Message}}</p>
`))

var autoReplyTemplate = template.Must(template.New("reply").Funcs(funcs).Parse(`
<h2>Thank you for reaching out!</h2>
<p>Hi {{.Name}},</p>
<p>Thank you for your interest in working with me. I've received your message about your {{lower .ProjectType}} project and will get back to you within 24 hours.</p>
<p>In the meantime, feel free to check out my <a href="{{.ProjectsURL}}">portfolio</a> or connect with me on social media.</p>
<p>Best regards</p>
`))

type contactView struct {
	Name        string
	Email       string
	Company     string
	ProjectType string
	Message     string
	Score       int
	ProjectsURL string
}

// Notification is one email with the channel name used in logs and metrics.
type Notification struct {
	Channel string
	Email   ports.Email
}

// ContactNotifications renders the admin alert and the auto-reply for a
// contact submission. Every value is HTML-escaped.
func ContactNotifications(cfg NotifyConfig, v form.Values) ([]Notification, error) {
	view := contactView{
		Name:        v.String("name"),
		Email:       v.String("email"),
		Company:     v.String("company"),
		ProjectType: v.String("project_type"),
		Message:     v.String("message"),
		Score:       ContactScore(v),
		ProjectsURL: strings.TrimRight(cfg.SiteURL, "/") + "/projects",
	}

	var admin, reply bytes.Buffer
	if err := adminTemplate.Execute(&admin, view); err != nil {
		return nil, err
	}
	if err := autoReplyTemplate.Execute(&reply, view); err != nil {
		return nil, err
	}

	return []Notification{
		{
			Channel: "admin_email",
			Email: ports.Email{
				From:    cfg.From,
				To:      []string{cfg.AdminEmail},
				Subject: "New Contact Form Submission - " + view.ProjectType,
				HTML:    admin.String(),
			},
		},
		{
			Channel: "auto_reply",
			Email: ports.Email{
				From:    cfg.AutoReplyFrom,
				To:      []string{view.Email},
				Subject: "Thank you for your message!",
				HTML:    reply.String(),
			},
		},
	}, nil
}

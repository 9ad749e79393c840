package mail

import (
	"bytes"
	"fmt"
	"html/template"

	"github.com/aleynaerrsln/meeting-management-system/internal/models"
)

const layout = `<div style="font-family: Arial, sans-serif; padding: 20px; max-width: 600px; margin: 0 auto;">
<h2 style="color: #333;">{{.Heading}}</h2>
<p>Hello <strong>{{.Name}}</strong>,</p>
<p>{{.Intro}}</p>
{{if .Meeting}}<div style="background: #f5f5f5; padding: 15px; border-radius: 5px; margin: 20px 0;">
<h3 style="margin-top: 0; color: #2c3e50;">{{.Meeting.Title}}</h3>
{{if .Meeting.Description}}<p><strong>Description:</strong> {{.Meeting.Description}}</p>{{end}}
<p><strong>Date:</strong> {{.Date}}</p>
<p><strong>Time:</strong> {{.Meeting.Time}}</p>
<p><strong>Location:</strong> {{.Meeting.Location}}</p>
</div>{{end}}
{{if .Link}}<p><a href="{{.Link}}">{{.Link}}</a></p>{{end}}
{{if .Outro}}<p>{{.Outro}}</p>{{end}}
<p style="color: #666; font-size: 12px; margin-top: 30px;">This email was sent automatically by {{.AppName}}.</p>
</div>`

var tmpl = template.Must(template.New("mail").Parse(layout))

type view struct {
	AppName string
	Heading string
	Name    string
	Intro   string
	Outro   string
	Link    string
	Meeting *models.Meeting
	Date    string
}

// Templates renders messages branded with AppName.
type Templates struct {
	AppName string
}

func (t Templates) render(v view) (string, error) {
	v.AppName = t.AppName
	if v.Meeting != nil {
		v.Date = v.Meeting.Date.UTC().Format("02.01.2006")
	}
	var buf bytes.Buffer
	if err := tmpl.Execute(&buf, v); err != nil {
		return "", fmt.Errorf("render email: %w", err)
	}
	return buf.String(), nil
}

func (t Templates) perParticipant(m *models.Meeting, to []models.User, subject, heading, intro, outro string) ([]Message, error) {
	msgs := make([]Message, 0, len(to))
	for _, u := range to {
		html, err := t.render(view{Heading: heading, Name: u.FullName(), Intro: intro, Outro: outro, Meeting: m})
		if err != nil {
			return nil, err
		}
		msgs = append(msgs, Message{ToName: u.FullName(), ToEmail: u.Email, Subject: subject, HTML: html})
	}
	return msgs, nil
}

func (t Templates) MeetingInvitation(m *models.Meeting, to []models.User) ([]Message, error) {
	return t.perParticipant(m, to,
		"New meeting invitation: "+m.Title,
		"Meeting invitation",
		"You have been invited to a new meeting:",
		"Please remember to attend.")
}

func (t Templates) MeetingUpdated(m *models.Meeting, to []models.User) ([]Message, error) {
	return t.perParticipant(m, to,
		"Meeting updated: "+m.Title,
		"Meeting updated",
		"A meeting you are invited to has been updated. Current details:",
		"")
}

func (t Templates) MeetingReminder(m *models.Meeting, to []models.User) ([]Message, error) {
	return t.perParticipant(m, to,
		"Reminder: "+m.Title,
		"Meeting reminder",
		"This is a reminder for an upcoming meeting:",
		"See you there.")
}

func (t Templates) PasswordReset(u *models.User, link string) (Message, error) {
	html, err := t.render(view{
		Heading: "Password reset",
		Name:    u.FullName(),
		Intro:   "We received a request to reset your password. The link below is valid for one hour.",
		Outro:   "If you did not request this, you can ignore this email.",
		Link:    link,
	})
	if err != nil {
		return Message{}, err
	}
	return Message{ToName: u.FullName(), ToEmail: u.Email, Subject: "Password reset request", HTML: html}, nil
}

package mail

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/aleynaerrsln/meeting-management-system/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sampleMeeting() *models.Meeting {
	return &models.Meeting{
		Title:    "Sprint <Review>",
		Date:     time.Date(2024, 5, 20, 0, 0, 0, 0, time.UTC),
		Time:     "10:00",
		Location: "Room 4",
	}
}

func TestMeetingInvitationOnePerParticipant(t *testing.T) {
	tpl := Templates{AppName: "Meetings"}
	users := []models.User{
		{FirstName: "Ada", LastName: "L", Email: "ada@example.com"},
		{FirstName: "Alan", LastName: "T", Email: "alan@example.com"},
	}

	msgs, err := tpl.MeetingInvitation(sampleMeeting(), users)
	require.NoError(t, err)
	require.Len(t, msgs, 2)

	assert.Equal(t, "alan@example.com", msgs[1].ToEmail)
	assert.Equal(t, "New meeting invitation: Sprint <Review>", msgs[0].Subject)
	assert.Contains(t, msgs[0].HTML, "Sprint &lt;Review&gt;")
	assert.Contains(t, msgs[0].HTML, "20.05.2024")
	assert.Contains(t, msgs[0].HTML, "Ada L")
	assert.NotContains(t, msgs[0].HTML, "Description:")
}

func TestPasswordResetIncludesLink(t *testing.T) {
	tpl := Templates{AppName: "Meetings"}
	msg, err := tpl.PasswordReset(&models.User{FirstName: "Ada", Email: "ada@example.com"}, "https://app/reset/abc")
	require.NoError(t, err)
	assert.Contains(t, msg.HTML, `href="https://app/reset/abc"`)
	assert.Equal(t, "ada@example.com", msg.ToEmail)
}

type flakyMailer struct {
	fail map[string]bool
	sent []string
}

func (f *flakyMailer) Send(_ context.Context, msg Message) error {
	if f.fail[msg.ToEmail] {
		return errors.New("smtp down")
	}
	f.sent = append(f.sent, msg.ToEmail)
	return nil
}

func TestDispatchSkipsFailures(t *testing.T) {
	m := &flakyMailer{fail: map[string]bool{"b@x.io": true}}
	n := Dispatch(context.Background(), m, []Message{{ToEmail: "a@x.io"}, {ToEmail: "b@x.io"}, {ToEmail: ""}, {ToEmail: "c@x.io"}})
	assert.Equal(t, 2, n)
	assert.Equal(t, []string{"a@x.io", "c@x.io"}, m.sent)
}

func TestSendGridBuild(t *testing.T) {
	s := NewSendGridMailer("key", "Meetings", "no-reply@example.com")
	m := s.build(Message{ToName: "Ada", ToEmail: "ada@example.com", Subject: "Hi", HTML: "<p>x</p>", Text: "x"})
	require.Len(t, m.Personalizations, 1)
	assert.Equal(t, "Hi", m.Personalizations[0].Subject)
	assert.Equal(t, "ada@example.com", m.Personalizations[0].To[0].Address)
	assert.Len(t, m.Content, 2)
	assert.Equal(t, "no-reply@example.com", m.From.Address)
}

func TestLogMailerRecords(t *testing.T) {
	l := NewLogMailer()
	require.NoError(t, l.Send(context.Background(), Message{ToEmail: "a@x.io"}))
	assert.Len(t, l.Messages(), 1)
}

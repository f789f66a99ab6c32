package cron

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/meinhoongagan/medcare/models"
	"github.com/meinhoongagan/medcare/utils"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type dayStub struct {
	asked time.Time
	rows  []models.Appointment
	err   error
}

func (d *dayStub) Day(_ context.Context, t time.Time) ([]models.Appointment, error) {
	d.asked = t
	return d.rows, d.err
}

type mailStub struct {
	to, subject, body string
	attachments       []utils.Attachment
}

func (m *mailStub) Send(to, subject, body string, attachments ...utils.Attachment) error {
	m.to, m.subject, m.body, m.attachments = to, subject, body, attachments
	return nil
}

func TestDigestRun(t *testing.T) {
	now := time.Date(2025, 3, 12, 7, 0, 0, 0, time.UTC)
	days := &dayStub{rows: []models.Appointment{{
		ID:              3,
		PatientName:     "Ana",
		Doctor:          models.Doctor{Name: "Dr. Pop"},
		Service:         models.MedicalService{Name: "Consultation", Duration: models.DurationOfMinutes(45)},
		AppointmentTime: time.Date(2025, 3, 12, 9, 30, 0, 0, time.UTC),
		Status:          models.StatusNew,
	}}}
	mail := &mailStub{}
	d := NewDigest(days, mail, "desk@clinic.test", time.UTC, zap.NewNop())
	d.now = func() time.Time { return now }

	require.NoError(t, d.Run(context.Background()))
	assert.Equal(t, now, days.asked)
	assert.Equal(t, "desk@clinic.test", mail.to)
	assert.Equal(t, "Appointments for 2025-03-12 (1)", mail.subject)
	assert.Contains(t, mail.body, "09:30")
	assert.Contains(t, mail.body, "45 minutes")

	require.Len(t, mail.attachments, 1)
	assert.Equal(t, "appointments_2025-03-12.csv", mail.attachments[0].Name)
	lines := strings.Split(strings.TrimSpace(string(mail.attachments[0].Content)), "\n")
	require.Len(t, lines, 2)
	assert.Equal(t, "3,Ana,Dr. Pop,Consultation,2025-03-12 09:30,NEW,45 minutes", lines[1])
}

func TestDigestRunErrors(t *testing.T) {
	d := NewDigest(&dayStub{err: errors.New("db down")}, &mailStub{}, "x@y", time.UTC, zap.NewNop())
	assert.ErrorContains(t, d.Run(context.Background()), "db down")
}

func TestDigestStart(t *testing.T) {
	disabled := NewDigest(&dayStub{}, nil, "", time.UTC, zap.NewNop())
	c, err := disabled.Start("0 7 * * *")
	require.NoError(t, err)
	assert.Empty(t, c.Entries())

	enabled := NewDigest(&dayStub{}, &mailStub{}, "x@y", time.UTC, zap.NewNop())
	_, err = enabled.Start("not a spec")
	assert.Error(t, err)

	c, err = enabled.Start("0 7 * * *")
	require.NoError(t, err)
	defer c.Stop()
	assert.Len(t, c.Entries(), 1)
}

package cron

import (
	"bytes"
	"context"
	"fmt"
	"time"

	"github.com/meinhoongagan/medcare/models"
	"github.com/meinhoongagan/medcare/scheduling"
	"github.com/meinhoongagan/medcare/services"
	"github.com/meinhoongagan/medcare/utils"
	"github.com/robfig/cron/v3"
	"go.uber.org/zap"
)

// DayLister returns the appointments starting on t's day.
type DayLister interface {
	Day(ctx context.Context, t time.Time) ([]models.Appointment, error)
}

type Sender interface {
	Send(to, subject, body string, attachments ...utils.Attachment) error
}

// Digest mails the day's appointments as a CSV attachment.
type Digest struct {
	appointments DayLister
	mailer       Sender
	recipient    string
	loc          *time.Location
	now          func() time.Time
	log          *zap.Logger
}

func NewDigest(appointments DayLister, mailer Sender, recipient string, loc *time.Location, log *zap.Logger) *Digest {
	if loc == nil {
		loc = time.Local
	}
	return &Digest{
		appointments: appointments,
		mailer:       mailer,
		recipient:    recipient,
		loc:          loc,
		now:          time.Now,
		log:          log,
	}
}

// Start schedules the digest on spec and starts the scheduler. Stop the
// returned cron to shut it down. A digest without a mailer or recipient is
// never scheduled.
func (d *Digest) Start(spec string) (*cron.Cron, error) {
	c := cron.New(cron.WithLocation(d.loc))
	if d.mailer == nil || d.recipient == "" {
		d.log.Info("appointment digest disabled: mail or recipient not configured")
		return c, nil
	}
	if _, err := c.AddFunc(spec, func() {
		if err := d.Run(context.Background()); err != nil {
			d.log.Error("appointment digest failed", zap.Error(err))
		}
	}); err != nil {
		return nil, fmt.Errorf("schedule digest %q: %w", spec, err)
	}
	c.Start()
	d.log.Info("appointment digest scheduled", zap.String("spec", spec))
	return c, nil
}

// Run sends the digest for the current day.
func (d *Digest) Run(ctx context.Context) error {
	today := d.now().In(d.loc)
	appointments, err := d.appointments.Day(ctx, today)
	if err != nil {
		return fmt.Errorf("load appointments: %w", err)
	}

	var csv bytes.Buffer
	if err := services.WriteAppointmentsCSV(&csv, appointments, d.loc); err != nil {
		return fmt.Errorf("render csv: %w", err)
	}

	date := today.Format("2006-01-02")
	subject := fmt.Sprintf("Appointments for %s (%d)", date, len(appointments))
	if err := d.mailer.Send(d.recipient, subject, digestBody(date, appointments, d.loc), utils.Attachment{
		Name:    "appointments_" + date + ".csv",
		Content: csv.Bytes(),
	}); err != nil {
		return fmt.Errorf("send digest: %w", err)
	}
	d.log.Info("appointment digest sent", zap.String("date", date), zap.Int("appointments", len(appointments)))
	return nil
}

func digestBody(date string, appointments []models.Appointment, loc *time.Location) string {
	var b bytes.Buffer
	fmt.Fprintf(&b, "<p>Appointments scheduled for %s.</p>\n", date)
	if len(appointments) == 0 {
		b.WriteString("<p>No appointments today.</p>\n")
		return b.String()
	}
	b.WriteString("<ul>\n")
	for _, a := range appointments {
		fmt.Fprintf(&b, "\t<li><strong>%s</strong> %s with %s, %s (%s)</li>\n",
			a.AppointmentTime.In(loc).Format("15:04"),
			a.PatientName,
			a.Doctor.Name,
			a.Service.Name,
			scheduling.FormatMinutesForDisplay(a.Service.Duration.Minutes()),
		)
	}
	b.WriteString("</ul>\n<p>The full list is attached as CSV.</p>\n")
	return b.String()
}

package services

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/meinhoongagan/medcare/metrics"
	"github.com/meinhoongagan/medcare/models"
	"github.com/meinhoongagan/medcare/repositories"
	"github.com/meinhoongagan/medcare/scheduling"
	"github.com/meinhoongagan/medcare/utils"
	"go.uber.org/zap"
)

type BookingInput struct {
	PatientName     string `json:"patientName"`
	DoctorID        uint   `json:"doctorId"`
	ServiceID       uint   `json:"serviceId"`
	AppointmentTime string `json:"appointmentTime"`
}

// AppointmentQuery filters the appointment list. Date is "YYYY-MM-DD" in
// the clinic zone.
type AppointmentQuery struct {
	Status   string
	DoctorID uint
	Date     string
}

type BookingConfig struct {
	Location    *time.Location
	StepMinutes int
	Now         func() time.Time
}

// BookingService books appointments and moves them through their statuses.
type BookingService struct {
	tx           repositories.Transactor
	appointments repositories.IAppointmentRepository
	doctors      repositories.IDoctorRepository
	services     repositories.IMedicalServiceRepository
	schedules    repositories.IScheduleRepository
	metrics      *metrics.Booking
	loc          *time.Location
	step         int
	now          func() time.Time
	log          *zap.Logger
}

func NewBookingService(
	tx repositories.Transactor,
	appointments repositories.IAppointmentRepository,
	doctors repositories.IDoctorRepository,
	services repositories.IMedicalServiceRepository,
	schedules repositories.IScheduleRepository,
	m *metrics.Booking,
	cfg BookingConfig,
	log *zap.Logger,
) *BookingService {
	if cfg.Location == nil {
		cfg.Location = time.Local
	}
	if cfg.StepMinutes <= 0 {
		cfg.StepMinutes = 15
	}
	if cfg.Now == nil {
		cfg.Now = time.Now
	}
	if m == nil {
		m = metrics.NewBooking(nil)
	}
	return &BookingService{
		tx:           tx,
		appointments: appointments,
		doctors:      doctors,
		services:     services,
		schedules:    schedules,
		metrics:      m,
		loc:          cfg.Location,
		step:         cfg.StepMinutes,
		now:          cfg.Now,
		log:          log,
	}
}

// Create validates and books an appointment. The doctor row is locked for
// the duration of the check so two concurrent bookings cannot both pass.
func (s *BookingService) Create(ctx context.Context, in BookingInput, createdBy uint) (*models.Appointment, error) {
	fields := fieldErrors{}
	patient := strings.TrimSpace(in.PatientName)
	if patient == "" {
		fields.add("patientName", "Patient name is required")
	}
	if in.DoctorID == 0 {
		fields.add("doctorId", "Doctor is required")
	}
	if in.ServiceID == 0 {
		fields.add("serviceId", "Service is required")
	}
	var start time.Time
	if strings.TrimSpace(in.AppointmentTime) == "" {
		fields.add("appointmentTime", "Appointment time is required")
	} else if t, err := utils.ParseClinicTime(in.AppointmentTime, s.loc); err != nil {
		fields.add("appointmentTime", "Invalid date-time, expected YYYY-MM-DDTHH:MM")
	} else if t.Before(s.now()) {
		fields.add("appointmentTime", "Appointment time must be in the future")
	} else {
		start = t
	}
	if err := fields.err(); err != nil {
		s.metrics.Rejected.WithLabelValues("validation").Inc()
		return nil, err
	}

	service, err := s.activeService(ctx, in.ServiceID)
	if err != nil {
		s.metrics.Rejected.WithLabelValues("service").Inc()
		return nil, err
	}
	minutes := service.Duration.Minutes()

	appointment := &models.Appointment{
		PatientName:     patient,
		DoctorID:        in.DoctorID,
		ServiceID:       service.ID,
		AppointmentTime: start,
		Status:          models.StatusNew,
		CreatedByID:     createdBy,
	}

	err = s.tx.InTx(ctx, func(ctx context.Context) error {
		doctor, err := s.doctors.LockByID(ctx, in.DoctorID)
		if err != nil {
			if errors.Is(err, repositories.ErrNotFound) {
				return ErrDoctorNotFound
			}
			return err
		}
		if !doctor.Active {
			return ErrDoctorInactive
		}

		dayStart, dayEnd := utils.DayBounds(start)
		existing, err := s.appointments.ListForDoctor(ctx, doctor.ID, dayStart.AddDate(0, 0, -1), dayEnd.AddDate(0, 0, 1))
		if err != nil {
			return err
		}
		if !scheduling.IsTimeSlotAvailable(start, doctor.Scheduling(), models.Bookings(existing), minutes) {
			return ErrSlotUnavailable
		}
		weekly, err := s.schedules.ListByDoctor(ctx, doctor.ID)
		if err != nil {
			return err
		}
		if !scheduling.FitsWeeklySchedule(start, minutes, models.WorkDays(weekly)) {
			return ErrSlotUnavailable
		}
		return s.appointments.Create(ctx, appointment)
	})
	if err != nil {
		var reason string
		switch {
		case errors.Is(err, ErrSlotUnavailable):
			reason = "unavailable"
		case errors.Is(err, ErrDoctorNotFound), errors.Is(err, ErrDoctorInactive):
			reason = "doctor"
		default:
			reason = "error"
		}
		s.metrics.Rejected.WithLabelValues(reason).Inc()
		s.log.Info("booking rejected",
			zap.Uint("doctor_id", in.DoctorID),
			zap.Time("start", start),
			zap.Error(err),
		)
		return nil, err
	}

	s.metrics.Created.Inc()
	s.log.Info("appointment booked",
		zap.Uint("id", appointment.ID),
		zap.Uint("doctor_id", appointment.DoctorID),
		zap.Time("start", start),
		zap.String("duration", scheduling.FormatMinutesForDisplay(minutes)),
	)
	return s.Get(ctx, appointment.ID)
}

func (s *BookingService) activeService(ctx context.Context, id uint) (*models.MedicalService, error) {
	service, err := s.services.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, ErrServiceNotFound
		}
		return nil, err
	}
	if !service.Active {
		return nil, ErrServiceInactive
	}
	return service, nil
}

func (s *BookingService) Get(ctx context.Context, id uint) (*models.Appointment, error) {
	appointment, err := s.appointments.FindByID(ctx, id)
	if errors.Is(err, repositories.ErrNotFound) {
		return nil, ErrAppointmentNotFound
	}
	return appointment, err
}

func (s *BookingService) List(ctx context.Context, q AppointmentQuery) ([]models.Appointment, error) {
	fields := fieldErrors{}
	filter := repositories.AppointmentFilter{DoctorID: q.DoctorID}
	if q.Status != "" {
		status, ok := models.ParseStatus(q.Status)
		if !ok {
			fields.add("status", "Status must be NEW, IN_PROGRESS or COMPLETED")
		}
		filter.Status = status
	}
	if q.Date != "" {
		day, err := utils.ParseClinicDate(q.Date, s.loc)
		if err != nil {
			fields.add("date", "Invalid date, expected YYYY-MM-DD")
		} else {
			filter.From, filter.To = utils.DayBounds(day)
		}
	}
	if err := fields.err(); err != nil {
		return nil, err
	}
	return s.appointments.List(ctx, filter)
}

// UpdateStatus advances the appointment one step along
// NEW -> IN_PROGRESS -> COMPLETED.
func (s *BookingService) UpdateStatus(ctx context.Context, id uint, status string) (*models.Appointment, error) {
	target, ok := models.ParseStatus(status)
	if !ok {
		return nil, &ValidationError{Fields: map[string]string{"status": "Status must be NEW, IN_PROGRESS or COMPLETED"}}
	}
	appointment, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	from := appointment.Status
	if err := appointment.AdvanceStatus(target); err != nil {
		return nil, ErrInvalidTransition
	}
	if err := s.appointments.UpdateStatus(ctx, appointment, from); err != nil {
		if errors.Is(err, repositories.ErrConflict) {
			return nil, ErrInvalidTransition
		}
		return nil, err
	}
	s.metrics.Status.WithLabelValues(string(target)).Inc()
	s.log.Info("appointment status changed",
		zap.Uint("id", id),
		zap.String("from", string(from)),
		zap.String("to", string(target)),
	)
	return appointment, nil
}

func (s *BookingService) Delete(ctx context.Context, id uint) error {
	err := s.appointments.Delete(ctx, id)
	if errors.Is(err, repositories.ErrNotFound) {
		return ErrAppointmentNotFound
	}
	return err
}

// Slots lists the free starts for a doctor and service on date, skipping
// anything already in the past.
func (s *BookingService) Slots(ctx context.Context, doctorID, serviceID uint, date string) ([]string, error) {
	day, err := utils.ParseClinicDate(date, s.loc)
	if err != nil {
		return nil, &ValidationError{Fields: map[string]string{"date": "Invalid date, expected YYYY-MM-DD"}}
	}
	doctor, err := s.doctors.FindByID(ctx, doctorID)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, ErrDoctorNotFound
		}
		return nil, err
	}
	if !doctor.Active {
		return nil, ErrDoctorInactive
	}
	service, err := s.activeService(ctx, serviceID)
	if err != nil {
		return nil, err
	}

	dayStart, dayEnd := utils.DayBounds(day)
	existing, err := s.appointments.ListForDoctor(ctx, doctorID, dayStart.AddDate(0, 0, -1), dayEnd.AddDate(0, 0, 1))
	if err != nil {
		return nil, err
	}
	weekly, err := s.schedules.ListByDoctor(ctx, doctorID)
	if err != nil {
		return nil, err
	}

	starts := scheduling.AvailableSlots(scheduling.SlotQuery{
		Day:             day,
		Doctor:          doctor.Scheduling(),
		Bookings:        models.Bookings(existing),
		DurationMinutes: service.Duration.Minutes(),
		StepMinutes:     s.step,
		Weekly:          models.WorkDays(weekly),
		NotBefore:       s.now(),
	})
	slots := make([]string, 0, len(starts))
	for _, t := range starts {
		slots = append(slots, t.Format("15:04"))
	}
	return slots, nil
}

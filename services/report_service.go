package services

import (
	"bytes"
	"context"
	"encoding/csv"
	"io"
	"sort"
	"strconv"
	"time"

	"github.com/meinhoongagan/medcare/models"
	"github.com/meinhoongagan/medcare/repositories"
	"github.com/meinhoongagan/medcare/scheduling"
	"github.com/meinhoongagan/medcare/utils"
	"go.uber.org/zap"
)

type AppointmentsReport struct {
	StartDate    time.Time            `json:"startDate"`
	EndDate      time.Time            `json:"endDate"`
	Total        int                  `json:"total"`
	Appointments []models.Appointment `json:"appointments"`
}

type DoctorStat struct {
	DoctorID         uint   `json:"doctorId"`
	DoctorName       string `json:"doctorName"`
	Specialization   string `json:"specialization"`
	AppointmentCount int    `json:"appointmentCount"`
}

type ServiceStat struct {
	ServiceID        uint    `json:"serviceId"`
	ServiceName      string  `json:"serviceName"`
	Price            float64 `json:"price"`
	AppointmentCount int     `json:"appointmentCount"`
}

type DashboardStats struct {
	TotalAppointments    int64                              `json:"totalAppointments"`
	AppointmentsByStatus map[models.AppointmentStatus]int64 `json:"appointmentsByStatus"`
	ActiveDoctors        int64                              `json:"activeDoctors"`
	ActiveServices       int64                              `json:"activeServices"`
	Receptionists        int64                              `json:"receptionists"`
	TodayAppointments    int                                `json:"todayAppointments"`
	Revenue              float64                            `json:"revenue"`
}

// ReportService aggregates appointments for the admin reports, the
// dashboard and the daily digest.
type ReportService struct {
	appointments repositories.IAppointmentRepository
	doctors      repositories.IDoctorRepository
	services     repositories.IMedicalServiceRepository
	users        repositories.IUserRepository
	loc          *time.Location
	now          func() time.Time
	log          *zap.Logger
}

func NewReportService(
	appointments repositories.IAppointmentRepository,
	doctors repositories.IDoctorRepository,
	services repositories.IMedicalServiceRepository,
	users repositories.IUserRepository,
	loc *time.Location,
	log *zap.Logger,
) *ReportService {
	if loc == nil {
		loc = time.Local
	}
	return &ReportService{
		appointments: appointments,
		doctors:      doctors,
		services:     services,
		users:        users,
		loc:          loc,
		now:          time.Now,
		log:          log,
	}
}

// Range parses startDate/endDate. Dates cover whole days; the end is
// exclusive once parsed.
func (s *ReportService) Range(startDate, endDate string) (time.Time, time.Time, error) {
	fields := fieldErrors{}
	from, err := utils.ParseRangeBound(startDate, s.loc, false)
	if err != nil {
		fields.add("startDate", "Invalid start date")
	}
	to, err := utils.ParseRangeBound(endDate, s.loc, true)
	if err != nil {
		fields.add("endDate", "Invalid end date")
	}
	if len(fields) == 0 && !from.Before(to) {
		fields.add("endDate", "End date must not be before start date")
	}
	return from, to, fields.err()
}

func (s *ReportService) list(ctx context.Context, startDate, endDate string) (time.Time, time.Time, []models.Appointment, error) {
	from, to, err := s.Range(startDate, endDate)
	if err != nil {
		return from, to, nil, err
	}
	appointments, err := s.appointments.List(ctx, repositories.AppointmentFilter{From: from, To: to})
	return from, to, appointments, err
}

func (s *ReportService) Appointments(ctx context.Context, startDate, endDate string) (*AppointmentsReport, error) {
	from, to, appointments, err := s.list(ctx, startDate, endDate)
	if err != nil {
		return nil, err
	}
	return &AppointmentsReport{StartDate: from, EndDate: to, Total: len(appointments), Appointments: appointments}, nil
}

func (s *ReportService) Doctors(ctx context.Context, startDate, endDate string) ([]DoctorStat, error) {
	_, _, appointments, err := s.list(ctx, startDate, endDate)
	if err != nil {
		return nil, err
	}
	return CountByDoctor(appointments), nil
}

func (s *ReportService) Services(ctx context.Context, startDate, endDate string) ([]ServiceStat, error) {
	_, _, appointments, err := s.list(ctx, startDate, endDate)
	if err != nil {
		return nil, err
	}
	return CountByService(appointments), nil
}

// ExportCSV renders the appointments in range as CSV.
func (s *ReportService) ExportCSV(ctx context.Context, startDate, endDate string) ([]byte, error) {
	_, _, appointments, err := s.list(ctx, startDate, endDate)
	if err != nil {
		return nil, err
	}
	var buf bytes.Buffer
	if err := WriteAppointmentsCSV(&buf, appointments, s.loc); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// Day returns the appointments starting on the day of t in the clinic zone.
func (s *ReportService) Day(ctx context.Context, t time.Time) ([]models.Appointment, error) {
	from, to := utils.DayBounds(t.In(s.loc))
	return s.appointments.List(ctx, repositories.AppointmentFilter{From: from, To: to})
}

func (s *ReportService) Dashboard(ctx context.Context) (*DashboardStats, error) {
	byStatus, err := s.appointments.CountByStatus(ctx)
	if err != nil {
		return nil, err
	}
	stats := &DashboardStats{AppointmentsByStatus: map[models.AppointmentStatus]int64{
		models.StatusNew:        byStatus[models.StatusNew],
		models.StatusInProgress: byStatus[models.StatusInProgress],
		models.StatusCompleted:  byStatus[models.StatusCompleted],
	}}
	for _, n := range byStatus {
		stats.TotalAppointments += n
	}

	if stats.ActiveDoctors, err = s.doctors.Count(ctx, true); err != nil {
		return nil, err
	}
	if stats.ActiveServices, err = s.services.Count(ctx, true); err != nil {
		return nil, err
	}
	if stats.Receptionists, err = s.users.CountByRole(ctx, models.RoleReceptionist); err != nil {
		return nil, err
	}

	if stats.Revenue, err = s.appointments.SumServicePrice(ctx, models.StatusCompleted); err != nil {
		return nil, err
	}

	today, err := s.Day(ctx, s.now())
	if err != nil {
		return nil, err
	}
	stats.TodayAppointments = len(today)
	return stats, nil
}

// CountByDoctor counts appointments per doctor, busiest first, ties by name.
func CountByDoctor(appointments []models.Appointment) []DoctorStat {
	index := map[uint]int{}
	stats := []DoctorStat{}
	for _, a := range appointments {
		i, ok := index[a.DoctorID]
		if !ok {
			i = len(stats)
			index[a.DoctorID] = i
			stats = append(stats, DoctorStat{
				DoctorID:       a.DoctorID,
				DoctorName:     a.Doctor.Name,
				Specialization: a.Doctor.Specialization,
			})
		}
		stats[i].AppointmentCount++
	}
	sort.SliceStable(stats, func(i, j int) bool {
		if stats[i].AppointmentCount != stats[j].AppointmentCount {
			return stats[i].AppointmentCount > stats[j].AppointmentCount
		}
		return stats[i].DoctorName < stats[j].DoctorName
	})
	return stats
}

// CountByService counts appointments per service, busiest first, ties by name.
func CountByService(appointments []models.Appointment) []ServiceStat {
	index := map[uint]int{}
	stats := []ServiceStat{}
	for _, a := range appointments {
		i, ok := index[a.ServiceID]
		if !ok {
			i = len(stats)
			index[a.ServiceID] = i
			stats = append(stats, ServiceStat{
				ServiceID:   a.ServiceID,
				ServiceName: a.Service.Name,
				Price:       a.Service.Price,
			})
		}
		stats[i].AppointmentCount++
	}
	sort.SliceStable(stats, func(i, j int) bool {
		if stats[i].AppointmentCount != stats[j].AppointmentCount {
			return stats[i].AppointmentCount > stats[j].AppointmentCount
		}
		return stats[i].ServiceName < stats[j].ServiceName
	})
	return stats
}

var csvHeader = []string{"ID", "Patient", "Doctor", "Service", "Time", "Status", "Duration"}

// WriteAppointmentsCSV writes one row per appointment with times shown in loc.
func WriteAppointmentsCSV(w io.Writer, appointments []models.Appointment, loc *time.Location) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(csvHeader); err != nil {
		return err
	}
	for _, a := range appointments {
		row := []string{
			strconv.FormatUint(uint64(a.ID), 10),
			a.PatientName,
			a.Doctor.Name,
			a.Service.Name,
			a.AppointmentTime.In(loc).Format("2006-01-02 15:04"),
			string(a.Status),
			scheduling.FormatMinutesForDisplay(a.Service.Duration.Minutes()),
		}
		if err := cw.Write(row); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

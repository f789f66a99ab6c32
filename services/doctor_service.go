package services

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/meinhoongagan/medcare/models"
	"github.com/meinhoongagan/medcare/repositories"
	"github.com/meinhoongagan/medcare/scheduling"
	"go.uber.org/zap"
)

// PhotoStore uploads an image and returns its public URL.
type PhotoStore interface {
	Upload(ctx context.Context, file interface{}, publicID string) (string, error)
}

type DoctorInput struct {
	Name           string `json:"name"`
	Specialization string `json:"specialization"`
	StartTime      string `json:"startTime"`
	EndTime        string `json:"endTime"`
	Active         *bool  `json:"active"`
}

type WorkingHoursInput struct {
	DayOfWeek  int     `json:"dayOfWeek"`
	StartTime  string  `json:"startTime"`
	EndTime    string  `json:"endTime"`
	IsWorkDay  bool    `json:"isWorkDay"`
	BreakStart *string `json:"breakStart"`
	BreakEnd   *string `json:"breakEnd"`
}

type DoctorService struct {
	doctors   repositories.IDoctorRepository
	schedules repositories.IScheduleRepository
	photos    PhotoStore
	log       *zap.Logger
}

// NewDoctorService builds the service. photos may be nil when uploads are
// not configured.
func NewDoctorService(doctors repositories.IDoctorRepository, schedules repositories.IScheduleRepository,
	photos PhotoStore, log *zap.Logger) *DoctorService {
	return &DoctorService{doctors: doctors, schedules: schedules, photos: photos, log: log}
}

func (s *DoctorService) List(ctx context.Context, activeOnly bool) ([]models.Doctor, error) {
	return s.doctors.List(ctx, activeOnly)
}

func (s *DoctorService) Get(ctx context.Context, id uint) (*models.Doctor, error) {
	doctor, err := s.doctors.FindByID(ctx, id)
	if errors.Is(err, repositories.ErrNotFound) {
		return nil, ErrDoctorNotFound
	}
	return doctor, err
}

func (s *DoctorService) Create(ctx context.Context, in DoctorInput) (*models.Doctor, error) {
	doctor := &models.Doctor{Active: true}
	if err := applyDoctorInput(doctor, in); err != nil {
		return nil, err
	}
	if err := s.doctors.Create(ctx, doctor); err != nil {
		return nil, err
	}
	s.log.Info("doctor created", zap.Uint("id", doctor.ID), zap.String("name", doctor.Name))
	return doctor, nil
}

func (s *DoctorService) Update(ctx context.Context, id uint, in DoctorInput) (*models.Doctor, error) {
	doctor, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := applyDoctorInput(doctor, in); err != nil {
		return nil, err
	}
	if err := s.doctors.Update(ctx, doctor); err != nil {
		return nil, err
	}
	return doctor, nil
}

// Deactivate hides the doctor from booking. Existing appointments keep
// their reference.
func (s *DoctorService) Deactivate(ctx context.Context, id uint) error {
	doctor, err := s.Get(ctx, id)
	if err != nil {
		return err
	}
	doctor.Active = false
	return s.doctors.Update(ctx, doctor)
}

func (s *DoctorService) UploadPhoto(ctx context.Context, id uint, file interface{}) (*models.Doctor, error) {
	if s.photos == nil {
		return nil, ErrPhotoUploadDisabled
	}
	doctor, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	url, err := s.photos.Upload(ctx, file, fmt.Sprintf("doctor-%d", id))
	if err != nil {
		return nil, fmt.Errorf("upload doctor photo: %w", err)
	}
	doctor.PhotoURL = url
	if err := s.doctors.Update(ctx, doctor); err != nil {
		return nil, err
	}
	return doctor, nil
}

func applyDoctorInput(doctor *models.Doctor, in DoctorInput) error {
	fields := fieldErrors{}
	name := strings.TrimSpace(in.Name)
	if name == "" {
		fields.add("name", "Name is required")
	}
	start, end := checkWindow(fields, "startTime", "endTime", in.StartTime, in.EndTime)
	if err := fields.err(); err != nil {
		return err
	}
	doctor.Name = name
	doctor.Specialization = strings.TrimSpace(in.Specialization)
	doctor.StartTime = start
	doctor.EndTime = end
	if in.Active != nil {
		doctor.Active = *in.Active
	}
	return nil
}

// checkWindow validates a pair of "HH:MM" times with start before end and
// returns them normalized.
func checkWindow(fields fieldErrors, startField, endField, startText, endText string) (string, string) {
	start, okStart := scheduling.NormalizeTimeOfDay(startText)
	if !okStart {
		fields.add(startField, "Invalid time format (HH:MM)")
	}
	end, okEnd := scheduling.NormalizeTimeOfDay(endText)
	if !okEnd {
		fields.add(endField, "Invalid time format (HH:MM)")
	}
	if okStart && okEnd && start >= end {
		fields.add(endField, "End time must be after start time")
	}
	return start, end
}

func (s *DoctorService) Schedule(ctx context.Context, doctorID uint) ([]models.WorkingHours, error) {
	if _, err := s.Get(ctx, doctorID); err != nil {
		return nil, err
	}
	return s.schedules.ListByDoctor(ctx, doctorID)
}

// ReplaceSchedule swaps the doctor's weekly rows for the given ones. At most
// one row per weekday is accepted.
func (s *DoctorService) ReplaceSchedule(ctx context.Context, doctorID uint, in []WorkingHoursInput) ([]models.WorkingHours, error) {
	if _, err := s.Get(ctx, doctorID); err != nil {
		return nil, err
	}

	fields := fieldErrors{}
	seen := make(map[int]bool, len(in))
	rows := make([]models.WorkingHours, 0, len(in))
	for i, day := range in {
		prefix := fmt.Sprintf("schedule[%d].", i)
		if day.DayOfWeek < int(models.Sunday) || day.DayOfWeek > int(models.Saturday) {
			fields.add(prefix+"dayOfWeek", "Day must be between 0 (Sunday) and 6 (Saturday)")
			continue
		}
		if seen[day.DayOfWeek] {
			fields.add(prefix+"dayOfWeek", "Duplicate day")
			continue
		}
		seen[day.DayOfWeek] = true

		row := models.WorkingHours{
			DoctorID:  doctorID,
			DayOfWeek: models.DayOfWeek(day.DayOfWeek),
			IsWorkDay: day.IsWorkDay,
		}
		if day.IsWorkDay {
			row.StartTime, row.EndTime = checkWindow(fields, prefix+"startTime", prefix+"endTime", day.StartTime, day.EndTime)
		}
		if day.BreakStart != nil && day.BreakEnd != nil {
			bs, be := checkWindow(fields, prefix+"breakStart", prefix+"breakEnd", *day.BreakStart, *day.BreakEnd)
			row.BreakStart, row.BreakEnd = &bs, &be
		} else if day.BreakStart != nil || day.BreakEnd != nil {
			fields.add(prefix+"breakEnd", "Break needs both start and end")
		}
		rows = append(rows, row)
	}
	if err := fields.err(); err != nil {
		return nil, err
	}

	if err := s.schedules.Replace(ctx, doctorID, rows); err != nil {
		return nil, err
	}
	s.log.Info("doctor schedule replaced", zap.Uint("doctor_id", doctorID), zap.Int("days", len(rows)))
	return rows, nil
}

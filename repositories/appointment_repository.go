package repositories

import (
	"context"
	"time"

	"github.com/meinhoongagan/medcare/models"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// AppointmentFilter narrows List. Zero fields are ignored.
type AppointmentFilter struct {
	Status   models.AppointmentStatus
	DoctorID uint
	From     time.Time
	To       time.Time // exclusive
}

type IAppointmentRepository interface {
	Create(ctx context.Context, appointment *models.Appointment) error
	FindByID(ctx context.Context, id uint) (*models.Appointment, error)
	List(ctx context.Context, filter AppointmentFilter) ([]models.Appointment, error)
	// ListForDoctor returns the doctor's appointments starting in [from, to)
	// with their services loaded.
	ListForDoctor(ctx context.Context, doctorID uint, from, to time.Time) ([]models.Appointment, error)
	// UpdateStatus writes appointment.Status only if the stored status is
	// still from. A mismatch yields ErrConflict.
	UpdateStatus(ctx context.Context, appointment *models.Appointment, from models.AppointmentStatus) error
	Delete(ctx context.Context, id uint) error
	CountByStatus(ctx context.Context) (map[models.AppointmentStatus]int64, error)
	// SumServicePrice totals the price of the booked service over every
	// appointment in status.
	SumServicePrice(ctx context.Context, status models.AppointmentStatus) (float64, error)
}

type AppointmentRepository struct {
	db  *gorm.DB
	log *zap.Logger
}

func NewAppointmentRepository(db *gorm.DB, log *zap.Logger) *AppointmentRepository {
	return &AppointmentRepository{db: db, log: log}
}

func (r *AppointmentRepository) withRelations(db *gorm.DB) *gorm.DB {
	return db.Preload("Doctor").Preload("Service").Preload("CreatedBy")
}

func (r *AppointmentRepository) Create(ctx context.Context, appointment *models.Appointment) error {
	return conn(ctx, r.db).Omit("Doctor", "Service", "CreatedBy").Create(appointment).Error
}

func (r *AppointmentRepository) FindByID(ctx context.Context, id uint) (*models.Appointment, error) {
	var appointment models.Appointment
	if err := r.withRelations(conn(ctx, r.db)).First(&appointment, id).Error; err != nil {
		return nil, notFound(r.log, "AppointmentRepository.FindByID", err, zap.Uint("id", id))
	}
	return &appointment, nil
}

func (r *AppointmentRepository) List(ctx context.Context, filter AppointmentFilter) ([]models.Appointment, error) {
	query := r.withRelations(conn(ctx, r.db))
	if filter.Status != "" {
		query = query.Where("status = ?", filter.Status)
	}
	if filter.DoctorID != 0 {
		query = query.Where("doctor_id = ?", filter.DoctorID)
	}
	if !filter.From.IsZero() {
		query = query.Where("appointment_time >= ?", filter.From)
	}
	if !filter.To.IsZero() {
		query = query.Where("appointment_time < ?", filter.To)
	}

	var appointments []models.Appointment
	if err := query.Order("appointment_time asc").Find(&appointments).Error; err != nil {
		r.log.Error("AppointmentRepository.List: DB error", zap.Any("filter", filter), zap.Error(err))
		return nil, err
	}
	return appointments, nil
}

func (r *AppointmentRepository) ListForDoctor(ctx context.Context, doctorID uint, from, to time.Time) ([]models.Appointment, error) {
	var appointments []models.Appointment
	err := conn(ctx, r.db).Preload("Service").
		Where("doctor_id = ? AND appointment_time >= ? AND appointment_time < ?", doctorID, from, to).
		Order("appointment_time asc").
		Find(&appointments).Error
	if err != nil {
		r.log.Error("AppointmentRepository.ListForDoctor: DB error", zap.Uint("doctorID", doctorID), zap.Error(err))
		return nil, err
	}
	return appointments, nil
}

func (r *AppointmentRepository) UpdateStatus(ctx context.Context, appointment *models.Appointment, from models.AppointmentStatus) error {
	res := conn(ctx, r.db).Model(&models.Appointment{}).
		Where("id = ? AND status = ?", appointment.ID, from).
		Update("status", appointment.Status)
	if res.Error != nil {
		r.log.Error("AppointmentRepository.UpdateStatus: DB error", zap.Uint("id", appointment.ID), zap.Error(res.Error))
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrConflict
	}
	return nil
}

func (r *AppointmentRepository) Delete(ctx context.Context, id uint) error {
	res := conn(ctx, r.db).Delete(&models.Appointment{}, id)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *AppointmentRepository) CountByStatus(ctx context.Context) (map[models.AppointmentStatus]int64, error) {
	var rows []struct {
		Status models.AppointmentStatus
		Count  int64
	}
	err := conn(ctx, r.db).Model(&models.Appointment{}).
		Select("status, count(*) as count").
		Group("status").
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}
	counts := make(map[models.AppointmentStatus]int64, len(rows))
	for _, row := range rows {
		counts[row.Status] = row.Count
	}
	return counts, nil
}

func (r *AppointmentRepository) SumServicePrice(ctx context.Context, status models.AppointmentStatus) (float64, error) {
	var total float64
	err := conn(ctx, r.db).Model(&models.Appointment{}).
		Select("COALESCE(SUM(medical_services.price), 0)").
		Joins("JOIN medical_services ON medical_services.id = appointments.service_id").
		Where("appointments.status = ?", status).
		Scan(&total).Error
	if err != nil {
		r.log.Error("AppointmentRepository.SumServicePrice: DB error", zap.String("status", string(status)), zap.Error(err))
		return 0, err
	}
	return total, nil
}

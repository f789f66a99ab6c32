package repositories

import (
	"context"

	"github.com/meinhoongagan/medcare/models"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type IScheduleRepository interface {
	ListByDoctor(ctx context.Context, doctorID uint) ([]models.WorkingHours, error)
	// Replace swaps the doctor's whole weekly schedule for rows.
	Replace(ctx context.Context, doctorID uint, rows []models.WorkingHours) error
}

type ScheduleRepository struct {
	db  *gorm.DB
	log *zap.Logger
}

func NewScheduleRepository(db *gorm.DB, log *zap.Logger) *ScheduleRepository {
	return &ScheduleRepository{db: db, log: log}
}

func (r *ScheduleRepository) ListByDoctor(ctx context.Context, doctorID uint) ([]models.WorkingHours, error) {
	var rows []models.WorkingHours
	err := conn(ctx, r.db).Where("doctor_id = ?", doctorID).Order("day_of_week asc").Find(&rows).Error
	if err != nil {
		r.log.Error("ScheduleRepository.ListByDoctor: DB error", zap.Uint("doctorID", doctorID), zap.Error(err))
		return nil, err
	}
	return rows, nil
}

func (r *ScheduleRepository) Replace(ctx context.Context, doctorID uint, rows []models.WorkingHours) error {
	return conn(ctx, r.db).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("doctor_id = ?", doctorID).Delete(&models.WorkingHours{}).Error; err != nil {
			return err
		}
		if len(rows) == 0 {
			return nil
		}
		for i := range rows {
			rows[i].ID = 0
			rows[i].DoctorID = doctorID
		}
		return tx.Create(&rows).Error
	})
}

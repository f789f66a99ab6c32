package repositories

import (
	"context"

	"github.com/meinhoongagan/medcare/models"
	"go.uber.org/zap"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type IDoctorRepository interface {
	Create(ctx context.Context, doctor *models.Doctor) error
	FindByID(ctx context.Context, id uint) (*models.Doctor, error)
	// LockByID loads the doctor with a row lock; only meaningful inside InTx.
	LockByID(ctx context.Context, id uint) (*models.Doctor, error)
	List(ctx context.Context, activeOnly bool) ([]models.Doctor, error)
	Update(ctx context.Context, doctor *models.Doctor) error
	Count(ctx context.Context, activeOnly bool) (int64, error)
}

type DoctorRepository struct {
	db  *gorm.DB
	log *zap.Logger
}

func NewDoctorRepository(db *gorm.DB, log *zap.Logger) *DoctorRepository {
	return &DoctorRepository{db: db, log: log}
}

func (r *DoctorRepository) Create(ctx context.Context, doctor *models.Doctor) error {
	return conn(ctx, r.db).Create(doctor).Error
}

func (r *DoctorRepository) FindByID(ctx context.Context, id uint) (*models.Doctor, error) {
	var doctor models.Doctor
	if err := conn(ctx, r.db).First(&doctor, id).Error; err != nil {
		return nil, notFound(r.log, "DoctorRepository.FindByID", err, zap.Uint("id", id))
	}
	return &doctor, nil
}

func (r *DoctorRepository) LockByID(ctx context.Context, id uint) (*models.Doctor, error) {
	var doctor models.Doctor
	err := conn(ctx, r.db).Clauses(clause.Locking{Strength: "UPDATE"}).First(&doctor, id).Error
	if err != nil {
		return nil, notFound(r.log, "DoctorRepository.LockByID", err, zap.Uint("id", id))
	}
	return &doctor, nil
}

func (r *DoctorRepository) List(ctx context.Context, activeOnly bool) ([]models.Doctor, error) {
	var doctors []models.Doctor
	query := conn(ctx, r.db).Order("name asc")
	if activeOnly {
		query = query.Where("active = ?", true)
	}
	if err := query.Find(&doctors).Error; err != nil {
		r.log.Error("DoctorRepository.List: DB error", zap.Bool("activeOnly", activeOnly), zap.Error(err))
		return nil, err
	}
	return doctors, nil
}

func (r *DoctorRepository) Update(ctx context.Context, doctor *models.Doctor) error {
	return conn(ctx, r.db).Save(doctor).Error
}

func (r *DoctorRepository) Count(ctx context.Context, activeOnly bool) (int64, error) {
	var count int64
	query := conn(ctx, r.db).Model(&models.Doctor{})
	if activeOnly {
		query = query.Where("active = ?", true)
	}
	err := query.Count(&count).Error
	return count, err
}

package repositories

import (
	"context"

	"github.com/meinhoongagan/medcare/models"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type IMedicalServiceRepository interface {
	Create(ctx context.Context, service *models.MedicalService) error
	FindByID(ctx context.Context, id uint) (*models.MedicalService, error)
	List(ctx context.Context, activeOnly bool) ([]models.MedicalService, error)
	Update(ctx context.Context, service *models.MedicalService) error
	Count(ctx context.Context, activeOnly bool) (int64, error)
}

type MedicalServiceRepository struct {
	db  *gorm.DB
	log *zap.Logger
}

func NewMedicalServiceRepository(db *gorm.DB, log *zap.Logger) *MedicalServiceRepository {
	return &MedicalServiceRepository{db: db, log: log}
}

func (r *MedicalServiceRepository) Create(ctx context.Context, service *models.MedicalService) error {
	return conn(ctx, r.db).Create(service).Error
}

func (r *MedicalServiceRepository) FindByID(ctx context.Context, id uint) (*models.MedicalService, error) {
	var service models.MedicalService
	if err := conn(ctx, r.db).First(&service, id).Error; err != nil {
		return nil, notFound(r.log, "MedicalServiceRepository.FindByID", err, zap.Uint("id", id))
	}
	return &service, nil
}

func (r *MedicalServiceRepository) List(ctx context.Context, activeOnly bool) ([]models.MedicalService, error) {
	var services []models.MedicalService
	query := conn(ctx, r.db).Order("name asc")
	if activeOnly {
		query = query.Where("active = ?", true)
	}
	if err := query.Find(&services).Error; err != nil {
		r.log.Error("MedicalServiceRepository.List: DB error", zap.Bool("activeOnly", activeOnly), zap.Error(err))
		return nil, err
	}
	return services, nil
}

func (r *MedicalServiceRepository) Update(ctx context.Context, service *models.MedicalService) error {
	return conn(ctx, r.db).Save(service).Error
}

func (r *MedicalServiceRepository) Count(ctx context.Context, activeOnly bool) (int64, error) {
	var count int64
	query := conn(ctx, r.db).Model(&models.MedicalService{})
	if activeOnly {
		query = query.Where("active = ?", true)
	}
	err := query.Count(&count).Error
	return count, err
}

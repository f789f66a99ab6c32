package services

import (
	"context"
	"errors"
	"strings"

	"github.com/meinhoongagan/medcare/models"
	"github.com/meinhoongagan/medcare/repositories"
	"github.com/meinhoongagan/medcare/scheduling"
	"go.uber.org/zap"
)

// MedicalServiceInput is the create/update form. Duration accepts any of the
// three wire forms.
type MedicalServiceInput struct {
	Name        string              `json:"name"`
	Description string              `json:"description"`
	Price       float64             `json:"price"`
	Duration    scheduling.Duration `json:"duration"`
	Active      *bool               `json:"active"`
}

// CatalogService manages the clinic's bookable services.
type CatalogService struct {
	services repositories.IMedicalServiceRepository
	log      *zap.Logger
}

func NewCatalogService(services repositories.IMedicalServiceRepository, log *zap.Logger) *CatalogService {
	return &CatalogService{services: services, log: log}
}

func (s *CatalogService) List(ctx context.Context, activeOnly bool) ([]models.MedicalService, error) {
	return s.services.List(ctx, activeOnly)
}

func (s *CatalogService) Get(ctx context.Context, id uint) (*models.MedicalService, error) {
	service, err := s.services.FindByID(ctx, id)
	if errors.Is(err, repositories.ErrNotFound) {
		return nil, ErrServiceNotFound
	}
	return service, err
}

func (s *CatalogService) Create(ctx context.Context, in MedicalServiceInput) (*models.MedicalService, error) {
	service := &models.MedicalService{Active: true}
	if err := applyServiceInput(service, in); err != nil {
		return nil, err
	}
	if err := s.services.Create(ctx, service); err != nil {
		return nil, err
	}
	s.log.Info("service created", zap.Uint("id", service.ID), zap.Int("minutes", service.Duration.Minutes()))
	return service, nil
}

func (s *CatalogService) Update(ctx context.Context, id uint, in MedicalServiceInput) (*models.MedicalService, error) {
	service, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := applyServiceInput(service, in); err != nil {
		return nil, err
	}
	if err := s.services.Update(ctx, service); err != nil {
		return nil, err
	}
	return service, nil
}

func (s *CatalogService) Deactivate(ctx context.Context, id uint) error {
	service, err := s.Get(ctx, id)
	if err != nil {
		return err
	}
	service.Active = false
	return s.services.Update(ctx, service)
}

func applyServiceInput(service *models.MedicalService, in MedicalServiceInput) error {
	fields := fieldErrors{}
	name := strings.TrimSpace(in.Name)
	if name == "" {
		fields.add("name", "Name is required")
	}
	if in.Price < 0 {
		fields.add("price", "Price cannot be negative")
	}
	minutes := scheduling.ParseDurationToMinutes(in.Duration)
	if minutes <= 0 {
		fields.add("duration", "Duration must be at least one minute")
	}
	if err := fields.err(); err != nil {
		return err
	}
	service.Name = name
	service.Description = strings.TrimSpace(in.Description)
	service.Price = in.Price
	service.Duration = models.DurationOfMinutes(minutes)
	if in.Active != nil {
		service.Active = *in.Active
	}
	return nil
}

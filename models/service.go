package models

import (
	"time"
)

// MedicalService is a bookable clinic service. Duration accepts "PT1H30M",
// {"seconds": 5400} or 5400 on input and is stored as minutes.
type MedicalService struct {
	ID          uint      `json:"id" gorm:"primaryKey"`
	Name        string    `json:"name" gorm:"not null"`
	Description string    `json:"description"`
	Price       float64   `json:"price" gorm:"type:decimal(10,2)"`
	Duration    Duration  `json:"duration"`
	Active      bool      `json:"active" gorm:"not null"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`
}

func (MedicalService) TableName() string {
	return "medical_services"
}

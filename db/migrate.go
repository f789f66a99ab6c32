package db

import (
	"errors"
	"fmt"

	"github.com/meinhoongagan/medcare/models"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

func Migrate(db *gorm.DB, log *zap.Logger) error {
	err := db.AutoMigrate(
		&models.User{},
		&models.Doctor{},
		&models.WorkingHours{},
		&models.MedicalService{},
		&models.Appointment{},
	)
	if err != nil {
		return fmt.Errorf("run migrations: %w", err)
	}

	log.Info("migrations applied")
	return nil
}

// SeedAdmin creates the first administrator if no user with that name exists.
// It reports whether a user was created.
func SeedAdmin(db *gorm.DB, username, password, fullName string) (bool, error) {
	if username == "" || password == "" {
		return false, errors.New("admin username and password are required")
	}

	var existing models.User
	err := db.Where("username = ?", username).First(&existing).Error
	if err == nil {
		return false, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return false, err
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return false, fmt.Errorf("hash admin password: %w", err)
	}
	admin := models.User{
		Username: username,
		Password: string(hashed),
		FullName: fullName,
		Role:     models.RoleAdmin,
	}
	if err := db.Create(&admin).Error; err != nil {
		return false, err
	}
	return true, nil
}

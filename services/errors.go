package services

import (
	"sort"
	"strings"
)

// ServiceError is a business rule failure the caller can show as is.
type ServiceError string

func (e ServiceError) Error() string { return string(e) }

const (
	ErrInvalidCredentials  ServiceError = "invalid credentials"
	ErrInvalidToken        ServiceError = "invalid or expired token"
	ErrUsernameTaken       ServiceError = "a user with this username already exists"
	ErrUserNotFound        ServiceError = "user not found"
	ErrNotReceptionist     ServiceError = "user is not a receptionist"
	ErrDoctorNotFound      ServiceError = "doctor not found"
	ErrDoctorInactive      ServiceError = "doctor is not active"
	ErrServiceNotFound     ServiceError = "service not found"
	ErrServiceInactive     ServiceError = "service is not active"
	ErrAppointmentNotFound ServiceError = "appointment not found"
	ErrSlotUnavailable     ServiceError = "Time slot not available: outside the doctor's working hours or already booked"
	ErrInvalidTransition   ServiceError = "invalid status transition"
	ErrPhotoUploadDisabled ServiceError = "photo upload is not configured"
)

// ValidationError carries field-level messages for a rejected form.
type ValidationError struct {
	Fields map[string]string
}

func (e *ValidationError) Error() string {
	keys := make([]string, 0, len(e.Fields))
	for k := range e.Fields {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	parts := make([]string, 0, len(keys))
	for _, k := range keys {
		parts = append(parts, k+": "+e.Fields[k])
	}
	return "validation failed: " + strings.Join(parts, "; ")
}

type fieldErrors map[string]string

func (f fieldErrors) add(field, msg string) {
	if _, exists := f[field]; !exists {
		f[field] = msg
	}
}

func (f fieldErrors) err() error {
	if len(f) == 0 {
		return nil
	}
	return &ValidationError{Fields: f}
}

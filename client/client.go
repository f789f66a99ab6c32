package client

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/meinhoongagan/medcare/models"
	"github.com/meinhoongagan/medcare/utils"
)

// APIError is a non-2xx response from the API.
type APIError struct {
	Status  int
	Message string
	Fields  map[string]string
}

func (e *APIError) Error() string {
	if len(e.Fields) > 0 {
		parts := make([]string, 0, len(e.Fields))
		for k, v := range e.Fields {
			parts = append(parts, k+": "+v)
		}
		return fmt.Sprintf("%d %s (%s)", e.Status, e.Message, strings.Join(parts, "; "))
	}
	return fmt.Sprintf("%d %s", e.Status, e.Message)
}

// Client talks to the clinic REST API on behalf of the session in its store.
type Client struct {
	baseURL  string
	http     *http.Client
	sessions SessionStore
}

func New(baseURL string, sessions SessionStore) *Client {
	return &Client{
		baseURL:  strings.TrimRight(baseURL, "/"),
		http:     &http.Client{Timeout: 15 * time.Second},
		sessions: sessions,
	}
}

func (c *Client) do(ctx context.Context, method, path string, body, out interface{}, auth bool) error {
	var reader io.Reader
	if body != nil {
		b, err := json.Marshal(body)
		if err != nil {
			return err
		}
		reader = bytes.NewReader(b)
	}
	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return err
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	req.Header.Set("Accept", "application/json")
	if auth {
		s, err := c.sessions.Load()
		if err != nil {
			return err
		}
		req.Header.Set("Authorization", "Bearer "+s.Token)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 300 {
		var e utils.ErrorResponse
		_ = json.NewDecoder(resp.Body).Decode(&e)
		if e.Message == "" {
			e.Message = http.StatusText(resp.StatusCode)
		}
		return &APIError{Status: resp.StatusCode, Message: e.Message, Fields: e.Fields}
	}
	if out == nil {
		return nil
	}
	return json.NewDecoder(resp.Body).Decode(out)
}

// Login authenticates and saves the session.
func (c *Client) Login(ctx context.Context, username, password string) (*Session, error) {
	var s Session
	err := c.do(ctx, http.MethodPost, "/api/auth/login", map[string]string{
		"username": username,
		"password": password,
	}, &s, false)
	if err != nil {
		return nil, err
	}
	if err := c.sessions.Save(&s); err != nil {
		return nil, fmt.Errorf("save session: %w", err)
	}
	return &s, nil
}

// Logout revokes the token server side and clears the local session. The
// local session is cleared even if the server call fails.
func (c *Client) Logout(ctx context.Context) error {
	err := c.do(ctx, http.MethodPost, "/api/auth/logout", nil, nil, true)
	if clearErr := c.sessions.Clear(); clearErr != nil {
		return clearErr
	}
	if errors.Is(err, ErrNoSession) {
		return nil
	}
	return err
}

func (c *Client) Doctors(ctx context.Context) ([]models.Doctor, error) {
	var out []models.Doctor
	return out, c.do(ctx, http.MethodGet, "/api/receptionist/doctors", nil, &out, true)
}

func (c *Client) Services(ctx context.Context) ([]models.MedicalService, error) {
	var out []models.MedicalService
	return out, c.do(ctx, http.MethodGet, "/api/receptionist/services", nil, &out, true)
}

// Appointments lists a doctor's appointments on date ("YYYY-MM-DD").
func (c *Client) Appointments(ctx context.Context, doctorID uint, date string) ([]models.Appointment, error) {
	q := url.Values{}
	if doctorID != 0 {
		q.Set("doctorId", strconv.FormatUint(uint64(doctorID), 10))
	}
	if date != "" {
		q.Set("date", date)
	}
	path := "/api/receptionist/appointments"
	if len(q) > 0 {
		path += "?" + q.Encode()
	}
	var out []models.Appointment
	return out, c.do(ctx, http.MethodGet, path, nil, &out, true)
}

// Schedule returns the doctor's weekly working hours; empty means the
// doctor's daily window applies every day.
func (c *Client) Schedule(ctx context.Context, doctorID uint) ([]models.WorkingHours, error) {
	var out []models.WorkingHours
	path := fmt.Sprintf("/api/receptionist/doctors/%d/schedule", doctorID)
	return out, c.do(ctx, http.MethodGet, path, nil, &out, true)
}

type CreateAppointmentRequest struct {
	PatientName     string `json:"patientName"`
	DoctorID        uint   `json:"doctorId"`
	ServiceID       uint   `json:"serviceId"`
	AppointmentTime string `json:"appointmentTime"`
}

func (c *Client) CreateAppointment(ctx context.Context, req CreateAppointmentRequest) (*models.Appointment, error) {
	var out models.Appointment
	if err := c.do(ctx, http.MethodPost, "/api/receptionist/appointments", req, &out, true); err != nil {
		return nil, err
	}
	return &out, nil
}

package controllers

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/meinhoongagan/medcare/middleware"
	"github.com/meinhoongagan/medcare/models"
	"github.com/meinhoongagan/medcare/services"
	"github.com/meinhoongagan/medcare/utils"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func newTestApp() *fiber.App {
	return fiber.New(fiber.Config{ErrorHandler: ErrorHandler(zap.NewNop())})
}

// asUser fakes what Protected leaves in locals.
func asUser(id uint, role models.Role) fiber.Handler {
	return func(c *fiber.Ctx) error {
		c.Locals(middleware.LocalUserID, id)
		c.Locals(middleware.LocalRole, role)
		c.Locals(middleware.LocalTokenID, "jti-1")
		c.Locals(middleware.LocalExpiresAt, time.Unix(2000000000, 0))
		return c.Next()
	}
}

func send(t *testing.T, app *fiber.App, method, path string, body interface{}) (*http.Response, []byte) {
	t.Helper()
	var reader io.Reader
	if body != nil {
		raw, ok := body.(string)
		if !ok {
			b, err := json.Marshal(body)
			require.NoError(t, err)
			raw = string(b)
		}
		reader = strings.NewReader(raw)
	}
	req := httptest.NewRequest(method, path, reader)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	resp, err := app.Test(req)
	require.NoError(t, err)
	out, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	return resp, out
}

type fakeBooking struct {
	createErr error
	input     services.BookingInput
	createdBy uint
	query     services.AppointmentQuery
	status    string
	slots     []string
}

func (f *fakeBooking) Create(_ context.Context, in services.BookingInput, createdBy uint) (*models.Appointment, error) {
	f.input, f.createdBy = in, createdBy
	if f.createErr != nil {
		return nil, f.createErr
	}
	return &models.Appointment{ID: 10, PatientName: in.PatientName, DoctorID: in.DoctorID, Status: models.StatusNew}, nil
}

func (f *fakeBooking) Get(_ context.Context, id uint) (*models.Appointment, error) {
	if id != 10 {
		return nil, services.ErrAppointmentNotFound
	}
	return &models.Appointment{ID: 10, Status: models.StatusNew}, nil
}

func (f *fakeBooking) List(_ context.Context, q services.AppointmentQuery) ([]models.Appointment, error) {
	f.query = q
	return nil, nil
}

func (f *fakeBooking) UpdateStatus(_ context.Context, id uint, status string) (*models.Appointment, error) {
	f.status = status
	if status == "NEW" {
		return nil, services.ErrInvalidTransition
	}
	return &models.Appointment{ID: id, Status: models.AppointmentStatus(status)}, nil
}

func (f *fakeBooking) Delete(_ context.Context, id uint) error { return nil }

func (f *fakeBooking) Slots(_ context.Context, doctorID, serviceID uint, date string) ([]string, error) {
	return f.slots, nil
}

func bookingApp(f *fakeBooking) *fiber.App {
	app := newTestApp()
	h := NewAppointmentHandler(f, zap.NewNop())
	app.Use(asUser(5, models.RoleReceptionist))
	app.Get("/appointments", h.List)
	app.Get("/appointments/:id", h.Get)
	app.Post("/appointments", h.Create)
	app.Put("/appointments/:id/status", h.UpdateStatus)
	app.Get("/doctors/:id/slots", h.Slots)
	return app
}

func TestCreateAppointmentHandler(t *testing.T) {
	f := &fakeBooking{}
	app := bookingApp(f)

	resp, body := send(t, app, http.MethodPost, "/appointments", map[string]interface{}{
		"patientName": "Ana", "doctorId": 1, "serviceId": 2, "appointmentTime": "2025-03-12T10:00",
	})
	assert.Equal(t, http.StatusCreated, resp.StatusCode)
	assert.Equal(t, uint(5), f.createdBy)
	assert.Equal(t, "2025-03-12T10:00", f.input.AppointmentTime)
	var created models.Appointment
	require.NoError(t, json.Unmarshal(body, &created))
	assert.Equal(t, "Ana", created.PatientName)

	tests := []struct {
		name   string
		err    error
		status int
	}{
		{name: "slot taken", err: services.ErrSlotUnavailable, status: http.StatusConflict},
		{name: "unknown doctor", err: services.ErrDoctorNotFound, status: http.StatusNotFound},
		{name: "inactive service", err: services.ErrServiceInactive, status: http.StatusBadRequest},
		{name: "validation", err: &services.ValidationError{Fields: map[string]string{"patientName": "Patient name is required"}}, status: http.StatusBadRequest},
		{name: "database down", err: io.ErrUnexpectedEOF, status: http.StatusInternalServerError},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f.createErr = tt.err
			resp, body := send(t, app, http.MethodPost, "/appointments", map[string]interface{}{"patientName": "Ana"})
			assert.Equal(t, tt.status, resp.StatusCode)
			var e utils.ErrorResponse
			require.NoError(t, json.Unmarshal(body, &e))
			assert.NotEmpty(t, e.Message)
			if tt.status == http.StatusInternalServerError {
				assert.NotContains(t, string(body), "unexpected EOF", "internal errors are not leaked")
			}
		})
	}

	f.createErr = services.ErrSlotUnavailable
	_, body = send(t, app, http.MethodPost, "/appointments", map[string]interface{}{"patientName": "Ana"})
	assert.Contains(t, string(body), "outside the doctor's working hours or already booked")

	f.createErr = &services.ValidationError{Fields: map[string]string{"appointmentTime": "Appointment time must be in the future"}}
	_, body = send(t, app, http.MethodPost, "/appointments", map[string]interface{}{"patientName": "Ana"})
	var e utils.ErrorResponse
	require.NoError(t, json.Unmarshal(body, &e))
	assert.Equal(t, "Appointment time must be in the future", e.Fields["appointmentTime"])

	resp, _ = send(t, app, http.MethodPost, "/appointments", "{not json")
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestAppointmentQueries(t *testing.T) {
	f := &fakeBooking{slots: []string{"09:00", "09:15"}}
	app := bookingApp(f)

	resp, body := send(t, app, http.MethodGet, "/appointments?status=NEW&doctorId=3&date=2025-03-12", nil)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.JSONEq(t, "[]", string(body))
	assert.Equal(t, services.AppointmentQuery{Status: "NEW", DoctorID: 3, Date: "2025-03-12"}, f.query)

	resp, _ = send(t, app, http.MethodGet, "/appointments/10", nil)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	resp, _ = send(t, app, http.MethodGet, "/appointments/11", nil)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
	resp, _ = send(t, app, http.MethodGet, "/appointments/abc", nil)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)

	resp, body = send(t, app, http.MethodGet, "/doctors/1/slots?serviceId=2&date=2025-03-12", nil)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.JSONEq(t, `{"date":"2025-03-12","slots":["09:00","09:15"]}`, string(body))
	resp, _ = send(t, app, http.MethodGet, "/doctors/1/slots?date=2025-03-12", nil)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestUpdateStatusHandler(t *testing.T) {
	f := &fakeBooking{}
	app := bookingApp(f)

	resp, body := send(t, app, http.MethodPut, "/appointments/10/status", map[string]string{"status": "IN_PROGRESS"})
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Contains(t, string(body), `"status":"IN_PROGRESS"`)

	resp, _ = send(t, app, http.MethodPut, "/appointments/10/status", map[string]string{"status": "NEW"})
	assert.Equal(t, http.StatusConflict, resp.StatusCode)
}

type fakeAuth struct {
	loggedOut string
}

func (f *fakeAuth) Login(_ context.Context, username, password string) (*services.LoginResult, error) {
	if password != "secret1" {
		return nil, services.ErrInvalidCredentials
	}
	return &services.LoginResult{Token: "t", RefreshToken: "r", User: &models.User{ID: 1, Username: username, Role: models.RoleAdmin}}, nil
}

func (f *fakeAuth) Register(_ context.Context, in services.UserInput) (*models.User, error) {
	if in.Username == "taken" {
		return nil, services.ErrUsernameTaken
	}
	return &models.User{ID: 2, Username: in.Username, Password: "hash", Role: models.RoleReceptionist}, nil
}

func (f *fakeAuth) Me(_ context.Context, id uint) (*models.User, error) {
	return &models.User{ID: id, Username: "me", Password: "hash"}, nil
}

func (f *fakeAuth) Logout(_ context.Context, jti string, _ time.Time) error {
	f.loggedOut = jti
	return nil
}

func (f *fakeAuth) Refresh(_ context.Context, token string) (string, error) {
	if token != "r" {
		return "", services.ErrInvalidToken
	}
	return "t2", nil
}

func TestAuthHandler(t *testing.T) {
	f := &fakeAuth{}
	h := NewAuthHandler(f, zap.NewNop())
	app := newTestApp()
	app.Post("/login", h.Login)
	app.Post("/refresh", h.Refresh)
	app.Post("/register", h.Register)
	app.Get("/me", asUser(7, models.RoleAdmin), h.Me)
	app.Post("/logout", asUser(7, models.RoleAdmin), h.Logout)

	resp, body := send(t, app, http.MethodPost, "/login", map[string]string{"username": "admin", "password": "secret1"})
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Contains(t, string(body), `"token":"t"`)

	resp, _ = send(t, app, http.MethodPost, "/login", map[string]string{"username": "admin", "password": "nope"})
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)

	resp, body = send(t, app, http.MethodPost, "/refresh", map[string]string{"refreshToken": "r"})
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.JSONEq(t, `{"token":"t2"}`, string(body))

	resp, body = send(t, app, http.MethodPost, "/register", map[string]string{"username": "desk", "password": "secret1"})
	assert.Equal(t, http.StatusCreated, resp.StatusCode)
	assert.NotContains(t, string(body), "hash", "password never serialized")
	resp, _ = send(t, app, http.MethodPost, "/register", map[string]string{"username": "taken"})
	assert.Equal(t, http.StatusConflict, resp.StatusCode)

	resp, body = send(t, app, http.MethodGet, "/me", nil)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Contains(t, string(body), `"id":7`)

	resp, _ = send(t, app, http.MethodPost, "/logout", nil)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "jti-1", f.loggedOut)
}

type fakeCatalog struct {
	last services.MedicalServiceInput
}

func (f *fakeCatalog) List(context.Context, bool) ([]models.MedicalService, error) { return nil, nil }

func (f *fakeCatalog) Create(_ context.Context, in services.MedicalServiceInput) (*models.MedicalService, error) {
	f.last = in
	return &models.MedicalService{ID: 1, Name: in.Name, Duration: models.DurationOfMinutes(in.Duration.Minutes())}, nil
}

func (f *fakeCatalog) Update(_ context.Context, id uint, in services.MedicalServiceInput) (*models.MedicalService, error) {
	return nil, services.ErrServiceNotFound
}

func (f *fakeCatalog) Deactivate(context.Context, uint) error { return nil }

func TestServiceHandlerDurations(t *testing.T) {
	f := &fakeCatalog{}
	h := NewServiceHandler(f, zap.NewNop())
	app := newTestApp()
	app.Get("/services", h.ListAll)
	app.Post("/services", h.Create)
	app.Put("/services/:id", h.Update)
	app.Delete("/services/:id", h.Delete)

	for _, raw := range []string{`"PT1H30M"`, `{"seconds": 5400}`, `5400`} {
		resp, body := send(t, app, http.MethodPost, "/services", `{"name":"Checkup","price":10,"duration":`+raw+`}`)
		assert.Equal(t, http.StatusCreated, resp.StatusCode, raw)
		assert.Equal(t, 90, f.last.Duration.Minutes(), raw)
		assert.Contains(t, string(body), `"duration":"PT1H30M"`, raw)
	}

	_, body := send(t, app, http.MethodGet, "/services", nil)
	assert.JSONEq(t, "[]", string(body))

	resp, _ := send(t, app, http.MethodPut, "/services/4", map[string]string{"name": "x"})
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
	resp, _ = send(t, app, http.MethodDelete, "/services/4", nil)
	assert.Equal(t, http.StatusNoContent, resp.StatusCode)
}

type fakeDoctors struct {
	photo []byte
	rows  []services.WorkingHoursInput
}

func (f *fakeDoctors) List(context.Context, bool) ([]models.Doctor, error) { return nil, nil }

func (f *fakeDoctors) Create(_ context.Context, in services.DoctorInput) (*models.Doctor, error) {
	return &models.Doctor{ID: 1, Name: in.Name}, nil
}

func (f *fakeDoctors) Update(context.Context, uint, services.DoctorInput) (*models.Doctor, error) {
	return nil, &services.ValidationError{Fields: map[string]string{"endTime": "End time must be after start time"}}
}

func (f *fakeDoctors) Deactivate(context.Context, uint) error { return services.ErrDoctorNotFound }

func (f *fakeDoctors) UploadPhoto(_ context.Context, id uint, file interface{}) (*models.Doctor, error) {
	b, err := io.ReadAll(file.(io.Reader))
	if err != nil {
		return nil, err
	}
	f.photo = b
	return &models.Doctor{ID: id, PhotoURL: "https://cdn/doctor.jpg"}, nil
}

func (f *fakeDoctors) Schedule(context.Context, uint) ([]models.WorkingHours, error) { return nil, nil }

func (f *fakeDoctors) ReplaceSchedule(_ context.Context, id uint, in []services.WorkingHoursInput) ([]models.WorkingHours, error) {
	f.rows = in
	return []models.WorkingHours{{DoctorID: id}}, nil
}

func TestDoctorHandler(t *testing.T) {
	f := &fakeDoctors{}
	h := NewDoctorHandler(f, zap.NewNop())
	app := newTestApp()
	app.Get("/doctors", h.ListActive)
	app.Post("/doctors", h.Create)
	app.Put("/doctors/:id", h.Update)
	app.Delete("/doctors/:id", h.Delete)
	app.Post("/doctors/:id/photo", h.UploadPhoto)
	app.Get("/doctors/:id/schedule", h.GetSchedule)
	app.Put("/doctors/:id/schedule", h.ReplaceSchedule)

	_, body := send(t, app, http.MethodGet, "/doctors", nil)
	assert.JSONEq(t, "[]", string(body))

	resp, _ := send(t, app, http.MethodPost, "/doctors", map[string]string{"name": "Dr. Pop"})
	assert.Equal(t, http.StatusCreated, resp.StatusCode)

	resp, body = send(t, app, http.MethodPut, "/doctors/1", map[string]string{"name": "Dr. Pop"})
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	assert.Contains(t, string(body), "End time must be after start time")

	resp, _ = send(t, app, http.MethodDelete, "/doctors/1", nil)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)

	_, body = send(t, app, http.MethodGet, "/doctors/1/schedule", nil)
	assert.JSONEq(t, "[]", string(body))
	resp, _ = send(t, app, http.MethodPut, "/doctors/1/schedule", `[{"dayOfWeek":1,"startTime":"09:00","endTime":"17:00","isWorkDay":true}]`)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	require.Len(t, f.rows, 1)
	assert.Equal(t, 1, f.rows[0].DayOfWeek)

	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	part, err := mw.CreateFormFile("photo", "doctor.jpg")
	require.NoError(t, err)
	_, err = part.Write([]byte("jpeg-bytes"))
	require.NoError(t, err)
	require.NoError(t, mw.Close())
	req := httptest.NewRequest(http.MethodPost, "/doctors/1/photo", &buf)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	resp, err = app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "jpeg-bytes", string(f.photo))

	resp, _ = send(t, app, http.MethodPost, "/doctors/1/photo", nil)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

type fakeReports struct{}

func (fakeReports) Appointments(_ context.Context, start, end string) (*services.AppointmentsReport, error) {
	if start == "" {
		return nil, &services.ValidationError{Fields: map[string]string{"startDate": "Invalid start date"}}
	}
	return &services.AppointmentsReport{Total: 0, Appointments: []models.Appointment{}}, nil
}

func (fakeReports) Doctors(context.Context, string, string) ([]services.DoctorStat, error) {
	return []services.DoctorStat{{DoctorID: 1, DoctorName: "Dr. Pop", AppointmentCount: 3}}, nil
}

func (fakeReports) Services(context.Context, string, string) ([]services.ServiceStat, error) {
	return []services.ServiceStat{}, nil
}

func (fakeReports) ExportCSV(context.Context, string, string) ([]byte, error) {
	return []byte("ID,Patient,Doctor,Service,Time,Status,Duration\n"), nil
}

func (fakeReports) Dashboard(context.Context) (*services.DashboardStats, error) {
	return &services.DashboardStats{TotalAppointments: 4, Revenue: 12.5}, nil
}

func TestReportHandler(t *testing.T) {
	h := NewReportHandler(fakeReports{}, zap.NewNop())
	app := newTestApp()
	app.Get("/reports/appointments", h.Appointments)
	app.Get("/reports/doctors", h.Doctors)
	app.Get("/reports/appointments.csv", h.ExportCSV)
	app.Get("/dashboard", h.GetDashboardOverview)
	app.Get("/roles", GetRoles)

	resp, _ := send(t, app, http.MethodGet, "/reports/appointments", nil)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	resp, _ = send(t, app, http.MethodGet, "/reports/appointments?startDate=2025-03-01&endDate=2025-03-31", nil)
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	_, body := send(t, app, http.MethodGet, "/reports/doctors?startDate=2025-03-01&endDate=2025-03-31", nil)
	assert.Contains(t, string(body), `"appointmentCount":3`)

	resp, body = send(t, app, http.MethodGet, "/reports/appointments.csv?startDate=2025-03-01&endDate=2025-03-31", nil)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "text/csv; charset=utf-8", resp.Header.Get("Content-Type"))
	assert.Contains(t, resp.Header.Get("Content-Disposition"), "appointments_2025-03-01_2025-03-31.csv")
	assert.True(t, strings.HasPrefix(string(body), "ID,Patient"))

	_, body = send(t, app, http.MethodGet, "/dashboard", nil)
	assert.Contains(t, string(body), `"totalAppointments":4`)
	assert.Contains(t, string(body), `"lastUpdated"`)

	_, body = send(t, app, http.MethodGet, "/roles", nil)
	var roles []roleView
	require.NoError(t, json.Unmarshal(body, &roles))
	require.Len(t, roles, 2)
	assert.Equal(t, models.RoleAdmin, roles[0].Name)
}

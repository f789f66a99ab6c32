package services

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/meinhoongagan/medcare/models"
	"github.com/meinhoongagan/medcare/repositories"
)

type passTx struct{ calls int }

func (t *passTx) InTx(ctx context.Context, fn func(ctx context.Context) error) error {
	t.calls++
	return fn(ctx)
}

type memUsers struct {
	mu   sync.Mutex
	rows map[uint]models.User
	next uint
}

func newMemUsers() *memUsers { return &memUsers{rows: map[uint]models.User{}} }

func (m *memUsers) Create(_ context.Context, u *models.User) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.next++
	u.ID = m.next
	m.rows[u.ID] = *u
	return nil
}

func (m *memUsers) FindByID(_ context.Context, id uint) (*models.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	u, ok := m.rows[id]
	if !ok {
		return nil, repositories.ErrNotFound
	}
	return &u, nil
}

func (m *memUsers) FindByUsername(_ context.Context, username string) (*models.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, u := range m.rows {
		if u.Username == username {
			u := u
			return &u, nil
		}
	}
	return nil, repositories.ErrNotFound
}

func (m *memUsers) ListByRole(_ context.Context, role models.Role) ([]models.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []models.User
	for _, u := range m.rows {
		if u.Role == role {
			out = append(out, u)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (m *memUsers) Update(_ context.Context, u *models.User) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.rows[u.ID] = *u
	return nil
}

func (m *memUsers) Delete(_ context.Context, id uint) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.rows[id]; !ok {
		return repositories.ErrNotFound
	}
	delete(m.rows, id)
	return nil
}

func (m *memUsers) CountByRole(ctx context.Context, role models.Role) (int64, error) {
	users, _ := m.ListByRole(ctx, role)
	return int64(len(users)), nil
}

type memDoctors struct {
	rows  map[uint]models.Doctor
	next  uint
	locks int
}

func newMemDoctors(doctors ...models.Doctor) *memDoctors {
	m := &memDoctors{rows: map[uint]models.Doctor{}}
	for _, d := range doctors {
		m.rows[d.ID] = d
		if d.ID > m.next {
			m.next = d.ID
		}
	}
	return m
}

func (m *memDoctors) Create(_ context.Context, d *models.Doctor) error {
	m.next++
	d.ID = m.next
	m.rows[d.ID] = *d
	return nil
}

func (m *memDoctors) FindByID(_ context.Context, id uint) (*models.Doctor, error) {
	d, ok := m.rows[id]
	if !ok {
		return nil, repositories.ErrNotFound
	}
	return &d, nil
}

func (m *memDoctors) LockByID(ctx context.Context, id uint) (*models.Doctor, error) {
	m.locks++
	return m.FindByID(ctx, id)
}

func (m *memDoctors) List(_ context.Context, activeOnly bool) ([]models.Doctor, error) {
	var out []models.Doctor
	for _, d := range m.rows {
		if !activeOnly || d.Active {
			out = append(out, d)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (m *memDoctors) Update(_ context.Context, d *models.Doctor) error {
	m.rows[d.ID] = *d
	return nil
}

func (m *memDoctors) Count(ctx context.Context, activeOnly bool) (int64, error) {
	out, _ := m.List(ctx, activeOnly)
	return int64(len(out)), nil
}

type memServices struct {
	rows map[uint]models.MedicalService
	next uint
}

func newMemServices(services ...models.MedicalService) *memServices {
	m := &memServices{rows: map[uint]models.MedicalService{}}
	for _, s := range services {
		m.rows[s.ID] = s
		if s.ID > m.next {
			m.next = s.ID
		}
	}
	return m
}

func (m *memServices) Create(_ context.Context, s *models.MedicalService) error {
	m.next++
	s.ID = m.next
	m.rows[s.ID] = *s
	return nil
}

func (m *memServices) FindByID(_ context.Context, id uint) (*models.MedicalService, error) {
	s, ok := m.rows[id]
	if !ok {
		return nil, repositories.ErrNotFound
	}
	return &s, nil
}

func (m *memServices) List(_ context.Context, activeOnly bool) ([]models.MedicalService, error) {
	var out []models.MedicalService
	for _, s := range m.rows {
		if !activeOnly || s.Active {
			out = append(out, s)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (m *memServices) Update(_ context.Context, s *models.MedicalService) error {
	m.rows[s.ID] = *s
	return nil
}

func (m *memServices) Count(ctx context.Context, activeOnly bool) (int64, error) {
	out, _ := m.List(ctx, activeOnly)
	return int64(len(out)), nil
}

type memSchedules struct {
	rows map[uint][]models.WorkingHours
}

func newMemSchedules() *memSchedules { return &memSchedules{rows: map[uint][]models.WorkingHours{}} }

func (m *memSchedules) ListByDoctor(_ context.Context, doctorID uint) ([]models.WorkingHours, error) {
	return m.rows[doctorID], nil
}

func (m *memSchedules) Replace(_ context.Context, doctorID uint, rows []models.WorkingHours) error {
	m.rows[doctorID] = rows
	return nil
}

// memAppointments resolves Doctor and Service from the sibling fakes the
// way the GORM repository preloads them.
type memAppointments struct {
	rows     map[uint]models.Appointment
	next     uint
	doctors  *memDoctors
	services *memServices
	sums     int
	lists    int
}

func newMemAppointments(doctors *memDoctors, services *memServices) *memAppointments {
	return &memAppointments{rows: map[uint]models.Appointment{}, doctors: doctors, services: services}
}

func (m *memAppointments) load(a models.Appointment) models.Appointment {
	if d, ok := m.doctors.rows[a.DoctorID]; ok {
		a.Doctor = d
	}
	if s, ok := m.services.rows[a.ServiceID]; ok {
		a.Service = s
	}
	return a
}

func (m *memAppointments) Create(_ context.Context, a *models.Appointment) error {
	m.next++
	a.ID = m.next
	if a.Status == "" {
		a.Status = models.StatusNew
	}
	m.rows[a.ID] = *a
	return nil
}

func (m *memAppointments) FindByID(_ context.Context, id uint) (*models.Appointment, error) {
	a, ok := m.rows[id]
	if !ok {
		return nil, repositories.ErrNotFound
	}
	a = m.load(a)
	return &a, nil
}

func (m *memAppointments) List(_ context.Context, f repositories.AppointmentFilter) ([]models.Appointment, error) {
	m.lists++
	out := []models.Appointment{}
	for _, a := range m.rows {
		if f.Status != "" && a.Status != f.Status {
			continue
		}
		if f.DoctorID != 0 && a.DoctorID != f.DoctorID {
			continue
		}
		if !f.From.IsZero() && a.AppointmentTime.Before(f.From) {
			continue
		}
		if !f.To.IsZero() && !a.AppointmentTime.Before(f.To) {
			continue
		}
		out = append(out, m.load(a))
	}
	sort.Slice(out, func(i, j int) bool { return out[i].AppointmentTime.Before(out[j].AppointmentTime) })
	return out, nil
}

func (m *memAppointments) ListForDoctor(ctx context.Context, doctorID uint, from, to time.Time) ([]models.Appointment, error) {
	return m.List(ctx, repositories.AppointmentFilter{DoctorID: doctorID, From: from, To: to})
}

func (m *memAppointments) UpdateStatus(_ context.Context, a *models.Appointment, from models.AppointmentStatus) error {
	row, ok := m.rows[a.ID]
	if !ok || row.Status != from {
		return repositories.ErrConflict
	}
	row.Status = a.Status
	m.rows[a.ID] = row
	return nil
}

func (m *memAppointments) Delete(_ context.Context, id uint) error {
	if _, ok := m.rows[id]; !ok {
		return repositories.ErrNotFound
	}
	delete(m.rows, id)
	return nil
}

func (m *memAppointments) CountByStatus(_ context.Context) (map[models.AppointmentStatus]int64, error) {
	out := map[models.AppointmentStatus]int64{}
	for _, a := range m.rows {
		out[a.Status]++
	}
	return out, nil
}

func (m *memAppointments) SumServicePrice(_ context.Context, status models.AppointmentStatus) (float64, error) {
	m.sums++
	var total float64
	for _, a := range m.rows {
		if a.Status == status {
			total += m.load(a).Service.Price
		}
	}
	return total, nil
}

type memRevoker struct{ revoked map[string]time.Time }

func (m *memRevoker) Revoke(_ context.Context, jti string, exp time.Time) error {
	if m.revoked == nil {
		m.revoked = map[string]time.Time{}
	}
	m.revoked[jti] = exp
	return nil
}

func (m *memRevoker) IsRevoked(_ context.Context, jti string) (bool, error) {
	_, ok := m.revoked[jti]
	return ok, nil
}

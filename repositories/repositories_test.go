package repositories

import (
	"context"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/meinhoongagan/medcare/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

func newMockDB(t *testing.T) (*gorm.DB, sqlmock.Sqlmock) {
	t.Helper()
	sqlDB, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { sqlDB.Close() })

	db, err := gorm.Open(postgres.New(postgres.Config{Conn: sqlDB}), &gorm.Config{
		Logger: gormlogger.Discard,
	})
	require.NoError(t, err)
	return db, mock
}

func TestDoctorRepository_FindByID(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewDoctorRepository(db, zap.NewNop())

	rows := sqlmock.NewRows([]string{"id", "name", "specialization", "start_time", "end_time", "active"}).
		AddRow(7, "Dr. Pop", "Cardiology", "09:00", "17:00", true)
	mock.ExpectQuery(`SELECT \* FROM "doctors"`).WillReturnRows(rows)

	doctor, err := repo.FindByID(context.Background(), 7)
	require.NoError(t, err)
	assert.Equal(t, "Dr. Pop", doctor.Name)
	assert.Equal(t, "09:00", doctor.StartTime)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestDoctorRepository_FindByIDNotFound(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewDoctorRepository(db, zap.NewNop())

	mock.ExpectQuery(`SELECT \* FROM "doctors"`).WillReturnRows(sqlmock.NewRows([]string{"id"}))

	_, err := repo.FindByID(context.Background(), 99)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestMedicalServiceRepository_ScansDuration(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewMedicalServiceRepository(db, zap.NewNop())

	rows := sqlmock.NewRows([]string{"id", "name", "price", "duration", "active"}).
		AddRow(1, "Consultation", 150.0, int64(90), true).
		AddRow(2, "Check-up", 80.0, int64(30), true)
	mock.ExpectQuery(`SELECT \* FROM "medical_services"`).WillReturnRows(rows)

	services, err := repo.List(context.Background(), true)
	require.NoError(t, err)
	require.Len(t, services, 2)
	assert.Equal(t, 90, services[0].Duration.Minutes())
	assert.Equal(t, "PT30M", services[1].Duration.ISO)
}

func TestAppointmentRepository_UpdateStatusGuarded(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewAppointmentRepository(db, zap.NewNop())

	mock.ExpectBegin()
	mock.ExpectExec(`UPDATE "appointments" SET "status"=\$1,"updated_at"=\$2 WHERE \(?id = \$3 AND status = \$4`).
		WithArgs(models.StatusInProgress, sqlmock.AnyArg(), 4, models.StatusNew).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	err := repo.UpdateStatus(context.Background(), &models.Appointment{ID: 4, Status: models.StatusInProgress}, models.StatusNew)
	require.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestAppointmentRepository_UpdateStatusStale(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewAppointmentRepository(db, zap.NewNop())

	mock.ExpectBegin()
	mock.ExpectExec(`UPDATE "appointments" SET .* WHERE \(?id = \$3 AND status = \$4`).
		WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectCommit()

	err := repo.UpdateStatus(context.Background(), &models.Appointment{ID: 4, Status: models.StatusInProgress}, models.StatusNew)
	assert.ErrorIs(t, err, ErrConflict)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestAppointmentRepository_SumServicePrice(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewAppointmentRepository(db, zap.NewNop())

	mock.ExpectQuery(`SELECT COALESCE\(SUM\(medical_services.price\), 0\) FROM "appointments" JOIN medical_services ON medical_services.id = appointments.service_id WHERE appointments.status = \$1`).
		WithArgs(models.StatusCompleted).
		WillReturnRows(sqlmock.NewRows([]string{"coalesce"}).AddRow(350.5))

	total, err := repo.SumServicePrice(context.Background(), models.StatusCompleted)
	require.NoError(t, err)
	assert.InDelta(t, 350.5, total, 0.001)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestAppointmentRepository_ListForDoctor(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewAppointmentRepository(db, zap.NewNop())

	start := time.Date(2025, 3, 12, 10, 0, 0, 0, time.UTC)
	mock.ExpectQuery(`SELECT \* FROM "appointments" WHERE`).
		WillReturnRows(sqlmock.NewRows([]string{"id", "patient_name", "doctor_id", "service_id", "appointment_time", "status"}).
			AddRow(1, "Ana", 2, 5, start, "NEW"))
	mock.ExpectQuery(`SELECT \* FROM "medical_services" WHERE`).
		WillReturnRows(sqlmock.NewRows([]string{"id", "name", "duration"}).AddRow(5, "Consultation", int64(45)))

	list, err := repo.ListForDoctor(context.Background(), 2, start.Add(-24*time.Hour), start.Add(24*time.Hour))
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, 45, list[0].Service.Duration.Minutes())
	assert.Equal(t, start.Add(45*time.Minute), list[0].End())
}

func TestUserRepository_Delete(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewUserRepository(db, zap.NewNop())

	mock.ExpectBegin()
	mock.ExpectExec(`DELETE FROM "users"`).WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	require.NoError(t, repo.Delete(context.Background(), 3))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestTransactorJoinsOuterTx(t *testing.T) {
	db, mock := newMockDB(t)
	tx := NewTransactor(db)

	mock.ExpectBegin()
	mock.ExpectCommit()

	calls := 0
	err := tx.InTx(context.Background(), func(ctx context.Context) error {
		return tx.InTx(ctx, func(ctx context.Context) error {
			calls++
			return nil
		})
	})
	require.NoError(t, err)
	assert.Equal(t, 1, calls)
	assert.NoError(t, mock.ExpectationsWereMet())
}

package services

import (
	"context"
	"testing"
	"time"

	"citidesk/internal/adapters/persistence/models"
	"citidesk/internal/adapters/persistence/repositories"
	"citidesk/internal/core/domain"

	"github.com/glebarez/sqlite"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

var staff = Actor{UserID: 1, Role: domain.RoleStaff}

// testEnv wires the full service stack against an in-memory database
type testEnv struct {
	db *gorm.DB

	residentRepo *repositories.ResidentRepository
	doctypeRepo  *repositories.DocumentTypeRepository
	requestRepo  *repositories.RequestRepository
	queueRepo    *repositories.QueueRepository
	seqRepo      *repositories.SequenceRepository

	residents *ResidentService
	requests  *RequestService
	queue     *QueueService
	intake    *IntakeService
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger:         logger.Default.LogMode(logger.Silent),
		TranslateError: true,
	})
	require.NoError(t, err)

	// One connection only: every pooled connection to :memory: would
	// otherwise get its own empty database.
	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)

	require.NoError(t, models.AutoMigrate(db))

	env := &testEnv{
		db:           db,
		residentRepo: repositories.NewResidentRepository(db),
		doctypeRepo:  repositories.NewDocumentTypeRepository(db),
		requestRepo:  repositories.NewRequestRepository(db),
		queueRepo:    repositories.NewQueueRepository(db),
		seqRepo:      repositories.NewSequenceRepository(db),
	}
	env.residents = NewResidentService(db, env.residentRepo, env.seqRepo)
	env.requests = NewRequestService(db, env.requestRepo, env.doctypeRepo, env.queueRepo, env.seqRepo)
	env.queue = NewQueueService(db, env.queueRepo, env.requestRepo, env.seqRepo)
	env.intake = NewIntakeService(db, env.residents, env.requests, env.queue, env.residentRepo, env.queueRepo, env.seqRepo)
	return env
}

// seedCatalog inserts two document types: a clearance that requires a
// purpose (50.00) and a residency certificate that does not (30.00).
func (e *testEnv) seedCatalog(t *testing.T) (clearance, residency *models.DocumentType) {
	t.Helper()

	clearance = &models.DocumentType{Code: "CLR", Name: "Certificate of Clearance", UnitPrice: 5000, RequiresPurpose: true, IsActive: true}
	residency = &models.DocumentType{Code: "RES", Name: "Certificate of Residency", UnitPrice: 3000, IsActive: true}
	require.NoError(t, e.db.Create(clearance).Error)
	require.NoError(t, e.db.Create(residency).Error)
	return clearance, residency
}

// seedResident registers an active resident through the service so the
// registry number allocation path is exercised too.
func (e *testEnv) seedResident(t *testing.T, firstName, lastName string, birthdate time.Time) *models.Resident {
	t.Helper()

	resident, _, err := e.residents.Register(context.Background(), staff, &RegisterResidentInput{
		FirstName: firstName,
		LastName:  lastName,
		Birthdate: birthdate,
		Zone:      "Zone 1",
	})
	require.NoError(t, err)
	return resident
}

func (e *testEnv) seedCounter(t *testing.T, number int, status string) *models.ServiceCounter {
	t.Helper()

	counter := &models.ServiceCounter{CounterNumber: number, Status: status, IsActive: true}
	require.NoError(t, e.db.Create(counter).Error)
	return counter
}

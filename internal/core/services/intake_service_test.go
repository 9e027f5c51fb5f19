package services

import (
	"context"
	"testing"

	"citidesk/internal/adapters/persistence/models"
	"citidesk/internal/core/domain"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestIntakeNewVisitor(t *testing.T) {
	env := newTestEnv(t)
	_, residency := env.seedCatalog(t)

	result, err := env.intake.Submit(context.Background(), &IntakeInput{
		NewVisitor: &RegisterResidentInput{
			FirstName: "Maria",
			LastName:  "Santos",
			Birthdate: birthdate,
			Zone:      "Zone 3",
		},
		Items: []NewItemInput{{DocumentTypeID: residency.ID}},
	})
	require.NoError(t, err)

	assert.Equal(t, "RES-00001", result.Resident.RegistryNo)
	assert.Equal(t, string(domain.ResidentProvisional), result.Resident.Status)
	assert.Equal(t, string(domain.RequestQueued), result.Request.Status)
	assert.Equal(t, "Q-001", result.Ticket.TicketNo)
	assert.Equal(t, string(domain.TicketWaiting), result.Ticket.Status)
	assert.Zero(t, result.QueueAhead)
}

func TestIntakeReturningVisitor(t *testing.T) {
	env := newTestEnv(t)
	clearance, _ := env.seedCatalog(t)
	resident := env.seedResident(t, "Maria", "Santos", birthdate)

	result, err := env.intake.Submit(context.Background(), &IntakeInput{
		RegistryNo: resident.RegistryNo,
		Items:      []NewItemInput{{DocumentTypeID: clearance.ID, Purpose: "employment"}},
	})
	require.NoError(t, err)

	assert.Equal(t, resident.ID, result.Resident.ID)
	// A returning visitor keeps their confirmed record
	assert.Equal(t, string(domain.ResidentActive), result.Resident.Status)
	assert.Equal(t, int64(5000), result.Request.TotalPrice)
}

func TestIntakeQueuePosition(t *testing.T) {
	env := newTestEnv(t)
	_, residency := env.seedCatalog(t)

	first, err := env.intake.Submit(context.Background(), &IntakeInput{
		NewVisitor: &RegisterResidentInput{FirstName: "Maria", LastName: "Santos", Birthdate: birthdate},
		Items:      []NewItemInput{{DocumentTypeID: residency.ID}},
	})
	require.NoError(t, err)
	assert.Zero(t, first.QueueAhead)

	second, err := env.intake.Submit(context.Background(), &IntakeInput{
		NewVisitor: &RegisterResidentInput{FirstName: "Juan", LastName: "Reyes", Birthdate: birthdate},
		Items:      []NewItemInput{{DocumentTypeID: residency.ID}},
	})
	require.NoError(t, err)
	assert.Equal(t, int64(1), second.QueueAhead)
}

func TestIntakeIdentityRequired(t *testing.T) {
	env := newTestEnv(t)
	_, residency := env.seedCatalog(t)
	items := []NewItemInput{{DocumentTypeID: residency.ID}}

	_, err := env.intake.Submit(context.Background(), &IntakeInput{Items: items})
	assert.ErrorIs(t, err, domain.ErrValidation)

	_, err = env.intake.Submit(context.Background(), &IntakeInput{
		RegistryNo: "RES-00001",
		NewVisitor: &RegisterResidentInput{FirstName: "Maria", LastName: "Santos", Birthdate: birthdate},
		Items:      items,
	})
	assert.ErrorIs(t, err, domain.ErrValidation)
}

func TestIntakeUnknownRegistryNo(t *testing.T) {
	env := newTestEnv(t)
	_, residency := env.seedCatalog(t)

	_, err := env.intake.Submit(context.Background(), &IntakeInput{
		RegistryNo: "RES-99999",
		Items:      []NewItemInput{{DocumentTypeID: residency.ID}},
	})
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestIntakeDeceasedResidentRefused(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	_, residency := env.seedCatalog(t)
	resident := env.seedResident(t, "Maria", "Santos", birthdate)

	_, err := env.residents.UpdateStatus(ctx, staff, resident.ID, domain.ResidentDeceased)
	require.NoError(t, err)

	_, err = env.intake.Submit(ctx, &IntakeInput{
		RegistryNo: resident.RegistryNo,
		Items:      []NewItemInput{{DocumentTypeID: residency.ID}},
	})
	assert.ErrorIs(t, err, domain.ErrValidation)
}

// A failure while pricing the items must roll back the provisional
// registration too, without burning the registry sequence.
func TestIntakeRollsBackOnBadItems(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	_, residency := env.seedCatalog(t)

	_, err := env.intake.Submit(ctx, &IntakeInput{
		NewVisitor: &RegisterResidentInput{FirstName: "Maria", LastName: "Santos", Birthdate: birthdate},
		Items:      []NewItemInput{{DocumentTypeID: 999}},
	})
	assert.ErrorIs(t, err, domain.ErrValidation)

	var residents int64
	require.NoError(t, env.db.Model(&models.Resident{}).Count(&residents).Error)
	assert.Zero(t, residents)

	result, err := env.intake.Submit(ctx, &IntakeInput{
		NewVisitor: &RegisterResidentInput{FirstName: "Maria", LastName: "Santos", Birthdate: birthdate},
		Items:      []NewItemInput{{DocumentTypeID: residency.ID}},
	})
	require.NoError(t, err)
	assert.Equal(t, "RES-00001", result.Resident.RegistryNo)
}

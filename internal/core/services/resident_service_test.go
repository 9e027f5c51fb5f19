package services

import (
	"context"
	"testing"
	"time"

	"citidesk/internal/core/domain"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var birthdate = time.Date(1985, 6, 15, 0, 0, 0, 0, time.UTC)

func TestRegisterAssignsRegistryNumber(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	first, _, err := env.residents.Register(ctx, staff, &RegisterResidentInput{
		FirstName: "Maria", LastName: "Santos", Birthdate: birthdate, Zone: "Zone 3",
	})
	require.NoError(t, err)
	assert.Equal(t, "RES-00001", first.RegistryNo)
	assert.Equal(t, string(domain.ResidentActive), first.Status)

	second, _, err := env.residents.Register(ctx, staff, &RegisterResidentInput{
		FirstName: "Juan", LastName: "Reyes", Birthdate: birthdate,
	})
	require.NoError(t, err)
	assert.Equal(t, "RES-00002", second.RegistryNo)
}

func TestRegisterRequiresStaff(t *testing.T) {
	env := newTestEnv(t)

	_, _, err := env.residents.Register(context.Background(), Actor{}, &RegisterResidentInput{
		FirstName: "Maria", LastName: "Santos", Birthdate: birthdate,
	})
	assert.ErrorIs(t, err, domain.ErrAuthorization)
}

func TestRegisterValidation(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	_, _, err := env.residents.Register(ctx, staff, &RegisterResidentInput{
		FirstName: "  ", LastName: "Santos", Birthdate: birthdate,
	})
	assert.ErrorIs(t, err, domain.ErrValidation)

	_, _, err = env.residents.Register(ctx, staff, &RegisterResidentInput{
		FirstName: "Maria", LastName: "Santos",
	})
	assert.ErrorIs(t, err, domain.ErrValidation)

	_, _, err = env.residents.Register(ctx, staff, &RegisterResidentInput{
		FirstName: "Maria", LastName: "Santos", Birthdate: time.Now().AddDate(1, 0, 0),
	})
	assert.ErrorIs(t, err, domain.ErrValidation)
}

func TestRegisterReportsDuplicates(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	env.seedResident(t, "Maria", "Santos", birthdate)

	_, duplicates, err := env.residents.Register(ctx, staff, &RegisterResidentInput{
		FirstName: "Maria", LastName: "Santos", Birthdate: birthdate,
	})
	require.NoError(t, err)
	require.Len(t, duplicates, 1)
	assert.Equal(t, ConfidenceHigh, duplicates[0].Confidence)
}

func TestFindDuplicatesTiers(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	exact := env.seedResident(t, "Maria", "Santos", birthdate)
	dayOff := env.seedResident(t, "Maria", "Santos", birthdate.AddDate(0, 0, 1))
	typo := env.seedResident(t, "Marla", "Santos", birthdate)
	unrelated := env.seedResident(t, "Pedro", "Cruz", birthdate)

	matches, err := env.residents.FindDuplicates(ctx, "Maria", "Santos", birthdate, 0)
	require.NoError(t, err)
	require.Len(t, matches, 3)

	byID := map[uint]DuplicateMatch{}
	for _, m := range matches {
		byID[m.Resident.ID] = m
	}
	assert.Equal(t, ConfidenceHigh, byID[exact.ID].Confidence)
	assert.Equal(t, ConfidenceMedium, byID[dayOff.ID].Confidence)
	assert.Equal(t, ConfidenceLow, byID[typo.ID].Confidence)
	assert.NotContains(t, byID, unrelated.ID)

	// Strongest confidence first
	assert.Equal(t, ConfidenceHigh, matches[0].Confidence)
	assert.Equal(t, ConfidenceLow, matches[2].Confidence)
}

func TestFindDuplicatesNormalizesCase(t *testing.T) {
	env := newTestEnv(t)

	seeded := env.seedResident(t, "maria", "SANTOS", birthdate)

	matches, err := env.residents.FindDuplicates(context.Background(), "  MARIA ", "santos", birthdate, 0)
	require.NoError(t, err)
	require.Len(t, matches, 1)
	assert.Equal(t, seeded.ID, matches[0].Resident.ID)
	assert.Equal(t, ConfidenceHigh, matches[0].Confidence)
}

func TestFindDuplicatesExcludesSelf(t *testing.T) {
	env := newTestEnv(t)

	self := env.seedResident(t, "Maria", "Santos", birthdate)

	matches, err := env.residents.FindDuplicates(context.Background(), "Maria", "Santos", birthdate, self.ID)
	require.NoError(t, err)
	assert.Empty(t, matches)
}

func TestFindDuplicatesFarBirthdateIgnored(t *testing.T) {
	env := newTestEnv(t)

	env.seedResident(t, "Maria", "Santos", birthdate.AddDate(0, 0, 3))

	matches, err := env.residents.FindDuplicates(context.Background(), "Maria", "Santos", birthdate, 0)
	require.NoError(t, err)
	assert.Empty(t, matches)
}

func TestConfirmProvisional(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	resident, err := env.residents.RegisterProvisional(ctx, &RegisterResidentInput{
		FirstName: "Maria", LastName: "Santos", Birthdate: birthdate,
	})
	require.NoError(t, err)
	assert.Equal(t, string(domain.ResidentProvisional), resident.Status)

	confirmed, err := env.residents.ConfirmProvisional(ctx, staff, resident.ID)
	require.NoError(t, err)
	assert.Equal(t, string(domain.ResidentActive), confirmed.Status)

	// A second confirm is rejected
	_, err = env.residents.ConfirmProvisional(ctx, staff, resident.ID)
	assert.ErrorIs(t, err, domain.ErrValidation)
}

func TestRejectProvisionalDeletesRecord(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	resident, err := env.residents.RegisterProvisional(ctx, &RegisterResidentInput{
		FirstName: "Maria", LastName: "Santos", Birthdate: birthdate,
	})
	require.NoError(t, err)

	require.NoError(t, env.residents.RejectProvisional(ctx, staff, resident.ID))

	_, err = env.residents.GetByID(ctx, resident.ID)
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestRejectActiveResidentRefused(t *testing.T) {
	env := newTestEnv(t)

	resident := env.seedResident(t, "Maria", "Santos", birthdate)

	err := env.residents.RejectProvisional(context.Background(), staff, resident.ID)
	assert.ErrorIs(t, err, domain.ErrValidation)
}

func TestUpdateStatus(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	resident := env.seedResident(t, "Maria", "Santos", birthdate)

	updated, err := env.residents.UpdateStatus(ctx, staff, resident.ID, domain.ResidentDeceased)
	require.NoError(t, err)
	assert.Equal(t, string(domain.ResidentDeceased), updated.Status)

	// PROVISIONAL cannot be set through the status patch
	_, err = env.residents.UpdateStatus(ctx, staff, resident.ID, domain.ResidentProvisional)
	assert.ErrorIs(t, err, domain.ErrValidation)

	_, err = env.residents.UpdateStatus(ctx, staff, resident.ID, domain.ResidentStatus("GONE"))
	assert.ErrorIs(t, err, domain.ErrValidation)
}

func TestGetByRegistryNo(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	seeded := env.seedResident(t, "Maria", "Santos", birthdate)

	found, err := env.residents.GetByRegistryNo(ctx, seeded.RegistryNo)
	require.NoError(t, err)
	assert.Equal(t, seeded.ID, found.ID)

	_, err = env.residents.GetByRegistryNo(ctx, "RES-99999")
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

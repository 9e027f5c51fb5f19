package services

import (
	"context"
	"errors"
	"fmt"
	"log"
	"sort"
	"strings"
	"time"

	"citidesk/internal/adapters/persistence/models"
	"citidesk/internal/adapters/persistence/repositories"
	"citidesk/internal/core/domain"

	"github.com/agnivade/levenshtein"
	"gorm.io/gorm"
)

// Duplicate detection tuning
const (
	// DuplicateScanLimit caps the candidate set fetched per lookup
	DuplicateScanLimit = 100
	// fuzzyNameDistance is the maximum combined edit distance for the
	// low-confidence tier
	fuzzyNameDistance = 2
)

// Duplicate confidence levels, strongest first
const (
	ConfidenceHigh   = "high"
	ConfidenceMedium = "medium"
	ConfidenceLow    = "low"
)

var confidenceRank = map[string]int{
	ConfidenceHigh:   3,
	ConfidenceMedium: 2,
	ConfidenceLow:    1,
}

// DuplicateMatch is one probable-duplicate hit. It informs staff review and
// never blocks a registration.
type DuplicateMatch struct {
	Resident   *models.Resident `json:"resident"`
	Confidence string           `json:"confidence"`
	Reason     string           `json:"reason"`
}

// ResidentService handles registry business logic
type ResidentService struct {
	db           *gorm.DB
	residentRepo *repositories.ResidentRepository
	seqRepo      *repositories.SequenceRepository
}

// NewResidentService creates a new resident service
func NewResidentService(db *gorm.DB, residentRepo *repositories.ResidentRepository, seqRepo *repositories.SequenceRepository) *ResidentService {
	return &ResidentService{
		db:           db,
		residentRepo: residentRepo,
		seqRepo:      seqRepo,
	}
}

// RegisterResidentInput represents a registration request
type RegisterResidentInput struct {
	FirstName string    `json:"first_name"`
	LastName  string    `json:"last_name"`
	Birthdate time.Time `json:"birthdate"`
	Zone      string    `json:"zone"`
}

func (in *RegisterResidentInput) validate() error {
	if strings.TrimSpace(in.FirstName) == "" || strings.TrimSpace(in.LastName) == "" {
		return fmt.Errorf("%w: first and last name are required", domain.ErrValidation)
	}
	if in.Birthdate.IsZero() {
		return fmt.Errorf("%w: birthdate is required", domain.ErrValidation)
	}
	if in.Birthdate.After(time.Now()) {
		return fmt.Errorf("%w: birthdate is in the future", domain.ErrValidation)
	}
	return nil
}

// Register creates a staff-verified resident record and returns probable
// duplicates alongside it as a warning.
func (s *ResidentService) Register(ctx context.Context, actor Actor, input *RegisterResidentInput) (*models.Resident, []DuplicateMatch, error) {
	if err := requireStaff(actor); err != nil {
		return nil, nil, err
	}

	resident, err := s.create(ctx, input, domain.ResidentActive)
	if err != nil {
		return nil, nil, err
	}

	duplicates, err := s.FindDuplicates(ctx, input.FirstName, input.LastName, input.Birthdate, resident.ID)
	if err != nil {
		// The record is already in; a failed duplicate scan only costs the warning.
		log.Printf("duplicate scan failed for resident %s: %v", resident.RegistryNo, err)
		duplicates = nil
	}

	log.Printf("Resident registered: %s (%s %s)", resident.RegistryNo, resident.FirstName, resident.LastName)
	return resident, duplicates, nil
}

// RegisterProvisional creates an unverified record from the kiosk path. The
// duplicate scan is deferred to staff review to keep intake fast.
func (s *ResidentService) RegisterProvisional(ctx context.Context, input *RegisterResidentInput) (*models.Resident, error) {
	return s.create(ctx, input, domain.ResidentProvisional)
}

func (s *ResidentService) create(ctx context.Context, input *RegisterResidentInput, status domain.ResidentStatus) (*models.Resident, error) {
	if err := input.validate(); err != nil {
		return nil, err
	}

	var resident *models.Resident
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		registryNo, err := s.seqRepo.WithTx(tx).NextNumber(ctx, domain.SeriesRegistry, time.Now())
		if err != nil {
			return err
		}

		resident = &models.Resident{
			RegistryNo: registryNo,
			FirstName:  strings.TrimSpace(input.FirstName),
			LastName:   strings.TrimSpace(input.LastName),
			Birthdate:  input.Birthdate,
			Zone:       strings.TrimSpace(input.Zone),
			Status:     string(status),
		}
		return s.residentRepo.WithTx(tx).Create(ctx, resident)
	})
	if err != nil {
		return nil, err
	}
	return resident, nil
}

// FindDuplicates scores existing records against a name and birthdate.
// Candidates come from a bounded last-name range scan; classification:
// exact normalized name + same calendar day -> high, exact name + one day
// off -> medium, near name (edit distance <= 2) + at most one day off -> low.
// The excludeID record is never returned.
func (s *ResidentService) FindDuplicates(ctx context.Context, firstName, lastName string, birthdate time.Time, excludeID uint) ([]DuplicateMatch, error) {
	normFirst := normalizeName(firstName)
	normLast := normalizeName(lastName)
	if normFirst == "" || normLast == "" {
		return nil, fmt.Errorf("%w: first and last name are required", domain.ErrValidation)
	}

	candidates, err := s.residentRepo.SearchByLastNamePrefix(ctx, normLast, DuplicateScanLimit)
	if err != nil {
		return nil, err
	}

	var matches []DuplicateMatch
	for i := range candidates {
		candidate := &candidates[i]
		if candidate.ID == excludeID {
			continue
		}

		candFirst := normalizeName(candidate.FirstName)
		candLast := normalizeName(candidate.LastName)
		dayDiff := calendarDayDiff(birthdate, candidate.Birthdate)

		switch {
		case candFirst == normFirst && candLast == normLast && dayDiff == 0:
			matches = append(matches, DuplicateMatch{
				Resident:   candidate,
				Confidence: ConfidenceHigh,
				Reason:     "same name and birthdate",
			})
		case candFirst == normFirst && candLast == normLast && dayDiff <= 1:
			matches = append(matches, DuplicateMatch{
				Resident:   candidate,
				Confidence: ConfidenceMedium,
				Reason:     "same name, birthdate one day off",
			})
		case dayDiff <= 1 && nameDistance(normFirst, normLast, candFirst, candLast) <= fuzzyNameDistance:
			matches = append(matches, DuplicateMatch{
				Resident:   candidate,
				Confidence: ConfidenceLow,
				Reason:     "similar name, birthdate within one day",
			})
		}
	}

	sort.SliceStable(matches, func(i, j int) bool {
		return confidenceRank[matches[i].Confidence] > confidenceRank[matches[j].Confidence]
	})
	return matches, nil
}

// ConfirmProvisional promotes a kiosk-registered record to active after
// staff verification.
func (s *ResidentService) ConfirmProvisional(ctx context.Context, actor Actor, id uint) (*models.Resident, error) {
	if err := requireStaff(actor); err != nil {
		return nil, err
	}

	resident, err := s.getResident(ctx, id)
	if err != nil {
		return nil, err
	}
	if !resident.IsProvisional() {
		return nil, fmt.Errorf("%w: resident %s is not provisional", domain.ErrValidation, resident.RegistryNo)
	}

	if err := s.residentRepo.UpdateStatus(ctx, id, string(domain.ResidentActive)); err != nil {
		return nil, err
	}

	resident.Status = string(domain.ResidentActive)
	log.Printf("Resident %s confirmed by staff %d", resident.RegistryNo, actor.UserID)
	return resident, nil
}

// RejectProvisional permanently removes a kiosk-registered record. The only
// hard delete in the registry.
func (s *ResidentService) RejectProvisional(ctx context.Context, actor Actor, id uint) error {
	if err := requireStaff(actor); err != nil {
		return err
	}

	resident, err := s.getResident(ctx, id)
	if err != nil {
		return err
	}
	if !resident.IsProvisional() {
		return fmt.Errorf("%w: resident %s is not provisional", domain.ErrValidation, resident.RegistryNo)
	}

	if err := s.residentRepo.HardDelete(ctx, id); err != nil {
		return err
	}

	log.Printf("Provisional resident %s rejected by staff %d", resident.RegistryNo, actor.UserID)
	return nil
}

// UpdateStatus patches a resident's registry status (deceased, relocated,
// back to active).
func (s *ResidentService) UpdateStatus(ctx context.Context, actor Actor, id uint, status domain.ResidentStatus) (*models.Resident, error) {
	if err := requireStaff(actor); err != nil {
		return nil, err
	}
	if !status.IsValid() || status == domain.ResidentProvisional {
		return nil, fmt.Errorf("%w: invalid resident status %q", domain.ErrValidation, status)
	}

	resident, err := s.getResident(ctx, id)
	if err != nil {
		return nil, err
	}

	if err := s.residentRepo.UpdateStatus(ctx, id, string(status)); err != nil {
		return nil, err
	}

	resident.Status = string(status)
	return resident, nil
}

// GetByID returns a resident record
func (s *ResidentService) GetByID(ctx context.Context, id uint) (*models.Resident, error) {
	return s.getResident(ctx, id)
}

// GetByRegistryNo returns a resident by registry number
func (s *ResidentService) GetByRegistryNo(ctx context.Context, registryNo string) (*models.Resident, error) {
	resident, err := s.residentRepo.GetByRegistryNo(ctx, registryNo)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("%w: resident %s", domain.ErrNotFound, registryNo)
		}
		return nil, err
	}
	return resident, nil
}

// List lists residents with optional search
func (s *ResidentService) List(ctx context.Context, search string, offset, limit int) ([]models.Resident, int64, error) {
	return s.residentRepo.List(ctx, search, offset, limit)
}

// ListProvisional lists kiosk registrations awaiting staff review
func (s *ResidentService) ListProvisional(ctx context.Context, offset, limit int) ([]models.Resident, int64, error) {
	return s.residentRepo.ListByStatus(ctx, string(domain.ResidentProvisional), offset, limit)
}

func (s *ResidentService) getResident(ctx context.Context, id uint) (*models.Resident, error) {
	resident, err := s.residentRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("%w: resident %d", domain.ErrNotFound, id)
		}
		return nil, err
	}
	return resident, nil
}

func normalizeName(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}

// calendarDayDiff returns the absolute difference in calendar days,
// ignoring time-of-day.
func calendarDayDiff(a, b time.Time) int {
	da := time.Date(a.Year(), a.Month(), a.Day(), 0, 0, 0, 0, time.UTC)
	db := time.Date(b.Year(), b.Month(), b.Day(), 0, 0, 0, 0, time.UTC)
	diff := int(da.Sub(db).Hours() / 24)
	if diff < 0 {
		diff = -diff
	}
	return diff
}

func nameDistance(firstA, lastA, firstB, lastB string) int {
	return levenshtein.ComputeDistance(firstA+" "+lastA, firstB+" "+lastB)
}

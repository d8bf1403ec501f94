package services

import (
	"context"
	"time"

	"github.com/stretchr/testify/mock"
	"github.com/takedah/ash-unofficial-covid19-sub000/internal/models"
	"github.com/takedah/ash-unofficial-covid19-sub000/internal/repository"
)

func timeResult(args mock.Arguments) *time.Time {
	if t, ok := args.Get(0).(*time.Time); ok {
		return t
	}
	return nil
}

// MockCaseRepository is a mock implementation of CaseRepository for testing
type MockCaseRepository struct {
	mock.Mock
}

func (m *MockCaseRepository) UpsertCityCases(ctx context.Context, cases []models.CaseRecord, updatedAt time.Time) error {
	return m.Called(ctx, cases, updatedAt).Error(0)
}

func (m *MockCaseRepository) UpsertPrefectureCases(ctx context.Context, cases []models.CaseRecord, updatedAt time.Time) error {
	return m.Called(ctx, cases, updatedAt).Error(0)
}

func (m *MockCaseRepository) DeleteCityCase(ctx context.Context, caseNumber int) error {
	return m.Called(ctx, caseNumber).Error(0)
}

func (m *MockCaseRepository) FindCityCase(ctx context.Context, caseNumber int) (*models.CaseRecord, error) {
	args := m.Called(ctx, caseNumber)
	c, _ := args.Get(0).(*models.CaseRecord)
	return c, args.Error(1)
}

func (m *MockCaseRepository) ListCityCases(ctx context.Context, limit, offset int) ([]models.CaseRecord, error) {
	args := m.Called(ctx, limit, offset)
	cases, _ := args.Get(0).([]models.CaseRecord)
	return cases, args.Error(1)
}

func (m *MockCaseRepository) CountCityCases(ctx context.Context) (int, error) {
	args := m.Called(ctx)
	return args.Int(0), args.Error(1)
}

func (m *MockCaseRepository) PublicationDates(ctx context.Context, from, to time.Time) ([]time.Time, error) {
	args := m.Called(ctx, from, to)
	dates, _ := args.Get(0).([]time.Time)
	return dates, args.Error(1)
}

func (m *MockCaseRepository) FindPublishedBetween(ctx context.Context, from, to time.Time) ([]models.CaseRecord, error) {
	args := m.Called(ctx, from, to)
	cases, _ := args.Get(0).([]models.CaseRecord)
	return cases, args.Error(1)
}

func (m *MockCaseRepository) CountByAgeBracket(ctx context.Context) (map[string]int, error) {
	args := m.Called(ctx)
	counts, _ := args.Get(0).(map[string]int)
	return counts, args.Error(1)
}

func (m *MockCaseRepository) LastUpdated(ctx context.Context) (*time.Time, error) {
	args := m.Called(ctx)
	return timeResult(args), args.Error(1)
}

// MockDailyCountRepository is a mock implementation of DailyCountRepository for testing
type MockDailyCountRepository struct {
	mock.Mock
}

func (m *MockDailyCountRepository) Upsert(ctx context.Context, counts []models.DailyAgeBucketCount, updatedAt time.Time) error {
	return m.Called(ctx, counts, updatedAt).Error(0)
}

func (m *MockDailyCountRepository) Delete(ctx context.Context, publicationDate time.Time) error {
	return m.Called(ctx, publicationDate).Error(0)
}

func (m *MockDailyCountRepository) Find(ctx context.Context, publicationDate time.Time) (*models.DailyAgeBucketCount, error) {
	args := m.Called(ctx, publicationDate)
	c, _ := args.Get(0).(*models.DailyAgeBucketCount)
	return c, args.Error(1)
}

func (m *MockDailyCountRepository) Range(ctx context.Context, from, to time.Time) ([]models.DailyAgeBucketCount, error) {
	args := m.Called(ctx, from, to)
	counts, _ := args.Get(0).([]models.DailyAgeBucketCount)
	return counts, args.Error(1)
}

func (m *MockDailyCountRepository) LastUpdated(ctx context.Context) (*time.Time, error) {
	args := m.Called(ctx)
	return timeResult(args), args.Error(1)
}

func (m *MockDailyCountRepository) UpsertSapporo(ctx context.Context, counts []models.SapporoDailyCount, updatedAt time.Time) error {
	return m.Called(ctx, counts, updatedAt).Error(0)
}

func (m *MockDailyCountRepository) SapporoRange(ctx context.Context, from, to time.Time) ([]models.SapporoDailyCount, error) {
	args := m.Called(ctx, from, to)
	counts, _ := args.Get(0).([]models.SapporoDailyCount)
	return counts, args.Error(1)
}

// MockMedicalInstitutionRepository is a mock implementation of MedicalInstitutionRepository for testing
type MockMedicalInstitutionRepository struct {
	mock.Mock
}

func (m *MockMedicalInstitutionRepository) Reconcile(ctx context.Context, sites []models.MedicalInstitution, updatedAt time.Time) (repository.ReconcileResult, error) {
	args := m.Called(ctx, sites, updatedAt)
	return args.Get(0).(repository.ReconcileResult), args.Error(1)
}

func (m *MockMedicalInstitutionRepository) FindAll(ctx context.Context) ([]models.MedicalInstitution, error) {
	args := m.Called(ctx)
	sites, _ := args.Get(0).([]models.MedicalInstitution)
	return sites, args.Error(1)
}

func (m *MockMedicalInstitutionRepository) FindByArea(ctx context.Context, area string) ([]models.MedicalInstitution, error) {
	args := m.Called(ctx, area)
	sites, _ := args.Get(0).([]models.MedicalInstitution)
	return sites, args.Error(1)
}

func (m *MockMedicalInstitutionRepository) FindByTargetAge(ctx context.Context, targetAgeGroup string) ([]models.MedicalInstitution, error) {
	args := m.Called(ctx, targetAgeGroup)
	sites, _ := args.Get(0).([]models.MedicalInstitution)
	return sites, args.Error(1)
}

func (m *MockMedicalInstitutionRepository) Find(ctx context.Context, name, targetAgeGroup string) (*models.MedicalInstitution, error) {
	args := m.Called(ctx, name, targetAgeGroup)
	site, _ := args.Get(0).(*models.MedicalInstitution)
	return site, args.Error(1)
}

func (m *MockMedicalInstitutionRepository) LastUpdated(ctx context.Context) (*time.Time, error) {
	args := m.Called(ctx)
	return timeResult(args), args.Error(1)
}

// MockReservationRepository is a mock implementation of ReservationRepository for testing
type MockReservationRepository struct {
	mock.Mock
}

func (m *MockReservationRepository) Reconcile(ctx context.Context, campaign string, statuses []models.ReservationStatus, updatedAt time.Time) (repository.ReconcileResult, error) {
	args := m.Called(ctx, campaign, statuses, updatedAt)
	return args.Get(0).(repository.ReconcileResult), args.Error(1)
}

func (m *MockReservationRepository) FindByCampaign(ctx context.Context, campaign, area string) ([]models.ReservationStatus, error) {
	args := m.Called(ctx, campaign, area)
	statuses, _ := args.Get(0).([]models.ReservationStatus)
	return statuses, args.Error(1)
}

func (m *MockReservationRepository) LastUpdated(ctx context.Context) (*time.Time, error) {
	args := m.Called(ctx)
	return timeResult(args), args.Error(1)
}

// MockOutpatientRepository is a mock implementation of OutpatientRepository for testing
type MockOutpatientRepository struct {
	mock.Mock
}

func (m *MockOutpatientRepository) Reconcile(ctx context.Context, outpatients []models.Outpatient, updatedAt time.Time) (repository.ReconcileResult, error) {
	args := m.Called(ctx, outpatients, updatedAt)
	return args.Get(0).(repository.ReconcileResult), args.Error(1)
}

func (m *MockOutpatientRepository) FindAll(ctx context.Context, filter repository.OutpatientFilter) ([]models.Outpatient, error) {
	args := m.Called(ctx, filter)
	outpatients, _ := args.Get(0).([]models.Outpatient)
	return outpatients, args.Error(1)
}

func (m *MockOutpatientRepository) Find(ctx context.Context, name string) (*models.Outpatient, error) {
	args := m.Called(ctx, name)
	o, _ := args.Get(0).(*models.Outpatient)
	return o, args.Error(1)
}

func (m *MockOutpatientRepository) LastUpdated(ctx context.Context) (*time.Time, error) {
	args := m.Called(ctx)
	return timeResult(args), args.Error(1)
}

// MockLocationRepository is a mock implementation of LocationRepository for testing
type MockLocationRepository struct {
	mock.Mock
}

func (m *MockLocationRepository) Upsert(ctx context.Context, locations []models.Location, updatedAt time.Time) error {
	return m.Called(ctx, locations, updatedAt).Error(0)
}

func (m *MockLocationRepository) Find(ctx context.Context, name string) (*models.Location, error) {
	args := m.Called(ctx, name)
	l, _ := args.Get(0).(*models.Location)
	return l, args.Error(1)
}

func (m *MockLocationRepository) FindAll(ctx context.Context) ([]models.Location, error) {
	args := m.Called(ctx)
	locations, _ := args.Get(0).([]models.Location)
	return locations, args.Error(1)
}

func (m *MockLocationRepository) Pending(ctx context.Context) ([]models.Location, error) {
	args := m.Called(ctx)
	locations, _ := args.Get(0).([]models.Location)
	return locations, args.Error(1)
}

func (m *MockLocationRepository) Names(ctx context.Context) (map[string]bool, error) {
	args := m.Called(ctx)
	names, _ := args.Get(0).(map[string]bool)
	return names, args.Error(1)
}

var mockAnyTime = mock.AnythingOfType("time.Time")

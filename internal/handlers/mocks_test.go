package handlers

import (
	"context"
	"io"
	"time"

	"github.com/stretchr/testify/mock"
	"github.com/takedah/ash-unofficial-covid19-sub000/internal/geo"
	"github.com/takedah/ash-unofficial-covid19-sub000/internal/models"
	"github.com/takedah/ash-unofficial-covid19-sub000/internal/repository"
	"github.com/takedah/ash-unofficial-covid19-sub000/internal/services"
)

// result returns the first mock return value as T, or its zero value.
func result[T any](args mock.Arguments) T {
	v, _ := args.Get(0).(T)
	return v
}

type MockCaseService struct {
	mock.Mock
}

func (m *MockCaseService) GetCase(ctx context.Context, caseNumber int) (*models.CaseRecord, error) {
	args := m.Called(ctx, caseNumber)
	return result[*models.CaseRecord](args), args.Error(1)
}

func (m *MockCaseService) ListCases(ctx context.Context, page int) (*services.CasePage, error) {
	args := m.Called(ctx, page)
	return result[*services.CasePage](args), args.Error(1)
}

func (m *MockCaseService) DeleteCase(ctx context.Context, caseNumber int) error {
	return m.Called(ctx, caseNumber).Error(0)
}

func (m *MockCaseService) Aggregate(ctx context.Context, unit services.Unit, from, to time.Time) ([]services.Bucket, error) {
	args := m.Called(ctx, unit, from, to)
	return result[[]services.Bucket](args), args.Error(1)
}

func (m *MockCaseService) CumulativeByMonth(ctx context.Context, from, to time.Time) ([]services.Bucket, error) {
	args := m.Called(ctx, from, to)
	return result[[]services.Bucket](args), args.Error(1)
}

func (m *MockCaseService) MovingAverage(ctx context.Context, from, to time.Time) ([]services.Rate, error) {
	args := m.Called(ctx, from, to)
	return result[[]services.Rate](args), args.Error(1)
}

func (m *MockCaseService) PerHundredThousand(ctx context.Context, from, to time.Time) ([]services.Rate, error) {
	args := m.Called(ctx, from, to)
	return result[[]services.Rate](args), args.Error(1)
}

func (m *MockCaseService) ReproductionNumber(ctx context.Context, date time.Time) (float64, error) {
	args := m.Called(ctx, date)
	return result[float64](args), args.Error(1)
}

func (m *MockCaseService) CountByAge(ctx context.Context) ([]services.AgeCount, error) {
	args := m.Called(ctx)
	return result[[]services.AgeCount](args), args.Error(1)
}

func (m *MockCaseService) LastUpdated(ctx context.Context) (*time.Time, error) {
	args := m.Called(ctx)
	return result[*time.Time](args), args.Error(1)
}

type MockStatsService struct {
	mock.Mock
}

func (m *MockStatsService) DailyCounts(ctx context.Context, from, to time.Time) ([]models.DailyAgeBucketCount, error) {
	args := m.Called(ctx, from, to)
	return result[[]models.DailyAgeBucketCount](args), args.Error(1)
}

func (m *MockStatsService) Aggregate(ctx context.Context, unit services.Unit, from, to time.Time) ([]services.Bucket, error) {
	args := m.Called(ctx, unit, from, to)
	return result[[]services.Bucket](args), args.Error(1)
}

func (m *MockStatsService) CumulativeByMonth(ctx context.Context, from, to time.Time) ([]services.Bucket, error) {
	args := m.Called(ctx, from, to)
	return result[[]services.Bucket](args), args.Error(1)
}

func (m *MockStatsService) MovingAverage(ctx context.Context, from, to time.Time) ([]services.Rate, error) {
	args := m.Called(ctx, from, to)
	return result[[]services.Rate](args), args.Error(1)
}

func (m *MockStatsService) PerHundredThousand(ctx context.Context, from, to time.Time) ([]services.Rate, error) {
	args := m.Called(ctx, from, to)
	return result[[]services.Rate](args), args.Error(1)
}

func (m *MockStatsService) SapporoPerHundredThousand(ctx context.Context, from, to time.Time) ([]services.Rate, error) {
	args := m.Called(ctx, from, to)
	return result[[]services.Rate](args), args.Error(1)
}

func (m *MockStatsService) ReproductionNumber(ctx context.Context, date time.Time) (float64, error) {
	args := m.Called(ctx, date)
	return result[float64](args), args.Error(1)
}

func (m *MockStatsService) CountByAge(ctx context.Context, from, to time.Time) ([]services.AgeCount, error) {
	args := m.Called(ctx, from, to)
	return result[[]services.AgeCount](args), args.Error(1)
}

func (m *MockStatsService) DeriveFromCases(ctx context.Context, from, to time.Time) ([]models.DailyAgeBucketCount, error) {
	args := m.Called(ctx, from, to)
	return result[[]models.DailyAgeBucketCount](args), args.Error(1)
}

func (m *MockStatsService) LastUpdated(ctx context.Context) (*time.Time, error) {
	args := m.Called(ctx)
	return result[*time.Time](args), args.Error(1)
}

type MockSiteService struct {
	mock.Mock
}

func (m *MockSiteService) List(ctx context.Context, filter services.SiteFilter) ([]services.Located[models.MedicalInstitution], error) {
	args := m.Called(ctx, filter)
	return result[[]services.Located[models.MedicalInstitution]](args), args.Error(1)
}

func (m *MockSiteService) Near(ctx context.Context, origin models.Point, k int, filter services.SiteFilter) ([]geo.Ranked[services.Located[models.MedicalInstitution]], error) {
	args := m.Called(ctx, origin, k, filter)
	return result[[]geo.Ranked[services.Located[models.MedicalInstitution]]](args), args.Error(1)
}

func (m *MockSiteService) LastUpdated(ctx context.Context) (*time.Time, error) {
	args := m.Called(ctx)
	return result[*time.Time](args), args.Error(1)
}

type MockReservationService struct {
	mock.Mock
}

func (m *MockReservationService) List(ctx context.Context, campaign, area string) ([]services.Located[models.ReservationStatus], error) {
	args := m.Called(ctx, campaign, area)
	return result[[]services.Located[models.ReservationStatus]](args), args.Error(1)
}

func (m *MockReservationService) Near(ctx context.Context, campaign string, origin models.Point, k int) ([]geo.Ranked[services.Located[models.ReservationStatus]], error) {
	args := m.Called(ctx, campaign, origin, k)
	return result[[]geo.Ranked[services.Located[models.ReservationStatus]]](args), args.Error(1)
}

func (m *MockReservationService) LastUpdated(ctx context.Context) (*time.Time, error) {
	args := m.Called(ctx)
	return result[*time.Time](args), args.Error(1)
}

type MockOutpatientService struct {
	mock.Mock
}

func (m *MockOutpatientService) List(ctx context.Context, filter repository.OutpatientFilter) ([]services.Located[models.Outpatient], error) {
	args := m.Called(ctx, filter)
	return result[[]services.Located[models.Outpatient]](args), args.Error(1)
}

func (m *MockOutpatientService) Get(ctx context.Context, name string) (*models.Outpatient, error) {
	args := m.Called(ctx, name)
	return result[*models.Outpatient](args), args.Error(1)
}

func (m *MockOutpatientService) Near(ctx context.Context, origin models.Point, k int, filter repository.OutpatientFilter) ([]geo.Ranked[services.Located[models.Outpatient]], error) {
	args := m.Called(ctx, origin, k, filter)
	return result[[]geo.Ranked[services.Located[models.Outpatient]]](args), args.Error(1)
}

func (m *MockOutpatientService) LastUpdated(ctx context.Context) (*time.Time, error) {
	args := m.Called(ctx)
	return result[*time.Time](args), args.Error(1)
}

type MockExportService struct {
	mock.Mock
}

// Export writes the configured body to w before returning the mocked error.
func (m *MockExportService) Export(ctx context.Context, dataset string, w io.Writer) error {
	args := m.Called(ctx, dataset, w)
	if body, ok := args.Get(0).(string); ok {
		_, _ = io.WriteString(w, body)
	}
	return args.Error(1)
}

type MockPressReleaseService struct {
	mock.Mock
}

func (m *MockPressReleaseService) Latest(ctx context.Context) (*models.PressReleaseLink, error) {
	args := m.Called(ctx)
	return result[*models.PressReleaseLink](args), args.Error(1)
}

func (m *MockPressReleaseService) List(ctx context.Context) ([]models.PressReleaseLink, error) {
	args := m.Called(ctx)
	return result[[]models.PressReleaseLink](args), args.Error(1)
}

package services

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/jonboulle/clockwork"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	apierrors "github.com/takedah/ash-unofficial-covid19-sub000/internal/errors"
	"github.com/takedah/ash-unofficial-covid19-sub000/internal/logger"
	"github.com/takedah/ash-unofficial-covid19-sub000/internal/models"
)

func newCaseService(repo *MockCaseRepository, now time.Time) CaseService {
	return NewCaseService(repo, clockwork.NewFakeClockAt(now), 329033, logger.Nop())
}

func TestGetCase_Success(t *testing.T) {
	// Arrange
	mockRepo := new(MockCaseRepository)
	service := newCaseService(mockRepo, time.Now())
	ctx := context.Background()

	published := date(2021, 2, 27)
	expected := &models.CaseRecord{CaseNumber: 1121, PublicationDate: &published, AgeBracket: "10代"}
	mockRepo.On("FindCityCase", ctx, 1121).Return(expected, nil)

	// Act
	c, err := service.GetCase(ctx, 1121)

	// Assert
	require.NoError(t, err)
	assert.Equal(t, expected, c)
	mockRepo.AssertExpectations(t)
}

func TestGetCase_NotFound(t *testing.T) {
	// Arrange
	mockRepo := new(MockCaseRepository)
	service := newCaseService(mockRepo, time.Now())
	ctx := context.Background()

	// Repository returns nil, nil when no case found
	mockRepo.On("FindCityCase", ctx, 99999).Return(nil, nil)

	// Act
	c, err := service.GetCase(ctx, 99999)

	// Assert
	assert.Nil(t, c)
	assert.True(t, apierrors.IsNotFound(err))
	assert.Equal(t, "case 99999 not found", err.Error())
}

func TestGetCase_PersistenceError(t *testing.T) {
	mockRepo := new(MockCaseRepository)
	service := newCaseService(mockRepo, time.Now())
	ctx := context.Background()

	dbErr := &apierrors.PersistenceError{Op: "find", Entity: "city_cases", Err: errors.New("connection refused")}
	mockRepo.On("FindCityCase", ctx, 1).Return(nil, dbErr)

	c, err := service.GetCase(ctx, 1)

	assert.Nil(t, c)
	assert.True(t, apierrors.IsPersistence(err))
	assert.Contains(t, err.Error(), "failed to query case")
}

func TestListCases(t *testing.T) {
	ctx := context.Background()

	t.Run("second page", func(t *testing.T) {
		mockRepo := new(MockCaseRepository)
		service := newCaseService(mockRepo, time.Now())

		mockRepo.On("CountCityCases", ctx).Return(250, nil)
		mockRepo.On("ListCityCases", ctx, CasesPerPage, 100).
			Return([]models.CaseRecord{{CaseNumber: 150}, {CaseNumber: 149}}, nil)

		page, err := service.ListCases(ctx, 2)

		require.NoError(t, err)
		assert.Equal(t, 2, page.Page)
		assert.Equal(t, 3, page.MaxPage)
		assert.Equal(t, 250, page.Total)
		assert.Len(t, page.Cases, 2)
		mockRepo.AssertExpectations(t)
	})

	t.Run("empty store has one page", func(t *testing.T) {
		mockRepo := new(MockCaseRepository)
		service := newCaseService(mockRepo, time.Now())

		mockRepo.On("CountCityCases", ctx).Return(0, nil)
		mockRepo.On("ListCityCases", ctx, CasesPerPage, 0).Return([]models.CaseRecord{}, nil)

		page, err := service.ListCases(ctx, 1)

		require.NoError(t, err)
		assert.Equal(t, 1, page.MaxPage)
		assert.Empty(t, page.Cases)
	})

	t.Run("invalid page", func(t *testing.T) {
		mockRepo := new(MockCaseRepository)
		service := newCaseService(mockRepo, time.Now())

		_, err := service.ListCases(ctx, 0)

		assert.ErrorIs(t, err, ErrInvalidPage)
		mockRepo.AssertNotCalled(t, "CountCityCases")
	})
}

func TestDeleteCase(t *testing.T) {
	ctx := context.Background()
	mockRepo := new(MockCaseRepository)
	service := newCaseService(mockRepo, time.Now())

	mockRepo.On("FindCityCase", ctx, 489).Return(&models.CaseRecord{CaseNumber: 489}, nil)
	mockRepo.On("DeleteCityCase", ctx, 489).Return(nil)
	mockRepo.On("FindCityCase", ctx, 490).Return(nil, nil)

	require.NoError(t, service.DeleteCase(ctx, 489))
	assert.True(t, apierrors.IsNotFound(service.DeleteCase(ctx, 490)))
	mockRepo.AssertNumberOfCalls(t, "DeleteCityCase", 1)
}

func TestAggregate_OneBucketPerPeriod(t *testing.T) {
	// Arrange
	mockRepo := new(MockCaseRepository)
	service := newCaseService(mockRepo, time.Now())
	ctx := context.Background()
	from, to := date(2021, 3, 1), date(2021, 3, 22)

	mockRepo.On("PublicationDates", ctx, from, to).Return([]time.Time{
		date(2021, 3, 1), date(2021, 3, 2), date(2021, 3, 2), date(2021, 3, 21),
	}, nil)

	// Act
	weeks, err := service.Aggregate(ctx, UnitWeek, from, to)

	// Assert
	require.NoError(t, err)
	assert.Equal(t, []Bucket{
		{Start: date(2021, 3, 1), Count: 3},
		{Start: date(2021, 3, 8), Count: 0},
		{Start: date(2021, 3, 15), Count: 1},
	}, weeks)
}

func TestAggregate_InvalidUnit(t *testing.T) {
	mockRepo := new(MockCaseRepository)
	service := newCaseService(mockRepo, time.Now())

	_, err := service.Aggregate(context.Background(), "quarter", date(2021, 1, 1), date(2021, 4, 1))

	assert.ErrorIs(t, err, ErrInvalidUnit)
	mockRepo.AssertNotCalled(t, "PublicationDates")
}

func TestDerivedSeries(t *testing.T) {
	ctx := context.Background()
	mockRepo := new(MockCaseRepository)
	service := newCaseService(mockRepo, time.Now())

	mockRepo.On("PublicationDates", ctx, date(2021, 1, 1), date(2021, 3, 1)).Return([]time.Time{
		date(2021, 1, 5), date(2021, 2, 3), date(2021, 2, 20),
	}, nil)
	mockRepo.On("PublicationDates", ctx, date(2021, 3, 1), date(2021, 3, 15)).Return([]time.Time{
		date(2021, 3, 1), date(2021, 3, 9), date(2021, 3, 9),
	}, nil)

	months, err := service.CumulativeByMonth(ctx, date(2021, 1, 1), date(2021, 3, 1))
	require.NoError(t, err)
	assert.Equal(t, []Bucket{{Start: date(2021, 1, 1), Count: 1}, {Start: date(2021, 2, 1), Count: 3}}, months)

	avg, err := service.MovingAverage(ctx, date(2021, 3, 1), date(2021, 3, 15))
	require.NoError(t, err)
	assert.Equal(t, []Rate{{Start: date(2021, 3, 1), Value: 0.14}, {Start: date(2021, 3, 8), Value: 0.29}}, avg)

	per, err := service.PerHundredThousand(ctx, date(2021, 3, 1), date(2021, 3, 15))
	require.NoError(t, err)
	assert.Equal(t, 0.3, per[0].Value)
	assert.Equal(t, 0.61, per[1].Value)
}

func TestReproductionNumber_DefaultsToToday(t *testing.T) {
	ctx := context.Background()
	mockRepo := new(MockCaseRepository)
	// 15:30 UTC on the 12th is already the 13th in Japan.
	service := newCaseService(mockRepo, time.Date(2021, 5, 12, 15, 30, 0, 0, time.UTC))

	mockRepo.On("PublicationDates", ctx, date(2021, 5, 2), date(2021, 5, 14)).Return([]time.Time{
		date(2021, 5, 2), date(2021, 5, 13), date(2021, 5, 13),
	}, nil)

	r, err := service.ReproductionNumber(ctx, time.Time{})

	require.NoError(t, err)
	assert.Equal(t, 2.0, r)
	mockRepo.AssertExpectations(t)
}

func TestCountByAge(t *testing.T) {
	ctx := context.Background()
	mockRepo := new(MockCaseRepository)
	service := newCaseService(mockRepo, time.Now())

	mockRepo.On("CountByAgeBracket", ctx).Return(map[string]int{"10代": 4, "90歳以上": 1, "": 2}, nil)

	counts, err := service.CountByAge(ctx)

	require.NoError(t, err)
	require.Len(t, counts, 11)
	assert.Equal(t, AgeCount{AgeBracket: "10歳未満", Count: 0}, counts[0])
	assert.Equal(t, AgeCount{AgeBracket: "10代", Count: 4}, counts[1])
	assert.Equal(t, AgeCount{AgeBracket: "90歳以上", Count: 1}, counts[9])
	assert.Equal(t, AgeCount{AgeBracket: UndisclosedAge, Count: 2}, counts[10])
}

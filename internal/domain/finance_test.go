package domain

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAmountBeforeTax(t *testing.T) {
	cases := []struct {
		withTax, tax, want float64
	}{
		{29250.0, 17.0, 25000.0},
		{23000.0, 15.0, 20000.0},
		{10000.0, 0.0, 10000.0},
	}
	for _, c := range cases {
		assert.InDelta(t, c.want, AmountBeforeTax(c.withTax, c.tax), 1e-2)
	}
}

func TestWorkerPaymentsOnlyAccruesDailyWorkers(t *testing.T) {
	workers := IndexWorkers([]Worker{
		{ID: "d", PaymentType: PaymentDaily, PaymentAmount: 150},
		{ID: "h", PaymentType: PaymentHourly, PaymentAmount: 40},
		{ID: "m", PaymentType: PaymentMonthly, PaymentAmount: 4000},
	})
	logs := []WorkLog{
		{Workers: []string{"d", "h", "m"}},
		{Workers: []string{"d", "ghost"}},
		{Workers: nil},
	}

	assert.Equal(t, 300.0, WorkerPayments(logs, workers))
}

func TestComputeTotalsEmpty(t *testing.T) {
	got := ComputeTotals(nil, nil, nil, nil)
	assert.Equal(t, Totals{}, got)
}

func TestComputeTotalsProfit(t *testing.T) {
	incomes := []Income{{AmountBeforeTax: 25000}, {AmountBeforeTax: 20000}}
	expenses := []Expense{{Amount: 1200.5}, {Amount: 800}}
	workers := IndexWorkers([]Worker{{ID: "w1", PaymentType: PaymentDaily, PaymentAmount: 250}})
	logs := []WorkLog{{Workers: []string{"w1"}}, {Workers: []string{"w1"}}}

	got := ComputeTotals(incomes, expenses, logs, workers)

	assert.Equal(t, 45000.0, got.TotalIncomes)
	assert.Equal(t, 2000.5, got.TotalExpenses)
	assert.Equal(t, 500.0, got.WorkerPayments)
	assert.Equal(t, got.TotalIncomes-got.TotalExpenses-got.WorkerPayments, got.Profit)
}

func TestProgressWeightsAndClamps(t *testing.T) {
	p := Project{
		WorkSections:  []WorkSection{{Name: "foundation", Percentage: 40}, {Name: "walls", Percentage: 80}},
		WorkAdditions: []WorkSection{{Name: "fence", Percentage: 10}},
	}

	logs := []WorkLog{{WorkSection: "foundation", WorkPercentage: 50}}
	assert.InDelta(t, 20.0, Progress(p, logs), 1e-9)

	logs = append(logs, WorkLog{WorkSection: "walls", WorkPercentage: 100})
	assert.Equal(t, 100.0, Progress(p, logs))

	// additions and unknown sections are ignored
	assert.Equal(t, 0.0, Progress(p, []WorkLog{{WorkSection: "fence", WorkPercentage: 100}, {WorkSection: "roof", WorkPercentage: 100}}))
	assert.Equal(t, 0.0, Progress(Project{}, logs))
}

func TestPeriodStart(t *testing.T) {
	now := time.Date(2026, time.October, 15, 13, 45, 0, 0, time.FixedZone("x", 3*3600))

	assert.True(t, PeriodAll.Start(now).IsZero())
	assert.Equal(t, time.Date(2026, time.October, 1, 0, 0, 0, 0, time.UTC), PeriodMonthly.Start(now))
	assert.Equal(t, time.Date(2026, time.January, 1, 0, 0, 0, 0, time.UTC), PeriodYearly.Start(now))
}

func TestParsePeriod(t *testing.T) {
	p, err := ParsePeriod("yearly")
	require.NoError(t, err)
	assert.Equal(t, PeriodYearly, p)

	_, err = ParsePeriod("weekly")
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrValidation))
	var verr *ValidationError
	require.True(t, errors.As(err, &verr))
	assert.Contains(t, verr.Fields, "period")
}

func TestQueryMatches(t *testing.T) {
	day := time.Date(2026, time.March, 3, 0, 0, 0, 0, time.UTC)
	e := Expense{UserID: "u1", ProjectID: "p1", Date: day}

	assert.True(t, Query{OwnerID: "u1"}.Matches(e))
	assert.False(t, Query{OwnerID: "u2"}.Matches(e))
	assert.False(t, Query{OwnerID: "u1", ProjectID: "p2"}.Matches(e))
	assert.True(t, Query{OwnerID: "u1", Since: day}.Matches(e))
	assert.False(t, Query{OwnerID: "u1", Since: day.Add(time.Second)}.Matches(e))
	assert.Equal(t, MaxListSize, Query{Limit: 5000}.Cap())
	assert.Equal(t, 10, Query{Limit: 10}.Cap())
}

func TestProjectSite(t *testing.T) {
	b := Project{Type: ProjectBuilding, BuildingConfig: &BuildingConfig{ApartmentsPerFloor: 2}, StreetConfig: &StreetConfig{Lanes: 4}}
	require.NotNil(t, b.Site())
	assert.Equal(t, ProjectBuilding, b.Site().SiteType())

	s := Project{Type: ProjectStreet, StreetConfig: &StreetConfig{Lanes: 4}}
	assert.Equal(t, ProjectStreet, s.Site().SiteType())

	assert.Nil(t, Project{Type: ProjectStreet}.Site())
}

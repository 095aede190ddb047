package service

import (
	"context"
	"errors"
	"fmt"
	"math"
	"testing"
	"time"

	"github.com/aryan0dhankhar/sitebook/internal/domain"
	"github.com/aryan0dhankhar/sitebook/internal/repository/memory"
)

// fixture wires every service to one in-memory store with a fixed clock
type fixture struct {
	store    domain.Store
	projects *ProjectService
	workers  *WorkerService
	expenses *ExpenseService
	incomes  *IncomeService
	workLogs *WorkLogService
	reports  *ReportService
	clock    time.Time
}

func newFixture(t *testing.T, strict bool) *fixture {
	t.Helper()
	f := &fixture{store: memory.NewStore(), clock: time.Date(2026, time.October, 15, 12, 0, 0, 0, time.UTC)}
	seq := 0
	opts := Options{
		Strict: strict,
		Now:    func() time.Time { return f.clock },
		NewID: func() string {
			seq++
			return fmt.Sprintf("id-%03d", seq)
		},
	}
	f.projects = NewProjectService(f.store, opts)
	f.workers = NewWorkerService(f.store, opts)
	f.expenses = NewExpenseService(f.store, opts)
	f.incomes = NewIncomeService(f.store, opts)
	f.workLogs = NewWorkLogService(f.store, opts)
	f.reports = NewReportService(f.store, nil, func() time.Time { return f.clock })
	return f
}

func ptr[T any](v T) *T { return &v }

func buildingInput() ProjectInput {
	return ProjectInput{
		Name: "Olive Towers",
		Type: domain.ProjectBuilding,
		WorkSections: []WorkSectionInput{
			{Name: "foundation", Percentage: ptr(40.0)},
			{Name: "walls", Percentage: ptr(80.0)},
		},
		FloorsCount:    ptr(6),
		Address:        "12 Harbour St",
		ContactPhone1:  "0500000001",
		TotalAmount:    ptr(1200000.0),
		BuildingConfig: &domain.BuildingConfig{ApartmentsPerFloor: 4, TotalApartments: 24, BuildingArea: 1800},
	}
}

func TestProjectCreateDefaults(t *testing.T) {
	f := newFixture(t, false)
	p, err := f.projects.Create(context.Background(), "u1", buildingInput())
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if p.ID == "" || p.UserID != "u1" || !p.CreatedAt.Equal(f.clock) {
		t.Fatalf("identity fields not assigned: %+v", p)
	}
	if p.Status != domain.StatusActive || p.ProgressPercentage != 0 {
		t.Fatalf("expected active status and zero progress, got %s %v", p.Status, p.ProgressPercentage)
	}
	if p.Site() == nil || p.Site().SiteType() != domain.ProjectBuilding {
		t.Fatalf("expected building config variant")
	}
}

func TestProjectCreateRequiresFields(t *testing.T) {
	f := newFixture(t, false)
	in := buildingInput()
	in.Name = ""
	in.TotalAmount = nil
	in.WorkSections = append(in.WorkSections, WorkSectionInput{Name: "roof"})

	_, err := f.projects.Create(context.Background(), "u1", in)
	var verr *domain.ValidationError
	if !errors.As(err, &verr) {
		t.Fatalf("expected validation error, got %v", err)
	}
	for _, field := range []string{"name", "total_amount", "work_sections[2].percentage"} {
		if _, ok := verr.Fields[field]; !ok {
			t.Fatalf("missing %s in %v", field, verr.Fields)
		}
	}
}

func TestProjectPermissiveByDefault(t *testing.T) {
	f := newFixture(t, false)
	in := buildingInput()
	in.Type = "bridge"
	if _, err := f.projects.Create(context.Background(), "u1", in); err != nil {
		t.Fatalf("permissive mode should accept: %v", err)
	}
}

func TestProjectStrictValidation(t *testing.T) {
	f := newFixture(t, true)
	ctx := context.Background()

	_, err := f.projects.Create(ctx, "u1", buildingInput())
	var verr *domain.ValidationError
	if !errors.As(err, &verr) || verr.Fields["work_sections"] == "" {
		t.Fatalf("expected percentage sum rejection, got %v", err)
	}

	in := buildingInput()
	in.WorkSections[1].Percentage = ptr(50.0)
	in.WorkAdditions = []WorkSectionInput{{Name: "fence", Percentage: ptr(10.0)}}
	if _, err := f.projects.Create(ctx, "u1", in); err != nil {
		t.Fatalf("sections summing to 100 should pass: %v", err)
	}

	in.Type = "bridge"
	_, err = f.projects.Create(ctx, "u1", in)
	if !errors.As(err, &verr) || verr.Fields["type"] == "" {
		t.Fatalf("expected type rejection, got %v", err)
	}
}

func TestProjectUpdateIsFullReplace(t *testing.T) {
	f := newFixture(t, false)
	ctx := context.Background()

	in := buildingInput()
	in.ContactPhone2 = "0500000002"
	in.Status = domain.StatusCompleted
	p, err := f.projects.Create(ctx, "u1", in)
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	f.clock = f.clock.Add(48 * time.Hour)
	upd := buildingInput()
	upd.Name = "Olive Towers II"
	got, err := f.projects.Update(ctx, "u1", p.ID, upd)
	if err != nil {
		t.Fatalf("update: %v", err)
	}
	if got.ID != p.ID || got.UserID != "u1" || !got.CreatedAt.Equal(p.CreatedAt) {
		t.Fatalf("identity fields must be preserved: %+v", got)
	}
	if got.Name != "Olive Towers II" || got.ContactPhone2 != "" || got.Status != domain.StatusActive {
		t.Fatalf("omitted fields must revert to defaults: %+v", got)
	}

	stored, _ := f.projects.Get(ctx, "u1", p.ID)
	if stored.Name != "Olive Towers II" {
		t.Fatalf("update not persisted")
	}
}

func TestOwnershipIsolation(t *testing.T) {
	f := newFixture(t, false)
	ctx := context.Background()

	p, _ := f.projects.Create(ctx, "alice", buildingInput())
	w, _ := f.workers.Create(ctx, "alice", WorkerInput{Name: "Sami", PaymentType: domain.PaymentDaily, PaymentAmount: ptr(200.0)})

	if _, err := f.projects.Get(ctx, "bob", p.ID); !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("foreign project should be not found, got %v", err)
	}
	if _, err := f.projects.Update(ctx, "bob", p.ID, buildingInput()); !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("foreign update should be not found, got %v", err)
	}
	if _, err := f.workers.Get(ctx, "bob", w.ID); !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("foreign worker should be not found, got %v", err)
	}
	if _, err := f.projects.Get(ctx, "alice", "missing"); !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("missing project should be not found, got %v", err)
	}

	list, err := f.projects.List(ctx, "bob")
	if err != nil || len(list) != 0 {
		t.Fatalf("bob should see nothing, got %d (%v)", len(list), err)
	}
	list, _ = f.projects.List(ctx, "alice")
	if len(list) != 1 {
		t.Fatalf("alice should see her project")
	}
}

func TestIncomeTaxDerivation(t *testing.T) {
	f := newFixture(t, false)
	ctx := context.Background()

	cases := []struct{ withTax, tax, want float64 }{
		{29250, 17, 25000},
		{23000, 15, 20000},
		{10000, 0, 10000},
	}
	for _, c := range cases {
		inc, err := f.incomes.Create(ctx, "u1", IncomeInput{ProjectID: "p1", AmountWithTax: ptr(c.withTax), TaxPercentage: ptr(c.tax)})
		if err != nil {
			t.Fatalf("create income: %v", err)
		}
		if math.Abs(inc.AmountBeforeTax-c.want) > 1e-2 {
			t.Fatalf("(%v, %v): expected %v, got %v", c.withTax, c.tax, c.want, inc.AmountBeforeTax)
		}
	}

	legacy, err := f.incomes.Create(ctx, "u1", IncomeInput{ProjectID: "p1", AmountBeforeTax: ptr(5000.0)})
	if err != nil {
		t.Fatalf("legacy income: %v", err)
	}
	if legacy.AmountBeforeTax != 5000 {
		t.Fatalf("amount_before_tax should be kept verbatim, got %v", legacy.AmountBeforeTax)
	}

	_, err = f.incomes.Create(ctx, "u1", IncomeInput{ProjectID: "p1"})
	var verr *domain.ValidationError
	if !errors.As(err, &verr) || verr.Fields["amount_before_tax"] == "" {
		t.Fatalf("expected amount validation error, got %v", err)
	}
}

func TestIncomeRejectsTaxAtOrBelowMinusHundred(t *testing.T) {
	f := newFixture(t, false)
	ctx := context.Background()

	for _, tax := range []float64{-100, -250} {
		_, err := f.incomes.Create(ctx, "u1", IncomeInput{ProjectID: "p1", AmountWithTax: ptr(100.0), TaxPercentage: ptr(tax)})
		var verr *domain.ValidationError
		if !errors.As(err, &verr) || verr.Fields["tax_percentage"] == "" {
			t.Fatalf("tax %v: expected tax_percentage validation error, got %v", tax, err)
		}
	}
	list, err := f.incomes.List(ctx, "u1")
	if err != nil {
		t.Fatalf("list incomes: %v", err)
	}
	if len(list) != 0 {
		t.Fatalf("rejected incomes must not be stored, got %d", len(list))
	}

	inc, err := f.incomes.Create(ctx, "u1", IncomeInput{ProjectID: "p1", AmountWithTax: ptr(100.0), TaxPercentage: ptr(-50.0)})
	if err != nil {
		t.Fatalf("negative tax above -100 should be accepted: %v", err)
	}
	if math.Abs(inc.AmountBeforeTax-200) > 1e-9 {
		t.Fatalf("expected 200, got %v", inc.AmountBeforeTax)
	}
}

func TestWorkLogStrictFloorOnStreet(t *testing.T) {
	f := newFixture(t, true)
	ctx := context.Background()

	street, err := f.projects.Create(ctx, "u1", ProjectInput{
		Name:          "Coastal Road",
		Type:          domain.ProjectStreet,
		WorkSections:  []WorkSectionInput{{Name: "asphalt", Percentage: ptr(100.0)}},
		StreetLength:  ptr(850.0),
		Address:       "Route 4",
		ContactPhone1: "0500000003",
		TotalAmount:   ptr(400000.0),
		StreetConfig:  &domain.StreetConfig{Width: 12, Lanes: 2, SidewalkWidth: 2},
	})
	if err != nil {
		t.Fatalf("create street: %v", err)
	}

	_, err = f.workLogs.Create(ctx, "u1", WorkLogInput{
		ProjectID: street.ID, WorkSection: "asphalt", FloorNumber: ptr(2), WorkPercentage: ptr(10.0), Workers: []string{},
	})
	var verr *domain.ValidationError
	if !errors.As(err, &verr) || verr.Fields["floor_number"] == "" {
		t.Fatalf("expected floor_number rejection, got %v", err)
	}

	_, err = f.workLogs.Create(ctx, "u1", WorkLogInput{
		ProjectID: "ghost", WorkSection: "asphalt", WorkPercentage: ptr(10.0), Workers: []string{},
	})
	if !errors.As(err, &verr) || verr.Fields["project_id"] == "" {
		t.Fatalf("expected unknown project rejection, got %v", err)
	}

	if _, err := f.workLogs.Create(ctx, "u1", WorkLogInput{
		ProjectID: street.ID, WorkSection: "asphalt", WorkArea: "km 0-1", WorkPercentage: ptr(10.0), Workers: []string{},
	}); err != nil {
		t.Fatalf("valid street work log rejected: %v", err)
	}
}

func TestListCapsAtLimit(t *testing.T) {
	f := newFixture(t, false)
	ctx := context.Background()
	for i := 0; i < domain.MaxListSize+3; i++ {
		if _, err := f.expenses.Create(ctx, "u1", ExpenseInput{Type: "fuel", Amount: ptr(1.0)}); err != nil {
			t.Fatalf("create expense: %v", err)
		}
	}
	list, err := f.expenses.List(ctx, "u1")
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(list) != domain.MaxListSize {
		t.Fatalf("expected %d, got %d", domain.MaxListSize, len(list))
	}
	if list[0].ID != "id-001" {
		t.Fatalf("expected store order, first was %s", list[0].ID)
	}
}

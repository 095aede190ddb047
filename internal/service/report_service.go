package service

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"go.opentelemetry.io/otel/attribute"

	"github.com/aryan0dhankhar/sitebook/internal/domain"
	"github.com/aryan0dhankhar/sitebook/internal/observability/metrics"
	"github.com/aryan0dhankhar/sitebook/internal/observability/tracing"
)

// FinancialReport is the owner-wide (or single-project) money summary.
// Period and ProjectID echo the request and are null when absent.
type FinancialReport struct {
	domain.Totals
	Period    *string `json:"period"`
	ProjectID *string `json:"project_id"`
}

// ProjectSummary is one row of the per-project report
type ProjectSummary struct {
	ProjectID          string               `json:"project_id"`
	ProjectName        string               `json:"project_name"`
	TotalAmount        float64              `json:"total_amount"`
	TotalExpenses      float64              `json:"total_expenses"`
	TotalIncomes       float64              `json:"total_incomes"`
	WorkerPayments     float64              `json:"worker_payments"`
	Profit             float64              `json:"profit"`
	ProgressPercentage float64              `json:"progress_percentage"`
	Status             domain.ProjectStatus `json:"status"`
}

// ReportService derives reports from stored records. It never writes.
type ReportService struct {
	store  domain.Store
	logger *slog.Logger
	now    func() time.Time
}

func NewReportService(store domain.Store, logger *slog.Logger, now func() time.Time) *ReportService {
	if logger == nil {
		logger = slog.Default()
	}
	if now == nil {
		now = time.Now
	}
	return &ReportService{store: store, logger: logger, now: now}
}

// Financial totals owner's incomes, expenses and daily worker accrual,
// optionally restricted to the current month or year and to one project.
func (s *ReportService) Financial(ctx context.Context, owner, period, projectID string) (_ *FinancialReport, err error) {
	ctx, span, end := tracing.Start(ctx, "report.financial", attribute.String("user_id", owner))
	defer end(&err)
	start := time.Now()
	defer func() { metrics.ObserveReport("financial", err, time.Since(start)) }()

	p, err := domain.ParsePeriod(period)
	if err != nil {
		return nil, err
	}
	span.SetAttributes(attribute.String("report.period", string(p)), attribute.String("report.project_id", projectID))

	q := domain.Query{OwnerID: owner, ProjectID: projectID, Since: p.Start(s.now())}

	incomes, err := s.store.Incomes.Find(ctx, q)
	if err != nil {
		return nil, fmt.Errorf("load incomes: %w", err)
	}
	expenses, err := s.store.Expenses.Find(ctx, q)
	if err != nil {
		return nil, fmt.Errorf("load expenses: %w", err)
	}
	logs, err := s.store.WorkLogs.Find(ctx, q)
	if err != nil {
		return nil, fmt.Errorf("load work logs: %w", err)
	}
	workers, err := s.store.Workers.Find(ctx, domain.Query{OwnerID: owner})
	if err != nil {
		return nil, fmt.Errorf("load workers: %w", err)
	}

	report := &FinancialReport{
		Totals: domain.ComputeTotals(incomes, expenses, logs, domain.IndexWorkers(workers)),
	}
	if period != "" {
		report.Period = &period
	}
	if projectID != "" {
		report.ProjectID = &projectID
	}

	s.logger.DebugContext(ctx, "financial report computed",
		slog.String("user_id", owner),
		slog.String("period", period),
		slog.String("project_id", projectID),
		slog.Int("incomes", len(incomes)),
		slog.Int("expenses", len(expenses)),
		slog.Int("work_logs", len(logs)),
	)
	return report, nil
}

// Projects summarises every project of owner, in store order, over all time.
func (s *ReportService) Projects(ctx context.Context, owner string) (_ []ProjectSummary, err error) {
	ctx, span, end := tracing.Start(ctx, "report.projects", attribute.String("user_id", owner))
	defer end(&err)
	start := time.Now()
	defer func() { metrics.ObserveReport("projects", err, time.Since(start)) }()

	projects, err := s.store.Projects.Find(ctx, domain.Query{OwnerID: owner})
	if err != nil {
		return nil, fmt.Errorf("load projects: %w", err)
	}
	workers, err := s.store.Workers.Find(ctx, domain.Query{OwnerID: owner})
	if err != nil {
		return nil, fmt.Errorf("load workers: %w", err)
	}
	idx := domain.IndexWorkers(workers)
	span.SetAttributes(attribute.Int("report.projects", len(projects)))

	out := make([]ProjectSummary, 0, len(projects))
	for _, p := range projects {
		q := domain.Query{OwnerID: owner, ProjectID: p.ID}
		incomes, err := s.store.Incomes.Find(ctx, q)
		if err != nil {
			return nil, fmt.Errorf("load incomes for %s: %w", p.ID, err)
		}
		expenses, err := s.store.Expenses.Find(ctx, q)
		if err != nil {
			return nil, fmt.Errorf("load expenses for %s: %w", p.ID, err)
		}
		logs, err := s.store.WorkLogs.Find(ctx, q)
		if err != nil {
			return nil, fmt.Errorf("load work logs for %s: %w", p.ID, err)
		}

		t := domain.ComputeTotals(incomes, expenses, logs, idx)
		out = append(out, ProjectSummary{
			ProjectID:          p.ID,
			ProjectName:        p.Name,
			TotalAmount:        p.TotalAmount,
			TotalExpenses:      t.TotalExpenses,
			TotalIncomes:       t.TotalIncomes,
			WorkerPayments:     t.WorkerPayments,
			Profit:             t.Profit,
			ProgressPercentage: domain.Progress(p, logs),
			Status:             p.Status,
		})
	}
	return out, nil
}

package service

import (
	"context"
	"errors"

	"github.com/aryan0dhankhar/sitebook/internal/domain"
	"github.com/aryan0dhankhar/sitebook/internal/security"
)

// WorkerInput is the payload for a new worker
type WorkerInput struct {
	Name          string             `json:"name" validate:"required"`
	IDNumber      string             `json:"id_number"`
	IDImage       string             `json:"id_image"`
	PaymentType   domain.PaymentType `json:"payment_type" validate:"required"`
	PaymentAmount *float64           `json:"payment_amount" validate:"required"`
}

// WorkerService manages the crew roster
type WorkerService struct {
	records recordSet[domain.Worker]
}

func NewWorkerService(store domain.Store, opts Options) *WorkerService {
	opts = opts.withDefaults()
	return &WorkerService{records: newRecordSet(store.Workers, security.ResourceWorker, opts)}
}

func (s *WorkerService) Create(ctx context.Context, owner string, in WorkerInput) (domain.Worker, error) {
	if err := validateInput(in); err != nil {
		return domain.Worker{}, err
	}
	if s.records.opts.Strict {
		switch in.PaymentType {
		case domain.PaymentHourly, domain.PaymentDaily, domain.PaymentMonthly:
		default:
			return domain.Worker{}, domain.NewValidationError("payment_type", "must be one of: hourly daily monthly")
		}
	}
	return s.records.insert(ctx, domain.Worker{
		ID:            s.records.opts.NewID(),
		UserID:        owner,
		Name:          in.Name,
		IDNumber:      in.IDNumber,
		IDImage:       in.IDImage,
		PaymentType:   in.PaymentType,
		PaymentAmount: *in.PaymentAmount,
		CreatedAt:     s.records.now(),
	})
}

func (s *WorkerService) List(ctx context.Context, owner string) ([]domain.Worker, error) {
	return s.records.list(ctx, owner)
}

func (s *WorkerService) Get(ctx context.Context, owner, id string) (domain.Worker, error) {
	return s.records.get(ctx, owner, id)
}

// ExpenseInput is the payload for a new expense. project_id is optional.
type ExpenseInput struct {
	ProjectID   string   `json:"project_id"`
	Type        string   `json:"type" validate:"required"`
	Amount      *float64 `json:"amount" validate:"required"`
	Description string   `json:"description"`
}

// ExpenseService records money spent
type ExpenseService struct {
	records recordSet[domain.Expense]
}

func NewExpenseService(store domain.Store, opts Options) *ExpenseService {
	opts = opts.withDefaults()
	return &ExpenseService{records: newRecordSet(store.Expenses, security.ResourceExpense, opts)}
}

func (s *ExpenseService) Create(ctx context.Context, owner string, in ExpenseInput) (domain.Expense, error) {
	if err := validateInput(in); err != nil {
		return domain.Expense{}, err
	}
	return s.records.insert(ctx, domain.Expense{
		ID:          s.records.opts.NewID(),
		UserID:      owner,
		ProjectID:   in.ProjectID,
		Type:        in.Type,
		Amount:      *in.Amount,
		Description: in.Description,
		Date:        s.records.now(),
	})
}

func (s *ExpenseService) List(ctx context.Context, owner string) ([]domain.Expense, error) {
	return s.records.list(ctx, owner)
}

func (s *ExpenseService) Get(ctx context.Context, owner, id string) (domain.Expense, error) {
	return s.records.get(ctx, owner, id)
}

// IncomeInput is the payload for a new income. Either amount_with_tax (with
// tax_percentage) or amount_before_tax must be present.
type IncomeInput struct {
	ProjectID       string   `json:"project_id" validate:"required"`
	AmountWithTax   *float64 `json:"amount_with_tax"`
	TaxPercentage   *float64 `json:"tax_percentage" validate:"omitempty,gt=-100"`
	AmountBeforeTax *float64 `json:"amount_before_tax" validate:"required_without=AmountWithTax"`
	Description     string   `json:"description"`
}

// IncomeService records payments received
type IncomeService struct {
	records recordSet[domain.Income]
}

func NewIncomeService(store domain.Store, opts Options) *IncomeService {
	opts = opts.withDefaults()
	return &IncomeService{records: newRecordSet(store.Incomes, security.ResourceIncome, opts)}
}

// Create derives amount_before_tax from amount_with_tax when the latter is
// given; otherwise amount_before_tax is stored as sent.
func (s *IncomeService) Create(ctx context.Context, owner string, in IncomeInput) (domain.Income, error) {
	if err := validateInput(in); err != nil {
		return domain.Income{}, err
	}
	inc := domain.Income{
		ID:          s.records.opts.NewID(),
		UserID:      owner,
		ProjectID:   in.ProjectID,
		Description: in.Description,
		Date:        s.records.now(),
	}
	if in.TaxPercentage != nil {
		inc.TaxPercentage = *in.TaxPercentage
	}
	if in.AmountWithTax != nil {
		inc.AmountWithTax = *in.AmountWithTax
		inc.AmountBeforeTax = domain.AmountBeforeTax(inc.AmountWithTax, inc.TaxPercentage)
	} else {
		inc.AmountBeforeTax = *in.AmountBeforeTax
		inc.AmountWithTax = inc.AmountBeforeTax * (1 + inc.TaxPercentage/100)
	}
	return s.records.insert(ctx, inc)
}

func (s *IncomeService) List(ctx context.Context, owner string) ([]domain.Income, error) {
	return s.records.list(ctx, owner)
}

func (s *IncomeService) Get(ctx context.Context, owner, id string) (domain.Income, error) {
	return s.records.get(ctx, owner, id)
}

// WorkLogInput is the payload for a day of work
type WorkLogInput struct {
	ProjectID      string   `json:"project_id" validate:"required"`
	WorkSection    string   `json:"work_section" validate:"required"`
	WorkArea       string   `json:"work_area"`
	FloorNumber    *int     `json:"floor_number"`
	WorkPercentage *float64 `json:"work_percentage" validate:"required"`
	Workers        []string `json:"workers" validate:"required"`
	VehicleUsed    string   `json:"vehicle_used"`
	Notes          string   `json:"notes"`
}

// WorkLogService records work days
type WorkLogService struct {
	records  recordSet[domain.WorkLog]
	projects recordSet[domain.Project]
}

func NewWorkLogService(store domain.Store, opts Options) *WorkLogService {
	opts = opts.withDefaults()
	return &WorkLogService{
		records:  newRecordSet(store.WorkLogs, security.ResourceWorkLog, opts),
		projects: newRecordSet(store.Projects, security.ResourceProject, opts),
	}
}

func (s *WorkLogService) Create(ctx context.Context, owner string, in WorkLogInput) (domain.WorkLog, error) {
	if err := validateInput(in); err != nil {
		return domain.WorkLog{}, err
	}
	if s.records.opts.Strict {
		if err := s.checkProject(ctx, owner, in); err != nil {
			return domain.WorkLog{}, err
		}
	}
	return s.records.insert(ctx, domain.WorkLog{
		ID:             s.records.opts.NewID(),
		UserID:         owner,
		ProjectID:      in.ProjectID,
		WorkSection:    in.WorkSection,
		WorkArea:       in.WorkArea,
		FloorNumber:    in.FloorNumber,
		WorkPercentage: *in.WorkPercentage,
		Workers:        in.Workers,
		VehicleUsed:    in.VehicleUsed,
		Notes:          in.Notes,
		Date:           s.records.now(),
	})
}

// checkProject rejects work logs for unknown projects and floor numbers on
// street projects.
func (s *WorkLogService) checkProject(ctx context.Context, owner string, in WorkLogInput) error {
	p, err := s.projects.get(ctx, owner, in.ProjectID)
	if errors.Is(err, domain.ErrNotFound) {
		return domain.NewValidationError("project_id", "unknown project")
	}
	if err != nil {
		return err
	}
	if p.Type == domain.ProjectStreet && in.FloorNumber != nil {
		return domain.NewValidationError("floor_number", "not allowed on street projects")
	}
	return nil
}

func (s *WorkLogService) List(ctx context.Context, owner string) ([]domain.WorkLog, error) {
	return s.records.list(ctx, owner)
}

func (s *WorkLogService) Get(ctx context.Context, owner, id string) (domain.WorkLog, error) {
	return s.records.get(ctx, owner, id)
}

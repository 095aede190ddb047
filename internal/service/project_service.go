package service

import (
	"context"
	"math"

	"github.com/aryan0dhankhar/sitebook/internal/domain"
	"github.com/aryan0dhankhar/sitebook/internal/security"
)

// percentageTolerance is how far section weights may drift from 100 in strict mode
const percentageTolerance = 0.01

// WorkSectionInput is one weighted section in a project payload
type WorkSectionInput struct {
	Name       string   `json:"name" validate:"required"`
	Percentage *float64 `json:"percentage" validate:"required"`
}

// ProjectInput is the payload for create and full-replace update
type ProjectInput struct {
	Name               string                 `json:"name" validate:"required"`
	Type               domain.ProjectType     `json:"type" validate:"required"`
	WorkSections       []WorkSectionInput     `json:"work_sections" validate:"dive"`
	WorkAdditions      []WorkSectionInput     `json:"work_additions" validate:"dive"`
	FloorsCount        *int                   `json:"floors_count"`
	StreetLength       *float64               `json:"street_length"`
	Address            string                 `json:"address" validate:"required"`
	ContactPhone1      string                 `json:"contact_phone1" validate:"required"`
	ContactPhone2      string                 `json:"contact_phone2"`
	TotalAmount        *float64               `json:"total_amount" validate:"required"`
	BuildingConfig     *domain.BuildingConfig `json:"building_config"`
	StreetConfig       *domain.StreetConfig   `json:"street_config"`
	Status             domain.ProjectStatus   `json:"status"`
	ProgressPercentage *float64               `json:"progress_percentage"`
}

// ProjectService manages projects
type ProjectService struct {
	records recordSet[domain.Project]
}

func NewProjectService(store domain.Store, opts Options) *ProjectService {
	opts = opts.withDefaults()
	return &ProjectService{records: newRecordSet(store.Projects, security.ResourceProject, opts)}
}

// Create stores a new project for owner
func (s *ProjectService) Create(ctx context.Context, owner string, in ProjectInput) (domain.Project, error) {
	if err := s.check(in); err != nil {
		return domain.Project{}, err
	}
	p := buildProject(in)
	p.ID = s.records.opts.NewID()
	p.UserID = owner
	p.CreatedAt = s.records.now()
	return s.records.insert(ctx, p)
}

// List returns owner's projects in store order
func (s *ProjectService) List(ctx context.Context, owner string) ([]domain.Project, error) {
	return s.records.list(ctx, owner)
}

// Get returns one of owner's projects
func (s *ProjectService) Get(ctx context.Context, owner, id string) (domain.Project, error) {
	return s.records.get(ctx, owner, id)
}

// Update replaces every mutable field of the project with in. Omitted fields
// revert to their defaults; id, owner and creation time are kept.
func (s *ProjectService) Update(ctx context.Context, owner, id string, in ProjectInput) (domain.Project, error) {
	existing, err := s.records.get(ctx, owner, id)
	if err != nil {
		return domain.Project{}, err
	}
	if err := s.check(in); err != nil {
		return domain.Project{}, err
	}
	p := buildProject(in)
	p.ID = existing.ID
	p.UserID = existing.UserID
	p.CreatedAt = existing.CreatedAt
	return s.records.replace(ctx, p)
}

func (s *ProjectService) check(in ProjectInput) error {
	if err := validateInput(in); err != nil {
		return err
	}
	if !s.records.opts.Strict {
		return nil
	}

	verr := &domain.ValidationError{}
	switch in.Type {
	case domain.ProjectBuilding, domain.ProjectStreet:
	default:
		verr.Add("type", "must be one of: building street")
	}
	switch in.Status {
	case "", domain.StatusActive, domain.StatusCompleted, domain.StatusCancelled:
	default:
		verr.Add("status", "must be one of: active completed cancelled")
	}
	if len(in.WorkSections)+len(in.WorkAdditions) > 0 {
		planned := buildProject(in).PlannedPercentage()
		if math.Abs(planned-100) > percentageTolerance {
			verr.Add("work_sections", "section and addition percentages must sum to 100")
		}
	}
	if verr.Empty() {
		return nil
	}
	return verr
}

func buildProject(in ProjectInput) domain.Project {
	p := domain.Project{
		Name:           in.Name,
		Type:           in.Type,
		WorkSections:   toSections(in.WorkSections),
		WorkAdditions:  toSections(in.WorkAdditions),
		FloorsCount:    in.FloorsCount,
		StreetLength:   in.StreetLength,
		Address:        in.Address,
		ContactPhone1:  in.ContactPhone1,
		ContactPhone2:  in.ContactPhone2,
		BuildingConfig: in.BuildingConfig,
		StreetConfig:   in.StreetConfig,
		Status:         in.Status,
	}
	if in.TotalAmount != nil {
		p.TotalAmount = *in.TotalAmount
	}
	if in.ProgressPercentage != nil {
		p.ProgressPercentage = *in.ProgressPercentage
	}
	if p.Status == "" {
		p.Status = domain.StatusActive
	}
	return p
}

func toSections(in []WorkSectionInput) []domain.WorkSection {
	out := make([]domain.WorkSection, 0, len(in))
	for _, s := range in {
		ws := domain.WorkSection{Name: s.Name}
		if s.Percentage != nil {
			ws.Percentage = *s.Percentage
		}
		out = append(out, ws)
	}
	return out
}

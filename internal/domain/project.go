package domain

import "time"

// ProjectType selects which site configuration applies to a project.
type ProjectType string

const (
	ProjectBuilding ProjectType = "building"
	ProjectStreet   ProjectType = "street"
)

// ProjectStatus is the lifecycle state of a project. Projects are never deleted.
type ProjectStatus string

const (
	StatusActive    ProjectStatus = "active"
	StatusCompleted ProjectStatus = "completed"
	StatusCancelled ProjectStatus = "cancelled"
)

// WorkSection is a named, weighted share of a project's total scope.
// Work additions use the same shape.
type WorkSection struct {
	Name       string  `json:"name" bson:"name"`
	Percentage float64 `json:"percentage" bson:"percentage"`
}

// SiteConfig is the type-specific part of a project: *BuildingConfig for
// building projects, *StreetConfig for street projects.
type SiteConfig interface {
	SiteType() ProjectType
}

// BuildingConfig describes a building site.
type BuildingConfig struct {
	ApartmentsPerFloor int     `json:"apartments_per_floor" bson:"apartments_per_floor"`
	TotalApartments    int     `json:"total_apartments" bson:"total_apartments"`
	BuildingArea       float64 `json:"building_area" bson:"building_area"`
}

func (*BuildingConfig) SiteType() ProjectType { return ProjectBuilding }

// StreetConfig describes a street site.
type StreetConfig struct {
	Width         float64 `json:"width" bson:"width"`
	Lanes         int     `json:"lanes" bson:"lanes"`
	SidewalkWidth float64 `json:"sidewalk_width" bson:"sidewalk_width"`
}

func (*StreetConfig) SiteType() ProjectType { return ProjectStreet }

// Project is a construction contract owned by a user.
type Project struct {
	ID                 string          `json:"id" bson:"id"`
	UserID             string          `json:"user_id" bson:"user_id"`
	Name               string          `json:"name" bson:"name"`
	Type               ProjectType     `json:"type" bson:"type"`
	WorkSections       []WorkSection   `json:"work_sections" bson:"work_sections"`
	WorkAdditions      []WorkSection   `json:"work_additions" bson:"work_additions"`
	FloorsCount        *int            `json:"floors_count" bson:"floors_count,omitempty"`
	StreetLength       *float64        `json:"street_length" bson:"street_length,omitempty"`
	Address            string          `json:"address" bson:"address"`
	ContactPhone1      string          `json:"contact_phone1" bson:"contact_phone1"`
	ContactPhone2      string          `json:"contact_phone2,omitempty" bson:"contact_phone2,omitempty"`
	TotalAmount        float64         `json:"total_amount" bson:"total_amount"`
	ProgressPercentage float64         `json:"progress_percentage" bson:"progress_percentage"`
	BuildingConfig     *BuildingConfig `json:"building_config,omitempty" bson:"building_config,omitempty"`
	StreetConfig       *StreetConfig   `json:"street_config,omitempty" bson:"street_config,omitempty"`
	Status             ProjectStatus   `json:"status" bson:"status"`
	CreatedAt          time.Time       `json:"created_at" bson:"created_at"`
}

func (p Project) RecordID() string      { return p.ID }
func (p Project) OwnerID() string       { return p.UserID }
func (p Project) ProjectRef() string    { return "" }
func (p Project) RecordedAt() time.Time { return p.CreatedAt }

// Site returns the configuration variant selected by the project type, or nil
// when the type is unknown or its variant was not supplied.
func (p Project) Site() SiteConfig {
	switch p.Type {
	case ProjectBuilding:
		if p.BuildingConfig != nil {
			return p.BuildingConfig
		}
	case ProjectStreet:
		if p.StreetConfig != nil {
			return p.StreetConfig
		}
	}
	return nil
}

// Section finds a work section by exact name. Work additions are not searched.
func (p Project) Section(name string) (WorkSection, bool) {
	for _, s := range p.WorkSections {
		if s.Name == name {
			return s, true
		}
	}
	return WorkSection{}, false
}

// PlannedPercentage is the sum of section and addition weights. It is meant to
// be 100 but nothing enforces that unless strict validation is enabled.
func (p Project) PlannedPercentage() float64 {
	var total float64
	for _, s := range p.WorkSections {
		total += s.Percentage
	}
	for _, s := range p.WorkAdditions {
		total += s.Percentage
	}
	return total
}

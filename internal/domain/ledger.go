package domain

import "time"

// PaymentType is a worker's payment scheme.
type PaymentType string

const (
	PaymentHourly  PaymentType = "hourly"
	PaymentDaily   PaymentType = "daily"
	PaymentMonthly PaymentType = "monthly"
)

// Worker is a crew member referenced by work logs.
type Worker struct {
	ID            string      `json:"id" bson:"id"`
	UserID        string      `json:"user_id" bson:"user_id"`
	Name          string      `json:"name" bson:"name"`
	IDNumber      string      `json:"id_number,omitempty" bson:"id_number,omitempty"`
	IDImage       string      `json:"id_image,omitempty" bson:"id_image,omitempty"` // base64
	PaymentType   PaymentType `json:"payment_type" bson:"payment_type"`
	PaymentAmount float64     `json:"payment_amount" bson:"payment_amount"`
	CreatedAt     time.Time   `json:"created_at" bson:"created_at"`
}

func (w Worker) RecordID() string      { return w.ID }
func (w Worker) OwnerID() string       { return w.UserID }
func (w Worker) ProjectRef() string    { return "" }
func (w Worker) RecordedAt() time.Time { return w.CreatedAt }

// Expense is money spent, optionally against a project.
type Expense struct {
	ID          string    `json:"id" bson:"id"`
	UserID      string    `json:"user_id" bson:"user_id"`
	ProjectID   string    `json:"project_id,omitempty" bson:"project_id,omitempty"`
	Type        string    `json:"type" bson:"type"` // equipment, fuel, gifts, vehicle, office
	Amount      float64   `json:"amount" bson:"amount"`
	Description string    `json:"description,omitempty" bson:"description,omitempty"`
	Date        time.Time `json:"date" bson:"date"`
}

func (e Expense) RecordID() string      { return e.ID }
func (e Expense) OwnerID() string       { return e.UserID }
func (e Expense) ProjectRef() string    { return e.ProjectID }
func (e Expense) RecordedAt() time.Time { return e.Date }

// Income is a payment received for a project. Reports only use AmountBeforeTax.
type Income struct {
	ID              string    `json:"id" bson:"id"`
	UserID          string    `json:"user_id" bson:"user_id"`
	ProjectID       string    `json:"project_id" bson:"project_id"`
	AmountWithTax   float64   `json:"amount_with_tax" bson:"amount_with_tax"`
	TaxPercentage   float64   `json:"tax_percentage" bson:"tax_percentage"`
	AmountBeforeTax float64   `json:"amount_before_tax" bson:"amount_before_tax"`
	Description     string    `json:"description,omitempty" bson:"description,omitempty"`
	Date            time.Time `json:"date" bson:"date"`
}

func (i Income) RecordID() string      { return i.ID }
func (i Income) OwnerID() string       { return i.UserID }
func (i Income) ProjectRef() string    { return i.ProjectID }
func (i Income) RecordedAt() time.Time { return i.Date }

// WorkLog records one day of work on a project section.
type WorkLog struct {
	ID             string    `json:"id" bson:"id"`
	UserID         string    `json:"user_id" bson:"user_id"`
	ProjectID      string    `json:"project_id" bson:"project_id"`
	WorkSection    string    `json:"work_section" bson:"work_section"`
	WorkArea       string    `json:"work_area,omitempty" bson:"work_area,omitempty"`
	FloorNumber    *int      `json:"floor_number" bson:"floor_number,omitempty"` // building projects only
	WorkPercentage float64   `json:"work_percentage" bson:"work_percentage"`
	Workers        []string  `json:"workers" bson:"workers"`
	VehicleUsed    string    `json:"vehicle_used,omitempty" bson:"vehicle_used,omitempty"`
	Notes          string    `json:"notes,omitempty" bson:"notes,omitempty"`
	Date           time.Time `json:"date" bson:"date"`
}

func (l WorkLog) RecordID() string      { return l.ID }
func (l WorkLog) OwnerID() string       { return l.UserID }
func (l WorkLog) ProjectRef() string    { return l.ProjectID }
func (l WorkLog) RecordedAt() time.Time { return l.Date }

package therapy

import (
	"time"

	"github.com/google/uuid"
)

// Log maps to the therapy_log table: one drug administration record owned
// by the user who logged it. Drugs are referenced by name; the service
// carries no drug catalogue.
type Log struct {
	ID             uuid.UUID  `db:"id" json:"id"`
	UserID         uuid.UUID  `db:"user_id" json:"user_id"`
	DrugName       string     `db:"drug_name" json:"drug_name"`
	Dosage         string     `db:"dosage" json:"dosage"`
	DosageUnit     string     `db:"dosage_unit" json:"dosage_unit,omitempty"`
	Route          string     `db:"route" json:"route,omitempty"`
	Status         string     `db:"status" json:"status"`
	AdministeredAt *time.Time `db:"administered_at" json:"administered_at,omitempty"`
	Notes          string     `db:"notes" json:"notes,omitempty"`
	CreatedAt      time.Time  `db:"created_at" json:"created_at"`
	UpdatedAt      time.Time  `db:"updated_at" json:"updated_at"`
}

// Log status constants.
const (
	StatusScheduled = "scheduled"
	StatusCompleted = "completed"
	StatusMissed    = "missed"
	StatusCancelled = "cancelled"
)

// Administration route constants.
const (
	RouteOral          = "oral"
	RouteSubcutaneous  = "subcutaneous"
	RouteIntravenous   = "intravenous"
	RouteIntramuscular = "intramuscular"
)

var validStatuses = map[string]bool{
	StatusScheduled: true,
	StatusCompleted: true,
	StatusMissed:    true,
	StatusCancelled: true,
}

var validRoutes = map[string]bool{
	RouteOral:          true,
	RouteSubcutaneous:  true,
	RouteIntravenous:   true,
	RouteIntramuscular: true,
}

// CreateInput carries the fields a client may set when logging a dose.
type CreateInput struct {
	DrugName       string     `json:"drug_name"`
	Dosage         string     `json:"dosage"`
	DosageUnit     string     `json:"dosage_unit,omitempty"`
	Route          string     `json:"route,omitempty"`
	Status         string     `json:"status,omitempty"`
	AdministeredAt *time.Time `json:"administered_at,omitempty"`
	Notes          string     `json:"notes,omitempty"`
}

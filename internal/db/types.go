package db

import (
	"time"

	"github.com/google/uuid"
)

// Run represents one onboarding pipeline run
type Run struct {
	ID            uuid.UUID  `json:"id"`
	SiteID        *uuid.UUID `json:"site_id,omitempty"` // set once the site is created
	Subdomain     string     `json:"subdomain"`
	GBPLocationID string     `json:"gbp_location_id,omitempty"`
	GBPPlaceID    string     `json:"gbp_place_id,omitempty"`
	Status        string     `json:"status"`
	CreatedAt     time.Time  `json:"created_at"`
	CompletedAt   *time.Time `json:"completed_at,omitempty"`
}

// Run status values
const (
	RunStatusRunning   = "running"
	RunStatusCompleted = "completed"
	RunStatusFailed    = "failed"
)

// Pipeline step names, used for run steps and artifacts
const (
	StepImport    = "import"
	StepScore     = "score"
	StepMatch     = "match_template"
	StepContent   = "generate_content"
	StepSEO       = "generate_seo"
	StepPersist   = "persist"
	StepProvision = "provision"
)

// Step status values
const (
	StepStatusPending    = "pending"
	StepStatusInProgress = "in_progress"
	StepStatusCompleted  = "completed"
	StepStatusFailed     = "failed"
	StepStatusSkipped    = "skipped"
)

// RunStep is the persisted state of one pipeline step within a run
type RunStep struct {
	ID           uuid.UUID  `json:"id"`
	RunID        uuid.UUID  `json:"run_id"`
	Step         string     `json:"step"`
	Status       string     `json:"status"`
	StartedAt    *time.Time `json:"started_at,omitempty"`
	CompletedAt  *time.Time `json:"completed_at,omitempty"`
	DurationMs   *int       `json:"duration_ms,omitempty"`
	ErrorMessage *string    `json:"error_message,omitempty"`
	CreatedAt    time.Time  `json:"created_at"`
	UpdatedAt    time.Time  `json:"updated_at"`
}

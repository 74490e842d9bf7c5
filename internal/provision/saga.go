// Package provision runs the multi-step CRM setup for a newly created site
// as an explicit saga. Each step's status is persisted on the site's
// provisioning record and each step is idempotent (check-before-create via
// the stored CRM ids), so retrying the whole saga only performs the steps
// not yet marked done. CRM setup is non-critical: a failed step is recorded
// and logged, never escalated into a site creation failure.
package provision

import (
	"context"
	"fmt"
	"log"

	"github.com/jonathan/site-builder/internal/crm"
)

// Step identifies one saga step.
type Step string

// Saga steps, in execution order.
const (
	StepLocation     Step = "crm_location"
	StepAdminUser    Step = "crm_user"
	StepCustomFields Step = "crm_custom_fields"
	StepContact      Step = "crm_contact"
)

// steps is the fixed execution order.
var steps = []Step{StepLocation, StepAdminUser, StepCustomFields, StepContact}

// Status is the persisted state of one step.
type Status string

// Step statuses.
const (
	StatusPending Status = "pending"
	StatusDone    Status = "done"
	StatusFailed  Status = "failed"
)

// Record is the persisted provisioning state for one site. CRMFieldIDs maps
// custom field names to their CRM ids so a retry after a mid-loop failure
// skips the fields that already exist.
type Record struct {
	SiteID        string
	CRMLocationID string
	CRMUserID     string
	CRMContactID  string
	CRMFieldIDs   map[string]string
	Steps         map[Step]Status
}

// NewRecord creates a Record with every step pending.
func NewRecord(siteID string) *Record {
	rec := &Record{SiteID: siteID, Steps: make(map[Step]Status, len(steps))}
	for _, s := range steps {
		rec.Steps[s] = StatusPending
	}
	return rec
}

// Done reports whether every step completed.
func (r *Record) Done() bool {
	for _, s := range steps {
		if r.Steps[s] != StatusDone {
			return false
		}
	}
	return true
}

// Store persists provisioning records. Load returns (nil, nil) when no record
// exists for the site.
type Store interface {
	Load(ctx context.Context, siteID string) (*Record, error)
	Save(ctx context.Context, rec *Record) error
}

// CRMAPI is the subset of the CRM client the saga calls.
type CRMAPI interface {
	CreateLocation(ctx context.Context, req crm.CreateLocationRequest) (*crm.Location, error)
	CreateUser(ctx context.Context, req crm.CreateUserRequest) (*crm.User, error)
	CreateCustomField(ctx context.Context, locationID, name, dataType string) (*crm.CustomField, error)
	UpsertContact(ctx context.Context, req crm.UpsertContactRequest) (*crm.Contact, error)
}

// Input is the site and owner data the saga needs.
type Input struct {
	SiteID       string
	BusinessName string
	Phone        string
	Street       string
	City         string
	State        string
	Zip          string
	SiteURL      string
	OwnerEmail   string
	OwnerFirst   string
	OwnerLast    string
}

// customFields are the website fields provisioned on every location.
var customFields = []struct {
	name     string
	dataType string
}{
	{"Website URL", "TEXT"},
	{"Website Template", "TEXT"},
	{"Website Published", "CHECKBOX"},
}

// Saga executes CRM provisioning for a site.
type Saga struct {
	CRM   CRMAPI
	Store Store
}

// NewSaga creates a Saga.
func NewSaga(api CRMAPI, store Store) *Saga {
	return &Saga{CRM: api, Store: store}
}

// Run provisions CRM resources for a site, resuming any prior partial run.
// The returned error is non-nil only for persistence failures; CRM step
// failures are recorded on the Record and logged. A failed step stops
// execution of the steps that depend on it but never the caller's flow.
func (s *Saga) Run(ctx context.Context, in Input) (*Record, error) {
	if in.SiteID == "" {
		return nil, fmt.Errorf("site id is required")
	}

	rec, err := s.Store.Load(ctx, in.SiteID)
	if err != nil {
		return nil, fmt.Errorf("failed to load provisioning record: %w", err)
	}
	if rec == nil {
		rec = NewRecord(in.SiteID)
	}

	s.runLocation(ctx, rec, in)
	if rec.CRMLocationID != "" {
		s.runAdminUser(ctx, rec, in)
		s.runCustomFields(ctx, rec)
		s.runContact(ctx, rec, in)
	}

	if err := s.Store.Save(ctx, rec); err != nil {
		return nil, fmt.Errorf("failed to save provisioning record: %w", err)
	}
	return rec, nil
}

// Resume re-runs the saga for a site with an existing provisioning record.
func (s *Saga) Resume(ctx context.Context, in Input) (*Record, error) {
	rec, err := s.Store.Load(ctx, in.SiteID)
	if err != nil {
		return nil, fmt.Errorf("failed to load provisioning record: %w", err)
	}
	if rec == nil {
		return nil, fmt.Errorf("no provisioning record for site %s", in.SiteID)
	}
	if rec.Done() {
		return rec, nil
	}
	return s.Run(ctx, in)
}

func (s *Saga) runLocation(ctx context.Context, rec *Record, in Input) {
	if rec.CRMLocationID != "" {
		rec.Steps[StepLocation] = StatusDone
		return
	}

	loc, err := s.CRM.CreateLocation(ctx, crm.CreateLocationRequest{
		Name:       in.BusinessName,
		Phone:      in.Phone,
		Address:    in.Street,
		City:       in.City,
		State:      in.State,
		PostalCode: in.Zip,
		Website:    in.SiteURL,
	})
	if err != nil {
		log.Printf("provision: site %s: create location failed: %v", in.SiteID, err)
		rec.Steps[StepLocation] = StatusFailed
		return
	}

	rec.CRMLocationID = loc.ID
	rec.Steps[StepLocation] = StatusDone
}

func (s *Saga) runAdminUser(ctx context.Context, rec *Record, in Input) {
	if rec.CRMUserID != "" {
		rec.Steps[StepAdminUser] = StatusDone
		return
	}
	if in.OwnerEmail == "" {
		// Nothing to create; not a failure.
		rec.Steps[StepAdminUser] = StatusDone
		return
	}

	user, err := s.CRM.CreateUser(ctx, crm.CreateUserRequest{
		LocationID: rec.CRMLocationID,
		FirstName:  in.OwnerFirst,
		LastName:   in.OwnerLast,
		Email:      in.OwnerEmail,
		Role:       "admin",
	})
	if err != nil {
		log.Printf("provision: site %s: create admin user failed: %v", in.SiteID, err)
		rec.Steps[StepAdminUser] = StatusFailed
		return
	}

	rec.CRMUserID = user.ID
	rec.Steps[StepAdminUser] = StatusDone
}

func (s *Saga) runCustomFields(ctx context.Context, rec *Record) {
	if rec.Steps[StepCustomFields] == StatusDone {
		return
	}
	if rec.CRMFieldIDs == nil {
		rec.CRMFieldIDs = make(map[string]string, len(customFields))
	}

	for _, f := range customFields {
		if rec.CRMFieldIDs[f.name] != "" {
			// Created on an earlier attempt.
			continue
		}
		field, err := s.CRM.CreateCustomField(ctx, rec.CRMLocationID, f.name, f.dataType)
		if err != nil {
			log.Printf("provision: site %s: create custom field %q failed: %v", rec.SiteID, f.name, err)
			rec.Steps[StepCustomFields] = StatusFailed
			return
		}
		rec.CRMFieldIDs[f.name] = field.ID
	}
	rec.Steps[StepCustomFields] = StatusDone
}

func (s *Saga) runContact(ctx context.Context, rec *Record, in Input) {
	if rec.CRMContactID != "" {
		rec.Steps[StepContact] = StatusDone
		return
	}
	if in.OwnerEmail == "" && in.Phone == "" {
		rec.Steps[StepContact] = StatusDone
		return
	}

	contact, err := s.CRM.UpsertContact(ctx, crm.UpsertContactRequest{
		LocationID: rec.CRMLocationID,
		FirstName:  in.OwnerFirst,
		LastName:   in.OwnerLast,
		Email:      in.OwnerEmail,
		Phone:      in.Phone,
		Tags:       []string{"website-owner"},
	})
	if err != nil {
		log.Printf("provision: site %s: upsert contact failed: %v", in.SiteID, err)
		rec.Steps[StepContact] = StatusFailed
		return
	}

	rec.CRMContactID = contact.ID
	rec.Steps[StepContact] = StatusDone
}

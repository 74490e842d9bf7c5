// Package steps provides step definitions and dependency validation for the
// onboarding pipeline.
package steps

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	dbpkg "github.com/jonathan/site-builder/internal/db"
)

// StepDefinition defines metadata for a pipeline step
type StepDefinition struct {
	Name         string
	Dependencies []string
	Optional     bool // failure does not fail the run
}

// StepRegistry holds all step definitions
var StepRegistry = map[string]StepDefinition{
	dbpkg.StepImport: {
		Name:         dbpkg.StepImport,
		Dependencies: []string{},
	},
	dbpkg.StepScore: {
		Name:         dbpkg.StepScore,
		Dependencies: []string{dbpkg.StepImport},
	},
	dbpkg.StepMatch: {
		Name:         dbpkg.StepMatch,
		Dependencies: []string{dbpkg.StepImport, dbpkg.StepScore},
	},
	dbpkg.StepContent: {
		Name:         dbpkg.StepContent,
		Dependencies: []string{dbpkg.StepMatch},
	},
	dbpkg.StepSEO: {
		Name:         dbpkg.StepSEO,
		Dependencies: []string{dbpkg.StepImport, dbpkg.StepScore},
	},
	dbpkg.StepPersist: {
		Name:         dbpkg.StepPersist,
		Dependencies: []string{dbpkg.StepContent, dbpkg.StepSEO},
	},
	dbpkg.StepProvision: {
		Name:         dbpkg.StepProvision,
		Dependencies: []string{dbpkg.StepPersist},
		Optional:     true,
	},
}

// Order is the canonical execution order of the pipeline.
var Order = []string{
	dbpkg.StepImport,
	dbpkg.StepScore,
	dbpkg.StepMatch,
	dbpkg.StepContent,
	dbpkg.StepSEO,
	dbpkg.StepPersist,
	dbpkg.StepProvision,
}

// DependencyError represents a dependency validation error
type DependencyError struct {
	Step                string
	MissingDependencies []string
}

func (e *DependencyError) Error() string {
	return fmt.Sprintf("step %s missing dependencies: %v", e.Step, e.MissingDependencies)
}

// ValidateDependencies checks if all required dependencies for a step are completed
func ValidateDependencies(ctx context.Context, db *dbpkg.DB, runID uuid.UUID, stepName string) error {
	def, ok := StepRegistry[stepName]
	if !ok {
		return fmt.Errorf("unknown step: %s", stepName)
	}

	var missing []string
	for _, dep := range def.Dependencies {
		step, err := db.GetRunStep(ctx, runID, dep)
		if err != nil {
			return fmt.Errorf("failed to check dependency %s: %w", dep, err)
		}
		if step == nil || step.Status != dbpkg.StepStatusCompleted {
			missing = append(missing, dep)
		}
	}

	if len(missing) > 0 {
		return &DependencyError{
			Step:                stepName,
			MissingDependencies: missing,
		}
	}
	return nil
}

// GetAvailableSteps returns steps that can be executed (dependencies met)
func GetAvailableSteps(ctx context.Context, db *dbpkg.DB, runID uuid.UUID) ([]string, error) {
	var available []string

	for _, stepName := range Order {
		existing, err := db.GetRunStep(ctx, runID, stepName)
		if err != nil {
			return nil, fmt.Errorf("failed to check step %s: %w", stepName, err)
		}
		if existing != nil && (existing.Status == dbpkg.StepStatusCompleted || existing.Status == dbpkg.StepStatusInProgress) {
			continue
		}

		if err := ValidateDependencies(ctx, db, runID, stepName); err != nil {
			continue
		}
		available = append(available, stepName)
	}
	return available, nil
}

// GetBlockedSteps returns steps whose dependencies are not met
func GetBlockedSteps(ctx context.Context, db *dbpkg.DB, runID uuid.UUID) ([]string, error) {
	var blocked []string

	for _, stepName := range Order {
		existing, err := db.GetRunStep(ctx, runID, stepName)
		if err != nil {
			return nil, fmt.Errorf("failed to check step %s: %w", stepName, err)
		}
		if existing != nil && (existing.Status == dbpkg.StepStatusCompleted || existing.Status == dbpkg.StepStatusInProgress) {
			continue
		}

		if err := ValidateDependencies(ctx, db, runID, stepName); err != nil {
			blocked = append(blocked, stepName)
		}
	}
	return blocked, nil
}

package steps

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	dbpkg "github.com/jonathan/site-builder/internal/db"
)

func TestRegistryCoversOrder(t *testing.T) {
	assert.Len(t, StepRegistry, len(Order))
	for _, name := range Order {
		_, ok := StepRegistry[name]
		assert.True(t, ok, "step %s missing from registry", name)
	}
}

func TestDependenciesReferenceKnownSteps(t *testing.T) {
	for name, def := range StepRegistry {
		for _, dep := range def.Dependencies {
			_, ok := StepRegistry[dep]
			assert.True(t, ok, "step %s depends on unknown step %s", name, dep)
		}
	}
}

// Dependencies must point backwards in the canonical order, otherwise a
// sequential run could never satisfy them.
func TestDependenciesRespectOrder(t *testing.T) {
	position := make(map[string]int, len(Order))
	for i, name := range Order {
		position[name] = i
	}

	for name, def := range StepRegistry {
		for _, dep := range def.Dependencies {
			assert.Less(t, position[dep], position[name],
				"step %s depends on %s which runs later", name, dep)
		}
	}
}

func TestProvisionIsOptional(t *testing.T) {
	def, ok := StepRegistry[dbpkg.StepProvision]
	require.True(t, ok)
	assert.True(t, def.Optional)

	for name, d := range StepRegistry {
		if name == dbpkg.StepProvision {
			continue
		}
		assert.False(t, d.Optional, "step %s should be required", name)
	}
}

func TestDependencyErrorMessage(t *testing.T) {
	err := &DependencyError{Step: dbpkg.StepPersist, MissingDependencies: []string{dbpkg.StepContent}}
	assert.Contains(t, err.Error(), dbpkg.StepPersist)
	assert.Contains(t, err.Error(), dbpkg.StepContent)
}

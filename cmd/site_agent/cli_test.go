package main

import (
	"os/exec"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestOnboardCommand_MissingIdentifiers(t *testing.T) {
	bin := binaryPath(t)

	cmd := exec.Command(bin, "onboard")
	output, err := cmd.CombinedOutput()

	assert.Error(t, err)
	assert.Contains(t, string(output), "either --gbp-location or --place-id must be provided")
}

func TestImportCommand_MissingIdentifiers(t *testing.T) {
	bin := binaryPath(t)

	cmd := exec.Command(bin, "import")
	output, err := cmd.CombinedOutput()

	assert.Error(t, err)
	assert.Contains(t, string(output), "either --gbp-location or --place-id must be provided")
}

func TestScoreCommand_ConflictingInputs(t *testing.T) {
	bin := binaryPath(t)

	cmd := exec.Command(bin, "score", "--in", "facts.json", "--place-id", "p1")
	output, err := cmd.CombinedOutput()

	assert.Error(t, err)
	assert.Contains(t, string(output), "cannot use --in with")
}

func TestMatchCommand_MissingIndustry(t *testing.T) {
	bin := binaryPath(t)

	cmd := exec.Command(bin, "match")
	output, err := cmd.CombinedOutput()

	assert.Error(t, err)
	assert.Contains(t, string(output), "industry")
}

func TestMatchCommand_PrintsSuggestion(t *testing.T) {
	bin := binaryPath(t)

	cmd := exec.Command(bin, "match", "--industry", "landscaping")
	output, err := cmd.CombinedOutput()

	assert.NoError(t, err)
	assert.Contains(t, string(output), "dream-garden")
}

func TestResumeCommand_InvalidRunID(t *testing.T) {
	bin := binaryPath(t)

	cmd := exec.Command(bin, "resume", "not-a-uuid")
	output, err := cmd.CombinedOutput()

	assert.Error(t, err)
	assert.Contains(t, string(output), "invalid run ID")
}

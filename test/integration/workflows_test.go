//go:build integration

package integration

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"
)

type listedItem struct {
	ID string `json:"id" yaml:"id"`
}

// TestWorkflow_Pagination checks that a single page is a prefix of the full listing
func TestWorkflow_Pagination(t *testing.T) {
	config := LoadTestConfig()
	config.SkipIfMissingConfig(t)

	runner := NewCommandRunner(config, t)
	runner.Login()

	stdout, stderr, err := runner.Run("data-products", "list", "--limit", "2", "--output", "json")
	require.NoError(t, err, "single page failed: %s", stderr)

	var firstPage []listedItem
	AssertJSONOutput(t, stdout, &firstPage)
	assert.LessOrEqual(t, len(firstPage), 2)

	stdout, stderr, err = runner.Run("data-products", "list", "--limit", "2", "--all", "--output", "json")
	require.NoError(t, err, "full listing failed: %s", stderr)

	var all []listedItem
	AssertJSONOutput(t, stdout, &all)
	require.GreaterOrEqual(t, len(all), len(firstPage))
	assert.Equal(t, firstPage, all[:len(firstPage)])

	seen := make(map[string]bool, len(all))
	for _, item := range all {
		assert.False(t, seen[item.ID], "data product %s listed twice", item.ID)
		seen[item.ID] = true
	}
}

// TestWorkflow_ReleasesOfEveryProduct lists releases across all data products
func TestWorkflow_ReleasesOfEveryProduct(t *testing.T) {
	config := LoadTestConfig()
	config.SkipIfMissingConfig(t)

	runner := NewCommandRunner(config, t)
	runner.Login()

	stdout, stderr, err := runner.Run("releases", "list", "--all-products", "--state", "available", "--output", "json")
	require.NoError(t, err, "releases listing failed: %s", stderr)

	var releases []listedItem
	AssertJSONOutput(t, stdout, &releases)
}

// TestWorkflow_OutputFormats checks every output format of a read command
func TestWorkflow_OutputFormats(t *testing.T) {
	config := LoadTestConfig()
	config.SkipIfMissingConfig(t)

	runner := NewCommandRunner(config, t)
	runner.Login()

	stdout, stderr, err := runner.Run("initialize", "status", "--output", "table")
	require.NoError(t, err, "table output failed: %s", stderr)
	assert.Contains(t, stdout, "Status")

	stdout, stderr, err = runner.Run("initialize", "status", "--output", "yaml")
	require.NoError(t, err, "yaml output failed: %s", stderr)

	var status map[string]interface{}
	require.NoError(t, yaml.Unmarshal([]byte(stdout), &status))

	stdout, stderr, err = runner.Run("initialize", "status", "--output", "json")
	require.NoError(t, err, "json output failed: %s", stderr)
	AssertJSONOutput(t, stdout, &status)
}

// TestWorkflow_ErrorScenarios checks failures reported by the CLI
func TestWorkflow_ErrorScenarios(t *testing.T) {
	config := LoadTestConfig()
	config.SkipIfMissingConfig(t)

	runner := NewCommandRunner(config, t)

	_, stderr, err := runner.Run("data-products", "list")
	require.Error(t, err)
	assert.Contains(t, stderr, "no service URL configured")

	runner.Login()

	_, stderr, err = runner.Run("data-products", "list", "--limit", "500")
	require.Error(t, err)
	assert.Contains(t, stderr, "limit must be between 1 and 200")

	_, stderr, err = runner.Run("data-products", "get", "00000000-0000-0000-0000-000000000000")
	require.Error(t, err)
	assert.NotEmpty(t, stderr)

	_, stderr, err = runner.Run("releases", "list")
	require.Error(t, err)
	assert.Contains(t, stderr, "data product ID is required")
}

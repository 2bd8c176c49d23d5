//go:build integration

package integration

import (
	"bytes"
	"encoding/json"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

// TestConfig holds configuration for integration tests
type TestConfig struct {
	ServiceURL string
	APIKey     string
	AuthURL    string
	DphPath    string
	Verbose    bool
}

// LoadTestConfig loads configuration from environment variables
func LoadTestConfig() *TestConfig {
	return &TestConfig{
		ServiceURL: os.Getenv("DPH_TEST_URL"),
		APIKey:     os.Getenv("DPH_TEST_APIKEY"),
		AuthURL:    os.Getenv("DPH_TEST_AUTH_URL"),
		DphPath:    getDphPath(),
		Verbose:    os.Getenv("DPH_TEST_VERBOSE") == "true",
	}
}

// getDphPath determines the path to the dph binary
func getDphPath() string {
	if path := os.Getenv("DPH_BINARY_PATH"); path != "" {
		return path
	}

	for _, candidate := range []string{"../../dph", "./dph", "../dph"} {
		if _, err := os.Stat(candidate); err == nil {
			return candidate
		}
	}

	return "dph"
}

// SkipIfMissingConfig skips test if required config is missing
func (config *TestConfig) SkipIfMissingConfig(t *testing.T) {
	t.Helper()

	if config.ServiceURL == "" || config.APIKey == "" {
		t.Skip("DPH_TEST_URL or DPH_TEST_APIKEY not set, skipping integration test")
	}

	if _, err := exec.LookPath(config.DphPath); err != nil {
		t.Skipf("dph binary not found at %s, skipping integration test", config.DphPath)
	}
}

// CommandRunner runs dph commands against a config file private to one test
type CommandRunner struct {
	config     *TestConfig
	t          *testing.T
	configFile string
}

// NewCommandRunner creates a new command runner
func NewCommandRunner(config *TestConfig, t *testing.T) *CommandRunner {
	t.Helper()

	return &CommandRunner{
		config:     config,
		t:          t,
		configFile: filepath.Join(t.TempDir(), "config.yml"),
	}
}

// Run executes a dph command and returns output
func (runner *CommandRunner) Run(args ...string) (stdout, stderr string, err error) {
	args = append([]string{"--config", runner.configFile}, args...)

	cmd := exec.Command(runner.config.DphPath, args...)
	// DPH_* variables of the developer must not leak into the run
	cmd.Env = []string{"HOME=" + runner.t.TempDir(), "PATH=" + os.Getenv("PATH")}

	var stdoutBuf, stderrBuf bytes.Buffer

	cmd.Stdout = &stdoutBuf
	cmd.Stderr = &stderrBuf

	if runner.config.Verbose {
		runner.t.Logf("Running: %s %s", runner.config.DphPath, strings.Join(args, " "))
	}

	err = cmd.Run()
	stdout = stdoutBuf.String()
	stderr = stderrBuf.String()

	if runner.config.Verbose && err != nil {
		runner.t.Logf("Command failed: %v\nStdout: %s\nStderr: %s", err, stdout, stderr)
	}

	return stdout, stderr, err
}

// Login saves credentials in the runner's config file
func (runner *CommandRunner) Login() {
	runner.t.Helper()

	args := []string{"login", "--url", runner.config.ServiceURL, "--apikey", runner.config.APIKey}
	if runner.config.AuthURL != "" {
		args = append(args, "--auth-url", runner.config.AuthURL)
	}

	_, stderr, err := runner.Run(args...)
	require.NoError(runner.t, err, "login failed: %s", stderr)
}

// AssertJSONOutput decodes output into out, failing the test on invalid JSON
func AssertJSONOutput(t *testing.T, output string, out interface{}) {
	t.Helper()

	require.NoError(t, json.Unmarshal([]byte(output), out), "output is not valid JSON: %s", output)
}

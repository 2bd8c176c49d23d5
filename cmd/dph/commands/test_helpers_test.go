package commands

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"sync"
	"testing"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

// findSubcommand finds a subcommand by name within a cobra command.
func findSubcommand(cmd *cobra.Command, name string) *cobra.Command {
	for _, c := range cmd.Commands() {
		if c.Name() == name {
			return c
		}
	}

	return nil
}

// useConfig points viper at an empty config file in a temp dir and seeds it with values.
// Tests using it share viper's global state and must not run in parallel.
func useConfig(t *testing.T, values map[string]interface{}) string {
	t.Helper()

	viper.Reset()
	t.Cleanup(viper.Reset)

	path := filepath.Join(t.TempDir(), "config.yml")
	viper.SetConfigFile(path)

	for key, value := range values {
		viper.Set(key, value)
	}

	return path
}

// executeCommand runs cmd with args and returns what it wrote to stdout.
func executeCommand(cmd *cobra.Command, args ...string) (string, error) {
	out := &bytes.Buffer{}
	cmd.SetOut(out)
	cmd.SetErr(io.Discard)
	cmd.SetArgs(args)

	err := cmd.Execute()

	return out.String(), err
}

// seenRequest is what the fake service received.
type seenRequest struct {
	Method      string
	Path        string
	Query       map[string][]string
	ContentType string
	Auth        string
	Body        json.RawMessage
}

// fakeService is a Data Product Hub stand-in with canned responses per path.
type fakeService struct {
	mu       sync.Mutex
	requests []seenRequest
	handler  func(w http.ResponseWriter, r *http.Request)
}

func newFakeService(t *testing.T, handler func(w http.ResponseWriter, r *http.Request)) (*httptest.Server, *fakeService) {
	t.Helper()

	service := &fakeService{handler: handler}

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		seen := seenRequest{
			Method:      r.Method,
			Path:        r.URL.Path,
			Query:       r.URL.Query(),
			ContentType: r.Header.Get("Content-Type"),
			Auth:        r.Header.Get("Authorization"),
		}

		var body json.RawMessage
		if json.NewDecoder(r.Body).Decode(&body) == nil {
			seen.Body = body
		}

		service.mu.Lock()
		service.requests = append(service.requests, seen)
		service.mu.Unlock()

		w.Header().Set("Content-Type", "application/json")
		service.handler(w, r)
	}))
	t.Cleanup(server.Close)

	return server, service
}

func (s *fakeService) Requests() []seenRequest {
	s.mu.Lock()
	defer s.mu.Unlock()

	return append([]seenRequest(nil), s.requests...)
}

func writeJSON(w http.ResponseWriter, status int, body interface{}) {
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(body)
}

const notFoundResponse = `{"errors":[{"code":"not_found","message":"Data product not found"}],"trace":"7d1e","status_code":404}`

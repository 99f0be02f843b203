package main

import (
	"bytes"
	"net/http/httptest"
	"path/filepath"
	"testing"

	"eventpass/internal/devbackend"
	"eventpass/internal/models"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newBackend(t *testing.T) (*devbackend.Server, string) {
	t.Helper()
	backend := devbackend.New([]byte("test-secret"), zerolog.Nop())
	require.NoError(t, backend.AddUser("ada@example.com", "ada", "secret1", true))
	backend.AddEvent(models.EventInput{
		Title:       "Go Meetup",
		Description: "Monthly meetup",
		Date:        "2024-03-01",
		Location:    "Berlin",
	}, 0)

	srv := httptest.NewServer(backend)
	t.Cleanup(srv.Close)
	return backend, srv.URL
}

func baseArgs(apiURL, dbPath string) []string {
	return []string{"-api", apiURL, "-db", dbPath, "-secret", "test"}
}

func TestRun_LoginAndStatus(t *testing.T) {
	_, apiURL := newBackend(t)
	dbPath := filepath.Join(t.TempDir(), "creds.db")

	stdout := new(bytes.Buffer)
	stderr := new(bytes.Buffer)
	stdin := new(bytes.Buffer)

	args := append(baseArgs(apiURL, dbPath), "login", "-email", "ada@example.com", "-password", "secret1")
	require.NoError(t, run(args, stdin, stdout, stderr))
	assert.Contains(t, stdout.String(), "Login successful")

	// The token survives across invocations
	stdout.Reset()
	require.NoError(t, run(append(baseArgs(apiURL, dbPath), "status"), stdin, stdout, stderr))
	assert.Contains(t, stdout.String(), "Screen: EventFeed")

	stdout.Reset()
	require.NoError(t, run(append(baseArgs(apiURL, dbPath), "logout"), stdin, stdout, stderr))

	stdout.Reset()
	require.NoError(t, run(append(baseArgs(apiURL, dbPath), "status"), stdin, stdout, stderr))
	assert.Contains(t, stdout.String(), "Screen: Login")
}

func TestRun_LoginBadPassword(t *testing.T) {
	_, apiURL := newBackend(t)
	dbPath := filepath.Join(t.TempDir(), "creds.db")

	stdout := new(bytes.Buffer)
	stderr := new(bytes.Buffer)
	stdin := new(bytes.Buffer)

	args := append(baseArgs(apiURL, dbPath), "login", "-email", "ada@example.com", "-password", "wrong")
	err := run(args, stdin, stdout, stderr)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "login failed")
}

func TestRun_InteractivePassword(t *testing.T) {
	_, apiURL := newBackend(t)
	dbPath := filepath.Join(t.TempDir(), "creds.db")

	stdout := new(bytes.Buffer)
	stderr := new(bytes.Buffer)
	stdin := bytes.NewBufferString("secret1\n")

	args := append(baseArgs(apiURL, dbPath), "login", "-email", "ada@example.com")
	require.NoError(t, run(args, stdin, stdout, stderr))

	output := stdout.String()
	assert.Contains(t, output, "Password: ")
	assert.Contains(t, output, "Login successful")
}

func TestRun_InteractivePassword_Empty(t *testing.T) {
	_, apiURL := newBackend(t)

	stdout := new(bytes.Buffer)
	stderr := new(bytes.Buffer)
	stdin := bytes.NewBufferString("\n")

	args := []string{"-api", apiURL, "-ephemeral", "login", "-email", "ada@example.com"}
	err := run(args, stdin, stdout, stderr)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "password cannot be empty")
}

func TestRun_SignupThenBuy(t *testing.T) {
	_, apiURL := newBackend(t)
	dbPath := filepath.Join(t.TempDir(), "creds.db")

	stdout := new(bytes.Buffer)
	stderr := new(bytes.Buffer)
	stdin := new(bytes.Buffer)

	args := append(baseArgs(apiURL, dbPath), "signup", "-username", "bob", "-email", "bob@example.com", "-password", "hunter22")
	require.NoError(t, run(args, stdin, stdout, stderr))
	assert.Contains(t, stdout.String(), "Account created successfully")

	stdout.Reset()
	require.NoError(t, run(append(baseArgs(apiURL, dbPath), "buy", "-event", "2"), stdin, stdout, stderr))
	assert.Contains(t, stdout.String(), "Ticket purchased")
	assert.Contains(t, stdout.String(), `"event_id":2`)
}

func TestRun_SignupShortPassword(t *testing.T) {
	stdout := new(bytes.Buffer)
	stderr := new(bytes.Buffer)
	stdin := new(bytes.Buffer)

	args := []string{"-ephemeral", "signup", "-username", "bob", "-email", "bob@example.com", "-password", "abc"}
	err := run(args, stdin, stdout, stderr)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "at least 6 characters")
}

func TestRun_BuyWithoutLogin(t *testing.T) {
	_, apiURL := newBackend(t)

	stdout := new(bytes.Buffer)
	stderr := new(bytes.Buffer)
	stdin := new(bytes.Buffer)

	args := []string{"-api", apiURL, "-ephemeral", "buy", "-event", "2"}
	err := run(args, stdin, stdout, stderr)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "not logged in")
}

func TestRun_Events(t *testing.T) {
	_, apiURL := newBackend(t)

	stdout := new(bytes.Buffer)
	stderr := new(bytes.Buffer)
	stdin := new(bytes.Buffer)

	args := []string{"-api", apiURL, "-ephemeral", "events"}
	require.NoError(t, run(args, stdin, stdout, stderr))
	assert.Contains(t, stdout.String(), "Go Meetup")
}

func TestRun_EventsFallsBackToSamples(t *testing.T) {
	srv := httptest.NewServer(nil)
	apiURL := srv.URL
	srv.Close()

	stdout := new(bytes.Buffer)
	stderr := new(bytes.Buffer)
	stdin := new(bytes.Buffer)

	args := []string{"-api", apiURL, "-ephemeral", "events"}
	require.NoError(t, run(args, stdin, stdout, stderr))
	assert.NotContains(t, stdout.String(), "Could not load")
	assert.Contains(t, stdout.String(), "Sample Event 1")
	assert.Contains(t, stdout.String(), "Sample Event 2")
}

func TestRun_MissingCommand(t *testing.T) {
	stdout := new(bytes.Buffer)
	stderr := new(bytes.Buffer)
	stdin := new(bytes.Buffer)

	err := run([]string{"-ephemeral"}, stdin, stdout, stderr)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "missing command")
	assert.Contains(t, stdout.String(), "Usage:")
}

func TestRun_UnknownCommand(t *testing.T) {
	stdout := new(bytes.Buffer)
	stderr := new(bytes.Buffer)
	stdin := new(bytes.Buffer)

	err := run([]string{"-ephemeral", "dance"}, stdin, stdout, stderr)
	require.Error(t, err)
	assert.Contains(t, err.Error(), `unknown command "dance"`)
}

func TestRun_InvalidDBPath(t *testing.T) {
	stdout := new(bytes.Buffer)
	stderr := new(bytes.Buffer)
	stdin := new(bytes.Buffer)

	err := run([]string{"-db", t.TempDir(), "status"}, stdin, stdout, stderr)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to open credentials")
}

func TestRun_InvalidFlag(t *testing.T) {
	stdout := new(bytes.Buffer)
	stderr := new(bytes.Buffer)
	stdin := new(bytes.Buffer)

	err := run([]string{"-invalid"}, stdin, stdout, stderr)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "flag provided but not defined")
}

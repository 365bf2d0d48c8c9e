package app

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeFile(t *testing.T, dir, name, body string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(body), 0o600))
	return path
}

func TestRunSinglePass(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		code := strings.TrimPrefix(r.URL.Path, "/invites/")
		switch code {
		case "abc123":
			_, _ = w.Write([]byte(`{
				"type": 0,
				"expires_at": null,
				"guild": {"id": "g-1", "name": "Guild One"},
				"approximate_member_count": 50,
				"approximate_presence_count": 5
			}`))
		case "tiny99":
			_, _ = w.Write([]byte(`{
				"type": 0,
				"guild": {"id": "g-2", "name": "Tiny"},
				"approximate_member_count": 2,
				"approximate_presence_count": 1
			}`))
		default:
			http.Error(w, `{"message": "Unknown Invite"}`, http.StatusNotFound)
		}
	}))
	defer srv.Close()

	dir := t.TempDir()
	configPath := writeFile(t, dir, "config.json", fmt.Sprintf(`[{
		"min_members": 10,
		"max_members": 1000,
		"min_members_online": 1,
		"min_boosts": 0,
		"threads": 4,
		"api_base_url": %q
	}]`, srv.URL))
	invitesPath := writeFile(t, dir, "invites.txt", strings.Join([]string{
		"abc123",
		"https://discord.gg/abc123", // duplicate after normalization
		"tiny99",
		"gone77",
	}, "\n") + "\n")

	var stdout, stderr strings.Builder
	code := Run(
		context.Background(),
		[]string{
			"--yes", "--no-color",
			"--config", configPath,
			"--invites", invitesPath,
			"--out", dir,
		},
		strings.NewReader(""),
		&stdout, &stderr,
	)
	require.Zero(t, code, "stderr: %s", stderr.String())

	out := stdout.String()
	assert.Contains(t, out, "Successfully loaded 4 invites")
	assert.Contains(t, out, "Ignoring 1 duplicate invites")
	assert.Contains(t, out, "Hits: 1, Bad: 1, Failed: 1")

	valid, err := os.ReadFile(filepath.Join(dir, "valid.txt"))
	require.NoError(t, err)
	assert.Equal(t, "abc123\n", string(valid))

	ids, err := os.ReadFile(filepath.Join(dir, "valid_ids.txt"))
	require.NoError(t, err)
	assert.Equal(t, "g-1\n", string(ids))

	bad, err := os.ReadFile(filepath.Join(dir, "bad.txt"))
	require.NoError(t, err)
	assert.Equal(t, "tiny99\n", string(bad))

	failed, err := os.ReadFile(filepath.Join(dir, "failed.txt"))
	require.NoError(t, err)
	assert.Equal(t, "gone77\n", string(failed))
}

func TestRunPromptWaitsForEnter(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, `{}`, http.StatusNotFound)
	}))
	defer srv.Close()

	dir := t.TempDir()
	configPath := writeFile(t, dir, "config.json", fmt.Sprintf(
		`[{"min_members": 1, "max_members": 10, "api_base_url": %q}]`, srv.URL))
	invitesPath := writeFile(t, dir, "invites.txt", "abc123\n")

	var stdout strings.Builder
	code := Run(
		context.Background(),
		[]string{"--no-color", "--config", configPath, "--invites", invitesPath, "--out", dir},
		strings.NewReader("\n"),
		&stdout, io.Discard,
	)
	assert.Zero(t, code)
	assert.Contains(t, stdout.String(), "Press ENTER to launch the checker")
}

func TestRunHelp(t *testing.T) {
	var stdout strings.Builder
	code := Run(context.Background(), []string{"--help"}, strings.NewReader(""), &stdout, io.Discard)
	assert.Zero(t, code)
	assert.Contains(t, stdout.String(), "usage:")
}

func TestRunMissingConfig(t *testing.T) {
	var stderr strings.Builder
	code := Run(
		context.Background(),
		[]string{"--yes", "--config", filepath.Join(t.TempDir(), "nope.json")},
		strings.NewReader(""),
		io.Discard, &stderr,
	)
	assert.Equal(t, 1, code)
	assert.Contains(t, stderr.String(), "configuration error")
}

func TestRunMissingInvites(t *testing.T) {
	dir := t.TempDir()
	configPath := writeFile(t, dir, "config.json", `[{"min_members": 1, "max_members": 10}]`)

	var stderr strings.Builder
	code := Run(
		context.Background(),
		[]string{"--yes", "--config", configPath, "--invites", filepath.Join(dir, "missing.txt"), "--out", dir},
		strings.NewReader(""),
		io.Discard, &stderr,
	)
	assert.Equal(t, 1, code)
	assert.Contains(t, stderr.String(), "pass failed")
}

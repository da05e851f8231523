package app

import (
	"bytes"
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"net/url"
	"os"
	"path/filepath"
	"testing"

	"github.com/google/go-github/v45/github"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pouriyajamshidi/optionalize/internal/testdata"
	"github.com/pouriyajamshidi/optionalize/printers"
)

func TestRun(t *testing.T) {
	t.Run("generates next to the source", func(t *testing.T) {
		dir := t.TempDir()
		t.Chdir(dir)
		path := testdata.WriteSource(t, dir, "widget.go", testdata.WidgetSource)

		var code int
		output := testdata.CaptureOutput(t, func() {
			code = Run([]string{"--no-color", path})
		})

		assert.Equal(t, 0, code)
		assert.FileExists(t, filepath.Join(dir, "widget_optional.go"))
		assert.Contains(t, output, "Generated WidgetOptional from Widget")
		assert.Contains(t, output, "--- optionalize statistics ---")
	})

	t.Run("json events", func(t *testing.T) {
		dir := t.TempDir()
		t.Chdir(dir)
		path := testdata.WriteSource(t, dir, "widget.go", testdata.WidgetSource)

		var code int
		output := testdata.CaptureOutput(t, func() {
			code = Run([]string{"-j", "--wrapper", "pointer", path})
		})
		require.Equal(t, 0, code)

		events := testdata.DecodeJSONEvents(t, output)
		require.Len(t, events, 4)
		assert.Equal(t, printers.JSONEventType("start"), events[0].Type)
		assert.Equal(t, "pointer", events[0].Wrapper)
		assert.Equal(t, "WidgetOptional", events[1].Generated)
		assert.Equal(t, printers.JSONEventType("statistics"), events[3].Type)
	})

	t.Run("csv statistics carry the end of the run", func(t *testing.T) {
		dir := t.TempDir()
		t.Chdir(dir)
		path := testdata.WriteSource(t, dir, "widget.go", testdata.WidgetSource)
		report := filepath.Join(dir, "report")

		var code int
		testdata.CaptureOutput(t, func() {
			code = Run([]string{"--csv", report, path})
		})
		require.Equal(t, 0, code)

		stats, err := os.ReadFile(report + "_stats.csv")
		require.NoError(t, err)
		assert.Contains(t, string(stats), "End Timestamp")
		assert.NotContains(t, string(stats), "In progress")
	})

	t.Run("rejection exits with 1", func(t *testing.T) {
		dir := t.TempDir()
		t.Chdir(dir)
		path := testdata.WriteSource(t, dir, "store.go", testdata.InterfaceSource)

		var code int
		output := testdata.CaptureOutput(t, func() {
			code = Run([]string{"--no-color", path})
		})

		assert.Equal(t, 1, code)
		assert.Contains(t, output, "Rejected Store")
		assert.NoFileExists(t, filepath.Join(dir, "store_optional.go"))
	})

	t.Run("unknown wrapper", func(t *testing.T) {
		t.Chdir(t.TempDir())
		assert.Equal(t, 1, Run([]string{"--wrapper", "box"}))
	})

	t.Run("pretty without json", func(t *testing.T) {
		t.Chdir(t.TempDir())
		assert.Equal(t, 1, Run([]string{"--pretty"}))
	})

	t.Run("version", func(t *testing.T) {
		var code int
		output := testdata.CaptureOutput(t, func() {
			code = Run([]string{"-v"})
		})

		assert.Equal(t, 0, code)
		assert.Contains(t, output, "OPTIONALIZE version")
	})
}

func TestHandleError(t *testing.T) {
	tests := []struct {
		name       string
		err        error
		wantCode   int
		wantStdout string
		wantStderr string
	}{
		{"nil", nil, 0, "", ""},
		{"help", ErrHelpShown, 0, "", ""},
		{"version", ErrVersionRequested, 0, "OPTIONALIZE version", ""},
		{"usage", fmt.Errorf("%w: unknown flag: --bogus", ErrUsageRequested), 1, "", "unknown flag: --bogus"},
		{"other", fmt.Errorf("initialize logger: boom"), 1, "", "error: initialize logger: boom"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var stdout, stderr bytes.Buffer

			code := handleErrorTo(tt.err, &stdout, &stderr)

			assert.Equal(t, tt.wantCode, code)
			assert.Contains(t, stdout.String(), tt.wantStdout)
			assert.Contains(t, stderr.String(), tt.wantStderr)
		})
	}
}

func TestPrintUsage(t *testing.T) {
	var buf bytes.Buffer
	PrintUsage(&buf)

	for _, want := range []string{"OPTIONALIZE version", "optionalize [flags] [path ...]", "--type", "--check-updates"} {
		assert.Contains(t, buf.String(), want)
	}
}

func TestCompareVersions(t *testing.T) {
	tests := []struct {
		v1, v2 string
		want   int
	}{
		{"1.0.0", "1.0.0", 0},
		{"1.0.0", "1.0.1", -1},
		{"1.2.0", "1.1.9", 1},
		{"1.10.0", "1.9.0", 1},
		{"1.0", "1.0.0", -1},
		{"2.0.0.1", "2.0.0", 1},
	}

	for _, tt := range tests {
		t.Run(tt.v1+"_vs_"+tt.v2, func(t *testing.T) {
			if got := compareVersions(tt.v1, tt.v2); got != tt.want {
				t.Errorf("compareVersions(%q, %q) = %d, want %d", tt.v1, tt.v2, got, tt.want)
			}
		})
	}
}

func newReleaseClient(t *testing.T, tag string) *github.Client {
	t.Helper()

	mux := http.NewServeMux()
	mux.HandleFunc("/repos/"+Owner+"/"+Repo+"/releases/latest", func(w http.ResponseWriter, _ *http.Request) {
		fmt.Fprintf(w, `{"tag_name": %q}`, tag)
	})

	server := httptest.NewServer(mux)
	t.Cleanup(server.Close)

	client := github.NewClient(nil)
	baseURL, err := url.Parse(server.URL + "/")
	require.NoError(t, err)
	client.BaseURL = baseURL

	return client
}

func TestCheckForUpdates(t *testing.T) {
	oldVersion := Version
	Version = "1.1.0"
	t.Cleanup(func() { Version = oldVersion })

	tests := []struct {
		name    string
		tag     string
		want    string
		wantErr bool
	}{
		{"newer release", "v1.2.0", "Found newer version 1.2.0", false},
		{"same release", "v1.1.0", "OPTIONALIZE is on the latest version: 1.1.0", false},
		{"older release", "1.0.3", "Current version 1.1.0 is newer than the latest release 1.0.3", false},
		{"malformed tag", "nightly", "", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			msg, err := checkForUpdates(context.Background(), newReleaseClient(t, tt.tag))

			if tt.wantErr {
				assert.Error(t, err)
				return
			}

			require.NoError(t, err)
			assert.Contains(t, msg, tt.want)
		})
	}
}

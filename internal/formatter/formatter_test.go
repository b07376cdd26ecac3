package formatter

import (
	"encoding/json"
	"errors"
	"path/filepath"
	"strings"
	"testing"

	"github.com/desertthunder/spotdir/internal/models"
	"github.com/desertthunder/spotdir/internal/shared"
	"github.com/desertthunder/spotdir/internal/tasks"
	th "github.com/desertthunder/spotdir/internal/testing"
	"gopkg.in/yaml.v3"
)

func sampleResult() *tasks.SyncResult {
	return &tasks.SyncResult{
		RunID: "run-1",
		Collection: &models.Collection{
			ID:   "pl-1",
			Name: "MyFolder",
			URL:  "https://open.spotify.com/playlist/pl-1",
		},
		Items: []tasks.ItemResult{
			{Name: "02 - Queen - Bohemian Rhapsody.mp3", Query: "Bohemian Rhapsody Queen", Outcome: tasks.OutcomeFound, URI: "spotify:track:1"},
			{Name: "NoMatchXYZ123.flac", Query: "NoMatchXYZ123", Outcome: tasks.OutcomeMissing},
			{Name: "A | B.mp3", Query: "A | B", Outcome: tasks.OutcomeFailed, Error: "boom"},
		},
		Queries: []string{"Bohemian Rhapsody Queen", "NoMatchXYZ123", "A | B"},
		Matched: []string{"spotify:track:1"},
		Missing: 1,
		Failed:  1,
		Log: []tasks.ProgressUpdate{
			{Phase: tasks.CreatePlaylist, Message: "📁 Created playlist: https://open.spotify.com/playlist/pl-1"},
			{Phase: tasks.SearchTracks, Outcome: tasks.OutcomeFound, Message: "✔ Found: Bohemian Rhapsody Queen"},
			{Phase: tasks.AddTracks, Message: "🎉 Added 1 tracks!"},
		},
	}
}

func TestRender(t *testing.T) {
	t.Run("JSON", func(t *testing.T) {
		data, err := Render(sampleResult(), FormatJSON)
		if err != nil {
			t.Fatalf("Render failed: %v", err)
		}

		var decoded map[string]any
		if err := json.Unmarshal(data, &decoded); err != nil {
			t.Fatalf("invalid JSON: %v", err)
		}
		if decoded["run_id"] != "run-1" {
			t.Errorf("expected run_id, got %v", decoded["run_id"])
		}
		items := decoded["items"].([]any)
		if items[0].(map[string]any)["outcome"] != "found" {
			t.Errorf("expected outcome as text, got %v", items[0])
		}
	})

	t.Run("YAML", func(t *testing.T) {
		data, err := Render(sampleResult(), FormatYAML)
		if err != nil {
			t.Fatalf("Render failed: %v", err)
		}

		var decoded map[string]any
		if err := yaml.Unmarshal(data, &decoded); err != nil {
			t.Fatalf("invalid YAML: %v", err)
		}
		collection := decoded["collection"].(map[string]any)
		if collection["url"] != "https://open.spotify.com/playlist/pl-1" {
			t.Errorf("unexpected collection %v", collection)
		}
		if !strings.Contains(string(data), "outcome: missing") {
			t.Errorf("expected text outcomes in YAML, got:\n%s", data)
		}
	})

	t.Run("CSV", func(t *testing.T) {
		data, err := Render(sampleResult(), FormatCSV)
		if err != nil {
			t.Fatalf("Render failed: %v", err)
		}
		output := string(data)

		if !strings.HasPrefix(output, "Position,File,Artist,Title,Query,Outcome,URI,Error\n") {
			t.Errorf("CSV missing headers, got: %s", output)
		}
		if !strings.Contains(output, "1,02 - Queen - Bohemian Rhapsody.mp3,Queen,Bohemian Rhapsody,Bohemian Rhapsody Queen,found,spotify:track:1,") {
			t.Errorf("CSV missing first row, got: %s", output)
		}
		if lines := strings.Count(output, "\n"); lines != 4 {
			t.Errorf("expected 4 lines, got %d", lines)
		}
	})

	t.Run("Markdown", func(t *testing.T) {
		data, err := Render(sampleResult(), FormatMarkdown)
		if err != nil {
			t.Fatalf("Render failed: %v", err)
		}
		output := string(data)

		for _, want := range []string{
			"# MyFolder",
			"[MyFolder](https://open.spotify.com/playlist/pl-1)",
			"**Matched**: 1 of 3",
			"| 3 | A \\| B.mp3 | A \\| B | failed: boom |",
			"- 🎉 Added 1 tracks!",
		} {
			if !strings.Contains(output, want) {
				t.Errorf("Markdown missing %q, got:\n%s", want, output)
			}
		}
	})

	t.Run("Text", func(t *testing.T) {
		data, err := Render(sampleResult(), FormatText)
		if err != nil {
			t.Fatalf("Render failed: %v", err)
		}
		output := string(data)

		if !strings.HasPrefix(output, "📁 Created playlist: https://open.spotify.com/playlist/pl-1\n") {
			t.Errorf("expected log first, got:\n%s", output)
		}
		if !strings.Contains(output, "Matched: 1/3") {
			t.Errorf("expected summary, got:\n%s", output)
		}
	})

	t.Run("Without Collection", func(t *testing.T) {
		result := &tasks.SyncResult{RunID: "run-2", Log: []tasks.ProgressUpdate{{Message: "❌ Could not load profile: nope"}}}
		data, err := Render(result, FormatMarkdown)
		if err != nil {
			t.Fatalf("Render failed: %v", err)
		}
		if !strings.HasPrefix(string(data), "# Sync report") {
			t.Errorf("expected fallback title, got:\n%s", data)
		}
	})

	t.Run("Errors", func(t *testing.T) {
		if _, err := Render(nil, FormatJSON); !errors.Is(err, shared.ErrInvalidInput) {
			t.Errorf("expected ErrInvalidInput, got %v", err)
		}
		if _, err := Render(sampleResult(), Format("xml")); !errors.Is(err, shared.ErrInvalidArgument) {
			t.Errorf("expected ErrInvalidArgument, got %v", err)
		}
	})
}

func TestParseFormat(t *testing.T) {
	tc := []struct {
		input string
		want  Format
		ok    bool
	}{
		{"json", FormatJSON, true},
		{"YAML", FormatYAML, true},
		{"yml", FormatYAML, true},
		{"csv", FormatCSV, true},
		{"md", FormatMarkdown, true},
		{"markdown", FormatMarkdown, true},
		{"text", FormatText, true},
		{"txt", FormatText, true},
		{"xml", "", false},
	}

	for _, tt := range tc {
		t.Run(tt.input, func(t *testing.T) {
			got, err := ParseFormat(tt.input)
			if (err == nil) != tt.ok {
				t.Fatalf("ParseFormat(%q) error = %v", tt.input, err)
			}
			if got != tt.want {
				t.Errorf("ParseFormat(%q) = %q, want %q", tt.input, got, tt.want)
			}
		})
	}

	if FormatFromPath("report.yml") != FormatYAML {
		t.Error("expected yml extension to select YAML")
	}
	if FormatFromPath("report") != FormatJSON {
		t.Error("expected JSON default")
	}
}

func TestWriteReport(t *testing.T) {
	path := filepath.Join(t.TempDir(), "reports", "run.md")
	if err := WriteReport(sampleResult(), path, FormatMarkdown); err != nil {
		t.Fatalf("WriteReport failed: %v", err)
	}

	th.AssertFileExists(t, path)
	if content := th.MustReadFile(t, path); !strings.Contains(content, "# MyFolder") {
		t.Errorf("unexpected report content:\n%s", content)
	}
}

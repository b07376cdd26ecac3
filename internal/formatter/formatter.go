// package formatter renders sync reports to various formats (JSON, YAML, CSV, Markdown, plain text)
package formatter

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/desertthunder/spotdir/internal/shared"
	"github.com/desertthunder/spotdir/internal/tasks"
	"gopkg.in/yaml.v3"
)

// Format is a report output format.
type Format string

const (
	FormatJSON     Format = "json"
	FormatYAML     Format = "yaml"
	FormatCSV      Format = "csv"
	FormatMarkdown Format = "markdown"
	FormatText     Format = "txt"
)

// Formats lists every supported [Format].
var Formats = []Format{FormatJSON, FormatYAML, FormatCSV, FormatMarkdown, FormatText}

// ParseFormat resolves a format name or common alias.
func ParseFormat(name string) (Format, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "json":
		return FormatJSON, nil
	case "yaml", "yml":
		return FormatYAML, nil
	case "csv":
		return FormatCSV, nil
	case "markdown", "md":
		return FormatMarkdown, nil
	case "txt", "text":
		return FormatText, nil
	default:
		return "", fmt.Errorf("%w: unknown report format %q", shared.ErrInvalidArgument, name)
	}
}

// FormatFromPath infers a [Format] from a file extension, defaulting to JSON.
func FormatFromPath(path string) Format {
	f, err := ParseFormat(strings.TrimPrefix(filepath.Ext(path), "."))
	if err != nil {
		return FormatJSON
	}
	return f
}

// Render converts a sync result to the given format.
func Render(result *tasks.SyncResult, format Format) ([]byte, error) {
	if result == nil {
		return nil, fmt.Errorf("%w: no sync result", shared.ErrInvalidInput)
	}

	switch format {
	case FormatJSON:
		return shared.MarshalJSON(result, true)
	case FormatYAML:
		return ReportToYAML(result)
	case FormatCSV:
		return ReportToCSV(result)
	case FormatMarkdown:
		return ReportToMarkdown(result)
	case FormatText:
		return ReportToText(result)
	default:
		return nil, fmt.Errorf("%w: unknown report format %q", shared.ErrInvalidArgument, format)
	}
}

// ReportToYAML converts a sync result to YAML.
func ReportToYAML(result *tasks.SyncResult) ([]byte, error) {
	var buf bytes.Buffer
	enc := yaml.NewEncoder(&buf)
	enc.SetIndent(2)
	if err := enc.Encode(result); err != nil {
		return nil, fmt.Errorf("failed to encode YAML: %w", err)
	}
	if err := enc.Close(); err != nil {
		return nil, fmt.Errorf("failed to encode YAML: %w", err)
	}
	return buf.Bytes(), nil
}

// ReportToCSV converts a sync result to CSV with columns: Position, File, Artist, Title, Query, Outcome, URI, Error
func ReportToCSV(result *tasks.SyncResult) ([]byte, error) {
	var buf bytes.Buffer
	writer := csv.NewWriter(&buf)

	headers := []string{"Position", "File", "Artist", "Title", "Query", "Outcome", "URI", "Error"}
	if err := writer.Write(headers); err != nil {
		return nil, fmt.Errorf("failed to write CSV headers: %w", err)
	}

	for i, item := range result.Items {
		artist, title := shared.SplitArtistTitle(item.Name)
		record := []string{
			strconv.Itoa(i + 1),
			item.Name,
			artist,
			title,
			item.Query,
			item.Outcome.String(),
			item.URI,
			item.Error,
		}
		if err := writer.Write(record); err != nil {
			return nil, fmt.Errorf("failed to write CSV record: %w", err)
		}
	}

	writer.Flush()
	if err := writer.Error(); err != nil {
		return nil, fmt.Errorf("CSV writer error: %w", err)
	}

	return buf.Bytes(), nil
}

// ReportToMarkdown converts a sync result to Markdown with a summary and a track table.
func ReportToMarkdown(result *tasks.SyncResult) ([]byte, error) {
	var buf bytes.Buffer

	title := "Sync report"
	if result.Collection != nil {
		title = result.Collection.Name
	}
	buf.WriteString(fmt.Sprintf("# %s\n\n", title))

	if result.Collection != nil && result.Collection.URL != "" {
		buf.WriteString(fmt.Sprintf("**Playlist**: [%s](%s)\n", result.Collection.Name, result.Collection.URL))
	}
	buf.WriteString(fmt.Sprintf("**Run**: %s\n", result.RunID))
	buf.WriteString(fmt.Sprintf("**Matched**: %d of %d\n", len(result.Matched), len(result.Items)))
	buf.WriteString(fmt.Sprintf("**Not found**: %d\n", result.Missing))
	buf.WriteString(fmt.Sprintf("**Errors**: %d\n\n", result.Failed))

	if len(result.Items) > 0 {
		buf.WriteString("## Tracks\n\n")
		buf.WriteString("| # | File | Query | Outcome |\n")
		buf.WriteString("|---|------|-------|---------|\n")
		for i, item := range result.Items {
			outcome := item.Outcome.String()
			switch {
			case item.URI != "":
				outcome = fmt.Sprintf("%s (`%s`)", outcome, item.URI)
			case item.Error != "":
				outcome = fmt.Sprintf("%s: %s", outcome, item.Error)
			}
			buf.WriteString(fmt.Sprintf("| %d | %s | %s | %s |\n", i+1, escapeCell(item.Name), escapeCell(item.Query), escapeCell(outcome)))
		}
		buf.WriteString("\n")
	}

	buf.WriteString("## Log\n\n")
	for _, entry := range result.Log {
		buf.WriteString(fmt.Sprintf("- %s\n", entry.Message))
	}

	return buf.Bytes(), nil
}

// ReportToText converts a sync result to the plain progress log followed by a summary.
func ReportToText(result *tasks.SyncResult) ([]byte, error) {
	var buf bytes.Buffer

	for _, entry := range result.Log {
		buf.WriteString(entry.Message + "\n")
	}

	buf.WriteString("\n")
	if result.Collection != nil {
		buf.WriteString(fmt.Sprintf("Playlist: %s\n", result.Collection.Name))
		if result.Collection.URL != "" {
			buf.WriteString(fmt.Sprintf("URL: %s\n", result.Collection.URL))
		}
	}
	buf.WriteString(fmt.Sprintf("Matched: %d/%d\n", len(result.Matched), len(result.Items)))

	return buf.Bytes(), nil
}

// WriteReport renders result and writes it to path, creating parent directories as needed.
func WriteReport(result *tasks.SyncResult, path string, format Format) error {
	data, err := Render(result, format)
	if err != nil {
		return fmt.Errorf("failed to render report: %w", err)
	}

	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("failed to create directory: %w", err)
		}
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write report: %w", err)
	}
	return nil
}

func escapeCell(s string) string {
	s = strings.ReplaceAll(s, "|", `\|`)
	return strings.ReplaceAll(s, "\n", " ")
}

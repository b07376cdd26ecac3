// package intake enumerates audio files in a local folder.
package intake

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/desertthunder/spotdir/internal/shared"
)

// DefaultExtensions are the audio file extensions kept when no allow-list is configured.
var DefaultExtensions = []string{".mp3", ".flac", ".wav", ".m4a", ".aac", ".ogg", ".opus", ".aiff", ".wma", ".alac"}

// Folder is a local folder and the audio file names it holds.
type Folder struct {
	Path  string
	Name  string   // Base name, used as the default playlist name
	Files []string // File names sorted lexically
}

// ReadFolder lists the audio files directly inside path.
//
// Hidden entries and subdirectories are skipped. Extensions are matched case-insensitively.
func ReadFolder(path string, extensions []string) (*Folder, error) {
	if strings.TrimSpace(path) == "" {
		return nil, fmt.Errorf("%w: folder path", shared.ErrMissingArgument)
	}

	abs, err := filepath.Abs(path)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve %s: %w", path, err)
	}

	entries, err := os.ReadDir(abs)
	if err != nil {
		return nil, fmt.Errorf("%w: failed to read folder %s: %v", shared.ErrInvalidInput, path, err)
	}

	if len(extensions) == 0 {
		extensions = DefaultExtensions
	}
	allowed := make(map[string]struct{}, len(extensions))
	for _, ext := range extensions {
		ext = strings.ToLower(strings.TrimSpace(ext))
		if ext == "" {
			continue
		}
		if !strings.HasPrefix(ext, ".") {
			ext = "." + ext
		}
		allowed[ext] = struct{}{}
	}

	folder := &Folder{Path: abs, Name: filepath.Base(abs)}
	for _, entry := range entries {
		name := entry.Name()
		if strings.HasPrefix(name, ".") || !entry.Type().IsRegular() {
			continue
		}
		if _, ok := allowed[strings.ToLower(filepath.Ext(name))]; !ok {
			continue
		}
		folder.Files = append(folder.Files, name)
	}

	sort.Strings(folder.Files)
	return folder, nil
}

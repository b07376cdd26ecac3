// package testing contains shared testing utilities
package testing

import (
	"context"
	"errors"
	"io"
	"os"
	"sync"
	"testing"

	"github.com/desertthunder/spotdir/internal/models"
)

// MockCatalog is a test double for services.Catalog that records every call.
type MockCatalog struct {
	mu sync.Mutex

	Profile    *models.Profile
	ProfileErr error
	Collection *models.Collection
	CreateErr  error
	Results    map[string]string // query → track URI
	SearchErrs map[string]error  // query → search failure
	AddErr     error

	ProfileCalls int
	CreateCalls  int
	CreatedNames []string
	Searches     []string
	Appended     [][]string
}

// NewMockCatalog returns a catalog with a profile and playlist that succeed.
func NewMockCatalog() *MockCatalog {
	return &MockCatalog{
		Profile: &models.Profile{ID: "user-1", DisplayName: "Test User"},
		Collection: &models.Collection{
			ID:  "playlist-1",
			URL: "https://open.spotify.com/playlist/playlist-1",
		},
		Results:    map[string]string{},
		SearchErrs: map[string]error{},
	}
}

func (m *MockCatalog) GetProfile(ctx context.Context) (*models.Profile, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.ProfileCalls++
	if m.ProfileErr != nil {
		return nil, m.ProfileErr
	}
	return m.Profile, nil
}

func (m *MockCatalog) CreatePlaylist(ctx context.Context, ownerID, name string) (*models.Collection, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.CreateCalls++
	m.CreatedNames = append(m.CreatedNames, name)
	if m.CreateErr != nil {
		return nil, m.CreateErr
	}
	c := *m.Collection
	c.Name = name
	c.OwnerID = ownerID
	return &c, nil
}

func (m *MockCatalog) SearchTrack(ctx context.Context, query string) (*string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Searches = append(m.Searches, query)
	if err, ok := m.SearchErrs[query]; ok {
		return nil, err
	}
	if uri, ok := m.Results[query]; ok {
		return &uri, nil
	}
	return nil, nil
}

func (m *MockCatalog) AddTracks(ctx context.Context, playlistID string, uris []string) (int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Appended = append(m.Appended, append([]string(nil), uris...))
	calls := (len(uris) + 99) / 100
	if m.AddErr != nil {
		return 1, m.AddErr
	}
	return calls, nil
}

// SearchCount returns how many searches ran.
func (m *MockCatalog) SearchCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.Searches)
}

// FWriter always returns an error on Write
type FWriter struct{}

func (f *FWriter) Write(p []byte) (n int, err error) {
	return 0, errors.New("write failed")
}

// LimitedWriter fails after a certain number of writes
type LimitedWriter struct {
	maxWrites int
	written   int
	target    io.Writer
}

func (l *LimitedWriter) Write(p []byte) (n int, err error) {
	if l.written >= l.maxWrites {
		return 0, errors.New("write limit exceeded")
	}
	l.written++
	return l.target.Write(p)
}

func NewLimitedWriter(maxWrites, written int, target io.Writer) LimitedWriter {
	return LimitedWriter{maxWrites: maxWrites, written: written, target: target}
}

// MustWriteFile creates path with content, failing the test on error.
func MustWriteFile(t *testing.T, path, content string) {
	t.Helper()
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("Failed to write file %s: %v", path, err)
	}
}

func AssertFileExists(t *testing.T, path string) {
	t.Helper()
	if _, err := os.Stat(path); os.IsNotExist(err) {
		t.Errorf("File does not exist: %s", path)
	}
}

func MustReadFile(t *testing.T, path string) string {
	t.Helper()
	content, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("Failed to read file %s: %v", path, err)
	}
	return string(content)
}

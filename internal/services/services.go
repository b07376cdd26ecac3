// package services defines interface Catalog for interacting with the Spotify Web API
package services

import (
	"context"

	"github.com/desertthunder/spotdir/internal/models"
)

// Catalog defines the remote operations a sync run performs against the music catalog.
type Catalog interface {
	// GetProfile returns the authenticated user.
	GetProfile(ctx context.Context) (*models.Profile, error)

	// CreatePlaylist creates a new private playlist owned by ownerID.
	CreatePlaylist(ctx context.Context, ownerID, name string) (*models.Collection, error)

	// SearchTrack returns the URI of the best match for query, or nil when nothing matched.
	SearchTrack(ctx context.Context, query string) (*string, error)

	// AddTracks appends uris to the playlist in order and returns the number of requests issued.
	AddTracks(ctx context.Context, playlistID string, uris []string) (int, error)
}

var _ Catalog = (*CatalogClient)(nil)

// Chunk splits items into consecutive slices of at most size elements.
//
// Concatenating the chunks yields items unchanged. An empty input yields no chunks.
func Chunk[T any](items []T, size int) [][]T {
	if size <= 0 || len(items) == 0 {
		return nil
	}

	chunks := make([][]T, 0, (len(items)+size-1)/size)
	for start := 0; start < len(items); start += size {
		end := min(start+size, len(items))
		chunks = append(chunks, items[start:end:end])
	}
	return chunks
}

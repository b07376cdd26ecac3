// Spotify Web API operations on top of [CatalogClient]
//
// Response types based on https://developer.spotify.com/documentation/web-api/reference/
package services

import (
	"context"
	"fmt"
	"net/http"
	"net/url"

	"github.com/desertthunder/spotdir/internal/models"
)

// MaxTracksPerRequest is the most URIs one add-items call accepts.
const MaxTracksPerRequest = 100

// PlaylistDescription is attached to every playlist a sync run creates.
const PlaylistDescription = "Created from a local folder by spotdir"

type externalURLs struct {
	Spotify string `json:"spotify"`
}

// SpotifyUser represents a Spotify user profile.
type SpotifyUser struct {
	ID          string `json:"id"`
	DisplayName string `json:"display_name"`
}

// SpotifyPlaylist represents a newly created playlist.
type SpotifyPlaylist struct {
	ID           string       `json:"id"`
	Name         string       `json:"name"`
	ExternalURLs externalURLs `json:"external_urls"`
}

// SpotifyTrack represents a track search hit.
type SpotifyTrack struct {
	ID   string `json:"id"`
	Name string `json:"name"`
	URI  string `json:"uri"`
}

// SpotifySearchResponse is the track section of a search response.
type SpotifySearchResponse struct {
	Tracks struct {
		Items []SpotifyTrack `json:"items"`
	} `json:"tracks"`
}

type createPlaylistRequest struct {
	Name        string `json:"name"`
	Description string `json:"description"`
	Public      bool   `json:"public"`
}

type addTracksRequest struct {
	URIs []string `json:"uris"`
}

// GetProfile retrieves the current authenticated user's profile.
func (c *CatalogClient) GetProfile(ctx context.Context) (*models.Profile, error) {
	raw, err := c.Request(ctx, http.MethodGet, "/me", nil)
	if err != nil {
		return nil, err
	}

	var user SpotifyUser
	if err := decode("GET /me", schemaProfile, raw, &user); err != nil {
		return nil, err
	}
	return &models.Profile{ID: user.ID, DisplayName: user.DisplayName}, nil
}

// CreatePlaylist creates a private playlist named name for ownerID.
func (c *CatalogClient) CreatePlaylist(ctx context.Context, ownerID, name string) (*models.Collection, error) {
	endpoint := fmt.Sprintf("/users/%s/playlists", url.PathEscape(ownerID))
	body := createPlaylistRequest{Name: name, Description: PlaylistDescription, Public: false}

	raw, err := c.Request(ctx, http.MethodPost, endpoint, body)
	if err != nil {
		return nil, err
	}

	var playlist SpotifyPlaylist
	if err := decode("POST "+endpoint, schemaPlaylist, raw, &playlist); err != nil {
		return nil, err
	}

	collectionName := playlist.Name
	if collectionName == "" {
		collectionName = name
	}
	return &models.Collection{
		ID:      playlist.ID,
		Name:    collectionName,
		URL:     playlist.ExternalURLs.Spotify,
		OwnerID: ownerID,
	}, nil
}

// SearchTrack returns the URI of the top track hit for query, or nil when the search is empty.
func (c *CatalogClient) SearchTrack(ctx context.Context, query string) (*string, error) {
	params := url.Values{}
	params.Set("q", query)
	params.Set("type", "track")
	params.Set("limit", "1")

	raw, err := c.Request(ctx, http.MethodGet, "/search?"+params.Encode(), nil)
	if err != nil {
		return nil, err
	}

	var response SpotifySearchResponse
	if err := decode("GET /search", schemaSearch, raw, &response); err != nil {
		return nil, err
	}
	if len(response.Tracks.Items) == 0 {
		return nil, nil
	}

	uri := response.Tracks.Items[0].URI
	return &uri, nil
}

// AddTracks appends uris to the playlist in chunks of [MaxTracksPerRequest], stopping at the first failure.
//
// The returned count includes the failed request.
func (c *CatalogClient) AddTracks(ctx context.Context, playlistID string, uris []string) (int, error) {
	endpoint := fmt.Sprintf("/playlists/%s/tracks", url.PathEscape(playlistID))

	calls := 0
	for i, chunk := range Chunk(uris, MaxTracksPerRequest) {
		calls++
		raw, err := c.Request(ctx, http.MethodPost, endpoint, addTracksRequest{URIs: chunk})
		if err != nil {
			return calls, fmt.Errorf("chunk %d of %d: %w", i+1, (len(uris)+MaxTracksPerRequest-1)/MaxTracksPerRequest, err)
		}
		if err := validate(schemaSnapshot, raw); err != nil {
			c.logger.Warn("unexpected add tracks response", "playlist", playlistID, "error", err)
		}
	}
	return calls, nil
}

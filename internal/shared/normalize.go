package shared

import (
	"regexp"
	"strings"
)

// ArtistTitleSeparator splits "Artist - Title" style file names.
const ArtistTitleSeparator = " - "

var (
	extensionPattern   = regexp.MustCompile(`\.[^/.]+$`)
	trackNumberPattern = regexp.MustCompile(`^\d*[-._)\s]*`)
)

// StripFileName removes the extension and any leading track number from a raw file name.
//
//	"05 - Queen - Bohemian Rhapsody.mp3" → "Queen - Bohemian Rhapsody"
func StripFileName(raw string) string {
	name := extensionPattern.ReplaceAllString(raw, "")
	return trackNumberPattern.ReplaceAllString(name, "")
}

// SplitArtistTitle splits a raw file name into artist and title.
//
// When the name has no " - " separator, artist is empty and title holds the whole trimmed name.
// Everything after the first separator belongs to the title, so "A - B - C" yields artist "A" and title "B - C".
func SplitArtistTitle(raw string) (artist, title string) {
	parts := strings.Split(StripFileName(raw), ArtistTitleSeparator)
	if len(parts) < 2 {
		return "", strings.TrimSpace(parts[0])
	}
	return strings.TrimSpace(parts[0]), strings.TrimSpace(strings.Join(parts[1:], ArtistTitleSeparator))
}

// SearchQuery derives the catalog search query for a raw file name.
//
// Title comes first ("{title} {artist}") since that ranks better in catalog search.
// The function is total: any input, including "", produces an output.
func SearchQuery(raw string) string {
	artist, title := SplitArtistTitle(raw)
	if artist == "" {
		return title
	}
	return strings.TrimSpace(title + " " + artist)
}

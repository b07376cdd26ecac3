package shared

import (
	"errors"
	"fmt"
	"path/filepath"
	"strings"
	"testing"
)

func TestSearchQuery(t *testing.T) {
	tc := []struct {
		name string
		raw  string
		want string
	}{
		{name: "track number, artist and title", raw: "05 - Artist - Title.mp3", want: "Title Artist"},
		{name: "end to end example", raw: "02 - Queen - Bohemian Rhapsody.mp3", want: "Bohemian Rhapsody Queen"},
		{name: "single segment", raw: "Interlude.wav", want: "Interlude"},
		{name: "empty", raw: "", want: ""},
		{name: "no extension", raw: "Artist - Title", want: "Title Artist"},
		{name: "title containing separator", raw: "Artist - Title - Live.flac", want: "Title - Live Artist"},
		{name: "dotted track number", raw: "01. Artist - Song.mp3", want: "Song Artist"},
		{name: "parenthesis track number", raw: "7) Artist - Song.ogg", want: "Song Artist"},
		{name: "underscore track number", raw: "12_Artist - Song.m4a", want: "Song Artist"},
		{name: "only last extension stripped", raw: "Song.v2.mp3", want: "Song.v2"},
		{name: "surrounding whitespace", raw: "  Lonely Song  .mp3", want: "Lonely Song"},
		{name: "hyphen without spaces is not a separator", raw: "Jay-Z.mp3", want: "Jay-Z"},
		{name: "no match name", raw: "NoMatchXYZ123.flac", want: "NoMatchXYZ123"},
	}

	for _, tt := range tc {
		t.Run(tt.name, func(t *testing.T) {
			if got := SearchQuery(tt.raw); got != tt.want {
				t.Errorf("SearchQuery(%q) = %q, want %q", tt.raw, got, tt.want)
			}
		})
	}

	t.Run("deterministic", func(t *testing.T) {
		inputs := []string{"05 - Artist - Title.mp3", "", "...", "9", "- - -", "日本語 - タイトル.mp3"}
		for _, in := range inputs {
			first := SearchQuery(in)
			for i := 0; i < 3; i++ {
				if got := SearchQuery(in); got != first {
					t.Errorf("SearchQuery(%q) not deterministic: %q vs %q", in, got, first)
				}
			}
		}
	})

	t.Run("total over odd input", func(t *testing.T) {
		inputs := []string{".", "..", ".hidden", "\x00\xff", strings.Repeat("a - ", 1000), "123", "   "}
		for _, in := range inputs {
			_ = SearchQuery(in)
		}
	})
}

func TestSplitArtistTitle(t *testing.T) {
	artist, title := SplitArtistTitle("03 - Daft Punk - One More Time.mp3")
	if artist != "Daft Punk" || title != "One More Time" {
		t.Errorf("got artist=%q title=%q", artist, title)
	}

	artist, title = SplitArtistTitle("Interlude.wav")
	if artist != "" || title != "Interlude" {
		t.Errorf("got artist=%q title=%q", artist, title)
	}
}

func TestErrors(t *testing.T) {
	t.Run("authorization family", func(t *testing.T) {
		for _, err := range []error{ErrMissingVerifier, ErrStateMismatch, ErrTokenExchange} {
			if !IsAuthorization(err) {
				t.Errorf("%v should be an authorization error", err)
			}
		}
		if IsAuthorization(ErrAPIRequest) {
			t.Error("ErrAPIRequest should not be an authorization error")
		}
	})

	t.Run("wrapped", func(t *testing.T) {
		err := fmt.Errorf("login: %w", ErrMissingVerifier)
		if !errors.Is(err, ErrAuthorization) {
			t.Error("wrapped ErrMissingVerifier should match ErrAuthorization")
		}
	})
}

func TestBrowserCommand(t *testing.T) {
	tc := []struct {
		goos    string
		bin     string
		wantErr bool
	}{
		{goos: "darwin", bin: "open"},
		{goos: "linux", bin: "xdg-open"},
		{goos: "windows", bin: "rundll32"},
		{goos: "plan9", wantErr: true},
	}

	for _, tt := range tc {
		t.Run(tt.goos, func(t *testing.T) {
			cmd, err := browserCommand(tt.goos, "https://example.com")
			if (err != nil) != tt.wantErr {
				t.Fatalf("browserCommand() error = %v, wantErr %v", err, tt.wantErr)
			}
			if tt.wantErr {
				return
			}
			if filepath.Base(cmd.Path) != tt.bin && cmd.Args[0] != tt.bin {
				t.Errorf("expected %s, got %s", tt.bin, cmd.Args[0])
			}
		})
	}
}

func TestGenerateID(t *testing.T) {
	a, b := GenerateID(), GenerateID()
	if a == b {
		t.Error("expected distinct ids")
	}
	if len(a) != 36 {
		t.Errorf("expected uuid string, got %q", a)
	}
}

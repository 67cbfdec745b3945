package services

import (
	"fmt"
	"regexp"

	"github.com/desertthunder/vibevault/internal/shared"
)

var playlistPathRe = regexp.MustCompile(`/playlist/(\w+)`)

// ExtractPlaylistID returns the identifier following "/playlist/" in a share URL.
//
//	https://open.spotify.com/playlist/37i9dQZF1DXcBWIGoYBM5M?si=abc -> 37i9dQZF1DXcBWIGoYBM5M
func ExtractPlaylistID(url string) (string, error) {
	m := playlistPathRe.FindStringSubmatch(url)
	if m == nil {
		return "", fmt.Errorf("%w: no playlist id in %q", shared.ErrInvalidInput, url)
	}
	return m[1], nil
}

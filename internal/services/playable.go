package services

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/desertthunder/ytcat/internal/models"
	"github.com/desertthunder/ytcat/internal/shared"
	"google.golang.org/api/youtube/v3"
)

const zeroDuration = "PT0S"

// isoDurationPattern accepts a trailing bare T; ParseISODuration rejects it.
var isoDurationPattern = regexp.MustCompile(`^P(?:(\d+)W)?(?:(\d+)D)?(?:T(?:(\d+)H)?(?:(\d+)M)?(?:(\d+)S)?)?$`)

// IsPlayable reports whether video can be embedded and has a non-zero duration.
func IsPlayable(video *youtube.Video) bool {
	if video == nil || video.Status == nil || video.ContentDetails == nil {
		return false
	}
	return video.Status.Embeddable && video.ContentDetails.Duration != zeroDuration
}

// ToSong converts a hydrated catalog item to a [models.Song].
func ToSong(video *youtube.Video) (models.Song, error) {
	if video == nil {
		return models.Song{}, fmt.Errorf("%w: nil video", shared.ErrInvalidArgument)
	}

	song := models.Song{ID: video.Id, Type: models.SourceYouTube}
	if video.ContentDetails != nil {
		seconds, err := ParseISODuration(video.ContentDetails.Duration)
		if err != nil {
			return models.Song{}, err
		}
		song.Duration = seconds
	}
	if video.Snippet != nil {
		song.Title = video.Snippet.Title
		song.Author = video.Snippet.ChannelTitle
	}
	return song, nil
}

// ParseISODuration converts an ISO-8601 duration such as "PT3M5S" to whole seconds.
func ParseISODuration(s string) (int, error) {
	m := isoDurationPattern.FindStringSubmatch(s)
	if m == nil || s == "P" || strings.HasSuffix(s, "T") {
		return 0, fmt.Errorf("%w: duration %q", shared.ErrInvalidInput, s)
	}

	units := [...]int{7 * 24 * 3600, 24 * 3600, 3600, 60, 1}
	total := 0
	for i, unit := range units {
		if m[i+1] == "" {
			continue
		}
		n, err := strconv.Atoi(m[i+1])
		if err != nil {
			return 0, fmt.Errorf("%w: duration %q", shared.ErrInvalidInput, s)
		}
		total += n * unit
	}
	return total, nil
}

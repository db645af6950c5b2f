package models

// SourceType identifies the catalog provider a [Song] came from.
type SourceType int

const (
	SourceUnknown SourceType = iota
	SourceYouTube
)

func (s SourceType) String() string {
	switch s {
	case SourceYouTube:
		return "youtube"
	default:
		return "unknown"
	}
}

// MarshalText encodes the source type by name.
func (s SourceType) MarshalText() ([]byte, error) {
	return []byte(s.String()), nil
}

// Song is a playable catalog item.
type Song struct {
	ID       string     `json:"id"`
	Duration int        `json:"duration"` // Duration in seconds
	Title    string     `json:"title"`
	Author   string     `json:"author"`
	Type     SourceType `json:"type"`
}

// SongSet is an ordered collection of songs, in the order the catalog returned them.
type SongSet []Song

// NewSongSet builds a [SongSet] from songs. The result is never nil.
func NewSongSet(songs ...Song) SongSet {
	set := make(SongSet, 0, len(songs))
	return append(set, songs...)
}

// Len returns the number of songs.
func (s SongSet) Len() int { return len(s) }

// First returns the first song, or false when the set is empty.
func (s SongSet) First() (Song, bool) {
	if len(s) == 0 {
		return Song{}, false
	}
	return s[0], true
}

// IDs returns song identifiers in order.
func (s SongSet) IDs() []string {
	ids := make([]string, len(s))
	for i, song := range s {
		ids[i] = song.ID
	}
	return ids
}

// SearchResult is one page of a paginated lookup.
//
// An empty NextPageToken means no further page exists.
type SearchResult struct {
	Songs         SongSet `json:"songs"`
	NextPageToken string  `json:"nextPageToken,omitempty"`
}

// HasNextPage reports whether another page can be requested with NextPageToken.
func (r SearchResult) HasNextPage() bool {
	return r.NextPageToken != ""
}

// PlaylistExport is every playable song in a playlist, gathered across pages.
type PlaylistExport struct {
	ID    string  `json:"id"`
	Title string  `json:"title"`
	Songs SongSet `json:"songs"`
}

package shared

import "testing"

func TestMessages(t *testing.T) {
	tc := []struct {
		name   string
		locale string
		key    string
		want   string
	}{
		{name: "english song", locale: "en", key: MsgSongNotFound, want: "Failed to find song"},
		{name: "english songs", locale: "en-US", key: MsgSongsNotFound, want: "Failed to find songs"},
		{name: "spanish title", locale: "es", key: MsgTitleNotFound, want: "No se pudo cargar el título"},
		{name: "regional spanish", locale: "es-MX", key: MsgSongNotFound, want: "No se encontró la canción"},
		{name: "unsupported locale falls back", locale: "de", key: MsgSongNotFound, want: "Failed to find song"},
		{name: "invalid locale falls back", locale: "not a tag!", key: MsgChannelNotFound, want: "Failed to find channel uploads"},
		{name: "unknown key echoes key", locale: "en", key: "mystery", want: "mystery"},
	}

	for _, tt := range tc {
		t.Run(tt.name, func(t *testing.T) {
			if got := NewMessages(tt.locale).MessageFor(tt.key); got != tt.want {
				t.Errorf("MessageFor(%q) = %q, want %q", tt.key, got, tt.want)
			}
		})
	}
}

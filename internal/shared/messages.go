package shared

import (
	"golang.org/x/text/language"
	"golang.org/x/text/message"
	"golang.org/x/text/message/catalog"
)

// Message keys looked up through [Messages.MessageFor].
const (
	MsgSongNotFound    = "song not found"
	MsgSongsNotFound   = "songs not found"
	MsgTitleNotFound   = "failed to load title"
	MsgChannelNotFound = "no content details"
)

// supported lists catalog languages, default first.
var supported = []language.Tag{language.English, language.Spanish}

var translations = map[language.Tag]map[string]string{
	language.English: {
		MsgSongNotFound:    "Failed to find song",
		MsgSongsNotFound:   "Failed to find songs",
		MsgTitleNotFound:   "Failed to load title",
		MsgChannelNotFound: "Failed to find channel uploads",
	},
	language.Spanish: {
		MsgSongNotFound:    "No se encontró la canción",
		MsgSongsNotFound:   "No se encontraron las canciones",
		MsgTitleNotFound:   "No se pudo cargar el título",
		MsgChannelNotFound: "No se encontraron las subidas del canal",
	},
}

// Messages resolves user-facing error text for a locale.
type Messages struct {
	printer *message.Printer
}

// NewMessages builds a [Messages] for locale (a BCP 47 tag such as "en" or "es-MX").
//
// Unknown or unsupported locales fall back to English.
func NewMessages(locale string) *Messages {
	b := catalog.NewBuilder(catalog.Fallback(language.English))
	for tag, msgs := range translations {
		for key, text := range msgs {
			if err := b.SetString(tag, key, text); err != nil {
				panic(err)
			}
		}
	}

	tag := language.English
	if parsed, err := language.Parse(locale); err == nil {
		if _, idx, conf := language.NewMatcher(supported).Match(parsed); conf != language.No {
			tag = supported[idx]
		}
	}

	return &Messages{printer: message.NewPrinter(tag, message.Catalog(b))}
}

// MessageFor returns the localized text for key, or key itself when no translation exists.
func (m *Messages) MessageFor(key string) string {
	return m.printer.Sprintf(key)
}

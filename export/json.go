package export

import (
	"encoding/json"
	"io"
	"time"

	"ytscraper/youtube"
)

type jsonDocument struct {
	Channel  *youtube.Channel `json:"channel"`
	Videos   []youtube.Video  `json:"videos"`
	Metadata jsonMetadata     `json:"metadata"`
}

type jsonMetadata struct {
	ExportedAt string `json:"exported_at"`
	VideoCount int    `json:"video_count"`
}

// writeJSON writes the full result with indentation and HTML escaping off,
// so descriptions and URLs survive byte-for-byte.
func writeJSON(w io.Writer, channel *youtube.Channel, videos []youtube.Video) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	enc.SetEscapeHTML(false)
	return enc.Encode(jsonDocument{
		Channel: channel,
		Videos:  videos,
		Metadata: jsonMetadata{
			ExportedAt: time.Now().UTC().Format(time.RFC3339),
			VideoCount: len(videos),
		},
	})
}

package export

import (
	"encoding/csv"
	"io"
	"sort"
	"strconv"
	"strings"

	"ytscraper/youtube"
)

// writeCSV writes three sections into one file: CHANNEL DATA as field/value
// rows, VIDEOS DATA as one row per video, COMMENTS DATA as one row per
// sampled comment.
func writeCSV(w io.Writer, channel *youtube.Channel, videos []youtube.Video) error {
	cw := csv.NewWriter(w)

	if err := writeChannelSection(cw, channel); err != nil {
		return err
	}
	if err := writeVideosSection(cw, videos); err != nil {
		return err
	}
	if err := writeCommentsSection(cw, videos); err != nil {
		return err
	}

	cw.Flush()
	return cw.Error()
}

func writeChannelSection(cw *csv.Writer, channel *youtube.Channel) error {
	if err := cw.Write([]string{"CHANNEL DATA"}); err != nil {
		return err
	}
	if err := cw.Write([]string{"field", "value"}); err != nil {
		return err
	}

	m, err := toMap(channel)
	if err != nil {
		return err
	}
	for _, key := range sortedKeys(m) {
		// upload_frequency is the only nested object; flatten it so the
		// cadence numbers stay usable in a spreadsheet.
		if nested, ok := m[key].(map[string]any); ok {
			for _, sub := range sortedKeys(nested) {
				if err := cw.Write([]string{key + "_" + sub, cellValue(nested[sub])}); err != nil {
					return err
				}
			}
			continue
		}
		if err := cw.Write([]string{key, cellValue(m[key])}); err != nil {
			return err
		}
	}
	return nil
}

func writeVideosSection(cw *csv.Writer, videos []youtube.Video) error {
	if err := cw.Write([]string{}); err != nil {
		return err
	}
	if err := cw.Write([]string{"VIDEOS DATA"}); err != nil {
		return err
	}

	maps := make([]map[string]any, len(videos))
	union := map[string]bool{}
	for i := range videos {
		m, err := toMap(&videos[i])
		if err != nil {
			return err
		}
		delete(m, "comments")
		maps[i] = m
		for k := range m {
			union[k] = true
		}
	}

	header := make([]string, 0, len(union))
	for k := range union {
		header = append(header, k)
	}
	sort.Strings(header)
	if err := cw.Write(header); err != nil {
		return err
	}

	for _, m := range maps {
		row := make([]string, len(header))
		for i, k := range header {
			row[i] = cellValue(m[k])
		}
		if err := cw.Write(row); err != nil {
			return err
		}
	}
	return nil
}

func writeCommentsSection(cw *csv.Writer, videos []youtube.Video) error {
	if err := cw.Write([]string{}); err != nil {
		return err
	}
	if err := cw.Write([]string{"COMMENTS DATA"}); err != nil {
		return err
	}
	header := []string{"video_id", "video_title", "author", "text", "like_count", "published_at", "updated_at"}
	if err := cw.Write(header); err != nil {
		return err
	}

	for _, v := range videos {
		for _, c := range v.Comments {
			row := []string{
				v.ID,
				v.Title,
				c.Author,
				collapseNewlines(c.Text),
				strconv.FormatInt(c.LikeCount, 10),
				c.PublishedAt,
				c.UpdatedAt,
			}
			if err := cw.Write(row); err != nil {
				return err
			}
		}
	}
	return nil
}

func collapseNewlines(s string) string {
	s = strings.ReplaceAll(s, "\r\n", " ")
	s = strings.ReplaceAll(s, "\n", " ")
	return strings.ReplaceAll(s, "\r", " ")
}

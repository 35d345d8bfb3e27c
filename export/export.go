// Package export writes scrape results to CSV, JSON or XLSX files.
package export

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"
	"time"
	"unicode"

	"ytscraper/youtube"
)

// Supported export formats.
const (
	FormatCSV   = "csv"
	FormatJSON  = "json"
	FormatExcel = "excel"
)

// ErrUnsupportedFormat is returned for a format other than csv, json or
// excel, before any file is created.
var ErrUnsupportedFormat = errors.New("export: unsupported format")

// Export writes the channel and its videos to a file in the system temp
// directory and returns its path. A failure mid-write removes the partial
// file before returning the error.
func Export(channel *youtube.Channel, videos []youtube.Video, format string) (string, error) {
	var write func(io.Writer, *youtube.Channel, []youtube.Video) error
	switch format {
	case FormatCSV:
		write = writeCSV
	case FormatJSON:
		write = writeJSON
	case FormatExcel:
		write = writeExcel
	default:
		return "", fmt.Errorf("%w: %q", ErrUnsupportedFormat, format)
	}

	path := filepath.Join(os.TempDir(), Filename(channel.Title, format, time.Now().UTC()))
	f, err := os.Create(path)
	if err != nil {
		return "", fmt.Errorf("export: create %s: %w", path, err)
	}

	if err := write(f, channel, videos); err != nil {
		f.Close()
		os.Remove(path)
		return "", fmt.Errorf("export: write %s: %w", format, err)
	}
	if err := f.Close(); err != nil {
		os.Remove(path)
		return "", fmt.Errorf("export: close %s: %w", path, err)
	}
	return path, nil
}

// Filename builds the suggested download name:
// {title_with_underscores}_{YYYYMMDD_HHMMSS}.{csv|json|xlsx}.
func Filename(channelTitle, format string, t time.Time) string {
	ext := format
	if format == FormatExcel {
		ext = "xlsx"
	}
	return fmt.Sprintf("%s_%s.%s", sanitizeTitle(channelTitle), t.Format("20060102_150405"), ext)
}

// sanitizeTitle keeps letters, digits, spaces, dashes and underscores in
// any script, then turns spaces into underscores. Everything else is
// path-hostile or shell-hostile and gets dropped.
func sanitizeTitle(title string) string {
	var b strings.Builder
	for _, r := range title {
		switch {
		case unicode.IsLetter(r), unicode.IsDigit(r), r == ' ', r == '-', r == '_':
			b.WriteRune(r)
		}
	}
	s := strings.TrimSpace(b.String())
	if s == "" {
		s = "channel"
	}
	return strings.ReplaceAll(s, " ", "_")
}

// toMap round-trips a struct through JSON so exporters see the same
// snake_case field names the JSON output carries.
func toMap(v any) (map[string]any, error) {
	raw, err := json.Marshal(v)
	if err != nil {
		return nil, err
	}
	m := map[string]any{}
	if err := json.Unmarshal(raw, &m); err != nil {
		return nil, err
	}
	return m, nil
}

func sortedKeys(m map[string]any) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// cellValue renders a decoded JSON value as a single cell: lists are joined
// with ", ", nested objects become compact JSON text.
func cellValue(v any) string {
	switch val := v.(type) {
	case nil:
		return ""
	case string:
		return val
	case bool:
		return strconv.FormatBool(val)
	case float64:
		return strconv.FormatFloat(val, 'f', -1, 64)
	case []any:
		parts := make([]string, len(val))
		for i, item := range val {
			parts[i] = cellValue(item)
		}
		return strings.Join(parts, ", ")
	default:
		raw, err := json.Marshal(val)
		if err != nil {
			return fmt.Sprint(val)
		}
		return string(raw)
	}
}

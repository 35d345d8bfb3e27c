package export

import (
	"fmt"
	"io"
	"sort"

	"github.com/xuri/excelize/v2"

	"ytscraper/youtube"
)

// writeExcel writes a four-sheet workbook: Channel Data, Videos Data,
// Comments Data and a Summary with aggregate statistics.
func writeExcel(w io.Writer, channel *youtube.Channel, videos []youtube.Video) error {
	f := excelize.NewFile()
	defer f.Close()

	f.SetSheetName("Sheet1", "Channel Data")
	if err := writeChannelSheet(f, channel); err != nil {
		return err
	}
	if err := writeVideosSheet(f, videos); err != nil {
		return err
	}
	if err := writeCommentsSheet(f, videos); err != nil {
		return err
	}
	if err := writeSummarySheet(f, channel, videos); err != nil {
		return err
	}

	return f.Write(w)
}

func setRow(f *excelize.File, sheet string, row int, values []string) error {
	for col, v := range values {
		cell, err := excelize.CoordinatesToCellName(col+1, row)
		if err != nil {
			return err
		}
		if err := f.SetCellValue(sheet, cell, v); err != nil {
			return err
		}
	}
	return nil
}

func writeChannelSheet(f *excelize.File, channel *youtube.Channel) error {
	const sheet = "Channel Data"
	if err := setRow(f, sheet, 1, []string{"Field", "Value"}); err != nil {
		return err
	}

	m, err := toMap(channel)
	if err != nil {
		return err
	}
	row := 2
	for _, key := range sortedKeys(m) {
		if nested, ok := m[key].(map[string]any); ok {
			for _, sub := range sortedKeys(nested) {
				if err := setRow(f, sheet, row, []string{key + "_" + sub, cellValue(nested[sub])}); err != nil {
					return err
				}
				row++
			}
			continue
		}
		if err := setRow(f, sheet, row, []string{key, cellValue(m[key])}); err != nil {
			return err
		}
		row++
	}
	return nil
}

// flattenVideo turns a decoded video map into flat columns: nested objects
// become key_subkey columns and the comment sample is reduced to its size,
// replacing the API comment_count.
func flattenVideo(m map[string]any) map[string]string {
	flat := map[string]string{}
	for key, val := range m {
		if key == "comments" {
			n := 0
			if list, ok := val.([]any); ok {
				n = len(list)
			}
			flat["comment_count"] = fmt.Sprint(n)
			continue
		}
		if nested, ok := val.(map[string]any); ok {
			for sub, subVal := range nested {
				flat[key+"_"+sub] = cellValue(subVal)
			}
			continue
		}
		flat[key] = cellValue(val)
	}
	return flat
}

func writeVideosSheet(f *excelize.File, videos []youtube.Video) error {
	const sheet = "Videos Data"
	if _, err := f.NewSheet(sheet); err != nil {
		return err
	}

	flats := make([]map[string]string, len(videos))
	union := map[string]bool{}
	for i := range videos {
		m, err := toMap(&videos[i])
		if err != nil {
			return err
		}
		flats[i] = flattenVideo(m)
		for k := range flats[i] {
			union[k] = true
		}
	}

	header := make([]string, 0, len(union))
	for k := range union {
		header = append(header, k)
	}
	sort.Strings(header)
	if err := setRow(f, sheet, 1, header); err != nil {
		return err
	}

	for i, flat := range flats {
		row := make([]string, len(header))
		for j, k := range header {
			row[j] = flat[k]
		}
		if err := setRow(f, sheet, i+2, row); err != nil {
			return err
		}
	}
	return nil
}

func writeCommentsSheet(f *excelize.File, videos []youtube.Video) error {
	const sheet = "Comments Data"
	if _, err := f.NewSheet(sheet); err != nil {
		return err
	}
	header := []string{"video_id", "video_title", "author", "text", "like_count", "published_at", "updated_at"}
	if err := setRow(f, sheet, 1, header); err != nil {
		return err
	}

	row := 2
	for _, v := range videos {
		for _, c := range v.Comments {
			values := []string{
				v.ID, v.Title, c.Author, c.Text,
				fmt.Sprint(c.LikeCount), c.PublishedAt, c.UpdatedAt,
			}
			if err := setRow(f, sheet, row, values); err != nil {
				return err
			}
			row++
		}
	}
	return nil
}

func writeSummarySheet(f *excelize.File, channel *youtube.Channel, videos []youtube.Video) error {
	const sheet = "Summary"
	if _, err := f.NewSheet(sheet); err != nil {
		return err
	}

	var views, likes, comments int64
	var engagement float64
	for _, v := range videos {
		views += v.ViewCount
		likes += v.LikeCount
		comments += v.CommentCount
		engagement += v.EngagementRate
	}
	avgEngagement := 0.0
	if len(videos) > 0 {
		avgEngagement = engagement / float64(len(videos))
	}

	rows := [][]string{
		{"Metric", "Value"},
		{"Channel Title", channel.Title},
		{"Channel ID", channel.ID},
		{"Subscribers", fmt.Sprint(channel.SubscriberCount)},
		{"Videos Exported", fmt.Sprint(len(videos))},
		{"Total Views", fmt.Sprint(views)},
		{"Total Likes", fmt.Sprint(likes)},
		{"Total Comments", fmt.Sprint(comments)},
		{"Average Engagement Rate", fmt.Sprintf("%.2f%%", avgEngagement)},
	}
	for i, r := range rows {
		if err := setRow(f, sheet, i+1, r); err != nil {
			return err
		}
	}
	return nil
}

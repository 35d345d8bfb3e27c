package youtube

import (
	"context"
	"fmt"
	"regexp"

	"github.com/sosodev/duration"
	"google.golang.org/api/youtube/v3"

	"ytscraper/internal/retry"
)

const (
	detailBatchSize       = 50
	commentSampleBatchMax = 10
	commentSampleSize     = 20
	commentPageSize       = 100
)

// descriptionURLPattern extracts http(s) links from video descriptions,
// percent-encoding aware.
var descriptionURLPattern = regexp.MustCompile(`https?://(?:[a-zA-Z]|[0-9]|[$-_@.&+]|[!*\(\),]|(?:%[0-9a-fA-F][0-9a-fA-F]))+`)

// EnrichVideos batch-fetches details and statistics for the collected
// videos and fills in the derived fields. Batches are of 50 (the API batch
// limit); each batch gets up to three attempts with a fixed delay, except
// that quota exhaustion aborts retries immediately. A failed batch keeps
// its defaults (engagement_rate 0, empty comments) and the pipeline
// continues with the next batch, so a partial result is always returned.
func (c *Client) EnrichVideos(ctx context.Context, videos []Video) []Video {
	total := len(videos)
	if total == 0 {
		c.progress.Set("Video data collection complete", 100)
		return videos
	}

	for i := 0; i < total; i += detailBatchSize {
		end := i + detailBatchSize
		if end > total {
			end = total
		}
		batch := videos[i:end]

		pct := 50 + float64(i)/float64(total)*40
		c.progress.Set(fmt.Sprintf("Fetching details for videos %d-%d of %d", i+1, end, total), pct)

		ids := make([]string, len(batch))
		for j := range batch {
			ids[j] = batch[j].ID
		}

		var resp *youtube.VideoListResponse
		err := retry.Do(ctx, c.RetryConfig, apiRetryClassifier, func(ctx context.Context) error {
			r, err := c.videos(ctx, []string{"snippet", "contentDetails", "statistics"}, ids)
			if err != nil {
				return classifyAPIError("videos.list", err, ErrVideoNotFound)
			}
			resp = r
			return nil
		})
		if err != nil {
			// Defaults were set at collection time; log and move on.
			c.logger.Warn().Err(err).Int("batch_start", i).Msg("batch enrichment failed, keeping basic data")
			continue
		}

		byID := make(map[string]*Video, len(batch))
		for j := range batch {
			byID[batch[j].ID] = &batch[j]
		}
		for _, item := range resp.Items {
			if v, ok := byID[item.Id]; ok {
				populateVideo(v, item)
			}
		}

		// Comment sampling is skipped for large batches to bound API cost.
		if len(batch) <= commentSampleBatchMax {
			for j := range batch {
				batch[j].Comments = c.fetchComments(ctx, batch[j].ID, commentSampleSize)
			}
		}
	}

	c.progress.Set("Video data collection complete", 100)
	return videos
}

// populateVideo copies details, statistics and snippet fields from an API
// item onto the video record and computes the derived fields.
func populateVideo(v *Video, item *youtube.Video) {
	v.Dimension = "N/A"
	v.Definition = "N/A"
	v.Projection = "N/A"
	v.CategoryID = "N/A"
	v.LiveBroadcastContent = "none"
	v.DefaultLanguage = "N/A"
	v.DefaultAudioLanguage = "N/A"
	v.Duration = formatDuration("")

	if item.ContentDetails != nil {
		v.Duration = formatDuration(item.ContentDetails.Duration)
		if item.ContentDetails.Dimension != "" {
			v.Dimension = item.ContentDetails.Dimension
		}
		if item.ContentDetails.Definition != "" {
			v.Definition = item.ContentDetails.Definition
		}
		if item.ContentDetails.Projection != "" {
			v.Projection = item.ContentDetails.Projection
		}
		v.Caption = item.ContentDetails.Caption == "true"
		v.LicensedContent = item.ContentDetails.LicensedContent
	}

	if item.Statistics != nil {
		v.ViewCount = int64(item.Statistics.ViewCount)
		v.LikeCount = int64(item.Statistics.LikeCount)
		v.CommentCount = int64(item.Statistics.CommentCount)
	}

	if item.Snippet != nil {
		if item.Snippet.Tags != nil {
			v.Tags = item.Snippet.Tags
		}
		if item.Snippet.CategoryId != "" {
			v.CategoryID = item.Snippet.CategoryId
		}
		if item.Snippet.LiveBroadcastContent != "" {
			v.LiveBroadcastContent = item.Snippet.LiveBroadcastContent
		}
		if item.Snippet.DefaultLanguage != "" {
			v.DefaultLanguage = item.Snippet.DefaultLanguage
		}
		if item.Snippet.DefaultAudioLanguage != "" {
			v.DefaultAudioLanguage = item.Snippet.DefaultAudioLanguage
		}
		if item.Snippet.Localized != nil {
			v.Localized = Localized{
				Title:       item.Snippet.Localized.Title,
				Description: item.Snippet.Localized.Description,
			}
		}
	}

	v.VideoURL = "https://www.youtube.com/watch?v=" + v.ID

	if v.ViewCount > 0 {
		v.EngagementRate = float64(v.LikeCount+v.CommentCount) / float64(v.ViewCount) * 100
	} else {
		v.EngagementRate = 0
	}

	urls := descriptionURLPattern.FindAllString(v.Description, -1)
	if urls == nil {
		urls = []string{}
	}
	v.DescriptionURLs = urls
}

// formatDuration converts an ISO-8601 duration ("PT1M30S") to MM:SS or
// HH:MM:SS. Unparseable input yields "00:00".
func formatDuration(iso string) string {
	if iso == "" {
		return "00:00"
	}
	d, err := duration.Parse(iso)
	if err != nil {
		return "00:00"
	}
	total := int(d.ToTimeDuration().Seconds())
	hours := total / 3600
	minutes := (total % 3600) / 60
	seconds := total % 60
	if hours > 0 {
		return fmt.Sprintf("%02d:%02d:%02d", hours, minutes, seconds)
	}
	return fmt.Sprintf("%02d:%02d", minutes, seconds)
}

package youtube

import (
	"context"
	"fmt"
	"time"

	"google.golang.org/api/youtube/v3"

	"ytscraper/internal/retry"
)

// Large-channel collection limits. Channels above largeChannelThreshold
// total videos are paged at most largeChannelPageCap times, and any result
// set is truncated to maxVideosToCollect entries in listing order (most
// recent first). The truncation is ordering-dependent on purpose: for very
// large channels the most recent uploads win, even when older in-range
// videos get dropped.
const (
	pageSize              = 50
	maxVideosToCollect    = 500
	largeChannelThreshold = 1000
	largeChannelPageCap   = 10
)

// CollectVideos pages through the channel's uploads playlist and returns
// partial video records published within [startDate 00:00:00Z,
// endDate 23:59:59Z]. Dates are YYYY-MM-DD strings. Quota exhaustion or a
// page-fetch failure mid-pagination stops early and returns the videos
// gathered so far; zero matches is a valid empty result.
func (c *Client) CollectVideos(ctx context.Context, channelID, startDate, endDate string) ([]Video, error) {
	c.progress.Set("Fetching video list", 30)

	start, end, err := parseDateRange(startDate, endDate)
	if err != nil {
		return nil, err
	}

	// One channels.list call yields both the uploads playlist handle and
	// the total video count for the large-channel check.
	var resp *youtube.ChannelListResponse
	err = retry.Do(ctx, c.RetryConfig, apiRetryClassifier, func(ctx context.Context) error {
		r, err := c.channels(ctx, []string{"contentDetails", "statistics"}, channelID, "")
		if err != nil {
			return classifyAPIError("channels.list", err, ErrChannelNotFound)
		}
		resp = r
		return nil
	})
	if err != nil {
		c.logger.Error().Err(err).Str("channel_id", channelID).Msg("uploads playlist lookup failed")
		return nil, err
	}
	if len(resp.Items) == 0 || resp.Items[0].ContentDetails == nil ||
		resp.Items[0].ContentDetails.RelatedPlaylists == nil {
		return []Video{}, nil
	}

	uploadsPlaylistID := resp.Items[0].ContentDetails.RelatedPlaylists.Uploads
	var totalVideoCount int64
	if resp.Items[0].Statistics != nil {
		totalVideoCount = int64(resp.Items[0].Statistics.VideoCount)
	}

	isLargeChannel := totalVideoCount > largeChannelThreshold
	if isLargeChannel {
		c.progress.Set(fmt.Sprintf("Large channel detected (%d videos). Limiting results to most recent %d videos.",
			totalVideoCount, maxVideosToCollect), 35)
		c.logger.Warn().Int64("video_count", totalVideoCount).Msg("large channel detected, limiting results")
	}

	videos := []Video{}
	pageToken := ""
	pageCount := 0

	for {
		if isLargeChannel && pageCount >= largeChannelPageCap {
			c.logger.Info().Int("pages", pageCount).Msg("page cap reached for large channel")
			break
		}

		var page *youtube.PlaylistItemListResponse
		err := retry.Do(ctx, c.RetryConfig, apiRetryClassifier, func(ctx context.Context) error {
			r, err := c.playlistItems(ctx, uploadsPlaylistID, pageToken, pageSize)
			if err != nil {
				return classifyAPIError("playlistItems.list", err, ErrChannelNotFound)
			}
			page = r
			return nil
		})
		if err != nil {
			// Quota or not: stop paging and keep what we have.
			c.logger.Warn().Err(err).Int("collected", len(videos)).Msg("stopping pagination early")
			break
		}
		pageCount++

		for _, item := range page.Items {
			if item.ContentDetails == nil || item.ContentDetails.VideoPublishedAt == "" {
				continue
			}
			publishedAt, err := time.Parse(time.RFC3339, item.ContentDetails.VideoPublishedAt)
			if err != nil {
				continue
			}
			if publishedAt.Before(start) || publishedAt.After(end) {
				continue
			}

			var title, description, thumbnail string
			if item.Snippet != nil {
				title = item.Snippet.Title
				description = item.Snippet.Description
				if item.Snippet.Thumbnails != nil && item.Snippet.Thumbnails.High != nil {
					thumbnail = item.Snippet.Thumbnails.High.Url
				}
			}
			videos = append(videos, newPartialVideo(
				item.ContentDetails.VideoId, title, description,
				item.ContentDetails.VideoPublishedAt, thumbnail))
		}

		pageToken = page.NextPageToken
		if pageToken == "" {
			break
		}
		if isLargeChannel && len(videos) >= maxVideosToCollect {
			c.logger.Info().Int("collected", len(videos)).Msg("video cap reached for large channel")
			break
		}
	}

	c.progress.Set(fmt.Sprintf("Found %d videos in date range", len(videos)), 50)

	if len(videos) > maxVideosToCollect {
		c.logger.Warn().Int("collected", len(videos)).Msg("truncating result to most recent videos")
		videos = videos[:maxVideosToCollect]
	}

	return videos, nil
}

// parseDateRange expands two YYYY-MM-DD strings into an inclusive UTC
// interval spanning the whole days.
func parseDateRange(startDate, endDate string) (time.Time, time.Time, error) {
	start, err := time.Parse("2006-01-02", startDate)
	if err != nil {
		return time.Time{}, time.Time{}, fmt.Errorf("invalid start date %q: %w", startDate, err)
	}
	end, err := time.Parse("2006-01-02", endDate)
	if err != nil {
		return time.Time{}, time.Time{}, fmt.Errorf("invalid end date %q: %w", endDate, err)
	}
	return start, end.Add(24*time.Hour - time.Second), nil
}

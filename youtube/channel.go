package youtube

import (
	"context"
	"math"
	"time"

	"google.golang.org/api/youtube/v3"

	"ytscraper/internal/retry"
)

// FetchChannel retrieves channel metadata, statistics and branding for the
// given channel ID and derives the upload-frequency estimate. A 403 from
// the API surfaces as ErrQuotaExceeded, a 404 or empty result as
// ErrChannelNotFound, anything else as an *APIError.
func (c *Client) FetchChannel(ctx context.Context, channelID string) (*Channel, error) {
	c.progress.Set("Fetching channel data", 10)

	parts := []string{"snippet", "contentDetails", "statistics", "brandingSettings", "topicDetails"}
	var resp *youtube.ChannelListResponse
	err := retry.Do(ctx, c.RetryConfig, apiRetryClassifier, func(ctx context.Context) error {
		r, err := c.channels(ctx, parts, channelID, "")
		if err != nil {
			return classifyAPIError("channels.list", err, ErrChannelNotFound)
		}
		resp = r
		return nil
	})
	if err != nil {
		c.logger.Error().Err(err).Str("channel_id", channelID).Msg("channel fetch failed")
		return nil, err
	}
	if len(resp.Items) == 0 {
		return nil, ErrChannelNotFound
	}

	item := resp.Items[0]
	channel := &Channel{
		ID:              item.Id,
		URL:             "https://www.youtube.com/channel/" + item.Id,
		Country:         "Unknown",
		TopicCategories: []string{},
	}

	if item.Snippet != nil {
		channel.Title = item.Snippet.Title
		channel.Description = item.Snippet.Description
		channel.CustomURL = item.Snippet.CustomUrl
		channel.PublishedAt = item.Snippet.PublishedAt
		if item.Snippet.Country != "" {
			channel.Country = item.Snippet.Country
		}
		if item.Snippet.Thumbnails != nil && item.Snippet.Thumbnails.High != nil {
			channel.ThumbnailURL = item.Snippet.Thumbnails.High.Url
		}
		// The custom handle, when present, is the canonical URL.
		if channel.CustomURL != "" {
			channel.URL = "https://www.youtube.com/" + channel.CustomURL
		}
	}

	if item.Statistics != nil {
		channel.ViewCount = int64(item.Statistics.ViewCount)
		channel.SubscriberCount = int64(item.Statistics.SubscriberCount)
		channel.VideoCount = int64(item.Statistics.VideoCount)
	}

	if item.TopicDetails != nil && item.TopicDetails.TopicCategories != nil {
		channel.TopicCategories = item.TopicDetails.TopicCategories
	}

	if item.BrandingSettings != nil && item.BrandingSettings.Image != nil {
		channel.BannerURL = item.BrandingSettings.Image.BannerExternalUrl
	}

	channel.UploadFrequency = uploadFrequency(channel.PublishedAt, channel.VideoCount, time.Now())

	c.progress.Set("Channel data fetched successfully", 20)
	return channel, nil
}

// uploadFrequency estimates uploads per day/week/month from channel age and
// total video count, rounded to two decimals. An unparseable publish date
// yields zeroes rather than an error.
func uploadFrequency(publishedAt string, videoCount int64, now time.Time) UploadFrequency {
	published, err := time.Parse(time.RFC3339, publishedAt)
	if err != nil {
		return UploadFrequency{}
	}

	days := int64(now.Sub(published).Hours() / 24)
	if days < 1 {
		days = 1
	}

	perDay := float64(videoCount) / float64(days)
	return UploadFrequency{
		PerDay:   round2(perDay),
		PerWeek:  round2(perDay * 7),
		PerMonth: round2(perDay * 30),
	}
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}

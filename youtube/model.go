// Package youtube collects channel and video metadata through the
// YouTube Data API v3: resolving channel URLs, paging through uploads,
// enriching videos with statistics and comment samples.
package youtube

import "time"

// UploadFrequency is the derived upload cadence estimate for a channel,
// computed from channel age and total video count.
type UploadFrequency struct {
	PerDay   float64 `json:"per_day"`
	PerWeek  float64 `json:"per_week"`
	PerMonth float64 `json:"per_month"`
}

// Channel contains channel-level metadata and statistics.
// A Channel is immutable once fetched.
type Channel struct {
	ID              string          `json:"id"`
	Title           string          `json:"title"`
	Description     string          `json:"description"`
	CustomURL       string          `json:"custom_url"`
	URL             string          `json:"url"`
	PublishedAt     string          `json:"published_at"`
	Country         string          `json:"country"`
	ViewCount       int64           `json:"view_count"`
	SubscriberCount int64           `json:"subscriber_count"`
	VideoCount      int64           `json:"video_count"`
	TopicCategories []string        `json:"topic_categories"`
	ThumbnailURL    string          `json:"thumbnail_url"`
	BannerURL       string          `json:"banner_url"`
	UploadFrequency UploadFrequency `json:"upload_frequency"`
}

// Comment is one top-level comment from a video's bounded comment sample.
type Comment struct {
	Author      string `json:"author"`
	Text        string `json:"text"`
	LikeCount   int64  `json:"like_count"`
	PublishedAt string `json:"published_at"`
	UpdatedAt   string `json:"updated_at"`
}

// Localized is the video snippet localized to the request language.
type Localized struct {
	Title       string `json:"title"`
	Description string `json:"description"`
}

// Video is a single video record. The collector creates it with the snippet
// fields; the enricher fills in the rest. Enrichment never removes data: a
// failed stage leaves the defaults (engagement_rate 0, empty comments) in
// place so every exported video has a numeric engagement_rate and a non-nil
// comment list.
type Video struct {
	ID           string `json:"id"`
	Title        string `json:"title"`
	Description  string `json:"description"`
	PublishedAt  string `json:"published_at"`
	ThumbnailURL string `json:"thumbnail_url"`

	Duration             string    `json:"duration"`
	Dimension            string    `json:"dimension"`
	Definition           string    `json:"definition"`
	Caption              bool      `json:"caption"`
	LicensedContent      bool      `json:"licensed_content"`
	Projection           string    `json:"projection"`
	ViewCount            int64     `json:"view_count"`
	LikeCount            int64     `json:"like_count"`
	CommentCount         int64     `json:"comment_count"`
	Tags                 []string  `json:"tags"`
	CategoryID           string    `json:"category_id"`
	LiveBroadcastContent string    `json:"live_broadcast_content"`
	DefaultLanguage      string    `json:"default_language"`
	Localized            Localized `json:"localized"`
	DefaultAudioLanguage string    `json:"default_audio_language"`
	EngagementRate       float64   `json:"engagement_rate"`
	DescriptionURLs      []string  `json:"description_urls"`
	VideoURL             string    `json:"video_url"`
	Comments             []Comment `json:"comments"`
}

// newPartialVideo creates a collector-stage video with the slice fields
// initialized, so a video that never gets enriched still satisfies the
// export invariants.
func newPartialVideo(id, title, description, publishedAt, thumbnailURL string) Video {
	return Video{
		ID:              id,
		Title:           title,
		Description:     description,
		PublishedAt:     publishedAt,
		ThumbnailURL:    thumbnailURL,
		Tags:            []string{},
		DescriptionURLs: []string{},
		Comments:        []Comment{},
	}
}

// ScrapeResult bundles everything one scrape produced.
type ScrapeResult struct {
	Channel   *Channel  `json:"channel"`
	Videos    []Video   `json:"videos"`
	StartDate string    `json:"start_date"`
	EndDate   string    `json:"end_date"`
	ScrapedAt time.Time `json:"scraped_at"`
}

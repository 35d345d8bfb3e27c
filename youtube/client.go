package youtube

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"golang.org/x/time/rate"
	"google.golang.org/api/option"
	"google.golang.org/api/youtube/v3"

	"ytscraper/internal/retry"
)

// dataAPI is the narrow slice of the Data API the pipeline needs.
// The production implementation delegates to *youtube.Service; tests
// substitute a fake.
type dataAPI interface {
	listChannels(ctx context.Context, parts []string, id, forUsername string) (*youtube.ChannelListResponse, error)
	listPlaylistItems(ctx context.Context, playlistID, pageToken string, maxResults int64) (*youtube.PlaylistItemListResponse, error)
	listVideos(ctx context.Context, parts []string, ids []string) (*youtube.VideoListResponse, error)
	listCommentThreads(ctx context.Context, videoID, pageToken string, maxResults int64) (*youtube.CommentThreadListResponse, error)
	searchChannels(ctx context.Context, query string, maxResults int64) (*youtube.SearchListResponse, error)
}

// googleAPI implements dataAPI against the real YouTube Data API v3.
type googleAPI struct {
	svc *youtube.Service
}

func (g *googleAPI) listChannels(ctx context.Context, parts []string, id, forUsername string) (*youtube.ChannelListResponse, error) {
	call := g.svc.Channels.List(parts).Context(ctx)
	if id != "" {
		call = call.Id(id)
	}
	if forUsername != "" {
		call = call.ForUsername(forUsername)
	}
	return call.Do()
}

func (g *googleAPI) listPlaylistItems(ctx context.Context, playlistID, pageToken string, maxResults int64) (*youtube.PlaylistItemListResponse, error) {
	return g.svc.PlaylistItems.List([]string{"snippet", "contentDetails"}).
		PlaylistId(playlistID).
		MaxResults(maxResults).
		PageToken(pageToken).
		Context(ctx).
		Do()
}

func (g *googleAPI) listVideos(ctx context.Context, parts []string, ids []string) (*youtube.VideoListResponse, error) {
	return g.svc.Videos.List(parts).Id(ids...).Context(ctx).Do()
}

func (g *googleAPI) listCommentThreads(ctx context.Context, videoID, pageToken string, maxResults int64) (*youtube.CommentThreadListResponse, error) {
	return g.svc.CommentThreads.List([]string{"snippet"}).
		VideoId(videoID).
		MaxResults(maxResults).
		PageToken(pageToken).
		Context(ctx).
		Do()
}

func (g *googleAPI) searchChannels(ctx context.Context, query string, maxResults int64) (*youtube.SearchListResponse, error) {
	return g.svc.Search.List([]string{"snippet"}).
		Q(query).
		Type("channel").
		MaxResults(maxResults).
		Context(ctx).
		Do()
}

// Client runs the collection pipeline against the YouTube Data API.
// Operations are synchronous and sequential: one request in flight at a
// time, suspended only at API round trips and retry backoff.
type Client struct {
	api      dataAPI
	limiter  *rate.Limiter
	progress *Progress
	logger   zerolog.Logger

	// RetryConfig is the bounded retry policy applied to channel, playlist
	// and video-details calls. Exposed so callers can tune it.
	RetryConfig retry.Config
}

// NewClient creates a pipeline client using the given API key.
func NewClient(ctx context.Context, apiKey string) (*Client, error) {
	if apiKey == "" {
		return nil, fmt.Errorf("api key required")
	}
	svc, err := youtube.NewService(ctx, option.WithAPIKey(apiKey))
	if err != nil {
		return nil, fmt.Errorf("create youtube service: %w", err)
	}
	c := newClientWithAPI(&googleAPI{svc: svc})
	c.logger = log.With().Str("component", "youtube").Logger()
	return c, nil
}

// newClientWithAPI wires a client around any dataAPI implementation.
func newClientWithAPI(api dataAPI) *Client {
	return &Client{
		api:         api,
		limiter:     rate.NewLimiter(rate.Limit(10), 5),
		progress:    NewProgress(),
		logger:      zerolog.Nop(),
		RetryConfig: retry.DefaultConfig(),
	}
}

// Progress returns the polled progress tracker for this client's pipeline.
func (c *Client) Progress() *Progress {
	return c.progress
}

// SetLogger replaces the client's logger.
func (c *Client) SetLogger(l zerolog.Logger) {
	c.logger = l
}

// SetRateLimit replaces the API rate limiter.
func (c *Client) SetRateLimit(rps float64, burst int) {
	c.limiter = rate.NewLimiter(rate.Limit(rps), burst)
}

func (c *Client) wait(ctx context.Context) error {
	if c.limiter == nil {
		return nil
	}
	return c.limiter.Wait(ctx)
}

// Rate-limited, instrumented wrappers over the dataAPI.

func (c *Client) channels(ctx context.Context, parts []string, id, forUsername string) (*youtube.ChannelListResponse, error) {
	if err := c.wait(ctx); err != nil {
		return nil, err
	}
	resp, err := c.api.listChannels(ctx, parts, id, forUsername)
	recordCall("channels.list", err)
	return resp, err
}

func (c *Client) playlistItems(ctx context.Context, playlistID, pageToken string, maxResults int64) (*youtube.PlaylistItemListResponse, error) {
	if err := c.wait(ctx); err != nil {
		return nil, err
	}
	resp, err := c.api.listPlaylistItems(ctx, playlistID, pageToken, maxResults)
	recordCall("playlistItems.list", err)
	return resp, err
}

func (c *Client) videos(ctx context.Context, parts []string, ids []string) (*youtube.VideoListResponse, error) {
	if err := c.wait(ctx); err != nil {
		return nil, err
	}
	resp, err := c.api.listVideos(ctx, parts, ids)
	recordCall("videos.list", err)
	return resp, err
}

func (c *Client) commentThreads(ctx context.Context, videoID, pageToken string, maxResults int64) (*youtube.CommentThreadListResponse, error) {
	if err := c.wait(ctx); err != nil {
		return nil, err
	}
	resp, err := c.api.listCommentThreads(ctx, videoID, pageToken, maxResults)
	recordCall("commentThreads.list", err)
	return resp, err
}

func (c *Client) search(ctx context.Context, query string, maxResults int64) (*youtube.SearchListResponse, error) {
	if err := c.wait(ctx); err != nil {
		return nil, err
	}
	resp, err := c.api.searchChannels(ctx, query, maxResults)
	recordCall("search.list", err)
	return resp, err
}

// Scrape runs the whole pipeline: resolve the channel, fetch its metadata,
// collect uploads in the date range, then enrich them. Enrichment failures
// are absorbed with defaults; resolution, channel-fetch and collection
// failures propagate as named errors.
func (c *Client) Scrape(ctx context.Context, channelURL, startDate, endDate string) (*ScrapeResult, error) {
	channelID, err := c.ResolveChannelID(ctx, channelURL)
	if err != nil {
		return nil, err
	}

	channel, err := c.FetchChannel(ctx, channelID)
	if err != nil {
		return nil, err
	}

	videos, err := c.CollectVideos(ctx, channelID, startDate, endDate)
	if err != nil {
		return nil, err
	}

	videos = c.EnrichVideos(ctx, videos)

	return &ScrapeResult{
		Channel:   channel,
		Videos:    videos,
		StartDate: startDate,
		EndDate:   endDate,
		ScrapedAt: time.Now().UTC(),
	}, nil
}

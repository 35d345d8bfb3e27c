package youtube

import (
	"context"
	"errors"
	"time"

	"google.golang.org/api/youtube/v3"

	"ytscraper/internal/retry"
)

// fakeAPI implements dataAPI for tests. Each hook defaults to an error so
// tests only wire up the calls they expect; the counters verify how many
// collaborator calls were made.
type fakeAPI struct {
	channelsFn       func(ctx context.Context, parts []string, id, forUsername string) (*youtube.ChannelListResponse, error)
	playlistItemsFn  func(ctx context.Context, playlistID, pageToken string, maxResults int64) (*youtube.PlaylistItemListResponse, error)
	videosFn         func(ctx context.Context, parts []string, ids []string) (*youtube.VideoListResponse, error)
	commentThreadsFn func(ctx context.Context, videoID, pageToken string, maxResults int64) (*youtube.CommentThreadListResponse, error)
	searchFn         func(ctx context.Context, query string, maxResults int64) (*youtube.SearchListResponse, error)

	channelsCalls       int
	playlistItemsCalls  int
	videosCalls         int
	commentThreadsCalls int
	searchCalls         int
}

var errFakeUnexpected = errors.New("unexpected call")

func (f *fakeAPI) listChannels(ctx context.Context, parts []string, id, forUsername string) (*youtube.ChannelListResponse, error) {
	f.channelsCalls++
	if f.channelsFn == nil {
		return nil, errFakeUnexpected
	}
	return f.channelsFn(ctx, parts, id, forUsername)
}

func (f *fakeAPI) listPlaylistItems(ctx context.Context, playlistID, pageToken string, maxResults int64) (*youtube.PlaylistItemListResponse, error) {
	f.playlistItemsCalls++
	if f.playlistItemsFn == nil {
		return nil, errFakeUnexpected
	}
	return f.playlistItemsFn(ctx, playlistID, pageToken, maxResults)
}

func (f *fakeAPI) listVideos(ctx context.Context, parts []string, ids []string) (*youtube.VideoListResponse, error) {
	f.videosCalls++
	if f.videosFn == nil {
		return nil, errFakeUnexpected
	}
	return f.videosFn(ctx, parts, ids)
}

func (f *fakeAPI) listCommentThreads(ctx context.Context, videoID, pageToken string, maxResults int64) (*youtube.CommentThreadListResponse, error) {
	f.commentThreadsCalls++
	if f.commentThreadsFn == nil {
		return nil, errFakeUnexpected
	}
	return f.commentThreadsFn(ctx, videoID, pageToken, maxResults)
}

func (f *fakeAPI) searchChannels(ctx context.Context, query string, maxResults int64) (*youtube.SearchListResponse, error) {
	f.searchCalls++
	if f.searchFn == nil {
		return nil, errFakeUnexpected
	}
	return f.searchFn(ctx, query, maxResults)
}

// newTestClient wires a client around the fake with retry backoff shrunk so
// tests don't sleep, and without rate limiting.
func newTestClient(api dataAPI) *Client {
	c := newClientWithAPI(api)
	c.limiter = nil
	c.RetryConfig = retry.Config{MaxAttempts: 3, Backoff: time.Millisecond}
	return c
}

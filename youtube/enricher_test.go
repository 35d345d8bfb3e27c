package youtube

import (
	"context"
	"fmt"
	"reflect"
	"testing"

	"google.golang.org/api/googleapi"
	"google.golang.org/api/youtube/v3"
)

func collectedVideo(id string) Video {
	return newPartialVideo(id, "Video "+id, "Description "+id, "2024-03-15T12:00:00Z", "https://i.ytimg.com/"+id+"/high.jpg")
}

func videoItem(id string) *youtube.Video {
	return &youtube.Video{
		Id: id,
		Snippet: &youtube.VideoSnippet{
			Tags:                 []string{"go", "tutorial"},
			CategoryId:           "28",
			LiveBroadcastContent: "none",
			DefaultLanguage:      "en",
			DefaultAudioLanguage: "en",
			Localized: &youtube.VideoLocalization{
				Title:       "Localized " + id,
				Description: "Localized description",
			},
		},
		ContentDetails: &youtube.VideoContentDetails{
			Duration:        "PT1M30S",
			Dimension:       "2d",
			Definition:      "hd",
			Caption:         "true",
			LicensedContent: true,
			Projection:      "rectangular",
		},
		Statistics: &youtube.VideoStatistics{
			ViewCount:    1000,
			LikeCount:    40,
			CommentCount: 10,
		},
	}
}

func TestEnrichVideos(t *testing.T) {
	fake := &fakeAPI{
		videosFn: func(ctx context.Context, parts []string, ids []string) (*youtube.VideoListResponse, error) {
			items := make([]*youtube.Video, len(ids))
			for i, id := range ids {
				items[i] = videoItem(id)
			}
			return &youtube.VideoListResponse{Items: items}, nil
		},
		commentThreadsFn: func(ctx context.Context, videoID, pageToken string, maxResults int64) (*youtube.CommentThreadListResponse, error) {
			return &youtube.CommentThreadListResponse{
				Items: []*youtube.CommentThread{{
					Snippet: &youtube.CommentThreadSnippet{
						TopLevelComment: &youtube.Comment{
							Snippet: &youtube.CommentSnippet{
								AuthorDisplayName: "viewer",
								TextDisplay:       "great video",
								LikeCount:         3,
								PublishedAt:       "2024-03-16T00:00:00Z",
								UpdatedAt:         "2024-03-16T00:00:00Z",
							},
						},
					}},
				},
			}, nil
		},
	}
	c := newTestClient(fake)

	got := c.EnrichVideos(context.Background(), []Video{collectedVideo("abc")})
	if len(got) != 1 {
		t.Fatalf("len(got) = %d", len(got))
	}
	v := got[0]
	if v.Duration != "01:30" {
		t.Errorf("Duration = %q, want 01:30", v.Duration)
	}
	if v.ViewCount != 1000 || v.LikeCount != 40 || v.CommentCount != 10 {
		t.Errorf("counts = %d/%d/%d", v.ViewCount, v.LikeCount, v.CommentCount)
	}
	if v.EngagementRate != 5 {
		t.Errorf("EngagementRate = %v, want 5 ((40+10)/1000*100)", v.EngagementRate)
	}
	if !v.Caption || !v.LicensedContent {
		t.Errorf("Caption = %v, LicensedContent = %v", v.Caption, v.LicensedContent)
	}
	if v.VideoURL != "https://www.youtube.com/watch?v=abc" {
		t.Errorf("VideoURL = %q", v.VideoURL)
	}
	if !reflect.DeepEqual(v.Tags, []string{"go", "tutorial"}) {
		t.Errorf("Tags = %v", v.Tags)
	}
	if v.Localized.Title != "Localized abc" {
		t.Errorf("Localized = %+v", v.Localized)
	}
	if len(v.Comments) != 1 || v.Comments[0].Author != "viewer" {
		t.Errorf("Comments = %+v", v.Comments)
	}

	status, pct := c.Progress().Snapshot()
	if pct != 100 {
		t.Errorf("progress = %q %v, want 100%% after enrichment", status, pct)
	}
}

func TestEnrichVideosQuotaAbortsWithoutRetry(t *testing.T) {
	fake := &fakeAPI{
		videosFn: func(ctx context.Context, parts []string, ids []string) (*youtube.VideoListResponse, error) {
			return nil, &googleapi.Error{Code: 403, Message: "quotaExceeded"}
		},
	}
	c := newTestClient(fake)

	got := c.EnrichVideos(context.Background(), []Video{collectedVideo("abc")})
	if fake.videosCalls != 1 {
		t.Errorf("videosCalls = %d, want 1 (quota errors are not retried)", fake.videosCalls)
	}
	v := got[0]
	if v.EngagementRate != 0 {
		t.Errorf("EngagementRate = %v, want 0 on failed batch", v.EngagementRate)
	}
	if v.Comments == nil || len(v.Comments) != 0 {
		t.Errorf("Comments = %v, want empty non-nil slice", v.Comments)
	}
	if v.Title != "Video abc" {
		t.Errorf("Title = %q, basic data must survive", v.Title)
	}
}

func TestEnrichVideosTransientErrorRetriesThenContinues(t *testing.T) {
	fake := &fakeAPI{
		videosFn: func(ctx context.Context, parts []string, ids []string) (*youtube.VideoListResponse, error) {
			return nil, &googleapi.Error{Code: 500, Message: "backendError"}
		},
	}
	c := newTestClient(fake)

	got := c.EnrichVideos(context.Background(), []Video{collectedVideo("abc")})
	if fake.videosCalls != 3 {
		t.Errorf("videosCalls = %d, want 3 (all attempts used)", fake.videosCalls)
	}
	if len(got) != 1 {
		t.Fatalf("len(got) = %d, want the video kept with defaults", len(got))
	}
	if _, pct := c.Progress().Snapshot(); pct != 100 {
		t.Errorf("progress = %v, want 100%% even after a failed batch", pct)
	}
}

func TestEnrichVideosSkipsCommentsForLargeBatches(t *testing.T) {
	fake := &fakeAPI{
		videosFn: func(ctx context.Context, parts []string, ids []string) (*youtube.VideoListResponse, error) {
			items := make([]*youtube.Video, len(ids))
			for i, id := range ids {
				items[i] = videoItem(id)
			}
			return &youtube.VideoListResponse{Items: items}, nil
		},
	}
	c := newTestClient(fake)

	videos := make([]Video, commentSampleBatchMax+1)
	for i := range videos {
		videos[i] = collectedVideo(fmt.Sprintf("v%d", i))
	}

	got := c.EnrichVideos(context.Background(), videos)
	if fake.commentThreadsCalls != 0 {
		t.Errorf("commentThreadsCalls = %d, want 0 for batches over %d videos", fake.commentThreadsCalls, commentSampleBatchMax)
	}
	for _, v := range got {
		if v.Comments == nil {
			t.Errorf("video %q Comments is nil", v.ID)
		}
	}
}

func TestEnrichVideosCommentSampleCappedAcrossPages(t *testing.T) {
	makeThreads := func(n int) []*youtube.CommentThread {
		threads := make([]*youtube.CommentThread, n)
		for i := range threads {
			threads[i] = &youtube.CommentThread{
				Snippet: &youtube.CommentThreadSnippet{
					TopLevelComment: &youtube.Comment{
						Snippet: &youtube.CommentSnippet{
							AuthorDisplayName: fmt.Sprintf("viewer-%d", i),
							TextDisplay:       "comment",
						},
					},
				},
			}
		}
		return threads
	}

	var requested []int64
	fake := &fakeAPI{
		videosFn: func(ctx context.Context, parts []string, ids []string) (*youtube.VideoListResponse, error) {
			return &youtube.VideoListResponse{Items: []*youtube.Video{videoItem("abc")}}, nil
		},
		commentThreadsFn: func(ctx context.Context, videoID, pageToken string, maxResults int64) (*youtube.CommentThreadListResponse, error) {
			requested = append(requested, maxResults)
			if pageToken == "" {
				return &youtube.CommentThreadListResponse{
					Items:         makeThreads(12),
					NextPageToken: "page2",
				}, nil
			}
			// A full page; the sample must still stop at the cap.
			return &youtube.CommentThreadListResponse{
				Items:         makeThreads(int(maxResults)),
				NextPageToken: "page3",
			}, nil
		},
	}
	c := newTestClient(fake)

	got := c.EnrichVideos(context.Background(), []Video{collectedVideo("abc")})
	if len(got[0].Comments) != commentSampleSize {
		t.Errorf("len(Comments) = %d, want %d", len(got[0].Comments), commentSampleSize)
	}
	if fake.commentThreadsCalls != 2 {
		t.Errorf("commentThreadsCalls = %d, want 2 (12 then the 8 remaining)", fake.commentThreadsCalls)
	}
	if len(requested) != 2 || requested[0] != 20 || requested[1] != 8 {
		t.Errorf("requested page sizes = %v, want [20 8]", requested)
	}
}

func TestEnrichVideosBatchFailureIsIsolated(t *testing.T) {
	fake := &fakeAPI{
		commentThreadsFn: func(ctx context.Context, videoID, pageToken string, maxResults int64) (*youtube.CommentThreadListResponse, error) {
			return &youtube.CommentThreadListResponse{}, nil
		},
	}
	fake.videosFn = func(ctx context.Context, parts []string, ids []string) (*youtube.VideoListResponse, error) {
		// First batch hits the quota wall; the second succeeds.
		if fake.videosCalls == 1 {
			return nil, &googleapi.Error{Code: 403, Message: "quotaExceeded"}
		}
		items := make([]*youtube.Video, len(ids))
		for i, id := range ids {
			items[i] = videoItem(id)
		}
		return &youtube.VideoListResponse{Items: items}, nil
	}
	c := newTestClient(fake)

	videos := make([]Video, detailBatchSize+10)
	for i := range videos {
		videos[i] = collectedVideo(fmt.Sprintf("v%d", i))
	}

	got := c.EnrichVideos(context.Background(), videos)
	if fake.videosCalls != 2 {
		t.Fatalf("videosCalls = %d, want 2 (quota batch not retried, next batch still runs)", fake.videosCalls)
	}

	first, second := got[:detailBatchSize], got[detailBatchSize:]
	for _, v := range first {
		if v.Duration != "" || v.EngagementRate != 0 {
			t.Fatalf("video %q from the failed batch was enriched: duration %q rate %v", v.ID, v.Duration, v.EngagementRate)
		}
	}
	for _, v := range second {
		if v.Duration != "01:30" || v.EngagementRate != 5 {
			t.Fatalf("video %q from the second batch kept defaults: duration %q rate %v", v.ID, v.Duration, v.EngagementRate)
		}
	}
	if _, pct := c.Progress().Snapshot(); pct != 100 {
		t.Errorf("progress = %v, want 100%% after a partially failed enrichment", pct)
	}
}

func TestEnrichVideosCommentFailureYieldsEmptySample(t *testing.T) {
	fake := &fakeAPI{
		videosFn: func(ctx context.Context, parts []string, ids []string) (*youtube.VideoListResponse, error) {
			return &youtube.VideoListResponse{Items: []*youtube.Video{videoItem("abc")}}, nil
		},
		commentThreadsFn: func(ctx context.Context, videoID, pageToken string, maxResults int64) (*youtube.CommentThreadListResponse, error) {
			return nil, &googleapi.Error{Code: 403, Message: "commentsDisabled"}
		},
	}
	c := newTestClient(fake)

	got := c.EnrichVideos(context.Background(), []Video{collectedVideo("abc")})
	if got[0].Comments == nil || len(got[0].Comments) != 0 {
		t.Errorf("Comments = %v, want empty non-nil slice when comments are disabled", got[0].Comments)
	}
	if got[0].EngagementRate != 5 {
		t.Errorf("EngagementRate = %v, enrichment must survive a comment failure", got[0].EngagementRate)
	}
}

func TestPopulateVideoZeroViews(t *testing.T) {
	v := collectedVideo("abc")
	item := videoItem("abc")
	item.Statistics = &youtube.VideoStatistics{ViewCount: 0, LikeCount: 10, CommentCount: 5}
	populateVideo(&v, item)
	if v.EngagementRate != 0 {
		t.Errorf("EngagementRate = %v, want 0 when view count is zero", v.EngagementRate)
	}
}

func TestPopulateVideoDescriptionURLs(t *testing.T) {
	v := collectedVideo("abc")
	v.Description = "see http://example.com/x and https://example.org/path?q=1 for more"
	populateVideo(&v, videoItem("abc"))
	want := []string{"http://example.com/x", "https://example.org/path?q=1"}
	if !reflect.DeepEqual(v.DescriptionURLs, want) {
		t.Errorf("DescriptionURLs = %v, want %v", v.DescriptionURLs, want)
	}

	v2 := collectedVideo("def")
	v2.Description = "no links here"
	populateVideo(&v2, videoItem("def"))
	if v2.DescriptionURLs == nil || len(v2.DescriptionURLs) != 0 {
		t.Errorf("DescriptionURLs = %v, want empty non-nil slice", v2.DescriptionURLs)
	}
}

func TestPopulateVideoMissingPartsKeepDefaults(t *testing.T) {
	v := collectedVideo("abc")
	populateVideo(&v, &youtube.Video{Id: "abc"})
	if v.Duration != "00:00" {
		t.Errorf("Duration = %q, want 00:00", v.Duration)
	}
	if v.Dimension != "N/A" || v.CategoryID != "N/A" || v.LiveBroadcastContent != "none" {
		t.Errorf("defaults = %q/%q/%q", v.Dimension, v.CategoryID, v.LiveBroadcastContent)
	}
}

func TestFormatDuration(t *testing.T) {
	tests := []struct {
		iso  string
		want string
	}{
		{"PT1M30S", "01:30"},
		{"PT45S", "00:45"},
		{"PT1H2M3S", "01:02:03"},
		{"PT2H", "02:00:00"},
		{"", "00:00"},
		{"garbage", "00:00"},
	}
	for _, tt := range tests {
		if got := formatDuration(tt.iso); got != tt.want {
			t.Errorf("formatDuration(%q) = %q, want %q", tt.iso, got, tt.want)
		}
	}
}

package youtube

import "context"

// fetchComments retrieves up to max top-level comments for a video, paging
// at commentPageSize per request. Comments disabled (403) or any other
// failure yields an empty sample; a comment fetch never fails the batch.
func (c *Client) fetchComments(ctx context.Context, videoID string, max int) []Comment {
	comments := []Comment{}
	pageToken := ""

	for len(comments) < max {
		want := max - len(comments)
		if want > commentPageSize {
			want = commentPageSize
		}

		resp, err := c.commentThreads(ctx, videoID, pageToken, int64(want))
		if err != nil {
			c.logger.Debug().Err(err).Str("video_id", videoID).Msg("comment fetch failed, using empty sample")
			return []Comment{}
		}

		for _, item := range resp.Items {
			if item.Snippet == nil || item.Snippet.TopLevelComment == nil ||
				item.Snippet.TopLevelComment.Snippet == nil {
				continue
			}
			top := item.Snippet.TopLevelComment.Snippet
			comments = append(comments, Comment{
				Author:      top.AuthorDisplayName,
				Text:        top.TextDisplay,
				LikeCount:   top.LikeCount,
				PublishedAt: top.PublishedAt,
				UpdatedAt:   top.UpdatedAt,
			})
		}

		pageToken = resp.NextPageToken
		if pageToken == "" {
			break
		}
	}

	if len(comments) > max {
		comments = comments[:max]
	}
	return comments
}

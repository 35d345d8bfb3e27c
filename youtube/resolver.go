package youtube

import (
	"context"
	"fmt"
	"net/url"
	"regexp"
	"strings"
)

// channelIDPattern matches a bare channel ID ("UC" + 22 characters).
var channelIDPattern = regexp.MustCompile(`^UC[A-Za-z0-9_-]{22}$`)

// RefKind identifies the shape of a channel reference.
type RefKind int

const (
	// RefDirectChannel is a /channel/<id> path; the ID is used verbatim.
	RefDirectChannel RefKind = iota
	// RefUsername is a legacy /user/<name> path.
	RefUsername
	// RefCustomName is a /c/<name> custom URL path.
	RefCustomName
	// RefHandle is a /@handle path.
	RefHandle
	// RefWatchVideo is a /watch?v=<id> path; the owning channel is looked up.
	RefWatchVideo
	// RefShortLink is a youtu.be/<id> short link.
	RefShortLink
	// RefSearch is any other shape on a recognized host; the raw input is
	// used as a channel search query.
	RefSearch
)

// String returns the reference kind name.
func (k RefKind) String() string {
	switch k {
	case RefDirectChannel:
		return "channel"
	case RefUsername:
		return "username"
	case RefCustomName:
		return "custom"
	case RefHandle:
		return "handle"
	case RefWatchVideo:
		return "watch"
	case RefShortLink:
		return "shortlink"
	case RefSearch:
		return "search"
	}
	return "unknown"
}

// ChannelRef is a parsed channel reference: the shape of the input plus its
// payload (channel ID, username, custom name, handle, video ID, or search
// query).
type ChannelRef struct {
	Kind  RefKind
	Value string
}

// ParseChannelURL classifies a YouTube URL into a ChannelRef. Only
// youtube.com, www.youtube.com and youtu.be hosts are accepted; anything
// else fails with ErrInvalidURL. A recognized host with an unrecognized
// path shape falls back to RefSearch carrying the raw input. A bare
// search term without a host is rejected rather than searched, a
// deliberate choice: the search fallback exists to absorb odd URL shapes
// on known hosts, and treating arbitrary text as a query would turn every
// typo into a scrape of whichever channel ranks first for it.
func ParseChannelURL(raw string) (ChannelRef, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return ChannelRef{}, fmt.Errorf("%w: empty input", ErrInvalidURL)
	}

	// A bare channel ID needs no URL parsing at all.
	if channelIDPattern.MatchString(raw) {
		return ChannelRef{Kind: RefDirectChannel, Value: raw}, nil
	}

	u, err := url.Parse(raw)
	if err != nil {
		return ChannelRef{}, fmt.Errorf("%w: %q", ErrInvalidURL, raw)
	}

	switch u.Host {
	case "youtu.be":
		videoID := strings.Trim(u.Path, "/")
		if videoID == "" {
			return ChannelRef{}, fmt.Errorf("%w: short link without video ID", ErrInvalidURL)
		}
		return ChannelRef{Kind: RefShortLink, Value: videoID}, nil
	case "www.youtube.com", "youtube.com":
	default:
		return ChannelRef{}, fmt.Errorf("%w: unrecognized host %q", ErrInvalidURL, u.Host)
	}

	path := u.Path
	switch {
	case strings.HasPrefix(path, "/channel/"):
		id := pathSegment(path, "/channel/")
		if id == "" {
			return ChannelRef{}, fmt.Errorf("%w: channel path without ID", ErrInvalidURL)
		}
		return ChannelRef{Kind: RefDirectChannel, Value: id}, nil
	case strings.HasPrefix(path, "/user/"):
		return ChannelRef{Kind: RefUsername, Value: pathSegment(path, "/user/")}, nil
	case strings.HasPrefix(path, "/c/"):
		return ChannelRef{Kind: RefCustomName, Value: pathSegment(path, "/c/")}, nil
	case strings.HasPrefix(path, "/@"):
		return ChannelRef{Kind: RefHandle, Value: pathSegment(path, "/@")}, nil
	case strings.Contains(path, "/watch"):
		if v := u.Query().Get("v"); v != "" {
			return ChannelRef{Kind: RefWatchVideo, Value: v}, nil
		}
		return ChannelRef{Kind: RefSearch, Value: raw}, nil
	}

	return ChannelRef{Kind: RefSearch, Value: raw}, nil
}

// pathSegment returns the first path element after the given prefix.
func pathSegment(path, prefix string) string {
	rest := strings.TrimPrefix(path, prefix)
	if i := strings.IndexByte(rest, '/'); i >= 0 {
		rest = rest[:i]
	}
	return rest
}

// ResolveChannelID resolves any supported channel reference to a canonical
// channel ID. Lookup failures of any kind (network, empty results,
// malformed responses) degrade to ErrChannelNotFound so the caller can show
// a generic "could not resolve" message.
func (c *Client) ResolveChannelID(ctx context.Context, raw string) (string, error) {
	ref, err := ParseChannelURL(raw)
	if err != nil {
		return "", err
	}

	c.logger.Debug().Str("kind", ref.Kind.String()).Str("value", ref.Value).Msg("resolving channel reference")

	switch ref.Kind {
	case RefDirectChannel:
		return ref.Value, nil
	case RefUsername:
		return c.channelIDFromUsername(ctx, ref.Value)
	case RefCustomName:
		return c.channelIDFromCustomName(ctx, ref.Value)
	case RefHandle:
		return c.channelIDFromHandle(ctx, ref.Value)
	case RefWatchVideo, RefShortLink:
		return c.channelIDFromVideo(ctx, ref.Value)
	default:
		return c.searchChannelID(ctx, ref.Value)
	}
}

// channelIDFromUsername resolves a legacy username via channels.list,
// falling back to a channel search when there is no direct match.
func (c *Client) channelIDFromUsername(ctx context.Context, username string) (string, error) {
	resp, err := c.channels(ctx, []string{"id"}, "", username)
	if err != nil {
		c.logger.Debug().Err(err).Str("username", username).Msg("username lookup failed")
		return "", ErrChannelNotFound
	}
	if len(resp.Items) > 0 {
		return resp.Items[0].Id, nil
	}
	return c.searchChannelID(ctx, username)
}

// channelIDFromCustomName resolves a /c/ custom name via channel search,
// preferring an exact case-insensitive title match over the first result.
func (c *Client) channelIDFromCustomName(ctx context.Context, customName string) (string, error) {
	resp, err := c.search(ctx, customName, 5)
	if err != nil {
		c.logger.Debug().Err(err).Str("custom_name", customName).Msg("custom name search failed")
		return "", ErrChannelNotFound
	}
	if len(resp.Items) == 0 {
		return "", ErrChannelNotFound
	}
	for _, item := range resp.Items {
		if item.Snippet != nil && strings.EqualFold(item.Snippet.Title, customName) {
			return item.Snippet.ChannelId, nil
		}
	}
	if resp.Items[0].Snippet == nil {
		return "", ErrChannelNotFound
	}
	return resp.Items[0].Snippet.ChannelId, nil
}

// channelIDFromHandle resolves a @handle via channel search.
func (c *Client) channelIDFromHandle(ctx context.Context, handle string) (string, error) {
	resp, err := c.search(ctx, handle, 5)
	if err != nil {
		c.logger.Debug().Err(err).Str("handle", handle).Msg("handle search failed")
		return "", ErrChannelNotFound
	}
	if len(resp.Items) == 0 || resp.Items[0].Snippet == nil {
		return "", ErrChannelNotFound
	}
	return resp.Items[0].Snippet.ChannelId, nil
}

// channelIDFromVideo resolves the channel owning the given video.
func (c *Client) channelIDFromVideo(ctx context.Context, videoID string) (string, error) {
	resp, err := c.videos(ctx, []string{"snippet"}, []string{videoID})
	if err != nil {
		c.logger.Debug().Err(err).Str("video_id", videoID).Msg("video lookup failed")
		return "", ErrChannelNotFound
	}
	if len(resp.Items) == 0 || resp.Items[0].Snippet == nil {
		return "", ErrChannelNotFound
	}
	return resp.Items[0].Snippet.ChannelId, nil
}

// searchChannelID performs a generic channel search with the given query.
func (c *Client) searchChannelID(ctx context.Context, query string) (string, error) {
	resp, err := c.search(ctx, query, 1)
	if err != nil {
		c.logger.Debug().Err(err).Str("query", query).Msg("channel search failed")
		return "", ErrChannelNotFound
	}
	if len(resp.Items) == 0 || resp.Items[0].Snippet == nil {
		return "", ErrChannelNotFound
	}
	return resp.Items[0].Snippet.ChannelId, nil
}

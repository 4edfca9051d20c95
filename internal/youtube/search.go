// internal/youtube/search.go
package youtube

import (
	"context"
	"fmt"
	"net/url"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/user/commentwatch/internal/types"
)

type searchResponse struct {
	Items []struct {
		ID struct {
			Kind    string `json:"kind"`
			VideoID string `json:"videoId"`
		} `json:"id"`
	} `json:"items"`
	NextPageToken string `json:"nextPageToken"`
}

func (r searchResponse) videoIDs() []types.VideoID {
	ids := make([]types.VideoID, 0, len(r.Items))
	for _, item := range r.Items {
		if item.ID.VideoID != "" {
			ids = append(ids, types.VideoID(item.ID.VideoID))
		}
	}
	return ids
}

type channelsResponse struct {
	Items []struct {
		ContentDetails struct {
			RelatedPlaylists struct {
				Uploads string `json:"uploads"`
			} `json:"relatedPlaylists"`
		} `json:"contentDetails"`
	} `json:"items"`
}

type playlistItemsResponse struct {
	Items []struct {
		ContentDetails struct {
			VideoID string `json:"videoId"`
		} `json:"contentDetails"`
	} `json:"items"`
}

type videosResponse struct {
	Items []struct {
		ID      string `json:"id"`
		Snippet struct {
			PublishedAt string `json:"publishedAt"`
		} `json:"snippet"`
		Statistics struct {
			CommentCount string `json:"commentCount"`
		} `json:"statistics"`
	} `json:"items"`
}

// ChannelUploads returns the most recent uploads of a channel, read
// from its uploads playlist.
func (c *Client) ChannelUploads(ctx context.Context, id types.ChannelID, limit int) ([]types.VideoID, error) {
	if limit <= 0 {
		limit = 5
	}
	if limit > maxSearchPerPage {
		limit = maxSearchPerPage
	}

	var channels channelsResponse
	params := url.Values{
		"part": {"contentDetails"},
		"id":   {string(id)},
	}
	if err := c.get(ctx, "channels", params, &channels); err != nil {
		return nil, err
	}
	if len(channels.Items) == 0 {
		return nil, fmt.Errorf("channel %s: %w", id, ErrNotFound)
	}
	uploads := channels.Items[0].ContentDetails.RelatedPlaylists.Uploads

	var playlist playlistItemsResponse
	params = url.Values{
		"part":       {"contentDetails"},
		"playlistId": {uploads},
		"maxResults": {strconv.Itoa(limit)},
	}
	if err := c.get(ctx, "playlistItems", params, &playlist); err != nil {
		return nil, err
	}

	ids := make([]types.VideoID, 0, len(playlist.Items))
	for _, item := range playlist.Items {
		if item.ContentDetails.VideoID != "" {
			ids = append(ids, types.VideoID(item.ContentDetails.VideoID))
		}
	}
	return ids, nil
}

// SearchByCategory returns the latest videos of a category.
func (c *Client) SearchByCategory(ctx context.Context, categoryID string, limit int) ([]types.VideoID, error) {
	if limit <= 0 {
		limit = 5
	}

	var ids []types.VideoID
	pageToken := ""
	for len(ids) < limit {
		pageSize := limit - len(ids)
		if pageSize > maxSearchPerPage {
			pageSize = maxSearchPerPage
		}

		params := url.Values{
			"part":            {"id"},
			"videoCategoryId": {categoryID},
			"type":            {"video"},
			"order":           {"date"},
			"maxResults":      {strconv.Itoa(pageSize)},
		}
		if pageToken != "" {
			params.Set("pageToken", pageToken)
		}

		var page searchResponse
		if err := c.get(ctx, "search", params, &page); err != nil {
			return nil, err
		}
		ids = append(ids, page.videoIDs()...)

		if page.NextPageToken == "" || len(page.Items) == 0 {
			break
		}
		pageToken = page.NextPageToken
	}

	if len(ids) > limit {
		ids = ids[:limit]
	}
	return ids, nil
}

// SearchByKeyword returns recent videos matching keyword, ranked by
// comment activity. It over-fetches three times the requested amount,
// drops videos below opts.MinCommentCount or older than
// opts.MaxAgeDays, then keeps the busiest opts.MaxVideos, preferring
// newer uploads on ties.
func (c *Client) SearchByKeyword(ctx context.Context, keyword string, opts types.SearchOptions) ([]types.VideoID, error) {
	maxVideos := opts.MaxVideos
	if maxVideos <= 0 {
		maxVideos = 20
	}
	maxAge := opts.MaxAgeDays
	if maxAge <= 0 {
		maxAge = 7
	}
	now := time.Now().UTC()
	cutoff := now.AddDate(0, 0, -maxAge)

	// Over-fetch so the activity filter still leaves enough.
	fetchLimit := maxVideos * 3
	var ids []types.VideoID
	pageToken := ""
	for len(ids) < fetchLimit {
		pageSize := fetchLimit - len(ids)
		if pageSize > maxSearchPerPage {
			pageSize = maxSearchPerPage
		}

		params := url.Values{
			"part":           {"id"},
			"q":              {keyword},
			"type":           {"video"},
			"order":          {"date"},
			"publishedAfter": {cutoff.Format(time.RFC3339)},
			"maxResults":     {strconv.Itoa(pageSize)},
		}
		if pageToken != "" {
			params.Set("pageToken", pageToken)
		}

		var page searchResponse
		if err := c.get(ctx, "search", params, &page); err != nil {
			return nil, err
		}
		ids = append(ids, page.videoIDs()...)

		if page.NextPageToken == "" || len(page.Items) == 0 {
			break
		}
		pageToken = page.NextPageToken
	}

	stats, err := c.VideoStats(ctx, ids)
	if err != nil {
		return nil, err
	}

	type ranked struct {
		id    types.VideoID
		stats VideoStats
	}
	keep := make([]ranked, 0, len(ids))
	for _, id := range ids {
		st, ok := stats[id]
		if !ok || st.CommentCount < int64(opts.MinCommentCount) {
			continue
		}
		// Unparseable upload dates fail the age check too.
		if st.PublishedAt.Before(cutoff) {
			continue
		}
		keep = append(keep, ranked{id: id, stats: st})
	}

	sort.SliceStable(keep, func(i, j int) bool {
		if keep[i].stats.CommentCount != keep[j].stats.CommentCount {
			return keep[i].stats.CommentCount > keep[j].stats.CommentCount
		}
		return keep[i].stats.PublishedAt.After(keep[j].stats.PublishedAt)
	})

	if len(keep) > maxVideos {
		keep = keep[:maxVideos]
	}
	out := make([]types.VideoID, len(keep))
	for i, r := range keep {
		out[i] = r.id
	}
	return out, nil
}

// VideoStats fetches statistics for the given videos, batched per the
// API's 50-id request limit. Videos the API omits are absent from the
// returned map.
func (c *Client) VideoStats(ctx context.Context, ids []types.VideoID) (map[types.VideoID]VideoStats, error) {
	stats := make(map[types.VideoID]VideoStats, len(ids))
	for start := 0; start < len(ids); start += maxStatsPerRequest {
		end := start + maxStatsPerRequest
		if end > len(ids) {
			end = len(ids)
		}

		batch := ids[start:end]
		joined := make([]string, len(batch))
		for i, id := range batch {
			joined[i] = string(id)
		}

		params := url.Values{
			"part": {"statistics,snippet"},
			"id":   {strings.Join(joined, ",")},
		}
		var page videosResponse
		if err := c.get(ctx, "videos", params, &page); err != nil {
			return nil, err
		}
		for _, item := range page.Items {
			stats[types.VideoID(item.ID)] = VideoStats{
				CommentCount: parseCount(item.Statistics.CommentCount),
				PublishedAt:  parseTime(item.Snippet.PublishedAt),
			}
		}
	}
	return stats, nil
}

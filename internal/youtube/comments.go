// internal/youtube/comments.go
package youtube

import (
	"context"
	"net/url"
	"strconv"

	"github.com/user/commentwatch/internal/types"
)

type commentThreadsResponse struct {
	Items []struct {
		Snippet struct {
			TopLevelComment struct {
				ID      string `json:"id"`
				Snippet struct {
					TextDisplay       string `json:"textDisplay"`
					AuthorDisplayName string `json:"authorDisplayName"`
					PublishedAt       string `json:"publishedAt"`
				} `json:"snippet"`
			} `json:"topLevelComment"`
		} `json:"snippet"`
	} `json:"items"`
	NextPageToken string `json:"nextPageToken"`
}

// VideoComments returns up to limit top-level comments for a video in
// the API's newest-first order. Comment markup is normalized to plain
// text before return.
func (c *Client) VideoComments(ctx context.Context, id types.VideoID, limit int) ([]types.Comment, error) {
	if limit <= 0 {
		limit = maxCommentsPerPage
	}

	var comments []types.Comment
	pageToken := ""
	for len(comments) < limit {
		pageSize := limit - len(comments)
		if pageSize > maxCommentsPerPage {
			pageSize = maxCommentsPerPage
		}

		params := url.Values{
			"part":       {"snippet"},
			"videoId":    {string(id)},
			"order":      {"time"},
			"textFormat": {"html"},
			"maxResults": {strconv.Itoa(pageSize)},
		}
		if pageToken != "" {
			params.Set("pageToken", pageToken)
		}

		var page commentThreadsResponse
		if err := c.get(ctx, "commentThreads", params, &page); err != nil {
			return nil, err
		}

		for _, item := range page.Items {
			top := item.Snippet.TopLevelComment
			comments = append(comments, types.Comment{
				ID:          types.CommentID(top.ID),
				Text:        normalizeText(top.Snippet.TextDisplay),
				Author:      top.Snippet.AuthorDisplayName,
				PublishedAt: parseTime(top.Snippet.PublishedAt),
			})
		}

		if page.NextPageToken == "" || len(page.Items) == 0 {
			break
		}
		pageToken = page.NextPageToken
	}

	if len(comments) > limit {
		comments = comments[:limit]
	}
	return comments, nil
}

// internal/youtube/client_test.go
package youtube

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/user/commentwatch/internal/types"
)

func newTestClient(handler http.HandlerFunc) (*Client, *httptest.Server) {
	server := httptest.NewServer(handler)
	c := New("test-key")
	c.baseURL = server.URL
	return c, server
}

func TestVideoComments(t *testing.T) {
	c, server := newTestClient(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/commentThreads" {
			t.Errorf("unexpected path %s", r.URL.Path)
		}
		q := r.URL.Query()
		if q.Get("key") != "test-key" {
			t.Error("missing API key")
		}
		if q.Get("videoId") != "vid123" {
			t.Errorf("unexpected videoId %s", q.Get("videoId"))
		}
		if q.Get("textFormat") != "html" {
			t.Errorf("expected html textFormat, got %s", q.Get("textFormat"))
		}

		if q.Get("pageToken") == "" {
			fmt.Fprint(w, `{
				"items": [
					{"snippet": {"topLevelComment": {"id": "c1", "snippet": {
						"textDisplay": "8月30日 19時から<br>渋谷で<b>オフ会</b>開催します",
						"authorDisplayName": "alice",
						"publishedAt": "2025-08-20T10:00:00Z"
					}}}},
					{"snippet": {"topLevelComment": {"id": "c2", "snippet": {
						"textDisplay": "詳細は<a href=\"https://spam.example/x\">ここ</a>",
						"authorDisplayName": "bob",
						"publishedAt": "2025-08-20T11:00:00Z"
					}}}}
				],
				"nextPageToken": "page2"
			}`)
			return
		}
		if q.Get("pageToken") != "page2" {
			t.Errorf("unexpected pageToken %s", q.Get("pageToken"))
		}
		fmt.Fprint(w, `{
			"items": [
				{"snippet": {"topLevelComment": {"id": "c3", "snippet": {
					"textDisplay": "楽しみです",
					"authorDisplayName": "carol",
					"publishedAt": "2025-08-20T12:00:00Z"
				}}}}
			]
		}`)
	})
	defer server.Close()

	comments, err := c.VideoComments(context.Background(), "vid123", 10)
	if err != nil {
		t.Fatal(err)
	}
	if len(comments) != 3 {
		t.Fatalf("expected 3 comments, got %d", len(comments))
	}
	if comments[0].ID != "c1" || comments[1].ID != "c2" || comments[2].ID != "c3" {
		t.Errorf("expected API order preserved, got %v", comments)
	}

	// Markup is normalized: tags are gone, anchor targets survive.
	if strings.Contains(comments[0].Text, "<b>") || strings.Contains(comments[0].Text, "<br>") {
		t.Errorf("expected tags stripped, got %q", comments[0].Text)
	}
	if !strings.Contains(comments[0].Text, "オフ会") {
		t.Errorf("expected text preserved, got %q", comments[0].Text)
	}
	if !strings.Contains(comments[1].Text, "https://spam.example/x") {
		t.Errorf("expected anchor URL surfaced, got %q", comments[1].Text)
	}

	if comments[0].Author != "alice" {
		t.Errorf("unexpected author %q", comments[0].Author)
	}
	if comments[0].PublishedAt.IsZero() {
		t.Error("expected publishedAt parsed")
	}
}

func TestVideoCommentsLimit(t *testing.T) {
	c, server := newTestClient(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `{
			"items": [
				{"snippet": {"topLevelComment": {"id": "c1", "snippet": {"textDisplay": "a"}}}},
				{"snippet": {"topLevelComment": {"id": "c2", "snippet": {"textDisplay": "b"}}}},
				{"snippet": {"topLevelComment": {"id": "c3", "snippet": {"textDisplay": "c"}}}}
			],
			"nextPageToken": "more"
		}`)
	})
	defer server.Close()

	comments, err := c.VideoComments(context.Background(), "vid123", 2)
	if err != nil {
		t.Fatal(err)
	}
	if len(comments) != 2 {
		t.Errorf("expected limit respected, got %d comments", len(comments))
	}
}

func TestQuotaError(t *testing.T) {
	c, server := newTestClient(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusForbidden)
		fmt.Fprint(w, `{"error": {"code": 403, "message": "quotaExceeded"}}`)
	})
	defer server.Close()

	_, err := c.VideoComments(context.Background(), "vid123", 10)
	if !errors.Is(err, ErrQuota) {
		t.Errorf("expected ErrQuota, got %v", err)
	}
	if !strings.Contains(err.Error(), "quotaExceeded") {
		t.Errorf("expected API message in error, got %v", err)
	}
}

func TestNotFoundError(t *testing.T) {
	c, server := newTestClient(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
		fmt.Fprint(w, `{"error": {"code": 404, "message": "videoNotFound"}}`)
	})
	defer server.Close()

	_, err := c.VideoComments(context.Background(), "gone", 10)
	if !errors.Is(err, ErrNotFound) {
		t.Errorf("expected ErrNotFound, got %v", err)
	}
}

func TestChannelUploads(t *testing.T) {
	c, server := newTestClient(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/channels":
			if r.URL.Query().Get("id") != "chan1" {
				t.Errorf("unexpected channel id %s", r.URL.Query().Get("id"))
			}
			fmt.Fprint(w, `{"items": [{"contentDetails": {"relatedPlaylists": {"uploads": "UUchan1"}}}]}`)
		case "/playlistItems":
			if r.URL.Query().Get("playlistId") != "UUchan1" {
				t.Errorf("unexpected playlist %s", r.URL.Query().Get("playlistId"))
			}
			fmt.Fprint(w, `{"items": [
				{"contentDetails": {"videoId": "v1"}},
				{"contentDetails": {"videoId": "v2"}}
			]}`)
		default:
			t.Errorf("unexpected path %s", r.URL.Path)
		}
	})
	defer server.Close()

	ids, err := c.ChannelUploads(context.Background(), "chan1", 5)
	if err != nil {
		t.Fatal(err)
	}
	if len(ids) != 2 || ids[0] != "v1" || ids[1] != "v2" {
		t.Errorf("unexpected ids %v", ids)
	}
}

func TestChannelUploadsUnknownChannel(t *testing.T) {
	c, server := newTestClient(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `{"items": []}`)
	})
	defer server.Close()

	_, err := c.ChannelUploads(context.Background(), "nope", 5)
	if !errors.Is(err, ErrNotFound) {
		t.Errorf("expected ErrNotFound, got %v", err)
	}
}

func TestSearchByCategory(t *testing.T) {
	c, server := newTestClient(func(w http.ResponseWriter, r *http.Request) {
		q := r.URL.Query()
		if q.Get("videoCategoryId") != "10" || q.Get("order") != "date" || q.Get("type") != "video" {
			t.Errorf("unexpected query %v", q)
		}
		fmt.Fprint(w, `{"items": [{"id": {"videoId": "v9"}}]}`)
	})
	defer server.Close()

	ids, err := c.SearchByCategory(context.Background(), "10", 5)
	if err != nil {
		t.Fatal(err)
	}
	if len(ids) != 1 || ids[0] != "v9" {
		t.Errorf("unexpected ids %v", ids)
	}
}

func TestSearchByKeyword(t *testing.T) {
	day := func(daysAgo int) string {
		return time.Now().UTC().AddDate(0, 0, -daysAgo).Format(time.RFC3339)
	}
	c, server := newTestClient(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/search":
			q := r.URL.Query()
			if q.Get("q") != "副業" {
				t.Errorf("unexpected keyword %s", q.Get("q"))
			}
			if q.Get("publishedAfter") == "" {
				t.Error("expected publishedAfter to bound the search window")
			}
			fmt.Fprint(w, `{"items": [
				{"id": {"videoId": "quiet"}},
				{"id": {"videoId": "old-busy"}},
				{"id": {"videoId": "new-busy"}},
				{"id": {"videoId": "busiest"}},
				{"id": {"videoId": "stale"}}
			]}`)
		case "/videos":
			fmt.Fprintf(w, `{"items": [
				{"id": "quiet", "snippet": {"publishedAt": %q}, "statistics": {"commentCount": "5"}},
				{"id": "old-busy", "snippet": {"publishedAt": %q}, "statistics": {"commentCount": "50"}},
				{"id": "new-busy", "snippet": {"publishedAt": %q}, "statistics": {"commentCount": "50"}},
				{"id": "busiest", "snippet": {"publishedAt": %q}, "statistics": {"commentCount": "100"}},
				{"id": "stale", "snippet": {"publishedAt": %q}, "statistics": {"commentCount": "500"}}
			]}`, day(1), day(3), day(1), day(2), day(30))
		default:
			t.Errorf("unexpected path %s", r.URL.Path)
		}
	})
	defer server.Close()

	ids, err := c.SearchByKeyword(context.Background(), "副業", types.SearchOptions{
		MaxVideos:       3,
		MinCommentCount: 10,
		MaxAgeDays:      7,
	})
	if err != nil {
		t.Fatal(err)
	}

	// quiet falls below the comment threshold, stale is too old, and
	// ties rank newer first.
	want := []types.VideoID{"busiest", "new-busy", "old-busy"}
	if len(ids) != len(want) {
		t.Fatalf("expected %v, got %v", want, ids)
	}
	for i := range want {
		if ids[i] != want[i] {
			t.Errorf("position %d: expected %s, got %s", i, want[i], ids[i])
		}
	}
}

func TestVideoStatsBatching(t *testing.T) {
	var batchSizes []int
	c, server := newTestClient(func(w http.ResponseWriter, r *http.Request) {
		ids := strings.Split(r.URL.Query().Get("id"), ",")
		batchSizes = append(batchSizes, len(ids))
		fmt.Fprint(w, `{"items": []}`)
	})
	defer server.Close()

	ids := make([]types.VideoID, 60)
	for i := range ids {
		ids[i] = types.VideoID(fmt.Sprintf("v%d", i))
	}

	if _, err := c.VideoStats(context.Background(), ids); err != nil {
		t.Fatal(err)
	}
	if len(batchSizes) != 2 || batchSizes[0] != 50 || batchSizes[1] != 10 {
		t.Errorf("expected batches of 50 and 10, got %v", batchSizes)
	}
}

func TestVideoStatsEmpty(t *testing.T) {
	c := New("test-key") // no server; must not be contacted
	stats, err := c.VideoStats(context.Background(), nil)
	if err != nil {
		t.Fatal(err)
	}
	if len(stats) != 0 {
		t.Errorf("expected empty map, got %v", stats)
	}
}

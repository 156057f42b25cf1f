package sources

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strconv"
	"sync"
	"strings"
	"testing"
	"time"
	"unicode/utf8"

	"github.com/kova98/redditscrape/enums"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testUserAgent = "redditscrape-test/1.0"

type fakeReddit struct {
	mu          sync.Mutex
	requests    []*http.Request
	userAgents  []string
	totalPosts  int
	listingCode int
}

func (f *fakeReddit) handler(t *testing.T) http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("POST /api/v1/access_token", func(w http.ResponseWriter, r *http.Request) {
		f.record(r)
		id, secret, ok := r.BasicAuth()
		if !ok || id != "id" || secret != "secret" {
			w.WriteHeader(http.StatusUnauthorized)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		fmt.Fprint(w, `{"access_token":"tok","token_type":"bearer","expires_in":3600}`)
	})
	listing := func(w http.ResponseWriter, r *http.Request) {
		f.record(r)
		assert.Equal(t, "Bearer tok", r.Header.Get("Authorization"))
		if f.listingCode != 0 {
			w.WriteHeader(f.listingCode)
			fmt.Fprint(w, `{"message": "Forbidden", "error": 403}`)
			return
		}

		limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))
		offset, _ := strconv.Atoi(r.URL.Query().Get("after"))
		n := min(limit, f.totalPosts-offset)

		children := make([]map[string]any, 0, n)
		for i := 0; i < n; i++ {
			children = append(children, map[string]any{"kind": "t3", "data": map[string]any{
				"id":           fmt.Sprintf("p%d", offset+i),
				"title":        "post",
				"created_utc":  1700000000.0,
				"upvote_ratio": 0.9,
				"num_comments": 3,
				"permalink":    fmt.Sprintf("/r/%s/comments/p%d/post/", r.PathValue("sub"), offset+i),
			}})
		}
		after := ""
		if offset+n < f.totalPosts {
			after = strconv.Itoa(offset + n)
		}
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(map[string]any{
			"kind": "Listing",
			"data": map[string]any{"after": after, "children": children},
		})
	}
	mux.HandleFunc("GET /r/{sub}/search", listing)
	mux.HandleFunc("GET /r/{sub}/top", listing)
	return mux
}

func (f *fakeReddit) record(r *http.Request) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.requests = append(f.requests, r)
	f.userAgents = append(f.userAgents, r.Header.Get("User-Agent"))
}

func newTestClient(t *testing.T, fake *fakeReddit, secret string) *RedditClient {
	t.Helper()
	srv := httptest.NewServer(fake.handler(t))
	t.Cleanup(srv.Close)

	client, err := NewRedditClient(slog.New(slog.NewTextHandler(io.Discard, nil)), RedditClientConfig{
		ClientID:     "id",
		ClientSecret: secret,
		UserAgent:    testUserAgent,
		Timeout:      5 * time.Second,
		TokenURL:     srv.URL + "/api/v1/access_token",
		APIURL:       srv.URL,
	})
	require.NoError(t, err)
	return client
}

func TestNewRedditClient_RequiresCredentials(t *testing.T) {
	_, err := NewRedditClient(slog.Default(), RedditClientConfig{ClientID: "id"})
	assert.Error(t, err)
}

func TestNewRedditClient_RejectsUnknownProxyScheme(t *testing.T) {
	_, err := NewRedditClient(slog.Default(), RedditClientConfig{
		ClientID:     "id",
		ClientSecret: "secret",
		ProxyURL:     "ftp://proxy:21",
	})
	assert.ErrorContains(t, err, "unsupported proxy scheme")
}

func TestSearch_BuildsQuery(t *testing.T) {
	fake := &fakeReddit{totalPosts: 3}
	client := newTestClient(t, fake, "secret")

	res := client.Search(context.Background(), "SkincareAddiction", "korean beauty", 5)

	require.True(t, res.Ok(), "%v", res.Err)
	require.Len(t, res.Posts, 3)
	assert.Equal(t, "p0", res.Posts[0].ID)
	assert.Equal(t, 0.9, res.Posts[0].UpvoteRatio)
	assert.Equal(t, "/r/SkincareAddiction/comments/p0/post/", res.Posts[0].Permalink)

	last := fake.requests[len(fake.requests)-1]
	q := last.URL.Query()
	assert.Equal(t, "/r/SkincareAddiction/search", last.URL.Path)
	assert.Equal(t, "korean beauty", q.Get("q"))
	assert.Equal(t, "1", q.Get("restrict_sr"))
	assert.Equal(t, "relevance", q.Get("sort"))
	assert.Equal(t, "5", q.Get("limit"))
}

func TestSearch_PagesUpToLimit(t *testing.T) {
	fake := &fakeReddit{totalPosts: 500}
	client := newTestClient(t, fake, "secret")

	res := client.Search(context.Background(), "kbeauty", "toner", 150)

	require.True(t, res.Ok(), "%v", res.Err)
	assert.Len(t, res.Posts, 150)
	assert.Equal(t, "p149", res.Posts[149].ID)

	var limits []string
	for _, r := range fake.requests {
		if r.URL.Path == "/r/kbeauty/search" {
			limits = append(limits, r.URL.Query().Get("limit"))
		}
	}
	assert.Equal(t, []string{"100", "50"}, limits)
}

func TestSearch_StopsWhenListingEnds(t *testing.T) {
	fake := &fakeReddit{totalPosts: 120}
	client := newTestClient(t, fake, "secret")

	res := client.Search(context.Background(), "kbeauty", "toner", 300)

	require.True(t, res.Ok())
	assert.Len(t, res.Posts, 120)
}

func TestSearch_UserAgentOnEveryRequest(t *testing.T) {
	fake := &fakeReddit{totalPosts: 1}
	client := newTestClient(t, fake, "secret")

	client.Search(context.Background(), "kbeauty", "toner", 1)

	require.Len(t, fake.userAgents, 2, "token request and listing request")
	for _, ua := range fake.userAgents {
		assert.Equal(t, testUserAgent, ua)
	}
}

func TestSearch_StatusErrorIsFailure(t *testing.T) {
	fake := &fakeReddit{listingCode: http.StatusForbidden}
	client := newTestClient(t, fake, "secret")

	res := client.Search(context.Background(), "private_sub", "toner", 10)

	assert.False(t, res.Ok())
	assert.Empty(t, res.Posts)
	assert.ErrorContains(t, res.Err, "reddit returned status 403")
}

func TestSearch_BadCredentialsIsFailure(t *testing.T) {
	fake := &fakeReddit{totalPosts: 3}
	client := newTestClient(t, fake, "wrong")

	res := client.Search(context.Background(), "kbeauty", "toner", 10)

	assert.False(t, res.Ok())
	assert.Empty(t, res.Posts)
}

func TestTop_UsesTimeWindow(t *testing.T) {
	fake := &fakeReddit{totalPosts: 2}
	client := newTestClient(t, fake, "secret")

	res := client.Top(context.Background(), "AsianBeauty", enums.TimeWindowMonth, 10)

	require.True(t, res.Ok(), "%v", res.Err)
	assert.Len(t, res.Posts, 2)
	last := fake.requests[len(fake.requests)-1]
	assert.Equal(t, "/r/AsianBeauty/top", last.URL.Path)
	assert.Equal(t, "month", last.URL.Query().Get("t"))
}

func TestFailure_TruncatesLongErrors(t *testing.T) {
	long := make([]byte, 1000)
	for i := range long {
		long[i] = 'x'
	}

	res := Failure(fmt.Errorf("%s", long))

	assert.Len(t, res.Err.Error(), 303)
}

func TestFailure_TruncatesOnRuneBoundary(t *testing.T) {
	body := "x" + strings.Repeat("피", 200)

	res := Failure(fmt.Errorf("%s", body))

	msg := res.Err.Error()
	assert.True(t, utf8.ValidString(msg))
	assert.True(t, strings.HasSuffix(msg, "피..."))
	assert.LessOrEqual(t, len(msg), 303)
	assert.True(t, strings.HasPrefix(body, strings.TrimSuffix(msg, "...")))
}

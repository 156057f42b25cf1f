package sources

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/kova98/redditscrape/enums"
	"github.com/kova98/redditscrape/models"
	"golang.org/x/oauth2"
	"golang.org/x/oauth2/clientcredentials"
)

const (
	redditTokenURL = "https://www.reddit.com/api/v1/access_token"
	redditAPIURL   = "https://oauth.reddit.com"
	maxPageSize    = 100
)

type RedditClientConfig struct {
	ClientID     string
	ClientSecret string
	UserAgent    string
	ProxyURL     string
	Timeout      time.Duration

	// Overrides for tests; empty means the public Reddit endpoints.
	TokenURL string
	APIURL   string
}

// RedditClient talks to the Reddit API with an application-only OAuth2 token.
type RedditClient struct {
	logger     *slog.Logger
	httpClient *http.Client
	apiURL     string
}

func NewRedditClient(logger *slog.Logger, cfg RedditClientConfig) (*RedditClient, error) {
	if cfg.ClientID == "" || cfg.ClientSecret == "" {
		return nil, errors.New("reddit client id and secret are required")
	}

	base, err := httpClient(cfg.ProxyURL, cfg.Timeout)
	if err != nil {
		return nil, err
	}
	withUserAgent(base, cfg.UserAgent)

	tokenURL := cfg.TokenURL
	if tokenURL == "" {
		tokenURL = redditTokenURL
	}
	apiURL := cfg.APIURL
	if apiURL == "" {
		apiURL = redditAPIURL
	}

	credentials := clientcredentials.Config{
		ClientID:     cfg.ClientID,
		ClientSecret: cfg.ClientSecret,
		TokenURL:     tokenURL,
		AuthStyle:    oauth2.AuthStyleInHeader,
	}
	ctx := context.WithValue(context.Background(), oauth2.HTTPClient, base)
	client := credentials.Client(ctx)
	client.Timeout = cfg.Timeout

	return &RedditClient{
		logger:     logger,
		httpClient: client,
		apiURL:     apiURL,
	}, nil
}

// Search returns up to limit posts of subreddit matching keyword, in
// relevance order.
func (c *RedditClient) Search(ctx context.Context, subreddit, keyword string, limit int) Result {
	params := url.Values{}
	params.Set("q", keyword)
	params.Set("restrict_sr", "1")
	params.Set("sort", "relevance")
	return c.fetchListing(ctx, "/r/"+url.PathEscape(subreddit)+"/search", params, limit)
}

// Top returns up to limit of the highest scored posts of subreddit within
// the time window.
func (c *RedditClient) Top(ctx context.Context, subreddit string, window enums.TimeWindow, limit int) Result {
	params := url.Values{}
	if window == enums.TimeWindowNone {
		window = enums.TimeWindowWeek
	}
	params.Set("t", string(window))
	return c.fetchListing(ctx, "/r/"+url.PathEscape(subreddit)+"/top", params, limit)
}

// fetchListing follows the listing's "after" cursor in pages of at most 100
// until limit posts are collected or the listing ends.
func (c *RedditClient) fetchListing(ctx context.Context, path string, params url.Values, limit int) Result {
	posts := make([]models.RedditPost, 0, min(limit, maxPageSize))
	after := ""

	for len(posts) < limit {
		pageSize := min(limit-len(posts), maxPageSize)

		query := url.Values{}
		for k, v := range params {
			query[k] = v
		}
		query.Set("limit", strconv.Itoa(pageSize))
		query.Set("raw_json", "1")
		if after != "" {
			query.Set("after", after)
		}

		listing, err := c.fetchReddit(ctx, c.apiURL+path+"?"+query.Encode())
		if err != nil {
			return Failure(err)
		}

		page := listing.Posts()
		if len(page) > pageSize {
			page = page[:pageSize]
		}
		posts = append(posts, page...)

		after = listing.Data.After
		if after == "" || len(page) == 0 {
			break
		}
	}

	return Success(posts)
}

func (c *RedditClient) fetchReddit(ctx context.Context, url string) (*models.RedditListing, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Accept", "application/json")

	start := time.Now()
	resp, err := c.httpClient.Do(req)
	requestMs := time.Since(start).Milliseconds()
	if err != nil {
		return nil, fmt.Errorf("(%dms) %w", requestMs, err)
	}
	defer resp.Body.Close()

	c.logger.Debug("reddit request", "url", req.URL.Path, "status", resp.StatusCode, "request_ms", requestMs)

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		return nil, fmt.Errorf("reddit returned status %d: %s", resp.StatusCode, string(body))
	}

	var listing models.RedditListing
	if err := json.NewDecoder(resp.Body).Decode(&listing); err != nil {
		return nil, fmt.Errorf("decode reddit listing: %w", err)
	}

	return &listing, nil
}

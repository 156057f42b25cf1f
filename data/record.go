package data

import (
	"math"
	"strconv"
	"time"

	"github.com/kova98/redditscrape/models"
)

const (
	redditBaseURL  = "https://reddit.com"
	deletedAuthor  = "[deleted]"
	maxExcerptRune = 500
)

// PostRecord is the flat, serialized form of a Reddit post. Field order is
// the column order of the CSV export.
type PostRecord struct {
	ID          string  `json:"id"`
	Title       string  `json:"title"`
	Author      string  `json:"author"`
	CreatedUTC  string  `json:"created_utc"`
	Score       int     `json:"score"`
	UpvoteRatio float64 `json:"upvote_ratio"`
	NumComments int     `json:"num_comments"`
	URL         string  `json:"url"`
	Permalink   string  `json:"permalink"`
	Selftext    string  `json:"selftext"`
	Subreddit   string  `json:"subreddit"`
	Keyword     *string `json:"keyword,omitempty"` // search records only
}

type Field struct {
	Key   string
	Value string
}

// NewPostRecord maps a raw post returned for subreddit. A nil keyword marks a
// record that did not come from a keyword search.
func NewPostRecord(post models.RedditPost, subreddit string, keyword *string) PostRecord {
	author := post.Author
	if author == "" {
		author = deletedAuthor
	}

	record := PostRecord{
		ID:          post.ID,
		Title:       post.Title,
		Author:      author,
		CreatedUTC:  FormatCreated(post.CreatedUTC),
		Score:       post.Score,
		UpvoteRatio: post.UpvoteRatio,
		NumComments: post.NumComments,
		URL:         post.URL,
		Permalink:   redditBaseURL + post.Permalink,
		Selftext:    Excerpt(post.Selftext),
		Subreddit:   subreddit,
	}
	if keyword != nil {
		kw := *keyword
		record.Keyword = &kw
	}
	return record
}

// FormatCreated converts epoch seconds to an RFC 3339 UTC timestamp, keeping
// microseconds when the input has a fractional part.
func FormatCreated(epoch float64) string {
	sec, frac := math.Modf(epoch)
	nsec := int64(math.Round(frac*1e6)) * int64(time.Microsecond)
	return time.Unix(int64(sec), nsec).UTC().Format(time.RFC3339Nano)
}

// Excerpt returns the first 500 code points of s.
func Excerpt(s string) string {
	n := 0
	for i := range s {
		if n == maxExcerptRune {
			return s[:i]
		}
		n++
	}
	return s
}

func (r PostRecord) Fields() []Field {
	fields := []Field{
		{"id", r.ID},
		{"title", r.Title},
		{"author", r.Author},
		{"created_utc", r.CreatedUTC},
		{"score", strconv.Itoa(r.Score)},
		{"upvote_ratio", strconv.FormatFloat(r.UpvoteRatio, 'f', -1, 64)},
		{"num_comments", strconv.Itoa(r.NumComments)},
		{"url", r.URL},
		{"permalink", r.Permalink},
		{"selftext", r.Selftext},
		{"subreddit", r.Subreddit},
	}
	if r.Keyword != nil {
		fields = append(fields, Field{"keyword", *r.Keyword})
	}
	return fields
}

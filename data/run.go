package data

import (
	"fmt"
	"time"

	"github.com/google/uuid"
)

type Run struct {
	ID          uuid.UUID `db:"id"`
	StartedAt   time.Time `db:"started_at"`
	RecordCount int       `db:"record_count"`
}

func NewRun(startedAt time.Time, recordCount int) Run {
	return Run{
		ID:          uuid.New(),
		StartedAt:   startedAt,
		RecordCount: recordCount,
	}
}

type PostRow struct {
	RunID       uuid.UUID `db:"run_id"`
	PostID      string    `db:"post_id"`
	Title       string    `db:"title"`
	Author      string    `db:"author"`
	CreatedUTC  time.Time `db:"created_utc"`
	Score       int       `db:"score"`
	UpvoteRatio float64   `db:"upvote_ratio"`
	NumComments int       `db:"num_comments"`
	URL         string    `db:"url"`
	Permalink   string    `db:"permalink"`
	Selftext    string    `db:"selftext"`
	Subreddit   string    `db:"subreddit"`
	Keyword     *string   `db:"keyword"`
	Language    string    `db:"language"`
}

func NewPostRow(runID uuid.UUID, record PostRecord, language string) (PostRow, error) {
	created, err := time.Parse(time.RFC3339Nano, record.CreatedUTC)
	if err != nil {
		return PostRow{}, fmt.Errorf("parse created_utc of %s: %w", record.ID, err)
	}

	return PostRow{
		RunID:       runID,
		PostID:      record.ID,
		Title:       record.Title,
		Author:      record.Author,
		CreatedUTC:  created,
		Score:       record.Score,
		UpvoteRatio: record.UpvoteRatio,
		NumComments: record.NumComments,
		URL:         record.URL,
		Permalink:   record.Permalink,
		Selftext:    record.Selftext,
		Subreddit:   record.Subreddit,
		Keyword:     record.Keyword,
		Language:    language,
	}, nil
}

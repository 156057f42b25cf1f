package repos

import (
	"fmt"

	"github.com/jmoiron/sqlx"
	"github.com/kova98/redditscrape/data"
)

const (
	// Postgres accepts at most 65535 bind parameters per statement.
	postColumns   = 14
	postBatchSize = 65535 / postColumns

	insertPostsQuery = `
		INSERT INTO posts (run_id, post_id, title, author, created_utc, score, upvote_ratio,
			num_comments, url, permalink, selftext, subreddit, keyword, language)
		VALUES (:run_id, :post_id, :title, :author, :created_utc, :score, :upvote_ratio,
			:num_comments, :url, :permalink, :selftext, :subreddit, :keyword, :language)`
)

type LanguageDetector interface {
	Detect(text string) string
}

type PostRepo struct {
	db       *sqlx.DB
	detector LanguageDetector
}

func NewPostRepo(db *sqlx.DB, detector LanguageDetector) *PostRepo {
	return &PostRepo{db: db, detector: detector}
}

// SaveRun stores the run and every record collected in it. Records are kept
// as-is, a post found under two keywords is stored twice.
func (r *PostRepo) SaveRun(run data.Run, records []data.PostRecord) error {
	rows, err := r.buildRows(run, records)
	if err != nil {
		return err
	}

	tx, err := r.db.Beginx()
	if err != nil {
		return fmt.Errorf("begin save run: %w", err)
	}
	defer tx.Rollback()

	query := `
		INSERT INTO runs (id, started_at, record_count)
		VALUES (:id, :started_at, :record_count)`
	if _, err := tx.NamedExec(query, run); err != nil {
		return fmt.Errorf("create run: %w", err)
	}

	for _, chunk := range chunkRows(rows, postBatchSize) {
		if _, err := tx.NamedExec(insertPostsQuery, chunk); err != nil {
			return fmt.Errorf("create posts: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit save run: %w", err)
	}

	return nil
}

func (r *PostRepo) buildRows(run data.Run, records []data.PostRecord) ([]data.PostRow, error) {
	rows := make([]data.PostRow, 0, len(records))
	for _, record := range records {
		language := ""
		if r.detector != nil {
			language = r.detector.Detect(record.Title + " " + record.Selftext)
		}
		row, err := data.NewPostRow(run.ID, record, language)
		if err != nil {
			return nil, err
		}
		rows = append(rows, row)
	}
	return rows, nil
}

func chunkRows(rows []data.PostRow, size int) [][]data.PostRow {
	chunks := make([][]data.PostRow, 0, (len(rows)+size-1)/size)
	for i := 0; i < len(rows); i += size {
		chunks = append(chunks, rows[i:min(i+size, len(rows))])
	}
	return chunks
}

func (r *PostRepo) CountByRun(run data.Run) (int, error) {
	var count int
	err := r.db.Get(&count, "SELECT COUNT(*) FROM posts WHERE run_id = $1", run.ID)
	if err != nil {
		return 0, fmt.Errorf("count posts by run: %w", err)
	}
	return count, nil
}

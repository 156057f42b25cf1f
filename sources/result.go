package sources

import (
	"fmt"
	"unicode/utf8"

	"github.com/kova98/redditscrape/models"
)

// Result is the outcome of one listing call: either the posts or the reason
// the call failed.
type Result struct {
	Posts []models.RedditPost
	Err   error
}

func (r Result) Ok() bool {
	return r.Err == nil
}

func Success(posts []models.RedditPost) Result {
	return Result{Posts: posts}
}

func Failure(err error) Result {
	return Result{Err: truncateError(err)}
}

const maxErrorBytes = 300

// truncateError shortens long error bodies to at most 300 bytes, cutting on
// a rune boundary.
func truncateError(err error) error {
	msg := err.Error()
	if len(msg) > maxErrorBytes {
		cut := maxErrorBytes
		for cut > 0 && !utf8.RuneStart(msg[cut]) {
			cut--
		}
		return fmt.Errorf("%s...", msg[:cut])
	}
	return err
}

package matchers

import (
	"strings"

	"github.com/kova98/redditscrape/enums"
	"github.com/kova98/redditscrape/models"
)

// MatchesPost reports whether a search hit literally contains the keyword in
// its title or body. Reddit search also returns stemmed and fuzzy hits; mode
// MatchModeNone keeps all of them.
func MatchesPost(post models.RedditPost, keyword string, mode enums.MatchMode) bool {
	text := strings.ToLower(post.Title + " " + post.Selftext)
	kw := strings.ToLower(strings.TrimSpace(keyword))

	switch mode {
	case enums.MatchModeExact:
		return MatchesWholeWord(text, kw)
	case enums.MatchModeBroad:
		return MatchesPartially(text, kw)
	default:
		return true
	}
}

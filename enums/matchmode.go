package enums

import "fmt"

type MatchMode string

const (
	// MatchModeNone keeps every post the search endpoint returns.
	MatchModeNone MatchMode = ""

	// MatchModeBroad allows partial matches within words.
	// For example, the keyword "cat" will match "cat", "catalog", and "concatenate".
	MatchModeBroad MatchMode = "broad"

	// MatchModeExact requires an exact match of the whole word.
	// For example, the keyword "cat" will match "cat" but not "catalog" or "concatenate".
	MatchModeExact MatchMode = "exact"
)

func ParseMatchMode(s string) (MatchMode, error) {
	switch m := MatchMode(s); m {
	case MatchModeNone, MatchModeBroad, MatchModeExact:
		return m, nil
	}
	return MatchModeNone, fmt.Errorf("invalid match mode: %q", s)
}

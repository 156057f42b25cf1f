package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/kova98/redditscrape/enums"
	"gopkg.in/yaml.v3"
)

const DefaultLimit = 100

// SearchConfig drives one collection run. It is read once at start-up and
// passed by value.
type SearchConfig struct {
	Keywords   []string
	Subreddits []string
	Limit      int
	TopWindow  enums.TimeWindow
	MatchMode  enums.MatchMode
}

// searchFile mirrors config.json. Pointer fields tell an absent key apart
// from an empty one.
type searchFile struct {
	Keywords   *[]string `json:"keywords" yaml:"keywords"`
	Subreddits *[]string `json:"subreddits" yaml:"subreddits"`
	Limit      *int      `json:"limit" yaml:"limit"`
	TopWindow  *string   `json:"top_window" yaml:"top_window"`
	MatchMode  *string   `json:"match_mode" yaml:"match_mode"`
}

func DefaultSearchConfig() SearchConfig {
	return SearchConfig{
		Keywords:   []string{"skincare", "kbeauty", "korean beauty"},
		Subreddits: []string{"kbeauty", "SkincareAddiction", "AsianBeauty"},
		Limit:      DefaultLimit,
	}
}

// LoadSearchConfig reads the search configuration at path. A missing file
// yields the defaults; every key absent from the file falls back to its
// default individually. Files ending in .yaml or .yml are read as YAML,
// anything else as JSON.
func LoadSearchConfig(path string) (SearchConfig, error) {
	cfg := DefaultSearchConfig()

	raw, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return cfg, nil
	}
	if err != nil {
		return SearchConfig{}, fmt.Errorf("failed to read config file: %w", err)
	}

	var file searchFile
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		err = yaml.Unmarshal(raw, &file)
	default:
		err = json.Unmarshal(raw, &file)
	}
	if err != nil {
		return SearchConfig{}, fmt.Errorf("failed to parse config file: %w", err)
	}

	if file.Keywords != nil {
		cfg.Keywords = *file.Keywords
	}
	if file.Subreddits != nil {
		cfg.Subreddits = *file.Subreddits
	}
	if file.Limit != nil {
		if *file.Limit <= 0 {
			return SearchConfig{}, fmt.Errorf("invalid limit %d: must be positive", *file.Limit)
		}
		cfg.Limit = *file.Limit
	}
	if file.TopWindow != nil {
		if cfg.TopWindow, err = enums.ParseTimeWindow(*file.TopWindow); err != nil {
			return SearchConfig{}, err
		}
	}
	if file.MatchMode != nil {
		if cfg.MatchMode, err = enums.ParseMatchMode(*file.MatchMode); err != nil {
			return SearchConfig{}, err
		}
	}

	return cfg, nil
}

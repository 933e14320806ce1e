package scraper

import (
	"encoding/json"
	"fmt"
	"os"
)

type SelectorConfig struct {
	DealList ListSelectors `json:"deal_list"`
}

type ListSelectors struct {
	Container ListContainer `json:"container"`
	Elements  ListElements  `json:"elements"`
}

type ListContainer struct {
	Item string `json:"item"` // e.g., "div.js-threadList article"
}

type ListElements struct {
	ThreadLink string `json:"thread_link"`
	DataBlob   string `json:"data_blob"`
	DataAttr   string `json:"data_attr"`
}

// LoadSelectors loads the selector configuration from the specified JSON file.
func LoadSelectors(path string) (SelectorConfig, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return SelectorConfig{}, fmt.Errorf("failed to read selector config file: %w", err)
	}

	return LoadSelectorsFromBytes(data)
}

// LoadSelectorsFromBytes parses selector configuration from raw JSON bytes.
// This supports loading from embedded data via go:embed.
func LoadSelectorsFromBytes(data []byte) (SelectorConfig, error) {
	var config SelectorConfig
	if err := json.Unmarshal(data, &config); err != nil {
		return SelectorConfig{}, fmt.Errorf("failed to parse selector config JSON: %w", err)
	}

	return config, nil
}

// DefaultSelectors returns the fallback configuration if no JSON file is loaded.
// The embedded selectors.json should be preferred; keep the two in sync.
func DefaultSelectors() SelectorConfig {
	return SelectorConfig{
		DealList: ListSelectors{
			Container: ListContainer{
				Item: "div.js-threadList article",
			},
			Elements: ListElements{
				ThreadLink: `a[data-t="threadLink"]`,
				DataBlob:   "div.js-vue2",
				DataAttr:   "data-vue2",
			},
		},
	}
}

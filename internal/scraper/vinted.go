package scraper

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"strings"
)

// Item is the intermediate record extracted from one marketplace catalog
// entry. PublishedAt is epoch seconds, 0 when the source carries none.
type Item struct {
	Link        string
	Title       string
	Brand       string
	Price       float64
	PublishedAt int64
}

type catalogResponse struct {
	Items []json.RawMessage `json:"items"`
}

type catalogItem struct {
	URL            string `json:"url"`
	Title          string `json:"title"`
	BrandTitle     string `json:"brand_title"`
	TotalItemPrice struct {
		Amount json.Number `json:"amount"`
	} `json:"total_item_price"`
	Photo *struct {
		HighResolution *struct {
			Timestamp int64 `json:"timestamp"`
		} `json:"high_resolution"`
	} `json:"photo"`
}

// VintedParser extracts catalog items from a marketplace search response,
// keeping only items whose brand matches the configured brand filter.
type VintedParser struct {
	brand string
}

func NewVintedParser(brand string) *VintedParser {
	return &VintedParser{brand: brand}
}

// Parse decodes the search payload item by item so that one malformed
// entry never discards the rest of the page. Items with a missing or
// non-matching brand are dropped silently; the brand match is
// case-insensitive.
func (p *VintedParser) Parse(body []byte) ([]Item, error) {
	var payload catalogResponse
	if err := json.Unmarshal(body, &payload); err != nil {
		return nil, fmt.Errorf("failed to parse catalog payload: %w", err)
	}

	items := make([]Item, 0, len(payload.Items))
	for _, raw := range payload.Items {
		var entry catalogItem
		if err := json.Unmarshal(raw, &entry); err != nil {
			slog.Warn("Skipping malformed catalog item", "error", err)
			continue
		}

		brand := strings.TrimSpace(entry.BrandTitle)
		if brand == "" || !strings.EqualFold(brand, p.brand) {
			continue
		}

		price, err := entry.TotalItemPrice.Amount.Float64()
		if err != nil {
			slog.Warn("Skipping catalog item with unusable price", "link", entry.URL, "error", err)
			continue
		}

		item := Item{
			Link:  entry.URL,
			Title: entry.Title,
			Brand: brand,
			Price: price,
		}
		if entry.Photo != nil && entry.Photo.HighResolution != nil {
			item.PublishedAt = entry.Photo.HighResolution.Timestamp
		}
		items = append(items, item)
	}
	return items, nil
}

package scraper

import (
	"bytes"
	"encoding/json"
	"fmt"
	"log/slog"

	"github.com/PuerkitoBio/goquery"
)

const imageBaseURL = "https://static-pepper.dealabs.com"

// Thread is the intermediate record extracted from one listing node on a
// deal-aggregator page, before normalization. Field shapes follow the
// source payload: prices may be absent, PublishedAt is epoch seconds.
type Thread struct {
	Link          string
	Title         string
	Price         *float64
	NextBestPrice *float64
	PublishedAt   int64
	CommentCount  int
	Temperature   *float64
	IsExpired     bool
	PhotoURL      string
}

// vueBlob mirrors the JSON embedded in each listing node's data attribute.
type vueBlob struct {
	Props struct {
		Thread *threadPayload `json:"thread"`
	} `json:"props"`
}

type threadPayload struct {
	Title         string   `json:"title"`
	Price         *float64 `json:"price"`
	NextBestPrice *float64 `json:"nextBestPrice"`
	PublishedAt   int64    `json:"publishedAt"`
	CommentCount  int      `json:"commentCount"`
	Temperature   *float64 `json:"temperature"`
	IsExpired     bool     `json:"isExpired"`
	MainImage     *struct {
		Path string `json:"path"`
		Name string `json:"name"`
		Ext  string `json:"ext"`
	} `json:"mainImage"`
}

// DealabsParser extracts listing records from a deal-aggregator HTML page.
type DealabsParser struct {
	selectors SelectorConfig
}

func NewDealabsParser(selectors SelectorConfig) *DealabsParser {
	return &DealabsParser{selectors: selectors}
}

// Parse walks every listing node on the page and returns the threads that
// carry a usable embedded data blob. A node with no blob, a malformed
// blob, or no thread payload is skipped without aborting the page.
func (p *DealabsParser) Parse(body []byte) ([]Thread, error) {
	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("failed to parse listing page: %w", err)
	}

	list := p.selectors.DealList

	var threads []Thread
	skipped := 0
	doc.Find(list.Container.Item).Each(func(_ int, s *goquery.Selection) {
		link, _ := s.Find(list.Elements.ThreadLink).Attr("href")

		raw, ok := s.Find(list.Elements.DataBlob).Attr(list.Elements.DataAttr)
		if !ok {
			skipped++
			return
		}

		var blob vueBlob
		if err := json.Unmarshal([]byte(raw), &blob); err != nil {
			slog.Warn("Skipping listing with malformed data blob", "link", link, "error", err)
			skipped++
			return
		}
		payload := blob.Props.Thread
		if payload == nil {
			skipped++
			return
		}

		thread := Thread{
			Link:          link,
			Title:         payload.Title,
			Price:         payload.Price,
			NextBestPrice: payload.NextBestPrice,
			PublishedAt:   payload.PublishedAt,
			CommentCount:  payload.CommentCount,
			Temperature:   payload.Temperature,
			IsExpired:     payload.IsExpired,
		}
		if img := payload.MainImage; img != nil {
			thread.PhotoURL = fmt.Sprintf("%s/%s/%s.%s", imageBaseURL, img.Path, img.Name, img.Ext)
		}
		threads = append(threads, thread)
	})

	if skipped > 0 {
		slog.Info("Skipped listings without usable thread payload", "count", skipped)
	}
	return threads, nil
}

package normalize

import (
	"errors"
	"fmt"
	"math"
	"regexp"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/aeeint/lego/internal/models"
	"github.com/aeeint/lego/internal/scraper"
	"github.com/aeeint/lego/internal/util"
	"github.com/aeeint/lego/internal/validator"
)

// ErrMissingIdentity is returned when a record carries no identity key
// (deal link or sale link) and therefore cannot be deduplicated.
var ErrMissingIdentity = errors.New("record has no identity key")

// catalogIDPattern matches the 5-digit set number embedded in listing
// titles. When a title contains more than one match, the leftmost wins.
var catalogIDPattern = regexp.MustCompile(`\b\d{5}\b`)

// Normalizer maps source-shaped intermediate records into the canonical
// Deal and Sale entities, validating each before it is accepted.
type Normalizer struct {
	validate *validator.Validator
}

func New() *Normalizer {
	return &Normalizer{validate: validator.New()}
}

// ExtractCatalogID returns the first 5-digit code found in title, or nil
// when the title carries none. Catalog linkage is best-effort: a nil
// result means "unlinkable", never an error.
func ExtractCatalogID(title string) *string {
	match := catalogIDPattern.FindString(title)
	if match == "" {
		return nil
	}
	return &match
}

// DiscountPercent computes round((1 - price/reference) * 100) when both
// prices are present and the reference is positive. A result outside
// [0,100] (e.g. a deal priced above its reference) is treated as no
// discount rather than a bogus one.
func DiscountPercent(price, reference *float64) *int {
	if price == nil || reference == nil || *reference <= 0 {
		return nil
	}
	discount := int(math.Round((1 - *price / *reference) * 100))
	if discount < 0 || discount > 100 {
		return nil
	}
	return &discount
}

// Identity derives the stable dedup key for a sale link: a UUIDv5 in the
// URL namespace, so re-ingesting the same link always yields the same key.
func Identity(link string) string {
	return uuid.NewSHA1(uuid.NameSpaceURL, []byte(link)).String()
}

func isoFromEpoch(sec int64) *string {
	if sec <= 0 {
		return nil
	}
	s := time.Unix(sec, 0).UTC().Format(time.RFC3339)
	return &s
}

func roundedScore(temperature *float64) *int {
	if temperature == nil {
		return nil
	}
	score := int(math.Round(*temperature))
	return &score
}

// Deal maps one parsed aggregator thread to a canonical Deal. The thread
// link is canonicalized first so tracking-parameter variants of the same
// thread dedup to one entry.
func (n *Normalizer) Deal(thread scraper.Thread) (models.Deal, error) {
	if strings.TrimSpace(thread.Link) == "" {
		return models.Deal{}, ErrMissingIdentity
	}

	link := thread.Link
	if normalized, err := util.NormalizeLink(link); err == nil {
		link = normalized
	}

	deal := models.Deal{
		Link:            link,
		Title:           thread.Title,
		Price:           thread.Price,
		ReferencePrice:  thread.NextBestPrice,
		DiscountPercent: DiscountPercent(thread.Price, thread.NextBestPrice),
		PublishedAt:     isoFromEpoch(thread.PublishedAt),
		CommentCount:    thread.CommentCount,
		PopularityScore: roundedScore(thread.Temperature),
		CatalogID:       ExtractCatalogID(thread.Title),
		Expired:         thread.IsExpired,
	}
	if thread.PhotoURL != "" {
		deal.PhotoURL = &thread.PhotoURL
	}

	if err := n.validate.ValidateStruct(deal); err != nil {
		return models.Deal{}, fmt.Errorf("deal %s rejected: %w", link, err)
	}
	return deal, nil
}

// Sale maps one parsed marketplace item to a canonical Sale tied to the
// catalog id that was queried for it. A missing source timestamp becomes
// the explicit invalid-date sentinel, never an empty value.
func (n *Normalizer) Sale(item scraper.Item, catalogID string) (models.Sale, error) {
	if strings.TrimSpace(item.Link) == "" {
		return models.Sale{}, ErrMissingIdentity
	}

	published := models.InvalidDate
	if item.PublishedAt > 0 {
		published = time.Unix(item.PublishedAt, 0).UTC().Format(time.RFC3339)
	}

	sale := models.Sale{
		CatalogID:   catalogID,
		Link:        item.Link,
		Title:       item.Title,
		Price:       item.Price,
		Brand:       item.Brand,
		PublishedAt: published,
		Identity:    Identity(item.Link),
	}

	if err := n.validate.ValidateStruct(sale); err != nil {
		return models.Sale{}, fmt.Errorf("sale %s rejected: %w", item.Link, err)
	}
	return sale, nil
}

package models

// InvalidDate is the sentinel stored in Sale.PublishedAt when the source
// payload carries no usable timestamp. Downstream consumers must treat it
// as "unknown", never parse it.
const InvalidDate = "Invalid Date"

// Sale represents one resale-marketplace listing fetched for a catalog id.
// Identity is a deterministic hash of Link, so re-ingesting the same
// listing always collides with its earlier self instead of duplicating it.
type Sale struct {
	CatalogID   string  `json:"catalogId"`
	Link        string  `json:"link" validate:"required,url"`
	Title       string  `json:"title"`
	Price       float64 `json:"price" validate:"gte=0"`
	Brand       string  `json:"brand"`
	PublishedAt string  `json:"publishedAt"`
	Identity    string  `json:"identity" validate:"required"`
}

package models

// Deal represents one normalized aggregator listing. Link is the identity
// key: two deals with the same link are the same entity, and the merge
// step never creates a second entry for it.
type Deal struct {
	Link            string   `json:"link" validate:"required,url"`
	Title           string   `json:"title"`
	Price           *float64 `json:"price" validate:"omitempty,gte=0"`
	ReferencePrice  *float64 `json:"referencePrice" validate:"omitempty,gte=0"`
	DiscountPercent *int     `json:"discountPercent" validate:"omitempty,gte=0,lte=100"`
	PublishedAt     *string  `json:"publishedAt"`
	CommentCount    int      `json:"commentCount" validate:"gte=0"`
	PopularityScore *int     `json:"popularityScore"`
	CatalogID       *string  `json:"catalogId"`
	PhotoURL        *string  `json:"photoUrl" validate:"omitempty,url"`
	Expired         bool     `json:"expired"`
}

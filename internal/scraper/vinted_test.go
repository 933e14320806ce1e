package scraper

import "testing"

const catalogPage = `{
  "items": [
    {
      "url": "https://www.vinted.fr/items/111-lego-42181",
      "title": "LEGO 42181 VTOL neuf",
      "brand_title": "Lego",
      "total_item_price": {"amount": "74.50", "currency_code": "EUR"},
      "photo": {"high_resolution": {"timestamp": 1700000000}}
    },
    {
      "url": "https://www.vinted.fr/items/222-playmobil",
      "title": "Playmobil pirates",
      "brand_title": "Playmobil",
      "total_item_price": {"amount": "15.00"}
    },
    {
      "url": "https://www.vinted.fr/items/333-lot",
      "title": "Lot briques sans marque",
      "total_item_price": {"amount": "9.99"}
    },
    {
      "url": "https://www.vinted.fr/items/444-lego-no-photo",
      "title": "LEGO City 60380",
      "brand_title": "LEGO",
      "total_item_price": {"amount": "42.00"}
    },
    {
      "url": "https://www.vinted.fr/items/555-bad-price",
      "title": "LEGO broken price",
      "brand_title": "Lego",
      "total_item_price": {"amount": "not-a-number"}
    }
  ]
}`

func TestVintedParserParse(t *testing.T) {
	parser := NewVintedParser("Lego")

	items, err := parser.Parse([]byte(catalogPage))
	if err != nil {
		t.Fatalf("Parse() error = %v", err)
	}

	// Non-matching brand, missing brand, and unusable price are dropped.
	if len(items) != 2 {
		t.Fatalf("Parse() returned %d items, want 2", len(items))
	}

	first := items[0]
	if first.Link != "https://www.vinted.fr/items/111-lego-42181" {
		t.Errorf("Link = %q", first.Link)
	}
	if first.Price != 74.50 {
		t.Errorf("Price = %v, want 74.50", first.Price)
	}
	if first.PublishedAt != 1700000000 {
		t.Errorf("PublishedAt = %d, want 1700000000", first.PublishedAt)
	}

	// Brand match is case-insensitive, missing photo defaults to 0.
	second := items[1]
	if second.Brand != "LEGO" {
		t.Errorf("Brand = %q, want LEGO", second.Brand)
	}
	if second.PublishedAt != 0 {
		t.Errorf("PublishedAt = %d, want 0", second.PublishedAt)
	}
}

func TestVintedParserParseEdgeCases(t *testing.T) {
	parser := NewVintedParser("Lego")

	tests := []struct {
		name    string
		body    string
		want    int
		wantErr bool
	}{
		{"empty items", `{"items": []}`, 0, false},
		{"missing items key", `{}`, 0, false},
		{"malformed payload", `{"items": `, 0, true},
		{
			"malformed item is skipped",
			`{"items": [
				{"url": 42},
				{"url": "https://www.vinted.fr/items/1-lego", "title": "LEGO", "brand_title": "Lego", "total_item_price": {"amount": "5"}}
			]}`,
			1,
			false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			items, err := parser.Parse([]byte(tt.body))
			if (err != nil) != tt.wantErr {
				t.Fatalf("Parse() error = %v, wantErr %v", err, tt.wantErr)
			}
			if len(items) != tt.want {
				t.Errorf("Parse() returned %d items, want %d", len(items), tt.want)
			}
		})
	}
}

package scraper

import (
	"testing"
)

const listingPage = `
<html><body>
<div class="js-threadList">
  <article>
    <a data-t="threadLink" href="https://www.dealabs.com/bons-plans/lego-42181-2984712">LEGO 42181</a>
    <div class="js-vue2" data-vue2='{"props":{"thread":{"title":"LEGO Technic 42181 VTOL","price":89.99,"nextBestPrice":129.99,"publishedAt":1700000000,"commentCount":14,"temperature":245.6,"isExpired":false,"mainImage":{"path":"threads/raw/umkek","name":"3059739_1","ext":"jpg"}}}}'></div>
  </article>
  <article>
    <a data-t="threadLink" href="https://www.dealabs.com/bons-plans/no-blob-1">no blob</a>
  </article>
  <article>
    <a data-t="threadLink" href="https://www.dealabs.com/bons-plans/bad-json-2">bad json</a>
    <div class="js-vue2" data-vue2='{"props":{"thread":'></div>
  </article>
  <article>
    <a data-t="threadLink" href="https://www.dealabs.com/bons-plans/no-thread-3">no thread</a>
    <div class="js-vue2" data-vue2='{"props":{}}'></div>
  </article>
  <article>
    <a data-t="threadLink" href="https://www.dealabs.com/bons-plans/lego-expired-4">expired</a>
    <div class="js-vue2" data-vue2='{"props":{"thread":{"title":"LEGO 10300 DeLorean","isExpired":true}}}'></div>
  </article>
</div>
</body></html>`

func TestDealabsParserParse(t *testing.T) {
	parser := NewDealabsParser(DefaultSelectors())

	threads, err := parser.Parse([]byte(listingPage))
	if err != nil {
		t.Fatalf("Parse() error = %v", err)
	}

	// Three of the five articles carry no usable payload.
	if len(threads) != 2 {
		t.Fatalf("Parse() returned %d threads, want 2", len(threads))
	}

	first := threads[0]
	if first.Link != "https://www.dealabs.com/bons-plans/lego-42181-2984712" {
		t.Errorf("Link = %q", first.Link)
	}
	if first.Title != "LEGO Technic 42181 VTOL" {
		t.Errorf("Title = %q", first.Title)
	}
	if first.Price == nil || *first.Price != 89.99 {
		t.Errorf("Price = %v, want 89.99", first.Price)
	}
	if first.NextBestPrice == nil || *first.NextBestPrice != 129.99 {
		t.Errorf("NextBestPrice = %v, want 129.99", first.NextBestPrice)
	}
	if first.PublishedAt != 1700000000 {
		t.Errorf("PublishedAt = %d, want 1700000000", first.PublishedAt)
	}
	if first.CommentCount != 14 {
		t.Errorf("CommentCount = %d, want 14", first.CommentCount)
	}
	if first.Temperature == nil || *first.Temperature != 245.6 {
		t.Errorf("Temperature = %v, want 245.6", first.Temperature)
	}
	wantPhoto := "https://static-pepper.dealabs.com/threads/raw/umkek/3059739_1.jpg"
	if first.PhotoURL != wantPhoto {
		t.Errorf("PhotoURL = %q, want %q", first.PhotoURL, wantPhoto)
	}

	second := threads[1]
	if !second.IsExpired {
		t.Error("expected second thread to be expired")
	}
	if second.Price != nil {
		t.Errorf("Price = %v, want nil", second.Price)
	}
	if second.PhotoURL != "" {
		t.Errorf("PhotoURL = %q, want empty", second.PhotoURL)
	}
}

func TestDealabsParserParseEmptyPage(t *testing.T) {
	parser := NewDealabsParser(DefaultSelectors())

	threads, err := parser.Parse([]byte(`<html><body><div class="js-threadList"></div></body></html>`))
	if err != nil {
		t.Fatalf("Parse() error = %v", err)
	}
	if len(threads) != 0 {
		t.Errorf("Parse() returned %d threads, want 0", len(threads))
	}
}
